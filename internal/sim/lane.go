package sim

// Lane identifies one of the three highway lanes, numbered from the
// rightmost (default) lane up to the leftmost (passing) lane.
type Lane int

const (
	LaneRight  Lane = 0
	LaneMiddle Lane = 1
	LaneLeft   Lane = 2
)

// laneCount is the number of lanes on the highway.
const laneCount = 3

// Valid reports whether l is one of the three highway lanes.
func (l Lane) Valid() bool {
	return l >= LaneRight && l <= LaneLeft
}

// IsLeftmost reports whether l is the passing lane.
func (l Lane) IsLeftmost() bool { return l == LaneLeft }

// IsRightmost reports whether l is the default lane.
func (l Lane) IsRightmost() bool { return l == LaneRight }

// Left returns the next lane toward the passing side. The leftmost lane is
// returned unchanged; callers check IsLeftmost before moving.
func (l Lane) Left() Lane {
	if l.IsLeftmost() {
		return l
	}
	return l + 1
}

// Right returns the next lane toward the default side. The rightmost lane is
// returned unchanged; callers check IsRightmost before moving.
func (l Lane) Right() Lane {
	if l.IsRightmost() {
		return l
	}
	return l - 1
}

func (l Lane) String() string {
	switch l {
	case LaneRight:
		return "right"
	case LaneMiddle:
		return "middle"
	case LaneLeft:
		return "left"
	default:
		return "invalid"
	}
}
