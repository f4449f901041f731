package sim

// updateLane applies the lane-choice rules to one car. Rule order is part of
// the model:
//
//  1. a compliant driver returns right whenever the right lane is safe;
//  2. a middle-lane camper usually stays put (middleLaneDwell roll) and
//     makes no further lane decision this tick;
//  3. a driver catching slower traffic moves left to pass when the left
//     lane is safe;
//  4. a compliant driver who did not pass returns right when safe.
func (s *Simulation) updateLane(c *Car) {
	if !c.FollowsBadPractice && s.shouldMoveRight(c) {
		c.Lane = c.Lane.Right()
		return
	}

	if c.FollowsBadPractice && c.Lane == LaneMiddle {
		if s.rng.Float64() < middleLaneDwell {
			return
		}
	}

	if ahead, _ := s.carAhead(c); ahead != nil && ahead.Speed < c.Speed {
		if s.canPassLeft(c) {
			c.Lane = c.Lane.Left()
			return
		}
	}

	if !c.FollowsBadPractice && c.Lane != LaneRight && s.shouldMoveRight(c) {
		c.Lane = c.Lane.Right()
	}
}

// canPassLeft reports whether c may change into the next lane to the left.
func (s *Simulation) canPassLeft(c *Car) bool {
	if c.Lane.IsLeftmost() {
		return false
	}
	return s.laneIsSafe(c, c.Lane.Left())
}

// shouldMoveRight reports whether c may return one lane to the right.
func (s *Simulation) shouldMoveRight(c *Car) bool {
	if c.Lane.IsRightmost() {
		return false
	}
	return s.laneIsSafe(c, c.Lane.Right())
}

// laneIsSafe reports whether c can merge into the target lane. The merge is
// rejected when any occupant of the target lane sits within
// safeLaneChangeDistance strictly behind c. Occupants ahead never reject a
// merge; cutting in close ahead of traffic is allowed and is one of the ways
// pressure builds.
func (s *Simulation) laneIsSafe(c *Car, target Lane) bool {
	for _, other := range s.cars {
		if other.Lane != target {
			continue
		}
		if forwardGap(other, c) < safeLaneChangeDistance {
			return false
		}
	}
	return true
}
