package sim

// Car is one vehicle on the highway. Cars are owned by a Simulation: the
// engine mutates them in place during the tick passes, and external readers
// only ever see CarView copies.
type Car struct {
	Position float64 // metres from the highway start
	Speed    float64 // km/h, kept within [0, MaxSpeed]
	MaxSpeed float64 // km/h, fixed at creation
	Lane     Lane

	// FollowsBadPractice marks a driver who camps in the middle lane
	// instead of returning to the right when it is free.
	FollowsBadPractice bool
}

// CarView is a read-only snapshot of one car, taken at a tick boundary.
// Blocked is derived at snapshot time so renderers don't re-run the query.
type CarView struct {
	Position           float64 `json:"position_m"`
	Speed              float64 `json:"speed_kph"`
	MaxSpeed           float64 `json:"max_speed_kph"`
	Lane               Lane    `json:"lane"`
	LaneName           string  `json:"lane_name"`
	FollowsBadPractice bool    `json:"follows_bad_practice"`
	Blocked            bool    `json:"blocked"`
}
