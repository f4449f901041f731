package sim

import "fmt"

// Config holds the construction parameters for a Simulation.
type Config struct {
	NumCars          int     `json:"num_cars"`           // target car population
	HighwayLength    float64 `json:"highway_length_m"`   // metres of simulated road
	BadPracticeRatio float64 `json:"bad_practice_ratio"` // fraction of drivers who camp in the middle lane [0,1]
	SpawnProbability float64 `json:"spawn_probability"`  // per-slot chance of a replacement car each tick [0,1]
	TimeStep         float64 `json:"time_step_s"`        // simulated seconds per tick

	// Seed selects the RNG stream; 0 derives a seed from the wall clock.
	Seed int64 `json:"seed,omitempty"`
}

// DefaultConfig returns the baseline study parameters.
func DefaultConfig() Config {
	return Config{
		NumCars:          15,
		HighwayLength:    2000.0,
		BadPracticeRatio: 0.0,
		SpawnProbability: 0.3,
		TimeStep:         0.1,
	}
}

// Validate rejects configurations the engine cannot run. New calls this
// before any state is built, so a bad config never yields a partial engine.
func (c Config) Validate() error {
	if c.NumCars <= 0 {
		return fmt.Errorf("num_cars must be positive, got %d", c.NumCars)
	}
	if c.HighwayLength <= 0 {
		return fmt.Errorf("highway_length_m must be positive, got %v", c.HighwayLength)
	}
	if c.BadPracticeRatio < 0 || c.BadPracticeRatio > 1 {
		return fmt.Errorf("bad_practice_ratio must be within [0,1], got %v", c.BadPracticeRatio)
	}
	if c.SpawnProbability < 0 || c.SpawnProbability > 1 {
		return fmt.Errorf("spawn_probability must be within [0,1], got %v", c.SpawnProbability)
	}
	if c.TimeStep <= 0 {
		return fmt.Errorf("time_step_s must be positive, got %v", c.TimeStep)
	}
	return nil
}
