package sim

import (
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Model constants. These define the study, not a tuning surface; the
// statistical results only mean anything against these values.
const (
	safeLaneChangeDistance  = 50.0  // m clear behind in a target lane before merging
	minFollowingDistance    = 30.0  // m base following distance
	followingDistancePerKmh = 0.5   // extra following metres per km/h of own speed
	matchSpeedFactor        = 1.5   // multiple of safe distance where followers match the leader
	acceleration            = 2.0   // km/h gained per simulated second
	braking                 = 5.0   // km/h shed per simulated second
	leaderSpeedMargin       = 5.0   // km/h below the leader after a hard brake
	middleLaneDwell         = 0.7   // chance a middle-lane camper stays put each tick
	spawnWindow             = 20.0  // m from the highway start where new cars enter
	spawnClearance          = 30.0  // m required to existing same-lane cars at spawn
	jamChainDistance        = 100.0 // m between consecutive blocked cars in a chain
	jamMinBlocked           = 3     // blocked cars needed before chains are considered
	warmupTicks             = 100   // ticks before Run acts on the jam flag
)

// Max-speed draw (km/h): triangular, skewed so most drivers sit near the mode.
const (
	maxSpeedLow  = 90.0
	maxSpeedHigh = 130.0
	maxSpeedMode = 128.0
)

// Initial speed as a fraction of the car's max speed.
const (
	initialSpeedFracLow  = 0.90
	initialSpeedFracHigh = 0.98
)

// Simulation owns the car collection and advances it tick by tick.
// It is not safe for concurrent use: all mutation happens through Step and
// Run on one goroutine, and callers that share an instance serialize access
// around it.
type Simulation struct {
	cfg      Config
	rng      *rand.Rand
	maxSpeed distuv.Triangle

	cars        []*Car // sorted by position ascending at every tick boundary
	tick        int
	jamDetected bool
}

// New builds a simulation with cfg.NumCars cars spread along the highway.
// The configuration is validated before any state exists.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	src := rand.NewPCG(uint64(seed), uint64(seed))

	s := &Simulation{
		cfg:      cfg,
		rng:      rand.New(src),
		maxSpeed: distuv.NewTriangle(maxSpeedLow, maxSpeedHigh, maxSpeedMode, src),
	}
	for i := 0; i < cfg.NumCars; i++ {
		position := s.rng.Float64() * cfg.HighwayLength
		lane := Lane(s.rng.IntN(laneCount))
		s.cars = append(s.cars, s.newCar(position, lane))
	}
	s.sortCars()
	return s, nil
}

// newCar draws the remaining attributes for a car entering at the given spot.
func (s *Simulation) newCar(position float64, lane Lane) *Car {
	maxSpeed := s.maxSpeed.Rand()
	frac := initialSpeedFracLow + (initialSpeedFracHigh-initialSpeedFracLow)*s.rng.Float64()
	return &Car{
		Position:           position,
		Speed:              maxSpeed * frac,
		MaxSpeed:           maxSpeed,
		Lane:               lane,
		FollowsBadPractice: s.rng.Float64() < s.cfg.BadPracticeRatio,
	}
}

// Step advances the simulation by one tick. The pass order is fixed: lanes,
// speeds, positions, population turnover, re-sort, jam detection.
func (s *Simulation) Step() {
	for _, c := range s.cars {
		s.updateLane(c)
	}
	for _, c := range s.cars {
		s.updateSpeed(c)
	}
	for _, c := range s.cars {
		s.advance(c)
	}
	s.despawnFinished()
	s.spawnReplacements()
	s.sortCars()
	s.detectJam()
	s.tick++
}

// Run clears the jam flag and steps until a jam is detected or maxSteps
// elapse. The jam flag is ignored for the first warmupTicks steps so the
// randomized initial placement can settle into real traffic.
func (s *Simulation) Run(maxSteps int) bool {
	s.jamDetected = false
	for step := 0; step < maxSteps; step++ {
		s.Step()
		if step > warmupTicks && s.jamDetected {
			return true
		}
	}
	return false
}

func (s *Simulation) sortCars() {
	sort.SliceStable(s.cars, func(i, j int) bool {
		return s.cars[i].Position < s.cars[j].Position
	})
}

// forwardGap returns the directed gap from c to other along the highway, or
// +Inf when other is not strictly ahead of c.
func forwardGap(c, other *Car) float64 {
	if other.Position > c.Position {
		return other.Position - c.Position
	}
	return math.Inf(1)
}

// carAhead finds the nearest car strictly ahead of c in c's lane and the gap
// to it. Returns (nil, +Inf) when the lane is clear ahead.
func (s *Simulation) carAhead(c *Car) (*Car, float64) {
	var ahead *Car
	minGap := math.Inf(1)
	for _, other := range s.cars {
		if other == c || other.Lane != c.Lane {
			continue
		}
		if gap := forwardGap(c, other); gap < minGap {
			minGap = gap
			ahead = other
		}
	}
	return ahead, minGap
}

// Config returns the construction parameters.
func (s *Simulation) Config() Config { return s.cfg }

// Ticks returns how many steps have run.
func (s *Simulation) Ticks() int { return s.tick }

// JamDetected reports the sticky jam flag for the current run.
func (s *Simulation) JamDetected() bool { return s.jamDetected }

// CarCount returns the current population size.
func (s *Simulation) CarCount() int { return len(s.cars) }

// BlockedCount returns how many cars are currently blocked.
func (s *Simulation) BlockedCount() int {
	n := 0
	for _, c := range s.cars {
		if s.IsBlocked(c) {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the car collection in position order. Mutating
// the returned slice has no effect on the engine.
func (s *Simulation) Snapshot() []CarView {
	views := make([]CarView, len(s.cars))
	for i, c := range s.cars {
		views[i] = CarView{
			Position:           c.Position,
			Speed:              c.Speed,
			MaxSpeed:           c.MaxSpeed,
			Lane:               c.Lane,
			LaneName:           c.Lane.String(),
			FollowsBadPractice: c.FollowsBadPractice,
			Blocked:            s.IsBlocked(c),
		}
	}
	return views
}
