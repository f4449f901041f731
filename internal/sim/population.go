package sim

import "math"

// despawnFinished removes cars that have driven past the end of the highway,
// preserving the order of the rest.
func (s *Simulation) despawnFinished() {
	kept := s.cars[:0]
	for _, c := range s.cars {
		if c.Position <= s.cfg.HighwayLength {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(s.cars); i++ {
		s.cars[i] = nil
	}
	s.cars = kept
}

// spawnReplacements tops the population back up toward the target count.
// Each missing slot gets at most one attempt per tick: a spawn-probability
// roll, then a random lane and a random position inside the entry window. A
// candidate too close to an existing car in its lane is discarded without a
// retry.
func (s *Simulation) spawnReplacements() {
	missing := s.cfg.NumCars - len(s.cars)
	for i := 0; i < missing; i++ {
		if s.rng.Float64() >= s.cfg.SpawnProbability {
			continue
		}
		lane := Lane(s.rng.IntN(laneCount))
		position := s.rng.Float64() * spawnWindow
		if !s.hasSpawnClearance(position, lane) {
			continue
		}
		s.cars = append(s.cars, s.newCar(position, lane))
	}
}

// hasSpawnClearance reports whether a car can enter at position in lane with
// at least spawnClearance to every existing car in that lane, including cars
// spawned earlier this tick.
func (s *Simulation) hasSpawnClearance(position float64, lane Lane) bool {
	for _, other := range s.cars {
		if other.Lane == lane && math.Abs(other.Position-position) < spawnClearance {
			return false
		}
	}
	return true
}
