package sim

import "github.com/banshee-data/lanesim/internal/monitoring"

// IsBlocked reports whether c is stuck behind slower traffic with no way to
// pass. It is a pure query: calling it never changes state.
func (s *Simulation) IsBlocked(c *Car) bool {
	ahead, gap := s.carAhead(c)
	if ahead == nil {
		return false
	}
	if ahead.Speed >= c.Speed {
		return false
	}
	if s.canPassLeft(c) {
		return false
	}
	// In the passing lane there is nowhere left to go.
	if c.Lane == LaneLeft {
		return true
	}
	return gap < safeLaneChangeDistance
}

// laneScanOrder is the order jam chains are searched in.
var laneScanOrder = []Lane{LaneLeft, LaneMiddle, LaneRight}

// detectJam latches the jam flag when blocked cars pile up: at least
// jamMinBlocked blocked cars overall, two of them consecutive in the same
// lane within jamChainDistance. Once latched the flag stays set for the
// remainder of the run.
func (s *Simulation) detectJam() {
	var blocked []*Car
	for _, c := range s.cars {
		if s.IsBlocked(c) {
			blocked = append(blocked, c)
		}
	}
	if len(blocked) < jamMinBlocked {
		return
	}

	for _, lane := range laneScanOrder {
		var laneBlocked []*Car
		for _, c := range blocked {
			if c.Lane == lane {
				laneBlocked = append(laneBlocked, c)
			}
		}
		if len(laneBlocked) < 2 {
			continue
		}
		for i := 0; i < len(laneBlocked)-1; i++ {
			if forwardGap(laneBlocked[i], laneBlocked[i+1]) < jamChainDistance {
				if !s.jamDetected {
					monitoring.Logf("[sim] jam at tick %d: %d blocked cars, chain in %s lane near %.0fm",
						s.tick, len(blocked), lane, laneBlocked[i].Position)
				}
				s.jamDetected = true
				return
			}
		}
	}
}
