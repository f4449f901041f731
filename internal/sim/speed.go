package sim

import (
	"math"

	"github.com/banshee-data/lanesim/internal/units"
)

// updateSpeed applies the car-following rules to one car. The safe following
// distance grows with the car's own speed; inside it the car brakes hard,
// inside 1.5x of it the car matches the leader, beyond that it accelerates
// toward its max.
func (s *Simulation) updateSpeed(c *Car) {
	ahead, gap := s.carAhead(c)
	if ahead == nil {
		c.Speed = math.Min(c.Speed+acceleration*s.cfg.TimeStep, c.MaxSpeed)
	} else {
		safe := minFollowingDistance + c.Speed*followingDistancePerKmh
		switch {
		case gap < safe:
			c.Speed = math.Max(ahead.Speed-leaderSpeedMargin, c.Speed-braking*s.cfg.TimeStep)
		case gap < safe*matchSpeedFactor:
			c.Speed = ahead.Speed
		default:
			c.Speed = math.Min(c.Speed+acceleration*s.cfg.TimeStep, c.MaxSpeed)
		}
	}

	// Clamp into [0, MaxSpeed]: braking can undershoot zero, and matching a
	// faster leader could otherwise drag a car past its own limit.
	c.Speed = math.Max(0, math.Min(c.Speed, c.MaxSpeed))
}

// advance integrates position from speed over one tick. Speeds are km/h and
// positions metres, so the exact km/h-to-m/s factor applies.
func (s *Simulation) advance(c *Car) {
	c.Position += c.Speed * s.cfg.TimeStep * units.MetersPerSecondPerKmh
}
