package sim

import (
	"testing"

	"github.com/banshee-data/lanesim/internal/testutil"
)

func TestAccelerateWithClearRoad(t *testing.T) {
	cfg := testConfig()
	car := &Car{Position: 100, Speed: 100, MaxSpeed: 120, Lane: LaneRight}
	s := buildSim(cfg, car)

	s.updateSpeed(car)
	testutil.AssertClose(t, car.Speed, 100.2, 1e-9)
}

func TestAccelerationStopsAtMax(t *testing.T) {
	cfg := testConfig()
	car := &Car{Position: 100, Speed: 119.95, MaxSpeed: 120, Lane: LaneRight}
	s := buildSim(cfg, car)

	s.updateSpeed(car)
	if car.Speed != 120 {
		t.Errorf("speed = %v, want exactly max 120", car.Speed)
	}
}

func TestBrakeInsideSafeDistance(t *testing.T) {
	cfg := testConfig()
	// Gap 20m, safe distance 30 + 0.5*100 = 80m. Gradual braking dominates
	// while the follower is much faster than the leader.
	follower := &Car{Position: 100, Speed: 100, MaxSpeed: 120, Lane: LaneRight}
	leader := &Car{Position: 120, Speed: 60, MaxSpeed: 90, Lane: LaneRight}
	s := buildSim(cfg, follower, leader)

	s.updateSpeed(follower)
	testutil.AssertClose(t, follower.Speed, 99.5, 1e-9)
}

func TestBrakeFloorPullsUpToLeaderMargin(t *testing.T) {
	cfg := testConfig()
	// A follower already slower than leader-5 is pulled up to that floor.
	follower := &Car{Position: 100, Speed: 50, MaxSpeed: 120, Lane: LaneRight}
	leader := &Car{Position: 120, Speed: 60, MaxSpeed: 90, Lane: LaneRight}
	s := buildSim(cfg, follower, leader)

	s.updateSpeed(follower)
	testutil.AssertClose(t, follower.Speed, 55, 1e-9)
}

func TestMatchLeaderInsideComfortBand(t *testing.T) {
	cfg := testConfig()
	// Gap 100m sits between safe (80m) and 1.5x safe (120m): snap to the
	// leader's speed.
	follower := &Car{Position: 100, Speed: 100, MaxSpeed: 120, Lane: LaneRight}
	leader := &Car{Position: 200, Speed: 80, MaxSpeed: 90, Lane: LaneRight}
	s := buildSim(cfg, follower, leader)

	s.updateSpeed(follower)
	if follower.Speed != 80 {
		t.Errorf("speed = %v, want leader speed 80", follower.Speed)
	}
}

func TestAccelerateWhenLeaderFarAhead(t *testing.T) {
	cfg := testConfig()
	follower := &Car{Position: 100, Speed: 100, MaxSpeed: 120, Lane: LaneRight}
	leader := &Car{Position: 400, Speed: 80, MaxSpeed: 90, Lane: LaneRight}
	s := buildSim(cfg, follower, leader)

	s.updateSpeed(follower)
	testutil.AssertClose(t, follower.Speed, 100.2, 1e-9)
}

func TestMatchingFasterLeaderClampsAtOwnMax(t *testing.T) {
	cfg := testConfig()
	follower := &Car{Position: 100, Speed: 100, MaxSpeed: 105, Lane: LaneRight}
	leader := &Car{Position: 200, Speed: 120, MaxSpeed: 130, Lane: LaneRight}
	s := buildSim(cfg, follower, leader)

	s.updateSpeed(follower)
	if follower.Speed != 105 {
		t.Errorf("speed = %v, want own max 105", follower.Speed)
	}
}

func TestSpeedNeverDropsBelowZero(t *testing.T) {
	cfg := testConfig()
	follower := &Car{Position: 100, Speed: 0.3, MaxSpeed: 120, Lane: LaneRight}
	leader := &Car{Position: 110, Speed: 0.1, MaxSpeed: 90, Lane: LaneRight}
	s := buildSim(cfg, follower, leader)

	s.updateSpeed(follower)
	if follower.Speed != 0 {
		t.Errorf("speed = %v, want clamp at 0", follower.Speed)
	}
}

func TestAdvanceConvertsKmhToMetres(t *testing.T) {
	cfg := testConfig()
	car := &Car{Position: 1000, Speed: 90, MaxSpeed: 120, Lane: LaneRight}
	s := buildSim(cfg, car)

	// 90 km/h is 25 m/s, so one 0.1s tick covers 2.5m.
	s.advance(car)
	testutil.AssertClose(t, car.Position, 1002.5, 1e-9)
}
