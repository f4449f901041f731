package sim

import (
	"math/rand/v2"
	"testing"
)

func TestCompliantMiddleCarReturnsRight(t *testing.T) {
	cfg := testConfig()
	cfg.NumCars = 1
	cfg.SpawnProbability = 0

	car := &Car{Position: 500, Speed: 100, MaxSpeed: 120, Lane: LaneMiddle}
	s := buildSim(cfg, car)
	s.Step()

	if car.Lane != LaneRight {
		t.Errorf("lane = %v, want %v", car.Lane, LaneRight)
	}
}

func TestCompliantLeftCarReturnsOneLanePerTick(t *testing.T) {
	cfg := testConfig()
	cfg.NumCars = 1
	cfg.SpawnProbability = 0

	car := &Car{Position: 500, Speed: 100, MaxSpeed: 120, Lane: LaneLeft}
	s := buildSim(cfg, car)

	s.Step()
	if car.Lane != LaneMiddle {
		t.Fatalf("after one tick lane = %v, want %v", car.Lane, LaneMiddle)
	}
	s.Step()
	if car.Lane != LaneRight {
		t.Fatalf("after two ticks lane = %v, want %v", car.Lane, LaneRight)
	}
}

func TestKeepRightWinsOverOvertaking(t *testing.T) {
	cfg := testConfig()
	cfg.NumCars = 2
	cfg.SpawnProbability = 0

	// Slower traffic ahead in the middle, both side lanes clear. Returning
	// right outranks passing on the left.
	subject := &Car{Position: 100, Speed: 100, MaxSpeed: 120, Lane: LaneMiddle}
	leader := &Car{Position: 130, Speed: 70, MaxSpeed: 90, Lane: LaneMiddle}
	s := buildSim(cfg, subject, leader)
	s.Step()

	if subject.Lane != LaneRight {
		t.Errorf("subject lane = %v, want %v", subject.Lane, LaneRight)
	}
}

func TestCamperStaysInMiddle(t *testing.T) {
	cfg := testConfig()
	cfg.NumCars = 1
	cfg.SpawnProbability = 0

	car := &Car{Position: 100, Speed: 100, MaxSpeed: 120, Lane: LaneMiddle, FollowsBadPractice: true}
	s := buildSim(cfg, car)

	// With no one to pass, a camper never leaves the middle lane no matter
	// how the dwell roll lands.
	for i := 0; i < 50; i++ {
		s.Step()
		if car.Lane != LaneMiddle {
			t.Fatalf("tick %d: camper left the middle lane for %v", i, car.Lane)
		}
	}
}

func TestCamperDwellRollGovernsOvertake(t *testing.T) {
	build := func(roll uint64) (*Simulation, *Car) {
		cfg := testConfig()
		cfg.NumCars = 2
		cfg.SpawnProbability = 0

		camper := &Car{Position: 100, Speed: 100, MaxSpeed: 120, Lane: LaneMiddle, FollowsBadPractice: true}
		leader := &Car{Position: 130, Speed: 70, MaxSpeed: 90, Lane: LaneMiddle}
		s := buildSim(cfg, camper, leader)
		s.rng = rand.New(&fixedSource{vals: []uint64{roll}})
		return s, camper
	}

	// Low roll: the camper dwells and skips the passing decision entirely.
	s, camper := build(0)
	s.Step()
	if camper.Lane != LaneMiddle {
		t.Errorf("low roll: lane = %v, want %v", camper.Lane, LaneMiddle)
	}

	// High roll: the dwell lapses and the camper passes the slower leader.
	s, camper = build(^uint64(0))
	s.Step()
	if camper.Lane != LaneLeft {
		t.Errorf("high roll: lane = %v, want %v", camper.Lane, LaneLeft)
	}
}

func TestLaneSafetyChecksBehindOnly(t *testing.T) {
	tests := []struct {
		name        string
		occupantPos float64
		want        bool
	}{
		{"occupant close ahead", 130, true},
		{"occupant at same position", 100, true},
		{"occupant close behind", 60, false},
		{"occupant exactly at the limit behind", 50, true},
		{"occupant far behind", 40, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.NumCars = 2
			cfg.SpawnProbability = 0

			subject := &Car{Position: 100, Speed: 100, MaxSpeed: 120, Lane: LaneRight}
			occupant := &Car{Position: tt.occupantPos, Speed: 100, MaxSpeed: 120, Lane: LaneMiddle}
			s := buildSim(cfg, subject, occupant)

			if got := s.canPassLeft(subject); got != tt.want {
				t.Errorf("canPassLeft with occupant at %v = %v, want %v", tt.occupantPos, got, tt.want)
			}
		})
	}
}

func TestOvertakeDeclinedKeepsLane(t *testing.T) {
	cfg := testConfig()
	cfg.NumCars = 4
	cfg.SpawnProbability = 0

	// Slower leader ahead, but traffic close behind in both side lanes. The
	// subject can neither pass nor return right and holds the middle.
	subject := &Car{Position: 100, Speed: 100, MaxSpeed: 120, Lane: LaneMiddle}
	leader := &Car{Position: 130, Speed: 70, MaxSpeed: 90, Lane: LaneMiddle}
	rightBlocker := &Car{Position: 60, Speed: 100, MaxSpeed: 120, Lane: LaneRight, FollowsBadPractice: true}
	leftBlocker := &Car{Position: 70, Speed: 100, MaxSpeed: 120, Lane: LaneLeft, FollowsBadPractice: true}
	s := buildSim(cfg, subject, leader, rightBlocker, leftBlocker)
	s.Step()

	if subject.Lane != LaneMiddle {
		t.Errorf("subject lane = %v, want %v", subject.Lane, LaneMiddle)
	}
}

func TestEdgeLanesEndThePassingChain(t *testing.T) {
	cfg := testConfig()
	cfg.NumCars = 2
	cfg.SpawnProbability = 0

	leftCar := &Car{Position: 100, Speed: 100, MaxSpeed: 120, Lane: LaneLeft}
	rightCar := &Car{Position: 500, Speed: 100, MaxSpeed: 120, Lane: LaneRight}
	s := buildSim(cfg, leftCar, rightCar)

	if s.canPassLeft(leftCar) {
		t.Error("canPassLeft from the passing lane should be false")
	}
	if s.shouldMoveRight(rightCar) {
		t.Error("shouldMoveRight from the slow lane should be false")
	}
}
