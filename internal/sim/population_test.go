package sim

import "testing"

func TestDespawnPastHighwayEnd(t *testing.T) {
	cfg := testConfig()
	cfg.NumCars = 3
	cfg.SpawnProbability = 0

	s := buildSim(cfg,
		&Car{Position: 1990, Speed: 100, MaxSpeed: 120, Lane: LaneRight},
		&Car{Position: 2000, Speed: 100, MaxSpeed: 120, Lane: LaneMiddle},
		&Car{Position: 2001, Speed: 100, MaxSpeed: 120, Lane: LaneLeft},
	)
	s.despawnFinished()

	if got := s.CarCount(); got != 2 {
		t.Fatalf("CarCount = %d, want 2", got)
	}
	for _, c := range s.cars {
		if c.Position > cfg.HighwayLength {
			t.Errorf("car at %v survived past the end of the highway", c.Position)
		}
	}
}

func TestSpawnRefillsTowardTarget(t *testing.T) {
	cfg := testConfig()
	cfg.NumCars = 2
	cfg.SpawnProbability = 1.0

	veteran := &Car{Position: 1500, Speed: 100, MaxSpeed: 120, Lane: LaneRight}
	s := buildSim(cfg, veteran)
	s.Step()

	if got := s.CarCount(); got != 2 {
		t.Fatalf("CarCount = %d, want 2", got)
	}

	var rookie *Car
	for _, c := range s.cars {
		if c != veteran {
			rookie = c
		}
	}
	if rookie == nil {
		t.Fatal("no spawned car found")
	}
	if rookie.Position < 0 || rookie.Position >= spawnWindow {
		t.Errorf("spawned at %v, want inside [0, %v)", rookie.Position, spawnWindow)
	}
	if !rookie.Lane.Valid() {
		t.Errorf("spawned into invalid lane %d", rookie.Lane)
	}
	if rookie.MaxSpeed < maxSpeedLow || rookie.MaxSpeed > maxSpeedHigh {
		t.Errorf("spawned max speed %v outside draw range", rookie.MaxSpeed)
	}
	if rookie.Speed < initialSpeedFracLow*rookie.MaxSpeed-1e-9 || rookie.Speed >= initialSpeedFracHigh*rookie.MaxSpeed {
		t.Errorf("spawned speed %v not within the initial fraction of max %v", rookie.Speed, rookie.MaxSpeed)
	}
	if rookie.FollowsBadPractice {
		t.Error("ratio 0.0 spawn should be compliant")
	}
}

func TestSpawnZeroProbabilityNeverSpawns(t *testing.T) {
	cfg := testConfig()
	cfg.NumCars = 5
	cfg.SpawnProbability = 0

	s := buildSim(cfg, &Car{Position: 1000, Speed: 100, MaxSpeed: 120, Lane: LaneRight})
	for i := 0; i < 20; i++ {
		s.Step()
		if got := s.CarCount(); got != 1 {
			t.Fatalf("tick %d: CarCount = %d, want 1", i, got)
		}
	}
}

func TestSpawnRejectedWithoutClearance(t *testing.T) {
	cfg := testConfig()
	cfg.NumCars = 4
	cfg.SpawnProbability = 1.0

	// Slow sentinels parked across all three lanes keep every candidate
	// position inside the entry window within the clearance radius.
	s := buildSim(cfg,
		&Car{Position: 10, Speed: 5, MaxSpeed: 5, Lane: LaneRight, FollowsBadPractice: true},
		&Car{Position: 10, Speed: 5, MaxSpeed: 5, Lane: LaneMiddle, FollowsBadPractice: true},
		&Car{Position: 10, Speed: 5, MaxSpeed: 5, Lane: LaneLeft, FollowsBadPractice: true},
	)

	for i := 0; i < 10; i++ {
		s.Step()
		if got := s.CarCount(); got != 3 {
			t.Fatalf("tick %d: CarCount = %d, want 3 (spawn should be rejected)", i, got)
		}
	}
}

func TestSpawnClearanceMeasuresSameLaneOnly(t *testing.T) {
	cfg := testConfig()
	s := buildSim(cfg,
		&Car{Position: 10, Speed: 100, MaxSpeed: 120, Lane: LaneMiddle},
	)

	if s.hasSpawnClearance(10, LaneRight) != true {
		t.Error("occupied middle lane should not veto a right-lane spawn")
	}
	if s.hasSpawnClearance(10, LaneMiddle) != false {
		t.Error("same-lane car within clearance should veto the spawn")
	}
	if s.hasSpawnClearance(40, LaneMiddle) != true {
		t.Error("same-lane car exactly at the clearance limit should not veto")
	}
}
