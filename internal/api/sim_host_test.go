package api

import (
	"context"
	"testing"
	"time"

	"github.com/banshee-data/lanesim/internal/sim"
	"github.com/banshee-data/lanesim/internal/timeutil"
)

func testSimConfig() sim.Config {
	return sim.Config{
		NumCars:          10,
		HighwayLength:    1000,
		BadPracticeRatio: 0.5,
		SpawnProbability: 0.3,
		TimeStep:         0.1,
		Seed:             42,
	}
}

func TestSimHostStepAndState(t *testing.T) {
	host, err := NewSimHost(testSimConfig(), 100*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewSimHost failed: %v", err)
	}

	state := host.State()
	if state.Tick != 0 {
		t.Errorf("Expected tick 0, got %d", state.Tick)
	}
	if state.CarCount != 10 {
		t.Errorf("Expected 10 cars, got %d", state.CarCount)
	}
	if state.Running {
		t.Error("Expected Running false without a ticker")
	}

	state = host.Step(25)
	if state.Tick != 25 {
		t.Errorf("Expected tick 25 after Step(25), got %d", state.Tick)
	}

	cars := host.Cars()
	if len(cars) != state.CarCount {
		t.Errorf("Snapshot has %d cars, state reports %d", len(cars), state.CarCount)
	}
}

func TestSimHostRejectsInvalidConfig(t *testing.T) {
	cfg := testSimConfig()
	cfg.NumCars = 0
	if _, err := NewSimHost(cfg, 100*time.Millisecond, nil); err == nil {
		t.Error("Expected error for invalid config, got nil")
	}
}

func TestSimHostReset(t *testing.T) {
	host, err := NewSimHost(testSimConfig(), 100*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewSimHost failed: %v", err)
	}
	host.Step(50)

	cfg := testSimConfig()
	cfg.NumCars = 4
	if err := host.Reset(cfg); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	state := host.State()
	if state.Tick != 0 {
		t.Errorf("Expected tick 0 after reset, got %d", state.Tick)
	}
	if state.CarCount != 4 {
		t.Errorf("Expected 4 cars after reset, got %d", state.CarCount)
	}
}

func TestSimHostResetRejectsInvalidConfig(t *testing.T) {
	host, err := NewSimHost(testSimConfig(), 100*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewSimHost failed: %v", err)
	}
	host.Step(5)

	cfg := testSimConfig()
	cfg.BadPracticeRatio = 2.0
	if err := host.Reset(cfg); err == nil {
		t.Error("Expected error for invalid config, got nil")
	}

	// The running engine survives a rejected reset.
	if got := host.State().Tick; got != 5 {
		t.Errorf("Expected tick 5 after rejected reset, got %d", got)
	}
}

func TestSimHostRunTicker(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	host, err := NewSimHost(testSimConfig(), 100*time.Millisecond, clock)
	if err != nil {
		t.Fatalf("NewSimHost failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		host.RunTicker(ctx)
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !host.State().Running {
		if time.Now().After(deadline) {
			t.Fatal("Ticker never reported running")
		}
		time.Sleep(time.Millisecond)
	}

	// Mock ticks may be dropped while the host is mid-step, so keep
	// advancing until enough have landed.
	for host.State().Tick < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("Engine stuck at tick %d", host.State().Tick)
		}
		clock.Advance(100 * time.Millisecond)
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("RunTicker did not stop after cancel")
	}

	if host.State().Running {
		t.Error("Expected Running false after ticker stop")
	}
}
