package timeutil

import (
	"testing"
	"time"
)

func TestMockClockAdvance(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := NewMockClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}

	clock.Advance(90 * time.Second)
	if got := clock.Since(start); got != 90*time.Second {
		t.Errorf("Since(start) = %v, want 90s", got)
	}
}

func TestMockTickerFires(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	ticker := clock.NewTicker(100 * time.Millisecond)

	select {
	case <-ticker.C():
		t.Fatal("ticker fired before clock advanced")
	default:
	}

	clock.Advance(100 * time.Millisecond)
	select {
	case <-ticker.C():
	default:
		t.Fatal("ticker did not fire after advancing past interval")
	}
}

func TestMockTickerStopped(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	ticker := clock.NewTicker(time.Second)
	ticker.Stop()

	clock.Advance(5 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestRealClockBasics(t *testing.T) {
	var clock Clock = RealClock{}
	before := clock.Now()
	if clock.Since(before) < 0 {
		t.Error("Since returned negative duration")
	}
	ticker := clock.NewTicker(time.Hour)
	ticker.Stop()
}
