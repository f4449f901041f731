package api

import (
	"context"
	"sync"
	"time"

	"github.com/banshee-data/lanesim/internal/monitoring"
	"github.com/banshee-data/lanesim/internal/sim"
	"github.com/banshee-data/lanesim/internal/timeutil"
)

// SimHost owns the live simulation shown by the HTTP surface. The engine
// itself is single-threaded, so every access goes through the host mutex:
// the ticker goroutine and the HTTP handlers never touch it concurrently.
type SimHost struct {
	clock    timeutil.Clock
	interval time.Duration

	mu      sync.Mutex
	sim     *sim.Simulation
	running bool
}

// SimState is the summary the /api/sim endpoint reports once per poll.
type SimState struct {
	Config       sim.Config `json:"config"`
	Tick         int        `json:"tick"`
	CarCount     int        `json:"car_count"`
	BlockedCount int        `json:"blocked_count"`
	JamDetected  bool       `json:"jam_detected"`
	Running      bool       `json:"running"`
}

// NewSimHost builds a host around a fresh engine. interval is the live
// stepping period for RunTicker. A nil clock selects the real one; tests
// inject a mock to drive the ticker deterministically.
func NewSimHost(cfg sim.Config, interval time.Duration, clock timeutil.Clock) (*SimHost, error) {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	eng, err := sim.New(cfg)
	if err != nil {
		return nil, err
	}
	return &SimHost{clock: clock, interval: interval, sim: eng}, nil
}

// State reports the current engine summary.
func (h *SimHost) State() SimState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stateLocked()
}

// stateLocked builds a SimState. Callers hold h.mu.
func (h *SimHost) stateLocked() SimState {
	return SimState{
		Config:       h.sim.Config(),
		Tick:         h.sim.Ticks(),
		CarCount:     h.sim.CarCount(),
		BlockedCount: h.sim.BlockedCount(),
		JamDetected:  h.sim.JamDetected(),
		Running:      h.running,
	}
}

// Cars returns a snapshot of the car collection in position order.
func (h *SimHost) Cars() []sim.CarView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sim.Snapshot()
}

// Step advances the engine by n ticks and reports the state afterwards.
func (h *SimHost) Step(n int) SimState {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := 0; i < n; i++ {
		h.sim.Step()
	}
	return h.stateLocked()
}

// Reset replaces the engine with a fresh one built from cfg. The old
// engine is discarded even when it had detected a jam.
func (h *SimHost) Reset(cfg sim.Config) error {
	eng, err := sim.New(cfg)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.sim = eng
	h.mu.Unlock()
	return nil
}

// RunTicker steps the engine once per interval until ctx is cancelled.
// Call it from its own goroutine; it is the only live-advance loop, so a
// second concurrent call would double the simulated rate.
func (h *SimHost) RunTicker(ctx context.Context) {
	ticker := h.clock.NewTicker(h.interval)
	defer ticker.Stop()

	h.mu.Lock()
	h.running = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
	}()

	monitoring.Logf("[sim] live ticker started, stepping every %v", h.interval)
	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("[sim] live ticker stopped after %d ticks", h.State().Tick)
			return
		case <-ticker.C():
			h.Step(1)
		}
	}
}
