package sweep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/lanesim/internal/monitoring"
)

// Status represents the current state of a sweep run.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// State holds the current progress and results of a background sweep.
type State struct {
	Status          Status        `json:"status"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	TotalRatios     int           `json:"total_ratios"`
	CompletedRatios int           `json:"completed_ratios"`
	CurrentRatio    *RatioResult  `json:"current_ratio,omitempty"`
	Results         []RatioResult `json:"results"`
	Error           string        `json:"error,omitempty"`
	Request         *Request      `json:"request,omitempty"`
}

// Runner executes sweeps in the background and exposes their progress for
// polling. A runner accepts one sweep at a time.
type Runner struct {
	mu       sync.RWMutex
	state    State
	cancel   context.CancelFunc
	onResult func(*Result)
}

// NewRunner creates a new sweep runner.
func NewRunner() *Runner {
	return &Runner{state: State{Status: StatusIdle}}
}

// OnResult registers a callback invoked with the full result of every sweep
// that runs to completion. Register it before the first Start.
func (r *Runner) OnResult(fn func(*Result)) {
	r.mu.Lock()
	r.onResult = fn
	r.mu.Unlock()
}

// GetState returns a copy of the current sweep state.
func (r *Runner) GetState() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state := r.state
	results := make([]RatioResult, len(r.state.Results))
	copy(results, r.state.Results)
	state.Results = results
	return state
}

// Start begins a new sweep run in the background. It returns an error when
// the request is invalid or another sweep is already in progress.
func (r *Runner) Start(ctx context.Context, req Request) error {
	ratios, err := req.normalize()
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.state.Status == StatusRunning {
		r.mu.Unlock()
		return fmt.Errorf("sweep already in progress")
	}

	now := time.Now()
	r.state = State{
		Status:      StatusRunning,
		StartedAt:   &now,
		TotalRatios: len(ratios),
		Results:     make([]RatioResult, 0, len(ratios)),
		Request:     &req,
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	go r.run(sweepCtx, req, ratios)
	return nil
}

// Stop cancels a running sweep.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// run executes the sweep in a background goroutine.
func (r *Runner) run(ctx context.Context, req Request, ratios []float64) {
	res := &Result{Request: req, StartedAt: time.Now()}

	for i, ratio := range ratios {
		rr, raw, err := runRatio(ctx, req, ratio, i)
		if err != nil {
			r.mu.Lock()
			r.state.Status = StatusError
			r.state.Error = fmt.Sprintf("sweep stopped at ratio %d/%d: %v", i+1, len(ratios), err)
			now := time.Now()
			r.state.CompletedAt = &now
			r.mu.Unlock()
			return
		}

		monitoring.Logf("[sweep] Ratio %d/%d: bad_practice=%.2f jam_probability=%.3f (%d/%d jams)",
			i+1, len(ratios), ratio, rr.JamProbability, rr.Jams, rr.Trials)

		res.Ratios = append(res.Ratios, rr)
		res.Raw = append(res.Raw, raw...)

		r.mu.Lock()
		r.state.Results = append(r.state.Results, rr)
		r.state.CompletedRatios = i + 1
		current := rr
		r.state.CurrentRatio = &current
		r.mu.Unlock()
	}

	res.CompletedAt = time.Now()

	r.mu.Lock()
	r.state.Status = StatusComplete
	now := time.Now()
	r.state.CompletedAt = &now
	sink := r.onResult
	r.mu.Unlock()

	monitoring.Logf("[sweep] Sweep complete: %d ratios, %d trials each", len(ratios), req.Trials)
	if sink != nil {
		sink(res)
	}
}
