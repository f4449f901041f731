// Package sweep runs batches of highway simulations across a range of
// bad-practice ratios and reduces them to jam-probability statistics.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/banshee-data/lanesim/internal/monitoring"
	"github.com/banshee-data/lanesim/internal/sim"
)

const (
	// DefaultTrials is the number of seeded trials per ratio.
	DefaultTrials = 100
	// DefaultMaxSteps is the tick budget for a single trial.
	DefaultMaxSteps = 800

	maxTrials = 10000
	maxRatios = 1000
)

// Request defines the parameters for a sweep: which bad-practice ratios to
// visit and how many seeded trials to run at each.
type Request struct {
	// Ratios lists the bad-practice ratios to sweep. When empty the range
	// fields are used, and when those are unset too the sweep covers 0.0
	// through 1.0 in steps of 0.1.
	Ratios     []float64 `json:"ratios,omitempty"`
	RatioStart float64   `json:"ratio_start,omitempty"`
	RatioEnd   float64   `json:"ratio_end,omitempty"`
	RatioStep  float64   `json:"ratio_step,omitempty"`

	Trials   int `json:"trials"`    // trials per ratio
	MaxSteps int `json:"max_steps"` // tick budget per trial

	// Simulation overrides. Zero values fall back to the engine defaults.
	NumCars          int     `json:"num_cars,omitempty"`
	HighwayLength    float64 `json:"highway_length_m,omitempty"`
	SpawnProbability float64 `json:"spawn_probability,omitempty"`
	TimeStep         float64 `json:"time_step_s,omitempty"`

	// Seed is the base RNG seed; trial seeds are derived from it. Zero
	// draws a base seed from the clock.
	Seed int64 `json:"seed,omitempty"`

	// Workers bounds trial parallelism. Zero means one worker per CPU.
	Workers int `json:"workers,omitempty"`
}

// normalize applies defaults, validates the request, and returns the ratio
// values to sweep.
func (req *Request) normalize() ([]float64, error) {
	if req.Trials <= 0 {
		req.Trials = DefaultTrials
	}
	if req.Trials > maxTrials {
		return nil, fmt.Errorf("trials must not exceed %d, got %d", maxTrials, req.Trials)
	}
	if req.MaxSteps <= 0 {
		req.MaxSteps = DefaultMaxSteps
	}
	if req.Workers <= 0 {
		req.Workers = runtime.NumCPU()
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	ratios := req.Ratios
	if len(ratios) == 0 {
		if req.RatioStep > 0 {
			ratios = GenerateRange(req.RatioStart, req.RatioEnd, req.RatioStep)
		} else {
			ratios = GenerateRange(0, 1, 0.1)
		}
	}
	if len(ratios) == 0 {
		return nil, fmt.Errorf("no ratios to sweep")
	}
	if len(ratios) > maxRatios {
		return nil, fmt.Errorf("ratio range too large: %d values (max %d)", len(ratios), maxRatios)
	}
	for _, ratio := range ratios {
		if ratio < 0 || ratio > 1 {
			return nil, fmt.Errorf("bad practice ratio %g outside [0, 1]", ratio)
		}
	}
	req.Ratios = ratios

	if err := req.SimConfig(ratios[0], 1).Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation parameters: %w", err)
	}
	return ratios, nil
}

// SimConfig builds the simulation config for one trial: the engine defaults
// with the request's overrides, the given ratio, and the given seed.
func (req Request) SimConfig(ratio float64, seed int64) sim.Config {
	cfg := sim.DefaultConfig()
	if req.NumCars > 0 {
		cfg.NumCars = req.NumCars
	}
	if req.HighwayLength > 0 {
		cfg.HighwayLength = req.HighwayLength
	}
	if req.SpawnProbability > 0 {
		cfg.SpawnProbability = req.SpawnProbability
	}
	if req.TimeStep > 0 {
		cfg.TimeStep = req.TimeStep
	}
	cfg.BadPracticeRatio = ratio
	cfg.Seed = seed
	return cfg
}

// TrialResult records the outcome of a single simulation run.
type TrialResult struct {
	Ratio  float64 `json:"ratio"`
	Trial  int     `json:"trial"`
	Seed   int64   `json:"seed"`
	Jammed bool    `json:"jammed"`
	Ticks  int     `json:"ticks"`
}

// RatioResult holds the summary statistics for one bad-practice ratio.
type RatioResult struct {
	Ratio            float64 `json:"ratio"`
	Trials           int     `json:"trials"`
	Jams             int     `json:"jams"`
	JamProbability   float64 `json:"jam_probability"`
	StdErr           float64 `json:"std_err"`
	MeanTicksToJam   float64 `json:"mean_ticks_to_jam"`
	StddevTicksToJam float64 `json:"stddev_ticks_to_jam"`
}

// Result is the full output of a completed sweep, including the per-trial
// raw outcomes.
type Result struct {
	Request     Request       `json:"request"`
	Ratios      []RatioResult `json:"ratios"`
	Raw         []TrialResult `json:"raw,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
}

// Execute runs the whole sweep synchronously and returns the result. It is
// the entry point for command-line use; servers should prefer a Runner.
func Execute(ctx context.Context, req Request) (*Result, error) {
	ratios, err := req.normalize()
	if err != nil {
		return nil, err
	}

	res := &Result{Request: req, StartedAt: time.Now()}
	for i, ratio := range ratios {
		rr, raw, err := runRatio(ctx, req, ratio, i)
		if err != nil {
			return nil, fmt.Errorf("sweep stopped at ratio %d/%d: %w", i+1, len(ratios), err)
		}
		monitoring.Logf("[sweep] Ratio %d/%d: bad_practice=%.2f jam_probability=%.3f (%d/%d jams)",
			i+1, len(ratios), ratio, rr.JamProbability, rr.Jams, rr.Trials)
		res.Ratios = append(res.Ratios, rr)
		res.Raw = append(res.Raw, raw...)
	}
	res.CompletedAt = time.Now()
	monitoring.Logf("[sweep] Sweep complete: %d ratios, %d trials each", len(ratios), req.Trials)
	return res, nil
}

// runRatio runs all trials for one ratio through a fixed worker pool. Trial
// seeds derive from the base seed and the trial's global index, so results
// do not depend on worker count or scheduling.
func runRatio(ctx context.Context, req Request, ratio float64, ratioIndex int) (RatioResult, []TrialResult, error) {
	trials := make([]TrialResult, req.Trials)
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < req.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				seed := req.Seed + int64(ratioIndex*req.Trials+t) + 1
				s, err := sim.New(req.SimConfig(ratio, seed))
				if err != nil {
					monitoring.Logf("[sweep] ERROR: trial %d at ratio %.2f: %v", t, ratio, err)
					continue
				}
				jammed := s.Run(req.MaxSteps)
				trials[t] = TrialResult{Ratio: ratio, Trial: t, Seed: seed, Jammed: jammed, Ticks: s.Ticks()}
			}
		}()
	}

feed:
	for t := 0; t < req.Trials; t++ {
		select {
		case jobs <- t:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return RatioResult{}, nil, err
	}
	return Summarize(ratio, trials), trials, nil
}

// Summarize reduces one ratio's trials to summary statistics. The standard
// error treats each trial as a Bernoulli draw of the jam outcome.
func Summarize(ratio float64, trials []TrialResult) RatioResult {
	rr := RatioResult{Ratio: ratio, Trials: len(trials)}
	if len(trials) == 0 {
		return rr
	}

	var ticksToJam []float64
	for _, tr := range trials {
		if tr.Jammed {
			rr.Jams++
			ticksToJam = append(ticksToJam, float64(tr.Ticks))
		}
	}
	rr.JamProbability = float64(rr.Jams) / float64(rr.Trials)
	rr.StdErr = BinomialStdErr(rr.JamProbability, rr.Trials)
	rr.MeanTicksToJam, rr.StddevTicksToJam = MeanStddev(ticksToJam)
	return rr
}
