package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/lanesim/internal/sweep"
	"github.com/banshee-data/lanesim/internal/version"
)

// SweepRun is one stored sweep: the effective parameters it ran with plus
// the fitted trend over its per-ratio results.
type SweepRun struct {
	ID               int64     `json:"id"`
	RunUUID          string    `json:"run_uuid"`
	StartedAt        time.Time `json:"started_at"`
	CompletedAt      time.Time `json:"completed_at"`
	Trials           int       `json:"trials"`
	MaxSteps         int       `json:"max_steps"`
	NumCars          int       `json:"num_cars"`
	HighwayLength    float64   `json:"highway_length_m"`
	SpawnProbability float64   `json:"spawn_probability"`
	TimeStep         float64   `json:"time_step_s"`
	Seed             int64     `json:"seed"`
	AppVersion       string    `json:"app_version"`
	TrendIntercept   float64   `json:"trend_intercept"`
	TrendSlope       float64   `json:"trend_slope"`
}

const sweepRunColumns = `id, run_uuid, started_at, completed_at, trials, max_steps,
	num_cars, highway_length_m, spawn_probability, time_step_s, seed,
	app_version, trend_intercept, trend_slope`

// SaveSweepResult stores a completed sweep and its per-ratio summaries,
// returning the new run's row ID. Raw per-trial outcomes are not persisted;
// use the CSV output for those.
func (db *DB) SaveSweepResult(res *sweep.Result) (int64, error) {
	cfg := res.Request.SimConfig(0, 0)
	alpha, beta := sweep.TrendLine(res.Ratios)

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT INTO sweep_runs (
			run_uuid, started_at, completed_at, trials, max_steps, num_cars,
			highway_length_m, spawn_probability, time_step_s, seed,
			app_version, trend_intercept, trend_slope
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), res.StartedAt, res.CompletedAt,
		res.Request.Trials, res.Request.MaxSteps,
		cfg.NumCars, cfg.HighwayLength, cfg.SpawnProbability, cfg.TimeStep,
		res.Request.Seed, version.String(), alpha, beta,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sweep run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get sweep run ID: %w", err)
	}

	for _, rr := range res.Ratios {
		if _, err := tx.Exec(`INSERT INTO sweep_results (
				run_id, bad_practice_ratio, trials, jams, jam_probability,
				std_err, mean_ticks_to_jam, stddev_ticks_to_jam
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, rr.Ratio, rr.Trials, rr.Jams, rr.JamProbability,
			rr.StdErr, rr.MeanTicksToJam, rr.StddevTicksToJam,
		); err != nil {
			return 0, fmt.Errorf("failed to insert sweep result for ratio %.2f: %w", rr.Ratio, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// ListSweepRuns returns stored sweep runs, newest first.
func (db *DB) ListSweepRuns(limit int) ([]SweepRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := db.Query(`SELECT `+sweepRunColumns+`
		FROM sweep_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []SweepRun
	for rows.Next() {
		var run SweepRun
		if err := rows.Scan(
			&run.ID, &run.RunUUID, &run.StartedAt, &run.CompletedAt,
			&run.Trials, &run.MaxSteps, &run.NumCars, &run.HighwayLength,
			&run.SpawnProbability, &run.TimeStep, &run.Seed,
			&run.AppVersion, &run.TrendIntercept, &run.TrendSlope,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// GetSweepRun returns one stored run and its per-ratio summaries, ordered by
// ratio. The error wraps sql.ErrNoRows when no run has that ID.
func (db *DB) GetSweepRun(id int64) (*SweepRun, []sweep.RatioResult, error) {
	var run SweepRun
	err := db.QueryRow(`SELECT `+sweepRunColumns+`
		FROM sweep_runs WHERE id = ?`, id).Scan(
		&run.ID, &run.RunUUID, &run.StartedAt, &run.CompletedAt,
		&run.Trials, &run.MaxSteps, &run.NumCars, &run.HighwayLength,
		&run.SpawnProbability, &run.TimeStep, &run.Seed,
		&run.AppVersion, &run.TrendIntercept, &run.TrendSlope,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("sweep run %d: %w", id, err)
	}

	rows, err := db.Query(`SELECT bad_practice_ratio, trials, jams, jam_probability,
			std_err, mean_ticks_to_jam, stddev_ticks_to_jam
		FROM sweep_results WHERE run_id = ? ORDER BY bad_practice_ratio`, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var ratios []sweep.RatioResult
	for rows.Next() {
		var rr sweep.RatioResult
		if err := rows.Scan(
			&rr.Ratio, &rr.Trials, &rr.Jams, &rr.JamProbability,
			&rr.StdErr, &rr.MeanTicksToJam, &rr.StddevTicksToJam,
		); err != nil {
			return nil, nil, err
		}
		ratios = append(ratios, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return &run, ratios, nil
}
