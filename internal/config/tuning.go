package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/lanesim/internal/sim"
	"github.com/banshee-data/lanesim/internal/sweep"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/lanesim.defaults.json"

// TuningConfig represents the root configuration for tuning parameters.
// The schema matches the /api/sim and /api/sweep/start payloads so the
// same JSON can be used for both startup configuration and API requests.
type TuningConfig struct {
	// Simulation params
	NumCars          *int     `json:"num_cars,omitempty"`
	HighwayLength    *float64 `json:"highway_length_m,omitempty"`
	BadPracticeRatio *float64 `json:"bad_practice_ratio,omitempty"`
	SpawnProbability *float64 `json:"spawn_probability,omitempty"`
	TimeStep         *float64 `json:"time_step_s,omitempty"`
	Seed             *int64   `json:"seed,omitempty"`

	// Sweep params
	Trials     *int     `json:"trials,omitempty"`
	MaxSteps   *int     `json:"max_steps,omitempty"`
	Workers    *int     `json:"workers,omitempty"` // 0 sizes the pool to the CPU count
	RatioStart *float64 `json:"ratio_start,omitempty"`
	RatioEnd   *float64 `json:"ratio_end,omitempty"`
	RatioStep  *float64 `json:"ratio_step,omitempty"`

	// Server params
	ListenAddr   *string `json:"listen_addr,omitempty"`
	DBPath       *string `json:"db_path,omitempty"`
	TickInterval *string `json:"tick_interval,omitempty"` // duration string like "100ms"
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field populated
// from the engine and sweep defaults. Marshalling it reproduces the
// canonical defaults file.
func DefaultTuningConfig() *TuningConfig {
	base := sim.DefaultConfig()
	return &TuningConfig{
		NumCars:          ptrInt(base.NumCars),
		HighwayLength:    ptrFloat64(base.HighwayLength),
		BadPracticeRatio: ptrFloat64(base.BadPracticeRatio),
		SpawnProbability: ptrFloat64(base.SpawnProbability),
		TimeStep:         ptrFloat64(base.TimeStep),
		Seed:             ptrInt64(0),
		Trials:           ptrInt(sweep.DefaultTrials),
		MaxSteps:         ptrInt(sweep.DefaultMaxSteps),
		Workers:          ptrInt(0),
		RatioStart:       ptrFloat64(0.0),
		RatioEnd:         ptrFloat64(1.0),
		RatioStep:        ptrFloat64(0.1),
		ListenAddr:       ptrString(":8080"),
		DBPath:           ptrString("lanesim.db"),
		TickInterval:     ptrString("100ms"),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	// Try paths from current dir up to repo root
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	// Validate NumCars if set
	if c.NumCars != nil && *c.NumCars <= 0 {
		return fmt.Errorf("num_cars must be positive, got %d", *c.NumCars)
	}

	// Validate HighwayLength if set
	if c.HighwayLength != nil && *c.HighwayLength <= 0 {
		return fmt.Errorf("highway_length_m must be positive, got %f", *c.HighwayLength)
	}

	// Validate BadPracticeRatio if set
	if c.BadPracticeRatio != nil {
		if *c.BadPracticeRatio < 0 || *c.BadPracticeRatio > 1 {
			return fmt.Errorf("bad_practice_ratio must be between 0 and 1, got %f", *c.BadPracticeRatio)
		}
	}

	// Validate SpawnProbability if set
	if c.SpawnProbability != nil {
		if *c.SpawnProbability < 0 || *c.SpawnProbability > 1 {
			return fmt.Errorf("spawn_probability must be between 0 and 1, got %f", *c.SpawnProbability)
		}
	}

	// Validate TimeStep if set
	if c.TimeStep != nil && *c.TimeStep <= 0 {
		return fmt.Errorf("time_step_s must be positive, got %f", *c.TimeStep)
	}

	// Validate Trials if set
	if c.Trials != nil && *c.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", *c.Trials)
	}

	// Validate MaxSteps if set
	if c.MaxSteps != nil && *c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", *c.MaxSteps)
	}

	// Validate Workers if set
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	// Validate ratio range endpoints if set
	if c.RatioStart != nil {
		if *c.RatioStart < 0 || *c.RatioStart > 1 {
			return fmt.Errorf("ratio_start must be between 0 and 1, got %f", *c.RatioStart)
		}
	}
	if c.RatioEnd != nil {
		if *c.RatioEnd < 0 || *c.RatioEnd > 1 {
			return fmt.Errorf("ratio_end must be between 0 and 1, got %f", *c.RatioEnd)
		}
	}
	if c.RatioStep != nil && *c.RatioStep <= 0 {
		return fmt.Errorf("ratio_step must be positive, got %f", *c.RatioStep)
	}

	// Validate TickInterval can be parsed if set
	if c.TickInterval != nil && *c.TickInterval != "" {
		if _, err := time.ParseDuration(*c.TickInterval); err != nil {
			return fmt.Errorf("invalid tick_interval '%s': %w", *c.TickInterval, err)
		}
	}

	return nil
}

// GetNumCars returns the num_cars value or the default.
func (c *TuningConfig) GetNumCars() int {
	if c.NumCars == nil {
		return sim.DefaultConfig().NumCars
	}
	return *c.NumCars
}

// GetHighwayLength returns the highway_length_m value or the default.
func (c *TuningConfig) GetHighwayLength() float64 {
	if c.HighwayLength == nil {
		return sim.DefaultConfig().HighwayLength
	}
	return *c.HighwayLength
}

// GetBadPracticeRatio returns the bad_practice_ratio value or the default.
func (c *TuningConfig) GetBadPracticeRatio() float64 {
	if c.BadPracticeRatio == nil {
		return sim.DefaultConfig().BadPracticeRatio
	}
	return *c.BadPracticeRatio
}

// GetSpawnProbability returns the spawn_probability value or the default.
func (c *TuningConfig) GetSpawnProbability() float64 {
	if c.SpawnProbability == nil {
		return sim.DefaultConfig().SpawnProbability
	}
	return *c.SpawnProbability
}

// GetTimeStep returns the time_step_s value or the default.
func (c *TuningConfig) GetTimeStep() float64 {
	if c.TimeStep == nil {
		return sim.DefaultConfig().TimeStep
	}
	return *c.TimeStep
}

// GetSeed returns the seed value or 0, which tells the engine to derive
// a seed from the wall clock.
func (c *TuningConfig) GetSeed() int64 {
	if c.Seed == nil {
		return 0
	}
	return *c.Seed
}

// GetTrials returns the trials value or the default.
func (c *TuningConfig) GetTrials() int {
	if c.Trials == nil {
		return sweep.DefaultTrials
	}
	return *c.Trials
}

// GetMaxSteps returns the max_steps value or the default.
func (c *TuningConfig) GetMaxSteps() int {
	if c.MaxSteps == nil {
		return sweep.DefaultMaxSteps
	}
	return *c.MaxSteps
}

// GetWorkers returns the workers value or 0, which sizes the sweep pool
// to the CPU count.
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetRatioStart returns the ratio_start value or the default.
func (c *TuningConfig) GetRatioStart() float64 {
	if c.RatioStart == nil {
		return 0.0
	}
	return *c.RatioStart
}

// GetRatioEnd returns the ratio_end value or the default.
func (c *TuningConfig) GetRatioEnd() float64 {
	if c.RatioEnd == nil {
		return 1.0
	}
	return *c.RatioEnd
}

// GetRatioStep returns the ratio_step value or the default.
func (c *TuningConfig) GetRatioStep() float64 {
	if c.RatioStep == nil {
		return 0.1
	}
	return *c.RatioStep
}

// GetListenAddr returns the listen_addr value or the default.
func (c *TuningConfig) GetListenAddr() string {
	if c.ListenAddr == nil || *c.ListenAddr == "" {
		return ":8080"
	}
	return *c.ListenAddr
}

// GetDBPath returns the db_path value or the default.
func (c *TuningConfig) GetDBPath() string {
	if c.DBPath == nil || *c.DBPath == "" {
		return "lanesim.db"
	}
	return *c.DBPath
}

// GetTickInterval returns the tick_interval as a duration, or the
// default when unset or unparseable.
func (c *TuningConfig) GetTickInterval() time.Duration {
	if c.TickInterval == nil || *c.TickInterval == "" {
		return 100 * time.Millisecond
	}
	d, err := time.ParseDuration(*c.TickInterval)
	if err != nil {
		return 100 * time.Millisecond
	}
	return d
}

// SimConfig builds an engine config from the tuning values. Fields not
// present in the JSON fall back to the engine defaults.
func (c *TuningConfig) SimConfig() sim.Config {
	return sim.Config{
		NumCars:          c.GetNumCars(),
		HighwayLength:    c.GetHighwayLength(),
		BadPracticeRatio: c.GetBadPracticeRatio(),
		SpawnProbability: c.GetSpawnProbability(),
		TimeStep:         c.GetTimeStep(),
		Seed:             c.GetSeed(),
	}
}

// SweepRequest builds a sweep request from the tuning values. The
// request still goes through sweep normalisation, which fills worker
// counts and clock seeds.
func (c *TuningConfig) SweepRequest() sweep.Request {
	return sweep.Request{
		RatioStart:       c.GetRatioStart(),
		RatioEnd:         c.GetRatioEnd(),
		RatioStep:        c.GetRatioStep(),
		Trials:           c.GetTrials(),
		MaxSteps:         c.GetMaxSteps(),
		NumCars:          c.GetNumCars(),
		HighwayLength:    c.GetHighwayLength(),
		SpawnProbability: c.GetSpawnProbability(),
		TimeStep:         c.GetTimeStep(),
		Seed:             c.GetSeed(),
		Workers:          c.GetWorkers(),
	}
}
