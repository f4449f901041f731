package sim

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero cars", func(c *Config) { c.NumCars = 0 }, true},
		{"negative cars", func(c *Config) { c.NumCars = -3 }, true},
		{"zero length", func(c *Config) { c.HighwayLength = 0 }, true},
		{"ratio below zero", func(c *Config) { c.BadPracticeRatio = -0.1 }, true},
		{"ratio above one", func(c *Config) { c.BadPracticeRatio = 1.1 }, true},
		{"ratio one", func(c *Config) { c.BadPracticeRatio = 1.0 }, false},
		{"spawn below zero", func(c *Config) { c.SpawnProbability = -0.5 }, true},
		{"spawn above one", func(c *Config) { c.SpawnProbability = 2 }, true},
		{"zero time step", func(c *Config) { c.TimeStep = 0 }, true},
		{"negative time step", func(c *Config) { c.TimeStep = -0.1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.NumCars != 15 {
		t.Errorf("NumCars = %d, want 15", cfg.NumCars)
	}
	if cfg.HighwayLength != 2000.0 {
		t.Errorf("HighwayLength = %v, want 2000", cfg.HighwayLength)
	}
	if cfg.BadPracticeRatio != 0.0 {
		t.Errorf("BadPracticeRatio = %v, want 0", cfg.BadPracticeRatio)
	}
	if cfg.SpawnProbability != 0.3 {
		t.Errorf("SpawnProbability = %v, want 0.3", cfg.SpawnProbability)
	}
	if cfg.TimeStep != 0.1 {
		t.Errorf("TimeStep = %v, want 0.1", cfg.TimeStep)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}
