package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"workseed/internal/errs"
)

// Config models workseed.yml: every knob the generation pipeline reads.
type Config struct {
	Database struct {
		Path       string `yaml:"path"`
		ResetOnRun bool   `yaml:"reset_on_run"`
	} `yaml:"database"`
	Organization struct {
		CompanySize int `yaml:"company_size"`
	} `yaml:"organization"`
	Users struct {
		TargetCount int     `yaml:"target_count"`
		ActiveRatio float64 `yaml:"active_ratio"`
	} `yaml:"users"`
	Teams struct {
		// PerHundredOverride replaces the benchmark teams-per-100-employees
		// range when positive.
		PerHundredOverride int `yaml:"per_hundred_override"`
	} `yaml:"teams"`
	Projects struct {
		PerTeamMin int `yaml:"per_team_min"`
		PerTeamMax int `yaml:"per_team_max"`
	} `yaml:"projects"`
	Tasks struct {
		Weeks                int     `yaml:"weeks"`
		DependencyFraction   float64 `yaml:"dependency_fraction"`
		MaxSubtaskDepth      int     `yaml:"max_subtask_depth"`
		SubtasksPerParentMax int     `yaml:"subtasks_per_parent_max"`
	} `yaml:"tasks"`
	Generation struct {
		Seed               int64  `yaml:"seed"`
		BatchSize          int    `yaml:"batch_size"`
		MaxResampleAttempts int   `yaml:"max_resample_attempts"`
		WindowDays         int    `yaml:"window_days"`
		WindowEnd          string `yaml:"window_end"` // YYYY-MM-DD, pins "now"
	} `yaml:"generation"`
}

// WindowEndTime returns the simulation cutoff at end of business (UTC).
// Everything generated happens at or before this instant.
func (c *Config) WindowEndTime() time.Time {
	t, _ := time.Parse("2006-01-02", c.Generation.WindowEnd)
	return t.Add(18 * time.Hour)
}

// WindowStartTime returns the start of the simulation window.
func (c *Config) WindowStartTime() time.Time {
	return c.WindowEndTime().Add(-time.Duration(c.Generation.WindowDays) * 24 * time.Hour)
}

// Validate ensures the config can drive a full run. Any failure here is a
// configuration error and aborts before generation starts.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return goerr.New("database.path is required", goerr.T(errs.TagConfig))
	}
	if c.Organization.CompanySize <= 0 {
		return goerr.New("organization.company_size must be positive",
			goerr.T(errs.TagConfig), goerr.V("company_size", c.Organization.CompanySize))
	}
	if c.Users.TargetCount <= 0 {
		return goerr.New("users.target_count must be positive",
			goerr.T(errs.TagConfig), goerr.V("target_count", c.Users.TargetCount))
	}
	if c.Users.ActiveRatio <= 0 || c.Users.ActiveRatio > 1 {
		return goerr.New("users.active_ratio must be in (0, 1]",
			goerr.T(errs.TagConfig), goerr.V("active_ratio", c.Users.ActiveRatio))
	}
	if c.Teams.PerHundredOverride < 0 {
		return goerr.New("teams.per_hundred_override must not be negative",
			goerr.T(errs.TagConfig), goerr.V("override", c.Teams.PerHundredOverride))
	}
	if c.Projects.PerTeamMin <= 0 || c.Projects.PerTeamMax < c.Projects.PerTeamMin {
		return goerr.New("projects per-team range is invalid",
			goerr.T(errs.TagConfig),
			goerr.V("min", c.Projects.PerTeamMin), goerr.V("max", c.Projects.PerTeamMax))
	}
	if c.Tasks.Weeks <= 0 {
		return goerr.New("tasks.weeks must be positive", goerr.T(errs.TagConfig))
	}
	if c.Tasks.DependencyFraction < 0 || c.Tasks.DependencyFraction > 1 {
		return goerr.New("tasks.dependency_fraction must be in [0, 1]",
			goerr.T(errs.TagConfig), goerr.V("fraction", c.Tasks.DependencyFraction))
	}
	if c.Tasks.MaxSubtaskDepth < 0 {
		return goerr.New("tasks.max_subtask_depth must not be negative", goerr.T(errs.TagConfig))
	}
	if c.Tasks.SubtasksPerParentMax < 0 {
		return goerr.New("tasks.subtasks_per_parent_max must not be negative", goerr.T(errs.TagConfig))
	}
	if c.Generation.BatchSize <= 0 {
		return goerr.New("generation.batch_size must be positive", goerr.T(errs.TagConfig))
	}
	if c.Generation.MaxResampleAttempts < 0 {
		return goerr.New("generation.max_resample_attempts must not be negative", goerr.T(errs.TagConfig))
	}
	if c.Generation.WindowDays <= 0 {
		return goerr.New("generation.window_days must be positive", goerr.T(errs.TagConfig))
	}
	if _, err := time.Parse("2006-01-02", c.Generation.WindowEnd); err != nil {
		return goerr.Wrap(err, "generation.window_end must be YYYY-MM-DD",
			goerr.T(errs.TagConfig), goerr.V("window_end", c.Generation.WindowEnd))
	}
	return nil
}

// Default returns a runnable config for a mid-size workspace.
func Default() *Config {
	var cfg Config
	cfg.Database.Path = "workseed.db"
	cfg.Organization.CompanySize = 7000
	cfg.Users.TargetCount = 200
	cfg.Users.ActiveRatio = 0.95
	cfg.Projects.PerTeamMin = 3
	cfg.Projects.PerTeamMax = 5
	cfg.Tasks.Weeks = 26
	cfg.Tasks.DependencyFraction = 0.10
	cfg.Tasks.MaxSubtaskDepth = 2
	cfg.Tasks.SubtasksPerParentMax = 3
	cfg.Generation.Seed = 1
	cfg.Generation.BatchSize = 1000
	cfg.Generation.MaxResampleAttempts = 8
	cfg.Generation.WindowDays = 180
	cfg.Generation.WindowEnd = time.Now().UTC().Format("2006-01-02")
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes. Unset fields
// fall back to defaults before validation.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(err, "invalid config yaml", goerr.T(errs.TagConfig))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "read config file", goerr.T(errs.TagConfig), goerr.V("path", path))
	}
	return FromYAML(data)
}
