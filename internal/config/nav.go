package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mosswood-robotics/gridnav/internal/planner"
)

// DefaultConfigPath is the path to the canonical navigation defaults file.
const DefaultConfigPath = "config/nav.defaults.json"

// NavConfig represents the root configuration for the navigation stack.
// All fields are pointers so a partial JSON file only overrides the values
// it mentions; the Get* methods supply defaults for the rest.
type NavConfig struct {
	// Planner params
	Conservativism    *int     `json:"conservativism,omitempty"`
	PreserveUnknown   *bool    `json:"preserve_unknown,omitempty"`
	UnknownCost       *float64 `json:"unknown_cost,omitempty"`
	CostPenalty       *float64 `json:"cost_penalty,omitempty"`
	ResampleSpacingM  *float64 `json:"resample_spacing_m,omitempty"`
	MaxExpansions     *int     `json:"max_expansions,omitempty"`
	NearestFreeRadius *int     `json:"nearest_free_radius,omitempty"`

	// Pose stream params
	PoseStreamInterval   *string  `json:"pose_stream_interval,omitempty"` // duration string like "100ms"
	PoseStreamPrecisionM *float64 `json:"pose_stream_precision_m,omitempty"`

	// Service params
	ListenAddr *string `json:"listen_addr,omitempty"`
	DBPath     *string `json:"db_path,omitempty"`
	PlotDir    *string `json:"plot_dir,omitempty"`
}

// EmptyNavConfig returns a NavConfig with all fields set to nil.
func EmptyNavConfig() *NavConfig {
	return &NavConfig{}
}

// LoadNavConfig loads a NavConfig from a JSON file. Fields omitted from the
// JSON retain their default values, so partial configs are safe.
func LoadNavConfig(path string) (*NavConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

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

	cfg := EmptyNavConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *NavConfig) Validate() error {
	if c.UnknownCost != nil {
		if *c.UnknownCost < 0 || *c.UnknownCost > 1 {
			return fmt.Errorf("unknown_cost must be between 0 and 1, got %f", *c.UnknownCost)
		}
	}

	if c.Conservativism != nil && *c.Conservativism < 0 {
		return fmt.Errorf("conservativism must be non-negative, got %d", *c.Conservativism)
	}

	if c.ResampleSpacingM != nil && *c.ResampleSpacingM <= 0 {
		return fmt.Errorf("resample_spacing_m must be positive, got %f", *c.ResampleSpacingM)
	}

	if c.PoseStreamInterval != nil && *c.PoseStreamInterval != "" {
		if _, err := time.ParseDuration(*c.PoseStreamInterval); err != nil {
			return fmt.Errorf("invalid pose_stream_interval '%s': %w", *c.PoseStreamInterval, err)
		}
	}

	return nil
}

// ToParams converts the config into planner parameters, filling defaults for
// unset fields.
func (c *NavConfig) ToParams() planner.Params {
	p := planner.DefaultParams()
	if c.Conservativism != nil {
		p.Conservativism = *c.Conservativism
	}
	if c.PreserveUnknown != nil {
		p.PreserveUnknown = *c.PreserveUnknown
	}
	if c.UnknownCost != nil {
		p.UnknownCost = *c.UnknownCost
	}
	if c.CostPenalty != nil {
		p.CostPenalty = *c.CostPenalty
	}
	if c.ResampleSpacingM != nil {
		p.ResampleSpacing = *c.ResampleSpacingM
	}
	if c.MaxExpansions != nil {
		p.MaxExpansions = *c.MaxExpansions
	}
	if c.NearestFreeRadius != nil {
		p.NearestFreeRadius = *c.NearestFreeRadius
	}
	return p
}

// GetPoseStreamInterval parses and returns the pose stream interval.
func (c *NavConfig) GetPoseStreamInterval() time.Duration {
	if c.PoseStreamInterval == nil || *c.PoseStreamInterval == "" {
		return 100 * time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.PoseStreamInterval)
	if err != nil {
		return 100 * time.Millisecond // default on parse error
	}
	return d
}

// GetPoseStreamPrecision returns the pose stream precision in meters.
func (c *NavConfig) GetPoseStreamPrecision() float64 {
	if c.PoseStreamPrecisionM == nil {
		return 0.01 // default
	}
	return *c.PoseStreamPrecisionM
}

// GetListenAddr returns the monitor listen address or the default.
func (c *NavConfig) GetListenAddr() string {
	if c.ListenAddr == nil || *c.ListenAddr == "" {
		return ":8080" // default
	}
	return *c.ListenAddr
}

// GetDBPath returns the plan history database path; empty disables
// persistence.
func (c *NavConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// GetPlotDir returns the plot output directory; empty disables plotting.
func (c *NavConfig) GetPlotDir() string {
	if c.PlotDir == nil {
		return ""
	}
	return *c.PlotDir
}
