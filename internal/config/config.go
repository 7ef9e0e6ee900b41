package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/echo-go/uiauto/internal/core"
	derrors "github.com/echo-go/uiauto/internal/core/errors"
)

// Config represents the complete application configuration structure.
type Config struct {
	General  GeneralConfig  `json:"general"  toml:"general"`
	Matching MatchingConfig `json:"matching" toml:"matching"`
	Query    QueryConfig    `json:"query"    toml:"query"`
	JAB      JABConfig      `json:"jab"      toml:"jab"`
}

// GeneralConfig defines process-wide logging settings.
type GeneralConfig struct {
	LogLevel    string `json:"logLevel"    toml:"log_level"`
	LogFilePath string `json:"logFilePath" toml:"log_file_path"`
	Structured  bool   `json:"structured"  toml:"structured"`
}

// MatchingConfig defines the image-matching engine's strategy order and
// resource limits.
type MatchingConfig struct {
	CVStrategy      []string      `json:"cvStrategy"      toml:"cv_strategy"`
	Threshold       float64       `json:"threshold"       toml:"threshold"`
	OpDelay         time.Duration `json:"opDelay"         toml:"op_delay"`
	FindTimeout     time.Duration `json:"findTimeout"     toml:"find_timeout"`
	SnapshotQuality int           `json:"snapshotQuality" toml:"snapshot_quality"`
	ImageMaxSize    int           `json:"imageMaxSize"    toml:"image_max_size"`
	SaveImage       bool          `json:"saveImage"       toml:"save_image"`
	LogDir          string        `json:"logDir"          toml:"log_dir"`
	ResizeMethod    string        `json:"resizeMethod"    toml:"resize_method"`
	ProjectRoot     string        `json:"projectRoot"     toml:"project_root"`
}

// QueryConfig defines defaults applied to the query engine.
type QueryConfig struct {
	IgnoreCaseDefault bool `json:"ignoreCaseDefault" toml:"ignore_case_default"`
}

// JABConfig defines Java Access Bridge backend settings.
type JABConfig struct {
	DLLPath      string        `json:"dllPath"      toml:"dll_path"`
	ActionNames  []string      `json:"actionNames"  toml:"action_names"`
	PollInterval time.Duration `json:"pollInterval" toml:"poll_interval"`
}

// LoadResult contains the result of loading a configuration file.
type LoadResult struct {
	Config          *Config
	ValidationError error
	ConfigPath      string
}

// Validate validates the configuration, delegating to each section's own
// Validate.
func (c *Config) Validate() error {
	if c == nil {
		return derrors.New(derrors.CodeInvalidConfig, "configuration cannot be nil")
	}

	if err := c.General.Validate(); err != nil {
		return err
	}

	if err := c.Matching.Validate(); err != nil {
		return err
	}

	if err := c.JAB.Validate(); err != nil {
		return err
	}

	return nil
}

// Validate checks that LogLevel names a known zap level.
func (g GeneralConfig) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[g.LogLevel] {
		return derrors.New(derrors.CodeInvalidConfig, "general.log_level must be one of: debug, info, warn, error")
	}

	return nil
}

// Validate checks matching's numeric ranges and strategy names.
func (m MatchingConfig) Validate() error {
	if len(m.CVStrategy) == 0 {
		return derrors.New(derrors.CodeInvalidConfig, "matching.cv_strategy must name at least one strategy")
	}

	validStrategies := map[string]bool{"template": true, "multiscale": true, "keypoint": true}
	for _, s := range m.CVStrategy {
		if !validStrategies[s] {
			return derrors.Newf(derrors.CodeInvalidConfig,
				"matching.cv_strategy has unknown strategy '%s' (valid: template, multiscale, keypoint)", s)
		}
	}

	if m.Threshold < 0 || m.Threshold > 1 {
		return derrors.New(derrors.CodeInvalidConfig, "matching.threshold must be between 0 and 1")
	}

	if m.FindTimeout <= 0 {
		return derrors.New(derrors.CodeInvalidConfig, "matching.find_timeout must be positive")
	}

	if m.SnapshotQuality < 1 || m.SnapshotQuality > 100 {
		return derrors.New(derrors.CodeInvalidConfig, "matching.snapshot_quality must be between 1 and 100")
	}

	validResize := map[string]bool{"nearest": true, "linear": true, "cubic": true}
	if !validResize[m.ResizeMethod] {
		return derrors.New(derrors.CodeInvalidConfig, "matching.resize_method must be one of: nearest, linear, cubic")
	}

	return nil
}

// Validate checks the JAB section's poll interval.
func (j JABConfig) Validate() error {
	if j.PollInterval < 0 {
		return derrors.New(derrors.CodeInvalidConfig, "jab.poll_interval cannot be negative")
	}

	return nil
}

// Save saves the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, DefaultDirPerms); err != nil {
		return core.WrapIOFailed(err, "create config directory")
	}

	// #nosec G304 -- Path is validated and controlled by the application
	file, err := os.Create(path)
	if err != nil {
		return core.WrapIOFailed(err, "create config file")
	}

	var closeErr error

	defer func() {
		if cerr := file.Close(); cerr != nil && closeErr == nil {
			closeErr = core.WrapIOFailed(cerr, "close config file")
		}
	}()

	if err := toml.NewEncoder(file).Encode(c); err != nil {
		return core.WrapSerializationFailed(err, "encode config")
	}

	return closeErr
}
