package config

import "time"

const (
	// DefaultThreshold is the default match-acceptance confidence.
	DefaultThreshold = 0.8

	// DefaultOpDelay is the default pause inserted between driver operations.
	DefaultOpDelay = 100 * time.Millisecond

	// DefaultFindTimeout is the default timeout for find_element polling.
	DefaultFindTimeout = 5 * time.Second

	// DefaultSnapshotQuality is the default JPEG quality used for saved match screenshots.
	DefaultSnapshotQuality = 90

	// DefaultImageMaxSize is the default longest-edge cap applied before matching, in pixels.
	DefaultImageMaxSize = 1920

	// DefaultJABPollInterval is the default interval between the driver's find polls.
	DefaultJABPollInterval = 200 * time.Millisecond

	// DefaultDirPerms is the default directory permissions for created config/log directories.
	DefaultDirPerms = 0o750
)

// DefaultConfig returns the default application configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:   "info",
			Structured: true,
		},
		Matching: MatchingConfig{
			CVStrategy:      []string{"template", "multiscale", "keypoint"},
			Threshold:       DefaultThreshold,
			OpDelay:         DefaultOpDelay,
			FindTimeout:     DefaultFindTimeout,
			SnapshotQuality: DefaultSnapshotQuality,
			ImageMaxSize:    DefaultImageMaxSize,
			SaveImage:       false,
			ResizeMethod:    "linear",
		},
		Query: QueryConfig{
			IgnoreCaseDefault: false,
		},
		JAB: JABConfig{
			DLLPath:      "",
			ActionNames:  []string{"click", "toggle", "press"},
			PollInterval: DefaultJABPollInterval,
		},
	}
}
