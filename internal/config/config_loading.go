package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/echo-go/uiauto/internal/core"
	"github.com/echo-go/uiauto/internal/core/infra/logger"
	"go.uber.org/zap"
)

// LoadWithValidation loads configuration from the specified path and returns both
// the config and any validation error separately. This allows callers to decide
// how to handle validation failures (e.g., fall back to the default config).
func LoadWithValidation(path string) *LoadResult {
	result := &LoadResult{
		Config:     DefaultConfig(),
		ConfigPath: path,
	}

	if path == "" {
		result.ConfigPath = FindConfigFile()
	}

	logger.Info("loading config", zap.String("path", result.ConfigPath))

	if result.ConfigPath == "" {
		logger.Info("no config file found, using default configuration")

		return result
	}

	if _, err := os.Stat(result.ConfigPath); os.IsNotExist(err) {
		logger.Info("config file not found, using default configuration")

		return result
	}

	if _, err := toml.DecodeFile(result.ConfigPath, result.Config); err != nil {
		result.ValidationError = core.WrapConfigFailed(err, "parse config file")
		result.Config = DefaultConfig()

		return result
	}

	if err := result.Config.Validate(); err != nil {
		result.ValidationError = core.WrapConfigFailed(err, "validate")
		result.Config = DefaultConfig()

		return result
	}

	logger.Info("configuration loaded successfully")

	return result
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the config file, or an empty string if not found.
func FindConfigFile() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		path := filepath.Join(xdgConfig, "uiauto", "config.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(homeDir, ".config", "uiauto", "config.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}

		path = filepath.Join(homeDir, ".uiauto.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	if _, err := os.Stat("uiauto.toml"); err == nil {
		return "uiauto.toml"
	}

	if _, err := os.Stat("config.toml"); err == nil {
		return "config.toml"
	}

	return ""
}
