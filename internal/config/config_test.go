package config_test

import (
	"testing"

	"github.com/echo-go/uiauto/internal/config"
)

func TestDefaultConfig_Validates(t *testing.T) {
	if err := config.DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestValidate_RejectsNilConfig(t *testing.T) {
	var c *config.Config
	if err := c.Validate(); err == nil {
		t.Fatal("Validate() on nil config = nil, want error")
	}
}

func TestValidate_RejectsUnknownLogLevel(t *testing.T) {
	c := config.DefaultConfig()
	c.General.LogLevel = "verbose"

	if err := c.Validate(); err == nil {
		t.Fatal("Validate() with unknown log level = nil, want error")
	}
}

func TestValidate_RejectsEmptyCVStrategy(t *testing.T) {
	c := config.DefaultConfig()
	c.Matching.CVStrategy = nil

	if err := c.Validate(); err == nil {
		t.Fatal("Validate() with empty cv_strategy = nil, want error")
	}
}

func TestValidate_RejectsUnknownStrategy(t *testing.T) {
	c := config.DefaultConfig()
	c.Matching.CVStrategy = []string{"ocr"}

	if err := c.Validate(); err == nil {
		t.Fatal("Validate() with unknown strategy = nil, want error")
	}
}

func TestValidate_RejectsThresholdOutOfRange(t *testing.T) {
	c := config.DefaultConfig()
	c.Matching.Threshold = 1.5

	if err := c.Validate(); err == nil {
		t.Fatal("Validate() with threshold > 1 = nil, want error")
	}
}

func TestValidate_RejectsNonPositiveFindTimeout(t *testing.T) {
	c := config.DefaultConfig()
	c.Matching.FindTimeout = 0

	if err := c.Validate(); err == nil {
		t.Fatal("Validate() with zero find_timeout = nil, want error")
	}
}

func TestValidate_RejectsNegativeJABPollInterval(t *testing.T) {
	c := config.DefaultConfig()
	c.JAB.PollInterval = -1

	if err := c.Validate(); err == nil {
		t.Fatal("Validate() with negative jab.poll_interval = nil, want error")
	}
}

func TestService_UpdateRejectsInvalidConfig(t *testing.T) {
	svc := config.NewService(config.DefaultConfig(), "")

	bad := config.DefaultConfig()
	bad.Matching.Threshold = -1

	if err := svc.Update(bad); err == nil {
		t.Fatal("Update() with invalid config = nil, want error")
	}

	if svc.Get().Matching.Threshold == -1 {
		t.Fatal("Update() applied an invalid config")
	}
}

func TestLoadOrDefault_MissingFileReturnsDefaults(t *testing.T) {
	svc, err := config.LoadOrDefault("/nonexistent/path/to/config.toml")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}

	if svc.Get() == nil {
		t.Fatal("LoadOrDefault() returned a service with no config")
	}
}
