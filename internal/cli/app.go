package cli

import (
	"github.com/echo-go/uiauto/internal/backend/cv"
	"github.com/echo-go/uiauto/internal/backend/jab"
	"github.com/echo-go/uiauto/internal/backend/uia"
	"github.com/echo-go/uiauto/internal/config"
	"github.com/echo-go/uiauto/internal/core"
	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/core/infra/logger"
	"github.com/echo-go/uiauto/internal/driver"
	"github.com/echo-go/uiauto/internal/matching/orchestrator"
	"github.com/echo-go/uiauto/internal/winhost"
)

// loadConfig loads the effective configuration from --config, falling back
// to defaults, and initializes the logger from its [general] section.
func loadConfig() (*config.Config, error) {
	svc, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	cfg := svc.Get()

	if err := logger.Init(cfg.General.LogLevel, cfg.General.LogFilePath, cfg.General.Structured, false, 10, 5, 30); err != nil {
		return nil, core.WrapInternalFailed(err, "initialize logger")
	}

	return cfg, nil
}

// buildDriver wires every backend that can initialize successfully into a
// Driver; CV always succeeds (it only needs screen capture), UIA and JAB
// are best-effort since they depend on COM/DLL availability on the host.
func buildDriver(cfg *config.Config, templates []orchestrator.Template) (*driver.Driver, error) {
	capture := winhost.NewScreenCapture()
	input := winhost.NewInputInjector()
	windows := winhost.NewWindowSystem()

	opts := driver.Options{
		Windows:           windows,
		Input:             input,
		IgnoreCaseDefault: cfg.Query.IgnoreCaseDefault,
		FindPollInterval:  cfg.JAB.PollInterval,
		CV:                cv.New(capture, templates),
	}

	if b, err := uia.New(); err == nil {
		opts.UIA = b
	} else {
		logger.Warn("UIA backend unavailable: " + err.Error())
	}

	if cfg.JAB.DLLPath != "" {
		if lib, err := jab.Load(cfg.JAB.DLLPath); err == nil {
			opts.JAB = jab.New(lib)
		} else {
			logger.Warn("JAB backend unavailable: " + err.Error())
		}
	}

	d, err := driver.New(opts)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInvalidConfig, "failed to build driver")
	}

	return d, nil
}
