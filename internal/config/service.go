package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/echo-go/uiauto/internal/core"
)

// Service manages application configuration with thread-safe access and change
// notifications, used in place of a bare global so the driver/CLI can be
// constructed with an explicit config dependency.
type Service struct {
	config   *Config
	path     string
	mu       sync.RWMutex
	watchers []chan<- *Config
}

// NewService creates a new configuration service.
func NewService(cfg *Config, path string) *Service {
	return &Service{config: cfg, path: path}
}

// Get returns the current configuration (thread-safe).
func (s *Service) Get() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config
}

// Path returns the configuration file path.
func (s *Service) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.path
}

// Reload reloads the configuration from the specified path.
func (s *Service) Reload(ctx context.Context, path string) error {
	result := LoadWithValidation(path)
	if result.ValidationError != nil {
		return core.WrapConfigFailed(result.ValidationError, "reload")
	}

	s.mu.Lock()
	s.config = result.Config
	s.path = result.ConfigPath
	watchers := make([]chan<- *Config, len(s.watchers))
	copy(watchers, s.watchers)
	s.mu.Unlock()

	for _, watcher := range watchers {
		select {
		case watcher <- result.Config:
		case <-ctx.Done():
			return core.WrapContextCanceled(ctx, "notify config watchers")
		default:
		}
	}

	return nil
}

// Watch returns a channel that receives configuration updates. The channel
// is closed when ctx is canceled.
func (s *Service) Watch(ctx context.Context) <-chan *Config {
	ch := make(chan *Config, 1)

	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	ch <- s.Get()

	go func() {
		<-ctx.Done()

		s.mu.Lock()
		defer s.mu.Unlock()

		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)

				break
			}
		}

		close(ch)
	}()

	return ch
}

// Validate validates the given configuration.
func (s *Service) Validate(cfg *Config) error {
	return cfg.Validate()
}

// Update replaces the current configuration after validating it.
func (s *Service) Update(cfg *Config) error {
	if err := s.Validate(cfg); err != nil {
		return err
	}

	s.mu.Lock()
	s.config = cfg
	watchers := make([]chan<- *Config, len(s.watchers))
	copy(watchers, s.watchers)
	s.mu.Unlock()

	for _, watcher := range watchers {
		select {
		case watcher <- cfg:
		default:
		}
	}

	return nil
}

// LoadOrDefault loads configuration from the given path, or returns a
// Service over the default config (plus the load error) if it fails.
func LoadOrDefault(path string) (*Service, error) {
	result := LoadWithValidation(path)
	if result.ValidationError != nil {
		return NewService(DefaultConfig(), ""), fmt.Errorf("failed to load config: %w", result.ValidationError)
	}

	return NewService(result.Config, result.ConfigPath), nil
}
