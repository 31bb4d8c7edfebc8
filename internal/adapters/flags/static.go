// Package flags provides feature flag evaluation adapters.
package flags

import (
	"context"
	"log/slog"

	"github.com/Infernape3000/Tenacio/internal/platform/config"
	"github.com/Infernape3000/Tenacio/internal/ports"
)

// Static is a config-backed ports.FeatureFlags implementation. Values are
// fixed at startup; there is no remote evaluation or targeting. It exists
// so capability seams like the premium tier have a real evaluation point
// from day one.
type Static struct {
	bools   map[string]bool
	strings map[string]string
	ints    map[string]int
	logger  *slog.Logger
}

var _ ports.FeatureFlags = (*Static)(nil)

// NewStatic creates a flag adapter from the loaded configuration.
func NewStatic(cfg config.FlagsConfig, logger *slog.Logger) *Static {
	if logger == nil {
		logger = slog.Default()
	}

	return &Static{
		bools:   cfg.Bools,
		strings: cfg.Strings,
		ints:    cfg.Ints,
		logger:  logger.With(slog.String("component", "flags.Static")),
	}
}

// IsEnabled implements ports.FeatureFlags.
func (s *Static) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	if v, ok := s.bools[flag]; ok {
		return v
	}

	return defaultValue
}

// GetString implements ports.FeatureFlags.
func (s *Static) GetString(_ context.Context, flag string, defaultValue string) string {
	if v, ok := s.strings[flag]; ok {
		return v
	}

	return defaultValue
}

// GetInt implements ports.FeatureFlags.
func (s *Static) GetInt(_ context.Context, flag string, defaultValue int) int {
	if v, ok := s.ints[flag]; ok {
		return v
	}

	return defaultValue
}
