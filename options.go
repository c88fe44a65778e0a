package loom

import "log/slog"

// Option configures a registry. Options are passed to New alongside
// factories and registries.
type Option func(*registryConfig)

func (o Option) applyEntry(cfg *registryConfig) {
	o(cfg)
}

// WithLogger sets the logger used for debug output during dispose sweeps.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *registryConfig) {
		cfg.logger = logger
	}
}
