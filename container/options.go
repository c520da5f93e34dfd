package container

import "fmt"

// registerConfig accumulates the optional parts of a registration.
type registerConfig struct {
	lifetime Lifetime
	key      any
	keySet   bool
}

// Option configures a registration.
type Option func(*registerConfig)

// WithLifetime sets the [Lifetime] of the registration. The default is
// [Transient].
func WithLifetime(l Lifetime) Option {
	return func(cfg *registerConfig) {
		cfg.lifetime = l
	}
}

// WithKey stores the registration under an additional key, so several
// registrations of one service type can coexist. Keyed registrations are
// resolved with [Container.ResolveKeyed] and aggregated by collection
// resolution. The key must be non-nil and comparable.
func WithKey(key any) Option {
	return func(cfg *registerConfig) {
		cfg.key = key
		cfg.keySet = true
	}
}

func newRegisterConfig(opts []Option) (*registerConfig, error) {
	cfg := &registerConfig{lifetime: Transient}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.keySet && cfg.key == nil {
		return nil, fmt.Errorf("%w: registration key cannot be nil", ErrConfiguration)
	}
	return cfg, nil
}
