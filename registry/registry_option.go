package registry

type RegisterConfig struct {
	Name    string
	Version string
}

type RegisterOption interface {
	applyRegisterOption(RegisterConfig) RegisterConfig
}

type registerOptionFunc func(RegisterConfig) RegisterConfig

func (f registerOptionFunc) applyRegisterOption(cfg RegisterConfig) RegisterConfig {
	return f(cfg)
}

// Config applies the given options to an empty RegisterConfig.
func Config(opts ...RegisterOption) RegisterConfig {
	var cfg RegisterConfig
	for _, opt := range opts {
		cfg = opt.applyRegisterOption(cfg)
	}
	return cfg
}

// WithName overrides the name a task is registered under.
func WithName(name string) RegisterOption {
	return registerOptionFunc(func(cfg RegisterConfig) RegisterConfig {
		cfg.Name = name
		return cfg
	})
}

// WithVersion registers the task under the given version instead of the
// unversioned default.
func WithVersion(version string) RegisterOption {
	return registerOptionFunc(func(cfg RegisterConfig) RegisterConfig {
		cfg.Version = version
		return cfg
	})
}
