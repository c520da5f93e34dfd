package app

import (
	"github.com/trusskit/truss/config"
	"github.com/trusskit/truss/container"
	"github.com/trusskit/truss/routing"
)

// ConfigModule binds *config.Config as a singleton loaded from the given env
// files (default ".env").
type ConfigModule struct {
	EnvFiles []string
}

func (m *ConfigModule) Load(c *container.Container) error {
	files := m.EnvFiles
	return container.RegisterFactory[*config.Config](c,
		func(*container.Container) (*config.Config, error) {
			return config.Load(files...), nil
		},
		container.WithLifetime(container.Singleton))
}

// RouterModule binds a singleton *routing.Router with the per-request
// container-scope middleware already installed.
type RouterModule struct{}

func (RouterModule) Load(c *container.Container) error {
	return container.RegisterFactory[*routing.Router](c,
		func(c *container.Container) (*routing.Router, error) {
			r := routing.New()
			r.Middleware(routing.ContainerScope(c))
			return r, nil
		},
		container.WithLifetime(container.Singleton))
}

// RequestModule binds the request-scoped *routing.RequestInfo service that
// the scope middleware seeds for every request.
type RequestModule struct{}

func (RequestModule) Load(c *container.Container) error {
	return routing.RegisterRequestInfo(c)
}
