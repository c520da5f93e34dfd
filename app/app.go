// Package app bootstraps an application around the container: built-in
// modules bind configuration and routing, and Run serves HTTP with a
// container scope opened per request.
package app

import (
	"fmt"
	"log"
	"net/http"

	"github.com/trusskit/truss/config"
	"github.com/trusskit/truss/container"
	"github.com/trusskit/truss/routing"
)

// Application is the top-level application object. It embeds the container so
// user code registers and resolves through it directly.
type Application struct {
	*container.Container
}

// New creates the application and applies the built-in modules plus any
// application modules, in order.
//
//	a, err := app.New(&StorageModule{}, &BillingModule{})
func New(modules ...container.Module) (*Application, error) {
	c := container.New()
	a := &Application{Container: c}

	builtin := []container.Module{
		&ConfigModule{},
		&RouterModule{},
		&RequestModule{},
	}
	if err := c.Apply(append(builtin, modules...)...); err != nil {
		return nil, err
	}
	return a, nil
}

// Config resolves the application configuration.
func (a *Application) Config() (*config.Config, error) {
	return container.Resolve[*config.Config](a.Container)
}

// Router resolves the HTTP router.
func (a *Application) Router() (*routing.Router, error) {
	return container.Resolve[*routing.Router](a.Container)
}

// Run starts the HTTP server on the configured address and blocks.
func (a *Application) Run() error {
	cfg, err := a.Config()
	if err != nil {
		return err
	}
	router, err := a.Router()
	if err != nil {
		return fmt.Errorf("resolving router: %w", err)
	}

	addr := cfg.Addr()
	log.Printf("%s listening on %s [%s]", cfg.App.Name, addr, cfg.App.Env)
	return http.ListenAndServe(addr, router)
}
