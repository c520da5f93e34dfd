package app_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trusskit/truss/app"
	"github.com/trusskit/truss/container"
	"github.com/trusskit/truss/routing"
)

type greeter interface {
	Greet() string
}

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

type greetingModule struct{}

func (greetingModule) Load(c *container.Container) error {
	return container.Register[greeter, englishGreeter](c)
}

func TestNew_BindsBuiltins(t *testing.T) {
	a, err := app.New()
	require.NoError(t, err)

	cfg, err := a.Config()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.App.Name)

	again, err := a.Config()
	require.NoError(t, err)
	assert.Same(t, cfg, again)

	router, err := a.Router()
	require.NoError(t, err)
	assert.NotNil(t, router)
}

func TestNew_AppliesUserModules(t *testing.T) {
	a, err := app.New(greetingModule{})
	require.NoError(t, err)

	g, err := container.Resolve[greeter](a.Container)
	require.NoError(t, err)
	assert.Equal(t, "hello", g.Greet())
}

func TestRouter_OpensScopePerRequest(t *testing.T) {
	a, err := app.New()
	require.NoError(t, err)
	router, err := a.Router()
	require.NoError(t, err)

	router.Get("/id", func(w http.ResponseWriter, r *http.Request) {
		info, err := container.ResolveScoped[*routing.RequestInfo](routing.ScopeFrom(r))
		require.NoError(t, err)
		io.WriteString(w, info.ID)
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/id", nil))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/id", nil))

	assert.NotEmpty(t, first.Body.String())
	assert.NotEqual(t, first.Body.String(), second.Body.String())
}
