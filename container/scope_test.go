package container_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trusskit/truss/container"
)

func TestScope_CachesScopedInstances(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, container.Register[*database, *database](c,
		container.WithLifetime(container.Scoped)))
	require.NoError(t, container.RegisterInstance[string](c, "dsn"))

	scope := c.BeginScope()
	a, err := container.ResolveScoped[*database](scope)
	require.NoError(t, err)
	b, err := container.ResolveScoped[*database](scope)
	require.NoError(t, err)

	assert.Same(t, a, b)
}

func TestScope_DistinctScopesGetDistinctInstances(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, container.Register[*database, *database](c,
		container.WithLifetime(container.Scoped)))
	require.NoError(t, container.RegisterInstance[string](c, "dsn"))

	first, err := container.ResolveScoped[*database](c.BeginScope())
	require.NoError(t, err)
	second, err := container.ResolveScoped[*database](c.BeginScope())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
}

func TestScope_ScopedOutsideScopeFails(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, container.Register[Mailer, *emailMailer](c,
		container.WithLifetime(container.Scoped)))

	_, err := container.Resolve[Mailer](c)
	require.ErrorIs(t, err, container.ErrLifetimeViolation)
}

func TestScope_ScopedDependencyOfTransientFails_WithoutScope(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, container.Register[Mailer, *emailMailer](c,
		container.WithLifetime(container.Scoped)))

	// reportService itself is constructed implicitly; its Mailer dependency
	// is scoped and there is no enclosing scope.
	_, err := container.Resolve[*reportService](c)
	require.ErrorIs(t, err, container.ErrLifetimeViolation)
}

func TestScope_SingletonSharedAcrossScopes(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, container.Register[Mailer, *emailMailer](c,
		container.WithLifetime(container.Singleton)))

	a, err := container.ResolveScoped[Mailer](c.BeginScope())
	require.NoError(t, err)
	b, err := container.ResolveScoped[Mailer](c.BeginScope())
	require.NoError(t, err)
	direct, err := container.Resolve[Mailer](c)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Same(t, a, direct)
}

func TestScope_TransientNeverCached(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, container.Register[Mailer, *emailMailer](c))

	scope := c.BeginScope()
	a, err := container.ResolveScoped[Mailer](scope)
	require.NoError(t, err)
	b, err := container.ResolveScoped[Mailer](scope)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
}

func TestScope_KeyedScopedResolution(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, container.Register[Mailer, *smsMailer](c,
		container.WithKey("sms"),
		container.WithLifetime(container.Scoped)))

	scope := c.BeginScope()
	_, err := container.ResolveKeyed[Mailer](scope.Container(), "sms")
	require.ErrorIs(t, err, container.ErrLifetimeViolation)

	got, err := scope.ResolveKeyed(reflect.TypeOf((*Mailer)(nil)).Elem(), "sms")
	require.NoError(t, err)
	again, err := scope.ResolveKeyed(reflect.TypeOf((*Mailer)(nil)).Elem(), "sms")
	require.NoError(t, err)
	assert.Same(t, got, again)
}

func TestScope_SetInstanceSeedsScopedCache(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, container.RegisterFactory[*database](c,
		func(*container.Container) (*database, error) {
			t.Fatal("factory must not run for a seeded scope")
			return nil, nil
		},
		container.WithLifetime(container.Scoped)))

	scope := c.BeginScope()
	seeded := &database{ConnectionString: "seeded"}
	require.NoError(t, container.SetScoped(scope, seeded))

	got, err := container.ResolveScoped[*database](scope)
	require.NoError(t, err)
	assert.Same(t, seeded, got)
}

func TestScope_SetInstanceRequiresScopedRegistration(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, container.Register[Mailer, *emailMailer](c))

	err := container.SetScoped[Mailer](c.BeginScope(), &emailMailer{})
	require.ErrorIs(t, err, container.ErrConfiguration)
}

func TestScope_ResolveWithOverride(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, container.Register[*database, *database](c,
		container.WithLifetime(container.Scoped)))

	scope := c.BeginScope()
	got, err := scope.ResolveWith(reflect.TypeOf((**database)(nil)).Elem(), container.Overrides{
		"ConnectionString": "override-dsn",
	})
	require.NoError(t, err)
	assert.Equal(t, "override-dsn", got.(*database).ConnectionString)
}
