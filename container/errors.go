package container

import "errors"

var (
	// ErrConfiguration is returned when a registration itself is invalid:
	// a nil key, a nil instance, an implementation that cannot satisfy the
	// service, or an open-generic registration whose sample type is not a
	// generic instantiation.
	ErrConfiguration = errors.New("invalid registration")

	// ErrNotRegistered is returned when no registration exists for the
	// requested service: a keyed lookup miss, or an unkeyed miss with no
	// implicit-constructible fallback.
	ErrNotRegistered = errors.New("service not registered")

	// ErrLifetimeViolation is returned when a Scoped registration is
	// resolved without an active scope.
	ErrLifetimeViolation = errors.New("scoped service resolved outside a scope")

	// ErrConstruction is returned when an implementation type has no
	// constructible form, or when an override value cannot be assigned to
	// the parameter it names.
	ErrConstruction = errors.New("cannot construct implementation")

	// ErrPropertyInjection is returned when an injectable property of a
	// freshly constructed instance cannot be resolved.
	ErrPropertyInjection = errors.New("property injection failed")

	// ErrCircularDependency is returned when a registration depends on
	// itself, directly or transitively. The error message includes the full
	// resolution chain.
	ErrCircularDependency = errors.New("circular dependency detected")
)
