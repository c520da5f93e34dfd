package container

// Lifetime is the reuse policy of a registration: how many instances the
// container creates and where they are cached.
type Lifetime int

const (
	// Transient is the default lifetime. A new instance is constructed on
	// every resolution; nothing is ever cached.
	Transient Lifetime = iota

	// Singleton produces one process-wide instance. It is constructed on the
	// first resolution and cached on the registration itself; every later
	// resolution returns the same value.
	Singleton

	// Scoped produces one instance per [Scope]. Distinct scopes never share
	// instances, and resolving a Scoped registration without an active scope
	// fails with [ErrLifetimeViolation].
	Scoped
)

// String returns the human-readable name of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	default:
		return "unknown"
	}
}
