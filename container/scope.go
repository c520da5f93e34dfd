package container

import (
	"fmt"
	"reflect"
	"sync"
)

// Scope is a bounded resolution context. Scoped registrations resolved
// through it cache their instance in the scope, keyed by registration
// identity; distinct scopes never share entries. Registration lookups and
// Singleton caching delegate to the parent container. A scope is discarded by
// dropping it — there is no explicit disposal.
type Scope struct {
	parent *Container

	mu        sync.Mutex
	instances map[*Registration]any
}

// BeginScope opens a new, empty lifetime scope on the container.
func (c *Container) BeginScope() *Scope {
	return &Scope{
		parent:    c,
		instances: make(map[*Registration]any),
	}
}

// Container returns the parent engine, through which further registrations
// are made.
func (s *Scope) Container() *Container { return s.parent }

// Resolve resolves a service within this scope. Transient and Singleton
// registrations behave exactly as on the container; Scoped ones cache here.
func (s *Scope) Resolve(service reflect.Type) (any, error) {
	return s.parent.resolve(service, s, nil, nil)
}

// ResolveKeyed resolves a keyed registration within this scope.
func (s *Scope) ResolveKeyed(service reflect.Type, key any) (any, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil resolution key", ErrConfiguration)
	}
	return s.parent.resolve(service, s, key, nil)
}

// ResolveWith resolves a service within this scope with constructor-parameter
// overrides applied to its own construction frame.
func (s *Scope) ResolveWith(service reflect.Type, overrides Overrides) (any, error) {
	return s.parent.resolve(service, s, nil, overrides)
}

// SetInstance seeds this scope's cache for service with a ready-made
// instance. The service must have a Scoped unkeyed registration on the parent
// container; scoped resolutions in this scope then return the seeded instance
// without invoking its factory or plan. Typical use is binding per-request
// values before handing the scope to request handlers.
func (s *Scope) SetInstance(service reflect.Type, instance any) error {
	reg, err := s.parent.lookup(service, nil)
	if err != nil {
		return err
	}
	if reg.Lifetime() != Scoped {
		return fmt.Errorf("%w: %s is registered %s, not Scoped", ErrConfiguration, service, reg.Lifetime())
	}
	s.mu.Lock()
	s.instances[reg] = instance
	s.mu.Unlock()
	return nil
}

func (s *Scope) cachedInstance(reg *Registration) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	instance, ok := s.instances[reg]
	return instance, ok
}

// storeInstance caches a freshly constructed scoped instance, returning the
// already-cached one if a concurrent resolution won the race.
func (s *Scope) storeInstance(reg *Registration, instance any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.instances[reg]; ok {
		return existing
	}
	s.instances[reg] = instance
	return instance
}
