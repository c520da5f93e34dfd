package container

import (
	"fmt"
	"reflect"
	"strings"
)

// GenericFactory produces an implementation for a closed instantiation of an
// open-generic service. The engine passes the fully closed service type that
// was requested; the factory returns an instance satisfying it.
//
// Go's runtime cannot instantiate a generic type over arguments it first
// sees at run time, so closing the implementation is delegated to the
// factory. The shape matching, lifetime handling and per-instantiation
// caching stay in the engine.
type GenericFactory func(c *Container, service reflect.Type) (any, error)

type genericRegistration struct {
	shape    string
	factory  GenericFactory
	lifetime Lifetime
}

// genericShape returns the package-qualified name of a generic type with its
// type-argument list stripped, and reports whether the type is a generic
// instantiation at all.
func genericShape(t reflect.Type) (string, bool) {
	if t == nil || t.PkgPath() == "" {
		return "", false
	}
	name := t.Name()
	i := strings.IndexByte(name, '[')
	if i < 0 {
		return "", false
	}
	return t.PkgPath() + "." + name[:i], true
}

// RegisterGeneric registers an open-generic mapping. sample is any closed
// instantiation of the generic service type — for example
// reflect.TypeOf((*Repository[int])(nil)).Elem() — of which only the shape is retained.
// Resolving a different instantiation of the same shape synthesizes a fresh
// closed registration backed by factory, with the lifetime given here.
//
// Re-registering a shape overwrites the previous open registration, but
// already-closed instantiations keep their registrations.
func (c *Container) RegisterGeneric(sample reflect.Type, factory GenericFactory, opts ...Option) error {
	cfg, err := newRegisterConfig(opts)
	if err != nil {
		return err
	}
	if cfg.keySet {
		return fmt.Errorf("%w: open-generic registrations cannot be keyed", ErrConfiguration)
	}
	if factory == nil {
		return fmt.Errorf("%w: nil generic factory for %s", ErrConfiguration, sample)
	}
	shape, ok := genericShape(sample)
	if !ok {
		return fmt.Errorf("%w: %s is not a generic instantiation", ErrConfiguration, sample)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generics[shape] = &genericRegistration{shape: shape, factory: factory, lifetime: cfg.lifetime}
	return nil
}

// closeGeneric synthesizes a registration for a closed generic service type
// from the open-generic registration of the same shape, if one exists. Each
// closing yields a registration with its own singleton slot — instantiations
// never share cached instances. The closed form is stored in the unkeyed
// table so repeated requests do not re-close; observable results are the
// same either way.
func (c *Container) closeGeneric(service reflect.Type) (*Registration, bool) {
	shape, ok := genericShape(service)
	if !ok {
		return nil, false
	}

	c.mu.RLock()
	open := c.generics[shape]
	c.mu.RUnlock()
	if open == nil {
		return nil, false
	}

	factory := open.factory
	closed := service
	reg := &Registration{
		service:  service,
		lifetime: open.lifetime,
		factory: func(c *Container) (any, error) {
			return factory(c, closed)
		},
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing := c.unkeyed[service]; existing != nil {
		return existing, true
	}
	c.unkeyed[service] = reg
	return reg, true
}
