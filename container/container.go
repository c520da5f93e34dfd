package container

import (
	"fmt"
	"reflect"
	"sync"
)

// Factory produces a service instance from the container. Factory-backed
// registrations bypass the construction plan entirely: no parameter wiring,
// no property injection — only the extension hook still applies.
//
// The container handed to the factory carries the resolution in progress, so
// dependencies the factory resolves through it stay on the same cycle-
// detection stack and in the same scope. The handle is only valid for the
// duration of the call. Returning (nil, nil) is allowed and means "no
// instance": dependents get the zero value for that service.
type Factory func(c *Container) (any, error)

// Extender decorates an instance after construction. Extenders registered
// for a service run in order on every construction of that service; when none
// are registered the post-construction hook is the identity.
type Extender func(instance any, c *Container) any

// Container is the resolution engine. It owns the registration store and
// exposes the register/resolve operations; resolution recursively constructs
// dependency graphs, honoring registration lifetimes.
//
// Registration and resolution are safe for concurrent use: the store is
// guarded by a read-write lock and each registration serializes its first
// singleton construction, so concurrent first resolutions cannot
// double-construct a singleton.
type Container struct {
	// mu is shared by pointer between the root container and the shallow
	// handles given to factories and extenders.
	mu *sync.RWMutex

	// unkeyed holds at most one registration per service type;
	// a later registration overwrites an earlier one.
	unkeyed map[reflect.Type]*Registration

	// keyed holds service → key → registration, with keyOrder preserving
	// registration order per service for stable collection enumeration.
	keyed    map[reflect.Type]map[any]*Registration
	keyOrder map[reflect.Type][]any

	// generics holds open-generic registrations by shape name.
	generics map[string]*genericRegistration

	// extenders holds the post-construction hook chain per service type.
	extenders map[reflect.Type][]Extender

	// applied tracks modules already loaded, so Load runs once per module.
	applied map[Module]bool

	// res is nil on the root container. Handles created for factory and
	// extender invocations carry the resolution in progress here, so nested
	// resolves continue the active cycle-detection stack.
	res *resolution
}

// New creates an empty [Container] ready for registration.
func New() *Container {
	return &Container{
		mu:        &sync.RWMutex{},
		unkeyed:   make(map[reflect.Type]*Registration),
		keyed:     make(map[reflect.Type]map[any]*Registration),
		keyOrder:  make(map[reflect.Type][]any),
		generics:  make(map[string]*genericRegistration),
		extenders: make(map[reflect.Type][]Extender),
		applied:   make(map[Module]bool),
	}
}

// withResolution returns a shallow handle on the same store, bound to the
// resolution in progress. Factories and extenders receive this handle so
// their nested resolves share the caller's stack and scope.
func (c *Container) withResolution(res *resolution) *Container {
	h := *c
	h.res = res
	return &h
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register maps a service type to a concrete implementation type. The default
// lifetime is [Transient]; use [WithLifetime] and [WithKey] to change it or to
// store the registration under a key. The last unkeyed registration for a
// service wins.
//
// The implementation must be a struct or pointer-to-struct type satisfying
// the service; its construction plan is computed here, once.
func (c *Container) Register(service, impl reflect.Type, opts ...Option) error {
	cfg, err := newRegisterConfig(opts)
	if err != nil {
		return err
	}
	if service == nil || impl == nil {
		return fmt.Errorf("%w: nil service or implementation type", ErrConfiguration)
	}
	if err := checkAssignable(service, impl); err != nil {
		return err
	}

	pl, err := buildPlan(impl)
	if err != nil {
		return err
	}
	c.store(service, cfg, &Registration{
		service:  service,
		impl:     impl,
		lifetime: cfg.lifetime,
		plan:     pl,
	})
	return nil
}

// RegisterInstance stores a pre-built value as a realized singleton: every
// resolution returns instance unchanged. The instance must be non-nil.
func (c *Container) RegisterInstance(service reflect.Type, instance any, opts ...Option) error {
	cfg, err := newRegisterConfig(opts)
	if err != nil {
		return err
	}
	if instance == nil {
		return fmt.Errorf("%w: nil instance for %s", ErrConfiguration, service)
	}
	c.store(service, cfg, &Registration{
		service:  service,
		impl:     reflect.TypeOf(instance),
		lifetime: Singleton,
		instance: instance,
		cached:   true,
	})
	return nil
}

// RegisterFactory maps a service type to a factory invoked with the engine.
func (c *Container) RegisterFactory(service reflect.Type, factory Factory, opts ...Option) error {
	cfg, err := newRegisterConfig(opts)
	if err != nil {
		return err
	}
	if factory == nil {
		return fmt.Errorf("%w: nil factory for %s", ErrConfiguration, service)
	}
	c.store(service, cfg, &Registration{
		service:  service,
		lifetime: cfg.lifetime,
		factory:  factory,
	})
	return nil
}

// Extend appends a post-construction decorator for a service. Extenders run
// in registration order on every construction of the service; cached
// singleton and scoped instances are not re-extended.
func (c *Container) Extend(service reflect.Type, ext Extender) {
	if ext == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.extenders[service] = append(c.extenders[service], ext)
}

// store writes a registration into the unkeyed or keyed table (last write
// wins), recording first-seen key order for collection enumeration.
func (c *Container) store(service reflect.Type, cfg *registerConfig, reg *Registration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cfg.keySet {
		m := c.keyed[service]
		if m == nil {
			m = make(map[any]*Registration)
			c.keyed[service] = m
		}
		if _, seen := m[cfg.key]; !seen {
			c.keyOrder[service] = append(c.keyOrder[service], cfg.key)
		}
		m[cfg.key] = reg
		return
	}
	c.unkeyed[service] = reg
}

// checkAssignable verifies that instances of impl can satisfy the service
// type: implementing the interface, or being assignable to the concrete type.
func checkAssignable(service, impl reflect.Type) error {
	if service.Kind() == reflect.Interface {
		if !impl.Implements(service) {
			return fmt.Errorf("%w: %s does not implement %s", ErrConfiguration, impl, service)
		}
		return nil
	}
	if !impl.AssignableTo(service) {
		return fmt.Errorf("%w: %s is not assignable to %s", ErrConfiguration, impl, service)
	}
	return nil
}

// ── Generic registration helpers ──────────────────────────────────────────────

// Register is the generic form of [Container.Register]: it maps service S to
// implementation I.
//
//	err := container.Register[PaymentGateway, *StripeGateway](c)
func Register[S, I any](c *Container, opts ...Option) error {
	return c.Register(reflect.TypeOf((*S)(nil)).Elem(), reflect.TypeOf((*I)(nil)).Elem(), opts...)
}

// RegisterInstance is the generic form of [Container.RegisterInstance].
func RegisterInstance[S any](c *Container, instance S, opts ...Option) error {
	return c.RegisterInstance(reflect.TypeOf((*S)(nil)).Elem(), instance, opts...)
}

// RegisterFactory is the generic form of [Container.RegisterFactory], with a
// typed factory.
func RegisterFactory[S any](c *Container, factory func(c *Container) (S, error), opts ...Option) error {
	if factory == nil {
		return fmt.Errorf("%w: nil factory for %s", ErrConfiguration, reflect.TypeOf((*S)(nil)).Elem())
	}
	return c.RegisterFactory(reflect.TypeOf((*S)(nil)).Elem(), func(c *Container) (any, error) {
		return factory(c)
	}, opts...)
}

// RegisterGeneric is the generic form of [Container.RegisterGeneric]; S names
// any closed instantiation of the open-generic service shape.
//
//	err := container.RegisterGeneric[Repository[int]](c, newRepository)
func RegisterGeneric[S any](c *Container, factory GenericFactory, opts ...Option) error {
	return c.RegisterGeneric(reflect.TypeOf((*S)(nil)).Elem(), factory, opts...)
}
