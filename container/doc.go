// Package container provides a reflection-based IoC (Inversion of Control)
// container for Go: abstract service types are mapped to concrete
// implementations and fully constructed object graphs are resolved on demand,
// with instance lifetimes managed by the engine.
//
// # Overview
//
// A service is identified by its reflect.Type — typically an interface type.
// A registration maps it to an implementation struct, a pre-built instance,
// or a factory, under one of three lifetimes: Transient (new instance per
// resolution), Singleton (one process-wide instance) or Scoped (one instance
// per Scope). Constructor dependencies are wired automatically from the
// implementation struct's exported fields; properties tagged `inject:""` are
// populated after construction.
//
// # Quick start
//
//	c := container.New()
//	_ = container.Register[Mailer, *SMTPMailer](c,
//	    container.WithLifetime(container.Singleton))
//	_ = container.Register[UserService, *userService](c)
//
//	svc, err := container.Resolve[UserService](c)
//
// # Lifetimes
//
//	container.Register[Cache, *RedisCache](c,
//	    container.WithLifetime(container.Singleton))
//
// Scoped registrations require a scope:
//
//	scope := c.BeginScope()
//	tx, err := container.ResolveScoped[*UnitOfWork](scope)
//
// # Keyed registrations
//
// Several implementations of one service can coexist under keys:
//
//	container.Register[Notifier, *EmailNotifier](c, container.WithKey("email"))
//	container.Register[Notifier, *SMSNotifier](c, container.WithKey("sms"))
//
//	n, err := container.ResolveKeyed[Notifier](c, "sms")
//
// Resolving a slice aggregates the unkeyed registration (when present) and
// all keyed ones, in registration order:
//
//	all, err := container.ResolveAll[Notifier](c)
//
// # Construction
//
// The implementation struct's exported untagged fields are its constructor
// parameters, resolved by type in declaration order. Fields tagged
// `inject:""` are injectable properties, resolved after construction;
// `inject:"-"` excludes a field from wiring. Overrides substitute parameters
// by field name on the outermost construction frame only:
//
//	db, err := container.ResolveWith[*Repo](c,
//	    container.Overrides{"ConnectionString": "postgres://..."})
//
// # Open generics
//
// Go cannot instantiate generic types at run time, so an open-generic
// registration pairs the generic service's shape with a factory that receives
// the closed service type requested:
//
//	container.RegisterGeneric[Repository[int]](c,
//	    func(c *container.Container, svc reflect.Type) (any, error) { ... })
//
// Each instantiation gets its own registration — and, for Singleton
// lifetimes, its own cached instance.
//
// # Modules
//
// A Module groups registration calls; Container.Apply loads each module
// value once. See [Module].
//
// # Errors
//
// All failures are reported synchronously through the sentinel errors in
// errors.go (ErrNotRegistered, ErrCircularDependency, ...), wrapped with
// context and matchable with errors.Is.
package container
