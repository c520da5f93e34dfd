package container

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Overrides substitutes constructor parameters by name. An override applies
// only to the outermost construction frame of the resolve call that received
// it; it never propagates into recursive dependency resolutions.
type Overrides map[string]any

// ── Container methods ─────────────────────────────────────────────────────────

// Resolve returns an instance of the service registered for the given type.
// A slice type resolves as a collection: the unkeyed registration of the
// element type (when present) plus every keyed one, in registration order.
func (c *Container) Resolve(service reflect.Type) (any, error) {
	return c.resolve(service, nil, nil, nil)
}

// ResolveKeyed returns the instance registered for the service under key.
// Unlike unkeyed resolution there is no implicit fallback: a miss is
// [ErrNotRegistered].
func (c *Container) ResolveKeyed(service reflect.Type, key any) (any, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil resolution key", ErrConfiguration)
	}
	return c.resolve(service, nil, key, nil)
}

// ResolveWith resolves the service with constructor-parameter overrides
// applied to its own construction frame.
func (c *Container) ResolveWith(service reflect.Type, overrides Overrides) (any, error) {
	return c.resolve(service, nil, nil, overrides)
}

func (c *Container) resolve(service reflect.Type, scope *Scope, key any, overrides Overrides) (any, error) {
	res := c.res
	switch {
	case res == nil:
		res = &resolution{scope: scope}
	case scope != nil && scope != res.scope:
		// A factory opened its own scope: resolve in it, but keep the active
		// stack so cycles crossing the factory boundary are still caught.
		res = &resolution{scope: scope, stack: res.stack}
	}
	return c.resolveType(res, service, key, overrides)
}

// ── Resolution core ───────────────────────────────────────────────────────────

// resolution tracks one resolve call tree: the bound scope and the stack of
// registrations currently being constructed, used for cycle detection.
type resolution struct {
	scope *Scope
	stack []*Registration
}

func (res *resolution) chain(last *Registration) string {
	parts := make([]string, 0, len(res.stack)+1)
	for _, reg := range res.stack {
		parts = append(parts, reg.service.String())
	}
	parts = append(parts, last.service.String())
	return strings.Join(parts, " -> ")
}

func (c *Container) resolveType(res *resolution, service reflect.Type, key any, overrides Overrides) (any, error) {
	if key == nil && service.Kind() == reflect.Slice {
		// An explicit registration of the slice type itself takes precedence
		// over collection aggregation.
		c.mu.RLock()
		reg := c.unkeyed[service]
		c.mu.RUnlock()
		if reg == nil {
			return c.resolveCollection(res, service)
		}
		return c.resolveRegistration(res, reg, overrides)
	}

	reg, err := c.lookup(service, key)
	if err != nil {
		return nil, err
	}
	return c.resolveRegistration(res, reg, overrides)
}

func (c *Container) resolveRegistration(res *resolution, reg *Registration, overrides Overrides) (any, error) {
	for _, active := range res.stack {
		if active == reg {
			return nil, fmt.Errorf("%w: %s", ErrCircularDependency, res.chain(reg))
		}
	}
	res.stack = append(res.stack, reg)
	defer func() { res.stack = res.stack[:len(res.stack)-1] }()

	switch reg.lifetime {
	case Singleton:
		reg.mu.Lock()
		defer reg.mu.Unlock()
		if reg.cached {
			return reg.instance, nil
		}
		instance, err := c.createInstance(res, reg, overrides)
		if err != nil {
			return nil, err
		}
		reg.instance = instance
		reg.cached = true
		return instance, nil

	case Scoped:
		if res.scope == nil {
			return nil, fmt.Errorf("%w: %s", ErrLifetimeViolation, reg.service)
		}
		if instance, ok := res.scope.cachedInstance(reg); ok {
			return instance, nil
		}
		instance, err := c.createInstance(res, reg, overrides)
		if err != nil {
			return nil, err
		}
		return res.scope.storeInstance(reg, instance), nil

	default: // Transient
		return c.createInstance(res, reg, overrides)
	}
}

// resolveCollection aggregates every registration of the element type: the
// unkeyed resolution when the lookup finds one — a miss there is the valid
// "no default" state, not an error — plus one resolution per keyed
// registration, in registration order. The result may be empty; absence is
// never an error, but a failing element construction aborts the whole call.
func (c *Container) resolveCollection(res *resolution, sliceType reflect.Type) (any, error) {
	elem := sliceType.Elem()
	out := reflect.MakeSlice(sliceType, 0, 4)

	reg, err := c.lookup(elem, nil)
	switch {
	case err == nil:
		instance, err := c.resolveRegistration(res, reg, nil)
		if err != nil {
			return nil, err
		}
		out = reflect.Append(out, reflect.ValueOf(instance))
	case !errors.Is(err, ErrNotRegistered):
		return nil, err
	}

	c.mu.RLock()
	regs := make([]*Registration, 0, len(c.keyOrder[elem]))
	for _, key := range c.keyOrder[elem] {
		regs = append(regs, c.keyed[elem][key])
	}
	c.mu.RUnlock()

	for _, keyedReg := range regs {
		instance, err := c.resolveRegistration(res, keyedReg, nil)
		if err != nil {
			return nil, err
		}
		out = reflect.Append(out, reflect.ValueOf(instance))
	}
	return out.Interface(), nil
}

// ── Generic helpers ───────────────────────────────────────────────────────────

// Resolve is the generic form of [Container.Resolve] and the recommended way
// to retrieve services:
//
//	gateway, err := container.Resolve[PaymentGateway](c)
func Resolve[T any](c *Container) (T, error) {
	return typed[T](c.Resolve(reflect.TypeOf((*T)(nil)).Elem()))
}

// ResolveKeyed is the generic form of [Container.ResolveKeyed].
func ResolveKeyed[T any](c *Container, key any) (T, error) {
	return typed[T](c.ResolveKeyed(reflect.TypeOf((*T)(nil)).Elem(), key))
}

// ResolveWith is the generic form of [Container.ResolveWith].
func ResolveWith[T any](c *Container, overrides Overrides) (T, error) {
	return typed[T](c.ResolveWith(reflect.TypeOf((*T)(nil)).Elem(), overrides))
}

// ResolveAll resolves the collection of T: zero or more instances, never an
// error for absence.
func ResolveAll[T any](c *Container) ([]T, error) {
	return typed[[]T](c.Resolve(reflect.TypeOf((*[]T)(nil)).Elem()))
}

// ResolveScoped resolves T through a scope, so Scoped registrations cache
// their instance in it.
func ResolveScoped[T any](s *Scope) (T, error) {
	return typed[T](s.Resolve(reflect.TypeOf((*T)(nil)).Elem()))
}

// SetScoped is the generic form of [Scope.SetInstance].
func SetScoped[S any](s *Scope, instance S) error {
	return s.SetInstance(reflect.TypeOf((*S)(nil)).Elem(), instance)
}

func typed[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cannot use resolved %T as %s", v, reflect.TypeOf((*T)(nil)).Elem())
	}
	return out, nil
}
