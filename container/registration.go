package container

import (
	"fmt"
	"reflect"
	"sync"
)

// Registration describes how one service is produced: a concrete
// implementation type with a precomputed construction plan, or a user
// factory. The lifetime is fixed at registration time; the singleton slot is
// written at most once, on the first successful construction (or eagerly for
// pre-supplied instances).
//
// Registration identity (the pointer) keys scope caches and drives cycle
// detection.
type Registration struct {
	service  reflect.Type
	impl     reflect.Type // nil when factory-backed
	lifetime Lifetime
	factory  Factory // non-nil bypasses the construction plan
	plan     *plan   // nil when factory-backed

	mu       sync.Mutex // serializes the first singleton construction
	instance any
	cached   bool
}

// Service returns the service type this registration satisfies.
func (r *Registration) Service() reflect.Type { return r.service }

// Implementation returns the concrete implementation type, or nil for
// factory-backed registrations.
func (r *Registration) Implementation() reflect.Type { return r.impl }

// Lifetime returns the reuse policy fixed when the registration was created.
func (r *Registration) Lifetime() Lifetime { return r.lifetime }

// ── Construction plan ─────────────────────────────────────────────────────────

// injectTag marks an exported field as an injectable property: it is resolved
// and assigned after construction instead of being treated as a constructor
// parameter. `inject:"-"` excludes a field from wiring entirely.
const injectTag = "inject"

// plan is the construction recipe computed once at registration time.
// Go types carry no overloaded constructors, so the parameter list is the
// implementation struct's exported untagged fields in declaration order —
// one deterministic rule, no tie-break. Fields tagged `inject:""`, including
// ones promoted from embedded structs, are the injectable properties.
type plan struct {
	structType reflect.Type
	pointer    bool
	params     []planField
	props      []planField
}

type planField struct {
	name  string
	typ   reflect.Type
	index []int
}

func buildPlan(impl reflect.Type) (*plan, error) {
	p := &plan{structType: impl}
	if impl.Kind() == reflect.Pointer {
		p.pointer = true
		p.structType = impl.Elem()
	}
	if p.structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s has no constructible form", ErrConstruction, impl)
	}
	collectPlanFields(p.structType, nil, p)
	return p, nil
}

// collectPlanFields walks the struct in declaration order, descending into
// value-embedded structs so that inherited injectable properties are honored.
func collectPlanFields(t reflect.Type, base []int, p *plan) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int(nil), base...), i)

		// Promoted fields reached through an unexported embedded struct are
		// not settable via reflection, so only exported embeds are walked.
		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.PkgPath == "" {
			collectPlanFields(f.Type, index, p)
			continue
		}
		if f.PkgPath != "" {
			continue // unexported
		}
		if tag, ok := f.Tag.Lookup(injectTag); ok {
			if tag == "-" {
				continue
			}
			p.props = append(p.props, planField{name: f.Name, typ: f.Type, index: index})
			continue
		}
		p.params = append(p.params, planField{name: f.Name, typ: f.Type, index: index})
	}
}

// ── Lookup ────────────────────────────────────────────────────────────────────

// lookup finds the registration for a service, synthesizing one where the
// store allows it: a closed generic instantiation falls back to an
// open-generic registration of the same shape, and a concrete struct type
// falls back to an implicit Transient self-registration. Keyed lookups never
// fall back.
func (c *Container) lookup(service reflect.Type, key any) (*Registration, error) {
	if key != nil {
		c.mu.RLock()
		reg := c.keyed[service][key]
		c.mu.RUnlock()
		if reg == nil {
			return nil, fmt.Errorf("%w: %s (key %v)", ErrNotRegistered, service, key)
		}
		return reg, nil
	}

	c.mu.RLock()
	reg := c.unkeyed[service]
	c.mu.RUnlock()
	if reg != nil {
		return reg, nil
	}

	if reg, ok := c.closeGeneric(service); ok {
		return reg, nil
	}
	return c.selfRegistration(service)
}

// selfRegistration synthesizes (and caches) an implicit Transient mapping for
// a concrete struct or pointer-to-struct type that was never registered.
// Anything else is a genuine miss.
func (c *Container) selfRegistration(service reflect.Type) (*Registration, error) {
	elem := service
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, service)
	}

	pl, err := buildPlan(service)
	if err != nil {
		return nil, err
	}
	reg := &Registration{service: service, impl: service, lifetime: Transient, plan: pl}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing := c.unkeyed[service]; existing != nil {
		return existing, nil
	}
	c.unkeyed[service] = reg
	return reg, nil
}
