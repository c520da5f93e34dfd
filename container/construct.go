package container

import (
	"fmt"
	"reflect"
)

// createInstance builds one instance for a registration. Factory-backed
// registrations invoke the factory and skip wiring entirely. Plan-backed
// registrations allocate the implementation struct, fill its constructor
// parameters in declaration order — an override value, when named, is used
// verbatim instead of a recursive resolution — then resolve and assign the
// injectable properties. The extension hook runs last on both paths.
func (c *Container) createInstance(res *resolution, reg *Registration, overrides Overrides) (any, error) {
	if reg.factory != nil {
		instance, err := reg.factory(c.withResolution(res))
		if err != nil {
			return nil, fmt.Errorf("factory for %s: %w", reg.service, err)
		}
		return c.extend(res, reg.service, instance), nil
	}

	pl := reg.plan
	value := reflect.New(pl.structType)
	elem := value.Elem()

	for _, param := range pl.params {
		target := elem.FieldByIndex(param.index)

		if raw, ok := overrides[param.name]; ok {
			ov := reflect.ValueOf(raw)
			if !ov.IsValid() || !ov.Type().AssignableTo(param.typ) {
				return nil, fmt.Errorf("%w: override %q (%T) is not assignable to %s",
					ErrConstruction, param.name, raw, param.typ)
			}
			target.Set(ov)
			continue
		}

		dep, err := c.resolveType(res, param.typ, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("parameter %s of %s: %w", param.name, pl.structType, err)
		}
		// A factory may resolve to nil; the field stays zero then.
		if v := reflect.ValueOf(dep); v.IsValid() {
			target.Set(v)
		}
	}

	for _, prop := range pl.props {
		dep, err := c.resolveType(res, prop.typ, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: property %s of %s: %v", ErrPropertyInjection, prop.name, pl.structType, err)
		}
		if v := reflect.ValueOf(dep); v.IsValid() {
			elem.FieldByIndex(prop.index).Set(v)
		}
	}

	var instance any
	if pl.pointer {
		instance = value.Interface()
	} else {
		instance = elem.Interface()
	}
	return c.extend(res, reg.service, instance), nil
}

// extend applies the extender chain registered for the service; when none is
// registered the hook is the identity. Extenders see the resolution-bound
// container handle, like factories.
func (c *Container) extend(res *resolution, service reflect.Type, instance any) any {
	c.mu.RLock()
	exts := c.extenders[service]
	c.mu.RUnlock()
	if len(exts) == 0 {
		return instance
	}

	handle := c.withResolution(res)
	for _, ext := range exts {
		instance = ext(instance, handle)
	}
	return instance
}
