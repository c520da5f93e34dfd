package container

import (
	"fmt"
	"reflect"
)

// Module batches registration calls so a related group of services can be
// installed as a unit. Load is invoked at most once per comparable module
// value, however many times it is passed to [Container.Apply]; modules of
// uncomparable types (a value struct carrying a slice, say) cannot be
// tracked and load on every Apply — use a pointer module to get apply-once
// semantics for those.
//
//	type StorageModule struct{ DSN string }
//
//	func (m *StorageModule) Load(c *container.Container) error {
//	    return container.RegisterFactory[*sql.DB](c, m.open,
//	        container.WithLifetime(container.Singleton))
//	}
type Module interface {
	Load(c *Container) error
}

// Apply loads each module exactly once, in order. A failing Load aborts the
// remaining modules.
func (c *Container) Apply(modules ...Module) error {
	for _, m := range modules {
		if t := reflect.TypeOf(m); t != nil && t.Comparable() {
			c.mu.Lock()
			if c.applied[m] {
				c.mu.Unlock()
				continue
			}
			c.applied[m] = true
			c.mu.Unlock()
		}

		if err := m.Load(c); err != nil {
			return fmt.Errorf("loading module %T: %w", m, err)
		}
	}
	return nil
}
