package container

import (
	"fmt"
	"reflect"
)

// TypeSource enumerates candidate concrete types and the interface universe
// they are matched against. Go's reflection cannot list the interfaces a type
// implements — the universe is open — so scanning requires both sides to be
// named explicitly. Scan order is the enumerator's order.
type TypeSource interface {
	Types() []reflect.Type
	Interfaces() []reflect.Type
}

// TypeSet is a TypeSource assembled from literal type lists.
type TypeSet struct {
	Concrete  []reflect.Type
	Contracts []reflect.Type
}

func (s TypeSet) Types() []reflect.Type      { return s.Concrete }
func (s TypeSet) Interfaces() []reflect.Type { return s.Contracts }

// RegisterTypes walks the source's candidate types in scan order and, for
// each one accepted by predicate, registers a Transient mapping for every
// interface in the universe that the candidate implements. The first matching
// candidate wins per interface, and interfaces that already have an unkeyed
// registration are left untouched. A nil predicate accepts everything.
func (c *Container) RegisterTypes(src TypeSource, predicate func(reflect.Type) bool) error {
	contracts := src.Interfaces()
	for _, contract := range contracts {
		if contract == nil || contract.Kind() != reflect.Interface {
			return fmt.Errorf("%w: %v is not an interface type", ErrConfiguration, contract)
		}
	}

	for _, candidate := range src.Types() {
		if candidate == nil {
			continue
		}
		if predicate != nil && !predicate(candidate) {
			continue
		}
		for _, contract := range contracts {
			if !candidate.Implements(contract) {
				continue
			}
			c.mu.RLock()
			_, bound := c.unkeyed[contract]
			c.mu.RUnlock()
			if bound {
				continue
			}
			if err := c.Register(contract, candidate); err != nil {
				return err
			}
		}
	}
	return nil
}
