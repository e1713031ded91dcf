package lifetime

import (
	"github.com/junioryono/ginject/internal/binding"
	"github.com/junioryono/ginject/internal/members"
	"github.com/junioryono/ginject/internal/registry"
	"github.com/junioryono/ginject/internal/typesys"
)

// Assigner computes the scope of resolved bindings.
//
// A binding's own markers win: those of its bind directive or provider
// method. Constructor bindings fall back to the markers on the constructed
// type. Scopes are never inferred from dependencies.
type Assigner struct {
	oracle  typesys.Oracle
	markers members.Markers
}

// NewAssigner creates an Assigner reading markers through oracle.
func NewAssigner(oracle typesys.Oracle, markers members.Markers) *Assigner {
	return &Assigner{oracle: oracle, markers: markers}
}

// ScopeOf returns the scope of k bound by b.
func (a *Assigner) ScopeOf(k typesys.Key, b binding.Binding) Scope {
	if s, ok := a.fromAnnotations(b.Annotations()); ok {
		return s
	}
	if _, ok := b.(*binding.Constructor); ok {
		if s, ok := a.fromAnnotations(a.oracle.DeclaredMembers(k.Type).Annotations); ok {
			return s
		}
	}
	return NoScope
}

func (a *Assigner) fromAnnotations(ann typesys.Annotations) (Scope, bool) {
	switch {
	case a.markers.Has(ann, members.EagerSingleton):
		return EagerSingleton, true
	case a.markers.Has(ann, members.Singleton):
		return Singleton, true
	default:
		return NoScope, false
	}
}

// Assign scopes every local entry of reg.
func (a *Assigner) Assign(reg *registry.Registry) *Scopes {
	s := &Scopes{byKey: make(map[typesys.Key]Scope, reg.Len())}
	for _, e := range reg.Entries() {
		scope := a.ScopeOf(e.Key, e.Binding)
		s.byKey[e.Key] = scope
		if scope == EagerSingleton {
			s.eager = append(s.eager, e.Key)
		}
	}
	return s
}

// Scopes is the immutable result of an assignment.
type Scopes struct {
	byKey map[typesys.Key]Scope
	eager []typesys.Key
}

// Of returns the scope assigned to k, NoScope for unknown keys.
func (s *Scopes) Of(k typesys.Key) Scope { return s.byKey[k] }

// EagerKeys returns the eager singletons in resolution order.
func (s *Scopes) EagerKeys() []typesys.Key { return s.eager }

// Count returns how many keys were assigned scope.
func (s *Scopes) Count(scope Scope) int {
	n := 0
	for _, have := range s.byKey {
		if have == scope {
			n++
		}
	}
	return n
}
