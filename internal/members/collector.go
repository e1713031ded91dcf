package members

import (
	"fmt"
	"strings"

	"github.com/junioryono/ginject/internal/typesys"
)

// MethodFilter decides whether a method is collected.
type MethodFilter func(m *typesys.Method) bool

// FieldFilter decides whether a field is collected.
type FieldFilter func(f *typesys.Field) bool

// Collector gathers the methods and fields of a type and its ancestors that
// pass its filters. A declaration on a nearer type shadows an ancestor's
// declaration with the same signature. Results are ordered ancestors first,
// then in declaration order.
//
// Collector caches per type and is not safe for concurrent use.
type Collector struct {
	oracle       typesys.Oracle
	methodFilter MethodFilter
	fieldFilter  FieldFilter

	methods map[*typesys.Type][]*typesys.Method
	fields  map[*typesys.Type][]*typesys.Field
}

// NewCollector creates a Collector that accepts every member until filters
// are set.
func NewCollector(oracle typesys.Oracle) *Collector {
	return &Collector{
		oracle:       oracle,
		methodFilter: func(*typesys.Method) bool { return true },
		fieldFilter:  func(*typesys.Field) bool { return true },
		methods:      make(map[*typesys.Type][]*typesys.Method),
		fields:       make(map[*typesys.Type][]*typesys.Field),
	}
}

// SetMethodFilter replaces the method filter and drops cached results.
func (c *Collector) SetMethodFilter(f MethodFilter) *Collector {
	c.methodFilter = f
	c.methods = make(map[*typesys.Type][]*typesys.Method)
	return c
}

// SetFieldFilter replaces the field filter and drops cached results.
func (c *Collector) SetFieldFilter(f FieldFilter) *Collector {
	c.fieldFilter = f
	c.fields = make(map[*typesys.Type][]*typesys.Field)
	return c
}

// Methods returns the accepted methods of t and its ancestors.
func (c *Collector) Methods(t *typesys.Type) []*typesys.Method {
	target := t.Target()
	if target == nil {
		return nil
	}
	if cached, ok := c.methods[target]; ok {
		return cached
	}

	levels := c.ancestry(target)
	seen := make(map[string]bool)
	winners := make(map[*typesys.Method]bool)
	for _, level := range levels {
		for _, typ := range level {
			for _, m := range c.oracle.DeclaredMembers(typ).Methods {
				sig := m.Signature()
				if seen[sig] {
					continue
				}
				seen[sig] = true
				winners[m] = true
			}
		}
	}

	var out []*typesys.Method
	for i := len(levels) - 1; i >= 0; i-- {
		for _, typ := range levels[i] {
			for _, m := range c.oracle.DeclaredMembers(typ).Methods {
				if winners[m] && c.methodFilter(m) {
					out = append(out, m)
				}
			}
		}
	}

	c.methods[target] = out
	return out
}

// Unsupported returns the names of the methods of t and its ancestors that
// have no representation.
func (c *Collector) Unsupported(t *typesys.Type) []string {
	target := t.Target()
	if target == nil {
		return nil
	}
	var out []string
	for _, level := range c.ancestry(target) {
		for _, typ := range level {
			out = append(out, c.oracle.DeclaredMembers(typ).Unsupported...)
		}
	}
	return out
}

// Fields returns the accepted fields of t and its ancestors.
func (c *Collector) Fields(t *typesys.Type) []*typesys.Field {
	target := t.Target()
	if target == nil {
		return nil
	}
	if cached, ok := c.fields[target]; ok {
		return cached
	}

	levels := c.ancestry(target)
	seen := make(map[string]bool)
	winners := make(map[*typesys.Field]bool)
	for _, level := range levels {
		for _, typ := range level {
			for _, f := range c.oracle.DeclaredMembers(typ).Fields {
				if seen[f.Name] {
					continue
				}
				seen[f.Name] = true
				winners[f] = true
			}
		}
	}

	var out []*typesys.Field
	for i := len(levels) - 1; i >= 0; i-- {
		for _, typ := range levels[i] {
			for _, f := range c.oracle.DeclaredMembers(typ).Fields {
				if winners[f] && c.fieldFilter(f) {
					out = append(out, f)
				}
			}
		}
	}

	c.fields[target] = out
	return out
}

// ancestry returns t and its embedded ancestors grouped by distance, each
// type appearing once at its nearest level.
func (c *Collector) ancestry(t *typesys.Type) [][]*typesys.Type {
	visited := map[*typesys.Type]bool{t: true}
	levels := [][]*typesys.Type{{t}}

	for {
		var next []*typesys.Type
		for _, typ := range levels[len(levels)-1] {
			for _, embed := range c.oracle.DeclaredMembers(typ).Embeds {
				target := embed.Target()
				if target == nil || visited[target] {
					continue
				}
				visited[target] = true
				next = append(next, target)
			}
		}
		if len(next) == 0 {
			return levels
		}
		levels = append(levels, next)
	}
}

// InjectableConstructor returns the single constructor of the named target
// of t that produces exactly t and carries the inject marker. It returns nil
// when there is none and an AmbiguousMemberError when there are several.
func InjectableConstructor(oracle typesys.Oracle, markers Markers, t *typesys.Type) (*typesys.Constructor, error) {
	var found []*typesys.Constructor
	for _, ctor := range oracle.DeclaredMembers(t).Constructors {
		if ctor.Result == t && markers.Has(ctor.Annotations, Inject) {
			found = append(found, ctor)
		}
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		names := make([]string, len(found))
		for i, ctor := range found {
			names[i] = ctor.PkgPath + "." + ctor.Name
		}
		return nil, AmbiguousMemberError{Type: t, Kind: "constructor", Members: names}
	}
}

// AmbiguousMemberError indicates a type declares more than one injectable
// constructor.
type AmbiguousMemberError struct {
	Type    *typesys.Type
	Kind    string
	Members []string
}

func (e AmbiguousMemberError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s has %d injectable %ss:\n", e.Type, len(e.Members), e.Kind))
	for _, m := range e.Members {
		b.WriteString(fmt.Sprintf("  • %s\n", m))
	}
	b.WriteString("\nMark exactly one of them with //ginject:inject.")
	return b.String()
}
