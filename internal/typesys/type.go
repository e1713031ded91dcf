package typesys

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind classifies a Type.
type Kind int

const (
	Invalid Kind = iota
	Basic
	Named
	Pointer
	Slice
	Map
	Func
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Basic:
		return "basic"
	case Named:
		return "named"
	case Pointer:
		return "pointer"
	case Slice:
		return "slice"
	case Map:
		return "map"
	case Func:
		return "func"
	default:
		return "invalid"
	}
}

// Shape describes the underlying type of a Named type.
type Shape int

const (
	// ShapeOther covers named types whose underlying type is neither a
	// struct nor an interface (named basics, named funcs, ...).
	ShapeOther Shape = iota
	ShapeStruct
	ShapeInterface
)

// Type is a canonical, immutable description of a Go type.
//
// Types are hash-consed by their Universe: two structurally identical types
// obtained from the same Universe are the same pointer, so pointer equality
// is structural equality.
type Type struct {
	kind Kind
	id   string

	// Named
	pkgPath string
	pkgName string
	name    string
	shape   Shape
	origin  *Type
	args    []*Type

	// Pointer, Slice, Map (value)
	elem *Type
	// Map
	key *Type
	// Func
	params  []*Type
	results []*Type
}

// Kind returns the kind of t.
func (t *Type) Kind() Kind { return t.kind }

// String returns the canonical identity string of t, for example
// "*example.com/app.Foo" or "func() example.com/app.Service".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.id
}

// Name returns the declared name of a named or basic type.
func (t *Type) Name() string { return t.name }

// PkgPath returns the import path of the package declaring a named type.
func (t *Type) PkgPath() string { return t.pkgPath }

// PkgName returns the package name of a named type.
func (t *Type) PkgName() string { return t.pkgName }

// Shape returns the underlying shape of a named type.
func (t *Type) Shape() Shape { return t.shape }

// Origin returns the generic type a named instance was instantiated from,
// or nil.
func (t *Type) Origin() *Type { return t.origin }

// Args returns the type arguments of an instantiated generic type.
func (t *Type) Args() []*Type { return t.args }

// Elem returns the element type of pointers and slices and the value type
// of maps.
func (t *Type) Elem() *Type { return t.elem }

// KeyType returns the key type of a map.
func (t *Type) KeyType() *Type { return t.key }

// Params returns the parameter types of a func type.
func (t *Type) Params() []*Type { return t.params }

// Results returns the result types of a func type.
func (t *Type) Results() []*Type { return t.results }

// IsInterface reports whether t is a named interface type.
func (t *Type) IsInterface() bool {
	return t != nil && t.kind == Named && t.shape == ShapeInterface
}

// IsStruct reports whether t is a named struct type.
func (t *Type) IsStruct() bool {
	return t != nil && t.kind == Named && t.shape == ShapeStruct
}

// Exported reports whether a named type is visible outside its package.
func (t *Type) Exported() bool {
	if t == nil || t.kind != Named {
		return true
	}
	return IsExported(t.name)
}

// IsExported reports whether an identifier is visible outside its package.
func IsExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// Nilable reports whether the zero value of t is nil.
func (t *Type) Nilable() bool {
	switch t.kind {
	case Pointer, Slice, Map, Func:
		return true
	case Named:
		return t.shape == ShapeInterface
	default:
		return false
	}
}

// Target returns the named type whose members describe values of t: the
// pointee for pointers to named types, t itself for named types, nil
// otherwise.
func (t *Type) Target() *Type {
	switch {
	case t == nil:
		return nil
	case t.kind == Named:
		return t
	case t.kind == Pointer && t.elem.kind == Named:
		return t.elem
	default:
		return nil
	}
}

// IsProvider reports whether t is the provider pattern func() T.
func (t *Type) IsProvider() bool {
	return t != nil && t.kind == Func && len(t.params) == 0 && len(t.results) == 1
}

// Qualifier maps a package to the prefix used when rendering a type in
// source. It returns "" for the package being generated.
type Qualifier func(pkgPath, pkgName string) string

// Expr renders t as a Go type expression using q for package prefixes.
func (t *Type) Expr(q Qualifier) string {
	var b strings.Builder
	t.writeExpr(&b, q)
	return b.String()
}

func (t *Type) writeExpr(b *strings.Builder, q Qualifier) {
	switch t.kind {
	case Basic:
		b.WriteString(t.name)
	case Named:
		if t.pkgPath != "" {
			if prefix := q(t.pkgPath, t.pkgName); prefix != "" {
				b.WriteString(prefix)
				b.WriteByte('.')
			}
		}
		b.WriteString(t.name)
		writeList(b, "[", "]", t.args, q)
	case Pointer:
		b.WriteByte('*')
		t.elem.writeExpr(b, q)
	case Slice:
		b.WriteString("[]")
		t.elem.writeExpr(b, q)
	case Map:
		b.WriteString("map[")
		t.key.writeExpr(b, q)
		b.WriteByte(']')
		t.elem.writeExpr(b, q)
	case Func:
		b.WriteString("func")
		b.WriteByte('(')
		for i, p := range t.params {
			if i > 0 {
				b.WriteString(", ")
			}
			p.writeExpr(b, q)
		}
		b.WriteByte(')')
		switch len(t.results) {
		case 0:
		case 1:
			b.WriteByte(' ')
			t.results[0].writeExpr(b, q)
		default:
			b.WriteByte(' ')
			writeList(b, "(", ")", t.results, q)
		}
	default:
		b.WriteString("invalid")
	}
}

func writeList(b *strings.Builder, open, close string, types []*Type, q Qualifier) {
	if len(types) == 0 {
		return
	}
	b.WriteString(open)
	for i, a := range types {
		if i > 0 {
			b.WriteString(", ")
		}
		a.writeExpr(b, q)
	}
	b.WriteString(close)
}

// fullyQualified renders package prefixes as full import paths; it defines
// canonical identity strings.
func fullyQualified(pkgPath, _ string) string { return pkgPath }

// ShortQualifier renders package prefixes as package names.
func ShortQualifier(_, pkgName string) string { return pkgName }
