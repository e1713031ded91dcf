package typesys

import "strings"

// Annotations is the set of directive markers attached to a declaration.
// Interpretation of the markers belongs to the members.Markers table.
type Annotations []string

// Has reports whether any of names is present.
func (a Annotations) Has(names ...string) bool {
	for _, have := range a {
		for _, want := range names {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Param is a function or method parameter.
type Param struct {
	Name string
	Key  Key
}

// Constructor is a package-level function producing a value of its type.
type Constructor struct {
	PkgPath     string
	PkgName     string
	Name        string
	Params      []Param
	Result      *Type
	Annotations Annotations
}

// Method is a method of a named type or, when Static is set, a package-level
// function associated with the type.
type Method struct {
	Name            string
	Params          []Param
	Results         []*Type
	PointerReceiver bool
	Static          bool
	// PkgPath and PkgName locate static functions.
	PkgPath     string
	PkgName     string
	Qualifier   string // qualifier of the result, for provider methods
	Annotations Annotations
	Position    string
}

// Signature identifies a method for shadowing purposes: the name and the
// parameter types.
func (m *Method) Signature() string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Key.String())
	}
	b.WriteByte(')')
	return b.String()
}

// ResultKey returns the key a provision or provider method produces.
func (m *Method) ResultKey() Key {
	if len(m.Results) == 0 {
		return Key{}
	}
	return Key{Type: m.Results[0], Qualifier: m.Qualifier}
}

// Field is a struct field or, when Static is set, a package-level variable
// associated with the type.
type Field struct {
	Name        string
	Key         Key
	Static      bool
	PkgPath     string
	PkgName     string
	Annotations Annotations
	Position    string
}

// InstanceRef is a Go expression used as a bound instance. When PkgPath is
// set, Expr names an identifier declared in that package. Type is the type
// of the expression, when known.
type InstanceRef struct {
	PkgPath string
	PkgName string
	Expr    string
	Type    *Type
}

// BindingDecl is an explicit binding declared by a configuration module.
//
// Exactly one of Target, Instance and Provider is set, or none for an
// untargetted binding that only attaches a scope to the key's own type.
type BindingDecl struct {
	Key         Key
	Target      *Key
	Instance    *InstanceRef
	Provider    *Type
	Annotations Annotations
	Position    string
}

// ModuleDecl lists the declarations of a configuration module.
type ModuleDecl struct {
	Bindings       []*BindingDecl
	Installs       []*Type
	StaticRequests []*Type
}

// Members is everything declared directly on a named type.
type Members struct {
	Constructors []*Constructor
	Methods      []*Method
	Fields       []*Field
	// Embeds are the embedded types (struct embedding or embedded
	// interfaces), nearest ancestors of the type.
	Embeds      []*Type
	Annotations Annotations
	Module      *ModuleDecl
	// Unsupported names the methods whose signatures have no
	// representation, such as channels or variadic parameters.
	Unsupported []string
}
