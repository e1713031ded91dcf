// Package binding defines the resolved recipes for producing values and the
// Go source each recipe emits into a generated injector.
package binding

import (
	"github.com/junioryono/ginject/internal/codewriter"
	"github.com/junioryono/ginject/internal/typesys"
)

// Dependency is an edge from a binding to a key it needs.
type Dependency struct {
	Key typesys.Key

	// Deferred marks an edge reached through a provider func. The target is
	// not constructed while the dependent is being constructed.
	Deferred bool
}

// Context gives a binding access to the names and type rendering of the
// injector being generated.
type Context interface {
	// Receiver is the receiver identifier of generated methods.
	Receiver() string

	// Getter returns the getter method name for k.
	Getter(k typesys.Key) string

	// MemberInjector returns the member-injection method name for t.
	MemberInjector(t *typesys.Type) string

	// ModuleField returns the field holding the module value of type t.
	ModuleField(t *typesys.Type) string

	// Expr renders t as seen from the generated package.
	Expr(t *typesys.Type) string

	// Local reports whether pkgPath is the generated package.
	Local(pkgPath string) bool

	// Qualify returns the prefix, including the trailing dot, used to refer
	// to a package-level identifier of pkgPath.
	Qualify(pkgPath, pkgName string) string
}

// Binding is a resolved recipe for producing the value of one key.
type Binding interface {
	// Dependencies lists the keys the creator calls getters for, in call
	// order.
	Dependencies() []Dependency

	// Annotations returns the markers of the declaration the binding came
	// from: the module binding, the provider method or the constructed
	// type.
	Annotations() typesys.Annotations

	// Description identifies the binding in diagnostics.
	Description() string

	// WriteCreator writes a method with the given signature that creates a
	// new value.
	WriteCreator(ctx Context, w *codewriter.SourceWriter, signature string) error
}

// Injecting is implemented by bindings whose created values also receive
// member injection.
type Injecting interface {
	MemberInjection() *MemberInjection
}

// Modular is implemented by bindings that call into a module value.
type Modular interface {
	Module() *typesys.Type
}

func directDeps(params []typesys.Param) []Dependency {
	deps := make([]Dependency, len(params))
	for i, p := range params {
		deps[i] = Dependency{Key: p.Key}
	}
	return deps
}
