// Package testutil builds type universes for tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/junioryono/ginject/internal/typesys"
)

// AppPkg is the package fixtures are declared in.
const AppPkg = "example.com/app"

// Builder provides a fluent interface for declaring test types.
type Builder struct {
	t   testing.TB
	U   *typesys.Universe
	Pkg string
}

// NewBuilder creates a Builder declaring types in AppPkg.
func NewBuilder(t testing.TB) *Builder {
	return &Builder{t: t, U: typesys.NewUniverse(), Pkg: AppPkg}
}

// Struct returns the struct type name, marking it with annotations.
func (b *Builder) Struct(name string, annotations ...string) *typesys.Type {
	t := b.U.Struct(b.Pkg, name)
	if len(annotations) > 0 {
		b.U.Declare(t).Annotate(annotations...)
	}
	return t
}

// Ptr returns a pointer to the struct type name.
func (b *Builder) Ptr(name string, annotations ...string) *typesys.Type {
	return b.U.Pointer(b.Struct(name, annotations...))
}

// Iface returns the interface type name.
func (b *Builder) Iface(name string) *typesys.Type {
	return b.U.Interface(b.Pkg, name)
}

// Implements declares a method on impl so that it satisfies iface.
func (b *Builder) Implements(impl, iface *typesys.Type, method string) {
	b.U.Declare(iface).AddMethod(&typesys.Method{Name: method})
	b.U.Declare(impl.Target()).AddMethod(&typesys.Method{Name: method, PointerReceiver: impl.Kind() == typesys.Pointer})
}

// Ctor declares a constructor function for t marked for injection.
func (b *Builder) Ctor(t *typesys.Type, name string, params ...typesys.Key) *typesys.Constructor {
	c := &typesys.Constructor{Name: name, Params: Params(params...), Result: t, Annotations: typesys.Annotations{"inject"}}
	b.U.Declare(t.Target()).AddConstructor(c)
	return c
}

// InjectField declares an injectable field on owner.
func (b *Builder) InjectField(owner *typesys.Type, name string, k typesys.Key) {
	b.U.Declare(owner.Target()).AddField(&typesys.Field{Name: name, Key: k, Annotations: typesys.Annotations{"inject"}})
}

// InjectMethod declares an injectable method on owner.
func (b *Builder) InjectMethod(owner *typesys.Type, name string, params ...typesys.Key) {
	b.U.Declare(owner.Target()).AddMethod(&typesys.Method{
		Name:            name,
		Params:          Params(params...),
		PointerReceiver: true,
		Annotations:     typesys.Annotations{"inject"},
	})
}

// StaticField declares an injectable package variable associated with
// owner.
func (b *Builder) StaticField(owner *typesys.Type, name string, k typesys.Key) {
	b.U.Declare(owner).AddField(&typesys.Field{Name: name, Key: k, Static: true, Annotations: typesys.Annotations{"inject"}})
}

// StaticMethod declares an injectable package function associated with
// owner.
func (b *Builder) StaticMethod(owner *typesys.Type, name string, params ...typesys.Key) {
	b.U.Declare(owner).AddMethod(&typesys.Method{Name: name, Params: Params(params...), Static: true, Annotations: typesys.Annotations{"inject"}})
}

// Injector declares an injector interface with the given methods.
func (b *Builder) Injector(name string, methods ...*typesys.Method) *typesys.Type {
	t := b.Iface(name)
	d := b.U.Declare(t)
	for _, m := range methods {
		d.AddMethod(m)
	}
	return t
}

// Provision returns an injector method returning k.
func Provision(name string, k typesys.Key) *typesys.Method {
	return &typesys.Method{Name: name, Results: []*typesys.Type{k.Type}, Qualifier: k.Qualifier}
}

// MemberInject returns an injector method injecting the members of t.
func MemberInject(name string, t *typesys.Type) *typesys.Method {
	return &typesys.Method{Name: name, Params: []typesys.Param{{Name: "v", Key: typesys.KeyOf(t)}}}
}

// Params names each key p0, p1, ...
func Params(keys ...typesys.Key) []typesys.Param {
	params := make([]typesys.Param, len(keys))
	for i, k := range keys {
		params[i] = typesys.Param{Name: fmt.Sprintf("p%d", i), Key: k}
	}
	return params
}

// Module starts the declaration of a configuration module.
func (b *Builder) Module(name string) *ModuleBuilder {
	t := b.Struct(name, "module")
	d := b.U.Declare(t)
	return &ModuleBuilder{T: t, decl: d}
}

// ModuleBuilder declares the contents of a configuration module.
type ModuleBuilder struct {
	T    *typesys.Type
	decl *typesys.Decl
}

// Provides declares a provides method producing k.
func (m *ModuleBuilder) Provides(name string, k typesys.Key, annotations []string, params ...typesys.Key) *ModuleBuilder {
	m.decl.AddMethod(&typesys.Method{
		Name:        name,
		Params:      Params(params...),
		Results:     []*typesys.Type{k.Type},
		Qualifier:   k.Qualifier,
		Annotations: append(typesys.Annotations{"provides"}, annotations...),
	})
	return m
}

// Bind declares an untargetted binding of k.
func (m *ModuleBuilder) Bind(k typesys.Key, annotations ...string) *ModuleBuilder {
	return m.add(&typesys.BindingDecl{Key: k, Annotations: annotations})
}

// BindTo declares a binding of k to target.
func (m *ModuleBuilder) BindTo(k, target typesys.Key, annotations ...string) *ModuleBuilder {
	return m.add(&typesys.BindingDecl{Key: k, Target: &target, Annotations: annotations})
}

// BindInstanceOf declares a binding of k to the variable expr of type t
// declared in pkgPath.
func (m *ModuleBuilder) BindInstanceOf(k typesys.Key, t *typesys.Type, pkgPath, pkgName, expr string, annotations ...string) *ModuleBuilder {
	return m.add(&typesys.BindingDecl{
		Key:         k,
		Instance:    &typesys.InstanceRef{PkgPath: pkgPath, PkgName: pkgName, Expr: expr, Type: t},
		Annotations: annotations,
	})
}

// BindInstance declares a binding of k to the variable expr of the package
// pkgPath, typed exactly k.
func (m *ModuleBuilder) BindInstance(k typesys.Key, pkgPath, pkgName, expr string, annotations ...string) *ModuleBuilder {
	return m.BindInstanceOf(k, k.Type, pkgPath, pkgName, expr, annotations...)
}

// BindProvider declares a binding of k to the Get method of provider.
func (m *ModuleBuilder) BindProvider(k typesys.Key, provider *typesys.Type, annotations ...string) *ModuleBuilder {
	return m.add(&typesys.BindingDecl{Key: k, Provider: provider, Annotations: annotations})
}

// Install declares that m installs other.
func (m *ModuleBuilder) Install(other *typesys.Type) *ModuleBuilder {
	mod := m.decl.Module()
	mod.Installs = append(mod.Installs, other)
	return m
}

// RequestStatic declares a static injection request for t.
func (m *ModuleBuilder) RequestStatic(t *typesys.Type) *ModuleBuilder {
	mod := m.decl.Module()
	mod.StaticRequests = append(mod.StaticRequests, t)
	return m
}

func (m *ModuleBuilder) add(decl *typesys.BindingDecl) *ModuleBuilder {
	mod := m.decl.Module()
	mod.Bindings = append(mod.Bindings, decl)
	return m
}
