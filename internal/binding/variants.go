package binding

import (
	"fmt"
	"strings"

	"github.com/junioryono/ginject/internal/codewriter"
	"github.com/junioryono/ginject/internal/typesys"
)

var (
	_ Binding = (*Constructor)(nil)
	_ Binding = (*ProviderMethod)(nil)
	_ Binding = (*Instance)(nil)
	_ Binding = (*Linked)(nil)
	_ Binding = (*ProviderClass)(nil)
	_ Binding = (*Provider)(nil)
)

// Constructor creates values by calling an injectable constructor function,
// or with a composite literal when Func is nil, and then injects the
// value's members.
type Constructor struct {
	Type      *typesys.Type
	Func      *typesys.Constructor
	Injection *MemberInjection
	Source    typesys.Annotations
}

func (c *Constructor) Dependencies() []Dependency {
	var deps []Dependency
	if c.Func != nil {
		deps = directDeps(c.Func.Params)
	}
	return append(deps, c.Injection.Dependencies()...)
}

func (c *Constructor) Annotations() typesys.Annotations { return c.Source }

func (c *Constructor) MemberInjection() *MemberInjection { return c.Injection }

func (c *Constructor) Description() string {
	if c.Func != nil {
		return fmt.Sprintf("constructor %s.%s", c.Func.PkgPath, c.Func.Name)
	}
	return fmt.Sprintf("default constructor of %s", c.Type)
}

func (c *Constructor) WriteCreator(ctx Context, w *codewriter.SourceWriter, signature string) error {
	var create string
	switch {
	case c.Func != nil:
		create = ctx.Qualify(c.Func.PkgPath, c.Func.PkgName) + c.Func.Name + "(" + callArgs(ctx, c.Func.Params) + ")"
	case c.Type.Kind() == typesys.Pointer:
		create = "&" + ctx.Expr(c.Type.Elem()) + "{}"
	default:
		create = ctx.Expr(c.Type) + "{}"
	}

	if c.Injection.Empty() {
		w.WriteMethod(signature, "return "+create)
		return nil
	}

	arg := "result"
	if c.Type.Kind() != typesys.Pointer && !c.Type.IsInterface() {
		arg = "&result"
	}
	var body strings.Builder
	fmt.Fprintf(&body, "result := %s\n", create)
	fmt.Fprintf(&body, "%s.%s(%s)\n", ctx.Receiver(), ctx.MemberInjector(c.Injection.Type), arg)
	body.WriteString("return result")
	w.WriteMethod(signature, body.String())
	return nil
}

// ProviderMethod creates values by calling a provides method of a
// configuration module.
type ProviderMethod struct {
	Mod    *typesys.Type
	Method *typesys.Method
}

func (p *ProviderMethod) Dependencies() []Dependency { return directDeps(p.Method.Params) }

func (p *ProviderMethod) Annotations() typesys.Annotations { return p.Method.Annotations }

func (p *ProviderMethod) Module() *typesys.Type { return p.Mod }

func (p *ProviderMethod) Description() string {
	return fmt.Sprintf("provider method %s.%s", p.Mod, p.Method.Name)
}

func (p *ProviderMethod) WriteCreator(ctx Context, w *codewriter.SourceWriter, signature string) error {
	w.WriteMethod(signature, fmt.Sprintf("return %s.%s.%s(%s)",
		ctx.Receiver(), ctx.ModuleField(p.Mod), p.Method.Name, callArgs(ctx, p.Method.Params)))
	return nil
}

// Instance returns a value named by a module binding.
type Instance struct {
	Ref    *typesys.InstanceRef
	Source typesys.Annotations
}

func (i *Instance) Dependencies() []Dependency { return nil }

func (i *Instance) Annotations() typesys.Annotations { return i.Source }

func (i *Instance) Description() string {
	if i.Ref.PkgPath != "" {
		return fmt.Sprintf("instance %s.%s", i.Ref.PkgPath, i.Ref.Expr)
	}
	return fmt.Sprintf("instance %s", i.Ref.Expr)
}

func (i *Instance) WriteCreator(ctx Context, w *codewriter.SourceWriter, signature string) error {
	prefix := ""
	if i.Ref.PkgPath != "" {
		prefix = ctx.Qualify(i.Ref.PkgPath, i.Ref.PkgName)
	}
	w.WriteMethod(signature, "return "+prefix+i.Ref.Expr)
	return nil
}

// Linked forwards a key to the binding of another key whose type is
// assignable to it.
type Linked struct {
	Target typesys.Key
	Source typesys.Annotations
}

func (l *Linked) Dependencies() []Dependency { return []Dependency{{Key: l.Target}} }

func (l *Linked) Annotations() typesys.Annotations { return l.Source }

func (l *Linked) Description() string { return fmt.Sprintf("binding to %s", l.Target) }

func (l *Linked) WriteCreator(ctx Context, w *codewriter.SourceWriter, signature string) error {
	w.WriteMethod(signature, fmt.Sprintf("return %s.%s()", ctx.Receiver(), ctx.Getter(l.Target)))
	return nil
}

// ProviderClass obtains values from the Get method of another bound type.
type ProviderClass struct {
	Provider *typesys.Type
	Source   typesys.Annotations
}

func (p *ProviderClass) Dependencies() []Dependency {
	return []Dependency{{Key: typesys.KeyOf(p.Provider)}}
}

func (p *ProviderClass) Annotations() typesys.Annotations { return p.Source }

func (p *ProviderClass) Description() string { return fmt.Sprintf("provider %s", p.Provider) }

func (p *ProviderClass) WriteCreator(ctx Context, w *codewriter.SourceWriter, signature string) error {
	w.WriteMethod(signature, fmt.Sprintf("return %s.%s().Get()",
		ctx.Receiver(), ctx.Getter(typesys.KeyOf(p.Provider))))
	return nil
}

// Provider satisfies a func() T key with the getter of T, deferring the
// construction of T to the first call.
type Provider struct {
	Key typesys.Key
}

func (p *Provider) Dependencies() []Dependency {
	return []Dependency{{Key: p.Key.ProvidedKey(), Deferred: true}}
}

func (p *Provider) Annotations() typesys.Annotations { return nil }

func (p *Provider) Description() string { return fmt.Sprintf("provider of %s", p.Key.ProvidedKey()) }

func (p *Provider) WriteCreator(ctx Context, w *codewriter.SourceWriter, signature string) error {
	w.WriteMethod(signature, fmt.Sprintf("return %s.%s", ctx.Receiver(), ctx.Getter(p.Key.ProvidedKey())))
	return nil
}

func callArgs(ctx Context, params []typesys.Param) string {
	args := make([]string, len(params))
	for i, p := range params {
		args[i] = ctx.Receiver() + "." + ctx.Getter(p.Key) + "()"
	}
	return strings.Join(args, ", ")
}
