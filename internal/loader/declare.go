package loader

import (
	"go/token"
	"go/types"
	"strings"

	"github.com/junioryono/ginject/internal/typesys"
)

// declareObject handles the directives that do not follow from the type
// declarations alone: constructors, statics and module contents.
func (b *builder) declareObject(obj types.Object, info *objectInfo) error {
	switch obj := obj.(type) {
	case *types.TypeName:
		if len(info.module) == 0 {
			return nil
		}
		t, err := b.typeOf(obj.Type())
		if err != nil {
			return err
		}
		return b.declareModule(b.u.Declare(t).Module(), info)

	case *types.Func:
		sig := obj.Type().(*types.Signature)
		if sig.Recv() != nil {
			return nil
		}
		if info.static != nil {
			return b.declareStaticFunc(obj, sig, info)
		}
		if info.annotations.Has(verbInject) {
			return b.declareConstructor(obj, sig, info)
		}

	case *types.Var:
		if info.static != nil {
			return b.declareStaticVar(obj, info)
		}
	}
	return nil
}

func (b *builder) declareConstructor(fn *types.Func, sig *types.Signature, info *objectInfo) error {
	fail := func(err error) error {
		return DirectiveError{Position: b.position(fn.Pos()), Directive: directivePrefix + verbInject, Cause: err}
	}
	if sig.Results().Len() != 1 || sig.Variadic() {
		return fail(ErrBadConstructor)
	}
	result, err := b.typeOf(sig.Results().At(0).Type())
	if err != nil {
		return fail(err)
	}
	if result.Target() == nil {
		return fail(ErrBadConstructor)
	}
	params, err := b.params(sig.Params(), info)
	if err != nil {
		return fail(err)
	}

	b.u.Declare(result.Target()).AddConstructor(&typesys.Constructor{
		PkgPath:     fn.Pkg().Path(),
		PkgName:     fn.Pkg().Name(),
		Name:        fn.Name(),
		Params:      params,
		Result:      result,
		Annotations: info.annotations,
	})
	return nil
}

func (b *builder) staticOwner(info *objectInfo) (*typesys.Decl, error) {
	owner, err := b.evalType(info, info.static.args[0], info.static.pos)
	if err != nil {
		return nil, err
	}
	if owner.Target() == nil {
		return nil, ErrBadStaticOwner
	}
	return b.u.Declare(owner.Target()), nil
}

func (b *builder) declareStaticVar(v *types.Var, info *objectInfo) error {
	fail := func(err error) error {
		return DirectiveError{Position: b.position(info.static.pos), Directive: info.static.String(), Cause: err}
	}
	d, err := b.staticOwner(info)
	if err != nil {
		return fail(err)
	}
	t, err := b.typeOf(v.Type())
	if err != nil {
		return fail(err)
	}
	d.AddField(&typesys.Field{
		Name:        v.Name(),
		Key:         typesys.QualifiedKey(t, info.named.result),
		Static:      true,
		PkgPath:     v.Pkg().Path(),
		PkgName:     v.Pkg().Name(),
		Annotations: append(typesys.Annotations{verbInject}, info.annotations...),
		Position:    b.position(v.Pos()),
	})
	return nil
}

func (b *builder) declareStaticFunc(fn *types.Func, sig *types.Signature, info *objectInfo) error {
	fail := func(err error) error {
		return DirectiveError{Position: b.position(info.static.pos), Directive: info.static.String(), Cause: err}
	}
	d, err := b.staticOwner(info)
	if err != nil {
		return fail(err)
	}
	m, err := b.method(fn, sig, info)
	if err != nil {
		return fail(err)
	}
	m.Static = true
	m.PkgPath, m.PkgName = fn.Pkg().Path(), fn.Pkg().Name()
	m.Annotations = append(typesys.Annotations{verbInject}, info.annotations...)
	d.AddMethod(m)
	return nil
}

func (b *builder) declareModule(mod *typesys.ModuleDecl, info *objectInfo) error {
	for _, d := range info.module {
		if err := b.moduleDirective(mod, info, d); err != nil {
			return DirectiveError{Position: b.position(d.pos), Directive: d.String(), Cause: err}
		}
	}
	return nil
}

func (b *builder) moduleDirective(mod *typesys.ModuleDecl, info *objectInfo, d directive) error {
	switch d.verb {
	case verbInstall, verbStaticRequest:
		if len(d.args) == 0 {
			return MissingArgumentError{After: d.verb}
		}
		t, err := b.evalType(info, strings.Join(d.args, " "), d.pos)
		if err != nil {
			return err
		}
		if d.verb == verbInstall {
			mod.Installs = append(mod.Installs, t)
		} else {
			mod.StaticRequests = append(mod.StaticRequests, t)
		}
		return nil
	}

	spec, err := parseBind(d.args)
	if err != nil {
		return err
	}
	key, err := b.evalType(info, spec.key, d.pos)
	if err != nil {
		return err
	}
	decl := &typesys.BindingDecl{
		Key:         typesys.QualifiedKey(key, spec.keyName),
		Annotations: spec.scopes,
		Position:    b.position(d.pos),
	}

	switch {
	case spec.target != "":
		target, err := b.evalType(info, spec.target, d.pos)
		if err != nil {
			return err
		}
		k := typesys.QualifiedKey(target, spec.targetName)
		decl.Target = &k

	case spec.provider != "":
		if decl.Provider, err = b.evalType(info, spec.provider, d.pos); err != nil {
			return err
		}

	case spec.instance != "":
		if !token.IsIdentifier(spec.instance) {
			return ErrNotAnIdentifier
		}
		v, ok := info.pkg.Types.Scope().Lookup(spec.instance).(*types.Var)
		if !ok {
			return ErrNotAnIdentifier
		}
		typ, err := b.typeOf(v.Type())
		if err != nil {
			return err
		}
		decl.Instance = &typesys.InstanceRef{
			PkgPath: info.pkg.PkgPath,
			PkgName: info.pkg.Name,
			Expr:    spec.instance,
			Type:    typ,
		}
	}

	mod.Bindings = append(mod.Bindings, decl)
	return nil
}

// evalType evaluates the type expression expr in the package of info.
func (b *builder) evalType(info *objectInfo, expr string, pos token.Pos) (*typesys.Type, error) {
	tv, err := types.Eval(b.p.fset, info.pkg.Types, pos, expr)
	if err != nil {
		return nil, err
	}
	if !tv.IsType() {
		return nil, ErrNotAType
	}
	return b.typeOf(tv.Type)
}
