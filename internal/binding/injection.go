package binding

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/junioryono/ginject/internal/codewriter"
	"github.com/junioryono/ginject/internal/typesys"
)

// MemberInjection sets the injectable fields and calls the injectable
// methods of an existing value of a named type.
type MemberInjection struct {
	Type    *typesys.Type
	Fields  []*typesys.Field
	Methods []*typesys.Method
}

// Empty reports whether there is nothing to inject.
func (m *MemberInjection) Empty() bool {
	return m == nil || len(m.Fields)+len(m.Methods) == 0
}

// Dependencies returns the keys of all fields, then of all method
// parameters.
func (m *MemberInjection) Dependencies() []Dependency {
	if m == nil {
		return nil
	}
	var deps []Dependency
	for _, f := range m.Fields {
		deps = append(deps, Dependency{Key: f.Key})
	}
	for _, method := range m.Methods {
		deps = append(deps, directDeps(method.Params)...)
	}
	return deps
}

// ParamType renders the parameter type of the generated injection method:
// a pointer to structs, the type itself for interfaces.
func (m *MemberInjection) ParamType(ctx Context) string {
	if m.Type.IsInterface() {
		return ctx.Expr(m.Type)
	}
	return "*" + ctx.Expr(m.Type)
}

// WriteInjector writes a method with the given signature whose single
// parameter is named param.
func (m *MemberInjection) WriteInjector(ctx Context, w *codewriter.SourceWriter, signature, param string) error {
	var body strings.Builder
	for _, f := range m.Fields {
		if !accessible(ctx, m.Type.PkgPath(), f.Name) {
			return InaccessibleMemberError{Type: m.Type, Member: f.Name}
		}
		fmt.Fprintf(&body, "%s.%s = %s.%s()\n", param, f.Name, ctx.Receiver(), ctx.Getter(f.Key))
	}
	for _, method := range m.Methods {
		if !accessible(ctx, m.Type.PkgPath(), method.Name) {
			return InaccessibleMemberError{Type: m.Type, Member: method.Name}
		}
		fmt.Fprintf(&body, "%s.%s(%s)\n", param, method.Name, callArgs(ctx, method.Params))
	}
	w.WriteMethod(signature, body.String())
	return nil
}

// StaticInjection assigns the injectable package-level variables and calls
// the injectable package-level functions associated with a type.
type StaticInjection struct {
	Type    *typesys.Type
	Fields  []*typesys.Field
	Methods []*typesys.Method
}

// Dependencies returns the keys of all variables, then of all function
// parameters.
func (s *StaticInjection) Dependencies() []Dependency {
	var deps []Dependency
	for _, f := range s.Fields {
		deps = append(deps, Dependency{Key: f.Key})
	}
	for _, method := range s.Methods {
		deps = append(deps, directDeps(method.Params)...)
	}
	return deps
}

// WriteInjector writes the static injection method. Every unusable member
// is reported; the method is only written when all members are usable.
func (s *StaticInjection) WriteInjector(ctx Context, w *codewriter.SourceWriter, signature string) error {
	var (
		body strings.Builder
		errs error
	)
	for _, f := range s.Fields {
		if err := s.check(ctx, f.PkgPath, f.Name); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		fmt.Fprintf(&body, "%s%s = %s.%s()\n", ctx.Qualify(f.PkgPath, f.PkgName), f.Name, ctx.Receiver(), ctx.Getter(f.Key))
	}
	for _, m := range s.Methods {
		if err := s.check(ctx, m.PkgPath, m.Name); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		fmt.Fprintf(&body, "%s%s(%s)\n", ctx.Qualify(m.PkgPath, m.PkgName), m.Name, callArgs(ctx, m.Params))
	}
	if errs != nil {
		return errs
	}
	w.WriteMethod(signature, body.String())
	return nil
}

func (s *StaticInjection) check(ctx Context, pkgPath, name string) error {
	if pkgPath == "" {
		return StaticInjectionError{Type: s.Type, Member: name, Cause: ErrStaticMemberNotFound}
	}
	if !accessible(ctx, pkgPath, name) {
		return StaticInjectionError{Type: s.Type, Member: name, Cause: ErrMemberNotAccessible}
	}
	return nil
}

func accessible(ctx Context, pkgPath, name string) bool {
	return ctx.Local(pkgPath) || typesys.IsExported(name)
}
