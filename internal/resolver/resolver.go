// Package resolver turns keys into bindings, from module declarations or
// just in time from the types themselves.
package resolver

import (
	"go.uber.org/zap"

	"github.com/junioryono/ginject/internal/binding"
	"github.com/junioryono/ginject/internal/members"
	"github.com/junioryono/ginject/internal/registry"
	"github.com/junioryono/ginject/internal/typesys"
)

// Resolver finds the binding of a key, trying in order: a binding declared
// by a module, a provider func, an injectable constructor, a provides
// method and finally the default constructor of an accessible struct.
// Just-in-time results are memoized.
type Resolver struct {
	oracle  typesys.Oracle
	markers members.Markers
	pkgPath string
	logger  *zap.Logger

	declared  *registry.Registry
	providers map[typesys.Key][]*binding.ProviderMethod
	modules   []*typesys.Type
	statics   []*typesys.Type

	all         *members.Collector
	injectables *members.Collector
	staticMbrs  *members.Collector
	provides    *members.Collector

	implicit   map[typesys.Key]binding.Binding
	injections map[*typesys.Type]*binding.MemberInjection
}

// New creates a Resolver for code generated into the package pkgPath.
func New(oracle typesys.Oracle, markers members.Markers, pkgPath string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		oracle:      oracle,
		markers:     markers,
		pkgPath:     pkgPath,
		logger:      logger,
		declared:    registry.New(),
		providers:   make(map[typesys.Key][]*binding.ProviderMethod),
		all:         members.NewCollector(oracle),
		injectables: members.NewCollector(oracle).SetMethodFilter(markers.InjectableMethods()).SetFieldFilter(markers.InjectableFields()),
		staticMbrs:  members.NewCollector(oracle).SetMethodFilter(markers.StaticMethods()).SetFieldFilter(markers.StaticFields()),
		provides:    members.NewCollector(oracle).SetMethodFilter(markers.ProviderMethods()),
		implicit:    make(map[typesys.Key]binding.Binding),
		injections:  make(map[*typesys.Type]*binding.MemberInjection),
	}
}

// Configure processes modules and every module they install, each once, in
// breadth-first order.
func (r *Resolver) Configure(modules []*typesys.Type) error {
	seen := make(map[*typesys.Type]bool)
	queue := append([]*typesys.Type(nil), modules...)

	for len(queue) > 0 {
		mod := queue[0].Target()
		queue = queue[1:]
		if mod == nil || seen[mod] {
			continue
		}
		seen[mod] = true

		installs, err := r.configure(mod)
		if err != nil {
			return ModuleError{Module: mod, Cause: err}
		}
		queue = append(queue, installs...)
	}
	return nil
}

func (r *Resolver) configure(mod *typesys.Type) ([]*typesys.Type, error) {
	m := r.oracle.DeclaredMembers(mod)
	if m.Module == nil && !r.markers.Has(m.Annotations, members.Module) {
		return nil, ErrNotAModule
	}
	if !mod.Exported() && mod.PkgPath() != r.pkgPath {
		return nil, ErrModuleHidden
	}
	r.modules = append(r.modules, mod)

	for _, method := range r.provides.Methods(mod) {
		k := method.ResultKey()
		r.providers[k] = append(r.providers[k], &binding.ProviderMethod{Mod: mod, Method: method})
	}

	if m.Module == nil {
		return nil, nil
	}
	for _, decl := range m.Module.Bindings {
		b, err := r.declaredBinding(decl)
		if err != nil {
			return nil, err
		}
		if err := r.declared.Put(decl.Key, b); err != nil {
			return nil, err
		}
	}
	for _, t := range m.Module.StaticRequests {
		r.requestStatic(t)
	}
	return m.Module.Installs, nil
}

func (r *Resolver) requestStatic(t *typesys.Type) {
	for _, existing := range r.statics {
		if existing == t {
			return
		}
	}
	r.statics = append(r.statics, t)
}

func (r *Resolver) declaredBinding(decl *typesys.BindingDecl) (binding.Binding, error) {
	incompatible := func(target *typesys.Type, cause error) error {
		return IncompatibleBindingError{Key: decl.Key, Target: target, Position: decl.Position, Cause: cause}
	}

	switch {
	case decl.Instance != nil:
		ref := decl.Instance
		if !r.oracle.IsAssignableTo(ref.Type, decl.Key.Type) {
			return nil, incompatible(ref.Type, ErrNotAssignable)
		}
		if ref.PkgPath != "" && ref.PkgPath != r.pkgPath && !typesys.IsExported(ref.Expr) {
			return nil, incompatible(ref.Type, binding.ErrMemberNotAccessible)
		}
		return &binding.Instance{Ref: ref, Source: decl.Annotations}, nil

	case decl.Provider != nil:
		get := r.getMethod(decl.Provider)
		if get == nil || !r.oracle.IsAssignableTo(get.Results[0], decl.Key.Type) {
			return nil, incompatible(decl.Provider, ErrNoGetMethod)
		}
		if get.PointerReceiver && decl.Provider.Kind() != typesys.Pointer {
			return nil, incompatible(decl.Provider, ErrAddressableGet)
		}
		return &binding.ProviderClass{Provider: decl.Provider, Source: decl.Annotations}, nil

	case decl.Target != nil && *decl.Target != decl.Key:
		if !r.oracle.IsAssignableTo(decl.Target.Type, decl.Key.Type) {
			return nil, incompatible(decl.Target.Type, ErrNotAssignable)
		}
		return &binding.Linked{Target: *decl.Target, Source: decl.Annotations}, nil
	}

	ctor, err := members.InjectableConstructor(r.oracle, r.markers, decl.Key.Type)
	if err != nil {
		return nil, err
	}
	if ctor == nil && !r.defaultConstructible(decl.Key.Type) {
		return nil, incompatible(decl.Key.Type, ErrNotConstructing)
	}
	return &binding.Constructor{
		Type:      decl.Key.Type,
		Func:      ctor,
		Injection: r.MemberInjection(decl.Key.Type),
		Source:    decl.Annotations,
	}, nil
}

func (r *Resolver) getMethod(t *typesys.Type) *typesys.Method {
	for _, m := range r.all.Methods(t) {
		if m.Name == "Get" && !m.Static && len(m.Params) == 0 && len(m.Results) == 1 {
			return m
		}
	}
	return nil
}

// Declared returns the registry of module-declared bindings.
func (r *Resolver) Declared() *registry.Registry { return r.declared }

// Modules returns the configured modules in processing order.
func (r *Resolver) Modules() []*typesys.Type { return r.modules }

// StaticRequests returns the types modules requested static injection for,
// in request order.
func (r *Resolver) StaticRequests() []*typesys.Type { return r.statics }

// Resolve returns the binding of k. The chain lists the keys that led to
// k and is only used for diagnostics.
func (r *Resolver) Resolve(k typesys.Key, chain []typesys.Key) (binding.Binding, error) {
	if b, ok := r.declared.Lookup(k); ok {
		if pms := r.providers[k]; len(pms) > 0 {
			return nil, ambiguous(k, b, pms)
		}
		return b, nil
	}
	if b, ok := r.implicit[k]; ok {
		return b, nil
	}

	b, err := r.resolveImplicit(k, chain)
	if err != nil {
		return nil, err
	}
	r.implicit[k] = b
	r.logger.Debug("just-in-time binding",
		zap.Stringer("key", k),
		zap.String("binding", b.Description()))
	return b, nil
}

func (r *Resolver) resolveImplicit(k typesys.Key, chain []typesys.Key) (binding.Binding, error) {
	if k.IsProvider() {
		return &binding.Provider{Key: k}, nil
	}

	pms := r.providers[k]
	var ctor *typesys.Constructor
	if k.Qualifier == "" {
		var err error
		if ctor, err = members.InjectableConstructor(r.oracle, r.markers, k.Type); err != nil {
			return nil, err
		}
	}

	switch {
	case len(pms) > 1, len(pms) == 1 && ctor != nil:
		var ctorBinding binding.Binding
		if ctor != nil {
			ctorBinding = &binding.Constructor{Type: k.Type, Func: ctor}
		}
		return nil, ambiguous(k, ctorBinding, pms)
	case ctor != nil:
		return &binding.Constructor{Type: k.Type, Func: ctor, Injection: r.MemberInjection(k.Type)}, nil
	case len(pms) == 1:
		return pms[0], nil
	case k.Qualifier == "" && r.defaultConstructible(k.Type):
		return &binding.Constructor{Type: k.Type, Injection: r.MemberInjection(k.Type)}, nil
	}
	return nil, NoBindingError{Key: k, Chain: append([]typesys.Key(nil), chain...)}
}

// defaultConstructible reports whether t is a struct or a pointer to a
// struct the generated package can write a composite literal of.
func (r *Resolver) defaultConstructible(t *typesys.Type) bool {
	if t.Kind() == typesys.Pointer {
		t = t.Elem()
	}
	return t.IsStruct() && (t.Exported() || t.PkgPath() == r.pkgPath)
}

// MemberInjection describes the injectable fields and methods of the named
// target of t, or returns nil when t has no named target.
func (r *Resolver) MemberInjection(t *typesys.Type) *binding.MemberInjection {
	target := t.Target()
	if target == nil {
		return nil
	}
	if m, ok := r.injections[target]; ok {
		return m
	}
	m := &binding.MemberInjection{
		Type:    target,
		Fields:  r.injectables.Fields(target),
		Methods: r.injectables.Methods(target),
	}
	r.injections[target] = m
	return m
}

// StaticInjection describes the injectable static members of t.
func (r *Resolver) StaticInjection(t *typesys.Type) *binding.StaticInjection {
	return &binding.StaticInjection{
		Type:    t,
		Fields:  r.staticMbrs.Fields(t),
		Methods: r.staticMbrs.Methods(t),
	}
}

func ambiguous(k typesys.Key, other binding.Binding, pms []*binding.ProviderMethod) error {
	var candidates []string
	if other != nil {
		candidates = append(candidates, other.Description())
	}
	for _, pm := range pms {
		candidates = append(candidates, pm.Description())
	}
	return AmbiguousBindingError{Key: k, Candidates: candidates}
}
