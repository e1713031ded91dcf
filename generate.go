package ginject

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/junioryono/ginject/internal/graph"
	"github.com/junioryono/ginject/internal/lifetime"
	"github.com/junioryono/ginject/internal/members"
	"github.com/junioryono/ginject/internal/output"
	"github.com/junioryono/ginject/internal/resolver"
	"github.com/junioryono/ginject/internal/typesys"
)

// Oracle answers the questions ginject asks about types. The source loader
// and typesys.Universe implement it.
type Oracle = typesys.Oracle

// Scope is the lifetime of a binding in a generated injector.
type Scope = lifetime.Scope

const (
	NoScope        = lifetime.NoScope
	Singleton      = lifetime.Singleton
	EagerSingleton = lifetime.EagerSingleton
)

// Unit is the result of a successful run.
type Unit struct {
	// Source is the formatted Go file. It is identical for identical
	// inputs.
	Source []byte

	// Package is the import path of the generated file.
	Package string

	// ImplName is the name of the generated struct; its constructor is
	// New+ImplName.
	ImplName string

	// RunID identifies the run in logs.
	RunID string

	Bindings         int
	Singletons       int
	EagerSingletons  int
	MemberInjections int
	StaticInjections int
}

// Generate writes an implementation of the injector interface named by
// injector, configured by the named modules. Names are canonical type
// strings such as "example.com/app.AppInjector".
//
// Generation is all or nothing: any failure is returned as an
// UnableToCompleteError and no source is produced.
func Generate(oracle Oracle, injector string, modules []string, opts ...Option) (*Unit, error) {
	o := newOptions(opts)
	runID := uuid.NewString()
	logger := o.logger.With(zap.String("run", runID))

	unit, err := generate(oracle, injector, modules, o, logger)
	if err != nil {
		logger.Debug("generation failed", zap.String("injector", injector), zap.Error(err))
		return nil, UnableToCompleteError{Injector: injector, RunID: runID, Cause: err}
	}
	unit.RunID = runID

	logger.Info("injector generated",
		zap.String("injector", injector),
		zap.String("impl", unit.ImplName),
		zap.Int("bindings", unit.Bindings),
		zap.Int("bytes", len(unit.Source)))
	return unit, nil
}

func generate(oracle Oracle, injector string, modules []string, o *options, logger *zap.Logger) (*Unit, error) {
	iface, ok := oracle.ResolveType(injector)
	if !ok {
		return nil, TypeNotFoundError{Name: injector, Role: "injector"}
	}
	if !iface.IsInterface() {
		return nil, NotAnInterfaceError{Type: iface}
	}

	mods := make([]*typesys.Type, 0, len(modules))
	for _, name := range modules {
		t, ok := oracle.ResolveType(name)
		if !ok {
			return nil, TypeNotFoundError{Name: name, Role: "module"}
		}
		mods = append(mods, t)
	}

	pkgPath, pkgName := o.pkgPath, o.pkgName
	if pkgPath == "" {
		pkgPath, pkgName = iface.PkgPath(), iface.PkgName()
	}
	implName := o.implName
	if implName == "" {
		implName = iface.Name() + "Impl"
	}

	methods, err := injectorMethods(oracle, iface, pkgPath)
	if err != nil {
		return nil, err
	}

	r := resolver.New(oracle, o.markers, pkgPath, logger)
	if err := r.Configure(mods); err != nil {
		return nil, err
	}

	roots := graph.Roots{
		StaticInjections: r.StaticRequests(),
		Declared:         r.Declared().Keys(),
	}
	for _, m := range methods.provisions {
		roots.Provisions = append(roots.Provisions, m.ResultKey())
	}
	for _, m := range methods.injectors {
		roots.MemberInjections = append(roots.MemberInjections, m.Params[0].Key.Type)
	}

	proc := graph.NewProcessor(r, r.Declared().NewChild(), logger)
	if err := proc.Process(roots); err != nil {
		return nil, err
	}
	scopes := lifetime.NewAssigner(oracle, o.markers).Assign(proc.Registry())

	if err := writeGraphs(o, proc, scopes); err != nil {
		return nil, err
	}

	out, err := output.New(output.Config{
		PkgPath:  pkgPath,
		PkgName:  pkgName,
		ImplName: implName,
		Logger:   logger,
	}, methods.names...)
	if err != nil {
		return nil, err
	}
	src, err := out.Output(output.Input{
		Injector:         iface,
		Provisions:       methods.provisions,
		MemberInjectors:  methods.injectors,
		Registry:         proc.Registry(),
		Scopes:           scopes,
		MemberInjections: proc.MemberInjections(),
		StaticInjections: proc.StaticInjections(),
	})
	if err != nil {
		return nil, err
	}

	return &Unit{
		Source:           src,
		Package:          pkgPath,
		ImplName:         implName,
		Bindings:         proc.Registry().Len(),
		Singletons:       scopes.Count(lifetime.Singleton),
		EagerSingletons:  scopes.Count(lifetime.EagerSingleton),
		MemberInjections: len(proc.MemberInjections()),
		StaticInjections: len(proc.StaticInjections()),
	}, nil
}

type injectorMethodSet struct {
	provisions []*typesys.Method
	injectors  []*typesys.Method
	names      []string
}

// injectorMethods splits the methods of the injector, including those of
// embedded interfaces, into provisions and member injections. Unexported
// methods can only be implemented inside the injector's package.
func injectorMethods(oracle Oracle, iface *typesys.Type, pkgPath string) (injectorMethodSet, error) {
	var set injectorMethodSet
	collector := members.NewCollector(oracle)
	if skipped := collector.Unsupported(iface); len(skipped) > 0 {
		return set, InjectorMethodError{Injector: iface, Method: skipped[0], Cause: ErrUnsupportedMethod}
	}
	for _, m := range collector.Methods(iface) {
		switch {
		case !typesys.IsExported(m.Name) && iface.PkgPath() != pkgPath:
			return set, InjectorMethodError{Injector: iface, Method: m.Name, Cause: ErrMemberNotAccessible}
		case members.ProvisionMethods(m):
			set.provisions = append(set.provisions, m)
		case members.MemberInjectionMethods(m) && injectsInPlace(m.Params[0].Key.Type):
			set.injectors = append(set.injectors, m)
		default:
			return set, InjectorMethodError{Injector: iface, Method: m.Name, Cause: ErrUnsupportedMethod}
		}
		set.names = append(set.names, m.Name)
	}
	return set, nil
}

// injectsInPlace reports whether members injected into a value of t are
// visible to the caller: pointers to named types and interfaces.
func injectsInPlace(t *typesys.Type) bool {
	if t.Target() == nil {
		return false
	}
	return t.Kind() == typesys.Pointer || t.IsInterface()
}

func writeGraphs(o *options, proc *graph.Processor, scopes *lifetime.Scopes) error {
	if o.graph == nil && o.text == nil {
		return nil
	}
	v := graph.NewVisualizer(proc, func(k typesys.Key) string {
		return scopes.Of(k).String()
	})
	if o.graph != nil {
		if err := v.WriteDOT(o.graph); err != nil {
			return err
		}
	}
	if o.text != nil {
		return v.WriteText(o.text)
	}
	return nil
}
