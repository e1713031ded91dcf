package loader

import (
	"go/ast"
	"go/token"
	"go/types"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/junioryono/ginject/internal/typesys"
)

// objectInfo is what the directives say about one declared object.
type objectInfo struct {
	pkg         *packages.Package
	pos         token.Pos
	annotations typesys.Annotations
	named       namedSpec
	static      *directive
	module      []directive
}

// builder turns the syntax and type information of the loaded packages into
// universe declarations. Directives are read first, keyed by object; types
// are then declared as they are reached.
type builder struct {
	p        *Program
	u        *typesys.Universe
	logger   *zap.Logger
	infos    map[types.Object]*objectInfo
	order    []types.Object
	declared map[*types.TypeName]bool
}

func newBuilder(p *Program, logger *zap.Logger) *builder {
	return &builder{
		p:        p,
		u:        p.universe,
		logger:   logger,
		infos:    make(map[types.Object]*objectInfo),
		declared: make(map[*types.TypeName]bool),
	}
}

func (b *builder) build() error {
	for _, pkg := range b.p.pkgs {
		b.u.SetPackageName(pkg.PkgPath, pkg.Name)
		if err := b.scan(pkg); err != nil {
			return err
		}
	}

	for _, pkg := range b.p.pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}
			t, err := b.typeOf(named)
			if err != nil {
				return err
			}
			if info := b.infos[tn]; info != nil && info.annotations.Has(verbModule) {
				b.p.modules = append(b.p.modules, t)
			}
		}
	}

	for _, obj := range b.order {
		if err := b.declareObject(obj, b.infos[obj]); err != nil {
			return err
		}
	}
	return nil
}

// scan reads the directives of every declaration in pkg.
func (b *builder) scan(pkg *packages.Package) error {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.FuncDecl:
				if err := b.record(pkg, decl.Name, decl.Doc); err != nil {
					return err
				}

			case *ast.GenDecl:
				for _, spec := range decl.Specs {
					if err := b.scanSpec(pkg, decl, spec); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (b *builder) scanSpec(pkg *packages.Package, decl *ast.GenDecl, spec ast.Spec) error {
	// A lone spec has its comment on the declaration.
	doc := func(own *ast.CommentGroup) *ast.CommentGroup {
		if own == nil && !decl.Lparen.IsValid() {
			return decl.Doc
		}
		return own
	}

	switch spec := spec.(type) {
	case *ast.TypeSpec:
		if err := b.record(pkg, spec.Name, doc(spec.Doc)); err != nil {
			return err
		}
		iface, ok := spec.Type.(*ast.InterfaceType)
		if !ok {
			return nil
		}
		for _, field := range iface.Methods.List {
			for _, name := range field.Names {
				if err := b.record(pkg, name, field.Doc); err != nil {
					return err
				}
			}
		}

	case *ast.ValueSpec:
		for _, name := range spec.Names {
			if err := b.record(pkg, name, doc(spec.Doc)); err != nil {
				return err
			}
		}
	}
	return nil
}

// record stores the directives attached to the declaration of ident.
func (b *builder) record(pkg *packages.Package, ident *ast.Ident, doc *ast.CommentGroup) error {
	directives := parseDirectives(doc)
	if len(directives) == 0 {
		return nil
	}
	obj := pkg.TypesInfo.Defs[ident]
	if obj == nil {
		return nil
	}

	info := &objectInfo{pkg: pkg, pos: ident.Pos()}
	_, isType := obj.(*types.TypeName)
	fail := func(d directive, err error) error {
		return DirectiveError{Position: b.position(d.pos), Directive: d.String(), Cause: err}
	}

	for _, d := range directives {
		i := d
		switch {
		case markerVerbs[d.verb]:
			info.annotations = append(info.annotations, d.verb)
		case d.verb == verbNamed && !isType:
			if err := info.named.parse(d); err != nil {
				return fail(d, err)
			}
		case d.verb == verbStatic && !isType:
			if len(d.args) != 1 {
				return fail(d, MissingArgumentError{After: verbStatic})
			}
			info.static = &i
		case d.verb == verbBind || d.verb == verbInstall || d.verb == verbStaticRequest:
			if !isType {
				return fail(d, ErrMisplacedDirective)
			}
			info.module = append(info.module, d)
		case d.verb == verbNamed || d.verb == verbStatic:
			return fail(d, ErrMisplacedDirective)
		default:
			return fail(d, ErrUnknownDirective)
		}
	}

	b.infos[obj] = info
	b.order = append(b.order, obj)
	return nil
}

func (b *builder) position(pos token.Pos) string {
	return b.p.fset.Position(pos).String()
}

// typeOf converts t, declaring the members of every named type it reaches.
func (b *builder) typeOf(t types.Type) (*typesys.Type, error) {
	out, err := b.convert(t)
	if err != nil {
		return nil, err
	}
	if _, ok := b.p.goTypes[out]; !ok {
		b.p.goTypes[out] = t
	}
	return out, nil
}

func (b *builder) convert(t types.Type) (*typesys.Type, error) {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		if t.Info()&types.IsUntyped != 0 || t.Kind() == types.Invalid {
			return nil, UnsupportedTypeError{Type: t.String()}
		}
		return b.u.Basic(types.Typ[t.Kind()].Name()), nil

	case *types.Named:
		return b.named(t)

	case *types.Pointer:
		elem, err := b.typeOf(t.Elem())
		if err != nil {
			return nil, err
		}
		return b.u.Pointer(elem), nil

	case *types.Slice:
		elem, err := b.typeOf(t.Elem())
		if err != nil {
			return nil, err
		}
		return b.u.Slice(elem), nil

	case *types.Map:
		key, err := b.typeOf(t.Key())
		if err != nil {
			return nil, err
		}
		elem, err := b.typeOf(t.Elem())
		if err != nil {
			return nil, err
		}
		return b.u.Map(key, elem), nil

	case *types.Signature:
		if t.Variadic() || t.Recv() != nil {
			return nil, UnsupportedTypeError{Type: t.String()}
		}
		params, err := b.tuple(t.Params())
		if err != nil {
			return nil, err
		}
		results, err := b.tuple(t.Results())
		if err != nil {
			return nil, err
		}
		return b.u.Func(params, results), nil
	}
	return nil, UnsupportedTypeError{Type: t.String()}
}

func (b *builder) tuple(tuple *types.Tuple) ([]*typesys.Type, error) {
	out := make([]*typesys.Type, tuple.Len())
	for i := range out {
		t, err := b.typeOf(tuple.At(i).Type())
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (b *builder) named(t *types.Named) (*typesys.Type, error) {
	obj := t.Obj()
	if obj.Pkg() == nil {
		return b.u.Named("", obj.Name(), shapeOf(t.Underlying())), nil
	}

	origin := t.Origin()
	b.u.SetPackageName(obj.Pkg().Path(), obj.Pkg().Name())
	generic := b.u.Named(obj.Pkg().Path(), obj.Name(), shapeOf(origin.Underlying()))
	if err := b.declare(origin, generic); err != nil {
		return nil, err
	}

	if t.TypeArgs().Len() == 0 {
		return generic, nil
	}
	args, err := b.list(t.TypeArgs())
	if err != nil {
		return nil, err
	}
	return b.u.Instantiate(generic, args...), nil
}

func (b *builder) list(list *types.TypeList) ([]*typesys.Type, error) {
	out := make([]*typesys.Type, list.Len())
	for i := range out {
		t, err := b.typeOf(list.At(i))
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func shapeOf(u types.Type) typesys.Shape {
	switch u.(type) {
	case *types.Struct:
		return typesys.ShapeStruct
	case *types.Interface:
		return typesys.ShapeInterface
	default:
		return typesys.ShapeOther
	}
}

// declare records the members of the named type origin once.
func (b *builder) declare(origin *types.Named, t *typesys.Type) error {
	if b.declared[origin.Obj()] {
		return nil
	}
	b.declared[origin.Obj()] = true
	d := b.u.Declare(t)

	info := b.infos[origin.Obj()]
	if info != nil {
		d.Annotate(info.annotations...)
	}

	switch u := origin.Underlying().(type) {
	case *types.Struct:
		if err := b.declareFields(d, u); err != nil {
			return err
		}
	case *types.Interface:
		for i := 0; i < u.NumEmbeddeds(); i++ {
			if embed, ok := types.Unalias(u.EmbeddedType(i)).(*types.Named); ok {
				et, err := b.typeOf(embed)
				if err != nil {
					return err
				}
				d.Embed(et)
			}
		}
		for i := 0; i < u.NumExplicitMethods(); i++ {
			if err := b.declareMethod(d, u.ExplicitMethod(i)); err != nil {
				return err
			}
		}
	}

	for i := 0; i < origin.NumMethods(); i++ {
		if err := b.declareMethod(d, origin.Method(i)); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) declareFields(d *typesys.Decl, s *types.Struct) error {
	for i := 0; i < s.NumFields(); i++ {
		f := s.Field(i)
		tags := parseFieldTags(s.Tag(i))

		if f.Embedded() {
			if embed, err := b.typeOf(f.Type()); err == nil && embed.Target() != nil {
				d.Embed(embed)
			}
			continue
		}

		if !tags.Inject {
			continue
		}
		ft, err := b.typeOf(f.Type())
		if err != nil {
			return DirectiveError{Position: b.position(f.Pos()), Directive: "inject field " + f.Name(), Cause: err}
		}
		d.AddField(&typesys.Field{
			Name:        f.Name(),
			Key:         typesys.QualifiedKey(ft, tags.Name),
			Annotations: typesys.Annotations{verbInject},
			Position:    b.position(f.Pos()),
		})
	}
	return nil
}

// declareMethod records fn as a method of d. Methods whose signatures cannot
// be bound are skipped unless a directive asks for them. Skipped methods are
// still listed so injectors declaring them are rejected.
func (b *builder) declareMethod(d *typesys.Decl, fn *types.Func) error {
	info := b.infos[fn]
	sig := fn.Type().(*types.Signature)

	m, err := b.method(fn, sig, info)
	if err != nil {
		if info != nil {
			return DirectiveError{Position: b.position(fn.Pos()), Directive: "method " + fn.Name(), Cause: err}
		}
		b.logger.Debug("method skipped", zap.String("method", fn.FullName()), zap.Error(err))
		d.Skip(fn.Name())
		return nil
	}
	if recv := sig.Recv(); recv != nil {
		_, m.PointerReceiver = types.Unalias(recv.Type()).(*types.Pointer)
	}
	d.AddMethod(m)
	return nil
}

func (b *builder) method(fn *types.Func, sig *types.Signature, info *objectInfo) (*typesys.Method, error) {
	if sig.Variadic() {
		return nil, UnsupportedTypeError{Type: sig.String()}
	}
	m := &typesys.Method{Name: fn.Name(), Position: b.position(fn.Pos())}
	if info != nil {
		m.Annotations = info.annotations
		m.Qualifier = info.named.result
	}

	params, err := b.params(sig.Params(), info)
	if err != nil {
		return nil, err
	}
	m.Params = params
	if m.Results, err = b.tuple(sig.Results()); err != nil {
		return nil, err
	}
	return m, nil
}

func (b *builder) params(tuple *types.Tuple, info *objectInfo) ([]typesys.Param, error) {
	params := make([]typesys.Param, tuple.Len())
	for i := range params {
		v := tuple.At(i)
		t, err := b.typeOf(v.Type())
		if err != nil {
			return nil, err
		}
		var q string
		if info != nil {
			q = info.named.params[v.Name()]
		}
		params[i] = typesys.Param{Name: v.Name(), Key: typesys.QualifiedKey(t, q)}
	}
	return params, nil
}
