// Package output writes the Go source of a generated injector from the
// resolved bindings of a run.
package output

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/junioryono/ginject/internal/binding"
	"github.com/junioryono/ginject/internal/codewriter"
	"github.com/junioryono/ginject/internal/lifetime"
	"github.com/junioryono/ginject/internal/naming"
	"github.com/junioryono/ginject/internal/registry"
	"github.com/junioryono/ginject/internal/typesys"
)

// Header marks generated files.
const Header = "Code generated by ginject. DO NOT EDIT."

// Receiver is the receiver identifier of every generated method.
const Receiver = "g"

// ErrNoPackage is returned when the output package is not set.
var ErrNoPackage = errors.New("output package not set")

// Config describes the file being generated.
type Config struct {
	// PkgPath and PkgName identify the package the file belongs to.
	PkgPath string
	PkgName string

	// ImplName names the generated struct. The constructor is New+ImplName.
	ImplName string

	Logger *zap.Logger
}

// Input is everything a run resolved.
type Input struct {
	// Injector is the interface the generated struct implements.
	Injector *typesys.Type

	// Provisions and MemberInjectors are the injector methods, in the order
	// their forwarding methods are written.
	Provisions      []*typesys.Method
	MemberInjectors []*typesys.Method

	Registry         *registry.Registry
	Scopes           *lifetime.Scopes
	MemberInjections []*binding.MemberInjection
	StaticInjections []*binding.StaticInjection
}

// Outputter writes one generated file. It implements binding.Context for
// the bindings it writes.
type Outputter struct {
	cfg     Config
	logger  *zap.Logger
	names   *naming.Generator
	imports *imports
	w       *codewriter.SourceWriter

	// err holds the first naming failure seen through the Context methods.
	err error
}

var _ binding.Context = (*Outputter)(nil)

// New creates an Outputter. reserved lists identifiers the generated struct
// must not declare, such as the names of the injector methods.
func New(cfg Config, reserved ...string) (*Outputter, error) {
	if cfg.PkgPath == "" || cfg.PkgName == "" {
		return nil, ErrNoPackage
	}
	if cfg.ImplName == "" {
		cfg.ImplName = "Impl"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	// result and v are locals of generated bodies; imports must not shadow them.
	fileScope := []string{Receiver, cfg.ImplName, "New" + cfg.ImplName, "result", "v"}
	return &Outputter{
		cfg:     cfg,
		logger:  cfg.Logger,
		names:   naming.NewGenerator(append(reserved, fileScope...)...),
		imports: newImports(cfg.PkgPath, fileScope...),
		w:       codewriter.New(),
	}, nil
}

// Output writes the injector and returns the formatted file.
func (o *Outputter) Output(in Input) ([]byte, error) {
	injections := o.memberInjections(in)
	modules := o.modules(in.Registry)
	if err := o.allocate(in, injections, modules); err != nil {
		return nil, err
	}

	o.writeStruct(in, modules)
	o.writeConstructor(in)
	o.writeForwarding(in, injections)

	for _, e := range in.Registry.Entries() {
		if err := o.writeBinding(e, in.Scopes.Of(e.Key)); err != nil {
			return nil, err
		}
	}

	for _, mi := range injections {
		sig := fmt.Sprintf("func (%s *%s) %s(v %s)", Receiver, o.cfg.ImplName, o.MemberInjector(mi.Type), mi.ParamType(o))
		if err := mi.WriteInjector(o, o.w, sig, "v"); err != nil {
			return nil, err
		}
	}

	if err := o.writeStatics(in.StaticInjections); err != nil {
		return nil, err
	}
	if o.err != nil {
		return nil, o.err
	}

	src, err := codewriter.Format(codewriter.File{
		Header:  Header,
		Package: o.cfg.PkgName,
		Imports: o.imports.specs(),
		Body:    o.w.Bytes(),
	})
	if err != nil {
		return nil, err
	}

	o.logger.Debug("injector written",
		zap.String("impl", o.cfg.ImplName),
		zap.Int("bindings", in.Registry.Len()),
		zap.Int("bytes", len(src)))
	return src, nil
}

// memberInjections returns the injections of member-injection roots, then
// those of constructed values, one per type.
func (o *Outputter) memberInjections(in Input) []*binding.MemberInjection {
	seen := make(map[*typesys.Type]bool)
	var out []*binding.MemberInjection
	add := func(mi *binding.MemberInjection) {
		if mi == nil || seen[mi.Type] {
			return
		}
		seen[mi.Type] = true
		out = append(out, mi)
	}

	for _, mi := range in.MemberInjections {
		add(mi)
	}
	for _, e := range in.Registry.Entries() {
		if inj, ok := e.Binding.(binding.Injecting); ok && !inj.MemberInjection().Empty() {
			add(inj.MemberInjection())
		}
	}
	return out
}

// modules returns the module types provider methods are called on, in
// first-use order.
func (o *Outputter) modules(reg *registry.Registry) []*typesys.Type {
	seen := make(map[*typesys.Type]bool)
	var out []*typesys.Type
	for _, e := range reg.Entries() {
		if m, ok := e.Binding.(binding.Modular); ok && !seen[m.Module()] {
			seen[m.Module()] = true
			out = append(out, m.Module())
		}
	}
	return out
}

// allocate names everything before any source is written, so names depend
// only on the order of the resolved graph.
func (o *Outputter) allocate(in Input, injections []*binding.MemberInjection, modules []*typesys.Type) error {
	var errs error
	for _, k := range in.Registry.Keys() {
		_, err := o.names.Getter(k)
		errs = multierr.Append(errs, err)
	}
	for _, mi := range injections {
		_, err := o.names.MemberInjector(mi.Type)
		errs = multierr.Append(errs, err)
	}
	for _, si := range in.StaticInjections {
		_, err := o.names.StaticInjector(si.Type)
		errs = multierr.Append(errs, err)
	}
	for _, m := range modules {
		_, err := o.names.ModuleField(m)
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (o *Outputter) writeStruct(in Input, modules []*typesys.Type) {
	if in.Injector != nil {
		o.w.Println("var _ ", o.Expr(in.Injector), " = (*", o.cfg.ImplName, ")(nil)")
		o.w.Println()
	}

	o.w.Println("// ", o.cfg.ImplName, " is the generated injector.")
	o.w.Println("type ", o.cfg.ImplName, " struct {")
	o.w.Indent()
	for _, e := range in.Registry.Entries() {
		if !in.Scopes.Of(e.Key).Memoized() {
			continue
		}
		o.w.WriteField(o.singletonField(e.Key) + " " + o.Expr(e.Key.Type))
		if !e.Key.Type.Nilable() {
			o.w.WriteField(o.createdField(e.Key) + " bool")
		}
	}
	for _, m := range modules {
		o.w.WriteField(o.ModuleField(m) + " " + o.Expr(m))
	}
	o.w.Outdent()
	o.w.Println("}")
	o.w.Println()
}

// writeConstructor writes New<Impl>, which creates eager singletons in
// resolution order and then performs static injection in request order.
func (o *Outputter) writeConstructor(in Input) {
	var stmts []string
	for _, k := range in.Scopes.EagerKeys() {
		stmts = append(stmts, fmt.Sprintf("%s.%s()", Receiver, o.Getter(k)))
	}
	for _, si := range in.StaticInjections {
		stmts = append(stmts, fmt.Sprintf("%s.%s()", Receiver, o.staticInjector(si.Type)))
	}

	sig := fmt.Sprintf("func New%s() *%s", o.cfg.ImplName, o.cfg.ImplName)
	o.w.Println("// New", o.cfg.ImplName, " returns a ready to use injector.")
	if len(stmts) == 0 {
		o.w.WriteMethod(sig, fmt.Sprintf("return &%s{}", o.cfg.ImplName))
		return
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%s := &%s{}\n", Receiver, o.cfg.ImplName)
	for _, s := range stmts {
		body.WriteString(s)
		body.WriteByte('\n')
	}
	fmt.Fprintf(&body, "return %s", Receiver)
	o.w.WriteMethod(sig, body.String())
}

func (o *Outputter) writeForwarding(in Input, injections []*binding.MemberInjection) {
	for _, m := range in.Provisions {
		sig := fmt.Sprintf("func (%s *%s) %s() %s", Receiver, o.cfg.ImplName, m.Name, o.Expr(m.Results[0]))
		o.w.WriteMethod(sig, fmt.Sprintf("return %s.%s()", Receiver, o.Getter(m.ResultKey())))
	}

	for _, m := range in.MemberInjectors {
		t := m.Params[0].Key.Type
		sig := fmt.Sprintf("func (%s *%s) %s(v %s)", Receiver, o.cfg.ImplName, m.Name, o.Expr(t))
		o.w.WriteMethod(sig, fmt.Sprintf("%s.%s(v)", Receiver, o.MemberInjector(t.Target())))
	}
}

func (o *Outputter) writeBinding(e registry.Entry, scope lifetime.Scope) error {
	typ := o.Expr(e.Key.Type)
	creator := o.creator(e.Key)

	sig := fmt.Sprintf("func (%s *%s) %s() %s", Receiver, o.cfg.ImplName, creator, typ)
	if err := e.Binding.WriteCreator(o, o.w, sig); err != nil {
		return fmt.Errorf("write creator of %s: %w", e.Key, err)
	}

	sig = fmt.Sprintf("func (%s *%s) %s() %s", Receiver, o.cfg.ImplName, o.Getter(e.Key), typ)
	create := fmt.Sprintf("%s.%s()", Receiver, creator)
	if !scope.Memoized() {
		o.w.WriteMethod(sig, "return "+create)
		return nil
	}

	field := Receiver + "." + o.singletonField(e.Key)
	var body strings.Builder
	if e.Key.Type.Nilable() {
		fmt.Fprintf(&body, "if %s == nil {\n", field)
		fmt.Fprintf(&body, "\t%s = %s\n", field, create)
	} else {
		created := Receiver + "." + o.createdField(e.Key)
		fmt.Fprintf(&body, "if !%s {\n", created)
		fmt.Fprintf(&body, "\t%s = %s\n", field, create)
		fmt.Fprintf(&body, "\t%s = true\n", created)
	}
	fmt.Fprintf(&body, "}\nreturn %s", field)
	o.w.WriteMethod(sig, body.String())
	return nil
}

// writeStatics writes every static injection method. Failures are logged
// one by one and returned together.
func (o *Outputter) writeStatics(statics []*binding.StaticInjection) error {
	var errs error
	for _, si := range statics {
		sig := fmt.Sprintf("func (%s *%s) %s()", Receiver, o.cfg.ImplName, o.staticInjector(si.Type))
		errs = multierr.Append(errs, si.WriteInjector(o, o.w, sig))
	}

	for _, err := range multierr.Errors(errs) {
		var sie binding.StaticInjectionError
		if errors.As(err, &sie) {
			o.logger.Error("static injection failed",
				zap.Stringer("type", sie.Type),
				zap.String("member", sie.Member),
				zap.Error(sie.Cause))
		} else {
			o.logger.Error("static injection failed", zap.Error(err))
		}
	}
	return errs
}

func (o *Outputter) note(name string, err error) string {
	if err != nil && o.err == nil {
		o.err = err
	}
	return name
}

func (o *Outputter) creator(k typesys.Key) string { return o.note(o.names.Creator(k)) }

func (o *Outputter) singletonField(k typesys.Key) string { return o.note(o.names.SingletonField(k)) }

func (o *Outputter) createdField(k typesys.Key) string { return o.note(o.names.CreatedField(k)) }

func (o *Outputter) staticInjector(t *typesys.Type) string { return o.note(o.names.StaticInjector(t)) }

// Receiver implements binding.Context.
func (o *Outputter) Receiver() string { return Receiver }

// Getter implements binding.Context.
func (o *Outputter) Getter(k typesys.Key) string { return o.note(o.names.Getter(k)) }

// MemberInjector implements binding.Context.
func (o *Outputter) MemberInjector(t *typesys.Type) string {
	return o.note(o.names.MemberInjector(t))
}

// ModuleField implements binding.Context.
func (o *Outputter) ModuleField(t *typesys.Type) string { return o.note(o.names.ModuleField(t)) }

// Expr implements binding.Context.
func (o *Outputter) Expr(t *typesys.Type) string { return t.Expr(o.imports.qualifier()) }

// Local implements binding.Context.
func (o *Outputter) Local(pkgPath string) bool { return pkgPath == o.cfg.PkgPath }

// Qualify implements binding.Context.
func (o *Outputter) Qualify(pkgPath, pkgName string) string {
	if a := o.imports.alias(pkgPath, pkgName); a != "" {
		return a + "."
	}
	return ""
}
