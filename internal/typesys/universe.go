package typesys

import (
	"path"
	"strings"
	"sync"
)

var _ Oracle = (*Universe)(nil)

// Universe is an in-memory Oracle. It interns every type it hands out so
// that structurally identical types share one pointer, and it stores the
// member declarations of named types.
//
// Interning is safe for concurrent use. Declarations are populated once by
// a loader (or a test) and must be complete before concurrent readers start.
type Universe struct {
	mu       sync.RWMutex
	types    map[string]*Type
	decls    map[*Type]*Decl
	pkgNames map[string]string
}

// NewUniverse creates an empty Universe.
func NewUniverse() *Universe {
	return &Universe{
		types:    make(map[string]*Type),
		decls:    make(map[*Type]*Decl),
		pkgNames: make(map[string]string),
	}
}

// SetPackageName records the package name for an import path whose last
// element differs from the name.
func (u *Universe) SetPackageName(pkgPath, name string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pkgNames[pkgPath] = name
}

func (u *Universe) packageName(pkgPath string) string {
	if name, ok := u.pkgNames[pkgPath]; ok {
		return name
	}
	name := path.Base(pkgPath)
	if i := strings.LastIndexAny(name, ".-"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// intern returns the canonical instance of t.
func (u *Universe) intern(t *Type) *Type {
	t.id = t.Expr(fullyQualified)

	u.mu.RLock()
	existing, ok := u.types[t.id]
	u.mu.RUnlock()
	if ok {
		return existing
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if existing, ok := u.types[t.id]; ok {
		return existing
	}
	u.types[t.id] = t
	return t
}

// Basic returns the predeclared type with the given name.
func (u *Universe) Basic(name string) *Type {
	return u.intern(&Type{kind: Basic, name: name})
}

// Named returns the named type pkgPath.name with the given underlying shape.
func (u *Universe) Named(pkgPath, name string, shape Shape) *Type {
	u.mu.RLock()
	pkgName := u.packageName(pkgPath)
	u.mu.RUnlock()
	return u.intern(&Type{kind: Named, pkgPath: pkgPath, pkgName: pkgName, name: name, shape: shape})
}

// Struct returns the named struct type pkgPath.name.
func (u *Universe) Struct(pkgPath, name string) *Type {
	return u.Named(pkgPath, name, ShapeStruct)
}

// Interface returns the named interface type pkgPath.name.
func (u *Universe) Interface(pkgPath, name string) *Type {
	return u.Named(pkgPath, name, ShapeInterface)
}

// Instantiate returns generic instantiated with args.
func (u *Universe) Instantiate(generic *Type, args ...*Type) *Type {
	return u.intern(&Type{
		kind:    Named,
		pkgPath: generic.pkgPath,
		pkgName: generic.pkgName,
		name:    generic.name,
		shape:   generic.shape,
		origin:  generic,
		args:    append([]*Type(nil), args...),
	})
}

// Pointer returns *elem.
func (u *Universe) Pointer(elem *Type) *Type {
	return u.intern(&Type{kind: Pointer, elem: elem})
}

// Slice returns []elem.
func (u *Universe) Slice(elem *Type) *Type {
	return u.intern(&Type{kind: Slice, elem: elem})
}

// Map returns map[key]elem.
func (u *Universe) Map(key, elem *Type) *Type {
	return u.intern(&Type{kind: Map, key: key, elem: elem})
}

// Func returns the func type with the given params and results.
func (u *Universe) Func(params, results []*Type) *Type {
	return u.intern(&Type{
		kind:    Func,
		params:  append([]*Type(nil), params...),
		results: append([]*Type(nil), results...),
	})
}

// Provider returns func() t.
func (u *Universe) Provider(t *Type) *Type {
	return u.Func(nil, []*Type{t})
}

// Declare returns the mutable declaration record of the named type t,
// creating it on first use.
func (u *Universe) Declare(t *Type) *Decl {
	u.mu.Lock()
	defer u.mu.Unlock()
	d, ok := u.decls[t]
	if !ok {
		d = &Decl{owner: t}
		u.decls[t] = d
	}
	return d
}

// ResolveType implements Oracle.
func (u *Universe) ResolveType(name string) (*Type, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	t, ok := u.types[name]
	return t, ok
}

// DeclaredMembers implements Oracle.
func (u *Universe) DeclaredMembers(t *Type) Members {
	target := t.Target()
	if target == nil {
		return Members{}
	}

	u.mu.RLock()
	defer u.mu.RUnlock()
	if d, ok := u.decls[target]; ok {
		return d.members
	}
	if target.origin != nil {
		if d, ok := u.decls[target.origin]; ok {
			return d.members
		}
	}
	return Members{}
}

// IsAssignableTo implements Oracle.
func (u *Universe) IsAssignableTo(t, target *Type) bool {
	if t == nil || target == nil {
		return false
	}
	if t == target {
		return true
	}
	if !target.IsInterface() {
		return false
	}

	have := u.methodSet(t)
	for sig := range u.methodSet(target) {
		if _, ok := have[sig]; !ok {
			return false
		}
	}
	return true
}

// methodSet returns the signatures of the methods callable on values of t.
func (u *Universe) methodSet(t *Type) map[string]struct{} {
	set := make(map[string]struct{})
	addressable := t.kind == Pointer || t.IsInterface()

	seen := make(map[*Type]bool)
	queue := []*Type{t.Target()}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil || seen[cur] {
			continue
		}
		seen[cur] = true

		m := u.DeclaredMembers(cur)
		for _, method := range m.Methods {
			if method.Static || (method.PointerReceiver && !addressable) {
				continue
			}
			set[methodID(method)] = struct{}{}
		}
		for _, embed := range m.Embeds {
			queue = append(queue, embed.Target())
		}
	}
	return set
}

func methodID(m *Method) string {
	var b strings.Builder
	b.WriteString(m.Signature())
	for _, r := range m.Results {
		b.WriteByte(' ')
		b.WriteString(r.String())
	}
	return b.String()
}

// Decl accumulates the declarations of one named type.
type Decl struct {
	owner   *Type
	members Members
}

// Type returns the declared type.
func (d *Decl) Type() *Type { return d.owner }

// Annotate attaches markers to the type itself.
func (d *Decl) Annotate(markers ...string) *Decl {
	d.members.Annotations = append(d.members.Annotations, markers...)
	return d
}

// Embed records embedded ancestors.
func (d *Decl) Embed(types ...*Type) *Decl {
	d.members.Embeds = append(d.members.Embeds, types...)
	return d
}

// AddConstructor records a package-level constructor function.
func (d *Decl) AddConstructor(c *Constructor) *Decl {
	if c.PkgPath == "" {
		c.PkgPath, c.PkgName = d.owner.pkgPath, d.owner.pkgName
	}
	d.members.Constructors = append(d.members.Constructors, c)
	return d
}

// AddMethod records a method, or a static function when m.Static is set.
func (d *Decl) AddMethod(m *Method) *Decl {
	if m.Static && m.PkgPath == "" {
		m.PkgPath, m.PkgName = d.owner.pkgPath, d.owner.pkgName
	}
	d.members.Methods = append(d.members.Methods, m)
	return d
}

// Skip records a method that exists on the type but cannot be
// represented.
func (d *Decl) Skip(method string) *Decl {
	d.members.Unsupported = append(d.members.Unsupported, method)
	return d
}

// AddField records a field, or a package-level variable when f.Static is
// set.
func (d *Decl) AddField(f *Field) *Decl {
	if f.Static && f.PkgPath == "" {
		f.PkgPath, f.PkgName = d.owner.pkgPath, d.owner.pkgName
	}
	d.members.Fields = append(d.members.Fields, f)
	return d
}

// Module returns the module declaration of the type, creating it on first
// use.
func (d *Decl) Module() *ModuleDecl {
	if d.members.Module == nil {
		d.members.Module = &ModuleDecl{}
	}
	return d.members.Module
}
