// Package naming allocates the identifiers of a generated injector.
//
// Every binding key gets one base name from which its getter, creator and
// memoization fields derive. Member injectors, static injectors and module
// fields are allocated from their own families. A base is the short name of
// the type plus the qualifier; when that is taken the package-qualified
// name is tried, then the short name with a numeric suffix.
package naming

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/junioryono/ginject/internal/typesys"
)

// maxSuffix bounds the numeric suffixes tried for one name.
const maxSuffix = 1000

type family int

const (
	bindingFamily family = iota
	memberInjectFamily
	staticFamily
	moduleFamily
)

func (f family) String() string {
	switch f {
	case bindingFamily:
		return "binding"
	case memberInjectFamily:
		return "member injector"
	case staticFamily:
		return "static injector"
	default:
		return "module field"
	}
}

// derive returns the identifiers a family generates from base.
func (f family) derive(base string) []string {
	switch f {
	case bindingFamily:
		return []string{"get" + base, "create" + base, lowerFirst(base) + "Singleton", lowerFirst(base) + "Created"}
	case memberInjectFamily:
		return []string{"memberInject" + base}
	case staticFamily:
		return []string{"injectStatic" + base}
	default:
		return []string{moduleField(base)}
	}
}

func moduleField(base string) string {
	if strings.HasSuffix(base, "Module") {
		return lowerFirst(base)
	}
	return lowerFirst(base) + "Module"
}

// Generator hands out collision-free names. The same request always
// returns the same name, and a fresh Generator given the same requests in
// the same order produces the same names.
//
// A Generator is not safe for concurrent use.
type Generator struct {
	used  map[string]string // identifier -> owner description
	bases map[family]map[any]string
}

// NewGenerator creates a Generator that never hands out any reserved name.
func NewGenerator(reserved ...string) *Generator {
	g := &Generator{
		used:  make(map[string]string),
		bases: make(map[family]map[any]string),
	}
	for _, name := range reserved {
		g.used[name] = "reserved"
	}
	return g
}

// Reserve marks name as taken. It fails when the generator already handed
// the name out.
func (g *Generator) Reserve(name string) error {
	if owner, ok := g.used[name]; ok && owner != "reserved" {
		return NameCollisionError{Name: name, Owner: owner}
	}
	g.used[name] = "reserved"
	return nil
}

// Getter returns the name of the getter method of k.
func (g *Generator) Getter(k typesys.Key) (string, error) {
	base, err := g.bindingBase(k)
	return "get" + base, err
}

// Creator returns the name of the creator method of k.
func (g *Generator) Creator(k typesys.Key) (string, error) {
	base, err := g.bindingBase(k)
	return "create" + base, err
}

// SingletonField returns the name of the field memoizing k.
func (g *Generator) SingletonField(k typesys.Key) (string, error) {
	base, err := g.bindingBase(k)
	return lowerFirst(base) + "Singleton", err
}

// CreatedField returns the name of the flag recording that a value-kind
// singleton of k was created.
func (g *Generator) CreatedField(k typesys.Key) (string, error) {
	base, err := g.bindingBase(k)
	return lowerFirst(base) + "Created", err
}

// MemberInjector returns the name of the method injecting the members of
// the named type t.
func (g *Generator) MemberInjector(t *typesys.Type) (string, error) {
	base, err := g.allocate(memberInjectFamily, t, typeNames(t), t.String())
	return "memberInject" + base, err
}

// StaticInjector returns the name of the method performing static
// injection for t.
func (g *Generator) StaticInjector(t *typesys.Type) (string, error) {
	base, err := g.allocate(staticFamily, t, typeNames(t), t.String())
	return "injectStatic" + base, err
}

// ModuleField returns the name of the field holding the module t.
func (g *Generator) ModuleField(t *typesys.Type) (string, error) {
	base, err := g.allocate(moduleFamily, t, typeNames(t), t.String())
	return moduleField(base), err
}

func (g *Generator) bindingBase(k typesys.Key) (string, error) {
	names := typeNames(k.Type)
	q := camel(k.Qualifier)
	return g.allocate(bindingFamily, k, [2]string{names[0] + q, names[1] + q}, k.String())
}

func typeNames(t *typesys.Type) [2]string {
	return [2]string{shortName(t, false), shortName(t, true)}
}

// allocate returns the base of id in family f, choosing one from the
// candidates on first request.
func (g *Generator) allocate(f family, id any, candidates [2]string, owner string) (string, error) {
	bases := g.bases[f]
	if bases == nil {
		bases = make(map[any]string)
		g.bases[f] = bases
	}
	if base, ok := bases[id]; ok {
		return base, nil
	}

	try := func(base string) bool {
		names := f.derive(base)
		for _, name := range names {
			if _, taken := g.used[name]; taken {
				return false
			}
		}
		for _, name := range names {
			g.used[name] = owner
		}
		bases[id] = base
		return true
	}

	for _, base := range candidates {
		if try(base) {
			return base, nil
		}
	}
	for i := 2; i <= maxSuffix; i++ {
		if base := candidates[0] + strconv.Itoa(i); try(base) {
			return base, nil
		}
	}

	name := f.derive(candidates[0])[0]
	return "", NameCollisionError{Name: name, Owner: g.used[name], Requested: owner + " (" + f.String() + ")"}
}

// shortName renders t as an identifier fragment. With qualified set, named
// types carry their package name.
func shortName(t *typesys.Type, qualified bool) string {
	switch t.Kind() {
	case typesys.Basic:
		return upperFirst(t.Name())
	case typesys.Named:
		var b strings.Builder
		if qualified && t.PkgName() != "" {
			b.WriteString(upperFirst(camel(t.PkgName())))
		}
		b.WriteString(upperFirst(t.Name()))
		for _, arg := range t.Args() {
			b.WriteString(shortName(arg, qualified))
		}
		return b.String()
	case typesys.Pointer:
		if t.Elem().Kind() == typesys.Named {
			return shortName(t.Elem(), qualified)
		}
		return shortName(t.Elem(), qualified) + "Ptr"
	case typesys.Slice:
		return shortName(t.Elem(), qualified) + "Slice"
	case typesys.Map:
		return shortName(t.KeyType(), qualified) + shortName(t.Elem(), qualified) + "Map"
	case typesys.Func:
		if t.IsProvider() {
			return shortName(t.Results()[0], qualified) + "Provider"
		}
		return "Func"
	default:
		return "Value"
	}
}

// camel joins the letter and digit runs of s, capitalizing each.
func camel(s string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		b.WriteString(upperFirst(part))
	}
	return b.String()
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// lowerFirst lowers the leading upper-case run of s, keeping the last
// upper-case letter of an acronym that starts the next word:
// "HTTPClient" becomes "httpClient", "ID" becomes "id".
func lowerFirst(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return s
	case n == 1 || n == len(runes):
	case unicode.IsLetter(runes[n]):
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
