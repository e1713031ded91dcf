package loader

import (
	"go/ast"
	"go/token"
	"strings"
)

const directivePrefix = "//ginject:"

// Directive verbs.
const (
	verbInject        = "inject"
	verbProvides      = "provides"
	verbSingleton     = "singleton"
	verbEager         = "eager"
	verbModule        = "module"
	verbNamed         = "named"
	verbBind          = "bind"
	verbInstall       = "install"
	verbStaticRequest = "static-request"
	verbStatic        = "static"
)

// markerVerbs are the verbs copied verbatim into annotations.
var markerVerbs = map[string]bool{
	verbInject:    true,
	verbProvides:  true,
	verbSingleton: true,
	verbEager:     true,
	verbModule:    true,
}

// directive is one //ginject: comment line.
type directive struct {
	verb string
	args []string
	pos  token.Pos
}

func (d directive) String() string {
	return directivePrefix + strings.Join(append([]string{d.verb}, d.args...), " ")
}

// parseDirectives returns the directives of the comment groups in source
// order. Groups may be nil.
func parseDirectives(groups ...*ast.CommentGroup) []directive {
	var out []directive
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			rest, ok := strings.CutPrefix(c.Text, directivePrefix)
			if !ok {
				continue
			}
			fields := strings.Fields(rest)
			if len(fields) == 0 {
				continue
			}
			out = append(out, directive{verb: fields[0], args: fields[1:], pos: c.Pos()})
		}
	}
	return out
}

// bindSpec is a parsed bind directive:
//
//	bind <Type> [named <q>] [to <Type> [named <q>] | instance <ident> | provider <Type>] [singleton|eager]...
type bindSpec struct {
	key        string
	keyName    string
	target     string
	targetName string
	instance   string
	provider   string
	scopes     []string
}

var bindKeywords = map[string]bool{
	"to":          true,
	"instance":    true,
	"provider":    true,
	verbNamed:     true,
	verbSingleton: true,
	verbEager:     true,
}

// parseBind splits the arguments of a bind directive. Type expressions may
// span several arguments, such as "func() *Store".
func parseBind(args []string) (bindSpec, error) {
	var (
		spec bindSpec
		i    int
	)

	// expr consumes arguments up to the next keyword.
	expr := func() string {
		start := i
		for i < len(args) && !bindKeywords[args[i]] {
			i++
		}
		return strings.Join(args[start:i], " ")
	}
	// word consumes exactly one argument.
	word := func(after string) (string, error) {
		if i >= len(args) {
			return "", MissingArgumentError{After: after}
		}
		i++
		return args[i-1], nil
	}

	if spec.key = expr(); spec.key == "" {
		return spec, MissingArgumentError{After: verbBind}
	}

	var err error
	for i < len(args) {
		kw := args[i]
		i++
		switch kw {
		case verbNamed:
			name, werr := word(verbNamed)
			if werr != nil {
				return spec, werr
			}
			if spec.target != "" {
				spec.targetName = name
			} else {
				spec.keyName = name
			}
		case "to":
			if spec.hasTarget() {
				return spec, ErrConflictingTargets
			}
			if spec.target = expr(); spec.target == "" {
				return spec, MissingArgumentError{After: kw}
			}
		case "provider":
			if spec.hasTarget() {
				return spec, ErrConflictingTargets
			}
			if spec.provider = expr(); spec.provider == "" {
				return spec, MissingArgumentError{After: kw}
			}
		case "instance":
			if spec.hasTarget() {
				return spec, ErrConflictingTargets
			}
			if spec.instance, err = word(kw); err != nil {
				return spec, err
			}
		case verbSingleton, verbEager:
			spec.scopes = append(spec.scopes, kw)
		default:
			return spec, UnexpectedArgumentError{Arg: kw}
		}
	}
	return spec, nil
}

func (s bindSpec) hasTarget() bool {
	return s.target != "" || s.instance != "" || s.provider != ""
}

// namedSpec is the result of the named directives of one function: the
// result qualifier and the qualifiers of named parameters.
type namedSpec struct {
	result string
	params map[string]string
}

// parse reads "named q" (result) and "named param=q" (parameter).
func (n *namedSpec) parse(d directive) error {
	if len(d.args) != 1 {
		return MissingArgumentError{After: verbNamed}
	}
	param, q, ok := strings.Cut(d.args[0], "=")
	if !ok {
		n.result = d.args[0]
		return nil
	}
	if param == "" || q == "" {
		return ErrMalformedNamed
	}
	if n.params == nil {
		n.params = make(map[string]string)
	}
	n.params[param] = q
	return nil
}
