package loader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoPackages         = errors.New("no packages matched")
	ErrUnknownDirective   = errors.New("unknown directive")
	ErrMisplacedDirective = errors.New("directive is not allowed here")
	ErrConflictingTargets = errors.New("bind declares more than one target")
	ErrMalformedNamed     = errors.New("named expects a qualifier or param=qualifier")
	ErrNotAType           = errors.New("expression is not a type")
	ErrNotAnIdentifier    = errors.New("instance must name a package-level identifier")
	ErrBadConstructor     = errors.New("constructor must return exactly one named type or pointer to one")
	ErrBadStaticOwner     = errors.New("static owner must be a named type")
)

// MissingArgumentError indicates a directive that ended too early.
type MissingArgumentError struct {
	After string
}

func (e MissingArgumentError) Error() string {
	return fmt.Sprintf("missing argument after %q", e.After)
}

// UnexpectedArgumentError indicates a directive argument in a position
// where no keyword expects it.
type UnexpectedArgumentError struct {
	Arg string
}

func (e UnexpectedArgumentError) Error() string {
	return fmt.Sprintf("unexpected argument %q", e.Arg)
}

// UnsupportedTypeError indicates a Go type ginject cannot bind, such as a
// channel or an anonymous struct.
type UnsupportedTypeError struct {
	Type string
}

func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s", e.Type)
}

// DirectiveError locates a malformed //ginject: directive.
type DirectiveError struct {
	Position  string
	Directive string
	Cause     error
}

func (e DirectiveError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: %s: %v", e.Position, e.Directive, e.Cause))
	if errors.Is(e.Cause, ErrUnknownDirective) {
		b.WriteString("\n\nKnown directives: inject, provides, singleton, eager, module, named,")
		b.WriteString("\nbind, install, static-request, static")
	}
	return b.String()
}

func (e DirectiveError) Unwrap() error {
	return e.Cause
}

// PackageError carries the errors go/packages reported for one package.
type PackageError struct {
	Package string
	Cause   error
}

func (e PackageError) Error() string {
	return fmt.Sprintf("package %s: %v", e.Package, e.Cause)
}

func (e PackageError) Unwrap() error {
	return e.Cause
}
