package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/junioryono/ginject/internal/typesys"
)

var (
	ErrNotAssignable   = errors.New("target is not assignable to the bound type")
	ErrNoGetMethod     = errors.New("provider has no Get method producing the bound type")
	ErrAddressableGet  = errors.New("provider Get method needs a pointer receiver")
	ErrNotAModule      = errors.New("type is not marked as a module")
	ErrModuleHidden    = errors.New("module type is not exported from its package")
	ErrNotConstructing = errors.New("bound type has no injectable or default constructor")
)

// NoBindingError indicates a key nothing can produce.
type NoBindingError struct {
	Key typesys.Key

	// Chain lists the keys whose bindings led to Key, outermost first.
	Chain []typesys.Key
}

func (e NoBindingError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("no binding found for %s", e.Key))

	if len(e.Chain) > 0 {
		b.WriteString("\n\nRequired by:")
		for i := len(e.Chain) - 1; i >= 0; i-- {
			b.WriteString(fmt.Sprintf("\n  %s", e.Chain[i]))
		}
	}

	b.WriteString("\n\nTo resolve this:\n")
	b.WriteString("  • Bind it in a module with //ginject:bind\n")
	b.WriteString("  • Add a //ginject:provides method returning it\n")
	b.WriteString("  • Mark a constructor function with //ginject:inject\n")
	return b.String()
}

// AmbiguousBindingError indicates more than one candidate binding for a key.
type AmbiguousBindingError struct {
	Key        typesys.Key
	Candidates []string
}

func (e AmbiguousBindingError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("ambiguous binding for %s, %d candidates:\n", e.Key, len(e.Candidates)))
	for _, c := range e.Candidates {
		b.WriteString(fmt.Sprintf("  • %s\n", c))
	}
	b.WriteString("\nKeep exactly one of them, or qualify one with \"named\".")
	return b.String()
}

// IncompatibleBindingError indicates a module binding whose target cannot
// produce the bound key.
type IncompatibleBindingError struct {
	Key      typesys.Key
	Target   *typesys.Type
	Position string
	Cause    error
}

func (e IncompatibleBindingError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("cannot bind %s to %s: %v", e.Key, e.Target, e.Cause))
	if e.Position != "" {
		b.WriteString(fmt.Sprintf(" (%s)", e.Position))
	}
	return b.String()
}

func (e IncompatibleBindingError) Unwrap() error {
	return e.Cause
}

// ModuleError wraps a failure while processing a configuration module.
type ModuleError struct {
	Module *typesys.Type
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %s: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// IsNoBinding reports whether err is or wraps a NoBindingError.
func IsNoBinding(err error) bool {
	var target NoBindingError
	return errors.As(err, &target)
}

// IsAmbiguous reports whether err is or wraps an AmbiguousBindingError.
func IsAmbiguous(err error) bool {
	var target AmbiguousBindingError
	return errors.As(err, &target)
}
