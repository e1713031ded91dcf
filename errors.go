package ginject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/junioryono/ginject/internal/binding"
	"github.com/junioryono/ginject/internal/graph"
	"github.com/junioryono/ginject/internal/members"
	"github.com/junioryono/ginject/internal/naming"
	"github.com/junioryono/ginject/internal/registry"
	"github.com/junioryono/ginject/internal/resolver"
	"github.com/junioryono/ginject/internal/typesys"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================

var (
	// Injector errors.
	ErrUnsupportedMethod = errors.New("injector method is neither a provision nor a member injection")

	// Module binding errors.
	ErrNotAssignable   = resolver.ErrNotAssignable
	ErrNoGetMethod     = resolver.ErrNoGetMethod
	ErrAddressableGet  = resolver.ErrAddressableGet
	ErrNotAModule      = resolver.ErrNotAModule
	ErrModuleHidden    = resolver.ErrModuleHidden
	ErrNotConstructing = resolver.ErrNotConstructing

	// Static injection errors.
	ErrStaticMemberNotFound = binding.ErrStaticMemberNotFound
	ErrMemberNotAccessible  = binding.ErrMemberNotAccessible
)

var (
	_ error = TypeNotFoundError{}
	_ error = NotAnInterfaceError{}
	_ error = InjectorMethodError{}
	_ error = UnableToCompleteError{}
)

// ========================================
// Error Types Raised by Internal Packages
// ========================================

type (
	// AmbiguousMemberError indicates a type with several injectable
	// constructors.
	AmbiguousMemberError = members.AmbiguousMemberError

	// DuplicateBindingError indicates two module bindings for one key.
	DuplicateBindingError = registry.DuplicateBindingError

	// NoBindingError indicates a key nothing can produce. It carries the
	// chain of keys that required it.
	NoBindingError = resolver.NoBindingError

	// AmbiguousBindingError indicates a key with several candidate bindings.
	AmbiguousBindingError = resolver.AmbiguousBindingError

	// IncompatibleBindingError indicates a module binding whose target
	// cannot produce the bound key.
	IncompatibleBindingError = resolver.IncompatibleBindingError

	// ModuleError wraps a failure while reading a module.
	ModuleError = resolver.ModuleError

	// CyclicDependencyError indicates keys whose construction requires each
	// other. It carries the full cycle.
	CyclicDependencyError = graph.CyclicDependencyError

	// NameCollisionError indicates no free identifier for a generated
	// member.
	NameCollisionError = naming.NameCollisionError

	// StaticInjectionError indicates a static member that cannot be
	// injected.
	StaticInjectionError = binding.StaticInjectionError

	// InaccessibleMemberError indicates an injectable member the generated
	// package cannot reference.
	InaccessibleMemberError = binding.InaccessibleMemberError
)

// ========================================
// Typed Errors
// ========================================

// TypeNotFoundError indicates a type name the oracle does not know.
type TypeNotFoundError struct {
	Name string
	Role string // "injector" or "module"
}

func (e TypeNotFoundError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("%s type %s not found", e.Role, e.Name)
	}
	return fmt.Sprintf("type %s not found", e.Name)
}

// NotAnInterfaceError indicates an injector that is not an interface type.
type NotAnInterfaceError struct {
	Type *typesys.Type
}

func (e NotAnInterfaceError) Error() string {
	return fmt.Sprintf("injector %s is not an interface", e.Type)
}

// InjectorMethodError indicates an injector method ginject cannot
// implement.
type InjectorMethodError struct {
	Injector *typesys.Type
	Method   string
	Cause    error
}

func (e InjectorMethodError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("cannot implement %s.%s: %v\n", e.Injector, e.Method, e.Cause))
	b.WriteString("\nInjector methods must have one of the forms:\n")
	b.WriteString("  • Name() T            returns the dependency T\n")
	b.WriteString("  • Name(v *T)          injects the members of v\n")
	return b.String()
}

func (e InjectorMethodError) Unwrap() error {
	return e.Cause
}

// UnableToCompleteError is the error every failed generation returns.
type UnableToCompleteError struct {
	Injector string
	RunID    string
	Cause    error
}

func (e UnableToCompleteError) Error() string {
	return fmt.Sprintf("unable to generate injector %s: %v", e.Injector, e.Cause)
}

func (e UnableToCompleteError) Unwrap() error {
	return e.Cause
}

// IsNoBinding reports whether err contains a NoBindingError.
func IsNoBinding(err error) bool {
	return resolver.IsNoBinding(err)
}

// IsCycle reports whether err contains a CyclicDependencyError.
func IsCycle(err error) bool {
	var cyclic CyclicDependencyError
	return errors.As(err, &cyclic)
}

// IsAmbiguous reports whether err contains an AmbiguousBindingError or an
// AmbiguousMemberError.
func IsAmbiguous(err error) bool {
	var member AmbiguousMemberError
	return resolver.IsAmbiguous(err) || errors.As(err, &member)
}
