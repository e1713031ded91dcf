package binding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/junioryono/ginject/internal/typesys"
)

var (
	ErrStaticMemberNotFound = errors.New("static member has no declaring package")
	ErrMemberNotAccessible  = errors.New("member is not exported from its package")
)

// StaticInjectionError reports a static member that the generated injector
// cannot assign or call.
type StaticInjectionError struct {
	Type   *typesys.Type
	Member string
	Cause  error
}

func (e StaticInjectionError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("static injection of %s failed at %s: %v\n\n", e.Type, e.Member, e.Cause))
	b.WriteString("To resolve this:\n")
	b.WriteString(fmt.Sprintf("  • Export %s or generate into its package\n", e.Member))
	b.WriteString(fmt.Sprintf("  • Remove the //ginject:static %s directive from %s\n", e.Type.Name(), e.Member))
	return b.String()
}

func (e StaticInjectionError) Unwrap() error {
	return e.Cause
}

// InaccessibleMemberError reports an injectable field or method the
// generated package cannot reach.
type InaccessibleMemberError struct {
	Type   *typesys.Type
	Member string
}

func (e InaccessibleMemberError) Error() string {
	return fmt.Sprintf("cannot inject %s.%s: member is not exported from %s", e.Type, e.Member, e.Type.PkgPath())
}

func (e InaccessibleMemberError) Unwrap() error {
	return ErrMemberNotAccessible
}
