package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/junioryono/ginject/internal/binding"
	"github.com/junioryono/ginject/internal/typesys"
)

var (
	ErrKeyZero    = errors.New("binding key has no type")
	ErrBindingNil = errors.New("binding cannot be nil")
)

// DuplicateBindingError indicates a key was bound twice in the same
// registry.
type DuplicateBindingError struct {
	Key       typesys.Key
	Existing  binding.Binding
	Duplicate binding.Binding
}

func (e DuplicateBindingError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("duplicate binding for %s:\n", e.Key))
	b.WriteString(fmt.Sprintf("  • %s\n", e.Existing.Description()))
	b.WriteString(fmt.Sprintf("  • %s\n", e.Duplicate.Description()))
	b.WriteString("\nTo resolve this:\n")
	b.WriteString("  • Remove one of the bindings\n")
	b.WriteString("  • Give one of them a qualifier with \"named\"\n")
	return b.String()
}
