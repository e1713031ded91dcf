package naming

import (
	"fmt"
	"strings"
)

// NameCollisionError indicates that no free identifier could be found for
// a generated member, or that a reserved name was already handed out.
type NameCollisionError struct {
	Name      string
	Owner     string
	Requested string
}

func (e NameCollisionError) Error() string {
	var b strings.Builder
	if e.Requested == "" {
		b.WriteString(fmt.Sprintf("name %q is already used by %s", e.Name, e.Owner))
	} else {
		b.WriteString(fmt.Sprintf("cannot name %s: %q is already used by %s", e.Requested, e.Name, e.Owner))
	}
	b.WriteString("\n\nTo resolve this:\n")
	b.WriteString("  • Rename the injector method that clashes with the generated name\n")
	b.WriteString("  • Choose a different implementation name\n")
	return b.String()
}
