package graph

import (
	"fmt"
	"strings"

	"github.com/junioryono/ginject/internal/typesys"
)

// CyclicDependencyError reports keys whose constructions require each
// other. Cycle starts at the first key re-entered and follows direct
// dependencies back to it.
type CyclicDependencyError struct {
	Cycle []typesys.Key
}

func (e CyclicDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("cyclic dependency detected:\n\n")

	for _, k := range e.Cycle {
		b.WriteString(fmt.Sprintf("    %s\n", k))
		b.WriteString("      ↓\n")
	}
	if len(e.Cycle) > 0 {
		b.WriteString(fmt.Sprintf("    %s (cycle)\n", e.Cycle[0]))
	}

	b.WriteString("\nTo resolve this:\n")
	b.WriteString("  • Inject a func() T provider at one point of the cycle\n")
	b.WriteString("  • Use an interface to break the dependency\n")
	b.WriteString("  • Restructure to remove the circular relationship\n")

	return b.String()
}
