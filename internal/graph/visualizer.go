package graph

import (
	"fmt"
	"io"
	"strconv"

	"github.com/junioryono/ginject/internal/typesys"
)

// Visualizer renders the bindings resolved by a Processor. Output follows
// resolution order and is deterministic.
type Visualizer struct {
	proc    *Processor
	scopeOf func(typesys.Key) string
}

// NewVisualizer creates a visualizer. scopeOf names the scope of a key and
// may be nil.
func NewVisualizer(proc *Processor, scopeOf func(typesys.Key) string) *Visualizer {
	if scopeOf == nil {
		scopeOf = func(typesys.Key) string { return "" }
	}
	return &Visualizer{proc: proc, scopeOf: scopeOf}
}

// WriteDOT writes the graph in Graphviz DOT format. Deferred edges are
// dashed.
func (v *Visualizer) WriteDOT(w io.Writer) error {
	entries := v.proc.registry.Entries()

	fmt.Fprintln(w, "digraph bindings {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box];")

	ids := make(map[typesys.Key]string, len(entries))
	for i, e := range entries {
		id := fmt.Sprintf("n%d", i)
		ids[e.Key] = id

		label := e.Key.String() + "\n" + e.Binding.Description()
		fmt.Fprintf(w, "  %s [label=%s, fillcolor=%q, style=filled];\n",
			id, strconv.Quote(label), v.nodeColor(e.Key))
	}

	for _, e := range entries {
		for _, dep := range v.proc.Dependencies(e.Key) {
			to, ok := ids[dep.Key]
			if !ok {
				continue
			}
			if dep.Deferred {
				fmt.Fprintf(w, "  %s -> %s [style=dashed];\n", ids[e.Key], to)
			} else {
				fmt.Fprintf(w, "  %s -> %s;\n", ids[e.Key], to)
			}
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

// WriteText writes the bindings as an adjacency list.
func (v *Visualizer) WriteText(w io.Writer) error {
	entries := v.proc.registry.Entries()

	fmt.Fprintln(w, "Bindings (resolution order):")
	fmt.Fprintln(w, "============================")

	edges, deferred := 0, 0
	for i, e := range entries {
		scope := v.scopeOf(e.Key)
		if scope != "" {
			scope = " [" + scope + "]"
		}
		fmt.Fprintf(w, "%3d. %s%s\n", i+1, e.Key, scope)
		fmt.Fprintf(w, "     %s\n", e.Binding.Description())

		for _, dep := range v.proc.Dependencies(e.Key) {
			edges++
			if dep.Deferred {
				deferred++
				fmt.Fprintf(w, "       ~> %s (deferred)\n", dep.Key)
			} else {
				fmt.Fprintf(w, "       -> %s\n", dep.Key)
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintln(w, "-----------")
	fmt.Fprintf(w, "  Bindings: %d\n", len(entries))
	fmt.Fprintf(w, "  Edges: %d (%d deferred)\n", edges, deferred)
	fmt.Fprintf(w, "  Member injections: %d\n", len(v.proc.injections))
	_, err := fmt.Fprintf(w, "  Static injections: %d\n", len(v.proc.statics))
	return err
}

func (v *Visualizer) nodeColor(k typesys.Key) string {
	switch v.scopeOf(k) {
	case "EagerSingleton":
		return "lightsalmon"
	case "Singleton":
		return "lightblue"
	default:
		return "white"
	}
}
