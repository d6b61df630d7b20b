// Package plantuml renders a state hierarchy as a PlantUML state diagram.
// Transitions live in handler code and are not part of the descriptors, so
// the diagram shows nesting, initial substates and history markers.
package plantuml

import (
	"fmt"
	"io"
	"strings"

	hsm "github.com/objectware/go-hsm"
	"github.com/objectware/go-hsm/pkg/set"
)

// Generate writes the diagram for the given states. Parents referenced by a
// listed state are included even when not listed themselves; input order is
// preserved among siblings.
func Generate[O any](w io.Writer, name string, states []*hsm.State[O]) error {
	all := gather(states)
	children := map[*hsm.State[O]][]*hsm.State[O]{}
	var roots []*hsm.State[O]
	for _, s := range all {
		if s.Parent() == nil {
			roots = append(roots, s)
		} else {
			children[s.Parent()] = append(children[s.Parent()], s)
		}
	}
	builder := &strings.Builder{}
	fmt.Fprintf(builder, "@startuml %s\n", identifier(name))
	for _, root := range roots {
		generateState(builder, 0, root, children)
	}
	builder.WriteString("@enduml\n")
	_, err := io.WriteString(w, builder.String())
	return err
}

func gather[O any](states []*hsm.State[O]) []*hsm.State[O] {
	seen := set.New[*hsm.State[O]]()
	var all []*hsm.State[O]
	for _, s := range states {
		for ; s != nil && !seen.Contains(s); s = s.Parent() {
			seen.Add(s)
			all = append(all, s)
		}
	}
	return all
}

func generateState[O any](builder *strings.Builder, depth int, s *hsm.State[O], children map[*hsm.State[O]][]*hsm.State[O]) {
	indent := strings.Repeat(" ", depth*2)
	id := identifier(s.Name())
	tag := ""
	if s.HasHistory() {
		tag = " <<history>>"
	}
	nested := children[s]
	if len(nested) == 0 {
		fmt.Fprintf(builder, "%sstate %s%s\n", indent, id, tag)
		return
	}
	fmt.Fprintf(builder, "%sstate %s%s {\n", indent, id, tag)
	if initial := s.Initial(); initial != nil {
		fmt.Fprintf(builder, "%s  [*] --> %s\n", indent, identifier(initial.Name()))
	}
	for _, child := range nested {
		generateState(builder, depth+1, child, children)
	}
	fmt.Fprintf(builder, "%s}\n", indent)
}

func identifier(name string) string {
	return strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(name)
}
