package plantuml_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hsm "github.com/objectware/go-hsm"
	"github.com/objectware/go-hsm/pkg/plantuml"
	"github.com/objectware/go-hsm/signal"
)

type owner struct{}

func idle(o *owner, event signal.Any) hsm.Transition[*owner] {
	return hsm.Unhandled[*owner]()
}

func TestGenerateNestedDiagram(t *testing.T) {
	off := hsm.NewState("Off", idle)
	on := hsm.NewState("On", idle, hsm.WithHistory[*owner]())
	green := hsm.NewState("Green", idle, hsm.WithParent(on))
	yellow := hsm.NewState("Yellow", idle, hsm.WithParent(on))
	on.SetInitial(green)

	var out strings.Builder
	err := plantuml.Generate(&out, "Traffic", []*hsm.State[*owner]{off, on, green, yellow})
	require.NoError(t, err)

	diagram := out.String()
	assert.True(t, strings.HasPrefix(diagram, "@startuml Traffic\n"))
	assert.True(t, strings.HasSuffix(diagram, "@enduml\n"))
	assert.Contains(t, diagram, "state Off\n")
	assert.Contains(t, diagram, "state On <<history>> {\n")
	assert.Contains(t, diagram, "[*] --> Green\n")
	assert.Contains(t, diagram, "  state Yellow\n")
}

func TestGenerateIncludesUnlistedParents(t *testing.T) {
	root := hsm.NewState("Root", idle)
	leaf := hsm.NewState("Leaf", idle, hsm.WithParent(root))

	var out strings.Builder
	require.NoError(t, plantuml.Generate(&out, "Partial", []*hsm.State[*owner]{leaf}))

	assert.Contains(t, out.String(), "state Root")
	assert.Contains(t, out.String(), "state Leaf")
}

func TestGenerateSanitizesNames(t *testing.T) {
	odd := hsm.NewState("Power Save-Mode", idle)

	var out strings.Builder
	require.NoError(t, plantuml.Generate(&out, "Odd Name", []*hsm.State[*owner]{odd}))

	assert.Contains(t, out.String(), "@startuml Odd_Name")
	assert.Contains(t, out.String(), "state Power_Save_Mode")
}
