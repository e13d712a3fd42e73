package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftl/internal/elements"
	"github.com/chriserin/ftl/internal/interaction"
	"github.com/chriserin/ftl/internal/messages"
)

const sample = `
native "select" {
  params  = ["selector"]
  outputs = ["element"]
}

native "press" {}

trait "focusable + clickable" {
  method "click" {
    needs_defining = true
  }

  step "Given I click the $component$" {
    calls = [click()]
  }
}

component "button" {
  inherits = "element"
  traits   = ["clickable", "focusable"]

  method "click" {
    calls = [select("button"), press()]
  }

  method "fill" {
    params  = ["rows[]", "value"]
    outputs = ["done"]
    calls   = [pick(rows[0]), type(value), wait(1.5), repeat(3)]
  }

  step "Given I press {name}" {
    calls = [select(name), press()]
  }
}
`

func codesOf(msgs []messages.CompilerMessage) []messages.Code {
	var codes []messages.Code
	for _, m := range msgs {
		codes = append(codes, m.Code)
	}
	return codes
}

func TestParseInteractions(t *testing.T) {
	f, msgs := ParseInteractions("ui.hcl", []byte(sample))
	require.Empty(t, msgs)
	assert.Equal(t, "ui.hcl", f.Path)

	require.Len(t, f.Natives, 2)
	sel := f.Natives[0]
	assert.Equal(t, "select", sel.Name)
	assert.True(t, sel.Native)
	assert.Equal(t, []interaction.Variable{{Name: "selector"}}, sel.Parameters)
	assert.Equal(t, []interaction.Variable{{Name: "element"}}, sel.Outputs)
	assert.Equal(t, 2, sel.Span.StartLine)
	assert.Empty(t, f.Natives[1].Parameters)

	require.Len(t, f.Traits, 1)
	tr := f.Traits[0]
	assert.Equal(t, []string{"clickable", "focusable"}, tr.Names)
	require.Len(t, tr.Methods, 1)
	assert.True(t, tr.Methods[0].NeedsDefining)
	assert.Equal(t, "clickable + focusable", tr.Methods[0].DefinedBy)
	assert.Empty(t, tr.Methods[0].Calls)
	require.Len(t, tr.Steps, 1)
	assert.Equal(t, elements.StepTypeGiven, tr.Steps[0].Type)
	assert.Equal(t, "I click the $component$", tr.Steps[0].Declaration)

	require.Len(t, f.Components, 1)
	comp := f.Components[0]
	assert.Equal(t, "button", comp.Name)
	assert.Equal(t, "element", comp.Inherits)
	assert.Equal(t, []string{"clickable", "focusable"}, comp.Traits)
	assert.Equal(t, 19, comp.Span.StartLine)
	assert.Equal(t, "ui.hcl", comp.Source)

	require.Len(t, comp.Methods, 2)
	click := comp.Methods[0]
	assert.Equal(t, "button", click.DefinedBy)
	require.Len(t, click.Calls, 2)
	assert.Equal(t, "select", click.Calls[0].Name)
	require.Len(t, click.Calls[0].Arguments, 1)
	assert.Equal(t, interaction.ArgString, click.Calls[0].Arguments[0].Kind)
	assert.Equal(t, "button", click.Calls[0].Arguments[0].Text)
	assert.Equal(t, "press", click.Calls[1].Name)
	assert.Empty(t, click.Calls[1].Arguments)

	require.Len(t, comp.Steps, 1)
	assert.Equal(t, "I press {name}", comp.Steps[0].Declaration)
	assert.Equal(t, interaction.ArgVariable, comp.Steps[0].Calls[0].Arguments[0].Kind)
	assert.Equal(t, "name", comp.Steps[0].Calls[0].Arguments[0].Variable)
}

func TestParseInteractions_Arguments(t *testing.T) {
	f, msgs := ParseInteractions("ui.hcl", []byte(sample))
	require.Empty(t, msgs)

	fill := f.Components[0].Methods[1]
	assert.Equal(t, []interaction.Variable{{Name: "rows", Array: true}, {Name: "value"}}, fill.Parameters)
	assert.Equal(t, []interaction.Variable{{Name: "done"}}, fill.Outputs)
	require.Len(t, fill.Calls, 4)

	pick := fill.Calls[0].Arguments[0]
	assert.Equal(t, interaction.ArgArrayElement, pick.Kind)
	assert.Equal(t, "rows", pick.Variable)
	assert.Equal(t, 0, pick.Index)

	typ := fill.Calls[1].Arguments[0]
	assert.Equal(t, interaction.ArgVariable, typ.Kind)
	assert.Equal(t, "value", typ.Variable)

	wait := fill.Calls[2].Arguments[0]
	assert.Equal(t, interaction.ArgFloat, wait.Kind)
	assert.InDelta(t, 1.5, wait.Float, 1e-9)

	repeat := fill.Calls[3].Arguments[0]
	assert.Equal(t, interaction.ArgInt, repeat.Kind)
	assert.Equal(t, int64(3), repeat.Int)
	assert.Equal(t, "3", repeat.Text)
}

func TestParseInteractions_SyntaxError(t *testing.T) {
	_, msgs := ParseInteractions("bad.hcl", []byte(`component "button" {`))
	require.NotEmpty(t, msgs)
	assert.Equal(t, messages.InteractionSyntaxError, msgs[0].Code)
	assert.Equal(t, "bad.hcl", msgs[0].Source)
}

func TestParseInteractions_UnknownBlock(t *testing.T) {
	_, msgs := ParseInteractions("bad.hcl", []byte("widget \"x\" {}\n"))
	require.NotEmpty(t, msgs)
	assert.Equal(t, messages.InteractionSyntaxError, msgs[0].Code)
	assert.Equal(t, 1, msgs[0].StartLine)
}

func TestParseInteractions_InvalidArguments(t *testing.T) {
	src := `
component "button" {
  method "click" {
    calls = [press(true), press(a.b), press("ok")]
  }
}
`
	f, msgs := ParseInteractions("ui.hcl", []byte(src))
	assert.Equal(t, []messages.Code{
		messages.InteractionInvalidCallArgument,
		messages.InteractionInvalidCallArgument,
	}, codesOf(msgs))
	assert.Equal(t, 4, msgs[0].StartLine)

	calls := f.Components[0].Methods[0].Calls
	require.Len(t, calls, 3)
	require.Len(t, calls[0].Arguments, 1)
	assert.Equal(t, interaction.ArgInvalid, calls[0].Arguments[0].Kind)
	require.Len(t, calls[1].Arguments, 1)
	assert.Equal(t, interaction.ArgInvalid, calls[1].Arguments[0].Kind)
	require.Len(t, calls[2].Arguments, 1)
	assert.Equal(t, interaction.ArgString, calls[2].Arguments[0].Kind)
}

func TestParseInteractions_InvalidArgumentKeepsArity(t *testing.T) {
	src := `
native "type" {
  params = ["text"]
}

component "field" {
  method "fill" {
    calls = [type(true)]
  }
}
`
	f, msgs := ParseInteractions("ui.hcl", []byte(src))
	assert.Equal(t, []messages.Code{messages.InteractionInvalidCallArgument}, codesOf(msgs))

	b := interaction.NewBuilder(nil)
	require.NoError(t, b.AddFile(f))
	result := b.Build()
	assert.Empty(t, result.Messages)
}

func TestParseInteractions_CallsMustBeFunctionCalls(t *testing.T) {
	src := `
component "button" {
  method "click" {
    calls = ["press", press()]
  }
}
`
	f, msgs := ParseInteractions("ui.hcl", []byte(src))
	assert.Equal(t, []messages.Code{messages.InteractionSyntaxError}, codesOf(msgs))
	require.Len(t, f.Components[0].Methods[0].Calls, 1)
	assert.Equal(t, "press", f.Components[0].Methods[0].Calls[0].Name)
}

func TestParseInteractions_StepWithoutKeyword(t *testing.T) {
	src := `
component "button" {
  step "press the button" {}
}
`
	f, msgs := ParseInteractions("ui.hcl", []byte(src))
	require.Empty(t, msgs)
	step := f.Components[0].Steps[0]
	assert.Equal(t, elements.StepTypeUnknown, step.Type)
	assert.Equal(t, "press the button", step.Declaration)
	assert.Empty(t, step.Calls)
}

func TestParseInteractions_BuildsWithBuilder(t *testing.T) {
	src := `
native "press" {}

component "button" {
  method "click" {
    calls = [press()]
  }
  step "When I click the button" {
    calls = [click()]
  }
}
`
	f, msgs := ParseInteractions("ui.hcl", []byte(src))
	require.Empty(t, msgs)

	b := interaction.NewBuilder(nil)
	require.NoError(t, b.AddFile(f))
	result := b.Build()
	assert.True(t, result.Success)
	assert.Empty(t, result.Messages)

	comp, ok := result.Set.Component("button")
	require.True(t, ok)
	_, ok = comp.Methods.Get("press")
	assert.True(t, ok)
	require.Len(t, comp.Steps, 1)
	assert.Equal(t, "button", comp.Steps[0].Component)
}
