// Package loader reads interaction and feature sources from disk.
package loader

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/chriserin/ftl/internal/elements"
	"github.com/chriserin/ftl/internal/interaction"
	"github.com/chriserin/ftl/internal/messages"
	"github.com/chriserin/ftl/internal/parser"
)

// hclFile is the top level of an interaction file.
type hclFile struct {
	Natives    []*hclNative    `hcl:"native,block"`
	Components []*hclComponent `hcl:"component,block"`
	Traits     []*hclTrait     `hcl:"trait,block"`
}

type hclNative struct {
	Name     string    `hcl:"name,label"`
	Params   []string  `hcl:"params,optional"`
	Outputs  []string  `hcl:"outputs,optional"`
	DefRange hcl.Range `hcl:",def_range"`
}

type hclComponent struct {
	Name     string       `hcl:"name,label"`
	Inherits string       `hcl:"inherits,optional"`
	Traits   []string     `hcl:"traits,optional"`
	Methods  []*hclMethod `hcl:"method,block"`
	Steps    []*hclStep   `hcl:"step,block"`
	DefRange hcl.Range    `hcl:",def_range"`
}

type hclTrait struct {
	Name     string       `hcl:"name,label"`
	Methods  []*hclMethod `hcl:"method,block"`
	Steps    []*hclStep   `hcl:"step,block"`
	DefRange hcl.Range    `hcl:",def_range"`
}

type hclMethod struct {
	Name          string         `hcl:"name,label"`
	Params        []string       `hcl:"params,optional"`
	Calls         hcl.Expression `hcl:"calls,optional"`
	Outputs       []string       `hcl:"outputs,optional"`
	NeedsDefining bool           `hcl:"needs_defining,optional"`
	DefRange      hcl.Range      `hcl:",def_range"`
}

type hclStep struct {
	Declaration string         `hcl:"declaration,label"`
	Calls       hcl.Expression `hcl:"calls,optional"`
	DefRange    hcl.Range      `hcl:",def_range"`
}

// ReadInteractionFile reads and parses one interaction file. The error is
// only for I/O failures; syntax problems come back as messages.
func ReadInteractionFile(path string) (*interaction.File, []messages.CompilerMessage, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	file, msgs := ParseInteractions(path, src)
	return file, msgs, nil
}

// ParseInteractions parses HCL interaction source. Blocks that decode are
// returned even when others fail.
func ParseInteractions(filename string, src []byte) (*interaction.File, []messages.CompilerMessage) {
	c := &converter{filename: filename}
	file := &interaction.File{Path: filename}

	parsed, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		c.diagnostics(diags)
		return file, c.msgs
	}

	var root hclFile
	if diags := gohcl.DecodeBody(parsed.Body, nil, &root); diags.HasErrors() {
		c.diagnostics(diags)
		return file, c.msgs
	}

	for _, n := range root.Natives {
		file.Natives = append(file.Natives, &interaction.Method{
			Name:       n.Name,
			Parameters: variables(n.Params),
			Outputs:    variables(n.Outputs),
			Native:     true,
			DefinedBy:  "native",
			Source:     filename,
			Span:       span(n.DefRange),
		})
	}
	for _, hc := range root.Components {
		comp := &interaction.Component{
			Name:     hc.Name,
			Inherits: hc.Inherits,
			Traits:   hc.Traits,
			Source:   filename,
			Span:     span(hc.DefRange),
		}
		comp.Methods = c.methods(hc.Methods, hc.Name)
		comp.Steps = c.steps(hc.Steps)
		file.Components = append(file.Components, comp)
	}
	for _, ht := range root.Traits {
		trait := &interaction.Trait{
			Names:  interaction.ParseTraitName(ht.Name),
			Source: filename,
			Span:   span(ht.DefRange),
		}
		trait.Methods = c.methods(ht.Methods, trait.Name())
		trait.Steps = c.steps(ht.Steps)
		file.Traits = append(file.Traits, trait)
	}

	return file, c.msgs
}

type converter struct {
	filename string
	msgs     []messages.CompilerMessage
}

func (c *converter) add(code messages.Code, r hcl.Range, args ...any) {
	s := span(r)
	c.msgs = append(c.msgs, messages.New(c.filename, code, s.StartLine, s.StartColumn, s.EndLine, s.EndColumn, args...))
}

func (c *converter) diagnostics(diags hcl.Diagnostics) {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		r := hcl.Range{Filename: c.filename}
		if d.Subject != nil {
			r = *d.Subject
		}
		text := d.Summary
		if d.Detail != "" {
			text += "; " + d.Detail
		}
		c.add(messages.InteractionSyntaxError, r, text)
	}
}

func (c *converter) methods(hms []*hclMethod, owner string) []*interaction.Method {
	var methods []*interaction.Method
	for _, hm := range hms {
		methods = append(methods, &interaction.Method{
			Name:          hm.Name,
			Parameters:    variables(hm.Params),
			Outputs:       variables(hm.Outputs),
			Calls:         c.calls(hm.Calls),
			NeedsDefining: hm.NeedsDefining,
			DefinedBy:     owner,
			Source:        c.filename,
			Span:          span(hm.DefRange),
		})
	}
	return methods
}

func (c *converter) steps(hss []*hclStep) []*interaction.Step {
	var steps []*interaction.Step
	for _, hs := range hss {
		stepType, declaration, _ := parser.SplitKeyword(hs.Declaration)
		steps = append(steps, &interaction.Step{
			Type:        stepType,
			Declaration: declaration,
			Calls:       c.calls(hs.Calls),
			Source:      c.filename,
			Span:        span(hs.DefRange),
		})
	}
	return steps
}

// calls reads a list of function call expressions, e.g.
// [select("button"), type(value), pick(rows[0])].
func (c *converter) calls(expr hcl.Expression) []interaction.Call {
	if expr == nil || isNull(expr) {
		return nil
	}

	items, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		c.diagnostics(diags)
		return nil
	}

	var calls []interaction.Call
	for _, item := range items {
		fc, diags := hcl.ExprCall(item)
		if diags.HasErrors() {
			c.diagnostics(diags)
			continue
		}
		call := interaction.Call{Name: fc.Name, Span: span(item.Range())}
		for _, arg := range fc.Arguments {
			a, ok := c.argument(arg)
			if !ok {
				a.Kind = interaction.ArgInvalid
			}
			call.Arguments = append(call.Arguments, a)
		}
		calls = append(calls, call)
	}
	return calls
}

func (c *converter) argument(expr hcl.Expression) (interaction.CallArgument, bool) {
	arg := interaction.CallArgument{Span: span(expr.Range())}

	if traversal, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() {
		switch len(traversal) {
		case 1:
			arg.Kind = interaction.ArgVariable
			arg.Variable = traversal.RootName()
			return arg, true
		case 2:
			if idx, ok := traversal[1].(hcl.TraverseIndex); ok && idx.Key.Type() == cty.Number {
				var i int
				if err := gocty.FromCtyValue(idx.Key, &i); err == nil {
					arg.Kind = interaction.ArgArrayElement
					arg.Variable = traversal.RootName()
					arg.Index = i
					return arg, true
				}
			}
		}
		c.add(messages.InteractionInvalidCallArgument, expr.Range())
		return arg, false
	}

	v, diags := expr.Value(nil)
	if diags.HasErrors() || v.IsNull() || !v.IsKnown() {
		c.add(messages.InteractionInvalidCallArgument, expr.Range())
		return arg, false
	}

	switch v.Type() {
	case cty.String:
		arg.Kind = interaction.ArgString
		arg.Text = v.AsString()
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			n, _ := bf.Int64()
			arg.Kind = interaction.ArgInt
			arg.Int = n
			arg.Text = bf.Text('f', -1)
		} else {
			f, _ := bf.Float64()
			arg.Kind = interaction.ArgFloat
			arg.Float = f
			arg.Text = bf.Text('g', -1)
		}
	default:
		c.add(messages.InteractionInvalidCallArgument, expr.Range())
		return arg, false
	}
	return arg, true
}

func isNull(expr hcl.Expression) bool {
	v, diags := expr.Value(nil)
	return !diags.HasErrors() && v.IsNull()
}

func variables(names []string) []interaction.Variable {
	var vars []interaction.Variable
	for _, n := range names {
		vars = append(vars, interaction.ParseVariable(n))
	}
	return vars
}

func span(r hcl.Range) elements.Span {
	return elements.Span{
		StartLine:   r.Start.Line,
		StartColumn: r.Start.Column,
		EndLine:     r.End.Line,
		EndColumn:   r.End.Column,
	}
}
