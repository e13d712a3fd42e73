// Package suggest finds step definitions close to an unbound step.
package suggest

import (
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/chriserin/ftl/internal/elements"
)

// Suggestion is a definition and its edit distance from the step text.
type Suggestion struct {
	Definition *elements.StepDefinitionElement
	Distance   int
}

// Nearest returns up to limit definitions of the reference's binding type
// whose declarations are within half their length of the reference text,
// closest first.
func Nearest(ref *elements.StepReferenceElement, defs []*elements.StepDefinitionElement, limit int) []Suggestion {
	dmp := diffmatchpatch.New()
	text := strings.ToLower(ref.Text)

	var out []Suggestion
	for _, def := range defs {
		if def.Type != ref.BindingType {
			continue
		}
		decl := strings.ToLower(def.Declaration)
		d := dmp.DiffLevenshtein(dmp.DiffMain(text, decl, false))
		if d > max(len(text), len(decl))/2 {
			continue
		}
		out = append(out, Suggestion{Definition: def, Distance: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Definition.Declaration < out[j].Definition.Declaration
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
