// Package matching indexes step definitions in a trie keyed by step type and
// definition parts, and matches step references against it.
package matching

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/chriserin/ftl/internal/elements"
)

// argument edge classes.
const (
	classInt = iota
	classDecimal
	classAny
	numClasses
)

type node struct {
	words       map[string]*node
	args        [numClasses]*node
	definitions []*elements.StepDefinitionElement
}

func newNode() *node {
	return &node{words: make(map[string]*node)}
}

func (n *node) sortedWords() []string {
	keys := make([]string, 0, len(n.words))
	for k := range n.words {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tree is the matching trie. It is not safe for concurrent mutation; Match
// may run concurrently with other Match calls.
type Tree struct {
	roots map[elements.StepType]*node
	count int
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{roots: make(map[elements.StepType]*node)}
}

// Len returns the number of definitions in the tree.
func (t *Tree) Len() int {
	return t.count
}

// AddDefinition inserts def. Definitions sharing a path end at the same
// node and are reported together by Match.
func (t *Tree) AddDefinition(def *elements.StepDefinitionElement) {
	fold := cases.Fold()

	n, ok := t.roots[def.Type]
	if !ok {
		n = newNode()
		t.roots[def.Type] = n
	}

	for _, part := range def.Parts {
		switch p := part.(type) {
		case *elements.WordPart:
			key := fold.String(p.Text)
			child, ok := n.words[key]
			if !ok {
				child = newNode()
				n.words[key] = child
			}
			n = child
		case *elements.ArgumentPart:
			c := classOf(p.Hint)
			if n.args[c] == nil {
				n.args[c] = newNode()
			}
			n = n.args[c]
		}
	}

	n.definitions = append(n.definitions, def)
	t.count++
}

func classOf(h elements.ArgumentHint) int {
	switch h {
	case elements.HintInt:
		return classInt
	case elements.HintDecimal:
		return classDecimal
	default:
		return classAny
	}
}

// Match is one definition a reference matched.
type Match struct {
	Definition *elements.StepDefinitionElement

	// Arguments is set for exact matches only.
	Arguments []elements.ArgumentBinding

	Exact bool

	// MatchedTokens is how many reference tokens were consumed before the
	// walk reached the definition's branch.
	MatchedTokens int
}

// Match finds the definitions ref matches. exact holds every definition
// reached by consuming all tokens, through the literal path when one exists
// and otherwise through every argument edge accepting the tokens; more than
// one means the reference is ambiguous. Unless exactOnly is set, partial holds
// definitions the reference is a prefix of.
func (t *Tree) Match(ref *elements.StepReferenceElement, exactOnly bool) (exact, partial []Match) {
	root, ok := t.roots[ref.BindingType]
	if !ok {
		return nil, nil
	}

	w := &walker{text: ref.Text, tokens: ref.Tokens, fold: cases.Fold()}
	exact = w.exact(root, 0, nil)
	if exactOnly {
		return exact, nil
	}

	w.seen = make(map[*elements.StepDefinitionElement]bool)
	for _, m := range exact {
		w.seen[m.Definition] = true
	}
	w.partial(root, 0)
	sort.SliceStable(w.partials, func(i, j int) bool {
		a, b := w.partials[i], w.partials[j]
		if a.MatchedTokens != b.MatchedTokens {
			return a.MatchedTokens > b.MatchedTokens
		}
		if a.Definition.Declaration != b.Definition.Declaration {
			return a.Definition.Declaration < b.Definition.Declaration
		}
		return a.Definition.ID() < b.Definition.ID()
	})
	return exact, w.partials
}

type span struct {
	start, end     int
	startExclusive bool
	endExclusive   bool
}

type walker struct {
	text   string
	tokens []elements.StepToken
	fold   cases.Caser

	seen     map[*elements.StepDefinitionElement]bool
	partials []Match
}

func (w *walker) key(i int) string {
	return w.fold.String(w.tokens[i].Text(w.text))
}

// closingQuote returns the index of the quote closing the one at open, or -1.
func (w *walker) closingQuote(open int) int {
	for i := open + 1; i < len(w.tokens); i++ {
		if w.tokens[i].Kind == elements.TokenQuote {
			return i
		}
	}
	return -1
}

func acceptsInt(tok elements.StepToken) bool {
	return tok.Kind == elements.TokenInt || tok.Kind == elements.TokenVariable
}

func acceptsDecimal(tok elements.StepToken) bool {
	return acceptsInt(tok) || tok.Kind == elements.TokenFloat
}

func with(spans []span, s span) []span {
	return append(spans[:len(spans):len(spans)], s)
}

func (w *walker) exact(n *node, pos int, spans []span) []Match {
	if pos == len(w.tokens) {
		return terminal(n, spans, pos)
	}
	tok := w.tokens[pos]

	if tok.IsWord() {
		if child, ok := n.words[w.key(pos)]; ok {
			if ms := w.exact(child, pos+1, spans); len(ms) > 0 {
				return ms
			}
		}
	}

	// Every argument class accepting the token is walked and the results
	// are merged, so definitions differing only in hints stay ambiguous.
	var ms []Match
	if child := n.args[classInt]; child != nil && acceptsInt(tok) {
		ms = append(ms, w.exact(child, pos+1, with(spans, span{start: pos, end: pos + 1}))...)
	}
	if child := n.args[classDecimal]; child != nil && acceptsDecimal(tok) {
		ms = append(ms, w.exact(child, pos+1, with(spans, span{start: pos, end: pos + 1}))...)
	}
	if child := n.args[classAny]; child != nil {
		ms = append(ms, w.exactAny(child, pos, spans)...)
	}
	return ms
}

// exactAny binds an untyped argument starting at pos: a whole quoted block,
// or else the shortest unquoted run after which the path matches.
func (w *walker) exactAny(child *node, pos int, spans []span) []Match {
	if w.tokens[pos].Kind == elements.TokenQuote {
		closing := w.closingQuote(pos)
		if closing < 0 {
			return nil
		}
		s := span{start: pos, end: closing + 1, startExclusive: true, endExclusive: true}
		return w.exact(child, closing+1, with(spans, s))
	}
	for end := pos + 1; end <= len(w.tokens) && w.tokens[end-1].Kind != elements.TokenQuote; end++ {
		if ms := w.exact(child, end, with(spans, span{start: pos, end: end})); len(ms) > 0 {
			return ms
		}
	}
	return nil
}

// terminal pairs each definition's arguments with the spans recorded along
// the path. Every definition at a node has one argument per argument edge.
func terminal(n *node, spans []span, pos int) []Match {
	var ms []Match
	for _, def := range n.definitions {
		args := def.Arguments()
		if len(args) != len(spans) {
			panic("matching: argument count does not match path for " + def.ID())
		}
		bindings := make([]elements.ArgumentBinding, len(args))
		for i, a := range args {
			bindings[i] = elements.ArgumentBinding{
				Argument:       a,
				Start:          spans[i].start,
				End:            spans[i].end,
				StartExclusive: spans[i].startExclusive,
				EndExclusive:   spans[i].endExclusive,
			}
		}
		ms = append(ms, Match{Definition: def, Arguments: bindings, Exact: true, MatchedTokens: pos})
	}
	return ms
}

func (w *walker) addSubtree(n *node, matched int) {
	for _, def := range n.definitions {
		if w.seen[def] {
			continue
		}
		w.seen[def] = true
		w.partials = append(w.partials, Match{Definition: def, MatchedTokens: matched})
	}
	for _, k := range n.sortedWords() {
		w.addSubtree(n.words[k], matched)
	}
	for _, child := range n.args {
		if child != nil {
			w.addSubtree(child, matched)
		}
	}
}

func (w *walker) partial(n *node, pos int) {
	if pos == len(w.tokens) {
		w.addSubtree(n, pos)
		return
	}
	tok := w.tokens[pos]

	if tok.IsWord() {
		key := w.key(pos)
		if child, ok := n.words[key]; ok {
			w.partial(child, pos+1)
		}
		if pos == len(w.tokens)-1 && tok.Kind == elements.TokenText {
			for _, k := range n.sortedWords() {
				if k != key && strings.HasPrefix(k, key) {
					w.addSubtree(n.words[k], pos)
				}
			}
		}
	}

	if child := n.args[classInt]; child != nil && acceptsInt(tok) {
		w.partial(child, pos+1)
	}
	if child := n.args[classDecimal]; child != nil && acceptsDecimal(tok) {
		w.partial(child, pos+1)
	}

	child := n.args[classAny]
	if child == nil {
		return
	}
	if tok.Kind == elements.TokenQuote {
		closing := w.closingQuote(pos)
		if closing < 0 {
			w.addSubtree(child, len(w.tokens))
			return
		}
		w.partial(child, closing+1)
		return
	}
	for end := pos + 1; end <= len(w.tokens) && w.tokens[end-1].Kind != elements.TokenQuote; end++ {
		w.partial(child, end)
	}
}
