package interaction

import "sort"

// MethodTable is a layered method dictionary. A derived table shares its
// parent's layers and allocates a map of its own on the first Set, so
// deriving from a large table is cheap.
type MethodTable struct {
	parent  *MethodTable
	methods map[string]*Method
}

func NewMethodTable() *MethodTable {
	return &MethodTable{}
}

// Derive returns an empty child layer. Writes to the child never affect t.
func (t *MethodTable) Derive() *MethodTable {
	return &MethodTable{parent: t}
}

// Set defines m in this layer, shadowing any parent definition.
func (t *MethodTable) Set(m *Method) {
	if t.methods == nil {
		t.methods = make(map[string]*Method)
	}
	t.methods[m.Name] = m
}

// Get looks name up from this layer outwards.
func (t *MethodTable) Get(name string) (*Method, bool) {
	for layer := t; layer != nil; layer = layer.parent {
		if m, ok := layer.methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// MustGet is Get for names the caller just read from the table.
func (t *MethodTable) MustGet(name string) *Method {
	m, ok := t.Get(name)
	if !ok {
		panic("interaction: method table lost method " + name)
	}
	return m
}

// Owns reports whether this layer has allocated its own map.
func (t *MethodTable) Owns() bool {
	return t.methods != nil
}

// Names returns every visible method name, sorted.
func (t *MethodTable) Names() []string {
	seen := make(map[string]bool)
	for layer := t; layer != nil; layer = layer.parent {
		for name := range layer.methods {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of visible methods.
func (t *MethodTable) Len() int {
	return len(t.Names())
}
