package rdf

import (
	"github.com/piprate/json-gold/ld"
)

// Graph is an in-memory set of triples. Insertion order is preserved and
// duplicate triples are ignored. The zero value is not usable; call
// NewGraph.
type Graph struct {
	quads []*ld.Quad
	index map[string]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[string]struct{}),
	}
}

func tripleKey(s, p, o ld.Node) string {
	return termKey(s) + " " + termKey(p) + " " + termKey(o)
}

// Add inserts the triple (s, p, o). It reports whether the triple was not
// already present.
func (g *Graph) Add(s, p, o ld.Node) bool {
	key := tripleKey(s, p, o)
	if _, ok := g.index[key]; ok {
		return false
	}
	g.index[key] = struct{}{}
	g.quads = append(g.quads, ld.NewQuad(s, p, o, ""))
	return true
}

// AddQuad inserts a quad's triple, dropping any named-graph component.
func (g *Graph) AddQuad(q *ld.Quad) bool {
	return g.Add(q.Subject, q.Predicate, q.Object)
}

// AddAll inserts every triple of other into g.
func (g *Graph) AddAll(other *Graph) {
	for _, q := range other.quads {
		g.AddQuad(q)
	}
}

// Has reports whether the triple (s, p, o) is present.
func (g *Graph) Has(s, p, o ld.Node) bool {
	_, ok := g.index[tripleKey(s, p, o)]
	return ok
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.quads)
}

// Quads returns the graph's triples in insertion order. The returned
// slice is shared; callers must not mutate it.
func (g *Graph) Quads() []*ld.Quad {
	return g.quads
}

// Match returns the triples matching the given pattern in insertion
// order. A nil position matches any term.
func (g *Graph) Match(s, p, o ld.Node) []*ld.Quad {
	var out []*ld.Quad
	for _, q := range g.quads {
		if s != nil && !q.Subject.Equal(s) {
			continue
		}
		if p != nil && !q.Predicate.Equal(p) {
			continue
		}
		if o != nil && !q.Object.Equal(o) {
			continue
		}
		out = append(out, q)
	}
	return out
}
