package query

import (
	"github.com/wurlab/sparq/rdf"
)

// Target selects where a query runs: an in-process graph or a remote
// SPARQL service. Exactly one alternative is active.
type Target struct {
	graph   *rdf.Graph
	service string
}

// Local targets an in-process graph.
func Local(g *rdf.Graph) Target {
	return Target{graph: g}
}

// Remote targets a SPARQL service. An empty URL means the engine's
// configured default service.
func Remote(service string) Target {
	return Target{service: service}
}

// IsLocal reports whether the target is an in-process graph.
func (t Target) IsLocal() bool {
	return t.graph != nil
}
