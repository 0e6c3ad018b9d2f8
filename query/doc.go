// Package query is the uniform query-execution facade over RDF data: it
// runs SPARQL queries either against an in-process graph or against a
// remote HTTP endpoint, and projects heterogeneous result shapes into
// caller-friendly values.
//
// The Engine dispatches a query string to one of the four query forms on
// either target, guaranteeing the underlying execution is released
// exactly once on every path. The projector (Collect, CollectTuples)
// walks a binding sequence once and extracts string values by variable
// name, skipping unbound variables.
//
//	eng := query.NewEngine(query.Options{})
//	names, err := eng.LocalSelectKey(ctx, graph,
//	    `PREFIX foaf: <http://xmlns.com/foaf/0.1/>
//	     SELECT ?name WHERE { ?s foaf:name ?name }`,
//	    "name", nil)
//
// Failed acquisition of an execution (malformed query, invalid service
// URL) is reported as an error marked errors.ErrNoExecution; CONSTRUCT
// and DESCRIBE additionally return a non-nil empty graph on that path so
// callers holding only the graph see zero statements rather than nil.
package query
