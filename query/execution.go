package query

import (
	"context"

	"github.com/wurlab/sparq/endpoint"
	"github.com/wurlab/sparq/rdf"
	"github.com/wurlab/sparq/sparql"
)

// Execution is one opened query execution, bound to a (query, target)
// pair. It must be released with Close exactly once after use; the
// dispatcher owns this lifecycle and never lets a handle escape except
// through a Results sequence, whose Close releases it.
type Execution interface {
	Select(ctx context.Context) (*sparql.Results, error)
	Ask(ctx context.Context) (bool, error)
	Construct(ctx context.Context) (*rdf.Graph, error)
	Describe(ctx context.Context) (*rdf.Graph, error)
	Close() error
}

// localExecution runs a prepared query against an in-process graph.
type localExecution struct {
	query *sparql.Query
	graph *rdf.Graph
}

func (x *localExecution) Select(ctx context.Context) (*sparql.Results, error) {
	return x.query.ExecSelect(x.graph)
}

func (x *localExecution) Ask(ctx context.Context) (bool, error) {
	return x.query.ExecAsk(x.graph)
}

func (x *localExecution) Construct(ctx context.Context) (*rdf.Graph, error) {
	return x.query.ExecConstruct(x.graph)
}

func (x *localExecution) Describe(ctx context.Context) (*rdf.Graph, error) {
	return x.query.ExecDescribe(x.graph)
}

func (x *localExecution) Close() error {
	x.query = nil
	x.graph = nil
	return nil
}

// remoteExecution runs a query over HTTP against a SPARQL service.
type remoteExecution struct {
	client *endpoint.Client
	query  string
}

func (x *remoteExecution) Select(ctx context.Context) (*sparql.Results, error) {
	return x.client.Select(ctx, x.query)
}

func (x *remoteExecution) Ask(ctx context.Context) (bool, error) {
	return x.client.Ask(ctx, x.query)
}

func (x *remoteExecution) Construct(ctx context.Context) (*rdf.Graph, error) {
	return x.client.Construct(ctx, x.query)
}

func (x *remoteExecution) Describe(ctx context.Context) (*rdf.Graph, error) {
	return x.client.Describe(ctx, x.query)
}

func (x *remoteExecution) Close() error {
	// The SPARQL protocol is request/response; there is no server-side
	// handle to release. Close exists for the uniform lifecycle.
	x.client = nil
	return nil
}
