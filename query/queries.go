package query

import (
	"context"

	"github.com/wurlab/sparq/rdf"
	"github.com/wurlab/sparq/sparql"
)

// The method surface mirrors the grid of target presence (default
// service, explicit service, local graph) by query form by result shape
// (raw, single-key, multi-key).

// Select runs a SELECT query against the default service. The returned
// Results owns the underlying execution: consume it fully, then Close it.
func (e *Engine) Select(ctx context.Context, querystring string) (*sparql.Results, error) {
	return e.selectTarget(ctx, querystring, Remote(""))
}

// SelectService runs a SELECT query against the given service.
func (e *Engine) SelectService(ctx context.Context, service, querystring string) (*sparql.Results, error) {
	return e.selectTarget(ctx, querystring, Remote(service))
}

// LocalSelect runs a SELECT query against an in-process graph.
func (e *Engine) LocalSelect(ctx context.Context, g *rdf.Graph, querystring string) (*sparql.Results, error) {
	return e.selectTarget(ctx, querystring, Local(g))
}

// SelectKey runs a SELECT query against the default service and appends
// the string value of key in each solution to acc.
func (e *Engine) SelectKey(ctx context.Context, querystring, key string, acc []string) ([]string, error) {
	return e.selectKeyTarget(ctx, querystring, Remote(""), key, acc)
}

// SelectKeyService is SelectKey against the given service.
func (e *Engine) SelectKeyService(ctx context.Context, service, querystring, key string, acc []string) ([]string, error) {
	return e.selectKeyTarget(ctx, querystring, Remote(service), key, acc)
}

// LocalSelectKey is SelectKey against an in-process graph.
func (e *Engine) LocalSelectKey(ctx context.Context, g *rdf.Graph, querystring, key string, acc []string) ([]string, error) {
	return e.selectKeyTarget(ctx, querystring, Local(g), key, acc)
}

// SelectKeys runs a SELECT query against the default service and appends
// one tuple per solution to acc, fields ordered by keys.
func (e *Engine) SelectKeys(ctx context.Context, querystring string, keys []string, acc [][]string) ([][]string, error) {
	return e.selectKeysTarget(ctx, querystring, Remote(""), keys, acc)
}

// SelectKeysService is SelectKeys against the given service.
func (e *Engine) SelectKeysService(ctx context.Context, service, querystring string, keys []string, acc [][]string) ([][]string, error) {
	return e.selectKeysTarget(ctx, querystring, Remote(service), keys, acc)
}

// LocalSelectKeys is SelectKeys against an in-process graph.
func (e *Engine) LocalSelectKeys(ctx context.Context, g *rdf.Graph, querystring string, keys []string, acc [][]string) ([][]string, error) {
	return e.selectKeysTarget(ctx, querystring, Local(g), keys, acc)
}

// Ask runs an ASK query against the default service.
func (e *Engine) Ask(ctx context.Context, querystring string) (bool, error) {
	return e.askTarget(ctx, querystring, Remote(""))
}

// AskService runs an ASK query against the given service.
func (e *Engine) AskService(ctx context.Context, service, querystring string) (bool, error) {
	return e.askTarget(ctx, querystring, Remote(service))
}

// LocalAsk runs an ASK query against an in-process graph.
func (e *Engine) LocalAsk(ctx context.Context, g *rdf.Graph, querystring string) (bool, error) {
	return e.askTarget(ctx, querystring, Local(g))
}

// Construct runs a CONSTRUCT query against the default service. The
// graph is non-nil even on failure; it is empty when acquisition failed.
func (e *Engine) Construct(ctx context.Context, querystring string) (*rdf.Graph, error) {
	return e.graphTarget(ctx, querystring, Remote(""), sparql.FormConstruct)
}

// ConstructService runs a CONSTRUCT query against the given service.
func (e *Engine) ConstructService(ctx context.Context, service, querystring string) (*rdf.Graph, error) {
	return e.graphTarget(ctx, querystring, Remote(service), sparql.FormConstruct)
}

// LocalConstruct runs a CONSTRUCT query against an in-process graph.
func (e *Engine) LocalConstruct(ctx context.Context, g *rdf.Graph, querystring string) (*rdf.Graph, error) {
	return e.graphTarget(ctx, querystring, Local(g), sparql.FormConstruct)
}

// Describe runs a DESCRIBE query against the default service.
func (e *Engine) Describe(ctx context.Context, querystring string) (*rdf.Graph, error) {
	return e.graphTarget(ctx, querystring, Remote(""), sparql.FormDescribe)
}

// DescribeService runs a DESCRIBE query against the given service.
func (e *Engine) DescribeService(ctx context.Context, service, querystring string) (*rdf.Graph, error) {
	return e.graphTarget(ctx, querystring, Remote(service), sparql.FormDescribe)
}

// LocalDescribe runs a DESCRIBE query against an in-process graph.
func (e *Engine) LocalDescribe(ctx context.Context, g *rdf.Graph, querystring string) (*rdf.Graph, error) {
	return e.graphTarget(ctx, querystring, Local(g), sparql.FormDescribe)
}

func (e *Engine) selectTarget(ctx context.Context, querystring string, target Target) (*sparql.Results, error) {
	raw, err := e.Execute(ctx, querystring, target, sparql.FormSelect)
	if err != nil {
		return nil, err
	}
	return raw.Results, nil
}

func (e *Engine) selectKeyTarget(ctx context.Context, querystring string, target Target, key string, acc []string) ([]string, error) {
	rs, err := e.selectTarget(ctx, querystring, target)
	if err != nil {
		return acc, err
	}
	defer rs.Close()
	return e.Collect(rs, key, acc)
}

func (e *Engine) selectKeysTarget(ctx context.Context, querystring string, target Target, keys []string, acc [][]string) ([][]string, error) {
	rs, err := e.selectTarget(ctx, querystring, target)
	if err != nil {
		return acc, err
	}
	defer rs.Close()
	return e.CollectTuples(rs, keys, acc)
}

func (e *Engine) askTarget(ctx context.Context, querystring string, target Target) (bool, error) {
	raw, err := e.Execute(ctx, querystring, target, sparql.FormAsk)
	if err != nil {
		return false, err
	}
	return raw.Bool, nil
}

func (e *Engine) graphTarget(ctx context.Context, querystring string, target Target, form sparql.Form) (*rdf.Graph, error) {
	raw, err := e.Execute(ctx, querystring, target, form)
	if err != nil {
		if raw != nil && raw.Graph != nil {
			return raw.Graph, err
		}
		return rdf.NewGraph(), err
	}
	return raw.Graph, nil
}
