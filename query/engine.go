package query

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wurlab/sparq/config"
	"github.com/wurlab/sparq/endpoint"
	"github.com/wurlab/sparq/errors"
	"github.com/wurlab/sparq/logger"
	"github.com/wurlab/sparq/rdf"
	"github.com/wurlab/sparq/sparql"
)

// Options configures an Engine. The zero value is usable: the default
// service URL, no debug logging, the global logger.
type Options struct {
	Service              string             // default SPARQL service URL
	Debug                bool               // log queries, services and extracted bindings
	Timeout              time.Duration      // HTTP request timeout for remote targets
	MaxRequestsPerMinute int                // remote request pacing; 0 = unlimited
	Logger               *zap.SugaredLogger // defaults to the global logger
}

// Engine executes SPARQL queries against local graphs and remote
// services. Methods are safe for concurrent use as long as the service
// URL and debug flag are not mutated concurrently; treat SetService and
// SetDebug as startup-time configuration.
type Engine struct {
	service string
	debug   bool
	timeout time.Duration
	rpm     int
	logger  *zap.SugaredLogger

	mu      sync.Mutex
	clients map[string]*endpoint.Client
}

// NewEngine creates an engine from options.
func NewEngine(opts Options) *Engine {
	if opts.Service == "" {
		opts.Service = config.DefaultServiceURL
	}
	if opts.Logger == nil {
		opts.Logger = logger.Logger
	}
	return &Engine{
		service: opts.Service,
		debug:   opts.Debug,
		timeout: opts.Timeout,
		rpm:     opts.MaxRequestsPerMinute,
		logger:  opts.Logger,
		clients: make(map[string]*endpoint.Client),
	}
}

// FromConfig creates an engine from the loaded sparq configuration.
func FromConfig(cfg *config.Config) *Engine {
	return NewEngine(Options{
		Service:              cfg.Endpoint.URL,
		Debug:                cfg.Query.Debug,
		Timeout:              time.Duration(cfg.Endpoint.TimeoutSeconds) * time.Second,
		MaxRequestsPerMinute: cfg.Endpoint.MaxRequestsPerMinute,
	})
}

// Service returns the default service URL used when a target names none.
func (e *Engine) Service() string {
	return e.service
}

// SetService changes the default service URL.
func (e *Engine) SetService(service string) {
	e.service = service
	e.logger.Infow("query engine endpoint changed", "service", service)
}

// Debug returns the debug mode.
func (e *Engine) Debug() bool {
	return e.debug
}

// SetDebug sets the debug mode.
func (e *Engine) SetDebug(debug bool) {
	e.debug = debug
}

// Raw is the result of one dispatch. Exactly one field is populated
// according to Form: Results for SELECT, Bool for ASK, Graph for
// CONSTRUCT and DESCRIBE.
type Raw struct {
	Form    sparql.Form
	Results *sparql.Results
	Bool    bool
	Graph   *rdf.Graph
}

// Execute acquires an execution for the query on the target and
// dispatches it in the given form.
//
// For ASK, CONSTRUCT and DESCRIBE the execution is released before
// Execute returns. For SELECT the returned Results owns the execution;
// closing the Results releases it, and the sequence must be fully
// consumed before that.
//
// When acquisition fails the error is marked errors.ErrNoExecution and,
// for CONSTRUCT and DESCRIBE, Raw.Graph is a non-nil empty graph so that
// callers ignoring the error still see zero statements rather than nil.
func (e *Engine) Execute(ctx context.Context, querystring string, target Target, form sparql.Form) (*Raw, error) {
	exec, err := e.open(querystring, target)
	if err != nil {
		raw := &Raw{Form: form}
		if form == sparql.FormConstruct || form == sparql.FormDescribe {
			raw.Graph = rdf.NewGraph()
		}
		return raw, err
	}
	return e.run(ctx, exec, form)
}

// open acquires an execution handle for the (query, target) pair. This
// is the acquisition boundary: parse errors (local) and service URL
// errors (remote) surface here, marked errors.ErrNoExecution.
func (e *Engine) open(querystring string, target Target) (Execution, error) {
	if target.IsLocal() {
		if e.debug {
			e.logger.Infow("opening local query execution", "query", querystring)
		}
		prepared, err := sparql.Prepare(querystring)
		if err != nil {
			e.logger.Warnw("failed to open local query execution",
				"query", querystring, "error", err)
			return nil, errors.Mark(err, errors.ErrNoExecution)
		}
		return &localExecution{query: prepared, graph: target.graph}, nil
	}

	service := target.service
	if service == "" {
		service = e.service
	}
	if e.debug {
		e.logger.Infow("opening remote query execution",
			"service", service, "query", querystring)
	}
	client, err := e.client(service)
	if err != nil {
		e.logger.Errorw("failed to open remote query execution",
			"query", querystring, "service", service, "error", err)
		return nil, errors.Mark(err, errors.ErrNoExecution)
	}
	return &remoteExecution{client: client, query: querystring}, nil
}

// client returns the endpoint client bound to the service URL, creating
// it on first use. One client per service lives for the engine's
// lifetime, so its rate limiter paces requests across queries rather
// than resetting on every dispatch.
func (e *Engine) client(service string) (*endpoint.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.clients[service]; ok {
		return c, nil
	}
	opts := endpoint.Options{
		Timeout:              e.timeout,
		MaxRequestsPerMinute: e.rpm,
	}
	if e.debug {
		opts.Logger = e.logger
	}
	c, err := endpoint.NewClient(service, opts)
	if err != nil {
		return nil, err
	}
	e.clients[service] = c
	return c, nil
}

// run dispatches an acquired execution in the given form, releasing it
// exactly once on every path. SELECT transfers the release to the
// returned Results.
func (e *Engine) run(ctx context.Context, exec Execution, form sparql.Form) (result *Raw, err error) {
	if form == sparql.FormSelect {
		rs, selErr := exec.Select(ctx)
		if selErr != nil {
			closeErr := exec.Close()
			if closeErr != nil {
				e.logger.Errorw("failed to release query execution", "error", closeErr)
			}
			return nil, selErr
		}
		rs.OnClose(exec.Close)
		return &Raw{Form: form, Results: rs}, nil
	}

	defer func() {
		if closeErr := exec.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "failed to release query execution")
		}
	}()

	switch form {
	case sparql.FormAsk:
		answer, askErr := exec.Ask(ctx)
		if askErr != nil {
			return nil, askErr
		}
		return &Raw{Form: form, Bool: answer}, nil
	case sparql.FormConstruct:
		g, conErr := exec.Construct(ctx)
		if conErr != nil {
			return &Raw{Form: form, Graph: rdf.NewGraph()}, conErr
		}
		return &Raw{Form: form, Graph: g}, nil
	case sparql.FormDescribe:
		g, desErr := exec.Describe(ctx)
		if desErr != nil {
			return &Raw{Form: form, Graph: rdf.NewGraph()}, desErr
		}
		return &Raw{Form: form, Graph: g}, nil
	}
	return nil, errors.Wrapf(errors.ErrUnsupportedForm, "form %d", form)
}
