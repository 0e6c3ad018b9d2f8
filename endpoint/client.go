// Package endpoint is the HTTP client for remote SPARQL services,
// speaking the SPARQL 1.1 Protocol: queries are POSTed as form data,
// SELECT and ASK results come back as application/sparql-results+json,
// CONSTRUCT and DESCRIBE results as N-Triples.
package endpoint

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/wurlab/sparq/errors"
	"github.com/wurlab/sparq/rdf"
	"github.com/wurlab/sparq/sparql"
)

const (
	acceptResultsJSON = "application/sparql-results+json"
	acceptNTriples    = "application/n-triples, text/plain;q=0.5"
)

// Options configures a Client.
type Options struct {
	Timeout              time.Duration // HTTP request timeout (default: 30s)
	MaxRequestsPerMinute int           // 0 = unlimited
	UserAgent            string
	HTTPClient           *http.Client       // overrides Timeout when set
	Logger               *zap.SugaredLogger // optional debug logging
}

// Client executes queries against one SPARQL endpoint.
type Client struct {
	service   string
	hc        *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *zap.SugaredLogger
}

// NewClient validates the service URL and returns a client bound to it.
// Construction performs no I/O; an unreachable endpoint surfaces on the
// first query.
func NewClient(service string, opts Options) (*Client, error) {
	u, err := url.Parse(service)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid service URL %q", service)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Newf("service URL %q: scheme must be http or https", service)
	}
	if u.Host == "" {
		return nil, errors.Newf("service URL %q: missing host", service)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	c := &Client{
		service:   service,
		hc:        hc,
		userAgent: opts.UserAgent,
		logger:    opts.Logger,
	}
	if c.userAgent == "" {
		c.userAgent = "sparq"
	}
	if opts.MaxRequestsPerMinute > 0 {
		// Polite pacing against shared endpoints
		c.limiter = rate.NewLimiter(rate.Limit(float64(opts.MaxRequestsPerMinute)/60.0), 1)
	}
	return c, nil
}

// Service returns the endpoint URL the client is bound to.
func (c *Client) Service() string {
	return c.service
}

// Select runs a SELECT query and decodes the binding sequence.
func (c *Client) Select(ctx context.Context, query string) (*sparql.Results, error) {
	body, err := c.post(ctx, query, acceptResultsJSON)
	if err != nil {
		return nil, err
	}
	return decodeResultsJSON(body)
}

// Ask runs an ASK query and decodes the boolean.
func (c *Client) Ask(ctx context.Context, query string) (bool, error) {
	body, err := c.post(ctx, query, acceptResultsJSON)
	if err != nil {
		return false, err
	}
	return decodeBooleanJSON(body)
}

// Construct runs a CONSTRUCT query and parses the returned triples.
func (c *Client) Construct(ctx context.Context, query string) (*rdf.Graph, error) {
	return c.graphQuery(ctx, query)
}

// Describe runs a DESCRIBE query and parses the returned triples.
func (c *Client) Describe(ctx context.Context, query string) (*rdf.Graph, error) {
	return c.graphQuery(ctx, query)
}

func (c *Client) graphQuery(ctx context.Context, query string) (*rdf.Graph, error) {
	body, err := c.post(ctx, query, acceptNTriples)
	if err != nil {
		return nil, err
	}
	g, err := rdf.ReadNQuads(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse endpoint graph response")
	}
	return g, nil
}

func (c *Client) post(ctx context.Context, query, accept string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limit wait aborted")
		}
	}

	form := url.Values{"query": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.service,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build endpoint request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	if c.logger != nil {
		c.logger.Debugw("querying endpoint", "service", c.service, "accept", accept)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "endpoint request to %s failed", c.service)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read endpoint response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("endpoint %s returned %s: %s",
			c.service, resp.Status, snippet(body))
	}
	return body, nil
}

// snippet truncates an error body for log and error messages.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
