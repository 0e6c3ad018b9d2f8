package sparql

import (
	"fmt"
	"strings"

	"github.com/piprate/json-gold/ld"

	"github.com/wurlab/sparq/errors"
	"github.com/wurlab/sparq/rdf"
)

// Solution is one row of a SELECT result: a mapping from variable name to
// an RDF term. A variable in the query's projection that is unbound in
// this row yields nil from Get — that is not an error.
type Solution struct {
	vars  []string
	terms map[string]ld.Node
}

// NewSolution builds a solution over the given variables. Variables
// absent from terms are unbound.
func NewSolution(vars []string, terms map[string]ld.Node) Solution {
	return Solution{vars: vars, terms: terms}
}

// Get returns the term bound to the variable, or nil when unbound.
func (s Solution) Get(name string) ld.Node {
	return s.terms[name]
}

// Vars returns the solution's variables in projection order.
func (s Solution) Vars() []string {
	return s.vars
}

// String renders the solution for debug logging.
func (s Solution) String() string {
	parts := make([]string, 0, len(s.vars))
	for _, v := range s.vars {
		if node := s.terms[v]; node != nil {
			parts = append(parts, fmt.Sprintf("?%s = %s", v, rdf.TermString(node)))
		}
	}
	return "( " + strings.Join(parts, ", ") + " )"
}

// Results is the binding sequence of a SELECT query: lazy, finite,
// forward-only and non-restartable. It is owned by the execution that
// produced it; Close releases that execution, and any traversal after
// Close fails with errors.ErrResultsClosed.
type Results struct {
	vars    []string
	rows    []Solution
	pos     int // index of the current row; -1 before the first Next
	closed  bool
	err     error
	onClose func() error
}

// NewResults builds a binding sequence from materialized rows. Both the
// local evaluator and the endpoint client produce their rows eagerly; the
// sequence still enforces single-pass, close-once traversal.
func NewResults(vars []string, rows []Solution) *Results {
	return &Results{vars: vars, rows: rows, pos: -1}
}

// Vars returns the result variables in projection order.
func (r *Results) Vars() []string {
	return r.vars
}

// Next advances to the next solution. It returns false when the sequence
// is exhausted or closed; check Err to distinguish.
func (r *Results) Next() bool {
	if r.closed {
		if r.pos+1 < len(r.rows) {
			r.err = errors.Wrapf(errors.ErrResultsClosed, "after %d of %d rows", r.pos+1, len(r.rows))
		}
		return false
	}
	if r.pos+1 >= len(r.rows) {
		r.pos = len(r.rows)
		return false
	}
	r.pos++
	return true
}

// Solution returns the current solution. Valid only after Next reported
// true.
func (r *Results) Solution() Solution {
	return r.rows[r.pos]
}

// Err returns the first traversal error, if any.
func (r *Results) Err() error {
	return r.err
}

// OnClose registers fn to run the first time Close is called. Used by the
// dispatcher to tie the owning execution handle's release to the
// sequence's lifetime.
func (r *Results) OnClose(fn func() error) {
	r.onClose = fn
}

// Close invalidates the sequence and releases its owner. Closing more
// than once is a no-op; the owner is released exactly once.
func (r *Results) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.onClose != nil {
		return r.onClose()
	}
	return nil
}
