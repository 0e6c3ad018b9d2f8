package sparql

import (
	"github.com/piprate/json-gold/ld"
)

// PatternTerm is one position of a triple pattern: either a variable
// (Var non-empty) or a concrete term (Node non-nil).
type PatternTerm struct {
	Var  string
	Node ld.Node
}

// IsVar reports whether the term is a variable.
func (t PatternTerm) IsVar() bool {
	return t.Var != ""
}

// TriplePattern is one subject-predicate-object pattern of a WHERE clause
// or CONSTRUCT template.
type TriplePattern struct {
	S, P, O PatternTerm
}

// GroupPattern is a group graph pattern: a basic graph pattern joined
// with zero or more OPTIONAL groups, left-joined in order.
type GroupPattern struct {
	Patterns  []TriplePattern
	Optionals []*GroupPattern
}

// Query is a prepared query for local execution.
type Query struct {
	Form     Form
	Prefixes map[string]string
	Base     string

	// SELECT
	Vars     []string // projection; empty means every in-scope variable
	Distinct bool

	Where *GroupPattern

	// CONSTRUCT
	Template []TriplePattern

	// DESCRIBE targets: IRIs or variables bound by Where
	Describe []PatternTerm

	Limit int // 0 = no limit
}

// inScopeVars returns the WHERE clause's variables in order of first
// appearance. Projection order for SELECT * and the default for SELECT
// with an explicit list left empty.
func (q *Query) inScopeVars() []string {
	var vars []string
	seen := map[string]bool{}
	var walk func(g *GroupPattern)
	walk = func(g *GroupPattern) {
		if g == nil {
			return
		}
		for _, tp := range g.Patterns {
			for _, t := range []PatternTerm{tp.S, tp.P, tp.O} {
				if t.IsVar() && !seen[t.Var] {
					seen[t.Var] = true
					vars = append(vars, t.Var)
				}
			}
		}
		for _, opt := range g.Optionals {
			walk(opt)
		}
	}
	walk(q.Where)
	return vars
}
