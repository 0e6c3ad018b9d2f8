package sparql

import (
	"github.com/piprate/json-gold/ld"

	"github.com/wurlab/sparq/errors"
	"github.com/wurlab/sparq/rdf"
)

// binding maps variable names to terms during evaluation.
type binding map[string]ld.Node

func (b binding) clone() binding {
	out := make(binding, len(b)+2)
	for k, v := range b {
		out[k] = v
	}
	return out
}

// resolve returns the concrete node for a pattern position, or nil when
// the position is an unbound variable (a wildcard for Graph.Match).
func resolve(t PatternTerm, b binding) ld.Node {
	if t.IsVar() {
		return b[t.Var]
	}
	return t.Node
}

// bindTerm records the term matched at a pattern position. It reports
// false when the variable is already bound to a different term, which
// rejects the candidate (handles repeated variables such as ?x ?p ?x).
func bindTerm(t PatternTerm, node ld.Node, b binding) bool {
	if !t.IsVar() {
		return true
	}
	if existing, ok := b[t.Var]; ok {
		return existing.Equal(node)
	}
	b[t.Var] = node
	return true
}

// evalGroup joins the group's basic graph pattern, then left-joins each
// OPTIONAL group in order. Solutions that an OPTIONAL cannot extend pass
// through unextended — the source of unbound variables.
func evalGroup(g *rdf.Graph, group *GroupPattern, in []binding) []binding {
	out := in
	for _, tp := range group.Patterns {
		out = extend(g, tp, out)
	}
	for _, opt := range group.Optionals {
		var next []binding
		for _, b := range out {
			matches := evalGroup(g, opt, []binding{b})
			if len(matches) == 0 {
				next = append(next, b)
			} else {
				next = append(next, matches...)
			}
		}
		out = next
	}
	return out
}

func extend(g *rdf.Graph, tp TriplePattern, in []binding) []binding {
	var out []binding
	for _, b := range in {
		for _, q := range g.Match(resolve(tp.S, b), resolve(tp.P, b), resolve(tp.O, b)) {
			nb := b.clone()
			if bindTerm(tp.S, q.Subject, nb) &&
				bindTerm(tp.P, q.Predicate, nb) &&
				bindTerm(tp.O, q.Object, nb) {
				out = append(out, nb)
			}
		}
	}
	return out
}

// ExecSelect runs a prepared SELECT query against the graph. Solutions
// appear in graph traversal order.
func (q *Query) ExecSelect(g *rdf.Graph) (*Results, error) {
	if q.Form != FormSelect {
		return nil, errors.Wrapf(errors.ErrUnsupportedForm, "%s query executed as SELECT", q.Form)
	}

	bindings := evalGroup(g, q.Where, []binding{{}})

	vars := q.Vars
	if len(vars) == 0 {
		vars = q.inScopeVars()
	}

	rows := make([]Solution, 0, len(bindings))
	seen := map[string]bool{}
	for _, b := range bindings {
		terms := make(map[string]ld.Node, len(vars))
		for _, v := range vars {
			if node, ok := b[v]; ok {
				terms[v] = node
			}
		}
		sol := NewSolution(vars, terms)
		if q.Distinct {
			key := distinctKey(vars, terms)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		rows = append(rows, sol)
		if q.Limit > 0 && len(rows) == q.Limit {
			break
		}
	}
	return NewResults(vars, rows), nil
}

// distinctKey encodes a projected row injectively, keeping the IRI <x>
// apart from the literal "x" and unbound apart from the empty literal.
func distinctKey(vars []string, terms map[string]ld.Node) string {
	key := ""
	for _, v := range vars {
		node, ok := terms[v]
		if !ok {
			key += "|_"
			continue
		}
		switch n := node.(type) {
		case *ld.IRI:
			key += "|<" + n.Value + ">"
		case *ld.Literal:
			key += "|\"" + n.Value + "\"@" + n.Language + "^" + n.Datatype
		case *ld.BlankNode:
			key += "|" + n.Attribute
		}
	}
	return key
}

// ExecAsk reports whether the query's pattern has at least one solution.
func (q *Query) ExecAsk(g *rdf.Graph) (bool, error) {
	if q.Form != FormAsk {
		return false, errors.Wrapf(errors.ErrUnsupportedForm, "%s query executed as ASK", q.Form)
	}
	return len(evalGroup(g, q.Where, []binding{{}})) > 0, nil
}

// ExecConstruct instantiates the CONSTRUCT template once per solution and
// returns the resulting graph. Template triples with an unbound variable
// or an illegal position (literal subject or predicate) are skipped for
// that solution; template blank nodes are freshened per solution.
func (q *Query) ExecConstruct(g *rdf.Graph) (*rdf.Graph, error) {
	if q.Form != FormConstruct {
		return rdf.NewGraph(), errors.Wrapf(errors.ErrUnsupportedForm, "%s query executed as CONSTRUCT", q.Form)
	}

	// LIMIT caps the solution sequence; each surviving solution still
	// instantiates the whole template.
	bindings := evalGroup(g, q.Where, []binding{{}})
	if q.Limit > 0 && len(bindings) > q.Limit {
		bindings = bindings[:q.Limit]
	}

	out := rdf.NewGraph()
	for _, b := range bindings {
		fresh := map[string]*ld.BlankNode{}
		for _, tp := range q.Template {
			s := instantiate(tp.S, b, fresh)
			p := instantiate(tp.P, b, fresh)
			o := instantiate(tp.O, b, fresh)
			if s == nil || p == nil || o == nil {
				continue
			}
			if _, ok := s.(*ld.Literal); ok {
				continue
			}
			if _, ok := p.(*ld.IRI); !ok {
				continue
			}
			out.Add(s, p, o)
		}
	}
	return out, nil
}

func instantiate(t PatternTerm, b binding, fresh map[string]*ld.BlankNode) ld.Node {
	if t.IsVar() {
		return b[t.Var]
	}
	if bn, ok := t.Node.(*ld.BlankNode); ok {
		if _, ok := fresh[bn.Attribute]; !ok {
			fresh[bn.Attribute] = rdf.NewBlankNode()
		}
		return fresh[bn.Attribute]
	}
	return t.Node
}

// ExecDescribe returns a graph describing each target resource: its
// outgoing triples plus the closure over blank-node objects. Variable
// targets describe every node the WHERE clause binds them to.
func (q *Query) ExecDescribe(g *rdf.Graph) (*rdf.Graph, error) {
	if q.Form != FormDescribe {
		return rdf.NewGraph(), errors.Wrapf(errors.ErrUnsupportedForm, "%s query executed as DESCRIBE", q.Form)
	}

	var targets []ld.Node
	seenTarget := map[string]bool{}
	addTarget := func(node ld.Node) {
		key := rdf.TermString(node)
		if !seenTarget[key] {
			seenTarget[key] = true
			targets = append(targets, node)
		}
	}

	var bindings []binding
	if q.Where != nil {
		bindings = evalGroup(g, q.Where, []binding{{}})
	}
	for _, t := range q.Describe {
		if !t.IsVar() {
			addTarget(t.Node)
			continue
		}
		for _, b := range bindings {
			if node, ok := b[t.Var]; ok {
				addTarget(node)
			}
		}
	}

	out := rdf.NewGraph()
	for _, node := range targets {
		describeNode(g, node, out, map[string]bool{})
	}
	return out, nil
}

func describeNode(g *rdf.Graph, node ld.Node, out *rdf.Graph, visited map[string]bool) {
	key := rdf.TermString(node)
	if visited[key] {
		return
	}
	visited[key] = true
	for _, q := range g.Match(node, nil, nil) {
		out.AddQuad(q)
		if _, ok := q.Object.(*ld.BlankNode); ok {
			describeNode(g, q.Object, out, visited)
		}
	}
}
