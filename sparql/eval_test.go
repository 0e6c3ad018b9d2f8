package sparql

import (
	"testing"

	"github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wurlab/sparq/errors"
	"github.com/wurlab/sparq/rdf"
)

const (
	foafName = "http://xmlns.com/foaf/0.1/name"
	foafMbox = "http://xmlns.com/foaf/0.1/mbox"
	exA      = "http://example.org/a"
	exB      = "http://example.org/b"
)

// testGraph builds the two-person graph used across the evaluator tests:
// ex:a is named "Alice" and has a mailbox, ex:b is named "Bob" without one.
func testGraph() *rdf.Graph {
	g := rdf.NewGraph()
	g.Add(ld.NewIRI(exA), ld.NewIRI(foafName), ld.NewLiteral("Alice", ld.XSDString, ""))
	g.Add(ld.NewIRI(exA), ld.NewIRI(foafMbox), ld.NewIRI("mailto:alice@example.org"))
	g.Add(ld.NewIRI(exB), ld.NewIRI(foafName), ld.NewLiteral("Bob", ld.XSDString, ""))
	return g
}

func mustPrepare(t *testing.T, query string) *Query {
	t.Helper()
	q, err := Prepare(query)
	require.NoError(t, err)
	return q
}

func collectRows(t *testing.T, rs *Results) []Solution {
	t.Helper()
	var rows []Solution
	for rs.Next() {
		rows = append(rows, rs.Solution())
	}
	require.NoError(t, rs.Err())
	return rows
}

func TestExecSelectBasic(t *testing.T) {
	q := mustPrepare(t, `
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?s ?name WHERE { ?s foaf:name ?name }`)

	rs, err := q.ExecSelect(testGraph())
	require.NoError(t, err)

	rows := collectRows(t, rs)
	require.Len(t, rows, 2)
	// Graph traversal order
	assert.Equal(t, "Alice", rdf.TermString(rows[0].Get("name")))
	assert.Equal(t, exA, rdf.TermString(rows[0].Get("s")))
	assert.Equal(t, "Bob", rdf.TermString(rows[1].Get("name")))
}

func TestExecSelectJoin(t *testing.T) {
	q := mustPrepare(t, `
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?name WHERE {
			?s foaf:name ?name .
			?s foaf:mbox ?mbox .
		}`)

	rows := collectRows(t, mustSelect(t, q, testGraph()))
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rdf.TermString(rows[0].Get("name")))
}

func TestExecSelectOptionalLeavesUnbound(t *testing.T) {
	q := mustPrepare(t, `
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?name ?mbox WHERE {
			?s foaf:name ?name .
			OPTIONAL { ?s foaf:mbox ?mbox }
		}`)

	rows := collectRows(t, mustSelect(t, q, testGraph()))
	require.Len(t, rows, 2)
	assert.NotNil(t, rows[0].Get("mbox"))
	assert.Nil(t, rows[1].Get("mbox"), "Bob has no mailbox; ?mbox must stay unbound")
}

func TestExecSelectRepeatedVariable(t *testing.T) {
	g := rdf.NewGraph()
	loves := ld.NewIRI("http://example.org/loves")
	g.Add(ld.NewIRI(exA), loves, ld.NewIRI(exA))
	g.Add(ld.NewIRI(exA), loves, ld.NewIRI(exB))

	q := mustPrepare(t, `SELECT ?x WHERE { ?x <http://example.org/loves> ?x }`)
	rows := collectRows(t, mustSelect(t, q, g))
	require.Len(t, rows, 1)
	assert.Equal(t, exA, rdf.TermString(rows[0].Get("x")))
}

func TestExecSelectDistinctAndLimit(t *testing.T) {
	g := testGraph()

	q := mustPrepare(t, `SELECT DISTINCT ?p WHERE { ?s ?p ?o }`)
	rows := collectRows(t, mustSelect(t, q, g))
	assert.Len(t, rows, 2)

	q = mustPrepare(t, `SELECT ?s WHERE { ?s ?p ?o } LIMIT 1`)
	rows = collectRows(t, mustSelect(t, q, g))
	assert.Len(t, rows, 1)
}

func TestExecSelectFormMismatch(t *testing.T) {
	q := mustPrepare(t, `ASK { ?s ?p ?o }`)
	_, err := q.ExecSelect(testGraph())
	assert.True(t, errors.Is(err, errors.ErrUnsupportedForm))
}

func TestExecAsk(t *testing.T) {
	q := mustPrepare(t, `
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		ASK { <http://example.org/a> foaf:name "Alice" }`)

	present, err := q.ExecAsk(testGraph())
	require.NoError(t, err)
	assert.True(t, present)

	absent, err := q.ExecAsk(rdf.NewGraph())
	require.NoError(t, err)
	assert.False(t, absent)
}

func TestExecConstruct(t *testing.T) {
	q := mustPrepare(t, `
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		PREFIX ex: <http://example.org/>
		CONSTRUCT { ?s ex:label ?name } WHERE { ?s foaf:name ?name }`)

	out, err := q.ExecConstruct(testGraph())
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
	assert.True(t, out.Has(
		ld.NewIRI(exA),
		ld.NewIRI("http://example.org/label"),
		ld.NewLiteral("Alice", ld.XSDString, ""),
	))
}

func TestExecConstructSkipsUnboundTemplateTriples(t *testing.T) {
	q := mustPrepare(t, `
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		PREFIX ex: <http://example.org/>
		CONSTRUCT { ?s ex:mbox ?mbox }
		WHERE {
			?s foaf:name ?name .
			OPTIONAL { ?s foaf:mbox ?mbox }
		}`)

	out, err := q.ExecConstruct(testGraph())
	require.NoError(t, err)
	// Only Alice has a mailbox; Bob's solution produces no triple.
	assert.Equal(t, 1, out.Len())
}

func TestExecConstructLimitCapsSolutions(t *testing.T) {
	q := mustPrepare(t, `
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		PREFIX ex: <http://example.org/>
		CONSTRUCT { ?s ex:label ?name . ?s ex:tag ?name }
		WHERE { ?s foaf:name ?name } LIMIT 1`)

	out, err := q.ExecConstruct(testGraph())
	require.NoError(t, err)
	// LIMIT 1 keeps one of the two solutions, which still instantiates
	// both template triples.
	assert.Equal(t, 2, out.Len())
}

func TestExecConstructFreshensBlankNodes(t *testing.T) {
	q := mustPrepare(t, `
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		PREFIX ex: <http://example.org/>
		CONSTRUCT { _:card ex:about ?s . _:card ex:name ?name }
		WHERE { ?s foaf:name ?name }`)

	out, err := q.ExecConstruct(testGraph())
	require.NoError(t, err)
	require.Equal(t, 4, out.Len())

	// Each solution gets its own blank node, shared across the template
	subjects := map[string][]string{}
	for _, quad := range out.Quads() {
		label := rdf.TermString(quad.Subject)
		subjects[label] = append(subjects[label], rdf.TermString(quad.Predicate))
	}
	require.Len(t, subjects, 2)
	for _, preds := range subjects {
		assert.Len(t, preds, 2)
	}
}

func TestExecDescribeIRI(t *testing.T) {
	q := mustPrepare(t, `DESCRIBE <http://example.org/a>`)
	out, err := q.ExecDescribe(testGraph())
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestExecDescribeVariable(t *testing.T) {
	q := mustPrepare(t, `
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		DESCRIBE ?s WHERE { ?s foaf:name "Bob" }`)
	out, err := q.ExecDescribe(testGraph())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestExecDescribeFollowsBlankNodes(t *testing.T) {
	g := rdf.NewGraph()
	addr := ld.NewBlankNode("_:addr")
	g.Add(ld.NewIRI(exA), ld.NewIRI("http://example.org/address"), addr)
	g.Add(addr, ld.NewIRI("http://example.org/city"), ld.NewLiteral("Wageningen", ld.XSDString, ""))
	g.Add(ld.NewIRI(exB), ld.NewIRI(foafName), ld.NewLiteral("Bob", ld.XSDString, ""))

	q := mustPrepare(t, `DESCRIBE <http://example.org/a>`)
	out, err := q.ExecDescribe(g)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len(), "blank-node closure includes the address triple")
}

func TestResultsSinglePass(t *testing.T) {
	q := mustPrepare(t, `SELECT ?s WHERE { ?s ?p ?o }`)
	rs := mustSelect(t, q, testGraph())

	count := 0
	for rs.Next() {
		count++
	}
	assert.Equal(t, 3, count)
	assert.False(t, rs.Next(), "sequence is non-restartable")
	require.NoError(t, rs.Err())
}

func TestResultsClosedTraversalFails(t *testing.T) {
	q := mustPrepare(t, `SELECT ?s WHERE { ?s ?p ?o }`)
	rs := mustSelect(t, q, testGraph())

	require.True(t, rs.Next())
	require.NoError(t, rs.Close())

	assert.False(t, rs.Next())
	assert.True(t, errors.Is(rs.Err(), errors.ErrResultsClosed))
}

func TestResultsCloseReleasesOwnerOnce(t *testing.T) {
	rs := NewResults(nil, nil)
	released := 0
	rs.OnClose(func() error {
		released++
		return nil
	})

	require.NoError(t, rs.Close())
	require.NoError(t, rs.Close())
	assert.Equal(t, 1, released)
}

func mustSelect(t *testing.T, q *Query, g *rdf.Graph) *Results {
	t.Helper()
	rs, err := q.ExecSelect(g)
	require.NoError(t, err)
	return rs
}
