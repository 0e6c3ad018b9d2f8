package sparql

import (
	"testing"

	"github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wurlab/sparq/errors"
)

func TestPrepareSelect(t *testing.T) {
	q, err := Prepare(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?s ?name WHERE {
			?s foaf:name ?name .
		} LIMIT 10`)
	require.NoError(t, err)

	assert.Equal(t, FormSelect, q.Form)
	assert.Equal(t, []string{"s", "name"}, q.Vars)
	assert.Equal(t, 10, q.Limit)
	require.Len(t, q.Where.Patterns, 1)

	tp := q.Where.Patterns[0]
	assert.Equal(t, "s", tp.S.Var)
	assert.Equal(t, "http://xmlns.com/foaf/0.1/name", tp.P.Node.(*ld.IRI).Value)
	assert.Equal(t, "name", tp.O.Var)
}

func TestPrepareSelectStar(t *testing.T) {
	q, err := Prepare(`SELECT * WHERE { ?s ?p ?o }`)
	require.NoError(t, err)
	assert.Empty(t, q.Vars)
	assert.Equal(t, []string{"s", "p", "o"}, q.inScopeVars())
}

func TestPrepareSelectDistinct(t *testing.T) {
	q, err := Prepare(`SELECT DISTINCT ?p WHERE { ?s ?p ?o }`)
	require.NoError(t, err)
	assert.True(t, q.Distinct)
}

func TestPreparePredicateObjectLists(t *testing.T) {
	q, err := Prepare(`
		PREFIX ex: <http://example.org/>
		SELECT ?s WHERE {
			?s a ex:Person ;
			   ex:knows ex:a , ex:b .
		}`)
	require.NoError(t, err)
	require.Len(t, q.Where.Patterns, 3)

	assert.Equal(t, ld.RDFType, q.Where.Patterns[0].P.Node.(*ld.IRI).Value)
	// 'a' expands each item of the object list against the same subject
	for _, tp := range q.Where.Patterns {
		assert.Equal(t, "s", tp.S.Var)
	}
	assert.Equal(t, "http://example.org/a", q.Where.Patterns[1].O.Node.(*ld.IRI).Value)
	assert.Equal(t, "http://example.org/b", q.Where.Patterns[2].O.Node.(*ld.IRI).Value)
}

func TestPrepareOptional(t *testing.T) {
	q, err := Prepare(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?s ?mbox WHERE {
			?s foaf:name ?name .
			OPTIONAL { ?s foaf:mbox ?mbox }
		}`)
	require.NoError(t, err)
	require.Len(t, q.Where.Optionals, 1)
	assert.Len(t, q.Where.Optionals[0].Patterns, 1)
}

func TestPrepareLiterals(t *testing.T) {
	q, err := Prepare(`
		PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
		SELECT ?s WHERE {
			?s <http://example.org/name> "Alice" .
			?s <http://example.org/label> "Alice"@en .
			?s <http://example.org/age> "42"^^xsd:integer .
			?s <http://example.org/height> 1.75 .
			?s <http://example.org/active> true .
		}`)
	require.NoError(t, err)
	require.Len(t, q.Where.Patterns, 5)

	plain := q.Where.Patterns[0].O.Node.(*ld.Literal)
	assert.Equal(t, "Alice", plain.Value)
	assert.Equal(t, ld.XSDString, plain.Datatype)

	tagged := q.Where.Patterns[1].O.Node.(*ld.Literal)
	assert.Equal(t, "en", tagged.Language)

	typed := q.Where.Patterns[2].O.Node.(*ld.Literal)
	assert.Equal(t, ld.XSDInteger, typed.Datatype)

	decimal := q.Where.Patterns[3].O.Node.(*ld.Literal)
	assert.Equal(t, xsdDecimal, decimal.Datatype)

	boolean := q.Where.Patterns[4].O.Node.(*ld.Literal)
	assert.Equal(t, ld.XSDBoolean, boolean.Datatype)
}

func TestPrepareAsk(t *testing.T) {
	q, err := Prepare(`ASK { <http://example.org/a> ?p ?o }`)
	require.NoError(t, err)
	assert.Equal(t, FormAsk, q.Form)

	q, err = Prepare(`ASK WHERE { ?s ?p ?o }`)
	require.NoError(t, err)
	assert.Equal(t, FormAsk, q.Form)
}

func TestPrepareConstruct(t *testing.T) {
	q, err := Prepare(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		PREFIX ex: <http://example.org/>
		CONSTRUCT { ?s ex:label ?name } WHERE { ?s foaf:name ?name }`)
	require.NoError(t, err)
	assert.Equal(t, FormConstruct, q.Form)
	require.Len(t, q.Template, 1)
	assert.Equal(t, "http://example.org/label", q.Template[0].P.Node.(*ld.IRI).Value)
}

func TestPrepareDescribe(t *testing.T) {
	q, err := Prepare(`DESCRIBE <http://example.org/a>`)
	require.NoError(t, err)
	assert.Equal(t, FormDescribe, q.Form)
	require.Len(t, q.Describe, 1)
	assert.Nil(t, q.Where)

	q, err = Prepare(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		DESCRIBE ?s WHERE { ?s foaf:name "Alice" }`)
	require.NoError(t, err)
	require.Len(t, q.Describe, 1)
	assert.Equal(t, "s", q.Describe[0].Var)
	require.NotNil(t, q.Where)
}

func TestPrepareBase(t *testing.T) {
	q, err := Prepare(`
		BASE <http://example.org/>
		SELECT ?o WHERE { <a> <name> ?o }`)
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/a", q.Where.Patterns[0].S.Node.(*ld.IRI).Value)
}

func TestPrepareErrors(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"empty", ``},
		{"no form", `PREFIX ex: <http://example.org/>`},
		{"undeclared prefix", `SELECT ?s WHERE { ?s foaf:name ?o }`},
		{"unterminated group", `SELECT ?s WHERE { ?s ?p ?o`},
		{"unterminated iri", `SELECT ?s WHERE { ?s <http://example ?o }`},
		{"unterminated literal", `SELECT ?s WHERE { ?s ?p "abc }`},
		{"literal subject", `SELECT ?s WHERE { "abc" ?p ?o }`},
		{"literal predicate", `SELECT ?s WHERE { ?s "abc" ?o }`},
		{"missing projection", `SELECT WHERE { ?s ?p ?o }`},
		{"bad limit", `SELECT ?s WHERE { ?s ?p ?o } LIMIT nope`},
		{"trailing garbage", `SELECT ?s WHERE { ?s ?p ?o } ORDER`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Prepare(tc.query)
			assert.Error(t, err)
		})
	}
}

func TestPrepareUnsupportedFeatures(t *testing.T) {
	cases := []string{
		`SELECT ?s WHERE { ?s ?p ?o FILTER(?o > 3) }`,
		`SELECT ?s WHERE { { ?s ?p ?o } UNION { ?o ?p ?s } }`,
		`SELECT ?s WHERE { GRAPH ?g { ?s ?p ?o } }`,
	}
	for _, query := range cases {
		_, err := Prepare(query)
		assert.Error(t, err, "query %q should be rejected", query)
	}
}

func TestDetectForm(t *testing.T) {
	cases := []struct {
		query string
		want  Form
	}{
		{`SELECT ?s WHERE { ?s ?p ?o }`, FormSelect},
		{`PREFIX ex: <http://example.org/> ASK { ?s ?p ?o }`, FormAsk},
		{`construct { ?s ?p ?o } where { ?s ?p ?o }`, FormConstruct},
		{`DESCRIBE <http://example.org/a>`, FormDescribe},
	}
	for _, tc := range cases {
		got, err := DetectForm(tc.query)
		require.NoError(t, err, tc.query)
		assert.Equal(t, tc.want, got, tc.query)
	}

	_, err := DetectForm(`PREFIX ex: <http://example.org/>`)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedForm))
}
