package endpoint

import (
	"encoding/json"

	"github.com/piprate/json-gold/ld"

	"github.com/wurlab/sparq/errors"
	"github.com/wurlab/sparq/sparql"
)

// srjTerm is one RDF term of a SPARQL-results-JSON document (W3C
// sparql11-results-json). Virtuoso's legacy "typed-literal" type is
// accepted as a literal.
type srjTerm struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

type srjDocument struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Boolean *bool `json:"boolean,omitempty"`
	Results *struct {
		Bindings []map[string]srjTerm `json:"bindings"`
	} `json:"results,omitempty"`
}

func decodeResultsJSON(body []byte) (*sparql.Results, error) {
	var doc srjDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode sparql results json")
	}
	if doc.Results == nil {
		return nil, errors.New("sparql results json has no results member")
	}

	rows := make([]sparql.Solution, 0, len(doc.Results.Bindings))
	for _, row := range doc.Results.Bindings {
		terms := make(map[string]ld.Node, len(row))
		for name, term := range row {
			node, err := decodeTerm(term)
			if err != nil {
				return nil, errors.Wrapf(err, "variable %q", name)
			}
			terms[name] = node
		}
		rows = append(rows, sparql.NewSolution(doc.Head.Vars, terms))
	}
	return sparql.NewResults(doc.Head.Vars, rows), nil
}

func decodeBooleanJSON(body []byte) (bool, error) {
	var doc srjDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return false, errors.Wrap(err, "failed to decode sparql results json")
	}
	if doc.Boolean == nil {
		return false, errors.New("sparql results json has no boolean member")
	}
	return *doc.Boolean, nil
}

func decodeTerm(t srjTerm) (ld.Node, error) {
	switch t.Type {
	case "uri":
		return ld.NewIRI(t.Value), nil
	case "literal", "typed-literal":
		switch {
		case t.Lang != "":
			return ld.NewLiteral(t.Value, ld.RDFLangString, t.Lang), nil
		case t.Datatype != "":
			return ld.NewLiteral(t.Value, t.Datatype, ""), nil
		}
		return ld.NewLiteral(t.Value, ld.XSDString, ""), nil
	case "bnode":
		return ld.NewBlankNode("_:" + t.Value), nil
	}
	return nil, errors.Newf("unknown term type %q", t.Type)
}
