// Package sparql implements the query layer sparq's local target runs on:
// a parser and evaluator for a SPARQL subset (basic graph patterns,
// OPTIONAL, DISTINCT, LIMIT across SELECT, ASK, CONSTRUCT and DESCRIBE),
// and the Results binding sequence shared with the remote endpoint client.
//
// Full SPARQL (FILTER, UNION, property paths, aggregates) is out of scope
// here; remote endpoints provide it.
package sparql

import (
	"strings"

	"github.com/wurlab/sparq/errors"
)

// Form identifies the SPARQL query form. It determines which execution
// method applies and the shape of the raw result: SELECT yields a binding
// sequence, ASK a boolean, CONSTRUCT and DESCRIBE a graph.
type Form int

const (
	FormSelect Form = iota
	FormAsk
	FormConstruct
	FormDescribe
)

// String returns the SPARQL keyword for the form.
func (f Form) String() string {
	switch f {
	case FormSelect:
		return "SELECT"
	case FormAsk:
		return "ASK"
	case FormConstruct:
		return "CONSTRUCT"
	case FormDescribe:
		return "DESCRIBE"
	}
	return "UNKNOWN"
}

// DetectForm scans past the prologue of a query string and reports its
// form. Used by callers that route on form without preparing the query.
func DetectForm(query string) (Form, error) {
	for _, field := range strings.Fields(query) {
		switch strings.ToUpper(field) {
		case "SELECT":
			return FormSelect, nil
		case "ASK":
			return FormAsk, nil
		case "CONSTRUCT":
			return FormConstruct, nil
		case "DESCRIBE":
			return FormDescribe, nil
		}
	}
	return FormSelect, errors.Wrapf(errors.ErrUnsupportedForm, "no query form keyword in %q", query)
}
