// Package rdf provides the in-memory triple graph sparq queries against.
//
// Terms are the ld.Node types from piprate/json-gold (IRI, Literal,
// BlankNode); Graph is an insertion-ordered, deduplicated set of triples
// with wildcard matching.
package rdf

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/piprate/json-gold/ld"
)

// TermString returns the canonical lexical form of a term: the IRI value,
// the literal's lexical form, or the blank-node label. This is the
// rendering the result projector emits, so it must stay stable across
// releases — downstream callers compare these strings for equality.
func TermString(node ld.Node) string {
	switch n := node.(type) {
	case *ld.IRI:
		return n.Value
	case *ld.Literal:
		return n.Value
	case *ld.BlankNode:
		return n.Attribute
	}
	if node == nil {
		return ""
	}
	return node.GetValue()
}

// termKey returns an injective encoding of a term, distinguishing the
// IRI <x> from the literal "x". Used for graph deduplication.
func termKey(node ld.Node) string {
	switch n := node.(type) {
	case *ld.IRI:
		return "<" + n.Value + ">"
	case *ld.BlankNode:
		return n.Attribute
	case *ld.Literal:
		key := strconv.Quote(n.Value)
		if n.Language != "" {
			key += "@" + n.Language
		}
		if n.Datatype != "" && n.Datatype != ld.XSDString {
			key += "^^<" + n.Datatype + ">"
		}
		return key
	}
	if node == nil {
		return ""
	}
	return node.GetValue()
}

// NewBlankNode returns a blank node with a fresh process-unique label.
func NewBlankNode() *ld.BlankNode {
	label := strings.ReplaceAll(uuid.NewString(), "-", "")
	return ld.NewBlankNode("_:b" + label[:12])
}
