package rdf

import (
	"io"

	"github.com/piprate/json-gold/ld"

	"github.com/wurlab/sparq/errors"
)

// ReadNQuads parses N-Quads (or N-Triples) from r into a new graph.
// Named-graph components are folded into the single triple set.
func ReadNQuads(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read n-quads input")
	}

	serializer := &ld.NQuadRDFSerializer{}
	dataset, err := serializer.Parse(string(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse n-quads")
	}

	g := NewGraph()
	for _, quads := range dataset.Graphs {
		for _, q := range quads {
			g.AddQuad(q)
		}
	}
	return g, nil
}

// WriteNQuads serializes the graph to w as N-Quads in the default graph.
func WriteNQuads(w io.Writer, g *Graph) error {
	dataset := ld.NewRDFDataset()
	dataset.Graphs["@default"] = g.Quads()

	serializer := &ld.NQuadRDFSerializer{}
	if err := serializer.SerializeTo(w, dataset); err != nil {
		return errors.Wrap(err, "failed to serialize n-quads")
	}
	return nil
}
