// Package rdfio adapts the rdf-go codecs to the engine boundary: bytes in,
// quads plus harvested directives out, and quads back to bytes with prefix
// hints applied.
package rdfio

import (
	"bytes"
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/sparq-dev/sparq/dataset"
	"github.com/sparq-dev/sparq/engine"
	"github.com/sparq-dev/sparq/format"
)

// IO implements engine.Loader and engine.Serializer.
type IO struct{}

// New returns the codec adapter.
func New() IO { return IO{} }

// codecName maps catalog formats to rdf-go codec names. Tabular formats
// have no RDF codec and map to the empty name.
func codecName(f format.Format) string {
	switch f {
	case format.TriG:
		return "trig"
	case format.Turtle:
		return "turtle"
	case format.NQuads:
		return "nquads"
	case format.NTriples:
		return "ntriples"
	case format.RDFXML:
		return "rdfxml"
	case format.JSONLD:
		return "jsonld"
	default:
		return ""
	}
}

// Load parses data and, for Turtle-family syntaxes, scans it for prefix
// and base directives in document order.
func (IO) Load(data []byte, f format.Format) ([]rdf.Quad, []dataset.PrefixDecl, string, error) {
	name := codecName(f)
	if name == "" {
		return nil, nil, "", errors.Wrapf(format.ErrUnknownFormat, "%s is not an input format", f)
	}
	quads, err := rdf.ParseAny(context.Background(), bytes.NewReader(data), name, rdf.AnyFormatOptions{})
	if err != nil {
		return nil, nil, "", err
	}
	var decls []dataset.PrefixDecl
	var base string
	switch f {
	case format.TriG, format.Turtle:
		decls, base = scanDirectives(data)
	}
	return quads, decls, base, nil
}

// Serialize encodes quads in an RDF format, passing harvested prefixes
// and base to the encoders that accept them.
func (IO) Serialize(w io.Writer, quads []rdf.Quad, f format.Format, hints engine.SerializeHints) error {
	name := codecName(f)
	if name == "" {
		return errors.Wrapf(format.ErrUnknownFormat, "%s cannot encode RDF data", f)
	}
	var opts rdf.AnyFormatOptions
	switch f {
	case format.Turtle:
		opts.Turtle = &rdf.TurtleEncodeOptions{Prefixes: hints.Prefixes, BaseIRI: hints.Base}
	case format.TriG:
		opts.TriG = &rdf.TriGEncodeOptions{Prefixes: hints.Prefixes, BaseIRI: hints.Base}
	case format.RDFXML:
		opts.RDFXML = &rdf.RDFXMLEncodeOptions{Prefixes: hints.Prefixes, BaseIRI: hints.Base}
	}
	return rdf.SerializeAny(context.Background(), w, name, quads, opts)
}
