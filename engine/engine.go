// Package engine defines the boundary to the external RDF and SPARQL
// machinery: loading bytes into quads, evaluating query text against the
// dataset, and serializing quads back out. The pipeline depends only on
// these interfaces; the adapters live in subpackages.
package engine

import (
	"io"

	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/sparq-dev/sparq/dataset"
	"github.com/sparq-dev/sparq/format"
)

// Form is the SPARQL form of an executed query, which determines the
// shape of its result.
type Form int

const (
	FormSelect Form = iota
	FormAsk
	FormConstruct
	FormDescribe
	FormUpdate
)

func (f Form) String() string {
	switch f {
	case FormSelect:
		return "select"
	case FormAsk:
		return "ask"
	case FormConstruct:
		return "construct"
	case FormDescribe:
		return "describe"
	case FormUpdate:
		return "update"
	default:
		return "invalid"
	}
}

// Result is the outcome of one execution. The payload field that applies
// follows the form: Vars/Rows for select, Bool for ask, Triples for
// construct and describe. Updates mutate the dataset in place and carry
// no payload.
type Result struct {
	Form    Form
	Vars    []string
	Rows    [][]rdf.Term // cells align with Vars; a nil cell is unbound
	Bool    bool
	Triples []rdf.Triple
}

// Loader parses one source's bytes, surfacing the parsed quads together
// with the prefix and base declarations the document carries. Reading the
// bytes is the caller's job, which keeps unreadable-source errors apart
// from malformed-content errors.
type Loader interface {
	Load(data []byte, f format.Format) (quads []rdf.Quad, decls []dataset.PrefixDecl, base string, err error)
}

// Querier parses and evaluates a query or update. Updates mutate ds in
// place; the returned result reports the form either way.
type Querier interface {
	Query(ds *dataset.Dataset, text string) (*Result, error)
}

// SerializeHints passes harvested prefix and base information to encoders
// that can abbreviate with it.
type SerializeHints struct {
	Prefixes map[string]string
	Base     string
}

// Serializer encodes quads in an RDF graph or dataset format.
type Serializer interface {
	Serialize(w io.Writer, quads []rdf.Quad, f format.Format, hints SerializeHints) error
}
