package internal

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/sparq-dev/sparq/dataset"
	"github.com/sparq-dev/sparq/engine"
	"github.com/sparq-dev/sparq/engine/results"
	"github.com/sparq-dev/sparq/format"
)

// WriteResult serializes a run's outcome. Bindings and booleans go
// through the results encoders, defaulting to TSV. Graph-class outcomes
// serialize RDF: an update dumps the whole mutated dataset, a construct
// or describe replaces it with the fresh graph the query built. out is
// format.Unknown when no output format was requested.
func WriteResult(w io.Writer, res *engine.Result, ds *dataset.Dataset, out format.Format, p *dataset.Prefixes, ser engine.Serializer) error {
	switch res.Form {
	case engine.FormSelect, engine.FormAsk:
		f := out
		if f == format.Unknown {
			f = format.DefaultResults
		}
		return results.Write(w, res, f)
	case engine.FormConstruct, engine.FormDescribe:
		built := dataset.New()
		for _, t := range res.Triples {
			built.Insert(t)
		}
		ds = built
	}
	f := out
	if f == format.Unknown {
		f = format.DefaultOutput
	}
	return writeGraph(w, ds, f, p, ser)
}

// writeGraph applies the dataset-versus-single-graph policy. Dataset
// formats take every graph. Single-graph formats take the default graph,
// or the first named graph populated in load order when the default
// graph is empty; its triples are emitted without the graph name. An
// empty dataset still yields a well-formed empty document.
func writeGraph(w io.Writer, ds *dataset.Dataset, f format.Format, p *dataset.Prefixes, ser engine.Serializer) error {
	if f.Tabular() {
		return errors.Wrapf(format.ErrUnknownFormat, "%s cannot encode RDF data", f)
	}
	hints := engine.SerializeHints{Prefixes: p.Map(), Base: p.Base()}
	if f.SupportsDataset() {
		return ser.Serialize(w, ds.Quads(), f, hints)
	}
	var quads []rdf.Quad
	if g := ds.FirstNonEmpty(); g != nil {
		quads = g.Quads()
	}
	return ser.Serialize(w, quads, f, hints)
}
