package internal

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/sparq-dev/sparq/format"
	"github.com/sparq-dev/sparq/internal/decompressor"
	"github.com/sparq-dev/sparq/qlog"
)

// Source is one resolved data input. File sources load into the named
// graph derived from their path; stdin loads into the default graph.
type Source struct {
	Path   string // empty for stdin
	Stdin  bool
	Format format.Format
	Graph  rdf.Term // nil for stdin
}

// Name identifies the source in diagnostics.
func (s Source) Name() string {
	if s.Stdin {
		return "stdin"
	}
	return s.Path
}

// Inputs is the resolved plan for a run: data sources in load order plus
// where the query text comes from. Query and QueryPath are mutually
// exclusive; both empty means the empty query.
type Inputs struct {
	Sources   []Source
	Query     string
	QueryPath string
}

// ResolveInputs classifies the positional arguments. Without fileQuery
// the first argument is the query text and the rest are data files. With
// fileQuery every argument is a file and the last one carrying the .rq
// suffix supplies the query; earlier .rq files load as ordinary data.
// Stdin is read when no file arguments are given (unless noStdin), or at
// the position of a - argument. All formats resolve here, before any
// file is opened.
func ResolveInputs(args []string, fileQuery, noStdin bool, inputName string) (*Inputs, error) {
	in := &Inputs{}
	var files []string
	if fileQuery {
		files = args
	} else if len(args) > 0 {
		in.Query = args[0]
		files = args[1:]
	}

	queryIdx := -1
	if fileQuery {
		for i, a := range files {
			if a != "-" && strings.EqualFold(filepath.Ext(a), ".rq") {
				queryIdx = i
			}
		}
		if queryIdx >= 0 {
			in.QueryPath = files[queryIdx]
		}
	}

	stdinSeen := false
	for i, a := range files {
		if i == queryIdx {
			continue
		}
		if a == "-" {
			if stdinSeen {
				continue
			}
			stdinSeen = true
			f, err := sourceFormat(inputName, "")
			if err != nil {
				return nil, err
			}
			in.Sources = append(in.Sources, Source{Stdin: true, Format: f})
			continue
		}
		path := a
		if fileQuery && strings.EqualFold(filepath.Ext(a), ".rq") {
			// A query file shadowed by a later one. It still loads, as
			// data, under the default input format.
			qlog.Warningf("query file %q is shadowed by %q; loading it as data", a, in.QueryPath)
			path = ""
		}
		f, err := sourceFormat(inputName, path)
		if err != nil {
			return nil, err
		}
		in.Sources = append(in.Sources, Source{Path: a, Format: f, Graph: rdf.IRI{Value: fileIRI(a)}})
	}

	if len(files) == 0 && !noStdin {
		f, err := sourceFormat(inputName, "")
		if err != nil {
			return nil, err
		}
		in.Sources = append(in.Sources, Source{Stdin: true, Format: f})
	}
	return in, nil
}

func sourceFormat(inputName, path string) (format.Format, error) {
	f, err := format.Resolve(inputName, path)
	if err != nil {
		return format.Unknown, err
	}
	if f.Tabular() {
		return format.Unknown, errors.Wrapf(format.ErrUnknownFormat, "%s cannot encode RDF data", f)
	}
	return f, nil
}

// fileIRI derives the graph name for a file source from its path as
// given: absolute paths gain a host-less file:// authority, relative
// paths stay relative so the name is stable across runs from the same
// directory.
func fileIRI(path string) string {
	iri := "file:" + path
	if strings.HasPrefix(path, "/") {
		iri = "file://" + path
	}
	return strings.ReplaceAll(iri, " ", "%20")
}

// readSource slurps one source, transparently decompressing gzip and
// bzip2 content. An empty stream is an empty document, not an error.
func readSource(src Source) ([]byte, error) {
	var r io.Reader
	if src.Stdin {
		r = os.Stdin
	} else {
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "unable to open file %q", src.Path), ErrIO)
		}
		defer f.Close()
		r = f
	}
	dr, err := decompressor.New(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Mark(errors.Wrapf(err, "reading %s", src.Name()), ErrIO)
	}
	data, err := io.ReadAll(dr)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "reading %s", src.Name()), ErrIO)
	}
	return data, nil
}
