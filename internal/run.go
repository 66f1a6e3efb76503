package internal

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/sparq-dev/sparq/dataset"
	"github.com/sparq-dev/sparq/engine"
	"github.com/sparq-dev/sparq/format"
	"github.com/sparq-dev/sparq/qlog"
)

// Options carries one invocation's settings.
type Options struct {
	Args       []string // positional arguments
	InputName  string   // explicit input format name, empty for detection
	OutputName string   // explicit output format name, empty for defaults
	FileQuery  bool
	NoStdin    bool
}

// Engine bundles the external machinery a run delegates to.
type Engine struct {
	Loader     engine.Loader
	Querier    engine.Querier
	Serializer engine.Serializer
}

// Run executes one pipeline pass: resolve inputs and formats, load every
// source into the dataset, harvest prefixes, assemble and execute the
// query, and serialize the outcome. The result is buffered and written to
// w in one piece, so a failure at any stage leaves w untouched.
func Run(w io.Writer, opts Options, eng Engine) error {
	out := format.Unknown
	if opts.OutputName != "" {
		var err error
		if out, err = format.ByName(opts.OutputName); err != nil {
			return err
		}
	}
	in, err := ResolveInputs(opts.Args, opts.FileQuery, opts.NoStdin, opts.InputName)
	if err != nil {
		return err
	}

	ds := dataset.New()
	prefixes := dataset.NewPrefixes()
	for i, src := range in.Sources {
		data, err := readSource(src)
		if err != nil {
			return err
		}
		quads, decls, base, err := eng.Loader.Load(data, src.Format)
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "in %s", src.Name()), ErrParse)
		}
		quads = dataset.ScopeBlankNodes(quads, fmt.Sprintf("s%d", i))
		for _, q := range quads {
			if q.G == nil {
				q.G = src.Graph
			}
			ds.Add(q)
		}
		prefixes.BindAll(decls)
		prefixes.BindBase(base)
		if qlog.V(1) {
			qlog.Infof("loaded %d quads from %s", len(quads), src.Name())
		}
	}

	body := in.Query
	if in.QueryPath != "" {
		b, err := os.ReadFile(in.QueryPath)
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "unable to open query file %q", in.QueryPath), ErrIO)
		}
		body = string(b)
	}

	res, err := eng.Querier.Query(ds, Assemble(body, prefixes))
	if err != nil {
		return errors.Mark(err, ErrQuery)
	}

	var buf bytes.Buffer
	if err := WriteResult(&buf, res, ds, out, prefixes, eng.Serializer); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Mark(errors.Wrap(err, "writing result"), ErrIO)
	}
	return nil
}
