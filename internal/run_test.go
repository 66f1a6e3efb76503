package internal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/stretchr/testify/require"

	"github.com/sparq-dev/sparq/dataset"
	"github.com/sparq-dev/sparq/engine"
	"github.com/sparq-dev/sparq/format"
)

// fakeEngine implements the three engine boundaries over a line protocol
// so pipeline behavior can be asserted without real codecs:
//
//	quad S P O [G]
//	bnode ID P O
//	prefix label iri
//	base iri
type fakeEngine struct {
	gotQuery   string
	result     *engine.Result
	queryErr   error
	parseErr   error
	serialized []rdf.Quad
	outFormat  format.Format
	hints      engine.SerializeHints
}

func (f *fakeEngine) Load(data []byte, _ format.Format) ([]rdf.Quad, []dataset.PrefixDecl, string, error) {
	if f.parseErr != nil {
		return nil, nil, "", f.parseErr
	}
	var quads []rdf.Quad
	var decls []dataset.PrefixDecl
	var base string
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quad":
			q := rdf.Quad{S: iri(fields[1]), P: iri(fields[2]), O: iri(fields[3])}
			if len(fields) == 5 {
				q.G = iri(fields[4])
			}
			quads = append(quads, q)
		case "bnode":
			quads = append(quads, rdf.Quad{S: rdf.BlankNode{ID: fields[1]}, P: iri(fields[2]), O: iri(fields[3])})
		case "prefix":
			decls = append(decls, dataset.PrefixDecl{Label: fields[1], IRI: fields[2]})
		case "base":
			base = fields[1]
		}
	}
	return quads, decls, base, nil
}

func (f *fakeEngine) Query(_ *dataset.Dataset, text string) (*engine.Result, error) {
	f.gotQuery = text
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &engine.Result{Form: engine.FormUpdate}, nil
}

func (f *fakeEngine) Serialize(w io.Writer, quads []rdf.Quad, of format.Format, hints engine.SerializeHints) error {
	f.serialized = quads
	f.outFormat = of
	f.hints = hints
	fmt.Fprintf(w, "serialized %d quads", len(quads))
	return nil
}

func (f *fakeEngine) eng() Engine {
	return Engine{Loader: f, Querier: f, Serializer: f}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunLoadsFilesIntoNamedGraphs(t *testing.T) {
	a := writeTemp(t, "a.ttl", "quad http://x/s1 http://x/p http://x/o\nprefix ex http://example.org/\n")
	b := writeTemp(t, "b.ttl", "quad http://x/s2 http://x/p http://x/o\nprefix ex http://other.org/\nprefix foaf http://xmlns.com/foaf/0.1/\n")

	fe := &fakeEngine{}
	var buf bytes.Buffer
	err := Run(&buf, Options{Args: []string{"", a, b}}, fe.eng())
	require.NoError(t, err)

	require.Len(t, fe.serialized, 2)
	require.Equal(t, iri(fileIRI(a)), fe.serialized[0].G)
	require.Equal(t, iri(fileIRI(b)), fe.serialized[1].G)

	// First declaration of a label wins across sources.
	require.Equal(t, "http://example.org/", fe.hints.Prefixes["ex"])
	require.Equal(t, "http://xmlns.com/foaf/0.1/", fe.hints.Prefixes["foaf"])

	// The empty query still gets the harvested declarations prepended.
	require.Equal(t, "PREFIX ex: <http://example.org/>\nPREFIX foaf: <http://xmlns.com/foaf/0.1/>\n", fe.gotQuery)
}

func TestRunScopesBlankNodesPerSource(t *testing.T) {
	a := writeTemp(t, "a.ttl", "bnode b0 http://x/p http://x/o\n")
	b := writeTemp(t, "b.ttl", "bnode b0 http://x/p http://x/o\n")

	fe := &fakeEngine{}
	var buf bytes.Buffer
	err := Run(&buf, Options{Args: []string{"", a, b}}, fe.eng())
	require.NoError(t, err)

	require.Len(t, fe.serialized, 2)
	ids := map[string]bool{}
	for _, q := range fe.serialized {
		ids[q.S.(rdf.BlankNode).ID] = true
	}
	require.Len(t, ids, 2, "blank labels from different sources must not collide")
}

func TestRunQueryFromFile(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "a.ttl")
	require.NoError(t, os.WriteFile(data, []byte("quad http://x/s http://x/p http://x/o\nprefix ex http://example.org/\n"), 0644))
	query := filepath.Join(dir, "q.rq")
	require.NoError(t, os.WriteFile(query, []byte("ASK {}"), 0644))

	fe := &fakeEngine{result: &engine.Result{Form: engine.FormAsk, Bool: true}}
	var buf bytes.Buffer
	err := Run(&buf, Options{Args: []string{data, query}, FileQuery: true}, fe.eng())
	require.NoError(t, err)
	require.Equal(t, "PREFIX ex: <http://example.org/>\nASK {}", fe.gotQuery)
	require.Equal(t, "true\n", buf.String())
}

func TestRunStdinAtDashPosition(t *testing.T) {
	a := writeTemp(t, "a.ttl", "quad http://x/s1 http://x/p http://x/o\nprefix ex http://file-a.org/\n")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdin
	os.Stdin = r
	t.Cleanup(func() { os.Stdin = orig })
	go func() {
		w.WriteString("quad http://x/s2 http://x/p http://x/o\nprefix ex http://stdin.org/\n")
		w.Close()
	}()

	fe := &fakeEngine{}
	var buf bytes.Buffer
	err = Run(&buf, Options{Args: []string{"", a, "-"}}, fe.eng())
	require.NoError(t, err)

	// The dataset flattens default graph first, named graphs after.
	require.Len(t, fe.serialized, 2)
	require.Nil(t, fe.serialized[0].G, "stdin loads into the default graph")
	require.Equal(t, iri(fileIRI(a)), fe.serialized[1].G)
	require.Equal(t, "http://file-a.org/", fe.hints.Prefixes["ex"], "file loads before the - position")
}

func TestRunParseFailureAborts(t *testing.T) {
	a := writeTemp(t, "a.ttl", "quad http://x/s http://x/p http://x/o\n")
	fe := &fakeEngine{parseErr: fmt.Errorf("boom at line 3")}
	var buf bytes.Buffer
	err := Run(&buf, Options{Args: []string{"", a}}, fe.eng())
	require.ErrorIs(t, err, ErrParse)
	require.Contains(t, err.Error(), a)
	require.Empty(t, buf.String())
}

func TestRunQueryFailureAborts(t *testing.T) {
	a := writeTemp(t, "a.ttl", "quad http://x/s http://x/p http://x/o\n")
	fe := &fakeEngine{queryErr: fmt.Errorf("no such token")}
	var buf bytes.Buffer
	err := Run(&buf, Options{Args: []string{"SELECT", a}}, fe.eng())
	require.ErrorIs(t, err, ErrQuery)
	require.Empty(t, buf.String())
}

func TestRunMissingFile(t *testing.T) {
	fe := &fakeEngine{}
	var buf bytes.Buffer
	err := Run(&buf, Options{Args: []string{"", "does-not-exist.ttl"}}, fe.eng())
	require.ErrorIs(t, err, ErrIO)
	require.Contains(t, err.Error(), "does-not-exist.ttl")
	require.Empty(t, buf.String())
}

func TestRunMissingQueryFile(t *testing.T) {
	a := writeTemp(t, "a.ttl", "quad http://x/s http://x/p http://x/o\n")
	fe := &fakeEngine{}
	var buf bytes.Buffer
	err := Run(&buf, Options{Args: []string{a, "does-not-exist.rq"}, FileQuery: true}, fe.eng())
	require.ErrorIs(t, err, ErrIO)
	require.Empty(t, buf.String())
}

func TestRunFormatsResolveBeforeIO(t *testing.T) {
	fe := &fakeEngine{}
	var buf bytes.Buffer
	err := Run(&buf, Options{Args: []string{"", "does-not-exist.ttl"}, OutputName: "bogus"}, fe.eng())
	require.ErrorIs(t, err, format.ErrUnknownFormat)
	require.NotErrorIs(t, err, ErrIO)
}
