package rdfio

import (
	"bytes"
	"testing"

	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/stretchr/testify/require"

	"github.com/sparq-dev/sparq/dataset"
	"github.com/sparq-dev/sparq/engine"
	"github.com/sparq-dev/sparq/format"
)

func TestLoadNQuads(t *testing.T) {
	quads, decls, base, err := New().Load([]byte(
		"<http://example.org/s> <http://example.org/p> \"v\" .\n"+
			"<http://example.org/s> <http://example.org/p> \"w\" <http://example.org/g> .\n",
	), format.NQuads)
	require.NoError(t, err)
	require.Empty(t, decls)
	require.Empty(t, base)
	require.Len(t, quads, 2)

	require.Equal(t, rdf.IRI{Value: "http://example.org/s"}, quads[0].S)
	require.Equal(t, rdf.IRI{Value: "http://example.org/p"}, quads[0].P)
	require.Equal(t, "v", quads[0].O.(rdf.Literal).Lexical)
	require.Nil(t, quads[0].G)

	require.Equal(t, "w", quads[1].O.(rdf.Literal).Lexical)
	require.Equal(t, rdf.IRI{Value: "http://example.org/g"}, quads[1].G)
}

func TestLoadTurtleHarvestsDirectives(t *testing.T) {
	quads, decls, base, err := New().Load([]byte(
		"@base <http://example.org/> .\n@prefix ex: <http://example.org/ns#> .\nex:s ex:p ex:o .\n",
	), format.Turtle)
	require.NoError(t, err)
	require.Len(t, quads, 1)
	require.Nil(t, quads[0].G)
	require.Equal(t, []dataset.PrefixDecl{{Label: "ex", IRI: "http://example.org/ns#"}}, decls)
	require.Equal(t, "http://example.org/", base)
}

func TestLoadRejectsTabular(t *testing.T) {
	_, _, _, err := New().Load([]byte("?x\n"), format.TSV)
	require.ErrorIs(t, err, format.ErrUnknownFormat)
}

func TestSerializeRejectsTabular(t *testing.T) {
	err := New().Serialize(&bytes.Buffer{}, nil, format.CSV, engine.SerializeHints{})
	require.ErrorIs(t, err, format.ErrUnknownFormat)
}

func TestRoundTripTurtle(t *testing.T) {
	in := []rdf.Quad{
		{S: rdf.IRI{Value: "http://example.org/ns#s"}, P: rdf.IRI{Value: "http://example.org/ns#p"}, O: rdf.IRI{Value: "http://example.org/ns#o"}},
		{S: rdf.IRI{Value: "http://example.org/ns#s"}, P: rdf.IRI{Value: "http://example.org/ns#q"}, O: rdf.Literal{Lexical: "10", Datatype: rdf.IRI{Value: "http://www.w3.org/2001/XMLSchema#integer"}}},
	}
	var buf bytes.Buffer
	err := New().Serialize(&buf, in, format.Turtle, engine.SerializeHints{
		Prefixes: map[string]string{"ex": "http://example.org/ns#"},
	})
	require.NoError(t, err)

	out, _, _, err := New().Load(buf.Bytes(), format.Turtle)
	require.NoError(t, err)
	require.ElementsMatch(t, in, out)
}

func TestRoundTripTriGKeepsGraphs(t *testing.T) {
	in := []rdf.Quad{
		{S: rdf.IRI{Value: "http://example.org/ns#s"}, P: rdf.IRI{Value: "http://example.org/ns#p"}, O: rdf.Literal{Lexical: "default"}},
		{S: rdf.IRI{Value: "http://example.org/ns#s"}, P: rdf.IRI{Value: "http://example.org/ns#p"}, O: rdf.Literal{Lexical: "named"}, G: rdf.IRI{Value: "http://example.org/g"}},
	}
	var buf bytes.Buffer
	err := New().Serialize(&buf, in, format.TriG, engine.SerializeHints{
		Prefixes: map[string]string{"ex": "http://example.org/ns#"},
	})
	require.NoError(t, err)

	out, _, _, err := New().Load(buf.Bytes(), format.TriG)
	require.NoError(t, err)
	require.ElementsMatch(t, in, out)
}
