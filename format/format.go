// Package format enumerates the syntaxes sparq reads and writes: RDF
// graph/dataset encodings plus the tabular SPARQL results encodings.
// The set is closed; callers dispatch with exhaustive switches rather
// than through a registry.
package format

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownFormat is returned for unrecognized format names and for file
// suffixes outside the catalog.
var ErrUnknownFormat = errors.New("unknown format")

// Format identifies one supported syntax.
type Format int

const (
	Unknown Format = iota
	TriG
	Turtle
	NQuads
	NTriples
	RDFXML
	JSONLD
	TSV
	CSV
	JSON
	SRX
)

// DefaultInput is the format assumed for stdin when no flag or suffix
// applies. TriG reads plain Turtle too.
const DefaultInput = TriG

// DefaultOutput is the format for dataset and graph results when none is
// requested.
const DefaultOutput = TriG

// DefaultResults is the format for bindings and boolean results when none
// is requested.
const DefaultResults = TSV

func (f Format) String() string {
	switch f {
	case TriG:
		return "trig"
	case Turtle:
		return "turtle"
	case NQuads:
		return "nquads"
	case NTriples:
		return "ntriples"
	case RDFXML:
		return "rdfxml"
	case JSONLD:
		return "jsonld"
	case TSV:
		return "tsv"
	case CSV:
		return "csv"
	case JSON:
		return "json"
	case SRX:
		return "srx"
	default:
		return "unknown"
	}
}

// SupportsDataset reports whether the format can encode multiple named
// graphs. Single-graph formats trigger the default-graph/named-graph
// fallback policy on output.
func (f Format) SupportsDataset() bool {
	switch f {
	case TriG, NQuads, JSONLD:
		return true
	default:
		return false
	}
}

// Tabular reports whether the format encodes SPARQL results tables and
// booleans rather than RDF data. Tabular formats are output-only.
func (f Format) Tabular() bool {
	switch f {
	case TSV, CSV, JSON, SRX:
		return true
	default:
		return false
	}
}

// ByName resolves a format name or alias.
func ByName(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "trig":
		return TriG, nil
	case "turtle", "ttl":
		return Turtle, nil
	case "nquads", "nq":
		return NQuads, nil
	case "ntriples", "nt":
		return NTriples, nil
	case "rdfxml", "rdf", "xml":
		return RDFXML, nil
	case "jsonld", "json-ld":
		return JSONLD, nil
	case "tsv":
		return TSV, nil
	case "csv":
		return CSV, nil
	case "json", "srj":
		return JSON, nil
	case "srx":
		return SRX, nil
	default:
		return Unknown, errors.Wrapf(ErrUnknownFormat, "name %q", name)
	}
}

// ByExt resolves a file suffix such as ".ttl".
func ByExt(ext string) (Format, error) {
	switch strings.ToLower(ext) {
	case ".trig":
		return TriG, nil
	case ".ttl":
		return Turtle, nil
	case ".nq":
		return NQuads, nil
	case ".nt":
		return NTriples, nil
	case ".rdf", ".xml":
		return RDFXML, nil
	case ".jsonld":
		return JSONLD, nil
	case ".tsv":
		return TSV, nil
	case ".csv":
		return CSV, nil
	case ".json", ".srj":
		return JSON, nil
	case ".srx":
		return SRX, nil
	default:
		return Unknown, errors.Wrapf(ErrUnknownFormat, "suffix %q", ext)
	}
}

// ByPath resolves a format from a file path, ignoring a trailing
// compression suffix.
func ByPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".gz", ".bz2":
		ext = filepath.Ext(strings.TrimSuffix(path, ext))
	}
	f, err := ByExt(ext)
	if err != nil {
		return Unknown, errors.Wrapf(ErrUnknownFormat, "path %q", path)
	}
	return f, nil
}

// Resolve determines the format of an input source. An explicit name
// always wins; otherwise the path suffix decides; stdin sources with no
// override get the default.
func Resolve(explicit, path string) (Format, error) {
	if explicit != "" {
		return ByName(explicit)
	}
	if path == "" || path == "-" {
		return DefaultInput, nil
	}
	return ByPath(path)
}

// Names lists the canonical format names, for flag help.
func Names() []string {
	all := []Format{TriG, Turtle, NQuads, NTriples, RDFXML, JSONLD, TSV, CSV, JSON, SRX}
	names := make([]string, 0, len(all))
	for _, f := range all {
		names = append(names, f.String())
	}
	return names
}
