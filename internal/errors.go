// Package internal implements the sparq run pipeline: resolving input
// sources, loading them into the dataset, harvesting prefixes, assembling
// and executing the query, and serializing the outcome. The run is a
// one-shot sequence with no partial recovery; the first failure aborts it.
package internal

import "github.com/cockroachdb/errors"

// The pipeline tags every failure with the stage it belongs to. Format
// resolution failures carry format.ErrUnknownFormat and happen before any
// I/O; the marks below cover the stages after it.
var (
	// ErrIO marks unreadable sources and unwritable output.
	ErrIO = errors.New("i/o error")
	// ErrParse marks malformed RDF in a data source.
	ErrParse = errors.New("parse error")
	// ErrQuery marks SPARQL parse and evaluation failures.
	ErrQuery = errors.New("query error")
)
