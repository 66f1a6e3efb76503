package rdfio

import (
	"strings"

	"github.com/sparq-dev/sparq/dataset"
)

// scanDirectives extracts prefix and base declarations from Turtle-family
// text in document order. The codecs resolve directives internally but do
// not surface their tables, so the loader recovers them from the raw
// bytes. Line-based and best-effort: a directive split across lines is
// not recognized.
func scanDirectives(data []byte) ([]dataset.PrefixDecl, string) {
	var decls []dataset.PrefixDecl
	var base string
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case hasDirective(line, "@prefix"), hasDirective(line, "prefix"):
			if label, iri, ok := splitPrefixDirective(line); ok {
				decls = append(decls, dataset.PrefixDecl{Label: label, IRI: iri})
			}
		case hasDirective(line, "@base"), hasDirective(line, "base"):
			if iri, ok := splitBaseDirective(line); ok && base == "" {
				base = iri
			}
		}
	}
	return decls, base
}

// hasDirective reports whether line opens with the keyword followed by
// whitespace, so prefixed names like "prefix:x" never match.
func hasDirective(line, keyword string) bool {
	if len(line) <= len(keyword) || !strings.EqualFold(line[:len(keyword)], keyword) {
		return false
	}
	c := line[len(keyword)]
	return c == ' ' || c == '\t'
}

func splitPrefixDirective(line string) (string, string, bool) {
	parts := strings.Fields(line)
	if len(parts) < 3 || !strings.HasSuffix(parts[1], ":") {
		return "", "", false
	}
	label := strings.TrimSuffix(parts[1], ":")
	iri, ok := innerIRI(parts[2])
	return label, iri, ok
}

func splitBaseDirective(line string) (string, bool) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return "", false
	}
	return innerIRI(parts[1])
}

func innerIRI(tok string) (string, bool) {
	if !strings.HasPrefix(tok, "<") {
		return "", false
	}
	end := strings.IndexByte(tok, '>')
	if end <= 0 {
		return "", false
	}
	return tok[1:end], true
}
