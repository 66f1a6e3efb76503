// Package results encodes SPARQL query results. Bindings tables and
// booleans are written in the W3C result formats: tab-separated values,
// comma-separated values, JSON, and XML.
package results

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/geoknoesis/rdf-go/rdf"

	"github.com/sparq-dev/sparq/engine"
	"github.com/sparq-dev/sparq/format"
)

const xsdString = "http://www.w3.org/2001/XMLSchema#string"

// Write encodes a bindings table or boolean result in f.
func Write(w io.Writer, res *engine.Result, f format.Format) error {
	switch f {
	case format.TSV:
		return writeTSV(w, res)
	case format.CSV:
		return writeCSV(w, res)
	case format.JSON:
		return writeJSON(w, res)
	case format.SRX:
		return writeSRX(w, res)
	default:
		return errors.Wrapf(format.ErrUnknownFormat, "%s cannot encode query results", f)
	}
}

// writeTSV writes the header row of ?-prefixed variables, then one term
// per cell in N-Triples syntax. Unbound cells are empty. Booleans are a
// bare true/false line.
func writeTSV(w io.Writer, res *engine.Result) error {
	if res.Form == engine.FormAsk {
		_, err := fmt.Fprintf(w, "%t\n", res.Bool)
		return err
	}
	var b strings.Builder
	for i, v := range res.Vars {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteByte('?')
		b.WriteString(v)
	}
	b.WriteByte('\n')
	for _, row := range res.Rows {
		for i := range res.Vars {
			if i > 0 {
				b.WriteByte('\t')
			}
			if i < len(row) && row[i] != nil {
				b.WriteString(ntriplesTerm(row[i]))
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeCSV writes bare variable names and plain lexical forms, quoted per
// RFC 4180 with CRLF line endings.
func writeCSV(w io.Writer, res *engine.Result) error {
	if res.Form == engine.FormAsk {
		_, err := fmt.Fprintf(w, "%t\r\n", res.Bool)
		return err
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(res.Vars); err != nil {
		return err
	}
	rec := make([]string, len(res.Vars))
	for _, row := range res.Rows {
		for i := range rec {
			rec[i] = ""
			if i < len(row) && row[i] != nil {
				rec[i] = plainTerm(row[i])
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonDoc struct {
	Head    jsonHead     `json:"head"`
	Boolean *bool        `json:"boolean,omitempty"`
	Results *jsonResults `json:"results,omitempty"`
}

type jsonHead struct {
	Vars []string `json:"vars,omitempty"`
}

type jsonResults struct {
	Bindings []map[string]jsonTerm `json:"bindings"`
}

type jsonTerm struct {
	Type     string `json:"type"`
	Value    any    `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

func jsonTermOf(t rdf.Term) jsonTerm {
	switch v := t.(type) {
	case rdf.IRI:
		return jsonTerm{Type: "uri", Value: v.Value}
	case rdf.BlankNode:
		return jsonTerm{Type: "bnode", Value: v.ID}
	case rdf.Literal:
		jt := jsonTerm{Type: "literal", Value: v.Lexical, Lang: v.Lang}
		if v.Lang == "" && v.Datatype.Value != "" && v.Datatype.Value != xsdString {
			jt.Datatype = v.Datatype.Value
		}
		return jt
	case rdf.TripleTerm:
		return jsonTerm{Type: "triple", Value: map[string]jsonTerm{
			"subject":   jsonTermOf(v.S),
			"predicate": jsonTermOf(v.P),
			"object":    jsonTermOf(v.O),
		}}
	}
	return jsonTerm{}
}

func writeJSON(w io.Writer, res *engine.Result) error {
	var doc jsonDoc
	if res.Form == engine.FormAsk {
		doc.Boolean = &res.Bool
	} else {
		doc.Head.Vars = res.Vars
		bindings := make([]map[string]jsonTerm, 0, len(res.Rows))
		for _, row := range res.Rows {
			b := make(map[string]jsonTerm, len(res.Vars))
			for i, v := range res.Vars {
				if i < len(row) && row[i] != nil {
					b[v] = jsonTermOf(row[i])
				}
			}
			bindings = append(bindings, b)
		}
		doc.Results = &jsonResults{Bindings: bindings}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

// writeSRX renders the sparql-results XML document by hand; encoding/xml
// cannot emit the xml:lang attribute cleanly.
func writeSRX(w io.Writer, res *engine.Result) error {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<sparql xmlns=\"http://www.w3.org/2005/sparql-results#\">\n")
	if res.Form == engine.FormAsk {
		b.WriteString("  <head/>\n")
		fmt.Fprintf(&b, "  <boolean>%t</boolean>\n", res.Bool)
	} else {
		b.WriteString("  <head>\n")
		for _, v := range res.Vars {
			b.WriteString("    <variable name=\"" + xmlEscape(v) + "\"/>\n")
		}
		b.WriteString("  </head>\n  <results>\n")
		for _, row := range res.Rows {
			b.WriteString("    <result>\n")
			for i, v := range res.Vars {
				if i >= len(row) || row[i] == nil {
					continue
				}
				b.WriteString("      <binding name=\"" + xmlEscape(v) + "\">")
				writeXMLTerm(&b, row[i])
				b.WriteString("</binding>\n")
			}
			b.WriteString("    </result>\n")
		}
		b.WriteString("  </results>\n")
	}
	b.WriteString("</sparql>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeXMLTerm(b *strings.Builder, t rdf.Term) {
	switch v := t.(type) {
	case rdf.IRI:
		b.WriteString("<uri>" + xmlEscape(v.Value) + "</uri>")
	case rdf.BlankNode:
		b.WriteString("<bnode>" + xmlEscape(v.ID) + "</bnode>")
	case rdf.Literal:
		b.WriteString("<literal")
		switch {
		case v.Lang != "":
			b.WriteString(" xml:lang=\"" + xmlEscape(v.Lang) + "\"")
		case v.Datatype.Value != "" && v.Datatype.Value != xsdString:
			b.WriteString(" datatype=\"" + xmlEscape(v.Datatype.Value) + "\"")
		}
		b.WriteString(">" + xmlEscape(v.Lexical) + "</literal>")
	case rdf.TripleTerm:
		b.WriteString("<triple><subject>")
		writeXMLTerm(b, v.S)
		b.WriteString("</subject><predicate>")
		writeXMLTerm(b, v.P)
		b.WriteString("</predicate><object>")
		writeXMLTerm(b, v.O)
		b.WriteString("</object></triple>")
	}
}

func xmlEscape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

// ntriplesTerm renders a term in N-Triples syntax: IRIs in angle
// brackets, literals quoted with escapes and language tag or datatype,
// quoted triples in double angle brackets.
func ntriplesTerm(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.IRI:
		return "<" + v.Value + ">"
	case rdf.BlankNode:
		return "_:" + v.ID
	case rdf.Literal:
		s := "\"" + escapeLiteral(v.Lexical) + "\""
		switch {
		case v.Lang != "":
			return s + "@" + v.Lang
		case v.Datatype.Value != "" && v.Datatype.Value != xsdString:
			return s + "^^<" + v.Datatype.Value + ">"
		}
		return s
	case rdf.TripleTerm:
		return "<< " + ntriplesTerm(v.S) + " " + ntriplesTerm(v.P) + " " + ntriplesTerm(v.O) + " >>"
	}
	return ""
}

// plainTerm renders the lexical form alone, as the CSV encoding wants.
func plainTerm(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.IRI:
		return v.Value
	case rdf.BlankNode:
		return "_:" + v.ID
	case rdf.Literal:
		return v.Lexical
	default:
		return ntriplesTerm(t)
	}
}

func escapeLiteral(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
