// Package trigo evaluates SPARQL queries and updates with the trigo
// engine. Read queries run against a throwaway triple store built from
// the dataset; updates go through a lexical decomposition and mutate the
// dataset directly, so the store is rebuilt for each operation.
package trigo

import (
	"github.com/cockroachdb/errors"
	"github.com/geoknoesis/rdf-go/rdf"

	trdf "github.com/aleksaelezovic/trigo/pkg/rdf"
	"github.com/aleksaelezovic/trigo/pkg/sparql/executor"
	"github.com/aleksaelezovic/trigo/pkg/sparql/optimizer"
	"github.com/aleksaelezovic/trigo/pkg/sparql/parser"
	"github.com/aleksaelezovic/trigo/pkg/store"

	"github.com/sparq-dev/sparq/dataset"
	"github.com/sparq-dev/sparq/engine"
	"github.com/sparq-dev/sparq/qlog"
)

const xsdString = "http://www.w3.org/2001/XMLSchema#string"

// Engine adapts trigo to the engine.Querier interface.
type Engine struct{}

// New returns a trigo-backed querier.
func New() Engine { return Engine{} }

// Query evaluates text against ds. Update forms mutate ds in place;
// read forms leave it untouched and return the result payload.
func (Engine) Query(ds *dataset.Dataset, text string) (*engine.Result, error) {
	form, ok := engine.ClassifyForm(text)
	if ok && form == engine.FormUpdate {
		return runUpdate(ds, text)
	}
	if !ok {
		// No recognizable form keyword. Empty and prologue-only text is
		// the empty update, a no-op; anything else goes to the query
		// parser so its diagnostic names the offending token.
		if req, err := engine.SplitUpdate(text); err == nil && len(req.Ops) == 0 {
			return &engine.Result{Form: engine.FormUpdate}, nil
		}
	}
	return runQuery(ds, text)
}

func runQuery(ds *dataset.Dataset, text string) (*engine.Result, error) {
	q, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	opt, err := optimizer.Optimize(q)
	if err != nil {
		return nil, err
	}
	st, err := buildStore(ds)
	if err != nil {
		return nil, err
	}
	res, err := executor.NewExecutor(st).Execute(opt)
	if err != nil {
		return nil, err
	}
	switch r := res.(type) {
	case *executor.SelectResult:
		return selectResult(r), nil
	case *executor.AskResult:
		return &engine.Result{Form: engine.FormAsk, Bool: r.Result}, nil
	case *executor.ConstructResult:
		form := engine.FormConstruct
		if q.QueryType == parser.QueryTypeDescribe {
			form = engine.FormDescribe
		}
		return &engine.Result{Form: form, Triples: graphResult(r)}, nil
	}
	return nil, errors.Newf("unexpected engine result %T", res)
}

// buildStore indexes every dataset quad under its own graph term.
// Patterns that do not name a graph match across all of them, which is
// exactly the union-default-graph view queries evaluate against, while
// GRAPH patterns still narrow to a single graph.
func buildStore(ds *dataset.Dataset) (*store.TripleStore, error) {
	st := store.NewTripleStore()
	for _, q := range ds.Quads() {
		tq, ok := toQuad(q)
		if !ok {
			qlog.Warningf("skipping quad with an embedded triple term; the query engine cannot index it")
			continue
		}
		if err := st.Add(tq); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func selectResult(r *executor.SelectResult) *engine.Result {
	res := &engine.Result{Form: engine.FormSelect, Vars: make([]string, len(r.Variables))}
	for i, v := range r.Variables {
		res.Vars[i] = v.Name
	}
	res.Rows = make([][]rdf.Term, 0, len(r.Bindings))
	for _, b := range r.Bindings {
		row := make([]rdf.Term, len(res.Vars))
		for i, name := range res.Vars {
			if t, found := b.Vars[name]; found {
				row[i] = fromTerm(t)
			}
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func graphResult(r *executor.ConstructResult) []rdf.Triple {
	out := make([]rdf.Triple, 0, len(r.Triples))
	for _, t := range r.Triples {
		s := fromExecTerm(t.Subject)
		o := fromExecTerm(t.Object)
		p, ok := fromExecTerm(t.Predicate).(rdf.IRI)
		if s == nil || o == nil || !ok {
			continue
		}
		if _, lit := s.(rdf.Literal); lit {
			continue
		}
		out = append(out, rdf.Triple{S: s, P: p, O: o})
	}
	return out
}

// fromExecTerm maps the executor's construct-template terms back into
// the model. The executor renders them stringly, so language tags and
// datatypes do not survive a round trip through a construct template.
func fromExecTerm(t executor.Term) rdf.Term {
	switch t.Type {
	case "iri":
		return rdf.IRI{Value: t.Value}
	case "blank":
		return rdf.BlankNode{ID: t.Value}
	case "literal":
		return rdf.Literal{Lexical: t.Value}
	}
	return nil
}

func toQuad(q rdf.Quad) (*trdf.Quad, bool) {
	s := toTerm(q.S)
	p := toTerm(q.P)
	o := toTerm(q.O)
	if s == nil || p == nil || o == nil {
		return nil, false
	}
	g := trdf.Term(trdf.NewDefaultGraph())
	if q.G != nil {
		if g = toTerm(q.G); g == nil {
			return nil, false
		}
	}
	return &trdf.Quad{Subject: s, Predicate: p, Object: o, Graph: g}, true
}

func toTerm(t rdf.Term) trdf.Term {
	switch v := t.(type) {
	case rdf.IRI:
		return &trdf.NamedNode{IRI: v.Value}
	case rdf.BlankNode:
		return &trdf.BlankNode{ID: v.ID}
	case rdf.Literal:
		lit := &trdf.Literal{Value: v.Lexical, Language: v.Lang}
		if v.Lang == "" && v.Datatype.Value != "" && v.Datatype.Value != xsdString {
			lit.Datatype = &trdf.NamedNode{IRI: v.Datatype.Value}
		}
		return lit
	}
	return nil
}

func fromTerm(t trdf.Term) rdf.Term {
	switch v := t.(type) {
	case *trdf.NamedNode:
		return rdf.IRI{Value: v.IRI}
	case *trdf.BlankNode:
		return rdf.BlankNode{ID: v.ID}
	case *trdf.Literal:
		lit := rdf.Literal{Lexical: v.Value, Lang: v.Language}
		if v.Datatype != nil && v.Datatype.IRI != xsdString {
			lit.Datatype = rdf.IRI{Value: v.Datatype.IRI}
		}
		return lit
	}
	return nil
}
