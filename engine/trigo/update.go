package trigo

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/geoknoesis/rdf-go/rdf"

	trdf "github.com/aleksaelezovic/trigo/pkg/rdf"
	"github.com/aleksaelezovic/trigo/pkg/sparql/executor"
	"github.com/aleksaelezovic/trigo/pkg/sparql/optimizer"
	"github.com/aleksaelezovic/trigo/pkg/sparql/parser"
	"github.com/aleksaelezovic/trigo/pkg/store"

	"github.com/sparq-dev/sparq/dataset"
	"github.com/sparq-dev/sparq/engine"
)

// runUpdate decomposes an update request and applies its operations to
// the dataset in request order, each operation seeing the effects of the
// ones before it.
func runUpdate(ds *dataset.Dataset, text string) (*engine.Result, error) {
	req, err := engine.SplitUpdate(text)
	if err != nil {
		return nil, err
	}
	for i, op := range req.Ops {
		if err := applyOp(ds, req.Prologue, op, i); err != nil {
			return nil, err
		}
	}
	return &engine.Result{Form: engine.FormUpdate}, nil
}

// applyOp executes one update operation. The WHERE group is matched
// against the dataset as it stands, then all delete instantiations are
// applied before any insert instantiation, so templates never observe
// their own writes.
func applyOp(ds *dataset.Dataset, prologue string, op engine.UpdateOp, seq int) error {
	switch op.Kind {
	case engine.OpInsertData:
		tpl, err := parseTemplate(prologue, op.Data)
		if err != nil {
			return errors.Wrap(err, "INSERT DATA")
		}
		if v := firstVariable(tpl); v != "" {
			return errors.Newf("INSERT DATA: variable ?%s in ground data", v)
		}
		for _, t := range instantiate(tpl, nil, fmt.Sprintf("u%d", seq)) {
			ds.Insert(t)
		}
		return nil

	case engine.OpDeleteData:
		tpl, err := parseTemplate(prologue, op.Data)
		if err != nil {
			return errors.Wrap(err, "DELETE DATA")
		}
		if v := firstVariable(tpl); v != "" {
			return errors.Newf("DELETE DATA: variable ?%s in ground data", v)
		}
		if templateHasBlank(tpl) {
			return errors.New("DELETE DATA: blank nodes cannot be deleted by label")
		}
		for _, t := range instantiate(tpl, nil, "") {
			ds.Delete(t)
		}
		return nil

	case engine.OpDeleteWhere:
		tpl, err := parseTemplate(prologue, op.Data)
		if err != nil {
			return errors.Wrap(err, "DELETE WHERE")
		}
		if templateHasBlank(tpl) {
			return errors.New("DELETE WHERE: blank nodes cannot be deleted by label")
		}
		sols, err := evalWhere(ds, prologue, op.Data)
		if err != nil {
			return err
		}
		var dels []rdf.Triple
		for _, b := range sols {
			dels = append(dels, instantiate(tpl, b, "")...)
		}
		for _, t := range dels {
			ds.Delete(t)
		}
		return nil

	case engine.OpModify:
		var delTpl, insTpl []*parser.TriplePattern
		var err error
		if op.DeleteTpl != "" {
			if delTpl, err = parseTemplate(prologue, op.DeleteTpl); err != nil {
				return errors.Wrap(err, "DELETE template")
			}
			if templateHasBlank(delTpl) {
				return errors.New("DELETE template: blank nodes cannot be deleted by label")
			}
		}
		if op.InsertTpl != "" {
			if insTpl, err = parseTemplate(prologue, op.InsertTpl); err != nil {
				return errors.Wrap(err, "INSERT template")
			}
		}
		sols, err := evalWhere(ds, prologue, op.Where)
		if err != nil {
			return err
		}
		var dels, ins []rdf.Triple
		for si, b := range sols {
			dels = append(dels, instantiate(delTpl, b, "")...)
			ins = append(ins, instantiate(insTpl, b, fmt.Sprintf("u%d_s%d", seq, si))...)
		}
		for _, t := range dels {
			ds.Delete(t)
		}
		for _, t := range ins {
			ds.Insert(t)
		}
		return nil
	}
	return errors.Wrapf(engine.ErrUnsupportedUpdate, "operation kind %d", op.Kind)
}

// evalWhere matches a group pattern against the dataset and returns the
// solution sequence. The group rides inside a synthesized SELECT * so
// the full pattern grammar (GRAPH, OPTIONAL, FILTER, UNION) applies.
func evalWhere(ds *dataset.Dataset, prologue, group string) ([]*store.Binding, error) {
	q, err := parser.Parse(prologue + "SELECT * WHERE {\n" + group + "\n}")
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
	sel, ok := res.(*executor.SelectResult)
	if !ok {
		return nil, errors.Newf("unexpected engine result %T", res)
	}
	return sel.Bindings, nil
}

// parseTemplate reads a template or ground-data group as bare triple
// patterns. Anything beyond plain triples is rejected here; updates
// scoped to named graphs are not supported.
func parseTemplate(prologue, group string) ([]*parser.TriplePattern, error) {
	q, err := parser.Parse(prologue + "SELECT * WHERE {\n" + group + "\n}")
	if err != nil {
		return nil, err
	}
	return collectTriples(q.Select.Where)
}

func collectTriples(gp *parser.GraphPattern) ([]*parser.TriplePattern, error) {
	if gp == nil {
		return nil, nil
	}
	if len(gp.Children) > 0 {
		return nil, errors.New("GRAPH, OPTIONAL and UNION are not allowed here")
	}
	if len(gp.Binds) > 0 {
		return nil, errors.New("BIND is not allowed here")
	}
	var out []*parser.TriplePattern
	for _, el := range gp.Elements {
		switch {
		case el.Triple != nil:
			out = append(out, el.Triple)
		case el.Bind != nil:
			return nil, errors.New("BIND is not allowed here")
		default:
			return nil, errors.New("only triple patterns are allowed here")
		}
	}
	out = append(out, gp.Patterns...)
	return out, nil
}

// instantiate substitutes one solution into a template. Triples with an
// unbound variable or an invalid position are dropped. Template blank
// nodes are minted fresh per instantiation when bnodeTag is set; blank
// nodes arriving through the binding always keep their identity.
func instantiate(tpl []*parser.TriplePattern, b *store.Binding, bnodeTag string) []rdf.Triple {
	var out []rdf.Triple
	for _, p := range tpl {
		s, sTpl := resolveTerm(p.Subject, b)
		pr, _ := resolveTerm(p.Predicate, b)
		o, oTpl := resolveTerm(p.Object, b)
		if s == nil || pr == nil || o == nil {
			continue
		}
		if bnodeTag != "" {
			if sTpl {
				s = retag(s, bnodeTag)
			}
			if oTpl {
				o = retag(o, bnodeTag)
			}
		}
		pred, ok := pr.(rdf.IRI)
		if !ok {
			continue
		}
		if _, lit := s.(rdf.Literal); lit {
			continue
		}
		out = append(out, rdf.Triple{S: s, P: pred, O: o})
	}
	return out
}

// resolveTerm yields the concrete term for one template position and
// whether it came from the template text rather than the binding.
func resolveTerm(tv parser.TermOrVariable, b *store.Binding) (rdf.Term, bool) {
	if tv.IsVariable() {
		if b == nil {
			return nil, false
		}
		t, found := b.Vars[tv.Variable.Name]
		if !found {
			return nil, false
		}
		return fromTerm(t), false
	}
	return fromTerm(tv.Term), true
}

func retag(t rdf.Term, tag string) rdf.Term {
	if bn, ok := t.(rdf.BlankNode); ok {
		return rdf.BlankNode{ID: bn.ID + "_" + tag}
	}
	return t
}

func firstVariable(tpl []*parser.TriplePattern) string {
	for _, p := range tpl {
		for _, tv := range []parser.TermOrVariable{p.Subject, p.Predicate, p.Object} {
			if tv.IsVariable() {
				return tv.Variable.Name
			}
		}
	}
	return ""
}

func templateHasBlank(tpl []*parser.TriplePattern) bool {
	for _, p := range tpl {
		for _, tv := range []parser.TermOrVariable{p.Subject, p.Predicate, p.Object} {
			if !tv.IsVariable() {
				if _, ok := tv.Term.(*trdf.BlankNode); ok {
					return true
				}
			}
		}
	}
	return false
}
