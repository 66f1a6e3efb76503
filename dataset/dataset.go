// Package dataset holds the in-memory RDF dataset a run operates on: one
// default graph plus named graphs kept in first-population order, so the
// single-graph output fallback stays deterministic.
package dataset

import (
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"
)

// Graph is one graph of the dataset. Name is nil for the default graph.
// Triples are a set; duplicates are dropped on add.
type Graph struct {
	Name    rdf.Term
	triples []rdf.Triple
	seen    map[string]int
}

func newGraph(name rdf.Term) *Graph {
	return &Graph{Name: name, seen: make(map[string]int)}
}

// Add inserts a triple, reporting whether it was not already present.
func (g *Graph) Add(t rdf.Triple) bool {
	k := tripleKey(t)
	if _, ok := g.seen[k]; ok {
		return false
	}
	g.seen[k] = len(g.triples)
	g.triples = append(g.triples, t)
	return true
}

// Remove deletes a triple, reporting whether it was present.
func (g *Graph) Remove(t rdf.Triple) bool {
	k := tripleKey(t)
	i, ok := g.seen[k]
	if !ok {
		return false
	}
	delete(g.seen, k)
	g.triples = append(g.triples[:i], g.triples[i+1:]...)
	for j := i; j < len(g.triples); j++ {
		g.seen[tripleKey(g.triples[j])] = j
	}
	return true
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int { return len(g.triples) }

// Empty reports whether the graph holds no triples.
func (g *Graph) Empty() bool { return len(g.triples) == 0 }

// Triples returns the graph's triples in insertion order.
func (g *Graph) Triples() []rdf.Triple {
	out := make([]rdf.Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Quads returns the graph's triples as default-graph quads, dropping the
// graph name. Single-graph serialization uses this view.
func (g *Graph) Quads() []rdf.Quad {
	out := make([]rdf.Quad, 0, len(g.triples))
	for _, t := range g.triples {
		out = append(out, t.ToQuad())
	}
	return out
}

// Dataset is the run's only mutable store: populated by the loader in
// source order, mutated in place by update execution, then read by the
// output resolver.
type Dataset struct {
	def    *Graph
	named  []*Graph
	byName map[string]*Graph
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{
		def:    newGraph(nil),
		byName: make(map[string]*Graph),
	}
}

// Add routes a quad to the graph its G term names, creating the named
// graph on first use.
func (d *Dataset) Add(q rdf.Quad) {
	if q.G == nil {
		d.def.Add(q.ToTriple())
		return
	}
	g, ok := d.byName[q.G.String()]
	if !ok {
		g = newGraph(q.G)
		d.byName[q.G.String()] = g
		d.named = append(d.named, g)
	}
	g.Add(q.ToTriple())
}

// AddAll adds quads in order.
func (d *Dataset) AddAll(quads []rdf.Quad) {
	for _, q := range quads {
		d.Add(q)
	}
}

// Insert adds a triple to the default graph, reporting whether it was new.
func (d *Dataset) Insert(t rdf.Triple) bool { return d.def.Add(t) }

// Delete removes a triple from the default graph, reporting whether it
// was present.
func (d *Dataset) Delete(t rdf.Triple) bool { return d.def.Remove(t) }

// DefaultGraph returns the default graph.
func (d *Dataset) DefaultGraph() *Graph { return d.def }

// NamedGraphs returns the named graphs in first-population order.
func (d *Dataset) NamedGraphs() []*Graph {
	out := make([]*Graph, len(d.named))
	copy(out, d.named)
	return out
}

// Graph returns the named graph for the given name, or nil.
func (d *Dataset) Graph(name rdf.Term) *Graph {
	if name == nil {
		return d.def
	}
	return d.byName[name.String()]
}

// Quads flattens the dataset: default graph first, then the named graphs
// in population order.
func (d *Dataset) Quads() []rdf.Quad {
	out := make([]rdf.Quad, 0, d.Len())
	for _, t := range d.def.triples {
		out = append(out, t.ToQuad())
	}
	for _, g := range d.named {
		for _, t := range g.triples {
			out = append(out, t.ToQuadInGraph(g.Name))
		}
	}
	return out
}

// Len returns the number of triples across all graphs.
func (d *Dataset) Len() int {
	n := d.def.Len()
	for _, g := range d.named {
		n += g.Len()
	}
	return n
}

// FirstNonEmpty returns the deterministic single-graph fallback: the
// default graph if populated, else the first named graph populated in
// load order, else nil.
func (d *Dataset) FirstNonEmpty() *Graph {
	if !d.def.Empty() {
		return d.def
	}
	for _, g := range d.named {
		if !g.Empty() {
			return g
		}
	}
	return nil
}

// ScopeBlankNodes rewrites blank node identifiers so that nodes from
// different sources never collide. Quoted triple terms are rewritten
// recursively.
func ScopeBlankNodes(quads []rdf.Quad, scope string) []rdf.Quad {
	out := make([]rdf.Quad, len(quads))
	for i, q := range quads {
		out[i] = rdf.Quad{
			S: scopeTerm(q.S, scope),
			P: q.P,
			O: scopeTerm(q.O, scope),
			G: q.G,
		}
	}
	return out
}

func scopeTerm(t rdf.Term, scope string) rdf.Term {
	switch v := t.(type) {
	case rdf.BlankNode:
		return rdf.BlankNode{ID: scope + "." + v.ID}
	case rdf.TripleTerm:
		return rdf.TripleTerm{S: scopeTerm(v.S, scope), P: v.P, O: scopeTerm(v.O, scope)}
	}
	return t
}

func tripleKey(t rdf.Triple) string {
	var b strings.Builder
	b.WriteString(t.S.String())
	b.WriteByte(' ')
	b.WriteString(t.P.Value)
	b.WriteByte(' ')
	b.WriteString(t.O.String())
	return b.String()
}
