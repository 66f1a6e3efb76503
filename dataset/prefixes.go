package dataset

// PrefixDecl is one prefix declaration surfaced while loading a source.
type PrefixDecl struct {
	Label string
	IRI   string
}

// Prefixes is the prefix mapping harvested from data sources, in harvest
// order. Labels bind first-writer-wins: once a label is bound, later
// declarations of it from any source are discarded. A prefix-only file
// loaded first therefore pins the abbreviations used on output.
type Prefixes struct {
	decls   []PrefixDecl
	byLabel map[string]string
	base    string
}

// NewPrefixes returns an empty mapping.
func NewPrefixes() *Prefixes {
	return &Prefixes{byLabel: make(map[string]string)}
}

// Bind records a label-to-IRI declaration, reporting whether it took effect.
// A label already bound keeps its first IRI.
func (p *Prefixes) Bind(label, iri string) bool {
	if _, ok := p.byLabel[label]; ok {
		return false
	}
	p.byLabel[label] = iri
	p.decls = append(p.decls, PrefixDecl{Label: label, IRI: iri})
	return true
}

// BindAll records declarations in order under Bind's first-wins rule.
func (p *Prefixes) BindAll(decls []PrefixDecl) {
	for _, d := range decls {
		p.Bind(d.Label, d.IRI)
	}
}

// BindBase records a base IRI; the first non-empty one wins.
func (p *Prefixes) BindBase(iri string) bool {
	if iri == "" || p.base != "" {
		return false
	}
	p.base = iri
	return true
}

// Base returns the harvested base IRI, if any.
func (p *Prefixes) Base() string { return p.base }

// Lookup returns the IRI bound to a label.
func (p *Prefixes) Lookup(label string) (string, bool) {
	iri, ok := p.byLabel[label]
	return iri, ok
}

// Decls returns the effective declarations in harvest order.
func (p *Prefixes) Decls() []PrefixDecl {
	out := make([]PrefixDecl, len(p.decls))
	copy(out, p.decls)
	return out
}

// Map returns the mapping as a plain map, for serializer hints.
func (p *Prefixes) Map() map[string]string {
	m := make(map[string]string, len(p.decls))
	for _, d := range p.decls {
		m[d.Label] = d.IRI
	}
	return m
}

// Len returns the number of bound labels.
func (p *Prefixes) Len() int { return len(p.decls) }
