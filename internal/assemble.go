package internal

import (
	"fmt"
	"strings"

	"github.com/sparq-dev/sparq/dataset"
)

// Assemble prepends one PREFIX declaration per harvested entry, in
// harvest order, ahead of the query body. Nothing else in the body is
// rewritten; labels the query redeclares itself shadow the prepended
// ones under SPARQL's own rules.
func Assemble(body string, p *dataset.Prefixes) string {
	decls := p.Decls()
	if len(decls) == 0 {
		return body
	}
	var b strings.Builder
	for _, d := range decls {
		fmt.Fprintf(&b, "PREFIX %s: <%s>\n", d.Label, d.IRI)
	}
	b.WriteString(body)
	return b.String()
}
