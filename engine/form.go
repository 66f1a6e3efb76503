package engine

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnsupportedUpdate marks update operations the executor cannot apply.
var ErrUnsupportedUpdate = errors.New("unsupported update operation")

// ClassifyForm reports the SPARQL form of a query from its leading
// keyword, after skipping the prologue and comments. ok is false when no
// known form keyword starts the body.
func ClassifyForm(text string) (Form, bool) {
	sc := newScanner(text)
	sc.skipPrologue(nil)
	switch strings.ToUpper(sc.peekWord()) {
	case "SELECT":
		return FormSelect, true
	case "ASK":
		return FormAsk, true
	case "CONSTRUCT":
		return FormConstruct, true
	case "DESCRIBE":
		return FormDescribe, true
	case "INSERT", "DELETE", "WITH", "LOAD", "CLEAR", "CREATE", "DROP", "COPY", "MOVE", "ADD":
		return FormUpdate, true
	}
	return FormSelect, false
}

// UpdateOpKind distinguishes the supported update operation shapes.
type UpdateOpKind int

const (
	// OpInsertData inserts ground triples: INSERT DATA { ... }.
	OpInsertData UpdateOpKind = iota
	// OpDeleteData removes ground triples: DELETE DATA { ... }.
	OpDeleteData
	// OpDeleteWhere is the DELETE WHERE { ... } shorthand: the group is both
	// pattern and template.
	OpDeleteWhere
	// OpModify is DELETE { ... } INSERT { ... } WHERE { ... } with either
	// template optional.
	OpModify
)

// UpdateOp is the lexical decomposition of one update operation. Group
// contents are raw pattern text; they go back through the SPARQL parser
// downstream.
type UpdateOp struct {
	Kind      UpdateOpKind
	Data      string // ground pattern for the data and where-shorthand kinds
	DeleteTpl string // modify: delete template, empty when absent
	InsertTpl string // modify: insert template, empty when absent
	Where     string // modify: where group
}

// UpdateRequest is a parsed update: shared prologue plus operations in
// request order.
type UpdateRequest struct {
	Prologue string
	Ops      []UpdateOp
}

// SplitUpdate lexically decomposes a SPARQL update request. Brace
// balancing is aware of string literals, IRI references, and comments; no
// grammar checking happens here. Empty and prologue-only text is the
// empty update, a valid request with zero operations.
func SplitUpdate(text string) (*UpdateRequest, error) {
	sc := newScanner(text)
	var prologue strings.Builder
	req := &UpdateRequest{}
	for {
		sc.skipPrologue(&prologue)
		sc.skipSpace()
		if sc.eof() {
			break
		}
		op, err := parseUpdateOp(sc)
		if err != nil {
			return nil, err
		}
		req.Ops = append(req.Ops, op)
		sc.skipSpace()
		if sc.eof() {
			break
		}
		if !sc.consume(';') {
			return nil, errors.Newf("unexpected %q after update operation", sc.peekWord())
		}
	}
	req.Prologue = prologue.String()
	return req, nil
}

func parseUpdateOp(sc *scanner) (UpdateOp, error) {
	kw := strings.ToUpper(sc.word())
	switch kw {
	case "INSERT":
		if strings.EqualFold(sc.peekWord(), "DATA") {
			sc.word()
			g, err := sc.group()
			if err != nil {
				return UpdateOp{}, err
			}
			return UpdateOp{Kind: OpInsertData, Data: g}, nil
		}
		tpl, err := sc.group()
		if err != nil {
			return UpdateOp{}, err
		}
		if strings.EqualFold(sc.peekWord(), "USING") {
			return UpdateOp{}, errors.Wrap(ErrUnsupportedUpdate, "USING")
		}
		if !strings.EqualFold(sc.word(), "WHERE") {
			return UpdateOp{}, errors.New("INSERT template without WHERE")
		}
		where, err := sc.group()
		if err != nil {
			return UpdateOp{}, err
		}
		return UpdateOp{Kind: OpModify, InsertTpl: tpl, Where: where}, nil
	case "DELETE":
		switch {
		case strings.EqualFold(sc.peekWord(), "DATA"):
			sc.word()
			g, err := sc.group()
			if err != nil {
				return UpdateOp{}, err
			}
			return UpdateOp{Kind: OpDeleteData, Data: g}, nil
		case strings.EqualFold(sc.peekWord(), "WHERE"):
			sc.word()
			g, err := sc.group()
			if err != nil {
				return UpdateOp{}, err
			}
			return UpdateOp{Kind: OpDeleteWhere, Data: g}, nil
		}
		del, err := sc.group()
		if err != nil {
			return UpdateOp{}, err
		}
		var ins string
		if strings.EqualFold(sc.peekWord(), "INSERT") {
			sc.word()
			if ins, err = sc.group(); err != nil {
				return UpdateOp{}, err
			}
		}
		if strings.EqualFold(sc.peekWord(), "USING") {
			return UpdateOp{}, errors.Wrap(ErrUnsupportedUpdate, "USING")
		}
		if !strings.EqualFold(sc.word(), "WHERE") {
			return UpdateOp{}, errors.New("DELETE template without WHERE")
		}
		where, err := sc.group()
		if err != nil {
			return UpdateOp{}, err
		}
		return UpdateOp{Kind: OpModify, DeleteTpl: del, InsertTpl: ins, Where: where}, nil
	case "WITH", "LOAD", "CLEAR", "CREATE", "DROP", "COPY", "MOVE", "ADD":
		return UpdateOp{}, errors.Wrap(ErrUnsupportedUpdate, kw)
	default:
		return UpdateOp{}, errors.Newf("unrecognized update operation %q", kw)
	}
}

// scanner is a minimal lexical cursor over SPARQL text. It understands
// just enough of the token structure (comments, words, IRI references,
// string literals, brace groups) to split requests without parsing them.
type scanner struct {
	s string
	i int
}

func newScanner(s string) *scanner { return &scanner{s: s} }

func (sc *scanner) eof() bool { return sc.i >= len(sc.s) }

func (sc *scanner) skipSpace() {
	for sc.i < len(sc.s) {
		switch c := sc.s[sc.i]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			sc.i++
		case c == '#':
			for sc.i < len(sc.s) && sc.s[sc.i] != '\n' {
				sc.i++
			}
		default:
			return
		}
	}
}

func (sc *scanner) consume(c byte) bool {
	sc.skipSpace()
	if sc.i < len(sc.s) && sc.s[sc.i] == c {
		sc.i++
		return true
	}
	return false
}

// peekWord returns the next run of letters without consuming it.
func (sc *scanner) peekWord() string {
	sc.skipSpace()
	j := sc.i
	for j < len(sc.s) && isLetter(sc.s[j]) {
		j++
	}
	return sc.s[sc.i:j]
}

func (sc *scanner) word() string {
	w := sc.peekWord()
	sc.i += len(w)
	return w
}

// token returns the next whitespace-delimited token that is not an IRI
// reference or group opener. Prologue labels such as "ex:" come through
// here.
func (sc *scanner) token() string {
	sc.skipSpace()
	j := sc.i
	for j < len(sc.s) {
		c := sc.s[j]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '<' || c == '{' || c == '#' {
			break
		}
		j++
	}
	t := sc.s[sc.i:j]
	sc.i = j
	return t
}

func (sc *scanner) iriRef() (string, bool) {
	sc.skipSpace()
	if sc.i >= len(sc.s) || sc.s[sc.i] != '<' {
		return "", false
	}
	end := strings.IndexByte(sc.s[sc.i:], '>')
	if end < 0 {
		return "", false
	}
	iri := sc.s[sc.i+1 : sc.i+end]
	sc.i += end + 1
	return iri, true
}

// skipPrologue consumes leading PREFIX and BASE declarations. When b is
// non-nil the declarations are re-emitted there in canonical form, one
// per line.
func (sc *scanner) skipPrologue(b *strings.Builder) {
	for {
		switch strings.ToUpper(sc.peekWord()) {
		case "PREFIX":
			save := sc.i
			sc.word()
			label := sc.token()
			iri, ok := sc.iriRef()
			if !ok || !strings.HasSuffix(label, ":") {
				sc.i = save
				return
			}
			if b != nil {
				fmt.Fprintf(b, "PREFIX %s <%s>\n", label, iri)
			}
		case "BASE":
			save := sc.i
			sc.word()
			iri, ok := sc.iriRef()
			if !ok {
				sc.i = save
				return
			}
			if b != nil {
				fmt.Fprintf(b, "BASE <%s>\n", iri)
			}
		default:
			return
		}
	}
}

// group consumes a brace-balanced { ... } block and returns the inner text.
func (sc *scanner) group() (string, error) {
	sc.skipSpace()
	if sc.i >= len(sc.s) || sc.s[sc.i] != '{' {
		return "", errors.Newf("expected a group, found %q", sc.peekWord())
	}
	start := sc.i + 1
	depth := 0
	i := sc.i
	for i < len(sc.s) {
		switch c := sc.s[i]; c {
		case '{':
			depth++
			i++
		case '}':
			depth--
			if depth == 0 {
				inner := sc.s[start:i]
				sc.i = i + 1
				return inner, nil
			}
			i++
		case '\'', '"':
			j, ok := skipString(sc.s, i)
			if !ok {
				return "", errors.New("unterminated string literal in group")
			}
			i = j
		case '<':
			i = skipIRIRef(sc.s, i)
		case '#':
			for i < len(sc.s) && sc.s[i] != '\n' {
				i++
			}
		default:
			i++
		}
	}
	return "", errors.New("unbalanced group")
}

// skipIRIRef advances past an IRI reference starting at i, or past the
// single '<' when the text is not one (a comparison operator, say).
func skipIRIRef(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		switch c := s[j]; {
		case c == '>':
			return j + 1
		case c <= ' ' || c == '"' || c == '\'' || c == '{' || c == '}' || c == '<':
			return i + 1
		}
	}
	return i + 1
}

// skipString advances past the string literal starting at i, handling
// both quote characters, long (triple-quoted) forms, and escapes.
func skipString(s string, i int) (int, bool) {
	q := s[i]
	long := strings.HasPrefix(s[i:], strings.Repeat(string(q), 3))
	if long {
		delim := strings.Repeat(string(q), 3)
		for j := i + 3; j < len(s); j++ {
			if s[j] == '\\' {
				j++
				continue
			}
			if strings.HasPrefix(s[j:], delim) {
				return j + 3, true
			}
		}
		return 0, false
	}
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j + 1, true
		case '\n':
			return 0, false
		}
	}
	return 0, false
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
