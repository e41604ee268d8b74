// Package syntax parses the textual form of terms and definition files.
//
// The grammar is prefix-only: every term starts with a keyword, a symbol or
// a name, so terms never need to be separated. Names bound by an enclosing
// binder become de Bruijn variables; any other name becomes a reference to a
// global definition.
package syntax

import (
	"fmt"
	"strconv"

	"github.com/vito/formal/pkg/term"
)

// Definition is a top-level "name : type = term" or "name = term" entry.
// Type is nil when the definition is unannotated.
type Definition struct {
	Name string
	Type term.Term
	Term term.Term
	Pos  Pos
}

// Parse reads a single closed term.
func Parse(filename string, src []byte) (term.Term, error) {
	p, err := newParser(filename, src)
	if err != nil {
		return nil, err
	}
	t, err := p.term()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.unexpected(tok)
	}
	return t, nil
}

// ParseFile reads a sequence of definitions.
func ParseFile(filename string, src []byte) ([]Definition, error) {
	p, err := newParser(filename, src)
	if err != nil {
		return nil, err
	}
	var defs []Definition
	for p.peek().kind != tokEOF {
		def, err := p.definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

type parser struct {
	toks   []token
	i      int
	scope  []string
	source string
}

func newParser(filename string, src []byte) (*parser, error) {
	toks, err := tokenize(filename, string(src))
	if err != nil {
		return nil, err
	}
	return &parser{toks: toks, source: string(src)}, nil
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) advance() token {
	tok := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return tok
}

func (p *parser) errorf(pos Pos, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...), Source: p.source}
}

func (p *parser) unexpected(tok token) error {
	return p.errorf(tok.pos, "unexpected %s", tok)
}

func (p *parser) is(sym string) bool {
	tok := p.peek()
	return tok.kind == tokSymbol && tok.text == sym
}

func (p *parser) isKeyword(kw string) bool {
	tok := p.peek()
	return tok.kind == tokName && tok.text == kw
}

func (p *parser) expect(sym string) error {
	if !p.is(sym) {
		tok := p.peek()
		return p.errorf(tok.pos, "expected %q, got %s", sym, tok)
	}
	p.advance()
	return nil
}

func (p *parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		tok := p.peek()
		return p.errorf(tok.pos, "expected %q, got %s", kw, tok)
	}
	p.advance()
	return nil
}

// name reads a binder or definition name.
func (p *parser) name() (string, error) {
	tok := p.peek()
	if tok.kind != tokName || term.Keywords[tok.text] {
		return "", p.errorf(tok.pos, "expected a name, got %s", tok)
	}
	p.advance()
	return tok.text, nil
}

// erased consumes an optional '-' marker.
func (p *parser) erased() bool {
	if p.is("-") {
		p.advance()
		return true
	}
	return false
}

func (p *parser) bind(names ...string) {
	p.scope = append(p.scope, names...)
}

func (p *parser) unbind(n int) {
	p.scope = p.scope[:len(p.scope)-n]
}

// under parses a term with names bound innermost-last.
func (p *parser) under(names ...string) (term.Term, error) {
	p.bind(names...)
	defer p.unbind(len(names))
	return p.term()
}

func (p *parser) variable(name string) term.Term {
	for i := len(p.scope) - 1; i >= 0; i-- {
		if p.scope[i] == name {
			return term.Var{Index: len(p.scope) - 1 - i}
		}
	}
	return term.Ref{Name: name}
}

func (p *parser) definition() (Definition, error) {
	pos := p.peek().pos
	name, err := p.name()
	if err != nil {
		return Definition{}, err
	}
	def := Definition{Name: name, Pos: pos}
	if p.is(":") {
		p.advance()
		def.Type, err = p.term()
		if err != nil {
			return Definition{}, err
		}
	}
	if err := p.expect("="); err != nil {
		return Definition{}, err
	}
	def.Term, err = p.term()
	if err != nil {
		return Definition{}, err
	}
	return def, nil
}

func (p *parser) term() (term.Term, error) {
	tok := p.peek()
	switch tok.kind {
	case tokFree:
		p.advance()
		k, err := strconv.Atoi(tok.text)
		if err != nil {
			return nil, p.errorf(tok.pos, "bad free variable %s", tok)
		}
		return term.Var{Index: k + len(p.scope)}, nil
	case tokName:
		switch tok.text {
		case "Type":
			p.advance()
			return term.Set{}, nil
		case "Box":
			p.advance()
			typ, err := p.term()
			if err != nil {
				return nil, err
			}
			return &term.Bxt{Type: typ}, nil
		case "box":
			p.advance()
			val, err := p.term()
			if err != nil {
				return nil, err
			}
			return &term.Bxv{Value: val}, nil
		case "pair":
			return p.pair()
		case "split":
			return p.split()
		case "data":
			return p.data()
		case "case":
			return p.cases()
		case "dup":
			return p.dup()
		case "let":
			return p.let()
		}
		if term.Keywords[tok.text] {
			return nil, p.unexpected(tok)
		}
		p.advance()
		return p.variable(tok.text), nil
	case tokSymbol:
		switch tok.text {
		case "{":
			return p.all()
		case "[":
			return p.lam()
		case "(":
			return p.app()
		case "<":
			return p.sig()
		case ".":
			return p.ctr()
		}
	}
	return nil, p.unexpected(tok)
}

// all parses {x : A} B.
func (p *parser) all() (term.Term, error) {
	p.advance()
	erased := p.erased()
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	dom, err := p.term()
	if err != nil {
		return nil, err
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	cod, err := p.under(name)
	if err != nil {
		return nil, err
	}
	return &term.All{Erased: erased, Name: name, Dom: dom, Cod: cod}, nil
}

// lam parses [x : A] b or [x] b.
func (p *parser) lam() (term.Term, error) {
	p.advance()
	erased := p.erased()
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	var dom term.Term
	if p.is(":") {
		p.advance()
		dom, err = p.term()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expect("]"); err != nil {
		return nil, err
	}
	body, err := p.under(name)
	if err != nil {
		return nil, err
	}
	return &term.Lam{Erased: erased, Name: name, Dom: dom, Body: body}, nil
}

// app parses (f a -b c); a single parenthesized term is just that term.
func (p *parser) app() (term.Term, error) {
	p.advance()
	fun, err := p.term()
	if err != nil {
		return nil, err
	}
	for !p.is(")") {
		if p.peek().kind == tokEOF {
			return nil, p.errorf(p.peek().pos, "expected %q, got %s", ")", p.peek())
		}
		erased := p.erased()
		arg, err := p.term()
		if err != nil {
			return nil, err
		}
		fun = &term.App{Erased: erased, Fun: fun, Arg: arg}
	}
	p.advance()
	return fun, nil
}

// sig parses <x : A> B.
func (p *parser) sig() (term.Term, error) {
	p.advance()
	erased := p.erased()
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	fst, err := p.term()
	if err != nil {
		return nil, err
	}
	if err := p.expect(">"); err != nil {
		return nil, err
	}
	snd, err := p.under(name)
	if err != nil {
		return nil, err
	}
	return &term.Sig{Erased: erased, Name: name, Fst: fst, Snd: snd}, nil
}

// pair parses pair T a b.
func (p *parser) pair() (term.Term, error) {
	p.advance()
	erased := p.erased()
	parts := make([]term.Term, 3)
	for i := range parts {
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		parts[i] = t
	}
	return &term.Mks{Erased: erased, Type: parts[0], Fst: parts[1], Snd: parts[2]}, nil
}

// split parses split v as s return P with x y => b.
func (p *parser) split() (term.Term, error) {
	p.advance()
	spt := &term.Spt{Erased: p.erased()}
	var err error
	if spt.Pair, err = p.term(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("as"); err != nil {
		return nil, err
	}
	if spt.Name, err = p.name(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("return"); err != nil {
		return nil, err
	}
	if spt.Motive, err = p.under(spt.Name); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("with"); err != nil {
		return nil, err
	}
	if spt.FstName, err = p.name(); err != nil {
		return nil, err
	}
	if spt.SndName, err = p.name(); err != nil {
		return nil, err
	}
	if err := p.expect("=>"); err != nil {
		return nil, err
	}
	if spt.Body, err = p.under(spt.FstName, spt.SndName); err != nil {
		return nil, err
	}
	return spt, nil
}

// block parses { entry; entry } with an optional trailing separator.
func (p *parser) block(entry func() error) error {
	if err := p.expect("{"); err != nil {
		return err
	}
	for !p.is("}") {
		if err := entry(); err != nil {
			return err
		}
		if p.is(";") {
			p.advance()
			continue
		}
		if !p.is("}") {
			tok := p.peek()
			return p.errorf(tok.pos, "expected %q or %q, got %s", ";", "}", tok)
		}
	}
	p.advance()
	return nil
}

// data parses data S : M { c : T; ... } with S bound in each T.
func (p *parser) data() (term.Term, error) {
	p.advance()
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	typ, err := p.term()
	if err != nil {
		return nil, err
	}
	idt := &term.Idt{Name: name, Type: typ}
	err = p.block(func() error {
		pos := p.peek().pos
		ctr, err := p.name()
		if err != nil {
			return err
		}
		if _, dup := idt.Constructor(ctr); dup {
			return p.errorf(pos, "duplicate constructor %q", ctr)
		}
		if err := p.expect(":"); err != nil {
			return err
		}
		ctrT, err := p.under(name)
		if err != nil {
			return err
		}
		idt.Ctrs = append(idt.Ctrs, term.Constructor{Name: ctr, Type: ctrT})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idt, nil
}

// ctr parses .c I.
func (p *parser) ctr() (term.Term, error) {
	p.advance()
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	idt, err := p.term()
	if err != nil {
		return nil, err
	}
	return &term.Ctr{Name: name, Idt: idt}, nil
}

// cases parses case v of I as s return P { c => f; ... }.
func (p *parser) cases() (term.Term, error) {
	p.advance()
	cas := &term.Cas{}
	var err error
	if cas.Value, err = p.term(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("of"); err != nil {
		return nil, err
	}
	if cas.Idt, err = p.term(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("as"); err != nil {
		return nil, err
	}
	if cas.Name, err = p.name(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("return"); err != nil {
		return nil, err
	}
	if cas.Motive, err = p.under(cas.Name); err != nil {
		return nil, err
	}
	err = p.block(func() error {
		name, err := p.name()
		if err != nil {
			return err
		}
		if err := p.expect("=>"); err != nil {
			return err
		}
		body, err := p.term()
		if err != nil {
			return err
		}
		cas.Branches = append(cas.Branches, term.Branch{Name: name, Term: body})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cas, nil
}

// dup parses dup x = v in b.
func (p *parser) dup() (term.Term, error) {
	p.advance()
	name, val, err := p.binding()
	if err != nil {
		return nil, err
	}
	body, err := p.under(name)
	if err != nil {
		return nil, err
	}
	return &term.Dup{Name: name, Value: val, Body: body}, nil
}

// let parses let x = v in b and substitutes v for x.
func (p *parser) let() (term.Term, error) {
	p.advance()
	name, val, err := p.binding()
	if err != nil {
		return nil, err
	}
	body, err := p.under(name)
	if err != nil {
		return nil, err
	}
	return term.Subst(body, val, 0), nil
}

// binding parses the "x = v in" part shared by dup and let.
func (p *parser) binding() (string, term.Term, error) {
	name, err := p.name()
	if err != nil {
		return "", nil, err
	}
	if err := p.expect("="); err != nil {
		return "", nil, err
	}
	val, err := p.term()
	if err != nil {
		return "", nil, err
	}
	if err := p.expectKeyword("in"); err != nil {
		return "", nil, err
	}
	return name, val, nil
}
