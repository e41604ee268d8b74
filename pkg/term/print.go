package term

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Keywords are reserved by the concrete syntax and never used as binder
// names when printing.
var Keywords = map[string]bool{
	"Type":   true,
	"Box":    true,
	"box":    true,
	"pair":   true,
	"split":  true,
	"as":     true,
	"return": true,
	"with":   true,
	"case":   true,
	"of":     true,
	"data":   true,
	"dup":    true,
	"let":    true,
	"in":     true,
}

// IsName reports whether s can be written as a variable or reference name.
func IsName(s string) bool {
	if s == "" || Keywords[s] {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '\''):
		default:
			return false
		}
	}
	return true
}

// Show renders t in the concrete syntax. Binders keep their names unless that
// would capture or shadow something, in which case a fresh name numbered by
// binder depth is used. Variables free in t print as #k.
func Show(t Term) string {
	return newPrinter(Refs(t)).show(t)
}

// ShowIn renders t under the binders of ctx, so that its free variables print
// as the names of the corresponding context entries.
func ShowIn(t Term, ctx Context) string {
	p := newPrinter(Refs(t))
	for _, b := range ctx.binds {
		p.bind(b.Name)
	}
	return p.show(t)
}

type printer struct {
	scope []string
	avoid map[string]bool
}

func newPrinter(refs []string) *printer {
	avoid := make(map[string]bool, len(refs))
	for _, r := range refs {
		avoid[r] = true
	}
	return &printer{avoid: avoid}
}

func (p *printer) taken(name string) bool {
	return Keywords[name] || p.avoid[name] || slices.Contains(p.scope, name)
}

func (p *printer) bind(name string) string {
	depth := len(p.scope)
	base := name
	if !IsName(base) {
		base = synthetic(depth + 1)
	}
	fresh := base
	if p.taken(fresh) {
		fresh = base + strconv.Itoa(depth)
	}
	for p.taken(fresh) {
		fresh += "'"
	}
	p.scope = append(p.scope, fresh)
	return fresh
}

func (p *printer) unbind(n int) {
	p.scope = p.scope[:len(p.scope)-n]
}

// synthetic names binder depth n: 1 is "a", 26 is "z", 27 is "aa".
func synthetic(n int) string {
	var name []byte
	for n > 0 {
		n--
		name = append([]byte{byte('a' + n%26)}, name...)
		n /= 26
	}
	return string(name)
}

func erasedMark(erased bool) string {
	if erased {
		return "-"
	}
	return ""
}

func (p *printer) show(t Term) string {
	switch t := t.(type) {
	case Var:
		if t.Index < len(p.scope) {
			return p.scope[len(p.scope)-1-t.Index]
		}
		return "#" + strconv.Itoa(t.Index-len(p.scope))
	case Set:
		return "Type"
	case Ref:
		return t.Name
	case *All:
		dom := p.show(t.Dom)
		name := p.bind(t.Name)
		cod := p.show(t.Cod)
		p.unbind(1)
		return "{" + erasedMark(t.Erased) + name + " : " + dom + "} " + cod
	case *Lam:
		var dom string
		if t.Dom != nil {
			dom = " : " + p.show(t.Dom)
		}
		name := p.bind(t.Name)
		body := p.show(t.Body)
		p.unbind(1)
		return "[" + erasedMark(t.Erased) + name + dom + "] " + body
	case *App:
		head, apps := Spine(t)
		var sb strings.Builder
		sb.WriteString("(")
		sb.WriteString(p.show(head))
		for _, app := range apps {
			sb.WriteString(" ")
			sb.WriteString(erasedMark(app.Erased))
			sb.WriteString(p.show(app.Arg))
		}
		sb.WriteString(")")
		return sb.String()
	case *Sig:
		fst := p.show(t.Fst)
		name := p.bind(t.Name)
		snd := p.show(t.Snd)
		p.unbind(1)
		return "<" + erasedMark(t.Erased) + name + " : " + fst + "> " + snd
	case *Mks:
		return "pair" + erasedMark(t.Erased) + " " + p.show(t.Type) + " " + p.show(t.Fst) + " " + p.show(t.Snd)
	case *Spt:
		pair := p.show(t.Pair)
		self := p.bind(t.Name)
		motive := p.show(t.Motive)
		p.unbind(1)
		fst := p.bind(t.FstName)
		snd := p.bind(t.SndName)
		body := p.show(t.Body)
		p.unbind(2)
		return "split" + erasedMark(t.Erased) + " " + pair + " as " + self + " return " + motive +
			" with " + fst + " " + snd + " => " + body
	case *Idt:
		typ := p.show(t.Type)
		self := p.bind(t.Name)
		ctrs := make([]string, len(t.Ctrs))
		for i, ctr := range t.Ctrs {
			ctrs[i] = ctr.Name + " : " + p.show(ctr.Type)
		}
		p.unbind(1)
		return "data " + self + " : " + typ + " " + block(ctrs)
	case *Ctr:
		return "." + t.Name + " " + p.show(t.Idt)
	case *Cas:
		val := p.show(t.Value)
		idt := p.show(t.Idt)
		self := p.bind(t.Name)
		motive := p.show(t.Motive)
		p.unbind(1)
		branches := make([]string, len(t.Branches))
		for i, b := range t.Branches {
			branches[i] = b.Name + " => " + p.show(b.Term)
		}
		return "case " + val + " of " + idt + " as " + self + " return " + motive + " " + block(branches)
	case *Dup:
		val := p.show(t.Value)
		name := p.bind(t.Name)
		body := p.show(t.Body)
		p.unbind(1)
		return "dup " + name + " = " + val + " in " + body
	case *Bxv:
		return "box " + p.show(t.Value)
	case *Bxt:
		return "Box " + p.show(t.Type)
	case nil:
		return "?"
	default:
		return "<unknown>"
	}
}

func block(entries []string) string {
	if len(entries) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(entries, "; ") + " }"
}
