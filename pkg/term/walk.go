package term

import (
	"fmt"
	"slices"
)

// Map rebuilds t with every immediate subterm replaced by fn(sub, binders),
// where binders is the number of variables the node binds around sub. Nil
// subterms are kept as nil and not visited.
func Map(t Term, fn func(sub Term, binders int) Term) Term {
	visit := func(sub Term, binders int) Term {
		if sub == nil {
			return nil
		}
		return fn(sub, binders)
	}
	switch t := t.(type) {
	case Var, Set, Ref:
		return t
	case *All:
		return &All{Erased: t.Erased, Name: t.Name, Dom: visit(t.Dom, 0), Cod: visit(t.Cod, 1)}
	case *Lam:
		return &Lam{Erased: t.Erased, Name: t.Name, Dom: visit(t.Dom, 0), Body: visit(t.Body, 1)}
	case *App:
		return &App{Erased: t.Erased, Fun: visit(t.Fun, 0), Arg: visit(t.Arg, 0)}
	case *Sig:
		return &Sig{Erased: t.Erased, Name: t.Name, Fst: visit(t.Fst, 0), Snd: visit(t.Snd, 1)}
	case *Mks:
		return &Mks{Erased: t.Erased, Type: visit(t.Type, 0), Fst: visit(t.Fst, 0), Snd: visit(t.Snd, 0)}
	case *Spt:
		return &Spt{
			Erased:  t.Erased,
			Pair:    visit(t.Pair, 0),
			Name:    t.Name,
			Motive:  visit(t.Motive, 1),
			FstName: t.FstName,
			SndName: t.SndName,
			Body:    visit(t.Body, 2),
		}
	case *Idt:
		ctrs := make([]Constructor, len(t.Ctrs))
		for i, ctr := range t.Ctrs {
			ctrs[i] = Constructor{Name: ctr.Name, Type: visit(ctr.Type, 1)}
		}
		return &Idt{Name: t.Name, Type: visit(t.Type, 0), Ctrs: ctrs}
	case *Ctr:
		return &Ctr{Name: t.Name, Idt: visit(t.Idt, 0)}
	case *Cas:
		idt := visit(t.Idt, 0)
		val := visit(t.Value, 0)
		motive := visit(t.Motive, 1)
		branches := make([]Branch, len(t.Branches))
		for i, b := range t.Branches {
			branches[i] = Branch{Name: b.Name, Term: visit(b.Term, 0)}
		}
		return &Cas{Idt: idt, Value: val, Name: t.Name, Motive: motive, Branches: branches}
	case *Dup:
		return &Dup{Name: t.Name, Value: visit(t.Value, 0), Body: visit(t.Body, 1)}
	case *Bxv:
		return &Bxv{Value: visit(t.Value, 0)}
	case *Bxt:
		return &Bxt{Type: visit(t.Type, 0)}
	default:
		panic(fmt.Sprintf("term.Map: unhandled term %T", t))
	}
}

// Walk calls fn for every immediate subterm of t.
func Walk(t Term, fn func(sub Term, binders int)) {
	Map(t, func(sub Term, binders int) Term {
		fn(sub, binders)
		return sub
	})
}

// Occurs reports whether Var(i) occurs free in t.
func Occurs(t Term, i int) bool {
	if v, ok := t.(Var); ok {
		return v.Index == i
	}
	found := false
	Walk(t, func(sub Term, binders int) {
		if !found && Occurs(sub, i+binders) {
			found = true
		}
	})
	return found
}

// Closed reports whether t has no free variables.
func Closed(t Term) bool {
	return closedAt(t, 0)
}

func closedAt(t Term, depth int) bool {
	if v, ok := t.(Var); ok {
		return v.Index < depth
	}
	closed := true
	Walk(t, func(sub Term, binders int) {
		if closed && !closedAt(sub, depth+binders) {
			closed = false
		}
	})
	return closed
}

// Refs returns the sorted, de-duplicated names of every Ref in t.
func Refs(t Term) []string {
	seen := map[string]bool{}
	var collect func(Term)
	collect = func(t Term) {
		if r, ok := t.(Ref); ok {
			seen[r.Name] = true
			return
		}
		Walk(t, func(sub Term, _ int) { collect(sub) })
	}
	collect(t)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
