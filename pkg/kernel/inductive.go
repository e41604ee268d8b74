package kernel

import (
	"github.com/vito/formal/pkg/term"
)

// inductive reduces t and requires an inductive declaration.
func (c *checker) inductive(t term.Term, ctx term.Context) (*term.Idt, error) {
	nf, err := c.normal(t)
	if err != nil {
		return nil, err
	}
	idt, ok := nf.(*term.Idt)
	if !ok {
		return nil, &Error{Kind: NotInductive, Term: t, Actual: nf, Context: ctx}
	}
	return idt, nil
}

// ctrType closes the self reference of a constructor's declared type.
func ctrType(idt *term.Idt, ctr term.Constructor) term.Term {
	return term.Subst(ctr.Type, idt, 0)
}

func (c *checker) inferCtr(ctr *term.Ctr, ctx term.Context) (term.Term, error) {
	idt, err := c.inductive(ctr.Idt, ctx)
	if err != nil {
		return nil, err
	}
	decl, ok := idt.Constructor(ctr.Name)
	if !ok {
		return nil, &Error{Kind: UnknownConstructor, Name: ctr.Name, Term: ctr, Context: ctx}
	}
	return c.normal(ctrType(idt, decl))
}

// matchBranches requires the branches to name the constructors one to one,
// in declaration order.
func matchBranches(cas *term.Cas, idt *term.Idt, ctx term.Context) error {
	if len(cas.Branches) != len(idt.Ctrs) {
		return fail(PatternArityMismatch, cas, ctx)
	}
	for i, ctr := range idt.Ctrs {
		if cas.Branches[i].Name != ctr.Name {
			return &Error{Kind: PatternArityMismatch, Name: cas.Branches[i].Name, Term: cas, Context: ctx}
		}
	}
	return nil
}

// caseType builds the type a branch must have for a constructor of type
// typ: one argument per field of the constructor, returning the motive
// instantiated with the constructor applied to those arguments.
//
//	ctor: {x : A} {y : B x} T
//	case: {x : A} {y : B x} (P (ctor x y))
func caseType(typ, motive, val term.Term) term.Term {
	all, ok := typ.(*term.All)
	if !ok {
		return term.Subst(motive, val, 0)
	}
	applied := &term.App{
		Erased: all.Erased,
		Fun:    term.Shift(val, 1, 0),
		Arg:    term.Var{Index: 0},
	}
	return &term.All{
		Erased: all.Erased,
		Name:   all.Name,
		Dom:    all.Dom,
		Cod:    caseType(all.Cod, term.Shift(motive, 1, 1), applied),
	}
}

func (c *checker) inferCas(cas *term.Cas, ctx term.Context) (term.Term, error) {
	idt, err := c.inductive(cas.Idt, ctx)
	if err != nil {
		return nil, err
	}
	if err := matchBranches(cas, idt, ctx); err != nil {
		return nil, err
	}

	valT, err := c.infer(cas.Value, ctx)
	if err != nil {
		return nil, err
	}
	valT, err = c.normal(valT)
	if err != nil {
		return nil, err
	}
	if head, _ := term.Spine(valT); !term.Equal(head, idt) {
		return nil, mismatch(cas.Value, idt, valT, ctx)
	}

	ok, err := c.isType(cas.Motive, ctx.Extend(cas.Name, valT))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, mismatch(cas.Motive, term.Set{}, nil, ctx.Extend(cas.Name, valT))
	}

	for i, ctr := range idt.Ctrs {
		typ, err := c.normal(ctrType(idt, ctr))
		if err != nil {
			return nil, err
		}
		expected := caseType(typ, cas.Motive, &term.Ctr{Name: ctr.Name, Idt: idt})
		if err := c.check(cas.Branches[i].Term, expected, ctx); err != nil {
			return nil, err
		}
	}

	val, err := c.normal(cas.Value)
	if err != nil {
		return nil, err
	}
	return c.normal(term.Subst(cas.Motive, val, 0))
}

// reduceCas selects the branch named by the scrutinee's constructor and
// applies it to the constructor's arguments. A scrutinee that is not a
// constructor value leaves the node in place.
func (r *reducer) reduceCas(cas *term.Cas) term.Term {
	reduced := term.Map(cas, func(sub term.Term, _ int) term.Term {
		return r.reduce(sub)
	}).(*term.Cas)

	head, apps := term.Spine(reduced.Value)
	switch h := head.(type) {
	case *term.Ctr:
		branch, ok := reduced.Branch(h.Name)
		if ok && r.fire() {
			for _, app := range apps {
				branch = &term.App{Erased: app.Erased, Fun: branch, Arg: app.Arg}
			}
			return r.reduce(branch)
		}
	case *term.Dup:
		if len(apps) == 0 && r.fire() {
			branches := make([]term.Branch, len(reduced.Branches))
			for i, b := range reduced.Branches {
				branches[i] = term.Branch{Name: b.Name, Term: term.Shift(b.Term, 1, 0)}
			}
			return r.floatDup(h, &term.Cas{
				Idt:      term.Shift(reduced.Idt, 1, 0),
				Value:    h.Body,
				Name:     reduced.Name,
				Motive:   term.Shift(reduced.Motive, 1, 1),
				Branches: branches,
			})
		}
	}
	return reduced
}
