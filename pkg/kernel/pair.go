package kernel

import (
	"github.com/vito/formal/pkg/term"
)

func (c *checker) inferSig(sig *term.Sig, ctx term.Context) (term.Term, error) {
	ok, err := c.isType(sig.Fst, ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fail(IllFormedSigma, sig, ctx)
	}
	fst, err := c.normal(sig.Fst)
	if err != nil {
		return nil, err
	}
	ok, err = c.isType(sig.Snd, ctx.Extend(sig.Name, fst))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fail(IllFormedSigma, sig, ctx)
	}
	return term.Set{}, nil
}

func (c *checker) sigma(t term.Term) (*term.Sig, term.Term, error) {
	nf, err := c.normal(t)
	if err != nil {
		return nil, nil, err
	}
	sig, _ := nf.(*term.Sig)
	return sig, nf, nil
}

func (c *checker) inferMks(mks *term.Mks, ctx term.Context) (term.Term, error) {
	sig, typ, err := c.sigma(mks.Type)
	if err != nil {
		return nil, err
	}
	if sig == nil {
		return nil, &Error{Kind: NonSigmaConstruction, Term: mks, Actual: typ, Context: ctx}
	}
	if err := c.check(mks.Fst, sig.Fst, ctx); err != nil {
		return nil, err
	}
	fst, err := c.normal(mks.Fst)
	if err != nil {
		return nil, err
	}
	if err := c.check(mks.Snd, term.Subst(sig.Snd, fst, 0), ctx); err != nil {
		return nil, err
	}
	return sig, nil
}

// inferSpt checks the body against the motive instantiated with the pair
// rebuilt from the two bound components, so the result type can depend on
// the shape of the pair being split.
func (c *checker) inferSpt(spt *term.Spt, ctx term.Context) (term.Term, error) {
	pairT, err := c.infer(spt.Pair, ctx)
	if err != nil {
		return nil, err
	}
	sig, pairT, err := c.sigma(pairT)
	if err != nil {
		return nil, err
	}
	if sig == nil {
		return nil, &Error{Kind: NonSigmaProjection, Term: spt.Pair, Actual: pairT, Context: ctx}
	}

	motiveCtx := ctx.Extend(spt.Name, sig)
	ok, err := c.isType(spt.Motive, motiveCtx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, mismatch(spt.Motive, term.Set{}, nil, motiveCtx)
	}

	bodyCtx := ctx.Extend(spt.FstName, sig.Fst).Extend(spt.SndName, sig.Snd)
	rebuilt := &term.Mks{
		Erased: spt.Erased,
		Type:   term.Shift(sig, 2, 0),
		Fst:    term.Var{Index: 1},
		Snd:    term.Var{Index: 0},
	}
	expected := term.Subst(term.Shift(spt.Motive, 2, 1), rebuilt, 0)
	if err := c.check(spt.Body, expected, bodyCtx); err != nil {
		return nil, err
	}

	pair, err := c.normal(spt.Pair)
	if err != nil {
		return nil, err
	}
	return c.normal(term.Subst(spt.Motive, pair, 0))
}

// reduceSpt projects a literal pair into the body: the first component
// replaces index 1 and the second index 0.
func (r *reducer) reduceSpt(spt *term.Spt) term.Term {
	reduced := term.Map(spt, func(sub term.Term, _ int) term.Term {
		return r.reduce(sub)
	}).(*term.Spt)

	switch p := reduced.Pair.(type) {
	case *term.Mks:
		if r.fire() {
			body := term.Subst(reduced.Body, term.Shift(p.Snd, 1, 0), 0)
			return r.reduce(term.Subst(body, p.Fst, 0))
		}
	case *term.Dup:
		if r.fire() {
			return r.floatDup(p, &term.Spt{
				Erased:  reduced.Erased,
				Pair:    p.Body,
				Name:    reduced.Name,
				Motive:  term.Shift(reduced.Motive, 1, 1),
				FstName: reduced.FstName,
				SndName: reduced.SndName,
				Body:    term.Shift(reduced.Body, 1, 2),
			})
		}
	}
	return reduced
}
