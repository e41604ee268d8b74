package kernel

import (
	"fmt"

	"github.com/vito/formal/pkg/term"
)

type checker struct {
	r *reducer
}

// normal reduces t, failing if the reducer has stopped.
func (c *checker) normal(t term.Term) (term.Term, error) {
	nf := c.r.reduce(t)
	if c.r.err != nil {
		return nil, c.r.err
	}
	return nf, nil
}

// conv compares the normal forms of a and b, returning them for error
// reports.
func (c *checker) conv(a, b term.Term) (na, nb term.Term, ok bool, err error) {
	if na, err = c.normal(a); err != nil {
		return nil, nil, false, err
	}
	if nb, err = c.normal(b); err != nil {
		return nil, nil, false, err
	}
	return na, nb, term.Equal(na, nb), nil
}

// isType infers t and requires it to live in Set.
func (c *checker) isType(t term.Term, ctx term.Context) (bool, error) {
	typ, err := c.infer(t, ctx)
	if err != nil {
		return false, err
	}
	_, _, ok, err := c.conv(typ, term.Set{})
	return ok, err
}

func (c *checker) infer(t term.Term, ctx term.Context) (term.Term, error) {
	switch t := t.(type) {
	case term.Var:
		b, ok := ctx.Lookup(t.Index)
		if !ok {
			return nil, fail(UnboundVariable, t, ctx)
		}
		return b.Type, nil
	case term.Set:
		return term.Set{}, nil
	case term.Ref:
		return nil, &Error{Kind: UnresolvedReference, Name: t.Name, Context: ctx}
	case *term.Lam:
		return c.inferLam(t, ctx)
	case *term.All:
		return c.inferAll(t, ctx)
	case *term.App:
		return c.inferApp(t, ctx)
	case *term.Sig:
		return c.inferSig(t, ctx)
	case *term.Mks:
		return c.inferMks(t, ctx)
	case *term.Spt:
		return c.inferSpt(t, ctx)
	case *term.Idt:
		return c.normal(t.Type)
	case *term.Ctr:
		return c.inferCtr(t, ctx)
	case *term.Cas:
		return c.inferCas(t, ctx)
	case *term.Dup:
		return c.inferDup(t, ctx)
	case *term.Bxv:
		return c.inferBxv(t, ctx)
	case *term.Bxt:
		return c.inferBxt(t, ctx)
	default:
		return nil, fmt.Errorf("infer: unhandled term %T", t)
	}
}

// check verifies t against expected. Unannotated lambdas take their domain
// from the expected function type; everything else is inferred and compared.
func (c *checker) check(t, expected term.Term, ctx term.Context) error {
	if lam, ok := t.(*term.Lam); ok && lam.Dom == nil {
		exp, err := c.normal(expected)
		if err != nil {
			return err
		}
		all, ok := exp.(*term.All)
		if !ok {
			return &Error{Kind: CannotInferLambda, Term: t, Expected: exp, Context: ctx}
		}
		return c.check(lam.Body, all.Cod, ctx.Extend(lam.Name, all.Dom))
	}
	actual, err := c.infer(t, ctx)
	if err != nil {
		return err
	}
	act, exp, ok, err := c.conv(actual, expected)
	if err != nil {
		return err
	}
	if !ok {
		return mismatch(t, exp, act, ctx)
	}
	return nil
}

func (c *checker) inferLam(lam *term.Lam, ctx term.Context) (term.Term, error) {
	if lam.Dom == nil {
		return nil, fail(CannotInferLambda, lam, ctx)
	}
	dom, err := c.normal(lam.Dom)
	if err != nil {
		return nil, err
	}
	body, err := c.infer(lam.Body, ctx.Extend(lam.Name, dom))
	if err != nil {
		return nil, err
	}
	return &term.All{Erased: lam.Erased, Name: lam.Name, Dom: dom, Cod: body}, nil
}

func (c *checker) inferAll(all *term.All, ctx term.Context) (term.Term, error) {
	ok, err := c.isType(all.Dom, ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fail(IllFormedForall, all, ctx)
	}
	dom, err := c.normal(all.Dom)
	if err != nil {
		return nil, err
	}
	ok, err = c.isType(all.Cod, ctx.Extend(all.Name, dom))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fail(IllFormedForall, all, ctx)
	}
	return term.Set{}, nil
}

func (c *checker) inferApp(app *term.App, ctx term.Context) (term.Term, error) {
	funT, err := c.infer(app.Fun, ctx)
	if err != nil {
		return nil, err
	}
	funT, err = c.normal(funT)
	if err != nil {
		return nil, err
	}
	all, ok := funT.(*term.All)
	if !ok {
		return nil, &Error{Kind: NonFunctionApplication, Term: app, Actual: funT, Context: ctx}
	}
	if err := c.check(app.Arg, all.Dom, ctx); err != nil {
		return nil, err
	}
	arg, err := c.normal(app.Arg)
	if err != nil {
		return nil, err
	}
	return c.normal(term.Subst(all.Cod, arg, 0))
}
