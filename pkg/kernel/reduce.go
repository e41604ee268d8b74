package kernel

import (
	"context"

	"github.com/vito/formal/pkg/term"
)

// pollEvery is how many rewrite steps run between cancellation checks.
const pollEvery = 1024

type reducer struct {
	ctx   context.Context
	env   Env
	fuel  int
	steps int
	err   error
}

// fire accounts for one rewrite. Once it returns false the reducer only
// rebuilds terms, leaving every remaining redex in place.
func (r *reducer) fire() bool {
	if r.err != nil {
		return false
	}
	r.steps++
	if r.fuel > 0 && r.steps > r.fuel {
		r.err = ErrOutOfFuel
		return false
	}
	if r.ctx != nil && r.steps%pollEvery == 0 {
		if err := r.ctx.Err(); err != nil {
			r.err = err
			return false
		}
	}
	return true
}

func (r *reducer) reduce(t term.Term) term.Term {
	switch t := t.(type) {
	case term.Ref:
		return r.reduceRef(t)
	case *term.App:
		return r.reduceApp(t)
	case *term.Spt:
		return r.reduceSpt(t)
	case *term.Cas:
		return r.reduceCas(t)
	case *term.Dup:
		return r.reduceDup(t)
	default:
		return r.congruence(t)
	}
}

func (r *reducer) congruence(t term.Term) term.Term {
	return term.Map(t, func(sub term.Term, _ int) term.Term {
		return r.reduce(sub)
	})
}

// reduceRef unfolds a global definition. Unknown names stay as they are.
func (r *reducer) reduceRef(ref term.Ref) term.Term {
	if r.env == nil {
		return ref
	}
	def, ok := r.env.Lookup(ref.Name)
	if !ok || !r.fire() {
		return ref
	}
	return r.reduce(def)
}

func (r *reducer) reduceApp(app *term.App) term.Term {
	fun := r.reduce(app.Fun)
	arg := r.reduce(app.Arg)
	switch f := fun.(type) {
	case *term.Lam:
		if r.fire() {
			return r.reduce(term.Subst(f.Body, arg, 0))
		}
	case *term.Dup:
		if r.fire() {
			return r.floatDup(f, &term.App{
				Erased: app.Erased,
				Fun:    f.Body,
				Arg:    term.Shift(arg, 1, 0),
			})
		}
	}
	return &term.App{Erased: app.Erased, Fun: fun, Arg: arg}
}

// findStuck returns the first case analysis whose scrutinee is closed and
// still not a constructor.
func findStuck(t term.Term) term.Term {
	if cas, ok := t.(*term.Cas); ok && term.Closed(cas.Value) {
		return cas
	}
	var stuck term.Term
	term.Walk(t, func(sub term.Term, _ int) {
		if stuck == nil {
			stuck = findStuck(sub)
		}
	})
	return stuck
}
