package kernel

import (
	"github.com/vito/formal/pkg/term"
)

func (c *checker) inferBxv(bxv *term.Bxv, ctx term.Context) (term.Term, error) {
	typ, err := c.infer(bxv.Value, ctx)
	if err != nil {
		return nil, err
	}
	return &term.Bxt{Type: typ}, nil
}

func (c *checker) inferBxt(bxt *term.Bxt, ctx term.Context) (term.Term, error) {
	ok, err := c.isType(bxt.Type, ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, mismatch(bxt.Type, term.Set{}, nil, ctx)
	}
	return term.Set{}, nil
}

// inferDup binds the unboxed content in the body. The body's type is
// instantiated with the unboxed value when the value is a literal box and
// with the value itself otherwise. Uses of the bound variable are not
// counted.
func (c *checker) inferDup(dup *term.Dup, ctx term.Context) (term.Term, error) {
	valT, err := c.infer(dup.Value, ctx)
	if err != nil {
		return nil, err
	}
	valT, err = c.normal(valT)
	if err != nil {
		return nil, err
	}
	box, ok := valT.(*term.Bxt)
	if !ok {
		return nil, &Error{Kind: UnboxedDuplication, Term: dup.Value, Actual: valT, Context: ctx}
	}
	bodyT, err := c.infer(dup.Body, ctx.Extend(dup.Name, box.Type))
	if err != nil {
		return nil, err
	}
	val, err := c.normal(dup.Value)
	if err != nil {
		return nil, err
	}
	// A literal box contributes its content, as the reduction rule does.
	// Any other value is substituted as it is.
	if b, ok := val.(*term.Bxv); ok {
		val = b.Value
	}
	return c.normal(term.Subst(bodyT, val, 0))
}

// reduceDup cancels a duplication against a box, or floats it out of a
// duplication in value position.
func (r *reducer) reduceDup(dup *term.Dup) term.Term {
	val := r.reduce(dup.Value)
	switch v := val.(type) {
	case *term.Bxv:
		if r.fire() {
			return r.reduce(term.Subst(dup.Body, v.Value, 0))
		}
	case *term.Dup:
		if r.fire() {
			return r.floatDup(v, &term.Dup{
				Name:  dup.Name,
				Value: v.Body,
				Body:  term.Shift(dup.Body, 1, 1),
			})
		}
	}
	return &term.Dup{Name: dup.Name, Value: val, Body: r.reduce(dup.Body)}
}

// floatDup rebuilds outer around inner, where inner has already been moved
// under outer's binder.
func (r *reducer) floatDup(outer *term.Dup, inner term.Term) term.Term {
	return &term.Dup{Name: outer.Name, Value: outer.Value, Body: r.reduce(inner)}
}
