package term

import "fmt"

// Term is a node of the calculus. Variables are de Bruijn indices; every
// transform returns a new tree and leaves the receiver untouched.
type Term interface {
	// Shift adds d to every variable whose index is at least c.
	Shift(d, c int) Term
	// Subst replaces variable depth with v, lowering the variables above it.
	Subst(v Term, depth int) Term
	// Eq is structural equality, ignoring binder names and erasure flags.
	Eq(Term) bool
	fmt.Stringer
}

// Shift adds delta to every free variable of t at or above cutoff.
func Shift(t Term, delta, cutoff int) Term {
	if t == nil {
		return nil
	}
	return t.Shift(delta, cutoff)
}

// Subst replaces Var(depth) in t with v, shifting v by depth to re-adjust its
// free variables, and closes the removed binder.
func Subst(t, v Term, depth int) Term {
	if t == nil {
		return nil
	}
	return t.Subst(v, depth)
}

// Equal reports whether a and b have the same de Bruijn shape.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Eq(b)
}

// Var is a bound variable.
type Var struct {
	Index int
}

func (t Var) Shift(d, c int) Term {
	if t.Index < c {
		return t
	}
	return Var{Index: t.Index + d}
}

func (t Var) Subst(v Term, depth int) Term {
	switch {
	case t.Index == depth:
		return Shift(v, depth, 0)
	case t.Index > depth:
		return Var{Index: t.Index - 1}
	default:
		return t
	}
}

func (t Var) Eq(other Term) bool {
	o, ok := other.(Var)
	return ok && o.Index == t.Index
}

func (t Var) String() string { return Show(t) }

// Set is the type of types.
type Set struct{}

func (t Set) Shift(int, int) Term  { return t }
func (t Set) Subst(Term, int) Term { return t }
func (t Set) String() string       { return Show(t) }

func (t Set) Eq(other Term) bool {
	_, ok := other.(Set)
	return ok
}

// Ref names a global definition. It is resolved by the normalizer, never by
// the transforms.
type Ref struct {
	Name string
}

func (t Ref) Shift(int, int) Term  { return t }
func (t Ref) Subst(Term, int) Term { return t }

func (t Ref) Eq(other Term) bool {
	o, ok := other.(Ref)
	return ok && o.Name == t.Name
}

func (t Ref) String() string { return Show(t) }

// All is the dependent function type. Cod is under one binder.
type All struct {
	Erased bool
	Name   string
	Dom    Term
	Cod    Term
}

func NewAll(name string, dom, cod Term) *All {
	return &All{Name: name, Dom: dom, Cod: cod}
}

func (t *All) Shift(d, c int) Term {
	return &All{
		Erased: t.Erased,
		Name:   t.Name,
		Dom:    Shift(t.Dom, d, c),
		Cod:    Shift(t.Cod, d, c+1),
	}
}

func (t *All) Subst(v Term, depth int) Term {
	return &All{
		Erased: t.Erased,
		Name:   t.Name,
		Dom:    Subst(t.Dom, v, depth),
		Cod:    Subst(t.Cod, v, depth+1),
	}
}

func (t *All) Eq(other Term) bool {
	o, ok := other.(*All)
	return ok && Equal(t.Dom, o.Dom) && Equal(t.Cod, o.Cod)
}

func (t *All) String() string { return Show(t) }

// Lam is a function value. Dom may be nil for a lambda that is only ever
// checked against a known function type.
type Lam struct {
	Erased bool
	Name   string
	Dom    Term
	Body   Term
}

func NewLam(name string, dom, body Term) *Lam {
	return &Lam{Name: name, Dom: dom, Body: body}
}

func (t *Lam) Shift(d, c int) Term {
	return &Lam{
		Erased: t.Erased,
		Name:   t.Name,
		Dom:    Shift(t.Dom, d, c),
		Body:   Shift(t.Body, d, c+1),
	}
}

func (t *Lam) Subst(v Term, depth int) Term {
	return &Lam{
		Erased: t.Erased,
		Name:   t.Name,
		Dom:    Subst(t.Dom, v, depth),
		Body:   Subst(t.Body, v, depth+1),
	}
}

func (t *Lam) Eq(other Term) bool {
	o, ok := other.(*Lam)
	return ok && Equal(t.Dom, o.Dom) && Equal(t.Body, o.Body)
}

func (t *Lam) String() string { return Show(t) }

// App is an application.
type App struct {
	Erased bool
	Fun    Term
	Arg    Term
}

// NewApp builds the left-nested application spine f a1 a2 ... an.
func NewApp(f Term, args ...Term) Term {
	for _, a := range args {
		f = &App{Fun: f, Arg: a}
	}
	return f
}

func (t *App) Shift(d, c int) Term {
	return &App{
		Erased: t.Erased,
		Fun:    Shift(t.Fun, d, c),
		Arg:    Shift(t.Arg, d, c),
	}
}

func (t *App) Subst(v Term, depth int) Term {
	return &App{
		Erased: t.Erased,
		Fun:    Subst(t.Fun, v, depth),
		Arg:    Subst(t.Arg, v, depth),
	}
}

func (t *App) Eq(other Term) bool {
	o, ok := other.(*App)
	return ok && Equal(t.Fun, o.Fun) && Equal(t.Arg, o.Arg)
}

func (t *App) String() string { return Show(t) }

// Spine unwinds an application chain into its head and arguments, outermost
// argument last.
func Spine(t Term) (Term, []*App) {
	var apps []*App
	for {
		app, ok := t.(*App)
		if !ok {
			break
		}
		apps = append(apps, app)
		t = app.Fun
	}
	for i, j := 0, len(apps)-1; i < j; i, j = i+1, j-1 {
		apps[i], apps[j] = apps[j], apps[i]
	}
	return t, apps
}
