package term

import "slices"

// Constructor is one entry of an inductive declaration. Its Type is under the
// self binder of the owning Idt.
type Constructor struct {
	Name string
	Type Term
}

// Idt declares an inductive type. Type is its own type (the motive type, e.g.
// Set); each constructor type refers to the type being declared as Var(0).
type Idt struct {
	Name string
	Type Term
	Ctrs []Constructor
}

func NewIdt(name string, typ Term, ctrs ...Constructor) *Idt {
	return &Idt{Name: name, Type: typ, Ctrs: ctrs}
}

// Constructor returns the constructor with the given name.
func (t *Idt) Constructor(name string) (Constructor, bool) {
	i := slices.IndexFunc(t.Ctrs, func(c Constructor) bool {
		return c.Name == name
	})
	if i < 0 {
		return Constructor{}, false
	}
	return t.Ctrs[i], true
}

func (t *Idt) Shift(d, c int) Term {
	ctrs := make([]Constructor, len(t.Ctrs))
	for i, ctr := range t.Ctrs {
		ctrs[i] = Constructor{Name: ctr.Name, Type: Shift(ctr.Type, d, c+1)}
	}
	return &Idt{Name: t.Name, Type: Shift(t.Type, d, c), Ctrs: ctrs}
}

func (t *Idt) Subst(v Term, depth int) Term {
	ctrs := make([]Constructor, len(t.Ctrs))
	for i, ctr := range t.Ctrs {
		ctrs[i] = Constructor{Name: ctr.Name, Type: Subst(ctr.Type, v, depth+1)}
	}
	return &Idt{Name: t.Name, Type: Subst(t.Type, v, depth), Ctrs: ctrs}
}

func (t *Idt) Eq(other Term) bool {
	o, ok := other.(*Idt)
	if !ok || len(t.Ctrs) != len(o.Ctrs) || !Equal(t.Type, o.Type) {
		return false
	}
	for i := range t.Ctrs {
		if t.Ctrs[i].Name != o.Ctrs[i].Name || !Equal(t.Ctrs[i].Type, o.Ctrs[i].Type) {
			return false
		}
	}
	return true
}

func (t *Idt) String() string { return Show(t) }

// Ctr is a constructor of the inductive type Idt.
type Ctr struct {
	Name string
	Idt  Term
}

func NewCtr(name string, idt Term) *Ctr {
	return &Ctr{Name: name, Idt: idt}
}

func (t *Ctr) Shift(d, c int) Term {
	return &Ctr{Name: t.Name, Idt: Shift(t.Idt, d, c)}
}

func (t *Ctr) Subst(v Term, depth int) Term {
	return &Ctr{Name: t.Name, Idt: Subst(t.Idt, v, depth)}
}

func (t *Ctr) Eq(other Term) bool {
	o, ok := other.(*Ctr)
	return ok && o.Name == t.Name && Equal(t.Idt, o.Idt)
}

func (t *Ctr) String() string { return Show(t) }

// Branch is the case function for the constructor of the same name.
type Branch struct {
	Name string
	Term Term
}

// Cas eliminates a value of an inductive type. Motive binds the scrutinee
// (named Name); branches live outside that binder.
type Cas struct {
	Idt      Term
	Value    Term
	Name     string
	Motive   Term
	Branches []Branch
}

func NewCas(idt, val, motive Term, branches ...Branch) *Cas {
	return &Cas{Idt: idt, Value: val, Motive: motive, Branches: branches}
}

// Branch returns the branch for the given constructor name.
func (t *Cas) Branch(name string) (Term, bool) {
	for _, b := range t.Branches {
		if b.Name == name {
			return b.Term, true
		}
	}
	return nil, false
}

func (t *Cas) Shift(d, c int) Term {
	branches := make([]Branch, len(t.Branches))
	for i, b := range t.Branches {
		branches[i] = Branch{Name: b.Name, Term: Shift(b.Term, d, c)}
	}
	return &Cas{
		Idt:      Shift(t.Idt, d, c),
		Value:    Shift(t.Value, d, c),
		Name:     t.Name,
		Motive:   Shift(t.Motive, d, c+1),
		Branches: branches,
	}
}

func (t *Cas) Subst(v Term, depth int) Term {
	branches := make([]Branch, len(t.Branches))
	for i, b := range t.Branches {
		branches[i] = Branch{Name: b.Name, Term: Subst(b.Term, v, depth)}
	}
	return &Cas{
		Idt:      Subst(t.Idt, v, depth),
		Value:    Subst(t.Value, v, depth),
		Name:     t.Name,
		Motive:   Subst(t.Motive, v, depth+1),
		Branches: branches,
	}
}

func (t *Cas) Eq(other Term) bool {
	o, ok := other.(*Cas)
	if !ok || len(t.Branches) != len(o.Branches) {
		return false
	}
	if !Equal(t.Idt, o.Idt) || !Equal(t.Value, o.Value) || !Equal(t.Motive, o.Motive) {
		return false
	}
	for i := range t.Branches {
		if t.Branches[i].Name != o.Branches[i].Name || !Equal(t.Branches[i].Term, o.Branches[i].Term) {
			return false
		}
	}
	return true
}

func (t *Cas) String() string { return Show(t) }
