package term

// Dup unboxes Value and binds its content in Body.
type Dup struct {
	Name  string
	Value Term
	Body  Term
}

func NewDup(name string, val, body Term) *Dup {
	return &Dup{Name: name, Value: val, Body: body}
}

func (t *Dup) Shift(d, c int) Term {
	return &Dup{Name: t.Name, Value: Shift(t.Value, d, c), Body: Shift(t.Body, d, c+1)}
}

func (t *Dup) Subst(v Term, depth int) Term {
	return &Dup{Name: t.Name, Value: Subst(t.Value, v, depth), Body: Subst(t.Body, v, depth+1)}
}

func (t *Dup) Eq(other Term) bool {
	o, ok := other.(*Dup)
	return ok && Equal(t.Value, o.Value) && Equal(t.Body, o.Body)
}

func (t *Dup) String() string { return Show(t) }

// Bxv boxes a value, making it duplicable.
type Bxv struct {
	Value Term
}

func (t *Bxv) Shift(d, c int) Term          { return &Bxv{Value: Shift(t.Value, d, c)} }
func (t *Bxv) Subst(v Term, depth int) Term { return &Bxv{Value: Subst(t.Value, v, depth)} }
func (t *Bxv) String() string               { return Show(t) }

func (t *Bxv) Eq(other Term) bool {
	o, ok := other.(*Bxv)
	return ok && Equal(t.Value, o.Value)
}

// Bxt is the type of boxed values of Type.
type Bxt struct {
	Type Term
}

func (t *Bxt) Shift(d, c int) Term          { return &Bxt{Type: Shift(t.Type, d, c)} }
func (t *Bxt) Subst(v Term, depth int) Term { return &Bxt{Type: Subst(t.Type, v, depth)} }
func (t *Bxt) String() string               { return Show(t) }

func (t *Bxt) Eq(other Term) bool {
	o, ok := other.(*Bxt)
	return ok && Equal(t.Type, o.Type)
}
