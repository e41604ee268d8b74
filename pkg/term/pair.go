package term

// Sig is the dependent pair type. Snd is under one binder of type Fst.
type Sig struct {
	Erased bool
	Name   string
	Fst    Term
	Snd    Term
}

func NewSig(name string, fst, snd Term) *Sig {
	return &Sig{Name: name, Fst: fst, Snd: snd}
}

func (t *Sig) Shift(d, c int) Term {
	return &Sig{
		Erased: t.Erased,
		Name:   t.Name,
		Fst:    Shift(t.Fst, d, c),
		Snd:    Shift(t.Snd, d, c+1),
	}
}

func (t *Sig) Subst(v Term, depth int) Term {
	return &Sig{
		Erased: t.Erased,
		Name:   t.Name,
		Fst:    Subst(t.Fst, v, depth),
		Snd:    Subst(t.Snd, v, depth+1),
	}
}

func (t *Sig) Eq(other Term) bool {
	o, ok := other.(*Sig)
	return ok && Equal(t.Fst, o.Fst) && Equal(t.Snd, o.Snd)
}

func (t *Sig) String() string { return Show(t) }

// Mks builds a pair of the given Sig type.
type Mks struct {
	Erased bool
	Type   Term
	Fst    Term
	Snd    Term
}

func NewMks(typ, fst, snd Term) *Mks {
	return &Mks{Type: typ, Fst: fst, Snd: snd}
}

func (t *Mks) Shift(d, c int) Term {
	return &Mks{
		Erased: t.Erased,
		Type:   Shift(t.Type, d, c),
		Fst:    Shift(t.Fst, d, c),
		Snd:    Shift(t.Snd, d, c),
	}
}

func (t *Mks) Subst(v Term, depth int) Term {
	return &Mks{
		Erased: t.Erased,
		Type:   Subst(t.Type, v, depth),
		Fst:    Subst(t.Fst, v, depth),
		Snd:    Subst(t.Snd, v, depth),
	}
}

func (t *Mks) Eq(other Term) bool {
	o, ok := other.(*Mks)
	return ok && Equal(t.Type, o.Type) && Equal(t.Fst, o.Fst) && Equal(t.Snd, o.Snd)
}

func (t *Mks) String() string { return Show(t) }

// Spt splits a pair. Motive binds the scrutinee (named Name); Body binds the
// first component (FstName, index 1) and the second (SndName, index 0).
type Spt struct {
	Erased  bool
	Pair    Term
	Name    string
	Motive  Term
	FstName string
	SndName string
	Body    Term
}

func NewSpt(pair, motive Term, fst, snd string, body Term) *Spt {
	return &Spt{Pair: pair, Motive: motive, FstName: fst, SndName: snd, Body: body}
}

func (t *Spt) Shift(d, c int) Term {
	return &Spt{
		Erased:  t.Erased,
		Pair:    Shift(t.Pair, d, c),
		Name:    t.Name,
		Motive:  Shift(t.Motive, d, c+1),
		FstName: t.FstName,
		SndName: t.SndName,
		Body:    Shift(t.Body, d, c+2),
	}
}

func (t *Spt) Subst(v Term, depth int) Term {
	return &Spt{
		Erased:  t.Erased,
		Pair:    Subst(t.Pair, v, depth),
		Name:    t.Name,
		Motive:  Subst(t.Motive, v, depth+1),
		FstName: t.FstName,
		SndName: t.SndName,
		Body:    Subst(t.Body, v, depth+2),
	}
}

func (t *Spt) Eq(other Term) bool {
	o, ok := other.(*Spt)
	return ok &&
		Equal(t.Pair, o.Pair) &&
		Equal(t.Motive, o.Motive) &&
		Equal(t.Body, o.Body)
}

func (t *Spt) String() string { return Show(t) }
