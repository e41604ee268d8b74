package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// samples covers every variant with free variables at several depths.
func samples() []Term {
	nat := NewIdt("Nat", Set{},
		Constructor{Name: "zer", Type: Var{Index: 0}},
		Constructor{Name: "suc", Type: NewAll("n", Var{Index: 0}, Var{Index: 1})},
	)
	return []Term{
		Var{Index: 0},
		Var{Index: 3},
		Set{},
		Ref{Name: "id"},
		NewAll("x", Var{Index: 0}, NewApp(Var{Index: 1}, Var{Index: 0})),
		NewLam("x", nil, NewApp(Var{Index: 2}, Var{Index: 0}, Var{Index: 1})),
		&App{Erased: true, Fun: Var{Index: 1}, Arg: Set{}},
		NewSig("a", Var{Index: 0}, NewApp(Var{Index: 1}, Var{Index: 0})),
		NewMks(Var{Index: 2}, Var{Index: 0}, Var{Index: 1}),
		NewSpt(Var{Index: 0}, Var{Index: 3}, "x", "y", NewApp(Var{Index: 1}, Var{Index: 2}, Var{Index: 4})),
		nat,
		NewCtr("suc", nat),
		NewCas(nat, Var{Index: 0}, Var{Index: 2},
			Branch{Name: "zer", Term: Var{Index: 1}},
			Branch{Name: "suc", Term: NewLam("n", nil, Var{Index: 2})},
		),
		NewDup("x", Var{Index: 0}, NewApp(Var{Index: 0}, Var{Index: 1})),
		&Bxv{Value: Var{Index: 2}},
		&Bxt{Type: Var{Index: 0}},
	}
}

func TestShiftIdentity(t *testing.T) {
	for _, sample := range samples() {
		for c := 0; c < 4; c++ {
			assert.True(t, Equal(Shift(sample, 0, c), sample), "%s at cutoff %d", sample, c)
		}
	}
}

func TestShiftAdditive(t *testing.T) {
	for _, sample := range samples() {
		for c := 0; c < 3; c++ {
			twice := Shift(Shift(sample, 2, c), 3, c)
			once := Shift(sample, 5, c)
			assert.True(t, Equal(twice, once), "%s at cutoff %d", sample, c)
		}
	}
}

func TestShiftRespectsCutoff(t *testing.T) {
	lam := NewLam("x", Var{Index: 0}, NewApp(Var{Index: 0}, Var{Index: 1}))
	shifted := Shift(lam, 2, 0)
	require.True(t, Equal(shifted, NewLam("x", Var{Index: 2}, NewApp(Var{Index: 0}, Var{Index: 3}))))

	spt := NewSpt(Var{Index: 0}, Var{Index: 1}, "a", "b", NewApp(Var{Index: 0}, Var{Index: 1}, Var{Index: 2}))
	shifted = Shift(spt, 1, 0)
	require.True(t, Equal(shifted, NewSpt(Var{Index: 1}, Var{Index: 2}, "a", "b",
		NewApp(Var{Index: 0}, Var{Index: 1}, Var{Index: 3}))))
}

func TestSubst(t *testing.T) {
	t.Run("replaces the target", func(t *testing.T) {
		require.True(t, Equal(Subst(Var{Index: 0}, Ref{Name: "v"}, 0), Ref{Name: "v"}))
	})

	t.Run("lowers variables above the target", func(t *testing.T) {
		require.True(t, Equal(Subst(Var{Index: 3}, Set{}, 1), Var{Index: 2}))
	})

	t.Run("keeps variables below the target", func(t *testing.T) {
		require.True(t, Equal(Subst(Var{Index: 0}, Set{}, 1), Var{Index: 0}))
	})

	t.Run("shifts the value under binders", func(t *testing.T) {
		// [y] (#0 y) with #0 := #5
		lam := NewLam("y", nil, NewApp(Var{Index: 1}, Var{Index: 0}))
		got := Subst(lam, Var{Index: 5}, 0)
		require.True(t, Equal(got, NewLam("y", nil, NewApp(Var{Index: 6}, Var{Index: 0}))), got.String())
	})

	t.Run("closed values are unaffected by depth", func(t *testing.T) {
		val := NewLam("z", Set{}, Var{Index: 0})
		body := NewDup("x", Var{Index: 0}, Var{Index: 1})
		got := Subst(body, val, 0)
		require.True(t, Equal(got, NewDup("x", val, val)))
	})
}

func TestEqualIgnoresNamesAndErasure(t *testing.T) {
	a := NewLam("x", Set{}, Var{Index: 0})
	b := &Lam{Erased: true, Name: "y", Dom: Set{}, Body: Var{Index: 0}}
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, NewLam("x", Set{}, Var{Index: 1})))
	assert.False(t, Equal(a, NewAll("x", Set{}, Var{Index: 0})))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
	assert.False(t, Equal(NewCtr("zer", Ref{Name: "Nat"}), NewCtr("suc", Ref{Name: "Nat"})))
}

func TestSpine(t *testing.T) {
	app := NewApp(Ref{Name: "f"}, Var{Index: 0}, Set{}, Var{Index: 1})
	head, apps := Spine(app)
	require.Equal(t, Ref{Name: "f"}, head)
	require.Len(t, apps, 3)
	assert.Equal(t, Var{Index: 0}, apps[0].Arg)
	assert.Equal(t, Set{}, apps[1].Arg)
	assert.Equal(t, Var{Index: 1}, apps[2].Arg)

	head, apps = Spine(Set{})
	require.Equal(t, Set{}, head)
	require.Empty(t, apps)
}

func TestFreeVariables(t *testing.T) {
	lam := NewLam("x", Var{Index: 0}, NewApp(Var{Index: 0}, Var{Index: 2}))
	assert.True(t, Occurs(lam, 0))
	assert.True(t, Occurs(lam, 1))
	assert.False(t, Occurs(lam, 2))
	assert.False(t, Closed(lam))
	assert.True(t, Closed(NewLam("x", Set{}, Var{Index: 0})))
	assert.Equal(t, []string{"f", "g"}, Refs(NewApp(Ref{Name: "g"}, Ref{Name: "f"}, Ref{Name: "g"})))
}

func TestShow(t *testing.T) {
	nat := NewIdt("Nat", Set{},
		Constructor{Name: "zer", Type: Var{Index: 0}},
		Constructor{Name: "suc", Type: NewAll("", Var{Index: 0}, Var{Index: 1})},
	)

	for _, tt := range []struct {
		name     string
		term     Term
		expected string
	}{
		{"universe", Set{}, "Type"},
		{"identity", NewLam("x", Set{}, Var{Index: 0}), "[x : Type] x"},
		{"shadowed binder", NewLam("x", Set{}, NewLam("x", Set{}, Var{Index: 1})), "[x : Type] [x1 : Type] x"},
		{"free variable", NewLam("x", nil, Var{Index: 2}), "[x] #1"},
		{"unnamed binder", NewLam("", nil, Var{Index: 0}), "[a] a"},
		{"binder named like a reference", NewLam("f", nil, NewApp(Ref{Name: "f"}, Var{Index: 0})), "[f0] (f f0)"},
		{"keyword binder", NewLam("x", nil, NewLam("box", nil, Var{Index: 1})), "[x] [b] x"},
		{"erased forall", &All{Erased: true, Name: "A", Dom: Set{}, Cod: Var{Index: 0}}, "{-A : Type} A"},
		{"erased argument", &App{Erased: true, Fun: Ref{Name: "id"}, Arg: Set{}}, "(id -Type)"},
		{"sigma", NewSig("a", Set{}, Var{Index: 0}), "<a : Type> a"},
		{"pair", NewMks(Ref{Name: "P"}, Ref{Name: "x"}, Ref{Name: "y"}), "pair P x y"},
		{
			"split",
			&Spt{Pair: Ref{Name: "p"}, Name: "s", Motive: Set{}, FstName: "x", SndName: "y", Body: Var{Index: 1}},
			"split p as s return Type with x y => x",
		},
		{"inductive", nat, "data Nat : Type { zer : Nat; suc : {b : Nat} Nat }"},
		{"constructor", NewCtr("zer", Ref{Name: "Nat"}), ".zer Nat"},
		{
			"case",
			&Cas{
				Idt:    Ref{Name: "Nat"},
				Value:  Ref{Name: "n"},
				Name:   "m",
				Motive: Ref{Name: "Bool"},
				Branches: []Branch{
					{Name: "zer", Term: Ref{Name: "f"}},
					{Name: "suc", Term: NewLam("k", nil, Ref{Name: "t"})},
				},
			},
			"case n of Nat as m return Bool { zer => f; suc => [k] t }",
		},
		{"empty case", &Cas{Idt: Ref{Name: "Void"}, Value: Ref{Name: "v"}, Name: "s", Motive: Set{}}, "case v of Void as s return Type {}"},
		{"duplication", NewDup("x", &Bxv{Value: Set{}}, Var{Index: 0}), "dup x = box Type in x"},
		{"boxed type", &Bxt{Type: Set{}}, "Box Type"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.term.String())
		})
	}
}

func TestSynthetic(t *testing.T) {
	assert.Equal(t, "a", synthetic(1))
	assert.Equal(t, "z", synthetic(26))
	assert.Equal(t, "aa", synthetic(27))
	assert.Equal(t, "az", synthetic(52))
}

func TestContext(t *testing.T) {
	ctx := Context{}.Extend("A", Set{}).Extend("a", Var{Index: 0})
	require.Equal(t, 2, ctx.Len())

	b, ok := ctx.Lookup(0)
	require.True(t, ok)
	assert.Equal(t, "a", b.Name)
	assert.True(t, Equal(b.Type, Var{Index: 1}), b.Type.String())

	b, ok = ctx.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "A", b.Name)
	assert.True(t, Equal(b.Type, Set{}))

	_, ok = ctx.Lookup(2)
	assert.False(t, ok)

	assert.Equal(t, []string{"A", "a"}, ctx.Names())
	assert.Equal(t, "A : Type\na : A", ctx.String())
	assert.Equal(t, "(a A)", ShowIn(NewApp(Var{Index: 0}, Var{Index: 1}), ctx))

	narrowed := ctx.Narrow()
	assert.Equal(t, 1, narrowed.Len())
	assert.Equal(t, 2, ctx.Len())
}

func TestContextExtendDoesNotAlias(t *testing.T) {
	base := Context{}.Extend("A", Set{})
	left := base.Extend("x", Var{Index: 0})
	right := base.Extend("y", Set{})

	b, _ := left.Lookup(0)
	assert.Equal(t, "x", b.Name)
	b, _ = right.Lookup(0)
	assert.Equal(t, "y", b.Name)
}

func TestErase(t *testing.T) {
	// [-A : Type] [x : A] x
	id := &Lam{Erased: true, Name: "A", Dom: Set{}, Body: NewLam("x", Var{Index: 0}, Var{Index: 0})}
	erased := Erase(id)
	require.True(t, Equal(erased, &Lam{Name: "x", Body: Var{Index: 0}}), erased.String())

	app := &App{Fun: &App{Erased: true, Fun: Ref{Name: "id"}, Arg: Set{}}, Arg: Ref{Name: "z"}}
	require.True(t, Equal(Erase(app), NewApp(Ref{Name: "id"}, Ref{Name: "z"})))

	pair := NewMks(Ref{Name: "P"}, id, Set{})
	require.True(t, Equal(Erase(pair), NewMks(Ref{Name: "P"}, &Lam{Name: "x", Body: Var{Index: 0}}, Set{})))
}
