package term

// Erase removes computationally irrelevant parts of t: erased lambdas are
// dropped with their variable replaced by Set, erased applications keep only
// the function, and lambda domains are forgotten.
func Erase(t Term) Term {
	switch t := t.(type) {
	case *Lam:
		if t.Erased {
			return Erase(Subst(t.Body, Set{}, 0))
		}
		return &Lam{Name: t.Name, Body: Erase(t.Body)}
	case *App:
		if t.Erased {
			return Erase(t.Fun)
		}
		return &App{Fun: Erase(t.Fun), Arg: Erase(t.Arg)}
	default:
		return Map(t, func(sub Term, _ int) Term {
			return Erase(sub)
		})
	}
}
