package kernel

import "github.com/vito/formal/pkg/term"

// Env resolves global references for the normalizer. Implementations must not
// change while a kernel call is running.
type Env interface {
	Lookup(name string) (term.Term, bool)
}

// MapEnv is an Env backed by a plain map of closed terms.
type MapEnv map[string]term.Term

func (env MapEnv) Lookup(name string) (term.Term, bool) {
	t, ok := env[name]
	return t, ok
}
