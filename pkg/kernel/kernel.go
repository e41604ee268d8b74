// Package kernel normalizes and type checks terms of the calculus.
//
// Every operation is a synchronous structural recursion over immutable
// terms. A Kernel holds no mutable state between calls, so one value can be
// shared by goroutines checking independent definitions, provided its Env is
// not modified meanwhile.
package kernel

import (
	"context"
	"log/slog"

	"github.com/vito/formal/pkg/term"
)

// Kernel bundles the global environment with the host's reduction bound.
type Kernel struct {
	env    Env
	fuel   int
	logger *slog.Logger
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithFuel bounds Normalize, Infer and Check to n rewrite steps per call. Zero
// means unbounded.
func WithFuel(n int) Option {
	return func(k *Kernel) {
		k.fuel = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(k *Kernel) {
		k.logger = logger
	}
}

// New creates a Kernel resolving references through env, which may be nil.
func New(env Env, opts ...Option) *Kernel {
	k := &Kernel{env: env, logger: slog.Default()}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Env returns the environment references are resolved in.
func (k *Kernel) Env() Env {
	return k.env
}

// Reduce computes the normal form of t. It is unbounded: a term without a
// normal form makes it run forever.
func (k *Kernel) Reduce(t term.Term) term.Term {
	r := &reducer{env: k.env}
	return r.reduce(t)
}

// Normalize reduces t within the kernel's fuel, polling ctx for cancellation.
// When it stops early it returns the partially reduced term together with
// ErrOutOfFuel or the context's error. A normal form that still contains a
// case analysis of a closed scrutinee is returned with a StuckReduction error.
func (k *Kernel) Normalize(ctx context.Context, t term.Term) (term.Term, error) {
	r := k.reducer(ctx)
	nf := r.reduce(t)
	if r.err != nil {
		k.logger.DebugContext(ctx, "normalization stopped", "steps", r.steps, "error", r.err)
		return nf, r.err
	}
	if stuck := findStuck(nf); stuck != nil {
		return nf, fail(StuckReduction, stuck, term.Context{})
	}
	return nf, nil
}

// Infer computes the type of the closed term t.
func (k *Kernel) Infer(ctx context.Context, t term.Term) (term.Term, error) {
	return k.InferIn(ctx, t, term.Context{})
}

// InferIn computes the type of t under the binders of tctx.
func (k *Kernel) InferIn(ctx context.Context, t term.Term, tctx term.Context) (term.Term, error) {
	c := &checker{r: k.reducer(ctx)}
	return c.infer(t, tctx)
}

// Check verifies that the closed term t has type typ.
func (k *Kernel) Check(ctx context.Context, t, typ term.Term) error {
	c := &checker{r: k.reducer(ctx)}
	return c.check(t, typ, term.Context{})
}

func (k *Kernel) reducer(ctx context.Context) *reducer {
	return &reducer{ctx: ctx, env: k.env, fuel: k.fuel}
}

// Reduce computes the normal form of t without a global environment.
func Reduce(t term.Term) term.Term {
	return New(nil).Reduce(t)
}

// Infer computes the type of the closed term t without a global environment.
func Infer(t term.Term) (term.Term, error) {
	return New(nil).Infer(context.Background(), t)
}
