package book

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vito/formal/pkg/ioctx"
	"github.com/vito/formal/pkg/kernel"
	"github.com/vito/formal/pkg/syntax"
	"github.com/vito/formal/pkg/term"
)

var _ kernel.Env = (*Book)(nil)

// DefinitionError is a failure checking one definition.
type DefinitionError struct {
	Name string
	Pos  syntax.Pos
	Err  error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Name, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// Result is the outcome of checking one definition. Type is the annotation
// when there is one, otherwise the inferred type.
type Result struct {
	Name string
	Type term.Term
	Err  error
}

// Check type checks a single definition. An annotation must be a type and
// the term must check against it; an unannotated term must be inferable.
func (b *Book) Check(ctx context.Context, k *kernel.Kernel, name string) (term.Term, error) {
	def, ok := b.defs[name]
	if !ok {
		return nil, fmt.Errorf("%q is not defined", name)
	}
	return b.CheckDefinition(ctx, k, *def)
}

// CheckDefinition checks def against the definitions in the book without
// adding it.
func (b *Book) CheckDefinition(ctx context.Context, k *kernel.Kernel, def Definition) (term.Term, error) {
	typ, err := b.check(ctx, k, &def)
	if err != nil {
		return nil, &DefinitionError{Name: def.Name, Pos: def.Pos, Err: err}
	}
	return typ, nil
}

func (b *Book) check(ctx context.Context, k *kernel.Kernel, def *Definition) (term.Term, error) {
	body, err := b.Expand(def.Term)
	if err != nil {
		return nil, err
	}
	if def.Type == nil {
		return k.Infer(ctx, body)
	}
	typ, err := b.Expand(def.Type)
	if err != nil {
		return nil, err
	}
	if err := k.Check(ctx, typ, term.Set{}); err != nil {
		return nil, err
	}
	if err := k.Check(ctx, body, typ); err != nil {
		return nil, err
	}
	return def.Type, nil
}

// CheckAll checks every definition, running up to jobs checks at once
// (GOMAXPROCS when jobs is not positive). Results are in definition order.
// The returned error is only set when ctx is cancelled.
func (b *Book) CheckAll(ctx context.Context, k *kernel.Kernel, jobs int) ([]Result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	logger := ioctx.LoggerFromContext(ctx)

	results := make([]Result, len(b.order))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for i, name := range b.order {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			typ, err := b.Check(gctx, k, name)
			logger.DebugContext(gctx, "checked definition",
				"name", name,
				"duration", time.Since(start),
				"ok", err == nil)
			results[i] = Result{Name: name, Type: typ, Err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
