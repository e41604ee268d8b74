// Package book holds the global definitions terms refer to by name.
package book

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/vito/formal/pkg/syntax"
	"github.com/vito/formal/pkg/term"
)

// Definition is a named, possibly annotated, closed term.
type Definition struct {
	Name string
	Type term.Term
	Term term.Term
	Pos  syntax.Pos
}

// Book is an ordered set of definitions. It is not safe for concurrent
// modification; concurrent reads are fine.
type Book struct {
	defs  map[string]*Definition
	order []string
}

func New() *Book {
	return &Book{defs: map[string]*Definition{}}
}

// Define adds a definition. Names are unique.
func (b *Book) Define(def Definition) error {
	if prev, ok := b.defs[def.Name]; ok {
		return errors.Errorf("%s: %q is already defined at %s", def.Pos, def.Name, prev.Pos)
	}
	b.defs[def.Name] = &def
	b.order = append(b.order, def.Name)
	return nil
}

// Lookup returns the term named name, satisfying kernel.Env.
func (b *Book) Lookup(name string) (term.Term, bool) {
	def, ok := b.defs[name]
	if !ok {
		return nil, false
	}
	return def.Term, true
}

// Definition returns the full definition named name.
func (b *Book) Definition(name string) (Definition, bool) {
	def, ok := b.defs[name]
	if !ok {
		return Definition{}, false
	}
	return *def, true
}

// Names returns the defined names in definition order.
func (b *Book) Names() []string {
	return slices.Clone(b.order)
}

func (b *Book) Len() int {
	return len(b.order)
}

// LoadSource parses src and defines everything in it.
func (b *Book) LoadSource(filename string, src []byte) error {
	defs, err := syntax.ParseFile(filename, src)
	if err != nil {
		return err
	}
	for _, def := range defs {
		if err := b.Define(Definition{Name: def.Name, Type: def.Type, Term: def.Term, Pos: def.Pos}); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile reads and loads a definition file.
func (b *Book) LoadFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	return b.LoadSource(path, src)
}

// LoadGlobs loads every file matching the patterns, relative to dir, in
// lexical order. A pattern matching nothing is an error.
func (b *Book) LoadGlobs(dir string, patterns []string) error {
	var paths []string
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(dir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return errors.Wrapf(err, "include %q", pattern)
		}
		if len(matches) == 0 {
			return errors.Errorf("include %q matched no files", pattern)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)
	for _, path := range paths {
		if err := b.LoadFile(path); err != nil {
			return err
		}
	}
	return nil
}

// CycleError reports references that expand into themselves.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "reference cycle: " + strings.Join(e.Path, " -> ")
}

// Expand replaces every reference to a definition in t with the
// definition's term, transitively. References to unknown names are kept.
//
// An annotated definition whose term is an unannotated lambda expands to
// the lambda applied to an identity over its type, so references to it can
// still be inferred.
func (b *Book) Expand(t term.Term) (term.Term, error) {
	return b.expand(t, nil)
}

func (b *Book) expand(t term.Term, stack []string) (term.Term, error) {
	if ref, ok := t.(term.Ref); ok {
		def, ok := b.defs[ref.Name]
		if !ok {
			return ref, nil
		}
		path := append(stack[:len(stack):len(stack)], ref.Name)
		if slices.Contains(stack, ref.Name) {
			return nil, &CycleError{Path: path}
		}
		body, err := b.expand(def.Term, path)
		if err != nil || def.Type == nil || !uninferable(body) {
			return body, err
		}
		typ, err := b.expand(def.Type, path)
		if err != nil {
			return nil, err
		}
		return term.NewApp(term.NewLam(def.Name, typ, term.Var{Index: 0}), body), nil
	}
	var err error
	expanded := term.Map(t, func(sub term.Term, _ int) term.Term {
		if err != nil {
			return sub
		}
		out, subErr := b.expand(sub, stack)
		if subErr != nil {
			err = subErr
			return sub
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	return expanded, nil
}

func uninferable(t term.Term) bool {
	lam, ok := t.(*term.Lam)
	return ok && lam.Dom == nil
}
