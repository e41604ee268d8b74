package term

import "strings"

// Binding is one entry of a typing context.
type Binding struct {
	Name string
	Type Term
}

// Context is the ordered sequence of binder types enclosing a term, outermost
// first. Each entry's type is stored relative to the context it was pushed
// onto; Lookup shifts it into the current one, which is the same as shifting
// every existing entry by one on each Extend.
type Context struct {
	binds []Binding
}

// Len returns the number of enclosing binders.
func (ctx Context) Len() int {
	return len(ctx.binds)
}

// Extend pushes a binder. The receiver is left unchanged.
func (ctx Context) Extend(name string, typ Term) Context {
	n := len(ctx.binds)
	return Context{binds: append(ctx.binds[:n:n], Binding{Name: name, Type: typ})}
}

// Narrow drops the innermost binder.
func (ctx Context) Narrow() Context {
	if len(ctx.binds) == 0 {
		return ctx
	}
	return Context{binds: ctx.binds[:len(ctx.binds)-1]}
}

// Lookup returns the binding of Var(i) with its type valid in ctx.
func (ctx Context) Lookup(i int) (Binding, bool) {
	n := len(ctx.binds)
	if i < 0 || i >= n {
		return Binding{}, false
	}
	b := ctx.binds[n-i-1]
	b.Type = Shift(b.Type, i+1, 0)
	return b, true
}

// Names returns the binder names, outermost first.
func (ctx Context) Names() []string {
	names := make([]string, len(ctx.binds))
	for i, b := range ctx.binds {
		names[i] = b.Name
	}
	return names
}

// String renders one "name : type" line per binder, outermost first.
func (ctx Context) String() string {
	p := newPrinter(nil)
	var lines []string
	for _, b := range ctx.binds {
		typ := "?"
		if b.Type != nil {
			typ = p.show(b.Type)
		}
		name := p.bind(b.Name)
		lines = append(lines, name+" : "+typ)
	}
	return strings.Join(lines, "\n")
}
