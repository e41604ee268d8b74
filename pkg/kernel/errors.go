package kernel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vito/formal/pkg/term"
)

// ErrorKind classifies checking and reduction failures.
type ErrorKind int

const (
	TypeMismatch ErrorKind = iota + 1
	NonFunctionApplication
	IllFormedForall
	IllFormedSigma
	UnknownConstructor
	NotInductive
	PatternArityMismatch
	NonSigmaProjection
	NonSigmaConstruction
	UnboxedDuplication
	UnresolvedReference
	UnboundVariable
	CannotInferLambda
	StuckReduction
)

var kindNames = map[ErrorKind]string{
	TypeMismatch:           "type mismatch",
	NonFunctionApplication: "non-function application",
	IllFormedForall:        "forall not a type",
	IllFormedSigma:         "sigma not a type",
	UnknownConstructor:     "constructor not found",
	NotInductive:           "not an inductive type",
	PatternArityMismatch:   "mismatched pattern-match",
	NonSigmaProjection:     "split of a non-sigma value",
	NonSigmaConstruction:   "pair of a non-sigma type",
	UnboxedDuplication:     "unboxed duplication",
	UnresolvedReference:    "unresolved reference",
	UnboundVariable:        "unbound variable",
	CannotInferLambda:      "cannot infer unannotated lambda",
	StuckReduction:         "stuck reduction",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("error(%d)", int(k))
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrTypeMismatch           = &Error{Kind: TypeMismatch}
	ErrNonFunctionApplication = &Error{Kind: NonFunctionApplication}
	ErrIllFormedForall        = &Error{Kind: IllFormedForall}
	ErrIllFormedSigma         = &Error{Kind: IllFormedSigma}
	ErrUnknownConstructor     = &Error{Kind: UnknownConstructor}
	ErrNotInductive           = &Error{Kind: NotInductive}
	ErrPatternArityMismatch   = &Error{Kind: PatternArityMismatch}
	ErrNonSigmaProjection     = &Error{Kind: NonSigmaProjection}
	ErrNonSigmaConstruction   = &Error{Kind: NonSigmaConstruction}
	ErrUnboxedDuplication     = &Error{Kind: UnboxedDuplication}
	ErrUnresolvedReference    = &Error{Kind: UnresolvedReference}
	ErrUnboundVariable        = &Error{Kind: UnboundVariable}
	ErrCannotInferLambda      = &Error{Kind: CannotInferLambda}
	ErrStuckReduction         = &Error{Kind: StuckReduction}
)

// ErrOutOfFuel is returned when a bounded normalization stops early.
var ErrOutOfFuel = errors.New("reduction ran out of fuel")

// Error is a checking or reduction failure. Term, Expected and Actual are
// valid in Context.
type Error struct {
	Kind     ErrorKind
	Term     term.Term
	Expected term.Term
	Actual   term.Term
	Name     string
	Context  term.Context
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Name != "" {
		fmt.Fprintf(&sb, " %q", e.Name)
	}
	if e.Term != nil {
		fmt.Fprintf(&sb, " on `%s`", term.ShowIn(e.Term, e.Context))
	}
	if e.Expected != nil {
		fmt.Fprintf(&sb, "\n- expect: %s", term.ShowIn(e.Expected, e.Context))
	}
	if e.Actual != nil {
		fmt.Fprintf(&sb, "\n- actual: %s", term.ShowIn(e.Actual, e.Context))
	}
	if e.Context.Len() > 0 {
		sb.WriteString("\n[context]\n")
		sb.WriteString(e.Context.String())
	}
	return sb.String()
}

// Is matches sentinels: an *Error with no payload term equals any error of
// its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Term == nil && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Kind
	}
	return 0
}

func fail(kind ErrorKind, t term.Term, ctx term.Context) *Error {
	return &Error{Kind: kind, Term: t, Context: ctx}
}

func mismatch(t, expected, actual term.Term, ctx term.Context) *Error {
	return &Error{Kind: TypeMismatch, Term: t, Expected: expected, Actual: actual, Context: ctx}
}
