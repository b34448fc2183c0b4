package typed

import (
	"errors"
	"fmt"
	"strings"
)

var ErrStepLimit = errors.New("step limit exceeded")

// ArithmeticError is raised by reduction rules that have no result, such as
// the predecessor of zero.
type ArithmeticError struct {
	Node    Term
	Message string
}

func (e *ArithmeticError) Error() string { return e.Message }
func (e *ArithmeticError) Pos() int      { return e.Node.Extent().Start }
func (e *ArithmeticError) Caret() string { return underline(e.Node.Extent()) }

func underline(s Span) string {
	return strings.Repeat(" ", s.Start) + "^" + strings.Repeat("~", max(s.End-s.Start-1, 0))
}

// machine reduces terms. Names that unfold resolves are replaced by their
// bodies, but only where the replacement cannot recur forever: never under
// a λ and never in the arms of a conditional whose guard is not yet known.
type machine struct {
	unfold func(name string) (Term, bool)
}

func (m machine) step(t Term, weak bool) (Term, error) {
	switch t := t.(type) {
	case Var:
		if weak && t.Index == 0 && m.unfold != nil {
			if body, ok := m.unfold(t.Name); ok {
				return respan(body, t.Span), nil
			}
		}
		return t, nil
	case Abs:
		body, err := m.step(t.Body, false)
		if err != nil {
			return nil, err
		}
		return Abs{t.Span, t.Bind, t.Type, body}, nil
	case App:
		if abs, ok := t.Fn.(Abs); ok {
			return subst(abs.Body, abs.Bind, t.Arg), nil
		}
		fn, err := m.step(t.Fn, weak)
		if err != nil {
			return nil, err
		}
		arg, err := m.step(t.Arg, weak)
		if err != nil {
			return nil, err
		}
		return App{t.Span, fn, arg}, nil
	case TmIf:
		switch t.Cond.(type) {
		case TmTrue:
			return t.Body, nil
		case TmFalse:
			return t.Else, nil
		}
		cond, err := m.step(t.Cond, weak)
		if err != nil {
			return nil, err
		}
		if !Equal(canonical(cond), canonical(t.Cond)) {
			return TmIf{t.Span, cond, t.Body, t.Else}, nil
		}
		return TmIf{t.Span, cond, m.arm(t.Body), m.arm(t.Else)}, nil
	case TmSucc:
		t1, err := m.step(t.T, weak)
		if err != nil {
			return nil, err
		}
		return TmSucc{t.Span, t1}, nil
	case TmPred:
		switch n := t.T.(type) {
		case TmZero:
			return nil, &ArithmeticError{t, "pred of zero is undefined"}
		case TmSucc:
			return n.T, nil
		}
		t1, err := m.step(t.T, weak)
		if err != nil {
			return nil, err
		}
		return TmPred{t.Span, t1}, nil
	case TmIsZero:
		switch t.T.(type) {
		case TmZero:
			return TmTrue{t.Span}, nil
		case TmSucc:
			return TmFalse{t.Span}, nil
		}
		t1, err := m.step(t.T, weak)
		if err != nil {
			return nil, err
		}
		return TmIsZero{t.Span, t1}, nil
	case TmPlus:
		switch r := t.R.(type) {
		case TmZero:
			return t.L, nil
		case TmSucc:
			return TmSucc{t.Span, TmPlus{t.Span, t.L, r.T}}, nil
		}
		l, r, err := m.operands(t.L, t.R, weak)
		if err != nil {
			return nil, err
		}
		return TmPlus{t.Span, l, r}, nil
	case TmMinus:
		if _, ok := t.R.(TmZero); ok {
			return t.L, nil
		}
		if r, ok := t.R.(TmSucc); ok {
			switch l := t.L.(type) {
			case TmSucc:
				return TmMinus{t.Span, l.T, r.T}, nil
			case TmZero:
				return l, nil
			}
		}
		l, r, err := m.operands(t.L, t.R, weak)
		if err != nil {
			return nil, err
		}
		return TmMinus{t.Span, l, r}, nil
	case TmTrue, TmFalse, TmZero:
		return t, nil
	}
	panic("unreachable")
}

// arm steps a branch of a conditional whose guard is stuck. A branch whose
// step raises an arithmetic error is left as it is.
func (m machine) arm(t Term) Term {
	t1, err := m.step(t, false)
	if err != nil {
		return t
	}
	return t1
}

func (m machine) operands(l, r Term, weak bool) (Term, Term, error) {
	l, err := m.step(l, weak)
	if err != nil {
		return nil, nil, err
	}
	r, err = m.step(r, weak)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func (m machine) evalOnce(t Term) (Term, error) {
	t, err := m.step(t, true)
	if err != nil {
		return nil, err
	}
	return canonical(t), nil
}

// reduce steps t until two consecutive results are α-equivalent. A limit
// of 0 means no limit.
func (m machine) reduce(t Term, limit int, step func(Term)) (Term, error) {
	next := func(t Term) (Term, error) {
		t, err := m.evalOnce(t)
		if err == nil && step != nil {
			step(t)
		}
		return t, err
	}
	prev, err := next(t)
	if err != nil {
		return nil, err
	}
	cur, err := next(prev)
	if err != nil {
		return nil, err
	}
	for n := 2; !Equal(prev, cur); n++ {
		if limit > 0 && n >= limit {
			return cur, fmt.Errorf("%w: no normal form after %d steps", ErrStepLimit, n)
		}
		prev = cur
		if cur, err = next(cur); err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// EvalOnce performs one normal-order pass over t.
func EvalOnce(t Term) (Term, error) {
	return machine{}.evalOnce(t)
}

// Evaluate reduces t to normal form. It does not return for terms without
// one; see EvaluateLimit.
func Evaluate(t Term) (Term, error) {
	return machine{}.reduce(t, 0, nil)
}

// EvaluateLimit is Evaluate giving up with ErrStepLimit after limit steps.
func EvaluateLimit(t Term, limit int) (Term, error) {
	return machine{}.reduce(t, limit, nil)
}

// IsNumeral reports whether t is a chain of succ over zero.
func IsNumeral(t Term) bool {
	switch t := t.(type) {
	case TmZero:
		return true
	case TmSucc:
		return IsNumeral(t.T)
	}
	return false
}
