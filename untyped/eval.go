package untyped

import (
	"errors"
	"fmt"
)

var ErrStepLimit = errors.New("step limit exceeded")

// EvalOnce performs one normal-order pass: a redex at the root is
// contracted; otherwise each child of t is stepped.
func EvalOnce(t Term) Term {
	return canonical(evalOnce(t))
}

func evalOnce(t Term) Term {
	switch t := t.(type) {
	case App:
		if abs, ok := t.Fn.(Abs); ok {
			return subst(abs.Body, abs.Bind, t.Arg)
		}
		return App{evalOnce(t.Fn), evalOnce(t.Arg)}
	case Abs:
		return Abs{t.Bind, evalOnce(t.Body)}
	}
	return t
}

// Evaluate steps t until two consecutive results are α-equivalent. It does
// not return for terms without a normal form; see EvaluateLimit.
func Evaluate(t Term) Term {
	t, _ = reduce(t, 0, nil)
	return t
}

// EvaluateLimit is Evaluate giving up with ErrStepLimit after limit steps.
// A limit of 0 means no limit.
func EvaluateLimit(t Term, limit int) (Term, error) {
	return reduce(t, limit, nil)
}

func reduce(t Term, limit int, step func(Term)) (Term, error) {
	next := func(t Term) Term {
		t = EvalOnce(t)
		if step != nil {
			step(t)
		}
		return t
	}
	prev := next(t)
	cur := next(prev)
	for n := 2; !Equal(prev, cur); n++ {
		if limit > 0 && n >= limit {
			return cur, fmt.Errorf("%w: no normal form after %d steps", ErrStepLimit, n)
		}
		prev, cur = cur, next(cur)
	}
	return cur, nil
}
