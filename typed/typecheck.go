package typed

import "fmt"

type TypingError struct {
	Node    Term
	Message string
}

func (e *TypingError) Error() string { return e.Message }
func (e *TypingError) Pos() int      { return e.Node.Extent().Start }
func (e *TypingError) Caret() string { return underline(e.Node.Extent()) }

func typeErrorf(node Term, format string, args ...any) *TypingError {
	return &TypingError{node, fmt.Sprintf(format, args...)}
}

// TypeOf computes the type of t. Free variables are looked up in env.
func TypeOf(t Term, env map[string]Ty) (Ty, error) {
	return typeOf(nil, env, t)
}

func prepend[T any](v T, from []T) []T {
	to := make([]T, len(from)+1)
	to[0] = v
	copy(to[1:], from)
	return to
}

// typeOf checks t under the binder types ctx, innermost first.
func typeOf(ctx []Ty, env map[string]Ty, t Term) (Ty, error) {
	switch t := t.(type) {
	case TmTrue, TmFalse:
		return TyBool{}, nil
	case TmZero:
		return TyNat{}, nil
	case Var:
		if t.Index > 0 && t.Index <= len(ctx) {
			return ctx[t.Index-1], nil
		}
		if ty, ok := env[t.Name]; ok {
			return ty, nil
		}
		return nil, typeErrorf(t, "unbound variable %s", t.Name)
	case Abs:
		body, err := typeOf(prepend(t.Type, ctx), env, t.Body)
		if err != nil {
			return nil, err
		}
		return TyArr{t.Type, body}, nil
	case App:
		fn, err := typeOf(ctx, env, t.Fn)
		if err != nil {
			return nil, err
		}
		arg, err := typeOf(ctx, env, t.Arg)
		if err != nil {
			return nil, err
		}
		arr, ok := fn.(TyArr)
		if !ok {
			return nil, typeErrorf(t.Fn, "arrow type expected")
		}
		if !TypeEquals(arg, arr.From) {
			return nil, typeErrorf(t.Arg, "parameter type mismatch")
		}
		return arr.To, nil
	case TmIf:
		cond, err := typeOf(ctx, env, t.Cond)
		if err != nil {
			return nil, err
		}
		if !TypeEquals(cond, TyBool{}) {
			return nil, typeErrorf(t.Cond, "guard of conditional not a boolean")
		}
		body, err := typeOf(ctx, env, t.Body)
		if err != nil {
			return nil, err
		}
		els, err := typeOf(ctx, env, t.Else)
		if err != nil {
			return nil, err
		}
		if !TypeEquals(body, els) {
			return nil, typeErrorf(t, "arms of conditional have different types")
		}
		return body, nil
	case TmSucc:
		return arith(ctx, env, "succ", TyNat{}, t.T)
	case TmPred:
		return arith(ctx, env, "pred", TyNat{}, t.T)
	case TmIsZero:
		return arith(ctx, env, "iszero", TyBool{}, t.T)
	case TmPlus:
		return arith(ctx, env, "plus", TyNat{}, t.L, t.R)
	case TmMinus:
		return arith(ctx, env, "minus", TyNat{}, t.L, t.R)
	}
	panic("unreachable")
}

// arith checks that every operand of op is a Nat and gives the result type.
func arith(ctx []Ty, env map[string]Ty, op string, result Ty, operands ...Term) (Ty, error) {
	for _, t := range operands {
		if err := expectNat(ctx, env, op, t); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func expectNat(ctx []Ty, env map[string]Ty, op string, t Term) error {
	ty, err := typeOf(ctx, env, t)
	if err != nil {
		return err
	}
	if _, ok := ty.(TyNat); !ok {
		return typeErrorf(t, "argument of %s is not a number", op)
	}
	return nil
}
