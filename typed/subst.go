package typed

import (
	"github.com/samber/lo"
	"github.com/smasher164/lambda/syntax"
)

// subterms lists the immediate subterms of t that are not under a binder.
func subterms(t Term) []Term {
	switch t := t.(type) {
	case Var, TmTrue, TmFalse, TmZero:
		return nil
	case Abs:
		return []Term{t.Body}
	case App:
		return []Term{t.Fn, t.Arg}
	case TmIf:
		return []Term{t.Cond, t.Body, t.Else}
	case TmSucc:
		return []Term{t.T}
	case TmPred:
		return []Term{t.T}
	case TmIsZero:
		return []Term{t.T}
	case TmPlus:
		return []Term{t.L, t.R}
	case TmMinus:
		return []Term{t.L, t.R}
	}
	panic("unreachable")
}

// mapTerm rebuilds t with f applied to each immediate subterm. Var and Abs
// are returned unchanged; callers handle binding themselves.
func mapTerm(t Term, f func(Term) Term) Term {
	switch t := t.(type) {
	case Var, Abs, TmTrue, TmFalse, TmZero:
		return t
	case App:
		return App{t.Span, f(t.Fn), f(t.Arg)}
	case TmIf:
		return TmIf{t.Span, f(t.Cond), f(t.Body), f(t.Else)}
	case TmSucc:
		return TmSucc{t.Span, f(t.T)}
	case TmPred:
		return TmPred{t.Span, f(t.T)}
	case TmIsZero:
		return TmIsZero{t.Span, f(t.T)}
	case TmPlus:
		return TmPlus{t.Span, f(t.L), f(t.R)}
	case TmMinus:
		return TmMinus{t.Span, f(t.L), f(t.R)}
	}
	panic("unreachable")
}

func Free(t Term) []string {
	switch t := t.(type) {
	case Var:
		return []string{t.Name}
	case Abs:
		return lo.Without(Free(t.Body), t.Bind)
	}
	return lo.Uniq(lo.FlatMap(subterms(t), func(t Term, _ int) []string { return Free(t) }))
}

func Bound(t Term) []string {
	var own []string
	if abs, ok := t.(Abs); ok {
		own = []string{abs.Bind}
	}
	return lo.Uniq(append(own, lo.FlatMap(subterms(t), func(t Term, _ int) []string { return Bound(t) })...))
}

func Vars(t Term) []string {
	switch t := t.(type) {
	case Var:
		return []string{t.Name}
	case Abs:
		return lo.Uniq(append([]string{t.Bind}, Vars(t.Body)...))
	}
	return lo.Uniq(lo.FlatMap(subterms(t), func(t Term, _ int) []string { return Vars(t) }))
}

func CapSubst(expr Term, target string, value Term) Term {
	return canonical(capSubst(expr, target, value))
}

func Subst(expr Term, target string, value Term) Term {
	return canonical(subst(expr, target, value))
}

func capSubst(expr Term, target string, value Term) Term {
	switch t := expr.(type) {
	case Var:
		if t.Name == target {
			return value
		}
		return t
	case Abs:
		if t.Bind == target {
			return t
		}
		return Abs{t.Span, t.Bind, t.Type, capSubst(t.Body, target, value)}
	}
	return mapTerm(expr, func(t Term) Term { return capSubst(t, target, value) })
}

func subst(expr Term, target string, value Term) Term {
	return replace(expr, target, value, func(Var) Term { return value })
}

// replace is subst where each occurrence v of target becomes at(v). at must
// return a copy of value.
func replace(expr Term, target string, value Term, at func(Var) Term) Term {
	switch t := expr.(type) {
	case Var:
		if t.Name == target {
			return at(t)
		}
		return t
	case Abs:
		if t.Bind == target {
			return t
		}
		if !lo.Contains(Free(value), t.Bind) {
			return Abs{t.Span, t.Bind, t.Type, replace(t.Body, target, value, at)}
		}
		f := syntax.Fresh(append(append(Vars(t), Vars(value)...), target))
		body := capSubst(t.Body, t.Bind, Var{Name: f})
		return Abs{t.Span, f, t.Type, replace(body, target, value, at)}
	}
	return mapTerm(expr, func(t Term) Term { return replace(t, target, value, at) })
}

// respan gives every node of t the span s.
func respan(t Term, s Span) Term {
	switch t := t.(type) {
	case Var:
		return Var{s, t.Name, t.Index}
	case Abs:
		return Abs{s, t.Bind, t.Type, respan(t.Body, s)}
	case App:
		return App{s, respan(t.Fn, s), respan(t.Arg, s)}
	case TmIf:
		return TmIf{s, respan(t.Cond, s), respan(t.Body, s), respan(t.Else, s)}
	case TmTrue:
		return TmTrue{s}
	case TmFalse:
		return TmFalse{s}
	case TmZero:
		return TmZero{s}
	case TmSucc:
		return TmSucc{s, respan(t.T, s)}
	case TmPred:
		return TmPred{s, respan(t.T, s)}
	case TmIsZero:
		return TmIsZero{s, respan(t.T, s)}
	case TmPlus:
		return TmPlus{s, respan(t.L, s), respan(t.R, s)}
	case TmMinus:
		return TmMinus{s, respan(t.L, s), respan(t.R, s)}
	}
	panic("unreachable")
}

// canonical re-derives de Bruijn indices and renames shadowing binders.
func canonical(t Term) Term {
	return canon(syntax.NewScope(Vars(t)), t)
}

func canon(scope *syntax.Scope, t Term) Term {
	switch t := t.(type) {
	case Var:
		name := scope.Resolve(t.Name)
		return Var{t.Span, name, scope.IndexOf(name)}
	case Abs:
		bound := scope.Bind(t.Bind)
		body := canon(scope, t.Body)
		scope.Unbind(t.Bind, bound)
		return Abs{t.Span, bound, t.Type, body}
	}
	return mapTerm(t, func(t Term) Term { return canon(scope, t) })
}
