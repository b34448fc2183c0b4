package untyped

import (
	"github.com/samber/lo"
	"github.com/smasher164/lambda/syntax"
)

// Free lists the free variables of t in order of first occurrence.
func Free(t Term) []string {
	switch t := t.(type) {
	case Var:
		return []string{t.Name}
	case App:
		return lo.Uniq(append(Free(t.Fn), Free(t.Arg)...))
	case Abs:
		return lo.Without(Free(t.Body), t.Bind)
	}
	panic("unreachable")
}

// Bound lists the binder names of t in order of first occurrence.
func Bound(t Term) []string {
	switch t := t.(type) {
	case Var:
		return nil
	case App:
		return lo.Uniq(append(Bound(t.Fn), Bound(t.Arg)...))
	case Abs:
		return lo.Uniq(append([]string{t.Bind}, Bound(t.Body)...))
	}
	panic("unreachable")
}

// Vars lists every name, bound or free, that occurs in t.
func Vars(t Term) []string {
	switch t := t.(type) {
	case Var:
		return []string{t.Name}
	case App:
		return lo.Uniq(append(Vars(t.Fn), Vars(t.Arg)...))
	case Abs:
		return lo.Uniq(append([]string{t.Bind}, Vars(t.Body)...))
	}
	panic("unreachable")
}

// CapSubst replaces the free occurrences of target in expr with value
// without renaming binders, so free variables of value may be captured.
func CapSubst(expr Term, target string, value Term) Term {
	return canonical(capSubst(expr, target, value))
}

// Subst replaces the free occurrences of target in expr with value, renaming
// binders of expr that would capture a free variable of value.
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
	case App:
		return App{capSubst(t.Fn, target, value), capSubst(t.Arg, target, value)}
	case Abs:
		if t.Bind == target {
			return t
		}
		return Abs{t.Bind, capSubst(t.Body, target, value)}
	}
	panic("unreachable")
}

func subst(expr Term, target string, value Term) Term {
	switch t := expr.(type) {
	case Var:
		if t.Name == target {
			return value
		}
		return t
	case App:
		return App{subst(t.Fn, target, value), subst(t.Arg, target, value)}
	case Abs:
		if t.Bind == target {
			return t
		}
		if !lo.Contains(Free(value), t.Bind) {
			return Abs{t.Bind, subst(t.Body, target, value)}
		}
		f := syntax.Fresh(append(append(Vars(t), Vars(value)...), target))
		body := capSubst(t.Body, t.Bind, Var{f, 0})
		return Abs{f, subst(body, target, value)}
	}
	panic("unreachable")
}

// canonical re-derives de Bruijn indices from names and renames shadowing
// binders, giving the same tree that parsing t.String() would.
func canonical(t Term) Term {
	return canon(syntax.NewScope(Vars(t)), t)
}

func canon(scope *syntax.Scope, t Term) Term {
	switch t := t.(type) {
	case Var:
		name := scope.Resolve(t.Name)
		return Var{name, scope.IndexOf(name)}
	case App:
		return App{canon(scope, t.Fn), canon(scope, t.Arg)}
	case Abs:
		bound := scope.Bind(t.Bind)
		body := canon(scope, t.Body)
		scope.Unbind(t.Bind, bound)
		return Abs{bound, body}
	}
	panic("unreachable")
}
