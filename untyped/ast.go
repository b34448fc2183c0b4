package untyped

import "strconv"

// Term is an untyped lambda term: Var, Abs, or App.
type Term interface {
	isTerm()
	String() string
	DeBruijnString() string
}

// Var is a variable occurrence. Index is the de Bruijn index of the binder
// it refers to, counting from 1 at the innermost binder; 0 means free.
type Var struct {
	Name  string
	Index int
}

func (Var) isTerm() {}

func (v Var) String() string {
	return v.Name
}

func (v Var) DeBruijnString() string {
	if v.Index == 0 {
		return v.Name
	}
	return strconv.Itoa(v.Index)
}

type Abs struct {
	Bind string
	Body Term
}

func (Abs) isTerm() {}

func (a Abs) String() string {
	return "λ" + a.Bind + "." + a.Body.String()
}

func (a Abs) DeBruijnString() string {
	return "λ " + a.Body.DeBruijnString()
}

type App struct {
	Fn  Term
	Arg Term
}

func (App) isTerm() {}

func (a App) String() string {
	return a.render(Term.String)
}

func (a App) DeBruijnString() string {
	return a.render(Term.DeBruijnString)
}

func (a App) render(str func(Term) string) string {
	fn, arg := str(a.Fn), str(a.Arg)
	if _, ok := a.Fn.(Abs); ok {
		fn = "(" + fn + ")"
	}
	if _, ok := a.Arg.(Var); !ok {
		arg = "(" + arg + ")"
	}
	return fn + " " + arg
}

// Equal reports whether l and r are α-equivalent: free variables compare by
// name, bound variables by index.
func Equal(l, r Term) bool {
	switch l := l.(type) {
	case Var:
		r, ok := r.(Var)
		if !ok {
			return false
		}
		if l.Index == 0 && r.Index == 0 {
			return l.Name == r.Name
		}
		return l.Index == r.Index
	case Abs:
		r, ok := r.(Abs)
		return ok && Equal(l.Body, r.Body)
	case App:
		r, ok := r.(App)
		return ok && Equal(l.Fn, r.Fn) && Equal(l.Arg, r.Arg)
	}
	panic("unreachable")
}
