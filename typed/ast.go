package typed

import "strconv"

// Span is the range of character offsets a node was parsed from. Nodes built
// during reduction have a zero Span.
type Span struct {
	Start, End int
}

func (s Span) Extent() Span { return s }

type Term interface {
	isTerm()
	Extent() Span
	String() string
	DeBruijnString() string
}

type Var struct {
	Span
	Name  string
	Index int
}

type Abs struct {
	Span
	Bind string
	Type Ty
	Body Term
}

type App struct {
	Span
	Fn  Term
	Arg Term
}

type TmTrue struct{ Span }

type TmFalse struct{ Span }

type TmZero struct{ Span }

type TmIf struct {
	Span
	Cond Term
	Body Term
	Else Term
}

type TmSucc struct {
	Span
	T Term
}

type TmPred struct {
	Span
	T Term
}

type TmIsZero struct {
	Span
	T Term
}

type TmPlus struct {
	Span
	L, R Term
}

type TmMinus struct {
	Span
	L, R Term
}

func (Var) isTerm()      {}
func (Abs) isTerm()      {}
func (App) isTerm()      {}
func (TmTrue) isTerm()   {}
func (TmFalse) isTerm()  {}
func (TmZero) isTerm()   {}
func (TmIf) isTerm()     {}
func (TmSucc) isTerm()   {}
func (TmPred) isTerm()   {}
func (TmIsZero) isTerm() {}
func (TmPlus) isTerm()   {}
func (TmMinus) isTerm()  {}

func (t Var) String() string      { return named.term(t) }
func (t Abs) String() string      { return named.term(t) }
func (t App) String() string      { return named.term(t) }
func (t TmTrue) String() string   { return named.term(t) }
func (t TmFalse) String() string  { return named.term(t) }
func (t TmZero) String() string   { return named.term(t) }
func (t TmIf) String() string     { return named.term(t) }
func (t TmSucc) String() string   { return named.term(t) }
func (t TmPred) String() string   { return named.term(t) }
func (t TmIsZero) String() string { return named.term(t) }
func (t TmPlus) String() string   { return named.term(t) }
func (t TmMinus) String() string  { return named.term(t) }

func (t Var) DeBruijnString() string      { return deBruijn.term(t) }
func (t Abs) DeBruijnString() string      { return deBruijn.term(t) }
func (t App) DeBruijnString() string      { return deBruijn.term(t) }
func (t TmTrue) DeBruijnString() string   { return deBruijn.term(t) }
func (t TmFalse) DeBruijnString() string  { return deBruijn.term(t) }
func (t TmZero) DeBruijnString() string   { return deBruijn.term(t) }
func (t TmIf) DeBruijnString() string     { return deBruijn.term(t) }
func (t TmSucc) DeBruijnString() string   { return deBruijn.term(t) }
func (t TmPred) DeBruijnString() string   { return deBruijn.term(t) }
func (t TmIsZero) DeBruijnString() string { return deBruijn.term(t) }
func (t TmPlus) DeBruijnString() string   { return deBruijn.term(t) }
func (t TmMinus) DeBruijnString() string  { return deBruijn.term(t) }

type printer struct {
	deBruijn bool
}

var (
	named    = printer{false}
	deBruijn = printer{true}
)

func (p printer) term(t Term) string {
	switch t := t.(type) {
	case Var:
		if p.deBruijn && t.Index > 0 {
			return strconv.Itoa(t.Index)
		}
		return t.Name
	case Abs:
		if p.deBruijn {
			return "λ:" + t.Type.String() + ". " + p.term(t.Body)
		}
		return "λ" + t.Bind + ":" + t.Type.String() + "." + p.term(t.Body)
	case App:
		fn := p.term(t.Fn)
		switch t.Fn.(type) {
		case Abs, TmIf:
			fn = "(" + fn + ")"
		}
		return fn + " " + p.operand(t.Arg)
	case TmTrue:
		return "true"
	case TmFalse:
		return "false"
	case TmZero:
		return "zero"
	case TmIf:
		return "if " + p.term(t.Cond) + " then " + p.term(t.Body) + " else " + p.term(t.Else)
	case TmSucc:
		return "succ " + p.operand(t.T)
	case TmPred:
		return "pred " + p.operand(t.T)
	case TmIsZero:
		return "iszero " + p.operand(t.T)
	case TmPlus:
		return "plus " + p.operand(t.L) + " " + p.operand(t.R)
	case TmMinus:
		return "minus " + p.operand(t.L) + " " + p.operand(t.R)
	}
	panic("unreachable")
}

func (p printer) operand(t Term) string {
	if isAtomic(t) {
		return p.term(t)
	}
	return "(" + p.term(t) + ")"
}

func isAtomic(t Term) bool {
	switch t.(type) {
	case Var, TmTrue, TmFalse, TmZero:
		return true
	}
	return false
}

// Equal reports whether l and r are α-equivalent.
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
		return ok && TypeEquals(l.Type, r.Type) && Equal(l.Body, r.Body)
	case App:
		r, ok := r.(App)
		return ok && Equal(l.Fn, r.Fn) && Equal(l.Arg, r.Arg)
	case TmTrue:
		_, ok := r.(TmTrue)
		return ok
	case TmFalse:
		_, ok := r.(TmFalse)
		return ok
	case TmZero:
		_, ok := r.(TmZero)
		return ok
	case TmIf:
		r, ok := r.(TmIf)
		return ok && Equal(l.Cond, r.Cond) && Equal(l.Body, r.Body) && Equal(l.Else, r.Else)
	case TmSucc:
		r, ok := r.(TmSucc)
		return ok && Equal(l.T, r.T)
	case TmPred:
		r, ok := r.(TmPred)
		return ok && Equal(l.T, r.T)
	case TmIsZero:
		r, ok := r.(TmIsZero)
		return ok && Equal(l.T, r.T)
	case TmPlus:
		r, ok := r.(TmPlus)
		return ok && Equal(l.L, r.L) && Equal(l.R, r.R)
	case TmMinus:
		r, ok := r.(TmMinus)
		return ok && Equal(l.L, r.L) && Equal(l.R, r.R)
	}
	panic("unreachable")
}

// Ty is a simple type: Bool, Nat, or an arrow between types.
type Ty interface {
	isType()
	String() string
}

type TyBool struct{}

type TyNat struct{}

type TyArr struct {
	From, To Ty
}

func (TyBool) isType() {}
func (TyNat) isType()  {}
func (TyArr) isType()  {}

func (TyBool) String() string { return "Bool" }
func (TyNat) String() string  { return "Nat" }

func (t TyArr) String() string {
	from := t.From.String()
	if _, ok := t.From.(TyArr); ok {
		from = "(" + from + ")"
	}
	return from + " -> " + t.To.String()
}

func TypeEquals(l, r Ty) bool {
	switch l := l.(type) {
	case TyBool:
		_, ok := r.(TyBool)
		return ok
	case TyNat:
		_, ok := r.(TyNat)
		return ok
	case TyArr:
		r, ok := r.(TyArr)
		return ok && TypeEquals(l.From, r.From) && TypeEquals(l.To, r.To)
	}
	panic("unreachable")
}
