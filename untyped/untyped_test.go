package untyped

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/smasher164/lambda/syntax"
)

func mustParse(t *testing.T, s string) Term {
	t.Helper()
	term, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", s, err)
	}
	return term
}

func TestTokenize(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want []Token
	}{
		{"(λx.x x) y", []Token{
			{LeftPren, 0, "("},
			{Lambda, 1, "λ"},
			{Identifier, 2, "x"},
			{Dot, 3, "."},
			{Identifier, 4, "x"},
			{Identifier, 6, "x"},
			{RightPren, 7, ")"},
			{Identifier, 9, "y"},
		}},
		{"(λx1.λy1.x1 y1) T_true", []Token{
			{LeftPren, 0, "("},
			{Lambda, 1, "λ"},
			{Identifier, 2, "x1"},
			{Dot, 4, "."},
			{Lambda, 5, "λ"},
			{Identifier, 6, "y1"},
			{Dot, 8, "."},
			{Identifier, 9, "x1"},
			{Identifier, 12, "y1"},
			{RightPren, 14, ")"},
			{Identifier, 16, "T_true"},
		}},
		{`\x.x'`, []Token{
			{Lambda, 0, `\`},
			{Identifier, 1, "x"},
			{Dot, 2, "."},
			{Identifier, 3, "x'"},
		}},
	} {
		got, err := Tokenize(tt.in)
		if err != nil {
			t.Errorf("Tokenize(%q): %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	const (
		invalidID  = "identifier must begin with a letter"
		unexpected = "unexpected character: "
	)
	for _, tt := range []struct {
		in  string
		msg string
	}{
		{"λx.x 2x", invalidID},
		{"(λx._x)", invalidID},
		{"λx.,wfex", unexpected + ","},
		{"λx.|x", unexpected + "|"},
	} {
		_, err := Tokenize(tt.in)
		var te *syntax.TokenizeError
		if !errors.As(err, &te) || te.Message != tt.msg {
			t.Errorf("Tokenize(%q): got %v, want %q", tt.in, err, tt.msg)
		}
	}
}

func TestParseErrors(t *testing.T) {
	const (
		term     = "λ-term expected"
		binding  = "λ-abstraction binding expected"
		dot      = "'.' expected"
		lambda   = "'λ' expected"
		rightPar = "')' expected"
	)
	for _, tt := range []struct {
		in  string
		msg string
		pos int
	}{
		{"(", term, 1},
		{"λ", binding, 1},
		{"λx", dot, 2},
		{"λx.", term, 3},
		{"λx.(", term, 4},
		{"λx.(x ", rightPar, 5},
		{"λx..", lambda, 2},
		{"λx.x.", lambda, 3},
		{".", lambda, 0},
		{"λx.λy", dot, 5},
		{"(λx.x) (λ.)", binding, 9},
		{"(x y (z f) (a1 b1)", rightPar, 18},
		{"()", term, 1},
		{"x)", "unexpected ')'", 1},
	} {
		_, err := ParseString(tt.in)
		var pe *syntax.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("ParseString(%q): got %v, want ParseError", tt.in, err)
			continue
		}
		if pe.Message != tt.msg || pe.Position != tt.pos {
			t.Errorf("ParseString(%q) = %q at %d, want %q at %d", tt.in, pe.Message, pe.Position, tt.msg, tt.pos)
		}
	}
}

func TestString(t *testing.T) {
	for _, tt := range []struct{ in, want string }{
		{"(λx.x)", "λx.x"},
		{"λx.(x y)", "λx.x y"},
		{"(λx.x) (λy.y)", "(λx.x) (λy.y)"},
		{"(λx.x z) (((x) y) z)", "(λx.x z) (x y z)"},
		{"(a (b c)) e (d f)", "a (b c) e (d f)"},
		{"λx.λx.x", "λx.λf0.f0"},
		{"λx.λx.λx.x", "λx.λf0.λf1.f1"},
		{"λf0.λf0.f0 f1", "λf0.λf2.f2 f1"},
		{"f λx.x", "f (λx.x)"},
	} {
		if got := mustParse(t, tt.in).String(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDeBruijnString(t *testing.T) {
	for _, tt := range []struct{ in, want string }{
		{"λx.x", "λ 1"},
		{"λx.λy.x y", "λ λ 2 1"},
		{"(λx.x) (λy.y)", "(λ 1) (λ 1)"},
		{"(λx.x z) x", "(λ 1 z) x"},
		{"λx.λx.x", "λ λ 1"},
		{"λx.(λx.x) x", "λ (λ 1) 1"},
	} {
		if got := mustParse(t, tt.in).DeBruijnString(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	for _, tt := range []struct {
		l, r string
		want bool
	}{
		{"λx.x", "λy.y", true},
		{"λx.λy.x y", "λy.λx.y x", true},
		{"x", "y", false},
		{"λx.x z", "λy.y z", true},
		{"λx.x z", "λz.z z", false},
		{"λx.λy.x", "λx.λy.y", false},
	} {
		l, r := mustParse(t, tt.l), mustParse(t, tt.r)
		if got := Equal(l, r); got != tt.want {
			t.Errorf("Equal(%q, %q) = %v, want %v", tt.l, tt.r, got, tt.want)
		}
		if deBruijn := l.DeBruijnString() == r.DeBruijnString(); deBruijn != tt.want {
			t.Errorf("de Bruijn forms of %q and %q disagree with Equal", tt.l, tt.r)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{
		"λx.x",
		"(λx.λy.x y) (λz.z) w",
		"a (b c) (λd.d) e",
		"λx.λx.x x",
		"(λf.λx.f (f x)) (λy.y)",
		"x λy.y y",
	} {
		term := mustParse(t, s)
		again := mustParse(t, term.String())
		if !Equal(term, again) {
			t.Errorf("%q: reparsed %q is not α-equivalent", s, term)
		}
	}
}

func TestFreeBoundVars(t *testing.T) {
	for _, tt := range []struct {
		in                string
		free, bound, vars []string
	}{
		{"λx.x", []string{}, []string{"x"}, []string{"x"}},
		{"λx.x y", []string{"y"}, []string{"x"}, []string{"x", "y"}},
		{"x y", []string{"x", "y"}, nil, []string{"x", "y"}},
		{"(λx.x) x", []string{"x"}, []string{"x"}, []string{"x"}},
	} {
		term := mustParse(t, tt.in)
		if got := Free(term); len(got) != len(tt.free) || (len(got) > 0 && !reflect.DeepEqual(got, tt.free)) {
			t.Errorf("Free(%q) = %v, want %v", tt.in, got, tt.free)
		}
		if got := Bound(term); len(got) != len(tt.bound) || (len(got) > 0 && !reflect.DeepEqual(got, tt.bound)) {
			t.Errorf("Bound(%q) = %v, want %v", tt.in, got, tt.bound)
		}
		if got := Vars(term); !reflect.DeepEqual(got, tt.vars) {
			t.Errorf("Vars(%q) = %v, want %v", tt.in, got, tt.vars)
		}
	}
}

func TestCapSubst(t *testing.T) {
	for _, tt := range []struct{ expr, target, value, want string }{
		{"x", "x", "t", "t"},
		{"y", "x", "t", "y"},
		{"(λx.x z) (y z)", "z", "t", "(λx.x t) (y t)"},
		{"λx.y", "x", "t", "λx.y"},
		{"λx.y", "y", "t", "λx.t"},
	} {
		got := CapSubst(mustParse(t, tt.expr), tt.target, mustParse(t, tt.value))
		if !Equal(got, mustParse(t, tt.want)) {
			t.Errorf("%s[%s/%s] = %s, want %s", tt.expr, tt.target, tt.value, got, tt.want)
		}
	}
}

func TestSubst(t *testing.T) {
	for _, tt := range []struct{ expr, target, value, want string }{
		{"x", "x", "t", "t"},
		{"y", "x", "t", "y"},
		{"(λx.x z) (y z)", "z", "x", "(λf0.f0 x) (y x)"},
		{"λx.y", "x", "t", "λx.y"},
		{"λx.y", "y", "x", "λf0.x"},
		{"λx.y", "y", "x f0", "λf1.x f0"},
		{"λz.z", "f0", "z", "λz.z"},
		{"λz.f0 z", "f0", "z", "λf1.z f1"},
	} {
		got := Subst(mustParse(t, tt.expr), tt.target, mustParse(t, tt.value))
		if !Equal(got, mustParse(t, tt.want)) {
			t.Errorf("%s⟦%s/%s⟧ = %s, want %s", tt.expr, tt.target, tt.value, got, tt.want)
		}
	}
}

func TestEvalOnceNormalForm(t *testing.T) {
	for _, s := range []string{"λx.x", "x y", "λf.λx.f (f x)", "y (λx.x)"} {
		term := mustParse(t, s)
		if got := EvalOnce(term); !Equal(got, term) {
			t.Errorf("EvalOnce(%q) = %q, want it unchanged", s, got)
		}
	}
}

func TestEvalOnceShadowed(t *testing.T) {
	// The inner x is parsed as f0, which must not be picked again when λz is
	// renamed away from the argument z.
	got := EvalOnce(mustParse(t, "λx.(λx.λz.z) z"))
	if got.DeBruijnString() != "λ λ 1" {
		t.Errorf("EvalOnce = %s (%s), want λ λ 1", got, got.DeBruijnString())
	}
}

// stepNameless is EvalOnce computed on de Bruijn indices alone, ignoring
// binder names.
func stepNameless(t Term) Term {
	switch t := t.(type) {
	case App:
		if abs, ok := t.Fn.(Abs); ok {
			return shiftIndex(substIndex(abs.Body, 1, shiftIndex(t.Arg, 1, 0)), -1, 0)
		}
		return App{stepNameless(t.Fn), stepNameless(t.Arg)}
	case Abs:
		return Abs{t.Bind, stepNameless(t.Body)}
	}
	return t
}

func shiftIndex(t Term, d, cutoff int) Term {
	switch t := t.(type) {
	case Var:
		if t.Index > cutoff {
			return Var{t.Name, t.Index + d}
		}
		return t
	case Abs:
		return Abs{t.Bind, shiftIndex(t.Body, d, cutoff+1)}
	case App:
		return App{shiftIndex(t.Fn, d, cutoff), shiftIndex(t.Arg, d, cutoff)}
	}
	panic("unreachable")
}

func substIndex(t Term, j int, s Term) Term {
	switch t := t.(type) {
	case Var:
		if t.Index == j {
			return s
		}
		return t
	case Abs:
		return Abs{t.Bind, substIndex(t.Body, j+1, shiftIndex(s, 1, 0))}
	case App:
		return App{substIndex(t.Fn, j, s), substIndex(t.Arg, j, s)}
	}
	panic("unreachable")
}

func randomTerm(r *rand.Rand, depth int, scope []string) string {
	switch n := r.Intn(10); {
	case depth == 0 || n < 3:
		names := append([]string{"a", "f1"}, scope...)
		return names[r.Intn(len(names))]
	case n < 6:
		x := []string{"x", "y", "z", "f0"}[r.Intn(4)]
		return "λ" + x + "." + randomTerm(r, depth-1, append(scope[:len(scope):len(scope)], x))
	default:
		return "(" + randomTerm(r, depth-1, scope) + ") (" + randomTerm(r, depth-1, scope) + ")"
	}
}

func TestEvalOnceNameless(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		src := randomTerm(r, 6, nil)
		term := mustParse(t, src)
		for n := 0; n < 20 && len(term.DeBruijnString()) < 4000; n++ {
			want := stepNameless(term).DeBruijnString()
			term = EvalOnce(term)
			if got := term.DeBruijnString(); got != want {
				t.Fatalf("step %d of %s: got %s, want %s", n, src, got, want)
			}
		}
	}
}

func TestEvaluate(t *testing.T) {
	for _, tt := range []struct{ in, want string }{
		{"(λx.x) y", "y"},
		{"(λx.λy.x) a b", "a"},
		{"(λx.λy.y) ((λx.x x) (λx.x x)) z", "z"},
		{"(λx.λy.x y) y", "λf0.y f0"},
		{"λz.(λx.x) z", "λz.z"},
		{"(λm.λn.λf.λx.m f (n f x)) (λf.λx.f x) (λf.λx.f x)", "λf.λx.f (f x)"},
	} {
		got := Evaluate(mustParse(t, tt.in))
		if !Equal(got, mustParse(t, tt.want)) {
			t.Errorf("Evaluate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEvaluateLimit(t *testing.T) {
	grow := mustParse(t, "(λx.x x x) (λx.x x x)")
	if _, err := EvaluateLimit(grow, 20); !errors.Is(err, ErrStepLimit) {
		t.Errorf("got %v, want ErrStepLimit", err)
	}
	got, err := EvaluateLimit(mustParse(t, "(λx.x) y"), 20)
	if err != nil || got.String() != "y" {
		t.Errorf("got %v, %v", got, err)
	}
}
