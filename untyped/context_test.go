package untyped

import (
	"errors"
	"reflect"
	"testing"
)

func churchContext(t *testing.T, upTo int, opts ...Option) *ExecutionContext {
	t.Helper()
	c := NewExecutionContext(opts...)
	defs := [][2]string{
		{"zero", "λf.λx.x"},
		{"succ", "λn.λf.λx.f (n f x)"},
		{"plus", "λm.λn.m succ n"},
	}
	names := []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}
	for i := 1; i <= upTo; i++ {
		defs = append(defs, [2]string{names[i], "succ " + names[i-1]})
	}
	for _, d := range defs {
		if err := c.AddAlias(d[0], d[1]); err != nil {
			t.Fatalf("AddAlias(%q, %q): %v", d[0], d[1], err)
		}
	}
	return c
}

func TestContextPlus(t *testing.T) {
	c := churchContext(t, 8)
	got, err := c.Evaluate("plus five four")
	if err != nil {
		t.Fatal(err)
	}
	nine := mustParse(t, "λf.λx.f (f (f (f (f (f (f (f (f x))))))))")
	if !Equal(got, nine) {
		t.Fatalf("plus five four = %q, want Church nine", got)
	}
	if err := c.AddAlias("nine", "succ eight"); err != nil {
		t.Fatal(err)
	}
	got, err = c.Evaluate("plus five four")
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "nine" {
		t.Errorf("plus five four = %q, want nine", got)
	}
}

func TestContextFoldsSubterms(t *testing.T) {
	c := NewExecutionContext()
	for _, d := range [][2]string{{"true", "λx.λy.x"}, {"false", "λx.λy.y"}, {"pair", "λa.λb.λp.p a b"}} {
		if err := c.AddAlias(d[0], d[1]); err != nil {
			t.Fatal(err)
		}
	}
	got, err := c.Evaluate("pair true false")
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "λp.p true false" {
		t.Errorf("got %q", got)
	}
	// A bound name never resolves to an alias.
	got, err = c.Evaluate("λtrue.true")
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "λtrue.true" {
		t.Errorf("got %q", got)
	}
}

func TestContextRejects(t *testing.T) {
	c := NewExecutionContext()
	if err := c.AddAlias("id", "λx.x"); err != nil {
		t.Fatal(err)
	}
	if err := c.AddAlias("i", "λy.y"); !errors.Is(err, ErrDuplicateDefinition) {
		t.Errorf("duplicate: got %v", err)
	}
	if err := c.AddAlias("v", "id y"); !errors.Is(err, ErrBareVariable) {
		t.Errorf("bare variable: got %v", err)
	}
	if err := c.AddAlias("2x", "λx.x x"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("invalid name: got %v", err)
	}
	if err := c.AddAlias("w", "λx.("); err == nil {
		t.Error("parse error expected")
	}
	for _, name := range []string{"i", "v", "w"} {
		if _, ok := c.Lookup(name); ok {
			t.Errorf("%s was recorded by a failed definition", name)
		}
	}
}

func TestContextRedefineAndRemove(t *testing.T) {
	c := NewExecutionContext()
	for _, d := range [][2]string{{"id", "λx.x"}, {"k", "λx.λy.x"}, {"id", "λz.z"}} {
		if err := c.AddAlias(d[0], d[1]); err != nil {
			t.Fatalf("AddAlias(%q): %v", d[0], err)
		}
	}
	want := [][2]string{{"k", "λx.λy.x"}, {"id", "λz.z"}}
	if got := c.AliasesAsStrings(); !reflect.DeepEqual(got, want) {
		t.Errorf("AliasesAsStrings() = %v, want %v", got, want)
	}
	if !c.RemoveAlias("k") {
		t.Error("RemoveAlias(k) = false")
	}
	if c.RemoveAlias("k") {
		t.Error("second RemoveAlias(k) = true")
	}
	if got := len(c.Aliases()); got != 1 {
		t.Errorf("%d aliases left, want 1", got)
	}
	got, err := c.Evaluate("k a b")
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "k a b" {
		t.Errorf("removed alias still expands: %q", got)
	}
}

func TestContextTrace(t *testing.T) {
	c := NewExecutionContext()
	if err := c.AddAlias("id", "λx.x"); err != nil {
		t.Fatal(err)
	}
	steps, err := c.Trace("id y")
	if err != nil {
		t.Fatal(err)
	}
	var stages []Stage
	for _, s := range steps {
		stages = append(stages, s.Stage)
	}
	if want := []Stage{Parsed, Expanded, Reduced, Folded}; !reflect.DeepEqual(stages, want) {
		t.Errorf("stages = %v, want %v", stages, want)
	}
	if got := steps[1].Term.String(); got != "(λx.x) y" {
		t.Errorf("expanded = %q", got)
	}
	if got := steps[len(steps)-1].Term.String(); got != "y" {
		t.Errorf("result = %q", got)
	}
}

func TestContextStepLimit(t *testing.T) {
	c := NewExecutionContext(WithStepLimit(50))
	if _, err := c.Evaluate("(λx.x x x) (λx.x x x)"); !errors.Is(err, ErrStepLimit) {
		t.Errorf("got %v, want ErrStepLimit", err)
	}
}

func TestContextSuggest(t *testing.T) {
	c := NewExecutionContext()
	for _, d := range [][2]string{{"three", "λa.a a a"}, {"tree", "λa.λb.a"}, {"two", "λa.a a"}} {
		if err := c.AddAlias(d[0], d[1]); err != nil {
			t.Fatal(err)
		}
	}
	if got := c.Suggest("tre"); !reflect.DeepEqual(got, []string{"tree", "three"}) {
		t.Errorf("Suggest(tre) = %v", got)
	}
}
