package prelude

import (
	"errors"
	"strings"
	"testing"

	"github.com/smasher164/lambda/typed"
	"github.com/smasher164/lambda/untyped"
)

func TestUntyped(t *testing.T) {
	c := untyped.NewExecutionContext()
	if err := Untyped().InstallUntyped(c); err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct{ in, want string }{
		{"plus five four", "nine"},
		{"not true", "false"},
		{"and true false", "false"},
		{"or false true", "true"},
		{"pow two three", "eight"},
	} {
		got, err := c.Evaluate(tt.in)
		if err != nil {
			t.Errorf("Evaluate(%q): %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("Evaluate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTyped(t *testing.T) {
	c := typed.NewExecutionContext(typed.WithStepLimit(10000))
	if err := Typed().InstallTyped(c); err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct{ in, want string }{
		{"sumTo four", "ten"},
		{"xor true true", "false"},
		{"xor false true", "true"},
		{"eq (plus two three) five", "true"},
	} {
		got, _, err := c.Evaluate(tt.in)
		if err != nil {
			t.Errorf("Evaluate(%q): %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("Evaluate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	f, err := Load(strings.NewReader(`
aliases:
  - name: id
    term: λx.x
  - {name: k, term: "λx.λy.x"}
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Aliases) != 2 || f.Aliases[1].Name != "k" {
		t.Fatalf("Load = %+v", f)
	}
	c := untyped.NewExecutionContext()
	if err := f.InstallUntyped(c); err != nil {
		t.Fatal(err)
	}
	if got, _ := c.Evaluate("k id"); got.String() != "λy.id" {
		t.Errorf("k id = %q", got)
	}

	for _, bad := range []string{
		"aliases: [{name: id, term: λx.x, typ: Nat}]",
		"aliases: [{name: id}]",
		"aliases: {",
	} {
		if _, err := Load(strings.NewReader(bad)); err == nil {
			t.Errorf("Load(%q) succeeded", bad)
		}
	}
}

func TestInstallStops(t *testing.T) {
	f := &File{Aliases: []Definition{
		{Name: "id", Term: "λx.x"},
		{Name: "i", Term: "λy.y"},
		{Name: "k", Term: "λx.λy.x"},
	}}
	c := untyped.NewExecutionContext()
	if err := f.InstallUntyped(c); !errors.Is(err, untyped.ErrDuplicateDefinition) {
		t.Fatalf("got %v, want ErrDuplicateDefinition", err)
	}
	if _, ok := c.Lookup("k"); ok {
		t.Error("install continued past a failure")
	}

	f = &File{Aliases: []Definition{{Name: "n", Type: "Nat", Term: "zero"}}}
	if err := f.InstallUntyped(untyped.NewExecutionContext()); err == nil {
		t.Error("typed definition accepted by the untyped calculus")
	}
}
