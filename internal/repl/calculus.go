package repl

import (
	"errors"
	"strings"

	"github.com/samber/lo"

	"github.com/smasher164/lambda/typed"
	"github.com/smasher164/lambda/untyped"
)

// Calculus is the execution context a Session drives.
type Calculus interface {
	// Define adds an alias. typeText is empty unless the line declared a type.
	Define(name, typeText, text string) error
	// Evaluate returns the lines to print for text.
	Evaluate(text string) ([]string, error)
	Remove(name string) bool
	Listing() [][2]string
	Suggest(name string) []string
}

// sourced attaches the text an error position refers to when it differs
// from the text of the whole input.
type sourced struct {
	text string
	err  error
}

func (s *sourced) Error() string { return s.err.Error() }
func (s *sourced) Unwrap() error { return s.err }

type Untyped struct {
	Context *untyped.ExecutionContext
	// DeBruijn prints every result a second time in de Bruijn form.
	DeBruijn bool
	// Trace prints every intermediate term instead of just the result.
	Trace bool
}

func (u *Untyped) Define(name, typeText, text string) error {
	if typeText != "" {
		return &sourced{typeText, errNoTypes}
	}
	return u.Context.AddAlias(name, text)
}

func (u *Untyped) Evaluate(text string) ([]string, error) {
	if !u.Trace {
		t, err := u.Context.Evaluate(text)
		if err != nil {
			return nil, err
		}
		return u.result(t), nil
	}
	steps, err := u.Context.Trace(text)
	if err != nil {
		return nil, err
	}
	lines := lo.Map(steps[:len(steps)-1], func(s untyped.Step, _ int) string {
		return s.Stage.String() + " " + s.Term.String()
	})
	return append(lines, u.result(steps[len(steps)-1].Term)...), nil
}

func (u *Untyped) result(t untyped.Term) []string {
	lines := []string{"λ> " + t.String()}
	if u.DeBruijn {
		lines = append(lines, "   "+t.DeBruijnString())
	}
	return lines
}

func (u *Untyped) Remove(name string) bool      { return u.Context.RemoveAlias(name) }
func (u *Untyped) Listing() [][2]string         { return u.Context.AliasesAsStrings() }
func (u *Untyped) Suggest(name string) []string { return u.Context.Suggest(name) }

type Typed struct {
	Context  *typed.ExecutionContext
	DeBruijn bool
	Trace    bool
}

func (c *Typed) Define(name, typeText, text string) error {
	if typeText == "" {
		return c.Context.AddAlias(name, text)
	}
	if _, err := typed.ParseType(typeText); err != nil {
		return &sourced{typeText, err}
	}
	return c.Context.AddAliasWithType(name, typeText, text)
}

func (c *Typed) Evaluate(text string) ([]string, error) {
	if !c.Trace {
		t, ty, err := c.Context.Evaluate(text)
		if err != nil {
			return nil, err
		}
		return c.result(t, ty), nil
	}
	steps, ty, err := c.Context.Trace(text)
	if err != nil {
		return nil, err
	}
	lines := lo.Map(steps[:len(steps)-1], func(s typed.Step, _ int) string {
		return s.Stage.String() + " " + s.Term.String()
	})
	return append(lines, c.result(steps[len(steps)-1].Term, ty)...), nil
}

func (c *Typed) result(t typed.Term, ty typed.Ty) []string {
	lines := []string{"λ> " + t.String() + " : " + ty.String()}
	if c.DeBruijn {
		lines = append(lines, "   "+t.DeBruijnString())
	}
	return lines
}

func (c *Typed) Remove(name string) bool      { return c.Context.RemoveAlias(name) }
func (c *Typed) Listing() [][2]string         { return c.Context.AliasesAsStrings() }
func (c *Typed) Suggest(name string) []string { return c.Context.Suggest(name) }

// unbound extracts the variable name from a typed "unbound variable" error.
func unbound(err error) (string, bool) {
	var te *typed.TypingError
	if errors.As(err, &te) {
		return strings.CutPrefix(te.Message, "unbound variable ")
	}
	return "", false
}
