// Package repl reads definitions and expressions line by line and prints
// their results, for either calculus.
//
// A line is one of
//
//	name = term          define an alias
//	name :t Type = term  define an alias with a declared type
//	del name             remove an alias
//	ctx                  list the aliases
//	quit                 stop reading
//	term                 evaluate
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/peterh/liner"
	"github.com/samber/lo"

	"github.com/smasher164/lambda/syntax"
)

var errNoTypes = errors.New("the untyped calculus has no types")

var (
	defineTyped = regexp.MustCompile(`^([a-zA-Z][_0-9'a-zA-Z]*)\s+:t\s+(.+?)\s*=\s*(.+)$`)
	define      = regexp.MustCompile(`^([^=]*?)\s*=\s*(.*)$`)
	remove      = regexp.MustCompile(`^del\s+(\S+)$`)
)

type Session struct {
	calc Calculus
	out  io.Writer
}

func NewSession(calc Calculus, out io.Writer) *Session {
	return &Session{calc, out}
}

func (s *Session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

// Exec runs one input line and reports whether the session should go on.
func (s *Session) Exec(line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return true
	case "q", "quit", ":quit":
		return false
	case "ctx", "context", ":ctx":
		s.listing()
		return true
	}
	if m := defineTyped.FindStringSubmatch(line); m != nil {
		s.define(m[1], m[2], m[3])
		return true
	}
	if m := define.FindStringSubmatch(line); m != nil {
		s.define(m[1], "", m[2])
		return true
	}
	if m := remove.FindStringSubmatch(line); m != nil {
		if s.calc.Remove(m[1]) {
			s.println("c>", m[1], "removed from context")
		} else {
			s.println("ε>", m[1], "is not in context"+s.didYouMean(m[1]))
		}
		return true
	}
	lines, err := s.calc.Evaluate(line)
	if err != nil {
		s.fail(line, err)
		return true
	}
	for _, l := range lines {
		s.println(l)
	}
	return true
}

func (s *Session) define(name, typeText, text string) {
	if err := s.calc.Define(name, typeText, text); err != nil {
		s.fail(text, err)
		return
	}
	if typeText != "" {
		s.println("c>", name, ":t", typeText, "→", text, "added to context")
		return
	}
	s.println("c>", name, "→", text, "added to context")
}

func (s *Session) listing() {
	aliases := s.calc.Listing()
	if len(aliases) == 0 {
		s.println("context is empty")
		return
	}
	for _, a := range aliases {
		s.println(a[0], "→", a[1])
	}
}

// fail prints err. Errors that point into the source are shown under text
// with a caret.
func (s *Session) fail(text string, err error) {
	var src *sourced
	if errors.As(err, &src) {
		text = src.text
	}
	var pe syntax.Positioned
	if errors.As(err, &pe) {
		s.println("ε>", text)
		s.println("   " + pe.Caret())
		s.println(pe.Error() + s.suggestFor(err))
		return
	}
	s.println("ε>", err)
}

func (s *Session) suggestFor(err error) string {
	if name, ok := unbound(err); ok {
		return s.didYouMean(name)
	}
	return ""
}

func (s *Session) didYouMean(name string) string {
	names := lo.Without(s.calc.Suggest(name), name)
	if len(names) == 0 {
		return ""
	}
	return "; did you mean " + strings.Join(names[:min(len(names), 3)], ", ") + "?"
}

// Run executes every line of r. Lines starting with # are comments.
func (s *Session) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if !s.Exec(line) {
			break
		}
	}
	return sc.Err()
}

// Interactive prompts on the terminal until EOF or quit. History is kept in
// historyPath when it is not empty.
func (s *Session) Interactive(prompt, historyPath string) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetWordCompleter(s.complete)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			s.println()
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if !s.Exec(line) {
			return nil
		}
	}
}

// complete offers alias names for the word under the cursor. pos counts
// runes.
func (s *Session) complete(line string, pos int) (string, []string, string) {
	runes := []rune(line)
	start := pos
	for start > 0 && !strings.ContainsRune(" .()λ\\", runes[start-1]) {
		start--
	}
	word := string(runes[start:pos])
	if word == "" {
		return string(runes[:pos]), nil, string(runes[pos:])
	}
	names := lo.Map(s.calc.Listing(), func(a [2]string, _ int) string { return a[0] })
	return string(runes[:start]), lo.Filter(names, func(name string, _ int) bool {
		return strings.HasPrefix(name, word)
	}), string(runes[pos:])
}
