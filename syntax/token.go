// Package syntax holds the pieces shared by the calculus front ends: a
// rule-table tokenizer, positioned errors, a token cursor for recursive
// descent, and the binder scope used to compute de Bruijn indices.
package syntax

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

type Token[K comparable] struct {
	Kind  K
	Start int
	Text  string
}

// Emit appends the token for text (starting at character offset pos) to toks.
// adjacent reports whether text directly follows the previous token.
type Emit[K comparable] func(toks []Token[K], text string, pos int, adjacent bool) ([]Token[K], error)

type Rule[K comparable] struct {
	Pattern *regexp.Regexp
	Emit    Emit[K]
}

// Match builds a rule whose pattern is anchored at the current offset.
func Match[K comparable](pattern string, emit Emit[K]) Rule[K] {
	return Rule[K]{regexp.MustCompile("^(?:" + pattern + ")"), emit}
}

// Simply emits a token of the given kind for every match.
func Simply[K comparable](kind K) Emit[K] {
	return func(toks []Token[K], text string, pos int, _ bool) ([]Token[K], error) {
		return append(toks, Token[K]{kind, pos, text}), nil
	}
}

// Identifier emits an identifier of kind id, joining it onto an adjacent
// identifier. A finished identifier spelled like a keyword takes the
// keyword's kind instead.
func Identifier[K comparable](id K, keywords map[string]K) Emit[K] {
	return func(toks []Token[K], text string, pos int, adjacent bool) ([]Token[K], error) {
		if n := len(toks); adjacent && n > 0 && toks[n-1].Kind == id {
			last := toks[n-1]
			toks[n-1] = Token[K]{id, last.Start, last.Text + text}
			return toks, nil
		}
		if kw, ok := keywords[text]; ok {
			return append(toks, Token[K]{kw, pos, text}), nil
		}
		return append(toks, Token[K]{id, pos, text}), nil
	}
}

// Continuation extends an adjacent identifier of kind id with text, which may
// not start an identifier on its own.
func Continuation[K comparable](id K, msg string) Emit[K] {
	return func(toks []Token[K], text string, pos int, adjacent bool) ([]Token[K], error) {
		n := len(toks)
		if !adjacent || n == 0 || toks[n-1].Kind != id {
			return nil, &TokenizeError{pos, msg}
		}
		last := toks[n-1]
		toks[n-1] = Token[K]{id, last.Start, last.Text + text}
		return toks, nil
	}
}

var separator = regexp.MustCompile(`^\s+`)

// Tokenize splits s into tokens by trying rules in order at each offset
// after skipping whitespace. The first matching rule wins.
func Tokenize[K comparable](s string, rules []Rule[K]) ([]Token[K], error) {
	var toks []Token[K]
	pos, adjacent := 0, false
	for i := 0; i < len(s); {
		rest := s[i:]
		if sep := separator.FindString(rest); sep != "" {
			i += len(sep)
			pos += utf8.RuneCountInString(sep)
			adjacent = false
			continue
		}
		matched := false
		for _, r := range rules {
			m := r.Pattern.FindString(rest)
			if m == "" {
				continue
			}
			var err error
			if toks, err = r.Emit(toks, m, pos, adjacent); err != nil {
				return nil, err
			}
			i += len(m)
			pos += utf8.RuneCountInString(m)
			adjacent, matched = true, true
			break
		}
		if !matched {
			c, _ := utf8.DecodeRuneInString(rest)
			return nil, &TokenizeError{pos, fmt.Sprintf("unexpected character: %c", c)}
		}
	}
	return toks, nil
}
