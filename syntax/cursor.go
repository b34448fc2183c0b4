package syntax

import "fmt"

// Cursor walks a token slice for a recursive-descent parser.
type Cursor[K comparable] struct {
	Tokens []Token[K]
	Index  int
}

func NewCursor[K comparable](toks []Token[K]) *Cursor[K] {
	return &Cursor[K]{Tokens: toks}
}

func (c *Cursor[K]) Done() bool {
	return c.Index >= len(c.Tokens)
}

// Pos is the start of the next token, or one past the start of the last
// token once the input is exhausted.
func (c *Cursor[K]) Pos() int {
	if len(c.Tokens) == 0 {
		return 0
	}
	if c.Done() {
		return c.Tokens[len(c.Tokens)-1].Start + 1
	}
	return c.Tokens[c.Index].Start
}

func (c *Cursor[K]) Peek() (Token[K], bool) {
	if c.Done() {
		return Token[K]{}, false
	}
	return c.Tokens[c.Index], true
}

// Prev returns the most recently consumed token, or the first token if
// nothing was consumed yet.
func (c *Cursor[K]) Prev() Token[K] {
	i := c.Index - 1
	if i < 0 {
		i = 0
	}
	return c.Tokens[i]
}

func (c *Cursor[K]) NextIs(kind K) bool {
	tok, ok := c.Peek()
	return ok && tok.Kind == kind
}

func (c *Cursor[K]) SkipIs(kind K) bool {
	if c.NextIs(kind) {
		c.Index++
		return true
	}
	return false
}

// Match consumes a token of the given kind and returns it, or fails
// with msg at the current position.
func (c *Cursor[K]) Match(kind K, msg string) (Token[K], error) {
	if !c.NextIs(kind) {
		return Token[K]{}, c.Errorf(c.Pos(), "%s", msg)
	}
	c.Index++
	return c.Tokens[c.Index-1], nil
}

func (c *Cursor[K]) Errorf(pos int, format string, args ...any) *ParseError {
	return &ParseError{pos, fmt.Sprintf(format, args...)}
}
