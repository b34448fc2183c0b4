package syntax

import "strings"

// Caret renders a marker line pointing at character offset pos.
func Caret(pos int) string {
	if pos < 0 {
		pos = 0
	}
	return strings.Repeat(" ", pos) + "^"
}

type TokenizeError struct {
	Position int
	Message  string
}

func (e *TokenizeError) Error() string { return e.Message }
func (e *TokenizeError) Pos() int      { return e.Position }
func (e *TokenizeError) Caret() string { return Caret(e.Position) }

type ParseError struct {
	Position int
	Message  string
}

func (e *ParseError) Error() string { return e.Message }
func (e *ParseError) Pos() int      { return e.Position }
func (e *ParseError) Caret() string { return Caret(e.Position) }

// Positioned is implemented by every error that points into the source text.
type Positioned interface {
	error
	Pos() int
	Caret() string
}
