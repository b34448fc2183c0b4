package typed

import (
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/smasher164/lambda/syntax"
)

/* Grammar:

term ::= LAMBDA ID COLON type DOT term
       | app

type ::= atom_type ARROW type
       | atom_type

atom_type ::= LEFTP type RIGHTP
            | TYPE

app ::= atom+ (LAMBDA ID COLON type DOT term)?

atom ::= LEFTP term RIGHTP
       | ID | TRUE | FALSE | ZERO
       | IF term THEN term ELSE term
       | (SUCC | PRED | ISZERO) atom
       | (PLUS | MINUS) atom atom
*/

type parser struct {
	*syntax.Cursor[Kind]
	scope *syntax.Scope
}

func newParser(toks []Token) *parser {
	names := lo.Map(lo.Filter(toks, func(tok Token, _ int) bool {
		return tok.Kind == Identifier
	}), func(tok Token, _ int) string {
		return tok.Text
	})
	return &parser{syntax.NewCursor(toks), syntax.NewScope(names)}
}

func Parse(toks []Token) (Term, error) {
	p := newParser(toks)
	t, err := p.term()
	if err != nil {
		return nil, err
	}
	if err := p.eof(); err != nil {
		return nil, err
	}
	return t, nil
}

func ParseString(s string) (Term, error) {
	toks, err := Tokenize(s)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

// ParseType parses a type such as "Nat -> Bool".
func ParseType(s string) (Ty, error) {
	toks, err := Tokenize(s)
	if err != nil {
		return nil, err
	}
	p := newParser(toks)
	ty, err := p.typ()
	if err != nil {
		return nil, err
	}
	if err := p.eof(); err != nil {
		return nil, err
	}
	return ty, nil
}

func (p *parser) eof() error {
	if tok, ok := p.Peek(); ok {
		return p.Errorf(tok.Start, "unexpected '%s'", tok.Text)
	}
	return nil
}

// end is the offset just past the last consumed token.
func (p *parser) end() int {
	prev := p.Prev()
	return prev.Start + utf8.RuneCountInString(prev.Text)
}

func (p *parser) typ() (Ty, error) {
	from, err := p.atomType()
	if err != nil {
		return nil, err
	}
	if p.SkipIs(Arrow) {
		to, err := p.typ()
		if err != nil {
			return nil, err
		}
		return TyArr{from, to}, nil
	}
	return from, nil
}

func (p *parser) atomType() (Ty, error) {
	switch {
	case p.SkipIs(LeftPren):
		ty, err := p.typ()
		if err != nil {
			return nil, err
		}
		if _, err := p.Match(RightPren, "')' expected"); err != nil {
			return nil, err
		}
		return ty, nil
	case p.NextIs(Type):
		tok, _ := p.Match(Type, "")
		switch tok.Text {
		case "Bool":
			return TyBool{}, nil
		case "Nat":
			return TyNat{}, nil
		}
		return nil, p.Errorf(tok.Start, "type must be Bool or Nat")
	case p.NextIs(Identifier):
		return nil, p.Errorf(p.Pos(), "type name must begin with uppercase letter")
	}
	return nil, p.Errorf(p.Pos(), "type expected")
}

func (p *parser) term() (Term, error) {
	if p.Done() {
		return nil, p.Errorf(p.Pos(), "λ-term expected")
	}
	if p.NextIs(Lambda) {
		return p.abstraction()
	}
	return p.application()
}

func (p *parser) abstraction() (Term, error) {
	start := p.Pos()
	p.Index++
	id, err := p.Match(Identifier, "λ-abstraction binding expected")
	if err != nil {
		return nil, err
	}
	if _, err := p.Match(Colon, "':' expected"); err != nil {
		return nil, err
	}
	ty, err := p.typ()
	if err != nil {
		return nil, err
	}
	if _, err := p.Match(Dot, "'.' expected"); err != nil {
		return nil, err
	}
	bound := p.scope.Bind(id.Text)
	body, err := p.term()
	if err != nil {
		return nil, err
	}
	p.scope.Unbind(id.Text, bound)
	return Abs{Span{start, p.end()}, bound, ty, body}, nil
}

func (p *parser) application() (Term, error) {
	start := p.Pos()
	lhs, err := p.atom()
	if err != nil {
		return nil, err
	}
	if lhs == nil {
		return nil, p.Errorf(p.Pos(), "λ-term expected")
	}
	for {
		rhs, err := p.atom()
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			if !p.NextIs(Lambda) {
				return lhs, nil
			}
			if rhs, err = p.abstraction(); err != nil {
				return nil, err
			}
			return App{Span{start, p.end()}, lhs, rhs}, nil
		}
		lhs = App{Span{start, p.end()}, lhs, rhs}
	}
}

// operand parses the argument of a numeric primitive.
func (p *parser) operand() (Term, error) {
	t, err := p.atom()
	if err != nil {
		return nil, err
	}
	if t == nil {
		if p.Done() {
			return nil, p.Errorf(p.Pos(), "unexpected end of expression")
		}
		return nil, p.Errorf(p.Pos(), "operand expected")
	}
	return t, nil
}

func (p *parser) atom() (Term, error) {
	tok, ok := p.Peek()
	if !ok {
		return nil, nil
	}
	start := tok.Start
	switch tok.Kind {
	case Dot:
		return nil, p.Errorf(p.Prev().Start, "'λ' expected")
	case LeftPren:
		p.Index++
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		if _, err := p.Match(RightPren, "')' expected"); err != nil {
			return nil, err
		}
		return t, nil
	case Identifier:
		p.Index++
		name := p.scope.Resolve(tok.Text)
		return Var{Span{start, p.end()}, name, p.scope.IndexOf(name)}, nil
	case True:
		p.Index++
		return TmTrue{Span{start, p.end()}}, nil
	case False:
		p.Index++
		return TmFalse{Span{start, p.end()}}, nil
	case Zero:
		p.Index++
		return TmZero{Span{start, p.end()}}, nil
	case If:
		p.Index++
		return p.conditional(start)
	case Succ, Pred, IsZero:
		p.Index++
		t, err := p.operand()
		if err != nil {
			return nil, err
		}
		sp := Span{start, p.end()}
		switch tok.Kind {
		case Succ:
			return TmSucc{sp, t}, nil
		case Pred:
			return TmPred{sp, t}, nil
		}
		return TmIsZero{sp, t}, nil
	case Plus, Minus:
		p.Index++
		l, err := p.operand()
		if err != nil {
			return nil, err
		}
		r, err := p.operand()
		if err != nil {
			return nil, err
		}
		if tok.Kind == Plus {
			return TmPlus{Span{start, p.end()}, l, r}, nil
		}
		return TmMinus{Span{start, p.end()}, l, r}, nil
	}
	return nil, nil
}

func (p *parser) conditional(start int) (Term, error) {
	cond, err := p.term()
	if err != nil {
		return nil, err
	}
	if _, err := p.Match(Then, "'then' expected"); err != nil {
		return nil, err
	}
	body, err := p.term()
	if err != nil {
		return nil, err
	}
	if _, err := p.Match(Else, "'else' expected"); err != nil {
		return nil, err
	}
	els, err := p.term()
	if err != nil {
		return nil, err
	}
	return TmIf{Span{start, p.end()}, cond, body, els}, nil
}
