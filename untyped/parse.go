package untyped

import (
	"github.com/samber/lo"
	"github.com/smasher164/lambda/syntax"
)

/* Grammar:

term ::= LAMBDA ID DOT term
       | app

app ::= atom+ (LAMBDA ID DOT term)?

atom ::= LEFTP term RIGHTP
       | ID
*/

type parser struct {
	*syntax.Cursor[Kind]
	scope *syntax.Scope
}

// Parse builds a term from toks. Binders that shadow an enclosing binder are
// renamed to fresh names so every bound name in the result is unique along
// its path.
func Parse(toks []Token) (Term, error) {
	names := lo.Map(lo.Filter(toks, func(tok Token, _ int) bool {
		return tok.Kind == Identifier
	}), func(tok Token, _ int) string {
		return tok.Text
	})
	p := &parser{syntax.NewCursor(toks), syntax.NewScope(names)}
	t, err := p.term()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.Peek(); ok {
		return nil, p.Errorf(tok.Start, "unexpected '%s'", tok.Text)
	}
	return t, nil
}

// ParseString tokenizes and parses s.
func ParseString(s string) (Term, error) {
	toks, err := Tokenize(s)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

func (p *parser) term() (Term, error) {
	if p.Done() {
		return nil, p.Errorf(p.Pos(), "λ-term expected")
	}
	if p.SkipIs(Lambda) {
		return p.abstraction()
	}
	return p.application()
}

func (p *parser) abstraction() (Term, error) {
	id, err := p.Match(Identifier, "λ-abstraction binding expected")
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
	return Abs{bound, body}, nil
}

func (p *parser) application() (Term, error) {
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
			if !p.SkipIs(Lambda) {
				return lhs, nil
			}
			if rhs, err = p.abstraction(); err != nil {
				return nil, err
			}
			return App{lhs, rhs}, nil
		}
		lhs = App{lhs, rhs}
	}
}

func (p *parser) atom() (Term, error) {
	if p.NextIs(Dot) {
		return nil, p.Errorf(p.Prev().Start, "'λ' expected")
	}
	if p.SkipIs(LeftPren) {
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		if _, err := p.Match(RightPren, "')' expected"); err != nil {
			return nil, err
		}
		return t, nil
	}
	if p.NextIs(Identifier) {
		tok, _ := p.Match(Identifier, "")
		name := p.scope.Resolve(tok.Text)
		return Var{name, p.scope.IndexOf(name)}, nil
	}
	return nil, nil
}
