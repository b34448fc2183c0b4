package untyped

import "github.com/smasher164/lambda/syntax"

type Kind uint8

const (
	Dot Kind = iota
	Lambda
	LeftPren
	RightPren
	Identifier
)

func (k Kind) String() string {
	switch k {
	case Dot:
		return "Dot"
	case Lambda:
		return "Lambda"
	case LeftPren:
		return "LeftPren"
	case RightPren:
		return "RightPren"
	case Identifier:
		return "Identifier"
	}
	panic("unreachable")
}

type Token = syntax.Token[Kind]

var rules = []syntax.Rule[Kind]{
	syntax.Match(`\.`, syntax.Simply(Dot)),
	syntax.Match(`λ|\\`, syntax.Simply(Lambda)),
	syntax.Match(`\(`, syntax.Simply(LeftPren)),
	syntax.Match(`\)`, syntax.Simply(RightPren)),
	syntax.Match(`[a-zA-Z][_0-9a-zA-Z']*`, syntax.Identifier[Kind](Identifier, nil)),
	syntax.Match(`[_0-9']+`, syntax.Continuation(Identifier, "identifier must begin with a letter")),
}

func Tokenize(s string) ([]Token, error) {
	return syntax.Tokenize(s, rules)
}
