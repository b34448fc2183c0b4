package typed

import "github.com/smasher164/lambda/syntax"

type Kind uint8

const (
	Dot Kind = iota
	Colon
	Arrow
	Lambda
	LeftPren
	RightPren
	True
	False
	Zero
	If
	Then
	Else
	Succ
	Pred
	IsZero
	Plus
	Minus
	Type
	Identifier
)

var kindNames = [...]string{
	Dot:        "Dot",
	Colon:      "Colon",
	Arrow:      "Arrow",
	Lambda:     "Lambda",
	LeftPren:   "LeftPren",
	RightPren:  "RightPren",
	True:       "True",
	False:      "False",
	Zero:       "Zero",
	If:         "If",
	Then:       "Then",
	Else:       "Else",
	Succ:       "Succ",
	Pred:       "Pred",
	IsZero:     "IsZero",
	Plus:       "Plus",
	Minus:      "Minus",
	Type:       "Type",
	Identifier: "Identifier",
}

func (k Kind) String() string {
	return kindNames[k]
}

type Token = syntax.Token[Kind]

var keywords = map[string]Kind{
	"true":   True,
	"false":  False,
	"zero":   Zero,
	"if":     If,
	"then":   Then,
	"else":   Else,
	"succ":   Succ,
	"pred":   Pred,
	"iszero": IsZero,
	"plus":   Plus,
	"minus":  Minus,
}

var rules = []syntax.Rule[Kind]{
	syntax.Match(`\.`, syntax.Simply(Dot)),
	syntax.Match(`:`, syntax.Simply(Colon)),
	syntax.Match(`->`, syntax.Simply(Arrow)),
	syntax.Match(`λ|\\`, syntax.Simply(Lambda)),
	syntax.Match(`\(`, syntax.Simply(LeftPren)),
	syntax.Match(`\)`, syntax.Simply(RightPren)),
	syntax.Match(`[A-Z][_0-9a-zA-Z']*`, syntax.Simply(Type)),
	syntax.Match(`[a-z][_0-9a-zA-Z']*`, syntax.Identifier(Identifier, keywords)),
	syntax.Match(`[_0-9']+`, syntax.Continuation(Identifier, "identifier must begin with a lowercase letter")),
}

func Tokenize(s string) ([]Token, error) {
	return syntax.Tokenize(s, rules)
}
