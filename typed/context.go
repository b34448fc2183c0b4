package typed

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

var (
	ErrDuplicateDefinition = errors.New("the term being aliased already exists in the context")
	ErrBareVariable        = errors.New("cannot alias a free variable")
	ErrInvalidName         = errors.New("invalid alias identifier")
)

// Alias is a named term with its type.
//
// A Declared alias was defined with an explicit type and refers to itself.
// Its Term is normalized without unfolding the name itself, and is unfolded
// during evaluation only where that cannot recur forever.
type Alias struct {
	Name     string
	Text     string
	TypeText string
	Term     Term
	Type     Ty
	Declared bool
}

// ExecutionContext holds typed aliases that are expanded into expressions
// before evaluation and folded back into results afterwards. It is not safe
// for concurrent use.
type ExecutionContext struct {
	aliases map[string]Alias
	order   []string

	stepLimit int
	log       *slog.Logger
}

type Option func(*ExecutionContext)

// WithStepLimit bounds every reduction and alias expansion to n steps.
func WithStepLimit(n int) Option {
	return func(c *ExecutionContext) { c.stepLimit = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *ExecutionContext) { c.log = l }
}

func NewExecutionContext(opts ...Option) *ExecutionContext {
	c := &ExecutionContext{
		aliases: make(map[string]Alias),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func validName(name string) error {
	if toks, err := Tokenize(name); err != nil || len(toks) != 1 || toks[0].Kind != Identifier {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// AddAlias defines name as the normal form of text after expanding the
// aliases already defined. Its type is inferred.
func (c *ExecutionContext) AddAlias(name, text string) error {
	if err := validName(name); err != nil {
		return err
	}
	t, err := ParseString(text)
	if err != nil {
		return err
	}
	ty, err := TypeOf(t, c.TypeContext())
	if err != nil {
		return err
	}
	return c.commit(Alias{Name: name, Text: text, TypeText: ty.String(), Term: t, Type: ty})
}

// AddAliasWithType defines name with the declared type typeText. The name is
// in scope within text, so the definition may be recursive.
func (c *ExecutionContext) AddAliasWithType(name, typeText, text string) error {
	if err := validName(name); err != nil {
		return err
	}
	declared, err := ParseType(typeText)
	if err != nil {
		return err
	}
	t, err := ParseString(text)
	if err != nil {
		return err
	}
	env := c.TypeContext()
	env[name] = declared
	ty, err := TypeOf(t, env)
	if err != nil {
		return err
	}
	if !TypeEquals(ty, declared) {
		return typeErrorf(t, "declared type does not match")
	}
	a := Alias{Name: name, Text: text, TypeText: declared.String(), Term: t, Type: declared}
	a.Declared = lo.Contains(Free(t), name)
	return c.commit(a)
}

func (c *ExecutionContext) commit(a Alias) error {
	skip := ""
	if a.Declared {
		skip = a.Name
	}
	t, err := c.forward(a.Term, skip)
	if err != nil {
		return err
	}
	if t, err = c.normalize(t, skip, nil); err != nil {
		return err
	}
	for _, other := range c.order {
		if other != a.Name && Equal(t, c.aliases[other].Term) {
			return fmt.Errorf("%w: %s", ErrDuplicateDefinition, other)
		}
	}
	if _, ok := t.(Var); ok {
		return ErrBareVariable
	}
	a.Term = t
	c.order = append(lo.Without(c.order, a.Name), a.Name)
	c.aliases[a.Name] = a
	c.log.Debug("alias added",
		slog.String("name", a.Name),
		slog.String("type", a.TypeText),
		slog.Bool("declared", a.Declared),
		slog.String("value", t.String()))
	return nil
}

// RemoveAlias deletes name and reports whether it was defined.
func (c *ExecutionContext) RemoveAlias(name string) bool {
	if _, ok := c.aliases[name]; !ok {
		return false
	}
	delete(c.aliases, name)
	c.order = lo.Without(c.order, name)
	c.log.Debug("alias removed", slog.String("name", name))
	return true
}

func (c *ExecutionContext) Lookup(name string) (Alias, bool) {
	a, ok := c.aliases[name]
	return a, ok
}

// Aliases returns the defined aliases in the order they were added.
func (c *ExecutionContext) Aliases() []Alias {
	return lo.Map(c.order, func(name string, _ int) Alias { return c.aliases[name] })
}

// AliasesAsStrings pairs every alias name with "text : type".
func (c *ExecutionContext) AliasesAsStrings() [][2]string {
	return lo.Map(c.Aliases(), func(a Alias, _ int) [2]string {
		return [2]string{a.Name, a.Text + " : " + a.TypeText}
	})
}

// TypeContext returns a fresh map from every alias name to its type.
func (c *ExecutionContext) TypeContext() map[string]Ty {
	env := make(map[string]Ty, len(c.aliases))
	for name, a := range c.aliases {
		env[name] = a.Type
	}
	return env
}

// Suggest returns defined names resembling name, closest first.
func (c *ExecutionContext) Suggest(name string) []string {
	ranks := fuzzy.RankFindFold(name, c.order)
	sort.Sort(ranks)
	return lo.Map(ranks, func(r fuzzy.Rank, _ int) string { return r.Target })
}

// TypeOf type-checks text against the aliases without evaluating it.
func (c *ExecutionContext) TypeOf(text string) (Ty, error) {
	t, err := ParseString(text)
	if err != nil {
		return nil, err
	}
	return TypeOf(t, c.TypeContext())
}

// Evaluate parses and type-checks text, expands aliases, reduces to normal
// form, and folds subterms equal to an alias back into its name.
func (c *ExecutionContext) Evaluate(text string) (Term, Ty, error) {
	steps, ty, err := c.run(text, false)
	if err != nil {
		return nil, nil, err
	}
	return steps[len(steps)-1].Term, ty, nil
}

type Stage uint8

const (
	Parsed Stage = iota
	Expanded
	Reduced
	Folded
)

func (s Stage) String() string {
	switch s {
	case Parsed:
		return "input"
	case Expanded:
		return "expand"
	case Reduced:
		return "step"
	case Folded:
		return "result"
	}
	panic("unreachable")
}

type Step struct {
	Stage Stage
	Term  Term
}

// Trace is Evaluate reporting every intermediate term.
func (c *ExecutionContext) Trace(text string) ([]Step, Ty, error) {
	return c.run(text, true)
}

func (c *ExecutionContext) run(text string, verbose bool) ([]Step, Ty, error) {
	var steps []Step
	record := func(s Stage, t Term) {
		if verbose || s == Folded {
			steps = append(steps, Step{s, t})
		}
	}
	t, err := ParseString(text)
	if err != nil {
		return nil, nil, err
	}
	ty, err := TypeOf(t, c.TypeContext())
	if err != nil {
		return nil, nil, err
	}
	record(Parsed, t)
	if t, err = c.forward(t, ""); err != nil {
		return nil, nil, err
	}
	record(Expanded, t)
	last := t
	t, err = c.normalize(t, "", func(t Term) {
		if !Equal(t, last) {
			record(Reduced, t)
			last = t
		}
	})
	if err != nil {
		return nil, nil, err
	}
	if t, err = c.backward(t); err != nil {
		return nil, nil, err
	}
	record(Folded, t)
	return steps, ty, nil
}

func (c *ExecutionContext) normalize(t Term, skip string, step func(Term)) (Term, error) {
	m := machine{func(name string) (Term, bool) {
		a, ok := c.aliases[name]
		if !ok || !a.Declared || name == skip {
			return nil, false
		}
		return a.Term, true
	}}
	n := 0
	t, err := m.reduce(t, c.stepLimit, func(t Term) {
		n++
		if step != nil {
			step(t)
		}
	})
	c.log.Debug("reduced", slog.Int("steps", n), slog.String("result", fmt.Sprint(t)))
	return t, err
}

// forward substitutes every alias that is not declared into t until nothing
// changes. The alias named skip is left in place. Each copy of an alias body
// takes the span of the name it replaces.
func (c *ExecutionContext) forward(t Term, skip string) (Term, error) {
	return c.fixpoint(t, func(t Term) Term {
		for _, name := range c.order {
			if a := c.aliases[name]; !a.Declared && name != skip {
				t = canonical(replace(t, name, a.Term, func(v Var) Term { return respan(a.Term, v.Span) }))
			}
		}
		return t
	})
}

// backward replaces subterms equal to an alias with the alias name until
// nothing changes. The outermost match wins.
func (c *ExecutionContext) backward(t Term) (Term, error) {
	return c.fixpoint(t, func(t Term) Term {
		return canonical(c.fold(t, nil))
	})
}

func (c *ExecutionContext) fold(t Term, bound []string) Term {
	for _, name := range c.order {
		if !slices.Contains(bound, name) && Equal(t, c.aliases[name].Term) {
			return Var{Span: t.Extent(), Name: name}
		}
	}
	switch t := t.(type) {
	case Abs:
		return Abs{t.Span, t.Bind, t.Type, c.fold(t.Body, append(bound[:len(bound):len(bound)], t.Bind))}
	case Var:
		return t
	}
	return mapTerm(t, func(t Term) Term { return c.fold(t, bound) })
}

func (c *ExecutionContext) fixpoint(t Term, once func(Term) Term) (Term, error) {
	prev := once(t)
	cur := once(prev)
	for n := 2; !Equal(prev, cur); n++ {
		if c.stepLimit > 0 && n >= c.stepLimit {
			return nil, fmt.Errorf("%w: alias expansion did not settle after %d passes", ErrStepLimit, n)
		}
		prev, cur = cur, once(cur)
	}
	return cur, nil
}
