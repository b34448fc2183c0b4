package untyped

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

// Alias is a named, fully reduced term together with the text it was
// defined from.
type Alias struct {
	Name string
	Text string
	Term Term
}

// ExecutionContext is a set of aliases that are expanded into expressions
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

// AddAlias defines name as the normal form of text after expanding the
// aliases already defined. Redefining a name replaces it.
func (c *ExecutionContext) AddAlias(name, text string) error {
	if toks, err := Tokenize(name); err != nil || len(toks) != 1 || toks[0].Kind != Identifier {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	t, err := ParseString(text)
	if err != nil {
		return err
	}
	if t, err = c.forward(t); err != nil {
		return err
	}
	if t, err = c.normalize(t, nil); err != nil {
		return err
	}
	for _, other := range c.order {
		if other != name && Equal(t, c.aliases[other].Term) {
			return fmt.Errorf("%w: %s", ErrDuplicateDefinition, other)
		}
	}
	if _, ok := t.(Var); ok {
		return ErrBareVariable
	}
	c.order = append(lo.Without(c.order, name), name)
	c.aliases[name] = Alias{name, text, t}
	c.log.Debug("alias added", slog.String("name", name), slog.String("value", t.String()))
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

// AliasesAsStrings pairs every alias name with the text it was defined from.
func (c *ExecutionContext) AliasesAsStrings() [][2]string {
	return lo.Map(c.Aliases(), func(a Alias, _ int) [2]string { return [2]string{a.Name, a.Text} })
}

// Suggest returns defined names resembling name, closest first.
func (c *ExecutionContext) Suggest(name string) []string {
	ranks := fuzzy.RankFindFold(name, c.order)
	sort.Sort(ranks)
	return lo.Map(ranks, func(r fuzzy.Rank, _ int) string { return r.Target })
}

// Evaluate parses text, expands aliases, reduces to normal form, and folds
// subterms equal to an alias back into its name.
func (c *ExecutionContext) Evaluate(text string) (Term, error) {
	steps, err := c.run(text, false)
	if err != nil {
		return nil, err
	}
	return steps[len(steps)-1].Term, nil
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
func (c *ExecutionContext) Trace(text string) ([]Step, error) {
	return c.run(text, true)
}

func (c *ExecutionContext) run(text string, verbose bool) ([]Step, error) {
	var steps []Step
	record := func(s Stage, t Term) {
		if verbose || s == Folded {
			steps = append(steps, Step{s, t})
		}
	}
	t, err := ParseString(text)
	if err != nil {
		return nil, err
	}
	record(Parsed, t)
	if t, err = c.forward(t); err != nil {
		return nil, err
	}
	record(Expanded, t)
	last := t
	t, err = c.normalize(t, func(t Term) {
		if !Equal(t, last) {
			record(Reduced, t)
			last = t
		}
	})
	if err != nil {
		return nil, err
	}
	if t, err = c.backward(t); err != nil {
		return nil, err
	}
	record(Folded, t)
	return steps, nil
}

func (c *ExecutionContext) normalize(t Term, step func(Term)) (Term, error) {
	n := 0
	t, err := reduce(t, c.stepLimit, func(t Term) {
		n++
		if step != nil {
			step(t)
		}
	})
	c.log.Debug("reduced", slog.Int("steps", n), slog.String("result", fmt.Sprint(t)))
	return t, err
}

// forward substitutes every alias into t until nothing changes.
func (c *ExecutionContext) forward(t Term) (Term, error) {
	return c.fixpoint(t, func(t Term) Term {
		for _, name := range c.order {
			t = Subst(t, name, c.aliases[name].Term)
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
			return Var{name, 0}
		}
	}
	switch t := t.(type) {
	case App:
		return App{c.fold(t.Fn, bound), c.fold(t.Arg, bound)}
	case Abs:
		return Abs{t.Bind, c.fold(t.Body, append(bound[:len(bound):len(bound)], t.Bind))}
	}
	return t
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
