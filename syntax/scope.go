package syntax

import (
	"strconv"

	"github.com/hashicorp/go-set/v3"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Scope is the stack of binder names in effect during a descent. A binder
// that would shadow a name already in scope is renamed to a fresh name; the
// swap table redirects lookups of the original name for the binder's extent.
type Scope struct {
	ids      []string
	swap     map[string][]string
	reserved *set.Set[string]
}

// NewScope returns an empty scope. Fresh names never collide with reserved,
// which should list every name spelled in the term being processed.
func NewScope(reserved []string) *Scope {
	return &Scope{swap: make(map[string][]string), reserved: set.From(reserved)}
}

func (s *Scope) IDs() []string {
	return s.ids
}

// IndexOf is the distance of name from the innermost binder (1-based), or 0
// if name is free.
func (s *Scope) IndexOf(name string) int {
	i := lo.LastIndexOf(s.ids, name)
	if i < 0 {
		return 0
	}
	return len(s.ids) - i
}

// Resolve maps name through the swap table.
func (s *Scope) Resolve(name string) string {
	if sw := s.swap[name]; len(sw) > 0 {
		return sw[len(sw)-1]
	}
	return name
}

// Bind enters a binder written as name and returns the name it binds under.
func (s *Scope) Bind(name string) string {
	if s.IndexOf(name) == 0 {
		s.ids = append(s.ids, name)
		return name
	}
	f := fresh(func(n string) bool { return s.reserved.Contains(n) || slices.Contains(s.ids, n) })
	s.ids = append(s.ids, f)
	s.swap[name] = append(s.swap[name], f)
	return f
}

// Unbind leaves the binder entered by Bind(name), which returned bound.
func (s *Scope) Unbind(name, bound string) {
	s.ids = s.ids[:len(s.ids)-1]
	if name != bound {
		sw := s.swap[name]
		if len(sw) == 1 {
			delete(s.swap, name)
		} else {
			s.swap[name] = sw[:len(sw)-1]
		}
	}
}

// Fresh returns the first of f0, f1, f2, ... that is not in used.
func Fresh(used []string) string {
	return fresh(set.From(used).Contains)
}

func fresh(taken func(string) bool) string {
	for i := 0; ; i++ {
		if f := "f" + strconv.Itoa(i); !taken(f) {
			return f
		}
	}
}
