// Package prelude provides the standard aliases each calculus starts with,
// and reads further alias files in the same YAML format.
package prelude

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/smasher164/lambda/typed"
	"github.com/smasher164/lambda/untyped"
)

var (
	//go:embed untyped.yaml
	untypedSource []byte
	//go:embed typed.yaml
	typedSource []byte
)

// Definition is one alias. Type is only meaningful to the typed calculus,
// where it declares the alias's type and lets the term refer to itself.
type Definition struct {
	Name string `yaml:"name"`
	Type string `yaml:"type,omitempty"`
	Term string `yaml:"term"`
}

type File struct {
	Aliases []Definition `yaml:"aliases"`
}

// Load decodes an alias file. Unknown fields are rejected.
func Load(r io.Reader) (*File, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var f File
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("prelude: parse: %w", err)
	}
	for i, d := range f.Aliases {
		if d.Name == "" || d.Term == "" {
			return nil, fmt.Errorf("prelude: aliases[%d] needs both a name and a term", i)
		}
	}
	return &f, nil
}

func mustLoad(src []byte) *File {
	f, err := Load(bytes.NewReader(src))
	if err != nil {
		panic(err)
	}
	return f
}

// Untyped returns the Church encodings of booleans and numerals.
func Untyped() *File { return mustLoad(untypedSource) }

// Typed returns boolean connectives, numerals one to ten, and sumTo.
func Typed() *File { return mustLoad(typedSource) }

// InstallUntyped defines every alias of f in c, stopping at the first failure.
func (f *File) InstallUntyped(c *untyped.ExecutionContext) error {
	for _, d := range f.Aliases {
		if d.Type != "" {
			return fmt.Errorf("prelude: %s: the untyped calculus has no types", d.Name)
		}
		if err := c.AddAlias(d.Name, d.Term); err != nil {
			return fmt.Errorf("prelude: %s: %w", d.Name, err)
		}
	}
	return nil
}

// InstallTyped defines every alias of f in c, stopping at the first failure.
func (f *File) InstallTyped(c *typed.ExecutionContext) error {
	for _, d := range f.Aliases {
		var err error
		if d.Type != "" {
			err = c.AddAliasWithType(d.Name, d.Type, d.Term)
		} else {
			err = c.AddAlias(d.Name, d.Term)
		}
		if err != nil {
			return fmt.Errorf("prelude: %s: %w", d.Name, err)
		}
	}
	return nil
}
