// Package manifest declares the gems a recipe adds to a project's Gemfile.
//
// Declarations are applied in order. A grouped declaration lands inside the
// Gemfile's existing block for that group when there is one; otherwise a new
// block is appended. A gem the Gemfile already names is left alone.
package manifest

import (
	"fmt"
	"regexp"
	"strings"
)

// Group is the Bundler group a gem belongs to.
type Group string

const (
	Runtime         Group = "runtime"
	Development     Group = "development"
	Test            Group = "test"
	DevelopmentTest Group = "development+test"
)

// Symbols returns the group names as Ruby symbols, e.g. ":development, :test".
func (g Group) Symbols() string {
	parts := strings.Split(string(g), "+")
	for i, p := range parts {
		parts[i] = ":" + p
	}
	return strings.Join(parts, ", ")
}

func (g Group) valid() bool {
	switch g {
	case Runtime, Development, Test, DevelopmentTest:
		return true
	}
	return false
}

// Dependency is one gem declaration.
type Dependency struct {
	Name        string
	Constraints []string // e.g. "~> 5.1", ">= 5.1.3"
	Group       Group
	NoRequire   bool // Declared with require: false
}

// Gem declares a runtime dependency.
func Gem(name string, constraints ...string) Dependency {
	return Dependency{Name: name, Constraints: constraints, Group: Runtime}
}

// In returns a copy of d placed in group g.
func (d Dependency) In(g Group) Dependency {
	d.Group = g
	return d
}

// WithoutRequire returns a copy of d declared with require: false.
func (d Dependency) WithoutRequire() Dependency {
	d.NoRequire = true
	return d
}

var (
	namePattern       = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	constraintPattern = regexp.MustCompile(`^(?:(?:~>|>=|<=|!=|=|>|<)\s*)?[0-9]+(?:\.[0-9A-Za-z]+)*$`)
)

// Validate rejects malformed names, constraints and groups.
func (d Dependency) Validate() error {
	if !namePattern.MatchString(d.Name) {
		return &InvalidError{Name: d.Name, Reason: "invalid gem name"}
	}
	for _, c := range d.Constraints {
		if !constraintPattern.MatchString(strings.TrimSpace(c)) {
			return &InvalidError{Name: d.Name, Reason: fmt.Sprintf("invalid version constraint %q", c)}
		}
	}
	if d.Group != "" && !d.Group.valid() {
		return &InvalidError{Name: d.Name, Reason: fmt.Sprintf("unknown group %q", d.Group)}
	}
	return nil
}

// Line renders the Gemfile statement for d, without indentation.
func (d Dependency) Line() string {
	parts := []string{fmt.Sprintf("gem %q", d.Name)}
	for _, c := range d.Constraints {
		parts = append(parts, fmt.Sprintf("%q", strings.TrimSpace(c)))
	}
	if d.NoRequire {
		parts = append(parts, "require: false")
	}
	return strings.Join(parts, ", ")
}

func (d Dependency) group() Group {
	if d.Group == "" {
		return Runtime
	}
	return d.Group
}

// InvalidError reports a malformed declaration.
type InvalidError struct {
	Name   string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("dependency %q: %s", e.Name, e.Reason)
}

// ValidateAll checks every declaration and reports the first failure.
func ValidateAll(deps []Dependency) error {
	for i, d := range deps {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("declaration %d: %w", i+1, err)
		}
	}
	return nil
}

// Render returns the Gemfile stanza for deps: runtime gems first, then one
// block per group in order of first appearance.
func Render(deps []Dependency) string {
	var b strings.Builder
	var groups []Group
	byGroup := map[Group][]Dependency{}

	for _, d := range deps {
		g := d.group()
		if g == Runtime {
			b.WriteString(d.Line() + "\n")
			continue
		}
		if _, ok := byGroup[g]; !ok {
			groups = append(groups, g)
		}
		byGroup[g] = append(byGroup[g], d)
	}

	for _, g := range groups {
		b.WriteString("\ngroup " + g.Symbols() + " do\n")
		for _, d := range byGroup[g] {
			b.WriteString("  " + d.Line() + "\n")
		}
		b.WriteString("end\n")
	}
	return b.String()
}
