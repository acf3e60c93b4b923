package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FileName is the optional declarations file a template source may ship.
const FileName = "dependencies.yml"

// Constraints is a list of version requirements. In YAML it may be written
// as a single string or a sequence.
type Constraints []string

func (c *Constraints) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*c = Constraints{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*c = list
		return nil
	}
	return fmt.Errorf("line %d: version must be a string or a list of strings", value.Line)
}

type entry struct {
	Name    string      `yaml:"name"`
	Version Constraints `yaml:"version"`
	Group   Group       `yaml:"group"`
	Require *bool       `yaml:"require"`
}

type document struct {
	Dependencies []entry `yaml:"dependencies"`
}

// Parse reads a declarations file:
//
//	dependencies:
//	  - name: pundit
//	    version: "~> 2.3"
//	  - name: rubocop-rails
//	    group: development
//	    require: false
func Parse(data []byte) ([]Dependency, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	deps := make([]Dependency, 0, len(doc.Dependencies))
	for _, e := range doc.Dependencies {
		d := Dependency{
			Name:        e.Name,
			Constraints: e.Version,
			Group:       e.Group,
			NoRequire:   e.Require != nil && !*e.Require,
		}
		if d.Group == "" {
			d.Group = Runtime
		}
		deps = append(deps, d)
	}

	if err := ValidateAll(deps); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return deps, nil
}
