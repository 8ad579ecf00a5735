package source

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mercator-hq/verdict/pkg/rule/ast"
	"mercator-hq/verdict/pkg/rule/parser"
)

// MaxFileSize bounds the size of a rule set file.
const MaxFileSize = 10 * 1024 * 1024

// RuleSet is the content of a rule set file.
type RuleSet struct {
	Rules        []Rule        `yaml:"rules"`
	Combinations []Combination `yaml:"combinations"`

	// Path is the file the set was loaded from, if any.
	Path string `yaml:"-"`
}

// Rule is a single named rule string.
type Rule struct {
	Name  string `yaml:"name"`
	Rule  string `yaml:"rule"`
	Cases []Case `yaml:"cases,omitempty"`
}

// Combination is a named list of rule strings joined by Combine.
type Combination struct {
	Name  string   `yaml:"name"`
	Rules []string `yaml:"rules"`
	Cases []Case   `yaml:"cases,omitempty"`
}

// Case is an example fact record with its expected verdict.
type Case struct {
	Facts  map[string]any `yaml:"facts"`
	Expect bool           `yaml:"expect"`
}

// Entry is one compiled rule or combination.
type Entry struct {
	Name    string
	Kind    string // "rule" or "combination"
	Sources []string
	Tree    ast.Node
	Cases   []Case
}

// LoadError reports a problem with a rule set file.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	prefix := "rule set"
	if e.Path != "" {
		prefix = e.Path
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// LoadFile reads and validates a rule set file.
func LoadFile(path string) (*RuleSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to access file", Cause: err}
	}
	if info.Size() > MaxFileSize {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("file size %d exceeds maximum %d bytes", info.Size(), MaxFileSize)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}

	rs, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
		}
		return nil, err
	}
	rs.Path = path
	return rs, nil
}

// Parse decodes and validates rule set YAML. Unknown fields are rejected.
func Parse(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&rs); err != nil {
			return nil, &LoadError{Message: "invalid YAML", Cause: err}
		}
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Validate checks that names are present and unique, rules are non-empty and
// every combination has at least two rules.
func (rs *RuleSet) Validate() error {
	seen := make(map[string]bool)
	check := func(kind string, i int, name string) error {
		if name == "" {
			return &LoadError{Message: fmt.Sprintf("%s[%d]: name is required", kind, i)}
		}
		if seen[name] {
			return &LoadError{Message: fmt.Sprintf("%s[%d]: duplicate name %q", kind, i, name)}
		}
		seen[name] = true
		return nil
	}

	for i, r := range rs.Rules {
		if err := check("rules", i, r.Name); err != nil {
			return err
		}
		if r.Rule == "" {
			return &LoadError{Message: fmt.Sprintf("rules[%d] %q: rule is required", i, r.Name)}
		}
	}
	for i, c := range rs.Combinations {
		if err := check("combinations", i, c.Name); err != nil {
			return err
		}
		if len(c.Rules) < 2 {
			return &LoadError{Message: fmt.Sprintf("combinations[%d] %q: %s", i, c.Name, parser.MsgTooFewRules)}
		}
	}
	return nil
}

// Entries parses every rule and combination, rules first, in file order.
func (rs *RuleSet) Entries() ([]Entry, error) {
	entries := make([]Entry, 0, len(rs.Rules)+len(rs.Combinations))
	for _, r := range rs.Rules {
		entries = append(entries, Entry{
			Name:    r.Name,
			Kind:    "rule",
			Sources: []string{r.Rule},
			Tree:    parser.Parse(r.Rule),
			Cases:   r.Cases,
		})
	}
	for _, c := range rs.Combinations {
		tree, err := parser.Combine(c.Rules)
		if err != nil {
			return nil, &LoadError{Path: rs.Path, Message: fmt.Sprintf("combination %q", c.Name), Cause: err}
		}
		entries = append(entries, Entry{
			Name:    c.Name,
			Kind:    "combination",
			Sources: append([]string(nil), c.Rules...),
			Tree:    tree,
			Cases:   c.Cases,
		})
	}
	return entries, nil
}
