package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/verdict/pkg/rule/ast"
)

const sampleYAML = `
rules:
  - name: us-adults
    rule: "age > 30 AND country = 'US'"
    cases:
      - facts: {age: 40, country: US}
        expect: true
      - facts: {age: 40, country: UK}
        expect: false
combinations:
  - name: premium
    rules: ["plan = 'pro'", "seats > 10"]
`

func TestParse(t *testing.T) {
	rs, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rs.Rules) != 1 || len(rs.Combinations) != 1 {
		t.Fatalf("Parse() = %d rules, %d combinations, want 1 and 1", len(rs.Rules), len(rs.Combinations))
	}
	if got := rs.Rules[0].Cases[0].Facts["age"]; got != 40 {
		t.Errorf("case facts age = %v (%T), want int 40", got, got)
	}

	entries, err := rs.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Entries() = %d, want 2", len(entries))
	}
	if got := ast.Format(entries[0].Tree); got != "(age > 30 AND country = 'US')" {
		t.Errorf("entries[0].Tree = %s", got)
	}
	if entries[1].Kind != "combination" || ast.Format(entries[1].Tree) != "(plan = 'pro' AND seats > 10)" {
		t.Errorf("entries[1] = %s %s", entries[1].Kind, ast.Format(entries[1].Tree))
	}
}

func TestParse_Empty(t *testing.T) {
	rs, err := Parse([]byte("  \n"))
	if err != nil {
		t.Fatalf("Parse(empty) error = %v", err)
	}
	if len(rs.Rules) != 0 || len(rs.Combinations) != 0 {
		t.Errorf("Parse(empty) = %+v, want empty set", rs)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"bad yaml", "rules: [", "invalid YAML"},
		{"unknown field", "rulez: []", "invalid YAML"},
		{"missing name", "rules:\n  - rule: a > 1\n", "rules[0]: name is required"},
		{"missing rule", "rules:\n  - name: x\n", `rules[0] "x": rule is required`},
		{"duplicate name", "rules:\n  - {name: x, rule: a > 1}\ncombinations:\n  - {name: x, rules: [a > 1, b > 2]}\n", `duplicate name "x"`},
		{"short combination", "combinations:\n  - {name: c, rules: [a > 1]}\n", "At least two rules are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("Parse() error = %v, want *LoadError", err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Parse() error = %q, want it to contain %q", err, tt.contains)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	rs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if rs.Path != path {
		t.Errorf("Path = %q, want %q", rs.Path, path)
	}

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "missing.yaml: failed to access file") {
		t.Errorf("LoadFile(missing) error = %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("rules:\n  - rule: a > 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadFile(bad)
	if err == nil || !strings.HasPrefix(err.Error(), bad+":") {
		t.Errorf("LoadFile(bad) error = %v, want path prefix", err)
	}
}

func TestLint(t *testing.T) {
	input := `
rules:
  - name: good
    rule: "age > 30"
    cases:
      - facts: {age: 40}
        expect: true
  - name: wrong-expectation
    rule: "age > 30"
    cases:
      - facts: {age: 10}
        expect: true
  - name: bad-literal
    rule: "age > thirty"
  - name: keyword-in-field
    rule: "BRAND = 'acme'"
  - name: unknown-op
    rule: "age >= 30"
  - name: float-fact
    rule: "age > 30"
    cases:
      - facts: {age: 30.5}
        expect: false
combinations:
  - name: lossy
    rules: ["a > 1", "b > 2", "c > 3"]
`
	rs, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	report, err := Lint(rs)
	if err != nil {
		t.Fatalf("Lint() error = %v", err)
	}
	if report.Entries != 7 {
		t.Errorf("Entries = %d, want 7", report.Entries)
	}

	byEntry := make(map[string][]Finding)
	for _, f := range report.Findings {
		byEntry[f.Entry] = append(byEntry[f.Entry], f)
	}

	if len(byEntry["good"]) != 0 {
		t.Errorf("good: unexpected findings %+v", byEntry["good"])
	}

	want := []struct {
		entry    string
		severity string
		contains string
	}{
		{"wrong-expectation", "error", "case 0: got false, want true"},
		{"bad-literal", "error", "type_parse_error"},
		{"keyword-in-field", "error", "malformed_condition"},
		{"unknown-op", "warning", `unknown operator ">="`},
		{"float-fact", "error", `fact "age" must be an integer or a string`},
		{"lossy", "warning", `rule 1 "b > 2" is dropped`},
	}
	for _, w := range want {
		found := false
		for _, f := range byEntry[w.entry] {
			if f.Severity == w.severity && strings.Contains(f.Message, w.contains) {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: no %s containing %q in %+v", w.entry, w.severity, w.contains, byEntry[w.entry])
		}
	}

	if report.Errors() != 4 || report.Warnings() != 2 {
		t.Errorf("Errors() = %d, Warnings() = %d, want 4 and 2", report.Errors(), report.Warnings())
	}
}
