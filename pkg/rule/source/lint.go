package source

import (
	"fmt"

	"mercator-hq/verdict/pkg/rule/eval"
	"mercator-hq/verdict/pkg/rule/parser"
)

// Finding is one lint result for a rule set entry.
type Finding struct {
	Entry    string
	Severity string // "error" or "warning"
	Message  string
}

// Report collects the findings for a rule set.
type Report struct {
	Entries  int
	Findings []Finding
}

// Errors returns the number of error findings.
func (r *Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == "error" {
			n++
		}
	}
	return n
}

// Warnings returns the number of warning findings.
func (r *Report) Warnings() int {
	return len(r.Findings) - r.Errors()
}

// Lint checks every entry of a rule set: conditions that would fail
// evaluation, conditions that always evaluate to false, combinations that drop
// rules, and example cases whose verdict differs from the expected one.
func Lint(rs *RuleSet) (*Report, error) {
	entries, err := rs.Entries()
	if err != nil {
		return nil, err
	}

	report := &Report{Entries: len(entries)}
	add := func(entry, severity, format string, args ...any) {
		report.Findings = append(report.Findings, Finding{
			Entry:    entry,
			Severity: severity,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	for _, e := range entries {
		warnings, err := eval.Check(e.Tree)
		if err != nil {
			add(e.Name, "error", "%v", err)
		}
		for _, w := range warnings {
			add(e.Name, "warning", "%s", w)
		}

		if e.Kind == "combination" {
			for _, i := range parser.Discarded(e.Sources) {
				add(e.Name, "warning", "rule %d %q is dropped by combine (only the first and last rules are kept)", i, e.Sources[i])
			}
		}

		for i, c := range e.Cases {
			facts, err := eval.FactsFromMap(c.Facts)
			if err != nil {
				add(e.Name, "error", "case %d: %v", i, err)
				continue
			}
			got, err := eval.Evaluate(e.Tree, facts)
			if err != nil {
				add(e.Name, "error", "case %d: %v", i, err)
				continue
			}
			if got != c.Expect {
				add(e.Name, "error", "case %d: got %v, want %v", i, got, c.Expect)
			}
		}
	}

	return report, nil
}
