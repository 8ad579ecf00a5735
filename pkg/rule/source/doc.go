// Package source loads rule sets from YAML files and watches them for
// changes.
//
// A rule set names single rules and combinations, and may attach example
// cases that lint checks against the evaluator:
//
//	rules:
//	  - name: us-adults
//	    rule: "age > 30 AND country = 'US'"
//	    cases:
//	      - facts: {age: 40, country: US}
//	        expect: true
//	combinations:
//	  - name: premium
//	    rules: ["plan = 'pro'", "seats > 10"]
//
// FileWatcher reports edits to the file so a running service can reload it.
package source
