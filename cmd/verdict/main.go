// Verdict parses rule strings into condition trees, combines them, and
// evaluates serialized trees against fact records.
//
// Usage:
//
//	# Start the HTTP service with the default configuration
//	verdict serve
//
//	# Start with a custom configuration file
//	verdict serve --config /etc/verdict/verdict.yaml
//
//	# Print the encoded tree of a rule
//	verdict parse "age > 30 AND department = 'Sales'"
//
//	# Evaluate a tree against a fact record
//	verdict eval --ast tree.json --facts user.json --explain
//
//	# Check a rule set file
//	verdict lint --file rules.yaml
package main

import "os"

func main() {
	os.Exit(Execute())
}
