// Package types defines the JSON bodies of the rule API.
package types
