package store

import (
	"context"
	"time"

	"mercator-hq/verdict/pkg/rule/codec"
)

// Kind describes how a record was produced.
type Kind string

const (
	KindCreated  Kind = "created"  // single rule string
	KindCombined Kind = "combined" // several rule strings joined by Combine
)

// Origins of stored records.
const (
	OriginAPI    = "api"
	OriginFile   = "file"
	OriginImport = "import"
)

// Record is one stored rule.
type Record struct {
	ID         string          `json:"id"`
	Name       string          `json:"name,omitempty"`
	Kind       Kind            `json:"kind"`
	RuleString string          `json:"rule_string,omitempty"`
	Sources    []string        `json:"sources,omitempty"`
	AST        *codec.Document `json:"ast"`
	Origin     string          `json:"origin"`
	CreatedAt  time.Time       `json:"created_at"`
}

// clone returns a copy that shares no mutable slices with r. The AST document
// is treated as immutable and shared.
func (r *Record) clone() *Record {
	c := *r
	if r.Sources != nil {
		c.Sources = append([]string(nil), r.Sources...)
	}
	return &c
}

// Store persists rule records.
type Store interface {
	// Append stores a record. An empty ID is replaced by a new UUID and a
	// zero CreatedAt by the current time. Appending an existing ID fails with
	// ErrDuplicate.
	Append(ctx context.Context, r *Record) error

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records in insertion order.
	List(ctx context.Context) ([]*Record, error)

	// Delete removes one record, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// DeleteByOrigin removes every record with the given origin.
	DeleteByOrigin(ctx context.Context, origin string) (int64, error)

	// DeleteBefore removes records created before cutoff.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Trim removes the oldest records until at most keep remain.
	Trim(ctx context.Context, keep int64) (int64, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
