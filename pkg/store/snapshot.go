package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// WriteSnapshot writes every record in s to w as zstd-compressed JSON lines.
// It returns the number of records written.
func WriteSnapshot(ctx context.Context, w io.Writer, s Store) (int, error) {
	records, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("create zstd writer: %w", err)
	}

	je := json.NewEncoder(enc)
	for i, r := range records {
		if err := ctx.Err(); err != nil {
			enc.Close()
			return i, err
		}
		if err := je.Encode(r); err != nil {
			enc.Close()
			return i, fmt.Errorf("encode record %s: %w", r.ID, err)
		}
	}

	if err := enc.Close(); err != nil {
		return len(records), fmt.Errorf("flush snapshot: %w", err)
	}
	return len(records), nil
}

// ReadSnapshot appends the records in a snapshot to s. Records whose ID is
// already present are skipped. It returns the number of records added and
// skipped.
func ReadSnapshot(ctx context.Context, r io.Reader, s Store) (added, skipped int, err error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return 0, 0, fmt.Errorf("create zstd reader: %w", err)
	}
	defer dec.Close()

	jd := json.NewDecoder(dec)
	for {
		if err := ctx.Err(); err != nil {
			return added, skipped, err
		}

		var rec Record
		if err := jd.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return added, skipped, nil
			}
			return added, skipped, fmt.Errorf("decode record %d: %w", added+skipped+1, err)
		}

		if err := s.Append(ctx, &rec); err != nil {
			if errors.Is(err, ErrDuplicate) {
				skipped++
				continue
			}
			return added, skipped, err
		}
		added++
	}
}
