package service

import (
	"context"
	"fmt"

	"mercator-hq/verdict/pkg/rule/codec"
	"mercator-hq/verdict/pkg/rule/source"
	"mercator-hq/verdict/pkg/store"
)

// SyncRuleSet replaces every file-origin rule in the store with the entries of
// rs. The rule set is validated before anything is deleted, so an invalid file
// leaves the store untouched.
func (s *Service) SyncRuleSet(ctx context.Context, rs *source.RuleSet) (int, error) {
	if err := rs.Validate(); err != nil {
		return 0, err
	}
	entries, err := rs.Entries()
	if err != nil {
		return 0, err
	}

	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	removed, err := s.store.DeleteByOrigin(ctx, store.OriginFile)
	if err != nil {
		return 0, fmt.Errorf("failed to remove previous rule set: %w", err)
	}

	for _, e := range entries {
		rec := &store.Record{
			Name:   e.Name,
			Kind:   store.KindCreated,
			AST:    codec.Encode(e.Tree),
			Origin: store.OriginFile,
		}
		if e.Kind == "combination" {
			rec.Kind = store.KindCombined
			rec.Sources = e.Sources
		} else {
			rec.RuleString = e.Sources[0]
		}
		if err := s.store.Append(ctx, rec); err != nil {
			return 0, fmt.Errorf("failed to store rule %q: %w", e.Name, err)
		}
		s.recorder.RuleCreated(rec.Origin)
	}

	s.logger.Info("rule set synced",
		"path", rs.Path,
		"removed", removed,
		"added", len(entries),
	)

	if report, err := source.Lint(rs); err == nil {
		for _, f := range report.Findings {
			s.logger.Warn("rule set finding",
				"path", rs.Path,
				"entry", f.Entry,
				"severity", f.Severity,
				"message", f.Message,
			)
		}
	}

	return len(entries), nil
}

// ReloadFile loads a rule set file and syncs it into the store.
func (s *Service) ReloadFile(ctx context.Context, path string) error {
	rs, err := source.LoadFile(path)
	if err != nil {
		return err
	}
	_, err = s.SyncRuleSet(ctx, rs)
	return err
}
