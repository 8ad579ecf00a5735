package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/verdict/pkg/store"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// Days is the number of days to keep rules.
	// 0 keeps rules forever.
	Days int

	// MaxRecords is the maximum number of rules to keep.
	// 0 means unlimited.
	MaxRecords int64

	// PruneSchedule is a standard cron expression, e.g. "0 3 * * *".
	// Empty disables scheduled pruning.
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration: keep everything,
// check daily at 3 AM.
func DefaultConfig() *Config {
	return &Config{
		Days:          0,
		MaxRecords:    0,
		PruneSchedule: "0 3 * * *",
	}
}

// Pruner enforces retention limits on a rule store.
type Pruner struct {
	store  store.Store
	config *Config
	logger *slog.Logger
	now    func() time.Time
}

// NewPruner creates a new retention pruner.
func NewPruner(s store.Store, config *Config, logger *slog.Logger) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:  s,
		config: config,
		logger: logger.With("component", "store.retention"),
		now:    time.Now,
	}
}

// Prune deletes rules older than the retention period, then the oldest rules
// beyond the record limit. It returns the total number deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.Days > 0 {
		cutoff := p.now().AddDate(0, 0, -p.config.Days)
		deleted, err := p.store.DeleteBefore(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("prune by age failed: %w", err)
		}
		total += deleted
		p.logger.Debug("pruned rules by age",
			"deleted_count", deleted,
			"cutoff_time", cutoff,
		)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.store.Trim(ctx, p.config.MaxRecords)
		if err != nil {
			return total, fmt.Errorf("prune by count failed: %w", err)
		}
		total += deleted
		p.logger.Debug("pruned rules by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}

	if total > 0 {
		p.logger.Info("rule pruning completed",
			"total_deleted", total,
			"retention_days", p.config.Days,
			"max_records", p.config.MaxRecords,
		)
	}

	return total, nil
}
