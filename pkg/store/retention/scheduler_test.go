package retention

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"

	"mercator-hq/verdict/pkg/store"
)

func TestScheduler_Start(t *testing.T) {
	defer goleak.VerifyNone(t)

	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{
			name:        "valid daily schedule",
			schedule:    "0 3 * * *",
			wantRunning: true,
		},
		{
			name:        "valid hourly schedule",
			schedule:    "0 * * * *",
			wantRunning: true,
		},
		{
			name:        "empty schedule - no error, not running",
			schedule:    "",
			wantRunning: false,
		},
		{
			name:        "invalid schedule",
			schedule:    "invalid cron",
			wantRunning: false,
			wantError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pruner := NewPruner(store.NewMemoryStore(), &Config{PruneSchedule: tt.schedule, Days: 90}, nil)
			scheduler := NewScheduler(pruner)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := scheduler.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if scheduler.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", scheduler.IsRunning(), tt.wantRunning)
			}

			next := scheduler.NextRun()
			if tt.wantRunning && (next == nil || !next.After(time.Now())) {
				t.Errorf("NextRun() = %v, want a future time", next)
			}
			if !tt.wantRunning && next != nil {
				t.Errorf("NextRun() = %v, want nil", next)
			}

			scheduler.Stop()
			if scheduler.IsRunning() {
				t.Error("scheduler still running after Stop()")
			}
		})
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	pruner := NewPruner(store.NewMemoryStore(), &Config{PruneSchedule: "0 3 * * *", Days: 90}, nil)
	scheduler := NewScheduler(pruner)

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for scheduler.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("scheduler still running after context cancelled")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestScheduler_StopTwice(t *testing.T) {
	defer goleak.VerifyNone(t)

	scheduler := NewScheduler(NewPruner(store.NewMemoryStore(), &Config{PruneSchedule: "@hourly"}, nil))
	if err := scheduler.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	scheduler.Stop()
	scheduler.Stop()
}
