package service

import "time"

// Recorder receives service events for metrics.
type Recorder interface {
	RuleCreated(origin string)
	RulesCombined(discarded int)
	RecordEvaluation(result bool, duration time.Duration)
	RecordEvaluationError(kind string)
}

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) RuleCreated(string) {}

func (NopRecorder) RulesCombined(int) {}

func (NopRecorder) RecordEvaluation(bool, time.Duration) {}

func (NopRecorder) RecordEvaluationError(string) {}
