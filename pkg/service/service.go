package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fastjson"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/verdict/pkg/rule/ast"
	"mercator-hq/verdict/pkg/rule/codec"
	ruleerrors "mercator-hq/verdict/pkg/rule/errors"
	"mercator-hq/verdict/pkg/rule/eval"
	"mercator-hq/verdict/pkg/rule/parser"
	"mercator-hq/verdict/pkg/store"
	"mercator-hq/verdict/pkg/telemetry/tracing"
)

// Options tunes a Service.
type Options struct {
	// MaxDecodeDepth bounds the nesting of trees accepted by Evaluate.
	// 0 uses codec.DefaultMaxDepth.
	MaxDecodeDepth int

	// LogDiscarded logs a warning naming the rules dropped by Combine.
	LogDiscarded bool
}

// Verdict is the outcome of an evaluation.
type Verdict struct {
	Result bool
	Trace  []eval.Step
}

// Service implements the rule operations on top of a store.
type Service struct {
	store     store.Store
	decoder   *codec.Decoder
	evaluator *eval.Evaluator
	recorder  Recorder
	logger    *slog.Logger
	opts      Options

	// syncMu serializes rule set syncs so two reloads never interleave their
	// delete and append phases.
	syncMu sync.Mutex
}

// New creates a service. A nil recorder discards metrics and a nil logger uses
// slog.Default().
func New(s store.Store, opts Options, recorder Recorder, logger *slog.Logger) *Service {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	decoder := codec.NewDecoder()
	if opts.MaxDecodeDepth > 0 {
		decoder = decoder.WithMaxDepth(opts.MaxDecodeDepth)
	}
	return &Service{
		store:     s,
		decoder:   decoder,
		evaluator: eval.NewEvaluator(logger),
		recorder:  recorder,
		logger:    logger.With("component", "service"),
		opts:      opts,
	}
}

// Create parses a rule string, stores it and returns the stored record.
func (s *Service) Create(ctx context.Context, ruleString string) (_ *store.Record, err error) {
	ctx, span := tracing.Start(ctx, "service.Create",
		trace.WithAttributes(tracing.AttrRuleKind.String(string(store.KindCreated))))
	defer func() { endSpan(span, err) }()

	if ruleString == "" {
		return nil, ruleerrors.New(ruleerrors.KindInvalidInput, MsgRuleStringRequired)
	}

	rec := &store.Record{
		Kind:       store.KindCreated,
		RuleString: ruleString,
		AST:        codec.Encode(parser.Parse(ruleString)),
		Origin:     store.OriginAPI,
	}
	if err := s.store.Append(ctx, rec); err != nil {
		return nil, err
	}

	s.recorder.RuleCreated(rec.Origin)
	s.logger.InfoContext(ctx, "rule created", "rule_id", rec.ID, "rule", ruleString)

	return rec, nil
}

// Combine joins rule strings under one AND node, stores the result and returns
// the stored record. Only the first and last rules survive; the rules in
// between are parsed and dropped.
func (s *Service) Combine(ctx context.Context, rules []string) (_ *store.Record, err error) {
	ctx, span := tracing.Start(ctx, "service.Combine", trace.WithAttributes(
		tracing.AttrRuleKind.String(string(store.KindCombined)),
		tracing.AttrRuleCount.Int(len(rules)),
	))
	defer func() { endSpan(span, err) }()

	tree, err := parser.Combine(rules)
	if err != nil {
		return nil, err
	}

	discarded := parser.Discarded(rules)
	span.SetAttributes(tracing.AttrRuleDiscarded.Int(len(discarded)))
	if len(discarded) > 0 && s.opts.LogDiscarded {
		dropped := make([]string, len(discarded))
		for i, idx := range discarded {
			dropped[i] = rules[idx]
		}
		s.logger.WarnContext(ctx, "combine kept only the first and last rules",
			"discarded_count", len(discarded),
			"discarded_indexes", discarded,
			"discarded_rules", dropped,
		)
	}

	rec := &store.Record{
		Kind:    store.KindCombined,
		Sources: append([]string(nil), rules...),
		AST:     codec.Encode(tree),
		Origin:  store.OriginAPI,
	}
	if err := s.store.Append(ctx, rec); err != nil {
		return nil, err
	}

	s.recorder.RulesCombined(len(discarded))
	s.recorder.RuleCreated(rec.Origin)
	s.logger.InfoContext(ctx, "rules combined", "rule_id", rec.ID, "rule_count", len(rules))

	return rec, nil
}

// EvaluateJSON decodes a serialized tree and a fact object and decides the
// tree. Missing or empty inputs are an invalid_input error, an undecodable
// tree is a malformed_ast error prefixed with MsgInvalidAST, and anything
// raised while converting facts or deciding the tree is an *EvaluationError.
func (s *Service) EvaluateJSON(ctx context.Context, userData, astData *fastjson.Value, explain bool) (_ *Verdict, err error) {
	ctx, span := tracing.Start(ctx, "service.EvaluateJSON")
	defer func() { endSpan(span, err) }()

	if empty(userData) || empty(astData) {
		return nil, ruleerrors.New(ruleerrors.KindInvalidInput, MsgEvaluateInputRequired)
	}

	tree, err := s.decoder.Decode(astData)
	if err != nil {
		return nil, ruleerrors.Wrap(ruleerrors.KindMalformedAST, err, MsgInvalidAST)
	}

	facts, err := eval.FactsFromJSON(userData)
	if err != nil {
		s.recorder.RecordEvaluationError(string(ruleerrors.KindOf(err)))
		return nil, &EvaluationError{Err: err}
	}

	return s.Evaluate(ctx, tree, facts, explain)
}

// Evaluate decides an already decoded tree against facts.
func (s *Service) Evaluate(ctx context.Context, tree ast.Node, facts eval.Facts, explain bool) (_ *Verdict, err error) {
	ctx, span := tracing.Start(ctx, "service.Evaluate")
	defer func() { endSpan(span, err) }()

	start := time.Now()

	var (
		result bool
		steps  *eval.Trace
	)
	if explain {
		result, steps, err = s.evaluator.Explain(tree, facts)
	} else {
		result, err = s.evaluator.Evaluate(tree, facts)
	}
	if err != nil {
		kind := ruleerrors.KindOf(err)
		s.recorder.RecordEvaluationError(string(kind))
		s.logger.DebugContext(ctx, "evaluation failed", "kind", kind, "error", err)
		return nil, &EvaluationError{Err: err}
	}

	s.recorder.RecordEvaluation(result, time.Since(start))
	tracing.SetEvaluationAttributes(span, result, len(ast.Operands(tree)))

	v := &Verdict{Result: result}
	if steps != nil {
		v.Trace = steps.Steps
		if v.Trace == nil {
			v.Trace = []eval.Step{}
		}
	}
	return v, nil
}

// List returns every stored rule in insertion order.
func (s *Service) List(ctx context.Context) ([]*store.Record, error) {
	return s.store.List(ctx)
}

// Get returns one stored rule. A missing rule is store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*store.Record, error) {
	return s.store.Get(ctx, strings.TrimSpace(id))
}

// Delete removes one stored rule. A missing rule is store.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	s.logger.Info("rule deleted", "rule_id", id)
	return nil
}

// Count returns the number of stored rules.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// Ping reports whether the store is usable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		tracing.SetErrorAttributes(span, err, string(ruleerrors.KindOf(err)))
	}
	span.End()
}

// empty reports whether a JSON value is absent or falsy: null, false, 0, an
// empty string, an empty array or an empty object.
func empty(v *fastjson.Value) bool {
	if v == nil {
		return true
	}
	switch v.Type() {
	case fastjson.TypeNull, fastjson.TypeFalse:
		return true
	case fastjson.TypeNumber:
		return v.GetFloat64() == 0
	case fastjson.TypeString:
		return len(v.GetStringBytes()) == 0
	case fastjson.TypeArray:
		return len(v.GetArray()) == 0
	case fastjson.TypeObject:
		o, _ := v.Object()
		return o.Len() == 0
	}
	return false
}
