package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"mercator-hq/verdict/pkg/api/types"
	ruleerrors "mercator-hq/verdict/pkg/rule/errors"
	"mercator-hq/verdict/pkg/service"
)

// RuleHandler serves the /api/rules endpoints.
type RuleHandler struct {
	svc          *service.Service
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewRuleHandler creates the rule handlers. Request bodies larger than
// maxBodyBytes are rejected with 413.
func NewRuleHandler(svc *service.Service, maxBodyBytes int64, logger *slog.Logger) *RuleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleHandler{
		svc:          svc,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With("component", "handlers"),
	}
}

// Register adds the rule routes to mux.
func (h *RuleHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/rules", h.Create)
	mux.HandleFunc("POST /api/rules/combine", h.Combine)
	mux.HandleFunc("POST /api/rules/evaluate", h.Evaluate)
	mux.HandleFunc("GET /api/rules", h.List)
	mux.HandleFunc("GET /api/rules/{id}", h.Get)
	mux.HandleFunc("DELETE /api/rules/{id}", h.Delete)
}

// Create handles POST /api/rules with body {"rule_string": "..."}.
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, release, err := readObject(w, r, h.maxBodyBytes)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	ruleString, err := optionalString(body, "rule_string")
	release()
	if err != nil {
		fail(w, r, h.logger, ruleerrors.New(ruleerrors.KindInvalidInput, "%s", err.Error()))
		return
	}

	rec, err := h.svc.Create(r.Context(), ruleString)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/rules/"+rec.ID)
	writeJSON(w, http.StatusOK, types.CreateResponse{
		Message: service.MsgRuleCreated,
		Rule:    rec.AST,
	})
}

// Combine handles POST /api/rules/combine with body {"rules": ["...", ...]}.
func (h *RuleHandler) Combine(w http.ResponseWriter, r *http.Request) {
	body, release, err := readObject(w, r, h.maxBodyBytes)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	rules, err := optionalStrings(body, "rules")
	release()
	if err != nil {
		fail(w, r, h.logger, ruleerrors.New(ruleerrors.KindInvalidInput, "%s", err.Error()))
		return
	}

	rec, err := h.svc.Combine(r.Context(), rules)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/rules/"+rec.ID)
	writeJSON(w, http.StatusOK, types.CombineResponse{
		Message:      service.MsgRulesCombined,
		CombinedRule: rec.AST,
	})
}

// Evaluate handles POST /api/rules/evaluate with body
// {"user_data": {...}, "json_data": <serialized tree>}. The explain query
// parameter adds the leaf decisions to the response.
func (h *RuleHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	explain := false
	if q := r.URL.Query().Get("explain"); q != "" {
		b, err := strconv.ParseBool(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "explain must be a boolean")
			return
		}
		explain = b
	}

	body, release, err := readObject(w, r, h.maxBodyBytes)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	defer release()

	verdict, err := h.svc.EvaluateJSON(r.Context(), body.Get("user_data"), body.Get("json_data"), explain)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, types.EvaluateResponse{
		Result: verdict.Result,
		Trace:  verdict.Trace,
	})
}

// List handles GET /api/rules.
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewListResponse(records))
}

// Get handles GET /api/rules/{id}.
func (h *RuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/rules/{id}.
func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
