package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"mercator-hq/verdict/pkg/api/types"
	ruleerrors "mercator-hq/verdict/pkg/rule/errors"
	"mercator-hq/verdict/pkg/service"
	"mercator-hq/verdict/pkg/store"
)

// writeJSON encodes body without HTML escaping so conditions such as
// "age > 30" keep their operators verbatim.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, types.ErrorResponse{Error: message})
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var evalErr *service.EvaluationError
	switch {
	case errors.As(err, &evalErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	}

	switch ruleerrors.KindOf(err) {
	case ruleerrors.KindInvalidInput, ruleerrors.KindMalformedAST:
		return http.StatusBadRequest
	case ruleerrors.KindMalformedCondition, ruleerrors.KindTypeParse, ruleerrors.KindTypeMismatch:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// fail writes err with its mapped status. Server errors are logged.
func fail(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := statusFor(err)
	message := err.Error()
	switch status {
	case http.StatusNotFound:
		message = service.MsgRuleNotFound
	case http.StatusInternalServerError:
		logger.ErrorContext(r.Context(), "Error: "+err.Error(),
			"method", r.Method,
			"path", r.URL.Path,
		)
	}
	writeError(w, status, message)
}
