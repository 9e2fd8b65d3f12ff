package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/goaltrack/internal/apperr"
	"github.com/templui/goaltrack/internal/ctxkeys"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Count *int   `json:"count,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps err to a status code. Internal errors are logged and their
// details kept out of the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	resp := errorResponse{Error: err.Error(), Code: apperr.Code(err)}

	var inUse *apperr.InUseError
	if errors.As(err, &inUse) {
		resp.Count = &inUse.Count
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		if status == http.StatusInternalServerError {
			resp.Error = "internal server error"
		}
	}

	writeJSON(w, status, resp)
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err != nil {
		return apperr.Invalidf("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalidf("invalid %s", name)
	}
	return id, nil
}

// invalid wraps a validation failure so it maps to 400.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return apperr.Invalid(err.Error())
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
