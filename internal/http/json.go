package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/givechain/givechain-ui-api/internal/errors"
)

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// WriteJSON encodes v through a buffer so an encoding failure never leaves a
// half-written body behind a 200 status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("encode response body", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ErrorParams describes an error response. Code overrides the status derived
// from Err; when zero it is inferred from the error's application code.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// WriteError writes a JSON error response. Internal errors never leak their
// message; everything else reports the application error as-is.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	status := p.Code
	if status == 0 {
		status = statusForError(p.Err)
	}
	body := errorBody{Code: p.ErrCode}
	if body.Code == "" {
		body.Code = string(apperrors.GetCode(p.Err))
	}
	if status >= http.StatusInternalServerError || p.Err == nil {
		body.Error = http.StatusText(status)
	} else {
		body.Error = p.Err.Error()
	}
	var appErr *apperrors.AppError
	if errors.As(p.Err, &appErr) {
		body.Field = appErr.Field
	}
	WriteJSON(w, status, body)
}

func statusForError(err error) int {
	switch {
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsConflict(err):
		return http.StatusConflict
	case apperrors.IsValidation(err), apperrors.IsInvalidRole(err):
		return http.StatusBadRequest
	case apperrors.IsCollaboratorUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
