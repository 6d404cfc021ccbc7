package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/types"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Field  string `json:"field,omitempty"`
}

// HTTPStatus maps an engine error to its status code.
func HTTPStatus(err error) int {
	var (
		ie *types.InputError
		ve validator.ValidationErrors
		me *types.MalformedResponseError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ie), errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &me):
		return http.StatusBadGateway
	case errors.Is(err, types.ErrBackendUnavailable), errors.Is(err, types.ErrExtractorUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError renders err with the status HTTPStatus assigns to it.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	body := errorBody{Detail: err.Error()}

	switch status {
	case http.StatusBadRequest:
		body.Error = "invalid request"
		var ie *types.InputError
		if errors.As(err, &ie) {
			body.Field = ie.Field
		}
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			body.Detail = extractValidationErrors(ve)
		}
	case http.StatusServiceUnavailable:
		body.Error = "service unavailable"
	case http.StatusBadGateway:
		body.Error = "bad gateway"
	default:
		body.Error = "internal error"
		body.Detail = ""
	}

	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
		requestIDField(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", fields...)
	} else {
		s.log.Info("request rejected", fields...)
	}

	s.jsonResponse(w, status, body)
}

// extractValidationErrors formats validation errors into a readable string
func extractValidationErrors(errs validator.ValidationErrors) string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("%s - %s", e.Namespace(), e.Tag()))
	}
	return "validation error: " + strings.Join(messages, "; ")
}
