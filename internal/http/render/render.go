// Package render writes JSON responses and maps domain errors onto the
// HTTP error contract: a kind, an i18n key, a localized message and, for
// validation failures, the offending field.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nexocrm/nexo/internal/apperr"
	"github.com/nexocrm/nexo/internal/http/middleware"
	"github.com/nexocrm/nexo/internal/i18n"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Key     string `json:"key"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error translates a domain error into the response contract. Anything
// outside the typed taxonomy is a 500 with no internal detail exposed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	tag := middleware.LocaleTag(r.Context())

	if ve, ok := apperr.IsValidation(err); ok {
		JSON(w, http.StatusUnprocessableEntity, errorBody{Error: errorDetail{
			Kind:    "validation",
			Key:     ve.Key,
			Message: i18n.Message(tag, ve.Key),
			Field:   ve.Field,
		}})

		return
	}

	if errors.Is(err, apperr.ErrNotFound) {
		JSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
			Kind:    "not_found",
			Key:     "common.not_found",
			Message: i18n.Message(tag, "common.not_found"),
		}})

		return
	}

	if errors.Is(err, apperr.ErrConflict) {
		JSON(w, http.StatusConflict, errorBody{Error: errorDetail{
			Kind:    "conflict",
			Key:     "contact.duplicate",
			Message: i18n.Message(tag, "contact.duplicate"),
		}})

		return
	}

	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)

	JSON(w, http.StatusInternalServerError, errorBody{Error: errorDetail{
		Kind:    "internal",
		Key:     "common.internal",
		Message: i18n.Message(tag, "common.internal"),
	}})
}

// NotFoundKeyed renders a not-found with a resource-specific message key.
func NotFoundKeyed(w http.ResponseWriter, r *http.Request, key string) {
	tag := middleware.LocaleTag(r.Context())

	JSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
		Kind:    "not_found",
		Key:     key,
		Message: i18n.Message(tag, key),
	}})
}

// BadRequest renders a 400 with the common malformed-request key.
func BadRequest(w http.ResponseWriter, r *http.Request, key string) {
	tag := middleware.LocaleTag(r.Context())

	JSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
		Kind:    "bad_request",
		Key:     key,
		Message: i18n.Message(tag, key),
	}})
}
