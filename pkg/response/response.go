// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/prosante-admin/internal/pagination"
	"github.com/maxviazov/prosante-admin/internal/repository"
	"github.com/maxviazov/prosante-admin/internal/service"
	"github.com/maxviazov/prosante-admin/internal/shopify"
)

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Extend here as new domain error categories emerge.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	var ue shopify.UserErrors
	if errors.As(err, &ue) {
		return http.StatusUnprocessableEntity, ErrorPayload{
			Error:       "rejected_by_shopify",
			Message:     ue.Error(),
			FieldErrors: userFieldErrors(ue),
		}
	}

	switch {
	case errors.Is(err, pagination.ErrInvalidRange):
		return http.StatusBadRequest, ErrorPayload{Error: "invalid_range", Message: err.Error()}
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, shopify.ErrAccessDenied):
		return http.StatusUnauthorized, ErrorPayload{Error: "unauthorized"}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found"}
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict, ErrorPayload{Error: "already_exists"}
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, ErrorPayload{Error: "conflict"}
	case errors.Is(err, service.ErrCodeInUse):
		return http.StatusConflict, ErrorPayload{Error: "code_in_use", Message: err.Error()}
	case errors.Is(err, service.ErrDefinitionMissing):
		return http.StatusConflict, ErrorPayload{Error: "definition_missing", Message: "create the pro metaobject definition first"}
	case errors.Is(err, shopify.ErrUpstream):
		return http.StatusBadGateway, ErrorPayload{Error: "upstream_error"}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

func userFieldErrors(ue shopify.UserErrors) []service.FieldError {
	out := make([]service.FieldError, 0, len(ue))
	for _, e := range ue {
		out = append(out, service.FieldError{Field: strings.Join(e.Field, "."), Message: e.Message})
	}
	return out
}

// WriteError writes an error response and aborts the context.
// 5xx causes are attached to the context so the access log can report them.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
