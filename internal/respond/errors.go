// Error taxonomy and the terminal error-to-response mapping.
//
// ApiError is the only error application code constructs intentionally; it
// carries an HTTP status and a user-facing message. Everything else reaching
// the terminal mapping is classified: binding/validation failures become 400
// with one {field, message} entry per violation, uniqueness violations become
// 409 naming the offending field, and anything unanticipated becomes 500 with
// diagnostic detail attached only in development mode.
package respond

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ApiError is a failure with an HTTP status and a message safe to show users.
type ApiError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *ApiError) Error() string { return e.Message }

// NewApiError constructs an ApiError with the given status and message.
func NewApiError(status int, message string) *ApiError {
	return &ApiError{StatusCode: status, Message: message}
}

// BadRequest returns a 400 ApiError.
func BadRequest(message string) *ApiError { return NewApiError(http.StatusBadRequest, message) }

// Unauthorized returns a 401 ApiError.
func Unauthorized(message string) *ApiError { return NewApiError(http.StatusUnauthorized, message) }

// Forbidden returns a 403 ApiError.
func Forbidden(message string) *ApiError { return NewApiError(http.StatusForbidden, message) }

// NotFound returns a 404 ApiError.
func NotFound(message string) *ApiError { return NewApiError(http.StatusNotFound, message) }

// Conflict returns a 409 ApiError.
func Conflict(message string) *ApiError { return NewApiError(http.StatusConflict, message) }

// FieldError names a single field-level validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// WriteError is the terminal mapping from any error to an ERROR envelope.
// It runs exactly once per failed request, at the outermost layer.
//
// Classification order:
//  1. *ApiError               → its status and message, as-is
//  2. validator violations    → 400 with per-field entries in meta.errors
//  3. uniqueness violation    → 409 naming the duplicated field
//  4. anything else           → 500; raw detail only when dev is true
func WriteError(c *gin.Context, err error, dev bool) {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		Error(c, apiErr.StatusCode, apiErr.Message, nil)
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Message: "failed on the '" + fe.Tag() + "' rule",
			})
		}
		Error(c, http.StatusBadRequest, "Validation Error", Meta{"errors": fields})
		return
	}

	if field, ok := duplicateField(err); ok {
		Error(c, http.StatusConflict, "Duplicate value for "+field, Meta{"field": field})
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
	var extra Meta
	if dev {
		extra = Meta{"error": err.Error()}
	}
	Error(c, http.StatusInternalServerError, "Internal Server Error", extra)
}

// duplicateField extracts the violated column from a unique-constraint error.
// SQLite reports these as "UNIQUE constraint failed: <table>.<column>".
func duplicateField(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()
	if !errors.Is(err, gorm.ErrDuplicatedKey) && !strings.Contains(msg, "UNIQUE constraint failed") {
		return "", false
	}
	if i := strings.Index(msg, "UNIQUE constraint failed:"); i >= 0 {
		rest := strings.TrimSpace(msg[i+len("UNIQUE constraint failed:"):])
		rest = strings.TrimSuffix(strings.Fields(rest+" ")[0], ",")
		if j := strings.LastIndex(rest, "."); j >= 0 && j < len(rest)-1 {
			return rest[j+1:], true
		}
		if rest != "" {
			return rest, true
		}
	}
	return "field", true
}
