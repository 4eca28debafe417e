// Package response writes the API's JSON envelopes.
//
// Successful bodies are {"data": ...}; failures are {"error": {...}} with a
// machine-readable code and, for rejected contacts, every failing field.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contactsapi/src/core/domain"
)

// Error codes carried in ErrorDetail.Code.
const (
	CodeBadRequest  = "BAD_REQUEST"
	CodeValidation  = "VALIDATION_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeConflict    = "CONFLICT"
	CodePersistence = "PERSISTENCE_ERROR"
	CodeInternal    = "INTERNAL_ERROR"
)

// Success wraps a successful payload.
type Success struct {
	Data any `json:"data"`
}

// Error wraps a failure.
type Error struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Field is set for single-field failures.
	Field string `json:"field,omitempty"`

	// Details lists every (field, message) pair of a rejected contact, in
	// validation order.
	Details []domain.ValidationFailure `json:"details,omitempty"`

	RequestID string `json:"request_id,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Success{Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Success{Data: data})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func fail(c *gin.Context, status int, detail ErrorDetail) {
	c.JSON(status, Error{Error: detail})
}

func BadRequest(c *gin.Context, message, requestID string) {
	fail(c, http.StatusBadRequest, ErrorDetail{Code: CodeBadRequest, Message: message, RequestID: requestID})
}

// ValidationError reports a single failing field.
func ValidationError(c *gin.Context, field, message, requestID string) {
	fail(c, http.StatusBadRequest, ErrorDetail{
		Code:      CodeValidation,
		Message:   message,
		Field:     field,
		RequestID: requestID,
	})
}

// ValidationFailed reports every failing field of a rejected contact.
func ValidationFailed(c *gin.Context, failures []domain.ValidationFailure, requestID string) {
	fail(c, http.StatusBadRequest, ErrorDetail{
		Code:      CodeValidation,
		Message:   "One or more fields are invalid",
		Details:   failures,
		RequestID: requestID,
	})
}

func NotFound(c *gin.Context, message, requestID string) {
	fail(c, http.StatusNotFound, ErrorDetail{Code: CodeNotFound, Message: message, RequestID: requestID})
}

func Conflict(c *gin.Context, message, requestID string) {
	fail(c, http.StatusConflict, ErrorDetail{Code: CodeConflict, Message: message, RequestID: requestID})
}

// PersistenceError hides the store's error from the client.
func PersistenceError(c *gin.Context, requestID string) {
	fail(c, http.StatusInternalServerError, ErrorDetail{
		Code:      CodePersistence,
		Message:   "The operation could not be saved",
		RequestID: requestID,
	})
}

func InternalError(c *gin.Context, requestID string) {
	fail(c, http.StatusInternalServerError, ErrorDetail{
		Code:      CodeInternal,
		Message:   "An unexpected error occurred",
		RequestID: requestID,
	})
}

// FromDomainError maps a service error onto a response. The error is also
// attached to the gin context so the request log carries it.
//
// Conflicts are checked before persistence failures: a commit that lost a
// race is both, and the client can act on a 409.
func FromDomainError(c *gin.Context, err error, requestID string) {
	_ = c.Error(err)

	var failed *domain.ValidationFailedError
	var domainErr *domain.DomainError
	switch {
	case errors.As(err, &failed):
		ValidationFailed(c, failed.Failures, requestID)
	case domain.IsValidationError(err) && errors.As(err, &domainErr):
		ValidationError(c, domainErr.Field, domainErr.Message, requestID)
	case domain.IsNotFound(err):
		NotFound(c, err.Error(), requestID)
	case domain.IsConflict(err):
		Conflict(c, conflictMessage(err), requestID)
	case domain.IsPersistence(err):
		PersistenceError(c, requestID)
	default:
		InternalError(c, requestID)
	}
}

// conflictMessage prefers the store's explanation of the conflict.
func conflictMessage(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) && errors.Is(domainErr.Base, domain.ErrConflict) && domainErr.Message != "" {
		return domainErr.Message
	}
	return "The contact was changed or removed by another request"
}
