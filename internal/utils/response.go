package utils

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status    string      `json:"status"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Meta      *Meta       `json:"meta,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type Meta struct {
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Total      int64           `json:"total,omitempty"`
	Count      int             `json:"count,omitempty"`
}

func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func SuccessResponseWithMeta(c *gin.Context, message string, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Meta:      meta,
		Timestamp: time.Now(),
	})
}

func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, APIResponse{
		Status: StatusError,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now(),
	})
}

func ErrorResponseWithDetails(c *gin.Context, statusCode int, code, message string, details map[string]string) {
	c.JSON(statusCode, APIResponse{
		Status: StatusError,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now(),
	})
}

func ValidationErrorResponse(c *gin.Context, details map[string]string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", ErrValidationFailed, details)
}

func InternalServerErrorResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", ErrInternalServer)
}

func UnauthorizedResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", ErrUnauthorized)
}

func ForbiddenResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", ErrForbidden)
}

func NotFoundResponse(c *gin.Context, resource string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", resource+" not found")
}

func ConflictResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, "CONFLICT", message)
}

func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// RespondError maps the service error taxonomy onto HTTP responses.
// Unrecognized errors surface as an opaque 500; the caller is expected to
// have logged the original.
func RespondError(c *gin.Context, err error) {
	var (
		validationErr  *ValidationError
		authErr        *AuthError
		forbiddenErr   *ForbiddenError
		selfActionErr  *SelfActionError
		clearanceErr   *InsufficientClearanceError
		notFoundErr    *NotFoundError
		duplicateErr   *DuplicateError
	)

	switch {
	case errors.As(err, &validationErr):
		ValidationErrorResponse(c, validationErr.Fields)
	case errors.As(err, &authErr):
		ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", authErr.Message)
	case errors.As(err, &selfActionErr):
		ErrorResponse(c, http.StatusForbidden, "SELF_ACTION", selfActionErr.Error())
	case errors.As(err, &clearanceErr):
		ErrorResponse(c, http.StatusForbidden, "INSUFFICIENT_CLEARANCE", clearanceErr.Error())
	case errors.As(err, &forbiddenErr):
		ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", forbiddenErr.Message)
	case errors.As(err, &notFoundErr):
		ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", notFoundErr.Error())
	case errors.As(err, &duplicateErr):
		ErrorResponse(c, http.StatusConflict, "CONFLICT", duplicateErr.Message)
	default:
		InternalServerErrorResponse(c)
	}
}
