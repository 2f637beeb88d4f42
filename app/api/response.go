package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes carried in ErrorInfo.Code. Clients switch on these, not on the message.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeBadRequest = "BAD_REQUEST"
	CodeNotFound   = "NOT_FOUND"
	CodeAuth       = "UNAUTHORIZED"
	CodeForbidden  = "FORBIDDEN"
	CodeConflict   = "CONFLICT"
	CodeInternal   = "INTERNAL_ERROR"
)

// Response is the envelope of every catalog endpoint. Exactly one of Data and Error is set,
// unless a success carries no payload.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo describes why a request failed. Details holds the offending field for validation errors.
type ErrorInfo struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ListMeta counts the top-level items of a list. For a tree that is the number of roots.
type ListMeta struct {
	Count int `json:"count"`
}

// SuccessResponse writes data under status.
func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// ListResponse writes a list or forest with its top-level count in meta.
func ListResponse(c *gin.Context, message string, data interface{}, count int) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    ListMeta{Count: count},
	})
}

// CreatedResponse answers a successful insert with 201.
func CreatedResponse(c *gin.Context, message string, data interface{}) {
	SuccessResponse(c, http.StatusCreated, message, data)
}

// UpdatedResponse answers a successful update with the new representation.
func UpdatedResponse(c *gin.Context, message string, data interface{}) {
	SuccessResponse(c, http.StatusOK, message, data)
}

// DeletedResponse answers a delete. There is nothing left to return.
func DeletedResponse(c *gin.Context, message string) {
	SuccessResponse(c, http.StatusOK, message, nil)
}

func fail(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, Response{Error: &ErrorInfo{Code: code, Message: message, Details: details}})
}

// ValidationErrorResponse reports a body that parsed but broke a field rule.
func ValidationErrorResponse(c *gin.Context, details interface{}) {
	fail(c, http.StatusBadRequest, CodeValidation, "Invalid request data", details)
}

// BadRequestResponse reports a body or path parameter that could not be parsed.
func BadRequestResponse(c *gin.Context, details interface{}) {
	fail(c, http.StatusBadRequest, CodeBadRequest, "Invalid request data", details)
}

// NotFoundResponse reports a missing resource, e.g. "Category 7".
func NotFoundResponse(c *gin.Context, resource string) {
	fail(c, http.StatusNotFound, CodeNotFound, resource+" not found", nil)
}

func UnauthorizedResponse(c *gin.Context) {
	fail(c, http.StatusUnauthorized, CodeAuth, "Unauthorized access", nil)
}

// ForbiddenResponse reports a valid token that lacks the route's scope.
func ForbiddenResponse(c *gin.Context, message string) {
	fail(c, http.StatusForbidden, CodeForbidden, message, nil)
}

// ConflictResponse reports a write refused by the current tree, such as deleting a parent.
func ConflictResponse(c *gin.Context, message string) {
	fail(c, http.StatusConflict, CodeConflict, message, nil)
}

// InternalErrorResponse hides the cause; the handler logs it.
func InternalErrorResponse(c *gin.Context, message string) {
	fail(c, http.StatusInternalServerError, CodeInternal, message, nil)
}
