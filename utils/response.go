package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StandardResponse represents the standard API response structure
type StandardResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorData is the payload of an error response
type ErrorData struct {
	Kind    string      `json:"kind"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Success sends a standardized success response
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Created sends a standardized created response (201)
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response
func Error(c *gin.Context, statusCode int, kind, message string, err error) {
	data := ErrorData{Kind: kind}
	if err != nil {
		data.Error = err.Error()
	}
	c.AbortWithStatusJSON(statusCode, StandardResponse{
		Status:  "error",
		Message: message,
		Data:    data,
	})
}

// RespondError converts any error into a structured error response.
// Errors that are not AppErrors are reported as internal failures without
// leaking their text.
func RespondError(c *gin.Context, err error) {
	appErr := GetAppError(err)
	if appErr == nil {
		LogError("Unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		Error(c, http.StatusInternalServerError, KindInternal, "Internal server error", nil)
		return
	}
	if appErr.Code >= http.StatusInternalServerError {
		LogError("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, appErr)
	}
	data := ErrorData{Kind: appErr.Kind, Details: appErr.Details}
	if appErr.Err != nil && appErr.Code < http.StatusInternalServerError {
		data.Error = appErr.Err.Error()
	}
	c.AbortWithStatusJSON(appErr.Code, StandardResponse{
		Status:  "error",
		Message: appErr.Message,
		Data:    data,
	})
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, KindInvalidInput, message, err)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, KindUnauthorized, message, nil)
}

// ValidationError sends a 422 Unprocessable Entity response
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusUnprocessableEntity, KindInvalidInput, message, err)
}
