package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody is the machine-readable error block returned to clients.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse defines the structure of error responses.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorHandler is a middleware that catches panics and returns a sanitized
// structured error. Stack traces never reach the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger := GetLogger()
				logger.Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("correlationId", c.GetString("correlationId")),
				)
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Error: ErrorBody{
						Code:    "upstream",
						Message: "An unexpected error occurred. Please try again later.",
					},
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response and logs it with the
// request's correlation id.
func JSONError(c *gin.Context, status int, code, message string) {
	logger := GetLogger()
	logger.Warn(message,
		zap.String("code", code),
		zap.Int("status", status),
		zap.String("correlationId", c.GetString("correlationId")),
	)
	c.JSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}
