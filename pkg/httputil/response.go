package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telemeet/telemed-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a 201 response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response mapped from the error code.
// Internal errors never leak their cause to the caller.
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := errors.AsAppError(err); ok {
		status = statusFor(appErr.Code)
		message = appErr.Message
	}
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	c.Error(err)
	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Code:    status,
			Message: message,
		},
	})
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.CodeValidation:
		return http.StatusBadRequest
	case errors.CodeUnauthorized:
		return http.StatusUnauthorized
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeDuplicate, errors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
