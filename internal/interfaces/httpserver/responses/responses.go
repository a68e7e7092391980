package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/image-storage-api/utils/platformerrors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Error aborts with status and the standard failure body.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: message})
}

// HandleError maps a platform error to its HTTP status. Client-facing
// errors keep their own message; server faults answer with fallback so
// driver details stay in the logs.
func HandleError(c *gin.Context, err error, fallback string) {
	var platformErr *platformerrors.PlatformError
	if !errors.As(err, &platformErr) {
		Error(c, http.StatusInternalServerError, fallback)
		return
	}

	status := platformerrors.ErrorTypeToHTTPStatus(platformErr.GetErrorType())
	message := platformErr.Message
	if status >= http.StatusInternalServerError || message == "" {
		message = fallback
	}
	Error(c, status, message)
}
