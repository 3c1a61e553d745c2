package handler

import (
	"errors"
	"net/http"

	"gameshelf/backend/internal/platform"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// respondPlatformError maps the import failure taxonomy to HTTP statuses.
// Every platform failure is recovered here and shown to the user; none is
// fatal to the process.
func respondPlatformError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, platform.ErrCredentialsMissing):
		status = http.StatusServiceUnavailable
	case errors.Is(err, platform.ErrIdentityNotFound):
		status = http.StatusNotFound
	case errors.Is(err, platform.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, platform.ErrEmptyLibrary):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, platform.ErrMalformedInput):
		status = http.StatusBadRequest
	case errors.Is(err, platform.ErrRemoteUnavailable):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
