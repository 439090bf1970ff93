package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecocart/backend/internal/domain"
)

// ErrorResponse is the body of every non-barcode error
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondUploadError maps readUpload failures for the {error} style endpoints
func respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNoFileProvided), errors.Is(err, errNoFileSelected):
		respondError(c, http.StatusBadRequest, "No file uploaded")
	case errors.Is(err, errFileTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

func barcodeMessage(message string) domain.BarcodeLookupResult {
	return domain.BarcodeLookupResult{Message: &message}
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrClassifierUnavailable), errors.Is(err, domain.ErrOCRUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrUpstreamUnreachable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
