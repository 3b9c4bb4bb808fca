package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fileservice/internal/domain"
	"fileservice/internal/middleware"
)

// RespondURL sends the 200 upload success body.
func RespondURL(c *gin.Context, url string) {
	c.JSON(http.StatusOK, UploadResponse{URL: url})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorResponseBody{Error: msg})
}

// MapDomainError translates domain errors to HTTP status codes and messages.
// Upload failures keep the provider's message verbatim. A body cut off by the
// request size cap counts as too large.
func MapDomainError(err error) (status int, msg string) {
	var (
		uploadErr *domain.UploadError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.Is(err, domain.ErrMissingFile):
		return http.StatusBadRequest, domain.ErrMissingFile.Error()
	case errors.Is(err, domain.ErrFileTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, domain.ErrFileTooLarge.Error()
	case errors.As(err, &uploadErr):
		return http.StatusInternalServerError, uploadErr.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// HandleError maps a domain error, logs it, and sends the error response.
func HandleError(c *gin.Context, log logrus.FieldLogger, err error) {
	status, msg := MapDomainError(err)

	requestID, _ := c.Get(middleware.ContextKeyRequestID)
	entry := log.WithFields(logrus.Fields{
		"request_id": requestID,
		"status":     status,
	}).WithError(err)
	var uploadErr *domain.UploadError
	if errors.As(err, &uploadErr) {
		entry = entry.WithField("key", uploadErr.Key)
	}
	if status >= 500 {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	RespondError(c, status, msg)
}
