package handler

import (
	"context"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fileservice/internal/domain"
	"fileservice/internal/middleware"
	"fileservice/internal/service"
)

const fileField = "file"

// FileHandler handles the file upload endpoint.
type FileHandler struct {
	uploadService service.UploadService
	log           logrus.FieldLogger
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(uploadService service.UploadService, log logrus.FieldLogger) *FileHandler {
	return &FileHandler{uploadService: uploadService, log: log}
}

// Upload handles POST /files/upload
// @Summary Upload a file
// @Description Store the file in the configured bucket under uploads/<uuid>_<filename> and return its public URL
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 200 {object} UploadResponse "File uploaded"
// @Failure 400 {object} ErrorResponseBody "Missing file field"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Router /files/upload [post]
func (h *FileHandler) Upload(c *gin.Context) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		HandleError(c, h.log, domain.ErrMissingFile)
		return
	}
	part, filename, err := nextFilePart(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			HandleError(c, h.log, domain.ErrFileTooLarge)
			return
		}
		HandleError(c, h.log, domain.ErrMissingFile)
		return
	}
	defer func() { _ = part.Close() }()

	// The size is unknown until the part is read; the service enforces the ceiling.
	input := service.FileUploadInput{
		Filename:    filename,
		Body:        part,
		ContentType: part.Header.Get("Content-Type"),
	}

	// A client hanging up must not abort a write already in flight.
	ctx := context.WithoutCancel(c.Request.Context())

	obj, err := h.uploadService.Upload(ctx, input)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	requestID, _ := c.Get(middleware.ContextKeyRequestID)
	h.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"key":        obj.Key,
		"size":       obj.Size,
	}).Info("file uploaded")

	RespondURL(c, obj.URL)
}

// nextFilePart advances to the first "file" part that carries a filename
// parameter. An empty filename still counts; a part without the parameter
// is a plain form value and is skipped. The filename is returned exactly as
// sent, directories included.
func nextFilePart(reader *multipart.Reader) (*multipart.Part, string, error) {
	for {
		part, err := reader.NextPart()
		if err != nil {
			return nil, "", err
		}
		if part.FormName() != fileField {
			continue
		}
		_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
		if err != nil {
			continue
		}
		if filename, ok := params["filename"]; ok {
			return part, filename, nil
		}
	}
}
