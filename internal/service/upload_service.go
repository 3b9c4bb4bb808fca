package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fileservice/internal/config"
	"fileservice/internal/domain"
	"fileservice/internal/port"
)

// FileUploadInput is the DTO for a single inbound file.
type FileUploadInput struct {
	Filename    string
	Body        io.Reader
	Size        int64
	ContentType string
}

// UploadService defines the upload contract.
type UploadService interface {
	Upload(ctx context.Context, input FileUploadInput) (*domain.StoredObject, error)
}

type uploadService struct {
	storage port.ObjectStorage
	cfg     *config.StorageConfig
	log     logrus.FieldLogger
}

// NewUploadService creates a new UploadService implementation.
func NewUploadService(storage port.ObjectStorage, cfg *config.StorageConfig, log logrus.FieldLogger) UploadService {
	return &uploadService{
		storage: storage,
		cfg:     cfg,
		log:     log,
	}
}

// Upload writes the file under a fresh uploads/<uuid>_<filename> key and
// returns its public URL. Failures reading the body or writing to storage
// come back as *domain.UploadError; nothing is retried.
func (s *uploadService) Upload(ctx context.Context, input FileUploadInput) (*domain.StoredObject, error) {
	maxBytes := s.cfg.MaxFileSizeBytes()
	if maxBytes > 0 && input.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generating object id: %w", err)
	}
	key := domain.NewObjectKey(id, input.Filename)

	body := input.Body
	if maxBytes > 0 {
		body = io.LimitReader(body, maxBytes+1)
	}
	content, err := io.ReadAll(body)
	if err != nil {
		return nil, &domain.UploadError{Key: key, Err: err}
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	s.log.WithFields(logrus.Fields{
		"bucket": s.cfg.Bucket,
		"key":    key,
		"size":   len(content),
	}).Debug("uploadService.Upload: putting object")

	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(content),
		ContentType: contentType,
		Size:        int64(len(content)),
	})
	if err != nil {
		return nil, &domain.UploadError{Key: key, Err: err}
	}

	return &domain.StoredObject{
		Key:         key,
		URL:         domain.ObjectURL(s.cfg.PublicBaseURL, s.cfg.Bucket, s.cfg.Region, key),
		Bucket:      s.cfg.Bucket,
		Size:        int64(len(content)),
		ContentType: contentType,
		ETag:        out.ETag,
	}, nil
}
