// Package storage selects the object storage backend named in configuration.
package storage

import (
	"fmt"

	"fileservice/internal/config"
	"fileservice/internal/port"
	miniostorage "fileservice/internal/storage/minio"
	s3storage "fileservice/internal/storage/s3"
)

// New returns the ObjectStorage implementation for cfg.Provider.
func New(cfg *config.StorageConfig) (port.ObjectStorage, error) {
	switch cfg.Provider {
	case config.ProviderS3, "":
		return s3storage.NewS3Client(cfg)
	case config.ProviderMinio:
		return miniostorage.NewMinioClient(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
