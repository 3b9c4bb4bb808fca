package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"fileservice/internal/config"
	"fileservice/internal/domain"
	"fileservice/internal/port"
)

type minioClient struct {
	client *minio.Client
}

// NewMinioClient creates an ObjectStorage backed by any S3-compatible server
// (MinIO, ArvanCloud, R2). The endpoint may carry an http:// or https://
// scheme, which then overrides storage.use_ssl.
func NewMinioClient(cfg *config.StorageConfig) (port.ObjectStorage, error) {
	host, secure, err := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	// A fixed region skips the bucket location lookup on first use.
	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &minioClient{client: client}, nil
}

func (c *minioClient) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	info, err := c.client.PutObject(ctx, input.Bucket, input.Key, input.Body, input.Size, minio.PutObjectOptions{
		ContentType:      input.ContentType,
		DisableMultipart: true,
	})
	if err != nil {
		return nil, err
	}
	return &port.UploadOutput{ETag: info.ETag}, nil
}

func (c *minioClient) Ping(ctx context.Context, bucket string) error {
	exists, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %q", domain.ErrBucketAbsent, bucket)
	}
	return nil
}

func splitEndpoint(endpoint string, useSSL bool) (host string, secure bool, err error) {
	if !strings.Contains(endpoint, "://") {
		return strings.TrimRight(endpoint, "/"), useSSL, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse storage endpoint: %w", err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("parse storage endpoint: no host in %q", endpoint)
	}
	return u.Host, u.Scheme == "https", nil
}
