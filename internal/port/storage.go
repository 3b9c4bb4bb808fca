package port

import (
	"context"
	"io"
)

// UploadInput encapsulates the parameters needed to upload an object.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	ETag string
}

// ObjectStorage abstracts cloud object storage operations.
// Implementations must be safe for concurrent use.
type ObjectStorage interface {
	// Upload writes the whole body in a single put. It either fully succeeds
	// or fully fails.
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	// Ping checks that bucket exists and is reachable with the configured credentials.
	Ping(ctx context.Context, bucket string) error
}
