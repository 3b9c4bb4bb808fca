package domain

import "errors"

var (
	ErrMissingFile  = errors.New("file field is required")
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	ErrBucketAbsent = errors.New("bucket does not exist")
)

// UploadError reports a failed write to object storage. Error returns the
// underlying provider or I/O message unchanged.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return "upload failed"
	}
	return e.Err.Error()
}

func (e *UploadError) Unwrap() error { return e.Err }
