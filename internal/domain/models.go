package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ObjectKeyPrefix is the directory every uploaded object is written under.
const ObjectKeyPrefix = "uploads/"

// StoredObject describes an object written to the bucket by a single upload.
type StoredObject struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Bucket      string `json:"bucket"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	ETag        string `json:"etag,omitempty"`
}

// NewObjectKey builds the storage key for an upload. The filename is used
// verbatim, so an empty name still yields the trailing "_" separator.
func NewObjectKey(id uuid.UUID, filename string) string {
	return ObjectKeyPrefix + id.String() + "_" + filename
}

// ObjectURL returns the public URL of key. With an empty publicBase the
// virtual-hosted AWS form https://<bucket>.s3.<region>.amazonaws.com/<key> is used.
func ObjectURL(publicBase, bucket, region, key string) string {
	if publicBase != "" {
		return strings.TrimRight(publicBase, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
