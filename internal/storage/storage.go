package storage

import (
	"context"
	"fmt"
	"time"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations the feed
// archive needs.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	UploadObject(ctx context.Context, key string, data []byte) error
}

// ArchiveKey names a raw feed payload by fetch time, so successive refreshes
// never overwrite each other.
func ArchiveKey(feed string, at time.Time) string {
	return fmt.Sprintf("feeds/%s/%s.json", feed, at.UTC().Format("20060102T150405Z"))
}
