package port

import (
	"context"
	"time"
)

// ScanObject is one bill image to archive.
type ScanObject struct {
	Key         string
	Data        []byte
	ContentType string
}

// ScanArchive stores original bill images outside the database.
type ScanArchive interface {
	Put(ctx context.Context, obj ScanObject) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
