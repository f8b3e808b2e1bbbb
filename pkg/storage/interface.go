package storage

import (
	"context"
	"io"
	"time"
)

// Provider stores certification documents and hands back a stable URL that
// is persisted on the mechanic's record.
type Provider interface {
	Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error)
	Delete(ctx context.Context, key string) error
	FileExists(ctx context.Context, key string) (bool, error)
	GetURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}

type UploadRequest struct {
	Key         string    `json:"key"`
	Reader      io.Reader `json:"-"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
}

type UploadResponse struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	ETag string `json:"etag,omitempty"`
}
