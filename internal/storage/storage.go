package storage

import (
	"context"
	"io"
)

// Storage persists uploaded files and exposes their public URLs.
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader) error
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

type Config struct {
	BasePath string // filesystem root
	BaseURL  string // public URL prefix
}
