package handlers

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"petnest_backend/internal/storage"
	"petnest_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// Uploader stores multipart files under the configured limits and returns
// their public URLs.
type Uploader struct {
	store   storage.Storage
	maxSize int64
	allowed map[string]bool
}

func NewUploader(store storage.Storage, maxSize int64, allowedExts []string) *Uploader {
	allowed := make(map[string]bool, len(allowedExts))
	for _, ext := range allowedExts {
		allowed[strings.ToLower(ext)] = true
	}
	return &Uploader{store: store, maxSize: maxSize, allowed: allowed}
}

// Save stores one multipart file under dir and returns its public URL.
func (u *Uploader) Save(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	if fh.Size > u.maxSize {
		return "", apperrors.New(apperrors.CodeLimitExceeded, "upload",
			fmt.Sprintf("File exceeds the %dMB limit", u.maxSize>>20), 400)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !u.allowed[ext] {
		return "", apperrors.NewBadRequestError("Unsupported file type: " + ext)
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer src.Close()

	path := dir + "/" + uuid.NewString() + ext
	if err := u.store.Save(ctx, path, src); err != nil {
		return "", apperrors.InternalError(err)
	}
	return u.store.URL(path), nil
}

// firstFile returns the first file found under any of the given form field
// names. Clients disagree on the field name, so both spellings are accepted.
func firstFile(form *multipart.Form, names ...string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	for _, name := range names {
		if files := form.File[name]; len(files) > 0 {
			return files[0]
		}
	}
	return nil
}
