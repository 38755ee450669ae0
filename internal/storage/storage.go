// Package storage keeps uploaded product images, on local disk or in a MinIO bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// URLPrefix is the public path every stored image URL starts with.
const URLPrefix = "/images/"

var (
	ErrNotImage   = errors.New("attached file is not an image")
	ErrInvalidURL = errors.New("invalid image url")
)

var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// Object is a stored upload as seen by the cleanup sweep.
type Object struct {
	URL     string
	ModTime time.Time
}

type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]Object, error)
}

// SaveUpload validates fh as a png/jpeg image and stores it under a fresh name.
// It returns the public URL to keep on the product.
func SaveUpload(ctx context.Context, store ImageStore, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNotImage
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("detect upload type: %w", err)
	}
	contentType := mtype.String()
	defaultExt, ok := allowedTypes[contentType]
	if !ok {
		return "", ErrNotImage
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		ext = defaultExt
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString()[:8], ext)

	if err := store.Save(ctx, name, f, fh.Size, contentType); err != nil {
		return "", err
	}
	return URLPrefix + name, nil
}

// DeleteURL removes the object behind a URL returned by SaveUpload.
func DeleteURL(ctx context.Context, store ImageStore, url string) error {
	name, err := NameFromURL(url)
	if err != nil {
		return err
	}
	return store.Delete(ctx, name)
}

// NameFromURL extracts the object name, rejecting anything that would escape the image root.
func NameFromURL(url string) (string, error) {
	if !strings.HasPrefix(url, URLPrefix) {
		return "", ErrInvalidURL
	}
	name := strings.TrimPrefix(url, URLPrefix)
	if name == "" || path.Base(name) != name || name == "." || name == ".." {
		return "", ErrInvalidURL
	}
	return name, nil
}
