package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

const objectPrefix = "products/"

type MinIO struct {
	client *minio.Client
	bucket string
}

func NewMinIO(client *minio.Client, bucket string) *MinIO {
	return &MinIO{client: client, bucket: bucket}
}

func (m *MinIO) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectPrefix+name, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio upload: %w", err)
	}
	return nil
}

func (m *MinIO) Delete(ctx context.Context, name string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, objectPrefix+name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio remove: %w", err)
	}
	return nil
}

func (m *MinIO) List(ctx context.Context) ([]Object, error) {
	var objects []Object
	for info := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: objectPrefix, Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("minio list: %w", info.Err)
		}
		objects = append(objects, Object{
			URL:     URLPrefix + strings.TrimPrefix(info.Key, objectPrefix),
			ModTime: info.LastModified,
		})
	}
	return objects, nil
}

// PresignedURL returns a time-limited GET link to the object.
func (m *MinIO) PresignedURL(ctx context.Context, name string, ttl time.Duration) (*url.URL, error) {
	return m.client.PresignedGetObject(ctx, m.bucket, objectPrefix+name, ttl, url.Values{})
}
