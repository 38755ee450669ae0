package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Disk stores images as files in one directory, served statically under URLPrefix.
type Disk struct {
	Dir string
}

func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &Disk{Dir: dir}, nil
}

func (d *Disk) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	out, err := os.Create(filepath.Join(d.Dir, name))
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("write image file: %w", err)
	}
	return out.Sync()
}

func (d *Disk) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(d.Dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}

func (d *Disk) List(context.Context) ([]Object, error) {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}

	objects := make([]Object, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		objects = append(objects, Object{URL: URLPrefix + entry.Name(), ModTime: info.ModTime()})
	}
	return objects, nil
}
