package cleanup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"

	"boutique/internal/models"
	"boutique/internal/storage"
	"boutique/internal/store"
)

func TestSweepRemovesOnlyOldOrphans(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	disk, err := storage.NewDisk(dir)
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	mem := store.NewMemory()

	for _, name := range []string{"kept.png", "orphan.png", "fresh.png"} {
		if err := disk.Save(ctx, name, bytes.NewReader([]byte("img")), 3, "image/png"); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}
	old := time.Now().Add(-time.Hour)
	for _, name := range []string{"kept.png", "orphan.png"} {
		if err := os.Chtimes(filepath.Join(dir, name), old, old); err != nil {
			t.Fatalf("Chtimes: %v", err)
		}
	}

	p := models.Product{
		Title:    "Kept",
		Price:    decimal.NewFromInt(1),
		ImageURL: storage.URLPrefix + "kept.png",
		UserID:   gocql.TimeUUID(),
	}
	if err := mem.CreateProduct(ctx, &p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	s := NewSweeper(mem, disk, 10*time.Minute)
	removed, err := s.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}

	for name, want := range map[string]bool{"kept.png": true, "orphan.png": false, "fresh.png": true} {
		_, err := os.Stat(filepath.Join(dir, name))
		if exists := err == nil; exists != want {
			t.Fatalf("%s: exists=%v, want %v", name, exists, want)
		}
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewSweeper(store.NewMemory(), nil, 0)
	if _, err := Start("every minute please", s); err == nil {
		t.Fatal("expected an error for a malformed schedule")
	}
}

func TestStartAndStop(t *testing.T) {
	disk, _ := storage.NewDisk(t.TempDir())
	c, err := Start(DefaultSchedule, NewSweeper(store.NewMemory(), disk, 0))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(c.Entries()) != 1 {
		t.Fatalf("expected one scheduled job, got %d", len(c.Entries()))
	}
	<-c.Stop().Done()
}
