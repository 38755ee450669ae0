// Package cleanup removes uploaded images that no product refers to.
package cleanup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"boutique/internal/storage"
	"boutique/internal/store"
)

const (
	DefaultSchedule = "0 * * * * *"
	DefaultGrace    = 10 * time.Minute
)

// Sweeper deletes orphaned uploads older than Grace. Younger files may belong to a product
// that is still being created.
type Sweeper struct {
	products store.ProductStore
	images   storage.ImageStore
	grace    time.Duration
	now      func() time.Time
}

func NewSweeper(products store.ProductStore, images storage.ImageStore, grace time.Duration) *Sweeper {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Sweeper{products: products, images: images, grace: grace, now: time.Now}
}

// Sweep runs one pass and returns how many files were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	objects, err := s.images.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list uploads: %w", err)
	}
	if len(objects) == 0 {
		return 0, nil
	}

	urls, err := s.products.ImageURLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list product images: %w", err)
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		referenced[u] = struct{}{}
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.URL]; ok {
			continue
		}
		if !obj.ModTime.Before(cutoff) {
			continue
		}
		if err := storage.DeleteURL(ctx, s.images, obj.URL); err != nil {
			log.Printf("❌ Failed to remove unsubmitted upload %s: %v", obj.URL, err)
			continue
		}
		log.Printf("🧹 Removed unsubmitted upload %s", obj.URL)
		removed++
	}
	return removed, nil
}

// Start schedules Sweep on schedule (six fields, seconds first). A run still in progress when the
// next one is due makes that next one skip.
func Start(schedule string, s *Sweeper) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			log.Printf("❌ Upload cleanup failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("cleanup schedule %q: %w", schedule, err)
	}
	c.Start()
	log.Printf("🧹 Upload cleanup scheduled (%s, grace %s)", schedule, s.grace)
	return c, nil
}
