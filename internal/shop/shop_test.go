package shop

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"

	"boutique/internal/events"
	"boutique/internal/models"
	"boutique/internal/storage"
	"boutique/internal/store"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

type recorder struct {
	mu     sync.Mutex
	carts  []string
	orders []events.OrderCreated
}

func (r *recorder) CartChanged(_ context.Context, _ gocql.UUID, change string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts = append(r.carts, change)
	return nil
}

func (r *recorder) OrderCreated(_ context.Context, e events.OrderCreated) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, e)
	return nil
}

type fixture struct {
	svc    *Service
	mem    *store.Memory
	disk   *storage.Disk
	events *recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	disk, err := storage.NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	mem := store.NewMemory()
	rec := &recorder{}
	return fixture{
		svc:    New(mem.Stores(), disk, nil, rec, rec),
		mem:    mem,
		disk:   disk,
		events: rec,
	}
}

func (f fixture) user(t *testing.T, email string) models.User {
	t.Helper()
	u := models.User{Email: email, Provider: models.ProviderLocal}
	if err := f.mem.CreateUser(context.Background(), &u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func (f fixture) product(t *testing.T, owner gocql.UUID, title string, price int64) models.Product {
	t.Helper()
	p := models.Product{
		Title:       title,
		Price:       decimal.NewFromInt(price),
		Description: "a fine product",
		ImageURL:    "/images/" + title + ".png",
		UserID:      owner,
	}
	if err := f.mem.CreateProduct(context.Background(), &p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	return p
}

func imageHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	return req.MultipartForm.File["image"][0]
}
