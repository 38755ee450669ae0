package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/redis/go-redis/v9"

	"boutique/internal/auth"
	"boutique/internal/cache"
	"boutique/internal/cleanup"
	"boutique/internal/config"
	"boutique/internal/database"
	"boutique/internal/events"
	"boutique/internal/handlers"
	"boutique/internal/middleware"
	"boutique/internal/routes"
	"boutique/internal/search"
	"boutique/internal/shop"
	"boutique/internal/storage"
	"boutique/internal/store"
	"boutique/internal/store/scylla"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	stores, closeStores := openStores(ctx, cfg)
	defer closeStores()

	var rdb *redis.Client
	if cfg.RedisHost != "" {
		client, err := database.ConnectRedis(ctx, cfg)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, running without cache: %v", err)
		} else {
			rdb = client
			defer rdb.Close()
		}
	}

	// Redis-backed pieces; each falls back to an in-process version.
	var limiter middleware.Limiter
	var cartNotifier events.CartNotifier
	var cartSubscriber handlers.CartSubscriber
	if rdb != nil {
		stores.Products = cache.NewProducts(stores.Products, rdb)
		limiter = cache.NewRateLimiter(rdb)
		rc := events.NewRedisCart(rdb)
		cartNotifier, cartSubscriber = rc, rc
	} else {
		local := events.NewLocal()
		cartNotifier, cartSubscriber = local, local
	}

	images, imageLinker := openImages(ctx, cfg)
	index := openSearch(ctx, cfg, stores.Products)

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		k, err := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Printf("⚠️ Kafka unavailable, order events disabled: %v", err)
		} else {
			publisher = k
			defer k.Close()
		}
	}

	svc := shop.New(stores, images, index, cartNotifier, publisher)

	sessionStore := middleware.NewSessionStore(cfg.SessionSecret, cfg.SecureCookies)
	auth.InitProviders(cfg, sessionStore)
	tokens := auth.NewTokens(cfg.JWTSecret)

	sweeper := cleanup.NewSweeper(stores.Products, images, cfg.CleanupGrace)
	scheduler, err := cleanup.Start(cfg.CleanupSchedule, sweeper)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-CSRF-Token"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	h := handlers.New(handlers.Deps{
		Shop:     svc,
		Sessions: sessionStore,
		Tokens:   tokens,
		Carts:    cartSubscriber,
		Images:   imageLinker,
	})
	opts := routes.Options{
		Sessions: sessionStore,
		Users:    stores.Users,
		Tokens:   tokens,
		Limiter:  limiter,
	}
	if cfg.ImageStorage != config.StorageMinIO {
		opts.ImageDir = cfg.ImageDir
	}
	routes.RegisterRoutes(r, h, opts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           withCSRF(cfg, r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("🚀 Boutique listening on port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ HTTP server: %v", err)
		}
	}()

	quit, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-quit.Done()

	log.Println("🛑 Shutting down")
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Forced shutdown: %v", err)
	}
}

func openStores(ctx context.Context, cfg config.Config) (store.Stores, func()) {
	if cfg.StoreBackend != config.BackendScylla {
		log.Println("⚠️ STORE_BACKEND=memory, data lives only as long as the process")
		return store.NewMemory().Stores(), func() {}
	}

	sm, err := database.NewScyllaManager(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	for _, ks := range []string{cfg.ScyllaKeyspaces.Products, cfg.ScyllaKeyspaces.Users, cfg.ScyllaKeyspaces.Orders} {
		if err := sm.CreateKeyspace(ks, 1); err != nil {
			log.Fatalf("❌ Keyspace %s: %v", ks, err)
		}
	}
	db, err := scylla.New(sm, cfg.ScyllaKeyspaces)
	if err != nil {
		log.Fatalf("❌ ScyllaDB: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("❌ ScyllaDB schema: %v", err)
	}
	return db.Stores(), sm.Close
}

func openImages(ctx context.Context, cfg config.Config) (storage.ImageStore, handlers.ImageLinker) {
	if cfg.ImageStorage == config.StorageMinIO {
		client, err := database.ConnectMinIO(ctx, cfg)
		if err != nil {
			log.Fatalf("❌ MinIO: %v", err)
		}
		m := storage.NewMinIO(client, cfg.MinIOBucket)
		return m, m
	}

	disk, err := storage.NewDisk(cfg.ImageDir)
	if err != nil {
		log.Fatalf("❌ Image dir: %v", err)
	}
	return disk, nil
}

func openSearch(ctx context.Context, cfg config.Config, products store.ProductStore) search.Searcher {
	if cfg.ElasticURL == "" {
		log.Println("⚠️ ELASTIC_URL not set, search scans the catalog")
		return search.Scan{Products: products}
	}
	es, err := database.ConnectElastic(cfg)
	if err != nil {
		log.Printf("⚠️ Elasticsearch unavailable, search scans the catalog: %v", err)
		return search.Scan{Products: products}
	}
	idx := search.NewElastic(es, cfg.ElasticIndex)
	if err := idx.EnsureIndex(ctx); err != nil {
		log.Printf("⚠️ %v", err)
	}
	return idx
}

// withCSRF protects cookie-authenticated form posts. Bearer-token API calls carry no cookie to
// forge and skip the check.
func withCSRF(cfg config.Config, next http.Handler) http.Handler {
	protect := csrf.Protect([]byte(cfg.CSRFKey),
		csrf.Secure(cfg.SecureCookies),
		csrf.Path("/"),
		csrf.FieldName("_csrf"),
		csrf.RequestHeader("X-CSRF-Token"),
	)(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}
		if !cfg.SecureCookies {
			r = csrf.PlaintextHTTPRequest(r)
		}
		protect.ServeHTTP(w, r)
	})
}
