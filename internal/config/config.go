package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendScylla = "scylla"

	StorageDisk  = "disk"
	StorageMinIO = "minio"
)

type Config struct {
	Port          string
	BaseURL       string
	SessionSecret string
	CSRFKey       string
	JWTSecret     string
	SecureCookies bool
	CORSOrigins   []string

	StoreBackend    string
	ScyllaHosts     []string
	ScyllaUsername  string
	ScyllaPassword  string
	ScyllaKeyspaces Keyspaces
	ScyllaTimeout   time.Duration

	RedisHost     string
	RedisPassword string

	ImageStorage   string
	ImageDir       string
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string
	ElasticIndex    string

	KafkaBrokers []string
	KafkaTopic   string

	CleanupSchedule string
	CleanupGrace    time.Duration

	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string
}

// Keyspaces maps each store to its Scylla keyspace. They may all point to the same one.
type Keyspaces struct {
	Products string
	Users    string
	Orders   string
}

// Load reads .env if present, then builds the Config from the environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using system environment")
	} else {
		log.Println("✅ .env loaded")
	}
	return FromEnv()
}

func FromEnv() Config {
	keyspace := env("SCYLLA_KEYSPACE", "boutique")
	return Config{
		Port:          env("PORT", "3000"),
		BaseURL:       env("BASE_URL", "http://localhost:3000"),
		SessionSecret: env("SESSION_SECRET", "my secret"),
		CSRFKey:       env("CSRF_KEY", "0123456789abcdef0123456789abcdef"),
		JWTSecret:     env("JWT_SECRET", "super_secret"),
		SecureCookies: boolEnv("SECURE_COOKIES", false),
		CORSOrigins:   listEnv("CORS_ORIGINS"),

		StoreBackend:   strings.ToLower(env("STORE_BACKEND", BackendMemory)),
		ScyllaHosts:    listEnv("SCYLLA_HOSTS"),
		ScyllaUsername: os.Getenv("SCYLLA_USERNAME"),
		ScyllaPassword: os.Getenv("SCYLLA_PASSWORD"),
		ScyllaKeyspaces: Keyspaces{
			Products: env("SCYLLA_KS_PRODUCTS", keyspace),
			Users:    env("SCYLLA_KS_USERS", keyspace),
			Orders:   env("SCYLLA_KS_ORDERS", keyspace),
		},
		ScyllaTimeout: durationEnv("SCYLLA_TIMEOUT", 5*time.Second),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ImageStorage:   strings.ToLower(env("IMAGE_STORAGE", StorageDisk)),
		ImageDir:       env("IMAGE_DIR", "images"),
		MinIOEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinIOAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinIOBucket:    env("MINIO_BUCKET", "boutique-images"),
		MinIOUseSSL:    boolEnv("MINIO_USE_SSL", false),

		ElasticURL:      os.Getenv("ELASTIC_URL"),
		ElasticUser:     os.Getenv("ELASTIC_USER"),
		ElasticPassword: os.Getenv("ELASTIC_PASSWORD"),
		ElasticIndex:    env("ELASTIC_INDEX", "products"),

		KafkaBrokers: listEnv("KAFKA_BROKERS"),
		KafkaTopic:   env("KAFKA_TOPIC", "order-created"),

		CleanupSchedule: env("CLEANUP_SCHEDULE", "0 * * * * *"),
		CleanupGrace:    durationEnv("CLEANUP_GRACE", 10*time.Minute),

		GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
		FacebookClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
		FacebookClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
	}
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️  Invalid duration for %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func listEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
