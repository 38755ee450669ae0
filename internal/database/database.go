package database

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"boutique/internal/config"
)

// =============================================
// SCYLLA DB (one session per keyspace)
// =============================================

type ScyllaManager struct {
	hosts    []string
	username string
	password string
	timeout  time.Duration

	mu       sync.Mutex
	sessions map[string]*gocql.Session // keyspace → session
}

func NewScyllaManager(cfg config.Config) (*ScyllaManager, error) {
	if len(cfg.ScyllaHosts) == 0 {
		return nil, fmt.Errorf("SCYLLA_HOSTS not configured")
	}
	return &ScyllaManager{
		hosts:    cfg.ScyllaHosts,
		username: cfg.ScyllaUsername,
		password: cfg.ScyllaPassword,
		timeout:  cfg.ScyllaTimeout,
		sessions: make(map[string]*gocql.Session),
	}, nil
}

func (sm *ScyllaManager) cluster(keyspace string) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(sm.hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = sm.timeout
	cluster.NumConns = 20
	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	cluster.ReconnectInterval = time.Second
	if sm.username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: sm.username,
			Password: sm.password,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return cluster
}

// Session returns the cached session for keyspace, creating it on first use.
func (sm *ScyllaManager) Session(keyspace string) (*gocql.Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if session, ok := sm.sessions[keyspace]; ok && !session.Closed() {
		return session, nil
	}

	session, err := sm.cluster(keyspace).CreateSession()
	if err != nil {
		return nil, fmt.Errorf("create session for %s: %w", keyspace, err)
	}
	sm.sessions[keyspace] = session
	log.Printf("✅ ScyllaDB session opened for keyspace '%s'", keyspace)
	return session, nil
}

// CreateKeyspace creates keyspace with SimpleStrategy when it does not exist yet.
func (sm *ScyllaManager) CreateKeyspace(keyspace string, replication int) error {
	session, err := sm.cluster("system").CreateSession()
	if err != nil {
		return fmt.Errorf("create system session: %w", err)
	}
	defer session.Close()

	stmt := fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
		WITH replication = {'class': 'SimpleStrategy', 'replication_factor': %d}`, keyspace, replication)
	return session.Query(stmt).Exec()
}

func (sm *ScyllaManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for keyspace, session := range sm.sessions {
		session.Close()
		log.Printf("🔌 ScyllaDB session closed for keyspace '%s'", keyspace)
	}
	sm.sessions = make(map[string]*gocql.Session)
}

// =============================================
// REDIS
// =============================================

func ConnectRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Println("✅ Connected to Redis")
	return client, nil
}

// =============================================
// ELASTICSEARCH
// =============================================

func ConnectElastic(cfg config.Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch info: %s", res.Status())
	}

	log.Println("✅ Connected to Elasticsearch")
	return client, nil
}

// =============================================
// MINIO
// =============================================

func ConnectMinIO(ctx context.Context, cfg config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
		log.Println("🪣 Bucket created:", cfg.MinIOBucket)
	}

	log.Println("✅ Connected to MinIO:", cfg.MinIOEndpoint)
	return client, nil
}
