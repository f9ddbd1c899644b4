package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/events/kafka"
	"github.com/tendant/simple-cms/pkg/simplecms/imaging"
	"github.com/tendant/simple-cms/pkg/simplecms/repo/memory"
	repopg "github.com/tendant/simple-cms/pkg/simplecms/repo/postgres"
	fsstorage "github.com/tendant/simple-cms/pkg/simplecms/storage/fs"
	memorystorage "github.com/tendant/simple-cms/pkg/simplecms/storage/memory"
	s3storage "github.com/tendant/simple-cms/pkg/simplecms/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		DBSchema:     "cms",
		Storage: StorageConfig{
			Type: "memory",
		},
		JWTAlgorithm:           "HS256",
		EnableImageProcessing:  true,
		ImageProcessingTimeout: simplecms.DefaultImageProcessingTimeout,
	}
}

// ServerConfig represents server configuration for the simple-cms service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema to use (default: cms)

	Storage StorageConfig

	// Token verification
	JWTSecret    string
	JWTAlgorithm string
	JWTIssuer    string

	// Lifecycle events are published to Kafka when brokers are set,
	// otherwise they are logged.
	KafkaBrokers []string
	KafkaTopic   string

	EnableImageProcessing  bool
	ImageProcessingTimeout time.Duration
}

// StorageConfig selects and configures the blob store media are written to.
type StorageConfig struct {
	Type      string // "memory", "fs", "s3"
	BaseDir   string // fs
	URLPrefix string // fs public origin, e.g. https://cdn.example.com

	S3 s3storage.Config
}

// IsProduction reports whether the server runs in production mode.
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.Storage.Type {
	case "memory":
	case "fs":
		if c.Storage.BaseDir == "" {
			return errors.New("storage base_dir is required for fs storage")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	if c.IsProduction() && c.JWTSecret == "" {
		return errors.New("jwt_secret is required in production")
	}

	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return errors.New("kafka_topic is required when kafka brokers are set")
	}

	if c.ImageProcessingTimeout < 0 {
		return errors.New("image_processing_timeout cannot be negative")
	}

	return nil
}

// Runtime is a built service together with the resources backing it.
type Runtime struct {
	Service simplecms.Service
	// Store is the blob store media bytes are written to.
	Store   simplecms.BlobStore
	closers []func()
}

// Close releases the database pool and event writer, newest first.
func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

// BuildService creates a Service instance from the server configuration.
// The postgres schema is migrated before the service is returned.
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rt := &Runtime{}
	options := []simplecms.Option{
		simplecms.WithLogger(logger),
	}

	repo, closeRepo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	if closeRepo != nil {
		rt.closers = append(rt.closers, closeRepo)
	}
	options = append(options, simplecms.WithRepository(repo))

	store, err := c.buildStorageBackend()
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build storage backend %s: %w", c.Storage.Type, err)
	}
	rt.Store = store
	options = append(options, simplecms.WithBlobStore(c.Storage.Type, store))

	if c.EnableImageProcessing {
		options = append(options, simplecms.WithImageProcessor(imaging.New(logger), c.ImageProcessingTimeout))
	}

	if len(c.KafkaBrokers) > 0 {
		sink, err := kafka.NewSink(c.KafkaBrokers, c.KafkaTopic)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to build event sink: %w", err)
		}
		rt.closers = append(rt.closers, func() {
			if err := sink.Close(); err != nil {
				logger.Warn("closing kafka writer", "err", err)
			}
		})
		options = append(options, simplecms.WithEventSink(sink))
	} else {
		options = append(options, simplecms.WithEventSink(simplecms.NewLoggingEventSink(logger)))
	}

	svc, err := simplecms.New(options...)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Service = svc
	return rt, nil
}

// BuildResolver creates the credential resolver used by the transport.
// Without a secret every credential is rejected, leaving only the public view.
func (c *ServerConfig) BuildResolver() (*auth.Resolver, error) {
	if c.JWTSecret == "" {
		return auth.NewResolver(auth.RejectAll()), nil
	}
	verifier, err := auth.NewJWTVerifier([]byte(c.JWTSecret),
		auth.WithAlgorithm(c.JWTAlgorithm),
		auth.WithIssuer(c.JWTIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build jwt verifier: %w", err)
	}
	return auth.NewResolver(verifier), nil
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context) (simplecms.Repository, func(), error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil, nil
	case "postgres":
		pool, err := newPool(ctx, c.DatabaseURL, c.DBSchema)
		if err != nil {
			return nil, nil, err
		}
		if err := repopg.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		return repopg.NewWithPool(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func newPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("database_url is required for postgres")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		ident := pgx.Identifier{schema}.Sanitize()
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			if _, err := conn.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+ident); err != nil {
				return err
			}
			_, err := conn.Exec(ctx, "SET search_path TO "+ident)
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// PingPostgres verifies connectivity to Postgres with the configured schema.
func PingPostgres(databaseURL, schema string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := newPool(ctx, databaseURL, schema)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// buildStorageBackend creates a BlobStore based on the storage configuration
func (c *ServerConfig) buildStorageBackend() (simplecms.BlobStore, error) {
	switch c.Storage.Type {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   c.Storage.BaseDir,
			URLPrefix: c.Storage.URLPrefix,
		})
	case "s3":
		return s3storage.New(c.Storage.S3)
	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", c.Storage.Type)
	}
}
