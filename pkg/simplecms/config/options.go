package config

import (
	"fmt"
	"strconv"
	"time"

	s3storage "github.com/tendant/simple-cms/pkg/simplecms/storage/s3"
)

// WithPort sets the listen port, 1-65535.
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("invalid port %q", port)
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment selects development, testing or production mode.
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		switch env {
		case "development", "testing", "production":
			c.Environment = env
			return nil
		default:
			return fmt.Errorf("unknown environment %q", env)
		}
	}
}

// WithDatabase picks the record store. Postgres needs a connection URL.
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		switch dbType {
		case "memory":
			url = ""
		case "postgres":
			if url == "" {
				return fmt.Errorf("postgres needs a database URL")
			}
		default:
			return fmt.Errorf("unsupported database type %q", dbType)
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the Postgres schema the tables live in. An empty
// schema leaves the connection's search_path alone.
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithMemoryStorage keeps media blobs in process memory
func WithMemoryStorage() Option {
	return func(c *ServerConfig) error {
		c.Storage = StorageConfig{Type: "memory", URLPrefix: c.Storage.URLPrefix}
		return nil
	}
}

// WithFilesystemStorage stores media blobs under baseDir. An empty urlPrefix
// keeps the current one.
func WithFilesystemStorage(baseDir, urlPrefix string) Option {
	return func(c *ServerConfig) error {
		if baseDir == "" {
			return fmt.Errorf("filesystem base directory cannot be empty")
		}
		if urlPrefix == "" {
			urlPrefix = c.Storage.URLPrefix
		}
		c.Storage = StorageConfig{Type: "fs", BaseDir: baseDir, URLPrefix: urlPrefix}
		return nil
	}
}

// WithS3Storage stores media blobs in an S3-compatible bucket
func WithS3Storage(cfg s3storage.Config) Option {
	return func(c *ServerConfig) error {
		if cfg.Bucket == "" {
			return fmt.Errorf("s3 bucket cannot be empty")
		}
		c.Storage = StorageConfig{Type: "s3", URLPrefix: c.Storage.URLPrefix, S3: cfg}
		return nil
	}
}

// WithJWTSecret sets the HMAC secret and algorithm used to verify bearer tokens.
// An empty algorithm keeps the current one.
func WithJWTSecret(secret, algorithm string) Option {
	return func(c *ServerConfig) error {
		if secret == "" {
			return fmt.Errorf("jwt secret cannot be empty")
		}
		c.JWTSecret = secret
		if algorithm != "" {
			c.JWTAlgorithm = algorithm
		}
		return nil
	}
}

// WithJWTIssuer requires tokens to carry the given issuer
func WithJWTIssuer(issuer string) Option {
	return func(c *ServerConfig) error {
		c.JWTIssuer = issuer
		return nil
	}
}

// WithKafka publishes lifecycle events to topic
func WithKafka(brokers []string, topic string) Option {
	return func(c *ServerConfig) error {
		if len(brokers) == 0 {
			return fmt.Errorf("at least one kafka broker is required")
		}
		if topic == "" {
			return fmt.Errorf("kafka topic cannot be empty")
		}
		c.KafkaBrokers = append([]string(nil), brokers...)
		c.KafkaTopic = topic
		return nil
	}
}

// WithImageProcessing toggles thumbnail generation for image uploads.
// A non-positive timeout keeps the current one.
func WithImageProcessing(enabled bool, timeout time.Duration) Option {
	return func(c *ServerConfig) error {
		c.EnableImageProcessing = enabled
		if timeout > 0 {
			c.ImageProcessingTimeout = timeout
		}
		return nil
	}
}
