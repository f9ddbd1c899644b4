package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	s3storage "github.com/tendant/simple-cms/pkg/simplecms/storage/s3"
)

func TestWithPort(t *testing.T) {
	cfg, err := Load(WithPort("9090"))
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)

	for _, port := range []string{"", "http", "0", "70000"} {
		_, err = Load(WithPort(port))
		assert.Error(t, err, port)
	}
}

func TestWithEnvironment(t *testing.T) {
	cfg, err := Load(WithEnvironment("testing"))
	require.NoError(t, err)
	assert.Equal(t, "testing", cfg.Environment)

	_, err = Load(WithEnvironment("staging"))
	assert.Error(t, err)

	_, err = Load(WithEnvironment(""))
	assert.Error(t, err)
}

func TestWithDatabase(t *testing.T) {
	tests := []struct {
		name      string
		dbType    string
		url       string
		wantError bool
	}{
		{"memory", "memory", "", false},
		{"postgres with url", "postgres", "postgres://localhost/cms", false},
		{"postgres without url", "postgres", "", true},
		{"unsupported", "sqlite", "file.db", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(WithDatabase(tt.dbType, tt.url), WithDatabaseSchema("content_v2"))
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dbType, cfg.DatabaseType)
			assert.Equal(t, tt.url, cfg.DatabaseURL)
			assert.Equal(t, "content_v2", cfg.DBSchema)
		})
	}
}

func TestStorageOptions(t *testing.T) {
	t.Run("filesystem keeps prefix", func(t *testing.T) {
		cfg, err := Load(WithFilesystemStorage("/data", "https://cdn.example.com"), WithFilesystemStorage("/srv", ""))
		require.NoError(t, err)
		assert.Equal(t, StorageConfig{Type: "fs", BaseDir: "/srv", URLPrefix: "https://cdn.example.com"}, cfg.Storage)
	})

	t.Run("filesystem custom prefix", func(t *testing.T) {
		cfg, err := Load(WithFilesystemStorage("/data", "https://cdn.example.com/files"))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/files", cfg.Storage.URLPrefix)
	})

	t.Run("filesystem requires dir", func(t *testing.T) {
		_, err := Load(WithFilesystemStorage("", ""))
		assert.Error(t, err)
	})

	t.Run("s3 requires bucket", func(t *testing.T) {
		_, err := Load(WithS3Storage(s3storage.Config{Region: "us-east-1"}))
		assert.Error(t, err)
	})

	t.Run("memory resets previous backend", func(t *testing.T) {
		cfg, err := Load(WithFilesystemStorage("/data", ""), WithMemoryStorage())
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.Storage.Type)
		assert.Empty(t, cfg.Storage.BaseDir)
	})
}

func TestWithJWTSecret(t *testing.T) {
	cfg, err := Load(WithJWTSecret("secret", ""))
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)

	cfg, err = Load(WithJWTSecret("secret", "HS512"))
	require.NoError(t, err)
	assert.Equal(t, "HS512", cfg.JWTAlgorithm)

	_, err = Load(WithJWTSecret("", "HS256"))
	assert.Error(t, err)
}

func TestWithKafka(t *testing.T) {
	brokers := []string{"kafka:9092"}
	cfg, err := Load(WithKafka(brokers, "events"))
	require.NoError(t, err)
	assert.Equal(t, brokers, cfg.KafkaBrokers)
	assert.Equal(t, "events", cfg.KafkaTopic)

	brokers[0] = "mutated:9092"
	assert.Equal(t, "kafka:9092", cfg.KafkaBrokers[0])

	_, err = Load(WithKafka(nil, "events"))
	assert.Error(t, err)
	_, err = Load(WithKafka([]string{"kafka:9092"}, ""))
	assert.Error(t, err)
}

func TestWithImageProcessing(t *testing.T) {
	cfg, err := Load(WithImageProcessing(false, 0))
	require.NoError(t, err)
	assert.False(t, cfg.EnableImageProcessing)
	assert.Equal(t, 30*time.Second, cfg.ImageProcessingTimeout)

	cfg, err = Load(WithImageProcessing(true, 2*time.Second))
	require.NoError(t, err)
	assert.True(t, cfg.EnableImageProcessing)
	assert.Equal(t, 2*time.Second, cfg.ImageProcessingTimeout)
}
