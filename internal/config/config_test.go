package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("APP_JWT__SECRET", "s3cret")
	t.Setenv("APP_STORE", "memory")
	t.Setenv("APP_MEMORY__SEED_FILE", "catalog.yaml")
	t.Setenv("APP_KAFKA__BROKERS", "k1:9092,k2:9092")
	t.Setenv("APP_IDEMPOTENCY__TTL", "10m")

	cfg, err := load("")
	require.NoError(t, err)

	assert.Equal(t, ":8082", cfg.HTTPAddr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "catalog.yaml", cfg.Memory.SeedFile)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 12*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 10*time.Minute, cfg.Idempotency.TTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Postgres.Migrate)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":9000"
jwt:
  secret: from-file
redis:
  addr: localhost:6379
`), 0o600))
	t.Setenv("APP_HTTP_ADDR", ":9100")

	cfg, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.HTTPAddr)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.HTTPAddr = ":8082"
		c.Store = StorePostgres
		c.Postgres.DSN = "postgres://x"
		c.JWT.Secret = "s"
		c.JWT.TTL = time.Hour
		return c
	}
	require.NoError(t, base().Validate())

	c := base()
	c.JWT.Secret = ""
	assert.ErrorContains(t, c.Validate(), "jwt.secret")

	c = base()
	c.Postgres.DSN = ""
	assert.ErrorContains(t, c.Validate(), "postgres.dsn")

	c = base()
	c.Store = StoreMemory
	assert.ErrorContains(t, c.Validate(), "memory.seed_file")
	c.Memory.SeedFile = "catalog.yaml"
	require.NoError(t, c.Validate())

	c = base()
	c.Store = "sqlite"
	assert.ErrorContains(t, c.Validate(), "store must be")

	c = base()
	c.HTTPAddr = ""
	assert.ErrorContains(t, c.Validate(), "http_addr")
}
