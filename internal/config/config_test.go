package config

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/store"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("STORE_URL", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/inventory")
	t.Setenv("KAFKA_BROKERS", " kafka:9092, ,kafka2:9092")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "stockroom", cfg.ServiceName)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "postgres://localhost/inventory", cfg.StoreURL)
	assert.Equal(t, 4*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "static/uploads", cfg.UploadDir)
	assert.True(t, cfg.SeedFallback)
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "products", cfg.ESIndex)
}

func TestParseRequiresSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := Parse()
	require.Error(t, err)
}

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a", "b"}, CSV("a, b,,"))
}

func TestInitStoreFallsBackAndSeeds(t *testing.T) {
	cfg := &Config{StoreURL: "mongodb://unreachable", StoreTimeout: time.Second, SeedFallback: true}
	l := logging.NewWithWriter("error", &bytes.Buffer{})

	st, err := InitStore(context.Background(), cfg, l)
	require.NoError(t, err)
	assert.Equal(t, "memory", st.Backend())

	ctx := context.Background()
	low, err := st.Products().CountDocuments(ctx, store.Filter{"quantity": store.Lte(5)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, low)

	admin, err := st.Users().FindOne(ctx, store.Filter{"username": "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", admin["role"])
}

func TestInitStoreWithoutSeed(t *testing.T) {
	cfg := &Config{SeedFallback: false}
	st, err := InitStore(context.Background(), cfg, logging.NewWithWriter("error", &bytes.Buffer{}))
	require.NoError(t, err)

	n, err := st.Categories().CountDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestInitStoreUsesPrimaryWhenReachable(t *testing.T) {
	cfg := &Config{
		StoreURL:     "sqlite://" + filepath.Join(t.TempDir(), "inv.db"),
		StoreTimeout: 2 * time.Second,
		SeedFallback: true,
	}
	st, err := InitStore(context.Background(), cfg, logging.NewWithWriter("error", &bytes.Buffer{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	assert.Equal(t, "gorm", st.Backend())
	n, err := st.Products().CountDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}
