package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelminds/internal/app/storage"
)

// exerciseStore runs the slot contract every backend must satisfy.
func exerciseStore(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()
	key := "contract-" + strconv.Itoa(os.Getpid())

	_, err := store.Get(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Delete(ctx, key), "deleting an empty slot must succeed")

	require.NoError(t, store.Set(ctx, key, "first"))
	value, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "first", value)

	require.NoError(t, store.Set(ctx, key, "second"))
	value, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "second", value)

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key))

	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, storage.NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	store, err := storage.NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	first, err := storage.NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "jwt", "token-value"))

	second, err := storage.NewFileStore(path)
	require.NoError(t, err)
	value, err := second.Get(ctx, "jwt")
	require.NoError(t, err)
	assert.Equal(t, "token-value", value)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := storage.NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "jwt")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	store, err := storage.NewStore(ctx, storage.ServiceConfig{Kind: storage.KindMemory})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, store)

	store, err = storage.NewStore(ctx, storage.ServiceConfig{
		Kind:     storage.KindFile,
		FilePath: filepath.Join(t.TempDir(), "s.json"),
	})
	require.NoError(t, err)
	assert.IsType(t, &storage.FileStore{}, store)

	_, err = storage.NewStore(ctx, storage.ServiceConfig{Kind: "floppy"})
	assert.Error(t, err)

	_, err = storage.NewStore(ctx, storage.ServiceConfig{Kind: storage.KindFile})
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	store, err := storage.NewRedisStore(context.Background(), addr, os.Getenv("TEST_REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	store, err := storage.NewPostgresStore(context.Background(), dsn)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}
