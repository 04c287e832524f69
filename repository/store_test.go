package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"romix-storefront/db"
)

// exerciseStore runs the shared contract against any KeyValueStoreInterface
func exerciseStore(t *testing.T, s KeyValueStoreInterface) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "romix_cart")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "romix_cart", []byte(`[{"productId":"p1"}]`)))
	v, found, err := s.Get(ctx, "romix_cart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"productId":"p1"}]`, string(v))

	require.NoError(t, s.Set(ctx, "romix_cart", []byte(`[]`)))
	v, _, err = s.Get(ctx, "romix_cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(v))

	require.NoError(t, s.Remove(ctx, "romix_cart"))
	_, found, err = s.Get(ctx, "romix_cart")
	require.NoError(t, err)
	assert.False(t, found)

	// removing a missing key is not an error
	require.NoError(t, s.Remove(ctx, "never-set"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'z'

	v, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
}

func TestMemoryStoreNotifiesSubscribers(t *testing.T) {
	s := NewMemoryStore()
	var hits atomic.Int32
	unsubscribe := s.Subscribe(func(key string) {
		if key == "romixVariantStock" {
			hits.Add(1)
		}
	})

	require.NoError(t, s.Set(context.Background(), "romixVariantStock", []byte("[]")))
	assert.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, 10*time.Millisecond)

	unsubscribe()
	require.NoError(t, s.Set(context.Background(), "romixVariantStock", []byte("[]")))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)
}

func TestFileStoreReportsExternalWrites(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	changed := make(chan string, 16)
	s.Subscribe(func(key string) { changed <- key })

	// another process writing the same directory
	require.NoError(t, os.WriteFile(filepath.Join(dir, "romixVariantStock.json"), []byte("[]"), 0o644))

	select {
	case key := <-changed:
		assert.Equal(t, "romixVariantStock", key)
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification received")
	}
}

func TestFileStoreCloseIsIdempotent(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	s.Subscribe(func(string) {})
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestBoltStore(t *testing.T) {
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)
}

func TestSQLStoreSQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := db.InitDB(ctx, "sqlite", filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	s, err := NewSQLStore(ctx, conn, DialectSQLite)
	require.NoError(t, err)

	exerciseStore(t, s)

	// table creation is idempotent
	_, err = NewSQLStore(ctx, conn, DialectSQLite)
	assert.NoError(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	s, err := NewRedisStore(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)

	require.NoError(t, s.SetWithTTL(ctx, "ttl-key", []byte("x"), 50*time.Millisecond))
	assert.Eventually(t, func() bool {
		_, found, _ := s.Get(ctx, "ttl-key")
		return !found
	}, 2*time.Second, 25*time.Millisecond)
}
