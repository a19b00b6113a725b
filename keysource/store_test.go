package keysource

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeyStoreTest(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, "tj"), mr
}

func TestStorePutGetDelete(t *testing.T) {
	store, _ := newKeyStoreTest(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, KindSharedSecret, "k1", []byte("secret"), 0))

	rec, err := store.Get(ctx, KindSharedSecret, "k1")
	require.NoError(t, err)
	assert.Equal(t, KindSharedSecret, rec.Kind)
	assert.Equal(t, "k1", rec.KeyID)
	assert.Equal(t, []byte("secret"), rec.Material)
	assert.NotZero(t, rec.CreatedAt)

	require.NoError(t, store.Delete(ctx, KindSharedSecret, "k1"))
	require.NoError(t, store.Delete(ctx, KindSharedSecret, "k1"))

	_, err = store.Get(ctx, KindSharedSecret, "k1")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestStoreKindsAreSeparate(t *testing.T) {
	store, _ := newKeyStoreTest(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, KindSharedSecret, "same", []byte("s"), 0))
	_, err := store.Get(ctx, KindPrivateKey, "same")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestStorePutHonorsTTL(t *testing.T) {
	store, mr := newKeyStoreTest(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, KindSharedSecret, "short", []byte("s"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, KindSharedSecret, "short")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestStoreActivateReturnsPrevious(t *testing.T) {
	store, _ := newKeyStoreTest(t)
	ctx := context.Background()

	prev, err := store.Activate(ctx, KindSharedSecret, "a", []byte("one"), 0)
	require.NoError(t, err)
	assert.Empty(t, prev)

	prev, err = store.Activate(ctx, KindSharedSecret, "b", []byte("two"), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "a", prev)

	rec, err := store.GetActive(ctx, KindSharedSecret)
	require.NoError(t, err)
	assert.Equal(t, "b", rec.KeyID)
	assert.Equal(t, []byte("two"), rec.Material)

	_, err = store.Get(ctx, KindSharedSecret, "a")
	require.NoError(t, err, "previous key must stay readable")
}

func TestStoreRejectsCorruptRecord(t *testing.T) {
	store, mr := newKeyStoreTest(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("tj:key:secret:bad", "\x01\x01short"))
	_, err := store.Get(ctx, KindSharedSecret, "bad")
	require.ErrorIs(t, err, ErrCorruptRecord)

	require.NoError(t, store.Put(ctx, KindPrivateKey, "moved", []byte("x"), 0))
	raw, err := mr.Get("tj:key:private:moved")
	require.NoError(t, err)
	require.NoError(t, mr.Set("tj:key:secret:moved", raw))
	_, err = store.Get(ctx, KindSharedSecret, "moved")
	require.ErrorIs(t, err, ErrCorruptRecord)
}

func TestStoreInvalidArguments(t *testing.T) {
	store, _ := newKeyStoreTest(t)
	ctx := context.Background()

	require.ErrorIs(t, store.Put(ctx, Kind(9), "k", []byte("s"), 0), ErrUnknownKind)
	require.Error(t, store.Put(ctx, KindSharedSecret, "", []byte("s"), 0))
	_, err := store.Get(ctx, Kind(0), "k")
	require.ErrorIs(t, err, ErrUnknownKind)
	_, err = store.Active(ctx, KindPrivateKey)
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestStoreRedisUnavailable(t *testing.T) {
	store, mr := newKeyStoreTest(t)
	ctx := context.Background()
	mr.Close()

	err := store.Put(ctx, KindSharedSecret, "k", []byte("s"), 0)
	require.ErrorIs(t, err, ErrRedisUnavailable)
	_, err = store.Get(ctx, KindSharedSecret, "k")
	require.ErrorIs(t, err, ErrRedisUnavailable)
	_, err = store.Ping(ctx)
	require.ErrorIs(t, err, ErrRedisUnavailable)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("private")
	require.NoError(t, err)
	assert.Equal(t, KindPrivateKey, k)
	assert.Equal(t, "private", k.String())

	_, err = ParseKind("rsa")
	require.ErrorIs(t, err, ErrUnknownKind)
}
