package keysource

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/tinyjwt"
	"github.com/MrEthical07/tinyjwt/internal/detsig"
)

func newManager(t *testing.T) *tinyjwt.Manager {
	t.Helper()
	m, err := tinyjwt.New().Build()
	require.NoError(t, err)
	return m
}

func roundTrip(t *testing.T, m *tinyjwt.Manager, alg tinyjwt.Algorithm) error {
	t.Helper()
	payload := []byte(`{"sub":"1"}`)
	tok := make([]byte, tinyjwt.TokenCapacity(len(payload), alg))
	n, err := m.Encode(tok, payload, alg)
	if err != nil {
		return err
	}
	out := make([]byte, len(payload)+1)
	_, err = m.Decode(out, tok[:n])
	return err
}

func TestConfigureLoadsActiveKeys(t *testing.T) {
	store, _ := newKeyStoreTest(t)
	ctx := context.Background()

	private, err := DerivePrivateKey([]byte("master"), []byte("es256"))
	require.NoError(t, err)
	_, err = store.Activate(ctx, KindSharedSecret, NewKeyID(), []byte("secret"), 0)
	require.NoError(t, err)
	_, err = store.Activate(ctx, KindPrivateKey, NewKeyID(), private, 0)
	require.NoError(t, err)

	m := newManager(t)
	require.NoError(t, Configure(ctx, store, m))
	require.NoError(t, roundTrip(t, m, tinyjwt.HS256))
	require.NoError(t, roundTrip(t, m, tinyjwt.ES256))
}

func TestConfigurePartialAndEmpty(t *testing.T) {
	store, _ := newKeyStoreTest(t)
	ctx := context.Background()

	require.ErrorIs(t, Configure(ctx, store, newManager(t)), ErrKeyNotFound)

	_, err := store.Activate(ctx, KindSharedSecret, "only-secret", []byte("secret"), 0)
	require.NoError(t, err)

	m := newManager(t)
	require.NoError(t, Configure(ctx, store, m))
	require.NoError(t, roundTrip(t, m, tinyjwt.HS256))
	require.ErrorIs(t, roundTrip(t, m, tinyjwt.ES256), tinyjwt.ErrKeyNotConfigured)
}

func TestConfigureRejectsInvalidPrivateKey(t *testing.T) {
	store, _ := newKeyStoreTest(t)
	ctx := context.Background()

	_, err := store.Activate(ctx, KindPrivateKey, "zero", make([]byte, 32), 0)
	require.NoError(t, err)
	require.ErrorIs(t, Configure(ctx, store, newManager(t)), tinyjwt.ErrInvalidPrivateKey)
}

func TestNewKeyIDIsUUID(t *testing.T) {
	a, b := NewKeyID(), NewKeyID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestDerivePrivateKey(t *testing.T) {
	k1, err := DerivePrivateKey([]byte("master"), []byte("a"))
	require.NoError(t, err)
	k2, err := DerivePrivateKey([]byte("master"), []byte("a"))
	require.NoError(t, err)
	k3, err := DerivePrivateKey([]byte("master"), []byte("b"))
	require.NoError(t, err)

	assert.Len(t, k1, detsig.ScalarSize)
	assert.Equal(t, hex.EncodeToString(k1), hex.EncodeToString(k2))
	assert.NotEqual(t, k1, k3)
	require.NoError(t, detsig.ValidatePrivateKey(k1))

	_, err = DerivePrivateKey(nil, []byte("a"))
	require.Error(t, err)
}
