package keysource

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/MrEthical07/tinyjwt"
)

// NewKeyID returns a random key identifier.
func NewKeyID() string {
	return uuid.NewString()
}

// Configure loads the active shared secret and private key from s into m. A
// kind with no active key is skipped; Configure returns ErrKeyNotFound only when
// neither kind is present.
func Configure(ctx context.Context, s *Store, m *tinyjwt.Manager) error {
	loaded := 0

	secret, err := s.GetActive(ctx, KindSharedSecret)
	switch {
	case err == nil:
		m.SetSharedSecret(secret.Material)
		loaded++
	case !errors.Is(err, ErrKeyNotFound):
		return err
	}

	private, err := s.GetActive(ctx, KindPrivateKey)
	switch {
	case err == nil:
		if err := m.SetPrivateKey(private.Material); err != nil {
			return err
		}
		loaded++
	case !errors.Is(err, ErrKeyNotFound):
		return err
	}

	if loaded == 0 {
		return ErrKeyNotFound
	}
	return nil
}
