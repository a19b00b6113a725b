package keysource

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/MrEthical07/tinyjwt/internal/detsig"
)

const maxDeriveAttempts = 16

// ErrDeriveExhausted is returned when no valid scalar was found. It is not
// expected to happen for any real input.
var ErrDeriveExhausted = errors.New("private key derivation exhausted")

// DerivePrivateKey derives a P-256 private scalar from master with
// HKDF-SHA256. info separates keys derived from the same master; the same
// inputs always produce the same key. Candidates outside [1, n-1] are
// rejected and the next HKDF block is tried.
func DerivePrivateKey(master, info []byte) ([]byte, error) {
	if len(master) == 0 {
		return nil, errors.New("empty master secret")
	}

	r := hkdf.New(sha256.New, master, nil, info)
	key := make([]byte, detsig.ScalarSize)
	for i := 0; i < maxDeriveAttempts; i++ {
		if _, err := io.ReadFull(r, key); err != nil {
			return nil, err
		}
		if detsig.ValidatePrivateKey(key) == nil {
			return key, nil
		}
	}
	return nil, ErrDeriveExhausted
}
