package tinyjwt

import (
	"crypto/ecdsa"
	"errors"

	"github.com/rs/zerolog"

	"github.com/MrEthical07/tinyjwt/internal/detsig"
)

// Manager encodes and decodes tokens into caller-owned buffers.
//
// Encode, Decode and VerifyPublic only read the Manager and may run concurrently
// with each other. SetSharedSecret and SetPrivateKey must not race with them.
type Manager struct {
	keys    keyMaterial
	allowed [algorithmCount]bool
	metrics *Metrics
	logger  zerolog.Logger
}

// NewManager validates cfg and returns a Manager without key material.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		metrics: NewMetrics(cfg.Metrics),
		logger:  zerolog.Nop(),
	}
	if cfg.Logger != nil {
		m.logger = *cfg.Logger
	}
	for _, alg := range cfg.Algorithms {
		m.allowed[alg] = true
	}
	return m, nil
}

// SetSharedSecret configures the HS256 key, replacing any previous one. The
// Manager keeps a reference to secret; the caller must not modify it while the
// Manager is in use.
func (m *Manager) SetSharedSecret(secret []byte) {
	m.keys.secret = secret
	m.keys.secretSet = true
}

// SetPrivateKey configures the ES256 private scalar (32 bytes, big-endian),
// replacing any previous one. Like SetSharedSecret it keeps a reference.
func (m *Manager) SetPrivateKey(key []byte) error {
	if err := detsig.ValidatePrivateKey(key); err != nil {
		return ErrInvalidPrivateKey
	}
	m.keys.private = key
	return nil
}

// PublicKey returns the public key matching the configured private key.
func (m *Manager) PublicKey() (*ecdsa.PublicKey, error) {
	if m.keys.private == nil {
		return nil, ErrKeyNotConfigured
	}
	pub, err := detsig.PublicKey(m.keys.private)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	return pub, nil
}

// MetricsSnapshot returns the current counters.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	return m.metrics.Snapshot()
}

// resolve returns the scheme for alg if it is known and enabled.
func (m *Manager) resolve(alg Algorithm) (*scheme, error) {
	s, ok := alg.scheme()
	if !ok || !m.allowed[alg] {
		return nil, ErrUnsupportedAlgorithm
	}
	return s, nil
}

func (m *Manager) fail(op MetricID, alg Algorithm, err error) {
	m.metrics.recordFailure(op, err)
	if errors.Is(err, ErrSignatureMismatch) {
		m.logger.Debug().Stringer("alg", alg).Msg("tinyjwt: signature mismatch")
		return
	}
	m.logger.Debug().Err(err).Stringer("alg", alg).Msg("tinyjwt: operation failed")
}
