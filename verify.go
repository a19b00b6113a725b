package tinyjwt

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/tinyjwt/internal/detsig"
)

// VerifyPublic checks an ES256 token against pub and writes its payload into dst
// like Decode. Unlike Decode it accepts any valid signature, so it also verifies
// tokens produced by randomized ECDSA signers.
func (m *Manager) VerifyPublic(dst, token []byte, pub *ecdsa.PublicKey) (int, error) {
	var start time.Time
	if m.metrics.LatencyEnabled() {
		start = time.Now()
	}

	n, err := m.verifyPublic(dst, token, pub)
	if err != nil {
		m.fail(MetricDecodeFailure, ES256, err)
		return 0, err
	}

	m.metrics.Inc(MetricDecodeSuccess)
	if m.metrics.LatencyEnabled() {
		m.metrics.Observe(MetricDecodeLatency, time.Since(start))
	}
	return n, nil
}

func (m *Manager) verifyPublic(dst, token []byte, pub *ecdsa.PublicKey) (int, error) {
	header, payload, signature, ok := splitToken(token)
	if !ok {
		return 0, ErrMalformedToken
	}
	alg, ok := algorithmForHeader(header)
	if !ok {
		return 0, ErrMalformedToken
	}
	if alg != ES256 {
		return 0, ErrUnsupportedAlgorithm
	}
	if _, err := m.resolve(alg); err != nil {
		return 0, err
	}
	if pub == nil {
		return 0, ErrKeyNotConfigured
	}
	if len(dst) < decodedLen(len(trimPadding(payload)))+1 {
		return 0, ErrInsufficientBuffer
	}

	signature = trimPadding(signature)
	if decodedLen(len(signature)) != detsig.SignatureSize {
		return 0, ErrSignatureMismatch
	}
	var sig [detsig.SignatureSize]byte
	if _, err := decodeSegment(sig[:], signature); err != nil {
		return 0, fmt.Errorf("%w: signature: %v", ErrMalformedToken, err)
	}

	signed := string(token[:len(header)+1+len(payload)])
	if err := jwt.SigningMethodES256.Verify(signed, sig[:], pub); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSignatureMismatch, err)
	}

	return writePayload(dst, payload)
}
