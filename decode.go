package tinyjwt

import (
	"crypto/subtle"
	"fmt"
	"time"
)

// Decode verifies token and writes its payload into dst followed by a 0
// terminator, returning the payload length (excluding the terminator).
//
// The algorithm is taken from the header segment, which must be one of the
// fixed header constants. The signature is recomputed with the configured key
// and compared with the token's third segment; ES256 relies on the signature
// being deterministic. dst must be at least PayloadCapacity(token) bytes. On
// error nothing in dst may be trusted.
func (m *Manager) Decode(dst, token []byte) (int, error) {
	var start time.Time
	if m.metrics.LatencyEnabled() {
		start = time.Now()
	}

	alg, n, err := m.decode(dst, token)
	if err != nil {
		m.fail(MetricDecodeFailure, alg, err)
		return 0, err
	}

	m.metrics.Inc(MetricDecodeSuccess)
	if m.metrics.LatencyEnabled() {
		m.metrics.Observe(MetricDecodeLatency, time.Since(start))
	}
	return n, nil
}

func (m *Manager) decode(dst, token []byte) (Algorithm, int, error) {
	header, payload, signature, ok := splitToken(token)
	if !ok {
		return algorithmCount, 0, ErrMalformedToken
	}
	alg, ok := algorithmForHeader(header)
	if !ok {
		return algorithmCount, 0, ErrMalformedToken
	}
	s, err := m.resolve(alg)
	if err != nil {
		return alg, 0, err
	}
	if len(dst) < decodedLen(len(trimPadding(payload)))+1 {
		return alg, 0, ErrInsufficientBuffer
	}

	signed := token[:len(header)+1+len(payload)]
	var sig [maxSignatureSize]byte
	if err := s.signer.sign(&m.keys, signed, sig[:s.sigSize]); err != nil {
		return alg, 0, err
	}
	var expected [maxEncodedSigSize]byte
	en := encodeSegment(expected[:], sig[:s.sigSize])
	if subtle.ConstantTimeCompare(expected[:en], signature) != 1 {
		return alg, 0, ErrSignatureMismatch
	}

	n, err := writePayload(dst, payload)
	return alg, n, err
}

// writePayload decodes the payload segment into dst and terminates it.
func writePayload(dst, payload []byte) (int, error) {
	n, err := decodeSegment(dst, payload)
	if err != nil {
		return 0, fmt.Errorf("%w: payload: %v", ErrMalformedToken, err)
	}
	dst[n] = 0
	return n, nil
}

// DecodeString verifies token and returns its payload.
func (m *Manager) DecodeString(token string) (string, error) {
	tok := []byte(token)
	size, err := PayloadCapacity(tok)
	if err != nil {
		size = 0
	}
	buf := make([]byte, size)
	n, err := m.Decode(buf, tok)
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}
