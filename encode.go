package tinyjwt

// Encode writes header.payload.signature for payload into dst followed by a 0
// terminator and returns the token length (excluding the terminator).
//
// dst must be at least TokenCapacity(len(payload), alg) bytes. Encode does not
// allocate for the token; on error the contents of dst are unspecified.
func (m *Manager) Encode(dst, payload []byte, alg Algorithm) (int, error) {
	n, err := m.encode(dst, payload, alg)
	if err != nil {
		m.fail(MetricEncodeFailure, alg, err)
		return 0, err
	}
	m.metrics.Inc(MetricEncodeSuccess)
	return n, nil
}

func (m *Manager) encode(dst, payload []byte, alg Algorithm) (int, error) {
	s, err := m.resolve(alg)
	if err != nil {
		return 0, err
	}
	if len(dst) < TokenCapacity(len(payload), alg) {
		return 0, ErrInsufficientBuffer
	}

	n := copy(dst, s.header)
	dst[n] = '.'
	n++
	n += encodeSegment(dst[n:], payload)

	var sig [maxSignatureSize]byte
	if err := s.signer.sign(&m.keys, dst[:n], sig[:s.sigSize]); err != nil {
		return 0, err
	}

	dst[n] = '.'
	n++
	n += encodeSegment(dst[n:], sig[:s.sigSize])
	dst[n] = 0
	return n, nil
}

// EncodeToString sizes a buffer with TokenCapacity and returns the token.
func (m *Manager) EncodeToString(payload []byte, alg Algorithm) (string, error) {
	buf := make([]byte, TokenCapacity(len(payload), alg))
	n, err := m.Encode(buf, payload, alg)
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}
