package tinyjwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"testing"
)

const testPrivateKeyHex = "C9AFA9D845BA75166B5C215767B1D6934E50C3DB36E89B127B8A622B120F6721"

func testPrivateKey(t testing.TB) []byte {
	t.Helper()
	b, err := hex.DecodeString(testPrivateKeyHex)
	if err != nil {
		t.Fatalf("decode key: %v", err)
	}
	return b
}

func randomPrivateKey(t testing.TB) (*ecdsa.PrivateKey, []byte) {
	t.Helper()
	k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return k, k.D.FillBytes(make([]byte, 32))
}

func newTestManager(t testing.TB, secret string) *Manager {
	t.Helper()
	m, err := New().
		WithSharedSecret([]byte(secret)).
		WithPrivateKey(testPrivateKey(t)).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("build manager: %v", err)
	}
	return m
}

func mustEncode(t testing.TB, m *Manager, payload []byte, alg Algorithm) []byte {
	t.Helper()
	buf := make([]byte, TokenCapacity(len(payload), alg))
	n, err := m.Encode(buf, payload, alg)
	if err != nil {
		t.Fatalf("encode %s: %v", alg, err)
	}
	return buf[:n]
}

func mustDecode(t testing.TB, m *Manager, token []byte) []byte {
	t.Helper()
	size, err := PayloadCapacity(token)
	if err != nil {
		t.Fatalf("payload capacity: %v", err)
	}
	buf := make([]byte, size)
	n, err := m.Decode(buf, token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return buf[:n]
}

func payloadOfLen(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i*31 + 7)
	}
	return p
}
