package tinyjwt

import (
	"crypto/sha256"
	"strings"

	"github.com/MrEthical07/tinyjwt/internal/detsig"
)

// Algorithm selects the token signing scheme.
type Algorithm uint8

const (
	// HS256 is HMAC-SHA256 keyed by the shared secret.
	HS256 Algorithm = iota
	// RS256 is reserved. Encode and Decode reject it with ErrUnsupportedAlgorithm.
	RS256
	// ES256 is deterministic ECDSA over P-256 with SHA-256.
	ES256

	algorithmCount
)

// Header constants are the unpadded base64url encoding of {"alg":"<name>","typ":"JWT"}.
const (
	headerHS256 = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"
	headerRS256 = "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9"
	headerES256 = "eyJhbGciOiJFUzI1NiIsInR5cCI6IkpXVCJ9"
)

const (
	rs256SignatureSize = 256 // RSA-2048 modulus
	maxSignatureSize   = rs256SignatureSize
	maxEncodedSigSize  = (maxSignatureSize*8 + 5) / 6
)

// scheme carries everything algorithm-specific; Encode and Decode resolve it once.
type scheme struct {
	name    string
	header  string
	sigSize int
	signer  signer
}

var schemes = [algorithmCount]scheme{
	HS256: {name: "HS256", header: headerHS256, sigSize: sha256.Size, signer: hmacSigner{}},
	RS256: {name: "RS256", header: headerRS256, sigSize: rs256SignatureSize, signer: unsupportedSigner{}},
	ES256: {name: "ES256", header: headerES256, sigSize: detsig.SignatureSize, signer: ecdsaSigner{}},
}

func (a Algorithm) scheme() (*scheme, bool) {
	if a >= algorithmCount {
		return nil, false
	}
	return &schemes[a], true
}

// String returns the JOSE name of the algorithm.
func (a Algorithm) String() string {
	if s, ok := a.scheme(); ok {
		return s.name
	}
	return "unknown"
}

// Header returns the encoded header constant for the algorithm, or "" if unknown.
func (a Algorithm) Header() string {
	if s, ok := a.scheme(); ok {
		return s.header
	}
	return ""
}

// SignatureSize returns the raw signature length in bytes, or 0 if unknown.
func (a Algorithm) SignatureSize() int {
	if s, ok := a.scheme(); ok {
		return s.sigSize
	}
	return 0
}

// ParseAlgorithm maps a JOSE algorithm name (case-insensitive) to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	for i := range schemes {
		if strings.EqualFold(name, schemes[i].name) {
			return Algorithm(i), nil
		}
	}
	return 0, ErrUnsupportedAlgorithm
}

// algorithmForHeader finds the algorithm whose header constant equals header.
func algorithmForHeader(header []byte) (Algorithm, bool) {
	for i := range schemes {
		if string(header) == schemes[i].header {
			return Algorithm(i), true
		}
	}
	return 0, false
}
