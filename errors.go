package tinyjwt

import "errors"

var (
	// ErrMalformedToken is returned when a token does not have three non-empty
	// segments, carries an unknown header, or has an undecodable payload.
	ErrMalformedToken = errors.New("malformed token")
	// ErrUnsupportedAlgorithm is returned for RS256, unknown algorithms, and
	// algorithms not enabled in Config.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	// ErrSignatureMismatch is returned when the recomputed signature differs from
	// the token's signature segment.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrInsufficientBuffer is returned when the destination is smaller than the
	// capacity computed by TokenCapacity or PayloadCapacity.
	ErrInsufficientBuffer = errors.New("insufficient buffer")
	// ErrKeyNotConfigured is returned when the algorithm's key material was never set.
	ErrKeyNotConfigured = errors.New("key material not configured")
	// ErrInvalidPrivateKey is returned by SetPrivateKey for anything that is not a
	// 32-byte P-256 scalar in [1, n-1].
	ErrInvalidPrivateKey = errors.New("invalid ES256 private key")
)
