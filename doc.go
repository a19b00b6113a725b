// Package tinyjwt issues and verifies compact JSON Web Tokens into caller-owned,
// pre-sized buffers.
//
// Three schemes are defined: HS256 (HMAC-SHA256), ES256 (ECDSA P-256 with
// deterministic RFC 6979 nonces) and RS256, which is reserved and always rejected
// with [ErrUnsupportedAlgorithm].
//
// # Capacity contract
//
// Callers size buffers before every call: [TokenCapacity] for [Manager.Encode] and
// [PayloadCapacity] for [Manager.Decode]. Each returns the exact number of bytes
// the operation writes, including a trailing 0 terminator. A smaller destination
// fails with [ErrInsufficientBuffer]; the hot path never grows a buffer.
//
// # Key material
//
// [Manager.SetSharedSecret] and [Manager.SetPrivateKey] borrow the caller's slices.
// They are not copied or persisted; setting a key again replaces the reference.
//
// # What this package must NOT do
//
//   - Validate claims, expiry, or any JOSE header beyond the three fixed constants.
//   - Store tokens or perform I/O.
//   - Import keysource, the metric exporters, or the CLI (no import cycles).
package tinyjwt
