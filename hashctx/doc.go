// Package hashctx defines the hash-context contract consumed by the deterministic
// ECDSA signer and provides the SHA-256 implementation used for ES256.
//
// A [Context] is a resettable streaming hash plus a caller-visible scratch buffer of
// 2*HashSize+BlockSize bytes. The signer keeps its HMAC-DRBG state (K, V and the
// HMAC pad block) in that scratch, so a Context never allocates during signing.
//
// # What this package must NOT do
//
//   - Hold key material or signing state beyond the current hash computation.
//   - Import tinyjwt or any signer package.
package hashctx
