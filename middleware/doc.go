// Package middleware exposes HTTP middleware that verifies bearer tokens with a
// tinyjwt.Manager.
//
// # Guards
//
//   - [Guard] verifies with the Manager's configured keys (Decode).
//   - [RequirePublic] verifies ES256 tokens against a public key (VerifyPublic).
//
// Each guard reads the Authorization header and injects the verified payload
// into the request context; handlers read it with [PayloadFromContext].
//
// # What this package must NOT do
//
//   - Parse or sign tokens directly (delegates to the Manager).
//   - Interpret the payload.
package middleware
