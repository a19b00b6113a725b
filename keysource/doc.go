// Package keysource stores tinyjwt key material in Redis and derives ES256
// private keys from a master secret.
//
// # Record encoding
//
// Each key is stored as a compact binary record (format v1): version byte, kind
// byte, creation time, then the length-prefixed material. Records with an
// unknown version or kind are rejected on read.
//
// # Active keys
//
// Every kind has one active key ID. Store.Activate stores a record and points
// the kind at it in a single round trip; Configure loads the active keys into a
// tinyjwt.Manager.
//
// # What this package must NOT do
//
//   - Log or wrap key material into error messages.
//   - Encode or decode tokens; that is the Manager's job.
package keysource
