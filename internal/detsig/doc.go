// Package detsig implements deterministic ECDSA signing over P-256 (RFC 6979).
//
// The HMAC-DRBG that derives the nonce is driven entirely through a
// [hashctx.Context]: HMAC is built on top of the context's Init/Update/Finish and
// its state lives in the context's scratch buffer. The signer is therefore not
// bound to a particular digest implementation.
package detsig
