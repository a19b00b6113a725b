// Package internal groups the packages that are private to tinyjwt.
//
// # Sub-packages
//
//   - cli: the cobra command tree behind cmd/tinyjwt
//   - detsig: deterministic ECDSA P-256 signing over a hashctx.Context
//
// # What this package must NOT do
//
//   - Export types that appear in the public tinyjwt API.
package internal
