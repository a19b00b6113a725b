package hashctx

import (
	"crypto/sha256"
	"hash"
)

// Context is the minimal streaming-hash capability required by the deterministic
// signer.
//
// Finish must write the digest into out before returning. out must be at least
// HashSize bytes long.
type Context interface {
	Init()
	Update(p []byte)
	Finish(out []byte)
	BlockSize() int
	HashSize() int
	// Scratch returns a buffer of exactly 2*HashSize()+BlockSize() bytes owned by
	// the context and reused across calls.
	Scratch() []byte
}

// ScratchSize returns the scratch length required for a hash with the given sizes.
func ScratchSize(hashSize, blockSize int) int {
	return 2*hashSize + blockSize
}

// SHA256 adapts crypto/sha256 to [Context].
type SHA256 struct {
	h      hash.Hash
	digest [sha256.Size]byte
	tmp    [2*sha256.Size + sha256.BlockSize]byte
}

var _ Context = (*SHA256)(nil)

// NewSHA256 returns an initialized SHA-256 context.
func NewSHA256() *SHA256 {
	return &SHA256{h: sha256.New()}
}

// Init resets the running digest.
func (c *SHA256) Init() {
	c.h.Reset()
}

// Update feeds p into the running digest.
func (c *SHA256) Update(p []byte) {
	_, _ = c.h.Write(p)
}

// Finish writes the SHA-256 digest of everything written since Init into out.
// If out is shorter than [sha256.Size] only the leading bytes are written.
func (c *SHA256) Finish(out []byte) {
	sum := c.h.Sum(c.digest[:0])
	copy(out, sum)
}

// BlockSize returns the SHA-256 block size in bytes.
func (c *SHA256) BlockSize() int { return sha256.BlockSize }

// HashSize returns the SHA-256 digest size in bytes.
func (c *SHA256) HashSize() int { return sha256.Size }

// Scratch returns the inline scratch buffer.
func (c *SHA256) Scratch() []byte { return c.tmp[:] }
