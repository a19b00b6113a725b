package tinyjwt

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/MrEthical07/tinyjwt/hashctx"
	"github.com/MrEthical07/tinyjwt/internal/detsig"
)

// keyMaterial borrows the caller's key buffers; they are never copied.
type keyMaterial struct {
	secret    []byte
	secretSet bool
	private   []byte
}

// signer computes the raw signature of msg into sig, which is exactly the
// scheme's signature size.
type signer interface {
	sign(keys *keyMaterial, msg, sig []byte) error
}

type hmacSigner struct{}

func (hmacSigner) sign(keys *keyMaterial, msg, sig []byte) error {
	if !keys.secretSet {
		return ErrKeyNotConfigured
	}
	mac := hmac.New(sha256.New, keys.secret)
	_, _ = mac.Write(msg)
	mac.Sum(sig[:0])
	return nil
}

type ecdsaSigner struct{}

func (ecdsaSigner) sign(keys *keyMaterial, msg, sig []byte) error {
	if keys.private == nil {
		return ErrKeyNotConfigured
	}
	ctx := hashctx.NewSHA256()
	var digest [sha256.Size]byte
	ctx.Init()
	ctx.Update(msg)
	ctx.Finish(digest[:])
	return detsig.Sign(keys.private, digest[:], ctx, sig)
}

type unsupportedSigner struct{}

func (unsupportedSigner) sign(*keyMaterial, []byte, []byte) error {
	return ErrUnsupportedAlgorithm
}
