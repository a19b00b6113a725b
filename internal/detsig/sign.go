package detsig

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"math/big"

	"github.com/MrEthical07/tinyjwt/hashctx"
)

const (
	// ScalarSize is the byte length of a P-256 private key and of each of R and S.
	ScalarSize = 32
	// SignatureSize is the length of a raw R||S signature.
	SignatureSize = 2 * ScalarSize

	maxTries = 64
)

var (
	ErrInvalidPrivateKey = errors.New("detsig: invalid P-256 private key")
	ErrScratchTooSmall   = errors.New("detsig: hash context scratch too small")
	ErrShortSignature    = errors.New("detsig: signature buffer too small")
	ErrNonceExhausted    = errors.New("detsig: no usable nonce")
)

var curveOrder = elliptic.P256().Params().N

// ValidatePrivateKey reports whether priv is a 32-byte scalar in [1, n-1].
func ValidatePrivateKey(priv []byte) error {
	if len(priv) != ScalarSize {
		return ErrInvalidPrivateKey
	}
	d := new(big.Int).SetBytes(priv)
	if d.Sign() == 0 || d.Cmp(curveOrder) >= 0 {
		return ErrInvalidPrivateKey
	}
	return nil
}

// PublicKey derives the public point for priv.
func PublicKey(priv []byte) (*ecdsa.PublicKey, error) {
	if err := ValidatePrivateKey(priv); err != nil {
		return nil, err
	}
	key, err := ecdh.P256().NewPrivateKey(priv)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	point := key.PublicKey().Bytes()
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(point[1 : 1+ScalarSize]),
		Y:     new(big.Int).SetBytes(point[1+ScalarSize:]),
	}, nil
}

// Sign writes the deterministic signature of digest under priv into sig[:SignatureSize].
//
// ctx supplies the hash used by the nonce generator; it is reset by Sign and its
// scratch buffer is overwritten.
func Sign(priv, digest []byte, ctx hashctx.Context, sig []byte) error {
	if len(sig) < SignatureSize {
		return ErrShortSignature
	}
	if err := ValidatePrivateKey(priv); err != nil {
		return err
	}
	hs := ctx.HashSize()
	tmp := ctx.Scratch()
	if len(tmp) < hashctx.ScratchSize(hs, ctx.BlockSize()) {
		return ErrScratchTooSmall
	}

	d := new(big.Int).SetBytes(priv)

	var h1 [ScalarSize]byte
	bits2octets(digest, h1[:])

	k := tmp[:hs]
	v := tmp[hs : 2*hs]
	// V plus one separator byte; the byte overlaps the pad block, which has
	// already been absorbed by the time it is written.
	vs := tmp[hs : 2*hs+1]

	for i := range v {
		v[i] = 0x01
		k[i] = 0x00
	}

	for _, sep := range [2]byte{0x00, 0x01} {
		hmacInit(ctx, k)
		vs[hs] = sep
		ctx.Update(vs)
		ctx.Update(priv)
		ctx.Update(h1[:])
		hmacFinish(ctx, k, k)
		updateV(ctx, k, v)
	}

	var t [ScalarSize]byte
	for try := 0; try < maxTries; try++ {
		for n := 0; n < len(t); {
			updateV(ctx, k, v)
			n += copy(t[n:], v)
		}
		if signWithK(d, digest, t[:], sig) {
			return nil
		}

		hmacInit(ctx, k)
		vs[hs] = 0x00
		ctx.Update(vs)
		hmacFinish(ctx, k, k)
		updateV(ctx, k, v)
	}
	return ErrNonceExhausted
}

func signWithK(d *big.Int, digest, t, sig []byte) bool {
	k := new(big.Int).SetBytes(t)
	if k.Sign() == 0 || k.Cmp(curveOrder) >= 0 {
		return false
	}
	kp, err := ecdh.P256().NewPrivateKey(t)
	if err != nil {
		return false
	}
	point := kp.PublicKey().Bytes()

	r := new(big.Int).SetBytes(point[1 : 1+ScalarSize])
	r.Mod(r, curveOrder)
	if r.Sign() == 0 {
		return false
	}

	s := new(big.Int).Mul(r, d)
	s.Add(s, bits2int(digest))
	s.Mod(s, curveOrder)
	s.Mul(s, new(big.Int).ModInverse(k, curveOrder))
	s.Mod(s, curveOrder)
	if s.Sign() == 0 {
		return false
	}

	r.FillBytes(sig[:ScalarSize])
	s.FillBytes(sig[ScalarSize:SignatureSize])
	return true
}

// bits2int keeps the leftmost 256 bits of h.
func bits2int(h []byte) *big.Int {
	if len(h) > ScalarSize {
		h = h[:ScalarSize]
	}
	return new(big.Int).SetBytes(h)
}

func bits2octets(h, out []byte) {
	z := bits2int(h)
	if z.Cmp(curveOrder) >= 0 {
		z.Sub(z, curveOrder)
	}
	z.FillBytes(out)
}
