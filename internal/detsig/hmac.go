package detsig

import "github.com/MrEthical07/tinyjwt/hashctx"

const (
	ipad = 0x36
	opad = 0x5c
)

// padBlock returns the HMAC pad area of the scratch buffer.
func padBlock(ctx hashctx.Context) []byte {
	hs := ctx.HashSize()
	return ctx.Scratch()[2*hs : 2*hs+ctx.BlockSize()]
}

func fillPad(pad, key []byte, mask byte) {
	for i := range pad {
		b := mask
		if i < len(key) {
			b ^= key[i]
		}
		pad[i] = b
	}
}

// hmacInit starts HMAC_key; key must not exceed the block size.
func hmacInit(ctx hashctx.Context, key []byte) {
	pad := padBlock(ctx)
	fillPad(pad, key, ipad)
	ctx.Init()
	ctx.Update(pad)
}

// hmacFinish completes HMAC_key into result. key and result may alias.
func hmacFinish(ctx hashctx.Context, key, result []byte) {
	pad := padBlock(ctx)
	fillPad(pad, key, opad)
	hs := ctx.HashSize()
	ctx.Finish(result)
	ctx.Init()
	ctx.Update(pad)
	ctx.Update(result[:hs])
	ctx.Finish(result)
}

// updateV sets v = HMAC_k(v).
func updateV(ctx hashctx.Context, k, v []byte) {
	hmacInit(ctx, k)
	ctx.Update(v)
	hmacFinish(ctx, k, v)
}
