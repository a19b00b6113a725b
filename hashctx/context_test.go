package hashctx

import (
	"bytes"
	"crypto/sha256"
	"testing"
)

func TestSHA256FinishWritesDigestIntoCallerBuffer(t *testing.T) {
	c := NewSHA256()
	c.Init()
	c.Update([]byte("header."))
	c.Update([]byte("payload"))

	out := make([]byte, sha256.Size)
	c.Finish(out)

	want := sha256.Sum256([]byte("header.payload"))
	if !bytes.Equal(out, want[:]) {
		t.Fatalf("digest not written through: got %x want %x", out, want)
	}
}

func TestSHA256InitResetsState(t *testing.T) {
	c := NewSHA256()
	c.Init()
	c.Update([]byte("garbage"))
	c.Init()
	c.Update([]byte("abc"))

	var out [sha256.Size]byte
	c.Finish(out[:])

	want := sha256.Sum256([]byte("abc"))
	if out != want {
		t.Fatalf("expected reset digest %x, got %x", want, out)
	}
}

func TestSHA256FinishShortBufferWritesPrefix(t *testing.T) {
	c := NewSHA256()
	c.Init()
	c.Update([]byte("abc"))

	out := make([]byte, 4)
	c.Finish(out)

	want := sha256.Sum256([]byte("abc"))
	if !bytes.Equal(out, want[:4]) {
		t.Fatalf("expected prefix %x, got %x", want[:4], out)
	}
}

func TestSHA256Sizes(t *testing.T) {
	c := NewSHA256()
	if c.HashSize() != 32 || c.BlockSize() != 64 {
		t.Fatalf("unexpected sizes hash=%d block=%d", c.HashSize(), c.BlockSize())
	}
	if got, want := len(c.Scratch()), ScratchSize(c.HashSize(), c.BlockSize()); got != want {
		t.Fatalf("scratch length %d, want %d", got, want)
	}
}

func TestSHA256ScratchIsStable(t *testing.T) {
	c := NewSHA256()
	a := c.Scratch()
	a[0] = 0xAA
	if b := c.Scratch(); b[0] != 0xAA {
		t.Fatal("scratch must be the same buffer across calls")
	}
}
