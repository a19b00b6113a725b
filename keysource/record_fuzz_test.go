package keysource

import (
	"bytes"
	"testing"
)

// FuzzDecodeRecord checks that arbitrary stored bytes never panic the decoder
// and that accepted records re-encode to the same bytes.
func FuzzDecodeRecord(f *testing.F) {
	valid, err := encodeRecord(&Record{Kind: KindPrivateKey, Material: bytes.Repeat([]byte{7}, 32), CreatedAt: 1700000000})
	if err == nil {
		f.Add(valid)
		f.Add(valid[:len(valid)-1])
	}
	f.Add([]byte{})
	f.Add([]byte{1})
	f.Add([]byte{1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	f.Add([]byte{2, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})

	f.Fuzz(func(t *testing.T, data []byte) {
		rec, err := decodeRecord("kid", data)
		if err != nil {
			return
		}
		again, err := encodeRecord(rec)
		if err != nil {
			t.Fatalf("re-encode accepted record: %v", err)
		}
		if !bytes.Equal(again, data) {
			t.Fatalf("re-encoded record differs: %x vs %x", again, data)
		}
	})
}
