package tinyjwt

import (
	"bytes"

	"github.com/segmentio/asm/base64"
)

var segmentEncoding = base64.RawURLEncoding

// encodedLen is the unpadded base64url length of n input bytes.
func encodedLen(n int) int {
	return segmentEncoding.EncodedLen(n)
}

// decodedLen is the decoded length of an unpadded base64url segment of n bytes.
func decodedLen(n int) int {
	return segmentEncoding.DecodedLen(n)
}

// encodeSegment writes the unpadded base64url form of src to dst and returns the
// number of bytes written. dst must hold encodedLen(len(src)) bytes.
func encodeSegment(dst, src []byte) int {
	n := encodedLen(len(src))
	segmentEncoding.Encode(dst[:n], src)
	return len(trimPadding(dst[:n]))
}

// decodeSegment decodes an unpadded (or '='-padded) base64url segment into dst.
func decodeSegment(dst, seg []byte) (int, error) {
	return segmentEncoding.Decode(dst, trimPadding(seg))
}

// trimPadding drops trailing '=' characters.
func trimPadding(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == '=' {
		b = b[:len(b)-1]
	}
	return b
}

// splitToken returns the three segments of header.payload.signature. ok is false
// unless there are exactly three segments with a non-empty header and
// signature. The payload segment is empty for a 0-length payload.
func splitToken(token []byte) (header, payload, signature []byte, ok bool) {
	i := bytes.IndexByte(token, '.')
	if i <= 0 {
		return nil, nil, nil, false
	}
	rest := token[i+1:]
	j := bytes.IndexByte(rest, '.')
	if j < 0 {
		return nil, nil, nil, false
	}
	header, payload, signature = token[:i], rest[:j], rest[j+1:]
	if len(signature) == 0 || bytes.IndexByte(signature, '.') >= 0 {
		return nil, nil, nil, false
	}
	return header, payload, signature, true
}

// payloadSegment returns the second segment, which may be empty. The token
// needs a non-empty header and a separator after it.
func payloadSegment(token []byte) ([]byte, bool) {
	i := bytes.IndexByte(token, '.')
	if i <= 0 {
		return nil, false
	}
	rest := token[i+1:]
	if j := bytes.IndexByte(rest, '.'); j >= 0 {
		rest = rest[:j]
	}
	return rest, true
}
