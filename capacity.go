package tinyjwt

// TokenCapacity returns the exact buffer size Encode needs for a payload of
// payloadLen bytes: header, two separators, both encoded segments and the 0
// terminator. It returns 0 for an unknown algorithm.
func TokenCapacity(payloadLen int, alg Algorithm) int {
	s, ok := alg.scheme()
	if !ok || payloadLen < 0 {
		return 0
	}
	return len(s.header) + encodedLen(payloadLen) + encodedLen(s.sigSize) + 3
}

// PayloadCapacity returns the exact buffer size Decode needs for token's payload,
// including the 0 terminator.
func PayloadCapacity(token []byte) (int, error) {
	seg, ok := payloadSegment(token)
	if !ok {
		return 0, ErrMalformedToken
	}
	return decodedLen(len(trimPadding(seg))) + 1, nil
}
