package keysource

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Kind identifies what a stored key is used for.
type Kind uint8

const (
	// KindSharedSecret is an HS256 secret.
	KindSharedSecret Kind = iota + 1
	// KindPrivateKey is a 32-byte ES256 private scalar.
	KindPrivateKey
)

func (k Kind) String() string {
	switch k {
	case KindSharedSecret:
		return "secret"
	case KindPrivateKey:
		return "private"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind maps "secret" and "private" to their Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "secret":
		return KindSharedSecret, nil
	case "private":
		return KindPrivateKey, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) valid() bool {
	return k == KindSharedSecret || k == KindPrivateKey
}

const (
	recordFormatVersion = 1
	recordHeaderSize    = 1 + 1 + 8 + 2
	maxMaterialSize     = 1<<16 - 1
)

// ErrCorruptRecord is returned when a stored record cannot be decoded.
var ErrCorruptRecord = errors.New("key record corrupt")

// Record is a stored key.
type Record struct {
	Kind      Kind
	KeyID     string
	Material  []byte
	CreatedAt int64
}

func encodeRecord(r *Record) ([]byte, error) {
	if !r.Kind.valid() {
		return nil, ErrUnknownKind
	}
	if len(r.Material) > maxMaterialSize {
		return nil, errors.New("key material too large")
	}

	buf := make([]byte, recordHeaderSize, recordHeaderSize+len(r.Material))
	buf[0] = recordFormatVersion
	buf[1] = byte(r.Kind)
	binary.BigEndian.PutUint64(buf[2:10], uint64(r.CreatedAt))
	binary.BigEndian.PutUint16(buf[10:12], uint16(len(r.Material)))
	return append(buf, r.Material...), nil
}

func decodeRecord(kid string, data []byte) (*Record, error) {
	if len(data) < recordHeaderSize || data[0] != recordFormatVersion {
		return nil, ErrCorruptRecord
	}
	kind := Kind(data[1])
	if !kind.valid() {
		return nil, ErrCorruptRecord
	}
	n := int(binary.BigEndian.Uint16(data[10:12]))
	if len(data) != recordHeaderSize+n {
		return nil, ErrCorruptRecord
	}

	return &Record{
		Kind:      kind,
		KeyID:     kid,
		Material:  append([]byte(nil), data[recordHeaderSize:]...),
		CreatedAt: int64(binary.BigEndian.Uint64(data[2:10])),
	}, nil
}
