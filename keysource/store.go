package keysource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrKeyNotFound is returned when no record exists for the requested key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrRedisUnavailable wraps every Redis transport error.
	ErrRedisUnavailable = errors.New("redis unavailable")
	// ErrUnknownKind is returned for kinds other than KindSharedSecret and KindPrivateKey.
	ErrUnknownKind = errors.New("unknown key kind")
)

// activateScript stores the record and moves the active pointer in one step.
const activateScript = `
if tonumber(ARGV[2]) > 0 then
  redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
else
  redis.call("SET", KEYS[1], ARGV[1])
end
local previous = redis.call("GET", KEYS[2])
redis.call("SET", KEYS[2], ARGV[3])
if previous then
  return previous
end
return ""
`

var activateLua = redis.NewScript(activateScript)

// Store is a Redis-backed key store.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewStore creates a Store. prefix sets the Redis key namespace. On Redis
// Cluster the prefix must carry a hash tag such as "{tinyjwt}" so that
// Activate touches a single slot.
func NewStore(rdb redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "tinyjwt"
	}
	return &Store{
		redis:  rdb,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *Store) key(kind Kind, kid string) string {
	return s.prefix + ":key:" + kind.String() + ":" + kid
}

func (s *Store) activeKey(kind Kind) string {
	return s.prefix + ":active:" + kind.String()
}

// Put stores material under kid. A zero ttl keeps the key until Delete.
func (s *Store) Put(ctx context.Context, kind Kind, kid string, material []byte, ttl time.Duration) error {
	data, err := s.encode(kind, kid, material)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.key(kind, kid), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Activate stores material under kid and makes it the active key for kind.
// It returns the previously active key ID, or "" if there was none.
func (s *Store) Activate(ctx context.Context, kind Kind, kid string, material []byte, ttl time.Duration) (string, error) {
	data, err := s.encode(kind, kid, material)
	if err != nil {
		return "", err
	}

	res, err := activateLua.Run(
		ctx,
		s.redis,
		[]string{s.key(kind, kid), s.activeKey(kind)},
		data, ttl.Milliseconds(), kid,
	).Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return res, nil
}

func (s *Store) encode(kind Kind, kid string, material []byte) ([]byte, error) {
	if kid == "" {
		return nil, errors.New("empty key id")
	}
	return encodeRecord(&Record{
		Kind:      kind,
		KeyID:     kid,
		Material:  material,
		CreatedAt: s.now().Unix(),
	})
}

// Get loads the record stored under kid.
func (s *Store) Get(ctx context.Context, kind Kind, kid string) (*Record, error) {
	if !kind.valid() {
		return nil, ErrUnknownKind
	}
	data, err := s.redis.Get(ctx, s.key(kind, kid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	rec, err := decodeRecord(kid, data)
	if err != nil {
		return nil, err
	}
	if rec.Kind != kind {
		return nil, ErrCorruptRecord
	}
	return rec, nil
}

// Active returns the key ID currently active for kind.
func (s *Store) Active(ctx context.Context, kind Kind) (string, error) {
	if !kind.valid() {
		return "", ErrUnknownKind
	}
	kid, err := s.redis.Get(ctx, s.activeKey(kind)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return kid, nil
}

// GetActive loads the active record for kind.
func (s *Store) GetActive(ctx context.Context, kind Kind) (*Record, error) {
	kid, err := s.Active(ctx, kind)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, kind, kid)
}

// Delete removes kid. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, kind Kind, kid string) error {
	if !kind.valid() {
		return ErrUnknownKind
	}
	if err := s.redis.Del(ctx, s.key(kind, kid)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping checks Redis connectivity and returns the round-trip latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
