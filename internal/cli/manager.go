package cli

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/tinyjwt"
	"github.com/MrEthical07/tinyjwt/keysource"
)

// algorithms parses the configured algorithm names.
func (a *app) algorithms() ([]tinyjwt.Algorithm, error) {
	out := make([]tinyjwt.Algorithm, 0, len(a.cfg.Algorithms))
	for _, name := range a.cfg.Algorithms {
		alg, err := tinyjwt.ParseAlgorithm(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("algorithm %q: %w", name, err)
		}
		out = append(out, alg)
	}
	return out, nil
}

// keyStore opens the Redis key source, or returns nil when none is configured.
func (a *app) keyStore() (*keysource.Store, func()) {
	if a.cfg.Redis.Addr == "" {
		return nil, func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        a.cfg.Redis.Addr,
		DialTimeout: a.cfg.Redis.DialTimeout,
	})
	return keysource.NewStore(rdb, a.cfg.Redis.Prefix), func() { _ = rdb.Close() }
}

// buildManager assembles a Manager from Redis and the static key settings.
// Static settings override keys loaded from Redis.
func (a *app) buildManager(ctx context.Context) (*tinyjwt.Manager, error) {
	algs, err := a.algorithms()
	if err != nil {
		return nil, err
	}

	m, err := tinyjwt.New().
		WithAlgorithms(algs...).
		WithLogger(a.logger).
		WithMetricsEnabled(a.cfg.Metrics).
		Build()
	if err != nil {
		return nil, err
	}
	a.manager = m

	store, done := a.keyStore()
	defer done()
	if store != nil {
		err := keysource.Configure(ctx, store, m)
		switch {
		case err == nil:
			a.logger.Debug().Str("redis", a.cfg.Redis.Addr).Msg("key material loaded from redis")
		case errors.Is(err, keysource.ErrKeyNotFound):
			a.logger.Warn().Str("redis", a.cfg.Redis.Addr).Msg("no active keys in redis")
		default:
			return nil, err
		}
	}

	secret, err := a.sharedSecret()
	if err != nil {
		return nil, err
	}
	if secret != nil {
		m.SetSharedSecret(secret)
	}

	if a.cfg.PrivateKey != "" {
		key, err := hex.DecodeString(strings.TrimSpace(a.cfg.PrivateKey))
		if err != nil {
			return nil, fmt.Errorf("private_key: %w", tinyjwt.ErrInvalidPrivateKey)
		}
		if err := m.SetPrivateKey(key); err != nil {
			return nil, err
		}
	}

	for _, w := range m.Lint() {
		a.logger.Debug().Str("code", w.Code).Msg(w.Message)
	}
	return m, nil
}

func (a *app) sharedSecret() ([]byte, error) {
	if a.cfg.Secret != "" {
		return []byte(a.cfg.Secret), nil
	}
	if a.cfg.SecretFile == "" {
		return nil, nil
	}
	f, err := os.Open(a.cfg.SecretFile)
	if err != nil {
		return nil, fmt.Errorf("secret_file: %w", err)
	}
	defer f.Close()
	return readInput(f)
}
