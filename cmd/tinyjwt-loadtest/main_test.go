package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/tinyjwt"
	"github.com/MrEthical07/tinyjwt/keysource"
)

func TestPercentile(t *testing.T) {
	samples := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := percentile(samples, 50); got != 5 {
		t.Fatalf("p50 = %d", got)
	}
	if got := percentile(samples, 100); got != 10 {
		t.Fatalf("p100 = %d", got)
	}
	if got := percentile(nil, 50); got != 0 {
		t.Fatalf("empty = %d", got)
	}
}

func TestPhasesRunAgainstSeededKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	store := keysource.NewStore(client, "lt")
	if err := seedKeys(ctx, store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	m, err := tinyjwt.New().WithMetricsEnabled(true).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := keysource.Configure(ctx, store, m); err != nil {
		t.Fatalf("configure: %v", err)
	}

	inputs := seedPayloads(8, 16)
	for _, alg := range []tinyjwt.Algorithm{tinyjwt.HS256, tinyjwt.ES256} {
		stats, err := runEncodePhase(ctx, m, alg, inputs, 50, 4)
		if err != nil || stats.ops != 50 || stats.failures != 0 {
			t.Fatalf("%s encode: %+v %v", alg, stats, err)
		}

		tokens := make([][]byte, len(inputs))
		for i, p := range inputs {
			buf := make([]byte, tinyjwt.TokenCapacity(len(p), alg))
			n, err := m.Encode(buf, p, alg)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			tokens[i] = buf[:n]
		}
		stats, err = runDecodePhase(ctx, m, tokens, 16, 50, 3)
		if err != nil || stats.ops != 50 || stats.failures != 0 {
			t.Fatalf("%s decode: %+v %v", alg, stats, err)
		}
	}
}
