package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"golang.org/x/sync/errgroup"

	"github.com/MrEthical07/tinyjwt"
	"github.com/MrEthical07/tinyjwt/keysource"
	"github.com/MrEthical07/tinyjwt/metrics/export/otel"
	"github.com/MrEthical07/tinyjwt/metrics/export/prometheus"
)

func main() {
	var (
		payloads    = flag.Int("payloads", 1000, "number of distinct payloads to seed")
		payloadSize = flag.Int("payload-size", 64, "payload length in bytes")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (encode + decode)")
		algName     = flag.String("alg", "HS256", "algorithm (HS256 or ES256)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "tinyjwt", "key source prefix")
		promOut     = flag.Bool("prometheus", false, "print Prometheus metrics after the run")
		otelOut     = flag.Bool("otel", false, "collect metrics through OpenTelemetry after the run")
	)
	flag.Parse()

	if *payloads <= 0 || *payloadSize <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "payloads, payload-size, concurrency, and ops must be > 0")
		os.Exit(2)
	}
	alg, err := tinyjwt.ParseAlgorithm(*algName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alg: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	store := keysource.NewStore(client, *prefix)
	if err := seedKeys(ctx, store); err != nil {
		fmt.Fprintf(os.Stderr, "seed keys failed: %v\n", err)
		os.Exit(1)
	}

	manager, err := tinyjwt.New().
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build manager: %v\n", err)
		os.Exit(1)
	}
	if err := keysource.Configure(ctx, store, manager); err != nil {
		fmt.Fprintf(os.Stderr, "configure keys: %v\n", err)
		os.Exit(1)
	}

	inputs := seedPayloads(*payloads, *payloadSize)
	tokens := make([][]byte, len(inputs))
	fmt.Printf("encoding %d seed tokens...\n", len(inputs))
	startSeed := time.Now()
	for i, p := range inputs {
		buf := make([]byte, tinyjwt.TokenCapacity(len(p), alg))
		n, err := manager.Encode(buf, p, alg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "encode failed: %v\n", err)
			os.Exit(1)
		}
		tokens[i] = buf[:n]
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	encodeStats, err := runEncodePhase(ctx, manager, alg, inputs, *ops, *concurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode phase: %v\n", err)
		os.Exit(1)
	}
	decodeStats, err := runDecodePhase(ctx, manager, tokens, *payloadSize, *ops, *concurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode phase: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("---- results ----")
	printStats("encode", encodeStats)
	printStats("decode", decodeStats)

	if *promOut {
		fmt.Println("---- prometheus ----")
		fmt.Print(prometheus.NewPrometheusExporter(manager).Render())
	}
	if *otelOut {
		if err := printOTel(ctx, manager); err != nil {
			fmt.Fprintf(os.Stderr, "otel: %v\n", err)
			os.Exit(1)
		}
	}
}

func seedKeys(ctx context.Context, store *keysource.Store) error {
	secret := make([]byte, 32)
	for i := range secret {
		secret[i] = byte(i*7 + 3)
	}
	if _, err := store.Activate(ctx, keysource.KindSharedSecret, keysource.NewKeyID(), secret, 0); err != nil {
		return err
	}
	private, err := keysource.DerivePrivateKey(secret, []byte("loadtest"))
	if err != nil {
		return err
	}
	_, err = store.Activate(ctx, keysource.KindPrivateKey, keysource.NewKeyID(), private, 0)
	return err
}

func seedPayloads(count, size int) [][]byte {
	out := make([][]byte, count)
	for i := range out {
		p := make([]byte, size)
		for j := range p {
			p[j] = 'a' + byte((i+j*17)%26)
		}
		out[i] = p
	}
	return out
}

// runPhase splits ops across workers. Each worker keeps its own samples so the
// hot loop takes no locks.
func runPhase(ctx context.Context, ops, concurrency int, seed int64, op func(worker int, r *rand.Rand) error) (phaseStats, error) {
	perWorker := make([][]time.Duration, concurrency)
	failures := make([]int64, concurrency)

	g, _ := errgroup.WithContext(ctx)
	start := time.Now()
	for w := 0; w < concurrency; w++ {
		n := ops / concurrency
		if w < ops%concurrency {
			n++
		}
		g.Go(func() error {
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(w)*seed))
			samples := make([]time.Duration, 0, n)
			for i := 0; i < n; i++ {
				t0 := time.Now()
				err := op(w, r)
				samples = append(samples, time.Since(t0))
				if err != nil {
					failures[w]++
				}
			}
			perWorker[w] = samples
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return phaseStats{}, err
	}
	total := time.Since(start)

	latencies := make([]time.Duration, 0, ops)
	var failed int64
	for w := range perWorker {
		latencies = append(latencies, perWorker[w]...)
		failed += failures[w]
	}
	return computeStats(total, latencies, failed), nil
}

func runEncodePhase(ctx context.Context, m *tinyjwt.Manager, alg tinyjwt.Algorithm, inputs [][]byte, ops, concurrency int) (phaseStats, error) {
	maxLen := 0
	for _, p := range inputs {
		maxLen = max(maxLen, len(p))
	}
	bufs := make([][]byte, concurrency)
	for w := range bufs {
		bufs[w] = make([]byte, tinyjwt.TokenCapacity(maxLen, alg))
	}

	return runPhase(ctx, ops, concurrency, 7919, func(w int, r *rand.Rand) error {
		_, err := m.Encode(bufs[w], inputs[r.Intn(len(inputs))], alg)
		return err
	})
}

func runDecodePhase(ctx context.Context, m *tinyjwt.Manager, tokens [][]byte, payloadSize, ops, concurrency int) (phaseStats, error) {
	bufs := make([][]byte, concurrency)
	for w := range bufs {
		bufs[w] = make([]byte, payloadSize+1)
	}

	return runPhase(ctx, ops, concurrency, 6151, func(w int, r *rand.Rand) error {
		_, err := m.Decode(bufs[w], tokens[r.Intn(len(tokens))])
		return err
	})
}

func printOTel(ctx context.Context, m *tinyjwt.Manager) error {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(ctx) }()

	exp, err := otel.NewOTelExporter(provider.Meter("tinyjwt-loadtest"), m)
	if err != nil {
		return err
	}
	defer exp.Close()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return err
	}

	fmt.Println("---- otel ----")
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			switch data := metric.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					fmt.Printf("%s %d\n", metric.Name, dp.Value)
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					if le, ok := dp.Attributes.Value("le"); ok {
						fmt.Printf("%s{le=%q} %d\n", metric.Name, le.AsString(), dp.Value)
						continue
					}
					fmt.Printf("%s %d\n", metric.Name, dp.Value)
				}
			case metricdata.Gauge[float64]:
				for _, dp := range data.DataPoints {
					fmt.Printf("%s %g\n", metric.Name, dp.Value)
				}
			}
		}
	}
	return nil
}
