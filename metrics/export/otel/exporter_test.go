package otel

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/MrEthical07/tinyjwt"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot tinyjwt.MetricsSnapshot
}

func (f *fakeSource) MetricsSnapshot() tinyjwt.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := tinyjwt.MetricsSnapshot{
		Counters:   make(map[tinyjwt.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[tinyjwt.MetricID][]uint64, len(f.snapshot.Histograms)),
		Sums:       make(map[tinyjwt.MetricID]time.Duration, len(f.snapshot.Sums)),
	}
	for k, v := range f.snapshot.Sums {
		out.Sums[k] = v
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		next := make([]uint64, len(buckets))
		copy(next, buckets)
		out.Histograms[k] = next
	}
	return out
}

func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

func findSum(rm metricdata.ResourceMetrics, name string) (int64, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok && len(sum.DataPoints) > 0 {
				return sum.DataPoints[0].Value, true
			}
		}
	}
	return 0, false
}

func findGauge(rm metricdata.ResourceMetrics, name string) (metricdata.Aggregation, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m.Data, true
			}
		}
	}
	return nil, false
}

func TestExporterLatencyHistogram(t *testing.T) {
	reader, provider := newTestMeter(t)

	src := &fakeSource{
		snapshot: tinyjwt.MetricsSnapshot{
			Counters: map[tinyjwt.MetricID]uint64{},
			Histograms: map[tinyjwt.MetricID][]uint64{
				tinyjwt.MetricDecodeLatency: {2, 0, 1, 0, 0, 0, 0, 1},
			},
			Sums: map[tinyjwt.MetricID]time.Duration{
				tinyjwt.MetricDecodeLatency: 2 * time.Millisecond,
			},
		},
	}
	exp, err := NewOTelExporterFromSource(provider.Meter("tinyjwt-test"), src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer exp.Close()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	data, ok := findGauge(rm, "tinyjwt_decode_latency_seconds_bucket")
	if !ok {
		t.Fatal("bucket gauge not collected")
	}
	buckets, ok := data.(metricdata.Gauge[int64])
	if !ok {
		t.Fatalf("unexpected bucket data %T", data)
	}
	byBound := map[string]int64{}
	for _, dp := range buckets.DataPoints {
		le, _ := dp.Attributes.Value(attribute.Key("le"))
		byBound[le.AsString()] = dp.Value
	}
	if len(byBound) != 8 || byBound["0.000005"] != 2 || byBound["0.000025"] != 3 || byBound["+Inf"] != 4 {
		t.Fatalf("unexpected buckets %v", byBound)
	}

	data, _ = findGauge(rm, "tinyjwt_decode_latency_seconds_count")
	if count, ok := data.(metricdata.Gauge[int64]); !ok || count.DataPoints[0].Value != 4 {
		t.Fatalf("unexpected count %#v", data)
	}
	data, _ = findGauge(rm, "tinyjwt_decode_latency_seconds_sum")
	if sum, ok := data.(metricdata.Gauge[float64]); !ok || sum.DataPoints[0].Value != 0.002 {
		t.Fatalf("unexpected sum %#v", data)
	}
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader, provider := newTestMeter(t)
	meter := provider.Meter("tinyjwt-test")

	src := &fakeSource{
		snapshot: tinyjwt.MetricsSnapshot{
			Counters: map[tinyjwt.MetricID]uint64{
				tinyjwt.MetricEncodeSuccess: 3,
			},
			Histograms: map[tinyjwt.MetricID][]uint64{
				tinyjwt.MetricDecodeLatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("expected collected metrics, got none")
	}
	if v, ok := findSum(rm, "tinyjwt_encode_success_total"); !ok || v != 3 {
		t.Fatalf("expected encode success 3, got %d (found=%v)", v, ok)
	}
}

func TestExporterReadsManager(t *testing.T) {
	reader, provider := newTestMeter(t)

	m, err := tinyjwt.New().WithSharedSecret([]byte("k")).WithMetricsEnabled(true).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, _ = m.Decode(make([]byte, 4), []byte("not-a-token"))

	exp, err := NewOTelExporter(provider.Meter("tinyjwt-test"), m)
	if err != nil {
		t.Fatalf("NewOTelExporter failed: %v", err)
	}
	defer exp.Close()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if v, ok := findSum(rm, "tinyjwt_malformed_token_total"); !ok || v != 1 {
		t.Fatalf("expected malformed token 1, got %d (found=%v)", v, ok)
	}
}

func TestExporterRejectsNilSource(t *testing.T) {
	_, provider := newTestMeter(t)
	meter := provider.Meter("tinyjwt-test")

	if _, err := NewOTelExporterFromSource(meter, nil); err == nil {
		t.Fatal("expected error for nil source")
	}
	if _, err := NewOTelExporter(meter, nil); err == nil {
		t.Fatal("expected error for nil manager")
	}
	if _, err := NewOTelExporterFromSource(nil, &fakeSource{}); err == nil {
		t.Fatal("expected error for nil meter")
	}
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader, provider := newTestMeter(t)
	meter := provider.Meter("tinyjwt-test")

	src := &fakeSource{
		snapshot: tinyjwt.MetricsSnapshot{
			Counters: map[tinyjwt.MetricID]uint64{
				tinyjwt.MetricEncodeSuccess: 1,
			},
			Histograms: map[tinyjwt.MetricID][]uint64{
				tinyjwt.MetricDecodeLatency: {1, 0, 0, 0, 0, 0, 0, 0},
			},
		},
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[tinyjwt.MetricEncodeSuccess] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}
