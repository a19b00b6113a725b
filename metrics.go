package tinyjwt

import (
	"errors"
	"sync/atomic"
	"time"
)

// MetricID identifies a counter or histogram.
type MetricID uint16

const (
	// MetricEncodeSuccess counts tokens written by Encode.
	MetricEncodeSuccess MetricID = iota
	// MetricEncodeFailure counts Encode calls that returned an error.
	MetricEncodeFailure
	// MetricDecodeSuccess counts verified tokens.
	MetricDecodeSuccess
	// MetricDecodeFailure counts Decode and VerifyPublic calls that returned an error.
	MetricDecodeFailure
	// MetricSignatureMismatch counts ErrSignatureMismatch results.
	MetricSignatureMismatch
	// MetricMalformedToken counts ErrMalformedToken results.
	MetricMalformedToken
	// MetricUnsupportedAlgorithm counts ErrUnsupportedAlgorithm results.
	MetricUnsupportedAlgorithm
	// MetricInsufficientBuffer counts ErrInsufficientBuffer results.
	MetricInsufficientBuffer
	// MetricKeyNotConfigured counts ErrKeyNotConfigured results.
	MetricKeyNotConfigured
	// MetricDecodeLatency is the decode latency histogram.
	MetricDecodeLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets  [histBucketCount]uint64
	sumNanos uint64
}

// latencyBounds are the inclusive upper bounds of the first seven buckets.
var latencyBounds = [histBucketCount - 1]time.Duration{
	5 * time.Microsecond,
	10 * time.Microsecond,
	25 * time.Microsecond,
	50 * time.Microsecond,
	100 * time.Microsecond,
	250 * time.Microsecond,
	500 * time.Microsecond,
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all counters and histograms.
// Sums holds the total observed duration of each histogram.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
	Sums       map[MetricID]time.Duration
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// NewMetrics never fails; a disabled configuration yields a Metrics that ignores updates.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the decode latency histogram is recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc describes the inc operation and its observable behavior.
//
// Inc is safe for concurrent use.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d into the histogram for id. Only MetricDecodeLatency has one.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricDecodeLatency {
		return
	}

	if d < 0 {
		d = 0
	}
	h := &m.histograms[id]
	atomic.AddUint64(&h.buckets[bucketIndex(d)], 1)
	atomic.AddUint64(&h.sumNanos, uint64(d))
}

// Value returns the current value of a counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot returns empty maps when metrics are disabled.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
			Sums:       map[MetricID]time.Duration{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
		Sums:       make(map[MetricID]time.Duration, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricDecodeLatency].buckets[i])
		}
		s.Histograms[MetricDecodeLatency] = buckets
		s.Sums[MetricDecodeLatency] = time.Duration(atomic.LoadUint64(&m.histograms[MetricDecodeLatency].sumNanos))
	}

	return s
}

// recordFailure bumps the operation failure counter and the per-error counter.
func (m *Metrics) recordFailure(op MetricID, err error) {
	m.Inc(op)
	switch {
	case errors.Is(err, ErrSignatureMismatch):
		m.Inc(MetricSignatureMismatch)
	case errors.Is(err, ErrMalformedToken):
		m.Inc(MetricMalformedToken)
	case errors.Is(err, ErrUnsupportedAlgorithm):
		m.Inc(MetricUnsupportedAlgorithm)
	case errors.Is(err, ErrInsufficientBuffer):
		m.Inc(MetricInsufficientBuffer)
	case errors.Is(err, ErrKeyNotConfigured):
		m.Inc(MetricKeyNotConfigured)
	}
}

// bucketIndex maps a latency to one of the buckets 5µs, 10µs, 25µs, 50µs,
// 100µs, 250µs, 500µs and +Inf. Bounds are inclusive.
func bucketIndex(d time.Duration) int {
	for i, bound := range latencyBounds {
		if d <= bound {
			return i
		}
	}
	return histBucketCount - 1
}
