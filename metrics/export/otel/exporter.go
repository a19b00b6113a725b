package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/MrEthical07/tinyjwt"
	"github.com/MrEthical07/tinyjwt/metrics/export/internaldefs"
)

var (
	// ErrNilMeter is returned when no meter is supplied.
	ErrNilMeter = errors.New("nil meter")
	// ErrNilSource is returned when no metrics source is supplied.
	ErrNilSource = errors.New("nil metrics source")
)

// MetricsSource is anything that can produce a metrics snapshot.
type MetricsSource interface {
	MetricsSnapshot() tinyjwt.MetricsSnapshot
}

// latencyInstruments exports one histogram as three gauges: cumulative bucket
// counts keyed by the "le" attribute, the sample count and the sum in seconds.
type latencyInstruments struct {
	id      tinyjwt.MetricID
	buckets metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
	sum     metric.Float64ObservableGauge
}

// OTelExporter publishes tinyjwt metrics through observable instruments.
type OTelExporter struct {
	source       MetricsSource
	registration metric.Registration
	counters     map[tinyjwt.MetricID]metric.Int64ObservableCounter
	histograms   []latencyInstruments
}

// NewOTelExporter registers instruments on meter that read from manager.
func NewOTelExporter(meter metric.Meter, manager *tinyjwt.Manager) (*OTelExporter, error) {
	if manager == nil {
		return nil, ErrNilSource
	}
	return NewOTelExporterFromSource(meter, manager)
}

// NewOTelExporterFromSource registers instruments on meter that read from source.
func NewOTelExporterFromSource(meter metric.Meter, source MetricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{
		source:   source,
		counters: make(map[tinyjwt.MetricID]metric.Int64ObservableCounter, len(internaldefs.CounterDefs)),
	}
	var observables []metric.Observable

	for _, def := range internaldefs.CounterDefs {
		c, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("counter %s: %w", def.Name, err)
		}
		e.counters[def.ID] = c
		observables = append(observables, c)
	}

	for _, def := range internaldefs.HistogramDefs {
		h, err := newLatencyInstruments(meter, def)
		if err != nil {
			return nil, err
		}
		e.histograms = append(e.histograms, h)
		observables = append(observables, h.buckets, h.count, h.sum)
	}

	reg, err := meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	e.registration = reg
	return e, nil
}

func newLatencyInstruments(meter metric.Meter, def internaldefs.HistogramDef) (latencyInstruments, error) {
	h := latencyInstruments{id: def.ID}
	var err error
	if h.buckets, err = meter.Int64ObservableGauge(def.Name+"_bucket",
		metric.WithDescription(def.Help+" Cumulative count per upper bound.")); err != nil {
		return h, fmt.Errorf("histogram %s buckets: %w", def.Name, err)
	}
	if h.count, err = meter.Int64ObservableGauge(def.Name+"_count",
		metric.WithDescription(def.Help+" Sample count.")); err != nil {
		return h, fmt.Errorf("histogram %s count: %w", def.Name, err)
	}
	if h.sum, err = meter.Float64ObservableGauge(def.Name+"_sum",
		metric.WithDescription(def.Help+" Total observed time."), metric.WithUnit("s")); err != nil {
		return h, fmt.Errorf("histogram %s sum: %w", def.Name, err)
	}
	return h, nil
}

func (e *OTelExporter) observe(_ context.Context, o metric.Observer) error {
	snap := e.source.MetricsSnapshot()
	for id, c := range e.counters {
		o.ObserveInt64(c, int64(snap.Counters[id]))
	}
	for _, h := range e.histograms {
		raw, ok := snap.Histograms[h.id]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		for i, le := range internaldefs.HistogramBounds {
			o.ObserveInt64(h.buckets, int64(cumulative[i]), metric.WithAttributes(attribute.String("le", le)))
		}
		o.ObserveInt64(h.count, int64(cumulative[len(cumulative)-1]))
		o.ObserveFloat64(h.sum, snap.Sums[h.id].Seconds())
	}
	return nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
