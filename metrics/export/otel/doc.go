// Package otel binds tinyjwt counters and histograms to OpenTelemetry
// observable instruments.
//
// [NewOTelExporter] registers an Int64ObservableCounter per counter. The
// latency histogram becomes a _bucket gauge with an "le" attribute plus _count
// and _sum gauges. One callback reads
// [tinyjwt.Manager.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the MeterProvider. Callers supply the Meter.
//   - Mutate manager state.
package otel
