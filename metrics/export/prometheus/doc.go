// Package prometheus renders tinyjwt metrics in the Prometheus text exposition
// format.
//
// [NewPrometheusExporter] reads a [tinyjwt.Manager] and exposes an
// [http.Handler]. Counter names are prefixed tinyjwt_*_total; the single
// histogram is tinyjwt_decode_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global registry. Callers mount the Handler.
//   - Mutate manager state.
package prometheus
