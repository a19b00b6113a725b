package internaldefs

import (
	"github.com/MrEthical07/tinyjwt"
)

// CounterDef binds a tinyjwt counter to its exported name.
type CounterDef struct {
	ID   tinyjwt.MetricID
	Name string
	Help string
}

// HistogramDef binds a tinyjwt histogram to its exported name.
type HistogramDef struct {
	ID   tinyjwt.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in output order.
var CounterDefs = []CounterDef{
	{ID: tinyjwt.MetricEncodeSuccess, Name: "tinyjwt_encode_success_total", Help: "Tokens written by Encode."},
	{ID: tinyjwt.MetricEncodeFailure, Name: "tinyjwt_encode_failure_total", Help: "Encode calls that returned an error."},
	{ID: tinyjwt.MetricDecodeSuccess, Name: "tinyjwt_decode_success_total", Help: "Tokens verified by Decode or VerifyPublic."},
	{ID: tinyjwt.MetricDecodeFailure, Name: "tinyjwt_decode_failure_total", Help: "Decode or VerifyPublic calls that returned an error."},
	{ID: tinyjwt.MetricSignatureMismatch, Name: "tinyjwt_signature_mismatch_total", Help: "Tokens whose signature did not verify."},
	{ID: tinyjwt.MetricMalformedToken, Name: "tinyjwt_malformed_token_total", Help: "Tokens rejected as malformed."},
	{ID: tinyjwt.MetricUnsupportedAlgorithm, Name: "tinyjwt_unsupported_algorithm_total", Help: "Operations rejected for an unsupported or disabled algorithm."},
	{ID: tinyjwt.MetricInsufficientBuffer, Name: "tinyjwt_insufficient_buffer_total", Help: "Operations rejected because the destination buffer was too small."},
	{ID: tinyjwt.MetricKeyNotConfigured, Name: "tinyjwt_key_not_configured_total", Help: "Operations attempted without key material."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: tinyjwt.MetricDecodeLatency, Name: "tinyjwt_decode_latency_seconds", Help: "Latency of successful Decode and VerifyPublic calls."},
}

// HistogramBounds are the upper bounds of the latency buckets, in seconds.
var HistogramBounds = []string{
	"0.000005",
	"0.00001",
	"0.000025",
	"0.00005",
	"0.0001",
	"0.00025",
	"0.0005",
	"+Inf",
}

// NormalizeBuckets copies raw into a fixed array, padding missing buckets with zero.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
