package prometheus

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MrEthical07/tinyjwt"
	"github.com/MrEthical07/tinyjwt/metrics/export/internaldefs"
)

const contentType = "text/plain; version=0.0.4; charset=utf-8"

// MetricsSource is anything that can produce a metrics snapshot.
type MetricsSource interface {
	MetricsSnapshot() tinyjwt.MetricsSnapshot
}

// PrometheusExporter renders tinyjwt metrics in Prometheus text exposition format.
type PrometheusExporter struct {
	source MetricsSource
}

// NewPrometheusExporter creates an exporter that reads from manager.
func NewPrometheusExporter(manager *tinyjwt.Manager) *PrometheusExporter {
	return &PrometheusExporter{source: manager}
}

// NewPrometheusExporterFromSource creates an exporter from a custom [MetricsSource].
func NewPrometheusExporterFromSource(source MetricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

// Handler serves Render on every request.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render returns the current metrics in Prometheus text exposition format. It
// returns "" when metrics are disabled.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snap := p.source.MetricsSnapshot()
	if len(snap.Counters) == 0 && len(snap.Histograms) == 0 {
		return ""
	}

	var w textWriter
	for _, def := range internaldefs.CounterDefs {
		w.family(def.Name, def.Help, "counter")
		w.sample(def.Name, "", strconv.FormatUint(snap.Counters[def.ID], 10))
	}
	for _, def := range internaldefs.HistogramDefs {
		raw, ok := snap.Histograms[def.ID]
		if !ok {
			continue
		}
		w.histogram(def, internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw)), snap.Sums[def.ID])
	}
	return w.String()
}

// textWriter accumulates exposition lines.
type textWriter struct {
	strings.Builder
}

func (w *textWriter) family(name, help, kind string) {
	w.WriteString("# HELP " + name + " " + escapeHelp(help) + "\n")
	w.WriteString("# TYPE " + name + " " + kind + "\n")
}

func (w *textWriter) sample(name, labels, value string) {
	w.WriteString(name)
	if labels != "" {
		w.WriteString("{" + labels + "}")
	}
	w.WriteString(" " + value + "\n")
}

func (w *textWriter) histogram(def internaldefs.HistogramDef, cumulative [8]uint64, sum time.Duration) {
	w.family(def.Name, def.Help, "histogram")
	for i, le := range internaldefs.HistogramBounds {
		w.sample(def.Name+"_bucket", `le="`+le+`"`, strconv.FormatUint(cumulative[i], 10))
	}
	w.sample(def.Name+"_sum", "", strconv.FormatFloat(sum.Seconds(), 'g', -1, 64))
	w.sample(def.Name+"_count", "", strconv.FormatUint(cumulative[len(cumulative)-1], 10))
}

func escapeHelp(help string) string {
	return strings.NewReplacer(`\`, `\\`, "\n", `\n`).Replace(help)
}
