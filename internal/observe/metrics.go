// Package observe provides the OpenTelemetry metrics and tracing used across
// signbridge.
//
// Instruments are created from an explicit [metric.MeterProvider] with
// [NewMetrics]; [InitProvider] installs an SDK provider whose Prometheus
// exporter backs the /metrics endpoint. Tests should build their own
// provider around a manual reader.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ekisa-team/signbridge"

// Metrics holds the application's metric instruments. All fields are safe
// for concurrent use.
type Metrics struct {
	// ResolveOutcomes counts resolved tokens. Attribute: kind.
	ResolveOutcomes metric.Int64Counter

	// ComposeRequests counts composition requests. Attributes: strategy, status.
	ComposeRequests metric.Int64Counter

	// ToolchainDuration tracks external tool latency. Attributes: tool, status.
	ToolchainDuration metric.Float64Histogram

	// LibrarySigns is the number of indexed signs after the last refresh.
	LibrarySigns metric.Int64Gauge

	// LexiconSigns is the current lexicon size.
	LexiconSigns metric.Int64Gauge

	// HTTPRequestDuration tracks HTTP latency. Attributes: method, path, status.
	HTTPRequestDuration metric.Float64Histogram
}

// toolBuckets are sized for ffprobe (sub-second) up to crossfade encodes.
var toolBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120,
}

// NewMetrics creates every instrument from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.ResolveOutcomes, err = m.Int64Counter("signbridge.resolve.outcomes",
		metric.WithDescription("Resolved sign tokens by representation kind."),
	); err != nil {
		return nil, err
	}
	if met.ComposeRequests, err = m.Int64Counter("signbridge.compose.requests",
		metric.WithDescription("Sequence composition requests by strategy and status."),
	); err != nil {
		return nil, err
	}
	if met.ToolchainDuration, err = m.Float64Histogram("signbridge.toolchain.duration",
		metric.WithDescription("Latency of ffmpeg and ffprobe invocations."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(toolBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LibrarySigns, err = m.Int64Gauge("signbridge.library.signs",
		metric.WithDescription("Signs in the recorded video library."),
	); err != nil {
		return nil, err
	}
	if met.LexiconSigns, err = m.Int64Gauge("signbridge.lexicon.signs",
		metric.WithDescription("Signs in the gesture lexicon."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("signbridge.http.request.duration",
		metric.WithDescription("HTTP request latency by method, path and status."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// RecordResolve counts one resolved token.
func (m *Metrics) RecordResolve(ctx context.Context, kind string) {
	m.ResolveOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordCompose counts one composition request.
func (m *Metrics) RecordCompose(ctx context.Context, strategy, status string) {
	m.ComposeRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("strategy", strategy),
			attribute.String("status", status),
		),
	)
}

// RecordTool records one external tool invocation.
func (m *Metrics) RecordTool(ctx context.Context, tool string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ToolchainDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(
			attribute.String("tool", tool),
			attribute.String("status", status),
		),
	)
}

// RecordInventory publishes the library and lexicon sizes.
func (m *Metrics) RecordInventory(ctx context.Context, librarySigns, lexiconSigns int) {
	m.LibrarySigns.Record(ctx, int64(librarySigns))
	m.LexiconSigns.Record(ctx, int64(lexiconSigns))
}
