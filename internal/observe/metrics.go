// Package observe provides application-wide observability primitives for
// the prescription-extraction pipeline: OpenTelemetry metrics, distributed
// tracing, structured logging, and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/MrWong99/glyphoxa"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// TranscriptionDuration tracks ASR transcription latency, one
	// observation per tier attempted. Use with attribute.Int("tier", ...).
	TranscriptionDuration metric.Float64Histogram

	// ExtractionDuration tracks extractor latency (LLM, rules, or
	// ensemble). Use with attribute.String("method", ...).
	ExtractionDuration metric.Float64Histogram

	// PipelineDuration tracks end-to-end wall time for one invocation.
	PipelineDuration metric.Float64Histogram

	// --- Counters ---

	// InvocationsTotal counts pipeline invocations. Use with attribute:
	//   attribute.String("outcome", "success"|"failure")
	InvocationsTotal metric.Int64Counter

	// ExtractionMethodTotal counts invocations by the extractor that
	// ultimately produced the prescription. Use with attribute:
	//   attribute.String("method", "llm"|"rules"|"ensemble")
	ExtractionMethodTotal metric.Int64Counter

	// RouteDecisionsTotal counts Router decisions. Use with attribute:
	//   attribute.String("strategy", ...)
	RouteDecisionsTotal metric.Int64Counter

	// LanguageTotal counts invocations by decided language. Use with
	// attribute.String("language", "en"|"ta"|"thanglish"|"ar"|"mixed").
	LanguageTotal metric.Int64Counter

	// TranscriptionTierTotal counts invocations by the ASR tier that
	// produced the final transcript. Use with attribute.Int("tier", ...).
	TranscriptionTierTotal metric.Int64Counter

	// --- Error counters ---

	// ValidationIssuesTotal counts Validator findings. Use with
	// attribute.String("severity", "error"|"warning").
	ValidationIssuesTotal metric.Int64Counter

	// PipelineErrorsTotal counts pipeline-stage failures. Use with
	// attribute.String("kind", ...) (a types.ErrorKind value).
	PipelineErrorsTotal metric.Int64Counter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time for the
	// admin/metrics-export surface. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) optimised
// for per-invocation pipeline latencies (ASR and LLM calls dominate, both
// typically in the 0.5s-30s range).
var latencyBuckets = []float64{
	0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.TranscriptionDuration, err = m.Float64Histogram("glyphoxa.transcription.duration",
		metric.WithDescription("Latency of one ASR tier attempt."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ExtractionDuration, err = m.Float64Histogram("glyphoxa.extraction.duration",
		metric.WithDescription("Latency of the selected extractor (LLM, rules, or ensemble)."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.PipelineDuration, err = m.Float64Histogram("glyphoxa.pipeline.duration",
		metric.WithDescription("End-to-end wall time for one pipeline invocation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.InvocationsTotal, err = m.Int64Counter("glyphoxa.invocations.total",
		metric.WithDescription("Total pipeline invocations by outcome."),
	); err != nil {
		return nil, err
	}
	if met.ExtractionMethodTotal, err = m.Int64Counter("glyphoxa.extraction_method.total",
		metric.WithDescription("Total invocations by the extractor that produced the prescription."),
	); err != nil {
		return nil, err
	}
	if met.RouteDecisionsTotal, err = m.Int64Counter("glyphoxa.route_decisions.total",
		metric.WithDescription("Total Router decisions by strategy."),
	); err != nil {
		return nil, err
	}
	if met.LanguageTotal, err = m.Int64Counter("glyphoxa.language.total",
		metric.WithDescription("Total invocations by decided language."),
	); err != nil {
		return nil, err
	}
	if met.TranscriptionTierTotal, err = m.Int64Counter("glyphoxa.transcription_tier.total",
		metric.WithDescription("Total invocations by the ASR tier that produced the final transcript."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.ValidationIssuesTotal, err = m.Int64Counter("glyphoxa.validation_issues.total",
		metric.WithDescription("Total Validator findings by severity."),
	); err != nil {
		return nil, err
	}
	if met.PipelineErrorsTotal, err = m.Int64Counter("glyphoxa.pipeline_errors.total",
		metric.WithDescription("Total pipeline-stage failures by error kind."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("glyphoxa.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordInvocation is a convenience method that records a pipeline
// invocation outcome.
func (m *Metrics) RecordInvocation(ctx context.Context, outcome string) {
	m.InvocationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordExtractionMethod is a convenience method that records which
// extractor produced a prescription.
func (m *Metrics) RecordExtractionMethod(ctx context.Context, method string) {
	m.ExtractionMethodTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
}

// RecordRouteDecision is a convenience method that records a Router
// strategy decision.
func (m *Metrics) RecordRouteDecision(ctx context.Context, strategy string) {
	m.RouteDecisionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("strategy", strategy)))
}

// RecordLanguage is a convenience method that records a decided language.
func (m *Metrics) RecordLanguage(ctx context.Context, language string) {
	m.LanguageTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("language", language)))
}

// RecordTranscriptionTier is a convenience method that records the ASR
// tier that produced the final transcript.
func (m *Metrics) RecordTranscriptionTier(ctx context.Context, tier int) {
	m.TranscriptionTierTotal.Add(ctx, 1, metric.WithAttributes(attribute.Int("tier", tier)))
}

// RecordValidationIssue is a convenience method that records one Validator
// finding by severity.
func (m *Metrics) RecordValidationIssue(ctx context.Context, severity string) {
	m.ValidationIssuesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("severity", severity)))
}

// RecordPipelineError is a convenience method that records a pipeline-stage
// failure by error kind.
func (m *Metrics) RecordPipelineError(ctx context.Context, kind string) {
	m.PipelineErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
