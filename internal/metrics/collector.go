package metrics

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/MrWong99/glyphoxa/internal/observe"
)

// Collector accumulates per-invocation Records in memory for summary
// computation, optionally appending each as a newline-delimited JSON line
// to a configured writer, and pushes the same fields into the process's
// OpenTelemetry instruments. Safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	records []Record

	export  io.Writer
	otel    *observe.Metrics
	encoder *json.Encoder
}

// NewCollector constructs a Collector. export is the NDJSON append target;
// pass nil to disable file export and keep only in-memory aggregation.
// met is the OpenTelemetry instrument set each record is mirrored into;
// pass [observe.DefaultMetrics] in production.
func NewCollector(export io.Writer, met *observe.Metrics) *Collector {
	c := &Collector{export: export, otel: met}
	if export != nil {
		c.encoder = json.NewEncoder(export)
	}
	return c
}

// Record stores rec, appends it to the NDJSON export stream (if
// configured), and mirrors it into the OpenTelemetry instruments. Returns
// the NDJSON encoding error, if any; the in-memory and OTel recording
// always succeed regardless.
func (c *Collector) Record(ctx context.Context, rec Record) error {
	c.mu.Lock()
	c.records = append(c.records, rec)
	var encErr error
	if c.encoder != nil {
		encErr = c.encoder.Encode(rec)
	}
	c.mu.Unlock()

	c.mirrorToOTel(ctx, rec)
	return encErr
}

func (c *Collector) mirrorToOTel(ctx context.Context, rec Record) {
	if c.otel == nil {
		return
	}

	outcome := "success"
	if !rec.Valid {
		outcome = "failure"
	}
	c.otel.RecordInvocation(ctx, outcome)
	c.otel.RecordExtractionMethod(ctx, rec.ExtractionMethod)
	c.otel.RecordRouteDecision(ctx, rec.RouteDecision)
	c.otel.RecordLanguage(ctx, rec.Language)
	c.otel.RecordTranscriptionTier(ctx, rec.TranscriptionTier)
	c.otel.PipelineDuration.Record(ctx, rec.DurationSeconds)

	for i := 0; i < rec.ErrorCount; i++ {
		c.otel.RecordValidationIssue(ctx, "error")
	}
	for i := 0; i < rec.WarningCount; i++ {
		c.otel.RecordValidationIssue(ctx, "warning")
	}
}

// Records returns a copy of every Record collected so far.
func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}
