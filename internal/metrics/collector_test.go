package metrics_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/MrWong99/glyphoxa/internal/metrics"
	"github.com/MrWong99/glyphoxa/internal/observe"
)

func newTestCollector(t *testing.T, export io.Writer) *metrics.Collector {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	met, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("observe.NewMetrics: %v", err)
	}
	return metrics.NewCollector(export, met)
}

func TestCollector_RecordAppendsNDJSONLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := newTestCollector(t, &buf)

	if err := c.Record(context.Background(), metrics.Record{AudioRef: "a.wav", Valid: true}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines=%d, want 1", len(lines))
	}
	var decoded metrics.Record
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.AudioRef != "a.wav" {
		t.Errorf("AudioRef=%q, want a.wav", decoded.AudioRef)
	}
}

func TestCollector_RecordsAccumulate(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, nil)
	c.Record(context.Background(), metrics.Record{AudioRef: "a.wav"})
	c.Record(context.Background(), metrics.Record{AudioRef: "b.wav"})

	if got := len(c.Records()); got != 2 {
		t.Errorf("Records()=%d, want 2", got)
	}
}

func TestCollector_NilExportSkipsEncodingWithoutError(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t, nil)
	if err := c.Record(context.Background(), metrics.Record{AudioRef: "a.wav"}); err != nil {
		t.Errorf("Record() error = %v, want nil when export is disabled", err)
	}
}
