package metrics

import (
	"encoding/json"
	"io"
	"sort"
)

// Summary is the Metrics Collector's aggregate view across every Record
// collected so far.
type Summary struct {
	TotalProcessed int     `json:"total_processed"`
	SuccessCount   int     `json:"success_count"`
	SuccessRate    float64 `json:"success_rate"`

	RoutingDistribution          map[string]int `json:"routing_distribution"`
	ExtractionMethodDistribution map[string]int `json:"extraction_method_distribution"`
	LanguageDistribution         map[string]int `json:"language_distribution"`
	TierDistribution             map[string]int `json:"tier_distribution"`

	MeanLatencySeconds   float64 `json:"mean_latency_seconds"`
	MedianLatencySeconds float64 `json:"median_latency_seconds"`
}

// Summarize computes a Summary over records. Returns the zero-valued
// Summary (all distributions empty, rates 0) when records is empty.
func Summarize(records []Record) Summary {
	s := Summary{
		RoutingDistribution:          map[string]int{},
		ExtractionMethodDistribution: map[string]int{},
		LanguageDistribution:         map[string]int{},
		TierDistribution:             map[string]int{},
	}
	if len(records) == 0 {
		return s
	}

	s.TotalProcessed = len(records)
	latencies := make([]float64, len(records))
	var totalLatency float64

	for i, r := range records {
		if r.Valid {
			s.SuccessCount++
		}
		s.RoutingDistribution[r.RouteDecision]++
		s.ExtractionMethodDistribution[r.ExtractionMethod]++
		s.LanguageDistribution[r.Language]++
		s.TierDistribution[tierLabel(r.TranscriptionTier)]++

		latencies[i] = r.DurationSeconds
		totalLatency += r.DurationSeconds
	}

	s.SuccessRate = float64(s.SuccessCount) / float64(s.TotalProcessed)
	s.MeanLatencySeconds = totalLatency / float64(s.TotalProcessed)
	s.MedianLatencySeconds = median(latencies)

	return s
}

// Summary returns the current aggregate over every Record collected so far.
func (c *Collector) Summary() Summary {
	return Summarize(c.Records())
}

// ExportSummary writes the current summary to w as a single JSON document.
func (c *Collector) ExportSummary(w io.Writer) error {
	return json.NewEncoder(w).Encode(c.Summary())
}

func tierLabel(tier int) string {
	switch tier {
	case 1, 2, 3:
		return "tier_" + string(rune('0'+tier))
	default:
		return "tier_unknown"
	}
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
