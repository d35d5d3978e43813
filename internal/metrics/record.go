// Package metrics implements the Metrics Collector: it records one
// structured record per pipeline invocation, exports them as
// newline-delimited JSON, and computes an aggregate summary. Every record
// is simultaneously pushed into the OpenTelemetry instruments in
// [github.com/MrWong99/glyphoxa/internal/observe], so the same data is
// available both to a tailed NDJSON file and to a Prometheus scrape.
package metrics

import "time"

// Record is one pipeline invocation's outcome.
type Record struct {
	AudioRef          string    `json:"audio_ref"`
	Timestamp         time.Time `json:"timestamp"`
	TranscriptionTier int       `json:"transcription_tier"`
	NoSpeechProb      float64   `json:"no_speech_prob"`
	TranscriptLength  int       `json:"transcript_length"`

	Language           string  `json:"language"`
	LanguageConfidence float64 `json:"language_confidence"`

	RouteScore    float64 `json:"route_score"`
	RouteDecision string  `json:"route_decision"`

	ExtractionMethod string `json:"extraction_method"`
	MedicineCount    int    `json:"medicine_count"`
	DiagnosisCount   int    `json:"diagnosis_count"`
	TestCount        int    `json:"test_count"`
	AdviceCount      int    `json:"advice_count"`

	Valid        bool `json:"valid"`
	ErrorCount   int  `json:"error_count"`
	WarningCount int  `json:"warning_count"`

	DurationSeconds float64 `json:"duration_seconds"`
}
