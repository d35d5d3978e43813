// Package route implements the Router: it scores a transcript's quality and
// decides which extraction pipeline(s) — LLM, Rules, or both — should run
// against it.
//
// The decision favors the LLM Extractor whenever the input is good enough
// for it to work well, falls back to a voting Ensemble for borderline
// input, and only runs the Rule Extractor alone when the transcript itself
// looks too poor to trust an LLM's judgment unchecked. A transcript with
// almost no words is flagged corrupted and skipped entirely rather than fed
// to either extractor.
package route

import (
	"strings"

	"github.com/MrWong99/glyphoxa/pkg/types"
)

// medicalKeywords is the vocabulary used to estimate how "on-topic" a
// transcript is for a medical consultation. Grounded on
// original_source/src/routing.py's AudioAnalyzer.MEDICAL_KEYWORDS.
var medicalKeywords = []string{
	"medicine", "drug", "tablet", "pill", "dose", "mg", "ml",
	"fever", "pain", "infection", "doctor", "patient", "treatment",
	"cough", "throat", "cold", "allergy", "diagnosis", "symptom",
	"antibiotic", "bacterial", "daily", "prescribe",
}

// Metrics is the Router's assessment of one transcript, consumed by
// [Select] to choose a route.
type Metrics struct {
	// TranscriptQuality scores lexical diversity and sentence structure, in [0,1].
	TranscriptQuality float64

	// Completeness scores the transcript's raw length, in [0,1].
	Completeness float64

	// LanguageClarity is the Language Detector's confidence for the
	// transcript's decided language, in [0,1].
	LanguageClarity float64

	// ASRConfidence is the Transcriber's reported confidence, in [0,1].
	ASRConfidence float64

	// MedicalKeywordDensity is the fraction of the medical vocabulary
	// found in the transcript, in [0,1].
	MedicalKeywordDensity float64

	// OverallQuality is the weighted composite of TranscriptQuality,
	// Completeness, LanguageClarity, and ASRConfidence;
	// MedicalKeywordDensity does not enter it.
	OverallQuality float64

	WordCount        int
	TranscriptLength int
}

// Analyze computes routing [Metrics] for a transcript.
func Analyze(transcript string, decision types.LanguageDecision, asrConfidence float64) Metrics {
	quality := transcriptQuality(transcript)
	completeness := completenessScore(transcript)
	density := medicalKeywordDensity(transcript)

	m := Metrics{
		TranscriptQuality:     quality,
		Completeness:          completeness,
		LanguageClarity:       decision.Confidence,
		ASRConfidence:         asrConfidence,
		MedicalKeywordDensity: density,
		WordCount:             len(strings.Fields(transcript)),
		TranscriptLength:      len(transcript),
	}

	m.OverallQuality = quality*0.35 + completeness*0.25 + decision.Confidence*0.25 + asrConfidence*0.15
	return m
}

// transcriptQuality blends unique-word ratio with average sentence length.
func transcriptQuality(transcript string) float64 {
	const minLength = 20
	if len(transcript) < minLength {
		return 0.2
	}

	words := strings.Fields(transcript)
	if len(words) == 0 {
		return 0.2
	}

	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[strings.ToLower(w)] = struct{}{}
	}
	uniqueRatio := float64(len(seen)) / float64(len(words))

	sentenceCount := strings.Count(transcript, ".") + strings.Count(transcript, "?") + strings.Count(transcript, "!")
	if sentenceCount < 1 {
		sentenceCount = 1
	}
	avgSentenceLength := float64(len(words)) / float64(sentenceCount)

	quality := uniqueRatio*0.6 + min1(avgSentenceLength/20)*0.4
	return min1(quality)
}

// completenessScore rewards longer transcripts up to a saturation point.
// Bucket boundaries and values are SPEC_FULL.md §4.7's literal length-bucket
// rule, not original_source/src/routing.py's heuristic.
func completenessScore(transcript string) float64 {
	switch n := len(transcript); {
	case n < 50:
		return 0
	case n < 150:
		return 0.3
	case n < 400:
		return 0.6
	default:
		return 1.0
	}
}

// medicalKeywordDensity is the fraction of medicalKeywords present in transcript.
func medicalKeywordDensity(transcript string) float64 {
	lower := strings.ToLower(transcript)
	found := 0
	for _, kw := range medicalKeywords {
		if strings.Contains(lower, kw) {
			found++
		}
	}
	return min1(float64(found) / float64(len(medicalKeywords)))
}

func min1(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}
