// Package transcript implements the Transcript Cleaner: the multi-stage
// correction pipeline that turns a raw batch-STT transcription into text fit
// for language detection and structured extraction.
//
// A consultation recording is rarely transcribed perfectly — Whisper-class
// models routinely mangle drug names, mis-space dosage units, and stutter on
// code-mixed speech. The [Pipeline] applies corrections in up to three
// ordered stages:
//
//  1. Regex correction ([RegexCorrector]): a fixed table of known ASR
//     distortions, unit-spacing fixes, and consecutive duplicate-word
//     removal. Deterministic, offline, always applied first.
//
//  2. Phonetic matching ([PhoneticMatcher]): fast, dictionary-free alignment
//     of individual words/phrases against the known medicine-name list,
//     based on pronunciation similarity. Runs in-process with no network
//     calls.
//
//  3. LLM-assisted correction: a language model resolves ambiguous or
//     low-confidence spans using the full medicine-name list as context.
//     Falls back to the phonetic suggestion when confidence is sufficient,
//     or leaves the original word unchanged.
//
// Each [Correction] records which method produced the substitution and its
// confidence, so callers can audit, display, or selectively roll back changes.
//
// Implementations of both interfaces must be safe for concurrent use.
package transcript

import (
	"context"

	"github.com/MrWong99/glyphoxa/pkg/types"
)

// Correction captures a single substitution made by the pipeline.
type Correction struct {
	// Original is the word or phrase as produced by the STT provider.
	Original string

	// Corrected is the replacement text selected by the pipeline.
	Corrected string

	// Confidence is the pipeline's confidence in this substitution (0.0–1.0).
	// Values above 0.9 are considered high-confidence; values below 0.5
	// indicate the correction is speculative.
	Confidence float64

	// Method describes which correction stage produced this substitution.
	// Well-known values:
	//   "regex"    — produced by the [RegexCorrector] table.
	//   "phonetic" — produced by a [PhoneticMatcher].
	//   "llm"      — produced by a language-model correction pass.
	Method string
}

// CorrectedTranscript is the output of a [Pipeline.Correct] call.
// It pairs the original [types.TranscriptionResult] with the fully corrected
// text and an itemised record of every substitution that was applied.
type CorrectedTranscript struct {
	// Original is the raw [types.TranscriptionResult] as received from the
	// STT fallback chain.
	Original types.TranscriptionResult

	// Corrected is the full corrected transcript text with all substitutions
	// applied. Suitable for downstream language detection and extraction.
	Corrected string

	// Corrections is the ordered list of substitutions applied to produce
	// Corrected. An empty (non-nil) slice means no corrections were necessary.
	Corrections []Correction
}

// Pipeline applies multi-stage corrections to a raw
// [types.TranscriptionResult], fixing STT errors in medicine names and
// dosage phrasing.
//
// Implementations must be safe for concurrent use.
type Pipeline interface {
	// Correct processes result using the supplied medicine-name list and
	// returns a [CorrectedTranscript] containing the corrected text and an
	// itemised record of every substitution made.
	//
	// medicineNames is the known-vocabulary list the pipeline should
	// recognise within the transcript text — typically the Medical
	// Knowledge Base's drug-name gazetteer.
	//
	// Returns a non-nil *CorrectedTranscript on success.
	// When no corrections are needed, Corrected equals result.Text and
	// Corrections is an empty (non-nil) slice.
	Correct(ctx context.Context, result types.TranscriptionResult, medicineNames []string) (*CorrectedTranscript, error)
}

// PhoneticMatcher resolves a single word or phrase to a known medicine name
// based on pronunciation similarity. It is the second stage of the
// correction pipeline and is designed to be fast — no network calls, no LLM
// round-trips.
//
// Implementations must be safe for concurrent use.
type PhoneticMatcher interface {
	// Match attempts to find the medicine name from entities that is most
	// phonetically similar to word.
	//
	// Return values:
	//   corrected  — the best-matching entity name from entities.
	//   confidence — similarity score in [0.0, 1.0] where 1.0 is a perfect match.
	//   matched    — true when a sufficiently similar entity was found.
	//
	// When matched is false, corrected must equal word unchanged and confidence
	// must be 0. Implementations define their own similarity threshold for
	// deciding when a match is "sufficient".
	Match(word string, entities []string) (corrected string, confidence float64, matched bool)
}
