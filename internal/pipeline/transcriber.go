package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/MrWong99/glyphoxa/pkg/provider/stt"
	"github.com/MrWong99/glyphoxa/pkg/types"
)

// Quality gate thresholds separating an acceptable transcription from one
// that must escalate to the next tier.
const (
	minWordsPerMinute  = 20.0
	maxNoSpeechProb    = 0.60
	minMedicalKeywords = 1
)

// medicalKeywords is the gate's on-topic vocabulary. Grounded on
// original_source/src/transcription.py's WhisperTranscriber.MEDICAL_KEYWORDS.
var medicalKeywords = []string{
	"mg", "ml", "tablet", "capsule", "dose", "medicine", "drug", "infection",
	"fever", "pain", "antibiotic", "diagnosis", "prescription", "symptoms",
	"treatment", "daily", "twice", "thrice", "morning", "night", "days",
	"weeks", "throat", "cough", "cold", "bacterial", "pharyngitis",
	"bronchitis", "pneumonia", "allergy", "asthma",
	"marunthu", "vali", "kaichal", "noi", "sapadu",
}

// Tier3Loader lazily constructs the high-capacity Tier 3 provider. It is
// called at most once, by whichever goroutine first escalates past Tier 2.
type Tier3Loader func() (stt.Provider, error)

// TieredTranscriber implements the three-tier ASR escalation policy: a fast
// Tier 1 pass with no language hint, a Tier 2 retry whenever Tier 1 fails
// the quality gate (hinted with the caller's language or, when none was
// given, the language Tier 1 detected), and a
// lazily-loaded, high-capacity Tier 3 model invoked only when both earlier
// tiers fail the quality gate.
//
// Tier 3 is expensive to initialize (a multi-second model load), so it is
// built at most once regardless of how many goroutines escalate to it
// concurrently: concurrent first-time callers collapse onto a single
// [singleflight.Group] call, and every caller after that hits a cached
// result without re-entering the group at all.
type TieredTranscriber struct {
	tier1 stt.Provider
	tier2 stt.Provider

	tier3Loader Tier3Loader
	tier3Group  singleflight.Group
	tier3Cache  atomic.Pointer[tier3Outcome]
}

// tier3Outcome is the cached result of the Tier 3 load, success or failure.
type tier3Outcome struct {
	provider stt.Provider
	err      error
}

// NewTieredTranscriber constructs a TieredTranscriber. tier1 and tier2 are
// typically the same whisper.cpp HTTP-server-backed provider configured
// with different language hints; tier3Loader defers the high-capacity
// model's construction until it is actually needed.
func NewTieredTranscriber(tier1, tier2 stt.Provider, tier3Loader Tier3Loader) *TieredTranscriber {
	return &TieredTranscriber{tier1: tier1, tier2: tier2, tier3Loader: tier3Loader}
}

// Transcribe runs the tiered escalation policy against audio. hint is an
// optional caller-supplied language hint (empty lets Tier 1 auto-detect).
// maxTier caps escalation at 1, 2, or 3; zero means no cap (use all three
// tiers).
//
// Returns a [types.PipelineError] of kind [types.ErrTranscription] only
// when every attempted tier produced no text at all. A tier that produces
// text but fails the quality gate is not an error: its result is kept as
// the best-so-far candidate and escalation continues.
func (t *TieredTranscriber) Transcribe(ctx context.Context, audio []byte, filename, hint string, maxTier int) (types.TranscriptionResult, error) {
	if maxTier <= 0 {
		maxTier = 3
	}

	var (
		best    types.TranscriptionResult
		bestWPM float64
		haveAny bool
		lastErr error
	)

	best, bestWPM, haveAny, lastErr = t.attempt(ctx, t.tier1, audio, filename, "", 1)
	if haveAny && qualityOK(best, bestWPM) {
		return best, nil
	}

	if maxTier >= 2 {
		escalationHint := hint
		if escalationHint == "" {
			escalationHint = best.WhisperLanguage
		}
		tier2, tier2WPM, tier2OK, tier2Err := t.attempt(ctx, t.tier2, audio, filename, escalationHint, 2)
		switch {
		case tier2OK:
			best, bestWPM, haveAny = tier2, tier2WPM, true
			if qualityOK(best, bestWPM) {
				return best, nil
			}
		case tier2Err != nil:
			lastErr = tier2Err
		}
	}

	if maxTier >= 3 {
		tier3, tier3Err := t.loadTier3()
		if tier3Err != nil {
			lastErr = tier3Err
		} else {
			tier3Result, _, tier3OK, tier3AttemptErr := t.attempt(ctx, tier3, audio, filename, hint, 3)
			switch {
			case tier3OK:
				return tier3Result, nil
			case tier3AttemptErr != nil:
				lastErr = tier3AttemptErr
			}
		}
	}

	if !haveAny {
		return types.TranscriptionResult{}, types.NewPipelineError(types.ErrTranscription, "transcriber", false, lastErr)
	}

	// Every tier either failed the gate or was unavailable; return the best
	// candidate seen so far, flagged degraded.
	best.TranscriptionTier = -1
	return best, nil
}

// attempt runs one tier's Transcribe call and converts its stt.Result into
// a types.TranscriptionResult, plus the words-per-minute rate used by the
// quality gate (the Result's DurationSeconds never survives into
// types.TranscriptionResult, which has no duration field). ok is false
// only when the provider returned an error or empty text.
func (t *TieredTranscriber) attempt(ctx context.Context, p stt.Provider, audio []byte, filename, language string, tier int) (types.TranscriptionResult, float64, bool, error) {
	if p == nil {
		return types.TranscriptionResult{}, 0, false, nil
	}

	result, err := p.Transcribe(ctx, stt.Request{
		Audio:    audio,
		Filename: filename,
		Language: language,
		Mode:     stt.ModeTranscribe,
	})
	if err != nil {
		return types.TranscriptionResult{}, 0, false, fmt.Errorf("tier %d: %w", tier, err)
	}
	if strings.TrimSpace(result.Text) == "" {
		return types.TranscriptionResult{}, 0, false, nil
	}

	wpm := wordsPerMinute(result.Text, result.DurationSeconds)
	return types.TranscriptionResult{
		Text:              result.Text,
		WhisperLanguage:   result.Language,
		TranscriptionTier: tier,
		Confidence:        result.Confidence,
		NoSpeechProb:      result.NoSpeechProb,
	}, wpm, true, nil
}

// wordsPerMinute computes the rate the quality gate checks against. A
// provider that does not report audio duration (e.g. the whisper HTTP
// provider when the server returns no segments) yields 0, which the gate
// treats as "unknown" rather than "too slow".
func wordsPerMinute(text string, durationSeconds float64) float64 {
	if durationSeconds <= 0 {
		return 0
	}
	words := len(strings.Fields(text))
	return float64(words) / (durationSeconds / 60)
}

// loadTier3 lazily constructs the Tier 3 provider. A cached outcome short
// circuits every call after the first; concurrent callers racing to
// populate that cache collapse onto a single in-flight
// [singleflight.Group] call instead of each paying the load cost.
func (t *TieredTranscriber) loadTier3() (stt.Provider, error) {
	if cached := t.tier3Cache.Load(); cached != nil {
		return cached.provider, cached.err
	}

	v, err, _ := t.tier3Group.Do("tier3", func() (any, error) {
		if cached := t.tier3Cache.Load(); cached != nil {
			return cached, nil
		}
		outcome := &tier3Outcome{}
		if t.tier3Loader == nil {
			outcome.err = fmt.Errorf("pipeline: no tier 3 loader configured")
		} else {
			outcome.provider, outcome.err = t.tier3Loader()
		}
		t.tier3Cache.Store(outcome)
		return outcome, nil
	})
	if err != nil {
		return nil, err
	}
	outcome := v.(*tier3Outcome)
	return outcome.provider, outcome.err
}

// qualityOK reports whether a TranscriptionResult passes the inter-tier
// quality gate: a words-per-minute floor, a no-speech-probability ceiling,
// and at least one medical-keyword hit. A zero wpm (duration unknown) does
// not fail the gate on its own.
func qualityOK(r types.TranscriptionResult, wpm float64) bool {
	if r.NoSpeechProb >= maxNoSpeechProb {
		return false
	}
	if wpm > 0 && wpm < minWordsPerMinute {
		return false
	}
	return keywordHits(r.Text) >= minMedicalKeywords
}

// keywordHits counts how many medicalKeywords appear in text.
func keywordHits(text string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range medicalKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits
}
