// Package pipeline wires the Transcriber, Language Detector, Transcript
// Cleaner, Normalizer, Router, extractors, Post-Processor, Validator, and
// Metrics Collector into the single entry point the rest of the system
// calls: Process. It owns no business logic itself — every decision is
// delegated to the subsystem that implements it — it only sequences them
// and carries data from one stage to the next.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MrWong99/glyphoxa/internal/ensemble"
	llmextract "github.com/MrWong99/glyphoxa/internal/extract/llm"
	"github.com/MrWong99/glyphoxa/internal/extract/rules"
	"github.com/MrWong99/glyphoxa/internal/knowledge"
	"github.com/MrWong99/glyphoxa/internal/language"
	"github.com/MrWong99/glyphoxa/internal/metrics"
	"github.com/MrWong99/glyphoxa/internal/normalize"
	"github.com/MrWong99/glyphoxa/internal/postprocess"
	"github.com/MrWong99/glyphoxa/internal/route"
	"github.com/MrWong99/glyphoxa/internal/transcript"
	"github.com/MrWong99/glyphoxa/internal/validate"
	"github.com/MrWong99/glyphoxa/pkg/types"
)

// Options configures a single Process call.
type Options struct {
	// HintLanguage is forwarded to the Transcriber as an acoustic hint and
	// skips auto-detection when non-empty.
	HintLanguage string

	// MaxTier caps ASR escalation at 1, 2, or 3. Zero means no cap.
	MaxTier int

	// LLMEnabled allows the LLM Extractor for this call. When false (the
	// zero value), any strategy the Router picks that would invoke it is
	// demoted to rules-only extraction. Setting it false is useful for
	// cost-sensitive batch runs or when the LLM provider is known to be
	// degraded.
	LLMEnabled bool
}

// Components holds every subsystem Process depends on. All fields are
// required except LLMExtractor, which may be nil to run rules-only
// regardless of Options.LLMEnabled; ThanglishNormalizer, which may be nil
// to skip Thanglish rewriting; and Collector, which may be nil to skip
// metrics recording.
type Components struct {
	Transcriber         *TieredTranscriber
	Detector            *language.Detector
	ThanglishNormalizer *language.Normalizer
	Corrector           transcript.Pipeline
	DosageNormalizer    *normalize.Normalizer
	KnowledgeBase       *knowledge.Base
	LLMExtractor        *llmextract.Extractor
	RulesExtractor      *rules.Extractor
	PostProcessor       *postprocess.Processor
	Validator           *validate.Validator
	Selector            *route.Selector
	Collector           *metrics.Collector
}

// Pipeline is the top-level orchestrator. Safe for concurrent use: every
// field is either immutable after New or already safe for concurrent use
// on its own (the Transcriber's lazy Tier 3 init is the only shared
// mutable state, and it guards itself).
type Pipeline struct {
	transcriber         *TieredTranscriber
	detector            *language.Detector
	thanglishNormalizer *language.Normalizer
	corrector           transcript.Pipeline
	dosageNormalizer    *normalize.Normalizer
	kb                  *knowledge.Base
	llmExtractor        *llmextract.Extractor
	rulesExtractor      *rules.Extractor
	postprocessor       *postprocess.Processor
	validator           *validate.Validator
	selector            *route.Selector
	collector           *metrics.Collector
}

// New wires c into a ready-to-use Pipeline.
func New(c Components) *Pipeline {
	return &Pipeline{
		transcriber:         c.Transcriber,
		detector:            c.Detector,
		thanglishNormalizer: c.ThanglishNormalizer,
		corrector:           c.Corrector,
		dosageNormalizer:    c.DosageNormalizer,
		kb:                  c.KnowledgeBase,
		llmExtractor:        c.LLMExtractor,
		rulesExtractor:      c.RulesExtractor,
		postprocessor:       c.PostProcessor,
		validator:           c.Validator,
		selector:            c.Selector,
		collector:           c.Collector,
	}
}

// Process runs one consultation recording through the full pipeline: ASR
// tier escalation, language detection, transcript correction, dosage/brand
// normalization, routing, extraction, post-processing, and validation.
//
// The returned *types.Prescription is never nil on a nil error, and the
// returned types.ValidationReport is always populated — a failed
// validation is reported, not discarded. Process returns a non-nil error
// only when the audio file at input.Path cannot be read, when
// transcription produced no text at all, when transcript correction
// fails, or when extraction failed on every path the Router selected (see
// the extract method).
func (p *Pipeline) Process(ctx context.Context, input types.AudioInput, opts Options) (*types.Prescription, types.ValidationReport, error) {
	started := time.Now()

	audio := input.Data
	if len(audio) == 0 && input.Path != "" {
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return nil, types.ValidationReport{}, types.NewPipelineError(types.ErrConfiguration, "pipeline", false, fmt.Errorf("read audio: %w", err))
		}
		audio = data
	}

	hint := opts.HintLanguage
	if hint == "" {
		hint = input.HintLanguage
	}

	transcription, err := p.transcriber.Transcribe(ctx, audio, input.Filename, hint, opts.MaxTier)
	if err != nil {
		return nil, types.ValidationReport{}, err
	}

	decision := p.detector.Detect(transcription.Text, transcription.WhisperLanguage)
	slog.Debug("language detected", "audio_ref", input.Filename, "language", decision.Primary, "confidence", decision.Confidence)

	text := transcription.Text
	if (decision.Primary == "thanglish" || decision.Primary == "mixed") && p.thanglishNormalizer != nil {
		if normalized, modified := p.thanglishNormalizer.Normalize(text); modified {
			text = normalized
			transcription.Text = normalized
		}
	}

	corrected, err := p.corrector.Correct(ctx, transcription, p.kb.MedicineNames())
	if err != nil {
		return nil, types.ValidationReport{}, types.NewPipelineError(types.ErrTransient, "transcript_correction", true, err)
	}
	workingText := corrected.Corrected

	normResult := p.dosageNormalizer.Normalize(workingText)
	workingText = normResult.Text

	routeMetrics := route.Analyze(workingText, decision, transcription.Confidence)
	strategy := p.selector.Select(routeMetrics)
	if !opts.LLMEnabled {
		strategy = demoteFromLLM(strategy)
	}
	slog.Debug("route selected", "audio_ref", input.Filename, "strategy", strategy, "quality", routeMetrics.OverallQuality)

	prescription, err := p.extract(ctx, strategy, workingText)
	if err != nil {
		return nil, types.ValidationReport{}, err
	}

	prescription.Language = decision.Primary
	// End-to-end confidence never exceeds the weakest stage's own
	// confidence: a perfect extraction from a garbled transcription is
	// still only as trustworthy as the transcription.
	prescription.Confidence = min(transcription.Confidence, prescription.Confidence)
	prescription.TranscriptionTier = transcription.TranscriptionTier
	prescription.Timestamp = started

	warnings := p.postprocessor.Process(prescription, workingText, normResult.AnatomyConflicts)
	prescription.Warnings = append(prescription.Warnings, warnings...)

	report := p.validator.Validate(prescription)

	if p.collector != nil {
		rec := buildRecord(input.Filename, started, transcription, decision, routeMetrics, strategy, prescription, report)
		if err := p.collector.Record(ctx, rec); err != nil {
			slog.Warn("failed to record pipeline metrics", "audio_ref", input.Filename, "err", err)
		}
	}

	return prescription, report, nil
}

// demoteFromLLM replaces any strategy that would invoke the LLM Extractor
// with its rules-only equivalent, leaving StrategyRulesOnly and
// StrategyCorruptedAudio untouched.
func demoteFromLLM(s route.Strategy) route.Strategy {
	switch s {
	case route.StrategyLLMOnly, route.StrategyEnsemble:
		return route.StrategyRulesOnly
	default:
		return s
	}
}

// extract dispatches to the extractor(s) the Router selected.
//
// Returns a [types.PipelineError] of kind [types.ErrExtraction] only when
// both the LLM Extractor (after its own internal retry) and the Rule
// Extractor yield an empty Prescription, or when the LLM Extractor's
// underlying provider call fails outright and the Rule Extractor's
// fallback result is also empty. A Rule-Extractor-only path never raises
// this error — an empty rules result is a valid, if poor, Prescription,
// and the Validator's minimum-content check surfaces the deficiency
// instead.
func (p *Pipeline) extract(ctx context.Context, strategy route.Strategy, text string) (*types.Prescription, error) {
	switch strategy {
	case route.StrategyCorruptedAudio:
		return &types.Prescription{
			ExtractionMethod: types.ExtractionMethodRules,
			Warnings:         []string{"audio too short or unclear to extract a prescription"},
		}, nil

	case route.StrategyRulesOnly:
		return p.rulesExtractor.Extract(text), nil

	case route.StrategyLLMOnly:
		if p.llmExtractor == nil {
			return p.rulesExtractor.Extract(text), nil
		}
		llmResult, err := p.llmExtractor.Extract(ctx, text)
		if err != nil {
			rulesResult := p.rulesExtractor.Extract(text)
			if isEmpty(rulesResult) {
				return nil, types.NewPipelineError(types.ErrExtraction, "extract", true, err)
			}
			return rulesResult, nil
		}
		if isEmpty(llmResult) {
			rulesResult := p.rulesExtractor.Extract(text)
			if isEmpty(rulesResult) {
				return nil, types.NewPipelineError(types.ErrExtraction, "extract", false, nil)
			}
			return rulesResult, nil
		}
		return llmResult, nil

	case route.StrategyEnsemble:
		rulesResult := p.rulesExtractor.Extract(text)
		if p.llmExtractor == nil {
			return rulesResult, nil
		}
		llmResult, err := p.llmExtractor.Extract(ctx, text)
		if err != nil {
			if isEmpty(rulesResult) {
				return nil, types.NewPipelineError(types.ErrExtraction, "extract", true, err)
			}
			return rulesResult, nil
		}
		if isEmpty(llmResult) && isEmpty(rulesResult) {
			return nil, types.NewPipelineError(types.ErrExtraction, "extract", false, nil)
		}
		return ensemble.Merge(llmResult, rulesResult), nil

	default:
		return p.rulesExtractor.Extract(text), nil
	}
}

// isEmpty reports whether a Prescription carries no extracted content at
// all (every extractor returns a non-nil shell even when it finds
// nothing).
func isEmpty(p *types.Prescription) bool {
	if p == nil {
		return true
	}
	return len(p.Medicines) == 0 && len(p.Diagnosis) == 0 && len(p.Complaints) == 0 &&
		len(p.Tests) == 0 && len(p.Advice) == 0
}

// buildRecord assembles a metrics.Record from one Process invocation's
// intermediate results.
func buildRecord(
	audioRef string,
	started time.Time,
	transcription types.TranscriptionResult,
	decision types.LanguageDecision,
	routeMetrics route.Metrics,
	strategy route.Strategy,
	p *types.Prescription,
	report types.ValidationReport,
) metrics.Record {
	errorCount, warningCount := 0, 0
	for _, issue := range report.Issues {
		if issue.Severity == types.SeverityError {
			errorCount++
		} else {
			warningCount++
		}
	}

	return metrics.Record{
		AudioRef:           audioRef,
		Timestamp:          started,
		TranscriptionTier:  transcription.TranscriptionTier,
		NoSpeechProb:       transcription.NoSpeechProb,
		TranscriptLength:   len(transcription.Text),
		Language:           decision.Primary,
		LanguageConfidence: decision.Confidence,
		RouteScore:         routeMetrics.OverallQuality,
		RouteDecision:      string(strategy),
		ExtractionMethod:   string(p.ExtractionMethod),
		MedicineCount:      len(p.Medicines),
		DiagnosisCount:     len(p.Diagnosis),
		TestCount:          len(p.Tests),
		AdviceCount:        len(p.Advice),
		Valid:              report.Valid,
		ErrorCount:         errorCount,
		WarningCount:       warningCount,
		DurationSeconds:    time.Since(started).Seconds(),
	}
}
