package transcript

import (
	"context"
	"math"
	"strings"

	"github.com/MrWong99/glyphoxa/internal/transcript/llmcorrect"
	"github.com/MrWong99/glyphoxa/pkg/types"
)

const (
	defaultLLMConfidenceThreshold = 0.5
)

// PipelineOption is a functional option for configuring a [CorrectionPipeline].
type PipelineOption func(*CorrectionPipeline)

// WithRegexCorrector attaches a [RegexCorrector] as the first correction
// stage. When nil (the default), the regex stage is skipped entirely.
func WithRegexCorrector(r *RegexCorrector) PipelineOption {
	return func(p *CorrectionPipeline) {
		p.regex = r
	}
}

// WithPhoneticMatcher attaches a [PhoneticMatcher] as the second correction
// stage. When nil (the default), the phonetic stage is skipped entirely.
func WithPhoneticMatcher(m PhoneticMatcher) PipelineOption {
	return func(p *CorrectionPipeline) {
		p.phonetic = m
	}
}

// WithLLMCorrector attaches an [llmcorrect.Corrector] as the third correction
// stage. When nil (the default), the LLM stage is skipped entirely.
func WithLLMCorrector(c *llmcorrect.Corrector) PipelineOption {
	return func(p *CorrectionPipeline) {
		p.llmCorrector = c
	}
}

// WithLLMOnLowConfidence sets the per-segment confidence threshold below
// which a transcript segment is flagged as a low-confidence span and passed
// to the LLM corrector (when one is configured). Default: 0.5.
//
// Segments below this threshold that were NOT already corrected by the
// phonetic stage are submitted to the LLM for review. When the
// transcription carries no segment breakdown, the full text is always
// submitted when the LLM corrector is configured.
func WithLLMOnLowConfidence(threshold float64) PipelineOption {
	return func(p *CorrectionPipeline) {
		p.llmThreshold = threshold
	}
}

// CorrectionPipeline is the three-stage transcript correction implementation
// of [Pipeline]. Stages are optional and are applied in order:
//
//  1. [RegexCorrector] — fixed ASR-distortion and unit-spacing corrections.
//  2. [PhoneticMatcher] — fast, in-process phonetic medicine-name alignment.
//  3. [llmcorrect.Corrector] — LLM-assisted correction for low-confidence spans.
//
// CorrectionPipeline is safe for concurrent use.
type CorrectionPipeline struct {
	regex        *RegexCorrector
	phonetic     PhoneticMatcher
	llmCorrector *llmcorrect.Corrector
	llmThreshold float64
}

// Ensure CorrectionPipeline satisfies the Pipeline interface at compile time.
var _ Pipeline = (*CorrectionPipeline)(nil)

// NewPipeline constructs a [CorrectionPipeline] with the supplied options.
// By default all three stages are disabled; use [WithRegexCorrector],
// [WithPhoneticMatcher], and [WithLLMCorrector] to activate them.
func NewPipeline(opts ...PipelineOption) *CorrectionPipeline {
	p := &CorrectionPipeline{
		llmThreshold: defaultLLMConfidenceThreshold,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Correct applies the configured correction stages to result and returns a
// [CorrectedTranscript].
//
// Pipeline flow:
//  1. When a [RegexCorrector] is configured, the raw text is passed through
//     its fixed correction table first.
//  2. When a [PhoneticMatcher] is configured, every word/phrase token is
//     tested against medicineNames via n-gram windows (up to the longest
//     medicine name's word count), accepting the longest match.
//  3. Segments whose derived confidence (exp of average log-probability)
//     falls below the LLM threshold and were not already corrected by the
//     phonetic stage are collected as low-confidence spans.
//  4. When an [llmcorrect.Corrector] is configured and at least one
//     low-confidence span exists (or the transcription has no segment
//     breakdown), the LLM corrector is invoked on the working text.
//  5. All stages' corrections are merged into the final [CorrectedTranscript].
//
// Context cancellation is respected: if ctx is Done before the LLM stage
// completes, an error is returned.
func (p *CorrectionPipeline) Correct(
	ctx context.Context,
	result types.TranscriptionResult,
	medicineNames []string,
) (*CorrectedTranscript, error) {
	out := &CorrectedTranscript{
		Original:    result,
		Corrections: []Correction{},
	}

	workingText := result.Text

	// --- Stage 1: fixed regex corrections ---
	var regexCorrections []Correction
	if p.regex != nil {
		correctedText, corrections := p.regex.Correct(workingText)
		workingText = correctedText
		regexCorrections = corrections
	}

	// --- Stage 2: phonetic matching ---
	var phoneticCorrections []Correction
	if p.phonetic != nil && len(medicineNames) > 0 {
		correctedText, corrections := p.applyPhonetic(workingText, medicineNames)
		workingText = correctedText
		phoneticCorrections = corrections
	}

	phoneticCorrectedSpans := make(map[string]struct{}, len(phoneticCorrections))
	for _, c := range phoneticCorrections {
		phoneticCorrectedSpans[strings.ToLower(c.Original)] = struct{}{}
	}

	// --- Stage 3: LLM correction ---
	var llmCorrections []Correction
	if p.llmCorrector != nil && len(medicineNames) > 0 {
		lowConfSpans := p.collectLowConfidenceSpans(result.Segments, phoneticCorrectedSpans)

		if len(result.Segments) == 0 || len(lowConfSpans) > 0 {
			correctedText, rawCorrections, err := p.llmCorrector.Correct(
				ctx,
				workingText,
				medicineNames,
				lowConfSpans,
			)
			if err != nil {
				return nil, err
			}
			workingText = correctedText
			for _, rc := range rawCorrections {
				llmCorrections = append(llmCorrections, Correction{
					Original:   rc.Original,
					Corrected:  rc.Corrected,
					Confidence: rc.Confidence,
					Method:     "llm",
				})
			}
		}
	}

	// --- Merge results ---
	out.Corrected = workingText
	out.Corrections = append(out.Corrections, regexCorrections...)
	out.Corrections = append(out.Corrections, phoneticCorrections...)
	out.Corrections = append(out.Corrections, llmCorrections...)

	return out, nil
}

// applyPhonetic runs the phonetic matching stage over text.
// It returns the corrected text and the list of corrections applied.
//
// The algorithm:
//  1. Tokenise the text into words.
//  2. Determine the maximum number of words in any medicine name.
//  3. At each token position, try n-gram windows from maxEntityWords down to 1.
//     Accept the longest n-gram match so that multi-word medicine names take
//     precedence over partial single-word matches.
//  4. Append matched (or unmatched) tokens to the output and advance the
//     cursor by the number of tokens consumed.
func (p *CorrectionPipeline) applyPhonetic(
	text string,
	medicineNames []string,
) (string, []Correction) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return text, nil
	}

	maxEntityWords := maxWordCount(medicineNames)
	matchFn := func(word string) (string, float64, bool) {
		return p.phonetic.Match(word, medicineNames)
	}

	if maxEntityWords == 0 {
		return text, nil
	}

	var output []string
	var corrections []Correction

	i := 0
	for i < len(tokens) {
		// Clamp window size to remaining tokens.
		maxN := maxEntityWords
		if i+maxN > len(tokens) {
			maxN = len(tokens) - i
		}

		matched := false
		for n := maxN; n >= 1; n-- {
			window := strings.Join(tokens[i:i+n], " ")
			entity, conf, ok := matchFn(window)
			if !ok {
				continue
			}

			// Emit the entity tokens and record the correction.
			entityTokens := strings.Fields(entity)
			output = append(output, entityTokens...)
			corrections = append(corrections, Correction{
				Original:   window,
				Corrected:  entity,
				Confidence: conf,
				Method:     "phonetic",
			})
			i += n
			matched = true
			break
		}

		if !matched {
			output = append(output, tokens[i])
			i++
		}
	}

	return strings.Join(output, " "), corrections
}

// collectLowConfidenceSpans returns the text of every segment whose derived
// confidence is below the configured threshold and that was not already
// corrected by the phonetic stage.
func (p *CorrectionPipeline) collectLowConfidenceSpans(
	segments []types.TranscriptSegment,
	alreadyCorrected map[string]struct{},
) []string {
	var spans []string
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if _, corrected := alreadyCorrected[strings.ToLower(text)]; corrected {
			continue
		}
		if segmentConfidence(seg) < p.llmThreshold {
			spans = append(spans, text)
		}
	}
	return spans
}

// segmentConfidence derives a [0,1] confidence score from a segment's
// average log-probability, matching the formula the batch STT providers use
// to derive an overall transcription confidence.
func segmentConfidence(seg types.TranscriptSegment) float64 {
	c := math.Exp(seg.AvgLogprob)
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// maxWordCount returns the maximum number of whitespace-separated words in
// any entity string. Returns 1 when entities is empty.
func maxWordCount(entities []string) int {
	max := 1
	for _, e := range entities {
		n := len(strings.Fields(e))
		if n > max {
			max = n
		}
	}
	return max
}
