package route

// Strategy is the Router's verdict on how to extract a Prescription from a
// transcript.
type Strategy string

const (
	// StrategyLLMOnly runs only the LLM Extractor. Chosen when the input is
	// good enough that voting would add latency without improving accuracy.
	StrategyLLMOnly Strategy = "llm_only"

	// StrategyEnsemble runs both the LLM and Rule extractors and merges
	// their output. Chosen for borderline input where either extractor
	// alone might miss something the other catches.
	StrategyEnsemble Strategy = "ensemble"

	// StrategyRulesOnly runs only the Rule Extractor. Chosen when the input
	// is too poor to trust an LLM's extrapolation unchecked.
	StrategyRulesOnly Strategy = "rules_only"

	// StrategyCorruptedAudio means the transcript is too thin to extract
	// anything from; no extractor runs and an empty Prescription is
	// returned directly.
	StrategyCorruptedAudio Strategy = "corrupted_audio"
)

// Default thresholds separating the three extraction strategies, per
// SPEC_FULL.md §4.7: LLM-only at score ≥ 0.75, Ensemble at 0.45 ≤ score <
// 0.75 with at least one medical-keyword hit, Rules-only otherwise. The
// corrupted-audio word-count floor is a separate, pre-Router gate grounded
// on original_source/src/routing.py's RouteSelector constants — §4.7 never
// claims to score a near-empty transcript.
const (
	defaultLLMMinScore       = 0.75
	defaultEnsembleMinScore  = 0.45
	defaultCorruptedMaxWords = 5
)

// Selector chooses an extraction [Strategy] from transcript [Metrics].
// [NewSelector] seeds the default thresholds; configure with [Option]s to
// override them. The zero value has every threshold at zero and so routes
// every transcript to [StrategyLLMOnly].
type Selector struct {
	llmMinScore       float64
	ensembleMinScore  float64
	corruptedMaxWords int
}

// Option is a functional option for configuring a [Selector].
type Option func(*Selector)

// WithLLMThresholds overrides the minimum [Metrics.OverallQuality] score
// required to route directly to the LLM Extractor.
func WithLLMThresholds(minScore float64) Option {
	return func(s *Selector) {
		s.llmMinScore = minScore
	}
}

// WithEnsembleThresholds overrides the minimum [Metrics.OverallQuality]
// score required to route to the Ensemble strategy instead of falling back
// to rules-only.
func WithEnsembleThresholds(minScore float64) Option {
	return func(s *Selector) {
		s.ensembleMinScore = minScore
	}
}

// WithCorruptedAudioThreshold overrides the word count below which a
// transcript is treated as corrupted audio rather than routed to any
// extractor.
func WithCorruptedAudioThreshold(maxWords int) Option {
	return func(s *Selector) {
		s.corruptedMaxWords = maxWords
	}
}

// NewSelector returns a [Selector] configured with the supplied options,
// seeded with the package's default thresholds.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		llmMinScore:       defaultLLMMinScore,
		ensembleMinScore:  defaultEnsembleMinScore,
		corruptedMaxWords: defaultCorruptedMaxWords,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Select picks an extraction [Strategy] for the given [Metrics], per
// SPEC_FULL.md §4.7: LLM-only when OverallQuality clears the upper
// threshold, Ensemble when it falls in the mid band AND at least one
// medical keyword was found, Rules-only otherwise.
func (s *Selector) Select(m Metrics) Strategy {
	switch {
	case m.WordCount < s.corruptedMaxWords:
		return StrategyCorruptedAudio
	case m.OverallQuality >= s.llmMinScore:
		return StrategyLLMOnly
	case m.OverallQuality >= s.ensembleMinScore && m.MedicalKeywordDensity > 0:
		return StrategyEnsemble
	default:
		return StrategyRulesOnly
	}
}
