package types

import "time"

// AudioInput is the pipeline's entry payload: a complete recording plus an
// optional language hint. Its lifetime is a single pipeline invocation; it
// is never retained by any stage.
type AudioInput struct {
	// Data holds the raw audio bytes. Exactly one of Data or Path is set.
	Data []byte

	// Path is a filesystem location to read the audio from. Exactly one of
	// Data or Path is set.
	Path string

	// Filename is a hint for content-type/container detection, used even
	// when Data is supplied directly (e.g. "consult.wav").
	Filename string

	// HintLanguage is an optional caller-supplied language hint
	// ("en", "ta", "ar", "thanglish", "mixed"). Empty lets the Transcriber
	// and Language Detector decide unaided.
	HintLanguage string
}

// TranscriptionResult is the immutable output of the Transcriber. Once
// produced it is never mutated; downstream stages read from it.
type TranscriptionResult struct {
	// Text is the transcribed (or translated, for Arabic) content.
	Text string

	// WhisperLanguage is the language code the ASR collaborator itself
	// detected, independent of any caller-supplied hint.
	WhisperLanguage string

	// TranscriptionTier records which tier produced this result: 1, 2, or 3
	// for the escalating ASR tiers, or -1 if every tier failed the quality
	// gate and the lowest-tier result was returned anyway, flagged low
	// confidence.
	TranscriptionTier int

	// Confidence is the tier's own or derived confidence score in [0,1].
	Confidence float64

	// NoSpeechProb is the tier's estimate that the audio contains no
	// speech, in [0,1].
	NoSpeechProb float64

	// Segments holds raw per-segment detail when the collaborator reports
	// it. Optional; nil when unavailable.
	Segments []TranscriptSegment
}

// TranscriptSegment is one timed span of a TranscriptionResult, when the ASR
// collaborator reports segment-level detail.
type TranscriptSegment struct {
	Text            string
	AvgLogprob      float64
	NoSpeechProb    float64
	DurationSeconds float64
}

// LanguageDecision is the Language Detector's verdict for one transcript.
type LanguageDecision struct {
	// Primary is the decided language: "en", "ta", "thanglish", "ar", or
	// "mixed" for code-mixed content that resists a single label.
	Primary string

	// Confidence is the decision's confidence in [0,1].
	Confidence float64

	// AcousticHint is the language the ASR collaborator reported.
	AcousticHint string

	// LexicalHint is the language a text-only statistical detector reported.
	LexicalHint string
}

// TestKind tags a Prescription test entry by how it is performed.
type TestKind string

const (
	TestKindLab     TestKind = "lab"
	TestKindImaging TestKind = "imaging"
	TestKindHome    TestKind = "home"
)

// Test is one diagnostic test or investigation named in a consultation.
type Test struct {
	Name string
	Kind TestKind
}

// Route enumerates the administration routes a Medicine may use.
type Route string

const (
	RouteOral       Route = "oral"
	RouteNasal      Route = "nasal"
	RouteTopical    Route = "topical"
	RouteOphthalmic Route = "ophthalmic"
	RouteOtic       Route = "otic"
	RouteInhaled    Route = "inhaled"
	RouteParenteral Route = "parenteral"
	RouteRectal     Route = "rectal"
)

// ExtractionMethod records which extractor ultimately produced a Prescription.
type ExtractionMethod string

const (
	ExtractionMethodLLM      ExtractionMethod = "llm"
	ExtractionMethodRules    ExtractionMethod = "rules"
	ExtractionMethodEnsemble ExtractionMethod = "ensemble"
)

// Medicine is one prescribed drug entry.
type Medicine struct {
	// Name is the canonical generic drug name.
	Name string `validate:"required"`

	// Dose is a string with unit (e.g. "500 mg"), or empty if unknown.
	Dose string

	// Frequency is the canonical frequency phrase (e.g. "twice daily").
	Frequency string

	// Duration is a free-form duration string (e.g. "5 days").
	Duration string

	// Instruction is free text such as "after food".
	Instruction string

	// Route is the administration route, inferred when not stated.
	Route Route `validate:"omitempty,oneof=oral nasal topical ophthalmic otic inhaled parenteral rectal"`
}

// Prescription is the pipeline's final structured output.
type Prescription struct {
	PatientName string
	Age         string
	Gender      string

	Complaints []string
	Diagnosis  []string
	Medicines  []Medicine
	Tests      []Test
	Advice     []string

	// FollowUpDays is the number of days until the follow-up visit, or nil
	// if none was mentioned.
	FollowUpDays *int

	Language   string
	Confidence float64 `validate:"gte=0,lte=1"`

	ExtractionMethod  ExtractionMethod `validate:"required,oneof=llm rules ensemble"`
	TranscriptionTier int

	Timestamp time.Time

	// Warnings accumulates non-fatal issues raised by any stage (ensemble
	// merge conflicts, post-processing corrections, validation notices).
	Warnings []string
}

// IssueSeverity distinguishes a fatal Validator finding from an advisory one.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ValidationIssue is one problem the Validator raised against a Prescription.
type ValidationIssue struct {
	Field    string
	Message  string
	Severity IssueSeverity
}

// ValidationReport is the Validator's verdict. A Prescription with Valid
// false is still returned to the caller; it is never discarded.
type ValidationReport struct {
	Valid  bool
	Issues []ValidationIssue
}
