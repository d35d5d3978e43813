// Package llmextract implements the LLM Extractor: it prompts a language
// model to turn a normalized consultation transcript directly into a
// structured [types.Prescription].
//
// Model selection and retry-on-transient-failure are the caller's
// responsibility — pass an [llm.Provider] already wrapping a
// [resilience.LLMFallback] to get sequential model fallback with
// per-model circuit breaking. This package concerns itself only with
// prompting, JSON recovery, and post-extraction cleanup of whatever model
// ultimately responded.
package llmextract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/MrWong99/glyphoxa/internal/knowledge"
	llm "github.com/MrWong99/glyphoxa/pkg/provider/llm"
	"github.com/MrWong99/glyphoxa/pkg/types"
	"github.com/antzucaro/matchr"
)

const (
	defaultTemperature = 0.0
	defaultMaxTokens   = 2000

	// fuzzyCorrectionFloor is the minimum Jaro-Winkler similarity
	// (computed by matchr.JaroWinkler) a medicine name must clear
	// before the extractor substitutes the nearest known drug name for it.
	fuzzyCorrectionFloor = 0.4

	// llmExtractionConfidence is the fixed confidence assigned to a
	// successfully parsed model response. Greedy (temperature=0) decoding
	// against a constrained schema makes the model's own per-token
	// probability an unreliable signal, so the extractor reports a single
	// high constant on success rather than fabricating one, mirroring
	// original_source/src/transcription.py's fixed `confidence = 0.92` for
	// a reliable collaborator.
	llmExtractionConfidence = 0.9

	// emptyShellConfidence is reported when JSON recovery fails twice and
	// the extractor falls back to an empty shell: the field contents
	// cannot be trusted at all.
	emptyShellConfidence = 0.1
)

const systemPromptTemplate = `You are a medical data extraction specialist. Extract prescription data from the following medical consultation transcript, which may be in English, Tamil/Thanglish, Arabic, or a mixture.

Return STRICTLY VALID JSON ONLY. Do not include markdown, code fences, comments, or any explanation. Output must begin with { and end with }.

All medicine names, diagnoses, and complaints MUST be translated to their ENGLISH clinical equivalents, even when the source consultation is not in English. Patient names may remain in their original language/script.

Bilingual cues you may encounter:
- Tamil/Thanglish: 'kaichal'/'kayachel' = fever, 'vali' = pain, 'marunthu' = medicine, 'noi' = disease, 'mookkadaippu' = nasal congestion, 'daily X murai' = X times a day, 'food apram' = after food, 'iravu' = at night.
- Arabic: 'حمى'/'humma' = fever, 'ألم'/'alam' = pain, 'دواء'/'dawa' = medicine, 'التهاب الحلق' = pharyngitis, 'بعد الأكل' = after food, 'قبل النوم' = before sleep.

Return JSON with exactly these keys:
{
  "patient_name": "string or null",
  "age": "string or null",
  "gender": "string or null",
  "complaints": ["fever", "throat pain"],
  "diagnosis": ["viral pharyngitis"],
  "medicines": [
    {"name": "paracetamol", "dose": "500 mg", "frequency": "3 times a day", "duration": "5 days", "instruction": "after food", "route": "oral"}
  ],
  "tests": [{"name": "CBC", "kind": "lab"}],
  "advice": ["avoid cold drinks", "drink warm water"],
  "follow_up_days": null
}

Rules:
- Capture every medicine mentioned, including tablets, syrups, sprays, and supplements.
- Extract the patient name once; never repeat it (e.g. "Hi Rohit, Rohit..." → "Rohit").
- If a field is not mentioned, use null (for scalars) or an empty array (for lists). Never invent values.
- If the transcript is too unclear to extract a field confidently, return null for it rather than guessing.

Known medicine names for reference (use exactly these spellings when a mentioned drug matches one):
%s

Output ONLY the JSON object.`

// rawMedicine mirrors the medicine object the model is asked to emit.
type rawMedicine struct {
	Name        string `json:"name"`
	Dose        string `json:"dose"`
	Frequency   string `json:"frequency"`
	Duration    string `json:"duration"`
	Instruction string `json:"instruction"`
	Route       string `json:"route"`
}

// rawTest mirrors the test object the model is asked to emit.
type rawTest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// rawPrescription is the JSON shape requested from the model.
type rawPrescription struct {
	PatientName  *string       `json:"patient_name"`
	Age          *string       `json:"age"`
	Gender       *string       `json:"gender"`
	Complaints   []string      `json:"complaints"`
	Diagnosis    []string      `json:"diagnosis"`
	Medicines    []rawMedicine `json:"medicines"`
	Tests        []rawTest     `json:"tests"`
	Advice       []string      `json:"advice"`
	FollowUpDays *int          `json:"follow_up_days"`
}

// Option is a functional option for configuring an [Extractor].
type Option func(*Extractor)

// WithTemperature overrides the sampling temperature. Default: 0 (greedy).
func WithTemperature(temp float64) Option {
	return func(e *Extractor) { e.temperature = temp }
}

// WithMaxTokens overrides the completion token cap. Default: 2000.
func WithMaxTokens(tokens int) Option {
	return func(e *Extractor) { e.maxTokens = tokens }
}

// Extractor turns a transcript into a [types.Prescription] via an
// [llm.Provider]. It is safe for concurrent use.
type Extractor struct {
	provider    llm.Provider
	kb          *knowledge.Base
	temperature float64
	maxTokens   int
}

// New returns a new [Extractor]. provider supplies model access — pass a
// [resilience.LLMFallback] to get sequential model fallback. kb supplies
// the gazetteer used for fuzzy drug-name correction.
func New(provider llm.Provider, kb *knowledge.Base, opts ...Option) *Extractor {
	e := &Extractor{
		provider:    provider,
		kb:          kb,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract prompts the model to extract a Prescription from transcript.
//
// When the response cannot be recovered as JSON it retries once with an
// explicit completion reminder; if JSON recovery still fails after both
// attempts, it returns
// an empty-shell Prescription with ExtractionMethod "llm" and a warning,
// rather than an error — per the contract, this extractor only errors
// when the underlying provider itself fails (e.g. every fallback model
// exhausted).
func (e *Extractor) Extract(ctx context.Context, transcript string) (*types.Prescription, error) {
	sysPrompt := fmt.Sprintf(systemPromptTemplate, strings.Join(e.kb.MedicineNames(), ", "))

	req := llm.CompletionRequest{
		SystemPrompt: sysPrompt,
		Temperature:  e.temperature,
		MaxTokens:    e.maxTokens,
		Messages: []types.Message{
			{Role: "user", Content: transcript},
		},
	}

	resp, err := e.provider.Complete(ctx, req)
	if err != nil {
		return nil, types.NewPipelineError(types.ErrExtraction, "llm_extractor", true, err)
	}

	var raw rawPrescription
	if !recoverJSON(resp.Content, &raw) {
		retryReq := req
		retryReq.Messages = []types.Message{
			{Role: "user", Content: transcript},
			{Role: "assistant", Content: resp.Content},
			{Role: "user", Content: "Your previous response was not valid JSON. Return ONLY the complete JSON object, with no markdown or explanation, ensuring it is not truncated."},
		}
		retryResp, retryErr := e.provider.Complete(ctx, retryReq)
		if retryErr != nil {
			return nil, types.NewPipelineError(types.ErrExtraction, "llm_extractor", true, retryErr)
		}
		if !recoverJSON(retryResp.Content, &raw) {
			return emptyShell(), nil
		}
	}

	p := toPrescription(raw)
	e.cleanup(&p, transcript)
	return &p, nil
}

// emptyShell is the best-effort result returned when JSON recovery fails
// twice in a row — never an error, per the extractor's graceful-degradation
// contract.
func emptyShell() *types.Prescription {
	return &types.Prescription{
		ExtractionMethod: types.ExtractionMethodLLM,
		Confidence:       emptyShellConfidence,
		Warnings:         []string{"llm extractor: could not parse model response after retry"},
	}
}

func toPrescription(raw rawPrescription) types.Prescription {
	p := types.Prescription{
		Complaints:       raw.Complaints,
		Diagnosis:        raw.Diagnosis,
		Tests:            make([]types.Test, 0, len(raw.Tests)),
		Advice:           raw.Advice,
		ExtractionMethod: types.ExtractionMethodLLM,
		Confidence:       llmExtractionConfidence,
		FollowUpDays:     raw.FollowUpDays,
	}
	if raw.PatientName != nil {
		p.PatientName = *raw.PatientName
	}
	if raw.Age != nil {
		p.Age = *raw.Age
	}
	if raw.Gender != nil {
		p.Gender = *raw.Gender
	}

	for _, m := range raw.Medicines {
		p.Medicines = append(p.Medicines, types.Medicine{
			Name:        m.Name,
			Dose:        m.Dose,
			Frequency:   m.Frequency,
			Duration:    m.Duration,
			Instruction: m.Instruction,
			Route:       types.Route(m.Route),
		})
	}
	for _, t := range raw.Tests {
		p.Tests = append(p.Tests, types.Test{Name: t.Name, Kind: types.TestKind(t.Kind)})
	}

	return p
}

// invalidNameTokens are words the extractor refuses to accept as a patient
// name — time references, pronouns, and auxiliaries a mis-scoped name
// pattern sometimes captures instead. Grounded on
// original_source/src/extraction.py's _extract_patient_name invalid_names list.
var invalidNameTokens = map[string]struct{}{
	"today": {}, "tomorrow": {}, "yesterday": {}, "now": {}, "then": {},
	"the": {}, "a": {}, "is": {}, "has": {}, "been": {}, "going": {}, "get": {}, "have": {},
}

// numericTokenPattern finds a numeric component in a dose string.
var numericTokenPattern = regexp.MustCompile(`\d`)

// cleanup applies the post-extraction fixes the contract requires directly
// to p: patient-name deduplication and validity filtering, fuzzy drug-name
// correction, and dose nulling when no numeric token is present.
func (e *Extractor) cleanup(p *types.Prescription, transcript string) {
	p.PatientName = dedupeName(p.PatientName)
	if isInvalidName(p.PatientName, e.kb) {
		p.PatientName = ""
	}

	for i := range p.Medicines {
		med := &p.Medicines[i]
		if !e.kb.IsKnownDrug(med.Name) {
			if corrected, ok := e.fuzzyCorrect(med.Name); ok {
				med.Name = corrected
			}
		}
		if med.Dose != "" && !numericTokenPattern.MatchString(med.Dose) {
			med.Dose = ""
		}
	}
}

// dedupeName drops every repeat of a name token, adjacent or not, keeping
// the first occurrence, case-insensitively ("Rohit Rohit" → "Rohit").
func dedupeName(name string) string {
	words := strings.Fields(name)
	if len(words) < 2 {
		return name
	}
	seen := make([]string, 0, len(words))
	for _, w := range words {
		dup := false
		for _, s := range seen {
			if strings.EqualFold(s, w) {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, w)
		}
	}
	return strings.Join(seen, " ")
}

// isInvalidName reports whether name is empty, a known non-name token, or a
// recognized symptom/drug word rather than an actual patient name.
func isInvalidName(name string, kb *knowledge.Base) bool {
	if strings.TrimSpace(name) == "" {
		return true
	}
	lower := strings.ToLower(name)
	if _, bad := invalidNameTokens[lower]; bad {
		return true
	}
	if kb.IsKnownDrug(lower) {
		return true
	}
	return len(kb.MatchComplaints(lower)) > 0 || len(kb.MatchDiagnoses(lower)) > 0
}

// fuzzyCorrect finds the nearest known drug name to name using Jaro-Winkler
// similarity, applying it only when the similarity clears
// fuzzyCorrectionFloor. The no-undo guard lives in the caller: cleanup only
// calls fuzzyCorrect for medicines the gazetteer doesn't already recognize,
// so a name already corrected by an earlier stage (phonetic match, brand
// resolution) is never re-fuzzed.
func (e *Extractor) fuzzyCorrect(name string) (string, bool) {
	best := ""
	bestScore := 0.0
	lowerName := strings.ToLower(name)
	for _, candidate := range e.kb.MedicineNames() {
		score := matchr.JaroWinkler(lowerName, candidate, false)
		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}
	if bestScore >= fuzzyCorrectionFloor {
		return best, true
	}
	return "", false
}
