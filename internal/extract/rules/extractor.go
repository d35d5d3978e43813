// Package rules implements the Rule Extractor: a pattern-based extraction
// path built entirely from the Medical Knowledge Base gazetteer and a small
// library of domain regexes, used when a transcript is too poor to trust
// to the LLM Extractor alone, or as one half of the Ensemble Merger's
// voting input.
//
// Unlike the LLM Extractor, the Rule Extractor never fails: a transcript
// that matches nothing yields an empty (but valid) Prescription.
package rules

import (
	"regexp"

	"github.com/MrWong99/glyphoxa/internal/knowledge"
	"github.com/MrWong99/glyphoxa/pkg/types"
)

// labTestPattern recognizes common lab/imaging test mentions not already
// covered by a plain keyword gazetteer (abbreviations, hyphenated forms).
var labTestPattern = regexp.MustCompile(`(?i)\b(CBC|CRP|X-?ray(?:\s+PNS)?|PNS\s+x-?ray|nasal\s+swab|blood\s+test|urine\s+test|ECG|MRI|CT\s+scan)\b`)

// Extractor is the Rule Extractor. Its zero value is not usable; construct
// with [New].
type Extractor struct {
	kb *knowledge.Base
}

// New returns a new [Extractor] backed by kb.
func New(kb *knowledge.Base) *Extractor {
	return &Extractor{kb: kb}
}

// Extract builds a best-effort [types.Prescription] from text using only
// gazetteer lookups and regex patterns. It never returns an error.
func (e *Extractor) Extract(text string) *types.Prescription {
	p := &types.Prescription{
		PatientName:      ExtractPatientName(text, e.kb),
		Complaints:       e.kb.MatchComplaints(text),
		Diagnosis:        e.kb.MatchDiagnoses(text),
		Medicines:        ExtractMedicines(text, e.kb),
		Tests:            extractTests(text),
		Advice:           e.kb.EvidenceGatedAdvice(text),
		ExtractionMethod: types.ExtractionMethodRules,
	}
	p.Confidence = fillRatioConfidence(p)
	return p
}

// fillRatioConfidence scores a rule-extracted Prescription by how many of
// its key fields a gazetteer/regex match actually populated, out of the
// fields every complete prescription is expected to carry (patient name,
// at least one complaint, at least one medicine, and a diagnosis). A
// pattern-matched extractor has no model-confidence signal of its own, so
// this is the closest deterministic proxy: the more structure the
// gazetteer recognized, the more the result can be trusted.
func fillRatioConfidence(p *types.Prescription) float64 {
	const fields = 4
	filled := 0
	if p.PatientName != "" {
		filled++
	}
	if len(p.Complaints) > 0 {
		filled++
	}
	if len(p.Medicines) > 0 {
		filled++
	}
	if len(p.Diagnosis) > 0 {
		filled++
	}
	return float64(filled) / fields
}

// extractTests finds lab/imaging test mentions via labTestPattern,
// deduplicating by the normalized test name.
func extractTests(text string) []types.Test {
	matches := labTestPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	var tests []types.Test
	for _, m := range matches {
		key := normalizeTestName(m)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tests = append(tests, types.Test{Name: key, Kind: classifyTest(key)})
	}
	return tests
}

func normalizeTestName(raw string) string {
	switch {
	case matchesFold(raw, "cbc"):
		return "Complete Blood Count"
	case matchesFold(raw, "crp"):
		return "C-Reactive Protein"
	case matchesFold(raw, "ecg"):
		return "ECG"
	case matchesFold(raw, "mri"):
		return "MRI"
	}
	return raw
}

func matchesFold(s, want string) bool {
	if len(s) != len(want) {
		return false
	}
	for i := 0; i < len(s); i++ {
		a, b := s[i], want[i]
		if a >= 'A' && a <= 'Z' {
			a += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

func classifyTest(name string) types.TestKind {
	switch name {
	case "Complete Blood Count", "C-Reactive Protein":
		return types.TestKindLab
	case "MRI", "ECG":
		return types.TestKindImaging
	default:
		return types.TestKindLab
	}
}
