package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MrWong99/glyphoxa/internal/knowledge"
	"github.com/MrWong99/glyphoxa/pkg/types"
)

// medicinePattern is a single sliding-window match over
// drug name → dose → frequency → duration, with the instruction/route
// captured separately since it does not always sit adjacent to the dose.
// The ordered-group design and the dose/frequency/duration vocabulary are
// grounded on original_source/src/extraction.py's _extract_medicines
// pattern list; unlike that list's five near-duplicate alternatives this
// is a single pattern with optional groups, since Go's regexp (RE2) has no
// backtracking penalty to avoid and a single pattern is easier to keep in
// sync with the Knowledge Base's unit vocabulary.
var medicinePattern = regexp.MustCompile(
	`(?i)(?:take|prescribe|give)?\s*([a-z][a-z\s]{1,40}?)\s+(\d+(?:\.\d+)?)\s*(mg|ml|mcg|gm|g|gram|iu|tablet|capsule|drop|unit)s?` +
		`(?:\s*[,.]?\s*(\d+)\s*times?\s+a\s+day)?` +
		`(?:\s+for\s+(\d+)\s*days?)?`,
)

// instructionKeywords maps a phrase to the canonical instruction text it
// implies, checked against the whole lowercased text; the first phrase
// found applies to every medicine match.
var instructionKeywords = []struct {
	phrase      string
	instruction string
}{
	{"after food", "after food"},
	{"before food", "before food"},
	{"at night", "at night"},
	{"as needed", "as needed"},
	{"empty stomach", "on empty stomach"},
}

// ExtractMedicines finds every drug name, [dose] [frequency] [duration]
// combination in text via a sliding-window regex match, deduplicating by
// canonical name and discarding matches whose name phrase contains no
// recognized drug (see resolveDrugName).
func ExtractMedicines(text string, kb *knowledge.Base) []types.Medicine {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	var medicines []types.Medicine

	for _, m := range medicinePattern.FindAllStringSubmatch(lower, -1) {
		name := resolveDrugName(m[1], kb)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		med := types.Medicine{Name: name}
		if m[2] != "" && m[3] != "" {
			med.Dose = fmt.Sprintf("%s %s", m[2], normalizeUnit(m[3]))
		}
		if m[4] != "" {
			med.Frequency = fmt.Sprintf("%s times a day", m[4])
		}
		if m[5] != "" {
			med.Duration = fmt.Sprintf("%s days", m[5])
		}
		med.Instruction = findInstruction(lower)

		medicines = append(medicines, med)
	}

	return medicines
}

// resolveDrugName takes the raw matched phrase (possibly several words,
// e.g. "take the erythromycin") and returns the recognized drug name
// within it, or "" if none is recognized.
func resolveDrugName(raw string, kb *knowledge.Base) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if hits := kb.MatchDrugs(raw); len(hits) > 0 {
		return hits[0]
	}
	// Fall back to the last word, the one most likely to be the drug name
	// in a short imperative phrase like "take paracetamol".
	words := strings.Fields(raw)
	last := words[len(words)-1]
	if kb.IsKnownDrug(last) {
		return last
	}
	return ""
}

func normalizeUnit(unit string) string {
	switch strings.ToLower(unit) {
	case "gram":
		return "g"
	default:
		return strings.ToLower(unit)
	}
}

func findInstruction(lowerText string) string {
	for _, kw := range instructionKeywords {
		if strings.Contains(lowerText, kw.phrase) {
			return kw.instruction
		}
	}
	return ""
}
