package rules

import (
	"regexp"
	"strings"

	"github.com/MrWong99/glyphoxa/internal/knowledge"
)

// namePatterns finds a candidate patient name via multilingual greeting and
// introduction phrasing. Checked in order; the first match that passes
// isValidName wins. Grounded
// on original_source/src/extraction.py's _extract_patient_name patterns,
// extended with the Thanglish/Arabic greeting forms named in the Rule
// Extractor's contract.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)patient\s+(?:named\s+|is\s+|name\s+)?([a-z]+(?:\s+[a-z]+)?)`),
	regexp.MustCompile(`(?i)with\s+patient\s+([a-z]+(?:\s+[a-z]+)?)`),
	regexp.MustCompile(`(?i)consultation\s+with\s+(?:patient\s+)?([a-z]+)`),
	regexp.MustCompile(`(?i)(?:hi|hello|greetings)\s+([a-z]+(?:\s+[a-z]+)?)`),
	regexp.MustCompile(`(?i)(?:patient\s+)?name\s+(?:is\s+)?([a-z]+(?:\s+[a-z]+)?)`),
	// Tamil/Thanglish: "patient peru/peyar NAME"
	regexp.MustCompile(`(?i)patient\s+per[uy](?:ar)?\s+([a-z]+(?:\s+[a-z]+)?)`),
	// Arabic greeting, transliterated after upstream Thanglish/Arabic
	// normalization ("marhaban"/"ahlan NAME").
	regexp.MustCompile(`(?i)(?:marhaban|ahlan)\s+([a-z]+(?:\s+[a-z]+)?)`),
}

var invalidNameTokens = map[string]struct{}{
	"today": {}, "tomorrow": {}, "yesterday": {}, "now": {}, "then": {},
	"the": {}, "a": {}, "is": {}, "has": {}, "been": {}, "going": {}, "get": {}, "have": {},
}

// ExtractPatientName finds a plausible patient name in text. Names that
// collide with a known symptom or drug token are rejected (a real name is
// never the word "fever" or "paracetamol").
func ExtractPatientName(text string, kb *knowledge.Base) string {
	for _, pattern := range namePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if isValidName(name, kb) {
			return formatName(name)
		}
	}
	return ""
}

func isValidName(name string, kb *knowledge.Base) bool {
	if len(name) <= 1 {
		return false
	}
	lower := strings.ToLower(name)
	if _, bad := invalidNameTokens[lower]; bad {
		return false
	}
	if kb.IsKnownDrug(lower) {
		return false
	}
	if len(kb.MatchComplaints(lower)) > 0 || len(kb.MatchDiagnoses(lower)) > 0 {
		return false
	}
	return true
}

// formatName title-cases each word, preserving an all-caps acronym as-is.
func formatName(name string) string {
	if name == strings.ToUpper(name) {
		return strings.ToUpper(name)
	}
	words := strings.Fields(name)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
