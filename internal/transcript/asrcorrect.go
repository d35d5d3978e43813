package transcript

import (
	"regexp"
	"strings"
)

// asrRule is one ordered find/replace correction.
type asrRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// asrCorrectionTable fixes recurring Whisper-class phonetic distortions of
// common drug names and clinical terms. Entries are matched
// case-insensitively on word boundaries and applied in table order.
var asrCorrectionTable = []asrRule{
	{regexp.MustCompile(`(?i)\blevo\s*cetrizine\b`), "levocetirizine"},
	{regexp.MustCompile(`(?i)\blevo\s*citrizine\b`), "levocetirizine"},
	{regexp.MustCompile(`(?i)\bbenzidamine\b`), "benzydamine"},
	{regexp.MustCompile(`(?i)\bbenzydamide\b`), "benzydamine"},
	{regexp.MustCompile(`(?i)\berythromicin\b`), "erythromycin"},
	{regexp.MustCompile(`(?i)\bamoxyci?llin\b`), "amoxicillin"},
	{regexp.MustCompile(`(?i)\bamoxicilin\b`), "amoxicillin"},
	{regexp.MustCompile(`(?i)\bparacitamol\b`), "paracetamol"},
	{regexp.MustCompile(`(?i)\bparacetemol\b`), "paracetamol"},
	{regexp.MustCompile(`(?i)\baspirine\b`), "aspirin"},
	{regexp.MustCompile(`(?i)\branitidin\b`), "ranitidine"},
	{regexp.MustCompile(`(?i)\bmetphormin\b`), "metformin"},
	{regexp.MustCompile(`(?i)\bmetaformin\b`), "metformin"},
	{regexp.MustCompile(`(?i)\bomiprazole\b`), "omeprazole"},
	{regexp.MustCompile(`(?i)\bomeprazol\b`), "omeprazole"},
	{regexp.MustCompile(`(?i)\bciprofloxin\b`), "ciprofloxacin"},
	{regexp.MustCompile(`(?i)\bciproflaxacin\b`), "ciprofloxacin"},
	{regexp.MustCompile(`(?i)\bantibiotic\s+course\b`), "antibiotic course"},
	{regexp.MustCompile(`(?i)\bpharangitis\b`), "pharyngitis"},
	{regexp.MustCompile(`(?i)\bfaringitis\b`), "pharyngitis"},
	{regexp.MustCompile(`(?i)\binfaction\b`), "infection"},
	{regexp.MustCompile(`(?i)\bin fection\b`), "infection"},
}

// dosageUnitSpacingTable normalizes spacing between a numeral and its dosage
// unit so downstream dosage parsing sees a consistent "<number> <unit>" form.
var dosageUnitSpacingTable = []asrRule{
	{regexp.MustCompile(`(?i)(\d)\s*mg\b`), "$1 mg"},
	{regexp.MustCompile(`(?i)(\d)\s*ml\b`), "$1 ml"},
	{regexp.MustCompile(`(?i)(\d)\s*mcg\b`), "$1 mcg"},
	{regexp.MustCompile(`(?i)(\d)\s*(?:gm|gram|grams)\b`), "$1 gm"},
	{regexp.MustCompile(`(?i)(\d)\s*iu\b`), "$1 IU"},
	{regexp.MustCompile(`(?i)(\d)\s*units?\b`), "$1 unit"},
	{regexp.MustCompile(`(?i)(\d)\s*tablets?\b`), "$1 tablet"},
	{regexp.MustCompile(`(?i)(\d)\s*capsules?\b`), "$1 capsule"},
	{regexp.MustCompile(`(?i)(\d)\s*drops?\b`), "$1 drop"},
	{regexp.MustCompile(`(?i)(\d)\s*tsp\b`), "$1 teaspoon"},
	{regexp.MustCompile(`(?i)(\d)\s*tbsp\b`), "$1 tablespoon"},
}

// RegexCorrector applies a fixed, ordered table of corrections to raw
// transcript text: known ASR phonetic distortions, dosage-unit spacing, and
// consecutive duplicate-word removal. It is stateless and safe for
// concurrent use.
type RegexCorrector struct {
	rules []asrRule
}

// NewRegexCorrector builds a RegexCorrector from the built-in correction
// tables.
func NewRegexCorrector() *RegexCorrector {
	rules := make([]asrRule, 0, len(asrCorrectionTable)+len(dosageUnitSpacingTable))
	rules = append(rules, asrCorrectionTable...)
	rules = append(rules, dosageUnitSpacingTable...)
	return &RegexCorrector{rules: rules}
}

// Correct applies every rule in order, then removes consecutive duplicate
// words (a common artefact of stuttered speech or re-recognition overlap).
// It returns the corrected text and the list of distinct substitutions that
// fired.
func (c *RegexCorrector) Correct(text string) (string, []Correction) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	working := text
	var corrections []Correction
	for _, rule := range c.rules {
		if !rule.pattern.MatchString(working) {
			continue
		}
		before := working
		working = rule.pattern.ReplaceAllString(working, rule.replacement)
		if working != before {
			corrections = append(corrections, Correction{
				Original:   strings.TrimSpace(rule.pattern.FindString(before)),
				Corrected:  rule.replacement,
				Confidence: 1.0,
				Method:     "regex",
			})
		}
	}

	deduped := removeConsecutiveDuplicateWords(working)
	if deduped != working {
		corrections = append(corrections, Correction{
			Original:   working,
			Corrected:  deduped,
			Confidence: 1.0,
			Method:     "regex",
		})
		working = deduped
	}

	return working, corrections
}

// removeConsecutiveDuplicateWords drops a token when it repeats the
// immediately preceding token, case-insensitively — a common stutter
// artefact in STT output. Go's RE2-based regexp engine has no backreference
// support, so this is done with a plain token scan rather than a regex.
func removeConsecutiveDuplicateWords(text string) string {
	tokens := strings.Fields(text)
	if len(tokens) < 2 {
		return text
	}

	output := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if i > 0 && strings.EqualFold(tok, tokens[i-1]) {
			continue
		}
		output = append(output, tok)
	}
	return strings.Join(output, " ")
}
