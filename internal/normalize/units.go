package normalize

import "regexp"

// unitRule rewrites a numeral + unit-variant span into its canonical form.
type unitRule struct {
	pattern     *regexp.Regexp
	replacement string
	label       string
}

// unitCanonicalizationTable canonicalizes dosage units to mg/ml/g/mcg,
// folding in spelled-out and mis-spaced variants. Grounded on
// original_source/src/normalization.py's DOSAGE_PATTERNS table.
var unitCanonicalizationTable = []unitRule{
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:milli\s*grams?|milligrams?)\b`), "$1 mg", "mg"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mgs?\b`), "$1 mg", "mg"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:milli\s*litres?|milli\s*liters?|millilitres?|milliliters?)\b`), "$1 ml", "ml"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mls?\b`), "$1 ml", "ml"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:micro\s*grams?|micrograms?)\b`), "$1 mcg", "mcg"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mcgs?\b`), "$1 mcg", "mcg"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:grams?|gms?)\b`), "$1 g", "g"},
}

// applyUnitCanonicalization rewrites every recognized dosage-unit span in
// text to its canonical form and returns the list of distinct
// substitutions applied.
func applyUnitCanonicalization(text string) (string, []Substitution) {
	working := text
	var subs []Substitution
	for _, rule := range unitCanonicalizationTable {
		if !rule.pattern.MatchString(working) {
			continue
		}
		before := working
		working = rule.pattern.ReplaceAllString(working, rule.replacement)
		if working != before {
			subs = append(subs, Substitution{
				Original:  rule.pattern.FindString(before),
				Corrected: rule.label,
			})
		}
	}
	return working, subs
}
