package normalize

import (
	"fmt"
	"regexp"
	"strconv"
)

// frequencyRule rewrites a frequency phrase into one of the canonical forms
// named in the Dosage/Term Normalizer's contract: "once daily", "twice
// daily", "3 times a day", "every N hours", "once at night", "as needed".
type frequencyRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// frequencyCanonicalizationTable canonicalizes common frequency phrasings.
// Grounded on original_source/src/normalization.py's FREQUENCY_PATTERNS
// table. Ordered most-specific-first so e.g. "once at night" is matched
// before the generic "once" rule.
var frequencyCanonicalizationTable = []frequencyRule{
	{regexp.MustCompile(`(?i)\b(?:once|one time)\s+(?:at\s+)?(?:night|bedtime)\b`), "once at night"},
	{regexp.MustCompile(`(?i)\bbefore\s+(?:sleeping|sleep|bed)\b`), "once at night"},
	{regexp.MustCompile(`(?i)\bas\s+(?:needed|required)\b`), "as needed"},
	{regexp.MustCompile(`(?i)\b(?:sos|prn)\b`), "as needed"},
	{regexp.MustCompile(`(?i)\b(?:once|one time|1\s*time)\s+(?:a|per)\s+day\b`), "once daily"},
	{regexp.MustCompile(`(?i)\bonce\s+daily\b`), "once daily"},
	{regexp.MustCompile(`(?i)\b(?:twice|two times|2\s*times)\s+(?:a|per)\s+day\b`), "twice daily"},
	{regexp.MustCompile(`(?i)\btwice\s+daily\b`), "twice daily"},
	{regexp.MustCompile(`(?i)\b(?:thrice|three times|3\s*times)\s+(?:a|per)\s+day\b`), "3 times a day"},
}

// everyHoursPattern matches "every N hours" (including spelled-out small
// numbers), normalized to a digit form.
var everyHoursPattern = regexp.MustCompile(`(?i)\bevery\s+(\d+|one|two|three|four|six|eight|twelve)\s+hours?\b`)

// nTimesADayPattern matches "N times a day" for N >= 4, which has no
// dedicated canonical phrase and is instead expressed as "every N hours".
var nTimesADayPattern = regexp.MustCompile(`(?i)\b(\d+)\s+times\s+(?:a|per)\s+day\b`)

var spelledNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "six": 6, "eight": 8, "twelve": 12,
}

// applyFrequencyCanonicalization rewrites every recognized frequency phrase
// in text to its canonical form and returns the list of substitutions
// applied.
func applyFrequencyCanonicalization(text string) (string, []Substitution) {
	working := text
	var subs []Substitution

	for _, rule := range frequencyCanonicalizationTable {
		if !rule.pattern.MatchString(working) {
			continue
		}
		before := working
		working = rule.pattern.ReplaceAllString(working, rule.replacement)
		if working != before {
			subs = append(subs, Substitution{
				Original:  rule.pattern.FindString(before),
				Corrected: rule.replacement,
			})
		}
	}

	if nTimesADayPattern.MatchString(working) {
		before := working
		working = nTimesADayPattern.ReplaceAllStringFunc(working, func(match string) string {
			groups := nTimesADayPattern.FindStringSubmatch(match)
			n, err := strconv.Atoi(groups[1])
			if err != nil || n < 4 {
				return match
			}
			hours := 24 / n
			return fmt.Sprintf("every %d hours", hours)
		})
		if working != before {
			subs = append(subs, Substitution{Original: before, Corrected: working})
		}
	}

	if everyHoursPattern.MatchString(working) {
		before := working
		working = everyHoursPattern.ReplaceAllStringFunc(working, func(match string) string {
			groups := everyHoursPattern.FindStringSubmatch(match)
			n, ok := spelledNumbers[groups[1]]
			if !ok {
				parsed, err := strconv.Atoi(groups[1])
				if err != nil {
					return match
				}
				n = parsed
			}
			return fmt.Sprintf("every %d hours", n)
		})
		if working != before {
			subs = append(subs, Substitution{Original: before, Corrected: working})
		}
	}

	return working, subs
}
