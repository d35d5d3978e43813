package postprocess

import "strings"

// defaultAllowedFrequencies is the set of canonical frequency phrases
// permitted for a drug when no drug-specific override applies. Mirrors the
// canonical forms the Dosage/Term Normalizer produces.
var defaultAllowedFrequencies = []string{
	"once daily", "twice daily", "3 times a day", "every 8 hours",
	"every 6 hours", "once at night", "as needed",
}

// onceDailyOnlyDrugs lists drugs whose dosing schedule is clinically
// once-daily only; a higher-frequency extraction for these is always
// corrected down to "once daily" rather than the nearest token-overlap
// match, since no amount of overlap makes "3 times a day" a legal schedule
// for a once-daily drug.
var onceDailyOnlyDrugs = map[string]struct{}{
	"azithromycin":  {},
	"levothyroxine": {},
	"atorvastatin":  {},
	"amlodipine":    {},
	"losartan":      {},
	"montelukast":   {},
}

// allowedFrequencies returns the legal frequency set for drugName.
func allowedFrequencies(drugName string) []string {
	if _, onceOnly := onceDailyOnlyDrugs[strings.ToLower(drugName)]; onceOnly {
		return []string{"once daily"}
	}
	return defaultAllowedFrequencies
}

// correctFrequency returns freq unchanged if it is already legal for
// drugName, or the nearest allowed frequency by shared-token count
// otherwise (ties broken by preferring the most common schedule, "twice
// daily"). Returns ("", false) when freq is empty — nothing to correct.
func correctFrequency(drugName, freq string) (corrected string, changed bool) {
	if freq == "" {
		return "", false
	}

	allowed := allowedFrequencies(drugName)
	for _, a := range allowed {
		if strings.EqualFold(a, freq) {
			return freq, false
		}
	}

	freqTokens := tokenSet(freq)
	best := allowed[0]
	bestScore := -1
	for _, candidate := range allowed {
		score := overlapCount(freqTokens, tokenSet(candidate))
		if score > bestScore || (score == bestScore && candidate == "twice daily") {
			bestScore = score
			best = candidate
		}
	}
	return best, true
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func overlapCount(a, b map[string]struct{}) int {
	count := 0
	for k := range a {
		if _, ok := b[k]; ok {
			count++
		}
	}
	return count
}
