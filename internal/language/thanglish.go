package language

import (
	"regexp"
	"sort"
	"strings"
)

// thanglishEntry pairs one romanized Thanglish token with its Tamil-script
// rendering.
type thanglishEntry struct {
	latin string
	tamil string
	re    *regexp.Regexp
}

// thanglishRawTable maps romanized Tamil tokens commonly heard in consultation
// transcripts to Tamil script. Ordering in source is irrelevant — Normalizer
// sorts entries longest-token-first at construction so multi-syllable cues
// (e.g. "marunthu") win over any shorter substring they might otherwise be
// shadowed by (e.g. a hypothetical "maru").
var thanglishRawTable = map[string]string{
	"noi":       "நோய்",
	"marunthu":  "மருந்து",
	"vali":      "வலி",
	"kaichal":   "காய்ச்சல்",
	"sapadu":    "சாப்பாடு",
	"kaalai":    "காலை",
	"iravu":     "இரவு",
	"oru":       "ஒரு",
	"maaram":    "மாரம்",
	"kaasai":    "இருமல்",
	"throatil":  "தொண்டையில்",
	"ondru":     "ஒன்று",
	"randu":     "ரண்டு",
	"munnu":     "முன்னூ",
	"naanu":     "நான்கு",
	"aynu":      "ஐந்து",
	"neram":     "நேரம்",
	"nerattai":  "நேரத்தை",
	"inru":      "இன்று",
	"doctor":    "டாக்டர்",
	"uravai":    "உறுப்பு",
	"payanam":   "பயணம்",
	"vaalkai":   "வாழ்க்கை",
	"noimai":    "நோயுறுதல்",
}

// Normalizer rewrites Thanglish text into Tamil script using a deterministic
// longest-token-first table lookup. Out-of-vocabulary tokens (proper nouns,
// English cognates) pass through unchanged.
type Normalizer struct {
	entries []thanglishEntry
}

// NewNormalizer builds a Normalizer from the built-in Thanglish lookup
// table, sorted longest-token-first.
func NewNormalizer() *Normalizer {
	latins := make([]string, 0, len(thanglishRawTable))
	for k := range thanglishRawTable {
		latins = append(latins, k)
	}
	sort.Slice(latins, func(i, j int) bool { return len(latins[i]) > len(latins[j]) })

	entries := make([]thanglishEntry, 0, len(latins))
	for _, latin := range latins {
		entries = append(entries, thanglishEntry{
			latin: latin,
			tamil: thanglishRawTable[latin],
			re:    regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(latin) + `\b`),
		})
	}
	return &Normalizer{entries: entries}
}

// Normalize rewrites every recognized Thanglish token in text to Tamil
// script, longest tokens first, and reports whether any substitution was
// made. Unrecognized tokens are left untouched.
func (n *Normalizer) Normalize(text string) (normalized string, modified bool) {
	if strings.TrimSpace(text) == "" {
		return text, false
	}
	result := text
	for _, e := range n.entries {
		result = e.re.ReplaceAllString(result, e.tamil)
	}
	return result, !strings.EqualFold(result, text)
}
