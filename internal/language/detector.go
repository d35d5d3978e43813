// Package language classifies consultation transcripts into the languages
// the extraction pipeline understands (English, Tamil, Thanglish, Arabic,
// or code-mixed) and normalizes Thanglish text back into Tamil script for
// downstream extractors that expect native-script input.
package language

import (
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/MrWong99/glyphoxa/pkg/types"
)

// Primary language codes produced by Detect.
const (
	LangEnglish   = "en"
	LangTamil     = "ta"
	LangThanglish = "thanglish"
	LangArabic    = "ar"
	LangMixed     = "mixed"
)

// tamilScriptDensityThreshold is the minimum fraction of Tamil-Unicode-range
// characters required to classify text as native Tamil script.
const tamilScriptDensityThreshold = 0.10

// thanglishCueThreshold is the minimum number of romanized-Tamil cue-token
// matches required before Thanglish is preferred over English.
const thanglishCueThreshold = 2

// arabicRange covers the Arabic script Unicode block.
var arabicRange = &unicodeRange{lo: 0x0600, hi: 0x06FF}

// tamilRange covers the Tamil script Unicode block.
var tamilRange = &unicodeRange{lo: 0x0B80, hi: 0x0BFF}

type unicodeRange struct{ lo, hi rune }

func (r *unicodeRange) contains(c rune) bool { return c >= r.lo && c <= r.hi }

// thanglishCueWords are romanized Tamil function words and medical terms
// commonly seen in Tamil-English code-mixed consultation transcripts.
var thanglishCueWords = []string{
	"noi", "marunthu", "vali", "kaichal", "kayachel", "kaiachel", "sapadu",
	"kaalai", "iravu", "pannu", "pannalam", "panna", "panren", "eduthukko",
	"edukkalaam", "kurichiko", "kudichuko", "varalam", "varalaam", "varum",
	"agum", "aagum", "irukku", "irundha", "apram", "appram", "adhanala",
	"maadhiri", "kammi", "romba", "neraya", "konjam", "idhu", "idu",
	"unakku", "udane", "illana", "koodadhu", "kudadu", "naal", "naalu",
	"aana", "silla", "sila", "pakkathula",
}

var thanglishCuePattern = compileCuePattern(thanglishCueWords)

func compileCuePattern(words []string) *regexp.Regexp {
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(` + strings.Join(escaped, "|") + `)\b`)
}

// Detector classifies transcript text into a LanguageDecision.
type Detector struct{}

// NewDetector constructs a Detector. It holds no state beyond its constant
// tables and is safe for concurrent use.
func NewDetector() *Detector { return &Detector{} }

// Detect classifies text, combining script-based signals, a romanized-Tamil
// cue-token count, and a general-purpose statistical identifier
// (whatlanggo) with the acoustic language hint the Transcriber reported.
func (d *Detector) Detect(text, acousticHint string) types.LanguageDecision {
	if strings.TrimSpace(text) == "" {
		return types.LanguageDecision{Primary: LangEnglish, Confidence: 0, AcousticHint: acousticHint}
	}

	tamilRatio := scriptDensity(text, tamilRange)
	arabicRatio := scriptDensity(text, arabicRange)

	if arabicRatio > tamilScriptDensityThreshold {
		return types.LanguageDecision{
			Primary:      LangArabic,
			Confidence:   clamp01(arabicRatio),
			AcousticHint: acousticHint,
			LexicalHint:  LangArabic,
		}
	}

	if tamilRatio > tamilScriptDensityThreshold {
		return types.LanguageDecision{
			Primary:      LangTamil,
			Confidence:   clamp01(tamilRatio),
			AcousticHint: acousticHint,
			LexicalHint:  LangTamil,
		}
	}

	cueMatches := len(thanglishCuePattern.FindAllString(strings.ToLower(text), -1))

	info := whatlanggo.Detect(text)
	lexicalHint := info.Lang.Iso6391()
	statisticalSaysEnglish := lexicalHint == LangEnglish && info.Confidence > 0.5

	if cueMatches >= thanglishCueThreshold && !statisticalSaysEnglish {
		confidence := clamp01(0.6 + float64(cueMatches)*0.05)
		return types.LanguageDecision{
			Primary:      LangThanglish,
			Confidence:   confidence,
			AcousticHint: acousticHint,
			LexicalHint:  LangThanglish,
		}
	}

	// Both signals disagree with low confidence: neither script density nor
	// cue count nor the statistical identifier committed to a language.
	if cueMatches > 0 && cueMatches < thanglishCueThreshold && !statisticalSaysEnglish {
		return types.LanguageDecision{
			Primary:      LangMixed,
			Confidence:   0.5,
			AcousticHint: acousticHint,
			LexicalHint:  lexicalHint,
		}
	}

	confidence := 0.85
	if acousticHint != "" && acousticHint != LangEnglish {
		confidence = 0.6
	}
	return types.LanguageDecision{
		Primary:      LangEnglish,
		Confidence:   confidence,
		AcousticHint: acousticHint,
		LexicalHint:  lexicalHint,
	}
}

func scriptDensity(text string, r *unicodeRange) float64 {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0
	}
	count := 0
	for _, c := range runes {
		if r.contains(c) {
			count++
		}
	}
	return float64(count) / float64(len(runes))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
