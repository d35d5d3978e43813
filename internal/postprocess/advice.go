package postprocess

import (
	"regexp"
	"strings"
)

var sentenceSplitPattern = regexp.MustCompile(`[.!?]+`)

// adviceIndicators are verbs/markers that must appear in the sentence an
// advice item is grounded on; an overlap-only match without one of these is
// treated as coincidental wording rather than actual advice.
var adviceIndicators = []string{
	"rest", "avoid", "drink", "take", "follow", "wait", "continue", "complete",
}

// adviceOverlapThreshold is the minimum fraction of an advice item's
// content words that must appear in its grounding sentence.
const adviceOverlapThreshold = 0.7

// minContentWordLen is the shortest word length counted as a content word;
// articles, prepositions, and other short function words are excluded so
// they cannot inflate the overlap ratio.
const minContentWordLen = 4

// filterEvidenceGatedAdvice keeps only the items in advice that are
// actually grounded in transcript: at least adviceOverlapThreshold of the
// item's content words must appear in some sentence of transcript, and
// that sentence must contain one of adviceIndicators. Ungrounded items are
// dropped; [Processor.Process] reports each one as an
// "advice dropped: <item>" warning.
func filterEvidenceGatedAdvice(advice []string, transcript string) []string {
	if len(advice) == 0 {
		return advice
	}

	sentences := splitIntoSentences(transcript)
	var kept []string
	for _, item := range advice {
		if groundedInAnySentence(item, sentences) {
			kept = append(kept, item)
		}
	}
	return kept
}

func groundedInAnySentence(item string, sentences []string) bool {
	contentWords := contentWords(item)
	if len(contentWords) == 0 {
		return false
	}

	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		if !containsIndicator(lower) {
			continue
		}

		matched := 0
		for _, w := range contentWords {
			if strings.Contains(lower, w) {
				matched++
			}
		}
		if float64(matched)/float64(len(contentWords)) >= adviceOverlapThreshold {
			return true
		}
	}
	return false
}

func containsIndicator(lowerSentence string) bool {
	for _, ind := range adviceIndicators {
		if strings.Contains(lowerSentence, ind) {
			return true
		}
	}
	return false
}

func contentWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		trimmed := strings.Trim(w, ".,;:!?")
		if len(trimmed) >= minContentWordLen {
			words = append(words, trimmed)
		}
	}
	return words
}

func splitIntoSentences(text string) []string {
	return sentenceSplitPattern.Split(text, -1)
}
