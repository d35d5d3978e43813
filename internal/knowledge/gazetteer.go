package knowledge

import (
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Gazetteer is a case-insensitive multi-pattern membership matcher backed
// by an Aho-Corasick automaton, letting the Rule Extractor and Transcript
// Cleaner test a block of text against the full drug/complaint/diagnosis
// vocabulary in a single linear pass instead of one regex per term.
type Gazetteer struct {
	matcher *goahocorasick.Machine
}

// newGazetteer builds a Gazetteer over terms. Terms are matched
// case-insensitively; matches are returned in their original (lowercased)
// form.
func newGazetteer(terms []string) (*Gazetteer, error) {
	patterns := make([][]rune, len(terms))
	for i, t := range terms {
		patterns[i] = []rune(strings.ToLower(t))
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Gazetteer{matcher: m}, nil
}

// Match returns every distinct term from the gazetteer that occurs as a
// substring of text, case-insensitively. Order is not significant.
func (g *Gazetteer) Match(text string) []string {
	lower := []rune(strings.ToLower(text))
	if len(lower) == 0 {
		return nil
	}

	hits := g.matcher.MultiPatternSearch(lower, false)
	if len(hits) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(hits))
	var out []string
	for _, h := range hits {
		word := string(h.Word)
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}

// Contains reports whether any gazetteer term occurs in text, case-insensitively.
func (g *Gazetteer) Contains(text string) bool {
	lower := []rune(strings.ToLower(text))
	if len(lower) == 0 {
		return false
	}
	return len(g.matcher.MultiPatternSearch(lower, false)) > 0
}
