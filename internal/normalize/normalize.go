// Package normalize implements the Dosage/Term Normalizer: the pipeline
// stage that runs after language detection and (optional) Thanglish
// rewriting, and before routing. It canonicalizes dosage units and
// frequency phrasing, resolves brand names to generics via the Medical
// Knowledge Base, and flags diagnosis/anatomy inconsistencies for the
// Post-Processor to act on.
//
// Brand→generic resolution runs here, before the extractors' fuzzy
// matching stage, so the generic name — not the brand — is what downstream
// gazetteer matching sees.
package normalize

import (
	"regexp"
	"strings"
)

// BrandResolver resolves a brand-name drug mention to its generic name.
// Implementations are backed by the Medical Knowledge Base.
type BrandResolver interface {
	// Resolve returns the generic name for brand and true when brand is a
	// known brand name. When brand is not recognized, ok is false and
	// generic must be empty.
	Resolve(brand string) (generic string, ok bool)
}

// AnatomyConflict flags a diagnosis term whose allowed-anatomy set does not
// include an anatomical term that appears in the same sentence — e.g. a
// sinus diagnosis paired with a pulmonary-only term.
type AnatomyConflict struct {
	// Sentence is the sentence the conflict was detected in.
	Sentence string

	// Diagnosis is the diagnosis term that triggered the check.
	Diagnosis string

	// ConflictingTerm is the disallowed anatomical term found alongside it.
	ConflictingTerm string
}

// Result is the output of [Normalizer.Normalize].
type Result struct {
	// Text is the fully normalized transcript text.
	Text string

	// UnitCorrections records every dosage-unit canonicalization applied.
	UnitCorrections []Substitution

	// FrequencyCorrections records every frequency-phrase canonicalization
	// applied.
	FrequencyCorrections []Substitution

	// BrandSubstitutions records every brand→generic substitution applied.
	BrandSubstitutions []Substitution

	// AnatomyConflicts lists every diagnosis/anatomy mismatch detected.
	// Nil when none were found.
	AnatomyConflicts []AnatomyConflict
}

// Substitution records one canonicalization applied by the Normalizer.
type Substitution struct {
	Original  string
	Corrected string
}

// Option is a functional option for configuring a [Normalizer].
type Option func(*Normalizer)

// WithBrandResolver attaches a [BrandResolver] used to rewrite brand-name
// drug mentions to their generic names. When unset, brand resolution is
// skipped.
func WithBrandResolver(r BrandResolver) Option {
	return func(n *Normalizer) {
		n.brands = r
	}
}

// WithAnatomyRule registers a diagnosis/anatomy consistency rule. A rule
// fires when diagnosisTerm appears in a sentence alongside any term in
// disallowedAnatomyTerms.
func WithAnatomyRule(diagnosisTerm string, disallowedAnatomyTerms []string) Option {
	return func(n *Normalizer) {
		n.anatomyRules = append(n.anatomyRules, anatomyRule{
			diagnosis:  strings.ToLower(diagnosisTerm),
			disallowed: lowerAll(disallowedAnatomyTerms),
		})
	}
}

type anatomyRule struct {
	diagnosis  string
	disallowed []string
}

// Normalizer canonicalizes dosage units, frequency phrasing, and brand
// names, and flags diagnosis/anatomy inconsistencies. It is safe for
// concurrent use.
type Normalizer struct {
	brands       BrandResolver
	anatomyRules []anatomyRule
}

// NewNormalizer constructs a Normalizer. By default it has no brand
// resolver and only the built-in anatomy rules (see defaultAnatomyRules);
// use [WithBrandResolver] to activate brand resolution and
// [WithAnatomyRule] to add further anatomy rules.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		anatomyRules: defaultAnatomyRules(),
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Normalize canonicalizes units and frequency phrasing in text, resolves
// brand names via the configured [BrandResolver], and checks for
// diagnosis/anatomy conflicts. It never returns an error: every stage
// degrades gracefully (unmatched text passes through unchanged).
func (n *Normalizer) Normalize(text string) *Result {
	result := &Result{}

	working, unitSubs := applyUnitCanonicalization(text)
	result.UnitCorrections = unitSubs

	working, freqSubs := applyFrequencyCanonicalization(working)
	result.FrequencyCorrections = freqSubs

	if n.brands != nil {
		working, result.BrandSubstitutions = n.applyBrandResolution(working)
	}

	result.Text = working
	result.AnatomyConflicts = n.detectAnatomyConflicts(working)

	return result
}

// applyBrandResolution rewrites recognized brand-name tokens to their
// generic equivalents using the configured [BrandResolver].
func (n *Normalizer) applyBrandResolution(text string) (string, []Substitution) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return text, nil
	}

	var subs []Substitution
	for i, tok := range tokens {
		stripped := strings.Trim(tok, ".,;:!?")
		generic, ok := n.brands.Resolve(stripped)
		if !ok || strings.EqualFold(generic, stripped) {
			continue
		}
		tokens[i] = generic
		subs = append(subs, Substitution{Original: stripped, Corrected: generic})
	}
	return strings.Join(tokens, " "), subs
}

// detectAnatomyConflicts scans each sentence of text for a configured
// diagnosis term co-occurring with one of its disallowed anatomical terms.
func (n *Normalizer) detectAnatomyConflicts(text string) []AnatomyConflict {
	if len(n.anatomyRules) == 0 {
		return nil
	}

	var conflicts []AnatomyConflict
	for _, sentence := range splitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, rule := range n.anatomyRules {
			if !strings.Contains(lower, rule.diagnosis) {
				continue
			}
			for _, term := range rule.disallowed {
				if strings.Contains(lower, term) {
					conflicts = append(conflicts, AnatomyConflict{
						Sentence:        strings.TrimSpace(sentence),
						Diagnosis:       rule.diagnosis,
						ConflictingTerm: term,
					})
				}
			}
		}
	}
	return conflicts
}

var sentenceSplitPattern = regexp.MustCompile(`[.!?]+`)

func splitSentences(text string) []string {
	parts := sentenceSplitPattern.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// defaultAnatomyRules seeds the sinus/nasal-vs-pulmonary conflict the
// Post-Processor's organ-context repair step relies on by default. Callers
// extend this set with [WithAnatomyRule].
func defaultAnatomyRules() []anatomyRule {
	return []anatomyRule{
		{
			diagnosis:  "sinusitis",
			disallowed: []string{"pulmonary", "lung", "bronchial"},
		},
		{
			diagnosis:  "rhinitis",
			disallowed: []string{"pulmonary", "lung", "bronchial"},
		},
	}
}

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}
