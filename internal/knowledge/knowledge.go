// Package knowledge implements the Medical Knowledge Base: the gazetteer of
// known drug names, brand→generic aliases, dangerous drug combinations,
// complaint/diagnosis keyword tables, and standard advice catalogue shared
// by the Transcript Cleaner, Dosage/Term Normalizer, Rule Extractor, and
// Validator.
//
// Base is built once at startup and is safe for concurrent read-only use by
// every downstream consumer.
package knowledge

import (
	"fmt"
	"sort"
	"strings"
)

// Base is the medical knowledge base. Construct with [NewBase].
type Base struct {
	drugs          *Gazetteer
	drugNames      []string
	complaints     *Gazetteer
	diagnoses      *Gazetteer
	standardAdvice *Gazetteer
	drugNameSet    map[string]struct{}

	complaintKeywords     []KeywordEntry
	diagnosisKeywords     []KeywordEntry
	standardAdviceTexts   []string
	adviceMapping         map[int][]string
	brandGeneric          map[string]string
	dangerousCombinations map[drugPair]string
}

// NewBase builds a Base from the package's built-in tables, optionally
// overridden by opts (see [WithTableFile]).
func NewBase(opts ...Option) (*Base, error) {
	t := defaultTables()
	for _, opt := range opts {
		if err := opt(&t); err != nil {
			return nil, fmt.Errorf("knowledge: %w", err)
		}
	}

	drugs, err := newGazetteer(t.knownDrugs)
	if err != nil {
		return nil, err
	}

	complaintTerms := make([]string, len(t.complaintKeywords))
	for i, e := range t.complaintKeywords {
		complaintTerms[i] = e.Keyword
	}
	complaints, err := newGazetteer(complaintTerms)
	if err != nil {
		return nil, err
	}

	diagnosisTerms := make([]string, len(t.diagnosisKeywords))
	for i, e := range t.diagnosisKeywords {
		diagnosisTerms[i] = e.Keyword
	}
	diagnoses, err := newGazetteer(diagnosisTerms)
	if err != nil {
		return nil, err
	}

	adviceTerms := make([]string, 0, len(t.adviceMapping))
	for _, kws := range t.adviceMapping {
		adviceTerms = append(adviceTerms, kws...)
	}
	adviceGazetteer, err := newGazetteer(adviceTerms)
	if err != nil {
		return nil, err
	}

	drugNameSet := make(map[string]struct{}, len(t.knownDrugs))
	names := make([]string, len(t.knownDrugs))
	for i, d := range t.knownDrugs {
		drugNameSet[strings.ToLower(d)] = struct{}{}
		names[i] = d
	}
	sort.Strings(names)

	return &Base{
		drugs:                 drugs,
		drugNames:             names,
		complaints:            complaints,
		diagnoses:             diagnoses,
		standardAdvice:        adviceGazetteer,
		drugNameSet:           drugNameSet,
		complaintKeywords:     t.complaintKeywords,
		diagnosisKeywords:     t.diagnosisKeywords,
		standardAdviceTexts:   t.standardAdvice,
		adviceMapping:         t.adviceMapping,
		brandGeneric:          t.brandGeneric,
		dangerousCombinations: t.dangerousCombinations,
	}, nil
}

// MedicineNames returns every known drug name, sorted. Suitable as the
// entity/candidate list for the phonetic matcher, the LLM Extractor's
// gazetteer context, and the Rule Extractor's sliding-window matcher.
func (b *Base) MedicineNames() []string {
	out := make([]string, len(b.drugNames))
	copy(out, b.drugNames)
	return out
}

// IsKnownDrug reports whether name (case-insensitively) is a recognized
// drug name.
func (b *Base) IsKnownDrug(name string) bool {
	_, ok := b.drugNameSet[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// MatchDrugs returns every known drug name occurring in text.
func (b *Base) MatchDrugs(text string) []string {
	return b.drugs.Match(text)
}

// MatchComplaints returns the canonical complaint strings for every
// complaint keyword occurring in text, ordered by ascending priority
// (most specific first) and deduplicated.
func (b *Base) MatchComplaints(text string) []string {
	return matchKeywords(text, b.complaintKeywords, b.complaints)
}

// MatchDiagnoses returns the canonical diagnosis strings for every
// diagnosis keyword occurring in text, ordered by ascending priority.
func (b *Base) MatchDiagnoses(text string) []string {
	return matchKeywords(text, b.diagnosisKeywords, b.diagnoses)
}

// matchKeywords finds every entry in table whose Keyword occurs in text
// (verified via the gazetteer's Aho-Corasick pass, then confirmed directly
// since several keywords share overlapping substrings), sorts by priority,
// and returns the distinct canonical values.
func matchKeywords(text string, table []KeywordEntry, g *Gazetteer) []string {
	if !g.Contains(text) {
		return nil
	}
	lower := strings.ToLower(text)

	matched := make([]KeywordEntry, 0, len(table))
	for _, e := range table {
		if strings.Contains(lower, e.Keyword) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Priority < matched[j].Priority })

	seen := make(map[string]struct{}, len(matched))
	var out []string
	for _, e := range matched {
		if _, ok := seen[e.Canonical]; ok {
			continue
		}
		seen[e.Canonical] = struct{}{}
		out = append(out, e.Canonical)
	}
	return out
}

// DangerousCombination reports whether a and b are a known dangerous drug
// pairing, and the human-readable reason when they are.
func (b *Base) DangerousCombination(a, bDrug string) (reason string, dangerous bool) {
	reason, dangerous = b.dangerousCombinations[newDrugPair(strings.ToLower(a), strings.ToLower(bDrug))]
	return reason, dangerous
}

// Resolve implements normalize.BrandResolver: it resolves a recognized
// brand name to its generic equivalent.
func (b *Base) Resolve(brand string) (generic string, ok bool) {
	generic, ok = b.brandGeneric[strings.ToLower(strings.TrimSpace(brand))]
	return generic, ok
}

// EvidenceGatedAdvice returns the subset of the standard advice catalogue
// whose supporting keywords actually appear in text, preserving catalogue
// order. Used by the Post-Processor's evidence-gated advice step so advice
// is never fabricated without a transcript basis.
func (b *Base) EvidenceGatedAdvice(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for i := 0; i < len(b.standardAdviceTexts); i++ {
		keywords, ok := b.adviceMapping[i]
		if !ok {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				out = append(out, b.standardAdviceTexts[i])
				break
			}
		}
	}
	return out
}
