// Package ensemble implements the Ensemble Merger: it combines the LLM
// Extractor's and Rule Extractor's independent results into a single
// [types.Prescription] using a field-wise precedence policy, used whenever
// the Router selects the Ensemble strategy for borderline-quality input.
package ensemble

import (
	"strings"

	"github.com/samber/lo"

	"github.com/MrWong99/glyphoxa/pkg/types"
)

// articles are stripped before case-insensitive comparison during
// deduplication, so "the infection" and "infection" are treated as the
// same entry.
var articles = []string{"the ", "a ", "an "}

// Merge combines llmResult and rulesResult into a single Prescription.
//
// Field-wise precedence:
//   - PatientName: the Rule Extractor's result wins when present, since a
//     structural greeting-pattern match is more reliable than an LLM's
//     free-form extraction; falls back to the LLM's result otherwise.
//   - Medicines: the LLM's list takes precedence; Rule Extractor medicines
//     not already present (matched by canonical name) are appended, and
//     any field the LLM left blank is backfilled from the matching Rule
//     Extractor entry.
//   - Complaints, Diagnosis, Tests, Advice: union-deduplicated, preserving
//     the LLM's insertion order first.
//   - Confidence: the mean of both extractors' confidence, since the
//     merged result reflects neither extractor alone.
func Merge(llmResult, rulesResult *types.Prescription) *types.Prescription {
	if llmResult == nil {
		llmResult = &types.Prescription{}
	}
	if rulesResult == nil {
		rulesResult = &types.Prescription{}
	}

	merged := &types.Prescription{
		ExtractionMethod: types.ExtractionMethodEnsemble,
		PatientName:      mergePatientName(llmResult.PatientName, rulesResult.PatientName),
		Age:              firstNonEmpty(llmResult.Age, rulesResult.Age),
		Gender:           firstNonEmpty(llmResult.Gender, rulesResult.Gender),
		Medicines:        mergeMedicines(llmResult.Medicines, rulesResult.Medicines),
		Complaints:       dedupeUnion(llmResult.Complaints, rulesResult.Complaints),
		Diagnosis:        dedupeUnion(llmResult.Diagnosis, rulesResult.Diagnosis),
		Tests:            dedupeTests(llmResult.Tests, rulesResult.Tests),
		Advice:           dedupeUnion(llmResult.Advice, rulesResult.Advice),
		Confidence:       (llmResult.Confidence + rulesResult.Confidence) / 2,
	}
	if llmResult.FollowUpDays != nil {
		merged.FollowUpDays = llmResult.FollowUpDays
	} else {
		merged.FollowUpDays = rulesResult.FollowUpDays
	}

	return merged
}

func mergePatientName(llmName, rulesName string) string {
	if rulesName != "" {
		return rulesName
	}
	return llmName
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// mergeMedicines keeps the LLM's medicines as the base list, backfilling
// any blank field from the matching Rule Extractor entry (matched by
// canonical, case-folded name), then appends Rule Extractor medicines the
// LLM never mentioned at all.
func mergeMedicines(llmMeds, rulesMeds []types.Medicine) []types.Medicine {
	byName := make(map[string]types.Medicine, len(rulesMeds))
	for _, m := range rulesMeds {
		byName[normalizeKey(m.Name)] = m
	}

	merged := make([]types.Medicine, 0, len(llmMeds))
	seen := make(map[string]struct{}, len(llmMeds))

	for _, m := range llmMeds {
		key := normalizeKey(m.Name)
		seen[key] = struct{}{}

		if rm, ok := byName[key]; ok {
			m.Dose = firstNonEmpty(m.Dose, rm.Dose)
			m.Frequency = firstNonEmpty(m.Frequency, rm.Frequency)
			m.Duration = firstNonEmpty(m.Duration, rm.Duration)
			m.Instruction = firstNonEmpty(m.Instruction, rm.Instruction)
			if m.Route == "" {
				m.Route = rm.Route
			}
		}
		merged = append(merged, m)
	}

	for _, m := range rulesMeds {
		key := normalizeKey(m.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, m)
	}

	return merged
}

func dedupeTests(llmTests, rulesTests []types.Test) []types.Test {
	seen := make(map[string]struct{}, len(llmTests)+len(rulesTests))
	var out []types.Test
	for _, t := range append(append([]types.Test{}, llmTests...), rulesTests...) {
		key := normalizeKey(t.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// dedupeUnion unions a and b, preserving a's order first, deduplicating
// case-insensitively after stripping a leading article.
func dedupeUnion(a, b []string) []string {
	combined := append(append([]string{}, a...), b...)
	return lo.UniqBy(combined, normalizeKey)
}

// normalizeKey lowercases s and strips a leading article, for
// case/article-insensitive comparison.
func normalizeKey(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, article := range articles {
		if after, ok := strings.CutPrefix(lower, article); ok {
			return after
		}
	}
	return lower
}
