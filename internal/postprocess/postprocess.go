// Package postprocess implements the Post-Processor: the pipeline stage
// that runs after extraction (LLM, rules, or ensemble) and before
// validation. It applies a fixed, ordered sequence of domain corrections a
// single extractor pass cannot reliably get right on its own: frequency
// legality, dosage-form-implied route, organ-context repair, evidence-gated
// advice filtering, and a last-pass patient-name repair.
package postprocess

import (
	"fmt"
	"slices"

	"github.com/MrWong99/glyphoxa/internal/extract/rules"
	"github.com/MrWong99/glyphoxa/internal/knowledge"
	"github.com/MrWong99/glyphoxa/internal/normalize"
	"github.com/MrWong99/glyphoxa/pkg/types"
)

// Processor applies the Post-Processor's correction pipeline to an
// extractor's output.
type Processor struct {
	kb *knowledge.Base
}

// New constructs a Processor backed by kb for patient-name repair's
// gazetteer lookups.
func New(kb *knowledge.Base) *Processor {
	return &Processor{kb: kb}
}

// Process repairs p in place against transcript (the cleaned, normalized
// transcript text the extraction ran against) and anatomyConflicts (the
// Normalizer's diagnosis/anatomy findings for that same transcript),
// returning the warnings generated by any correction applied. Process
// never fails: every step degrades to a no-op when its precondition isn't
// met.
func (proc *Processor) Process(p *types.Prescription, transcript string, anatomyConflicts []normalize.AnatomyConflict) []string {
	var warnings []string

	for i := range p.Medicines {
		m := &p.Medicines[i]

		if corrected, changed := correctFrequency(m.Name, m.Frequency); changed {
			warnings = append(warnings, fmt.Sprintf("frequency corrected for %s", m.Name))
			m.Frequency = corrected
		}

		if route, ok := correctRoute(m.Name, m.Instruction); ok {
			m.Route = route
		}
	}

	repairedText, organWarnings := repairOrgan(transcript, anatomyConflicts)
	warnings = append(warnings, organWarnings...)

	for i, d := range p.Diagnosis {
		repaired, diagWarnings := repairOrgan(d, anatomyConflicts)
		p.Diagnosis[i] = repaired
		warnings = append(warnings, diagWarnings...)
	}

	keptAdvice := filterEvidenceGatedAdvice(p.Advice, repairedText)
	for _, item := range p.Advice {
		if !slices.Contains(keptAdvice, item) {
			warnings = append(warnings, "advice dropped: "+item)
		}
	}
	p.Advice = keptAdvice

	if p.PatientName == "" {
		if name := rules.ExtractPatientName(repairedText, proc.kb); name != "" {
			p.PatientName = name
			warnings = append(warnings, "patient name recovered on final pass")
		}
	}

	return warnings
}
