package ensemble_test

import (
	"testing"

	"github.com/MrWong99/glyphoxa/internal/ensemble"
	"github.com/MrWong99/glyphoxa/pkg/types"
)

func TestMerge_PrefersRulesPatientName(t *testing.T) {
	t.Parallel()

	llm := &types.Prescription{PatientName: "Wrong Guess"}
	rules := &types.Prescription{PatientName: "Rohit"}

	got := ensemble.Merge(llm, rules)
	if got.PatientName != "Rohit" {
		t.Errorf("PatientName=%q, want Rohit (rules precedence)", got.PatientName)
	}
}

func TestMerge_FallsBackToLLMPatientName(t *testing.T) {
	t.Parallel()

	llm := &types.Prescription{PatientName: "Rohit"}
	rules := &types.Prescription{}

	got := ensemble.Merge(llm, rules)
	if got.PatientName != "Rohit" {
		t.Errorf("PatientName=%q, want Rohit (LLM fallback)", got.PatientName)
	}
}

func TestMerge_BackfillsMedicineFieldsFromRules(t *testing.T) {
	t.Parallel()

	llm := &types.Prescription{Medicines: []types.Medicine{
		{Name: "paracetamol"},
	}}
	rules := &types.Prescription{Medicines: []types.Medicine{
		{Name: "Paracetamol", Dose: "500 mg", Frequency: "3 times a day"},
	}}

	got := ensemble.Merge(llm, rules)
	if len(got.Medicines) != 1 {
		t.Fatalf("Medicines=%v, want exactly 1 (merged, not duplicated)", got.Medicines)
	}
	if got.Medicines[0].Dose != "500 mg" {
		t.Errorf("Dose=%q, want backfilled 500 mg", got.Medicines[0].Dose)
	}
	if got.Medicines[0].Frequency != "3 times a day" {
		t.Errorf("Frequency=%q, want backfilled", got.Medicines[0].Frequency)
	}
}

func TestMerge_AppendsRuleOnlyMedicines(t *testing.T) {
	t.Parallel()

	llm := &types.Prescription{Medicines: []types.Medicine{{Name: "paracetamol"}}}
	rules := &types.Prescription{Medicines: []types.Medicine{
		{Name: "paracetamol"},
		{Name: "amoxicillin", Dose: "500 mg"},
	}}

	got := ensemble.Merge(llm, rules)
	if len(got.Medicines) != 2 {
		t.Fatalf("Medicines=%v, want 2 (paracetamol merged + amoxicillin appended)", got.Medicines)
	}
}

func TestMerge_DedupesComplaintsPreservingLLMOrder(t *testing.T) {
	t.Parallel()

	llm := &types.Prescription{Complaints: []string{"fever", "the cough"}}
	rules := &types.Prescription{Complaints: []string{"cough", "throat pain"}}

	got := ensemble.Merge(llm, rules)
	want := []string{"fever", "the cough", "throat pain"}
	if len(got.Complaints) != len(want) {
		t.Fatalf("Complaints=%v, want %v", got.Complaints, want)
	}
	for i, w := range want {
		if got.Complaints[i] != w {
			t.Errorf("Complaints[%d]=%q, want %q", i, got.Complaints[i], w)
		}
	}
}

func TestMerge_NilInputsDoNotPanic(t *testing.T) {
	t.Parallel()

	got := ensemble.Merge(nil, nil)
	if got.ExtractionMethod != types.ExtractionMethodEnsemble {
		t.Errorf("ExtractionMethod=%q, want ensemble", got.ExtractionMethod)
	}
}
