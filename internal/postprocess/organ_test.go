package postprocess

import (
	"testing"

	"github.com/MrWong99/glyphoxa/internal/normalize"
)

func TestRepairOrgan_ReplacesConflictingTerm(t *testing.T) {
	t.Parallel()

	conflicts := []normalize.AnatomyConflict{
		{Sentence: "diagnosed with sinusitis and pulmonary congestion", Diagnosis: "sinusitis", ConflictingTerm: "pulmonary"},
	}
	got, warnings := repairOrgan("diagnosed with sinusitis and pulmonary congestion", conflicts)

	if got != "diagnosed with sinusitis and sinus congestion" {
		t.Errorf("got=%q", got)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings=%v, want exactly 1", warnings)
	}
}

func TestRepairOrgan_NoConflictsIsNoOp(t *testing.T) {
	t.Parallel()

	got, warnings := repairOrgan("patient has a fever", nil)
	if got != "patient has a fever" || warnings != nil {
		t.Errorf("got=(%q,%v), want unchanged and no warnings", got, warnings)
	}
}

func TestRepairOrgan_UnmatchedDiagnosisSkipped(t *testing.T) {
	t.Parallel()

	conflicts := []normalize.AnatomyConflict{
		{Sentence: "unrelated", Diagnosis: "unknown-diagnosis", ConflictingTerm: "pulmonary"},
	}
	got, warnings := repairOrgan("some text without the term", conflicts)
	if got != "some text without the term" || warnings != nil {
		t.Errorf("got=(%q,%v), want unchanged", got, warnings)
	}
}
