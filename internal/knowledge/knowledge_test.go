package knowledge_test

import (
	"testing"

	"github.com/MrWong99/glyphoxa/internal/knowledge"
)

func TestBase_IsKnownDrug(t *testing.T) {
	t.Parallel()

	base, err := knowledge.NewBase()
	if err != nil {
		t.Fatalf("NewBase() error = %v", err)
	}

	if !base.IsKnownDrug("Paracetamol") {
		t.Error("expected Paracetamol to be a known drug")
	}
	if !base.IsKnownDrug("  amoxicillin  ") {
		t.Error("expected IsKnownDrug to trim and lowercase")
	}
	if base.IsKnownDrug("unobtainium") {
		t.Error("did not expect unobtainium to be a known drug")
	}
}

func TestBase_MatchDrugs(t *testing.T) {
	t.Parallel()

	base, err := knowledge.NewBase()
	if err != nil {
		t.Fatalf("NewBase() error = %v", err)
	}

	hits := base.MatchDrugs("Prescribed Amoxicillin and Paracetamol for the infection.")
	if len(hits) < 2 {
		t.Fatalf("got %d drug hits, want at least 2: %v", len(hits), hits)
	}
}

func TestBase_MedicineNamesSortedAndComplete(t *testing.T) {
	t.Parallel()

	base, err := knowledge.NewBase()
	if err != nil {
		t.Fatalf("NewBase() error = %v", err)
	}

	names := base.MedicineNames()
	if len(names) == 0 {
		t.Fatal("expected a non-empty medicine name list")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("MedicineNames() not sorted at index %d: %q > %q", i, names[i-1], names[i])
		}
	}
}

func TestBase_Resolve(t *testing.T) {
	t.Parallel()

	base, err := knowledge.NewBase()
	if err != nil {
		t.Fatalf("NewBase() error = %v", err)
	}

	generic, ok := base.Resolve("Crocin")
	if !ok || generic != "paracetamol" {
		t.Errorf("Resolve(Crocin) = (%q, %v), want (paracetamol, true)", generic, ok)
	}

	if _, ok := base.Resolve("nonexistentbrand"); ok {
		t.Error("expected Resolve to fail for an unrecognized brand")
	}
}

func TestBase_DangerousCombination(t *testing.T) {
	t.Parallel()

	base, err := knowledge.NewBase()
	if err != nil {
		t.Fatalf("NewBase() error = %v", err)
	}

	if _, dangerous := base.DangerousCombination("aspirin", "ibuprofen"); !dangerous {
		t.Error("expected aspirin+ibuprofen to be flagged dangerous")
	}
	// order independence
	if _, dangerous := base.DangerousCombination("ibuprofen", "aspirin"); !dangerous {
		t.Error("expected reversed order to still be flagged dangerous")
	}
	if _, dangerous := base.DangerousCombination("paracetamol", "vitamin-c"); dangerous {
		t.Error("did not expect paracetamol+vitamin-c to be flagged dangerous")
	}
}

func TestBase_MatchComplaints(t *testing.T) {
	t.Parallel()

	base, err := knowledge.NewBase()
	if err != nil {
		t.Fatalf("NewBase() error = %v", err)
	}

	got := base.MatchComplaints("Patient reports fever and difficulty breathing.")
	if len(got) == 0 {
		t.Fatal("expected at least one complaint match")
	}
	if got[0] != "difficulty breathing" {
		t.Errorf("got[0]=%q, want highest-priority match %q", got[0], "difficulty breathing")
	}
}

func TestBase_MatchDiagnoses(t *testing.T) {
	t.Parallel()

	base, err := knowledge.NewBase()
	if err != nil {
		t.Fatalf("NewBase() error = %v", err)
	}

	got := base.MatchDiagnoses("Diagnosed with acute throat infection.")
	if len(got) == 0 {
		t.Fatal("expected at least one diagnosis match")
	}
	if got[0] != "bacterial throat infection" {
		t.Errorf("got[0]=%q, want %q", got[0], "bacterial throat infection")
	}
}

func TestBase_EvidenceGatedAdvice(t *testing.T) {
	t.Parallel()

	base, err := knowledge.NewBase()
	if err != nil {
		t.Fatalf("NewBase() error = %v", err)
	}

	advice := base.EvidenceGatedAdvice("Please gargle with warm salt water and complete the course.")
	if len(advice) == 0 {
		t.Fatal("expected evidence-gated advice to surface at least one entry")
	}

	none := base.EvidenceGatedAdvice("No relevant keywords here at all.")
	if len(none) != 0 {
		t.Errorf("expected no advice without supporting keywords, got %v", none)
	}
}
