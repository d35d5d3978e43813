package normalize_test

import (
	"testing"

	"github.com/MrWong99/glyphoxa/internal/normalize"
)

type fakeBrandResolver struct {
	table map[string]string
}

func (f *fakeBrandResolver) Resolve(brand string) (string, bool) {
	generic, ok := f.table[brand]
	return generic, ok
}

func TestNormalizer_CanonicalizesUnits(t *testing.T) {
	t.Parallel()

	n := normalize.NewNormalizer()
	result := n.Normalize("Take 500 milligrams of paracetamol.")
	if result.Text != "Take 500 mg of paracetamol." {
		t.Errorf("Text=%q, want canonical mg unit", result.Text)
	}
	if len(result.UnitCorrections) == 0 {
		t.Error("expected at least one unit correction")
	}
}

func TestNormalizer_CanonicalizesFrequency(t *testing.T) {
	t.Parallel()

	n := normalize.NewNormalizer()
	result := n.Normalize("Take once a day after food.")
	if result.Text != "Take once daily after food." {
		t.Errorf("Text=%q, want %q", result.Text, "Take once daily after food.")
	}
}

func TestNormalizer_CanonicalizesHigherFrequencyToEveryNHours(t *testing.T) {
	t.Parallel()

	n := normalize.NewNormalizer()
	result := n.Normalize("Take 4 times a day.")
	if result.Text != "Take every 6 hours." {
		t.Errorf("Text=%q, want %q", result.Text, "Take every 6 hours.")
	}
}

func TestNormalizer_AsNeeded(t *testing.T) {
	t.Parallel()

	n := normalize.NewNormalizer()
	result := n.Normalize("Take the tablet as needed for pain.")
	if result.Text != "Take the tablet as needed for pain." {
		t.Errorf("Text=%q, want unchanged (already canonical)", result.Text)
	}
}

func TestNormalizer_BrandResolution(t *testing.T) {
	t.Parallel()

	resolver := &fakeBrandResolver{table: map[string]string{"Crocin": "Paracetamol"}}
	n := normalize.NewNormalizer(normalize.WithBrandResolver(resolver))

	result := n.Normalize("Take Crocin twice daily.")
	if result.Text != "Take Paracetamol twice daily." {
		t.Errorf("Text=%q, want brand resolved to generic", result.Text)
	}
	if len(result.BrandSubstitutions) != 1 {
		t.Fatalf("got %d brand substitutions, want 1", len(result.BrandSubstitutions))
	}
}

func TestNormalizer_NoOpWithoutBrandResolver(t *testing.T) {
	t.Parallel()

	n := normalize.NewNormalizer()
	result := n.Normalize("Take Crocin twice daily.")
	if len(result.BrandSubstitutions) != 0 {
		t.Errorf("expected no brand substitutions without a resolver, got %d", len(result.BrandSubstitutions))
	}
}

func TestNormalizer_DetectsAnatomyConflict(t *testing.T) {
	t.Parallel()

	n := normalize.NewNormalizer()
	result := n.Normalize("Patient diagnosed with sinusitis and pulmonary involvement.")
	if len(result.AnatomyConflicts) == 0 {
		t.Fatal("expected an anatomy conflict to be detected")
	}
	if result.AnatomyConflicts[0].Diagnosis != "sinusitis" {
		t.Errorf("Diagnosis=%q, want %q", result.AnatomyConflicts[0].Diagnosis, "sinusitis")
	}
}

func TestNormalizer_NoAnatomyConflictWhenTermsSeparate(t *testing.T) {
	t.Parallel()

	n := normalize.NewNormalizer()
	result := n.Normalize("Patient diagnosed with sinusitis and mild headache.")
	if len(result.AnatomyConflicts) != 0 {
		t.Errorf("expected no anatomy conflicts, got %d", len(result.AnatomyConflicts))
	}
}

func TestNormalizer_CustomAnatomyRule(t *testing.T) {
	t.Parallel()

	n := normalize.NewNormalizer(normalize.WithAnatomyRule("otitis", []string{"ocular"}))
	result := n.Normalize("Diagnosed with otitis, ocular discharge noted.")
	if len(result.AnatomyConflicts) == 0 {
		t.Fatal("expected custom anatomy rule to fire")
	}
}
