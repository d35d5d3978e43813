package route_test

import (
	"testing"

	"github.com/MrWong99/glyphoxa/internal/route"
	"github.com/MrWong99/glyphoxa/pkg/types"
)

func TestAnalyze_ShortTranscriptScoresLow(t *testing.T) {
	t.Parallel()

	m := route.Analyze("too short", types.LanguageDecision{Confidence: 0.9}, 0.9)
	if m.OverallQuality >= 0.5 {
		t.Errorf("OverallQuality=%v, want low score for a short transcript", m.OverallQuality)
	}
	if m.WordCount != 2 {
		t.Errorf("WordCount=%d, want 2", m.WordCount)
	}
}

func TestAnalyze_LongMedicalTranscriptScoresHigh(t *testing.T) {
	t.Parallel()

	transcript := `The patient presented with fever and throat pain for three days.
	Doctor diagnosed bacterial infection and prescribed an antibiotic,
	amoxicillin 500 mg tablet twice daily after food for five days.
	Patient also complained of cough. Advised warm fluids and rest.
	Follow up after five days if symptoms persist or worsen further.`

	m := route.Analyze(transcript, types.LanguageDecision{Confidence: 0.95}, 0.9)
	if m.OverallQuality < 0.5 {
		t.Errorf("OverallQuality=%v, want a high score for a rich medical transcript", m.OverallQuality)
	}
	if m.MedicalKeywordDensity <= 0 {
		t.Error("expected non-zero medical keyword density")
	}
}

func TestAnalyze_CompletenessBuckets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want float64
	}{
		{"tiny", "short text here", 0},
		{"small", string(make([]byte, 100)), 0.3},
		{"medium", string(make([]byte, 300)), 0.6},
		{"large", string(make([]byte, 500)), 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := route.Analyze(tc.text, types.LanguageDecision{}, 0)
			if m.Completeness != tc.want {
				t.Errorf("Completeness=%v, want %v", m.Completeness, tc.want)
			}
		})
	}
}
