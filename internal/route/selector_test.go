package route_test

import (
	"testing"

	"github.com/MrWong99/glyphoxa/internal/route"
)

func TestSelector_CorruptedAudio(t *testing.T) {
	t.Parallel()

	s := route.NewSelector()
	got := s.Select(route.Metrics{WordCount: 2, OverallQuality: 0.9})
	if got != route.StrategyCorruptedAudio {
		t.Errorf("Select() = %v, want %v", got, route.StrategyCorruptedAudio)
	}
}

func TestSelector_LLMOnlyForGoodInput(t *testing.T) {
	t.Parallel()

	s := route.NewSelector()
	got := s.Select(route.Metrics{WordCount: 120, OverallQuality: 0.8})
	if got != route.StrategyLLMOnly {
		t.Errorf("Select() = %v, want %v", got, route.StrategyLLMOnly)
	}
}

func TestSelector_EnsembleForBorderlineInput(t *testing.T) {
	t.Parallel()

	s := route.NewSelector()
	got := s.Select(route.Metrics{WordCount: 60, OverallQuality: 0.5, MedicalKeywordDensity: 0.2})
	if got != route.StrategyEnsemble {
		t.Errorf("Select() = %v, want %v", got, route.StrategyEnsemble)
	}
}

func TestSelector_RulesOnlyForPoorInput(t *testing.T) {
	t.Parallel()

	s := route.NewSelector()
	got := s.Select(route.Metrics{WordCount: 30, OverallQuality: 0.3})
	if got != route.StrategyRulesOnly {
		t.Errorf("Select() = %v, want %v", got, route.StrategyRulesOnly)
	}
}

func TestSelector_RulesOnlyForBorderlineScoreWithoutKeywords(t *testing.T) {
	t.Parallel()

	s := route.NewSelector()
	got := s.Select(route.Metrics{WordCount: 60, OverallQuality: 0.5, MedicalKeywordDensity: 0})
	if got != route.StrategyRulesOnly {
		t.Errorf("Select() = %v, want %v when the mid-band score has no medical-keyword hit", got, route.StrategyRulesOnly)
	}
}

func TestSelector_NeverRejectsSolelyForLowKeywordDensity(t *testing.T) {
	t.Parallel()

	s := route.NewSelector()
	got := s.Select(route.Metrics{WordCount: 150, OverallQuality: 0.8, MedicalKeywordDensity: 0})
	if got != route.StrategyLLMOnly {
		t.Errorf("Select() = %v, want %v even with zero keyword density", got, route.StrategyLLMOnly)
	}
}

func TestSelector_CustomThresholds(t *testing.T) {
	t.Parallel()

	s := route.NewSelector(route.WithLLMThresholds(0.5))
	got := s.Select(route.Metrics{WordCount: 15, OverallQuality: 0.6})
	if got != route.StrategyLLMOnly {
		t.Errorf("Select() = %v, want %v with lowered custom threshold", got, route.StrategyLLMOnly)
	}
}
