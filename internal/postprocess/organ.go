package postprocess

import (
	"strings"

	"github.com/MrWong99/glyphoxa/internal/normalize"
)

// diagnosisAllowedAnatomy names the anatomical term a diagnosis is
// substituted with when the Normalizer flags it alongside a disallowed
// term — e.g. "sinusitis ... pulmonary infection" becomes "sinusitis ...
// sinus infection", since the pulmonary adjective almost always comes from
// an ASR mishearing of "sinus".
var diagnosisAllowedAnatomy = map[string]string{
	"sinusitis": "sinus",
	"rhinitis":  "nasal",
}

// repairOrgan rewrites every [normalize.AnatomyConflict]'s conflicting
// term in text to the allowed anatomical term for its diagnosis, returning
// the repaired text and a warning per conflict fixed.
func repairOrgan(text string, conflicts []normalize.AnatomyConflict) (string, []string) {
	if len(conflicts) == 0 {
		return text, nil
	}

	var warnings []string
	for _, c := range conflicts {
		allowed, ok := diagnosisAllowedAnatomy[strings.ToLower(c.Diagnosis)]
		if !ok {
			continue
		}
		repaired, changed := replaceCaseInsensitive(text, c.ConflictingTerm, allowed)
		if !changed {
			continue
		}
		text = repaired
		warnings = append(warnings, "organ context corrected for "+c.Diagnosis)
	}
	return text, warnings
}

func replaceCaseInsensitive(text, old, new string) (string, bool) {
	lower := strings.ToLower(text)
	oldLower := strings.ToLower(old)
	idx := strings.Index(lower, oldLower)
	if idx < 0 {
		return text, false
	}
	return text[:idx] + new + text[idx+len(old):], true
}
