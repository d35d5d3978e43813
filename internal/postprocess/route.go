package postprocess

import (
	"strings"

	"github.com/MrWong99/glyphoxa/pkg/types"
)

// formRouteOverrides maps a dosage-form term, as it appears in a medicine
// name or instruction, to the administration route it implies. A form term
// present in the text is a stronger signal than whatever route an
// extractor guessed, so a match here always overrides the extractor's
// value rather than merely filling a blank.
var formRouteOverrides = []struct {
	term  string
	route types.Route
}{
	{"nasal spray", types.RouteNasal},
	{"nasal drops", types.RouteNasal},
	{"eye drops", types.RouteOphthalmic},
	{"eye ointment", types.RouteOphthalmic},
	{"ear drops", types.RouteOtic},
	{"inhaler", types.RouteInhaled},
	{"nebulizer", types.RouteInhaled},
	{"nebuliser", types.RouteInhaled},
	{"ointment", types.RouteTopical},
	{"cream", types.RouteTopical},
	{"gel", types.RouteTopical},
	{"lotion", types.RouteTopical},
	{"suppository", types.RouteRectal},
	{"injection", types.RouteParenteral},
	{"IV", types.RouteParenteral},
	{"drip", types.RouteParenteral},
}

// correctRoute inspects name and instruction for a dosage-form term and
// returns the route it implies. Returns ("", false) when no form term is
// present — the extractor's own route guess stands.
func correctRoute(name, instruction string) (types.Route, bool) {
	haystack := strings.ToLower(name + " " + instruction)
	for _, fr := range formRouteOverrides {
		if strings.Contains(haystack, strings.ToLower(fr.term)) {
			return fr.route, true
		}
	}
	return "", false
}
