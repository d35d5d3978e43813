package postprocess

import (
	"testing"

	"github.com/MrWong99/glyphoxa/pkg/types"
)

func TestCorrectRoute_DetectsFormInInstruction(t *testing.T) {
	t.Parallel()

	route, ok := correctRoute("ciprofloxacin", "2 drops in each eye, eye drops")
	if !ok {
		t.Fatalf("ok=false, want form term detected")
	}
	if route != types.RouteOphthalmic {
		t.Errorf("route=%q, want ophthalmic", route)
	}
}

func TestCorrectRoute_NoOverrideWithoutFormTerm(t *testing.T) {
	t.Parallel()

	_, ok := correctRoute("paracetamol", "after food")
	if ok {
		t.Errorf("ok=true, want false when no form term present")
	}
}

func TestCorrectRoute_DetectsInjection(t *testing.T) {
	t.Parallel()

	route, ok := correctRoute("ceftriaxone injection", "")
	if !ok || route != types.RouteParenteral {
		t.Errorf("route=%q ok=%v, want parenteral/true", route, ok)
	}
}
