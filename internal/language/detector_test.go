package language

import "testing"

func TestDetector_Detect_Tamil(t *testing.T) {
	d := NewDetector()
	decision := d.Detect("இது ஒரு காய்ச்சல் மருந்து", "ta")
	if decision.Primary != LangTamil {
		t.Fatalf("Primary = %q, want %q", decision.Primary, LangTamil)
	}
}

func TestDetector_Detect_Arabic(t *testing.T) {
	d := NewDetector()
	decision := d.Detect("خذ هذا الدواء مرتين يوميا", "ar")
	if decision.Primary != LangArabic {
		t.Fatalf("Primary = %q, want %q", decision.Primary, LangArabic)
	}
}

func TestDetector_Detect_English(t *testing.T) {
	d := NewDetector()
	decision := d.Detect("Patient complains of fever and body pain for three days.", "en")
	if decision.Primary != LangEnglish {
		t.Fatalf("Primary = %q, want %q", decision.Primary, LangEnglish)
	}
}

func TestDetector_Detect_Thanglish(t *testing.T) {
	d := NewDetector()
	decision := d.Detect("kaichal irukku, marunthu eduthukko, romba naal aagum", "en")
	if decision.Primary != LangThanglish {
		t.Fatalf("Primary = %q, want %q", decision.Primary, LangThanglish)
	}
}

func TestDetector_Detect_EmptyText(t *testing.T) {
	d := NewDetector()
	decision := d.Detect("", "")
	if decision.Confidence != 0 {
		t.Fatalf("Confidence = %v, want 0 for empty text", decision.Confidence)
	}
}
