package i18n

import "testing"

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("pt-PT,pt;q=0.9") != "pt" {
		t.Fatalf("expected pt")
	}
	if DetectLanguage("FR-fr") != "fr" {
		t.Fatalf("expected fr for FR-fr")
	}
	if DetectLanguage("en-US,en;q=0.9") != "pt" {
		t.Fatalf("expected default pt for unsupported language")
	}
	if DetectLanguage("") != "pt" {
		t.Fatalf("expected default pt")
	}
}

func TestStatusLabel(t *testing.T) {
	if StatusLabel(LangFR, StatusEntregue) != "Livré" {
		t.Fatalf("expected Livré under fr")
	}
	if StatusLabel(LangPT, StatusEntregue) != "ENTREGUE" {
		t.Fatalf("expected ENTREGUE verbatim under pt")
	}
	// unknown status -> verbatim under any language
	if StatusLabel(LangFR, "DESCONHECIDO") != "DESCONHECIDO" {
		t.Fatalf("expected unknown status verbatim")
	}
}

func TestTranslations(t *testing.T) {
	if T("pt", "required") != "Obrigatório" {
		t.Fatalf("expected Obrigatório")
	}
	if T("fr", "required") != "Requis" {
		t.Fatalf("expected Requis")
	}
	// unknown code -> fallback to code
	if T("pt", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to pt translation if exists
	if T("es", "required") != "Obrigatório" {
		t.Fatalf("expected pt fallback for es lang")
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		if !IsValidStatus(s) {
			t.Fatalf("status %q should be valid", s)
		}
	}
	if IsValidStatus("CANCELADO") {
		t.Fatalf("CANCELADO is not an enumerated status")
	}
}
