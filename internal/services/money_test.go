package services

import (
	"strings"
	"testing"

	"github.com/JoelBonito/gestion-chs-sub001/i18n"
)

func TestFormatEUR_DecimalComma(t *testing.T) {
	got := FormatEUR(i18n.LangPT, 2.5)
	if !strings.Contains(got, "2,50") {
		t.Errorf("pt formatting should use decimal comma, got %q", got)
	}
	if !strings.HasSuffix(got, "€") {
		t.Errorf("expected euro suffix, got %q", got)
	}
}

func TestFormatEUR_UnknownLangFallsBackToPT(t *testing.T) {
	if FormatEUR("es", 2.5) != FormatEUR(i18n.LangPT, 2.5) {
		t.Error("unknown language must fall back to pt formatting")
	}
}
