package policy

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/JoelBonito/gestion-chs-sub001/gate"
	"github.com/JoelBonito/gestion-chs-sub001/i18n"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
)

func TestLookupUnknownFailsClosed(t *testing.T) {
	caps := Lookup("stranger@example.com")
	if len(caps.Nav) != 0 {
		t.Fatalf("unknown identity got nav %v", caps.Nav)
	}
	if caps.Admin || caps.EditProductionDate || caps.EditDeliveryDate {
		t.Fatal("unknown identity got elevated capabilities")
	}
	if caps.Lang != i18n.LangPT {
		t.Fatalf("lang = %q, want pt", caps.Lang)
	}
}

func TestLookupAdmin(t *testing.T) {
	caps := Lookup("jbento1@gmail.com")
	if !caps.Admin {
		t.Fatal("owner account not admin")
	}
	if len(caps.Nav) != len(AllNav) {
		t.Fatalf("admin nav = %v", caps.Nav)
	}
	if caps.HidePrices {
		t.Fatal("admin must see prices")
	}
	if !caps.EditDeliveryDate || !caps.EditProductionDate {
		t.Fatal("admin must edit both date fields")
	}
}

func TestLookupLimitedCollaborator(t *testing.T) {
	caps := Lookup("felipe@colaborador.com")
	if len(caps.Nav) != 2 {
		t.Fatalf("nav = %v, want 2 screens", caps.Nav)
	}
	if !caps.HidePrices {
		t.Fatal("prices must be hidden")
	}
	if !caps.EditProductionDate || caps.EditDeliveryDate {
		t.Fatalf("date editing = prod:%v deliv:%v, want prod only",
			caps.EditProductionDate, caps.EditDeliveryDate)
	}
	if len(caps.SupplierScope) != 2 {
		t.Fatalf("supplier scope = %v", caps.SupplierScope)
	}
}

func TestProjetosAllowlist(t *testing.T) {
	caps := Lookup("rosa@colaborador.com")
	found := false
	for _, nav := range caps.Nav {
		if nav == NavProjetos {
			found = true
		}
	}
	if !found {
		t.Fatal("allow-listed identity missing projetos")
	}
	for _, nav := range Lookup("felipe@colaborador.com").Nav {
		if nav == NavProjetos {
			t.Fatal("non-listed identity got projetos")
		}
	}
}

func TestFrenchLabels(t *testing.T) {
	if got := Lang("laurent@gestion-chs.com"); got != i18n.LangFR {
		t.Fatalf("Lang = %q, want fr", got)
	}
	if got := Lang("jbento1@gmail.com"); got != i18n.LangPT {
		t.Fatalf("Lang = %q, want pt", got)
	}
	if got := Lang("nobody@example.com"); got != i18n.LangPT {
		t.Fatalf("Lang = %q, want pt fallback", got)
	}
}

func TestSupplierScope(t *testing.T) {
	scoped := FelipeFornecedores[0]
	other := uuid.New()

	if !InSupplierScope("felipe@colaborador.com", scoped) {
		t.Fatal("allow-listed supplier rejected")
	}
	if InSupplierScope("felipe@colaborador.com", other) {
		t.Fatal("out-of-scope supplier accepted")
	}
	if !InSupplierScope("jbento1@gmail.com", other) {
		t.Fatal("unrestricted identity scoped")
	}
}

func TestFilterEncomendas(t *testing.T) {
	encs := []models.Encomenda{
		{FornecedorID: FelipeFornecedores[0]},
		{FornecedorID: uuid.New()},
		{FornecedorID: FelipeFornecedores[1]},
	}
	got := FilterEncomendas("felipe@colaborador.com", encs)
	if len(got) != 2 {
		t.Fatalf("filtered to %d rows, want 2", len(got))
	}
	if all := FilterEncomendas("jbento1@gmail.com", encs); len(all) != 3 {
		t.Fatalf("unrestricted filter dropped rows: %d", len(all))
	}
}

func TestGateFromTable(t *testing.T) {
	g := NewGate()
	ctx := context.Background()

	if !g.Can(ctx, "jbento1@gmail.com", gate.ActionDelete, "fornecedores") {
		t.Fatal("admin denied")
	}
	if !g.Can(ctx, "felipe@colaborador.com", gate.ActionUpdate, NavProducao) {
		t.Fatal("collaborator denied own screen")
	}
	if g.Can(ctx, "felipe@colaborador.com", gate.ActionView, NavFinanceiro) {
		t.Fatal("collaborator allowed foreign screen")
	}
	if g.Can(ctx, "nobody@example.com", gate.ActionView, NavEncomendas) {
		t.Fatal("unknown identity allowed")
	}
}
