// Package policy is the single place that knows which identity may see what.
// The scattered e-mail comparisons of the old dashboard are folded into one
// declarative table; everything else (navigation, price masking, date-field
// editing, display language, supplier scoping) is read from it. Unknown or
// anonymous identities fail closed to an empty capability set.
package policy

import (
	"time"

	"github.com/google/uuid"

	"github.com/JoelBonito/gestion-chs-sub001/gate"
	"github.com/JoelBonito/gestion-chs-sub001/i18n"
	"github.com/JoelBonito/gestion-chs-sub001/internal/models"
)

// Navigation entry ids, matching the dashboard screens.
const (
	NavEncomendas   = "encomendas"
	NavClientes     = "clientes"
	NavFornecedores = "fornecedores"
	NavProdutos     = "produtos"
	NavFinanceiro   = "financeiro"   // receivable ledger
	NavContasPagar  = "contas-pagar" // payable ledger
	NavProducao     = "producao"
	NavFrete        = "frete"
	NavTransportes  = "transportes"
	NavProjetos     = "projetos"
	NavAmostras     = "amostras"
)

// AllNav is the full admin navigation set.
var AllNav = []string{
	NavEncomendas, NavClientes, NavFornecedores, NavProdutos,
	NavFinanceiro, NavContasPagar, NavProducao, NavFrete,
	NavTransportes, NavProjetos, NavAmostras,
}

// Well-known supplier ids.
var (
	// ProducaoFornecedorID marks the production supplier; only its products
	// carry meaningful stock counters.
	ProducaoFornecedorID = uuid.MustParse("4c1b2e68-8c1a-4f4e-9f0d-2a9b1d3c5e70")

	// FelipeFornecedores is the supplier allow-list scoping the limited
	// collaborator. Enforced in SQL and again in memory after fetch.
	FelipeFornecedores = []uuid.UUID{
		uuid.MustParse("f0c9f7f2-3d41-4bfa-9a11-6cf570f3a2b1"),
		uuid.MustParse("b8273a64-5e92-47d1-bf0e-91c2a4d8e7c3"),
	}
)

// Capabilities is everything a view needs to know about an identity.
type Capabilities struct {
	Role               string      `json:"role"`
	Nav                []string    `json:"nav"`
	HidePrices         bool        `json:"hide_prices"`
	EditProductionDate bool        `json:"edit_production_date"`
	EditDeliveryDate   bool        `json:"edit_delivery_date"`
	Lang               string      `json:"lang"`
	SupplierScope      []uuid.UUID `json:"supplier_scope,omitempty"`
	Admin              bool        `json:"admin"`
}

// The access table. Identities absent from it get the zero Capabilities
// value: no navigation, prices hidden, nothing editable.
var accessTable = map[string]Capabilities{
	// Owner account, full access, Portuguese labels.
	"jbento1@gmail.com": {
		Role: "admin", Nav: AllNav, Admin: true,
		EditProductionDate: true, EditDeliveryDate: true,
		Lang: i18n.LangPT,
	},
	// French partner, full access, French labels.
	"laurent@gestion-chs.com": {
		Role: "admin", Nav: AllNav, Admin: true,
		EditProductionDate: true, EditDeliveryDate: true,
		Lang: i18n.LangFR,
	},
	// French-side viewer: orders, receivables and shipments, read-mostly.
	"camille@gestion-chs.com": {
		Role: "viewer-fr",
		Nav:  []string{NavEncomendas, NavFinanceiro, NavTransportes},
		Lang: i18n.LangFR,
	},
	// Limited collaborator: two screens, scoped to his two suppliers,
	// prices masked, may adjust only the estimated production date.
	"felipe@colaborador.com": {
		Role:               "colaborador-limitado",
		Nav:                []string{NavEncomendas, NavProducao},
		HidePrices:         true,
		EditProductionDate: true,
		Lang:               i18n.LangPT,
		SupplierScope:      FelipeFornecedores,
	},
	// General collaborator: orders, samples and shipments, prices masked.
	// Also on the projects allow-list below.
	"rosa@colaborador.com": {
		Role:       "colaborador",
		Nav:        []string{NavEncomendas, NavAmostras, NavTransportes},
		HidePrices: true,
		Lang:       i18n.LangPT,
	},
}

// projetosAllowlist grants the projects screen on top of the base variant.
var projetosAllowlist = map[string]bool{
	"jbento1@gmail.com":       true,
	"laurent@gestion-chs.com": true,
	"rosa@colaborador.com":    true,
}

// Lookup returns the capabilities of an identity, fail-closed for unknowns.
func Lookup(email string) Capabilities {
	caps, ok := accessTable[email]
	if !ok {
		return Capabilities{Lang: i18n.LangPT}
	}
	if projetosAllowlist[email] && !contains(caps.Nav, NavProjetos) {
		nav := make([]string, 0, len(caps.Nav)+1)
		nav = append(nav, caps.Nav...)
		caps.Nav = append(nav, NavProjetos)
	}
	return caps
}

// ShouldHidePrices reports whether price fields must be stripped for email.
func ShouldHidePrices(email string) bool { return Lookup(email).HidePrices }

// Lang resolves the display language of an identity (pt unless marked fr).
func Lang(email string) string {
	if l := Lookup(email).Lang; l != "" {
		return l
	}
	return i18n.LangPT
}

// SupplierScope returns the allow-listed supplier ids for email, or nil when
// the identity is unrestricted.
func SupplierScope(email string) []uuid.UUID { return Lookup(email).SupplierScope }

// InSupplierScope reports whether the identity may see rows of fornecedorID.
// Unrestricted identities see everything.
func InSupplierScope(email string, fornecedorID uuid.UUID) bool {
	scope := SupplierScope(email)
	if len(scope) == 0 {
		return true
	}
	for _, id := range scope {
		if id == fornecedorID {
			return true
		}
	}
	return false
}

// FilterEncomendas drops orders outside the identity's supplier scope.
// This runs even when the SQL query already filtered, as defense in depth.
func FilterEncomendas(email string, encs []models.Encomenda) []models.Encomenda {
	scope := SupplierScope(email)
	if len(scope) == 0 {
		return encs
	}
	out := encs[:0]
	for _, e := range encs {
		if InSupplierScope(email, e.FornecedorID) {
			out = append(out, e)
		}
	}
	return out
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// NewGate builds the permission gate from the access table: admins get the
// superadmin wildcard, everyone else gets "<screen>:*" for each visible
// screen. The resolver is wrapped with a short TTL cache.
func NewGate() *gate.Gate {
	resolver := gate.NewStaticResolver()
	for email := range accessTable {
		caps := Lookup(email)
		var perms []gate.Permission
		if caps.Admin {
			perms = append(perms, gate.PermissionSuperAdmin)
		} else {
			for _, screen := range caps.Nav {
				perms = append(perms, gate.Permission(screen+":"+gate.WildcardAll))
			}
		}
		resolver.Set(email, gate.NewStaticProfile(caps.Role, perms...))
	}
	return gate.New(gate.NewCachedResolver(resolver, 5*time.Minute))
}
