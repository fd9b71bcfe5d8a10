// Package i18n holds the display-language tables. Portuguese is the default;
// French is used by the one account the policy table marks as FR.
package i18n

import "strings"

const (
	LangPT = "pt"
	LangFR = "fr"
)

// Order status values are stored verbatim in Portuguese; only the French
// rendering goes through a translation table.
const (
	StatusNovoPedido   = "NOVO PEDIDO"
	StatusMateriaPrima = "MATÉRIA PRIMA"
	StatusProducao     = "PRODUÇÃO"
	StatusEmbalagem    = "EMBALAGEM"
	StatusTransporte   = "TRANSPORTE"
	StatusEntregue     = "ENTREGUE"
)

// OrderStatuses is the enumerated status sequence.
var OrderStatuses = []string{
	StatusNovoPedido,
	StatusMateriaPrima,
	StatusProducao,
	StatusEmbalagem,
	StatusTransporte,
	StatusEntregue,
}

var statusFR = map[string]string{
	StatusNovoPedido:   "Nouvelle commande",
	StatusMateriaPrima: "Matière première",
	StatusProducao:     "Production",
	StatusEmbalagem:    "Emballage",
	StatusTransporte:   "Transport",
	StatusEntregue:     "Livré",
}

var translations = map[string]map[string]string{
	LangPT: {
		"required":       "Obrigatório",
		"not_found":      "Não encontrado",
		"no_permission":  "Sem permissão",
		"payment_saved":  "Pagamento registado",
		"order_saved":    "Encomenda guardada",
		"order_deleted":  "Encomenda eliminada",
		"invalid_amount": "Valor inválido",
	},
	LangFR: {
		"required":       "Requis",
		"not_found":      "Introuvable",
		"no_permission":  "Accès refusé",
		"payment_saved":  "Paiement enregistré",
		"order_saved":    "Commande enregistrée",
		"order_deleted":  "Commande supprimée",
		"invalid_amount": "Montant invalide",
	},
}

// IsValidLang reports whether l is a supported display language.
func IsValidLang(l string) bool { return l == LangPT || l == LangFR }

// IsValidStatus reports whether s is one of the enumerated order statuses.
func IsValidStatus(s string) bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// StatusLabel localizes an order status. Portuguese renders the stored value
// verbatim; unknown statuses also come back verbatim.
func StatusLabel(lang, status string) string {
	if lang == LangFR {
		if fr, ok := statusFR[status]; ok {
			return fr
		}
	}
	return status
}

// T translates a message code, falling back to the Portuguese table and then
// to the code itself.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := translations[LangPT][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks pt or fr from an Accept-Language header, defaulting to pt.
func DetectLanguage(header string) string {
	h := strings.ToLower(header)
	for _, part := range strings.Split(h, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if strings.HasPrefix(tag, "fr") {
			return LangFR
		}
		if strings.HasPrefix(tag, "pt") {
			return LangPT
		}
	}
	return LangPT
}
