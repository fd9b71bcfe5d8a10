package server

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/JoelBonito/gestion-chs-sub001/auth"
	"github.com/JoelBonito/gestion-chs-sub001/gate"
	"github.com/JoelBonito/gestion-chs-sub001/httpx"
	"github.com/JoelBonito/gestion-chs-sub001/internal/draft"
	"github.com/JoelBonito/gestion-chs-sub001/internal/handlers"
	"github.com/JoelBonito/gestion-chs-sub001/internal/middleware"
	"github.com/JoelBonito/gestion-chs-sub001/internal/notify"
	"github.com/JoelBonito/gestion-chs-sub001/internal/policy"
	"github.com/JoelBonito/gestion-chs-sub001/internal/storage"
)

// Deps carries what the router needs beyond the database.
type Deps struct {
	Notifier *notify.Notifier
	Drafts   draft.Store
	Files    *storage.Disk
}

// New constructs the root http.Handler with all routes and middleware.
func New(db *gorm.DB, deps Deps) http.Handler {
	mux := http.NewServeMux()

	if deps.Notifier == nil {
		deps.Notifier = notify.New(nil)
	}
	if deps.Drafts == nil {
		deps.Drafts = draft.NewMemoryStore(0)
	}

	authHandler := handlers.NewAuthHandler(db)
	auth.SetIdentityResolver(authHandler.ResolveIdentity())

	g := policy.NewGate()
	identity := func(r *http.Request) string { return auth.EmailFromContext(r.Context()) }

	// protect chains session auth and the screen gate in front of h. The
	// identity itself is attached once, by the root middleware chain.
	protect := func(screen string, action gate.Action, h http.HandlerFunc) http.Handler {
		return auth.RequireAuth(g.RequirePermission(identity, screen, action)(h))
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSONError(w, http.StatusServiceUnavailable, "degraded", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Handle("POST /api/login", http.HandlerFunc(authHandler.Login))
	mux.Handle("POST /api/logout", http.HandlerFunc(authHandler.Logout))
	mux.Handle("GET /api/me", auth.RequireAuth(http.HandlerFunc(authHandler.Me)))

	ch := handlers.NewClienteHandler(db)
	mux.Handle("GET /api/clientes", protect(policy.NavClientes, gate.ActionList, ch.List))
	mux.Handle("POST /api/clientes", protect(policy.NavClientes, gate.ActionCreate, ch.Create))
	mux.Handle("GET /api/clientes/{id}", protect(policy.NavClientes, gate.ActionView, ch.Get))
	mux.Handle("PUT /api/clientes/{id}", protect(policy.NavClientes, gate.ActionUpdate, ch.Update))
	mux.Handle("POST /api/clientes/{id}/archive", protect(policy.NavClientes, gate.ActionDelete, ch.Archive))

	fh := handlers.NewFornecedorHandler(db)
	mux.Handle("GET /api/fornecedores", protect(policy.NavFornecedores, gate.ActionList, fh.List))
	mux.Handle("POST /api/fornecedores", protect(policy.NavFornecedores, gate.ActionCreate, fh.Create))
	mux.Handle("GET /api/fornecedores/{id}", protect(policy.NavFornecedores, gate.ActionView, fh.Get))
	mux.Handle("PUT /api/fornecedores/{id}", protect(policy.NavFornecedores, gate.ActionUpdate, fh.Update))
	mux.Handle("POST /api/fornecedores/{id}/archive", protect(policy.NavFornecedores, gate.ActionDelete, fh.Archive))

	ph := handlers.NewProdutoHandler(db)
	mux.Handle("GET /api/produtos", protect(policy.NavProdutos, gate.ActionList, ph.List))
	mux.Handle("POST /api/produtos", protect(policy.NavProdutos, gate.ActionCreate, ph.Create))
	mux.Handle("GET /api/produtos/{id}", protect(policy.NavProdutos, gate.ActionView, ph.Get))
	mux.Handle("PUT /api/produtos/{id}", protect(policy.NavProdutos, gate.ActionUpdate, ph.Update))
	mux.Handle("POST /api/produtos/{id}/archive", protect(policy.NavProdutos, gate.ActionDelete, ph.Archive))

	eh := handlers.NewEncomendaHandler(db, deps.Notifier)
	mux.Handle("GET /api/encomendas", protect(policy.NavEncomendas, gate.ActionList, eh.List))
	mux.Handle("POST /api/encomendas", protect(policy.NavEncomendas, gate.ActionCreate, eh.Create))
	mux.Handle("GET /api/encomendas/{id}", protect(policy.NavEncomendas, gate.ActionView, eh.Get))
	mux.Handle("PUT /api/encomendas/{id}", protect(policy.NavEncomendas, gate.ActionUpdate, eh.Update))
	mux.Handle("PUT /api/encomendas/{id}/status", protect(policy.NavEncomendas, gate.ActionUpdate, eh.UpdateStatus))
	mux.Handle("POST /api/encomendas/{id}/archive", protect(policy.NavEncomendas, gate.ActionUpdate, eh.Archive))
	mux.Handle("POST /api/encomendas/{id}/unarchive", protect(policy.NavEncomendas, gate.ActionUpdate, eh.Unarchive))
	mux.Handle("DELETE /api/encomendas/{id}", protect(policy.NavEncomendas, gate.ActionDelete, eh.Delete))

	dh := handlers.NewDraftHandler(db, deps.Drafts)
	mux.Handle("GET /api/encomendas/{id}/draft", protect(policy.NavEncomendas, gate.ActionUpdate, dh.Get))
	mux.Handle("POST /api/encomendas/{id}/draft/rows", protect(policy.NavEncomendas, gate.ActionUpdate, dh.AddRow))
	mux.Handle("PATCH /api/encomendas/{id}/draft/rows/{rowID}", protect(policy.NavEncomendas, gate.ActionUpdate, dh.UpdateRow))
	mux.Handle("DELETE /api/encomendas/{id}/draft/rows/{rowID}", protect(policy.NavEncomendas, gate.ActionUpdate, dh.RemoveRow))
	mux.Handle("POST /api/encomendas/{id}/draft/save", protect(policy.NavEncomendas, gate.ActionUpdate, dh.Save))
	mux.Handle("DELETE /api/encomendas/{id}/draft", protect(policy.NavEncomendas, gate.ActionUpdate, dh.Discard))

	pg := handlers.NewPagamentoHandler(db, deps.Notifier)
	mux.Handle("GET /api/encomendas/{id}/pagamentos", protect(policy.NavFinanceiro, gate.ActionList, pg.ListReceber))
	mux.Handle("POST /api/pagamentos", protect(policy.NavFinanceiro, gate.ActionCreate, pg.CreateReceber))
	mux.Handle("DELETE /api/pagamentos/{id}", protect(policy.NavFinanceiro, gate.ActionDelete, pg.DeleteReceber))
	mux.Handle("GET /api/encomendas/{id}/pagamentos-fornecedor", protect(policy.NavContasPagar, gate.ActionList, pg.ListPagar))
	mux.Handle("POST /api/pagamentos-fornecedor", protect(policy.NavContasPagar, gate.ActionCreate, pg.CreatePagar))
	mux.Handle("DELETE /api/pagamentos-fornecedor/{id}", protect(policy.NavContasPagar, gate.ActionDelete, pg.DeletePagar))

	fin := handlers.NewFinanceiroHandler(db)
	mux.Handle("GET /api/financeiro/receber", protect(policy.NavFinanceiro, gate.ActionView, fin.Receber))
	mux.Handle("GET /api/financeiro/pagar", protect(policy.NavContasPagar, gate.ActionView, fin.Pagar))

	pr := handlers.NewProducaoHandler(db)
	mux.Handle("GET /api/producao", protect(policy.NavProducao, gate.ActionView, pr.Board))
	mux.Handle("GET /api/frete", protect(policy.NavFrete, gate.ActionView, pr.Frete))

	th := handlers.NewTransporteHandler(db)
	mux.Handle("GET /api/transportes", protect(policy.NavTransportes, gate.ActionList, th.List))
	mux.Handle("POST /api/transportes", protect(policy.NavTransportes, gate.ActionCreate, th.Create))
	mux.Handle("POST /api/transportes/{id}/archive", protect(policy.NavTransportes, gate.ActionUpdate, th.Archive))

	pj := handlers.NewProjetoHandler(db)
	mux.Handle("GET /api/projetos", protect(policy.NavProjetos, gate.ActionList, pj.List))
	mux.Handle("POST /api/projetos", protect(policy.NavProjetos, gate.ActionCreate, pj.Create))
	mux.Handle("PUT /api/projetos/{id}", protect(policy.NavProjetos, gate.ActionUpdate, pj.Update))
	mux.Handle("DELETE /api/projetos/{id}", protect(policy.NavProjetos, gate.ActionDelete, pj.Delete))

	am := handlers.NewAmostraHandler(db)
	mux.Handle("GET /api/amostras", protect(policy.NavAmostras, gate.ActionList, am.List))
	mux.Handle("POST /api/amostras", protect(policy.NavAmostras, gate.ActionCreate, am.Create))
	mux.Handle("PUT /api/amostras/{id}", protect(policy.NavAmostras, gate.ActionUpdate, am.Update))
	mux.Handle("DELETE /api/amostras/{id}", protect(policy.NavAmostras, gate.ActionDelete, am.Delete))

	if deps.Files != nil {
		ah := handlers.NewAttachmentHandler(db, deps.Files)
		mux.Handle("POST /api/attachments", auth.RequireAuth(http.HandlerFunc(ah.Upload)))
		mux.Handle("GET /api/attachments", auth.RequireAuth(http.HandlerFunc(ah.List)))
		mux.Handle("DELETE /api/attachments/{id}", auth.RequireAuth(http.HandlerFunc(ah.Delete)))
		mux.Handle("GET /files/{id}", auth.RequireAuth(http.HandlerFunc(ah.Serve)))
	}

	as := handlers.NewAssistantHandler(db)
	mux.Handle("POST /api/assistant/query", auth.RequireAuth(http.HandlerFunc(as.Query)))

	root := auth.Middleware(middleware.ResolveLang(mux))
	return middleware.Recover(middleware.Logging(root))
}
