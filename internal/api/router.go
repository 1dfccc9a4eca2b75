package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/arsenal/internal/ledger"
	"github.com/erazemk/arsenal/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sqlx.DB, svc *ledger.Service, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	basesHandler := &BasesHandler{DB: db}
	assetsHandler := &AssetsHandler{Ledger: svc}
	purchasesHandler := &PurchasesHandler{Ledger: svc}
	transfersHandler := &TransfersHandler{Ledger: svc}
	assignmentsHandler := &AssignmentsHandler{Ledger: svc}
	expendituresHandler := &ExpendituresHandler{Ledger: svc}
	dashboardHandler := &DashboardHandler{Ledger: svc}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireBuyer := RequireRole(model.RoleAdmin, model.RoleLogisticsOfficer)
	requireApprover := RequireRole(model.RoleAdmin, model.RoleBaseCommander)

	authed := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("PUT /api/auth/password", authed(authHandler.ChangePassword))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Bases: read (all roles), write (admin).
	mux.Handle("GET /api/bases", authed(basesHandler.List))
	mux.Handle("POST /api/bases", authMW(requireAdmin(http.HandlerFunc(basesHandler.Create))))
	mux.Handle("GET /api/bases/{id}", authed(basesHandler.Get))
	mux.Handle("PUT /api/bases/{id}", authMW(requireAdmin(http.HandlerFunc(basesHandler.Update))))

	// Asset registry (read only; quantities move through ledger operations).
	mux.Handle("GET /api/assets", authed(assetsHandler.List))
	mux.Handle("GET /api/assets/{id}", authed(assetsHandler.Get))

	// Purchases: write (admin, logistics).
	mux.Handle("GET /api/purchases", authed(purchasesHandler.List))
	mux.Handle("POST /api/purchases", authMW(requireBuyer(http.HandlerFunc(purchasesHandler.Create))))
	mux.Handle("GET /api/purchases/{id}", authed(purchasesHandler.Get))

	// Transfers: approve/reject (admin, base commander).
	mux.Handle("GET /api/transfers", authed(transfersHandler.List))
	mux.Handle("POST /api/transfers", authed(transfersHandler.Create))
	mux.Handle("GET /api/transfers/{id}", authed(transfersHandler.Get))
	mux.Handle("POST /api/transfers/{id}/approve", authMW(requireApprover(http.HandlerFunc(transfersHandler.Approve))))
	mux.Handle("POST /api/transfers/{id}/reject", authMW(requireApprover(http.HandlerFunc(transfersHandler.Reject))))
	mux.Handle("POST /api/transfers/{id}/complete", authed(transfersHandler.Complete))

	// Assignments and expenditures.
	mux.Handle("GET /api/assignments", authed(assignmentsHandler.List))
	mux.Handle("POST /api/assignments", authed(assignmentsHandler.Create))
	mux.Handle("POST /api/assignments/{id}/return", authed(assignmentsHandler.Return))
	mux.Handle("GET /api/expenditures", authed(expendituresHandler.List))
	mux.Handle("POST /api/expenditures", authed(expendituresHandler.Create))

	// Reporting.
	mux.Handle("GET /api/dashboard", authed(dashboardHandler.Get))
	mux.Handle("GET /api/dashboard/export", authed(dashboardHandler.Export))
	mux.Handle("GET /api/reconcile", authMW(requireAdmin(http.HandlerFunc(dashboardHandler.Reconcile))))

	return mux
}
