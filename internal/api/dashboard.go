package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/arsenal/internal/ledger"
	"github.com/erazemk/arsenal/internal/model"
)

// DashboardHandler handles reporting endpoints.
type DashboardHandler struct {
	Ledger *ledger.Service
}

func dashboardFilter(r *http.Request) (ledger.DashboardFilter, error) {
	rf, err := recordFilter(r)
	if err != nil {
		return ledger.DashboardFilter{}, err
	}
	return ledger.DashboardFilter{
		From:          rf.From,
		To:            rf.To,
		BaseID:        rf.BaseID,
		EquipmentType: rf.EquipmentType,
	}, nil
}

// Get handles GET /api/dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := dashboardFilter(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := h.Ledger.Dashboard(r.Context(), f)
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, d)
}

// Export handles GET /api/dashboard/export.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	f, err := dashboardFilter(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, filename, err := h.Ledger.ExportDashboard(r.Context(), f)
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	defer book.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := book.Write(w); err != nil {
		slog.Error("failed to write dashboard export", "error", err)
	}
}

// Reconcile handles GET /api/reconcile.
func (h *DashboardHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	drift, err := h.Ledger.Reconcile(r.Context())
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	if drift == nil {
		drift = []model.Drift{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"consistent": len(drift) == 0, "drift": drift})
}
