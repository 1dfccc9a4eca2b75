package api

import (
	"net/http"
	"time"

	"github.com/erazemk/arsenal/internal/ledger"
	"github.com/erazemk/arsenal/internal/model"
)

// ExpendituresHandler handles expenditure endpoints.
type ExpendituresHandler struct {
	Ledger *ledger.Service
}

type createExpenditureRequest struct {
	AssetID         int64      `json:"asset_id"`
	BaseID          int64      `json:"base_id"`
	Quantity        int        `json:"quantity"`
	Reason          string     `json:"reason"`
	ExpenditureDate *time.Time `json:"expenditure_date"`
	Notes           string     `json:"notes"`
}

// Create handles POST /api/expenditures.
func (h *ExpendituresHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createExpenditureRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !assetInScope(w, r, h.Ledger, req.AssetID) {
		return
	}

	e, err := h.Ledger.CreateExpenditure(r.Context(), ledger.ExpenditureInput{
		AssetID:         req.AssetID,
		BaseID:          req.BaseID,
		Quantity:        req.Quantity,
		Reason:          req.Reason,
		ExpenditureDate: req.ExpenditureDate,
		Notes:           req.Notes,
		ActorID:         actorID(r),
	})
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, e)
}

// List handles GET /api/expenditures.
func (h *ExpendituresHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := recordFilter(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenditures, err := h.Ledger.ListExpenditures(r.Context(), f)
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	if expenditures == nil {
		expenditures = []model.Expenditure{}
	}
	jsonResponse(w, http.StatusOK, expenditures)
}
