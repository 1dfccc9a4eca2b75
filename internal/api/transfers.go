package api

import (
	"net/http"
	"time"

	"github.com/erazemk/arsenal/internal/ledger"
	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

// TransfersHandler handles transfer endpoints.
type TransfersHandler struct {
	Ledger *ledger.Service
}

type createTransferRequest struct {
	AssetID      int64      `json:"asset_id"`
	FromBaseID   int64      `json:"from_base_id"`
	ToBaseID     int64      `json:"to_base_id"`
	Quantity     int        `json:"quantity"`
	TransferDate *time.Time `json:"transfer_date"`
	Notes        string     `json:"notes"`
}

type rejectTransferRequest struct {
	Reason string `json:"reason"`
}

// Create handles POST /api/transfers.
func (h *TransfersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !allowBase(w, r, req.FromBaseID) {
		return
	}

	t, err := h.Ledger.CreateTransfer(r.Context(), ledger.TransferInput{
		AssetID:      req.AssetID,
		FromBaseID:   req.FromBaseID,
		ToBaseID:     req.ToBaseID,
		Quantity:     req.Quantity,
		TransferDate: req.TransferDate,
		Notes:        req.Notes,
		ActorID:      actorID(r),
	})
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, t)
}

// List handles GET /api/transfers. Filters match either side of a transfer.
func (h *TransfersHandler) List(w http.ResponseWriter, r *http.Request) {
	rf, err := recordFilter(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	transfers, err := h.Ledger.ListTransfers(r.Context(), store.TransferFilter{
		RecordFilter: rf,
		Status:       r.URL.Query().Get("status"),
	})
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	if transfers == nil {
		transfers = []model.Transfer{}
	}
	jsonResponse(w, http.StatusOK, transfers)
}

// Get handles GET /api/transfers/{id}.
func (h *TransfersHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, t)
}

// Approve handles POST /api/transfers/{id}/approve.
func (h *TransfersHandler) Approve(w http.ResponseWriter, r *http.Request) {
	t, ok := h.load(w, r)
	if !ok {
		return
	}
	h.respond(w, r)(h.Ledger.ApproveTransfer(r.Context(), t.ID, actorID(r)))
}

// Reject handles POST /api/transfers/{id}/reject. The body is optional.
func (h *TransfersHandler) Reject(w http.ResponseWriter, r *http.Request) {
	t, ok := h.load(w, r)
	if !ok {
		return
	}
	var req rejectTransferRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	h.respond(w, r)(h.Ledger.RejectTransfer(r.Context(), t.ID, actorID(r), req.Reason))
}

// Complete handles POST /api/transfers/{id}/complete.
func (h *TransfersHandler) Complete(w http.ResponseWriter, r *http.Request) {
	t, ok := h.load(w, r)
	if !ok {
		return
	}
	h.respond(w, r)(h.Ledger.CompleteTransfer(r.Context(), t.ID, actorID(r)))
}

// load fetches the {id} transfer and checks the caller commands one of its
// bases.
func (h *TransfersHandler) load(w http.ResponseWriter, r *http.Request) (*model.Transfer, bool) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid transfer id")
		return nil, false
	}
	t, err := h.Ledger.GetTransfer(r.Context(), id)
	if err != nil {
		ledgerError(w, r, err)
		return nil, false
	}
	if !allowBase(w, r, t.FromBaseID, t.ToBaseID) {
		return nil, false
	}
	return t, true
}

func (h *TransfersHandler) respond(w http.ResponseWriter, r *http.Request) func(*model.Transfer, error) {
	return func(t *model.Transfer, err error) {
		if err != nil {
			ledgerError(w, r, err)
			return
		}
		jsonResponse(w, http.StatusOK, t)
	}
}
