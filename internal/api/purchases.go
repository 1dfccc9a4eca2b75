package api

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/arsenal/internal/ledger"
	"github.com/erazemk/arsenal/internal/model"
)

// PurchasesHandler handles purchase endpoints.
type PurchasesHandler struct {
	Ledger *ledger.Service
}

type createPurchaseRequest struct {
	AssetID             int64           `json:"asset_id"`
	AssetName           string          `json:"asset_name"`
	Description         string          `json:"description"`
	EquipmentType       string          `json:"equipment_type"`
	BaseID              int64           `json:"base_id"`
	Quantity            int             `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	PurchaseDate        *time.Time      `json:"purchase_date"`
	Vendor              string          `json:"vendor"`
	PurchaseOrderNumber string          `json:"purchase_order_number"`
	Notes               string          `json:"notes"`
}

// Create handles POST /api/purchases.
func (h *PurchasesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Ledger.Purchase(r.Context(), ledger.PurchaseInput{
		AssetID:             req.AssetID,
		AssetName:           req.AssetName,
		Description:         req.Description,
		EquipmentType:       req.EquipmentType,
		BaseID:              req.BaseID,
		Quantity:            req.Quantity,
		UnitPrice:           req.UnitPrice,
		PurchaseDate:        req.PurchaseDate,
		Vendor:              req.Vendor,
		PurchaseOrderNumber: req.PurchaseOrderNumber,
		Notes:               req.Notes,
		ActorID:             actorID(r),
	})
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, p)
}

// List handles GET /api/purchases.
func (h *PurchasesHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := recordFilter(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	purchases, err := h.Ledger.ListPurchases(r.Context(), f)
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	if purchases == nil {
		purchases = []model.Purchase{}
	}
	jsonResponse(w, http.StatusOK, purchases)
}

// Get handles GET /api/purchases/{id}.
func (h *PurchasesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}

	p, err := h.Ledger.GetPurchase(r.Context(), id)
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	if !allowBase(w, r, p.BaseID) {
		return
	}
	jsonResponse(w, http.StatusOK, p)
}
