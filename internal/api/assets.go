package api

import (
	"net/http"
	"strconv"

	"github.com/erazemk/arsenal/internal/ledger"
	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

// AssetsHandler handles read access to the asset registry.
type AssetsHandler struct {
	Ledger *ledger.Service
}

// List handles GET /api/assets.
func (h *AssetsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.AssetFilter{
		EquipmentType: q.Get("equipment_type"),
		InStock:       q.Get("in_stock") == "true",
	}
	if v := q.Get("base_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid base_id")
			return
		}
		f.BaseID = id
	}
	if base := scopedBase(r); base > 0 {
		f.BaseID = base
	}

	assets, err := h.Ledger.ListAssets(r.Context(), f)
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	if assets == nil {
		assets = []model.Asset{}
	}
	jsonResponse(w, http.StatusOK, assets)
}

// Get handles GET /api/assets/{id}.
func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	asset, err := h.Ledger.GetAsset(r.Context(), id)
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	if !allowBase(w, r, asset.BaseID) {
		return
	}
	jsonResponse(w, http.StatusOK, asset)
}

// assetInScope loads an asset and checks the caller may act on its base.
// It writes the error response and returns false otherwise.
func assetInScope(w http.ResponseWriter, r *http.Request, svc *ledger.Service, id int64) bool {
	if scopedBase(r) == 0 {
		return true
	}
	asset, err := svc.GetAsset(r.Context(), id)
	if err != nil {
		ledgerError(w, r, err)
		return false
	}
	return allowBase(w, r, asset.BaseID)
}
