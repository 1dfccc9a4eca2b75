package api

import (
	"net/http"
	"time"

	"github.com/erazemk/arsenal/internal/ledger"
	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

// AssignmentsHandler handles assignment endpoints.
type AssignmentsHandler struct {
	Ledger *ledger.Service
}

type createAssignmentRequest struct {
	AssetID        int64      `json:"asset_id"`
	BaseID         int64      `json:"base_id"`
	Quantity       int        `json:"quantity"`
	AssignedTo     string     `json:"assigned_to"`
	PersonnelID    string     `json:"personnel_id"`
	AssignmentDate *time.Time `json:"assignment_date"`
	Notes          string     `json:"notes"`
}

// Create handles POST /api/assignments.
func (h *AssignmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !assetInScope(w, r, h.Ledger, req.AssetID) {
		return
	}

	a, err := h.Ledger.CreateAssignment(r.Context(), ledger.AssignmentInput{
		AssetID:        req.AssetID,
		BaseID:         req.BaseID,
		Quantity:       req.Quantity,
		AssignedTo:     req.AssignedTo,
		PersonnelID:    req.PersonnelID,
		AssignmentDate: req.AssignmentDate,
		Notes:          req.Notes,
		ActorID:        actorID(r),
	})
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, a)
}

// List handles GET /api/assignments. ?returned=true|false filters on the
// return latch.
func (h *AssignmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	rf, err := recordFilter(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	f := store.AssignmentFilter{RecordFilter: rf}
	switch r.URL.Query().Get("returned") {
	case "true":
		v := true
		f.Returned = &v
	case "false":
		v := false
		f.Returned = &v
	}

	assignments, err := h.Ledger.ListAssignments(r.Context(), f)
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	jsonResponse(w, http.StatusOK, assignments)
}

// Return handles POST /api/assignments/{id}/return.
func (h *AssignmentsHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	existing, err := h.Ledger.GetAssignment(r.Context(), id)
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	if !allowBase(w, r, existing.BaseID) {
		return
	}

	a, err := h.Ledger.ReturnAssignment(r.Context(), id, actorID(r))
	if err != nil {
		ledgerError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, a)
}
