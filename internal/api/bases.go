package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

// BasesHandler handles base endpoints.
type BasesHandler struct {
	DB *sqlx.DB
}

type baseRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Location string `json:"location"`
	IsActive *bool  `json:"is_active"`
}

// List handles GET /api/bases. ?active=true limits to active bases.
func (h *BasesHandler) List(w http.ResponseWriter, r *http.Request) {
	var active *bool
	switch r.URL.Query().Get("active") {
	case "true":
		v := true
		active = &v
	case "false":
		v := false
		active = &v
	}

	bases, err := store.ListBases(r.Context(), h.DB, active)
	if err != nil {
		slog.Error("failed to list bases", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list bases")
		return
	}
	if bases == nil {
		bases = []model.Base{}
	}
	jsonResponse(w, http.StatusOK, bases)
}

// Create handles POST /api/bases.
func (h *BasesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req baseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.Location) == "" {
		jsonError(w, http.StatusBadRequest, "name, code, and location required")
		return
	}

	base, err := store.CreateBase(r.Context(), h.DB, req.Name, req.Code, req.Location)
	if err != nil {
		jsonError(w, http.StatusConflict, "base name or code already exists")
		return
	}

	slog.Info("base created", "user", GetClaims(r.Context()).Username, "base", base.Code)
	jsonResponse(w, http.StatusCreated, base)
}

// Get handles GET /api/bases/{id}.
func (h *BasesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid base id")
		return
	}

	base, err := store.GetBase(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get base", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get base")
		return
	}
	if base == nil {
		jsonError(w, http.StatusNotFound, "base not found")
		return
	}
	jsonResponse(w, http.StatusOK, base)
}

// Update handles PUT /api/bases/{id}. Omitted fields keep their values.
func (h *BasesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid base id")
		return
	}

	var req baseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	base, err := store.GetBase(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get base", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get base")
		return
	}
	if base == nil {
		jsonError(w, http.StatusNotFound, "base not found")
		return
	}

	if req.Name != "" {
		base.Name = req.Name
	}
	if req.Code != "" {
		base.Code = req.Code
	}
	if req.Location != "" {
		base.Location = req.Location
	}
	if req.IsActive != nil {
		base.IsActive = *req.IsActive
	}

	if err := store.UpdateBase(r.Context(), h.DB, base); err != nil {
		jsonError(w, http.StatusConflict, "base name or code already exists")
		return
	}

	base, _ = store.GetBase(r.Context(), h.DB, id)
	slog.Info("base updated", "user", GetClaims(r.Context()).Username, "base", base.Code, "active", base.IsActive)
	jsonResponse(w, http.StatusOK, base)
}
