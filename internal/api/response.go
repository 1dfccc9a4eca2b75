package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/arsenal/internal/ledger"
	"github.com/erazemk/arsenal/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// ledgerError writes a ledger failure with the status matching its kind.
func ledgerError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch ledger.KindOf(err) {
	case ledger.KindBadRequest:
		status = http.StatusBadRequest
	case ledger.KindNotFound:
		status = http.StatusNotFound
	case ledger.KindConflict:
		status = http.StatusConflict
	default:
		slog.Error("ledger operation failed", "path", r.URL.Path, "error", err)
	}
	jsonError(w, status, ledger.MessageOf(err))
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates. When
// endOfDay is set, a plain date means the last instant of that day.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// recordFilter reads start_date, end_date, base_id, equipment_type, page and
// limit from the query string. Base commanders are pinned to their base.
func recordFilter(r *http.Request) (store.RecordFilter, error) {
	q := r.URL.Query()
	var f store.RecordFilter
	var err error

	if f.From, err = parseDate(q.Get("start_date"), false); err != nil {
		return f, errInvalidQuery("start_date")
	}
	if f.To, err = parseDate(q.Get("end_date"), true); err != nil {
		return f, errInvalidQuery("end_date")
	}
	if v := q.Get("base_id"); v != "" {
		if f.BaseID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return f, errInvalidQuery("base_id")
		}
	}
	f.EquipmentType = q.Get("equipment_type")

	f.Limit = 50
	if v := q.Get("limit"); v != "" {
		if f.Limit, err = strconv.Atoi(v); err != nil || f.Limit < 1 || f.Limit > 500 {
			return f, errInvalidQuery("limit")
		}
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return f, errInvalidQuery("page")
		}
		f.Offset = (page - 1) * f.Limit
	}

	if base := scopedBase(r); base > 0 {
		f.BaseID = base
	}
	return f, nil
}

type queryError string

func (e queryError) Error() string { return "invalid " + string(e) }

func errInvalidQuery(param string) error { return queryError(param) }
