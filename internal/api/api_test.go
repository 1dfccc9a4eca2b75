package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/arsenal/internal/db"
	"github.com/erazemk/arsenal/internal/ledger"
	"github.com/erazemk/arsenal/internal/model"
	"github.com/erazemk/arsenal/internal/store"
)

const testJWTSecret = "test-secret-with-at-least-32-characters"

type testEnv struct {
	server *httptest.Server
	db     *sqlx.DB
	alpha  *model.Base
	bravo  *model.Base
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	database := db.NewTestDB(t)
	svc := ledger.NewService(database, ledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	server := httptest.NewServer(NewRouter(database, svc, testJWTSecret))
	t.Cleanup(server.Close)

	ctx := context.Background()
	alpha, err := store.CreateBase(ctx, database, "Alpha", "ALP", "North")
	if err != nil {
		t.Fatal(err)
	}
	bravo, err := store.CreateBase(ctx, database, "Bravo", "BRV", "South")
	if err != nil {
		t.Fatal(err)
	}

	env := &testEnv{server: server, db: database, alpha: alpha, bravo: bravo}
	env.createUser(t, "admin", model.RoleAdmin, nil)
	return env
}

func (e *testEnv) createUser(t *testing.T, username, role string, baseID *int64) {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if _, err := store.CreateUser(context.Background(), e.db, username, username, string(hash), role, baseID); err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
}

func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": "password"})
	resp, err := http.Post(e.server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token from login")
	}
	return loginResp.Token
}

// do sends an authenticated request and decodes a JSON response into out
// when out is non-nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()
	var bodyReader io.Reader = http.NoBody
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.server.URL+path, bodyReader)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (e *testEnv) purchase(t *testing.T, token, name string, base *model.Base, qty int) *model.Purchase {
	t.Helper()
	var p model.Purchase
	status := e.do(t, "POST", "/api/purchases", token, map[string]any{
		"asset_name":     name,
		"equipment_type": model.EquipmentWeapon,
		"base_id":        base.ID,
		"quantity":       qty,
		"unit_price":     "1250.50",
	}, &p)
	if status != http.StatusCreated {
		t.Fatalf("purchase: expected 201, got %d", status)
	}
	return &p
}

func TestLoginEndpoint(t *testing.T) {
	env := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, err := http.Post(env.server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	if env.login(t, "admin") == "" {
		t.Error("expected a token for valid credentials")
	}
}

func TestHealthz(t *testing.T) {
	env := setupTestServer(t)
	if status := env.do(t, "GET", "/healthz", "", nil, nil); status != http.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	env := setupTestServer(t)

	for _, path := range []string{"/api/assets", "/api/dashboard", "/api/transfers"} {
		if status := env.do(t, "GET", path, "", nil, nil); status != http.StatusUnauthorized {
			t.Errorf("GET %s: expected 401, got %d", path, status)
		}
	}
	if status := env.do(t, "GET", "/api/assets", "not-a-token", nil, nil); status != http.StatusUnauthorized {
		t.Errorf("expected 401 for garbage token, got %d", status)
	}
}

func TestRoleBasedAccess(t *testing.T) {
	env := setupTestServer(t)
	env.createUser(t, "cmdr", model.RoleBaseCommander, &env.alpha.ID)
	env.createUser(t, "logi", model.RoleLogisticsOfficer, nil)
	cmdr := env.login(t, "cmdr")
	logi := env.login(t, "logi")

	// Base commanders do not purchase.
	status := env.do(t, "POST", "/api/purchases", cmdr, map[string]any{
		"asset_name": "Rifle", "equipment_type": model.EquipmentWeapon,
		"base_id": env.alpha.ID, "quantity": 1, "unit_price": "10",
	}, nil)
	if status != http.StatusForbidden {
		t.Errorf("expected 403 for commander purchase, got %d", status)
	}

	// Logistics officers do not manage users or run reconciliation.
	if status := env.do(t, "GET", "/api/users", logi, nil, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 for officer listing users, got %d", status)
	}
	if status := env.do(t, "GET", "/api/reconcile", logi, nil, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 for officer reconcile, got %d", status)
	}

	// Logistics officers cannot approve transfers.
	p := env.purchase(t, logi, "Rifle", env.alpha, 5)
	var tr model.Transfer
	status = env.do(t, "POST", "/api/transfers", logi, map[string]any{
		"asset_id": p.AssetID, "from_base_id": env.alpha.ID, "to_base_id": env.bravo.ID, "quantity": 2,
	}, &tr)
	if status != http.StatusCreated {
		t.Fatalf("create transfer: expected 201, got %d", status)
	}
	if status := env.do(t, "POST", "/api/transfers/"+strconv.FormatInt(tr.ID, 10)+"/approve", logi, nil, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 for officer approve, got %d", status)
	}
}

func TestDeactivatedUserIsLockedOut(t *testing.T) {
	env := setupTestServer(t)
	env.createUser(t, "logi", model.RoleLogisticsOfficer, nil)
	admin := env.login(t, "admin")
	logi := env.login(t, "logi")

	u, _ := store.GetUserByUsername(context.Background(), env.db, "logi")
	if status := env.do(t, "DELETE", "/api/users/"+strconv.FormatInt(u.ID, 10), admin, nil, nil); status != http.StatusOK {
		t.Fatalf("expected 200 deactivating user, got %d", status)
	}
	if status := env.do(t, "GET", "/api/assets", logi, nil, nil); status != http.StatusUnauthorized {
		t.Errorf("expected 401 for deactivated user, got %d", status)
	}
}

func TestBaseCommanderScoping(t *testing.T) {
	env := setupTestServer(t)
	env.createUser(t, "cmdr", model.RoleBaseCommander, &env.alpha.ID)
	admin := env.login(t, "admin")
	cmdr := env.login(t, "cmdr")

	env.purchase(t, admin, "Rifle", env.alpha, 5)
	bravoBuy := env.purchase(t, admin, "Carbine", env.bravo, 7)

	// Listing is pinned to the commander's base even when asking for another.
	var assets []model.Asset
	status := env.do(t, "GET", "/api/assets?base_id="+strconv.FormatInt(env.bravo.ID, 10), cmdr, nil, &assets)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(assets) != 1 || assets[0].BaseID != env.alpha.ID {
		t.Errorf("expected only Alpha assets, got %+v", assets)
	}

	if status := env.do(t, "GET", "/api/assets/"+strconv.FormatInt(bravoBuy.AssetID, 10), cmdr, nil, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 reading Bravo asset, got %d", status)
	}
	status = env.do(t, "POST", "/api/expenditures", cmdr, map[string]any{
		"asset_id": bravoBuy.AssetID, "quantity": 1, "reason": "training",
	}, nil)
	if status != http.StatusForbidden {
		t.Errorf("expected 403 expending Bravo stock, got %d", status)
	}
	status = env.do(t, "POST", "/api/transfers", cmdr, map[string]any{
		"asset_id": bravoBuy.AssetID, "from_base_id": env.bravo.ID, "to_base_id": env.alpha.ID, "quantity": 1,
	}, nil)
	if status != http.StatusForbidden {
		t.Errorf("expected 403 transferring out of Bravo, got %d", status)
	}

	var d model.Dashboard
	if status := env.do(t, "GET", "/api/dashboard", cmdr, nil, &d); status != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", status)
	}
	if d.ClosingBalance != 5 {
		t.Errorf("expected commander closing balance 5, got %d", d.ClosingBalance)
	}
}

func TestLedgerFlow(t *testing.T) {
	env := setupTestServer(t)
	env.createUser(t, "cmdr", model.RoleBaseCommander, &env.bravo.ID)
	admin := env.login(t, "admin")
	cmdr := env.login(t, "cmdr")

	p := env.purchase(t, admin, "Rifle", env.alpha, 10)
	if p.TotalAmount.String() != "12505" {
		t.Errorf("expected total 12505, got %s", p.TotalAmount)
	}

	var tr model.Transfer
	status := env.do(t, "POST", "/api/transfers", admin, map[string]any{
		"asset_id": p.AssetID, "from_base_id": env.alpha.ID, "to_base_id": env.bravo.ID, "quantity": 4,
	}, &tr)
	if status != http.StatusCreated {
		t.Fatalf("create transfer: expected 201, got %d", status)
	}
	trPath := "/api/transfers/" + strconv.FormatInt(tr.ID, 10)

	// Completing before approval is a state conflict.
	if status := env.do(t, "POST", trPath+"/complete", admin, nil, nil); status != http.StatusConflict {
		t.Errorf("expected 409 completing pending transfer, got %d", status)
	}

	// The destination commander may approve.
	if status := env.do(t, "POST", trPath+"/approve", cmdr, nil, &tr); status != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d", status)
	}
	if tr.Status != model.TransferApproved {
		t.Errorf("expected approved, got %s", tr.Status)
	}
	if status := env.do(t, "POST", trPath+"/complete", admin, nil, &tr); status != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d", status)
	}
	if tr.Status != model.TransferCompleted || tr.DestAssetID == nil {
		t.Fatalf("expected completed transfer with destination asset, got %+v", tr)
	}
	if status := env.do(t, "POST", trPath+"/reject", admin, map[string]string{"reason": "late"}, nil); status != http.StatusConflict {
		t.Errorf("expected 409 rejecting completed transfer, got %d", status)
	}

	// Over-assignment maps to 409.
	status = env.do(t, "POST", "/api/assignments", admin, map[string]any{
		"asset_id": p.AssetID, "quantity": 7, "assigned_to": "Sgt. Novak",
	}, nil)
	if status != http.StatusConflict {
		t.Errorf("expected 409 over-assigning, got %d", status)
	}

	var a model.Assignment
	status = env.do(t, "POST", "/api/assignments", admin, map[string]any{
		"asset_id": p.AssetID, "quantity": 2, "assigned_to": "Sgt. Novak",
	}, &a)
	if status != http.StatusCreated {
		t.Fatalf("assign: expected 201, got %d", status)
	}
	retPath := "/api/assignments/" + strconv.FormatInt(a.ID, 10) + "/return"
	if status := env.do(t, "POST", retPath, admin, nil, nil); status != http.StatusOK {
		t.Fatalf("return: expected 200, got %d", status)
	}
	if status := env.do(t, "POST", retPath, admin, nil, nil); status != http.StatusConflict {
		t.Errorf("expected 409 on second return, got %d", status)
	}

	status = env.do(t, "POST", "/api/expenditures", admin, map[string]any{
		"asset_id": p.AssetID, "quantity": 1, "reason": "live fire",
	}, nil)
	if status != http.StatusCreated {
		t.Fatalf("expend: expected 201, got %d", status)
	}
	status = env.do(t, "POST", "/api/expenditures", admin, map[string]any{
		"asset_id": p.AssetID, "quantity": 1,
	}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 without reason, got %d", status)
	}

	var asset model.Asset
	env.do(t, "GET", "/api/assets/"+strconv.FormatInt(p.AssetID, 10), admin, nil, &asset)
	if asset.CurrentQuantity != 5 {
		t.Errorf("expected 5 left at Alpha, got %d", asset.CurrentQuantity)
	}

	var d model.Dashboard
	env.do(t, "GET", "/api/dashboard?base_id="+strconv.FormatInt(env.alpha.ID, 10), admin, nil, &d)
	if d.NetMovement.Purchases != 10 || d.NetMovement.TransfersOut != 4 || d.Expended != 1 {
		t.Errorf("unexpected Alpha dashboard: %+v", d)
	}

	var recon struct {
		Consistent bool          `json:"consistent"`
		Drift      []model.Drift `json:"drift"`
	}
	if status := env.do(t, "GET", "/api/reconcile", admin, nil, &recon); status != http.StatusOK {
		t.Fatalf("reconcile: expected 200, got %d", status)
	}
	if !recon.Consistent {
		t.Errorf("expected consistent ledger, got drift %+v", recon.Drift)
	}

	var transfers []model.Transfer
	env.do(t, "GET", "/api/transfers?status="+model.TransferCompleted, admin, nil, &transfers)
	if len(transfers) != 1 {
		t.Errorf("expected 1 completed transfer, got %d", len(transfers))
	}
}

func TestListFilterValidation(t *testing.T) {
	env := setupTestServer(t)
	admin := env.login(t, "admin")

	if status := env.do(t, "GET", "/api/purchases?start_date=yesterday", admin, nil, nil); status != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date, got %d", status)
	}
	if status := env.do(t, "GET", "/api/dashboard?start_date=2024-06-02&end_date=2024-06-01", admin, nil, nil); status != http.StatusBadRequest {
		t.Errorf("expected 400 for inverted range, got %d", status)
	}
	if status := env.do(t, "GET", "/api/assets/abc", admin, nil, nil); status != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", status)
	}
	if status := env.do(t, "GET", "/api/purchases/999", admin, nil, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for missing purchase, got %d", status)
	}
}

func TestDashboardExport(t *testing.T) {
	env := setupTestServer(t)
	admin := env.login(t, "admin")
	env.purchase(t, admin, "Rifle", env.alpha, 3)

	req, _ := http.NewRequest("GET", env.server.URL+"/api/dashboard/export", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, ".xlsx") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	data, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("expected a zip-based xlsx body")
	}
}
