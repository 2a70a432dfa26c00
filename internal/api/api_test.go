package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sahanac12/lost-found/internal/claims"
	"github.com/sahanac12/lost-found/internal/db"
	"github.com/sahanac12/lost-found/internal/model"
	"github.com/sahanac12/lost-found/internal/notify"
	"github.com/sahanac12/lost-found/internal/storage"
	"github.com/sahanac12/lost-found/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t)

	files, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}

	engine := claims.NewEngine(database, notify.LogSender{})
	router := NewRouter(database, testJWTSecret, engine, files)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Seed the admin account; signup never grants the admin role.
	hash, _ := bcrypt.GenerateFromPassword([]byte("adminpass"), bcrypt.DefaultCost)
	store.CreateUser(context.Background(), database, "Admin", "admin@example.com", string(hash), model.RoleAdmin)

	return server, database
}

func signupAndLogin(t *testing.T, server *httptest.Server, name, email string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"name": name, "email": email, "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/signup", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("signup request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup failed: %d", resp.StatusCode)
	}

	return login(t, server, email, "password")
}

func login(t *testing.T, server *httptest.Server, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp["token"] == "" {
		t.Fatal("empty token from login")
	}
	return loginResp["token"]
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// postReport submits a found report through the multipart endpoint and
// returns the created report.
func postReport(t *testing.T, server *httptest.Server, token, title string) model.Report {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"report_type":       "found",
		"title":             title,
		"description":       "test description",
		"category":          "accessories",
		"location":          "Library",
		"date":              "2026-08-20",
		"security_question": "What is inside?",
		"security_answer":   "A bus pass",
	}
	for k, v := range fields {
		w.WriteField(k, v)
	}
	w.Close()

	req, _ := http.NewRequest("POST", server.URL+"/api/reports", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("report request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating report, got %d", resp.StatusCode)
	}

	var report model.Report
	json.NewDecoder(resp.Body).Decode(&report)
	return report
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSignupDuplicateEmail(t *testing.T) {
	server, _ := setupTestServer(t)
	signupAndLogin(t, server, "First", "dup@example.com")

	body, _ := json.Marshal(map[string]string{"name": "Second", "email": "dup@example.com", "password": "password"})
	resp, _ := http.Post(server.URL+"/api/auth/signup", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

// TestClaimLifecycle walks the whole flow: a finder reports an item, a
// claimant claims it, the admin approves, and both handover steps are
// verified with the issued pickup code.
func TestClaimLifecycle(t *testing.T) {
	server, _ := setupTestServer(t)

	finderToken := signupAndLogin(t, server, "Fiona Finder", "finder@example.com")
	claimerToken := signupAndLogin(t, server, "Carl Claimer", "claimer@example.com")
	adminToken := login(t, server, "admin@example.com", "adminpass")

	report := postReport(t, server, finderToken, "Black Wallet")

	// Claimant sees the listing.
	req, _ := authRequest("GET", server.URL+"/api/items", claimerToken, nil)
	resp, _ := http.DefaultClient.Do(req)
	var items []model.Item
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 {
		t.Fatalf("expected 1 listed item, got %d", len(items))
	}

	// Claimant submits a claim.
	req, _ = authRequest("POST", server.URL+"/api/items/1/claims", claimerToken, map[string]string{
		"proof":           "It has my bus pass inside",
		"security_answer": "A bus pass",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating claim, got %d", resp.StatusCode)
	}
	var claim model.ClaimRequest
	json.NewDecoder(resp.Body).Decode(&claim)
	resp.Body.Close()
	if claim.ItemID != report.ItemID {
		t.Errorf("claim bound to item %d, expected %d", claim.ItemID, report.ItemID)
	}

	// A second claim on the same item from the same user is rejected.
	req, _ = authRequest("POST", server.URL+"/api/items/1/claims", claimerToken, map[string]string{
		"proof":           "again",
		"security_answer": "A bus pass",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate claim, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Admin cross-checks the security answers.
	req, _ = authRequest("GET", server.URL+"/api/admin/claims/1/security-answers", adminToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	var answers map[string]string
	json.NewDecoder(resp.Body).Decode(&answers)
	resp.Body.Close()
	if answers["reporter_answer"] != "A bus pass" || answers["claimant_answer"] != "A bus pass" {
		t.Errorf("unexpected security answers: %v", answers)
	}

	// Admin approves.
	req, _ = authRequest("POST", server.URL+"/api/admin/claims/1/decision", adminToken, map[string]string{
		"action_type": "approve",
		"remarks":     "answers match",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 approving claim, got %d", resp.StatusCode)
	}
	var decision struct {
		Claim      model.ClaimRequest `json:"claim"`
		PickupCode string             `json:"pickup_code"`
	}
	json.NewDecoder(resp.Body).Decode(&decision)
	resp.Body.Close()
	if decision.PickupCode == "" {
		t.Fatal("expected a pickup code with the approval")
	}

	// A second decision on the same claim conflicts.
	req, _ = authRequest("POST", server.URL+"/api/admin/claims/1/decision", adminToken, map[string]string{
		"action_type": "reject",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for second decision, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The item leaves the active listing.
	req, _ = authRequest("GET", server.URL+"/api/items", claimerToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	items = nil
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 0 {
		t.Errorf("expected resolved item to leave the listing, got %d items", len(items))
	}

	// Collection before handover is rejected.
	req, _ = authRequest("POST", server.URL+"/api/admin/collection/verify", adminToken, map[string]string{
		"pickup_code": decision.PickupCode,
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for collection before handover, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Step 1: finder hands the item in.
	req, _ = authRequest("POST", server.URL+"/api/admin/handover/verify", adminToken, map[string]string{
		"pickup_code": decision.PickupCode,
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 verifying handover, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Step 2: claimant collects.
	req, _ = authRequest("POST", server.URL+"/api/admin/collection/verify", adminToken, map[string]string{
		"pickup_code": decision.PickupCode,
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 verifying collection, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Claimant sees the completed claim with the code.
	req, _ = authRequest("GET", server.URL+"/api/claims/mine", claimerToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	var mine []model.ClaimRequest
	json.NewDecoder(resp.Body).Decode(&mine)
	resp.Body.Close()
	if len(mine) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(mine))
	}
	if !mine[0].ItemCollectedByClaimer {
		t.Error("expected claim marked collected")
	}

	// The audit log records the approval.
	req, _ = authRequest("GET", server.URL+"/api/admin/actions", adminToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	var actions []model.AdminAction
	json.NewDecoder(resp.Body).Decode(&actions)
	resp.Body.Close()
	if len(actions) != 1 || actions[0].ActionType != model.ActionApprove {
		t.Errorf("expected 1 approve action, got %+v", actions)
	}
}

func TestVerifyUnknownCode(t *testing.T) {
	server, _ := setupTestServer(t)
	adminToken := login(t, server, "admin@example.com", "adminpass")

	req, _ := authRequest("POST", server.URL+"/api/admin/handover/verify", adminToken, map[string]string{
		"pickup_code": "NOSUCH00",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown code, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAdminStats(t *testing.T) {
	server, _ := setupTestServer(t)
	finderToken := signupAndLogin(t, server, "Finder", "finder@example.com")
	adminToken := login(t, server, "admin@example.com", "adminpass")

	postReport(t, server, finderToken, "Umbrella")

	req, _ := authRequest("GET", server.URL+"/api/admin/stats", adminToken, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var stats struct {
		TotalReports  int `json:"total_reports"`
		TotalItems    int `json:"total_items"`
		PendingClaims int `json:"pending_claims"`
	}
	json.NewDecoder(resp.Body).Decode(&stats)
	resp.Body.Close()
	if stats.TotalReports != 1 || stats.TotalItems != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/items")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRoleBasedAccess(t *testing.T) {
	server, _ := setupTestServer(t)
	userToken := signupAndLogin(t, server, "Regular", "user@example.com")
	adminToken := login(t, server, "admin@example.com", "adminpass")

	// Regular users cannot reach admin surfaces.
	req, _ := authRequest("GET", server.URL+"/api/admin/claims", userToken, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for user on admin endpoint, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Admins do not file reports; the user surfaces are disjoint.
	req, _ = authRequest("GET", server.URL+"/api/reports/mine", adminToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for admin on user endpoint, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server, _ := setupTestServer(t)
	token := signupAndLogin(t, server, "Regular", "user@example.com")

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 logging out, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 with revoked token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
