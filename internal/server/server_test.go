package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bekzodm/nasiya/internal/auth"
	"github.com/bekzodm/nasiya/internal/models"
	"github.com/bekzodm/nasiya/internal/service"
	"github.com/bekzodm/nasiya/internal/storage/sqlite"
)

// setupTestServer boots the full API over a temp SQLite database.
func setupTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	srv := New(
		service.NewAuthService(auth.NewAuthenticator(store), tokens),
		service.NewCapitalService(store),
		service.NewClientService(store),
		service.NewExpenseService(store),
		service.NewDashboardService(store),
		tokens,
	)
	ts := httptest.NewServer(srv.Routes())

	cleanup := func() {
		ts.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}
	return ts, cleanup
}

// doJSON sends a JSON request with an optional bearer token and decodes the
// response into out when it is non-nil.
func doJSON(t *testing.T, method, url, token string, body, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func register(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()
	var resp service.AuthResponse
	status := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]string{
		"email":        email,
		"display_name": "Tester",
		"password":     "secret123",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}
	return resp.Token
}

func TestAuthEndpoints(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	token := register(t, ts, "bek@example.com")
	if token == "" {
		t.Fatal("expected a token")
	}

	// Duplicate email conflicts.
	status := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]string{
		"email":        "bek@example.com",
		"display_name": "Dup",
		"password":     "secret123",
	}, nil)
	if status != http.StatusConflict {
		t.Errorf("duplicate register: expected 409, got %d", status)
	}

	var login service.AuthResponse
	status = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"email":    "bek@example.com",
		"password": "secret123",
	}, &login)
	if status != http.StatusOK || login.Token == "" {
		t.Errorf("login: expected 200 with token, got %d", status)
	}

	status = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"email":    "bek@example.com",
		"password": "wrong",
	}, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("bad login: expected 401, got %d", status)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	if status := doJSON(t, http.MethodGet, ts.URL+"/api/capitals", "", nil, nil); status != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", status)
	}
	if status := doJSON(t, http.MethodGet, ts.URL+"/api/capitals", "not-a-jwt", nil, nil); status != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", status)
	}
}

func TestClientFlowOverHTTP(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	token := register(t, ts, "owner@example.com")

	var capital models.Capital
	status := doJSON(t, http.MethodPost, ts.URL+"/api/capitals", token, map[string]interface{}{
		"name":    "Main fund",
		"balance": 100000,
	}, &capital)
	if status != http.StatusCreated {
		t.Fatalf("create capital: expected 201, got %d", status)
	}

	var client models.Client
	status = doJSON(t, http.MethodPost, ts.URL+"/api/clients", token, map[string]interface{}{
		"capital_id":      capital.ID,
		"name":            "Karim",
		"product":         "TV",
		"debt_amount":     30000,
		"monthly_payment": 10000,
		"start_date":      "2024-01-01",
		"months":          3,
	}, &client)
	if status != http.StatusCreated {
		t.Fatalf("create client: expected 201, got %d", status)
	}
	if len(client.Schedule) != 3 || client.Schedule[0].DueDate != "2024-02-01" {
		t.Errorf("unexpected schedule: %+v", client.Schedule)
	}

	var res service.PaymentStatusResult
	status = doJSON(t, http.MethodPut, ts.URL+"/api/clients/"+client.ID+"/payment-status", token, map[string]string{
		"payment_date": "2024-02-01",
		"status":       "paid",
	}, &res)
	if status != http.StatusOK {
		t.Fatalf("payment status: expected 200, got %d", status)
	}
	if res.BalanceDelta != 10000 {
		t.Errorf("expected delta 10000, got %f", res.BalanceDelta)
	}

	status = doJSON(t, http.MethodGet, ts.URL+"/api/capitals/"+capital.ID, token, nil, &capital)
	if status != http.StatusOK {
		t.Fatalf("get capital: expected 200, got %d", status)
	}
	if capital.Balance != 80000 {
		t.Errorf("expected balance 80000, got %f", capital.Balance)
	}

	// An unknown status is rejected.
	status = doJSON(t, http.MethodPut, ts.URL+"/api/clients/"+client.ID+"/payment-status", token, map[string]string{
		"payment_date": "2024-03-01",
		"status":       "refunded",
	}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("bad status: expected 400, got %d", status)
	}

	// A second user sees none of it.
	otherToken := register(t, ts, "other@example.com")
	status = doJSON(t, http.MethodGet, ts.URL+"/api/capitals/"+capital.ID, otherToken, nil, nil)
	if status != http.StatusNotFound {
		t.Errorf("foreign capital: expected 404, got %d", status)
	}
	status = doJSON(t, http.MethodGet, ts.URL+"/api/clients?capital_id="+capital.ID, otherToken, nil, nil)
	if status != http.StatusForbidden {
		t.Errorf("foreign capital filter: expected 403, got %d", status)
	}
}

func TestInsufficientFundsOverHTTP(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	token := register(t, ts, "owner@example.com")

	var capital models.Capital
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/capitals", token, map[string]interface{}{
		"name":    "Small fund",
		"balance": 1000,
	}, &capital); status != http.StatusCreated {
		t.Fatalf("create capital: expected 201, got %d", status)
	}

	status := doJSON(t, http.MethodPost, ts.URL+"/api/expenses", token, map[string]interface{}{
		"capital_id":  capital.ID,
		"amount":      5000,
		"description": "Too big",
		"date":        "2024-01-10",
	}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("over-balance expense: expected 400, got %d", status)
	}
}
