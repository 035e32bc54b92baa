// Package server wires the services into a JSON HTTP API under /api.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bekzodm/nasiya/internal/auth"
	"github.com/bekzodm/nasiya/internal/middleware"
	"github.com/bekzodm/nasiya/internal/service"
)

// Server holds the services behind the HTTP API.
type Server struct {
	auth       *service.AuthService
	capitals   *service.CapitalService
	clients    *service.ClientService
	expenses   *service.ExpenseService
	dashboards *service.DashboardService
	tokens     *auth.TokenManager
}

// New creates a Server over the given services.
func New(
	authSvc *service.AuthService,
	capitals *service.CapitalService,
	clients *service.ClientService,
	expenses *service.ExpenseService,
	dashboards *service.DashboardService,
	tokens *auth.TokenManager,
) *Server {
	return &Server{
		auth:       authSvc,
		capitals:   capitals,
		clients:    clients,
		expenses:   expenses,
		dashboards: dashboards,
		tokens:     tokens,
	}
}

// Routes returns the API mux. Everything under /api except the auth
// endpoints requires a bearer token.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	protected := http.NewServeMux()
	protected.HandleFunc("POST /api/capitals", s.handleCreateCapital)
	protected.HandleFunc("GET /api/capitals", s.handleListCapitals)
	protected.HandleFunc("GET /api/capitals/{id}", s.handleGetCapital)
	protected.HandleFunc("PATCH /api/capitals/{id}", s.handleUpdateCapital)
	protected.HandleFunc("DELETE /api/capitals/{id}", s.handleDeleteCapital)

	protected.HandleFunc("POST /api/clients", s.handleCreateClient)
	protected.HandleFunc("GET /api/clients", s.handleListClients)
	protected.HandleFunc("GET /api/clients/{id}", s.handleGetClient)
	protected.HandleFunc("PUT /api/clients/{id}", s.handleUpdateClient)
	protected.HandleFunc("DELETE /api/clients/{id}", s.handleDeleteClient)
	protected.HandleFunc("PUT /api/clients/{id}/payment-status", s.handleUpdatePaymentStatus)

	protected.HandleFunc("POST /api/payments", s.handleRecordPayment)
	protected.HandleFunc("GET /api/payments", s.handleListPayments)

	protected.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	protected.HandleFunc("GET /api/expenses", s.handleListExpenses)
	protected.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	protected.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	protected.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	protected.HandleFunc("GET /api/dashboard", s.handleDashboard)
	protected.HandleFunc("GET /api/analytics/{capital_id}", s.handleAnalytics)

	mux.Handle("/api/", middleware.RequireAuth(s.tokens, protected))
	return mux
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return service.ErrInvalidInput
	}
	return nil
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the service error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, auth.ErrWeakPassword):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrEmailExists):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
		writeJSON(w, status, map[string]string{"detail": "internal server error"})
		return
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
