package server

import (
	"net/http"

	"github.com/bekzodm/nasiya/internal/middleware"
	"github.com/bekzodm/nasiya/internal/service"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCapital(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCapitalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	capital, err := s.capitals.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, capital)
}

func (s *Server) handleListCapitals(w http.ResponseWriter, r *http.Request) {
	capitals, err := s.capitals.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, capitals)
}

func (s *Server) handleGetCapital(w http.ResponseWriter, r *http.Request) {
	capital, err := s.capitals.Get(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, capital)
}

func (s *Server) handleUpdateCapital(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateCapitalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	capital, err := s.capitals.Update(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, capital)
}

func (s *Server) handleDeleteCapital(w http.ResponseWriter, r *http.Request) {
	if err := s.capitals.Delete(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "capital deleted"})
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req service.CreateClientRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	client, err := s.clients.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.clients.List(r.Context(), middleware.GetUserID(r.Context()), r.URL.Query().Get("capital_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.clients.Get(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateClientRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	client, err := s.clients.Update(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.clients.Delete(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "client deleted"})
}

func (s *Server) handleUpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req service.PaymentStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.clients.UpdatePaymentStatus(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req service.RecordPaymentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	payment, err := s.clients.RecordPayment(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.clients.ListPayments(r.Context(), middleware.GetUserID(r.Context()), r.URL.Query().Get("capital_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req service.CreateExpenseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	expense, err := s.expenses.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.List(r.Context(), middleware.GetUserID(r.Context()), r.URL.Query().Get("capital_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.expenses.Get(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateExpenseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	expense, err := s.expenses.Update(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "expense deleted"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := s.dashboards.Dashboard(r.Context(), middleware.GetUserID(r.Context()), r.URL.Query().Get("capital_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.dashboards.Analytics(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("capital_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}
