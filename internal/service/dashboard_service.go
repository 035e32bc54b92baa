package service

import (
	"context"
	"time"

	"github.com/bekzodm/nasiya/internal/calculator"
	"github.com/bekzodm/nasiya/internal/storage"
)

// DashboardService builds the due-payment dashboard and per-capital
// analytics. It is read only; all classification happens in memory over the
// owner's scoped data.
type DashboardService struct {
	store storage.Store

	// now supplies "today" for bucketing; replaceable in tests.
	now func() time.Time
}

// NewDashboardService creates a new DashboardService with the given storage
// backend.
func NewDashboardService(store storage.Store) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

// Dashboard classifies the owner's unpaid installments into overdue, due
// today and due tomorrow, optionally narrowed to one capital.
func (s *DashboardService) Dashboard(ctx context.Context, ownerID, capitalID string) (*calculator.DashboardData, error) {
	ids, err := ownedCapitalIDs(ctx, s.store, ownerID)
	if err != nil {
		return nil, err
	}
	ids, err = scopeToCapital(ids, capitalID)
	if err != nil {
		return nil, err
	}
	clients, err := s.store.ListClients(ctx, ids)
	if err != nil {
		return nil, err
	}
	data := calculator.ClassifyDue(clients, s.now())
	return &data, nil
}

// Analytics computes financial totals for one capital: debt, collected,
// outstanding, collection rate, expenses, profit and its monthly breakdown.
func (s *DashboardService) Analytics(ctx context.Context, ownerID, capitalID string) (*calculator.CapitalAnalytics, error) {
	capital, err := s.store.GetCapital(ctx, ownerID, capitalID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	ids := []string{capital.ID}
	clients, err := s.store.ListClients(ctx, ids)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, ids)
	if err != nil {
		return nil, err
	}
	analytics := calculator.Analyze(capital, clients, expenses, s.now())
	return &analytics, nil
}
