package service

import (
	"context"
	"fmt"
	"log/slog"

	validator "github.com/avrebarra/minivalidator"

	"github.com/bekzodm/nasiya/internal/models"
	"github.com/bekzodm/nasiya/internal/money"
	"github.com/bekzodm/nasiya/internal/storage"
)

// CreateExpenseRequest is the payload for recording an expense.
type CreateExpenseRequest struct {
	CapitalID   string  `json:"capital_id" validate:"required"`
	Amount      float64 `json:"amount" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category"`
	Date        string  `json:"date" validate:"required"`
}

// UpdateExpenseRequest is a partial update; nil fields are left untouched.
type UpdateExpenseRequest struct {
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Date        *string  `json:"date"`
}

// ExpenseService manages expenses and their balance effects.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// Create records an expense, debiting the capital by its amount in the same
// transaction as the insert.
func (s *ExpenseService) Create(ctx context.Context, ownerID string, req CreateExpenseRequest) (*models.Expense, error) {
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	if _, err := s.store.GetCapital(ctx, ownerID, req.CapitalID); err != nil {
		return nil, mapStoreErr(err)
	}

	expense := &models.Expense{
		CapitalID:   req.CapitalID,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Warn("CreateExpense failed", "capital_id", req.CapitalID, "error", err)
		return nil, mapStoreErr(err)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "capital_id", expense.CapitalID, "amount", expense.Amount)
	return expense, nil
}

// List returns the owner's expenses, optionally narrowed to one capital.
func (s *ExpenseService) List(ctx context.Context, ownerID, capitalID string) ([]*models.Expense, error) {
	ids, err := ownedCapitalIDs(ctx, s.store, ownerID)
	if err != nil {
		return nil, err
	}
	ids, err = scopeToCapital(ids, capitalID)
	if err != nil {
		return nil, err
	}
	return s.store.ListExpenses(ctx, ids)
}

// Get returns one expense within the owner's scope.
func (s *ExpenseService) Get(ctx context.Context, ownerID, expenseID string) (*models.Expense, error) {
	ids, err := ownedCapitalIDs(ctx, s.store, ownerID)
	if err != nil {
		return nil, err
	}
	expense, err := s.store.GetExpense(ctx, expenseID, ids)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return expense, nil
}

// Update applies a partial update. When the amount changes, only the
// difference moves on the capital balance; raising the amount is a guarded
// debit and can fail with insufficient funds.
func (s *ExpenseService) Update(ctx context.Context, ownerID, expenseID string, req UpdateExpenseRequest) (*models.Expense, error) {
	expense, err := s.Get(ctx, ownerID, expenseID)
	if err != nil {
		return nil, err
	}

	var delta float64
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
		}
		if money.Changed(expense.Amount, *req.Amount) {
			delta = money.Delta(expense.Amount, *req.Amount)
		}
		expense.Amount = *req.Amount
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.Date != nil {
		expense.Date = *req.Date
	}

	if err := s.store.UpdateExpense(ctx, expense, delta); err != nil {
		return nil, mapStoreErr(err)
	}
	slog.Info("Expense updated", "expense_id", expense.ID, "balance_delta", -delta)
	return expense, nil
}

// Delete removes the expense and refunds its full amount to the capital.
func (s *ExpenseService) Delete(ctx context.Context, ownerID, expenseID string) error {
	// Ownership check first; the delete itself is by bare id.
	if _, err := s.Get(ctx, ownerID, expenseID); err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return mapStoreErr(err)
	}
	slog.Info("Expense deleted", "expense_id", expenseID)
	return nil
}
