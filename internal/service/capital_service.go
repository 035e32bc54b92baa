package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validator "github.com/avrebarra/minivalidator"

	"github.com/bekzodm/nasiya/internal/models"
	"github.com/bekzodm/nasiya/internal/storage"
)

// CreateCapitalRequest is the payload for creating a capital.
type CreateCapitalRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Balance     float64 `json:"balance"`
}

// UpdateCapitalRequest is a partial update; nil fields are left untouched.
// Balance here is the manual top-up/correction path; ledger-driven balance
// changes never go through it.
type UpdateCapitalRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Balance     *float64 `json:"balance"`
}

// CapitalService manages capitals (funds).
type CapitalService struct {
	store storage.Store
}

// NewCapitalService creates a new CapitalService with the given storage backend.
func NewCapitalService(store storage.Store) *CapitalService {
	return &CapitalService{store: store}
}

// Create persists a new capital for the owner.
func (s *CapitalService) Create(ctx context.Context, ownerID string, req CreateCapitalRequest) (*models.Capital, error) {
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.Balance < 0 {
		return nil, fmt.Errorf("%w: balance must not be negative", ErrInvalidInput)
	}

	capital := &models.Capital{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Balance:     req.Balance,
		IsActive:    true,
	}
	if err := s.store.CreateCapital(ctx, capital); err != nil {
		slog.Error("CreateCapital failed", "owner_id", ownerID, "error", err)
		return nil, err
	}
	slog.Info("Capital created", "capital_id", capital.ID, "owner_id", ownerID)
	return capital, nil
}

// List returns the owner's active capitals.
func (s *CapitalService) List(ctx context.Context, ownerID string) ([]*models.Capital, error) {
	return s.store.ListCapitals(ctx, ownerID)
}

// Get returns one capital scoped to its owner.
func (s *CapitalService) Get(ctx context.Context, ownerID, capitalID string) (*models.Capital, error) {
	capital, err := s.store.GetCapital(ctx, ownerID, capitalID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return capital, nil
}

// Update applies a partial update to the capital.
func (s *CapitalService) Update(ctx context.Context, ownerID, capitalID string, req UpdateCapitalRequest) (*models.Capital, error) {
	capital, err := s.store.GetCapital(ctx, ownerID, capitalID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		capital.Name = *req.Name
	}
	if req.Description != nil {
		capital.Description = *req.Description
	}
	if req.Balance != nil {
		if *req.Balance < 0 {
			return nil, fmt.Errorf("%w: balance must not be negative", ErrInvalidInput)
		}
		capital.Balance = *req.Balance
	}

	if err := s.store.UpdateCapital(ctx, capital); err != nil {
		return nil, mapStoreErr(err)
	}
	return capital, nil
}

// Delete removes the capital and everything it owns.
func (s *CapitalService) Delete(ctx context.Context, ownerID, capitalID string) error {
	if err := s.store.DeleteCapital(ctx, ownerID, capitalID); err != nil {
		return mapStoreErr(err)
	}
	slog.Info("Capital deleted", "capital_id", capitalID, "owner_id", ownerID)
	return nil
}

// ownedCapitalIDs resolves the owner's capitals for row-level filtering.
func ownedCapitalIDs(ctx context.Context, store storage.Store, ownerID string) ([]string, error) {
	capitals, err := store.ListCapitals(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(capitals))
	for i, capital := range capitals {
		ids[i] = capital.ID
	}
	return ids, nil
}

// scopeToCapital narrows the owned id set to one requested capital, or
// reports AccessDenied when the capital is not in the set.
func scopeToCapital(ids []string, capitalID string) ([]string, error) {
	if capitalID == "" {
		return ids, nil
	}
	for _, id := range ids {
		if id == capitalID {
			return []string{capitalID}, nil
		}
	}
	return nil, fmt.Errorf("capital %s: %w", capitalID, ErrAccessDenied)
}

// mapStoreErr translates storage sentinels into the service taxonomy.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, storage.ErrInsufficientFunds):
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	default:
		return err
	}
}
