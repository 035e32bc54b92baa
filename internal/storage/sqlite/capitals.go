package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bekzodm/nasiya/internal/models"
	"github.com/bekzodm/nasiya/internal/storage"
)

// CreateCapital persists a new capital to the database.
func (s *SQLiteStore) CreateCapital(ctx context.Context, capital *models.Capital) error {
	if capital.ID == "" {
		capital.ID = uuid.New().String()
	}
	if capital.CreatedAt == 0 {
		capital.CreatedAt = time.Now().Unix()
	}

	var description interface{}
	if capital.Description != "" {
		description = capital.Description
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO capitals (id, owner_id, name, description, balance, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		capital.ID, capital.OwnerID, capital.Name, description,
		capital.Balance, capital.IsActive, capital.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert capital: %w", err)
	}
	return nil
}

// ListCapitals retrieves the owner's active capitals, oldest first.
func (s *SQLiteStore) ListCapitals(ctx context.Context, ownerID string) ([]*models.Capital, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, description, balance, is_active, created_at
		 FROM capitals WHERE owner_id = ? AND is_active = 1 ORDER BY created_at`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list capitals: %w", err)
	}
	defer rows.Close()

	var capitals []*models.Capital
	for rows.Next() {
		capital, err := scanCapital(rows)
		if err != nil {
			return nil, err
		}
		capitals = append(capitals, capital)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate capitals: %w", err)
	}
	return capitals, nil
}

// GetCapital retrieves one capital scoped to its owner.
func (s *SQLiteStore) GetCapital(ctx context.Context, ownerID, capitalID string) (*models.Capital, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, balance, is_active, created_at
		 FROM capitals WHERE id = ? AND owner_id = ?`,
		capitalID, ownerID,
	)

	capital, err := scanCapital(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("capital %s: %w", capitalID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return capital, nil
}

// UpdateCapital overwrites the capital's mutable fields, balance included.
// Manual balance edits go through here; ledger-driven balance changes use the
// guarded in-transaction updates instead.
func (s *SQLiteStore) UpdateCapital(ctx context.Context, capital *models.Capital) error {
	var description interface{}
	if capital.Description != "" {
		description = capital.Description
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE capitals SET name = ?, description = ?, balance = ?, is_active = ?
		 WHERE id = ? AND owner_id = ?`,
		capital.Name, description, capital.Balance, capital.IsActive,
		capital.ID, capital.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update capital: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("capital %s: %w", capital.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteCapital removes the capital. Clients, installments, expenses and
// payment rows go with it through the foreign key cascades.
func (s *SQLiteStore) DeleteCapital(ctx context.Context, ownerID, capitalID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM capitals WHERE id = ? AND owner_id = ?",
		capitalID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete capital: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("capital %s: %w", capitalID, storage.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCapital(row rowScanner) (*models.Capital, error) {
	capital := &models.Capital{}
	var description sql.NullString
	err := row.Scan(&capital.ID, &capital.OwnerID, &capital.Name, &description,
		&capital.Balance, &capital.IsActive, &capital.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan capital: %w", err)
	}
	if description.Valid {
		capital.Description = description.String
	}
	return capital, nil
}
