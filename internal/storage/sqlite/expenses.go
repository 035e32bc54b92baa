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

// CreateExpense debits the capital by the expense amount and inserts the
// expense in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := debitCapital(ctx, tx, expense.CapitalID, expense.Amount); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, capital_id, amount, description, category, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.CapitalID, expense.Amount, expense.Description,
		expense.Category, expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpenses retrieves all expenses of the given capitals, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, capitalIDs []string) ([]*models.Expense, error) {
	if len(capitalIDs) == 0 {
		return nil, nil
	}

	query := `SELECT id, capital_id, amount, description, category, date, created_at
	          FROM expenses WHERE capital_id IN (?` + repeatPlaceholder(len(capitalIDs)-1) + `)
	          ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, inArgs(capitalIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.CapitalID, &expense.Amount,
			&expense.Description, &expense.Category, &expense.Date, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// GetExpense retrieves one expense if it belongs to one of the given capitals.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string, capitalIDs []string) (*models.Expense, error) {
	if len(capitalIDs) == 0 {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	query := `SELECT id, capital_id, amount, description, category, date, created_at
	          FROM expenses WHERE id = ? AND capital_id IN (?` + repeatPlaceholder(len(capitalIDs)-1) + `)`

	args := append([]interface{}{expenseID}, inArgs(capitalIDs)...)
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&expense.ID, &expense.CapitalID, &expense.Amount,
		&expense.Description, &expense.Category, &expense.Date, &expense.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// UpdateExpense overwrites the expense and settles the balance delta in one
// transaction. A positive delta is a further guarded debit; a negative delta
// refunds the difference.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense, delta float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	switch {
	case delta > 0:
		if err := debitCapital(ctx, tx, expense.CapitalID, delta); err != nil {
			return err
		}
	case delta < 0:
		if err := creditCapital(ctx, tx, expense.CapitalID, -delta); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, description = ?, category = ?, date = ?
		 WHERE id = ?`,
		expense.Amount, expense.Description, expense.Category, expense.Date, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes the expense and refunds its full amount in one
// transaction.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		capitalID string
		amount    float64
	)
	err = tx.QueryRowContext(ctx,
		"SELECT capital_id, amount FROM expenses WHERE id = ?", expenseID,
	).Scan(&capitalID, &amount)
	if err == sql.ErrNoRows {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get expense: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if err := creditCapital(ctx, tx, capitalID, amount); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
