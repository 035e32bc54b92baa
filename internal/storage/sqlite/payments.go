package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bekzodm/nasiya/internal/models"
)

// CreatePayment appends a payment log row. The log is an audit trail; no
// balance arithmetic happens here.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, client_id, capital_id, amount, payment_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.ClientID, payment.CapitalID,
		payment.Amount, payment.PaymentDate, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// ListPayments retrieves the payment log of the given capitals, newest first.
func (s *SQLiteStore) ListPayments(ctx context.Context, capitalIDs []string) ([]*models.Payment, error) {
	if len(capitalIDs) == 0 {
		return nil, nil
	}

	query := `SELECT id, client_id, capital_id, amount, payment_date, created_at
	          FROM payments WHERE capital_id IN (?` + repeatPlaceholder(len(capitalIDs)-1) + `)
	          ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, inArgs(capitalIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.ClientID, &payment.CapitalID,
			&payment.Amount, &payment.PaymentDate, &payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}
