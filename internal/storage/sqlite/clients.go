package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bekzodm/nasiya/internal/calculator"
	"github.com/bekzodm/nasiya/internal/models"
	"github.com/bekzodm/nasiya/internal/storage"
)

// debitCapital applies a guarded debit inside tx. The WHERE clause refuses
// the update when the balance would go negative, which is what makes the
// insufficient-funds check race-free: two concurrent debits cannot both pass.
func debitCapital(ctx context.Context, tx *sql.Tx, capitalID string, amount float64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE capitals SET balance = balance - ? WHERE id = ? AND balance >= ?",
		amount, capitalID, amount,
	)
	if err != nil {
		return fmt.Errorf("failed to debit capital: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check debit result: %w", err)
	}
	if n == 0 {
		// Either the capital is gone or the balance is too low.
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM capitals WHERE id = ?", capitalID).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("capital %s: %w", capitalID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check capital: %w", err)
		}
		return fmt.Errorf("capital %s: %w", capitalID, storage.ErrInsufficientFunds)
	}
	return nil
}

// creditCapital adds amount back to the capital's balance inside tx.
func creditCapital(ctx context.Context, tx *sql.Tx, capitalID string, amount float64) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE capitals SET balance = balance + ? WHERE id = ?",
		amount, capitalID,
	); err != nil {
		return fmt.Errorf("failed to credit capital: %w", err)
	}
	return nil
}

// CreateClient debits the financing capital and inserts the client with its
// installment schedule in one transaction. When the debit fails nothing is
// persisted.
func (s *SQLiteStore) CreateClient(ctx context.Context, client *models.Client, debit float64) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if client.CreatedAt == 0 {
		client.CreatedAt = now
	}
	client.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if debit > 0 {
		if err := debitCapital(ctx, tx, client.CapitalID, debit); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO clients (id, capital_id, name, product, debt_amount, purchase_amount,
		                      monthly_payment, guarantor_name, guarantor_phone,
		                      start_date, end_date, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		client.ID, client.CapitalID, client.Name, client.Product,
		client.DebtAmount, client.PurchaseAmount, client.MonthlyPayment,
		nullable(client.GuarantorName), nullable(client.GuarantorPhone),
		client.StartDate, client.EndDate, string(client.Status),
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}

	for _, inst := range client.Schedule {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO installments (client_id, due_date, amount, status, paid_date)
			 VALUES (?, ?, ?, ?, ?)`,
			client.ID, inst.DueDate, inst.Amount, string(inst.Status), nullable(inst.PaidDate),
		)
		if err != nil {
			return fmt.Errorf("failed to insert installment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListClients retrieves all clients of the given capitals with schedules
// loaded, newest first.
func (s *SQLiteStore) ListClients(ctx context.Context, capitalIDs []string) ([]*models.Client, error) {
	if len(capitalIDs) == 0 {
		return nil, nil
	}

	query := `SELECT id, capital_id, name, product, debt_amount, purchase_amount,
	                 monthly_payment, guarantor_name, guarantor_phone,
	                 start_date, end_date, status, created_at, updated_at
	          FROM clients WHERE capital_id IN (?` + repeatPlaceholder(len(capitalIDs)-1) + `)
	          ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, inArgs(capitalIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	if err := s.loadSchedules(ctx, clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// GetClient retrieves one client if it belongs to one of the given capitals.
func (s *SQLiteStore) GetClient(ctx context.Context, clientID string, capitalIDs []string) (*models.Client, error) {
	if len(capitalIDs) == 0 {
		return nil, fmt.Errorf("client %s: %w", clientID, storage.ErrNotFound)
	}

	query := `SELECT id, capital_id, name, product, debt_amount, purchase_amount,
	                 monthly_payment, guarantor_name, guarantor_phone,
	                 start_date, end_date, status, created_at, updated_at
	          FROM clients WHERE id = ? AND capital_id IN (?` + repeatPlaceholder(len(capitalIDs)-1) + `)`

	args := append([]interface{}{clientID}, inArgs(capitalIDs)...)
	client, err := scanClient(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client %s: %w", clientID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadSchedules(ctx, []*models.Client{client}); err != nil {
		return nil, err
	}
	return client, nil
}

// UpdateClient overwrites the client's editable fields. Schedules and
// balances are deliberately out of reach here; they change only through
// CreateClient and SetInstallmentStatus.
func (s *SQLiteStore) UpdateClient(ctx context.Context, client *models.Client) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, product = ?, debt_amount = ?, purchase_amount = ?,
		                    monthly_payment = ?, guarantor_name = ?, guarantor_phone = ?,
		                    status = ?, updated_at = ?
		 WHERE id = ?`,
		client.Name, client.Product, client.DebtAmount, client.PurchaseAmount,
		client.MonthlyPayment, nullable(client.GuarantorName), nullable(client.GuarantorPhone),
		string(client.Status), time.Now().Unix(), client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("client %s: %w", client.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteClient removes the client; installments and payment rows cascade.
func (s *SQLiteStore) DeleteClient(ctx context.Context, clientID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", clientID)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("client %s: %w", clientID, storage.ErrNotFound)
	}
	return nil
}

// SetInstallmentStatus transitions one installment and settles the capital
// balance in the same transaction. The balance moves only on transitions into
// or out of "paid"; setting "paid" twice is a no-op for the balance.
func (s *SQLiteStore) SetInstallmentStatus(ctx context.Context, clientID, dueDate string, status models.PaymentStatus, paidDate string) (float64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		capitalID  string
		amount     float64
		prevStatus string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT c.capital_id, i.amount, i.status
		 FROM installments i JOIN clients c ON c.id = i.client_id
		 WHERE i.client_id = ? AND i.due_date = ?`,
		clientID, dueDate,
	).Scan(&capitalID, &amount, &prevStatus)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("installment %s/%s: %w", clientID, dueDate, storage.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get installment: %w", err)
	}

	if status != models.PaymentPaid {
		paidDate = ""
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE installments SET status = ?, paid_date = ? WHERE client_id = ? AND due_date = ?",
		string(status), nullable(paidDate), clientID, dueDate,
	); err != nil {
		return 0, fmt.Errorf("failed to update installment: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE clients SET updated_at = ? WHERE id = ?",
		time.Now().Unix(), clientID,
	); err != nil {
		return 0, fmt.Errorf("failed to touch client: %w", err)
	}

	delta := calculator.BalanceDelta(models.PaymentStatus(prevStatus), status, amount)
	if delta != 0 {
		if err := creditCapital(ctx, tx, capitalID, delta); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return delta, nil
}

// loadSchedules fetches the installments of all given clients in one query
// and attaches them, earliest due date first.
func (s *SQLiteStore) loadSchedules(ctx context.Context, clients []*models.Client) error {
	if len(clients) == 0 {
		return nil
	}

	ids := make([]string, len(clients))
	byID := make(map[string]*models.Client, len(clients))
	for i, client := range clients {
		ids[i] = client.ID
		byID[client.ID] = client
	}

	query := `SELECT client_id, due_date, amount, status, paid_date
	          FROM installments WHERE client_id IN (?` + repeatPlaceholder(len(ids)-1) + `)
	          ORDER BY due_date`

	rows, err := s.db.QueryContext(ctx, query, inArgs(ids)...)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			clientID string
			inst     models.Installment
			status   string
			paidDate sql.NullString
		)
		if err := rows.Scan(&clientID, &inst.DueDate, &inst.Amount, &status, &paidDate); err != nil {
			return fmt.Errorf("failed to scan installment: %w", err)
		}
		inst.Status = models.PaymentStatus(status)
		if paidDate.Valid {
			inst.PaidDate = paidDate.String
		}
		if client, ok := byID[clientID]; ok {
			client.Schedule = append(client.Schedule, inst)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate installments: %w", err)
	}
	return nil
}

func scanClient(row rowScanner) (*models.Client, error) {
	client := &models.Client{}
	var (
		guarantorName  sql.NullString
		guarantorPhone sql.NullString
		status         string
	)
	err := row.Scan(&client.ID, &client.CapitalID, &client.Name, &client.Product,
		&client.DebtAmount, &client.PurchaseAmount, &client.MonthlyPayment,
		&guarantorName, &guarantorPhone, &client.StartDate, &client.EndDate,
		&status, &client.CreatedAt, &client.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan client: %w", err)
	}
	client.Status = models.ClientStatus(status)
	if guarantorName.Valid {
		client.GuarantorName = guarantorName.String
	}
	if guarantorPhone.Valid {
		client.GuarantorPhone = guarantorPhone.String
	}
	return client, nil
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
