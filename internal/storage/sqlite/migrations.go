package sqlite

import (
	"database/sql"
	"fmt"
)

// schema contains the SQL statements to set up the database.
// These run on startup to ensure tables exist.
// IMPORTANT: capitals must be created before clients/expenses/payments due to
// foreign key constraints, and clients before installments.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS capitals (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    balance REAL NOT NULL DEFAULT 0,
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS clients (
    id TEXT PRIMARY KEY,
    capital_id TEXT NOT NULL,
    name TEXT NOT NULL,
    product TEXT NOT NULL,
    debt_amount REAL NOT NULL,
    purchase_amount REAL NOT NULL DEFAULT 0,
    monthly_payment REAL NOT NULL,
    guarantor_name TEXT,
    guarantor_phone TEXT,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (capital_id) REFERENCES capitals(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS installments (
    client_id TEXT NOT NULL,
    due_date TEXT NOT NULL,
    amount REAL NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    paid_date TEXT,
    PRIMARY KEY (client_id, due_date),
    FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    capital_id TEXT NOT NULL,
    amount REAL NOT NULL,
    description TEXT NOT NULL,
    category TEXT NOT NULL,
    date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (capital_id) REFERENCES capitals(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    client_id TEXT NOT NULL,
    capital_id TEXT NOT NULL,
    amount REAL NOT NULL,
    payment_date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE,
    FOREIGN KEY (capital_id) REFERENCES capitals(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_capitals_owner_id ON capitals(owner_id);
CREATE INDEX IF NOT EXISTS idx_clients_capital_id ON clients(capital_id);
CREATE INDEX IF NOT EXISTS idx_installments_client_id ON installments(client_id);
CREATE INDEX IF NOT EXISTS idx_expenses_capital_id ON expenses(capital_id);
CREATE INDEX IF NOT EXISTS idx_payments_capital_id ON payments(capital_id);
`

// runMigrations executes the schema setup and the legacy-field conversion.
func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	return migrateLegacyTotalAmount(db)
}

// migrateLegacyTotalAmount converts databases written by the old schema where
// clients carried a single total_amount column. Any value left there is
// copied into debt_amount once and the column is dropped, so no later code
// has to branch on the legacy field.
func migrateLegacyTotalAmount(db *sql.DB) error {
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info('clients') WHERE name = 'total_amount'",
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to inspect clients table: %w", err)
	}
	if count == 0 {
		return nil
	}

	if _, err := db.Exec(
		"UPDATE clients SET debt_amount = total_amount WHERE (debt_amount IS NULL OR debt_amount = 0) AND total_amount > 0",
	); err != nil {
		return fmt.Errorf("failed to backfill debt_amount: %w", err)
	}
	if _, err := db.Exec("ALTER TABLE clients DROP COLUMN total_amount"); err != nil {
		return fmt.Errorf("failed to drop total_amount: %w", err)
	}
	return nil
}
