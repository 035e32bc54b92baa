package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bekzodm/nasiya/internal/calculator"
	"github.com/bekzodm/nasiya/internal/models"
	"github.com/bekzodm/nasiya/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "nasiya-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestCapital(t *testing.T, store *SQLiteStore, balance float64) *models.Capital {
	t.Helper()
	capital := &models.Capital{
		OwnerID:  "user-1",
		Name:     "Main fund",
		Balance:  balance,
		IsActive: true,
	}
	if err := store.CreateCapital(context.Background(), capital); err != nil {
		t.Fatalf("CreateCapital failed: %v", err)
	}
	return capital
}

func newTestClient(t *testing.T, store *SQLiteStore, capital *models.Capital, debit float64) *models.Client {
	t.Helper()
	schedule, err := calculator.GenerateSchedule("2024-01-01", 10000, 3)
	if err != nil {
		t.Fatalf("GenerateSchedule failed: %v", err)
	}
	client := &models.Client{
		CapitalID:      capital.ID,
		Name:           "Ivan Petrov",
		Product:        "iPhone 15 Pro",
		DebtAmount:     30000,
		PurchaseAmount: debit,
		MonthlyPayment: 10000,
		StartDate:      "2024-01-01",
		EndDate:        calculator.EndDate("2024-01-01", schedule),
		Schedule:       schedule,
		Status:         models.ClientActive,
	}
	if err := store.CreateClient(context.Background(), client, debit); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	return client
}

func capitalBalance(t *testing.T, store *SQLiteStore, capital *models.Capital) float64 {
	t.Helper()
	got, err := store.GetCapital(context.Background(), capital.OwnerID, capital.ID)
	if err != nil {
		t.Fatalf("GetCapital failed: %v", err)
	}
	return got.Balance
}

func TestCreateClient(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("debits capital and stores schedule", func(t *testing.T) {
		capital := newTestCapital(t, store, 100000)
		client := newTestClient(t, store, capital, 30000)

		if client.ID == "" {
			t.Error("expected client ID to be generated")
		}
		if got := capitalBalance(t, store, capital); got != 70000 {
			t.Errorf("balance after creation = %v, want 70000", got)
		}

		loaded, err := store.GetClient(ctx, client.ID, []string{capital.ID})
		if err != nil {
			t.Fatalf("GetClient failed: %v", err)
		}
		if len(loaded.Schedule) != 3 {
			t.Fatalf("expected 3 installments, got %d", len(loaded.Schedule))
		}
		if loaded.Schedule[0].DueDate != "2024-02-01" || loaded.Schedule[2].DueDate != "2024-04-01" {
			t.Errorf("schedule dates wrong: %+v", loaded.Schedule)
		}
		if loaded.EndDate != "2024-04-01" {
			t.Errorf("end date = %s, want 2024-04-01", loaded.EndDate)
		}
	})

	t.Run("insufficient funds leaves nothing behind", func(t *testing.T) {
		capital := newTestCapital(t, store, 10000)
		client := &models.Client{
			CapitalID:      capital.ID,
			Name:           "Maria Sidorova",
			Product:        "MacBook Air",
			DebtAmount:     50000,
			MonthlyPayment: 5000,
			StartDate:      "2024-01-01",
			EndDate:        "2024-01-01",
			Status:         models.ClientActive,
		}
		err := store.CreateClient(ctx, client, 50000)
		if !errors.Is(err, storage.ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}
		if got := capitalBalance(t, store, capital); got != 10000 {
			t.Errorf("balance changed on failed creation: %v", got)
		}
		clients, err := store.ListClients(ctx, []string{capital.ID})
		if err != nil {
			t.Fatalf("ListClients failed: %v", err)
		}
		if len(clients) != 0 {
			t.Errorf("expected no clients, got %d", len(clients))
		}
	})

	t.Run("unknown capital", func(t *testing.T) {
		client := &models.Client{
			CapitalID:      "missing",
			Name:           "Nobody",
			Product:        "Nothing",
			DebtAmount:     100,
			MonthlyPayment: 10,
			StartDate:      "2024-01-01",
			EndDate:        "2024-01-01",
			Status:         models.ClientActive,
		}
		if err := store.CreateClient(ctx, client, 100); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSetInstallmentStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	capital := newTestCapital(t, store, 100000)
	client := newTestClient(t, store, capital, 30000)

	t.Run("marking paid credits the balance", func(t *testing.T) {
		delta, err := store.SetInstallmentStatus(ctx, client.ID, "2024-02-01", models.PaymentPaid, "2024-02-03")
		if err != nil {
			t.Fatalf("SetInstallmentStatus failed: %v", err)
		}
		if delta != 10000 {
			t.Errorf("delta = %v, want 10000", delta)
		}
		if got := capitalBalance(t, store, capital); got != 80000 {
			t.Errorf("balance = %v, want 80000", got)
		}

		loaded, err := store.GetClient(ctx, client.ID, []string{capital.ID})
		if err != nil {
			t.Fatalf("GetClient failed: %v", err)
		}
		if loaded.Schedule[0].Status != models.PaymentPaid || loaded.Schedule[0].PaidDate != "2024-02-03" {
			t.Errorf("installment not updated: %+v", loaded.Schedule[0])
		}
	})

	t.Run("paid twice is a no-op", func(t *testing.T) {
		delta, err := store.SetInstallmentStatus(ctx, client.ID, "2024-02-01", models.PaymentPaid, "2024-02-04")
		if err != nil {
			t.Fatalf("SetInstallmentStatus failed: %v", err)
		}
		if delta != 0 {
			t.Errorf("delta on paid->paid = %v, want 0", delta)
		}
		if got := capitalBalance(t, store, capital); got != 80000 {
			t.Errorf("balance double-credited: %v", got)
		}
	})

	t.Run("reverting paid debits and clears paid date", func(t *testing.T) {
		delta, err := store.SetInstallmentStatus(ctx, client.ID, "2024-02-01", models.PaymentOverdue, "")
		if err != nil {
			t.Fatalf("SetInstallmentStatus failed: %v", err)
		}
		if delta != -10000 {
			t.Errorf("delta = %v, want -10000", delta)
		}
		if got := capitalBalance(t, store, capital); got != 70000 {
			t.Errorf("balance = %v, want 70000", got)
		}

		loaded, err := store.GetClient(ctx, client.ID, []string{capital.ID})
		if err != nil {
			t.Fatalf("GetClient failed: %v", err)
		}
		if loaded.Schedule[0].Status != models.PaymentOverdue || loaded.Schedule[0].PaidDate != "" {
			t.Errorf("installment not reverted: %+v", loaded.Schedule[0])
		}
	})

	t.Run("pending to overdue leaves balance alone", func(t *testing.T) {
		before := capitalBalance(t, store, capital)
		delta, err := store.SetInstallmentStatus(ctx, client.ID, "2024-03-01", models.PaymentOverdue, "")
		if err != nil {
			t.Fatalf("SetInstallmentStatus failed: %v", err)
		}
		if delta != 0 {
			t.Errorf("delta = %v, want 0", delta)
		}
		if got := capitalBalance(t, store, capital); got != before {
			t.Errorf("balance moved on pending->overdue: %v -> %v", before, got)
		}
	})

	t.Run("unknown due date", func(t *testing.T) {
		_, err := store.SetInstallmentStatus(ctx, client.ID, "2024-12-31", models.PaymentPaid, "2024-12-31")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	capital := newTestCapital(t, store, 50000)

	expense := &models.Expense{
		CapitalID:   capital.ID,
		Amount:      5000,
		Description: "Office rent",
		Category:    "rent",
		Date:        "2024-06-01",
	}

	t.Run("create debits", func(t *testing.T) {
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if got := capitalBalance(t, store, capital); got != 45000 {
			t.Errorf("balance = %v, want 45000", got)
		}
	})

	t.Run("create over balance fails clean", func(t *testing.T) {
		big := &models.Expense{CapitalID: capital.ID, Amount: 99999, Description: "too big", Category: "misc", Date: "2024-06-02"}
		if err := store.CreateExpense(ctx, big); !errors.Is(err, storage.ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}
		if got := capitalBalance(t, store, capital); got != 45000 {
			t.Errorf("balance changed on failed expense: %v", got)
		}
	})

	t.Run("update applies delta", func(t *testing.T) {
		expense.Amount = 7000
		if err := store.UpdateExpense(ctx, expense, 2000); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}
		if got := capitalBalance(t, store, capital); got != 43000 {
			t.Errorf("balance = %v, want 43000", got)
		}

		expense.Amount = 4000
		if err := store.UpdateExpense(ctx, expense, -3000); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}
		if got := capitalBalance(t, store, capital); got != 46000 {
			t.Errorf("balance = %v, want 46000", got)
		}
	})

	t.Run("delete refunds", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if got := capitalBalance(t, store, capital); got != 50000 {
			t.Errorf("balance = %v, want 50000", got)
		}
		if _, err := store.GetExpense(ctx, expense.ID, []string{capital.ID}); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestDeleteCapitalCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	capital := newTestCapital(t, store, 100000)
	client := newTestClient(t, store, capital, 30000)

	expense := &models.Expense{CapitalID: capital.ID, Amount: 1000, Description: "fuel", Category: "transport", Date: "2024-01-10"}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	payment := &models.Payment{ClientID: client.ID, CapitalID: capital.ID, Amount: 10000, PaymentDate: "2024-02-01"}
	if err := store.CreatePayment(ctx, payment); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}

	if err := store.DeleteCapital(ctx, capital.OwnerID, capital.ID); err != nil {
		t.Fatalf("DeleteCapital failed: %v", err)
	}

	for _, table := range []string{"clients", "installments", "expenses", "payments"} {
		var count int
		query := "SELECT COUNT(*) FROM " + table
		if err := store.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			t.Fatalf("count %s failed: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%s has %d residual rows after capital deletion", table, count)
		}
	}

	if err := store.DeleteCapital(ctx, capital.OwnerID, capital.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestLegacyTotalAmountMigration(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "nasiya-migrate-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)
	dbPath := filepath.Join(tempDir, "legacy.db")

	// First open creates the current schema; simulate an old database by
	// re-adding the legacy column with a stranded value.
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()
	capital := newTestCapital(t, store, 100000)
	client := newTestClient(t, store, capital, 30000)
	if _, err := store.db.Exec("ALTER TABLE clients ADD COLUMN total_amount REAL"); err != nil {
		t.Fatalf("failed to add legacy column: %v", err)
	}
	if _, err := store.db.Exec("UPDATE clients SET total_amount = 42000, debt_amount = 0"); err != nil {
		t.Fatalf("failed to write legacy value: %v", err)
	}
	store.Close()

	// Reopening runs the migration.
	store, err = New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer store.Close()

	loaded, err := store.GetClient(ctx, client.ID, []string{capital.ID})
	if err != nil {
		t.Fatalf("GetClient failed: %v", err)
	}
	if loaded.DebtAmount != 42000 {
		t.Errorf("debt amount after migration = %v, want 42000", loaded.DebtAmount)
	}

	var count int
	err = store.db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('clients') WHERE name = 'total_amount'").Scan(&count)
	if err != nil {
		t.Fatalf("failed to inspect schema: %v", err)
	}
	if count != 0 {
		t.Error("legacy total_amount column survived the migration")
	}
}
