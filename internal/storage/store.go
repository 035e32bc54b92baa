// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/bekzodm/nasiya/internal/models"
)

// Sentinel errors returned by Store implementations. The service layer maps
// them onto the API error taxonomy.
var (
	// ErrNotFound means the referenced record does not exist (or is not
	// visible within the given ownership scope).
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientFunds means a guarded debit would have taken the
	// capital's balance below zero and was refused.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Store defines the persistence operations of the CRM.
//
// Balance discipline: every method that moves money applies the balance
// change and the triggering record write in one transaction, and debits are
// guarded updates ("balance = balance - x WHERE balance >= x") so a
// concurrent writer can never push a balance negative. There is no
// read-modify-write of balances anywhere in the interface.
type Store interface {
	// CreateUser inserts a new user account.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns the user with the given email, or nil if none.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns the user with the given ID, or nil if none.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateCapital persists a new capital. ID and CreatedAt are generated
	// when unset.
	CreateCapital(ctx context.Context, capital *models.Capital) error
	// ListCapitals returns the owner's active capitals, oldest first.
	ListCapitals(ctx context.Context, ownerID string) ([]*models.Capital, error)
	// GetCapital returns the owner's capital or ErrNotFound.
	GetCapital(ctx context.Context, ownerID, capitalID string) (*models.Capital, error)
	// UpdateCapital overwrites name, description, balance and active flag.
	UpdateCapital(ctx context.Context, capital *models.Capital) error
	// DeleteCapital removes the capital and cascades to its clients,
	// installments, expenses and payment log rows.
	DeleteCapital(ctx context.Context, ownerID, capitalID string) error

	// CreateClient debits the capital by the given amount and inserts the
	// client with its schedule, all in one transaction. Returns
	// ErrInsufficientFunds when the debit exceeds the balance.
	CreateClient(ctx context.Context, client *models.Client, debit float64) error
	// ListClients returns all clients of the given capitals with their
	// schedules loaded, newest first.
	ListClients(ctx context.Context, capitalIDs []string) ([]*models.Client, error)
	// GetClient returns the client if it belongs to one of the given
	// capitals, or ErrNotFound.
	GetClient(ctx context.Context, clientID string, capitalIDs []string) (*models.Client, error)
	// UpdateClient overwrites the client's editable fields. The schedule and
	// the capital balance are not touched.
	UpdateClient(ctx context.Context, client *models.Client) error
	// DeleteClient removes the client, its installments and payment rows.
	DeleteClient(ctx context.Context, clientID string) error

	// SetInstallmentStatus transitions the installment identified by client
	// and due date, adjusting the capital balance by the transition's delta
	// in the same transaction. PaidDate is set when entering "paid" and
	// cleared otherwise. Returns the applied balance delta.
	SetInstallmentStatus(ctx context.Context, clientID, dueDate string, status models.PaymentStatus, paidDate string) (float64, error)

	// CreatePayment appends a payment log row.
	CreatePayment(ctx context.Context, payment *models.Payment) error
	// ListPayments returns the payment log of the given capitals, newest
	// first.
	ListPayments(ctx context.Context, capitalIDs []string) ([]*models.Payment, error)

	// CreateExpense debits the capital by the expense amount and inserts the
	// expense in one transaction.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	// ListExpenses returns all expenses of the given capitals, newest first.
	ListExpenses(ctx context.Context, capitalIDs []string) ([]*models.Expense, error)
	// GetExpense returns the expense if it belongs to one of the given
	// capitals, or ErrNotFound.
	GetExpense(ctx context.Context, expenseID string, capitalIDs []string) (*models.Expense, error)
	// UpdateExpense overwrites the expense and applies the given balance
	// delta (positive delta = further debit, guarded; negative = refund).
	UpdateExpense(ctx context.Context, expense *models.Expense, delta float64) error
	// DeleteExpense removes the expense and refunds its amount.
	DeleteExpense(ctx context.Context, expenseID string) error

	// Close releases any resources held by the store.
	Close() error
}
