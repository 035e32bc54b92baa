package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validator "github.com/avrebarra/minivalidator"

	"github.com/bekzodm/nasiya/internal/calculator"
	"github.com/bekzodm/nasiya/internal/models"
	"github.com/bekzodm/nasiya/internal/money"
	"github.com/bekzodm/nasiya/internal/storage"
)

// CreateClientRequest is the payload for registering a purchase. The legacy
// total_amount field is still accepted and folded into debt_amount once,
// right here at the boundary; nothing past this struct ever sees it.
type CreateClientRequest struct {
	CapitalID      string  `json:"capital_id" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	Product        string  `json:"product" validate:"required"`
	DebtAmount     float64 `json:"debt_amount"`
	TotalAmount    float64 `json:"total_amount"` // legacy alias for debt_amount
	PurchaseAmount float64 `json:"purchase_amount"`
	MonthlyPayment float64 `json:"monthly_payment" validate:"required"`
	StartDate      string  `json:"start_date" validate:"required"`
	Months         int     `json:"months" validate:"required"`
	GuarantorName  string  `json:"guarantor_name"`
	GuarantorPhone string  `json:"guarantor_phone"`
}

// UpdateClientRequest is a partial update of a client's editable fields.
// Schedules and balances are not editable this way.
type UpdateClientRequest struct {
	Name           *string  `json:"name"`
	Product        *string  `json:"product"`
	DebtAmount     *float64 `json:"debt_amount"`
	PurchaseAmount *float64 `json:"purchase_amount"`
	MonthlyPayment *float64 `json:"monthly_payment"`
	GuarantorName  *string  `json:"guarantor_name"`
	GuarantorPhone *string  `json:"guarantor_phone"`
	Status         *string  `json:"status"`
}

// PaymentStatusRequest identifies one installment by due date and sets its
// status.
type PaymentStatusRequest struct {
	PaymentDate string `json:"payment_date" validate:"required"`
	Status      string `json:"status" validate:"required"`
}

// PaymentStatusResult reports the balance movement caused by a status change.
type PaymentStatusResult struct {
	BalanceDelta float64 `json:"balance_delta"`
}

// RecordPaymentRequest logs a received payment and marks the matching
// installment paid.
type RecordPaymentRequest struct {
	ClientID    string  `json:"client_id" validate:"required"`
	Amount      float64 `json:"amount" validate:"required"`
	PaymentDate string  `json:"payment_date" validate:"required"`
}

// ClientService manages clients, their installment schedules and the balance
// effects of payments.
type ClientService struct {
	store storage.Store

	// now is the clock used for paid dates; replaceable in tests.
	now func() time.Time
}

// NewClientService creates a new ClientService with the given storage backend.
func NewClientService(store storage.Store) *ClientService {
	return &ClientService{store: store, now: time.Now}
}

// Create registers a purchase: verifies capital ownership, generates the
// monthly schedule, and persists the client while debiting the capital by the
// purchase amount (falling back to the debt amount). The debit and the insert
// happen in one transaction, so a failed debit persists nothing.
func (s *ClientService) Create(ctx context.Context, ownerID string, req CreateClientRequest) (*models.Client, error) {
	if req.DebtAmount == 0 && req.TotalAmount > 0 {
		req.DebtAmount = req.TotalAmount
	}
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.DebtAmount <= 0 {
		return nil, fmt.Errorf("%w: debt_amount is required", ErrInvalidInput)
	}
	if req.Months <= 0 {
		return nil, fmt.Errorf("%w: months must be positive", ErrInvalidInput)
	}

	if _, err := s.store.GetCapital(ctx, ownerID, req.CapitalID); err != nil {
		return nil, mapStoreErr(err)
	}

	schedule, err := calculator.GenerateSchedule(req.StartDate, req.MonthlyPayment, req.Months)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	client := &models.Client{
		CapitalID:      req.CapitalID,
		Name:           req.Name,
		Product:        req.Product,
		DebtAmount:     req.DebtAmount,
		PurchaseAmount: req.PurchaseAmount,
		MonthlyPayment: req.MonthlyPayment,
		GuarantorName:  req.GuarantorName,
		GuarantorPhone: req.GuarantorPhone,
		StartDate:      req.StartDate,
		EndDate:        calculator.EndDate(req.StartDate, schedule),
		Schedule:       schedule,
		Status:         models.ClientActive,
	}

	if err := s.store.CreateClient(ctx, client, client.EffectiveAmount()); err != nil {
		slog.Warn("CreateClient failed", "capital_id", req.CapitalID, "error", err)
		return nil, mapStoreErr(err)
	}

	slog.Info("Client created",
		"client_id", client.ID,
		"capital_id", client.CapitalID,
		"debt_amount", client.DebtAmount,
		"months", req.Months,
	)
	return client, nil
}

// List returns the owner's clients, optionally narrowed to one capital.
func (s *ClientService) List(ctx context.Context, ownerID, capitalID string) ([]*models.Client, error) {
	ids, err := ownedCapitalIDs(ctx, s.store, ownerID)
	if err != nil {
		return nil, err
	}
	ids, err = scopeToCapital(ids, capitalID)
	if err != nil {
		return nil, err
	}
	return s.store.ListClients(ctx, ids)
}

// Get returns one client within the owner's scope.
func (s *ClientService) Get(ctx context.Context, ownerID, clientID string) (*models.Client, error) {
	ids, err := ownedCapitalIDs(ctx, s.store, ownerID)
	if err != nil {
		return nil, err
	}
	client, err := s.store.GetClient(ctx, clientID, ids)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return client, nil
}

// Update applies a partial update to the client. Editing amounts here never
// moves the capital balance; the disbursement happened at creation time.
func (s *ClientService) Update(ctx context.Context, ownerID, clientID string, req UpdateClientRequest) (*models.Client, error) {
	client, err := s.Get(ctx, ownerID, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Product != nil {
		client.Product = *req.Product
	}
	if req.DebtAmount != nil {
		client.DebtAmount = *req.DebtAmount
	}
	if req.PurchaseAmount != nil {
		client.PurchaseAmount = *req.PurchaseAmount
	}
	if req.MonthlyPayment != nil {
		client.MonthlyPayment = *req.MonthlyPayment
	}
	if req.GuarantorName != nil {
		client.GuarantorName = *req.GuarantorName
	}
	if req.GuarantorPhone != nil {
		client.GuarantorPhone = *req.GuarantorPhone
	}
	if req.Status != nil {
		status := models.ClientStatus(*req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown client status %q", ErrInvalidInput, *req.Status)
		}
		client.Status = status
	}

	if err := s.store.UpdateClient(ctx, client); err != nil {
		return nil, mapStoreErr(err)
	}
	return client, nil
}

// Delete removes the client with its installments and payment log rows.
func (s *ClientService) Delete(ctx context.Context, ownerID, clientID string) error {
	// Ownership check first; the delete itself is by bare id.
	if _, err := s.Get(ctx, ownerID, clientID); err != nil {
		return err
	}
	if err := s.store.DeleteClient(ctx, clientID); err != nil {
		return mapStoreErr(err)
	}
	slog.Info("Client deleted", "client_id", clientID)
	return nil
}

// UpdatePaymentStatus transitions the installment identified by due date.
// Entering "paid" credits the capital and stamps today as the paid date;
// leaving "paid" debits the credit back and clears it; transitions between
// non-paid statuses move no money. Setting the same status twice is a no-op.
func (s *ClientService) UpdatePaymentStatus(ctx context.Context, ownerID, clientID string, req PaymentStatusRequest) (*PaymentStatusResult, error) {
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	status := models.PaymentStatus(req.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	ids, err := ownedCapitalIDs(ctx, s.store, ownerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetClient(ctx, clientID, ids); err != nil {
		return nil, mapStoreErr(err)
	}

	paidDate := s.now().Format(calculator.DateLayout)
	delta, err := s.store.SetInstallmentStatus(ctx, clientID, req.PaymentDate, status, paidDate)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	slog.Info("Payment status updated",
		"client_id", clientID,
		"payment_date", req.PaymentDate,
		"status", status,
		"balance_delta", delta,
	)
	return &PaymentStatusResult{BalanceDelta: delta}, nil
}

// RecordPayment logs a received payment and, when a pending installment with
// the same due date and amount exists, marks it paid. The log row is audit
// only; the balance credit comes from the installment transition.
func (s *ClientService) RecordPayment(ctx context.Context, ownerID string, req RecordPaymentRequest) (*models.Payment, error) {
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ids, err := ownedCapitalIDs(ctx, s.store, ownerID)
	if err != nil {
		return nil, err
	}
	client, err := s.store.GetClient(ctx, req.ClientID, ids)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	for _, inst := range client.Schedule {
		if inst.DueDate == req.PaymentDate &&
			inst.Status == models.PaymentPending &&
			!money.Changed(inst.Amount, req.Amount) {
			if _, err := s.store.SetInstallmentStatus(ctx, client.ID, inst.DueDate, models.PaymentPaid, req.PaymentDate); err != nil {
				return nil, mapStoreErr(err)
			}
			break
		}
	}

	payment := &models.Payment{
		ClientID:    client.ID,
		CapitalID:   client.CapitalID,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	slog.Info("Payment recorded", "client_id", client.ID, "amount", req.Amount)
	return payment, nil
}

// ListPayments returns the owner's payment log, optionally narrowed to one
// capital.
func (s *ClientService) ListPayments(ctx context.Context, ownerID, capitalID string) ([]*models.Payment, error) {
	ids, err := ownedCapitalIDs(ctx, s.store, ownerID)
	if err != nil {
		return nil, err
	}
	ids, err = scopeToCapital(ids, capitalID)
	if err != nil {
		return nil, err
	}
	return s.store.ListPayments(ctx, ids)
}
