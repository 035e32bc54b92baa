package models

// ClientStatus is the manual lifecycle status of a client.
// It is stored and editable but never transitioned automatically.
type ClientStatus string

const (
	ClientActive    ClientStatus = "active"
	ClientOverdue   ClientStatus = "overdue"
	ClientCompleted ClientStatus = "completed"
	ClientArchived  ClientStatus = "archived"
)

// Valid reports whether s is one of the known client statuses.
func (s ClientStatus) Valid() bool {
	switch s {
	case ClientActive, ClientOverdue, ClientCompleted, ClientArchived:
		return true
	}
	return false
}

// PaymentStatus is the status of a single installment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

// Valid reports whether s is one of the known installment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue:
		return true
	}
	return false
}

// Installment is one scheduled monthly payment inside a client's plan.
// Exactly one installment exists per (client, due date) pair.
type Installment struct {
	// DueDate is the scheduled payment date ("YYYY-MM-DD").
	DueDate string `json:"payment_date"`

	// Amount is the payment amount in currency units.
	Amount float64 `json:"amount"`

	// Status is pending, paid or overdue.
	Status PaymentStatus `json:"status"`

	// PaidDate is set when the installment enters "paid" and cleared when it
	// leaves it ("YYYY-MM-DD", empty otherwise).
	PaidDate string `json:"paid_date,omitempty"`
}

// Client is a debtor purchasing a product on an installment plan.
type Client struct {
	// ID is the unique identifier for the client (UUID format).
	ID string `json:"client_id"`

	// CapitalID is the capital the purchase was financed from.
	CapitalID string `json:"capital_id"`

	// Name is the client's display name.
	Name string `json:"name"`

	// Product describes what was purchased.
	Product string `json:"product"`

	// DebtAmount is the total amount the client owes, including any markup.
	// This is the single canonical debt field; the legacy "total_amount"
	// wire field is converted into it at the API boundary.
	DebtAmount float64 `json:"debt_amount"`

	// PurchaseAmount is the cost of goods, i.e. what was actually disbursed
	// from the capital. Zero means unknown, in which case DebtAmount is used
	// for the disbursement.
	PurchaseAmount float64 `json:"purchase_amount,omitempty"`

	// MonthlyPayment is the amount of each scheduled installment.
	MonthlyPayment float64 `json:"monthly_payment"`

	// GuarantorName and GuarantorPhone are optional contact metadata.
	GuarantorName  string `json:"guarantor_name,omitempty"`
	GuarantorPhone string `json:"guarantor_phone,omitempty"`

	// StartDate is the purchase date ("YYYY-MM-DD"). Installments start one
	// month after it.
	StartDate string `json:"start_date"`

	// EndDate is the due date of the last installment, or StartDate when the
	// schedule is empty.
	EndDate string `json:"end_date"`

	// Schedule is the ordered installment plan, earliest due date first.
	Schedule []Installment `json:"schedule"`

	// Status is the manual lifecycle status.
	Status ClientStatus `json:"status"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// EffectiveAmount is the amount disbursed from the capital when the client is
// created: the purchase amount when known, otherwise the debt amount.
func (c *Client) EffectiveAmount() float64 {
	if c.PurchaseAmount > 0 {
		return c.PurchaseAmount
	}
	return c.DebtAmount
}
