package models

// Payment is an immutable log entry of a received payment. It is an audit
// trail only: balance and analytics correctness never depend on these rows,
// the paid installments themselves are the source of truth.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"payment_id"`

	// ClientID is the client the payment was received from.
	ClientID string `json:"client_id"`

	// CapitalID is the capital the payment flowed into.
	CapitalID string `json:"capital_id"`

	// Amount is the received amount in currency units.
	Amount float64 `json:"amount"`

	// PaymentDate is the installment due date the payment covers ("YYYY-MM-DD").
	PaymentDate string `json:"payment_date"`

	// CreatedAt is the Unix timestamp when the payment was logged.
	CreatedAt int64 `json:"created_at"`
}
