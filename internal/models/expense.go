package models

// Expense is money spent out of a capital. Creating one debits the capital's
// balance, editing it applies the amount delta, deleting it refunds in full.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// CapitalID is the capital the expense was paid from.
	CapitalID string `json:"capital_id"`

	// Amount is the expense amount in currency units.
	Amount float64 `json:"amount"`

	// Description says what the money was spent on.
	Description string `json:"description"`

	// Category is a free-form grouping label (e.g., "rent", "transport").
	Category string `json:"category"`

	// Date is when the expense occurred ("YYYY-MM-DD").
	Date string `json:"date"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"created_at"`
}
