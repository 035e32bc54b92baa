package models

// Capital represents a pool of lendable money owned by one user.
// Its balance is debited when clients are created or expenses recorded,
// and credited when installments are paid or expenses removed.
type Capital struct {
	// ID is the unique identifier for the capital (UUID format).
	ID string `json:"id"`

	// OwnerID is the user who owns this capital. Every query is scoped to it.
	OwnerID string `json:"owner_id"`

	// Name is the display name (e.g., "Main fund").
	Name string `json:"name"`

	// Description is an optional free-form note.
	Description string `json:"description,omitempty"`

	// Balance is the available, un-lent cash in currency units.
	Balance float64 `json:"balance"`

	// IsActive marks whether the capital is shown in listings.
	IsActive bool `json:"is_active"`

	// CreatedAt is the Unix timestamp when the capital was created.
	CreatedAt int64 `json:"created_at"`
}
