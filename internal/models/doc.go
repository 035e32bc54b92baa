// Package models defines the core domain records for the installment CRM.
//
// # Entities
//
//   - User: account that owns one or more capitals
//   - Capital: a pool of lendable money with a cash balance
//   - Client: a debtor paying off a product purchase month by month
//   - Installment: one scheduled monthly payment inside a client's plan
//   - Expense: money spent out of a capital
//   - Payment: append-only log of received payments (audit trail only)
//
// # Ownership
//
// A capital belongs to exactly one user. Clients, their installment
// schedules, expenses and payment log rows belong to exactly one capital and
// are removed when the capital is deleted.
//
// # Dates
//
// All business dates (start/end/due/paid/expense dates) are canonical
// "YYYY-MM-DD" strings, the same format the HTTP API and the database use.
// Record timestamps (created/updated) are Unix seconds.
package models
