// Package service implements the business operations of the CRM on top of a
// storage.Store: capital, client, expense and payment management, the
// payment-schedule and balance rules, and the dashboard/analytics reads.
package service

import "errors"

// The error taxonomy every operation resolves to. The HTTP layer maps these
// onto status codes; the services themselves never write responses.
var (
	// ErrNotFound: the referenced capital/client/installment/expense does not
	// exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied: the caller referenced an id outside their ownership
	// scope.
	ErrAccessDenied = errors.New("access denied")

	// ErrInsufficientFunds: the requested debit exceeds the capital's
	// balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidInput: a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStatus: the payment status value is not one of
	// pending/paid/overdue.
	ErrInvalidStatus = errors.New("invalid payment status")
)
