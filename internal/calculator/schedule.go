// Package calculator contains the pure finance logic of the CRM: payment
// schedule generation, due-date classification for the dashboard, and
// per-capital analytics. Nothing here touches storage or logs.
package calculator

import (
	"fmt"
	"time"

	"github.com/bekzodm/nasiya/internal/models"
)

// DateLayout is the canonical date format used everywhere: storage, API and
// schedule arithmetic.
const DateLayout = "2006-01-02"

// GenerateSchedule produces the installment plan for a purchase: months
// installments of monthlyPayment each, due one calendar month apart starting
// one month after startDate. All installments come out pending with no paid
// date.
//
// Each due date is the start date advanced by k months (k = 1..months), so
// the day of month is preserved across year boundaries. When the destination
// month is shorter the date normalizes forward (Jan 31 + 1 month = Mar 2 or
// Mar 3), which is the documented rollover behavior.
//
// The function is pure: identical inputs always yield identical schedules.
func GenerateSchedule(startDate string, monthlyPayment float64, months int) ([]models.Installment, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	if monthlyPayment <= 0 {
		return nil, fmt.Errorf("monthly payment must be positive, got %v", monthlyPayment)
	}
	if months < 0 {
		return nil, fmt.Errorf("months must not be negative, got %d", months)
	}

	schedule := make([]models.Installment, 0, months)
	for k := 1; k <= months; k++ {
		due := time.Date(start.Year(), start.Month()+time.Month(k), start.Day(), 0, 0, 0, 0, time.UTC)
		schedule = append(schedule, models.Installment{
			DueDate: due.Format(DateLayout),
			Amount:  monthlyPayment,
			Status:  models.PaymentPending,
		})
	}
	return schedule, nil
}

// EndDate returns the due date of the last installment, or startDate when the
// schedule is empty.
func EndDate(startDate string, schedule []models.Installment) string {
	if len(schedule) == 0 {
		return startDate
	}
	return schedule[len(schedule)-1].DueDate
}

// BalanceDelta returns the capital balance adjustment for an installment
// status transition: entering "paid" credits the amount, leaving it debits
// the amount back, everything else (including paid -> paid) is neutral.
func BalanceDelta(prev, next models.PaymentStatus, amount float64) float64 {
	switch {
	case prev != models.PaymentPaid && next == models.PaymentPaid:
		return amount
	case prev == models.PaymentPaid && next != models.PaymentPaid:
		return -amount
	default:
		return 0
	}
}
