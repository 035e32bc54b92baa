package calculator

import (
	"testing"
	"time"

	"github.com/bekzodm/nasiya/internal/models"
)

func testClient(schedule []models.Installment) *models.Client {
	return &models.Client{
		ID:        "c1",
		CapitalID: "cap1",
		Name:      "Ivan Petrov",
		Schedule:  schedule,
		Status:    models.ClientActive,
	}
}

func TestClassifyDue_Buckets(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	client := testClient([]models.Installment{
		{DueDate: "2024-06-14", Amount: 1000, Status: models.PaymentPending},
		{DueDate: "2024-06-15", Amount: 1000, Status: models.PaymentPending},
		{DueDate: "2024-06-16", Amount: 1000, Status: models.PaymentPending},
		{DueDate: "2024-06-20", Amount: 1000, Status: models.PaymentPending},
	})

	data := ClassifyDue([]*models.Client{client}, today)

	if len(data.Overdue) != 1 || data.Overdue[0].Installment.DueDate != "2024-06-14" {
		t.Errorf("overdue bucket = %+v, want the 2024-06-14 installment", data.Overdue)
	}
	if len(data.Today) != 1 || data.Today[0].Installment.DueDate != "2024-06-15" {
		t.Errorf("today bucket = %+v, want the 2024-06-15 installment", data.Today)
	}
	if len(data.Tomorrow) != 1 || data.Tomorrow[0].Installment.DueDate != "2024-06-16" {
		t.Errorf("tomorrow bucket = %+v, want the 2024-06-16 installment", data.Tomorrow)
	}
	if len(data.AllClients) != 1 {
		t.Errorf("expected full client list, got %d clients", len(data.AllClients))
	}
}

func TestClassifyDue_StatusOverdueAlwaysOverdue(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	client := testClient([]models.Installment{
		// Due date in the future but already flagged overdue.
		{DueDate: "2024-07-15", Amount: 1000, Status: models.PaymentOverdue},
	})

	data := ClassifyDue([]*models.Client{client}, today)
	if len(data.Overdue) != 1 {
		t.Fatalf("expected 1 overdue entry, got %d", len(data.Overdue))
	}
	if len(data.Today) != 0 || len(data.Tomorrow) != 0 {
		t.Error("overdue-status installment leaked into another bucket")
	}
}

func TestClassifyDue_PaidAndMalformedSkipped(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	client := testClient([]models.Installment{
		{DueDate: "2024-06-15", Amount: 1000, Status: models.PaymentPaid, PaidDate: "2024-06-15"},
		{DueDate: "not-a-date", Amount: 1000, Status: models.PaymentPending},
		{DueDate: "2024-06-15", Amount: 2000, Status: models.PaymentPending},
	})

	data := ClassifyDue([]*models.Client{client}, today)
	if len(data.Overdue) != 0 {
		t.Errorf("expected empty overdue bucket, got %d entries", len(data.Overdue))
	}
	if len(data.Today) != 1 || data.Today[0].Installment.Amount != 2000 {
		t.Errorf("today bucket = %+v, want only the pending 2000 installment", data.Today)
	}
}
