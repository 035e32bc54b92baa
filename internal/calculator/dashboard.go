package calculator

import (
	"time"

	"github.com/bekzodm/nasiya/internal/models"
)

// DueEntry pairs an installment with the client it belongs to, for dashboard
// rendering.
type DueEntry struct {
	Client      *models.Client     `json:"client"`
	Installment models.Installment `json:"payment"`
}

// DashboardData is the classified view of all upcoming obligations plus the
// unfiltered client list for client-side rendering.
type DashboardData struct {
	Today      []DueEntry       `json:"today"`
	Tomorrow   []DueEntry       `json:"tomorrow"`
	Overdue    []DueEntry       `json:"overdue"`
	AllClients []*models.Client `json:"all_clients"`
}

// ClassifyDue buckets every pending-like installment across the given clients
// relative to today:
//
//   - overdue: status already overdue, or pending with a due date before today
//   - today: pending, due exactly today
//   - tomorrow: pending, due exactly tomorrow
//
// The overdue check wins when predicates overlap. Paid installments and
// pending ones due later than tomorrow land in no bucket. Installments with
// unparsable due dates are skipped so one bad record cannot sink the whole
// dashboard.
func ClassifyDue(clients []*models.Client, today time.Time) DashboardData {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := day.AddDate(0, 0, 1)

	data := DashboardData{AllClients: clients}
	for _, client := range clients {
		for _, inst := range client.Schedule {
			if inst.Status == models.PaymentPaid {
				continue
			}

			due, err := time.Parse(DateLayout, inst.DueDate)
			if err != nil {
				continue
			}

			entry := DueEntry{Client: client, Installment: inst}
			switch {
			case inst.Status == models.PaymentOverdue || due.Before(day):
				data.Overdue = append(data.Overdue, entry)
			case due.Equal(day):
				data.Today = append(data.Today, entry)
			case due.Equal(tomorrow):
				data.Tomorrow = append(data.Tomorrow, entry)
			}
		}
	}
	return data
}
