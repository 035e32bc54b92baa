package calculator

import (
	"sort"
	"time"

	"github.com/bekzodm/nasiya/internal/models"
	"github.com/bekzodm/nasiya/internal/money"
)

// MonthlyProfit is one month's collected payments, expenses and their
// difference. Month is formatted "YYYY-MM".
type MonthlyProfit struct {
	Month     string  `json:"month"`
	Collected float64 `json:"collected"`
	Expenses  float64 `json:"expenses"`
	Profit    float64 `json:"profit"`
}

// CapitalAnalytics holds the aggregate figures for one capital.
type CapitalAnalytics struct {
	TotalDebt       float64         `json:"total_debt"`
	TotalPaid       float64         `json:"total_paid"`
	Outstanding     float64         `json:"outstanding"`
	ActiveClients   int             `json:"active_clients"`
	TotalClients    int             `json:"total_clients"`
	OverduePayments int             `json:"overdue_payments"`
	CollectionRate  float64         `json:"collection_rate"`
	TotalExpenses   float64         `json:"total_expenses"`
	Balance         float64         `json:"balance"`
	Profit          float64         `json:"profit"`
	MonthlyProfit   []MonthlyProfit `json:"monthly_profit"`
}

// Analyze computes the aggregate figures for one capital from its clients and
// expenses. Total paid is summed from paid installments, not from the payment
// audit log, so a missing log row never skews the numbers. Collection rate is
// the percentage of total debt collected so far.
func Analyze(capital *models.Capital, clients []*models.Client, expenses []*models.Expense, today time.Time) CapitalAnalytics {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	a := CapitalAnalytics{
		TotalClients: len(clients),
		Balance:      capital.Balance,
	}
	byMonth := make(map[string]*MonthlyProfit)
	monthOf := func(date string) (string, bool) {
		d, err := time.Parse(DateLayout, date)
		if err != nil {
			return "", false
		}
		return d.Format("2006-01"), true
	}
	bucket := func(month string) *MonthlyProfit {
		mp, ok := byMonth[month]
		if !ok {
			mp = &MonthlyProfit{Month: month}
			byMonth[month] = mp
		}
		return mp
	}

	for _, client := range clients {
		a.TotalDebt = money.Add(a.TotalDebt, client.DebtAmount)
		if client.Status == models.ClientActive {
			a.ActiveClients++
		}

		for _, inst := range client.Schedule {
			switch inst.Status {
			case models.PaymentPaid:
				a.TotalPaid = money.Add(a.TotalPaid, inst.Amount)
				if month, ok := monthOf(inst.PaidDate); ok {
					mp := bucket(month)
					mp.Collected = money.Add(mp.Collected, inst.Amount)
				}
			case models.PaymentPending:
				if due, err := time.Parse(DateLayout, inst.DueDate); err == nil && due.Before(day) {
					a.OverduePayments++
				}
			case models.PaymentOverdue:
				a.OverduePayments++
			}
		}
	}

	for _, exp := range expenses {
		a.TotalExpenses = money.Add(a.TotalExpenses, exp.Amount)
		if month, ok := monthOf(exp.Date); ok {
			mp := bucket(month)
			mp.Expenses = money.Add(mp.Expenses, exp.Amount)
		}
	}

	a.Outstanding = money.Delta(a.TotalPaid, a.TotalDebt)
	a.Profit = money.Delta(a.TotalExpenses, a.TotalPaid)
	if a.TotalDebt > 0 {
		a.CollectionRate = money.Round2(a.TotalPaid / a.TotalDebt * 100)
	}

	a.MonthlyProfit = make([]MonthlyProfit, 0, len(byMonth))
	for _, mp := range byMonth {
		mp.Profit = money.Delta(mp.Expenses, mp.Collected)
		a.MonthlyProfit = append(a.MonthlyProfit, *mp)
	}
	sort.Slice(a.MonthlyProfit, func(i, j int) bool {
		return a.MonthlyProfit[i].Month < a.MonthlyProfit[j].Month
	})
	return a
}
