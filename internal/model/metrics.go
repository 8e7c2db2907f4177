package model

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Window is a reporting window. Start is 00:00:00 of the first day and End is
// 23:59:59 of the last day, both in the reporting timezone.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StartDate returns the first calendar day of the window.
func (w Window) StartDate() civil.Date { return civil.DateOf(w.Start) }

// EndDate returns the last calendar day of the window.
func (w Window) EndDate() civil.Date { return civil.DateOf(w.End) }

// Contains reports whether d falls inside the window.
func (w Window) Contains(d civil.Date) bool {
	return !d.Before(w.StartDate()) && !d.After(w.EndDate())
}

// Months lists every calendar month the window touches, oldest first.
func (w Window) Months() []MonthKey {
	start, end := w.StartDate(), w.EndDate()
	if end.Before(start) {
		return nil
	}
	var months []MonthKey
	y, m := start.Year, start.Month
	for y < end.Year || (y == end.Year && m <= end.Month) {
		months = append(months, MonthKeyOf(civil.Date{Year: y, Month: m, Day: 1}))
		m++
		if m > time.December {
			m = time.January
			y++
		}
	}
	return months
}

// Days lists every calendar day in the window, oldest first.
func (w Window) Days() []civil.Date {
	start, end := w.StartDate(), w.EndDate()
	if end.Before(start) {
		return nil
	}
	days := make([]civil.Date, 0, end.DaysSince(start)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// KindTotals holds summed amounts per transaction kind.
type KindTotals struct {
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Investment decimal.Decimal `json:"investment"`
}

// Savings is income minus everything spent or invested. Negative means overspending.
func (t KindTotals) Savings() decimal.Decimal {
	return t.Income.Sub(t.Expense.Add(t.Investment))
}

// LabelAmount is one named bucket of a breakdown or ranking.
type LabelAmount struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthBucket holds per-kind sums for one calendar month.
type MonthBucket struct {
	Month      MonthKey        `json:"month"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Investment decimal.Decimal `json:"investment"`
}

// DayBucket holds expense activity for one calendar day.
type DayBucket struct {
	Date  civil.Date      `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
	Level int             `json:"level"`
}

// Dashboard gathers every derived metric for one reporting window.
type Dashboard struct {
	Window           Window          `json:"window"`
	Totals           KindTotals      `json:"totals"`
	Savings          decimal.Decimal `json:"savings"`
	BreakdownKind    Kind            `json:"breakdown_kind"`
	Breakdown        []LabelAmount   `json:"breakdown"`
	Ranking          []LabelAmount   `json:"ranking"`
	TopExpenses      []Transaction   `json:"top_expenses"`
	Monthly          []MonthBucket   `json:"monthly"`
	Budget           BudgetStatus    `json:"budget"`
	TransactionCount int             `json:"transaction_count"`
	Stale            bool            `json:"stale"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// DashboardQuery holds the explicit inputs of a dashboard computation.
type DashboardQuery struct {
	Range         RangeSpec
	Search        string
	Tags          []string
	BreakdownKind Kind
	TopN          int
	RankK         int
}

// HeatmapQuery holds the explicit inputs of a heatmap computation.
type HeatmapQuery struct {
	Range  RangeSpec
	Search string
	Tags   []string
}

// Heatmap is the daily expense intensity over a window.
type Heatmap struct {
	Window      Window          `json:"window"`
	Max         decimal.Decimal `json:"max"`
	Days        []DayBucket     `json:"days"`
	Stale       bool            `json:"stale"`
	GeneratedAt time.Time       `json:"generated_at"`
}
