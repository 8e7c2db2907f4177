package model

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthKey identifies a calendar month as "YYYY-MM".
type MonthKey string

const monthKeyLayout = "2006-01"

// ParseMonthKey validates s and returns it as a MonthKey.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse(monthKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: month must be formatted as YYYY-MM, got %q", ErrInvalidArgument, s)
	}
	return MonthKey(t.Format(monthKeyLayout)), nil
}

// MonthKeyOf returns the month containing d.
func MonthKeyOf(d civil.Date) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", d.Year, int(d.Month)))
}

// FirstDay returns the first calendar day of the month.
func (m MonthKey) FirstDay() civil.Date {
	t, _ := time.Parse(monthKeyLayout, string(m))
	return civil.Date{Year: t.Year(), Month: t.Month(), Day: 1}
}

// LastDay returns the last calendar day of the month.
func (m MonthKey) LastDay() civil.Date {
	first := m.FirstDay()
	next := civil.Date{Year: first.Year, Month: first.Month + 1, Day: 1}
	if first.Month == time.December {
		next = civil.Date{Year: first.Year + 1, Month: time.January, Day: 1}
	}
	return next.AddDays(-1)
}

func (m MonthKey) String() string { return string(m) }

// Budget is a monthly spending ceiling. At most one exists per (UserID, Month).
type Budget struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Month     MonthKey        `json:"month"`
	Limit     decimal.Decimal `json:"limit"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SaveBudgetRequest is the body of a budget upsert.
type SaveBudgetRequest struct {
	Limit decimal.Decimal `json:"limit"`
}

// BudgetState classifies utilization of a month's budget.
type BudgetState string

const (
	BudgetStateNone       BudgetState = "no_budget"
	BudgetStateOK         BudgetState = "ok"
	BudgetStateNearLimit  BudgetState = "near_limit"
	BudgetStateOverBudget BudgetState = "over_budget"
)

// BudgetStatus is the evaluated state of a month's budget.
// Limit, Percentage and Remaining are nil when no budget exists for the month.
type BudgetStatus struct {
	Month           MonthKey         `json:"month"`
	State           BudgetState      `json:"state"`
	Limit           *decimal.Decimal `json:"limit"`
	CurrentExpenses decimal.Decimal  `json:"current_expenses"`
	Percentage      *decimal.Decimal `json:"percentage"`
	Remaining       *decimal.Decimal `json:"remaining_budget"`
	IsNearLimit     bool             `json:"is_near_limit"`
	IsOverBudget    bool             `json:"is_over_budget"`
}

// HasBudget reports whether a budget was set for the month.
func (s BudgetStatus) HasBudget() bool {
	return s.State != BudgetStateNone
}

// BudgetAlert is published when a month crosses the near-limit or over-budget threshold.
type BudgetAlert struct {
	UserID          uuid.UUID       `json:"user_id"`
	Month           MonthKey        `json:"month"`
	State           BudgetState     `json:"state"`
	Limit           decimal.Decimal `json:"limit"`
	CurrentExpenses decimal.Decimal `json:"current_expenses"`
	Percentage      decimal.Decimal `json:"percentage"`
	Timestamp       time.Time       `json:"timestamp"`
}
