package analytics

import (
	"finance_tracker/internal/model"

	"github.com/shopspring/decimal"
)

// Utilization thresholds, in percent.
var (
	NearLimitPercent  = decimal.NewFromInt(80)
	OverBudgetPercent = decimal.NewFromInt(100)
	hundred           = decimal.NewFromInt(100)
)

// ExpensesInMonth sums expense amounts that occurred in month.
func ExpensesInMonth(txs []model.Transaction, month model.MonthKey) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Kind == model.KindExpense && model.MonthKeyOf(t.OccurredOn) == month {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// EvaluateBudget classifies a month's spending against its budget. A nil budget
// yields the no-budget state rather than a zero limit.
func EvaluateBudget(budget *model.Budget, month model.MonthKey, expenses decimal.Decimal) model.BudgetStatus {
	status := model.BudgetStatus{
		Month:           month,
		State:           model.BudgetStateNone,
		CurrentExpenses: expenses,
	}
	if budget == nil {
		return status
	}

	limit := budget.Limit
	// Thresholds are checked against the exact ratio; only the reported value is rounded.
	exact := decimal.Zero
	if limit.IsPositive() {
		exact = expenses.Mul(hundred).Div(limit)
	}
	percentage := exact.Round(2)
	remaining := limit.Sub(expenses)

	status.Limit = &limit
	status.Percentage = &percentage
	status.Remaining = &remaining

	switch {
	case exact.GreaterThanOrEqual(OverBudgetPercent):
		status.State = model.BudgetStateOverBudget
		status.IsOverBudget = true
	case exact.GreaterThanOrEqual(NearLimitPercent):
		status.State = model.BudgetStateNearLimit
		status.IsNearLimit = true
	default:
		status.State = model.BudgetStateOK
	}
	return status
}
