package analytics

import (
	"sort"

	"finance_tracker/internal/model"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Synthetic bucket labels.
const (
	UncategorizedLabel = "Uncategorized"
	OthersLabel        = "Others"
)

var intensityBands = []decimal.Decimal{
	decimal.RequireFromString("0.2"),
	decimal.RequireFromString("0.4"),
	decimal.RequireFromString("0.6"),
	decimal.RequireFromString("0.8"),
}

// TotalsByKind sums amounts per kind in a single pass.
func TotalsByKind(txs []model.Transaction) model.KindTotals {
	totals := model.KindTotals{Income: decimal.Zero, Expense: decimal.Zero, Investment: decimal.Zero}
	for _, t := range txs {
		switch t.Kind {
		case model.KindIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case model.KindExpense:
			totals.Expense = totals.Expense.Add(t.Amount)
		case model.KindInvestment:
			totals.Investment = totals.Investment.Add(t.Amount)
		}
	}
	return totals
}

// Savings is income minus expenses and investments.
func Savings(txs []model.Transaction) decimal.Decimal {
	return TotalsByKind(txs).Savings()
}

// labelSums accumulates amounts per label, remembering first-occurrence order.
type labelSums struct {
	order []string
	sums  map[string]decimal.Decimal
}

func newLabelSums() *labelSums {
	return &labelSums{sums: make(map[string]decimal.Decimal)}
}

func (s *labelSums) add(label string, amount decimal.Decimal) {
	cur, ok := s.sums[label]
	if !ok {
		s.order = append(s.order, label)
		cur = decimal.Zero
	}
	s.sums[label] = cur.Add(amount)
}

func (s *labelSums) list() []model.LabelAmount {
	out := make([]model.LabelAmount, 0, len(s.order))
	for _, label := range s.order {
		out = append(out, model.LabelAmount{Label: label, Amount: s.sums[label]})
	}
	return out
}

// BreakdownByTag groups transactions of one kind by tag. A transaction adds its
// full amount to every tag it carries; untagged ones land in Uncategorized.
// Buckets keep the order in which their label first appeared.
func BreakdownByTag(txs []model.Transaction, kind model.Kind) []model.LabelAmount {
	sums := newLabelSums()
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		if len(t.Tags) == 0 {
			sums.add(UncategorizedLabel, t.Amount)
			continue
		}
		for _, tag := range t.Tags {
			sums.add(tag, t.Amount)
		}
	}
	return sums.list()
}

// TopExpenses returns the n largest expenses. Equal amounts keep their input order.
func TopExpenses(txs []model.Transaction, n int) []model.Transaction {
	expenses := make([]model.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Kind == model.KindExpense {
			expenses = append(expenses, t)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Amount.GreaterThan(expenses[j].Amount)
	})
	if n < 0 {
		n = 0
	}
	if len(expenses) > n {
		expenses = expenses[:n]
	}
	return expenses
}

// RankByLabel groups one kind by its label, sorts descending and keeps the top k.
// The remaining labels are folded into a single Others bucket, emitted only when
// something was folded. k <= 0 keeps every label.
func RankByLabel(txs []model.Transaction, kind model.Kind, k int) []model.LabelAmount {
	sums := newLabelSums()
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		label := t.Label()
		if label == "" {
			label = UncategorizedLabel
		}
		sums.add(label, t.Amount)
	}
	ranked := sums.list()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.GreaterThan(ranked[j].Amount)
	})
	if k <= 0 || len(ranked) <= k {
		return ranked
	}
	others := decimal.Zero
	for _, la := range ranked[k:] {
		others = others.Add(la.Amount)
	}
	out := make([]model.LabelAmount, 0, k+1)
	out = append(out, ranked[:k]...)
	return append(out, model.LabelAmount{Label: OthersLabel, Amount: others})
}

// MonthlySeries emits one bucket per calendar month of the window, oldest first,
// with zero-valued buckets for months without activity.
func MonthlySeries(txs []model.Transaction, w model.Window) []model.MonthBucket {
	months := w.Months()
	buckets := make([]model.MonthBucket, len(months))
	index := make(map[model.MonthKey]int, len(months))
	for i, m := range months {
		buckets[i] = model.MonthBucket{Month: m, Income: decimal.Zero, Expense: decimal.Zero, Investment: decimal.Zero}
		index[m] = i
	}
	for _, t := range txs {
		i, ok := index[model.MonthKeyOf(t.OccurredOn)]
		if !ok || !w.Contains(t.OccurredOn) {
			continue
		}
		b := &buckets[i]
		switch t.Kind {
		case model.KindIncome:
			b.Income = b.Income.Add(t.Amount)
		case model.KindExpense:
			b.Expense = b.Expense.Add(t.Amount)
		case model.KindInvestment:
			b.Investment = b.Investment.Add(t.Amount)
		}
	}
	return buckets
}

// DailyIntensity emits one bucket per day of the window with the day's expense
// total, expense count and an intensity level relative to the busiest day.
func DailyIntensity(txs []model.Transaction, w model.Window) []model.DayBucket {
	days := w.Days()
	buckets := make([]model.DayBucket, len(days))
	index := make(map[civil.Date]int, len(days))
	for i, d := range days {
		buckets[i] = model.DayBucket{Date: d, Total: decimal.Zero}
		index[d] = i
	}
	for _, t := range txs {
		if t.Kind != model.KindExpense {
			continue
		}
		i, ok := index[t.OccurredOn]
		if !ok {
			continue
		}
		buckets[i].Total = buckets[i].Total.Add(t.Amount)
		buckets[i].Count++
	}

	peak := MaxDayTotal(buckets)
	for i := range buckets {
		buckets[i].Level = IntensityLevel(buckets[i].Total, peak)
	}
	return buckets
}

// MaxDayTotal returns the largest daily total, or zero for no buckets.
func MaxDayTotal(buckets []model.DayBucket) decimal.Decimal {
	peak := decimal.Zero
	for _, b := range buckets {
		if b.Total.GreaterThan(peak) {
			peak = b.Total
		}
	}
	return peak
}

// IntensityLevel maps a day's total to 0..5. Zero spend is level 0; otherwise the
// ratio to peak picks one of five equal-width bands.
func IntensityLevel(total, peak decimal.Decimal) int {
	if !total.IsPositive() || !peak.IsPositive() {
		return 0
	}
	ratio := total.Div(peak)
	for i, band := range intensityBands {
		if ratio.LessThanOrEqual(band) {
			return i + 1
		}
	}
	return len(intensityBands) + 1
}
