package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finance_tracker/internal/analytics"
	"finance_tracker/internal/logger"
	"finance_tracker/internal/model"
	"finance_tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	DefaultTopN  = 5
	DefaultRankK = 7
	MaxTopN      = 100

	// MaxHeatmapDays bounds the heatmap window to one leap year of daily buckets.
	MaxHeatmapDays = 366
)

// ReportService computes dashboard metrics and heatmaps for a reporting window.
// When the store fails, the last metrics computed for the same request are returned
// marked stale, together with an error wrapping model.ErrDataUnavailable.
type ReportService interface {
	Dashboard(ctx context.Context, userID uuid.UUID, query model.DashboardQuery) (*model.Dashboard, error)
	Heatmap(ctx context.Context, userID uuid.UUID, query model.HeatmapQuery) (*model.Heatmap, error)
}

type reportService struct {
	transactions repository.TransactionRepository
	budgets      BudgetService
	normalizer   *analytics.Normalizer
	lastGood     *cache.Cache
	now          func() time.Time
}

// NewReportService creates a new ReportService. lastGood holds the most recent successful results.
func NewReportService(transactions repository.TransactionRepository, budgets BudgetService, normalizer *analytics.Normalizer, lastGood *cache.Cache) ReportService {
	return &reportService{
		transactions: transactions,
		budgets:      budgets,
		normalizer:   normalizer,
		lastGood:     lastGood,
		now:          time.Now,
	}
}

func (s *reportService) Dashboard(ctx context.Context, userID uuid.UUID, query model.DashboardQuery) (*model.Dashboard, error) {
	if err := normalizeDashboardQuery(&query); err != nil {
		return nil, err
	}
	window, err := s.normalizer.Resolve(query.Range)
	if err != nil {
		return nil, err
	}
	key := cacheKey("dashboard", userID, window, query.Search, query.Tags,
		string(query.BreakdownKind), fmt.Sprint(query.TopN), fmt.Sprint(query.RankK))

	txs, err := s.fetch(ctx, userID, window, query.Search, query.Tags)
	if err != nil {
		return s.staleDashboard(ctx, key, err)
	}
	budget, err := s.budgets.Status(ctx, userID, model.MonthKeyOf(window.EndDate()))
	if err != nil {
		return s.staleDashboard(ctx, key, err)
	}

	totals := analytics.TotalsByKind(txs)
	dashboard := model.Dashboard{
		Window:           window,
		Totals:           totals,
		Savings:          totals.Savings(),
		BreakdownKind:    query.BreakdownKind,
		Breakdown:        analytics.BreakdownByTag(txs, query.BreakdownKind),
		Ranking:          analytics.RankByLabel(txs, query.BreakdownKind, query.RankK),
		TopExpenses:      analytics.TopExpenses(txs, query.TopN),
		Monthly:          analytics.MonthlySeries(txs, window),
		Budget:           budget,
		TransactionCount: len(txs),
		GeneratedAt:      s.now().UTC(),
	}
	s.lastGood.SetDefault(key, dashboard)
	return &dashboard, nil
}

func (s *reportService) Heatmap(ctx context.Context, userID uuid.UUID, query model.HeatmapQuery) (*model.Heatmap, error) {
	if query.Range.Preset == "" && query.Range.Start == nil && query.Range.End == nil {
		query.Range.Preset = analytics.PresetThisYear
	}
	query.Tags = analytics.NormalizeTags(query.Tags)
	window, err := s.normalizer.Resolve(query.Range)
	if err != nil {
		return nil, err
	}
	if days := window.EndDate().DaysSince(window.StartDate()) + 1; days > MaxHeatmapDays {
		return nil, invalid("heatmap window spans %d days, at most %d allowed", days, MaxHeatmapDays)
	}
	key := cacheKey("heatmap", userID, window, query.Search, query.Tags)

	txs, err := s.fetch(ctx, userID, window, query.Search, query.Tags)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("heatmap fetch failed")
		if cached, ok := s.lastGood.Get(key); ok {
			heatmap := cached.(model.Heatmap)
			heatmap.Stale = true
			return &heatmap, err
		}
		return nil, err
	}

	days := analytics.DailyIntensity(txs, window)
	heatmap := model.Heatmap{
		Window:      window,
		Max:         analytics.MaxDayTotal(days),
		Days:        days,
		GeneratedAt: s.now().UTC(),
	}
	s.lastGood.SetDefault(key, heatmap)
	return &heatmap, nil
}

func (s *reportService) fetch(ctx context.Context, userID uuid.UUID, window model.Window, search string, tags []string) ([]model.Transaction, error) {
	start, end := window.StartDate(), window.EndDate()
	txs, err := s.transactions.Query(ctx, userID, model.TransactionQuery{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, unavailable("failed to query report transactions", err)
	}
	return analytics.Filter(txs, analytics.Criteria{Search: search, Tags: tags}), nil
}

func (s *reportService) staleDashboard(ctx context.Context, key string, err error) (*model.Dashboard, error) {
	logger.FromContext(ctx).Warn().Err(err).Msg("dashboard fetch failed")
	if cached, ok := s.lastGood.Get(key); ok {
		dashboard := cached.(model.Dashboard)
		dashboard.Stale = true
		return &dashboard, err
	}
	return nil, err
}

func normalizeDashboardQuery(q *model.DashboardQuery) error {
	if q.BreakdownKind == "" {
		q.BreakdownKind = model.KindExpense
	}
	if !q.BreakdownKind.Valid() {
		return invalid("unknown breakdown kind %q", q.BreakdownKind)
	}
	switch {
	case q.TopN < 0:
		return invalid("top_n must not be negative")
	case q.TopN == 0:
		q.TopN = DefaultTopN
	case q.TopN > MaxTopN:
		q.TopN = MaxTopN
	}
	switch {
	case q.RankK < 0:
		return invalid("rank_k must not be negative")
	case q.RankK == 0:
		q.RankK = DefaultRankK
	}
	q.Tags = analytics.NormalizeTags(q.Tags)
	return nil
}

func cacheKey(prefix string, userID uuid.UUID, window model.Window, search string, tags []string, extra ...string) string {
	parts := []string{
		prefix,
		userID.String(),
		window.StartDate().String(),
		window.EndDate().String(),
		strings.ToLower(strings.TrimSpace(search)),
		strings.ToLower(strings.Join(tags, ",")),
	}
	return strings.Join(append(parts, extra...), "|")
}
