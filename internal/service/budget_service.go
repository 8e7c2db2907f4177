package service

import (
	"context"
	"time"

	"finance_tracker/internal/analytics"
	"finance_tracker/internal/logger"
	"finance_tracker/internal/model"
	"finance_tracker/internal/notify"
	"finance_tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetService manages monthly budgets and their utilization.
type BudgetService interface {
	GetBudget(ctx context.Context, userID uuid.UUID, month model.MonthKey) (*model.Budget, error)
	SaveBudget(ctx context.Context, userID uuid.UUID, month model.MonthKey, req model.SaveBudgetRequest) (*model.Budget, error)
	Status(ctx context.Context, userID uuid.UUID, month model.MonthKey) (model.BudgetStatus, error)
	CheckThreshold(ctx context.Context, userID uuid.UUID, month model.MonthKey)
}

type budgetService struct {
	budgets      repository.BudgetRepository
	transactions repository.TransactionRepository
	publisher    notify.Publisher
	now          func() time.Time
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgets repository.BudgetRepository, transactions repository.TransactionRepository, publisher notify.Publisher) BudgetService {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &budgetService{
		budgets:      budgets,
		transactions: transactions,
		publisher:    publisher,
		now:          time.Now,
	}
}

// GetBudget returns the saved budget or ErrBudgetNotFound.
func (s *budgetService) GetBudget(ctx context.Context, userID uuid.UUID, month model.MonthKey) (*model.Budget, error) {
	budget, err := s.budgets.Get(ctx, userID, month)
	if err != nil {
		return nil, unavailable("failed to get budget", err)
	}
	if budget == nil {
		return nil, ErrBudgetNotFound
	}
	return budget, nil
}

// SaveBudget creates or replaces the limit of a month's budget.
func (s *budgetService) SaveBudget(ctx context.Context, userID uuid.UUID, month model.MonthKey, req model.SaveBudgetRequest) (*model.Budget, error) {
	if !req.Limit.IsPositive() {
		return nil, invalid("budget limit must be greater than zero")
	}
	if !req.Limit.Equal(req.Limit.Round(2)) {
		return nil, invalid("budget limit must have at most two decimal places")
	}

	budget, err := s.budgets.Upsert(ctx, userID, month, req.Limit)
	if err != nil {
		return nil, unavailable("failed to save budget", err)
	}
	logger.FromContext(ctx).Info().
		Str("user_id", userID.String()).
		Str("month", month.String()).
		Str("limit", req.Limit.String()).
		Msg("budget saved")
	return budget, nil
}

// Status evaluates the month's budget against every expense recorded in that month.
func (s *budgetService) Status(ctx context.Context, userID uuid.UUID, month model.MonthKey) (model.BudgetStatus, error) {
	budget, err := s.budgets.Get(ctx, userID, month)
	if err != nil {
		return model.BudgetStatus{}, unavailable("failed to get budget", err)
	}

	expenses, err := s.monthExpenses(ctx, userID, month)
	if err != nil {
		return model.BudgetStatus{}, err
	}
	return analytics.EvaluateBudget(budget, month, expenses), nil
}

func (s *budgetService) monthExpenses(ctx context.Context, userID uuid.UUID, month model.MonthKey) (decimal.Decimal, error) {
	kind := model.KindExpense
	first, last := month.FirstDay(), month.LastDay()
	txs, err := s.transactions.Query(ctx, userID, model.TransactionQuery{
		Kind:      &kind,
		StartDate: &first,
		EndDate:   &last,
	})
	if err != nil {
		return decimal.Zero, unavailable("failed to query month expenses", err)
	}
	return analytics.ExpensesInMonth(txs, month), nil
}

// CheckThreshold publishes a BudgetAlert when the month is near or over its limit.
// Failures are logged and never returned.
func (s *budgetService) CheckThreshold(ctx context.Context, userID uuid.UUID, month model.MonthKey) {
	log := logger.FromContext(ctx)

	status, err := s.Status(ctx, userID, month)
	if err != nil {
		log.Warn().Err(err).Str("month", month.String()).Msg("budget threshold check skipped")
		return
	}
	if !status.IsNearLimit && !status.IsOverBudget {
		return
	}

	alert := model.BudgetAlert{
		UserID:          userID,
		Month:           month,
		State:           status.State,
		Limit:           *status.Limit,
		CurrentExpenses: status.CurrentExpenses,
		Percentage:      *status.Percentage,
		Timestamp:       s.now().UTC(),
	}
	if err := s.publisher.PublishBudgetAlert(ctx, alert); err != nil {
		log.Error().Err(err).Str("month", month.String()).Msg("failed to publish budget alert")
	}
}
