package service

import (
	"context"
	"time"

	"finance_tracker/internal/analytics"
	"finance_tracker/internal/model"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, t *model.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*model.Transaction); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) Query(ctx context.Context, userID uuid.UUID, q model.TransactionQuery) ([]model.Transaction, error) {
	args := m.Called(ctx, userID, q)
	if txs, ok := args.Get(0).([]model.Transaction); ok {
		return txs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, t *model.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) Get(ctx context.Context, userID uuid.UUID, month model.MonthKey) (*model.Budget, error) {
	args := m.Called(ctx, userID, month)
	if b, ok := args.Get(0).(*model.Budget); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBudgetRepository) Upsert(ctx context.Context, userID uuid.UUID, month model.MonthKey, limit decimal.Decimal) (*model.Budget, error) {
	args := m.Called(ctx, userID, month, limit)
	if b, ok := args.Get(0).(*model.Budget); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockBudgetService struct {
	mock.Mock
}

func (m *MockBudgetService) GetBudget(ctx context.Context, userID uuid.UUID, month model.MonthKey) (*model.Budget, error) {
	args := m.Called(ctx, userID, month)
	if b, ok := args.Get(0).(*model.Budget); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBudgetService) SaveBudget(ctx context.Context, userID uuid.UUID, month model.MonthKey, req model.SaveBudgetRequest) (*model.Budget, error) {
	args := m.Called(ctx, userID, month, req)
	if b, ok := args.Get(0).(*model.Budget); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBudgetService) Status(ctx context.Context, userID uuid.UUID, month model.MonthKey) (model.BudgetStatus, error) {
	args := m.Called(ctx, userID, month)
	return args.Get(0).(model.BudgetStatus), args.Error(1)
}

func (m *MockBudgetService) CheckThreshold(ctx context.Context, userID uuid.UUID, month model.MonthKey) {
	m.Called(ctx, userID, month)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBudgetAlert(ctx context.Context, alert model.BudgetAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// testNormalizer pins "now" to 2024-06-15 10:00 in the reporting timezone.
func testNormalizer() *analytics.Normalizer {
	loc := analytics.FixedZone(330)
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, loc)
	return analytics.NewNormalizerWithClock(loc, func() time.Time { return now })
}

func day(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTx(owner uuid.UUID, kind model.Kind, amt, on, label string, tags ...string) model.Transaction {
	t := model.Transaction{
		ID:         uuid.New(),
		UserID:     owner,
		Amount:     amount(amt),
		Kind:       kind,
		Tags:       append([]string{}, tags...),
		OccurredOn: day(on),
	}
	t.SetLabel(label)
	return t
}
