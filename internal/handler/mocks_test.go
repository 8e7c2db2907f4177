package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"finance_tracker/internal/middleware"
	"finance_tracker/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, req model.CreateTransactionRequest) (*model.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if t, ok := args.Get(0).(*model.Transaction); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, transactionID, userID uuid.UUID) (*model.Transaction, error) {
	args := m.Called(ctx, transactionID, userID)
	if t, ok := args.Get(0).(*model.Transaction); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, query model.ListTransactionsQuery) (*model.TransactionPage, error) {
	args := m.Called(ctx, userID, query)
	if p, ok := args.Get(0).(*model.TransactionPage); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, transactionID, userID uuid.UUID, req model.UpdateTransactionRequest) (*model.Transaction, error) {
	args := m.Called(ctx, transactionID, userID, req)
	if t, ok := args.Get(0).(*model.Transaction); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, transactionID, userID uuid.UUID) error {
	return m.Called(ctx, transactionID, userID).Error(0)
}

func (m *MockTransactionService) ExportTransactionsCSV(ctx context.Context, userID uuid.UUID, query model.ListTransactionsQuery) (*bytes.Buffer, error) {
	args := m.Called(ctx, userID, query)
	if b, ok := args.Get(0).(*bytes.Buffer); ok {
		return b, args.Error(1)
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

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Dashboard(ctx context.Context, userID uuid.UUID, query model.DashboardQuery) (*model.Dashboard, error) {
	args := m.Called(ctx, userID, query)
	if d, ok := args.Get(0).(*model.Dashboard); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportService) Heatmap(ctx context.Context, userID uuid.UUID, query model.HeatmapQuery) (*model.Heatmap, error) {
	args := m.Called(ctx, userID, query)
	if h, ok := args.Get(0).(*model.Heatmap); ok {
		return h, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

// authedGroup returns a router group that behaves as if JWTAuthMiddleware accepted userID.
func authedGroup(userID uuid.UUID) (*gin.Engine, *gin.RouterGroup) {
	r := gin.New()
	group := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(middleware.AuthUserKey, userID)
		c.Next()
	})
	return r, group
}

func perform(r http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
