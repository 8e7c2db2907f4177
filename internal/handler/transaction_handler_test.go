package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"finance_tracker/internal/model"
	"finance_tracker/internal/service"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func transactionRouter(userID uuid.UUID, svc service.TransactionService) http.Handler {
	r, group := authedGroup(userID)
	NewTransactionHandler(svc).RegisterTransactionRoutes(group)
	return r
}

func TestCreateTransaction(t *testing.T) {
	userID := uuid.New()
	svc := new(MockTransactionService)
	router := transactionRouter(userID, svc)
	created := &model.Transaction{ID: uuid.New(), UserID: userID, Kind: model.KindExpense, Category: "Fuel", Amount: decimal.RequireFromString("42.5")}

	svc.On("CreateTransaction", mock.Anything, userID, mock.MatchedBy(func(req model.CreateTransactionRequest) bool {
		return req.Kind == model.KindExpense && req.Category == "Fuel" &&
			req.Amount.Equal(decimal.RequireFromString("42.5")) &&
			req.OccurredOn != nil && *req.OccurredOn == civil.Date{Year: 2024, Month: 6, Day: 1}
	})).Return(created, nil).Once()

	w := perform(router, http.MethodPost, "/api/v1/transactions",
		strings.NewReader(`{"amount": 42.5, "kind": "expense", "category": "Fuel", "occurred_on": "2024-06-01"}`))

	require.Equal(t, http.StatusCreated, w.Code)
	var got model.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	svc.AssertExpectations(t)
}

func TestCreateTransaction_BadRequests(t *testing.T) {
	userID := uuid.New()
	svc := new(MockTransactionService)
	router := transactionRouter(userID, svc)

	w := perform(router, http.MethodPost, "/api/v1/transactions", strings.NewReader(`{"amount": 5, "kind": "gift", "category": "x"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code, "binding rejects unknown kinds")

	svc.On("CreateTransaction", mock.Anything, userID, mock.Anything).
		Return(nil, fmt.Errorf("%w: amount must be greater than zero", model.ErrInvalidArgument)).Once()
	w = perform(router, http.MethodPost, "/api/v1/transactions", strings.NewReader(`{"amount": -5, "kind": "expense", "category": "x"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "amount must be greater than zero")
}

func TestListTransactions_ParsesQuery(t *testing.T) {
	userID := uuid.New()
	svc := new(MockTransactionService)
	router := transactionRouter(userID, svc)

	svc.On("ListTransactions", mock.Anything, userID, mock.MatchedBy(func(q model.ListTransactionsQuery) bool {
		return q.Range.Start != nil && *q.Range.Start == civil.Date{Year: 2024, Month: 1, Day: 1} &&
			q.Range.End != nil && *q.Range.End == civil.Date{Year: 2024, Month: 3, Day: 31} &&
			q.Kind != nil && *q.Kind == model.KindIncome &&
			q.Search == "sal" && q.Page == 2 && q.PageSize == 10 &&
			assert.ObjectsAreEqual([]string{"work", "bonus", "cash"}, q.Tags)
	})).Return(&model.TransactionPage{Items: []model.Transaction{}, Page: 2, PageSize: 10}, nil).Once()

	w := perform(router, http.MethodGet,
		"/api/v1/transactions?start_date=2024-01-01&end_date=2024-03-31&kind=income&search=sal&tags=work,bonus&tags=cash&page=2&page_size=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListTransactions_InvalidParams(t *testing.T) {
	router := transactionRouter(uuid.New(), new(MockTransactionService))

	for _, path := range []string{
		"/api/v1/transactions?start_date=01-02-2024",
		"/api/v1/transactions?kind=gift",
		"/api/v1/transactions?page=two",
	} {
		w := perform(router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestGetTransactionByID_ErrorMapping(t *testing.T) {
	userID := uuid.New()
	svc := new(MockTransactionService)
	router := transactionRouter(userID, svc)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", service.ErrTransactionNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"unavailable", fmt.Errorf("find: %w: %w", model.ErrDataUnavailable, errors.New("timeout")), http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()
			svc.On("GetTransactionByID", mock.Anything, id, userID).Return(nil, tt.err).Once()

			w := perform(router, http.MethodGet, "/api/v1/transactions/"+id.String(), nil)
			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, w.Body.String(), "timeout", "store details stay in the logs")
		})
	}

	w := perform(router, http.MethodGet, "/api/v1/transactions/42", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	userID := uuid.New()
	svc := new(MockTransactionService)
	router := transactionRouter(userID, svc)
	id := uuid.New()

	svc.On("UpdateTransaction", mock.Anything, id, userID, mock.MatchedBy(func(req model.UpdateTransactionRequest) bool {
		return req.Note != nil && *req.Note == "split with Bo" && req.Amount == nil
	})).Return(&model.Transaction{ID: id}, nil).Once()
	svc.On("DeleteTransaction", mock.Anything, id, userID).Return(nil).Once()

	w := perform(router, http.MethodPut, "/api/v1/transactions/"+id.String(), strings.NewReader(`{"note": "split with Bo"}`))
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodDelete, "/api/v1/transactions/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestExportTransactionsCSV(t *testing.T) {
	userID := uuid.New()
	svc := new(MockTransactionService)
	router := transactionRouter(userID, svc)

	svc.On("ExportTransactionsCSV", mock.Anything, userID, mock.Anything).
		Return(bytes.NewBufferString("ID,Date\n"), nil).Once()

	w := perform(router, http.MethodGet, "/api/v1/transactions/export/csv?preset=thisYear", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=transactions_")
	assert.Equal(t, "ID,Date\n", w.Body.String())
}
