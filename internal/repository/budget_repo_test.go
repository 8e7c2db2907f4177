package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"finance_tracker/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetRepository_Get(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBudgetRepository(mock)
	id, owner := uuid.New(), uuid.New()
	stamp := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM budgets WHERE user_id = $1 AND month = $2")).
		WithArgs(owner, "2024-06").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "month", "limit_amount", "created_at", "updated_at"}).
			AddRow(id, owner, "2024-06", decimal.NewFromInt(1000), stamp, stamp))

	b, err := repo.Get(context.Background(), owner, "2024-06")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, model.MonthKey("2024-06"), b.Month)
	assert.True(t, decimal.NewFromInt(1000).Equal(b.Limit))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetRepository_Get_Missing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBudgetRepository(mock)
	owner := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM budgets")).
		WithArgs(owner, "2024-07").
		WillReturnError(pgx.ErrNoRows)

	b, err := repo.Get(context.Background(), owner, "2024-07")
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestBudgetRepository_Upsert(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBudgetRepository(mock)
	owner, id := uuid.New(), uuid.New()
	limit := decimal.RequireFromString("1500.00")
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (user_id, month) DO UPDATE SET limit_amount = EXCLUDED.limit_amount")).
		WithArgs(pgxmock.AnyArg(), owner, "2024-06", limit).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id, created, updated))

	b, err := repo.Upsert(context.Background(), owner, "2024-06", limit)
	require.NoError(t, err)
	assert.Equal(t, id, b.ID, "existing row id is kept on conflict")
	assert.Equal(t, owner, b.UserID)
	assert.Equal(t, created, b.CreatedAt)
	assert.Equal(t, updated, b.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
