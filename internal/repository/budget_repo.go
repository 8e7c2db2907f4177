package repository

import (
	"context"
	"errors"
	"fmt"

	"finance_tracker/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BudgetRepository stores monthly budgets keyed on (user, month)
type BudgetRepository interface {
	Get(ctx context.Context, userID uuid.UUID, month model.MonthKey) (*model.Budget, error)
	Upsert(ctx context.Context, userID uuid.UUID, month model.MonthKey, limit decimal.Decimal) (*model.Budget, error)
}

type budgetRepository struct {
	db DBTX
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(db DBTX) BudgetRepository {
	return &budgetRepository{db: db}
}

// Get returns the month's budget. A month without a saved budget yields nil, nil.
func (r *budgetRepository) Get(ctx context.Context, userID uuid.UUID, month model.MonthKey) (*model.Budget, error) {
	b := &model.Budget{}
	var monthKey string
	sql := `SELECT id, user_id, month, limit_amount, created_at, updated_at
            FROM budgets WHERE user_id = $1 AND month = $2`
	err := r.db.QueryRow(ctx, sql, userID, string(month)).Scan(
		&b.ID, &b.UserID, &monthKey, &b.Limit, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	b.Month = model.MonthKey(monthKey)
	return b, nil
}

// Upsert creates the month's budget or updates its limit in place
func (r *budgetRepository) Upsert(ctx context.Context, userID uuid.UUID, month model.MonthKey, limit decimal.Decimal) (*model.Budget, error) {
	b := &model.Budget{UserID: userID, Month: month, Limit: limit}
	sql := `INSERT INTO budgets (id, user_id, month, limit_amount)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (user_id, month) DO UPDATE SET limit_amount = EXCLUDED.limit_amount, updated_at = NOW()
            RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, uuid.New(), userID, string(month), limit).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert budget: %w", err)
	}
	return b, nil
}
