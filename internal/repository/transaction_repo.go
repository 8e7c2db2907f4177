package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finance_tracker/internal/model"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepository defines operations for transaction data.
// Every read and write is scoped to the owning user.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	Query(ctx context.Context, userID uuid.UUID, query model.TransactionQuery) ([]model.Transaction, error)
	Update(ctx context.Context, transaction *model.Transaction) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type transactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db DBTX) TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, user_id, amount, kind, label, tags, occurred_on, note, created_at, updated_at`

// dateArg converts a calendar date to the value bound to a DATE parameter.
func dateArg(d civil.Date) time.Time {
	return d.In(time.UTC)
}

func scanTransaction(row pgx.Row) (model.Transaction, error) {
	var t model.Transaction
	var label string
	var occurredOn time.Time
	err := row.Scan(
		&t.ID, &t.UserID, &t.Amount, &t.Kind, &label, &t.Tags,
		&occurredOn, &t.Note, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return t, err
	}
	t.SetLabel(label)
	t.OccurredOn = civil.DateOf(occurredOn)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t, nil
}

// Create inserts a new transaction into the database
func (r *transactionRepository) Create(ctx context.Context, t *model.Transaction) error {
	sql := `INSERT INTO transactions (id, user_id, amount, kind, label, tags, occurred_on, note)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		t.ID, t.UserID, t.Amount, t.Kind, t.Label(), t.Tags, dateArg(t.OccurredOn), t.Note,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// FindByID retrieves a transaction by its ID. A missing row yields nil, nil.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	sql := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	t, err := scanTransaction(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find transaction by ID: %w", err)
	}
	return &t, nil
}

// Query retrieves a user's transactions, newest first, with optional kind and inclusive date bounds
func (r *transactionRepository) Query(ctx context.Context, userID uuid.UUID, q model.TransactionQuery) ([]model.Transaction, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`)
	args := []interface{}{userID}
	argCount := 2

	if q.Kind != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND kind = $%d", argCount))
		args = append(args, *q.Kind)
		argCount++
	}
	if q.StartDate != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND occurred_on >= $%d", argCount))
		args = append(args, dateArg(*q.StartDate))
		argCount++
	}
	if q.EndDate != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND occurred_on <= $%d", argCount))
		args = append(args, dateArg(*q.EndDate))
	}

	queryBuilder.WriteString(" ORDER BY occurred_on DESC, created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}

// Update rewrites an existing transaction owned by t.UserID
func (r *transactionRepository) Update(ctx context.Context, t *model.Transaction) error {
	sql := `UPDATE transactions
            SET amount = $1, kind = $2, label = $3, tags = $4, occurred_on = $5, note = $6, updated_at = NOW()
            WHERE id = $7 AND user_id = $8 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql,
		t.Amount, t.Kind, t.Label(), t.Tags, dateArg(t.OccurredOn), t.Note, t.ID, t.UserID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("transaction %w for update", model.ErrNotFound)
		}
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

// Delete removes a transaction owned by userID
func (r *transactionRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	sql := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %w for deletion", model.ErrNotFound)
	}
	return nil
}
