package model

import (
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies a transaction.
type Kind string

const (
	KindExpense    Kind = "expense"
	KindIncome     Kind = "income"
	KindInvestment Kind = "investment"
)

// Kinds lists every valid kind in display order.
var Kinds = []Kind{KindIncome, KindExpense, KindInvestment}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// ParseKind converts a raw string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown transaction kind %q, expected one of %v", ErrInvalidArgument, s, Kinds)
	}
	return k, nil
}

// Transaction represents an income, expense or investment record.
// Category is set for expense and income, InstrumentName for investment; never both.
type Transaction struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	Kind           Kind            `json:"kind"`
	Category       string          `json:"category,omitempty"`
	InstrumentName string          `json:"instrument_name,omitempty"`
	Tags           []string        `json:"tags"`
	OccurredOn     civil.Date      `json:"occurred_on"`
	Note           string          `json:"note,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Label returns the field that names the transaction for its kind.
func (t Transaction) Label() string {
	if t.Kind == KindInvestment {
		return t.InstrumentName
	}
	return t.Category
}

// SetLabel stores label in the field matching the kind and clears the other one.
func (t *Transaction) SetLabel(label string) {
	if t.Kind == KindInvestment {
		t.InstrumentName = label
		t.Category = ""
		return
	}
	t.Category = label
	t.InstrumentName = ""
}

// CreateTransactionRequest is used for creating a new transaction.
// Validation of amount, label and date happens in the service so that every caller gets it.
type CreateTransactionRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Kind           Kind            `json:"kind" binding:"required,oneof=expense income investment"`
	Category       string          `json:"category"`
	InstrumentName string          `json:"instrument_name"`
	Tags           []string        `json:"tags"`
	OccurredOn     *civil.Date     `json:"occurred_on"` // defaults to today in the reporting timezone
	Note           string          `json:"note"`
}

// Label returns the label supplied for the requested kind.
func (r CreateTransactionRequest) Label() string {
	if r.Kind == KindInvestment {
		return r.InstrumentName
	}
	return r.Category
}

// UpdateTransactionRequest carries a partial update; nil fields are left untouched.
type UpdateTransactionRequest struct {
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Kind           *Kind            `json:"kind,omitempty" binding:"omitempty,oneof=expense income investment"`
	Category       *string          `json:"category,omitempty"`
	InstrumentName *string          `json:"instrument_name,omitempty"`
	Tags           *[]string        `json:"tags,omitempty"`
	OccurredOn     *civil.Date      `json:"occurred_on,omitempty"`
	Note           *string          `json:"note,omitempty"`
}

// TransactionQuery narrows a store lookup. Bounds are inclusive calendar dates.
type TransactionQuery struct {
	Kind      *Kind
	StartDate *civil.Date
	EndDate   *civil.Date
}

// RangeSpec selects a reporting window either by preset or by explicit dates.
type RangeSpec struct {
	Preset string
	Start  *civil.Date
	End    *civil.Date
}

// ListTransactionsQuery is the full set of list parameters accepted from a client.
type ListTransactionsQuery struct {
	Range    RangeSpec
	Kind     *Kind
	Search   string
	Tags     []string
	Page     int
	PageSize int
}

// TransactionPage is one page of a filtered transaction list.
type TransactionPage struct {
	Items    []Transaction `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Window   Window        `json:"window"`
}
