package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"finance_tracker/internal/analytics"
	"finance_tracker/internal/logger"
	"finance_tracker/internal/model"
	"finance_tracker/internal/repository"
	"finance_tracker/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MaxLabelLength = 100
	MaxTagLength   = 50
	MaxTags        = 20
	MaxNoteLength  = 1000
)

// TransactionService defines operations for transactions
type TransactionService interface {
	CreateTransaction(ctx context.Context, userID uuid.UUID, req model.CreateTransactionRequest) (*model.Transaction, error)
	GetTransactionByID(ctx context.Context, transactionID, userID uuid.UUID) (*model.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, query model.ListTransactionsQuery) (*model.TransactionPage, error)
	UpdateTransaction(ctx context.Context, transactionID, userID uuid.UUID, req model.UpdateTransactionRequest) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID, userID uuid.UUID) error
	ExportTransactionsCSV(ctx context.Context, userID uuid.UUID, query model.ListTransactionsQuery) (*bytes.Buffer, error)
}

type transactionService struct {
	repo       repository.TransactionRepository
	budgets    BudgetService
	normalizer *analytics.Normalizer
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(repo repository.TransactionRepository, budgets BudgetService, normalizer *analytics.Normalizer) TransactionService {
	return &transactionService{repo: repo, budgets: budgets, normalizer: normalizer}
}

func (s *transactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, req model.CreateTransactionRequest) (*model.Transaction, error) {
	kind, err := model.ParseKind(string(req.Kind))
	if err != nil {
		return nil, err
	}
	if err := checkLabelVariant(kind, req.Category, req.InstrumentName); err != nil {
		return nil, err
	}

	occurredOn := s.normalizer.Today()
	if req.OccurredOn != nil {
		occurredOn = *req.OccurredOn
	}

	transaction := &model.Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		Amount:     req.Amount,
		Kind:       kind,
		Tags:       req.Tags,
		OccurredOn: occurredOn,
		Note:       req.Note,
	}
	transaction.SetLabel(req.Label())
	if err := normalizeTransaction(transaction); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, transaction); err != nil {
		return nil, unavailable("failed to create transaction in repo", err)
	}

	logger.FromContext(ctx).Info().
		Str("transaction_id", transaction.ID.String()).
		Str("kind", string(transaction.Kind)).
		Msg("transaction created")

	s.afterWrite(ctx, userID, *transaction)
	return transaction, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID, userID uuid.UUID) (*model.Transaction, error) {
	return s.findOwned(ctx, transactionID, userID)
}

// ListTransactions resolves the window, fetches it from the store, then filters and pages in memory.
func (s *transactionService) ListTransactions(ctx context.Context, userID uuid.UUID, query model.ListTransactionsQuery) (*model.TransactionPage, error) {
	window, txs, err := s.fetchWindow(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	page := analytics.Paginate(txs, query.Page, query.PageSize)
	page.Window = window
	return &page, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID, userID uuid.UUID, req model.UpdateTransactionRequest) (*model.Transaction, error) {
	existingTx, err := s.findOwned(ctx, transactionID, userID)
	if err != nil {
		return nil, err
	}
	before := *existingTx

	label := existingTx.Label()
	if req.Kind != nil {
		kind, err := model.ParseKind(string(*req.Kind))
		if err != nil {
			return nil, err
		}
		if kind != existingTx.Kind {
			// Switching variant requires the label of the new variant.
			category, instrument := deref(req.Category), deref(req.InstrumentName)
			if err := checkLabelVariant(kind, category, instrument); err != nil {
				return nil, err
			}
			label = category
			if kind == model.KindInvestment {
				label = instrument
			}
		}
		existingTx.Kind = kind
	}
	switch {
	case existingTx.Kind == model.KindInvestment && req.Category != nil && *req.Category != "":
		return nil, invalid("category is not valid for an investment")
	case existingTx.Kind != model.KindInvestment && req.InstrumentName != nil && *req.InstrumentName != "":
		return nil, invalid("instrument_name is only valid for an investment")
	case existingTx.Kind == model.KindInvestment && req.InstrumentName != nil:
		label = *req.InstrumentName
	case existingTx.Kind != model.KindInvestment && req.Category != nil:
		label = *req.Category
	}
	existingTx.SetLabel(label)

	if req.Amount != nil {
		existingTx.Amount = *req.Amount
	}
	if req.Tags != nil {
		existingTx.Tags = *req.Tags
	}
	if req.OccurredOn != nil {
		existingTx.OccurredOn = *req.OccurredOn
	}
	if req.Note != nil {
		existingTx.Note = *req.Note
	}
	if err := normalizeTransaction(existingTx); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, existingTx); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, unavailable("failed to update transaction in repo", err)
	}

	s.afterWrite(ctx, userID, before, *existingTx)
	return existingTx, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID, userID uuid.UUID) error {
	existingTx, err := s.findOwned(ctx, transactionID, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, transactionID, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return unavailable("failed to delete transaction in repo", err)
	}
	s.afterWrite(ctx, userID, *existingTx)
	return nil
}

// ExportTransactionsCSV writes every transaction matching the query, ignoring pagination.
func (s *transactionService) ExportTransactionsCSV(ctx context.Context, userID uuid.UUID, query model.ListTransactionsQuery) (*bytes.Buffer, error) {
	_, transactions, err := s.fetchWindow(ctx, userID, query)
	if err != nil {
		return nil, err
	}

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)

	header := []string{"ID", "Date", "Kind", "Category", "InstrumentName", "Amount", "Tags", "Note", "CreatedAt"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range transactions {
		row := []string{
			t.ID.String(),
			t.OccurredOn.String(),
			string(t.Kind),
			validation.SanitizeForFormulaInjection(t.Category),
			validation.SanitizeForFormulaInjection(t.InstrumentName),
			t.Amount.StringFixed(2),
			validation.SanitizeForFormulaInjection(strings.Join(t.Tags, ";")),
			validation.SanitizeForFormulaInjection(t.Note),
			t.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV writer: %w", err)
	}
	return buffer, nil
}

func (s *transactionService) findOwned(ctx context.Context, transactionID, userID uuid.UUID) (*model.Transaction, error) {
	transaction, err := s.repo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, unavailable("failed to find transaction by ID", err)
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}
	if transaction.UserID != userID {
		return nil, ErrForbidden
	}
	return transaction, nil
}

func (s *transactionService) fetchWindow(ctx context.Context, userID uuid.UUID, query model.ListTransactionsQuery) (model.Window, []model.Transaction, error) {
	window, err := s.normalizer.Resolve(query.Range)
	if err != nil {
		return model.Window{}, nil, err
	}
	if query.Kind != nil && !query.Kind.Valid() {
		return model.Window{}, nil, invalid("unknown transaction kind %q", *query.Kind)
	}

	start, end := window.StartDate(), window.EndDate()
	txs, err := s.repo.Query(ctx, userID, model.TransactionQuery{
		Kind:      query.Kind,
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return model.Window{}, nil, unavailable("failed to get user transactions from repo", err)
	}

	filtered := analytics.Filter(txs, analytics.Criteria{
		Search: query.Search,
		Tags:   analytics.NormalizeTags(query.Tags),
	})
	return window, filtered, nil
}

// afterWrite re-evaluates the budget month of each expense version, old and new.
func (s *transactionService) afterWrite(ctx context.Context, userID uuid.UUID, versions ...model.Transaction) {
	if s.budgets == nil {
		return
	}
	var months []model.MonthKey
	for _, t := range versions {
		if t.Kind != model.KindExpense {
			continue
		}
		if month := model.MonthKeyOf(t.OccurredOn); !slices.Contains(months, month) {
			months = append(months, month)
		}
	}
	for _, month := range months {
		s.budgets.CheckThreshold(ctx, userID, month)
	}
}

// checkLabelVariant rejects a label supplied for the wrong kind.
func checkLabelVariant(kind model.Kind, category, instrumentName string) error {
	if kind == model.KindInvestment {
		if category != "" {
			return invalid("category is not valid for an investment")
		}
		return nil
	}
	if instrumentName != "" {
		return invalid("instrument_name is only valid for an investment")
	}
	return nil
}

// normalizeTransaction sanitizes free text and validates the mutable fields in place.
func normalizeTransaction(t *model.Transaction) error {
	if err := validateAmount(t.Amount); err != nil {
		return err
	}
	if !t.OccurredOn.IsValid() {
		return invalid("occurred_on must be a valid calendar date")
	}

	label := validation.SanitizeText(t.Label())
	switch {
	case label == "" && t.Kind == model.KindInvestment:
		return invalid("instrument_name is required for an investment")
	case label == "":
		return invalid("category is required for %s", t.Kind)
	case utf8.RuneCountInString(label) > MaxLabelLength:
		return invalid("label must be at most %d characters", MaxLabelLength)
	}
	t.SetLabel(label)

	tags := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		tag = validation.SanitizeText(tag)
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return invalid("tag %q exceeds %d characters", tag, MaxTagLength)
		}
		tags = append(tags, tag)
	}
	t.Tags = analytics.NormalizeTags(tags)
	if len(t.Tags) > MaxTags {
		return invalid("at most %d tags are allowed", MaxTags)
	}

	t.Note = validation.SanitizeText(t.Note)
	if utf8.RuneCountInString(t.Note) > MaxNoteLength {
		return invalid("note must be at most %d characters", MaxNoteLength)
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalid("amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return invalid("amount must have at most two decimal places")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

