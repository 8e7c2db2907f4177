package service

import (
	"errors"
	"fmt"

	"finance_tracker/internal/model"
)

var (
	ErrTransactionNotFound = fmt.Errorf("transaction %w", model.ErrNotFound)
	ErrBudgetNotFound      = fmt.Errorf("budget %w", model.ErrNotFound)
	ErrForbidden           = errors.New("forbidden: user does not have permission for this action")
)

// unavailable marks a store failure as data unavailable while keeping the cause.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrDataUnavailable, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrInvalidArgument, fmt.Sprintf(format, args...))
}
