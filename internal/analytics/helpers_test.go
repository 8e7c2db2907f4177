package analytics

import (
	"testing"
	"time"

	"finance_tracker/internal/model"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var ist = FixedZone(330)

func date(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(kind model.Kind, amount, on, label string, tags ...string) model.Transaction {
	t := model.Transaction{
		ID:         uuid.New(),
		Kind:       kind,
		Amount:     dec(amount),
		OccurredOn: date(on),
		Tags:       tags,
	}
	t.SetLabel(label)
	return t
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "expected %s, got %s %v", want, got.String(), msgAndArgs)
}

func clockAt(rfc3339 string) func() time.Time {
	now, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return now }
}

func windowOf(start, end string) model.Window {
	n := NewNormalizer(ist)
	w, err := n.Between(date(start), date(end))
	if err != nil {
		panic(err)
	}
	return w
}
