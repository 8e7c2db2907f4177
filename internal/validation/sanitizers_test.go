package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Groceries", "Groceries"},
		{"trims", "  Rent  ", "Rent"},
		{"strips tags", "<b>Fuel</b><script>alert(1)</script>", "Fuel"},
		{"keeps ampersand", "Food & Drinks", "Food & Drinks"},
		{"drops control chars", "Bo\x00nus", "Bonus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.in))
		})
	}
}

func TestSanitizeForFormulaInjection(t *testing.T) {
	assert.Equal(t, "'=SUM(A1:A3)", SanitizeForFormulaInjection("=SUM(A1:A3)"))
	assert.Equal(t, "' @cmd", SanitizeForFormulaInjection(" @cmd"))
	assert.Equal(t, "'-10", SanitizeForFormulaInjection("-10"))
	assert.Equal(t, "Salary", SanitizeForFormulaInjection("Salary"))
	assert.Equal(t, "", SanitizeForFormulaInjection(""))
}
