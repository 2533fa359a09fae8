package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		places   int32
		want     string
	}{
		{"plain", "1234.5", "KES", 2, "1,234.50 KES"},
		{"no currency", "99.999", "", 2, "100.00"},
		{"rounds half up", "10.005", "KES", 2, "10.01 KES"},
		{"millions", "1234567.89", "USD", 2, "1,234,567.89 USD"},
		{"zero places", "42.4", "IQD", 0, "42 IQD"},
		{"negative", "-1500", "KES", 2, "-1,500.00 KES"},
		{"zero", "0", "KES", 2, "0.00 KES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.want, Format(amount, tt.currency, tt.places))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    string
		wantErr bool
	}{
		{"plain", "1234.50", "1234.5", false},
		{"grouped", "1,234,567.89", "1234567.89", false},
		{"trailing currency", "1,500.00 KES", "1500", false},
		{"leading symbol", "$42.10", "42.1", false},
		{"whitespace", "  99.90 ", "99.9", false},
		{"negative", "-250.00", "-250", false},
		{"empty", "", "", true},
		{"garbage", "abc", "", true},
		{"double dot", "1.2.3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.display)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestMinorUnitsRoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("103.50")
	minor := ToMinorUnits(amount, 2)
	require.EqualValues(t, 10350, minor)
	assert.True(t, amount.Equal(FromMinorUnits(minor, 2)))
}
