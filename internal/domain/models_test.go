package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipmentCost(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		want   string
	}{
		{"light parcel hits the floor", 1, "20"},
		{"zero weight hits the floor", 0, "20"},
		{"boundary weight equals the floor", 4, "20"},
		{"heavy parcel is linear", 10, "50"},
		{"fractional weight", 4.5, "22.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShipmentCost(tt.weight)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"ShipmentCost(%v) = %s, want %s", tt.weight, got, tt.want)
		})
	}
}

func TestNewShipmentCode(t *testing.T) {
	code := NewShipmentCode()
	require.Len(t, code, 13)
	assert.True(t, strings.HasPrefix(code, "SHP"))
	for _, c := range code[3:] {
		assert.Contains(t, idAlphabet, string(c))
	}
}

func TestNewPaymentCode(t *testing.T) {
	code := NewPaymentCode()
	require.Len(t, code, 14)
	assert.True(t, strings.HasPrefix(code, "PAY-"))
}

func TestCodesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := NewShipmentCode()
		require.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestValidShipmentStatus(t *testing.T) {
	for _, s := range []ShipmentStatus{ShipmentPending, ShipmentInTransit, ShipmentDelivered, ShipmentDelayed, ShipmentCancelled} {
		assert.True(t, ValidShipmentStatus(s), "%s should be valid", s)
	}
	assert.False(t, ValidShipmentStatus("pending"), "statuses are case sensitive")
	assert.False(t, ValidShipmentStatus("Shipped"))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(MethodMpesa))
	assert.True(t, ValidPaymentMethod(MethodCash))
	assert.True(t, ValidPaymentMethod(MethodCard))
	assert.False(t, ValidPaymentMethod("PayPal"))
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "BongoExpress", s.CompanyName)
	assert.True(t, s.EmailAlertsNewShipments)
	assert.False(t, s.DarkMode)
	assert.Equal(t, "yellow", s.AccentColor)
}
