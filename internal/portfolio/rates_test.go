package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRates_Rate(t *testing.T) {
	tests := []struct {
		name     string
		table    map[string]float64
		currency string
		expected float64
		found    bool
	}{
		{name: "base", currency: "ARS", expected: 1, found: true},
		{name: "empty currency", currency: "", expected: 1, found: true},
		{name: "direct", table: map[string]float64{"USD": 1050.5}, currency: "USD", expected: 1050.5, found: true},
		{name: "pair", table: map[string]float64{"USD_ARS": 1050.5}, currency: "USD", expected: 1050.5, found: true},
		{name: "inverse pair", table: map[string]float64{"ARS_EUR": 0.001}, currency: "EUR", expected: 1000, found: true},
		{name: "direct wins over pair", table: map[string]float64{"USD": 2, "USD_ARS": 3}, currency: "USD", expected: 2, found: true},
		{name: "missing", table: map[string]float64{"USD_ARS": 1050.5}, currency: "EUR", expected: 0, found: false},
		{name: "non-positive ignored", table: map[string]float64{"USD_ARS": 0}, currency: "USD", expected: 0, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, ok := NewRates("ARS", tt.table).Rate(tt.currency)
			assert.Equal(t, tt.found, ok)
			assert.InDelta(t, tt.expected, rate, 1e-9)
		})
	}
}

func TestRates_ToBase(t *testing.T) {
	rates := NewRates("ARS", map[string]float64{"USD_ARS": 1000})

	assert.InDelta(t, 195_000, rates.ToBase(195, "USD"), 1e-9)
	assert.InDelta(t, 850, rates.ToBase(850, "ARS"), 1e-9)
	assert.Zero(t, rates.ToBase(10, "BRL"))
	assert.Equal(t, "ARS", rates.Base())
}
