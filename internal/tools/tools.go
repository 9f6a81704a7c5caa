package tools

import (
	"github.com/shopspring/decimal"
)

const (
	MoneyPlaces    int32 = 2
	QuantityPlaces int32 = 4
	PercentPlaces  int32 = 2
)

// Round rounds half away from zero on the decimal representation of number,
// so 1.005 becomes 1.01 instead of the 1.00 a float multiply would give.
func Round(number float64, places int32) float64 {
	return decimal.NewFromFloat(number).Round(places).InexactFloat64()
}

func RoundMoney(number float64) float64 {
	return Round(number, MoneyPlaces)
}

func RoundQuantity(number float64) float64 {
	return Round(number, QuantityPlaces)
}

// Amount is the decimal string of number with exactly places digits.
func Amount(number float64, places int32) string {
	return decimal.NewFromFloat(number).StringFixed(places)
}
