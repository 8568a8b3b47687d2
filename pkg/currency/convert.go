package currency

import (
	"math"

	"github.com/shopspring/decimal"
)

// USD is the pivot currency of every rate table.
const USD = "USD"

// RateTable maps a currency code to the USD value of one unit of that
// currency. USD is always present with rate 1.0.
type RateTable map[string]float64

// FallbackRates is the static table used whenever live rates are unavailable.
// Approximate, updated manually as needed.
var FallbackRates = RateTable{
	"USD": 1.0,
	"EUR": 1.10,
	"GBP": 1.25,
	"SEK": 0.095,
	"NOK": 0.094,
	"DKK": 0.147,
	"CHF": 1.05,
	"CAD": 0.74,
	"AUD": 0.65,
	"JPY": 0.0067,
}

// Clone returns a copy of the table so callers can hold one without racing
// against refreshes.
func (t RateTable) Clone() RateTable {
	out := make(RateTable, len(t))
	for code, rate := range t {
		out[code] = rate
	}

	return out
}

// Convert converts amount from one currency to another using the given table.
// It is a pure function and never fails: when either currency is missing from
// the table, the amount is returned unchanged and the second return value is
// false so the caller can decide whether to warn.
func Convert(amount float64, from, to string, table RateTable) (float64, bool) {
	if from == to {
		return amount, true
	}

	fromRate, fromOK := table[from]
	toRate, toOK := table[to]

	if !fromOK || !toOK || fromRate <= 0 || toRate <= 0 || math.IsNaN(amount) {
		return amount, false
	}

	inUSD := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(fromRate))
	converted, _ := inUSD.Div(decimal.NewFromFloat(toRate)).Float64()

	return converted, true
}

// ToUSD converts amount from the given currency to USD.
func ToUSD(amount float64, from string, table RateTable) (float64, bool) {
	return Convert(amount, from, USD, table)
}

// RoundHourly rounds a sub-unit hourly rate to six decimal places.
func RoundHourly(amount float64) float64 {
	out, _ := decimal.NewFromFloat(amount).Round(6).Float64()

	return out
}

// RoundMonthly rounds a monthly rate to two decimal places.
func RoundMonthly(amount float64) float64 {
	out, _ := decimal.NewFromFloat(amount).Round(2).Float64()

	return out
}
