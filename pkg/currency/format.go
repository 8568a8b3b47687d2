package currency

import (
	"fmt"
	"strconv"
)

// Scale selects the decimal precision of a formatted price.
type Scale int

const (
	// ScaleHourly formats sub-unit hourly rates with four decimal places.
	ScaleHourly Scale = iota
	// ScaleMonthly formats whole-unit rates with two decimal places.
	ScaleMonthly
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CHF": "CHF ",
	"CAD": "C$",
	"AUD": "A$",
}

// suffixCurrencies place the symbol after the amount.
var suffixCurrencies = map[string]string{
	"SEK": " kr",
	"NOK": " kr",
	"DKK": " kr",
}

// Format renders an amount for display. Formatting is a presentation concern
// layered on top of conversion: JPY carries no decimals, Scandinavian kroner
// place the unit after the amount, everything else gets a prefixed symbol.
func Format(amount float64, code string, scale Scale) string {
	decimals := 2
	if scale == ScaleHourly {
		decimals = 4
	}

	if code == "JPY" {
		decimals = 0
	}

	rendered := strconv.FormatFloat(amount, 'f', decimals, 64)

	if suffix, ok := suffixCurrencies[code]; ok {
		return rendered + suffix
	}

	symbol, ok := symbols[code]
	if !ok {
		return fmt.Sprintf("%s %s", rendered, code)
	}

	return symbol + rendered
}
