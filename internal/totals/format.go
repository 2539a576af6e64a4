package totals

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders amount with two decimals followed by the currency code,
// for example "1234.50 EUR". An empty currency renders the number only.
func Format(amount float64, currency string) string {
	var s string
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		s = strconv.FormatFloat(amount, 'f', 2, 64)
	} else {
		s = decimal.NewFromFloat(amount).StringFixed(2)
	}
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return s
	}
	return s + " " + currency
}
