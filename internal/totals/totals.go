// Package totals derives invoice money values from line items.
//
// Amounts are accumulated as exact decimals and converted to float64 once,
// so long invoices do not pick up binary rounding error line by line.
// Nothing is rounded here; rounding is a display concern (see Format).
package totals

import (
	"math"

	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals are the derived money values of an invoice.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Calculate returns subtotal, tax and total for items. Unset fields count as
// zero and no value is rejected, including tax rates above 100.
func Calculate(items []models.InvoiceItem) Totals {
	if !lo.EveryBy(items, finite) {
		return calculateFloat(items)
	}

	subtotal, tax := decimal.Zero, decimal.Zero
	for _, item := range items {
		amount, itemTax := line(item)
		subtotal = subtotal.Add(amount)
		tax = tax.Add(itemTax)
	}
	return Totals{
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    subtotal.Add(tax).InexactFloat64(),
	}
}

// Line returns the pre-tax amount and the tax of a single item.
func Line(item models.InvoiceItem) (amount, tax float64) {
	if !finite(item) {
		amount = item.Quantity * item.Price
		return amount, amount * item.TaxRate / 100
	}
	a, t := line(item)
	return a.InexactFloat64(), t.InexactFloat64()
}

func line(item models.InvoiceItem) (amount, tax decimal.Decimal) {
	amount = decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.Price))
	tax = amount.Mul(decimal.NewFromFloat(item.TaxRate)).Div(hundred)
	return amount, tax
}

// finite reports whether every factor of item fits into a decimal.
func finite(item models.InvoiceItem) bool {
	for _, v := range [...]float64{item.Quantity, item.Price, item.TaxRate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// calculateFloat handles items with NaN or infinite factors, which decimal
// cannot represent. Those values propagate into the result.
func calculateFloat(items []models.InvoiceItem) Totals {
	var subtotal, tax float64
	for _, item := range items {
		amount := item.Quantity * item.Price
		subtotal += amount
		tax += amount * item.TaxRate / 100
	}
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal + tax}
}

// Apply writes the totals of inv.Items into inv.
func Apply(inv models.Invoice) models.Invoice {
	t := Calculate(inv.Items)
	inv.Subtotal, inv.Tax, inv.Total = t.Subtotal, t.Tax, t.Total
	return inv
}
