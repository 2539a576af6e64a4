// Package export renders invoice registers as XLSX workbooks.
package export

import (
	"fmt"

	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet is the name of the register worksheet.
const Sheet = "Invoices"

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InvoicesXLSX returns a workbook with one row per invoice followed by a
// totals row. Client names are resolved from clients; unknown ids are printed
// as-is.
func InvoicesXLSX(invoices []models.Invoice, clients []models.Client, currency string) ([]byte, error) {
	names := lo.SliceToMap(clients, func(c models.Client) (string, string) { return c.ID, c.Name })

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), Sheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	headers := []string{
		"Number",
		"Date",
		"Due date",
		"Client",
		"Status",
		"Subtotal (" + currency + ")",
		"Tax (" + currency + ")",
		"Total (" + currency + ")",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(Sheet, cell, h)
	}

	row := 2
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(Sheet, cell, v)
	}

	subtotal, tax, total := decimal.Zero, decimal.Zero, decimal.Zero
	for _, inv := range invoices {
		write(1, inv.Number)
		write(2, inv.Date)
		write(3, inv.DueDate)
		write(4, lo.ValueOr(names, inv.ClientID, inv.ClientID))
		write(5, inv.Status.String())
		write(6, inv.Subtotal)
		write(7, inv.Tax)
		write(8, inv.Total)

		subtotal = subtotal.Add(decimal.NewFromFloat(inv.Subtotal))
		tax = tax.Add(decimal.NewFromFloat(inv.Tax))
		total = total.Add(decimal.NewFromFloat(inv.Total))
		row++
	}

	write(1, "Total")
	write(6, subtotal.InexactFloat64())
	write(7, tax.InexactFloat64())
	write(8, total.InexactFloat64())

	_ = f.SetColWidth(Sheet, "A", "A", 12)
	_ = f.SetColWidth(Sheet, "B", "C", 12)
	_ = f.SetColWidth(Sheet, "D", "D", 32)
	_ = f.SetColWidth(Sheet, "E", "E", 10)
	_ = f.SetColWidth(Sheet, "F", "H", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
