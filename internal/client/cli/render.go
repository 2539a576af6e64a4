package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/dmitrijs2005/invoicekeeper/internal/totals"
	"github.com/fatih/color"
)

var statusColors = map[models.InvoiceStatus]*color.Color{
	models.StatusDraft:   color.New(color.FgHiBlack),
	models.StatusPending: color.New(color.FgYellow),
	models.StatusPaid:    color.New(color.FgGreen),
	models.StatusOverdue: color.New(color.FgRed, color.Bold),
}

// colorStatus renders the status name in its colour. Colours are dropped
// automatically when the output is not a terminal.
func colorStatus(s models.InvoiceStatus) string {
	c, ok := statusColors[s]
	if !ok {
		return s.String()
	}
	return c.Sprint(s.String())
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func (a *App) money(v float64) string {
	return totals.Format(v, a.config.Currency)
}

// printInvoice prints the template header above the invoice and its footer
// below. A zero tpl prints neither.
func (a *App) printInvoice(inv models.Invoice, clientName string, tpl models.Template, payments []models.Payment) {
	if tpl.Header != "" {
		fmt.Fprintln(a.out, tpl.Header)
		fmt.Fprintln(a.out)
	}
	fmt.Fprintf(a.out, "Invoice %s  [%s]\n", inv.Number, colorStatus(inv.Status))
	fmt.Fprintf(a.out, "Client:   %s\n", clientName)
	fmt.Fprintf(a.out, "Date:     %s   Due: %s\n", inv.Date, inv.DueDate)

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ITEM\tQTY\tPRICE\tTAX %\tAMOUNT")
	for _, it := range inv.Items {
		amount, _ := totals.Line(it)
		fmt.Fprintf(tw, "%s\t%g\t%s\t%g\t%s\n", it.Name, it.Quantity, a.money(it.Price), it.TaxRate, a.money(amount))
	}
	_ = tw.Flush()

	fmt.Fprintf(a.out, "Subtotal: %s\n", a.money(inv.Subtotal))
	fmt.Fprintf(a.out, "Tax:      %s\n", a.money(inv.Tax))
	fmt.Fprintf(a.out, "Total:    %s\n", a.money(inv.Total))
	if inv.Notes != "" {
		fmt.Fprintf(a.out, "Notes:    %s\n", inv.Notes)
	}

	for _, p := range payments {
		fmt.Fprintf(a.out, "Paid %s on %s via %s %s\n", a.money(p.Amount), p.Date, p.Method, p.Reference)
	}

	if tpl.Footer != "" {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, tpl.Footer)
	}
}
