package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/client/services"
	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/export"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

func (a *App) clientNames(ctx context.Context) (map[string]string, []models.Client, error) {
	clients, err := a.clientService.List(ctx, a.user.ID)
	if err != nil {
		return nil, nil, err
	}
	return lo.SliceToMap(clients, func(c models.Client) (string, string) { return c.ID, c.Name }), clients, nil
}

func (a *App) Invoices(ctx context.Context) error {
	list, err := a.invoiceService.List(ctx, a.user.ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No invoices yet, use addinvoice")
		return nil
	}
	names, _, err := a.clientNames(ctx)
	if err != nil {
		return err
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tNUMBER\tDATE\tDUE\tCLIENT\tSTATUS\tTOTAL")
	for _, inv := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", inv.ID, inv.Number, inv.Date, inv.DueDate,
			lo.ValueOr(names, inv.ClientID, inv.ClientID), colorStatus(inv.Status), a.money(inv.Total))
	}
	return tw.Flush()
}

// AddInvoice collects the client, the template, the lines and the dates of a
// new invoice.
func (a *App) AddInvoice(ctx context.Context) error {
	clientID, err := getSimpleText(a.reader, "Enter client id", a.out)
	if err != nil {
		return err
	}
	templateID, err := getSimpleText(a.reader, "Enter template id (empty for the default template)", a.out)
	if err != nil {
		return err
	}

	items, err := a.readItems(ctx)
	if err != nil {
		return err
	}

	dueDate, err := getSimpleText(a.reader, fmt.Sprintf("Enter due date YYYY-MM-DD (empty for %d days)", a.config.DueDays), a.out)
	if err != nil {
		return err
	}
	notes, err := getSimpleText(a.reader, "Enter notes (optional)", a.out)
	if err != nil {
		return err
	}

	inv, err := a.invoiceService.Create(ctx, a.user.ID, services.InvoiceDraft{
		ClientID:   clientID,
		TemplateID: templateID,
		Items:      items,
		DueDate:    dueDate,
		Notes:      notes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Invoice %s created (%s), total %s\n", inv.Number, inv.ID, a.money(inv.Total))
	return nil
}

// EditItems replaces all lines of an invoice. Totals are recomputed.
func (a *App) EditItems(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter invoice id", a.out)
	if err != nil {
		return err
	}
	if _, err := a.invoiceService.Get(ctx, a.user.ID, id); err != nil {
		return err
	}

	items, err := a.readItems(ctx)
	if err != nil {
		return err
	}

	inv, err := a.invoiceService.UpdateItems(ctx, a.user.ID, id, items)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Invoice %s now has %d line(s), total %s\n", inv.Number, len(inv.Items), a.money(inv.Total))
	return nil
}

// EditInvoice changes the dates, notes and template of an invoice.
func (a *App) EditInvoice(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter invoice id to edit", a.out)
	if err != nil {
		return err
	}
	cur, err := a.invoiceService.Get(ctx, a.user.ID, id)
	if err != nil {
		return err
	}

	var p models.InvoicePatch
	if p.Date, err = getOptionalText(a.reader, "Date YYYY-MM-DD", cur.Date, a.out); err != nil {
		return err
	}
	if p.DueDate, err = getOptionalText(a.reader, "Due date YYYY-MM-DD", cur.DueDate, a.out); err != nil {
		return err
	}
	if p.Notes, err = getOptionalText(a.reader, "Notes", cur.Notes, a.out); err != nil {
		return err
	}
	if p.TemplateID, err = getOptionalText(a.reader, "Template id", cur.TemplateID, a.out); err != nil {
		return err
	}

	inv, err := a.invoiceService.Patch(ctx, a.user.ID, id, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Invoice %s updated\n", inv.Number)
	return nil
}

// readItems reads invoice lines until an empty line. A line is either a
// product id, which copies name, price and tax rate from the catalogue, or
// free text followed by its own price and tax rate.
func (a *App) readItems(ctx context.Context) ([]models.InvoiceItem, error) {
	var items []models.InvoiceItem
	for {
		ref, err := getSimpleText(a.reader, "Enter product id or item description (empty line to finish)", a.out)
		if err != nil {
			return nil, err
		}
		if ref == "" {
			return items, nil
		}

		item, err := a.readItem(ctx, ref)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (a *App) readItem(ctx context.Context, ref string) (models.InvoiceItem, error) {
	var item models.InvoiceItem

	product, err := a.productService.Get(ctx, a.user.ID, ref)
	switch {
	case err == nil:
		item = product.Item(0)
	case errors.Is(err, common.ErrNotFound):
		item.Name = ref
		if item.Price, err = GetNumber(a.reader, "Enter unit price", 0, a.out); err != nil {
			return item, err
		}
		if item.TaxRate, err = GetNumber(a.reader, "Enter tax rate in percent (empty for 0)", 0, a.out); err != nil {
			return item, err
		}
	default:
		return item, err
	}

	item.Quantity, err = GetNumber(a.reader, "Enter quantity (empty for 1)", 1, a.out)
	return item, err
}

func (a *App) Show(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter invoice id to show", a.out)
	if err != nil {
		return err
	}

	inv, err := a.invoiceService.Get(ctx, a.user.ID, id)
	if err != nil {
		return err
	}
	payments, err := a.invoiceService.Payments(ctx, a.user.ID, id)
	if err != nil {
		return err
	}
	names, _, err := a.clientNames(ctx)
	if err != nil {
		return err
	}

	var tpl models.Template
	if inv.TemplateID != "" {
		tpl, err = a.templateService.Get(ctx, a.user.ID, inv.TemplateID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
	}

	a.printInvoice(inv, lo.ValueOr(names, inv.ClientID, inv.ClientID), tpl, payments)
	return nil
}

func (a *App) SetStatus(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter invoice id", a.out)
	if err != nil {
		return err
	}
	s, err := getSimpleText(a.reader, "Enter new status (draft, pending, paid, overdue)", a.out)
	if err != nil {
		return err
	}
	status, err := models.ParseInvoiceStatus(s)
	if err != nil {
		return err
	}

	inv, err := a.invoiceService.SetStatus(ctx, a.user.ID, id, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Invoice %s is now %s\n", inv.Number, colorStatus(inv.Status))
	return nil
}

func (a *App) Pay(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter invoice id", a.out)
	if err != nil {
		return err
	}
	amount, err := GetNumber(a.reader, "Enter amount", 0, a.out)
	if err != nil {
		return err
	}
	method, err := getSimpleText(a.reader, "Enter payment method, e.g. bank, card, cash", a.out)
	if err != nil {
		return err
	}
	reference, err := getSimpleText(a.reader, "Enter reference (optional)", a.out)
	if err != nil {
		return err
	}

	if _, err := a.invoiceService.RecordPayment(ctx, a.user.ID, id, amount, method, reference); err != nil {
		return err
	}

	inv, err := a.invoiceService.Get(ctx, a.user.ID, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Payment of %s recorded, invoice %s is %s\n", a.money(amount), inv.Number, colorStatus(inv.Status))
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter invoice id to delete", a.out)
	if err != nil {
		return err
	}
	if err := a.invoiceService.Delete(ctx, a.user.ID, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Invoice deleted")
	return nil
}

func (a *App) Summary(ctx context.Context) error {
	sum, err := a.invoiceService.Summary(ctx, a.user.ID)
	if err != nil {
		return err
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "STATUS\tCOUNT\tTOTAL")
	for _, st := range models.Statuses {
		s := sum.ByStatus[st]
		fmt.Fprintf(tw, "%s\t%d\t%s\n", colorStatus(st), s.Count, a.money(s.Total))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Invoiced:    %s\n", a.money(sum.Invoiced))
	fmt.Fprintf(a.out, "Received:    %s\n", a.money(sum.Received))
	fmt.Fprintf(a.out, "Outstanding: %s\n", a.money(sum.Outstanding))
	return nil
}

// Export writes the invoice register to the configured export storage.
func (a *App) Export(ctx context.Context) error {
	invoices, err := a.invoiceService.List(ctx, a.user.ID)
	if err != nil {
		return err
	}
	_, clients, err := a.clientNames(ctx)
	if err != nil {
		return err
	}

	data, err := export.InvoicesXLSX(invoices, clients, a.config.Currency)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("invoices-%s.xlsx", time.Now().Format("20060102"))
	path, err := a.exports.Upload(ctx, uuid.New(), name, bytes.NewReader(data))
	if err != nil {
		return err
	}

	a.log.Info(ctx, "invoices exported", "rows", len(invoices), "path", path)
	fmt.Fprintf(a.out, "Exported %d invoice(s) to %s\n", len(invoices), path)
	return nil
}
