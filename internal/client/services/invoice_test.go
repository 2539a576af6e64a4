package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestNextNumber(t *testing.T) {
	tests := []struct {
		name     string
		existing []models.Invoice
		want     string
	}{
		{name: "first", want: "INV-0001"},
		{name: "after highest", existing: []models.Invoice{{Number: "INV-0002"}, {Number: "INV-0007"}}, want: "INV-0008"},
		{name: "foreign numbers ignored", existing: []models.Invoice{{Number: "2024/17"}, {Number: "INV-0003"}}, want: "INV-0004"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextNumber(tt.existing))
		})
	}
}

func TestInvoices_CreateDefaultsAndTotals(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)
	c := e.addClient(t, "u1", "Acme")
	svc := e.invoices(fixedNow)

	inv, err := svc.Create(ctx, "u1", InvoiceDraft{
		ClientID: c.ID,
		Items: []models.InvoiceItem{
			{Name: "A", Quantity: 2, Price: 10, TaxRate: 10},
			{Name: "B", Quantity: 1, Price: 5, TaxRate: 0},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", inv.Number)
	assert.Equal(t, models.StatusDraft, inv.Status)
	assert.Equal(t, "2026-03-10", inv.Date)
	assert.Equal(t, "2026-04-09", inv.DueDate)
	assert.Equal(t, 25.0, inv.Subtotal)
	assert.Equal(t, 2.0, inv.Tax)
	assert.Equal(t, 27.0, inv.Total)
	assert.Equal(t, "u1", inv.UserID)

	second, err := svc.Create(ctx, "u1", InvoiceDraft{
		ClientID: c.ID,
		Items:    []models.InvoiceItem{{Name: "C", Quantity: 1, Price: 1}},
		Status:   models.StatusPending,
		Date:     "2026-01-01",
		DueDate:  "2026-01-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", second.Number)
	assert.Equal(t, models.StatusPending, second.Status)
	assert.Equal(t, "2026-01-15", second.DueDate)
}

func TestInvoices_NumberingIsPerUser(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)
	svc := e.invoices(fixedNow)
	items := []models.InvoiceItem{{Name: "A", Quantity: 1, Price: 1}}

	c1 := e.addClient(t, "u1", "Acme")
	c2 := e.addClient(t, "u2", "Globex")

	_, err := svc.Create(ctx, "u1", InvoiceDraft{ClientID: c1.ID, Items: items})
	require.NoError(t, err)
	inv, err := svc.Create(ctx, "u2", InvoiceDraft{ClientID: c2.ID, Items: items})
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", inv.Number)
}

func TestInvoices_CreateRejects(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)
	c := e.addClient(t, "u1", "Acme")
	other := e.addClient(t, "u2", "Globex")
	svc := e.invoices(fixedNow)

	tests := []struct {
		name  string
		draft InvoiceDraft
		want  error
	}{
		{name: "no items", draft: InvoiceDraft{ClientID: c.ID}, want: common.ErrInvalidInput},
		{name: "fractional quantity", draft: InvoiceDraft{ClientID: c.ID,
			Items: []models.InvoiceItem{{Name: "A", Quantity: 1.5, Price: 1}}}, want: common.ErrInvalidInput},
		{name: "tax rate above 100", draft: InvoiceDraft{ClientID: c.ID,
			Items: []models.InvoiceItem{{Name: "A", Quantity: 1, Price: 1, TaxRate: 101}}}, want: common.ErrInvalidInput},
		{name: "bad date", draft: InvoiceDraft{ClientID: c.ID, Date: "10/03/2026",
			Items: []models.InvoiceItem{{Name: "A", Quantity: 1, Price: 1}}}, want: common.ErrInvalidInput},
		{name: "client of another user", draft: InvoiceDraft{ClientID: other.ID,
			Items: []models.InvoiceItem{{Name: "A", Quantity: 1, Price: 1}}}, want: common.ErrNotFound},
		{name: "unknown template", draft: InvoiceDraft{ClientID: c.ID, TemplateID: "missing",
			Items: []models.InvoiceItem{{Name: "A", Quantity: 1, Price: 1}}}, want: common.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "u1", tt.draft)
			require.ErrorIs(t, err, tt.want)
		})
	}

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInvoices_UpdateItemsRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)
	c := e.addClient(t, "u1", "Acme")
	svc := e.invoices(fixedNow)

	inv, err := svc.Create(ctx, "u1", InvoiceDraft{ClientID: c.ID,
		Items: []models.InvoiceItem{{Name: "A", Quantity: 1, Price: 100, TaxRate: 20}}})
	require.NoError(t, err)

	upd, err := svc.UpdateItems(ctx, "u1", inv.ID, []models.InvoiceItem{
		{Name: "A", Quantity: 3, Price: 100, TaxRate: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, upd.Subtotal)
	assert.Equal(t, 60.0, upd.Tax)
	assert.Equal(t, 360.0, upd.Total)
	assert.Equal(t, inv.Meta, upd.Meta)
	assert.Equal(t, inv.Number, upd.Number)

	_, err = svc.UpdateItems(ctx, "u1", inv.ID, nil)
	require.ErrorIs(t, err, common.ErrInvalidInput)

	got, err := svc.Get(ctx, "u1", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 360.0, got.Total, "rejected update leaves the invoice as it was")
}

func TestInvoices_PatchAndStatus(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)
	c := e.addClient(t, "u1", "Acme")
	svc := e.invoices(fixedNow)

	inv, err := svc.Create(ctx, "u1", InvoiceDraft{ClientID: c.ID,
		Items: []models.InvoiceItem{{Name: "A", Quantity: 1, Price: 10}}})
	require.NoError(t, err)

	upd, err := svc.Patch(ctx, "u1", inv.ID, models.InvoicePatch{Notes: lo.ToPtr("thanks")})
	require.NoError(t, err)
	assert.Equal(t, "thanks", upd.Notes)
	assert.Equal(t, inv.Total, upd.Total)

	upd, err = svc.SetStatus(ctx, "u1", inv.ID, models.StatusOverdue)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOverdue, upd.Status)

	_, err = svc.SetStatus(ctx, "u1", inv.ID, models.InvoiceStatus("lost"))
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.SetStatus(ctx, "u2", inv.ID, models.StatusPaid)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.Patch(ctx, "u1", inv.ID, models.InvoicePatch{ClientID: lo.ToPtr("missing")})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestInvoices_PaymentsSettleInvoice(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)
	c := e.addClient(t, "u1", "Acme")
	svc := e.invoices(fixedNow)

	inv, err := svc.Create(ctx, "u1", InvoiceDraft{ClientID: c.ID, Status: models.StatusPending,
		Items: []models.InvoiceItem{{Name: "A", Quantity: 1, Price: 100, TaxRate: 21}}})
	require.NoError(t, err)

	p, err := svc.RecordPayment(ctx, "u1", inv.ID, 21, "bank", "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", p.Date)

	got, err := svc.Get(ctx, "u1", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)

	_, err = svc.RecordPayment(ctx, "u1", inv.ID, 100, "card", "")
	require.NoError(t, err)

	got, err = svc.Get(ctx, "u1", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, got.Status)

	payments, err := svc.Payments(ctx, "u1", inv.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "ref-1", payments[0].Reference)

	_, err = svc.RecordPayment(ctx, "u1", inv.ID, 0, "cash", "")
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.RecordPayment(ctx, "u1", "missing", 5, "cash", "")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestInvoices_DeleteCascadesPayments(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)
	c := e.addClient(t, "u1", "Acme")
	svc := e.invoices(fixedNow)
	items := []models.InvoiceItem{{Name: "A", Quantity: 1, Price: 50}}

	keep, err := svc.Create(ctx, "u1", InvoiceDraft{ClientID: c.ID, Items: items})
	require.NoError(t, err)
	drop, err := svc.Create(ctx, "u1", InvoiceDraft{ClientID: c.ID, Items: items})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, "u1", keep.ID, 10, "cash", "")
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, "u1", drop.ID, 10, "cash", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "u1", drop.ID))
	require.ErrorIs(t, svc.Delete(ctx, "u1", drop.ID), common.ErrNotFound)

	all, err := e.repos.Payments.GetAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].InvoiceID)
}

func TestInvoices_Summary(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)
	c := e.addClient(t, "u1", "Acme")
	svc := e.invoices(fixedNow)

	mk := func(price float64, status models.InvoiceStatus) models.Invoice {
		inv, err := svc.Create(ctx, "u1", InvoiceDraft{ClientID: c.ID, Status: status,
			Items: []models.InvoiceItem{{Name: "A", Quantity: 1, Price: price}}})
		require.NoError(t, err)
		return inv
	}
	mk(100, models.StatusDraft)
	pending := mk(200, models.StatusPending)
	mk(50, models.StatusPending)

	_, err := svc.RecordPayment(ctx, "u1", pending.ID, 80, "bank", "")
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, StatusSummary{Count: 1, Total: 100}, sum.ByStatus[models.StatusDraft])
	assert.Equal(t, StatusSummary{Count: 2, Total: 250}, sum.ByStatus[models.StatusPending])
	assert.Equal(t, 350.0, sum.Invoiced)
	assert.Equal(t, 80.0, sum.Received)
	assert.Equal(t, 270.0, sum.Outstanding)

	empty, err := svc.Summary(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty.ByStatus)
	assert.Zero(t, empty.Outstanding)
}

func TestInvoices_NonFiniteNumbersRejected(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)
	c := e.addClient(t, "u1", "Acme")
	svc := e.invoices(fixedNow)

	var err error
	assert.NotPanics(t, func() {
		_, err = svc.Create(ctx, "u1", InvoiceDraft{ClientID: c.ID,
			Items: []models.InvoiceItem{{Name: "A", Quantity: 1, Price: math.NaN()}}})
	})
	require.ErrorIs(t, err, common.ErrInvalidInput)

	inv, err := svc.Create(ctx, "u1", InvoiceDraft{ClientID: c.ID,
		Items: []models.InvoiceItem{{Name: "A", Quantity: 1, Price: 10}}})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		_, err = svc.UpdateItems(ctx, "u1", inv.ID, []models.InvoiceItem{{Name: "A", Quantity: math.Inf(1), Price: 10}})
	})
	require.ErrorIs(t, err, common.ErrInvalidInput)

	got, err := svc.Get(ctx, "u1", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Total)
}

func TestInvoices_Templates(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)
	c := e.addClient(t, "u1", "Acme")
	svc := e.invoices(fixedNow)
	items := []models.InvoiceItem{{Name: "A", Quantity: 1, Price: 1}}

	plain, err := svc.Create(ctx, "u1", InvoiceDraft{ClientID: c.ID, Items: items})
	require.NoError(t, err)
	assert.Empty(t, plain.TemplateID, "no default template yet")

	def, err := e.templates().Add(ctx, "u1", models.Template{Name: "Std", Default: true})
	require.NoError(t, err)
	foreign, err := e.templates().Add(ctx, "u2", models.Template{Name: "Theirs"})
	require.NoError(t, err)

	inv, err := svc.Create(ctx, "u1", InvoiceDraft{ClientID: c.ID, Items: items})
	require.NoError(t, err)
	assert.Equal(t, def.ID, inv.TemplateID)

	_, err = svc.Patch(ctx, "u1", plain.ID, models.InvoicePatch{TemplateID: lo.ToPtr(foreign.ID)})
	require.ErrorIs(t, err, common.ErrNotFound)

	got, err := svc.Get(ctx, "u1", plain.ID)
	require.NoError(t, err)
	assert.Empty(t, got.TemplateID)

	upd, err := svc.Patch(ctx, "u1", plain.ID, models.InvoicePatch{TemplateID: lo.ToPtr(def.ID)})
	require.NoError(t, err)
	assert.Equal(t, def.ID, upd.TemplateID)
}
