package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/kv"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/dmitrijs2005/invoicekeeper/internal/records"
	"github.com/dmitrijs2005/invoicekeeper/internal/totals"
	"github.com/dmitrijs2005/invoicekeeper/internal/validation"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// InvoiceDraft is the caller-supplied part of a new invoice. Number, totals
// and identity are filled in by the service. An empty TemplateID selects the
// user's default template, if there is one.
type InvoiceDraft struct {
	ClientID   string
	TemplateID string
	Items      []models.InvoiceItem
	Status     models.InvoiceStatus
	Date       string
	DueDate    string
	Notes      string
}

// StatusSummary aggregates the invoices in one status.
type StatusSummary struct {
	Count int
	Total float64
}

// Summary is the bookkeeping overview of one user.
type Summary struct {
	ByStatus map[models.InvoiceStatus]StatusSummary
	// Invoiced is the sum of all invoice totals.
	Invoiced float64
	// Received is the sum of all recorded payments.
	Received float64
	// Outstanding is what is still owed on invoices that are not paid.
	Outstanding float64
}

type InvoiceService interface {
	Create(ctx context.Context, userID string, d InvoiceDraft) (models.Invoice, error)
	UpdateItems(ctx context.Context, userID, id string, items []models.InvoiceItem) (models.Invoice, error)
	Patch(ctx context.Context, userID, id string, p models.InvoicePatch) (models.Invoice, error)
	SetStatus(ctx context.Context, userID, id string, status models.InvoiceStatus) (models.Invoice, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]models.Invoice, error)
	Get(ctx context.Context, userID, id string) (models.Invoice, error)
	RecordPayment(ctx context.Context, userID, invoiceID string, amount float64, method, reference string) (models.Payment, error)
	Payments(ctx context.Context, userID, invoiceID string) ([]models.Payment, error)
	Summary(ctx context.Context, userID string) (Summary, error)
}

type invoiceService struct {
	store     kv.Store
	repos     *records.Repositories
	validator *validation.Validator
	log       logging.Logger

	dueDays int
	now     func() time.Time
}

// NewInvoiceService constructs an InvoiceService. New invoices without a due
// date are due dueDays after their date.
func NewInvoiceService(store kv.Store, repos *records.Repositories, v *validation.Validator, log logging.Logger, dueDays int) InvoiceService {
	return &invoiceService{
		store:     store,
		repos:     repos,
		validator: v,
		log:       log.With("service", "invoices"),
		dueDays:   dueDays,
		now:       time.Now,
	}
}

const numberPrefix = "INV-"

// nextNumber returns the number following the highest existing one, so
// numbers are not reused after a delete.
func nextNumber(existing []models.Invoice) string {
	highest := 0
	for _, inv := range existing {
		var n int
		if _, err := fmt.Sscanf(inv.Number, numberPrefix+"%d", &n); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%04d", numberPrefix, highest+1)
}

func (s *invoiceService) Create(ctx context.Context, userID string, d InvoiceDraft) (models.Invoice, error) {
	inv := models.Invoice{
		Meta:       models.Meta{UserID: userID},
		ClientID:   d.ClientID,
		TemplateID: d.TemplateID,
		Items:      d.Items,
		Status:     lo.CoalesceOrEmpty(d.Status, models.StatusDraft),
		Date:       lo.CoalesceOrEmpty(strings.TrimSpace(d.Date), s.now().Format(models.DateLayout)),
		DueDate:    strings.TrimSpace(d.DueDate),
		Notes:      d.Notes,
	}
	if inv.DueDate == "" {
		date, err := time.Parse(models.DateLayout, inv.Date)
		if err != nil {
			return models.Invoice{}, fmt.Errorf("%w: date %q", common.ErrInvalidInput, inv.Date)
		}
		inv.DueDate = date.AddDate(0, 0, s.dueDays).Format(models.DateLayout)
	}
	if err := s.validator.Invoice(inv); err != nil {
		return models.Invoice{}, err
	}
	inv = totals.Apply(inv)

	var created models.Invoice
	err := inTx(ctx, s.store, func(ctx context.Context, r *records.Repositories) error {
		if _, err := getOwned(ctx, r.Clients, userID, inv.ClientID); err != nil {
			return fmt.Errorf("client %s: %w", inv.ClientID, err)
		}
		if inv.TemplateID != "" {
			if _, err := getOwned(ctx, r.Templates, userID, inv.TemplateID); err != nil {
				return fmt.Errorf("template %s: %w", inv.TemplateID, err)
			}
		} else {
			tpl, err := defaultTemplate(ctx, r.Templates, userID)
			if err != nil {
				return err
			}
			if t, ok := tpl.Get(); ok {
				inv.TemplateID = t.ID
			}
		}

		existing, err := r.Invoices.GetAll(ctx, userID)
		if err != nil {
			return err
		}
		inv.Number = nextNumber(existing)

		created, err = r.Invoices.Create(ctx, inv)
		return err
	})
	if err != nil {
		return models.Invoice{}, err
	}

	s.log.Info(ctx, "invoice created", "invoice_id", created.ID, "number", created.Number, "total", created.Total)
	return created, nil
}

// UpdateItems replaces the invoice lines and recomputes its totals.
func (s *invoiceService) UpdateItems(ctx context.Context, userID, id string, items []models.InvoiceItem) (models.Invoice, error) {
	patch := records.PatchFunc[models.Invoice](func(inv models.Invoice) models.Invoice {
		inv.Items = items
		return totals.Apply(inv)
	})
	return s.update(ctx, userID, id, patch)
}

func (s *invoiceService) Patch(ctx context.Context, userID, id string, p models.InvoicePatch) (models.Invoice, error) {
	return s.update(ctx, userID, id, p)
}

func (s *invoiceService) SetStatus(ctx context.Context, userID, id string, status models.InvoiceStatus) (models.Invoice, error) {
	return s.update(ctx, userID, id, models.InvoicePatch{Status: &status})
}

// update validates the patched invoice before anything is written.
func (s *invoiceService) update(ctx context.Context, userID, id string, p records.Patch[models.Invoice]) (models.Invoice, error) {
	var updated models.Invoice
	err := inTx(ctx, s.store, func(ctx context.Context, r *records.Repositories) error {
		cur, err := getOwned(ctx, r.Invoices, userID, id)
		if err != nil {
			return err
		}
		next := p.Apply(cur)
		if err := s.validator.Invoice(next); err != nil {
			return err
		}
		if next.ClientID != cur.ClientID {
			if _, err := getOwned(ctx, r.Clients, userID, next.ClientID); err != nil {
				return fmt.Errorf("client %s: %w", next.ClientID, err)
			}
		}
		if next.TemplateID != cur.TemplateID && next.TemplateID != "" {
			if _, err := getOwned(ctx, r.Templates, userID, next.TemplateID); err != nil {
				return fmt.Errorf("template %s: %w", next.TemplateID, err)
			}
		}
		opt, err := r.Invoices.Update(ctx, id, p)
		if err != nil {
			return err
		}
		updated = opt.MustGet()
		return nil
	})
	if err != nil {
		return models.Invoice{}, err
	}

	s.log.Debug(ctx, "invoice updated", "invoice_id", id, "status", updated.Status)
	return updated, nil
}

// Delete removes the invoice together with its payments.
func (s *invoiceService) Delete(ctx context.Context, userID, id string) error {
	err := inTx(ctx, s.store, func(ctx context.Context, r *records.Repositories) error {
		if _, err := getOwned(ctx, r.Invoices, userID, id); err != nil {
			return err
		}
		payments, err := r.Payments.GetAll(ctx, userID)
		if err != nil {
			return err
		}
		for _, p := range payments {
			if p.InvoiceID != id {
				continue
			}
			if _, err := r.Payments.Delete(ctx, p.ID); err != nil {
				return err
			}
		}
		_, err = r.Invoices.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "invoice deleted", "invoice_id", id)
	return nil
}

func (s *invoiceService) List(ctx context.Context, userID string) ([]models.Invoice, error) {
	return s.repos.Invoices.GetAll(ctx, userID)
}

func (s *invoiceService) Get(ctx context.Context, userID, id string) (models.Invoice, error) {
	return getOwned(ctx, s.repos.Invoices, userID, id)
}

// RecordPayment stores a payment against an invoice. Once the payments cover
// the invoice total, the invoice is marked paid.
func (s *invoiceService) RecordPayment(ctx context.Context, userID, invoiceID string, amount float64, method, reference string) (models.Payment, error) {
	p := models.Payment{
		Meta:      models.Meta{UserID: userID},
		InvoiceID: invoiceID,
		Amount:    amount,
		Method:    strings.TrimSpace(method),
		Date:      s.now().Format(models.DateLayout),
		Reference: strings.TrimSpace(reference),
	}
	if err := s.validator.Payment(p); err != nil {
		return models.Payment{}, err
	}

	var (
		created models.Payment
		settled bool
	)
	err := inTx(ctx, s.store, func(ctx context.Context, r *records.Repositories) error {
		inv, err := getOwned(ctx, r.Invoices, userID, invoiceID)
		if err != nil {
			return err
		}

		created, err = r.Payments.Create(ctx, p)
		if err != nil {
			return err
		}

		all, err := r.Payments.GetAll(ctx, userID)
		if err != nil {
			return err
		}
		paid := sumPayments(all, invoiceID)
		if inv.Status == models.StatusPaid || paid.LessThan(decimal.NewFromFloat(inv.Total)) {
			return nil
		}

		status := models.StatusPaid
		if _, err := r.Invoices.Update(ctx, invoiceID, models.InvoicePatch{Status: &status}); err != nil {
			return err
		}
		settled = true
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}

	s.log.Info(ctx, "payment recorded", "invoice_id", invoiceID, "amount", amount, "settled", settled)
	return created, nil
}

func (s *invoiceService) Payments(ctx context.Context, userID, invoiceID string) ([]models.Payment, error) {
	if _, err := s.Get(ctx, userID, invoiceID); err != nil {
		return nil, err
	}
	all, err := s.repos.Payments.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return lo.Filter(all, func(p models.Payment, _ int) bool { return p.InvoiceID == invoiceID }), nil
}

func (s *invoiceService) Summary(ctx context.Context, userID string) (Summary, error) {
	invoices, err := s.repos.Invoices.GetAll(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	payments, err := s.repos.Payments.GetAll(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	byStatus := make(map[models.InvoiceStatus]decimal.Decimal, len(models.Statuses))
	sum := Summary{ByStatus: make(map[models.InvoiceStatus]StatusSummary, len(models.Statuses))}
	invoiced, outstanding := decimal.Zero, decimal.Zero

	for _, inv := range invoices {
		total := decimal.NewFromFloat(inv.Total)
		invoiced = invoiced.Add(total)
		byStatus[inv.Status] = byStatus[inv.Status].Add(total)

		st := sum.ByStatus[inv.Status]
		st.Count++
		sum.ByStatus[inv.Status] = st

		if inv.Status != models.StatusPaid {
			if due := total.Sub(sumPayments(payments, inv.ID)); due.IsPositive() {
				outstanding = outstanding.Add(due)
			}
		}
	}
	for status, total := range byStatus {
		st := sum.ByStatus[status]
		st.Total = total.InexactFloat64()
		sum.ByStatus[status] = st
	}

	sum.Invoiced = invoiced.InexactFloat64()
	sum.Received = sumPayments(payments, "").InexactFloat64()
	sum.Outstanding = outstanding.InexactFloat64()
	return sum, nil
}

// sumPayments adds up the payments of one invoice, or of all invoices when
// invoiceID is empty.
func sumPayments(payments []models.Payment, invoiceID string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if invoiceID == "" || p.InvoiceID == invoiceID {
			total = total.Add(decimal.NewFromFloat(p.Amount))
		}
	}
	return total
}
