// Package seed writes a small demo data set into an empty store so the CLI
// has something to show on first start.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/cryptox"
	"github.com/dmitrijs2005/invoicekeeper/internal/kv"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/dmitrijs2005/invoicekeeper/internal/records"
	"github.com/dmitrijs2005/invoicekeeper/internal/totals"
)

// Demo account credentials.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo1234"
)

// Run writes the demo data in a single transaction and sets the seeded
// marker. It reports false without writing anything when the marker is
// already present.
func Run(ctx context.Context, store kv.Store) (bool, error) {
	seeded := false
	err := kv.Update(ctx, store, func(ctx context.Context, tx kv.Store) error {
		marker, err := tx.Get(ctx, records.KeySeeded)
		if err != nil {
			return err
		}
		if marker != nil {
			return nil
		}

		if err := write(ctx, records.NewRepositories(tx), time.Now().UTC()); err != nil {
			return err
		}
		if err := tx.Set(ctx, records.KeySeeded, []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed error: %w", err)
	}
	return seeded, nil
}

func write(ctx context.Context, r *records.Repositories, now time.Time) error {
	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveMasterKey([]byte(DemoPassword), salt)
	defer common.WipeByteArray(key)

	user, err := r.Users.Create(ctx, models.User{
		Name:     "Demo User",
		Email:    DemoEmail,
		Company:  "Demo Consulting Ltd",
		Salt:     salt,
		Verifier: cryptox.MakeVerifier(key),
	})
	if err != nil {
		return err
	}
	owner := models.Meta{UserID: user.ID}

	acme, err := r.Clients.Create(ctx, models.Client{Meta: owner, Name: "Acme Corporation",
		Email: "billing@acme.example", Phone: "+1 555 0100", Address: "1 Main Street, Springfield", TaxID: "US-123456"})
	if err != nil {
		return err
	}
	globex, err := r.Clients.Create(ctx, models.Client{Meta: owner, Name: "Globex Ltd",
		Email: "accounts@globex.example", Address: "42 Harbour Road, Shelbyville"})
	if err != nil {
		return err
	}

	var products []models.Product
	for _, p := range []models.Product{
		{Name: "Consulting", Description: "Senior consulting", Price: 120, TaxRate: 21, Unit: "hour"},
		{Name: "Website hosting", Description: "Managed hosting", Price: 25, TaxRate: 21, Unit: "month"},
		{Name: "Training", Description: "On-site workshop", Price: 800, TaxRate: 0, Unit: "day"},
	} {
		p.Meta = owner
		created, err := r.Products.Create(ctx, p)
		if err != nil {
			return err
		}
		products = append(products, created)
	}

	tpl, err := r.Templates.Create(ctx, models.Template{Meta: owner, Name: "Standard",
		Header: "Demo Consulting Ltd", Footer: "Payment within 30 days. Thank you!", Default: true})
	if err != nil {
		return err
	}

	date := func(days int) string { return now.AddDate(0, 0, days).Format(models.DateLayout) }

	for _, inv := range []models.Invoice{
		{Meta: owner, Number: "INV-0001", ClientID: acme.ID, TemplateID: tpl.ID, Status: models.StatusPending,
			Items: []models.InvoiceItem{products[0].Item(10), products[1].Item(3)},
			Date:  date(-20), DueDate: date(10)},
		{Meta: owner, Number: "INV-0002", ClientID: globex.ID, TemplateID: tpl.ID, Status: models.StatusDraft,
			Items: []models.InvoiceItem{products[2].Item(2)},
			Date:  date(0), DueDate: date(30), Notes: "Workshop for the sales team"},
	} {
		if _, err := r.Invoices.Create(ctx, totals.Apply(inv)); err != nil {
			return err
		}
	}
	return nil
}
