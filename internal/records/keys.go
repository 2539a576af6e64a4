package records

import (
	"github.com/dmitrijs2005/invoicekeeper/internal/kv"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

// Store keys. Each collection key holds a JSON array of records.
const (
	KeyUsers     = "invoicekeeper.users"
	KeyClients   = "invoicekeeper.clients"
	KeyProducts  = "invoicekeeper.products"
	KeyInvoices  = "invoicekeeper.invoices"
	KeyPayments  = "invoicekeeper.payments"
	KeyTemplates = "invoicekeeper.templates"

	// KeySession holds the signed token of the logged-in user.
	KeySession = "invoicekeeper.session"
	// KeySeeded marks that demo data has been written.
	KeySeeded = "invoicekeeper.seeded"
)

// Repositories bundles the collections stored in one kv.Store. Build a
// single Repositories per store so that each collection has one lock.
type Repositories struct {
	Users     *Collection[models.User]
	Clients   *Collection[models.Client]
	Products  *Collection[models.Product]
	Invoices  *Collection[models.Invoice]
	Payments  *Collection[models.Payment]
	Templates *Collection[models.Template]
}

func NewRepositories(store kv.Store) *Repositories {
	return &Repositories{
		Users:     NewCollection[models.User](store, KeyUsers),
		Clients:   NewCollection[models.Client](store, KeyClients),
		Products:  NewCollection[models.Product](store, KeyProducts),
		Invoices:  NewCollection[models.Invoice](store, KeyInvoices),
		Payments:  NewCollection[models.Payment](store, KeyPayments),
		Templates: NewCollection[models.Template](store, KeyTemplates),
	}
}
