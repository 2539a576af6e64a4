package models

import "github.com/samber/lo"

// Patch types list the fields a caller may change. A nil field keeps the
// current value. None of them can reach Meta, and InvoicePatch cannot reach
// the items or the derived totals.

type UserPatch struct {
	Name    *string
	Email   *string
	Company *string
}

func (p UserPatch) Apply(u User) User {
	u.Name = lo.FromPtrOr(p.Name, u.Name)
	u.Email = lo.FromPtrOr(p.Email, u.Email)
	u.Company = lo.FromPtrOr(p.Company, u.Company)
	return u
}

type ClientPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	TaxID   *string
}

func (p ClientPatch) Apply(c Client) Client {
	c.Name = lo.FromPtrOr(p.Name, c.Name)
	c.Email = lo.FromPtrOr(p.Email, c.Email)
	c.Phone = lo.FromPtrOr(p.Phone, c.Phone)
	c.Address = lo.FromPtrOr(p.Address, c.Address)
	c.TaxID = lo.FromPtrOr(p.TaxID, c.TaxID)
	return c
}

type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	TaxRate     *float64
	Unit        *string
}

func (p ProductPatch) Apply(pr Product) Product {
	pr.Name = lo.FromPtrOr(p.Name, pr.Name)
	pr.Description = lo.FromPtrOr(p.Description, pr.Description)
	pr.Price = lo.FromPtrOr(p.Price, pr.Price)
	pr.TaxRate = lo.FromPtrOr(p.TaxRate, pr.TaxRate)
	pr.Unit = lo.FromPtrOr(p.Unit, pr.Unit)
	return pr
}

type InvoicePatch struct {
	ClientID   *string
	TemplateID *string
	Status     *InvoiceStatus
	Date       *string
	DueDate    *string
	Notes      *string
}

func (p InvoicePatch) Apply(i Invoice) Invoice {
	i.ClientID = lo.FromPtrOr(p.ClientID, i.ClientID)
	i.TemplateID = lo.FromPtrOr(p.TemplateID, i.TemplateID)
	i.Status = lo.FromPtrOr(p.Status, i.Status)
	i.Date = lo.FromPtrOr(p.Date, i.Date)
	i.DueDate = lo.FromPtrOr(p.DueDate, i.DueDate)
	i.Notes = lo.FromPtrOr(p.Notes, i.Notes)
	return i
}

type PaymentPatch struct {
	Amount    *float64
	Method    *string
	Date      *string
	Reference *string
}

func (p PaymentPatch) Apply(pm Payment) Payment {
	pm.Amount = lo.FromPtrOr(p.Amount, pm.Amount)
	pm.Method = lo.FromPtrOr(p.Method, pm.Method)
	pm.Date = lo.FromPtrOr(p.Date, pm.Date)
	pm.Reference = lo.FromPtrOr(p.Reference, pm.Reference)
	return pm
}

type TemplatePatch struct {
	Name    *string
	Header  *string
	Footer  *string
	Default *bool
}

func (p TemplatePatch) Apply(t Template) Template {
	t.Name = lo.FromPtrOr(p.Name, t.Name)
	t.Header = lo.FromPtrOr(p.Header, t.Header)
	t.Footer = lo.FromPtrOr(p.Footer, t.Footer)
	t.Default = lo.FromPtrOr(p.Default, t.Default)
	return t
}
