package models

// User is a local account. A user owns itself, so its UserID equals its ID.
type User struct {
	Meta
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

func (u User) WithMeta(m Meta) User {
	if m.UserID == "" {
		m.UserID = m.ID
	}
	u.Meta = m
	return u
}

type Client struct {
	Meta
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	TaxID   string `json:"taxId"`
}

func (c Client) WithMeta(m Meta) Client {
	c.Meta = m
	return c
}

type Product struct {
	Meta
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	TaxRate     float64 `json:"taxRate"`
	Unit        string  `json:"unit"`
}

func (p Product) WithMeta(m Meta) Product {
	p.Meta = m
	return p
}

// Item turns the product into an invoice line of the given quantity.
func (p Product) Item(quantity float64) InvoiceItem {
	return InvoiceItem{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  quantity,
		Price:     p.Price,
		TaxRate:   p.TaxRate,
	}
}

// InvoiceItem is one billed line. It only exists inside an Invoice.
type InvoiceItem struct {
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	TaxRate   float64 `json:"taxRate"`
}

// Invoice carries its line items together with the money values derived from
// them. Subtotal, Tax and Total are only ever written from the items.
type Invoice struct {
	Meta
	Number     string        `json:"number"`
	ClientID   string        `json:"clientId"`
	TemplateID string        `json:"templateId"`
	Items      []InvoiceItem `json:"items"`
	Subtotal   float64       `json:"subtotal"`
	Tax        float64       `json:"tax"`
	Total      float64       `json:"total"`
	Status     InvoiceStatus `json:"status"`
	Date       string        `json:"date"`
	DueDate    string        `json:"dueDate"`
	Notes      string        `json:"notes"`
}

func (i Invoice) WithMeta(m Meta) Invoice {
	i.Meta = m
	return i
}

type Payment struct {
	Meta
	InvoiceID string  `json:"invoiceId"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Date      string  `json:"date"`
	Reference string  `json:"reference"`
}

func (p Payment) WithMeta(m Meta) Payment {
	p.Meta = m
	return p
}

// Template holds the header and footer text printed around an invoice.
type Template struct {
	Meta
	Name    string `json:"name"`
	Header  string `json:"header"`
	Footer  string `json:"footer"`
	Default bool   `json:"default"`
}

func (t Template) WithMeta(m Meta) Template {
	t.Meta = m
	return t
}
