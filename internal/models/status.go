package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/samber/lo"
)

// InvoiceStatus is the closed set of invoice states. Any state may be set
// directly; there are no transition rules.
type InvoiceStatus string

const (
	StatusDraft   InvoiceStatus = "draft"
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
	StatusOverdue InvoiceStatus = "overdue"
)

// Statuses lists every valid status in display order.
var Statuses = []InvoiceStatus{StatusDraft, StatusPending, StatusPaid, StatusOverdue}

func (s InvoiceStatus) Valid() bool {
	return lo.Contains(Statuses, s)
}

func (s InvoiceStatus) String() string {
	return string(s)
}

// ParseInvoiceStatus accepts a status name in any letter case.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	st := InvoiceStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown invoice status %q", common.ErrInvalidInput, s)
	}
	return st, nil
}
