package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/kv"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/dmitrijs2005/invoicekeeper/internal/records"
	"github.com/dmitrijs2005/invoicekeeper/internal/validation"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

type env struct {
	store *kv.Handle
	repos *records.Repositories
	v     *validation.Validator
}

func setupEnv(t *testing.T) env {
	t.Helper()
	h, err := kv.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	v, err := validation.New()
	require.NoError(t, err)

	return env{store: h, repos: records.NewRepositories(h), v: v}
}

func (e env) auth(ttl time.Duration) AuthService {
	return NewAuthService(e.store, e.repos, e.v, logging.Discard(), []byte("test-secret"), ttl)
}

func (e env) clients() ClientService {
	return NewClientService(e.store, e.repos, e.v, logging.Discard())
}

func (e env) products() ProductService {
	return NewProductService(e.store, e.repos, e.v, logging.Discard())
}

func (e env) templates() TemplateService {
	return NewTemplateService(e.store, e.repos, e.v, logging.Discard())
}

func (e env) invoices(now time.Time) *invoiceService {
	s := NewInvoiceService(e.store, e.repos, e.v, logging.Discard(), 30).(*invoiceService)
	s.now = func() time.Time { return now }
	return s
}

func (e env) addClient(t *testing.T, userID, name string) models.Client {
	t.Helper()
	c, err := e.clients().Add(context.Background(), userID, models.Client{Name: name})
	require.NoError(t, err)
	return c
}
