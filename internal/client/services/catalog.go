package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/kv"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/dmitrijs2005/invoicekeeper/internal/records"
	"github.com/dmitrijs2005/invoicekeeper/internal/validation"
	"github.com/samber/lo"
)

type ClientService interface {
	List(ctx context.Context, userID string) ([]models.Client, error)
	Get(ctx context.Context, userID, id string) (models.Client, error)
	Add(ctx context.Context, userID string, c models.Client) (models.Client, error)
	Update(ctx context.Context, userID, id string, p models.ClientPatch) (models.Client, error)
	Delete(ctx context.Context, userID, id string) error
}

type clientService struct {
	store     kv.Store
	clients   *records.Collection[models.Client]
	validator *validation.Validator
	log       logging.Logger
}

func NewClientService(store kv.Store, repos *records.Repositories, v *validation.Validator, log logging.Logger) ClientService {
	return &clientService{store: store, clients: repos.Clients, validator: v, log: log.With("service", "clients")}
}

func (s *clientService) List(ctx context.Context, userID string) ([]models.Client, error) {
	return s.clients.GetAll(ctx, userID)
}

func (s *clientService) Get(ctx context.Context, userID, id string) (models.Client, error) {
	return getOwned(ctx, s.clients, userID, id)
}

func (s *clientService) Add(ctx context.Context, userID string, c models.Client) (models.Client, error) {
	if err := s.validator.Client(c); err != nil {
		return models.Client{}, err
	}
	c.Meta = models.Meta{UserID: userID}

	created, err := s.clients.Create(ctx, c)
	if err != nil {
		return models.Client{}, fmt.Errorf("saving error: %w", err)
	}
	s.log.Info(ctx, "client added", "client_id", created.ID)
	return created, nil
}

func (s *clientService) Update(ctx context.Context, userID, id string, p models.ClientPatch) (models.Client, error) {
	var updated models.Client
	err := inTx(ctx, s.store, func(ctx context.Context, r *records.Repositories) error {
		cur, err := getOwned(ctx, r.Clients, userID, id)
		if err != nil {
			return err
		}
		if err := s.validator.Client(p.Apply(cur)); err != nil {
			return err
		}
		opt, err := r.Clients.Update(ctx, id, p)
		if err != nil {
			return err
		}
		updated = opt.MustGet()
		return nil
	})
	return updated, err
}

// Delete refuses to remove a client that is still referenced by invoices.
func (s *clientService) Delete(ctx context.Context, userID, id string) error {
	return inTx(ctx, s.store, func(ctx context.Context, r *records.Repositories) error {
		if _, err := getOwned(ctx, r.Clients, userID, id); err != nil {
			return err
		}
		invoices, err := r.Invoices.GetAll(ctx, userID)
		if err != nil {
			return err
		}
		if n := lo.CountBy(invoices, func(i models.Invoice) bool { return i.ClientID == id }); n > 0 {
			return fmt.Errorf("%w: client has %d invoice(s)", common.ErrInvalidInput, n)
		}
		if _, err := r.Clients.Delete(ctx, id); err != nil {
			return err
		}
		s.log.Info(ctx, "client deleted", "client_id", id)
		return nil
	})
}

type ProductService interface {
	List(ctx context.Context, userID string) ([]models.Product, error)
	Get(ctx context.Context, userID, id string) (models.Product, error)
	Add(ctx context.Context, userID string, p models.Product) (models.Product, error)
	Update(ctx context.Context, userID, id string, p models.ProductPatch) (models.Product, error)
	Delete(ctx context.Context, userID, id string) error
}

type productService struct {
	store     kv.Store
	products  *records.Collection[models.Product]
	validator *validation.Validator
	log       logging.Logger
}

func NewProductService(store kv.Store, repos *records.Repositories, v *validation.Validator, log logging.Logger) ProductService {
	return &productService{store: store, products: repos.Products, validator: v, log: log.With("service", "products")}
}

func (s *productService) List(ctx context.Context, userID string) ([]models.Product, error) {
	return s.products.GetAll(ctx, userID)
}

func (s *productService) Get(ctx context.Context, userID, id string) (models.Product, error) {
	return getOwned(ctx, s.products, userID, id)
}

func (s *productService) Add(ctx context.Context, userID string, p models.Product) (models.Product, error) {
	if err := s.validator.Product(p); err != nil {
		return models.Product{}, err
	}
	p.Meta = models.Meta{UserID: userID}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("saving error: %w", err)
	}
	s.log.Info(ctx, "product added", "product_id", created.ID)
	return created, nil
}

func (s *productService) Update(ctx context.Context, userID, id string, p models.ProductPatch) (models.Product, error) {
	var updated models.Product
	err := inTx(ctx, s.store, func(ctx context.Context, r *records.Repositories) error {
		cur, err := getOwned(ctx, r.Products, userID, id)
		if err != nil {
			return err
		}
		if err := s.validator.Product(p.Apply(cur)); err != nil {
			return err
		}
		opt, err := r.Products.Update(ctx, id, p)
		if err != nil {
			return err
		}
		updated = opt.MustGet()
		return nil
	})
	return updated, err
}

// Delete removes the product. Invoices keep their own copy of the line, so
// nothing else changes.
func (s *productService) Delete(ctx context.Context, userID, id string) error {
	return inTx(ctx, s.store, func(ctx context.Context, r *records.Repositories) error {
		if _, err := getOwned(ctx, r.Products, userID, id); err != nil {
			return err
		}
		_, err := r.Products.Delete(ctx, id)
		return err
	})
}
