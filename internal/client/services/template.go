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
	"github.com/samber/mo"
)

// TemplateService manages the header and footer texts printed around
// invoices. A user has at most one default template.
type TemplateService interface {
	List(ctx context.Context, userID string) ([]models.Template, error)
	Get(ctx context.Context, userID, id string) (models.Template, error)
	Default(ctx context.Context, userID string) (mo.Option[models.Template], error)
	Add(ctx context.Context, userID string, t models.Template) (models.Template, error)
	Update(ctx context.Context, userID, id string, p models.TemplatePatch) (models.Template, error)
	Delete(ctx context.Context, userID, id string) error
}

type templateService struct {
	store     kv.Store
	templates *records.Collection[models.Template]
	validator *validation.Validator
	log       logging.Logger
}

func NewTemplateService(store kv.Store, repos *records.Repositories, v *validation.Validator, log logging.Logger) TemplateService {
	return &templateService{store: store, templates: repos.Templates, validator: v, log: log.With("service", "templates")}
}

func (s *templateService) List(ctx context.Context, userID string) ([]models.Template, error) {
	return s.templates.GetAll(ctx, userID)
}

func (s *templateService) Get(ctx context.Context, userID, id string) (models.Template, error) {
	return getOwned(ctx, s.templates, userID, id)
}

func (s *templateService) Default(ctx context.Context, userID string) (mo.Option[models.Template], error) {
	return defaultTemplate(ctx, s.templates, userID)
}

// Add stores a new template. A new default replaces the previous one.
func (s *templateService) Add(ctx context.Context, userID string, t models.Template) (models.Template, error) {
	if err := s.validator.Template(t); err != nil {
		return models.Template{}, err
	}
	t.Meta = models.Meta{UserID: userID}

	var created models.Template
	err := inTx(ctx, s.store, func(ctx context.Context, r *records.Repositories) error {
		var err error
		if created, err = r.Templates.Create(ctx, t); err != nil {
			return fmt.Errorf("saving error: %w", err)
		}
		if created.Default {
			return clearDefaults(ctx, r.Templates, userID, created.ID)
		}
		return nil
	})
	if err != nil {
		return models.Template{}, err
	}

	s.log.Info(ctx, "template added", "template_id", created.ID, "default", created.Default)
	return created, nil
}

func (s *templateService) Update(ctx context.Context, userID, id string, p models.TemplatePatch) (models.Template, error) {
	var updated models.Template
	err := inTx(ctx, s.store, func(ctx context.Context, r *records.Repositories) error {
		cur, err := getOwned(ctx, r.Templates, userID, id)
		if err != nil {
			return err
		}
		if err := s.validator.Template(p.Apply(cur)); err != nil {
			return err
		}
		opt, err := r.Templates.Update(ctx, id, p)
		if err != nil {
			return err
		}
		updated = opt.MustGet()
		if updated.Default {
			return clearDefaults(ctx, r.Templates, userID, id)
		}
		return nil
	})
	return updated, err
}

// Delete refuses to remove a template that invoices still print with.
func (s *templateService) Delete(ctx context.Context, userID, id string) error {
	return inTx(ctx, s.store, func(ctx context.Context, r *records.Repositories) error {
		if _, err := getOwned(ctx, r.Templates, userID, id); err != nil {
			return err
		}
		invoices, err := r.Invoices.GetAll(ctx, userID)
		if err != nil {
			return err
		}
		if n := lo.CountBy(invoices, func(i models.Invoice) bool { return i.TemplateID == id }); n > 0 {
			return fmt.Errorf("%w: template is used by %d invoice(s)", common.ErrInvalidInput, n)
		}
		if _, err := r.Templates.Delete(ctx, id); err != nil {
			return err
		}
		s.log.Info(ctx, "template deleted", "template_id", id)
		return nil
	})
}

func defaultTemplate(ctx context.Context, c *records.Collection[models.Template], userID string) (mo.Option[models.Template], error) {
	return c.Find(ctx, func(t models.Template) bool { return t.UserID == userID && t.Default })
}

// clearDefaults unsets the default flag on every template of userID except keep.
func clearDefaults(ctx context.Context, c *records.Collection[models.Template], userID, keep string) error {
	all, err := c.GetAll(ctx, userID)
	if err != nil {
		return err
	}
	off := models.TemplatePatch{Default: lo.ToPtr(false)}
	for _, t := range all {
		if !t.Default || t.ID == keep {
			continue
		}
		if _, err := c.Update(ctx, t.ID, off); err != nil {
			return err
		}
	}
	return nil
}
