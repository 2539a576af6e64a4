package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_Lifecycle(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)
	svc := e.templates()

	_, err := svc.Add(ctx, "u1", models.Template{Header: "no name"})
	require.ErrorIs(t, err, common.ErrInvalidInput)

	tpl, err := svc.Add(ctx, "u1", models.Template{Name: "Plain", Header: "Acme", Footer: "Bye"})
	require.NoError(t, err)
	assert.Equal(t, "u1", tpl.UserID)

	got, err := svc.Get(ctx, "u1", tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl, got)

	_, err = svc.Get(ctx, "u2", tpl.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	upd, err := svc.Update(ctx, "u1", tpl.ID, models.TemplatePatch{Footer: lo.ToPtr("Thanks")})
	require.NoError(t, err)
	assert.Equal(t, "Thanks", upd.Footer)
	assert.Equal(t, "Acme", upd.Header)

	_, err = svc.Update(ctx, "u1", tpl.ID, models.TemplatePatch{Name: lo.ToPtr("")})
	require.ErrorIs(t, err, common.ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, "u1", tpl.ID))
	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.ErrorIs(t, svc.Delete(ctx, "u1", tpl.ID), common.ErrNotFound)
}

func TestTemplates_SingleDefault(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)
	svc := e.templates()

	none, err := svc.Default(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, none.IsAbsent())

	first, err := svc.Add(ctx, "u1", models.Template{Name: "First", Default: true})
	require.NoError(t, err)
	second, err := svc.Add(ctx, "u1", models.Template{Name: "Second", Default: true})
	require.NoError(t, err)
	foreign, err := svc.Add(ctx, "u2", models.Template{Name: "Foreign", Default: true})
	require.NoError(t, err)

	defaults := func(userID string) []string {
		list, err := svc.List(ctx, userID)
		require.NoError(t, err)
		return lo.FilterMap(list, func(t models.Template, _ int) (string, bool) { return t.ID, t.Default })
	}
	assert.Equal(t, []string{second.ID}, defaults("u1"))
	assert.Equal(t, []string{foreign.ID}, defaults("u2"), "other users keep their default")

	_, err = svc.Update(ctx, "u1", first.ID, models.TemplatePatch{Default: lo.ToPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID}, defaults("u1"))

	def, err := svc.Default(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, def.MustGet().ID)
}

func TestTemplates_DeleteRefusedWhileUsed(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)
	c := e.addClient(t, "u1", "Acme")
	tpl, err := e.templates().Add(ctx, "u1", models.Template{Name: "Std"})
	require.NoError(t, err)

	inv, err := e.invoices(fixedNow).Create(ctx, "u1", InvoiceDraft{ClientID: c.ID, TemplateID: tpl.ID,
		Items: []models.InvoiceItem{{Name: "A", Quantity: 1, Price: 1}}})
	require.NoError(t, err)

	require.ErrorIs(t, e.templates().Delete(ctx, "u1", tpl.ID), common.ErrInvalidInput)

	require.NoError(t, e.invoices(fixedNow).Delete(ctx, "u1", inv.ID))
	require.NoError(t, e.templates().Delete(ctx, "u1", tpl.ID))
}
