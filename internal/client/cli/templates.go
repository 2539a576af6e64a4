package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

func (a *App) Templates(ctx context.Context) error {
	list, err := a.templateService.List(ctx, a.user.ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No templates yet, use addtemplate")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tNAME\tDEFAULT\tHEADER\tFOOTER")
	for _, t := range list {
		def := ""
		if t.Default {
			def = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Name, def, t.Header, t.Footer)
	}
	return tw.Flush()
}

func (a *App) AddTemplate(ctx context.Context) error {
	var (
		t   models.Template
		err error
	)
	if t.Name, err = getSimpleText(a.reader, "Enter template name", a.out); err != nil {
		return err
	}
	if t.Header, err = getSimpleText(a.reader, "Enter header text (optional)", a.out); err != nil {
		return err
	}
	if t.Footer, err = getSimpleText(a.reader, "Enter footer text (optional)", a.out); err != nil {
		return err
	}
	if t.Default, err = GetYesNo(a.reader, "Use as default for new invoices?", false, a.out); err != nil {
		return err
	}

	created, err := a.templateService.Add(ctx, a.user.ID, t)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Template %s added\n", created.ID)
	return nil
}

func (a *App) EditTemplate(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter template id to edit", a.out)
	if err != nil {
		return err
	}
	cur, err := a.templateService.Get(ctx, a.user.ID, id)
	if err != nil {
		return err
	}

	var p models.TemplatePatch
	if p.Name, err = getOptionalText(a.reader, "Template name", cur.Name, a.out); err != nil {
		return err
	}
	if p.Header, err = getOptionalText(a.reader, "Header text", cur.Header, a.out); err != nil {
		return err
	}
	if p.Footer, err = getOptionalText(a.reader, "Footer text", cur.Footer, a.out); err != nil {
		return err
	}
	def, err := GetYesNo(a.reader, "Use as default for new invoices?", cur.Default, a.out)
	if err != nil {
		return err
	}
	p.Default = &def

	if _, err := a.templateService.Update(ctx, a.user.ID, id, p); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Template updated")
	return nil
}

func (a *App) DeleteTemplate(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter template id to delete", a.out)
	if err != nil {
		return err
	}
	if err := a.templateService.Delete(ctx, a.user.ID, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Template deleted")
	return nil
}
