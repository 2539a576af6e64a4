package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

func (a *App) Clients(ctx context.Context) error {
	list, err := a.clientService.List(ctx, a.user.ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No clients yet, use addclient")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tTAX ID")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone, c.TaxID)
	}
	return tw.Flush()
}

func (a *App) AddClient(ctx context.Context) error {
	var c models.Client
	prompts := []struct {
		text string
		dst  *string
	}{
		{"Enter client name", &c.Name},
		{"Enter email (optional)", &c.Email},
		{"Enter phone (optional)", &c.Phone},
		{"Enter address (optional)", &c.Address},
		{"Enter tax id (optional)", &c.TaxID},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.text, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	created, err := a.clientService.Add(ctx, a.user.ID, c)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Client %s added\n", created.ID)
	return nil
}

func (a *App) DeleteClient(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter client id to delete", a.out)
	if err != nil {
		return err
	}
	if err := a.clientService.Delete(ctx, a.user.ID, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Client deleted")
	return nil
}

func (a *App) Products(ctx context.Context) error {
	list, err := a.productService.List(ctx, a.user.ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No products yet, use addproduct")
		return nil
	}

	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tTAX %\tUNIT")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\n", p.ID, p.Name, a.money(p.Price), p.TaxRate, p.Unit)
	}
	return tw.Flush()
}

func (a *App) AddProduct(ctx context.Context) error {
	var (
		p   models.Product
		err error
	)
	if p.Name, err = getSimpleText(a.reader, "Enter product name", a.out); err != nil {
		return err
	}
	if p.Description, err = getSimpleText(a.reader, "Enter description (optional)", a.out); err != nil {
		return err
	}
	if p.Price, err = GetNumber(a.reader, "Enter unit price", 0, a.out); err != nil {
		return err
	}
	if p.TaxRate, err = GetNumber(a.reader, "Enter tax rate in percent (empty for 0)", 0, a.out); err != nil {
		return err
	}
	if p.Unit, err = getSimpleText(a.reader, "Enter unit, e.g. hour (optional)", a.out); err != nil {
		return err
	}

	created, err := a.productService.Add(ctx, a.user.ID, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Product %s added\n", created.ID)
	return nil
}

// EditClient asks for each field with the current value as default.
func (a *App) EditClient(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter client id to edit", a.out)
	if err != nil {
		return err
	}
	c, err := a.clientService.Get(ctx, a.user.ID, id)
	if err != nil {
		return err
	}

	var p models.ClientPatch
	fields := []struct {
		text    string
		current string
		dst     **string
	}{
		{"Client name", c.Name, &p.Name},
		{"Email", c.Email, &p.Email},
		{"Phone", c.Phone, &p.Phone},
		{"Address", c.Address, &p.Address},
		{"Tax id", c.TaxID, &p.TaxID},
	}
	for _, f := range fields {
		if *f.dst, err = getOptionalText(a.reader, f.text, f.current, a.out); err != nil {
			return err
		}
	}

	if _, err := a.clientService.Update(ctx, a.user.ID, id, p); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Client updated")
	return nil
}

func (a *App) EditProduct(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter product id to edit", a.out)
	if err != nil {
		return err
	}
	cur, err := a.productService.Get(ctx, a.user.ID, id)
	if err != nil {
		return err
	}

	var p models.ProductPatch
	if p.Name, err = getOptionalText(a.reader, "Product name", cur.Name, a.out); err != nil {
		return err
	}
	if p.Description, err = getOptionalText(a.reader, "Description", cur.Description, a.out); err != nil {
		return err
	}
	if p.Price, err = getOptionalNumber(a.reader, "Unit price", cur.Price, a.out); err != nil {
		return err
	}
	if p.TaxRate, err = getOptionalNumber(a.reader, "Tax rate in percent", cur.TaxRate, a.out); err != nil {
		return err
	}
	if p.Unit, err = getOptionalText(a.reader, "Unit", cur.Unit, a.out); err != nil {
		return err
	}

	if _, err := a.productService.Update(ctx, a.user.ID, id, p); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Product updated")
	return nil
}

func (a *App) DeleteProduct(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter product id to delete", a.out)
	if err != nil {
		return err
	}
	if err := a.productService.Delete(ctx, a.user.ID, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Product deleted")
	return nil
}
