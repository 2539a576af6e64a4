package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/dmitrijs2005/invoicekeeper/internal/filex"
	"github.com/dmitrijs2005/invoicekeeper/internal/seed"
)

// Download copies an exported file from the export storage to a local file.
func (a *App) Download(ctx context.Context) error {
	src, err := getSimpleText(a.reader, "Enter export path as printed by export", a.out)
	if err != nil {
		return err
	}
	dst, err := getSimpleText(a.reader, "Enter destination file (empty for the current directory)", a.out)
	if err != nil {
		return err
	}
	if dst == "" {
		dst = path.Base(src)
	}

	rc, err := a.exports.Download(ctx, src)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := filex.EnsureParentDir(dst); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	n, err := io.Copy(f, rc)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, dst)
	return nil
}

func (a *App) DeleteExport(ctx context.Context) error {
	p, err := getSimpleText(a.reader, "Enter export path to delete", a.out)
	if err != nil {
		return err
	}
	if err := a.exports.Delete(ctx, p); err != nil {
		return err
	}
	a.log.Info(ctx, "export deleted", "path", p)
	fmt.Fprintln(a.out, "Export deleted")
	return nil
}

// Reset wipes the local store after confirmation and ends the session. Demo
// data is written again when seeding is enabled.
func (a *App) Reset(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "This deletes ALL local data of every account. Type 'yes' to continue", a.out)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	all, err := a.store.List(ctx)
	if err != nil {
		return err
	}
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	a.user = nil
	a.log.Warn(ctx, "store cleared", "keys", len(all))
	fmt.Fprintf(a.out, "Removed %d key(s)\n", len(all))

	if a.config.SeedDemo {
		if _, err := seed.Run(ctx, a.store); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Demo data restored, log in as %s\n", seed.DemoEmail)
	}
	return nil
}
