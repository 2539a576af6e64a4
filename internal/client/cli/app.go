package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/invoicekeeper/internal/client/services"
	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/config"
	"github.com/dmitrijs2005/invoicekeeper/internal/kv"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/dmitrijs2005/invoicekeeper/internal/records"
	"github.com/dmitrijs2005/invoicekeeper/internal/seed"
	"github.com/dmitrijs2005/invoicekeeper/internal/storage"
	"github.com/dmitrijs2005/invoicekeeper/internal/validation"
)

type App struct {
	config *config.Config
	store  *kv.Handle
	log    logging.Logger

	authService     services.AuthService
	clientService   services.ClientService
	productService  services.ProductService
	templateService services.TemplateService
	invoiceService  services.InvoiceService
	exports         storage.Storage

	user   *models.User
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the configured store, seeds demo data when enabled and wires
// the services. The caller owns the returned App and must Run it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogLevel)

	h, err := kv.Open(ctx, kv.Options{Driver: c.Driver, DSN: c.DSN})
	if err != nil {
		return nil, fmt.Errorf("error opening store: %w", err)
	}

	if c.SeedDemo {
		seeded, err := seed.Run(ctx, h)
		if err != nil {
			_ = h.Close()
			return nil, err
		}
		if seeded {
			log.Info(ctx, "demo data written", "email", seed.DemoEmail)
		}
	}

	exports, err := storage.New(ctx, storage.Config{
		Type:       storage.Type(c.ExportStorage),
		LocalPath:  c.ExportDir,
		S3Bucket:   c.S3Bucket,
		S3Region:   c.S3Region,
		S3Endpoint: c.S3Endpoint,
		AccessKey:  c.S3AccessKey,
		SecretKey:  c.S3SecretKey,
	})
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("error initializing export storage: %w", err)
	}

	return newApp(c, h, log, exports, os.Stdin, os.Stdout)
}

func newApp(c *config.Config, h *kv.Handle, log logging.Logger, exports storage.Storage, in io.Reader, out io.Writer) (*App, error) {
	v, err := validation.New()
	if err != nil {
		return nil, err
	}
	repos := records.NewRepositories(h)

	return &App{
		config:          c,
		store:           h,
		log:             log,
		authService:     services.NewAuthService(h, repos, v, log, []byte(c.SessionSecret), c.SessionTTL),
		clientService:   services.NewClientService(h, repos, v, log),
		productService:  services.NewProductService(h, repos, v, log),
		templateService: services.NewTemplateService(h, repos, v, log),
		invoiceService:  services.NewInvoiceService(h, repos, v, log, c.DueDays),
		exports:         exports,
		reader:          bufio.NewReader(in),
		out:             out,
	}, nil
}

// Run restores the saved session and starts the REPL. The store is closed
// when the REPL ends.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	fmt.Fprintln(a.out, "Welcome to invoicekeeper (type 'help' for commands)")
	a.restoreSession(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.user.Email)
}

func (a *App) restoreSession(ctx context.Context) {
	user, err := a.authService.CurrentUser(ctx)
	switch {
	case err == nil:
		a.user = &user
		fmt.Fprintf(a.out, "Welcome back, %s\n", user.Name)
	case errors.Is(err, common.ErrTokenExpired):
		fmt.Fprintln(a.out, "Session expired, please log in")
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
	default:
		a.log.Warn(ctx, "session restore failed", "error", err)
	}
}
