package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/invoicekeeper/internal/flagx"
)

var (
	valueFlags = []string{"-driver", "-d", "-l", "-currency", "-due", "-storage", "-export-dir"}
	boolFlags  = []string{"-seed"}
)

// parseFlags overlays cfg with the command-line flags listed in the package
// documentation. Other arguments are filtered out first. It panics on a
// malformed value.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgsBool(os.Args[1:], valueFlags, boolFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Driver, "driver", cfg.Driver, "database driver: sqlite or pgx")
	fs.StringVar(&cfg.DSN, "d", cfg.DSN, "database DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.Currency, "currency", cfg.Currency, "currency code")
	fs.IntVar(&cfg.DueDays, "due", cfg.DueDays, "default payment term (in days)")
	fs.StringVar(&cfg.ExportStorage, "storage", cfg.ExportStorage, "export storage: local or s3")
	fs.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "directory for local exports")
	fs.BoolVar(&cfg.SeedDemo, "seed", cfg.SeedDemo, "seed demo data into an empty store")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
