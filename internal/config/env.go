package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays cfg with INVOICEKEEPER_* variables that are set and
// non-empty. Malformed numbers, booleans and durations are ignored.
func parseEnv(cfg *Config) {
	envString(&cfg.Driver, "INVOICEKEEPER_DRIVER")
	envString(&cfg.DSN, "INVOICEKEEPER_DSN")
	envString(&cfg.LogLevel, "INVOICEKEEPER_LOG_LEVEL")
	envString(&cfg.SessionSecret, "INVOICEKEEPER_SESSION_SECRET")
	envString(&cfg.Currency, "INVOICEKEEPER_CURRENCY")
	envString(&cfg.ExportStorage, "INVOICEKEEPER_EXPORT_STORAGE")
	envString(&cfg.ExportDir, "INVOICEKEEPER_EXPORT_DIR")
	envString(&cfg.S3Bucket, "INVOICEKEEPER_S3_BUCKET")
	envString(&cfg.S3Region, "INVOICEKEEPER_S3_REGION")
	envString(&cfg.S3Endpoint, "INVOICEKEEPER_S3_ENDPOINT")
	envString(&cfg.S3AccessKey, "INVOICEKEEPER_S3_ACCESS_KEY")
	envString(&cfg.S3SecretKey, "INVOICEKEEPER_S3_SECRET_KEY")

	if v, ok := lookup("INVOICEKEEPER_SEED_DEMO"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SeedDemo = b
		}
	}
	if v, ok := lookup("INVOICEKEEPER_DUE_DAYS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DueDays = n
		}
	}
	if v, ok := lookup("INVOICEKEEPER_SESSION_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SessionTTL = d
		}
	}
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	return v, ok && v != ""
}

func envString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}
