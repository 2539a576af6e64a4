package config

import "time"

// Config holds runtime settings for the invoicekeeper CLI.
type Config struct {
	// Driver is the database/sql driver of the store: "sqlite" or "pgx".
	Driver string
	// DSN is a SQLite file path (or ":memory:") or a PostgreSQL URL.
	DSN string

	LogLevel string

	// SessionSecret signs session tokens. SessionTTL bounds how long a login
	// survives across restarts.
	SessionSecret string
	SessionTTL    time.Duration

	// SeedDemo writes demo records into an empty store on start.
	SeedDemo bool

	// Currency is printed next to amounts. DueDays is the default payment
	// term of new invoices.
	Currency string
	DueDays  int

	// ExportStorage selects where exported workbooks go: "local" or "s3".
	ExportStorage string
	ExportDir     string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.Driver = "sqlite"
	c.DSN = "invoicekeeper.db"
	c.LogLevel = "info"
	c.SessionSecret = "change-me"
	c.SessionTTL = 12 * time.Hour
	c.SeedDemo = true
	c.Currency = "EUR"
	c.DueDays = 30
	c.ExportStorage = "local"
	c.ExportDir = "exports"
	c.S3Region = "us-east-1"
}

// LoadConfig applies defaults, then environment variables, then the optional
// JSON file, then command-line flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
