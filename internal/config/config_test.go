package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "sqlite", c.Driver)
	assert.Equal(t, "invoicekeeper.db", c.DSN)
	assert.Equal(t, 12*time.Hour, c.SessionTTL)
	assert.True(t, c.SeedDemo)
	assert.Equal(t, "EUR", c.Currency)
	assert.Equal(t, 30, c.DueDays)
	assert.Equal(t, "local", c.ExportStorage)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "exports", cfg.ExportDir)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Setenv("INVOICEKEEPER_CURRENCY", "USD")
	t.Setenv("INVOICEKEEPER_DSN", "from-env.db")
	path := writeTempJSON(t, "", "", map[string]any{"dsn": "from-json.db"})

	os.Args = []string{"testbin", "-c", path, "-due", "14"}
	cfg := LoadConfig()

	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, "from-json.db", cfg.DSN)
	assert.Equal(t, 14, cfg.DueDays)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("INVOICEKEEPER_DRIVER", "pgx")
	t.Setenv("INVOICEKEEPER_SEED_DEMO", "false")
	t.Setenv("INVOICEKEEPER_SESSION_TTL", "30m")
	t.Setenv("INVOICEKEEPER_DUE_DAYS", "not-a-number")
	t.Setenv("INVOICEKEEPER_S3_BUCKET", "")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "pgx", cfg.Driver)
	assert.False(t, cfg.SeedDemo)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 30, cfg.DueDays)
	assert.Empty(t, cfg.S3Bucket)
}
