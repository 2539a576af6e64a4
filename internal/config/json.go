package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/invoicekeeper/internal/flagx"
	"github.com/dmitrijs2005/invoicekeeper/internal/timex"
	"github.com/samber/lo"
)

// JsonConfig is the on-disk form of Config. Only keys present in the file
// override earlier values.
type JsonConfig struct {
	Driver        string         `json:"driver"`
	DSN           string         `json:"dsn"`
	LogLevel      string         `json:"log_level"`
	SessionSecret string         `json:"session_secret"`
	SessionTTL    timex.Duration `json:"session_ttl"`
	SeedDemo      *bool          `json:"seed_demo"`
	Currency      string         `json:"currency"`
	DueDays       int            `json:"due_days"`
	ExportStorage string         `json:"export_storage"`
	ExportDir     string         `json:"export_dir"`
	S3Bucket      string         `json:"s3_bucket"`
	S3Region      string         `json:"s3_region"`
	S3Endpoint    string         `json:"s3_endpoint"`
	S3AccessKey   string         `json:"s3_access_key"`
	S3SecretKey   string         `json:"s3_secret_key"`
}

// parseJson overlays cfg with the JSON file named by -c or -config.
// Without either flag it does nothing. It panics when the file cannot be
// read or parsed.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.Driver = lo.CoalesceOrEmpty(jc.Driver, cfg.Driver)
	cfg.DSN = lo.CoalesceOrEmpty(jc.DSN, cfg.DSN)
	cfg.LogLevel = lo.CoalesceOrEmpty(jc.LogLevel, cfg.LogLevel)
	cfg.SessionSecret = lo.CoalesceOrEmpty(jc.SessionSecret, cfg.SessionSecret)
	cfg.SessionTTL = lo.CoalesceOrEmpty(jc.SessionTTL.Duration, cfg.SessionTTL)
	cfg.SeedDemo = lo.FromPtrOr(jc.SeedDemo, cfg.SeedDemo)
	cfg.Currency = lo.CoalesceOrEmpty(jc.Currency, cfg.Currency)
	cfg.DueDays = lo.CoalesceOrEmpty(jc.DueDays, cfg.DueDays)
	cfg.ExportStorage = lo.CoalesceOrEmpty(jc.ExportStorage, cfg.ExportStorage)
	cfg.ExportDir = lo.CoalesceOrEmpty(jc.ExportDir, cfg.ExportDir)
	cfg.S3Bucket = lo.CoalesceOrEmpty(jc.S3Bucket, cfg.S3Bucket)
	cfg.S3Region = lo.CoalesceOrEmpty(jc.S3Region, cfg.S3Region)
	cfg.S3Endpoint = lo.CoalesceOrEmpty(jc.S3Endpoint, cfg.S3Endpoint)
	cfg.S3AccessKey = lo.CoalesceOrEmpty(jc.S3AccessKey, cfg.S3AccessKey)
	cfg.S3SecretKey = lo.CoalesceOrEmpty(jc.S3SecretKey, cfg.S3SecretKey)
}
