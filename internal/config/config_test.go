package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := load(viper.New(), t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Import.BatchSize != 2000 {
		t.Errorf("expected default batch size 2000, got %d", cfg.Import.BatchSize)
	}
	if cfg.Import.SellerName != "RADBURG" {
		t.Errorf("expected default seller RADBURG, got %q", cfg.Import.SellerName)
	}
	if len(cfg.Import.TypeRules) != len(DefaultTypeRules()) {
		t.Errorf("expected default type rules, got %d rules", len(cfg.Import.TypeRules))
	}
	if cfg.Redis.Enabled() {
		t.Error("redis should be disabled without a host")
	}
	if cfg.Import.Schedule != 0 {
		t.Errorf("expected scheduled import disabled, got %s", cfg.Import.Schedule)
	}
	if cfg.HTTP.LookupRefresh != 5*time.Minute {
		t.Errorf("expected lookup refresh 5m, got %s", cfg.HTTP.LookupRefresh)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
import:
  file: /data/feed.json
  batch_size: 500
  type_rules:
    - contains: "sh"
      tag: SH
`)
	t.Setenv("IMPORT_BATCH_SIZE", "750")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tyres")
	t.Setenv("IMPORT_SCHEDULE", "6h")

	cfg, err := load(viper.New(), dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Import.File != "/data/feed.json" {
		t.Errorf("expected file from yaml, got %q", cfg.Import.File)
	}
	if cfg.Import.BatchSize != 750 {
		t.Errorf("expected env override 750, got %d", cfg.Import.BatchSize)
	}
	if len(cfg.Import.TypeRules) != 1 || cfg.Import.TypeRules[0].Tag != "SH" {
		t.Errorf("expected configured rules, got %+v", cfg.Import.TypeRules)
	}
	if cfg.Import.Schedule != 6*time.Hour {
		t.Errorf("expected schedule 6h from env, got %s", cfg.Import.Schedule)
	}
	if cfg.Postgres.DSN() != "postgres://u:p@db:5432/tyres" {
		t.Errorf("expected DATABASE_URL to win, got %q", cfg.Postgres.DSN())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero batch", func(c *Config) { c.Import.BatchSize = 0 }, true},
		{"empty seller", func(c *Config) { c.Import.SellerName = "  " }, true},
		{"unknown tag", func(c *Config) { c.Import.TypeRules = []TypeRule{{Contains: "x", Tag: "USED"}} }, true},
		{"empty substring", func(c *Config) { c.Import.TypeRules = []TypeRule{{Contains: "", Tag: "SH"}} }, true},
		{"negative schedule", func(c *Config) { c.Import.Schedule = -time.Second }, true},
		{"lowercase tag", func(c *Config) { c.Import.TypeRules = []TypeRule{{Contains: "eco", Tag: "eco"}} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Import: ImportConfig{BatchSize: 10, SellerName: "S", TypeRules: DefaultTypeRules()}}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
