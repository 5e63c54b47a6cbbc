package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	cfg, err := FromYAML([]byte(GenerateDefault("u1")))
	if err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Kiosk.UserID != "u1" {
		t.Errorf("user id = %q", cfg.Kiosk.UserID)
	}
	if cfg.PollInterval() != 30*time.Second {
		t.Errorf("poll interval = %v", cfg.PollInterval())
	}
	if cfg.StoreTimeout() != 10*time.Second {
		t.Errorf("store timeout = %v", cfg.StoreTimeout())
	}
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing base url", func(c *Config) { c.Store.BaseURL = "" }, "base_url"},
		{"missing user id", func(c *Config) { c.Kiosk.UserID = "" }, "user_id"},
		{"zero poll", func(c *Config) { c.Kiosk.PollSeconds = 0 }, "poll_seconds"},
		{"zero width", func(c *Config) { c.Kiosk.DisplayWidth = 0 }, "display_width"},
		{"bad timezone", func(c *Config) { c.Kiosk.Timezone = "Mars/Olympus" }, "timezone"},
	}
	for _, tc := range cases {
		cfg := Default("u1")
		tc.mutate(cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: got %v want mention of %s", tc.name, err, tc.want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "pb config init") {
		t.Fatalf("got %v", err)
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOptional(dir)
	if err != nil || cfg != nil {
		t.Fatalf("got %+v,%v want nil,nil", cfg, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "parkboard.yml"), []byte(GenerateDefault("u2")), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadOptional(dir)
	if err != nil {
		t.Fatalf("load optional: %v", err)
	}
	if cfg.Kiosk.UserID != "u2" {
		t.Errorf("user id = %q", cfg.Kiosk.UserID)
	}
}

func TestFromYAMLInvalid(t *testing.T) {
	if _, err := FromYAML([]byte("store: [")); err == nil {
		t.Fatal("expected yaml error")
	}
}
