package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./sweetlist.db" {
			t.Errorf("expected database path ./sweetlist.db, got %s", config.Database.Path)
		}

		if config.App.BaseURL != "http://127.0.0.1:5000" {
			t.Errorf("expected base URL http://127.0.0.1:5000, got %s", config.App.BaseURL)
		}

		if config.Session.ID != "default" {
			t.Errorf("expected session id default, got %s", config.Session.ID)
		}

		if config.UI.PerPage != 9 {
			t.Errorf("expected 9 recipes per page, got %d", config.UI.PerPage)
		}

		if got := config.NotificationTTL(); got != 3*time.Second {
			t.Errorf("expected notification ttl 3s, got %v", got)
		}

		if got := config.SessionTTL(); got != 12*time.Hour {
			t.Errorf("expected session ttl 12h, got %v", got)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[app]
base_url = "https://recipes.example.com"

[credentials]
csrf_token = "tok"

[session]
id = "kitchen"

[http]
timeout = "2s"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.App.BaseURL != "https://recipes.example.com" {
			t.Errorf("expected custom base URL, got %s", config.App.BaseURL)
		}
		if config.Session.ID != "kitchen" {
			t.Errorf("expected session id kitchen, got %s", config.Session.ID)
		}
		if config.HTTPTimeout() != 2*time.Second {
			t.Errorf("expected timeout 2s, got %v", config.HTTPTimeout())
		}
		if config.UI.PerPage != 9 {
			t.Errorf("expected unspecified keys to keep defaults, got per_page %d", config.UI.PerPage)
		}
	})

	t.Run("LoadConfig rejects bad durations", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[session]\nttl = \"soon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ExpandHome", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		if got := ExpandHome("~/x/cookie.txt"); got != filepath.Join(home, "x", "cookie.txt") {
			t.Errorf("ExpandHome() = %s", got)
		}
		if got := ExpandHome("/abs/path"); got != "/abs/path" {
			t.Errorf("ExpandHome() should leave absolute paths alone, got %s", got)
		}
	})
}
