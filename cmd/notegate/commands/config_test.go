package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/florianilch/notegate/internal/app"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", nil, func() []string { return nil })
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.LogFormat != app.LogFormatText {
		t.Errorf("LogFormat = %q, want text", cfg.LogFormat)
	}
	if cfg.Auth.Method != app.AuthenticationMethodDeviceCode {
		t.Errorf("Auth.Method = %q, want devicecode", cfg.Auth.Method)
	}
	if cfg.Auth.Storage != app.TokenStorageTypeFile {
		t.Errorf("Auth.Storage = %q, want file", cfg.Auth.Storage)
	}
	if cfg.Auth.Tenant != "common" {
		t.Errorf("Auth.Tenant = %q, want common", cfg.Auth.Tenant)
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	environ := func() []string {
		return []string{
			"NOTEGATE_LOG_FORMAT=json",
			"NOTEGATE_LOG_LEVEL=DEBUG",
			"NOTEGATE_AUTH__TENANT=contoso.onmicrosoft.com",
			"NOTEGATE_AUTH__FILE=/tmp/notegate-token",
			"UNRELATED_VARIABLE=ignored",
		}
	}

	cfg, err := loadConfig("", nil, environ)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.LogFormat != app.LogFormatJSON {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.Auth.Tenant != "contoso.onmicrosoft.com" {
		t.Errorf("Auth.Tenant = %q", cfg.Auth.Tenant)
	}
	if cfg.Auth.File != "/tmp/notegate-token" {
		t.Errorf("Auth.File = %q", cfg.Auth.File)
	}
}

func TestLoadConfigEnvironmentOverridesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "notegate.toml")
	configTOML := `log_format = "json"

[auth]
tenant = "from-file"
client_id = "file-client-id"
`
	if err := os.WriteFile(configPath, []byte(configTOML), 0600); err != nil {
		t.Fatal(err)
	}

	environ := func() []string {
		return []string{"NOTEGATE_AUTH__TENANT=from-env"}
	}

	cfg, err := loadConfig(configPath, nil, environ)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Auth.Tenant != "from-env" {
		t.Errorf("Auth.Tenant = %q, want env to override file", cfg.Auth.Tenant)
	}
	// File values without env overrides survive.
	if cfg.Auth.ClientID != "file-client-id" {
		t.Errorf("Auth.ClientID = %q, want value from file", cfg.Auth.ClientID)
	}
	if cfg.LogFormat != app.LogFormatJSON {
		t.Errorf("LogFormat = %q, want value from file", cfg.LogFormat)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	environ := func() []string {
		return []string{"NOTEGATE_AUTH__STORAGE=env"} // read-only storage with device-code auth
	}

	if _, err := loadConfig("", nil, environ); err == nil {
		t.Error("loadConfig accepted device-code auth with env storage, want error")
	}
}
