package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os/user"

	"github.com/go-playground/validator/v10"

	"github.com/florianilch/notegate/internal/graph"
	"github.com/florianilch/notegate/internal/msauth"
	"github.com/florianilch/notegate/internal/tokenstore"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// TokenStorageType represents the different storage types supported for stored tokens.
type TokenStorageType string

const (
	TokenStorageTypeFile    TokenStorageType = "file"
	TokenStorageTypeEnv     TokenStorageType = "env"
	TokenStorageTypeKeyring TokenStorageType = "keyring"
)

// AuthenticationMethod represents the different authentication methods supported.
type AuthenticationMethod string

const (
	// AuthenticationMethodStatic uses the stored token directly as the
	// access token (externally managed credential).
	AuthenticationMethodStatic AuthenticationMethod = "static"
	// AuthenticationMethodDeviceCode stores a refresh token, renews access
	// tokens silently and falls back to the device-code grant.
	AuthenticationMethodDeviceCode AuthenticationMethod = "devicecode"
)

// Default configuration values
const (
	DefaultConfigLogFormat    = LogFormatText
	DefaultConfigAuthStorage  = TokenStorageTypeFile
	DefaultConfigAuthMethod   = AuthenticationMethodDeviceCode
	DefaultConfigAuthTenant   = msauth.DefaultTenant
	DefaultConfigGraphBaseURL = graph.DefaultBaseURL
)

// AuthConfig represents the configuration for identity-provider authentication.
// Describes how to construct the TokenStore and token lifecycle components.
type AuthConfig struct {
	// ClientID is the registered application (client) ID. Optional here:
	// when empty it is resolved from the environment at construction.
	ClientID string `json:"client_id,omitempty"`

	// Tenant is the authority tenant segment ("common" accepts any account).
	Tenant string `json:"tenant" validate:"required"`

	// Authentication method - how the stored token becomes an access token
	Method AuthenticationMethod `json:"method" validate:"required,oneof=devicecode static"`

	// Storage configuration - where the stored token lives
	Storage TokenStorageType `json:"storage" validate:"required,oneof=file env keyring"`

	// Storage-specific settings (mutually exclusive based on Storage type)
	File        string `json:"file,omitempty"`         // For file storage: explicit token path override
	EnvKey      string `json:"env_key,omitempty"`      // For env storage: environment variable name
	KeyringUser string `json:"keyring_user,omitempty"` // For keyring storage: user identifier
}

// NewTokenStore creates a TokenStore from the authentication configuration.
// For file storage without an explicit path the location is probed once:
// secret mount when present, home directory otherwise.
func (a *AuthConfig) NewTokenStore() (tokenstore.TokenStore, error) {
	switch a.Storage {
	case TokenStorageTypeFile:
		path := a.File
		if path == "" {
			var err error
			path, err = tokenstore.DefaultLocation()
			if err != nil {
				return nil, fmt.Errorf("resolving token location: %w", err)
			}
		}
		return tokenstore.NewFileStore(path)
	case TokenStorageTypeEnv:
		return tokenstore.NewEnvStore(a.EnvKey)
	case TokenStorageTypeKeyring:
		return tokenstore.NewKeyringStore("notegate-token", a.KeyringUser)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", a.Storage)
	}
}

// GraphConfig holds downstream Microsoft Graph configuration.
type GraphConfig struct {
	BaseURL string `json:"base_url" validate:"required,url"`
}

// Config holds the application's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel  slog.Level  `json:"log_level"`
	LogFormat LogFormat   `json:"log_format" validate:"oneof=text json"`
	Auth      AuthConfig  `json:"auth"`
	Graph     GraphConfig `json:"graph"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.Auth.Tenant == "" {
		c.Auth.Tenant = DefaultConfigAuthTenant
	}
	if c.Auth.Method == "" {
		c.Auth.Method = DefaultConfigAuthMethod
	}
	if c.Auth.Storage == "" {
		c.Auth.Storage = DefaultConfigAuthStorage
	}
	if c.Graph.BaseURL == "" {
		c.Graph.BaseURL = DefaultConfigGraphBaseURL
	}

	// Dynamic defaults based on storage type
	switch c.Auth.Storage {
	case TokenStorageTypeFile:
		// File path default is environment-dependent (secret mount vs home
		// directory) and resolved by NewTokenStore at construction.
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			currentUser, err := user.Current()
			if err != nil {
				return fmt.Errorf("auth.keyring_user required (auto-detect failed: %w)", err)
			}
			c.Auth.KeyringUser = currentUser.Username
		}
	case TokenStorageTypeEnv:
		// env_key must be explicitly configured (no sensible default)
	}

	return nil
}

// Validate validates the configuration using struct tags and enum values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	// Device-code auth rotates refresh tokens and needs writable storage
	if c.Auth.Method == AuthenticationMethodDeviceCode && c.Auth.Storage == TokenStorageTypeEnv {
		return errors.New("device-code authentication requires writable storage, env is read-only")
	}

	switch c.Auth.Storage {
	case TokenStorageTypeEnv:
		if c.Auth.EnvKey == "" {
			return errors.New("env_key required for env storage")
		}
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			return errors.New("keyring_user required for keyring storage")
		}
	}

	return nil
}
