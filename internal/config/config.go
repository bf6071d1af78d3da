// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

// Package config loads server configuration from flags and an optional YAML
// file. Flags provide the defaults; file values override unset flags;
// flags set explicitly on the command line win over the file.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Defaults mirror the original deployment's settings.
const (
	DefaultListenAddr   = ":8000"
	DefaultMetricsAddr  = "127.0.0.1:9100"
	DefaultLogFormat    = "json"
	DefaultCookieMaxAge = 7 * 24 * time.Hour
)

// Cookie holds the attributes of the session_token cookie.
type Cookie struct {
	HTTPOnly bool          `koanf:"http_only"`
	Secure   bool          `koanf:"secure"`
	SameSite string        `koanf:"same_site"`
	MaxAge   time.Duration `koanf:"max_age"`
}

// Config is the full server configuration.
type Config struct {
	ListenAddr  string   `koanf:"listen_addr"`
	MetricsAddr string   `koanf:"metrics_addr"`
	DatabaseURL string   `koanf:"database_url"`
	LogFormat   string   `koanf:"log_format"`
	CORSOrigins []string `koanf:"cors_origins"`
	Cookie      Cookie   `koanf:"cookie"`
}

// RegisterFlags declares every config key on the flag set with its default.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("listen_addr", DefaultListenAddr, "API listen address")
	flags.String("metrics_addr", DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	flags.String("database_url", "", "PostgreSQL connection URL")
	flags.String("log_format", DefaultLogFormat, "log format (json or text)")
	flags.StringSlice("cors_origins", nil, "allowed CORS origins")
	flags.Bool("cookie.http_only", true, "set HttpOnly on the session cookie")
	flags.Bool("cookie.secure", false, "set Secure on the session cookie")
	flags.String("cookie.same_site", "lax", "session cookie SameSite policy (lax, strict, or none)")
	flags.Duration("cookie.max_age", DefaultCookieMaxAge, "advisory session cookie max age")
}

// Load builds the configuration from the flag set and, when path is
// non-empty, a YAML file.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	// Passing k lets posflag skip defaults for keys the file already set.
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DatabaseURL reads only the database_url key from the YAML file at path.
// The migrate command needs no other keys, so no flag defaults or
// validation apply.
func DatabaseURL(path string) (string, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return "", oops.Code("CONFIG_FILE_FAILED").
			With("path", path).
			Wrap(err)
	}
	return k.String("database_url"), nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("listen_addr is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	switch c.Cookie.SameSite {
	case "lax", "strict", "none":
	default:
		return oops.Code("CONFIG_INVALID").Errorf("cookie.same_site must be 'lax', 'strict', or 'none', got %q", c.Cookie.SameSite)
	}
	if c.Cookie.MaxAge <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("cookie.max_age must be positive")
	}
	return nil
}
