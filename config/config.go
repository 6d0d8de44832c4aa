// Package config provides the safe-client configuration.
//
// The configuration is an explicit value handed to the API client at
// construction time. Nothing in the signing packages reads it.
//
//	APIHost = "https://api.mixin.one"
//	UserAgent = "Bot-API-Go-Client"
//	Timeout = 10
//	KeystorePath = "/etc/safe/keystore.json"
//
//	[Logging]
//	Level = "INFO"
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIHost   = "https://api.mixin.one"
	DefaultUserAgent = "Bot-API-Go-Client"

	defaultTimeout  = 10
	defaultLogLevel = "INFO"
)

// Logging is the logging configuration.
type Logging struct {
	// Level specifies the log level (ERROR, WARNING, INFO, DEBUG).
	Level string
}

func (lCfg *Logging) validate() error {
	lvl := strings.ToUpper(lCfg.Level)
	switch lvl {
	case "ERROR", "WARNING", "INFO", "DEBUG":
	case "":
		lvl = defaultLogLevel
	default:
		return fmt.Errorf("config: Logging: Level '%v' is invalid", lCfg.Level)
	}
	lCfg.Level = lvl
	return nil
}

// Config is the top level client configuration.
type Config struct {
	// APIHost is the base URL requests are sent to.
	APIHost string

	// UserAgent is sent with every request.
	UserAgent string

	// Timeout is the per-request timeout in seconds.
	Timeout int

	// KeystorePath is the path of the SafeUser keystore JSON file.
	KeystorePath string

	Logging *Logging
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := new(Config)
	if err := cfg.FixupAndValidate(); err != nil {
		panic(err)
	}
	return cfg
}

// RequestTimeout returns Timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// FixupAndValidate applies defaults to config entries and validates the
// supplied configuration.
func (c *Config) FixupAndValidate() error {
	if c.APIHost == "" {
		c.APIHost = DefaultAPIHost
	}
	c.APIHost = strings.TrimRight(c.APIHost, "/")
	u, err := url.Parse(c.APIHost)
	if err != nil {
		return fmt.Errorf("config: APIHost '%v' is invalid: %w", c.APIHost, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: APIHost '%v' must be an http or https URL", c.APIHost)
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: Timeout %d is negative", c.Timeout)
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.Logging == nil {
		c.Logging = &Logging{}
	}
	return c.Logging.validate()
}

// Load parses and validates the provided buffer b as a config file body
// and returns the Config.
func Load(b []byte) (*Config, error) {
	cfg := new(Config)
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("config: Undecoded keys in config file: %v", undecoded)
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses and validates the provided file and returns the
// Config.
func LoadFile(f string) (*Config, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return Load(b)
}
