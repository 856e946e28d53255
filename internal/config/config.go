// Package config resolves asmkit settings from defaults, an optional config
// file, ASMKIT_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"asmkit/internal/ena"
	"asmkit/internal/fault"
	"asmkit/internal/logging"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "ASMKIT"

// Keys.
const (
	KeyCores          = "cores"
	KeyRequestTimeout = "request_timeout"
	KeyXMLURL         = "ena.xml_url"
	KeyFTPURL         = "ena.ftp_url"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
)

// FlagKeys maps command-line flag names onto config keys.
var FlagKeys = map[string]string{
	"cores":           KeyCores,
	"request-timeout": KeyRequestTimeout,
	"log-level":       KeyLogLevel,
	"log-format":      KeyLogFormat,
}

// ErrCores reports an unusable worker count.
var ErrCores = errors.New("invalid number of cores")

// Config is the resolved configuration of one invocation.
type Config struct {
	Cores          int
	RequestTimeout time.Duration
	XMLURL         string
	FTPURL         string
	LogLevel       string
	LogFormat      string
}

// NewViper returns a viper instance with defaults and environment binding
// installed. Each invocation gets its own instance.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyCores, 1)
	v.SetDefault(KeyRequestTimeout, int(ena.DefaultTimeout/time.Second))
	v.SetDefault(KeyXMLURL, ena.DefaultXMLURL)
	v.SetDefault(KeyFTPURL, ena.DefaultFTPURL)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logging.FormatAuto)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag in fs that has a config key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range FlagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the optional config file and returns the resolved settings.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		if err := fault.RequireInput(file); err != nil {
			return Config{}, err
		}
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	return Config{
		Cores:          v.GetInt(KeyCores),
		RequestTimeout: time.Duration(v.GetInt(KeyRequestTimeout)) * time.Second,
		XMLURL:         v.GetString(KeyXMLURL),
		FTPURL:         v.GetString(KeyFTPURL),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
	}, nil
}

// Validate checks the settings against the machine's CPU count.
func (c Config) Validate(numCPU int) error {
	if c.Cores < 1 {
		return fmt.Errorf("%w: %d, need at least 1", ErrCores, c.Cores)
	}
	if c.Cores > numCPU {
		return fmt.Errorf("%w: %d requested but only %d available", ErrCores, c.Cores, numCPU)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatAuto, logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
