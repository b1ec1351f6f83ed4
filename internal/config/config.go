// Package config manages go-supplicant daemon configuration using koanf/v2.
//
// Supports YAML files and environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// -------------------------------------------------------------------------
// Configuration Structures
// -------------------------------------------------------------------------

// Config holds the complete go-supplicant daemon configuration.
type Config struct {
	Network NetworkConfig `koanf:"network"`
	Metrics MetricsConfig `koanf:"metrics"`
	Log     LogConfig     `koanf:"log"`
}

// NetworkConfig describes the association the supplicant drives.
type NetworkConfig struct {
	// SSID is the network name, used both for display and as the PBKDF2
	// salt when Passphrase is set.
	SSID string `koanf:"ssid"`

	// Passphrase derives the PMK via PBKDF2-HMAC-SHA1 when set. Mutually
	// exclusive with PMKHex.
	Passphrase string `koanf:"passphrase"`

	// PMKHex supplies a pre-derived 32-byte PMK as 64 hex characters,
	// skipping PBKDF2 entirely. Mutually exclusive with Passphrase.
	PMKHex string `koanf:"pmk_hex"`

	// Interface is the network interface the supplicant's Radio port binds to.
	Interface string `koanf:"interface"`

	// StationMAC is this station's own MAC address, colon-hex (SA in the
	// PTK derivation input).
	StationMAC string `koanf:"station_mac"`

	// APMAC is the associated AP's BSSID, colon-hex (AA in the PTK
	// derivation input).
	APMAC string `koanf:"ap_mac"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9100").
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// -------------------------------------------------------------------------
// Defaults
// -------------------------------------------------------------------------

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			Interface: "wlan0",
		},
		Metrics: MetricsConfig{
			Addr: ":9100",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// -------------------------------------------------------------------------
// Loader
// -------------------------------------------------------------------------

// envPrefix is the environment variable prefix for go-supplicant configuration.
// Variables are named SUPPLICANT_<section>_<key>, e.g., SUPPLICANT_NETWORK_SSID.
const envPrefix = "SUPPLICANT_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (SUPPLICANT_ prefix), and merges on top of
// DefaultConfig(). Missing fields inherit defaults.
//
// Environment variable mapping:
//
//	SUPPLICANT_NETWORK_SSID       -> network.ssid
//	SUPPLICANT_NETWORK_PASSPHRASE -> network.passphrase
//	SUPPLICANT_NETWORK_PMK_HEX    -> network.pmk_hex
//	SUPPLICANT_NETWORK_INTERFACE  -> network.interface
//	SUPPLICANT_METRICS_ADDR       -> metrics.addr
//	SUPPLICANT_METRICS_PATH       -> metrics.path
//	SUPPLICANT_LOG_LEVEL          -> log.level
//	SUPPLICANT_LOG_FORMAT         -> log.format
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config from %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config from %s: %w", path, err)
	}

	return cfg, nil
}

// envKeyMapper transforms SUPPLICANT_NETWORK_SSID -> network.ssid. Only the
// first underscore separates section from key, so SUPPLICANT_NETWORK_PMK_HEX
// maps to network.pmk_hex.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.Replace(s, "_", ".", 1)
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"network.interface": defaults.Network.Interface,
		"metrics.addr":      defaults.Metrics.Addr,
		"metrics.path":      defaults.Metrics.Path,
		"log.level":         defaults.Log.Level,
		"log.format":        defaults.Log.Format,
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Validation
// -------------------------------------------------------------------------

// Validation errors.
var (
	// ErrEmptySSID indicates the network SSID is empty.
	ErrEmptySSID = errors.New("network.ssid must not be empty")

	// ErrNoPMKSource indicates neither passphrase nor pmk_hex was configured.
	ErrNoPMKSource = errors.New("exactly one of network.passphrase or network.pmk_hex must be set")

	// ErrAmbiguousPMKSource indicates both passphrase and pmk_hex were configured.
	ErrAmbiguousPMKSource = errors.New("network.passphrase and network.pmk_hex are mutually exclusive")

	// ErrInvalidPMKHex indicates pmk_hex is not 64 valid hex characters.
	ErrInvalidPMKHex = errors.New("network.pmk_hex must be 64 hex characters (32 bytes)")

	// ErrEmptyMetricsAddr indicates the metrics listen address is empty.
	ErrEmptyMetricsAddr = errors.New("metrics.addr must not be empty")

	// ErrInvalidMAC indicates a station_mac/ap_mac value isn't a
	// colon-separated 6-octet hex address.
	ErrInvalidMAC = errors.New("MAC address must be 6 colon-separated hex octets")
)

// Validate checks the configuration for logical errors.
func Validate(cfg *Config) error {
	if cfg.Network.SSID == "" {
		return ErrEmptySSID
	}

	hasPassphrase := cfg.Network.Passphrase != ""
	hasPMKHex := cfg.Network.PMKHex != ""
	switch {
	case hasPassphrase && hasPMKHex:
		return ErrAmbiguousPMKSource
	case !hasPassphrase && !hasPMKHex:
		return ErrNoPMKSource
	case hasPMKHex:
		if _, err := DecodePMKHex(cfg.Network.PMKHex); err != nil {
			return err
		}
	}

	if cfg.Metrics.Addr == "" {
		return ErrEmptyMetricsAddr
	}

	if _, err := ParseMAC(cfg.Network.StationMAC); err != nil {
		return err
	}
	if _, err := ParseMAC(cfg.Network.APMAC); err != nil {
		return err
	}

	return nil
}

// ParseMAC parses a colon-separated hex MAC address into its 6 octets.
func ParseMAC(s string) ([6]byte, error) {
	var mac [6]byte
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return mac, ErrInvalidMAC
	}
	copy(mac[:], hw)
	return mac, nil
}

// DecodePMKHex parses a 64-character hex string into a 32-byte PMK.
func DecodePMKHex(s string) ([32]byte, error) {
	var pmk [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return pmk, ErrInvalidPMKHex
	}
	copy(pmk[:], raw)
	return pmk, nil
}

// -------------------------------------------------------------------------
// Log Level Parsing
// -------------------------------------------------------------------------

// ParseLogLevel maps a configuration log level string to the corresponding
// slog.Level. Unknown values default to slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
