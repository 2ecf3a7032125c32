package config

import "github.com/muurk/slhttpd/internal/firmware"

// CurrentVersion is the only file version understood.
const CurrentVersion = 1

// Config is the whole configuration file.
type Config struct {
	Version    int            `yaml:"version"`
	Server     ServerConfig   `yaml:"server"`
	GetTokens  []GetTokenDef  `yaml:"get_tokens,omitempty"`
	PostTokens []PostTokenDef `yaml:"post_tokens,omitempty"`
}

// ServerConfig holds the emulated processor's HTTP server settings.
type ServerConfig struct {
	Host     string `yaml:"host,omitempty"` // Listen address, empty = all interfaces
	Port     uint16 `yaml:"port"`
	Hostname string `yaml:"hostname"`
	PageDir  string `yaml:"page_dir,omitempty"` // User file system root
	ROMPages bool   `yaml:"rom_pages"`
	MDNS     bool   `yaml:"mdns"`
	Monitor  bool   `yaml:"monitor"` // Websocket token event monitor
	LogLevel string `yaml:"log_level,omitempty"`
}

// GET token value sources.
const (
	SourceStatic   = "static"    // Value field, verbatim
	SourceUptime   = "uptime"    // Seconds since the emulator started
	SourceHitsGet  = "hits-get"  // Global GET token hit count
	SourceHitsPost = "hits-post" // Global POST token hit count
	SourceStored   = "stored"    // Last value posted to a store sink with the same Key
)

// POST token sinks.
const (
	SinkLog   = "log"   // Log the posted value
	SinkStore = "store" // Keep the posted value for stored sources
)

// GetTokenDef declares a GET token served by the emulator.
type GetTokenDef struct {
	ID     string `yaml:"id"`
	Source string `yaml:"source"`
	Value  string `yaml:"value,omitempty"` // for static
	Key    string `yaml:"key,omitempty"`   // for stored, defaults to ID
}

// PostTokenDef declares a POST token handled by the emulator.
type PostTokenDef struct {
	ID   string `yaml:"id"`
	Sink string `yaml:"sink"`
	Key  string `yaml:"key,omitempty"` // for store, defaults to ID
}

// StoreKey returns the key a stored source reads.
func (d GetTokenDef) StoreKey() string {
	if d.Key != "" {
		return d.Key
	}
	return d.ID
}

// StoreKey returns the key a store sink writes.
func (d PostTokenDef) StoreKey() string {
	if d.Key != "" {
		return d.Key
	}
	return d.ID
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Server: ServerConfig{
			Port:     8080,
			Hostname: "slhttpd",
			ROMPages: true,
			Monitor:  true,
		},
		GetTokens: []GetTokenDef{
			{ID: "UP", Source: SourceUptime},
			{ID: "HG", Source: SourceHitsGet},
			{ID: "HP", Source: SourceHitsPost},
			{ID: "LD", Source: SourceStored},
		},
		PostTokens: []PostTokenDef{
			{ID: "LD", Sink: SinkStore},
			{ID: "MS", Sink: SinkLog},
		},
	}
}

// EffectivePort returns the configured port, or the firmware default.
func (s ServerConfig) EffectivePort() uint16 {
	if s.Port == 0 {
		return firmware.DefaultPort
	}
	return s.Port
}
