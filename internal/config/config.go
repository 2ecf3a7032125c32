package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/muurk/slhttpd/internal/netproc"
	"github.com/muurk/slhttpd/internal/token"
)

const (
	appName    = "slhttpd"
	configFile = "config.yaml"
)

// Mutex for file writes
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory.
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			baseDir = filepath.Join(xdg, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the default configuration file path.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the configuration at path, or the default path when path is
// empty. A missing file yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks version, server settings and token declarations.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}
	if err := netproc.ValidateHostname(c.Server.Hostname); err != nil {
		return fmt.Errorf("invalid hostname %q: %w", c.Server.Hostname, err)
	}

	seen := make(map[token.ID]bool)
	for _, d := range c.GetTokens {
		id, err := parseExact(d.ID)
		if err != nil {
			return fmt.Errorf("get token: %w", err)
		}
		if seen[id] {
			return fmt.Errorf("get token %q declared twice", d.ID)
		}
		seen[id] = true

		switch d.Source {
		case SourceStatic, SourceUptime, SourceHitsGet, SourceHitsPost, SourceStored:
		default:
			return fmt.Errorf("get token %q: unknown source %q", d.ID, d.Source)
		}
	}

	clear(seen)
	for _, d := range c.PostTokens {
		id, err := parseExact(d.ID)
		if err != nil {
			return fmt.Errorf("post token: %w", err)
		}
		if seen[id] {
			return fmt.Errorf("post token %q declared twice", d.ID)
		}
		seen[id] = true

		switch d.Sink {
		case SinkLog, SinkStore:
		default:
			return fmt.Errorf("post token %q: unknown sink %q", d.ID, d.Sink)
		}
	}
	return nil
}

// parseExact rejects ids that the registry would silently truncate, so a
// config file never declares two names that collapse to one token.
func parseExact(s string) (token.ID, error) {
	if len(s) != token.Width {
		return token.ID{}, fmt.Errorf("%w: %q must be exactly %d bytes", token.ErrInvalid, s, token.Width)
	}
	return token.Parse(s)
}

// ProcessorSettings converts the server section for the emulator.
func (c *Config) ProcessorSettings() netproc.Settings {
	return netproc.Settings{
		Host:     c.Server.Host,
		Port:     c.Server.EffectivePort(),
		Hostname: c.Server.Hostname,
		PageDir:  c.Server.PageDir,
		ROMPages: c.Server.ROMPages,
		MDNS:     c.Server.MDNS,
		Monitor:  c.Server.Monitor,
	}
}

// Save writes the configuration to path (default path when empty) via a
// temporary file and rename.
func (c *Config) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# slhttpd emulator configuration\n# Location: " + path + "\n\n")
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}
