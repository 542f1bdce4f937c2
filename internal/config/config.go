// Package config handles daemon configuration file management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kbrandt/ledwave/internal/dsp"
	"github.com/kbrandt/ledwave/internal/sacnout"
)

// Config is the daemon's bootstrap configuration -- persisted
// settings a restart should remember, as distinct from the DSP
// Settings an effect is run with, which is not persisted.
type Config struct {
	// SocketPath is stored in the file, but ledwaved listens on the
	// -socket flag's path, which defaults to /tmp/ledwaved-<uid>.sock,
	// so the daemon does not use this value.
	SocketPath string `json:"socketPath"`

	// PreferredDevice is matched against device names as a substring;
	// empty means "use the first available capture device".
	PreferredDevice string `json:"preferredDevice"`

	// DefaultEffect is the registry name an open request uses when it
	// names no effect.
	DefaultEffect string `json:"defaultEffect"`

	// SacnBindAddress is the local address the sACN sender binds to.
	SacnBindAddress string `json:"sacnBindAddress"`

	// SacnUniverse is the universe sent on until changed over IPC.
	SacnUniverse uint16 `json:"sacnUniverse"`

	// LogLevel names a log verbosity ("debug", "info", "warn",
	// "error"). It is stored in the file only; the daemon's logging does
	// not read it.
	LogLevel string `json:"logLevel"`

	// DSP is the mel-bin/frequency range an open request uses when it
	// gives no nBins; a client can change it later over IPC without
	// touching this file.
	DSP dsp.Settings `json:"dsp"`
}

// DefaultConfig returns the configuration a fresh install starts with.
func DefaultConfig() *Config {
	settings := dsp.DefaultSettings()
	return &Config{
		SocketPath:      "/tmp/ledwaved.sock",
		PreferredDevice: "",
		DefaultEffect:   "Melbank",
		SacnBindAddress: sacnout.DefaultBindAddress,
		SacnUniverse:    sacnout.DefaultUniverse,
		LogLevel:        "info",
		DSP:             settings,
	}
}

// Manager handles loading and saving configuration.
type Manager struct {
	configDir  string
	configPath string
	config     *Config
}

// NewManager creates a configuration manager rooted at configDir
// (typically ~/.config/ledwave).
func NewManager(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configPath: filepath.Join(configDir, "config.json"),
		config:     DefaultConfig(),
	}
}

// Load reads the configuration from disk, writing out defaults if no
// config file exists yet.
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		m.config = DefaultConfig()
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	m.config = config
	return nil
}

// Save writes the configuration to disk.
func (m *Manager) Save() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	return m.config
}

// GetPath returns the config file path.
func (m *Manager) GetPath() string {
	return m.configPath
}

// Update replaces the configuration and saves it.
func (m *Manager) Update(config *Config) error {
	m.config = config
	return m.Save()
}
