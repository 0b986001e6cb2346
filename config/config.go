package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"pitchcast/midi"
	"pitchcast/oscout"
)

const (
	DefaultBindAddr = "127.0.0.1:57000"
	DefaultDestAddr = "127.0.0.1:57001"
)

// PortConfig remembers the last chosen MIDI ports by name
type PortConfig struct {
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
	// Forward: nil asks at startup
	Forward *bool `json:"forward,omitempty"`
}

// NetworkConfig is the UDP side
type NetworkConfig struct {
	BindAddr   string `json:"bindAddr"`
	DestAddr   string `json:"destAddr"`
	OSCAddress string `json:"oscAddress"`
}

// Config is the main configuration structure
type Config struct {
	Network       NetworkConfig `json:"network"`
	Ports         PortConfig    `json:"ports,omitempty"`
	NoteOffPolicy string        `json:"noteOffPolicy,omitempty"` // status | velocity
	Ignore        midi.Ignore   `json:"ignore"`
	LogLevel      string        `json:"logLevel,omitempty"`
	DebugLog      string        `json:"debugLog,omitempty"` // path, empty = off
	Palette       string        `json:"palette,omitempty"`  // GPL file, empty = built in
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			BindAddr:   DefaultBindAddr,
			DestAddr:   DefaultDestAddr,
			OSCAddress: oscout.DefaultAddress,
		},
		NoteOffPolicy: midi.PolicyStatus.String(),
		Ignore:        midi.IgnoreAll,
		LogLevel:      "info",
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pitchcast"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path, or returns defaults if it does not exist.
// Missing fields keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "read config")
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks everything that would otherwise fail at setup
func (c *Config) Validate() error {
	if _, err := net.ResolveUDPAddr("udp", c.Network.BindAddr); err != nil {
		return errors.Wrap(err, "network.bindAddr")
	}
	if _, err := net.ResolveUDPAddr("udp", c.Network.DestAddr); err != nil {
		return errors.Wrap(err, "network.destAddr")
	}
	if _, err := oscout.NewEncoder(c.Network.OSCAddress); err != nil {
		return errors.Wrap(err, "network.oscAddress")
	}
	if _, err := c.Policy(); err != nil {
		return errors.Wrap(err, "noteOffPolicy")
	}
	if _, err := c.Level(); err != nil {
		return errors.Wrap(err, "logLevel")
	}
	return nil
}

func (c *Config) Policy() (midi.Policy, error) {
	return midi.ParsePolicy(c.NoteOffPolicy)
}

func (c *Config) Level() (logrus.Level, error) {
	if c.LogLevel == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(c.LogLevel)
}
