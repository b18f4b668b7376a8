package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ajanata/touch/mpr121"
	"github.com/ajanata/touch/mpr121/conf"
	"github.com/ajanata/touch/mpr121/modbusmirror"
)

type Config struct {
	Bus        string `yaml:"bus"`
	Address    uint8  `yaml:"address"`
	AutoConfig bool   `yaml:"auto_config"`
	// Profile is a settings profile file, relative to the config file.
	Profile string `yaml:"profile"`

	PollMs int `yaml:"poll_ms"`
	DataMs int `yaml:"data_ms"`

	MQTT    *MQTTConfig    `yaml:"mqtt"`
	Modbus  *ModbusConfig  `yaml:"modbus"`
	Console *ConsoleConfig `yaml:"console"`
}

type MQTTConfig struct {
	Broker    string `yaml:"broker"`
	ClientID  string `yaml:"client_id"`
	Prefix    string `yaml:"prefix"`
	QoS       byte   `yaml:"qos"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type ModbusConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	Address   uint16 `yaml:"address"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type ConsoleConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

func defaultConfig() Config {
	return Config{
		Bus:     "/dev/i2c-1",
		Address: mpr121.DefaultAddress,
		PollMs:  10,
		DataMs:  100,
	}
}

// LoadConfig reads and validates the config file at path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := defaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Profile != "" && !filepath.IsAbs(cfg.Profile) {
		cfg.Profile = filepath.Join(filepath.Dir(path), cfg.Profile)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MQTT != nil {
		if c.MQTT.ClientID == "" {
			c.MQTT.ClientID = "touchbridge"
		}
		if c.MQTT.Prefix == "" {
			c.MQTT.Prefix = "touchbridge"
		}
		if c.MQTT.TimeoutMs == 0 {
			c.MQTT.TimeoutMs = 5000
		}
	}
	if c.Modbus != nil {
		if c.Modbus.UnitID == 0 {
			c.Modbus.UnitID = 1
		}
		if c.Modbus.TimeoutMs == 0 {
			c.Modbus.TimeoutMs = 1000
		}
	}
	if c.Console != nil && c.Console.Baud == 0 {
		c.Console.Baud = 115200
	}
}

// Validate checks the config without changing it.
func (c *Config) Validate() error {
	switch c.Address {
	case mpr121.DefaultAddress, mpr121.AddressVDD, mpr121.AddressSDA, mpr121.AddressSCL:
	default:
		return fmt.Errorf("address %#02x is not an MPR121 address", c.Address)
	}
	if c.Bus == "" {
		return errors.New("bus is required")
	}
	if c.PollMs <= 0 || c.DataMs <= 0 {
		return errors.New("poll_ms and data_ms must be positive")
	}
	if c.MQTT != nil {
		if c.MQTT.Broker == "" {
			return errors.New("mqtt: broker is required")
		}
		if c.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt: qos %d is not 0, 1 or 2", c.MQTT.QoS)
		}
	}
	if c.Modbus != nil {
		if c.Modbus.Endpoint == "" {
			return errors.New("modbus: endpoint is required")
		}
		if int(c.Modbus.Address)+modbusmirror.BlockSize > 0x10000 {
			return fmt.Errorf("modbus: address %d leaves no room for the register block", c.Modbus.Address)
		}
	}
	if c.Console != nil && c.Console.Port == "" {
		return errors.New("console: port is required")
	}
	return nil
}

func (c *Config) pollInterval() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

func (c *Config) dataInterval() time.Duration {
	return time.Duration(c.DataMs) * time.Millisecond
}

// loadSettings returns the settings from the profile, or the defaults without one.
func (c *Config) loadSettings() (mpr121.Settings, error) {
	if c.Profile == "" {
		return mpr121.DefaultSettings(), nil
	}
	f, err := os.Open(c.Profile)
	if err != nil {
		return mpr121.Settings{}, err
	}
	defer f.Close()
	p, err := conf.Load(f)
	if err != nil {
		return mpr121.Settings{}, fmt.Errorf("%s: %w", c.Profile, err)
	}
	return p.Settings(), nil
}
