// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values.
type Config struct {
	// Simulation
	RefreshInterval int   `yaml:"refresh_interval_ms"` // milliseconds
	HistoryCapacity int   `yaml:"history_capacity"`
	RandomSeed      int64 `yaml:"random_seed"` // 0 = time-based

	// Web Server
	WebServerPort int `yaml:"web_server_port"`

	// MQTT mirror (disabled when MQTTBroker is empty)
	MQTTBroker            string `yaml:"mqtt_broker"`
	MQTTClientIDPublisher string `yaml:"mqtt_client_id_publisher"`
	MQTTClientIDConsole   string `yaml:"mqtt_client_id_console"`
	TopicTelemetry        string `yaml:"topic_telemetry"`

	// GPS NMEA feed (disabled when GPSSerialPort is empty)
	GPSSerialPort string `yaml:"gps_serial_port"`
	GPSBaudRate   int    `yaml:"gps_baud_rate"`

	// Display (disabled when DisplayI2CAddr is 0)
	DisplayI2CBus  string `yaml:"display_i2c_bus"`
	DisplayI2CAddr uint16 `yaml:"display_i2c_addr"`
	DisplayContent string `yaml:"display_content"` // "attitude", "position", "power"

	// mDNS
	MDNSEnabled  bool   `yaml:"mdns_enabled"`
	MDNSInstance string `yaml:"mdns_instance"`

	// Logging
	LogFile       string `yaml:"log_file"` // empty = stdout only
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`

	// Retries for broker and serial connects
	ConnectRetries int `yaml:"connect_retries"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		RefreshInterval:       1000,
		HistoryCapacity:       20,
		WebServerPort:         8080,
		MQTTClientIDPublisher: "drone-telemetry-publisher",
		MQTTClientIDConsole:   "drone-telemetry-console",
		TopicTelemetry:        "drone/telemetry",
		GPSBaudRate:           9600,
		DisplayI2CBus:         "1",
		DisplayContent:        "attitude",
		MDNSInstance:          "drone-telemetry",
		LogMaxSizeMB:          10,
		LogMaxBackups:         3,
		ConnectRetries:        5,
	}
}

// Load reads the configuration file over the defaults. Files ending in
// .yaml or .yml are decoded as YAML, anything else as KEY=VALUE lines.
// An empty path returns the defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	var err error
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		err = cfg.loadYAML(configPath)
	default:
		err = cfg.loadKeyValue(configPath)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) loadKeyValue(configPath string) error {
	file, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := c.setValue(key, value); err != nil {
			return fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// Simulation
	case "REFRESH_INTERVAL":
		c.RefreshInterval, err = parseInt(key, value)
	case "HISTORY_CAPACITY":
		c.HistoryCapacity, err = parseInt(key, value)
	case "RANDOM_SEED":
		c.RandomSeed, err = strconv.ParseInt(value, 10, 64)
		if err != nil {
			err = fmt.Errorf("invalid RANDOM_SEED %q: %w", value, err)
		}

	// Web Server
	case "WEB_SERVER_PORT":
		c.WebServerPort, err = parseInt(key, value)

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PUBLISHER":
		c.MQTTClientIDPublisher = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "TOPIC_TELEMETRY":
		c.TopicTelemetry = value

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		c.GPSBaudRate, err = parseInt(key, value)

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_I2C_ADDR":
		addr, perr := strconv.ParseUint(value, 0, 16)
		if perr != nil {
			return fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", value, perr)
		}
		c.DisplayI2CAddr = uint16(addr)
	case "DISPLAY_CONTENT":
		c.DisplayContent = value

	// mDNS
	case "MDNS_ENABLED":
		c.MDNSEnabled, err = strconv.ParseBool(value)
		if err != nil {
			err = fmt.Errorf("invalid MDNS_ENABLED %q: %w", value, err)
		}
	case "MDNS_INSTANCE":
		c.MDNSInstance = value

	// Logging
	case "LOG_FILE":
		c.LogFile = value
	case "LOG_MAX_SIZE_MB":
		c.LogMaxSizeMB, err = parseInt(key, value)
	case "LOG_MAX_BACKUPS":
		c.LogMaxBackups, err = parseInt(key, value)

	case "CONNECT_RETRIES":
		c.ConnectRetries, err = parseInt(key, value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}
	return err
}

func parseInt(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return v, nil
}

// validate checks ranges and required combinations.
func (c *Config) validate() error {
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive, got %d", c.RefreshInterval)
	}
	if c.HistoryCapacity <= 0 {
		return fmt.Errorf("HISTORY_CAPACITY must be positive, got %d", c.HistoryCapacity)
	}
	if c.WebServerPort < 1 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", c.WebServerPort)
	}
	if c.MQTTBroker != "" && c.TopicTelemetry == "" {
		return fmt.Errorf("TOPIC_TELEMETRY is required when MQTT_BROKER is set")
	}
	if c.GPSSerialPort != "" && c.GPSBaudRate <= 0 {
		return fmt.Errorf("GPS_BAUD_RATE must be positive, got %d", c.GPSBaudRate)
	}
	switch c.DisplayContent {
	case "attitude", "position", "power":
	default:
		return fmt.Errorf("DISPLAY_CONTENT must be attitude, position or power, got %q", c.DisplayContent)
	}
	if c.ConnectRetries < 0 {
		return fmt.Errorf("CONNECT_RETRIES must not be negative, got %d", c.ConnectRetries)
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Only the first call has any effect.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
