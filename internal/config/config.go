// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string

	// Topics
	TopicHeading string

	// Board selection: "emu" runs the emulated board, "periph" drives real
	// hardware through the periph.io bus.
	BusBackend     string
	I2CBus         string // periph bus name, empty means first available
	I2CBusSpeedKHz int    // 0 leaves the adapter default

	// Control loop timing: countdown ticks per timer event (1 kHz tick).
	TickInterval int

	// Emulated board
	EmuFieldX       int // sensor units
	EmuFieldY       int
	EmuFieldZ       int
	EmuFieldMode    string // "fixed" or "rotate"
	EmuRotatePeriod int    // milliseconds per full revolution
	EmuBusLatency   int    // ISR reads per bus event before flags rise

	// Indicator ring: "console", "oled", or "gpio"
	RingBackend  string
	RingGPIOPins string // 8 pin names, comma separated, octant order N..NW

	// NMEA output
	NMEASerialPort   string
	NMEABaudRate     int
	NMEAVariationDeg float64 // magnetic variation, east positive

	// Web Server
	WebServerPort int
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported (lowercase) so other packages cannot access it directly.
//     This enforces encapsulation and prevents external code from modifying config without proper locking.
//     Has package-level scope (visible to all functions in this package, persists for program lifetime).
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock (Lock) for initialization,
//     read lock (RLock) for Get() allows multiple concurrent readers without blocking each other.
//
// External code must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
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
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaults returns a Config preloaded with the values a development machine
// wants: emulated board, console ring, a fixed northward field.
func defaults() *Config {
	return &Config{
		MQTTClientIDProducer: "compass-producer",
		MQTTClientIDConsole:  "compass-console",
		TopicHeading:         "compass/heading",
		BusBackend:           "emu",
		TickInterval:         100,
		EmuFieldX:            -1000, // field toward -X reads as North
		EmuFieldMode:         "fixed",
		EmuRotatePeriod:      8000,
		RingBackend:          "console",
		NMEABaudRate:         4800,
		WebServerPort:        8081,
	}
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_HEADING":
		c.TopicHeading = value

	// Board
	case "BUS_BACKEND":
		c.BusBackend = value
	case "I2C_BUS":
		c.I2CBus = value
	case "I2C_BUS_SPEED_KHZ":
		speed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid I2C_BUS_SPEED_KHZ %q: %w", value, err)
		}
		if speed < 0 || speed > 1000 {
			return fmt.Errorf("I2C_BUS_SPEED_KHZ must be 0-1000, got %d", speed)
		}
		c.I2CBusSpeedKHz = speed

	// Timing
	case "TICK_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TICK_INTERVAL %q: %w", value, err)
		}
		if interval < 1 || interval > 65535 {
			return fmt.Errorf("TICK_INTERVAL must be 1-65535 counter ticks, got %d", interval)
		}
		c.TickInterval = interval

	// Emulated board
	case "EMU_FIELD_X":
		v, err := parseFieldValue(key, value)
		if err != nil {
			return err
		}
		c.EmuFieldX = v
	case "EMU_FIELD_Y":
		v, err := parseFieldValue(key, value)
		if err != nil {
			return err
		}
		c.EmuFieldY = v
	case "EMU_FIELD_Z":
		v, err := parseFieldValue(key, value)
		if err != nil {
			return err
		}
		c.EmuFieldZ = v
	case "EMU_FIELD_MODE":
		c.EmuFieldMode = value
	case "EMU_ROTATE_PERIOD":
		period, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid EMU_ROTATE_PERIOD %q: %w", value, err)
		}
		if period < 100 {
			return fmt.Errorf("EMU_ROTATE_PERIOD must be at least 100 ms, got %d", period)
		}
		c.EmuRotatePeriod = period
	case "EMU_BUS_LATENCY":
		latency, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid EMU_BUS_LATENCY %q: %w", value, err)
		}
		if latency < 0 || latency > 1000 {
			return fmt.Errorf("EMU_BUS_LATENCY must be 0-1000, got %d", latency)
		}
		c.EmuBusLatency = latency

	// Ring
	case "RING_BACKEND":
		c.RingBackend = value
	case "RING_GPIO_PINS":
		c.RingGPIOPins = value

	// NMEA
	case "NMEA_SERIAL_PORT":
		c.NMEASerialPort = value
	case "NMEA_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid NMEA_BAUD_RATE %q: %w", value, err)
		}
		c.NMEABaudRate = rate
	case "NMEA_VARIATION_DEG":
		variation, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid NMEA_VARIATION_DEG %q: %w", value, err)
		}
		if variation < -180 || variation > 180 {
			return fmt.Errorf("NMEA_VARIATION_DEG must be -180..180, got %v", variation)
		}
		c.NMEAVariationDeg = variation

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parseFieldValue(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v < -32768 || v > 32767 {
		return 0, fmt.Errorf("%s must fit the sensor's 16-bit output, got %d", key, v)
	}
	return v, nil
}

// validate checks that all required fields are set and enumerations hold.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	switch c.BusBackend {
	case "emu", "periph":
	default:
		return fmt.Errorf("BUS_BACKEND must be \"emu\" or \"periph\", got %q", c.BusBackend)
	}
	switch c.RingBackend {
	case "console", "oled", "gpio":
	default:
		return fmt.Errorf("RING_BACKEND must be \"console\", \"oled\" or \"gpio\", got %q", c.RingBackend)
	}
	if c.RingBackend == "gpio" {
		pins := strings.Split(c.RingGPIOPins, ",")
		if len(pins) != 8 {
			return fmt.Errorf("RING_GPIO_PINS needs 8 comma-separated pin names, got %d", len(pins))
		}
	}
	switch c.EmuFieldMode {
	case "fixed", "rotate":
	default:
		return fmt.Errorf("EMU_FIELD_MODE must be \"fixed\" or \"rotate\", got %q", c.EmuFieldMode)
	}
	if c.NMEASerialPort != "" && c.NMEABaudRate <= 0 {
		return fmt.Errorf("NMEA_BAUD_RATE is required when NMEA_SERIAL_PORT is set")
	}
	return nil
}

// GPIOPinNames returns the configured ring pins in octant order.
func (c *Config) GPIOPinNames() [8]string {
	var names [8]string
	for i, name := range strings.SplitN(c.RingGPIOPins, ",", 8) {
		if i >= len(names) {
			break
		}
		names[i] = strings.TrimSpace(name)
	}
	return names
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
// Acquires write lock (configMu.Lock) during initialization to prevent concurrent access.
// This is the only function that can set globalConfig.
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
// Uses read lock (configMu.RLock) to allow multiple concurrent readers without blocking.
// This is thread-safe and efficient for concurrent access across goroutines.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
