// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compass_config.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(writeConfig(t, `
# compass configuration
MQTT_BROKER=tcp://localhost:1883
MQTT_CLIENT_ID_PRODUCER=compass-prod-1
TOPIC_HEADING=boat/compass/heading

BUS_BACKEND=periph
I2C_BUS=1
I2C_BUS_SPEED_KHZ=400
TICK_INTERVAL=250

RING_BACKEND=gpio
RING_GPIO_PINS=GPIO5,GPIO6,GPIO13,GPIO19,GPIO26,GPIO16,GPIO20,GPIO21

NMEA_SERIAL_PORT=/dev/ttyUSB0
NMEA_BAUD_RATE=4800
NMEA_VARIATION_DEG=-1.5
WEB_SERVER_PORT=9090
`))
	assert.NoError(err)
	assert.Equal("tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal("compass-prod-1", cfg.MQTTClientIDProducer)
	assert.Equal("boat/compass/heading", cfg.TopicHeading)
	assert.Equal("periph", cfg.BusBackend)
	assert.Equal("1", cfg.I2CBus)
	assert.Equal(400, cfg.I2CBusSpeedKHz)
	assert.Equal(250, cfg.TickInterval)
	assert.Equal("gpio", cfg.RingBackend)
	assert.Equal([8]string{"GPIO5", "GPIO6", "GPIO13", "GPIO19", "GPIO26", "GPIO16", "GPIO20", "GPIO21"},
		cfg.GPIOPinNames())
	assert.Equal("/dev/ttyUSB0", cfg.NMEASerialPort)
	assert.Equal(4800, cfg.NMEABaudRate)
	assert.InDelta(-1.5, cfg.NMEAVariationDeg, 1e-9)
	assert.Equal(9090, cfg.WebServerPort)
}

func TestLoadAppliesDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(writeConfig(t, "MQTT_BROKER=tcp://localhost:1883\n"))
	assert.NoError(err)
	assert.Equal("emu", cfg.BusBackend)
	assert.Equal("console", cfg.RingBackend)
	assert.Equal("fixed", cfg.EmuFieldMode)
	assert.Equal(100, cfg.TickInterval)
	assert.Equal("compass/heading", cfg.TopicHeading)
	assert.Equal(-1000, cfg.EmuFieldX, "default field points the emulated board North")
}

func TestLoadRejectsBadInput(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing broker", "BUS_BACKEND=emu\n"},
		{"unknown key", "MQTT_BROKER=tcp://x:1883\nNO_SUCH_KEY=1\n"},
		{"malformed line", "MQTT_BROKER=tcp://x:1883\njust some words\n"},
		{"bad backend", "MQTT_BROKER=tcp://x:1883\nBUS_BACKEND=spi\n"},
		{"bad ring", "MQTT_BROKER=tcp://x:1883\nRING_BACKEND=laser\n"},
		{"tick too small", "MQTT_BROKER=tcp://x:1883\nTICK_INTERVAL=0\n"},
		{"tick too large", "MQTT_BROKER=tcp://x:1883\nTICK_INTERVAL=100000\n"},
		{"field out of range", "MQTT_BROKER=tcp://x:1883\nEMU_FIELD_X=40000\n"},
		{"bad field mode", "MQTT_BROKER=tcp://x:1883\nEMU_FIELD_MODE=spin\n"},
		{"gpio ring without pins", "MQTT_BROKER=tcp://x:1883\nRING_BACKEND=gpio\n"},
		{"serial without baud", "MQTT_BROKER=tcp://x:1883\nNMEA_SERIAL_PORT=/dev/ttyS0\nNMEA_BAUD_RATE=0\n"},
		{"variation out of range", "MQTT_BROKER=tcp://x:1883\nNMEA_VARIATION_DEG=200\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadSkipsCommentsAndBlankLines(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
# broker
MQTT_BROKER = tcp://broker:1883

  # indented comment
TICK_INTERVAL = 42
`))
	assert.NoError(t, err)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTTBroker)
	assert.Equal(t, 42, cfg.TickInterval)
}
