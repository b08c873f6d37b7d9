// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/led_compass/internal/config"
	"github.com/relabs-tech/led_compass/internal/emu"
	"github.com/relabs-tech/led_compass/internal/heading"
	"github.com/relabs-tech/led_compass/internal/mag"
	"github.com/relabs-tech/led_compass/internal/mcu"
	"github.com/relabs-tech/led_compass/internal/task"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// DebugBoard is the emulated board the register debug tool operates on. One
// mutex serializes websocket register access against REST transactions so a
// debug poke cannot land mid-transfer.
type DebugBoard struct {
	mu     sync.Mutex
	bus    *emu.Bus
	sensor *emu.Magnetometer
	timer  *emu.Timer
}

// NewDebugBoard builds the emulated board for debugging. The tool pokes
// registers directly, so it refuses to run against real hardware.
func NewDebugBoard(cfg *config.Config) (*DebugBoard, error) {
	if cfg.BusBackend != "emu" {
		return nil, fmt.Errorf("register_debug: needs BUS_BACKEND=emu, have %q", cfg.BusBackend)
	}
	bus, sensor, _ := openEmu(cfg)
	return &DebugBoard{bus: bus, sensor: sensor, timer: emu.NewTimer(nil)}, nil
}

// registerSession holds WebSocket connection state for register debugging.
//
// Incoming messages are JSON objects routed on their "action" field:
//
//	get_map    device                  -> register_map response
//	read       device, addr            -> register_data response
//	read_all   device                  -> register_data with all registers
//	write      device, addr, value     -> register_data confirmation
//	set_field  x, y, z                 -> status response
//
// device is "i2c", "tim" or "mag". Bus and timer registers are addressed by
// name ("CR2", "ISR", ...), magnetometer registers by hex address ("0x03").
type registerSession struct {
	conn  *websocket.Conn
	board *DebugBoard
}

// RegisterResponse is the JSON schema for every websocket reply.
type RegisterResponse struct {
	Type        string             `json:"type"`             // "register_data", "register_map", "status", "error"
	Device      string             `json:"device,omitempty"` // "i2c", "tim", "mag"
	Address     string             `json:"addr,omitempty"`
	Value       string             `json:"value,omitempty"`
	Registers   map[string]string  `json:"registers,omitempty"` // for bulk read
	Timestamp   string             `json:"timestamp,omitempty"`
	Message     string             `json:"message,omitempty"`
	RegisterMap []mcu.RegisterInfo `json:"register_map,omitempty"`
}

// HandleWS handles the WebSocket connection for register debugging.
func (db *DebugBoard) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("register_debug: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	session := &registerSession{conn: conn, board: db}

	// Send the magnetometer map on connection
	if err := session.sendRegisterMap("mag"); err != nil {
		log.Printf("register_debug: error sending register map: %v", err)
		return
	}

	// Message loop
	for {
		var rawMsg map[string]interface{}
		err := conn.ReadJSON(&rawMsg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("register_debug: websocket error: %v", err)
			}
			break
		}

		action, ok := rawMsg["action"].(string)
		if !ok {
			session.sendError("missing or invalid action field")
			continue
		}

		// Route based on action
		switch action {
		case "get_map":
			device, _ := rawMsg["device"].(string)
			if device == "" {
				device = "mag" // default
			}
			session.sendRegisterMap(device)
		case "read":
			session.handleRead(rawMsg)
		case "read_all":
			session.handleReadAll(rawMsg)
		case "write":
			session.handleWrite(rawMsg)
		case "set_field":
			session.handleSetField(rawMsg)
		default:
			session.sendError(fmt.Sprintf("unknown action: %s", action))
		}
	}
}

func (s *registerSession) handleRead(rawMsg map[string]interface{}) {
	device, _ := rawMsg["device"].(string)
	addr, _ := rawMsg["addr"].(string)

	if device == "" || addr == "" {
		s.sendError("missing device or addr field")
		return
	}

	value, err := s.board.readRegister(device, addr)
	if err != nil {
		s.sendError(fmt.Sprintf("read error: %v", err))
		return
	}

	resp := RegisterResponse{
		Type:      "register_data",
		Device:    device,
		Address:   addr,
		Value:     value,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	s.conn.WriteJSON(resp)
}

func (s *registerSession) handleReadAll(rawMsg map[string]interface{}) {
	device, _ := rawMsg["device"].(string)
	if device == "" {
		device = "mag"
	}

	registers, err := s.board.readAllRegisters(device)
	if err != nil {
		s.sendError(fmt.Sprintf("read all error: %v", err))
		return
	}

	resp := RegisterResponse{
		Type:      "register_data",
		Device:    device,
		Registers: registers,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	s.conn.WriteJSON(resp)
}

func (s *registerSession) handleWrite(rawMsg map[string]interface{}) {
	device, _ := rawMsg["device"].(string)
	addr, _ := rawMsg["addr"].(string)
	valueStr, _ := rawMsg["value"].(string)

	if device == "" || addr == "" || valueStr == "" {
		s.sendError("missing device, addr, or value field")
		return
	}

	if err := s.board.writeRegister(device, addr, valueStr); err != nil {
		s.sendError(fmt.Sprintf("write error: %v", err))
		return
	}

	resp := RegisterResponse{
		Type:      "register_data",
		Device:    device,
		Address:   addr,
		Value:     valueStr,
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   "write successful",
	}
	s.conn.WriteJSON(resp)
}

func (s *registerSession) handleSetField(rawMsg map[string]interface{}) {
	x, _ := rawMsg["x"].(float64)
	y, _ := rawMsg["y"].(float64)
	z, _ := rawMsg["z"].(float64)

	db := s.board
	db.mu.Lock()
	db.sensor.SetField(int16(x), int16(y), int16(z))
	db.mu.Unlock()

	resp := RegisterResponse{
		Type:      "status",
		Message:   fmt.Sprintf("field set to (%d, %d, %d)", int16(x), int16(y), int16(z)),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	s.conn.WriteJSON(resp)
}

func (s *registerSession) sendRegisterMap(device string) error {
	var regMap []mcu.RegisterInfo
	switch device {
	case "i2c":
		regMap = mcu.I2CRegisterMap()
	case "tim":
		regMap = mcu.TimerRegisterMap()
	case "mag":
		regMap = mcu.MagnetometerRegisterMap()
	default:
		return s.conn.WriteJSON(RegisterResponse{
			Type:    "error",
			Message: fmt.Sprintf("unknown device: %s", device),
		})
	}

	resp := RegisterResponse{
		Type:        "register_map",
		Device:      device,
		RegisterMap: regMap,
	}
	return s.conn.WriteJSON(resp)
}

func (s *registerSession) sendError(message string) {
	resp := RegisterResponse{
		Type:    "error",
		Message: message,
	}
	s.conn.WriteJSON(resp)
}

func (db *DebugBoard) readRegister(device, addr string) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	switch device {
	case "i2c":
		switch addr {
		case "CR2":
			return fmt.Sprintf("0x%08X", db.bus.ReadCR2()), nil
		case "ISR":
			return fmt.Sprintf("0x%08X", db.bus.ReadISR()), nil
		case "RXDR":
			// Pops the receive queue, exactly like a firmware read would.
			return fmt.Sprintf("0x%02X", db.bus.ReadRXDR()), nil
		}
		return "", fmt.Errorf("unknown i2c register %q", addr)
	case "tim":
		switch addr {
		case "CR1":
			return fmt.Sprintf("0x%08X", db.timer.ReadCR1()), nil
		case "SR":
			return fmt.Sprintf("0x%08X", db.timer.ReadSR()), nil
		case "ARR":
			return fmt.Sprintf("0x%04X", db.timer.ReadARR()), nil
		}
		return "", fmt.Errorf("unknown timer register %q", addr)
	case "mag":
		var reg byte
		if _, err := fmt.Sscanf(addr, "0x%X", &reg); err != nil {
			return "", fmt.Errorf("invalid address format: %s", addr)
		}
		v, ok := db.sensor.Peek(reg)
		if !ok {
			return "", fmt.Errorf("no magnetometer register 0x%02X", reg)
		}
		return fmt.Sprintf("0x%02X", v), nil
	}
	return "", fmt.Errorf("unknown device %q", device)
}

// readAllRegisters skips the data registers on the i2c device: reading RXDR
// pops the queue, so bulk reads only report the control and status side.
func (db *DebugBoard) readAllRegisters(device string) (map[string]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	registers := make(map[string]string)
	switch device {
	case "i2c":
		registers["CR2"] = fmt.Sprintf("0x%08X", db.bus.ReadCR2())
		registers["ISR"] = fmt.Sprintf("0x%08X", db.bus.ReadISR())
	case "tim":
		registers["CR1"] = fmt.Sprintf("0x%08X", db.timer.ReadCR1())
		registers["SR"] = fmt.Sprintf("0x%08X", db.timer.ReadSR())
		registers["ARR"] = fmt.Sprintf("0x%04X", db.timer.ReadARR())
	case "mag":
		for _, info := range mcu.MagnetometerRegisterMap() {
			var reg byte
			if _, err := fmt.Sscanf(info.Address, "0x%X", &reg); err != nil {
				continue
			}
			if v, ok := db.sensor.Peek(reg); ok {
				registers[info.Address] = fmt.Sprintf("0x%02X", v)
			}
		}
	default:
		return nil, fmt.Errorf("unknown device %q", device)
	}
	return registers, nil
}

func (db *DebugBoard) writeRegister(device, addr, value string) error {
	var v uint32
	if _, err := fmt.Sscanf(value, "0x%X", &v); err != nil {
		return fmt.Errorf("invalid value format: %s", value)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	switch device {
	case "i2c":
		switch addr {
		case "CR2":
			db.bus.WriteCR2(v)
			return nil
		case "TXDR":
			db.bus.WriteTXDR(uint8(v))
			return nil
		}
		return fmt.Errorf("i2c register %q is not writable", addr)
	case "tim":
		switch addr {
		case "CR1":
			db.timer.WriteCR1(v)
			return nil
		case "ARR":
			db.timer.WriteARR(uint16(v))
			return nil
		case "SR":
			// rc_w0: any write clears the update flag.
			db.timer.ClearUIF()
			return nil
		}
		return fmt.Errorf("unknown timer register %q", addr)
	case "mag":
		var reg byte
		if _, err := fmt.Sscanf(addr, "0x%X", &reg); err != nil {
			return fmt.Errorf("invalid address format: %s", addr)
		}
		if !db.sensor.Poke(reg, uint8(v)) {
			return fmt.Errorf("no magnetometer register 0x%02X", reg)
		}
		return nil
	}
	return fmt.Errorf("unknown device %q", device)
}

// HandleHeading serves the current heading via REST. It runs one full sensor
// transaction against the emulated bus and reports the derived heading.
func (db *DebugBoard) HandleHeading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	db.mu.Lock()
	sample := task.Run(mag.Read(db.bus))
	db.mu.Unlock()

	angle := heading.FromSample(sample)
	p := headingPayload{
		X:       sample.X,
		Y:       sample.Y,
		Z:       sample.Z,
		Norm:    sample.Norm(),
		Radians: angle,
		Bearing: heading.Bearing(angle),
		Octant:  heading.Octant(angle).String(),
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	json.NewEncoder(w).Encode(p)
}
