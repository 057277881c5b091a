package roomba

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// DefaultBaudRate is the Open Interface rate of 500/600 series vacuums.
const DefaultBaudRate = 115200

// Wake line choices for USB serial adapters.
const (
	WakeLineRTS  = "rts"
	WakeLineDTR  = "dtr"
	WakeLineNone = "none"
)

// SerialPort wraps a serial connection to the vacuum's mini-DIN port.
// The adapter's RTS or DTR output drives the BRC wake pin.
type SerialPort struct {
	port     serial.Port
	wakeLine string
	mu       sync.Mutex
}

// OpenSerial opens the serial port at baudRate, 8N1.
func OpenSerial(portPath string, baudRate int, wakeLine string) (*SerialPort, error) {
	switch wakeLine {
	case WakeLineRTS, WakeLineDTR, WakeLineNone:
	default:
		return nil, fmt.Errorf("unknown wake line %q", wakeLine)
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portPath, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portPath, err)
	}

	s := &SerialPort{port: port, wakeLine: wakeLine}

	// Start released so the vacuum is not held awake.
	if err := s.SetWake(false); err != nil {
		_ = port.Close()
		return nil, err
	}

	log.Info().Str("port", portPath).Int("baud", baudRate).Str("wake_line", wakeLine).Msg("Serial port opened")

	return s, nil
}

// Write sends raw bytes to the serial port.
func (s *SerialPort) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Write(data)
}

// Read reads raw bytes from the serial port.
func (s *SerialPort) Read(buf []byte) (int, error) {
	return s.port.Read(buf)
}

// Close closes the serial port.
func (s *SerialPort) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Close()
}

// SetWake drives the wake pin low when asserted. Adapter control outputs
// are active low, so asserting the signal pulls the pin down.
func (s *SerialPort) SetWake(asserted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.wakeLine {
	case WakeLineRTS:
		if err := s.port.SetRTS(asserted); err != nil {
			return fmt.Errorf("set RTS: %w", err)
		}
	case WakeLineDTR:
		if err := s.port.SetDTR(asserted); err != nil {
			return fmt.Errorf("set DTR: %w", err)
		}
	}
	return nil
}

// ListPorts returns the serial ports present on the host.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
