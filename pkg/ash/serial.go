package ash

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// FlowControl selects the baud/handshake pairing the NCP expects (§6).
type FlowControl int

const (
	// FlowControlRTSCTS is the default RTS/CTS pairing: OpenSerial sets
	// 115200 baud and asserts RTS. It does not enable CTS-driven hardware
	// flow control in the serial driver.
	FlowControlRTSCTS FlowControl = iota
	// FlowControlXOnXOff is the XON/XOFF pairing: OpenSerial sets 57600
	// baud. No software flow control is enabled in the serial driver; the
	// frame reader logs XON/XOFF bytes and otherwise ignores them.
	FlowControlXOnXOff
)

// PortConfig configures OpenSerial.
type PortConfig struct {
	FlowControl FlowControl
	ReadTimeout time.Duration
}

func DefaultPortConfig() PortConfig {
	return PortConfig{FlowControl: FlowControlRTSCTS, ReadTimeout: idlePollInterval}
}

// SerialPort adapts go.bug.st/serial to the Port interface the
// transceiver reads and writes frames over.
type SerialPort struct {
	port serial.Port
}

// OpenSerial opens path with the given configuration, applying the baud
// rate of the selected flow-control pairing (and asserting RTS for
// RTS/CTS) and configuring a read timeout so blocked reads surface as recoverable timeouts rather than
// hanging the engine indefinitely.
func OpenSerial(path string, cfg PortConfig) (*SerialPort, error) {
	mode := &serial.Mode{
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	switch cfg.FlowControl {
	case FlowControlXOnXOff:
		mode.BaudRate = 57600
	default:
		mode.BaudRate = 115200
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("ash: open serial port %s: %w", path, err)
	}

	if cfg.FlowControl == FlowControlRTSCTS {
		if err := port.SetRTS(true); err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("ash: set RTS on %s: %w", path, err)
		}
	}

	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = idlePollInterval
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("ash: set read timeout on %s: %w", path, err)
	}

	log.Info().Str("port", path).Int("baud", mode.BaudRate).Msg("ash: serial port opened")

	return &SerialPort{port: port}, nil
}

// readTimeoutError is returned by Read when go.bug.st/serial's read
// timeout elapses with no bytes available; it satisfies the timeoutError
// interface frameReader checks for.
type readTimeoutError struct{}

func (readTimeoutError) Error() string { return "ash: serial read timeout" }
func (readTimeoutError) Timeout() bool { return true }

// Read implements Port. go.bug.st/serial reports a lapsed read timeout as
// (0, nil) rather than an error; translate that into readTimeoutError so
// the frame reader's generic timeout handling applies uniformly.
func (s *SerialPort) Read(buf []byte) (int, error) {
	n, err := s.port.Read(buf)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, readTimeoutError{}
	}
	return n, nil
}

func (s *SerialPort) Write(data []byte) (int, error) {
	return s.port.Write(data)
}

func (s *SerialPort) Close() error {
	return s.port.Close()
}
