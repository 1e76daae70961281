package ash

import (
	"errors"
	"io"

	"github.com/rs/zerolog/log"
)

// Port is the duplex byte channel the transceiver reads/writes frames
// over. A timed-out Read must return an error with a Timeout() method
// reporting true (see isTimeout); any other error is treated as fatal for
// the current connection (§6).
type Port interface {
	io.Reader
	io.Writer
}

// timeoutError is implemented by errors that can report a recoverable
// read-timeout ("no data this tick"); isTimeout checks err for it to tell
// such a timeout apart from a fatal I/O error.
type timeoutError interface {
	Timeout() bool
}

func isTimeout(err error) bool {
	var te timeoutError
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return false
}

// frameReader accumulates bytes from a Port into frames, handling the
// control-byte state machine of §4.3 (CANCEL/FLAG/SUBSTITUTE/XON/XOFF/
// WAKE).
type frameReader struct {
	port            Port
	buf             []byte
	substituteError bool
	readBuf         [1]byte
}

func newFrameReader(port Port) *frameReader {
	return &frameReader{port: port, buf: make([]byte, 0, MaxFrameSize)}
}

// ReadFrame blocks until a complete frame is read, a read times out (nil,
// true, nil), or a fatal error occurs. On CRC mismatch it still returns
// the decoded frame with IsCRCValid()==false so the engine can enter
// reject; a decode failure (bad header/length) returns ErrMalformedFrame.
func (r *frameReader) ReadFrame() (Frame, bool, error) {
	for {
		n, err := r.port.Read(r.readBuf[:])
		if err != nil {
			if isTimeout(err) {
				return nil, true, nil
			}
			if errors.Is(err, io.EOF) {
				return nil, false, ErrUnexpectedEOF
			}
			return nil, false, err
		}
		if n == 0 {
			continue
		}

		b := r.readBuf[0]
		switch b {
		case cancelByte:
			r.buf = r.buf[:0]
			r.substituteError = false
		case substituteByte:
			r.buf = r.buf[:0]
			r.substituteError = true
		case xonByte:
			log.Debug().Msg("ash: XON received, NCP resuming")
		case xoffByte:
			log.Debug().Msg("ash: XOFF received, NCP pausing")
		case wakeByte:
			if len(r.buf) == 0 {
				log.Debug().Msg("ash: WAKE received")
				continue
			}
			r.buf = append(r.buf, b)
		case flagByte:
			hadError := r.substituteError
			frame := r.buf
			r.buf = r.buf[:0]
			r.substituteError = false
			if hadError || len(frame) == 0 {
				continue
			}
			f, err := DecodeFrame(unstuff(frame))
			if err != nil {
				return nil, false, err
			}
			return f, false, nil
		default:
			r.buf = append(r.buf, b)
			if len(r.buf) > MaxFrameSize {
				r.buf = r.buf[:0]
				return nil, false, ErrBufferOverflow
			}
		}
	}
}

// WriteFrame stuffs and terminates frame, writing it as a single
// operation.
func WriteFrame(port Port, f Frame) error {
	raw := f.encode()
	if len(raw) > MaxFrameSize {
		return ErrBufferOverflow
	}
	wire := stuff(raw)
	wire = append(wire, flagByte)
	_, err := port.Write(wire)
	return err
}
