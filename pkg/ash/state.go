package ash

import "time"

// Status is the transceiver's connection state (§3).
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnected
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnected:
		return "connected"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// state holds the transceiver's mutable protocol state (§3, §4.4). It is
// engine-local: only the engine goroutine touches it, so no locking is
// needed.
type state struct {
	status Status

	frameNumber          seq  // next outgoing DATA frame number
	lastReceivedFrameNum seq  // last accepted DATA frame number
	haveReceived         bool // false until the first DATA is accepted

	reject bool

	tRxAck time.Duration

	// sendOffset increments with every outgoing DATA frame since the
	// last accepted inbound DATA, so consecutive burst frames carry
	// distinct ack numbers (§9 design note: some NCPs assert when two
	// outstanding frames share an ack number).
	sendOffset uint8
}

func newState() *state {
	return &state{
		status: StatusDisconnected,
		tRxAck: initialRxAckTimeout,
	}
}

// nextFrameNumber returns the frame number to use for the next outgoing
// DATA frame and advances the counter.
func (s *state) nextFrameNumber() seq {
	n := s.frameNumber
	s.frameNumber = s.frameNumber.next()
	return n
}

// ackNumber is what the host ACKs/expects next: last received + 1, or 0
// before any DATA has been accepted (§3).
func (s *state) ackNumber() seq {
	if !s.haveReceived {
		return 0
	}
	return s.lastReceivedFrameNum.next()
}

// acceptDataFrame records f as the last accepted in-order DATA frame.
func (s *state) acceptDataFrame(f seq) {
	s.lastReceivedFrameNum = f
	s.haveReceived = true
	s.sendOffset = 0
}

// nextAckNum returns the ack number to stamp on the next outgoing DATA
// frame and advances the burst offset.
func (s *state) nextAckNum() seq {
	a := s.ackNumber().add(s.sendOffset)
	s.sendOffset++
	return a
}

// enterReject sets reject if not already set, reporting whether it just
// transitioned (so the caller knows whether to send a NAK).
func (s *state) enterReject() bool {
	if s.reject {
		return false
	}
	s.reject = true
	return true
}

func (s *state) leaveReject() {
	s.reject = false
}

// sampleRTO updates t_rx_ack from an observed ACK round-trip duration
// (§4.4): t_rx_ack := (7/8)*t_rx_ack + (1/2)*d, clamped.
func (s *state) sampleRTO(d time.Duration) {
	s.tRxAck = clampRTO(time.Duration(float64(s.tRxAck)*0.875 + float64(d)*0.5))
}

// doubleRTO is applied on a timeout with no fresh sample (§4.4): t_rx_ack
// := 2*t_rx_ack, clamped.
func (s *state) doubleRTO() {
	s.tRxAck = clampRTO(s.tRxAck * 2)
}

func clampRTO(d time.Duration) time.Duration {
	if d < minRxAckTimeout {
		return minRxAckTimeout
	}
	if d > maxRxAckTimeout {
		return maxRxAckTimeout
	}
	return d
}

// reset returns the state to its post-construction values, used when the
// engine re-initiates the RST/RSTACK handshake.
func (s *state) reset() {
	*s = state{status: StatusDisconnected, tRxAck: initialRxAckTimeout}
}
