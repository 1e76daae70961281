package ash

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Response is what a submitted request resolves to: the reassembled,
// unmasked payload bytes, or the error that aborted the connection while
// the request was in flight.
type Response struct {
	Payload []byte
	Err     error
}

type request struct {
	payload []byte
	respCh  chan Response
}

// Transceiver is the ASHv2 engine (C5): a single goroutine that owns the
// serial channel, frame scratch buffer, in-flight window, and connection
// state. Producers and consumers interact with it only through Submit,
// Callbacks, and Close (§5).
type Transceiver struct {
	port       Port
	reader     *frameReader
	st         *state
	win        *window
	maxPayload int

	requests  chan *request
	callbacks chan []byte

	active    *request
	chunks    [][]byte
	collected []byte

	// status and rtoNanos mirror st fields for lock-free reads from
	// other goroutines (e.g. a status-reporting HTTP handler); the
	// engine is the only writer.
	status   atomic.Int32
	rtoNanos atomic.Int64

	onHandshake func(attempts int, elapsed time.Duration, code ResetCode)

	stopCh chan struct{}
	doneCh chan struct{}
}

// Status reports the transceiver's current connection status. Safe to
// call from any goroutine.
func (t *Transceiver) Status() Status {
	return Status(t.status.Load())
}

// RTO reports the current adaptive retransmit timeout as of the engine's
// last update. Safe to call from any goroutine.
func (t *Transceiver) RTO() time.Duration {
	return time.Duration(t.rtoNanos.Load())
}

func (t *Transceiver) setStatus(s Status) {
	t.st.status = s
	t.status.Store(int32(s))
}

func (t *Transceiver) syncRTO() {
	t.rtoNanos.Store(int64(t.st.tRxAck))
}

// Option configures Spawn.
type Option func(*Transceiver)

// WithMaxPayloadSize overrides DefaultMaxPayloadSize (Open Question 1,
// spec §9); verify the chosen bound against the target NCP before raising
// it.
func WithMaxPayloadSize(n int) Option {
	return func(t *Transceiver) { t.maxPayload = n }
}

// WithCallbackBuffer sets the capacity of the channel unsolicited NCP
// DATA (received with no request awaiting it) is pushed to. Default 32.
func WithCallbackBuffer(n int) Option {
	return func(t *Transceiver) { t.callbacks = make(chan []byte, n) }
}

// WithHandshakeObserver registers a callback invoked, from the engine
// goroutine, after each successful RST/RSTACK handshake (spec §4.5 step
// 3) with the attempt count, elapsed time, and reset code the NCP
// reported. Used to persist connection diagnostics without pkg/ash
// depending on a storage layer. The callback must not block.
func WithHandshakeObserver(fn func(attempts int, elapsed time.Duration, code ResetCode)) Option {
	return func(t *Transceiver) { t.onHandshake = fn }
}

// Spawn starts the transceiver engine against an already-configured
// serial channel and returns immediately; the engine connects and begins
// servicing requests in the background.
func Spawn(port Port, opts ...Option) *Transceiver {
	t := &Transceiver{
		port:       port,
		reader:     newFrameReader(port),
		st:         newState(),
		win:        newWindow(),
		maxPayload: DefaultMaxPayloadSize,
		requests:   make(chan *request),
		callbacks:  make(chan []byte, 32),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.status.Store(int32(StatusDisconnected))
	t.rtoNanos.Store(int64(t.st.tRxAck))
	go t.run()
	return t
}

// Submit fragments payload into DATA frames and blocks until the engine
// has delivered a response or surfaced an error. Requests are serviced,
// and responses emerge, in submission order (§5, §6).
func (t *Transceiver) Submit(payload []byte) ([]byte, error) {
	req := &request{payload: payload, respCh: make(chan Response, 1)}
	select {
	case t.requests <- req:
	case <-t.doneCh:
		return nil, ErrTerminated
	}
	select {
	case resp := <-req.respCh:
		return resp.Payload, resp.Err
	case <-t.doneCh:
		return nil, ErrTerminated
	}
}

// Callbacks yields DATA payloads received when no request was awaiting a
// response (NCP-initiated messages).
func (t *Transceiver) Callbacks() <-chan []byte {
	return t.callbacks
}

// Close requests graceful shutdown and waits for the engine to exit, then
// closes the port if it has a Close method. In-flight requests receive
// ErrTerminated.
func (t *Transceiver) Close() error {
	select {
	case <-t.stopCh:
	default:
		close(t.stopCh)
	}
	<-t.doneCh
	if c, ok := t.port.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (t *Transceiver) stopping() bool {
	select {
	case <-t.stopCh:
		return true
	default:
		return false
	}
}

// run is the main loop (§4.5): connect when disconnected or failed,
// otherwise communicate. It owns every engine-local field; nothing else
// touches st, win, reader, active, chunks, or collected.
func (t *Transceiver) run() {
	defer close(t.doneCh)
	defer t.failOutstanding(ErrTerminated)

	for !t.stopping() {
		var err error
		switch t.Status() {
		case StatusDisconnected, StatusFailed:
			err = t.connect()
		case StatusConnected:
			err = t.communicate()
		}
		if err != nil {
			log.Error().Err(err).Msg("ash: engine error, resetting connection")
			t.failOutstanding(err)
			t.win = newWindow()
			t.st.reset()
			t.syncRTO()
			// Any engine error transitions to Failed (§7): the next
			// iteration re-initiates the RST/RSTACK handshake.
			t.setStatus(StatusFailed)
		}
	}
}

func (t *Transceiver) failOutstanding(err error) {
	if t.active != nil {
		t.active.respCh <- Response{Err: err}
		t.active = nil
	}
	t.chunks = nil
	t.collected = nil
}

// connect implements §4.5's Connect procedure: send RST, wait up to
// T_RSTACK_MAX for RSTACK, retry on timeout. It records the attempt count
// and elapsed time for diagnostics (spec §4.5 step 3).
func (t *Transceiver) connect() error {
	start := time.Now()
	attempts := 0
	for !t.stopping() {
		attempts++
		if err := WriteFrame(t.port, NewRSTFrame()); err != nil {
			return fmt.Errorf("ash: send RST: %w", err)
		}

		deadline := time.Now().Add(RSTACKTimeout)
		for time.Now().Before(deadline) {
			f, timedOut, err := t.reader.ReadFrame()
			if err != nil {
				return fmt.Errorf("ash: read during connect: %w", err)
			}
			if timedOut {
				if t.stopping() {
					return ErrTerminated
				}
				continue
			}

			rstack, ok := f.(*RSTACKFrame)
			if !ok {
				log.Debug().Str("kind", f.Kind().String()).Msg("ash: ignoring frame while disconnected")
				continue
			}
			if rstack.Version != protocolVersion {
				t.setStatus(StatusFailed)
				return fmt.Errorf("ash: %w: NCP reports version %d", ErrUnsupportedVersion, rstack.Version)
			}

			t.st.reset()
			t.syncRTO()
			t.setStatus(StatusConnected)
			log.Info().Uint8("code", uint8(rstack.Code)).Int("attempts", attempts).Dur("elapsed", time.Since(start)).Msg("ash: connected")
			if t.onHandshake != nil {
				t.onHandshake(attempts, time.Since(start), rstack.Code)
			}
			return nil
		}
		log.Warn().Dur("timeout", RSTACKTimeout).Msg("ash: RSTACK timeout, resending RST")
	}
	return ErrTerminated
}

// communicate implements one iteration of §4.5's Communicate loop.
func (t *Transceiver) communicate() error {
	if err := t.sendPendingRequests(); err != nil {
		return err
	}
	if err := t.drainReceivedFrames(); err != nil {
		return err
	}
	if err := t.retransmitTimedOut(); err != nil {
		return err
	}
	t.admitNextRequest()
	t.checkCompletion()
	return nil
}

// admitNextRequest pulls a new host request into service when the engine
// has none active, fragmenting it into DATA payload chunks.
func (t *Transceiver) admitNextRequest() {
	if t.active != nil {
		return
	}
	select {
	case req := <-t.requests:
		chunks, err := fragment(req.payload, t.maxPayload)
		if err != nil {
			req.respCh <- Response{Err: err}
			return
		}
		t.active = req
		t.chunks = chunks
		t.collected = nil
	default:
	}
}

// sendPendingRequests fills the in-flight window (TX_K) with chunks from
// the active request, stamping each with a distinct ack number (§9).
func (t *Transceiver) sendPendingRequests() error {
	for len(t.chunks) > 0 && !t.win.full() {
		chunk := t.chunks[0]
		t.chunks = t.chunks[1:]

		frame := NewDataFrame(t.st.nextFrameNumber(), t.st.nextAckNum(), false, chunk)
		if err := WriteFrame(t.port, frame); err != nil {
			return fmt.Errorf("ash: write DATA: %w", err)
		}
		t.win.add(newTransmission(frame, time.Now()))
	}
	return nil
}

// drainReceivedFrames reads and dispatches every frame currently
// available, stopping at the first read timeout (§4.5).
func (t *Transceiver) drainReceivedFrames() error {
	for {
		f, timedOut, err := t.reader.ReadFrame()
		if err != nil {
			return fmt.Errorf("ash: read: %w", err)
		}
		if timedOut {
			return nil
		}
		if err := t.dispatch(f); err != nil {
			return err
		}
	}
}

func (t *Transceiver) dispatch(f Frame) error {
	switch fr := f.(type) {
	case *ACKFrame:
		t.handleAck(fr.AckNum)
	case *NAKFrame:
		t.handleNak(fr.AckNum)
	case *DataFrame:
		return t.handleData(fr)
	case *ErrorFrame:
		t.setStatus(StatusFailed)
		return fmt.Errorf("ash: %w", &NCPError{Version: fr.Version, Code: fr.Code})
	case *RSTACKFrame:
		t.setStatus(StatusFailed)
		return fmt.Errorf("ash: %w", ErrConnectionReset)
	case *RSTFrame:
		log.Debug().Msg("ash: unexpected RST from NCP, ignoring")
	default:
		log.Debug().Str("kind", f.Kind().String()).Msg("ash: ignoring unrecognized frame")
	}
	return nil
}

func (t *Transceiver) handleAck(n seq) {
	for _, tx := range t.win.ackThrough(n) {
		t.st.sampleRTO(tx.elapsed(time.Now()))
	}
	t.syncRTO()
}

func (t *Transceiver) handleNak(n seq) {
	tx, ok := t.win.findByFrameNum(n)
	if !ok {
		return
	}
	now := time.Now()
	tx.markResent(now)
	if err := WriteFrame(t.port, tx.frame); err != nil {
		log.Error().Err(err).Msg("ash: NAK-triggered retransmit write failed")
	}
}

func (t *Transceiver) handleData(f *DataFrame) error {
	if !f.IsCRCValid() {
		t.enterReject()
		return nil
	}

	switch {
	case f.FrameNum == t.st.ackNumber():
		t.st.leaveReject()
		t.st.acceptDataFrame(f.FrameNum)
		t.ackInFlightThrough(f.AckNum)
		t.deliver(f.Payload)
		return t.sendAck()
	case f.Retransmit:
		t.ackInFlightThrough(f.AckNum)
		t.deliver(f.Payload)
		return t.sendAck()
	default:
		t.enterReject()
		return nil
	}
}

func (t *Transceiver) ackInFlightThrough(n seq) {
	for _, tx := range t.win.ackThrough(n) {
		t.st.sampleRTO(tx.elapsed(time.Now()))
	}
	t.syncRTO()
}

func (t *Transceiver) deliver(payload []byte) {
	if t.active != nil {
		t.collected = append(t.collected, payload...)
		return
	}
	select {
	case t.callbacks <- payload:
	default:
		log.Warn().Msg("ash: callback channel full, dropping unsolicited DATA")
	}
}

func (t *Transceiver) sendAck() error {
	if err := WriteFrame(t.port, NewACKFrame(t.st.ackNumber(), false)); err != nil {
		return fmt.Errorf("ash: write ACK: %w", err)
	}
	return nil
}

func (t *Transceiver) enterReject() {
	if !t.st.enterReject() {
		return
	}
	if err := WriteFrame(t.port, NewNAKFrame(t.st.ackNumber(), false)); err != nil {
		log.Error().Err(err).Msg("ash: write NAK failed")
	}
}

// retransmitTimedOut walks the window oldest-first, resending any
// transmission whose elapsed time exceeds t_rx_ack (§4.5, §8 invariant 3).
func (t *Transceiver) retransmitTimedOut() error {
	now := time.Now()
	for _, tx := range t.win.oldestFirst() {
		if tx.elapsed(now) <= t.st.tRxAck {
			continue
		}
		if tx.exhausted() {
			t.setStatus(StatusFailed)
			return fmt.Errorf("ash: frame %d: %w", tx.frame.FrameNum, ErrMaxRetransmitsExceeded)
		}
		tx.markResent(now)
		t.st.doubleRTO()
		t.syncRTO()
		if err := WriteFrame(t.port, tx.frame); err != nil {
			return fmt.Errorf("ash: retransmit write: %w", err)
		}
	}
	return nil
}

// checkCompletion resolves the active request once its window has
// drained after its last chunk was sent (Open Question 3, spec §9).
func (t *Transceiver) checkCompletion() {
	if t.active == nil {
		return
	}
	if len(t.chunks) > 0 || t.win.len() > 0 {
		return
	}
	t.active.respCh <- Response{Payload: t.collected}
	t.active = nil
	t.collected = nil
}
