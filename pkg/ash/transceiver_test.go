package ash

import (
	"testing"
	"time"
)

// fakePort is an in-memory Port for engine tests: p.in supplies bytes the
// engine reads (as if from the NCP); every Write is captured whole on
// p.out so a test can assert what the engine sent.
type fakePort struct {
	in  chan byte
	out chan []byte
}

func newFakePort() *fakePort {
	return &fakePort{in: make(chan byte, 4096), out: make(chan []byte, 64)}
}

func (p *fakePort) Read(buf []byte) (int, error) {
	select {
	case b, ok := <-p.in:
		if !ok {
			return 0, ErrUnexpectedEOF
		}
		buf[0] = b
		return 1, nil
	case <-time.After(15 * time.Millisecond):
		return 0, readTimeoutError{}
	}
}

func (p *fakePort) Write(data []byte) (int, error) {
	cp := append([]byte(nil), data...)
	p.out <- cp
	return len(data), nil
}

func (p *fakePort) pushFrame(f Frame) {
	wire := append(stuff(f.encode()), flagByte)
	for _, b := range wire {
		p.in <- b
	}
}

func recvFrame(t *testing.T, out <-chan []byte, timeout time.Duration) Frame {
	t.Helper()
	select {
	case wire := <-out:
		unstuffed := unstuff(wire[:len(wire)-1]) // strip trailing FLAG
		f, err := DecodeFrame(unstuffed)
		if err != nil {
			t.Fatalf("decode sent frame: %v", err)
		}
		return f
	case <-time.After(timeout):
		t.Fatal("timed out waiting for engine to write a frame")
		return nil
	}
}

func TestTransceiverConnectHandshake(t *testing.T) {
	port := newFakePort()
	port.pushFrame(NewRSTACKFrame(protocolVersion, ResetPowerOn))

	tr := Spawn(port)
	defer tr.Close()

	rst := recvFrame(t, port.out, time.Second)
	if rst.Kind() != KindRST {
		t.Fatalf("got %v, want RST", rst.Kind())
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if tr.Status() == StatusConnected {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("engine did not reach Connected, status=%v", tr.Status())
}

func TestTransceiverRejectsUnsupportedVersion(t *testing.T) {
	port := newFakePort()
	port.pushFrame(NewRSTACKFrame(9, ResetPowerOn))

	tr := Spawn(port)
	defer tr.Close()

	recvFrame(t, port.out, time.Second) // RST

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if tr.Status() == StatusFailed {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected Failed status for unsupported version, got %v", tr.Status())
}

func connectedTransceiver(t *testing.T, port *fakePort) *Transceiver {
	t.Helper()
	port.pushFrame(NewRSTACKFrame(protocolVersion, ResetPowerOn))
	tr := Spawn(port)
	recvFrame(t, port.out, time.Second) // RST

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if tr.Status() == StatusConnected {
			return tr
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("engine did not connect")
	return nil
}

func TestTransceiverRejectRoundTrip(t *testing.T) {
	port := newFakePort()
	tr := connectedTransceiver(t, port)
	defer tr.Close()

	// Out-of-order DATA (frame_num=1, expected 0): engine enters reject
	// and NAKs ack number 0.
	port.pushFrame(NewDataFrame(1, 0, false, []byte{0xAA, 0xBB, 0xCC}))
	nak := recvFrame(t, port.out, time.Second)
	n, ok := nak.(*NAKFrame)
	if !ok {
		t.Fatalf("got %T, want *NAKFrame", nak)
	}
	if n.AckNum != 0 {
		t.Fatalf("got AckNum %d, want 0", n.AckNum)
	}

	// In-order DATA (frame_num=0): engine leaves reject and ACKs 1.
	port.pushFrame(NewDataFrame(0, 0, false, []byte{0x01, 0x02, 0x03}))
	ack := recvFrame(t, port.out, time.Second)
	a, ok := ack.(*ACKFrame)
	if !ok {
		t.Fatalf("got %T, want *ACKFrame", ack)
	}
	if a.AckNum != 1 {
		t.Fatalf("got AckNum %d, want 1", a.AckNum)
	}
}

func TestTransceiverSubmitRoundTrip(t *testing.T) {
	port := newFakePort()
	tr := connectedTransceiver(t, port)
	defer tr.Close()

	respPayload := []byte{0xDE, 0xAD, 0xBE}
	done := make(chan struct{})
	var gotPayload []byte
	var gotErr error
	go func() {
		gotPayload, gotErr = tr.Submit([]byte{0x01, 0x02, 0x03, 0x04})
		close(done)
	}()

	sent := recvFrame(t, port.out, time.Second)
	df, ok := sent.(*DataFrame)
	if !ok {
		t.Fatalf("got %T, want *DataFrame", sent)
	}
	if df.FrameNum != 0 {
		t.Fatalf("got FrameNum %d, want 0", df.FrameNum)
	}

	// ACK the sent frame, then deliver the response as a DATA frame.
	port.pushFrame(NewACKFrame(df.FrameNum.next(), false))
	port.pushFrame(NewDataFrame(0, 0, false, respPayload))
	recvFrame(t, port.out, time.Second) // the engine's ACK for that DATA

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit did not return")
	}
	if gotErr != nil {
		t.Fatalf("unexpected error: %v", gotErr)
	}
	if string(gotPayload) != string(respPayload) {
		t.Fatalf("got %X, want %X", gotPayload, respPayload)
	}
}

func TestTransceiverCallbackDelivery(t *testing.T) {
	port := newFakePort()
	tr := connectedTransceiver(t, port)
	defer tr.Close()

	port.pushFrame(NewDataFrame(0, 0, false, []byte{0x11, 0x22, 0x33}))
	recvFrame(t, port.out, time.Second) // ACK

	select {
	case payload := <-tr.Callbacks():
		if string(payload) != string([]byte{0x11, 0x22, 0x33}) {
			t.Fatalf("got %X", payload)
		}
	case <-time.After(time.Second):
		t.Fatal("expected unsolicited DATA on callback channel")
	}
}

func TestTransceiverHandshakeObserver(t *testing.T) {
	port := newFakePort()
	port.pushFrame(NewRSTACKFrame(protocolVersion, ResetWatchdog))

	type observation struct {
		attempts int
		elapsed  time.Duration
		code     ResetCode
	}
	obsCh := make(chan observation, 1)

	tr := Spawn(port, WithHandshakeObserver(func(attempts int, elapsed time.Duration, code ResetCode) {
		obsCh <- observation{attempts: attempts, elapsed: elapsed, code: code}
	}))
	defer tr.Close()

	select {
	case obs := <-obsCh:
		if obs.attempts != 1 {
			t.Fatalf("got attempts=%d, want 1", obs.attempts)
		}
		if obs.code != ResetWatchdog {
			t.Fatalf("got code=%v, want %v", obs.code, ResetWatchdog)
		}
	case <-time.After(time.Second):
		t.Fatal("handshake observer was not invoked")
	}
}
