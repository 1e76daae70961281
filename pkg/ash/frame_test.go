package ash

import (
	"bytes"
	"testing"
)

func TestDataFrameEncodeVersionCommandVector(t *testing.T) {
	f := NewDataFrame(2, 5, false, []byte{0x00, 0x00, 0x00, 0x02})
	want := []byte{0x25, 0x42, 0x21, 0xA8, 0x56, 0x1A, 0xAD}
	got := f.encode()
	if !bytes.Equal(got, want) {
		t.Fatalf("got %X, want %X", got, want)
	}
}

func TestRSTACKDecodePowerOnVector(t *testing.T) {
	raw := []byte{0xC1, 0x02, 0x02, 0x9B, 0x7B}
	fr, err := DecodeFrame(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, ok := fr.(*RSTACKFrame)
	if !ok {
		t.Fatalf("got %T, want *RSTACKFrame", fr)
	}
	if r.Version != 2 || r.Code != ResetPowerOn {
		t.Fatalf("got version=%d code=%v", r.Version, r.Code)
	}
	if !r.IsCRCValid() {
		t.Fatal("expected valid CRC")
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	frames := []Frame{
		NewDataFrame(1, 2, false, []byte{0x01, 0x02, 0x03}),
		NewACKFrame(3, false),
		NewNAKFrame(4, true),
		NewRSTFrame(),
		NewRSTACKFrame(2, ResetPowerOn),
		NewErrorFrame(2, ResetAssert),
	}
	for _, f := range frames {
		raw := f.encode()
		decoded, err := DecodeFrame(raw)
		if err != nil {
			t.Fatalf("%s: decode: %v", f.Kind(), err)
		}
		if decoded.Kind() != f.Kind() {
			t.Fatalf("got kind %v, want %v", decoded.Kind(), f.Kind())
		}
		if decoded.CRC() != f.CRC() {
			t.Fatalf("%s: CRC mismatch", f.Kind())
		}
		if !decoded.IsCRCValid() {
			t.Fatalf("%s: decoded frame reports invalid CRC", f.Kind())
		}
	}
}

func TestDecodeFrameTooShort(t *testing.T) {
	if _, err := DecodeFrame([]byte{0x00, 0x01}); err == nil {
		t.Fatal("expected error for short frame")
	}
}

func TestDecodeDataPayloadBounds(t *testing.T) {
	// Header for frame_num=0, ack_num=0, no retransmit: 0x00. Payload of
	// length 2 is below MinPayloadSize.
	raw := []byte{0x00, 0x01, 0x02, 0x00, 0x00}
	if _, err := DecodeFrame(raw); err == nil {
		t.Fatal("expected malformed-frame error for undersized DATA payload")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		h    byte
		kind FrameKind
	}{
		{0xC0, KindRST},
		{0xC1, KindRSTACK},
		{0xC2, KindError},
		{0x00, KindData},
		{0x7F, KindData},
		{0x80, KindACK},
		{0xA0, KindNAK},
	}
	for _, c := range cases {
		if got := classify(c.h); got != c.kind {
			t.Fatalf("classify(0x%02X): got %v, want %v", c.h, got, c.kind)
		}
	}
}

func TestSetIsRetransmissionRecomputesCRC(t *testing.T) {
	f := NewDataFrame(0, 0, false, []byte{0x01, 0x02, 0x03})
	before := f.CRC()
	f.SetIsRetransmission(true)
	if f.CRC() == before {
		t.Fatal("expected CRC to change after toggling retransmit flag")
	}
	if !f.IsCRCValid() {
		t.Fatal("expected CRC to remain internally consistent")
	}
}
