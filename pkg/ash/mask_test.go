package ash

import "testing"

func TestMaskGeneratorVector(t *testing.T) {
	want := []byte{0x42, 0x21, 0xA8, 0x54, 0x2A}
	g := newMaskGenerator()
	for i, w := range want {
		if got := g.next(); got != w {
			t.Fatalf("byte %d: got 0x%02X, want 0x%02X", i, got, w)
		}
	}
}

func TestMaskPayloadIsSelfInverse(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x02, 0xAB, 0xCD}
	masked := maskPayload(data)
	unmasked := maskPayload(masked)
	for i := range data {
		if unmasked[i] != data[i] {
			t.Fatalf("byte %d: got 0x%02X, want 0x%02X", i, unmasked[i], data[i])
		}
	}
}

func TestMaskVersionCommandVector(t *testing.T) {
	payload := []byte{0x00, 0x00, 0x00, 0x02}
	want := []byte{0x42, 0x21, 0xA8, 0x56}
	got := maskPayload(payload)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got 0x%02X, want 0x%02X", i, got[i], want[i])
		}
	}
}
