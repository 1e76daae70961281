package ash

import "testing"

func TestCRC16VersionCommandVector(t *testing.T) {
	header := byte(0x25)
	unmasked := []byte{0x00, 0x00, 0x00, 0x02}
	data := append([]byte{header}, unmasked...)
	if got := crc16(data); got != 0x1AAD {
		t.Fatalf("got 0x%04X, want 0x1AAD", got)
	}
}

func TestCRC16RSTACKPowerOnVector(t *testing.T) {
	data := []byte{headerRSTACK, 0x02, byte(ResetPowerOn)}
	if got := crc16(data); got != 0x9B7B {
		t.Fatalf("got 0x%04X, want 0x9B7B", got)
	}
}

func TestPutCRC(t *testing.T) {
	buf := putCRC([]byte{0x25}, 0x1AAD)
	want := []byte{0x25, 0x1A, 0xAD}
	if len(buf) != len(want) {
		t.Fatalf("length: got %d, want %d", len(buf), len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d: got 0x%02X, want 0x%02X", i, buf[i], want[i])
		}
	}
}
