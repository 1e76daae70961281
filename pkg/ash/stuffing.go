package ash

// reservedBytes trigger stuffing on the wire.
var reservedBytes = [...]byte{flagByte, escapeByte, xonByte, xoffByte, substituteByte, cancelByte}

func isReserved(b byte) bool {
	for _, r := range reservedBytes {
		if b == r {
			return true
		}
	}
	return false
}

// stuff escapes reserved control bytes in data: each is replaced by
// ESCAPE, byte^0x20.
func stuff(data []byte) []byte {
	out := make([]byte, 0, len(data)+4)
	for _, b := range data {
		if isReserved(b) {
			out = append(out, escapeByte, b^complementBit)
		} else {
			out = append(out, b)
		}
	}
	return out
}

// unstuff reverses stuffing. On ESCAPE, the following byte is
// un-complemented (XOR 0x20) unless it is itself a reserved byte value, in
// which case it is passed through unchanged (§4.1, Open Question 2).
func unstuff(data []byte) []byte {
	out := make([]byte, 0, len(data))
	escaped := false
	for _, b := range data {
		switch {
		case escaped:
			if isReserved(b) {
				out = append(out, b)
			} else {
				out = append(out, b^complementBit)
			}
			escaped = false
		case b == escapeByte:
			escaped = true
		default:
			out = append(out, b)
		}
	}
	return out
}
