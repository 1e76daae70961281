package ash

// DataFrame carries a fragment of host/NCP payload (§3). Payload here is
// always the unmasked (application-level) bytes; masking happens at
// encode/decode time.
type DataFrame struct {
	FrameNum   seq
	AckNum     seq
	Retransmit bool
	Payload    []byte

	crc uint16
}

// NewDataFrame constructs a DATA frame and computes its CRC.
func NewDataFrame(frameNum, ackNum seq, retransmit bool, payload []byte) *DataFrame {
	f := &DataFrame{FrameNum: frameNum, AckNum: ackNum, Retransmit: retransmit, Payload: payload}
	f.crc = f.calculateCRC()
	return f
}

func (f *DataFrame) Kind() FrameKind { return KindData }
func (f *DataFrame) CRC() uint16     { return f.crc }

func (f *DataFrame) header() byte {
	var h byte
	h |= f.FrameNum.byte() << 4
	if f.Retransmit {
		h |= 0x08
	}
	h |= f.AckNum.byte()
	return h
}

func (f *DataFrame) wireBytes() []byte {
	masked := maskPayload(f.Payload)
	raw := make([]byte, 0, 1+len(masked))
	raw = append(raw, f.header())
	raw = append(raw, masked...)
	return raw
}

// calculateCRC covers the header and the unmasked payload; only the
// payload bytes on the wire are masked.
func (f *DataFrame) calculateCRC() uint16 {
	raw := make([]byte, 0, 1+len(f.Payload))
	raw = append(raw, f.header())
	raw = append(raw, f.Payload...)
	return crc16(raw)
}

func (f *DataFrame) IsCRCValid() bool {
	return f.crc == f.calculateCRC()
}

func (f *DataFrame) encode() []byte {
	f.crc = f.calculateCRC()
	return putCRC(f.wireBytes(), f.crc)
}

// SetIsRetransmission toggles the retransmit bit and recomputes the CRC
// (§4.2).
func (f *DataFrame) SetIsRetransmission(v bool) {
	f.Retransmit = v
	f.crc = f.calculateCRC()
}
