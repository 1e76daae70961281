package ash

// RSTFrame requests the NCP reset the link (§3). It carries no body.
type RSTFrame struct {
	crc uint16
}

func NewRSTFrame() *RSTFrame {
	f := &RSTFrame{}
	f.crc = f.calculateCRC()
	return f
}

func (f *RSTFrame) Kind() FrameKind { return KindRST }
func (f *RSTFrame) CRC() uint16     { return f.crc }

func (f *RSTFrame) calculateCRC() uint16 {
	return crc16([]byte{headerRST})
}

func (f *RSTFrame) IsCRCValid() bool {
	return f.crc == f.calculateCRC()
}

func (f *RSTFrame) encode() []byte {
	raw := []byte{headerRST}
	f.crc = crc16(raw)
	return putCRC(raw, f.crc)
}

// RSTACKFrame is the NCP's response to RST, reporting its protocol version
// and the reason it (re)started.
type RSTACKFrame struct {
	Version uint8
	Code    ResetCode

	crc uint16
}

func NewRSTACKFrame(version uint8, code ResetCode) *RSTACKFrame {
	f := &RSTACKFrame{Version: version, Code: code}
	f.crc = f.calculateCRC()
	return f
}

func (f *RSTACKFrame) Kind() FrameKind { return KindRSTACK }
func (f *RSTACKFrame) CRC() uint16     { return f.crc }

func (f *RSTACKFrame) calculateCRC() uint16 {
	return crc16([]byte{headerRSTACK, f.Version, byte(f.Code)})
}

func (f *RSTACKFrame) IsCRCValid() bool {
	return f.crc == f.calculateCRC()
}

func (f *RSTACKFrame) encode() []byte {
	raw := []byte{headerRSTACK, f.Version, byte(f.Code)}
	f.crc = crc16(raw)
	return putCRC(raw, f.crc)
}

// ErrorFrame is a terminal notification from the NCP (§3, §7).
type ErrorFrame struct {
	Version uint8
	Code    ResetCode

	crc uint16
}

func NewErrorFrame(version uint8, code ResetCode) *ErrorFrame {
	f := &ErrorFrame{Version: version, Code: code}
	f.crc = f.calculateCRC()
	return f
}

func (f *ErrorFrame) Kind() FrameKind { return KindError }
func (f *ErrorFrame) CRC() uint16     { return f.crc }

func (f *ErrorFrame) calculateCRC() uint16 {
	return crc16([]byte{headerERROR, f.Version, byte(f.Code)})
}

func (f *ErrorFrame) IsCRCValid() bool {
	return f.crc == f.calculateCRC()
}

func (f *ErrorFrame) encode() []byte {
	raw := []byte{headerERROR, f.Version, byte(f.Code)}
	f.crc = crc16(raw)
	return putCRC(raw, f.crc)
}
