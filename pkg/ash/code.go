package ash

// ResetCode is the version/reset-or-error code byte carried by RSTACK and
// ERROR frames (supplements spec §3, ported from the reference
// implementation's reset/error code taxonomy).
type ResetCode uint8

const (
	ResetUnknownReason ResetCode = 0x00
	ResetExternal      ResetCode = 0x01
	ResetPowerOn       ResetCode = 0x02
	ResetWatchdog      ResetCode = 0x03
	ResetAssert        ResetCode = 0x06
	ResetBootloader    ResetCode = 0x09
	ResetSoftware      ResetCode = 0x0B

	ErrorExceededMaximumAckTimeoutCount ResetCode = 0x51
	ErrorChipSpecific                   ResetCode = 0x80
)

func (c ResetCode) String() string {
	switch c {
	case ResetUnknownReason:
		return "reset: unknown reason"
	case ResetExternal:
		return "reset: external"
	case ResetPowerOn:
		return "reset: power-on"
	case ResetWatchdog:
		return "reset: watchdog"
	case ResetAssert:
		return "reset: assert"
	case ResetBootloader:
		return "reset: boot loader"
	case ResetSoftware:
		return "reset: software"
	case ErrorExceededMaximumAckTimeoutCount:
		return "error: exceeded maximum ACK timeout count"
	case ErrorChipSpecific:
		return "chip-specific error reset code"
	default:
		return "unknown reset/error code"
	}
}
