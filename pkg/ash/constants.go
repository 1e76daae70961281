// Package ash implements the ASHv2 (Asynchronous Serial Host, version 2)
// link-layer protocol used to talk to Silicon Labs EmberZNet NCP radios
// over a serial line.
package ash

import "time"

// Reserved control bytes (§3).
const (
	flagByte       byte = 0x7E
	escapeByte     byte = 0x7D
	xonByte        byte = 0x11
	xoffByte       byte = 0x13
	substituteByte byte = 0x18
	cancelByte     byte = 0x1A
	wakeByte       byte = 0xFF
)

// complementBit is XORed into a reserved byte's value during stuffing.
const complementBit byte = 0x20

// Protocol version this transceiver implements.
const protocolVersion uint8 = 2

// Frame payload bounds (§4.2).
const (
	MinPayloadSize = 3

	// DefaultMaxPayloadSize is the vendor-documented DATA payload ceiling.
	DefaultMaxPayloadSize = 128

	// ExtendedMaxPayloadSize is the larger bound observed tolerated by a
	// specific NCP (MGM210P22A). Opt in via WithMaxPayloadSize; verify
	// against your target NCP before using it (Open Question 1, spec §9).
	ExtendedMaxPayloadSize = 220
)

// MaxFrameSize bounds the frame-buffer scratch space: worst case is a fully
// stuffed DATA frame at the extended payload bound plus the terminating
// FLAG byte.
const MaxFrameSize = 2*(3+ExtendedMaxPayloadSize) + 1

// TX_K is the maximum number of outstanding (unacknowledged) DATA frames.
const TXWindow = 5

// Retransmission timing (§4.4, §9).
const (
	initialRxAckTimeout = 1600 * time.Millisecond
	minRxAckTimeout     = 400 * time.Millisecond
	maxRxAckTimeout     = 3200 * time.Millisecond

	// RSTACKTimeout bounds how long Connect waits for RSTACK before
	// resending RST.
	RSTACKTimeout = 3200 * time.Millisecond

	// maxRetransmits is the per-frame retransmit cap (§8 invariant 3).
	maxRetransmits = 4
)

// idlePollInterval is the default serial read timeout (DefaultPortConfig,
// OpenSerial). With nothing to read, each engine iteration waits this long
// for the read to time out instead of busy-looping (§5).
const idlePollInterval = 100 * time.Millisecond
