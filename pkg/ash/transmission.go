package ash

import "time"

// transmission is an in-flight DATA frame awaiting acknowledgment (§3,
// §4.5). The retransmit counter increments on every send attempt,
// including the first.
type transmission struct {
	frame      *DataFrame
	sentAt     time.Time
	retransmit uint8
}

func newTransmission(frame *DataFrame, now time.Time) *transmission {
	return &transmission{frame: frame, sentAt: now, retransmit: 1}
}

// elapsed returns how long this transmission has been outstanding as of now.
func (t *transmission) elapsed(now time.Time) time.Duration {
	return now.Sub(t.sentAt)
}

// exhausted reports whether this transmission has used up its retransmit
// budget (§8 invariant 3).
func (t *transmission) exhausted() bool {
	return t.retransmit >= maxRetransmits
}

// markResent bumps the retransmit count and resets the send clock, as
// done on both NAK-driven and timeout-driven retransmission.
func (t *transmission) markResent(now time.Time) {
	t.retransmit++
	t.sentAt = now
	t.frame.SetIsRetransmission(true)
}
