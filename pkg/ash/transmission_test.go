package ash

import (
	"testing"
	"time"
)

func TestTransmissionExhausted(t *testing.T) {
	tx := newTransmission(newTestDataFrame(0), time.Now())
	if tx.exhausted() {
		t.Fatal("fresh transmission should not be exhausted")
	}
	for i := 0; i < int(maxRetransmits)-1; i++ {
		tx.markResent(time.Now())
	}
	if !tx.exhausted() {
		t.Fatalf("expected exhausted after %d resends, retransmit=%d", maxRetransmits-1, tx.retransmit)
	}
}

func TestTransmissionMarkResentSetsRetransmitFlag(t *testing.T) {
	tx := newTransmission(newTestDataFrame(0), time.Now())
	if tx.frame.Retransmit {
		t.Fatal("fresh frame should not have retransmit flag set")
	}
	tx.markResent(time.Now())
	if !tx.frame.Retransmit {
		t.Fatal("expected retransmit flag set after markResent")
	}
}
