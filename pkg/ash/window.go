package ash

// window is the bounded set of in-flight (unacknowledged) DATA
// transmissions (§3). Entries are kept newest-first; every frame number
// present is unique, and cardinality never exceeds TXWindow.
type window struct {
	items []*transmission // newest-first
}

func newWindow() *window {
	return &window{items: make([]*transmission, 0, TXWindow)}
}

func (w *window) len() int { return len(w.items) }

func (w *window) full() bool { return len(w.items) >= TXWindow }

// add inserts t at the front of the window. Callers must check full()
// first; add does not evict.
func (w *window) add(t *transmission) {
	w.items = append([]*transmission{t}, w.items...)
}

func (w *window) findByFrameNum(fn seq) (*transmission, bool) {
	for _, t := range w.items {
		if t.frame.FrameNum == fn {
			return t, true
		}
	}
	return nil, false
}

func (w *window) removeByFrameNum(fn seq) bool {
	for i, t := range w.items {
		if t.frame.FrameNum == fn {
			w.items = append(w.items[:i], w.items[i+1:]...)
			return true
		}
	}
	return false
}

// ackThrough removes and returns every in-flight transmission that a
// cumulative ACK(n) covers: frame numbers that precede n within the
// current window width (§4.5, §5 ordering guarantees).
func (w *window) ackThrough(n seq) []*transmission {
	var acked []*transmission
	remaining := w.items[:0:0]
	for _, t := range w.items {
		if t.frame.FrameNum.lessWithinWindow(n, TXWindow) {
			acked = append(acked, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	w.items = remaining
	return acked
}

// oldestFirst returns the in-flight transmissions ordered oldest-sent
// first, for the retransmit-on-timeout walk (§4.5).
func (w *window) oldestFirst() []*transmission {
	out := make([]*transmission, len(w.items))
	for i, t := range w.items {
		out[len(out)-1-i] = t
	}
	// Retransmits refresh sentAt without moving an entry, so order by
	// send time (stable, keeping insertion order for equal times).
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].sentAt.Before(out[j-1].sentAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
