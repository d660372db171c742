package log

import "sync"

// Entry is one buffered log line, kept with its level so the in-app viewer
// can filter without re-parsing the formatted text.
type Entry struct {
	Level Level
	Line  string
}

// ringBuffer keeps the most recent entries in a fixed circular window.
type ringBuffer struct {
	mu    sync.RWMutex
	slots []Entry
	next  int
	full  bool
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &ringBuffer{slots: make([]Entry, capacity)}
}

func (r *ringBuffer) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[r.next] = e
	r.next = (r.next + 1) % len(r.slots)
	if r.next == 0 {
		r.full = true
	}
}

// recent returns up to max of the newest entries, oldest first. nil when
// the buffer holds nothing.
func (r *ringBuffer) recent(max int) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.next
	if r.full {
		size = len(r.slots)
	}
	if max > size {
		max = size
	}
	if max <= 0 {
		return nil
	}

	out := make([]Entry, 0, max)
	start := r.next - max
	if !r.full {
		return append(out, r.slots[start:r.next]...)
	}
	for i := 0; i < max; i++ {
		out = append(out, r.slots[(start+i+len(r.slots))%len(r.slots)])
	}
	return out
}

func (r *ringBuffer) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next = 0
	r.full = false
}
