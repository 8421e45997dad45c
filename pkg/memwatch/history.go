package memwatch

import (
	"sync"
	"time"
)

type record struct {
	at   time.Time
	snap Snapshot
}

// History is a bounded record of recent snapshots, for hosts that want to
// query memory behaviour over a window rather than just the lifetime peak.
type History struct {
	samples []record
	lock    sync.RWMutex

	// maxSamples is the maximum number of samples to retain
	maxSamples int
}

func newHistory(maxSamples int) *History {
	return &History{
		samples:    make([]record, 0),
		maxSamples: maxSamples,
	}
}

func (h *History) add(snap Snapshot) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.samples = append(h.samples, record{
		at:   time.Now(),
		snap: snap,
	})

	if len(h.samples) > h.maxSamples {
		h.samples = h.samples[len(h.samples)-h.maxSamples:]
	}
}

// Since returns all snapshots taken within the given time window.
func (h *History) Since(window time.Duration) []Snapshot {
	cutoff := time.Now().Add(-window)

	h.lock.RLock()
	defer h.lock.RUnlock()

	var result []Snapshot
	for _, s := range h.samples {
		if s.at.After(cutoff) {
			result = append(result, s.snap)
		}
	}
	return result
}

// PeakSince returns the largest tree resident size among samples in the
// window. Unlike Monitor.Peak this does not include the final shutdown
// samples, which bypass the history.
func (h *History) PeakSince(window time.Duration) uint64 {
	var peak uint64
	for _, s := range h.Since(window) {
		if s.TreeRSS > peak {
			peak = s.TreeRSS
		}
	}
	return peak
}

// AverageSince returns the mean tree resident size over samples in the
// window.
func (h *History) AverageSince(window time.Duration) uint64 {
	samples := h.Since(window)
	if len(samples) == 0 {
		return 0
	}

	var total uint64
	for _, s := range samples {
		total += s.TreeRSS
	}
	return total / uint64(len(samples))
}
