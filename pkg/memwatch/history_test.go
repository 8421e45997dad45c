package memwatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHistory_TrimsOldestSamples(t *testing.T) {
	h := newHistory(3) // only allow 3 samples max

	for i := 0; i < 5; i++ {
		h.add(Snapshot{TreeRSS: uint64(i * 100)})
		time.Sleep(1 * time.Millisecond) // ensure unique timestamps
	}

	assert.Len(t, h.samples, 3)
	assert.Equal(t, uint64(200), h.samples[0].snap.TreeRSS)
	assert.Equal(t, uint64(300), h.samples[1].snap.TreeRSS)
	assert.Equal(t, uint64(400), h.samples[2].snap.TreeRSS)
}

func TestHistory_SinceRespectsWindow(t *testing.T) {
	h := newHistory(10)
	now := time.Now()

	// One old sample outside the 1m window.
	h.samples = append(h.samples, record{
		at:   now.Add(-2 * time.Minute),
		snap: Snapshot{TreeRSS: 9999},
	})

	// Recent samples inside the window.
	h.samples = append(h.samples, record{
		at:   now.Add(-2 * time.Second),
		snap: Snapshot{TreeRSS: 1000},
	})
	h.samples = append(h.samples, record{
		at:   now.Add(-1 * time.Second),
		snap: Snapshot{TreeRSS: 1500},
	})

	assert.Equal(t, uint64(1500), h.PeakSince(time.Minute))
	assert.Equal(t, uint64(1250), h.AverageSince(time.Minute))
	assert.Len(t, h.Since(time.Minute), 2)
}

func TestHistory_EmptyWindow(t *testing.T) {
	h := newHistory(10)

	assert.Zero(t, h.PeakSince(time.Minute))
	assert.Zero(t, h.AverageSince(time.Minute))
	assert.Empty(t, h.Since(time.Minute))
}
