package memwatch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"emperror.dev/errors"
	"github.com/shirou/gopsutil/mem"
	log "github.com/sirupsen/logrus"
)

// Monitor periodically samples resident and virtual memory of a target
// process and all of its descendants, writes one report line per sample, and
// tracks the peak total resident memory observed over its lifetime.
//
// A monitor is single-use: once its sampling goroutine has exited it cannot
// be restarted; create a new one instead.
type Monitor struct {
	cfg     *Options
	target  Target
	history *History

	running atomic.Bool
	started atomic.Bool
	peak    atomic.Uint64
	done    chan struct{}
}

// New creates a monitor without starting it. By default it is bound to the
// currently running process, reports every 30 seconds and writes to stdout.
func New(opts ...Option) (*Monitor, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.Interval <= 0 {
		return nil, errors.Errorf("interval must be positive, got %s", options.Interval)
	}

	target := options.Target
	if target == nil {
		var err error
		target, err = Self()
		if err != nil {
			return nil, errors.Wrap(err, "resolving current process")
		}
	}

	m := &Monitor{
		cfg:     options,
		target:  target,
		history: newHistory(options.HistorySize),
		done:    make(chan struct{}),
	}
	m.running.Store(true)
	return m, nil
}

// Start creates a monitor and immediately begins sampling on its own
// goroutine, returning without blocking. The context is the host-lifetime
// token: when it is cancelled the sampling goroutine exits within one
// interval, the same bound as an explicit Stop.
func Start(ctx context.Context, opts ...Option) (*Monitor, error) {
	m, err := New(opts...)
	if err != nil {
		return nil, err
	}
	go m.Run(ctx)
	return m, nil
}

// Run executes the sampling loop until Stop is called or ctx is cancelled.
// On exit it takes one final out-of-band sample, so a last-moment change in
// the process tree can still become the peak, and writes the summary line.
// Usually invoked via Start; exposed for hosts that want to supply the
// goroutine themselves. Only the first call does anything.
func (m *Monitor) Run(ctx context.Context) {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	defer close(m.done)

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for m.running.Load() && ctx.Err() == nil {
		if err := m.sample(); err != nil {
			// Anticipated failures inside the tree walk degrade to zero;
			// anything surfacing here is unexpected and ends the loop.
			log.Errorf("memory monitor: sampling failed: %v", err)
			break
		}
		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	m.updatePeak(TreeRSS(m.target))
	if peak := m.peak.Load(); peak > 0 {
		m.writeSummary(peak)
	}
}

// Stop requests termination and reports the peak. It flips the running flag,
// takes its own final sample of the process tree and writes a summary line,
// then returns without waiting for the sampling goroutine to exit (that
// takes up to one interval; use Done to wait for it).
//
// The sampling goroutine independently takes a final sample and writes its
// own summary on the way out, so the summary line can appear twice. Both
// lines report the same monotonic peak.
func (m *Monitor) Stop() {
	m.running.Store(false)
	m.updatePeak(TreeRSS(m.target))
	m.writeSummary(m.peak.Load())
}

// Peak returns the largest total resident memory, in bytes, observed across
// all samples so far, including final samples taken at shutdown.
func (m *Monitor) Peak() uint64 {
	return m.peak.Load()
}

// Done is closed once the sampling goroutine has exited.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// History returns the bounded record of recent snapshots.
func (m *Monitor) History() *History {
	return m.history
}

func (m *Monitor) sample() error {
	snap, err := m.snapshot()
	if err != nil {
		return err
	}
	m.updatePeak(snap.TreeRSS)
	m.history.add(snap)
	fmt.Fprintln(m.cfg.Output, m.cfg.Formatter.Format(snap))
	return nil
}

func (m *Monitor) snapshot() (Snapshot, error) {
	info, err := m.target.MemoryInfo()
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "reading target memory info")
	}
	created, err := m.target.CreateTime()
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "reading target create time")
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "reading system memory")
	}

	return Snapshot{
		Elapsed:   time.Since(time.UnixMilli(created)),
		RSS:       info.RSS,
		VMS:       info.VMS,
		TreeRSS:   TreeRSS(m.target),
		Available: vm.Available,
	}, nil
}

// updatePeak raises the stored peak to total unless a concurrent writer got
// a higher value in first. Stop and the sampling goroutine may both call it
// at shutdown; the CAS loop makes sure neither overwrites the other's larger
// observation.
func (m *Monitor) updatePeak(total uint64) {
	for {
		current := m.peak.Load()
		if total <= current || m.peak.CompareAndSwap(current, total) {
			return
		}
	}
}

func (m *Monitor) writeSummary(peak uint64) {
	fmt.Fprintf(m.cfg.Output, "memwatch: maximum total memory (including children): %.3f GB\n", Gigabytes(peak))
}
