package memwatch

import (
	"fmt"
	"time"
)

// bytesPerGB uses the decimal definition (1e9, not 2^30) so reported numbers
// line up with other tooling that prints decimal gigabytes.
const bytesPerGB = 1e9

// Snapshot is a single observation of the target's memory state.
type Snapshot struct {
	// Elapsed is the wall-clock time since the target process started.
	Elapsed time.Duration

	// RSS and VMS cover the target process alone.
	RSS uint64
	VMS uint64

	// TreeRSS is resident memory summed over the target and all of its
	// live descendants.
	TreeRSS uint64

	// Available is system-wide available memory.
	Available uint64
}

// Formatter renders one report line from a snapshot.
type Formatter interface {
	Format(Snapshot) string
}

// FormatterFunc adapts a plain function to the Formatter interface.
type FormatterFunc func(Snapshot) string

func (f FormatterFunc) Format(s Snapshot) string {
	return f(s)
}

func defaultFormat(s Snapshot) string {
	return fmt.Sprintf(
		"Time: %s   Physical mem: %.3f GB   Total (with children): %.3f GB   Virtual mem: %.3f GB   Available mem: %.1f GB",
		s.Elapsed.Truncate(time.Second),
		Gigabytes(s.RSS),
		Gigabytes(s.TreeRSS),
		Gigabytes(s.VMS),
		Gigabytes(s.Available),
	)
}

// Gigabytes converts a byte count to decimal gigabytes.
func Gigabytes(b uint64) float64 {
	return float64(b) / bytesPerGB
}
