package memwatch

import (
	"os"

	"emperror.dev/errors"
	"github.com/shirou/gopsutil/process"
)

// Target is the subset of process state the monitor reads. Sampling and
// aggregation logic is written against it so it can be exercised on fake
// process trees in tests.
type Target interface {
	Pid() int32
	MemoryInfo() (*process.MemoryInfoStat, error)
	Children() ([]Target, error)
	CreateTime() (int64, error)
}

// Self returns a Target for the currently running process.
func Self() (Target, error) {
	return FindProcess(int32(os.Getpid()))
}

// FindProcess returns a Target for the process with the given pid.
func FindProcess(pid int32) (Target, error) {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return nil, errors.Wrapf(err, "looking up process %d", pid)
	}
	return &sysProcess{proc: proc}, nil
}

type sysProcess struct {
	proc *process.Process
}

func (s *sysProcess) Pid() int32 {
	return s.proc.Pid
}

func (s *sysProcess) MemoryInfo() (*process.MemoryInfoStat, error) {
	return s.proc.MemoryInfo()
}

func (s *sysProcess) CreateTime() (int64, error) {
	return s.proc.CreateTime()
}

func (s *sysProcess) Children() ([]Target, error) {
	children, err := s.proc.Children()
	if err != nil {
		// A process with no children is a normal leaf, not a failure.
		if errors.Is(err, process.ErrorNoChildren) {
			return nil, nil
		}
		return nil, err
	}
	targets := make([]Target, len(children))
	for i, child := range children {
		targets[i] = &sysProcess{proc: child}
	}
	return targets, nil
}
