// Package instrument tracks process memory use across a run.
//
// The fast path queries the kernel directly (getrusage for resident
// size, /proc for virtual size). When the fast path is unavailable the
// probe shells out to ps and parses its numeric output; that fallback
// is operating-system specific and assumes well-formed output.
package instrument

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/oseen-project/oseen/internal/comm"
	"github.com/oseen-project/oseen/internal/console"
)

// MemoryUsage returns the process memory footprint in kilobytes:
// resident set size when rss is true, virtual size otherwise.
func MemoryUsage(rss bool) (int64, error) {
	if kb, err := fastMemoryUsage(rss); err == nil {
		return kb, nil
	}
	return psMemoryUsage(rss)
}

func fastMemoryUsage(rss bool) (int64, error) {
	if rss {
		var ru unix.Rusage
		if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
			return 0, err
		}
		// Maxrss is reported in kilobytes on Linux.
		return ru.Maxrss, nil
	}
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return 0, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "VmSize:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		return strconv.ParseInt(fields[1], 10, 64)
	}
	return 0, fmt.Errorf("VmSize not found in /proc/self/status")
}

// psMemoryUsage queries ps for rss or vsz. Malformed output fails hard:
// the parse error propagates instead of being masked with a zero.
func psMemoryUsage(rss bool) (int64, error) {
	field := "rss="
	if !rss {
		field = "vsz="
	}
	out, err := exec.Command("ps", "-o", field, "-p", strconv.Itoa(os.Getpid())).Output()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
}

// Tracker accumulates rank-summed memory figures at named checkpoints,
// reporting the delta since the previous probe alongside the total.
type Tracker struct {
	comm    comm.Communicator
	console *console.Console

	memory   int64
	memoryVM int64
	prev     int64
	prevVM   int64
}

// NewTracker takes an initial probe so the first reported delta covers
// startup cost.
func NewTracker(c comm.Communicator, out *console.Console, label string) *Tracker {
	t := &Tracker{comm: c, console: out}
	t.Probe(label, false)
	return t
}

// Probe records current memory use, summed over all ranks. With verbose
// set, rank 0 prints delta and total for both resident and virtual size.
func (t *Tracker) Probe(label string, verbose bool) error {
	rss, err := MemoryUsage(true)
	if err != nil {
		return err
	}
	vsz, err := MemoryUsage(false)
	if err != nil {
		return err
	}

	t.prev = t.memory
	t.prevVM = t.memoryVM
	t.memory = t.comm.SumInt(rss / 1024)
	t.memoryVM = t.comm.SumInt(vsz / 1024)

	if verbose {
		t.console.Info("%-26s  %10d MB %10d MB %10d MB %10d MB",
			label, t.memory-t.prev, t.memory, t.memoryVM-t.prevVM, t.memoryVM)
	}
	return nil
}

// Resident returns the cumulative rank-summed resident size in MB.
func (t *Tracker) Resident() int64 { return t.memory }

// Virtual returns the cumulative rank-summed virtual size in MB.
func (t *Tracker) Virtual() int64 { return t.memoryVM }

// ResidentDelta is the change since the previous probe.
func (t *Tracker) ResidentDelta() int64 { return t.memory - t.prev }
