// Package console provides rank-gated, color-tagged status output.
//
// Only rank 0 of the process group writes anything; the other ranks
// turn every call into a no-op. Severity maps to color: informational
// lines are blue, success lines green, errors red.
package console

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/oseen-project/oseen/internal/comm"
)

var (
	infoStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Console writes status lines for one rank of a process group.
type Console struct {
	comm comm.Communicator
	out  io.Writer
}

func New(c comm.Communicator) *Console {
	return &Console{comm: c, out: os.Stdout}
}

// NewWriter directs output to w instead of stdout, for tests.
func NewWriter(c comm.Communicator, w io.Writer) *Console {
	return &Console{comm: c, out: w}
}

func (c *Console) gated() bool {
	return c.comm.Rank() == 0
}

// Info prints an informational (blue) line on rank 0.
func (c *Console) Info(format string, args ...any) {
	if !c.gated() {
		return
	}
	fmt.Fprintln(c.out, infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Success prints a success (green) line on rank 0.
func (c *Console) Success(format string, args ...any) {
	if !c.gated() {
		return
	}
	fmt.Fprintln(c.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error (red) line on rank 0.
func (c *Console) Error(format string, args ...any) {
	if !c.gated() {
		return
	}
	fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Timer measures a named task. Creating one optionally announces the
// task; Stop reports the elapsed wall time, both on rank 0 only.
type Timer struct {
	console *Console
	task    string
	start   time.Time
	verbose bool
}

func (c *Console) StartTimer(task string, verbose bool) *Timer {
	if verbose {
		c.Info("%s", task)
	}
	return &Timer{console: c, task: task, start: time.Now(), verbose: verbose}
}

// Elapsed returns the wall time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	if t.verbose {
		t.console.Info("%-26s  %v", t.task, elapsed.Round(time.Microsecond))
	}
	return elapsed
}
