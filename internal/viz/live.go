// Package viz renders a running simulation in the terminal: probe
// traces sampled at the domain center, updated as the driver steps.
package viz

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/oseen-project/oseen/internal/hooks"
	"github.com/oseen-project/oseen/internal/mesh"
)

const historyCapacity = 400

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// Sample is one timestep's probe reading.
type Sample struct {
	T      float64
	Tstep  int
	Values map[string]float64
}

// Live observes a driver run and feeds a terminal view. Register it
// with Driver.AddObserver, then call Show on the main goroutine.
type Live struct {
	problem string
	samples chan Sample
}

func NewLive(problem string) *Live {
	return &Live{problem: problem, samples: make(chan Sample, 64)}
}

// OnStep probes every unknown at the domain center. The send never
// blocks the driver: when the view lags, samples are dropped.
func (l *Live) OnStep(c *hooks.Context) {
	min, max := c.Mesh.Bounds()
	probe := mesh.Point{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2}

	s := Sample{T: c.T, Tstep: c.Tstep, Values: make(map[string]float64, len(c.SysComp))}
	for _, name := range c.SysComp {
		s.Values[name] = c.Field(name).Probe(probe)[0]
	}
	select {
	case l.samples <- s:
	default:
	}
}

// Close signals the view that the run is over.
func (l *Live) Close() { close(l.samples) }

// Show runs the terminal view until the run finishes or the user
// quits; quitting cancels the driver through cancel.
func (l *Live) Show(cancel context.CancelFunc) error {
	m := model{
		problem: l.problem,
		samples: l.samples,
		cancel:  cancel,
		history: make(map[string][]float64),
	}
	_, err := tea.NewProgram(m).Run()
	return err
}

type sampleMsg Sample

type doneMsg struct{}

type model struct {
	problem string
	samples chan Sample
	cancel  context.CancelFunc

	last    Sample
	history map[string][]float64
	done    bool
}

func (m model) waitForSample() tea.Cmd {
	return func() tea.Msg {
		s, ok := <-m.samples
		if !ok {
			return doneMsg{}
		}
		return sampleMsg(s)
	}
}

func (m model) Init() tea.Cmd {
	return m.waitForSample()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}
	case sampleMsg:
		m.last = Sample(msg)
		for name, v := range msg.Values {
			trace := append(m.history[name], v)
			if len(trace) > historyCapacity {
				trace = trace[len(trace)-historyCapacity:]
			}
			m.history[name] = trace
		}
		return m, m.waitForSample()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("oseen  %s", m.problem)))
	sb.WriteString("\n")

	sb.WriteString(labelStyle.Render("t"))
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%.4f", m.last.T)))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("tstep"))
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%d", m.last.Tstep)))
	sb.WriteString("\n")

	names := make([]string, 0, len(m.history))
	for name := range m.history {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		trace := m.history[name]
		if len(trace) < 2 {
			continue
		}
		graph := asciigraph.Plot(trace,
			asciigraph.Height(6),
			asciigraph.Caption(name+" @ domain center"),
		)
		sb.WriteString(graphStyle.Render(graph))
		sb.WriteString("\n")
	}

	if m.done {
		sb.WriteString(helpStyle.Render("run finished"))
	} else {
		sb.WriteString(helpStyle.Render("q: stop run and quit"))
	}
	return sb.String()
}
