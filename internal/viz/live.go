package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/joehahn/int-sys-eqns/internal/ivp"
	"github.com/joehahn/int-sys-eqns/internal/solve"
)

const (
	historyCapacity = 400
	maxTraces       = 3
	stepsPerTick    = 4
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(34)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model watches one adaptive integration advance step by step: component
// traces on the left, the stepsize trace and controller counters on the
// right. The stepsize trace is the interesting part; it dips wherever the
// solution moves fast.
type Model struct {
	name    string
	sys     ivp.System
	stepper ivp.AdaptiveStepper
	eps     float64

	y0     ivp.State
	x1, x2 float64
	h1     float64

	y       ivp.State
	x       float64
	h       float64
	steps   int
	rejects int

	traces [][]float64
	hTrace []float64

	running bool
	done    bool
	err     error
}

func NewModel(name string, sys ivp.System, stepper ivp.AdaptiveStepper, y0 ivp.State, x1, x2, eps, h1 float64) Model {
	m := Model{
		name:    name,
		sys:     sys,
		stepper: stepper,
		eps:     eps,
		y0:      y0.Clone(),
		x1:      x1,
		x2:      x2,
		h1:      h1,
		traces:  make([][]float64, min(len(y0), maxTraces)),
		running: true,
	}
	m.restart()
	return m
}

func (m *Model) restart() {
	m.y = m.y0.Clone()
	m.x = m.x1
	if m.h1 != 0 {
		m.h = math.Copysign(m.h1, m.x2-m.x1)
	} else {
		m.h = solve.EstimateInitialStep(m.sys, m.y, m.x1, m.x2, m.eps)
	}
	m.steps = 0
	m.rejects = 0
	for i := range m.traces {
		m.traces[i] = m.traces[i][:0]
	}
	m.hTrace = m.hTrace[:0]
	m.done = false
	m.err = nil
	m.record(0)
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.restart()
			m.running = true
		}
	case TickMsg:
		if m.running && !m.done {
			for i := 0; i < stepsPerTick && !m.done; i++ {
				m.step()
			}
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// step advances the integration by one accepted step, clamping at the
// endpoint the same way the batch driver does.
func (m *Model) step() {
	dydx := m.sys.Derive(m.y, m.x)
	yscal := make(ivp.State, len(m.y))
	for i := range m.y {
		yscal[i] = math.Abs(m.y[i]) + math.Abs(m.h*dydx[i]) + 1e-30
	}

	if (m.x+m.h-m.x2)*(m.x+m.h-m.x1) > 0 {
		m.h = m.x2 - m.x
	}

	res, err := m.stepper.StepAdaptive(m.sys, m.y, dydx, m.x, m.h, m.eps, yscal)
	if err != nil {
		m.err = err
		m.done = true
		m.running = false
		return
	}

	m.y = res.Y
	m.x = res.X
	m.h = res.HNext
	m.steps++
	m.rejects += res.Tries - 1
	m.record(res.HDid)

	if !m.y.IsValid() {
		m.err = ivp.ErrInvalidState
		m.done = true
		m.running = false
		return
	}

	if (m.x-m.x2)*(m.x2-m.x1) >= 0 {
		m.done = true
	}
}

func (m *Model) record(hDid float64) {
	for i := range m.traces {
		m.traces[i] = append(m.traces[i], m.y[i])
		if len(m.traces[i]) > historyCapacity {
			m.traces[i] = m.traces[i][1:]
		}
	}
	if hDid != 0 {
		m.hTrace = append(m.hTrace, math.Log10(math.Abs(hDid)))
		if len(m.hTrace) > historyCapacity {
			m.hTrace = m.hTrace[1:]
		}
	}
}

func (m Model) View() string {
	var left strings.Builder
	left.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	left.WriteString(m.status() + "\n\n")

	for i, trace := range m.traces {
		if len(trace) > 1 {
			chart := asciigraph.Plot(trace,
				asciigraph.Height(5), asciigraph.Width(56),
				asciigraph.Caption(fmt.Sprintf("y%d", i)))
			left.WriteString(graphStyle.Render(chart) + "\n\n")
		}
	}

	var right strings.Builder
	if len(m.hTrace) > 1 {
		chart := asciigraph.Plot(m.hTrace,
			asciigraph.Height(4), asciigraph.Width(24),
			asciigraph.Caption("log10 h"))
		right.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	right.WriteString(labelStyle.Render("x") + valueStyle.Render(fmt.Sprintf("%.4g", m.x)) + "\n")
	right.WriteString(labelStyle.Render("h") + valueStyle.Render(fmt.Sprintf("%.3e", m.h)) + "\n")
	right.WriteString(labelStyle.Render("steps") + valueStyle.Render(fmt.Sprintf("%d", m.steps)) + "\n")
	right.WriteString(labelStyle.Render("rejected") + valueStyle.Render(fmt.Sprintf("%d", m.rejects)) + "\n")
	right.WriteString(labelStyle.Render("eps") + valueStyle.Render(fmt.Sprintf("%.1e", m.eps)) + "\n")
	right.WriteString(helpStyle.Render("\nSP:Pause R:Restart Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		left.String(), statsStyle.Render(right.String()))
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("FAILED: " + m.err.Error())
	case m.done:
		return fmt.Sprintf("DONE at x=%.4g", m.x)
	case !m.running:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}
