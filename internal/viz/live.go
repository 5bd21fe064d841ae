// Package viz renders a single epidemic trajectory live in the terminal,
// with pause/reset and on-the-fly parameter tuning.
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/episweep/internal/dynamo"
	"github.com/san-kum/episweep/internal/epi"
)

const (
	graphWidth      = 72
	graphHeight     = 16
	historyCapacity = 600
	daysPerFrame    = 1.0
)

var compartmentColors = map[string]asciigraph.AnsiColor{
	"Susceptible": asciigraph.Blue,
	"Exposed":     asciigraph.Orange,
	"Infected":    asciigraph.Red,
	"Recovered":   asciigraph.Green,
	"Dead":        asciigraph.White,
}

type TickMsg time.Time

// Model is the bubbletea state for the live view.
type Model struct {
	sys           epi.Model
	integ         dynamo.Integrator
	state         dynamo.State
	initialState  dynamo.State
	t             float64
	dt            float64
	running       bool
	history       [][]float64 // one series per compartment
	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int
	showHelp      bool
}

func NewModel(sys epi.Model, integ dynamo.Integrator, dt float64) Model {
	params := sys.GetParams()
	initialParams := make(map[string]float64, len(params))
	keys := make([]string, 0, len(params))
	for k, v := range params {
		keys = append(keys, k)
		initialParams[k] = v
	}
	sort.Strings(keys)

	x0 := sys.InitialState()
	return Model{
		sys:           sys,
		integ:         integ,
		state:         x0.Clone(),
		initialState:  x0.Clone(),
		dt:            dt,
		running:       true,
		history:       make([][]float64, sys.Dim()),
		params:        params,
		initialParams: initialParams,
		paramKeys:     keys,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
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
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	newVal := m.params[key] * factor
	if err := m.sys.SetParam(key, newVal); err != nil {
		return
	}
	m.params[key] = newVal
}

// step advances one simulated day per frame.
func (m *Model) step() {
	target := m.t + daysPerFrame
	for m.t < target {
		next := m.integ.Step(m.sys, m.state, m.t, m.dt)
		if !next.IsValid() {
			m.running = false
			return
		}
		m.state = next
		m.t += m.dt
	}

	for i := range m.history {
		m.history[i] = append(m.history[i], m.state[i])
		if len(m.history[i]) > historyCapacity {
			m.history[i] = m.history[i][1:]
		}
	}
}

func (m *Model) reset() {
	m.t = 0
	m.state = m.initialState.Clone()
	for i := range m.history {
		m.history[i] = nil
	}
	for k, v := range m.initialParams {
		m.params[k] = v
		m.sys.SetParam(k, v)
	}
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.sys.Name())) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	s.WriteString(labelStyle.Render("Day") + valueStyle.Render(fmt.Sprintf("%.0f", m.t)) + "\n")
	for i, name := range m.sys.Compartments() {
		s.WriteString(labelStyle.Render(name) + valueStyle.Render(fmt.Sprintf("%.0f", m.state[i])) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-8s %.4g", k, m.params[k])
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}
	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset Q:Quit\nTab:Param ↑↓:Tune ?:Help"))

	graphView := ""
	if len(m.history[0]) > 1 {
		series := make([][]float64, len(m.history))
		colors := make([]asciigraph.AnsiColor, len(m.history))
		for i, name := range m.sys.Compartments() {
			series[i] = m.history[i]
			if c, ok := compartmentColors[name]; ok {
				colors[i] = c
			} else {
				colors[i] = asciigraph.Default
			}
		}
		graphView = asciigraph.PlotMany(series,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.SeriesColors(colors...),
			asciigraph.Caption(fmt.Sprintf("compartments, last %d days", len(m.history[0]))),
		)
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, graphStyle.Render(graphView), statsStyle.Render(s.String()))
	if m.showHelp {
		help := "Space pause/resume, R reset, Tab cycle parameter,\nUp/Down tune +-5%, Q quit"
		return help + "\n\n" + main
	}
	return main
}
