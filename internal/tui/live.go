// Package tui provides a live terminal view of a running simulation,
// streaming probe values as the loop advances.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/simgraph/internal/engine"
)

const (
	graphWidth    = 70
	graphHeight   = 12
	historyWindow = 200
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives one simulation forward a step per frame and renders the
// selected probe's history.
type Model struct {
	sim        *engine.Simulation
	network    string
	probeNames []string
	histories  [][]float64
	maxSteps   int
	steps      int
	selected   int
	running    bool
	frameRate  int
	err        error
}

func NewModel(sim *engine.Simulation, network string, probeNames []string, maxSteps, frameRate int) Model {
	if frameRate <= 0 {
		frameRate = 30
	}
	return Model{
		sim:        sim,
		network:    network,
		probeNames: probeNames,
		histories:  make([][]float64, len(probeNames)),
		maxSteps:   maxSteps,
		running:    true,
		frameRate:  frameRate,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "tab":
			if len(m.probeNames) > 0 {
				m.selected = (m.selected + 1) % len(m.probeNames)
			}
		}
		return m, nil

	case TickMsg:
		if m.running && m.steps < m.maxSteps && m.err == nil {
			res, err := m.sim.Run(1)
			if err != nil {
				m.err = err
			} else {
				m.steps++
				for pi := range m.histories {
					if pi < len(res.Probes) && len(res.Probes[pi]) > 0 && len(res.Probes[pi][0]) > 0 {
						m.histories[pi] = append(m.histories[pi], res.Probes[pi][0][0])
						if len(m.histories[pi]) > historyWindow {
							m.histories[pi] = m.histories[pi][1:]
						}
					}
				}
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("simgraph live  %s", m.network)))
	b.WriteString("\n")

	status := "running"
	if m.err != nil {
		status = "error: " + m.err.Error()
	} else if !m.running {
		status = "paused"
	} else if m.steps >= m.maxSteps {
		status = "done"
	}

	rows := []string{
		labelStyle.Render("step") + valueStyle.Render(fmt.Sprintf("%d / %d", m.steps, m.maxSteps)),
		labelStyle.Render("state") + valueStyle.Render(m.sim.State().String()),
		labelStyle.Render("status") + valueStyle.Render(status),
	}
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n")

	if len(m.probeNames) > 0 {
		var tabs []string
		for i, name := range m.probeNames {
			if i == m.selected {
				tabs = append(tabs, activeStyle.Render("["+name+"]"))
			} else {
				tabs = append(tabs, valueStyle.Render(name))
			}
		}
		b.WriteString("\n" + strings.Join(tabs, "  ") + "\n")

		hist := m.histories[m.selected]
		if len(hist) >= 2 {
			plot := asciigraph.Plot(hist,
				asciigraph.Width(graphWidth),
				asciigraph.Height(graphHeight))
			b.WriteString(graphStyle.Render(plot))
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render("space pause · tab switch probe · q quit"))
	b.WriteString("\n")
	return b.String()
}

// Run drives a live view until the user quits.
func Run(sim *engine.Simulation, network string, probeNames []string, maxSteps, frameRate int) error {
	p := tea.NewProgram(NewModel(sim, network, probeNames, maxSteps, frameRate))
	_, err := p.Run()
	return err
}
