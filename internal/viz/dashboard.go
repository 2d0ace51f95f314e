// Package viz is the terminal dashboard: the same nerve session as the GUI,
// rendered as charts and bars instead of scenes.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ravlen/nervescope/internal/nerve"
	"github.com/ravlen/nervescope/internal/signal"
)

const (
	historyCapacity = 600
	chartWidth      = 58
	chartHeight     = 8
	barWidth        = 24
	tickRate        = time.Second / 30
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 2)
	liveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("84")).Bold(true)
	simStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	regimeStyles = map[signal.Regime]lipgloss.Style{
		signal.RegimeCalm:     lipgloss.NewStyle().Foreground(lipgloss.Color("84")).Bold(true),
		signal.RegimeElevated: lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		signal.RegimeStressed: lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		signal.RegimeCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Blink(true),
	}
)

type TickMsg time.Time

// Model is the bubbletea model wrapping a nerve session.
type Model struct {
	nerve   *nerve.Nerve
	history []float64
	paused  bool
}

func NewModel(n *nerve.Nerve) Model {
	return Model{
		nerve:   n,
		history: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.nerve.AdvanceLadder()
		case "l":
			m.nerve.ToggleMode()
		case "p":
			m.paused = !m.paused
		}
	case TickMsg:
		if !m.paused {
			m.nerve.Tick(time.Time(msg))
			snap := m.nerve.Snapshot()
			m.history = append(m.history, snap.Edge)
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
		return m, tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m Model) View() string {
	snap := m.nerve.Snapshot()

	var left strings.Builder
	left.WriteString(headerStyle.Render("NERVESCOPE") + "\n")
	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(chartHeight),
			asciigraph.Width(chartWidth),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.Caption("edge score"))
		left.WriteString(graphStyle.Render(chart) + "\n")
	}

	var right strings.Builder
	mode := simStyle.Render("SIMULATED")
	if snap.Mode == nerve.Live {
		mode = liveStyle.Render("LIVE")
	}
	right.WriteString(labelStyle.Render("Mode") + mode)
	if m.paused {
		right.WriteString("  " + simStyle.Render("PAUSED"))
	}
	right.WriteString("\n")
	right.WriteString(labelStyle.Render("Regime") + regimeStyle(snap.Regime).Render(snap.Regime.String()) + "\n")
	right.WriteString(labelStyle.Render("Edge score") + valueStyle.Render(fmt.Sprintf("%.3f", snap.Edge)) + "\n")
	right.WriteString(labelStyle.Render("Fragility") + valueStyle.Render(fmt.Sprintf("%.3f", snap.Fragility)) + "\n")
	right.WriteString(labelStyle.Render("Momentum") + valueStyle.Render(fmt.Sprintf("%+.3f", snap.Momentum)) + "\n")
	if snap.Mode == nerve.Simulated {
		rung := nerve.Ladder[snap.SimLevel]
		right.WriteString(labelStyle.Render("Sim rung") + valueStyle.Render(fmt.Sprintf("%d/%d %s", snap.SimLevel+1, len(nerve.Ladder), rung.Name)) + "\n")
	}
	right.WriteString("\nDOMAINS\n")
	for d := signal.Domain(0); d < signal.NumDomains; d++ {
		score := snap.Domains[d]
		line := fmt.Sprintf("%-15s %s %.2f", d.String(), scoreBar(score, barWidth), score)
		right.WriteString(labelStyle.Render("") + valueStyle.Render(line) + "\n")
	}
	right.WriteString(helpStyle.Render("\nSP:Step Ladder  L:Live/Sim  P:Pause  Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, left.String(), panelStyle.Render(right.String()))
}

func regimeStyle(r signal.Regime) lipgloss.Style {
	if s, ok := regimeStyles[r]; ok {
		return s
	}
	return valueStyle
}

// scoreBar renders a fixed-width [0,1] gauge.
func scoreBar(score float64, width int) string {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	filled := int(score * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// Run blocks until the dashboard exits.
func Run(n *nerve.Nerve) error {
	p := tea.NewProgram(NewModel(n), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
