package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"codeberg.org/mutker/overlayd/internal/gesture"
	"codeberg.org/mutker/overlayd/internal/history"
	"codeberg.org/mutker/overlayd/internal/telemetry"
	"codeberg.org/mutker/overlayd/internal/tier"
)

// One terminal cell stands in for this many px so the gesture thresholds
// are reachable with a short drag.
const cellPx = 10.0

const settleDuration = 400 * time.Millisecond

type sampleMsg struct{}

type settleMsg struct{}

type model struct {
	engine     *gesture.Engine
	controller *tier.Controller

	width  int
	height int

	thermal telemetry.ThermalLevel
	memory  telemetry.MemoryPressureLevel

	mouseX, mouseY int
	dragging       bool

	backActive   bool
	backEdge     gesture.Edge
	backProgress float64

	dismissals int
	lastEdge   gesture.Edge
}

func newModel(recorder history.Recorder) *model {
	m := &model{
		engine:     gesture.NewEngine(gesture.DefaultConfig()),
		controller: tier.NewController(tier.DefaultUpgradeStability),
	}
	m.engine.OnDismiss(func(edge gesture.Edge) {
		m.dismissals++
		m.lastEdge = edge
	})
	if recorder != nil {
		m.engine.OnOutcome(func(id uuid.UUID, edge gesture.Edge, maxProgress float64, outcome gesture.Outcome) {
			// Errors are dropped; recording must never disturb the session.
			_ = recorder.RecordGesture(&history.GestureRow{
				Timestamp:   time.Now(),
				SessionID:   id.String(),
				Edge:        edge.String(),
				MaxProgress: maxProgress,
				Outcome:     string(outcome),
			})
		})
	}

	return m
}

func (m *model) Init() tea.Cmd {
	return sampleTick()
}

func sampleTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return sampleMsg{}
	})
}

func settleTick() tea.Cmd {
	return tea.Tick(settleDuration, func(time.Time) tea.Msg {
		return settleMsg{}
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sampleMsg:
		// One controller sample per second, matching the daemon cadence.
		m.controller.Apply(tier.Classify(m.thermal, m.memory))
		return m, sampleTick()

	case settleMsg:
		m.engine.FinishExit()
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.dragging = true
		m.mouseX, m.mouseY = msg.X, msg.Y
		m.engine.PointerDown(float64(msg.X)*cellPx, float64(msg.Y)*cellPx, float64(m.width)*cellPx)

	case tea.MouseActionMotion:
		if !m.dragging {
			return m, nil
		}
		dx := float64(msg.X-m.mouseX) * cellPx
		dy := float64(msg.Y-m.mouseY) * cellPx
		m.mouseX, m.mouseY = msg.X, msg.Y
		m.engine.PointerMove(dx, dy)

	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		m.engine.PointerUp()
		if m.engine.State().DismissTriggered {
			return m, settleTick()
		}
	}

	return m, nil
}

func (m *model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	// Telemetry levels
	case "t":
		if m.thermal < telemetry.ThermalShutdown {
			m.thermal++
		}
	case "T":
		if m.thermal > telemetry.ThermalNormal {
			m.thermal--
		}
	case "m":
		if m.memory < telemetry.MemoryCritical {
			m.memory++
		}
	case "M":
		if m.memory > telemetry.MemoryNormal {
			m.memory--
		}

	// Native back gesture
	case "l", "r", "b":
		edge := gesture.EdgeLeft
		if msg.String() == "r" {
			edge = gesture.EdgeRight
		} else if msg.String() == "b" {
			edge = gesture.EdgeBottom
		}
		m.backActive = true
		m.backEdge = edge
		m.backProgress = 0
		m.engine.BackStarted(edge)
	case "right", "up":
		if m.backActive {
			m.backProgress = min(m.backProgress+0.05, 1)
			m.engine.BackProgressed(m.backEdge, m.backProgress)
		}
	case "left", "down":
		if m.backActive {
			m.backProgress = max(m.backProgress-0.05, 0)
			m.engine.BackProgressed(m.backEdge, m.backProgress)
		}
	case "enter":
		if m.backActive {
			m.backActive = false
			m.engine.BackCompleted()
			return m, settleTick()
		}
	case "esc":
		if m.backActive {
			m.backActive = false
			m.engine.BackCancelled()
		}
	}

	return m, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func (m *model) View() string {
	current := m.controller.Current()
	ideal := tier.Classify(m.thermal, m.memory)
	state := m.engine.State()

	var b strings.Builder

	b.WriteString(titleStyle.Render("overlayd simulator"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("thermal: "))
	b.WriteString(valueStyle.Render(m.thermal.String()))
	b.WriteString(labelStyle.Render("   memory: "))
	b.WriteString(valueStyle.Render(m.memory.String()))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("ideal tier: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%s (%d)", ideal, ideal.Level())))
	b.WriteString(labelStyle.Render("   applied tier: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%s (%d)", current, current.Level())))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("capabilities: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("blur=%v glow=%v shadow=%v anim=%.2f",
		current.HasBlur(), current.HasGlow(), current.HasShadow(), current.AnimationScale())))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("gesture edge: "))
	b.WriteString(valueStyle.Render(state.Edge.String()))
	b.WriteString(labelStyle.Render("   committed: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%v", state.Committed)))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("progress: "))
	b.WriteString(progressBar(state.Progress, 30))
	b.WriteString(valueStyle.Render(fmt.Sprintf(" %.2f", state.Progress)))
	b.WriteString("\n")

	if state.DismissTriggered {
		b.WriteString(alertStyle.Render("DISMISSING"))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("dismissals: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d", m.dismissals)))
	if m.dismissals > 0 {
		b.WriteString(labelStyle.Render("  last edge: "))
		b.WriteString(valueStyle.Render(m.lastEdge.String()))
	}
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render(
		"drag: mouse  t/T: thermal  m/M: memory\n" +
			"l/r/b: back gesture  arrows: back progress  enter: complete  esc: cancel  q: quit"))

	return panelStyle.Render(b.String())
}

func progressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}

	return valueStyle.Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}
