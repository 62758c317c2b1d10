package telemetry

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/decker502/neonengine/pkg/config"
	"github.com/decker502/neonengine/pkg/game"
	"github.com/decker502/neonengine/pkg/utils"
	"github.com/decker502/neonengine/pkg/utils/colorutil"
	"github.com/decker502/neonengine/pkg/viewport"
)

const (
	historyCapacity = 240
	gaugeWidth      = 40
)

var (
	gaugeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// TickMsg advances the watched simulation by one frame.
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/config.TicksPerSecond, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// WatchModel drives the engine at 60 Hz in the terminal.
// Space toggles the throttle, b simulates the window losing focus, q quits.
type WatchModel struct {
	loop    *game.AnimationLoop
	clock   *game.VirtualClock
	maxRPM  float64
	history []float64
	bursts  *igniteCounter
}

// NewWatchModel builds the dashboard around a fresh animation loop.
func NewWatchModel(cfg *config.EngineConfig, seed uint64) (*WatchModel, error) {
	bursts := &igniteCounter{}
	tracker := viewport.NewTracker(viewport.ReferenceSize, viewport.ReferenceSize, 1)
	loop, err := game.NewAnimationLoop(cfg, tracker, utils.NewRand(seed), bursts)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	clock := game.NewVirtualClock()
	loop.Start(clock)
	return &WatchModel{
		loop:    loop,
		clock:   clock,
		maxRPM:  math.Max(cfg.Rev.IdleRPM, cfg.Rev.MaxRPM),
		history: make([]float64, 0, historyCapacity),
		bursts:  bursts,
	}, nil
}

// RunWatch runs the dashboard until the user quits.
func RunWatch(cfg *config.EngineConfig, seed uint64) error {
	m, err := NewWatchModel(cfg, seed)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m).Run()
	return err
}

// Init starts the frame ticker.
func (m *WatchModel) Init() tea.Cmd {
	return tick()
}

// Update handles key presses and frame ticks.
func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.loop.Rev().Revving() {
				m.loop.IgniteStop()
			} else {
				m.loop.IgniteStart()
			}
		case "b":
			m.loop.LoseFocus()
		}
	case TickMsg:
		m.Step()
		return m, tick()
	}
	return m, nil
}

// Step advances one frame and records the RPM.
func (m *WatchModel) Step() {
	m.clock.Step()
	if len(m.history) == historyCapacity {
		copy(m.history, m.history[1:])
		m.history = m.history[:historyCapacity-1]
	}
	m.history = append(m.history, m.loop.Rev().RPM())
}

// Gauge renders rpm as a bar scaled to the configured maximum.
func Gauge(rpm, maxRPM float64, width int) string {
	ratio := 0.0
	if maxRPM > 0 {
		ratio = colorutil.ClampUnit(rpm / maxRPM)
	}
	filled := int(math.Round(ratio * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// View renders the dashboard.
func (m *WatchModel) View() string {
	snap := m.loop.Snapshot()

	var s strings.Builder
	s.WriteString(titleStyle.Render("NEON ENGINE") + "\n")
	state := valueStyle.Render(snap.State.String())
	if m.loop.Rev().Revving() {
		state = hotStyle.Render(snap.State.String())
	}
	s.WriteString(labelStyle.Render("state") + state + "\n")
	s.WriteString(labelStyle.Render("rpm") + gaugeStyle.Render(Gauge(snap.RPM.Current, m.maxRPM, gaugeWidth)) +
		valueStyle.Render(fmt.Sprintf(" %6.1f / %.0f", snap.RPM.Current, snap.RPM.Target)) + "\n")
	s.WriteString(labelStyle.Render("crank angle") + valueStyle.Render(fmt.Sprintf("%.1f°", math.Mod(snap.Angle*180/math.Pi, 360))) + "\n")
	s.WriteString(labelStyle.Render("piston offset") + valueStyle.Render(fmt.Sprintf("%.1f", snap.Layout.Linkage.PistonOffsetY)) + "\n")
	s.WriteString(labelStyle.Render("particles") + valueStyle.Render(fmt.Sprintf("%d", snap.Particles)) + "\n")
	s.WriteString(labelStyle.Render("bursts") + valueStyle.Render(fmt.Sprintf("%d", m.bursts.n)) + "\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(6), asciigraph.Width(60), asciigraph.Caption("rpm"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("space: throttle  b: lose focus  q: quit"))
	return s.String()
}
