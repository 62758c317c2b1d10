// Package telemetry runs the engine simulation without a window and reports
// what it did: an RPM trace for the terminal, and a live bubbletea dashboard.
package telemetry

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/decker502/neonengine/pkg/components"
	"github.com/decker502/neonengine/pkg/config"
	"github.com/decker502/neonengine/pkg/game"
	"github.com/decker502/neonengine/pkg/utils"
	"github.com/decker502/neonengine/pkg/viewport"
)

// ErrNoTicks is returned when a trace is asked to run for zero ticks.
var ErrNoTicks = errors.New("trace needs at least one tick")

// Never disables a scripted input.
const Never = -1

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hotStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197")).Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
)

// TraceOptions scripts a headless run. Input ticks are zero-based frame
// indices; the input is delivered just before that frame runs.
type TraceOptions struct {
	Ticks       int
	IgniteAt    int
	ReleaseAt   int
	FocusLossAt int

	Width, Height, DPR float64
	Seed               uint64
}

// DefaultTraceOptions revs the engine for four seconds out of ten.
func DefaultTraceOptions() TraceOptions {
	return TraceOptions{
		Ticks:       600,
		IgniteAt:    60,
		ReleaseAt:   300,
		FocusLossAt: Never,
		Width:       viewport.ReferenceSize,
		Height:      viewport.ReferenceSize,
		DPR:         1,
		Seed:        1,
	}
}

// Transition is a RevState change observed at the end of a tick.
type Transition struct {
	Tick     uint64
	From, To components.RevState
}

// Trace is the per-tick record of a run.
type Trace struct {
	RPM          []float64
	Target       []float64
	Particles    []int
	PistonOffset []float64
	Transitions  []Transition
	Bursts       int
}

// igniteCounter stands in for the ignite sound and counts bursts.
type igniteCounter struct{ n int }

func (c *igniteCounter) PlayIgniteSound() { c.n++ }

// RunTrace runs the animation loop on a virtual clock for opts.Ticks frames.
func RunTrace(cfg *config.EngineConfig, opts TraceOptions) (*Trace, error) {
	if opts.Ticks <= 0 {
		return nil, ErrNoTicks
	}

	tracker := viewport.NewTracker(opts.Width, opts.Height, opts.DPR)
	bursts := &igniteCounter{}
	loop, err := game.NewAnimationLoop(cfg, tracker, utils.NewRand(opts.Seed), bursts)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}

	tr := &Trace{
		RPM:          make([]float64, 0, opts.Ticks),
		Target:       make([]float64, 0, opts.Ticks),
		Particles:    make([]int, 0, opts.Ticks),
		PistonOffset: make([]float64, 0, opts.Ticks),
	}
	prev := loop.Rev().State()
	loop.OnTick(func(s game.Snapshot) {
		tr.RPM = append(tr.RPM, s.RPM.Current)
		tr.Target = append(tr.Target, s.RPM.Target)
		tr.Particles = append(tr.Particles, s.Particles)
		tr.PistonOffset = append(tr.PistonOffset, s.Layout.Linkage.PistonOffsetY)
		if s.State != prev {
			tr.Transitions = append(tr.Transitions, Transition{Tick: s.Tick, From: prev, To: s.State})
			prev = s.State
		}
	})

	clock := game.NewVirtualClock()
	loop.Start(clock)
	for i := 0; i < opts.Ticks; i++ {
		switch i {
		case opts.IgniteAt:
			loop.IgniteStart()
		case opts.ReleaseAt:
			loop.IgniteStop()
		}
		if i == opts.FocusLossAt {
			loop.LoseFocus()
		}
		clock.Step()
	}

	tr.Bursts = bursts.n
	return tr, nil
}

// PeakRPM returns the highest RPM reached.
func (t *Trace) PeakRPM() float64 {
	peak := 0.0
	for _, v := range t.RPM {
		peak = math.Max(peak, v)
	}
	return peak
}

// MaxParticles returns the largest live particle count.
func (t *Trace) MaxParticles() int {
	n := 0
	for _, v := range t.Particles {
		n = max(n, v)
	}
	return n
}

// FinalRPM returns the RPM after the last tick.
func (t *Trace) FinalRPM() float64 {
	if len(t.RPM) == 0 {
		return 0
	}
	return t.RPM[len(t.RPM)-1]
}

// Plot renders the RPM curve with the target overlaid.
func (t *Trace) Plot(width, height int) string {
	if len(t.RPM) == 0 {
		return ""
	}
	return asciigraph.PlotMany([][]float64{t.RPM, t.Target},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Red),
		asciigraph.Caption("rpm (cyan) / target (red)"),
	)
}

// Summary renders the headline numbers of the run.
func (t *Trace) Summary() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("NEON ENGINE TRACE") + "\n")
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("ticks", fmt.Sprintf("%d", len(t.RPM)))
	row("peak rpm", fmt.Sprintf("%.1f", t.PeakRPM()))
	row("final rpm", fmt.Sprintf("%.1f", t.FinalRPM()))
	row("bursts", fmt.Sprintf("%d", t.Bursts))
	row("max particles", fmt.Sprintf("%d", t.MaxParticles()))
	for _, tr := range t.Transitions {
		s.WriteString(labelStyle.Render(fmt.Sprintf("tick %d", tr.Tick)) +
			hotStyle.Render(fmt.Sprintf("%s -> %s", tr.From, tr.To)) + "\n")
	}
	return boxStyle.Render(strings.TrimRight(s.String(), "\n"))
}
