package telemetry

import (
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/decker502/neonengine/pkg/components"
	"github.com/decker502/neonengine/pkg/config"
)

func TestRunTrace_DefaultScript(t *testing.T) {
	opts := DefaultTraceOptions()
	tr, err := RunTrace(config.DefaultEngineConfig(), opts)
	if err != nil {
		t.Fatalf("RunTrace() error: %v", err)
	}

	if len(tr.RPM) != opts.Ticks || len(tr.Particles) != opts.Ticks || len(tr.PistonOffset) != opts.Ticks {
		t.Fatalf("series lengths = %d/%d/%d, want %d", len(tr.RPM), len(tr.Particles), len(tr.PistonOffset), opts.Ticks)
	}
	if tr.Bursts != 1 {
		t.Errorf("Bursts = %d, want 1", tr.Bursts)
	}

	want := []Transition{
		{Tick: uint64(opts.IgniteAt + 1), From: components.RevIdle, To: components.RevRevving},
		{Tick: uint64(opts.ReleaseAt + 1), From: components.RevRevving, To: components.RevIdle},
	}
	if len(tr.Transitions) != len(want) {
		t.Fatalf("Transitions = %+v, want %+v", tr.Transitions, want)
	}
	for i := range want {
		if tr.Transitions[i] != want[i] {
			t.Errorf("Transitions[%d] = %+v, want %+v", i, tr.Transitions[i], want[i])
		}
	}

	// 240 帧后距 800 的差值已小于 1
	if peak := tr.PeakRPM(); peak < 799 || peak > 800 {
		t.Errorf("PeakRPM() = %v, want close to 800", peak)
	}
	if tr.MaxParticles() < config.DefaultEngineConfig().Particles.Burst.Count {
		t.Errorf("MaxParticles() = %d, should include the burst", tr.MaxParticles())
	}
	if final := tr.FinalRPM(); final >= tr.PeakRPM() || final < 60 {
		t.Errorf("FinalRPM() = %v, should be coasting back towards idle", final)
	}
	for i, v := range tr.RPM {
		if v < 0 || v > 800 {
			t.Fatalf("RPM[%d] = %v out of bounds", i, v)
		}
	}
}

func TestRunTrace_IdleOnly(t *testing.T) {
	opts := DefaultTraceOptions()
	opts.Ticks = 300
	opts.IgniteAt = Never
	opts.ReleaseAt = Never

	tr, err := RunTrace(config.DefaultEngineConfig(), opts)
	if err != nil {
		t.Fatalf("RunTrace() error: %v", err)
	}
	if tr.Bursts != 0 || len(tr.Transitions) != 0 {
		t.Errorf("idle run should have no bursts or transitions: %+v", tr.Transitions)
	}
	if math.Abs(tr.FinalRPM()-60) > 1 {
		t.Errorf("FinalRPM() = %v, want close to idle", tr.FinalRPM())
	}
	if tr.MaxParticles() != 0 {
		t.Errorf("idle below threshold should emit nothing, got %d", tr.MaxParticles())
	}
}

func TestRunTrace_FocusLoss(t *testing.T) {
	opts := DefaultTraceOptions()
	opts.Ticks = 200
	opts.IgniteAt = 10
	opts.ReleaseAt = Never
	opts.FocusLossAt = 100

	tr, err := RunTrace(config.DefaultEngineConfig(), opts)
	if err != nil {
		t.Fatalf("RunTrace() error: %v", err)
	}
	if len(tr.Transitions) != 2 || tr.Transitions[1].To != components.RevIdle || tr.Transitions[1].Tick != 101 {
		t.Errorf("Transitions = %+v, want focus loss to force Idle at tick 101", tr.Transitions)
	}
	if tr.Target[len(tr.Target)-1] != 60 {
		t.Errorf("target after focus loss = %v, want 60", tr.Target[len(tr.Target)-1])
	}
}

func TestRunTrace_Errors(t *testing.T) {
	opts := DefaultTraceOptions()
	opts.Ticks = 0
	if _, err := RunTrace(config.DefaultEngineConfig(), opts); !errors.Is(err, ErrNoTicks) {
		t.Errorf("expected ErrNoTicks, got %v", err)
	}

	cfg := config.DefaultEngineConfig()
	cfg.Geometry.RodLength = cfg.Geometry.CrankRadius
	if _, err := RunTrace(cfg, DefaultTraceOptions()); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestTrace_PlotAndSummary(t *testing.T) {
	opts := DefaultTraceOptions()
	opts.Ticks = 120
	opts.IgniteAt = 5
	tr, err := RunTrace(config.DefaultEngineConfig(), opts)
	if err != nil {
		t.Fatalf("RunTrace() error: %v", err)
	}

	if plot := tr.Plot(60, 10); !strings.Contains(plot, "rpm") {
		t.Error("Plot() should carry the caption")
	}
	summary := tr.Summary()
	for _, want := range []string{"peak rpm", "bursts", "Idle -> Revving"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary() missing %q", want)
		}
	}

	if (&Trace{}).Plot(10, 5) != "" {
		t.Error("empty trace should plot nothing")
	}
}

func TestGauge(t *testing.T) {
	tests := []struct {
		rpm, max float64
		want     string
	}{
		{0, 800, "[----]"},
		{400, 800, "[##--]"},
		{800, 800, "[####]"},
		{900, 800, "[####]"},
		{100, 0, "[----]"},
	}
	for _, tt := range tests {
		if got := Gauge(tt.rpm, tt.max, 4); got != tt.want {
			t.Errorf("Gauge(%v, %v) = %q, want %q", tt.rpm, tt.max, got, tt.want)
		}
	}
}

func TestWatchModel_Keys(t *testing.T) {
	m, err := NewWatchModel(config.DefaultEngineConfig(), 3)
	if err != nil {
		t.Fatalf("NewWatchModel() error: %v", err)
	}

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if !m.loop.Rev().Revving() {
		t.Fatal("space should ignite")
	}
	if m.bursts.n != 1 {
		t.Errorf("bursts = %d, want 1", m.bursts.n)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	if m.loop.Rev().Revving() {
		t.Error("b should force Idle")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestWatchModel_TicksAndView(t *testing.T) {
	m, err := NewWatchModel(config.DefaultEngineConfig(), 3)
	if err != nil {
		t.Fatalf("NewWatchModel() error: %v", err)
	}

	for i := 0; i < historyCapacity+10; i++ {
		m.Step()
	}
	if len(m.history) != historyCapacity {
		t.Errorf("history = %d, want capped at %d", len(m.history), historyCapacity)
	}
	if m.clock.Ticks() != historyCapacity+10 {
		t.Errorf("ticks = %d", m.clock.Ticks())
	}

	view := m.View()
	for _, want := range []string{"NEON ENGINE", "rpm", "particles", "q: quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
