package viewport

import (
	"math"
	"sync"
	"testing"
)

func TestNewMetrics(t *testing.T) {
	tests := []struct {
		name      string
		w, h, dpr float64
		wantOK    bool
		wantScale float64
		wantDPR   float64
	}{
		{"landscape", 800, 600, 1, true, 1.2, 1},
		{"portrait", 400, 900, 1, true, 0.8, 1},
		{"retina capped", 500, 500, 3, true, 1, 2},
		{"invalid dpr defaults to one", 500, 500, 0, true, 1, 1},
		{"zero height", 800, 0, 1, false, 0, 0},
		{"negative height", 800, -5, 1, false, 0, 0},
		{"zero width", 0, 600, 1, false, 0, 0},
		{"nan height", 800, math.NaN(), 1, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := NewMetrics(tt.w, tt.h, tt.dpr)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if math.Abs(m.Scale-tt.wantScale) > 1e-12 {
				t.Errorf("Scale = %v, want %v", m.Scale, tt.wantScale)
			}
			if m.DevicePixelRatio != tt.wantDPR {
				t.Errorf("DevicePixelRatio = %v, want %v", m.DevicePixelRatio, tt.wantDPR)
			}
		})
	}
}

func TestTrackerResizeSequence(t *testing.T) {
	tr := NewTracker(100, 100, 1)

	if !tr.Observe(800, 600, 1) {
		t.Fatal("first resize should change metrics")
	}
	if got := tr.Current().Scale; got != 600/ReferenceSize {
		t.Errorf("after 800x600 scale = %v, want %v", got, 600/ReferenceSize)
	}

	tr.Observe(400, 300, 1)
	if got := tr.Current().Scale; got != 300/ReferenceSize {
		t.Errorf("after 400x300 scale = %v, want %v", got, 300/ReferenceSize)
	}

	before := tr.Current()
	if tr.Observe(800, 0, 1) {
		t.Error("zero-height observation must be ignored")
	}
	if tr.Current() != before {
		t.Errorf("metrics changed on zero-height observation: %+v -> %+v", before, tr.Current())
	}

	if tr.Observe(400, 300, 1) {
		t.Error("identical observation should report no change")
	}
}

func TestTrackerInvalidInitialSize(t *testing.T) {
	tr := NewTracker(0, 0, 1)
	m := tr.Current()
	if m.Width != ReferenceSize || m.Scale != 1 {
		t.Errorf("fallback metrics = %+v", m)
	}
}

func TestEngineAnchor(t *testing.T) {
	land, _ := NewMetrics(1000, 500, 1)
	x, y := land.EngineAnchor()
	if x != 500 || y != 350 {
		t.Errorf("landscape anchor = (%v, %v), want (500, 350)", x, y)
	}

	port, _ := NewMetrics(400, 800, 1)
	x, y = port.EngineAnchor()
	if x != 200 || y != 600 {
		t.Errorf("portrait anchor = (%v, %v), want (200, 600)", x, y)
	}
}

func TestDeviceSize(t *testing.T) {
	m, _ := NewMetrics(800, 600, 2)
	w, h := m.DeviceSize()
	if w != 1600 || h != 1200 {
		t.Errorf("DeviceSize = %dx%d, want 1600x1200", w, h)
	}
}

func TestTrackerConcurrentObserve(t *testing.T) {
	tr := NewTracker(500, 500, 1)
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Observe(float64(100*n), float64(50*n), 1)
				m := tr.Current()
				if m.Scale != math.Min(m.Width, m.Height)/ReferenceSize {
					t.Errorf("torn read: %+v", m)
				}
			}
		}(i)
	}
	wg.Wait()
}
