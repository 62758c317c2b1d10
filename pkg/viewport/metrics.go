// Package viewport tracks the drawing surface size and the uniform scale
// factor every engine dimension is multiplied by.
package viewport

import (
	"math"
	"sync/atomic"
)

const (
	// ReferenceSize is the short-side length, in CSS pixels, at which the
	// engine is drawn at scale 1.
	ReferenceSize = 500.0

	// MaxDevicePixelRatio caps the backing store resolution.
	MaxDevicePixelRatio = 2.0
)

// Metrics is one immutable observation of the viewport.
type Metrics struct {
	Width            float64 // CSS pixels
	Height           float64 // CSS pixels
	DevicePixelRatio float64 // clamped to (0, MaxDevicePixelRatio]
	Scale            float64 // min(Width, Height) / ReferenceSize
}

// NewMetrics derives metrics from a raw size observation.
// ok is false when the observation must be ignored.
func NewMetrics(width, height, dpr float64) (m Metrics, ok bool) {
	if !(height > 0) || !(width > 0) {
		return Metrics{}, false
	}
	if !(dpr > 0) {
		dpr = 1
	}
	dpr = math.Min(dpr, MaxDevicePixelRatio)
	return Metrics{
		Width:            width,
		Height:           height,
		DevicePixelRatio: dpr,
		Scale:            math.Min(width, height) / ReferenceSize,
	}, true
}

// Landscape reports whether the viewport is wider than tall.
func (m Metrics) Landscape() bool {
	return m.Width > m.Height
}

// EngineAnchor returns the crank centre in CSS pixels.
func (m Metrics) EngineAnchor() (x, y float64) {
	if m.Landscape() {
		return m.Width / 2, m.Height * 0.7
	}
	return m.Width / 2, m.Height * 0.75
}

// DeviceSize returns the backing store size in device pixels.
func (m Metrics) DeviceSize() (w, h int) {
	return int(math.Ceil(m.Width * m.DevicePixelRatio)), int(math.Ceil(m.Height * m.DevicePixelRatio))
}

// Tracker holds the current Metrics. Observe may be called from an input or
// layout callback; readers always see a complete Metrics value.
type Tracker struct {
	current atomic.Pointer[Metrics]
}

// NewTracker creates a tracker seeded with an initial size.
// An invalid initial size falls back to a ReferenceSize square.
func NewTracker(width, height, dpr float64) *Tracker {
	t := &Tracker{}
	m, ok := NewMetrics(width, height, dpr)
	if !ok {
		m, _ = NewMetrics(ReferenceSize, ReferenceSize, 1)
	}
	t.current.Store(&m)
	return t
}

// Observe records a resize observation. Zero or negative heights are
// discarded and the previous metrics stay in effect. It reports whether the
// stored metrics changed.
func (t *Tracker) Observe(width, height, dpr float64) bool {
	m, ok := NewMetrics(width, height, dpr)
	if !ok {
		return false
	}
	if prev := t.current.Load(); prev != nil && *prev == m {
		return false
	}
	t.current.Store(&m)
	return true
}

// Current returns the latest valid metrics.
func (t *Tracker) Current() Metrics {
	return *t.current.Load()
}
