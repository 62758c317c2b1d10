// Package kinematics solves the crank-slider linkage that drives the piston.
//
// The crank pin travels on a circle of radius CrankRadius around the crank
// centre, the piston is constrained to the vertical axis through that centre,
// and a rigid rod of length RodLength joins the two. All positions are
// offsets from the crank centre in screen orientation (negative Y is up).
package kinematics

import (
	"errors"
	"fmt"
	"math"
)

// ErrRodTooShort is returned when the rod cannot reach the piston axis for
// every crank angle.
var ErrRodTooShort = errors.New("rod length must exceed crank radius")

// Geometry holds the constant dimensions of the engine, in reference units
// (before viewport scaling).
type Geometry struct {
	CrankRadius    float64
	RodLength      float64
	PistonWidth    float64
	PistonHeight   float64
	FlywheelRadius float64
}

// DefaultGeometry returns the stock engine dimensions.
func DefaultGeometry() Geometry {
	return Geometry{
		CrankRadius:    40,
		RodLength:      140,
		PistonWidth:    60,
		PistonHeight:   50,
		FlywheelRadius: 80,
	}
}

// Validate checks that the geometry keeps Solve total over every angle.
func (g Geometry) Validate() error {
	if g.CrankRadius <= 0 {
		return fmt.Errorf("crank radius must be positive, got %.2f", g.CrankRadius)
	}
	if g.RodLength <= g.CrankRadius {
		return fmt.Errorf("%w: rod %.2f, crank %.2f", ErrRodTooShort, g.RodLength, g.CrankRadius)
	}
	if g.PistonWidth <= 0 || g.PistonHeight <= 0 {
		return fmt.Errorf("piston size must be positive, got %.2fx%.2f", g.PistonWidth, g.PistonHeight)
	}
	if g.FlywheelRadius <= 0 {
		return fmt.Errorf("flywheel radius must be positive, got %.2f", g.FlywheelRadius)
	}
	return nil
}

// Scaled returns the geometry with every length multiplied by s.
func (g Geometry) Scaled(s float64) Geometry {
	return Geometry{
		CrankRadius:    g.CrankRadius * s,
		RodLength:      g.RodLength * s,
		PistonWidth:    g.PistonWidth * s,
		PistonHeight:   g.PistonHeight * s,
		FlywheelRadius: g.FlywheelRadius * s,
	}
}

// Linkage is the solved state of the crank-slider for one angle.
type Linkage struct {
	PinX          float64 // crank pin X offset
	PinY          float64 // crank pin Y offset
	PistonOffsetY float64 // piston wrist pin Y offset on the vertical axis
}

// Solve maps a crank angle to the pin and piston positions.
//
// rodLength must not be smaller than crankRadius; Geometry.Validate enforces
// this at startup so the square root below never sees a negative operand.
func Solve(angle, crankRadius, rodLength float64) Linkage {
	pinX := crankRadius * math.Cos(angle)
	pinY := crankRadius * math.Sin(angle)
	rodDy := math.Sqrt(rodLength*rodLength - pinX*pinX)
	return Linkage{
		PinX:          pinX,
		PinY:          pinY,
		PistonOffsetY: pinY - rodDy,
	}
}

// Solve is a convenience wrapper around the package-level Solve.
func (g Geometry) Solve(angle float64) Linkage {
	return Solve(angle, g.CrankRadius, g.RodLength)
}

// Stroke returns the total travel of the piston between its extremes.
func (g Geometry) Stroke() float64 {
	return 2 * g.CrankRadius
}
