// Package formula derives symbolic scale and position expressions for a
// board from its current transform and the global design parameters.
//
// Formulas are written in terms of the global symbols #W, #H, #D and #BT so a
// layout can be regenerated at different overall dimensions. They describe
// the board; they are never authoritative and are recomputed on demand.
package formula

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chazu/carcass/pkg/scene"
)

// Global symbols.
const (
	Width     = "#W"
	Height    = "#H"
	Depth     = "#D"
	Thickness = "#BT"
)

// Precision is the number of decimal digits kept in ratios.
const Precision = 3

// Symbol returns the global symbol paired with a.
func Symbol(a scene.Axis) string {
	switch a {
	case scene.AxisX:
		return Width
	case scene.AxisY:
		return Height
	case scene.AxisZ:
		return Depth
	}
	return ""
}

// Discard rounds v half-up to n decimals and truncates the result.
// Rounding first cancels float noise such as 0.4999999 before truncation.
func Discard(v float64, n int) float64 {
	p := math.Pow(10, float64(n))
	return math.Trunc(roundHalfUp(v*p)) / p
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Number formats v in its shortest form: 0.5, 1, -0.25. Negative zero
// prints as 0.
func Number(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Calculate recomputes b.Formula from b.Transform and g. Only b.Formula is
// written. Non-positive global dimensions are a caller precondition; see
// scene.ValidateGlobals.
func Calculate(b *scene.Board, g scene.Globals) {
	t := b.Transform
	var f scene.Formula

	for _, a := range scene.Axes {
		f.Scale.Set(a, scaleFormula(t.Scale.Get(a), g.Dimension(a), Symbol(a)))
	}
	if b.ThicknessAxis.Valid() {
		f.Scale.Set(b.ThicknessAxis, Thickness)
	}

	for _, a := range scene.Axes {
		f.Position.Set(a, positionFormula(a, t.Position.Get(a), b.ThicknessAxis == a, g))
	}

	b.Formula = f
}

// CalculateAll runs Calculate on every non-nil board.
func CalculateAll(boards []*scene.Board, g scene.Globals) {
	for _, b := range boards {
		if b != nil {
			Calculate(b, g)
		}
	}
}

func scaleFormula(scale, global float64, sym string) string {
	if scale == global {
		return sym
	}
	return fmt.Sprintf("%s * %s", sym, Number(Discard(scale/global, Precision)))
}

// positionFormula builds the position expression for axis a. pos is in
// centimeters; formulas evaluate to millimeters.
//
// Non-thickness y offsets are divided by the global width, not the height.
func positionFormula(a scene.Axis, pos float64, thickness bool, g scene.Globals) string {
	if math.Trunc(pos*100) == 0 {
		return "0"
	}
	sym := Symbol(a)
	mm := pos * 10

	if thickness {
		half := g.PanelThickness / 2
		sign := "-"
		if pos < 0 {
			half = -half
			sign = "+"
		}
		ratio := Discard((mm+half)/g.Dimension(a), Precision)
		return fmt.Sprintf("%s * %s %s (%s / 2)", sym, Number(ratio), sign, Thickness)
	}

	dim := g.Dimension(a)
	if a == scene.AxisY {
		dim = g.Width
	}
	return fmt.Sprintf("%s * %s", sym, Number(Discard(mm/dim, Precision)))
}
