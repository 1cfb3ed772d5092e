// Package adsorb snaps near-full-size boards back onto the enclosing
// envelope so that two full-extent panels cannot drift apart by rounding
// error during interactive edits.
package adsorb

import "github.com/chazu/carcass/pkg/scene"

// MinQualifyingAxes is the number of axes that must be near full size at the
// same time before any of them is snapped. A single undersized axis is
// assumed to be intentional.
const MinQualifyingAxes = 2

// IsFull reports whether scale is within threshold (a fraction) below
// enclosing. The band is one-sided: any scale at or above
// enclosing-enclosing*threshold qualifies, including oversized ones.
func IsFull(scale, enclosing, threshold float64) bool {
	return scale >= enclosing-enclosing*threshold
}

// Qualifying returns the axes of t that are near full size, in x, y, z order.
func Qualifying(t scene.Transform, enclosing scene.Vec3, threshold float64) []scene.Axis {
	var axes []scene.Axis
	for _, a := range scene.Axes {
		if IsFull(t.Scale.Get(a), enclosing.Get(a), threshold) {
			axes = append(axes, a)
		}
	}
	return axes
}

// Normalize snaps every qualifying axis of t to the enclosing size with a
// zero position, but only when at least MinQualifyingAxes axes qualify. It
// mutates t in place and returns the snapped axes, or nil if nothing moved.
func Normalize(t *scene.Transform, enclosing scene.Vec3, threshold float64) []scene.Axis {
	axes := Qualifying(*t, enclosing, threshold)
	if len(axes) < MinQualifyingAxes {
		return nil
	}
	for _, a := range axes {
		t.Scale.Set(a, enclosing.Get(a))
		t.Position.Set(a, 0)
	}
	return axes
}

// NormalizeBoard applies Normalize to a board's transform.
func NormalizeBoard(b *scene.Board, enclosing scene.Vec3, threshold float64) []scene.Axis {
	if b == nil {
		return nil
	}
	return Normalize(&b.Transform, enclosing, threshold)
}
