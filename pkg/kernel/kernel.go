// Package kernel defines the abstract geometry kernel interface used to
// measure boards. The sdfx subpackage is the only implementation; the
// abstraction keeps geometry measurement swappable without touching the
// matcher.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and places solids.
type Kernel interface {
	// Box creates a box of the given extents centered on the origin.
	Box(x, y, z float64) Solid

	// Rotate rotates a solid by Euler angles in radians, R = Rx*Ry*Rz.
	Rotate(s Solid, x, y, z float64) Solid

	// Translate moves a solid by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid
}

// Extents returns max-min of a solid's bounding box. A nil solid has zero
// extents.
func Extents(s Solid) [3]float64 {
	if s == nil {
		return [3]float64{}
	}
	min, max := s.BoundingBox()
	return [3]float64{max[0] - min[0], max[1] - min[1], max[2] - min[2]}
}
