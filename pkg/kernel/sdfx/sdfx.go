// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"

	"github.com/chazu/carcass/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// emptySolid stands in for degenerate boxes, which sdfx refuses to build.
// Transforms move its single point but it never gains extent.
type emptySolid struct {
	at [3]float64
}

func (e *emptySolid) BoundingBox() (min, max [3]float64) {
	return e.at, e.at
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box centered on the origin, matching the convention of a
// scaled unit mesh whose position is its center. Boxes with a non-positive
// extent produce an empty solid.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	if x <= 0 || y <= 0 || z <= 0 {
		return &emptySolid{}
	}
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return wrap(s)
}

// Rotate rotates a solid by Euler angles in radians, R = Rx*Ry*Rz.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	if e, ok := s.(*emptySolid); ok {
		return e
	}
	m := sdf.RotateX(x).Mul(sdf.RotateY(y)).Mul(sdf.RotateZ(z))
	return wrap(sdf.Transform3D(s.(*sdfxSolid).s, m))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	if e, ok := s.(*emptySolid); ok {
		return &emptySolid{at: [3]float64{e.at[0] + x, e.at[1] + y, e.at[2] + z}}
	}
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(s.(*sdfxSolid).s, m))
}
