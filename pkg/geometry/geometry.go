// Package geometry measures the world-space size of boards.
//
// Two Sizers are provided. KernelSizer builds each board as a solid in a
// geometry kernel and reads its bounding box; MatrixSizer composes the
// board's model matrix and transforms the corners of its local geometry.
// They agree to floating-point noise and either may back the matcher.
package geometry

import (
	"math"

	"github.com/chazu/carcass/pkg/kernel"
	"github.com/chazu/carcass/pkg/scene"
	"gonum.org/v1/gonum/mat"
)

// Sizer reports the extents of a board's axis-aligned world bounding box.
// Implementations are pure: a nil or degenerate board yields zero extents.
type Sizer interface {
	WorldSize(b *scene.Board) scene.Vec3
}

// KernelSizer measures boards by building them in a geometry kernel.
type KernelSizer struct {
	Kernel kernel.Kernel
}

// NewKernelSizer returns a KernelSizer backed by k.
func NewKernelSizer(k kernel.Kernel) *KernelSizer {
	return &KernelSizer{Kernel: k}
}

// Solid builds the board's placed solid: a centered box of LocalSize,
// rotated, then translated to Position.
func (s *KernelSizer) Solid(b *scene.Board) kernel.Solid {
	size := b.LocalSize()
	solid := s.Kernel.Box(math.Abs(size.X), math.Abs(size.Y), math.Abs(size.Z))

	r := b.Transform.Rotation
	if !r.IsZero() {
		solid = s.Kernel.Rotate(solid, r.X, r.Y, r.Z)
	}
	p := b.Transform.Position
	if !p.IsZero() {
		solid = s.Kernel.Translate(solid, p.X, p.Y, p.Z)
	}
	return solid
}

// WorldSize implements Sizer. Flat boards, which the kernel cannot build as
// solids, are measured with MatrixSizer instead.
func (s *KernelSizer) WorldSize(b *scene.Board) scene.Vec3 {
	if b == nil {
		return scene.Vec3{}
	}
	size := b.LocalSize()
	if size.X == 0 || size.Y == 0 || size.Z == 0 {
		return MatrixSizer{}.WorldSize(b)
	}
	e := kernel.Extents(s.Solid(b))
	return scene.Vec3{X: e[0], Y: e[1], Z: e[2]}
}

// MatrixSizer measures boards by transforming the corners of their local
// geometry with the model matrix.
type MatrixSizer struct{}

// WorldSize implements Sizer.
func (MatrixSizer) WorldSize(b *scene.Board) scene.Vec3 {
	if b == nil {
		return scene.Vec3{}
	}
	g := b.Geometry
	if g.IsZero() {
		g = scene.UnitGeometry
	}
	min, max := WorldBounds(boxCorners(g), ModelMatrix(b.Transform))
	return scene.Vec3{X: max.X - min.X, Y: max.Y - min.Y, Z: max.Z - min.Z}
}

// ModelMatrix returns the 4x4 matrix T*Rx*Ry*Rz*S for t.
func ModelMatrix(t scene.Transform) *mat.Dense {
	p, r, s := t.Position, t.Rotation, t.Scale

	translate := mat.NewDense(4, 4, []float64{
		1, 0, 0, p.X,
		0, 1, 0, p.Y,
		0, 0, 1, p.Z,
		0, 0, 0, 1,
	})
	cx, sx := math.Cos(r.X), math.Sin(r.X)
	rotX := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, cx, -sx, 0,
		0, sx, cx, 0,
		0, 0, 0, 1,
	})
	cy, sy := math.Cos(r.Y), math.Sin(r.Y)
	rotY := mat.NewDense(4, 4, []float64{
		cy, 0, sy, 0,
		0, 1, 0, 0,
		-sy, 0, cy, 0,
		0, 0, 0, 1,
	})
	cz, sz := math.Cos(r.Z), math.Sin(r.Z)
	rotZ := mat.NewDense(4, 4, []float64{
		cz, -sz, 0, 0,
		sz, cz, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	scale := mat.NewDense(4, 4, []float64{
		s.X, 0, 0, 0,
		0, s.Y, 0, 0,
		0, 0, s.Z, 0,
		0, 0, 0, 1,
	})

	var m mat.Dense
	m.Mul(translate, rotX)
	m.Mul(&m, rotY)
	m.Mul(&m, rotZ)
	m.Mul(&m, scale)
	return &m
}

// WorldBounds transforms local vertices by m and returns the axis-aligned
// bounds. An empty vertex list yields zero bounds.
func WorldBounds(vertices []scene.Vec3, m mat.Matrix) (min, max scene.Vec3) {
	if len(vertices) == 0 {
		return scene.Vec3{}, scene.Vec3{}
	}
	min = scene.Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = scene.Vec3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}

	var out mat.VecDense
	for _, v := range vertices {
		out.MulVec(m, mat.NewVecDense(4, []float64{v.X, v.Y, v.Z, 1}))
		w := scene.Vec3{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
		min = scene.Vec3{X: math.Min(min.X, w.X), Y: math.Min(min.Y, w.Y), Z: math.Min(min.Z, w.Z)}
		max = scene.Vec3{X: math.Max(max.X, w.X), Y: math.Max(max.Y, w.Y), Z: math.Max(max.Z, w.Z)}
	}
	return min, max
}

// boxCorners returns the eight corners of a box of extents g centered on the
// origin.
func boxCorners(g scene.Vec3) []scene.Vec3 {
	hx, hy, hz := g.X/2, g.Y/2, g.Z/2
	corners := make([]scene.Vec3, 0, 8)
	for _, x := range []float64{-hx, hx} {
		for _, y := range []float64{-hy, hy} {
			for _, z := range []float64{-hz, hz} {
				corners = append(corners, scene.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	return corners
}
