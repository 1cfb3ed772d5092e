package scene

import "github.com/google/uuid"

// BoardID is a process-local durable identifier assigned when a board is
// created. Unlike Name it never changes and is never user supplied.
type BoardID string

// NewBoardID returns a fresh random BoardID.
func NewBoardID() BoardID {
	return BoardID(uuid.NewString())
}

// Short returns the first 8 characters of the ID for log messages.
func (id BoardID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// Transform is the mutable placement of a board: position, Euler rotation in
// radians (XYZ order, R = Rx*Ry*Rz), and per-axis scale.
type Transform struct {
	Position Vec3 `json:"position" yaml:"position"`
	Rotation Vec3 `json:"rotation" yaml:"rotation"`
	Scale    Vec3 `json:"scale" yaml:"scale"`
}

// IsRotated reports whether any rotation component is non-zero.
func (t Transform) IsRotated() bool {
	return !t.Rotation.IsZero()
}

// AxisFormula holds one expression string per axis.
type AxisFormula struct {
	X string `json:"x" yaml:"x"`
	Y string `json:"y" yaml:"y"`
	Z string `json:"z" yaml:"z"`
}

// Get returns the expression for a.
func (f AxisFormula) Get(a Axis) string {
	switch a {
	case AxisX:
		return f.X
	case AxisY:
		return f.Y
	case AxisZ:
		return f.Z
	}
	return ""
}

// Set assigns the expression for a.
func (f *AxisFormula) Set(a Axis, expr string) {
	switch a {
	case AxisX:
		f.X = expr
	case AxisY:
		f.Y = expr
	case AxisZ:
		f.Z = expr
	}
}

// Formula is the symbolic description of a board's placement. It is derived
// from the current transform on demand and is never authoritative.
type Formula struct {
	Position AxisFormula `json:"position" yaml:"position"`
	Scale    AxisFormula `json:"scale" yaml:"scale"`
}

// UnitGeometry is the local extent of an untransformed board mesh.
var UnitGeometry = Vec3{X: 1, Y: 1, Z: 1}

// Board describes one rectangular panel in the scene.
type Board struct {
	ID   BoardID `json:"id"`
	Name string  `json:"name"` // stable user-facing identity used for matching

	Transform Transform `json:"transform"`
	Geometry  Vec3      `json:"geometry"` // local mesh extents before Transform

	OriginalPosition Vec3 `json:"originalPosition"` // snapshot taken at load time
	OriginalSize     Vec3 `json:"originalSize"`     // snapshot taken at load time

	ThicknessAxis Axis    `json:"thicknessAxis"`
	Formula       Formula `json:"formula"`
}

// NewBoard creates a board with unit geometry and snapshots its original
// position and size from t.
func NewBoard(name string, t Transform, thickness Axis) *Board {
	return &Board{
		ID:               NewBoardID(),
		Name:             name,
		Transform:        t,
		Geometry:         UnitGeometry,
		OriginalPosition: t.Position,
		OriginalSize:     UnitGeometry.Mul(t.Scale),
		ThicknessAxis:    thickness,
	}
}

// LocalSize returns the board's extents after scale but before rotation and
// translation. A zero Geometry is treated as the unit cube.
func (b *Board) LocalSize() Vec3 {
	g := b.Geometry
	if g.IsZero() {
		g = UnitGeometry
	}
	return g.Mul(b.Transform.Scale)
}
