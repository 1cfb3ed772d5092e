package scene

// DefaultPanelThickness is the board thickness in mm used when none is given.
const DefaultPanelThickness = 18

// Globals are the user-entered overall design parameters.
type Globals struct {
	Width          float64 `json:"width" yaml:"width"`                   // #W, mm
	Height         float64 `json:"height" yaml:"height"`                 // #H, mm
	Depth          float64 `json:"depth" yaml:"depth"`                   // #D, mm
	PanelThickness float64 `json:"panelThickness" yaml:"panelThickness"` // #BT, mm

	// PanelThicknessUnification is consumed by callers; nothing in the core
	// enforces it.
	PanelThicknessUnification bool `json:"panelThicknessUnification" yaml:"panelThicknessUnification"`

	// Threshold is the full-size snapping band as a fraction in [0, 1].
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// DefaultGlobals returns zero dimensions with the default panel thickness.
func DefaultGlobals() Globals {
	return Globals{PanelThickness: DefaultPanelThickness}
}

// Dimension returns the global dimension paired with a: width for x,
// height for y, depth for z.
func (g Globals) Dimension(a Axis) float64 {
	switch a {
	case AxisX:
		return g.Width
	case AxisY:
		return g.Height
	case AxisZ:
		return g.Depth
	}
	return 0
}

// Envelope returns the overall dimensions as a vector.
func (g Globals) Envelope() Vec3 {
	return Vec3{X: g.Width, Y: g.Height, Z: g.Depth}
}
