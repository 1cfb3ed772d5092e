package scene

import "math"

// CentimetersToMillimeters converts a scene position in centimeters to whole
// millimeters, truncating toward zero.
func CentimetersToMillimeters(v float64) float64 {
	return math.Trunc(v * 10)
}

// CentimetersToMillimetersVec applies CentimetersToMillimeters per component.
func CentimetersToMillimetersVec(v Vec3) Vec3 {
	return Vec3{
		X: CentimetersToMillimeters(v.X),
		Y: CentimetersToMillimeters(v.Y),
		Z: CentimetersToMillimeters(v.Z),
	}
}
