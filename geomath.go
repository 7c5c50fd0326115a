package fanfield

import (
	"math"
)

const (
	pi180    = math.Pi / 180.0
	doublePi = 2 * math.Pi
)

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

// Bearing returns angle (radians) of the point as seen from the anchor.
// Angle is atan2(Δlng, Δlat), so there is no ellipsoid correction.
//
// Forward variant is shifted by half turn and reduced into [0, 2π).
// Reversed variant is |(atan2 mod 2π) - π| with truncated modulo: it mirrors the
// forward angle (reversed == 2π - forward), so increasing reversed angles walk
// the circle in the opposite direction.
// Reversed range is therefore [0, 2π], not [0, π]: folding it would put both sides of the anchor on one angle.
func Bearing(anchor, point Location, reversed bool) float64 {
	raw := math.Atan2(point.Lng()-anchor.Lng(), point.Lat()-anchor.Lat())
	if reversed {
		return math.Abs(math.Mod(raw, doublePi) - math.Pi)
	}
	return math.Mod(raw+math.Pi, doublePi)
}

// rotateHalfTurn rotates angle by π keeping it in [0, 2π)
func rotateHalfTurn(angle float64) float64 {
	return math.Mod(angle+math.Pi, doublePi)
}

// vec3 is a point on the unit sphere (or a normal of a great circle)
type vec3 [3]float64

func toVec3(lat, lng float64) vec3 {
	phi := degreesToRadians(lat)
	lambda := degreesToRadians(lng)
	c := math.Cos(phi)
	return vec3{c * math.Cos(lambda), c * math.Sin(lambda), math.Sin(phi)}
}

func (v vec3) cross(w vec3) vec3 {
	return vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

func (v vec3) dot(w vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

func (v vec3) norm() float64 {
	return math.Sqrt(v.dot(v))
}

func (v vec3) neg() vec3 {
	return vec3{-v[0], -v[1], -v[2]}
}
