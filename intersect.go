package fanfield

import (
	"github.com/paulmach/orb"
)

// Segment is a straight (or great-circle) piece between two locations
type Segment struct {
	A Location
	B Location
}

// LineString returns orb representation of the segment
func (seg Segment) LineString() orb.LineString {
	return orb.LineString{seg.A.Point, seg.B.Point}
}

// Bound returns bounding box of the segment in lng/lat plane
func (seg Segment) Bound() orb.Bound {
	return seg.LineString().Bound()
}

// Intersector reports whether two segments cross each other.
// Implementations must be pure and symmetric: f(a, b) == f(b, a)
type Intersector func(a, b Segment) bool

// sharesEndpoint checks if segments meet at one of their ends. Such segments never cross
func sharesEndpoint(a, b Segment) bool {
	return samePlace(a.A, b.A) || samePlace(a.A, b.B) || samePlace(a.B, b.A) || samePlace(a.B, b.B)
}

// GreatCircleIntersects checks if two minor great-circle arcs cross.
// Arcs touching at an endpoint or lying on the same great circle are not considered crossing
func GreatCircleIntersects(a, b Segment) bool {
	if sharesEndpoint(a, b) {
		return false
	}
	a0, a1 := toVec3(a.A.Lat(), a.A.Lng()), toVec3(a.B.Lat(), a.B.Lng())
	b0, b1 := toVec3(b.A.Lat(), b.A.Lng()), toVec3(b.B.Lat(), b.B.Lng())
	n1 := a0.cross(a1)
	n2 := b0.cross(b1)
	p := n1.cross(n2)
	pNorm := p.norm()
	if pNorm <= 1e-12*n1.norm()*n2.norm() {
		return false
	}
	p = vec3{p[0] / pNorm, p[1] / pNorm, p[2] / pNorm}
	if onArc(p, a0, a1, n1) && onArc(p, b0, b1, n2) {
		return true
	}
	q := p.neg()
	return onArc(q, a0, a1, n1) && onArc(q, b0, b1, n2)
}

// onArc checks if point p lies strictly inside the minor arc from->to whose plane normal is from x to
func onArc(p, from, to, normal vec3) bool {
	return from.cross(p).dot(normal) > 0 && p.cross(to).dot(normal) > 0
}

// PlanarIntersects checks proper crossing of two segments treating lng as X and lat as Y.
// Touching and colinear overlapping segments are not considered crossing
func PlanarIntersects(a, b Segment) bool {
	if sharesEndpoint(a, b) {
		return false
	}
	if !a.Bound().Intersects(b.Bound()) {
		return false
	}
	return properCrossing(a.A.Point, a.B.Point, b.A.Point, b.B.Point)
}

// WebMercatorIntersects is PlanarIntersects evaluated on Web Mercator projection,
// i.e. links are straight lines as drawn on a slippy map
func WebMercatorIntersects(a, b Segment) bool {
	if sharesEndpoint(a, b) {
		return false
	}
	return properCrossing(
		pointToEuclidean(a.A.Point), pointToEuclidean(a.B.Point),
		pointToEuclidean(b.A.Point), pointToEuclidean(b.B.Point),
	)
}

func properCrossing(p1, p2, p3, p4 orb.Point) bool {
	o1 := orientation(p1, p2, p3)
	o2 := orientation(p1, p2, p4)
	o3 := orientation(p3, p4, p1)
	o4 := orientation(p3, p4, p2)
	return o1*o2 < 0 && o3*o4 < 0
}

// orientation returns 1 for counter clockwise turn p->q->r, -1 for clockwise and 0 for colinear points
func orientation(p, q, r orb.Point) int {
	val := (q.X()-p.X())*(r.Y()-p.Y()) - (q.Y()-p.Y())*(r.X()-p.X())
	if val > 0 {
		return 1
	}
	if val < 0 {
		return -1
	}
	return 0
}
