package physics

import "math"

// Pair is a contact between two bodies. Normal points from A to B and
// Depth is the overlap along it.
type Pair struct {
	A, B   *Body
	Normal Vec2
	Depth  float64
}

// Other returns the body in the pair that is not b.
func (p Pair) Other(b *Body) *Body {
	if p.A == b {
		return p.B
	}
	return p.A
}

// Has reports whether b is one side of the pair.
func (p Pair) Has(b *Body) bool { return p.A == b || p.B == b }

func pairKey(a, b *Body) [2]int {
	if a.ID < b.ID {
		return [2]int{a.ID, b.ID}
	}
	return [2]int{b.ID, a.ID}
}

// collide runs the narrowphase for a and b.
func collide(a, b *Body) (Vec2, float64, bool) {
	switch {
	case a.Kind == ShapeCircle && b.Kind == ShapeCircle:
		return circleCircle(a, b)
	case a.Kind == ShapeCircle && b.Kind == ShapeRectangle:
		n, d, ok := circleRect(a, b)
		return scale(n, -1), d, ok
	case a.Kind == ShapeRectangle && b.Kind == ShapeCircle:
		return circleRect(b, a)
	default:
		return rectRect(a, b)
	}
}

func circleCircle(a, b *Body) (Vec2, float64, bool) {
	d := sub(b.Position, a.Position)
	dist := length(d)
	overlap := a.Radius + b.Radius - dist
	if overlap <= 0 {
		return Vec2{}, 0, false
	}
	if dist == 0 {
		return vec(1, 0), overlap, true
	}
	return scale(d, 1/dist), overlap, true
}

// circleRect returns the normal pointing from the rectangle r to the
// circle c.
func circleRect(c, r *Body) (Vec2, float64, bool) {
	local := rotate(sub(c.Position, r.Position), -r.Angle)
	hw, hh := r.W/2, r.H/2

	closest := vec(clamp(local.X, -hw, hw), clamp(local.Y, -hh, hh))
	inside := closest == local

	if !inside {
		d := sub(local, closest)
		dist := length(d)
		if dist >= c.Radius {
			return Vec2{}, 0, false
		}
		return rotate(scale(d, 1/dist), r.Angle), c.Radius - dist, true
	}

	// Centre inside the rectangle: exit through the nearest edge.
	dx := hw - math.Abs(local.X)
	dy := hh - math.Abs(local.Y)
	var n Vec2
	var depth float64
	if dx < dy {
		n = vec(sign(local.X), 0)
		depth = dx + c.Radius
	} else {
		n = vec(0, sign(local.Y))
		depth = dy + c.Radius
	}
	return rotate(n, r.Angle), depth, true
}

func rectRect(a, b *Body) (Vec2, float64, bool) {
	ca, cb := a.Corners(), b.Corners()
	axes := [4]Vec2{
		rotate(vec(1, 0), a.Angle), rotate(vec(0, 1), a.Angle),
		rotate(vec(1, 0), b.Angle), rotate(vec(0, 1), b.Angle),
	}

	best := math.Inf(1)
	var normal Vec2
	for _, axis := range axes {
		minA, maxA := project(ca, axis)
		minB, maxB := project(cb, axis)
		overlap := math.Min(maxA, maxB) - math.Max(minA, minB)
		if overlap <= 0 {
			return Vec2{}, 0, false
		}
		if overlap < best {
			best = overlap
			normal = axis
		}
	}
	if dot(sub(b.Position, a.Position), normal) < 0 {
		normal = scale(normal, -1)
	}
	return normal, best, true
}

func project(pts []Vec2, axis Vec2) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		d := dot(p, axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
