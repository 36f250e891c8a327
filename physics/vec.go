package physics

import (
	"math"

	dmath "github.com/yohamta/donburi/features/math"
)

// Vec2 is the donburi vector; the helpers below keep the solver readable.
type Vec2 = dmath.Vec2

func vec(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func add(a, b Vec2) Vec2           { return Vec2{X: a.X + b.X, Y: a.Y + b.Y} }
func sub(a, b Vec2) Vec2           { return Vec2{X: a.X - b.X, Y: a.Y - b.Y} }
func scale(a Vec2, s float64) Vec2 { return Vec2{X: a.X * s, Y: a.Y * s} }
func dot(a, b Vec2) float64        { return a.X*b.X + a.Y*b.Y }
func length(a Vec2) float64        { return math.Hypot(a.X, a.Y) }

func rotate(a Vec2, angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{X: a.X*cos - a.Y*sin, Y: a.X*sin + a.Y*cos}
}

func normalize(a Vec2) Vec2 {
	l := length(a)
	if l == 0 {
		return Vec2{}
	}
	return scale(a, 1/l)
}
