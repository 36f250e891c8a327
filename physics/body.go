package physics

import (
	"math"

	"github.com/solarlune/resolv"
)

// BodyRole selects how the world treats a body each step.
type BodyRole int

const (
	// RoleSimulated bodies are integrated from forces and moved by the solver.
	RoleSimulated BodyRole = iota
	// RolePuppet bodies are placed externally. The solver never integrates
	// or pushes them, but they still produce collision events.
	RolePuppet
)

func (r BodyRole) String() string {
	if r == RolePuppet {
		return "puppet"
	}
	return "simulated"
}

type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeCircle
)

const defaultDensity = 0.001

type BodyOptions struct {
	Role        BodyRole
	Static      bool
	Sensor      bool
	Density     float64
	Friction    float64
	FrictionAir float64
	Angle       float64
	// Group: bodies sharing the same negative group never collide.
	Group int
}

// Body is a rigid circle or rectangle. Position is the centre.
type Body struct {
	ID    int
	Label string
	Kind  ShapeKind

	W, H   float64 // rectangle size
	Radius float64 // circle radius

	Position        Vec2
	Angle           float64
	Velocity        Vec2
	AngularVelocity float64

	Mass    float64
	Inertia float64

	Role        BodyRole
	Static      bool
	Sensor      bool
	Friction    float64
	FrictionAir float64
	Group       int

	// Data is free for the owner, e.g. a coin index.
	Data any

	force     Vec2
	torque    float64
	prev      Vec2
	obj       *resolv.Object
	composite *Composite
	world     *World
}

func newBody(label string, kind ShapeKind, x, y float64, opts BodyOptions) *Body {
	if opts.Density <= 0 {
		opts.Density = defaultDensity
	}
	b := &Body{
		Label:       label,
		Kind:        kind,
		Position:    vec(x, y),
		prev:        vec(x, y),
		Angle:       opts.Angle,
		Role:        opts.Role,
		Static:      opts.Static,
		Sensor:      opts.Sensor,
		Friction:    opts.Friction,
		FrictionAir: opts.FrictionAir,
		Group:       opts.Group,
	}
	return b
}

// NewRectangle creates a w×h rectangle centred on (x, y).
func NewRectangle(label string, x, y, w, h float64, opts BodyOptions) *Body {
	b := newBody(label, ShapeRectangle, x, y, opts)
	b.W, b.H = w, h
	b.Mass = opts.densityOrDefault() * w * h
	b.Inertia = b.Mass * (w*w + h*h) / 12
	return b
}

// NewCircle creates a circle of radius r centred on (x, y).
func NewCircle(label string, x, y, r float64, opts BodyOptions) *Body {
	b := newBody(label, ShapeCircle, x, y, opts)
	b.Radius = r
	b.Mass = opts.densityOrDefault() * math.Pi * r * r
	b.Inertia = b.Mass * r * r / 2
	return b
}

func (o BodyOptions) densityOrDefault() float64 {
	if o.Density <= 0 {
		return defaultDensity
	}
	return o.Density
}

// Immovable reports whether forces and the solver leave the body alone.
func (b *Body) Immovable() bool {
	return b.Static || b.Role == RolePuppet
}

func (b *Body) invMass() float64 {
	if b.Immovable() || b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

func (b *Body) invInertia() float64 {
	if b.Immovable() || b.Inertia <= 0 {
		return 0
	}
	return 1 / b.Inertia
}

// SetPosition moves the body without changing its velocity.
func (b *Body) SetPosition(p Vec2) {
	delta := sub(p, b.Position)
	b.Position = p
	b.prev = add(b.prev, delta)
}

func (b *Body) SetAngle(a float64) { b.Angle = a }

func (b *Body) SetVelocity(v Vec2) { b.Velocity = v }

func (b *Body) SetAngularVelocity(w float64) { b.AngularVelocity = w }

// ApplyForce accumulates a force for the next step. Ignored for puppets
// and static bodies.
func (b *Body) ApplyForce(f Vec2) {
	if b.Immovable() {
		return
	}
	b.force = add(b.force, f)
}

func (b *Body) ApplyTorque(t float64) {
	if b.Immovable() {
		return
	}
	b.torque += t
}

// Speed is the magnitude of the linear velocity.
func (b *Body) Speed() float64 { return length(b.Velocity) }

// Heading is the unit vector the body's local +X axis points along.
func (b *Body) Heading() Vec2 { return rotate(vec(1, 0), b.Angle) }

// Corners returns the rectangle's corners in world space, clockwise from
// the local top-left. Circles return nil.
func (b *Body) Corners() []Vec2 {
	if b.Kind != ShapeRectangle {
		return nil
	}
	hw, hh := b.W/2, b.H/2
	local := [4]Vec2{vec(-hw, -hh), vec(hw, -hh), vec(hw, hh), vec(-hw, hh)}
	out := make([]Vec2, 4)
	for i, c := range local {
		out[i] = add(b.Position, rotate(c, b.Angle))
	}
	return out
}

// extent is the half size of the axis-aligned box enclosing the body at
// any rotation.
func (b *Body) extent() float64 {
	if b.Kind == ShapeCircle {
		return b.Radius
	}
	return math.Hypot(b.W, b.H) / 2
}

// Composite returns the composite the body belongs to, if any.
func (b *Body) Composite() *Composite { return b.composite }

func (b *Body) canCollide(o *Body) bool {
	if b.Group < 0 && b.Group == o.Group {
		return false
	}
	if b.Static && o.Static {
		return false
	}
	return true
}
