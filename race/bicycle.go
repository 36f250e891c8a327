package race

import (
	"math"

	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/physics"
)

// Body labels used by the session to tell contacts apart.
const (
	LabelFrame      = "frame"
	LabelWheelA     = "wheelA" // front
	LabelWheelB     = "wheelB" // rear, driven
	LabelWall       = "wall"
	LabelCoin       = "coin"
	LabelPothole    = "pothole"
	LabelOilSlick   = "oilSlick"
	LabelFinish     = "finish"
	LabelCheckpoint = "checkpoint"
)

// Bicycle is a frame with two pinned wheels. The parts share a negative
// collision group so they never collide with each other.
type Bicycle struct {
	Composite *physics.Composite
	Role      physics.BodyRole
}

// CreateBicycle builds a bicycle centred on (x, y) facing angle and adds it
// to the world. Puppet bicycles are sensor-only ghosts.
func CreateBicycle(world *physics.World, x, y, angle float64, role physics.BodyRole) *Bicycle {
	b := cfg.Bicycle
	base := physics.BodyOptions{
		Role:        role,
		Sensor:      role == physics.RolePuppet,
		FrictionAir: cfg.Physics.FrictionAir,
		Angle:       angle,
		Group:       world.NextGroup(),
	}

	frameOpts := base
	frameOpts.Density = b.FrameDensity
	wheelOpts := base
	wheelOpts.Friction = b.WheelFriction

	half := b.WheelGap / 2
	hx, hy := math.Cos(angle)*half, math.Sin(angle)*half

	frame := physics.NewRectangle(LabelFrame, x, y, b.FrameWidth, b.FrameHeight, frameOpts)
	front := physics.NewCircle(LabelWheelA, x+hx, y+hy, b.WheelRadius, wheelOpts)
	rear := physics.NewCircle(LabelWheelB, x-hx, y-hy, b.WheelRadius, wheelOpts)

	c := physics.NewComposite("bicycle")
	c.Add(frame, front, rear)
	c.AddPin(frame, physics.Vec2{X: half}, front, physics.Vec2{})
	c.AddPin(frame, physics.Vec2{X: -half}, rear, physics.Vec2{})
	world.AddComposite(c)

	return &Bicycle{Composite: c, Role: role}
}

func (b *Bicycle) Frame() *physics.Body      { return b.Composite.BodyByLabel(LabelFrame) }
func (b *Bicycle) FrontWheel() *physics.Body { return b.Composite.BodyByLabel(LabelWheelA) }
func (b *Bicycle) RearWheel() *physics.Body  { return b.Composite.BodyByLabel(LabelWheelB) }

// Owns reports whether body is one of this bicycle's parts.
func (b *Bicycle) Owns(body *physics.Body) bool {
	return body != nil && body.Composite() == b.Composite
}

// Parts returns frame and wheels.
func (b *Bicycle) Parts() []*physics.Body { return b.Composite.Bodies }
