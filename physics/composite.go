package physics

// Pin is a zero-length joint between a point on A and a point on B, both
// given in the owning body's local frame.
type Pin struct {
	A, B           *Body
	PointA, PointB Vec2
}

func (p *Pin) anchorA() Vec2 { return add(p.A.Position, rotate(p.PointA, p.A.Angle)) }
func (p *Pin) anchorB() Vec2 { return add(p.B.Position, rotate(p.PointB, p.B.Angle)) }

// Composite groups bodies and the pins joining them so they can be added
// and removed as one.
type Composite struct {
	Label  string
	Bodies []*Body
	Pins   []*Pin
}

func NewComposite(label string) *Composite {
	return &Composite{Label: label}
}

func (c *Composite) Add(bodies ...*Body) {
	for _, b := range bodies {
		b.composite = c
		c.Bodies = append(c.Bodies, b)
	}
}

func (c *Composite) AddPin(a *Body, pointA Vec2, b *Body, pointB Vec2) *Pin {
	p := &Pin{A: a, B: b, PointA: pointA, PointB: pointB}
	c.Pins = append(c.Pins, p)
	return p
}

// BodyByLabel returns the first body with the given label, or nil.
func (c *Composite) BodyByLabel(label string) *Body {
	if c == nil {
		return nil
	}
	for _, b := range c.Bodies {
		if b.Label == label {
			return b
		}
	}
	return nil
}
