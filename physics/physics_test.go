package physics

import (
	"math"
	"testing"
)

const tick = 1.0 / 60

func TestSimulatedBodyIntegratesForce(t *testing.T) {
	w := NewWorld(200, 200)
	sim := NewCircle("sim", 50, 50, 10, BodyOptions{})
	pup := NewCircle("pup", 150, 50, 10, BodyOptions{Role: RolePuppet})
	w.Add(sim, pup)

	sim.ApplyForce(vec(1, 0))
	pup.ApplyForce(vec(1, 0))
	w.Step(tick)

	if sim.Position.X <= 50 {
		t.Fatalf("simulated body did not move: x=%v", sim.Position.X)
	}
	if pup.Position.X != 150 || pup.Velocity != (Vec2{}) {
		t.Fatalf("puppet moved under force: pos=%+v vel=%+v", pup.Position, pup.Velocity)
	}
}

func TestPuppetSpinsFromAngularVelocity(t *testing.T) {
	w := NewWorld(200, 200)
	pup := NewCircle("wheel", 50, 50, 10, BodyOptions{Role: RolePuppet})
	w.Add(pup)
	pup.SetAngularVelocity(6)
	w.Step(tick)
	if math.Abs(pup.Angle-0.1) > 1e-9 {
		t.Fatalf("angle = %v, want 0.1", pup.Angle)
	}
}

func TestStaticWallPushesSimulatedBodyOut(t *testing.T) {
	w := NewWorld(200, 200)
	wall := NewRectangle("wall", 100, 100, 100, 20, BodyOptions{Static: true})
	ball := NewCircle("ball", 100, 85, 10, BodyOptions{})
	w.Add(wall, ball)

	w.Step(tick)

	if ball.Position.Y > 80+1e-6 {
		t.Fatalf("ball still overlaps wall: y=%v", ball.Position.Y)
	}
	if wall.Position != vec(100, 100) {
		t.Fatalf("static wall moved to %+v", wall.Position)
	}
}

func TestSensorFiresCollisionStartOnce(t *testing.T) {
	w := NewWorld(200, 200)
	coin := NewCircle("coin", 50, 50, 10, BodyOptions{Static: true, Sensor: true})
	ball := NewCircle("ball", 50, 80, 10, BodyOptions{})
	ball.SetVelocity(vec(0, -600))
	w.Add(coin, ball)

	starts := 0
	w.OnCollisionStart(func(p Pair) {
		if p.Has(coin) && p.Other(coin) == ball {
			starts++
		}
	})

	for i := 0; i < 6; i++ {
		w.Step(tick)
	}

	if starts != 1 {
		t.Fatalf("collision start fired %d times, want 1", starts)
	}
	if ball.Position.Y >= 50 {
		t.Fatalf("sensor blocked the ball: y=%v", ball.Position.Y)
	}
}

func TestSameNegativeGroupNeverCollides(t *testing.T) {
	w := NewWorld(200, 200)
	g := w.NextGroup()
	if g >= 0 || w.NextGroup() == g {
		t.Fatalf("NextGroup should hand out distinct negative groups")
	}

	a := NewCircle("a", 50, 50, 10, BodyOptions{Group: g})
	b := NewCircle("b", 55, 50, 10, BodyOptions{Group: g})
	w.Add(a, b)

	fired := false
	w.OnCollisionStart(func(Pair) { fired = true })
	w.Step(tick)

	if fired {
		t.Fatal("bodies in the same group collided")
	}
	if a.Position.X != 50 || b.Position.X != 55 {
		t.Fatalf("grouped bodies were separated: a=%v b=%v", a.Position.X, b.Position.X)
	}

	c := NewCircle("c", 150, 50, 10, BodyOptions{})
	d := NewCircle("d", 155, 50, 10, BodyOptions{})
	w.Add(c, d)
	w.Step(tick)
	if d.Position.X-c.Position.X < 20-1e-6 {
		t.Fatalf("ungrouped bodies still overlap: gap=%v", d.Position.X-c.Position.X)
	}
}

func TestPinDragsPuppetPart(t *testing.T) {
	w := NewWorld(300, 300)
	frame := NewRectangle("frame", 100, 100, 100, 30, BodyOptions{Role: RolePuppet, Sensor: true})
	wheel := NewCircle("wheel", 0, 0, 20, BodyOptions{Role: RolePuppet, Sensor: true})
	c := NewComposite("bike")
	c.Add(frame, wheel)
	c.AddPin(frame, vec(25, 0), wheel, Vec2{})
	w.AddComposite(c)

	w.Step(tick)
	if wheel.Position != vec(125, 100) {
		t.Fatalf("wheel = %+v, want (125,100)", wheel.Position)
	}

	frame.SetPosition(vec(200, 200))
	frame.SetAngle(math.Pi / 2)
	w.Step(tick)
	if math.Abs(wheel.Position.X-200) > 1e-9 || math.Abs(wheel.Position.Y-225) > 1e-9 {
		t.Fatalf("wheel = %+v, want (200,225)", wheel.Position)
	}

	if c.BodyByLabel("wheel") != wheel || c.BodyByLabel("missing") != nil {
		t.Fatal("BodyByLabel lookup wrong")
	}
}

func TestRemoveDuringStepIsDeferred(t *testing.T) {
	w := NewWorld(200, 200)
	coin := NewCircle("coin", 50, 50, 10, BodyOptions{Static: true, Sensor: true})
	ball := NewCircle("ball", 50, 50, 10, BodyOptions{})
	w.Add(coin, ball)

	stillThere := false
	w.OnCollisionStart(func(p Pair) {
		w.Remove(coin)
		stillThere = w.Contains(coin)
	})
	w.Step(tick)

	if !stillThere {
		t.Fatal("coin removed before the step finished")
	}
	if w.Contains(coin) {
		t.Fatal("coin still in world after the step")
	}
	if len(w.Bodies()) != 1 {
		t.Fatalf("bodies = %d, want 1", len(w.Bodies()))
	}
}

func TestRemoveCompositeRemovesAllParts(t *testing.T) {
	w := NewWorld(200, 200)
	c := NewComposite("bike")
	c.Add(NewCircle("a", 10, 10, 5, BodyOptions{}), NewCircle("b", 30, 10, 5, BodyOptions{}))
	w.AddComposite(c)
	w.RemoveComposite(c)
	if len(w.Bodies()) != 0 {
		t.Fatalf("bodies left: %d", len(w.Bodies()))
	}
	w.Step(tick)
}

func TestRotatedRectangleOverlap(t *testing.T) {
	a := NewRectangle("a", 0, 0, 100, 10, BodyOptions{})
	b := NewRectangle("b", 0, 40, 100, 10, BodyOptions{Angle: math.Pi / 2})
	a.ID, b.ID = 1, 2

	n, depth, ok := collide(a, b)
	if !ok {
		t.Fatal("expected the vertical bar to cross the horizontal one")
	}
	if depth <= 0 {
		t.Fatalf("depth = %v", depth)
	}
	if dot(n, sub(b.Position, a.Position)) < 0 {
		t.Fatalf("normal %+v does not point from a to b", n)
	}

	b.SetAngle(0)
	if _, _, ok := collide(a, b); ok {
		t.Fatal("parallel bars 40 apart should not overlap")
	}
}

func TestCircleInsideRectangle(t *testing.T) {
	r := NewRectangle("r", 0, 0, 100, 20, BodyOptions{})
	c := NewCircle("c", 0, 5, 5, BodyOptions{})

	n, depth, ok := collide(c, r)
	if !ok {
		t.Fatal("expected overlap")
	}
	// nearest edge is the bottom one, 5 away; circle radius adds 5
	if math.Abs(depth-10) > 1e-9 {
		t.Fatalf("depth = %v, want 10", depth)
	}
	if math.Abs(n.Y+1) > 1e-9 {
		t.Fatalf("normal = %+v, want (0,-1) from circle to rect", n)
	}
}
