// Package physics is a small 2D rigid body world: circles and oriented
// rectangles, pin joints, sensors, collision groups and collision-start
// events. A resolv space handles the broadphase.
package physics

import (
	"github.com/solarlune/resolv"
)

const (
	resolvBodyTag = "body"
	cellSize      = 32
)

type (
	StepHook      func(dt float64)
	CollisionHook func(Pair)
)

type World struct {
	Gravity Vec2
	// Iterations is the number of pin and contact relaxation passes.
	Iterations int

	space      *resolv.Space
	bodies     []*Body
	composites []*Composite
	nextID     int
	nextGroup  int

	beforeStep []StepHook
	afterStep  []StepHook
	onStart    []CollisionHook

	active   map[[2]int]bool
	stepping bool
	removals []func()
}

// NewWorld creates a world whose broadphase covers a w×h area.
func NewWorld(w, h int) *World {
	return &World{
		Iterations: 4,
		space:      resolv.NewSpace(w, h, cellSize, cellSize),
		active:     make(map[[2]int]bool),
	}
}

// NextGroup returns a fresh negative collision group.
func (w *World) NextGroup() int {
	w.nextGroup--
	return w.nextGroup
}

func (w *World) OnBeforeStep(h StepHook)          { w.beforeStep = append(w.beforeStep, h) }
func (w *World) OnAfterStep(h StepHook)           { w.afterStep = append(w.afterStep, h) }
func (w *World) OnCollisionStart(h CollisionHook) { w.onStart = append(w.onStart, h) }

// Bodies returns the bodies currently in the world.
func (w *World) Bodies() []*Body { return w.bodies }

func (w *World) Add(bodies ...*Body) {
	for _, b := range bodies {
		if b.world == w {
			continue
		}
		w.nextID++
		b.ID = w.nextID
		b.world = w
		e := b.extent()
		b.obj = resolv.NewObject(b.Position.X-e, b.Position.Y-e, 2*e, 2*e, resolvBodyTag)
		b.obj.SetShape(resolv.NewRectangle(0, 0, 2*e, 2*e))
		b.obj.Data = b
		w.space.Add(b.obj)
		w.bodies = append(w.bodies, b)
	}
}

func (w *World) AddComposite(c *Composite) {
	w.Add(c.Bodies...)
	w.composites = append(w.composites, c)
}

// Remove takes bodies out of the world. During a step the removal waits
// until the step ends.
func (w *World) Remove(bodies ...*Body) {
	if w.stepping {
		w.removals = append(w.removals, func() { w.Remove(bodies...) })
		return
	}
	for _, b := range bodies {
		if b.world != w {
			continue
		}
		w.space.Remove(b.obj)
		b.obj = nil
		b.world = nil
		for i, o := range w.bodies {
			if o == b {
				w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
				break
			}
		}
		for k := range w.active {
			if k[0] == b.ID || k[1] == b.ID {
				delete(w.active, k)
			}
		}
	}
}

func (w *World) RemoveComposite(c *Composite) {
	if w.stepping {
		w.removals = append(w.removals, func() { w.RemoveComposite(c) })
		return
	}
	w.Remove(c.Bodies...)
	for i, o := range w.composites {
		if o == c {
			w.composites = append(w.composites[:i], w.composites[i+1:]...)
			break
		}
	}
}

// Contains reports whether b is currently part of the world.
func (w *World) Contains(b *Body) bool { return b != nil && b.world == w }

// Step advances the world by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.stepping = true

	for _, h := range w.beforeStep {
		h(dt)
	}

	w.integrate(dt)

	iterations := w.Iterations
	if iterations < 1 {
		iterations = 1
	}
	var pairs []Pair
	for i := 0; i < iterations; i++ {
		w.solvePins()
		pairs = w.detect()
		w.resolve(pairs)
	}
	w.solvePins()

	for _, b := range w.bodies {
		if b.Immovable() {
			continue
		}
		b.Velocity = scale(sub(b.Position, b.prev), 1/dt)
	}

	w.syncBroadphase()
	w.fireCollisionStart(w.detect())

	for _, h := range w.afterStep {
		h(dt)
	}

	w.stepping = false
	removals := w.removals
	w.removals = nil
	for _, r := range removals {
		r()
	}
}

func (w *World) integrate(dt float64) {
	for _, b := range w.bodies {
		if b.Static {
			continue
		}
		if b.Role == RolePuppet {
			b.prev = b.Position
			b.Angle += b.AngularVelocity * dt
			continue
		}

		b.prev = b.Position
		acc := add(w.Gravity, scale(b.force, b.invMass()))
		b.Velocity = scale(add(b.Velocity, scale(acc, dt)), 1-b.FrictionAir)
		b.Position = add(b.Position, scale(b.Velocity, dt))

		b.AngularVelocity = (b.AngularVelocity + b.torque*b.invInertia()*dt) * (1 - b.FrictionAir)
		b.Angle += b.AngularVelocity * dt

		b.force = Vec2{}
		b.torque = 0
	}
}

func (w *World) solvePins() {
	for _, c := range w.composites {
		for _, p := range c.Pins {
			solvePin(p)
		}
	}
}

func solvePin(p *Pin) {
	a, b := p.A, p.B
	if a.world == nil || b.world == nil {
		return
	}
	delta := sub(p.anchorB(), p.anchorA())
	if delta == (Vec2{}) {
		return
	}
	ia, ib := a.invMass(), b.invMass()
	total := ia + ib
	if total == 0 {
		// Both immovable: a placed puppet drags its parts along.
		if b.Role == RolePuppet && !b.Static {
			b.Position = sub(b.Position, delta)
		}
		return
	}
	a.Position = add(a.Position, scale(delta, ia/total))
	b.Position = sub(b.Position, scale(delta, ib/total))
}

func (w *World) syncBroadphase() {
	for _, b := range w.bodies {
		e := b.extent()
		b.obj.X = b.Position.X - e
		b.obj.Y = b.Position.Y - e
		b.obj.Update()
	}
}

// detect gathers overlapping pairs. Each pair is reported once.
func (w *World) detect() []Pair {
	w.syncBroadphase()

	var pairs []Pair
	seen := make(map[[2]int]bool)
	for _, a := range w.bodies {
		if a.Static {
			continue
		}
		check := a.obj.Check(0, 0, resolvBodyTag)
		if check == nil {
			continue
		}
		for _, o := range check.Objects {
			b, ok := o.Data.(*Body)
			if !ok || b == a || !a.canCollide(b) {
				continue
			}
			k := pairKey(a, b)
			if seen[k] {
				continue
			}
			seen[k] = true
			if n, d, hit := collide(a, b); hit {
				pairs = append(pairs, Pair{A: a, B: b, Normal: n, Depth: d})
			}
		}
	}
	return pairs
}

// resolve separates solid pairs, splitting the correction by inverse mass.
func (w *World) resolve(pairs []Pair) {
	for _, p := range pairs {
		if p.A.Sensor || p.B.Sensor {
			continue
		}
		ia, ib := p.A.invMass(), p.B.invMass()
		total := ia + ib
		if total == 0 {
			continue
		}
		p.A.Position = sub(p.A.Position, scale(p.Normal, p.Depth*ia/total))
		p.B.Position = add(p.B.Position, scale(p.Normal, p.Depth*ib/total))
	}
}

func (w *World) fireCollisionStart(pairs []Pair) {
	current := make(map[[2]int]bool, len(pairs))
	for _, p := range pairs {
		k := pairKey(p.A, p.B)
		current[k] = true
		if w.active[k] {
			continue
		}
		for _, h := range w.onStart {
			h(p)
		}
	}
	w.active = current
}
