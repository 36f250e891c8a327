// Package race drives one two-player race: the local bicycle is simulated
// from input, the opponent is a puppet posed from interpolated network
// samples, and the local state is broadcast after every step.
package race

import (
	"log"
	"math"
	"sync"

	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/network"
	"github.com/automoto/pedalrace/physics"
	"github.com/automoto/pedalrace/shared/messages"
	"github.com/automoto/pedalrace/shared/protocol"
	"github.com/automoto/pedalrace/shared/trackdata"
)

type SessionOptions struct {
	PlayerName string
	// Initiator takes spawn slot 0.
	Initiator bool

	BufferSizeLimit int
	RenderDelay     float64
	SyncOptions     []network.SyncOption
}

// DefaultSessionOptions fills buffer and delay from config.
func DefaultSessionOptions(name string, initiator bool) SessionOptions {
	opts := SessionOptions{
		PlayerName:      name,
		Initiator:       initiator,
		BufferSizeLimit: cfg.Sync.BufferSizeLimit,
		RenderDelay:     cfg.Sync.RenderDelay,
	}
	if cfg.Sync.MonotonicGuard {
		opts.SyncOptions = append(opts.SyncOptions, network.WithMonotonicGuard())
	}
	return opts
}

type Session struct {
	world     *physics.World
	track     *trackdata.Track
	bodies    *TrackBodies
	local     *Bicycle
	remote    *Bicycle
	sync      *network.SyncManager
	transport network.Transport
	clock     network.Clock
	opts      SessionOptions

	// Written only from Update (the game goroutine).
	currency        int
	collected       map[int]bool
	lap             int
	checkpointArmed bool
	startTime       float64
	opponentPose    network.OpponentVisualState
	opponentPosed   bool

	// mu guards fields shared with HandlePayload, which runs on the
	// transport's goroutine.
	mu               sync.Mutex
	finished         bool
	won              bool
	finishTime       float64
	closed           bool
	opponentName     string
	opponentFinished bool
	opponentFinal    messages.RaceFinished
	helloReplied     bool
	sendFailures     int

	events chan Event
}

// NewSession builds the world for track, spawns both bicycles and starts
// listening on transport.
func NewSession(track *trackdata.Track, transport network.Transport, clock network.Clock, opts SessionOptions) *Session {
	if clock == nil {
		clock = network.NewMonotonicClock()
	}

	world := physics.NewWorld(track.Width, track.Height)
	world.Gravity = physics.Vec2{X: cfg.Physics.GravityX, Y: cfg.Physics.GravityY}
	world.Iterations = cfg.Physics.Iterations

	syncOpts := append([]network.SyncOption{network.WithClock(clock)}, opts.SyncOptions...)

	s := &Session{
		world:     world,
		track:     track,
		transport: transport,
		clock:     clock,
		opts:      opts,
		sync:      network.NewSyncManager(opts.BufferSizeLimit, opts.RenderDelay, syncOpts...),
		collected: make(map[int]bool),
		events:    make(chan Event, max(cfg.Race.EventBuffer, 1)),
	}

	s.bodies = BuildTrack(world, track)

	localSlot, remoteSlot := 1, 0
	if opts.Initiator {
		localSlot, remoteSlot = 0, 1
	}
	ls, rs := track.Spawn(localSlot), track.Spawn(remoteSlot)
	s.local = CreateBicycle(world, ls.X, ls.Y, ls.Angle, physics.RoleSimulated)
	s.remote = CreateBicycle(world, rs.X, rs.Y, rs.Angle, physics.RolePuppet)

	world.OnBeforeStep(s.applyOpponent)
	world.OnAfterStep(s.broadcastState)
	world.OnCollisionStart(s.onCollisionStart)

	s.startTime = clock.Now()
	transport.OnReceive(s.HandlePayload)
	s.send(messages.Hello{Name: opts.PlayerName, Initiator: opts.Initiator})

	log.Printf("[race] session started on %q (initiator=%t, slot %d)", track.Name, opts.Initiator, localSlot)
	return s
}

// Update applies input to the local bicycle and steps the world one tick.
func (s *Session) Update(in Input) {
	s.mu.Lock()
	closed, finished := s.closed, s.finished
	s.mu.Unlock()
	if closed {
		return
	}

	if finished {
		in = Input{Brake: true}
	}
	s.applyInput(in)
	s.world.Step(cfg.TickSeconds())
}

func (s *Session) applyInput(in Input) {
	frame := s.local.Frame()
	if !s.world.Contains(frame) {
		return
	}
	r := cfg.Race

	hx, hy := math.Cos(frame.Angle), math.Sin(frame.Angle)
	if in.Pedal {
		frame.ApplyForce(physics.Vec2{X: hx * r.PedalForce, Y: hy * r.PedalForce})
	}
	if in.Brake {
		s.dampLocal(1 - r.BrakeDamping)
	}

	steer := math.Max(-1, math.Min(1, in.Steer))
	if steer != 0 {
		frame.ApplyTorque(steer * r.SteerTorque)
	} else {
		frame.SetAngularVelocity(frame.AngularVelocity * r.SteerReturn)
	}
	if math.Abs(frame.AngularVelocity) > r.MaxTurnRate {
		frame.SetAngularVelocity(math.Copysign(r.MaxTurnRate, frame.AngularVelocity))
	}

	// Tyres resist sliding sideways.
	v := frame.Velocity
	forward := v.X*hx + v.Y*hy
	latX, latY := v.X-hx*forward, v.Y-hy*forward
	frame.SetVelocity(physics.Vec2{X: v.X - latX*r.LateralGrip, Y: v.Y - latY*r.LateralGrip})

	spin := forward / cfg.Bicycle.WheelRadius
	for _, w := range []*physics.Body{s.local.FrontWheel(), s.local.RearWheel()} {
		if w != nil {
			w.SetAngularVelocity(spin)
		}
	}
}

func (s *Session) dampLocal(keep float64) {
	for _, b := range s.local.Parts() {
		b.SetVelocity(physics.Vec2{X: b.Velocity.X * keep, Y: b.Velocity.Y * keep})
	}
}

// applyOpponent poses the puppet from the interpolated remote state.
func (s *Session) applyOpponent(float64) {
	st, ok := s.sync.GetInterpolatedState(s.clock.Now())
	if !ok {
		return
	}
	frame, rear := s.remote.Frame(), s.remote.RearWheel()
	if !s.world.Contains(frame) || !s.world.Contains(rear) {
		return
	}
	frame.SetPosition(physics.Vec2{X: st.Position.X, Y: st.Position.Y})
	frame.SetAngle(st.Angle)
	rear.SetAngularVelocity(st.WheelSpeed)
	s.opponentPose, s.opponentPosed = st, true
}

// broadcastState sends the local authoritative state after each step.
func (s *Session) broadcastState(float64) {
	frame, rear := s.local.Frame(), s.local.RearWheel()
	if !s.world.Contains(frame) || !s.world.Contains(rear) {
		return
	}
	s.send(messages.GameState{
		Position:   messages.Position{X: frame.Position.X, Y: frame.Position.Y},
		Angle:      frame.Angle,
		WheelSpeed: rear.AngularVelocity,
		Currency:   s.currency,
		Timestamp:  s.clock.Now(),
	})
}

// send encodes and hands msg to the transport. Failures are logged and
// dropped; the next tick carries fresher state anyway.
func (s *Session) send(msg any) {
	payload, err := protocol.Encode(msg)
	if err != nil {
		log.Printf("[race] encode %T: %v", msg, err)
		return
	}
	if err := s.transport.Send(payload); err != nil {
		s.mu.Lock()
		s.sendFailures++
		n := s.sendFailures
		s.mu.Unlock()
		if n == 1 || n%cfg.Physics.TickRate == 0 {
			log.Printf("[race] send failed (%d so far): %v", n, err)
		}
	}
}

// HandlePayload is the transport's receive callback. Malformed or unknown
// payloads are logged and dropped.
func (s *Session) HandlePayload(payload string) {
	msg, err := protocol.Decode(payload)
	if err != nil {
		log.Printf("[race] dropping payload: %v", err)
		return
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	switch m := msg.(type) {
	case messages.GameState:
		s.sync.AddState(m)
	case messages.Hello:
		s.mu.Lock()
		first := s.opponentName == ""
		s.opponentName = m.Name
		reply := !s.helloReplied
		s.helloReplied = true
		s.mu.Unlock()
		if first {
			log.Printf("[race] opponent %q joined", m.Name)
			s.emit(Event{Kind: EventOpponentJoined, Label: m.Name})
		}
		if reply {
			s.send(messages.Hello{Name: s.opts.PlayerName, Initiator: s.opts.Initiator})
		}
	case messages.RaceFinished:
		s.mu.Lock()
		already := s.opponentFinished
		s.opponentFinished = true
		s.opponentFinal = m
		name := s.opponentName
		s.mu.Unlock()
		if !already {
			log.Printf("[race] opponent finished (%d laps, %d currency)", m.Laps, m.Currency)
			s.emit(Event{Kind: EventOpponentFinished, Amount: m.Currency, Label: name})
		}
	}
}

func (s *Session) onCollisionStart(p physics.Pair) {
	var mine, other *physics.Body
	switch {
	case s.local.Owns(p.A):
		mine, other = p.A, p.B
	case s.local.Owns(p.B):
		mine, other = p.B, p.A
	default:
		return
	}
	frame := s.local.Frame()

	switch other.Label {
	case LabelCoin:
		s.collectCoin(other)
	case LabelPothole:
		if mine == frame {
			s.dampLocal(cfg.Race.PotholeDamping)
			s.emit(Event{Kind: EventHazardHit, X: other.Position.X, Y: other.Position.Y, Label: LabelPothole})
		}
	case LabelOilSlick:
		if mine == frame {
			spin := math.Copysign(cfg.Race.OilSpin, frame.AngularVelocity)
			frame.SetAngularVelocity(frame.AngularVelocity + spin)
			s.emit(Event{Kind: EventHazardHit, X: other.Position.X, Y: other.Position.Y, Label: LabelOilSlick})
		}
	case LabelCheckpoint:
		if mine == frame {
			s.checkpointArmed = true
		}
	case LabelFinish:
		if mine == frame && s.checkpointArmed {
			s.checkpointArmed = false
			s.completeLap()
		}
	default:
		if s.remote.Owns(other) {
			s.emit(Event{Kind: EventOpponentContact, X: mine.Position.X, Y: mine.Position.Y})
		}
	}
}

func (s *Session) collectCoin(coin *physics.Body) {
	idx, ok := coin.Data.(int)
	if !ok || s.collected[idx] {
		return
	}
	s.collected[idx] = true
	s.currency += cfg.Race.CoinValue
	s.world.Remove(coin)
	s.emit(Event{Kind: EventCoinCollected, X: coin.Position.X, Y: coin.Position.Y, Amount: cfg.Race.CoinValue})
}

func (s *Session) completeLap() {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.lap++
	s.emit(Event{Kind: EventLapCompleted, Amount: s.lap})
	if s.lap < cfg.Race.Laps {
		return
	}

	now := s.clock.Now()
	s.mu.Lock()
	s.finished = true
	s.finishTime = now
	s.won = !s.opponentFinished
	won := s.won
	s.mu.Unlock()

	log.Printf("[race] finished: %d laps, %d currency, won=%t", s.lap, s.currency, won)
	s.send(messages.RaceFinished{Laps: s.lap, Currency: s.currency, Timestamp: now})
	s.emit(Event{Kind: EventRaceFinished, Amount: s.currency, Won: won})
}

func (s *Session) emit(e Event) {
	select {
	case s.events <- e:
	default:
		log.Printf("[race] event buffer full, dropping %s", e.Kind)
	}
}

// DrainEvents returns all pending events, non-blocking.
func (s *Session) DrainEvents() []Event {
	return drainChan(s.events)
}

// OpponentCurrency is the currency in the newest opponent sample.
func (s *Session) OpponentCurrency() (int, bool) {
	return s.sync.GetLatestCurrency()
}

// OpponentVisual returns the pose the puppet was last given. ok is false
// until the first opponent state has been applied.
func (s *Session) OpponentVisual() (network.OpponentVisualState, bool) {
	return s.opponentPose, s.opponentPosed
}

func (s *Session) Currency() int { return s.currency }
func (s *Session) Lap() int      { return s.lap }

func (s *Session) Local() *Bicycle            { return s.local }
func (s *Session) Remote() *Bicycle           { return s.remote }
func (s *Session) World() *physics.World      { return s.world }
func (s *Session) Track() *trackdata.Track    { return s.track }
func (s *Session) TrackBodies() *TrackBodies  { return s.bodies }
func (s *Session) Sync() *network.SyncManager { return s.sync }
func (s *Session) Options() SessionOptions    { return s.opts }
func (s *Session) CoinCollected(idx int) bool { return s.collected[idx] }

func (s *Session) OpponentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opponentName
}

func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Result summarises the race so far.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := Result{
		Finished:         s.finished,
		Won:              s.won,
		Laps:             s.lap,
		Currency:         s.currency,
		OpponentName:     s.opponentName,
		OpponentFinished: s.opponentFinished,
	}
	if cur, ok := s.sync.GetLatestCurrency(); ok {
		r.OpponentCurrency = cur
	}
	if s.opponentFinished {
		r.OpponentCurrency = s.opponentFinal.Currency
	}
	end := s.clock.Now()
	if s.finished {
		end = s.finishTime
	}
	r.ElapsedMs = end - s.startTime
	return r
}

// Close removes both bicycles and stops reacting to the transport. Later
// ticks are no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.world.RemoveComposite(s.local.Composite)
	s.world.RemoveComposite(s.remote.Composite)
	log.Printf("[race] session closed")
}
