package race

import (
	"errors"
	"math"
	"os"
	"testing"

	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/network"
	"github.com/automoto/pedalrace/physics"
	"github.com/automoto/pedalrace/shared/messages"
	"github.com/automoto/pedalrace/shared/protocol"
	"github.com/automoto/pedalrace/shared/trackdata"
)

type fakeTransport struct {
	sent    []string
	recv    func(string)
	sendErr error
}

func (f *fakeTransport) Send(payload string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, payload)
	return nil
}

func (f *fakeTransport) OnReceive(fn func(string)) { f.recv = fn }

// decoded returns every sent message of type T.
func decoded[T any](t *testing.T, f *fakeTransport) []T {
	t.Helper()
	var out []T
	for _, p := range f.sent {
		msg, err := protocol.Decode(p)
		if err != nil {
			t.Fatalf("sent undecodable payload %q: %v", p, err)
		}
		if m, ok := msg.(T); ok {
			out = append(out, m)
		}
	}
	return out
}

type fakeClock struct{ now float64 }

func (c *fakeClock) Now() float64 { return c.now }

func loadOval(t *testing.T) *trackdata.Track {
	t.Helper()
	tr, err := trackdata.LoadTrack(os.DirFS("../assets"), "tracks/oval.tmx")
	if err != nil {
		t.Fatalf("load track: %v", err)
	}
	return tr
}

func newTestSession(t *testing.T, initiator bool) (*Session, *fakeTransport, *fakeClock) {
	t.Helper()
	ft := &fakeTransport{}
	clk := &fakeClock{now: 1000}
	s := NewSession(loadOval(t), ft, clk, SessionOptions{
		PlayerName:      "local",
		Initiator:       initiator,
		BufferSizeLimit: 60,
		RenderDelay:     100,
	})
	return s, ft, clk
}

func encode(t *testing.T, msg any) string {
	t.Helper()
	p, err := protocol.Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return p
}

// moveBike shifts every part so the frame centre lands on (x, y).
func moveBike(b *Bicycle, x, y float64) {
	f := b.Frame()
	dx, dy := x-f.Position.X, y-f.Position.Y
	for _, p := range b.Parts() {
		p.SetPosition(physics.Vec2{X: p.Position.X + dx, Y: p.Position.Y + dy})
	}
}

func hasEvent(events []Event, kind EventKind) (Event, bool) {
	for _, e := range events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

func TestSessionSpawnSlots(t *testing.T) {
	s, _, _ := newTestSession(t, true)
	if f := s.Local().Frame(); f.Position.X != 260 || f.Position.Y != 135 {
		t.Fatalf("initiator frame at %+v, want slot 0 (260,135)", f.Position)
	}
	if s.Remote().Role != physics.RolePuppet || !s.Remote().Frame().Sensor {
		t.Fatal("remote bicycle should be a sensor puppet")
	}

	s2, _, _ := newTestSession(t, false)
	if f := s2.Local().Frame(); f.Position.X != 420 {
		t.Fatalf("joiner frame at %+v, want slot 1", f.Position)
	}
}

func TestSessionSendsHelloThenStatePerTick(t *testing.T) {
	s, ft, clk := newTestSession(t, true)

	hellos := decoded[messages.Hello](t, ft)
	if len(hellos) != 1 || hellos[0].Name != "local" || !hellos[0].Initiator {
		t.Fatalf("hello = %+v", hellos)
	}

	clk.now = 1016
	s.Update(Input{})
	clk.now = 1033
	s.Update(Input{})

	states := decoded[messages.GameState](t, ft)
	if len(states) != 2 {
		t.Fatalf("sent %d states, want one per tick", len(states))
	}
	if states[0].Timestamp != 1016 || states[1].Timestamp != 1033 {
		t.Fatalf("timestamps = %v, %v", states[0].Timestamp, states[1].Timestamp)
	}
	if states[0].Position.X != 260 || states[0].Position.Y != 135 {
		t.Fatalf("idle bike reported at %+v", states[0].Position)
	}
}

func TestSessionPedalMovesLocalBike(t *testing.T) {
	s, ft, _ := newTestSession(t, true)
	for i := 0; i < 30; i++ {
		s.Update(Input{Pedal: true})
	}
	states := decoded[messages.GameState](t, ft)
	last := states[len(states)-1]
	if last.Position.X <= 260 {
		t.Fatalf("pedalling did not move the bike: %+v", last.Position)
	}
	if last.WheelSpeed <= 0 {
		t.Fatalf("rear wheel not spinning: %v", last.WheelSpeed)
	}
}

func TestSessionAppliesInterpolatedOpponent(t *testing.T) {
	s, ft, clk := newTestSession(t, true)

	ft.recv(encode(t, messages.GameState{Position: messages.Position{X: 300, Y: 135}, Angle: 0, WheelSpeed: 2, Timestamp: 900}))
	ft.recv(encode(t, messages.GameState{Position: messages.Position{X: 400, Y: 135}, Angle: 0.2, WheelSpeed: 9, Currency: 20, Timestamp: 1000}))

	clk.now = 1050 // target 950, halfway between the samples
	s.Update(Input{})

	f := s.Remote().Frame()
	if math.Abs(f.Position.X-350) > 1e-9 || math.Abs(f.Position.Y-135) > 1e-9 {
		t.Fatalf("puppet frame at %+v, want (350,135)", f.Position)
	}
	if math.Abs(f.Angle-0.1) > 1e-9 {
		t.Fatalf("puppet angle = %v, want 0.1", f.Angle)
	}
	if w := s.Remote().RearWheel(); w.AngularVelocity != 9 {
		t.Fatalf("puppet wheel speed = %v, want 9", w.AngularVelocity)
	}
	wantRear := 350 - cfg.Bicycle.WheelGap/2*math.Cos(0.1)
	if rear := s.Remote().RearWheel(); math.Abs(rear.Position.X-wantRear) > 1e-9 {
		t.Fatalf("puppet rear wheel at %+v, want x=%v pinned behind the frame", rear.Position, wantRear)
	}

	cur, ok := s.OpponentCurrency()
	if !ok || cur != 20 {
		t.Fatalf("opponent currency = %d (ok=%t), want 20", cur, ok)
	}
}

func TestSessionOpponentVisualIsLastAppliedPose(t *testing.T) {
	s, ft, clk := newTestSession(t, true)

	if _, ok := s.OpponentVisual(); ok {
		t.Fatal("opponent pose reported before any state was applied")
	}

	ft.recv(encode(t, messages.GameState{Position: messages.Position{X: 300, Y: 135}, Timestamp: 900}))
	ft.recv(encode(t, messages.GameState{Position: messages.Position{X: 400, Y: 135}, Timestamp: 1000}))
	clk.now = 1050
	s.Update(Input{})

	// The clock moving on must not change what was applied this tick.
	clk.now = 1100
	pose, ok := s.OpponentVisual()
	if !ok {
		t.Fatal("no opponent pose after update")
	}
	if math.Abs(pose.Position.X-350) > 1e-9 {
		t.Fatalf("pose x = %v, want 350 (applied at render time 1050)", pose.Position.X)
	}
	if f := s.Remote().Frame(); f.Position.X != pose.Position.X {
		t.Fatalf("pose x = %v, puppet frame x = %v", pose.Position.X, f.Position.X)
	}
}

func TestSessionSkipsMissingBodies(t *testing.T) {
	s, ft, _ := newTestSession(t, true)
	s.World().RemoveComposite(s.Remote().Composite)

	ft.recv(encode(t, messages.GameState{Position: messages.Position{X: 1, Y: 1}, Timestamp: 0}))
	s.Update(Input{})

	if len(decoded[messages.GameState](t, ft)) != 1 {
		t.Fatal("local state should still be broadcast")
	}

	s.World().RemoveComposite(s.Local().Composite)
	s.Update(Input{Pedal: true})
	if len(decoded[messages.GameState](t, ft)) != 1 {
		t.Fatal("state sent without a local bicycle")
	}
}

func TestSessionDropsMalformedPayloads(t *testing.T) {
	s, ft, _ := newTestSession(t, true)
	for _, p := range []string{"", "garbage", "GAME_STATE:{", `GAME_STATE:{"angle":1}`, "HELLO:7"} {
		ft.recv(p)
	}
	if s.Sync().Len() != 0 {
		t.Fatalf("malformed payloads reached the buffer: %d", s.Sync().Len())
	}
	if _, ok := s.OpponentCurrency(); ok {
		t.Fatal("expected no opponent currency")
	}
}

func TestSessionSendErrorsAreNotFatal(t *testing.T) {
	s, ft, _ := newTestSession(t, true)
	ft.sendErr = errors.New("channel closed")
	for i := 0; i < 3; i++ {
		s.Update(Input{Pedal: true})
	}
	ft.sendErr = nil
	s.Update(Input{})
	if len(decoded[messages.GameState](t, ft)) != 1 {
		t.Fatal("sending should resume once the transport recovers")
	}
}

func TestSessionHelloHandshake(t *testing.T) {
	s, ft, _ := newTestSession(t, false)
	ft.recv(encode(t, messages.Hello{Name: "remote", Initiator: true}))
	ft.recv(encode(t, messages.Hello{Name: "remote", Initiator: true}))

	if s.OpponentName() != "remote" {
		t.Fatalf("opponent name = %q", s.OpponentName())
	}
	if n := len(decoded[messages.Hello](t, ft)); n != 2 {
		t.Fatalf("sent %d hellos, want initial plus one reply", n)
	}
	events := s.DrainEvents()
	joined := 0
	for _, e := range events {
		if e.Kind == EventOpponentJoined {
			joined++
		}
	}
	if joined != 1 {
		t.Fatalf("joined events = %d, want 1", joined)
	}
}

func TestSessionCollectsCoinOnce(t *testing.T) {
	s, _, _ := newTestSession(t, true)
	coin := s.TrackBodies().Coins[0]

	moveBike(s.Local(), coin.Position.X, coin.Position.Y)
	s.Update(Input{})
	s.Update(Input{})

	if s.Currency() != cfg.Race.CoinValue {
		t.Fatalf("currency = %d, want %d", s.Currency(), cfg.Race.CoinValue)
	}
	if !s.CoinCollected(0) {
		t.Fatal("coin not marked collected")
	}
	if s.World().Contains(coin) {
		t.Fatal("collected coin still in the world")
	}
	if _, ok := hasEvent(s.DrainEvents(), EventCoinCollected); !ok {
		t.Fatal("no coin event")
	}
}

func TestSessionPotholeDampsVelocity(t *testing.T) {
	s, _, _ := newTestSession(t, true)
	moveBike(s.Local(), 600, 130)
	for _, p := range s.Local().Parts() {
		p.SetVelocity(physics.Vec2{X: 100})
	}
	s.Update(Input{})

	e, ok := hasEvent(s.DrainEvents(), EventHazardHit)
	if !ok || e.Label != LabelPothole {
		t.Fatalf("hazard event = %+v (ok=%t)", e, ok)
	}
	if sp := s.Local().Frame().Speed(); sp > 60 {
		t.Fatalf("frame speed %v not damped", sp)
	}
}

func TestSessionLapNeedsCheckpoint(t *testing.T) {
	saved := cfg.Race.Laps
	cfg.Race.Laps = 1
	defer func() { cfg.Race.Laps = saved }()

	s, ft, _ := newTestSession(t, true)

	moveBike(s.Local(), 520, 135)
	s.Update(Input{})
	if s.Lap() != 0 {
		t.Fatal("finish line counted a lap without the checkpoint")
	}

	moveBike(s.Local(), 380, 465)
	s.Update(Input{})
	moveBike(s.Local(), 520, 135)
	s.Update(Input{})

	if s.Lap() != 1 || !s.Finished() {
		t.Fatalf("lap = %d finished = %t", s.Lap(), s.Finished())
	}
	e, ok := hasEvent(s.DrainEvents(), EventRaceFinished)
	if !ok || !e.Won {
		t.Fatalf("race finished event = %+v (ok=%t), want a win", e, ok)
	}
	if fin := decoded[messages.RaceFinished](t, ft); len(fin) != 1 || fin[0].Laps != 1 {
		t.Fatalf("race finished messages = %+v", fin)
	}
	if !s.Result().Won {
		t.Fatal("result should be a win")
	}
}

func TestSessionOpponentFinishingFirstWins(t *testing.T) {
	saved := cfg.Race.Laps
	cfg.Race.Laps = 1
	defer func() { cfg.Race.Laps = saved }()

	s, ft, _ := newTestSession(t, true)
	ft.recv(encode(t, messages.RaceFinished{Laps: 1, Currency: 70, Timestamp: 5}))

	moveBike(s.Local(), 380, 465)
	s.Update(Input{})
	moveBike(s.Local(), 520, 135)
	s.Update(Input{})

	r := s.Result()
	if !r.Finished || r.Won {
		t.Fatalf("result = %+v, want finished and lost", r)
	}
	if !r.OpponentFinished || r.OpponentCurrency != 70 {
		t.Fatalf("result = %+v, want opponent final currency 70", r)
	}
}

func TestSessionCloseStopsTicking(t *testing.T) {
	s, ft, _ := newTestSession(t, true)
	s.Close()
	s.Close()

	before := len(ft.sent)
	s.Update(Input{Pedal: true})
	ft.recv(encode(t, messages.GameState{Position: messages.Position{X: 1}, Timestamp: 1}))

	if len(ft.sent) != before {
		t.Fatal("closed session kept sending")
	}
	if s.Sync().Len() != 0 {
		t.Fatal("closed session kept buffering")
	}
	if s.World().Contains(s.Local().Frame()) || s.World().Contains(s.Remote().Frame()) {
		t.Fatal("bicycles still in the world after Close")
	}
}

var _ network.Transport = (*fakeTransport)(nil)
