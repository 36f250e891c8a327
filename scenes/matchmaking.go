package scenes

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"strings"
	"sync"

	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/network"
	"github.com/automoto/pedalrace/systems"
	"github.com/automoto/pedalrace/ui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// MatchmakingScene polls the matchmaker until paired, then opens the peer
// link and hands it to the race scene once connected.
type MatchmakingScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	matchUI      *ui.MatchmakingUI
	once         sync.Once
	shouldGoBack bool

	client    *network.MatchmakerClient
	playerID  string
	searching bool
	cancel    context.CancelFunc
	nextPoll  int // frames until the next poll
	link      *network.PeerLink

	// Written by the poll goroutine, applied on the main goroutine.
	mu       sync.Mutex
	gen      int // bumped per search; stale polls are discarded
	inFlight bool
	polled   bool
	status   network.MatchStatus
	ticket   *network.MatchTicket
	pollErr  error
}

func NewMatchmakingScene(sc SceneChanger) *MatchmakingScene {
	return &MatchmakingScene{sceneChanger: sc}
}

func (s *MatchmakingScene) Update() {
	s.once.Do(s.configure)

	s.ecsWorld.Update()
	s.matchUI.Update()

	if s.shouldGoBack {
		s.stopSearch()
		s.sceneChanger.ChangeScene(NewMenuScene(s.sceneChanger))
		return
	}

	if s.link != nil {
		s.updateLink()
		return
	}
	if !s.searching {
		return
	}

	s.applyPollResult()

	s.mu.Lock()
	busy := s.inFlight
	s.mu.Unlock()
	if s.searching && s.link == nil && !busy {
		if s.nextPoll > 0 {
			s.nextPoll--
		} else {
			s.startPoll()
		}
	}
}

func (s *MatchmakingScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{36, 38, 46, 255})

	if s.ecsWorld == nil {
		return
	}

	s.matchUI.UI.Draw(screen)
}

func (s *MatchmakingScene) configure() {
	s.ecsWorld = ecs.NewECS(donburi.NewWorld())
	s.ecsWorld.AddSystem(systems.UpdateInput)
	s.ecsWorld.AddSystem(func(e *ecs.ECS) {
		input := systems.GetInput(e)
		if systems.GetAction(input, cfg.ActionMenuBack).JustPressed {
			if s.searching {
				s.stopSearch()
				s.matchUI.SetStatus("Search cancelled")
			} else {
				s.shouldGoBack = true
			}
		}
	})

	s.matchUI = ui.NewMatchmakingUI(
		cfg.Network.PlayerName,
		cfg.Network.MatchmakerURL,
		s.onSearch,
		func() {
			s.stopSearch()
			s.matchUI.SetStatus("Search cancelled")
		},
		func() { s.shouldGoBack = true },
	)
}

func (s *MatchmakingScene) onSearch(name, matchmakerURL string) {
	settings := cfg.CurrentSettings()
	settings.PlayerName = name
	settings.MatchmakerURL = strings.TrimSpace(matchmakerURL)
	cfg.ApplySettings(settings)
	if err := systems.SaveSettings(cfg.CurrentSettings()); err != nil {
		log.Printf("[matchmaking] could not save settings: %v", err)
	}

	s.client = network.NewMatchmakerClient(cfg.Network.MatchmakerURL, cfg.Network.GameVersion)
	s.playerID = ""
	s.searching = true
	s.nextPoll = 0
	s.matchUI.SetSearching(true)
	s.matchUI.SetStatus("Joining queue...")
}

func (s *MatchmakingScene) startPoll() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.mu.Lock()
	s.inFlight = true
	gen := s.gen
	s.mu.Unlock()

	client, playerID, name := s.client, s.playerID, cfg.Network.PlayerName
	go func() {
		status, ticket, err := client.FindMatch(ctx, playerID, name)
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			return
		}
		s.inFlight = false
		s.polled = true
		s.status, s.ticket, s.pollErr = status, ticket, err
	}()
}

func (s *MatchmakingScene) applyPollResult() {
	s.mu.Lock()
	if !s.polled {
		s.mu.Unlock()
		return
	}
	status, ticket, err := s.status, s.ticket, s.pollErr
	s.polled = false
	s.mu.Unlock()

	if err != nil {
		log.Printf("[matchmaking] poll failed: %v", err)
		s.stopSearch()
		s.matchUI.SetStatus(err.Error())
		return
	}

	s.playerID = status.PlayerID
	if ticket == nil {
		s.matchUI.SetStatus("Waiting for an opponent...")
		s.nextPoll = int(cfg.Network.PollInterval.Seconds() * float64(ebiten.TPS()))
		return
	}

	s.matchUI.SetStatus(fmt.Sprintf("Matched with %s, connecting...", ticket.OpponentName))
	s.link = network.NewPeerLink()
	s.link.Connect(*ticket)
}

func (s *MatchmakingScene) updateLink() {
	switch s.link.State() {
	case network.StateConnected:
		link := s.link
		s.link = nil
		s.searching = false
		s.sceneChanger.ChangeScene(NewRaceScene(s.sceneChanger, link))

	case network.StateError, network.StateDisconnected:
		msg := "Connection to opponent failed"
		if err := s.link.LastError(); err != nil {
			msg = err.Error()
		}
		s.stopSearch()
		s.matchUI.SetStatus(msg)
	}
}

// stopSearch abandons any poll and drops a half-open link.
func (s *MatchmakingScene) stopSearch() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.link != nil {
		s.link.Disconnect()
		s.link = nil
	}
	s.searching = false
	s.mu.Lock()
	s.gen++
	s.polled = false
	s.inFlight = false
	s.mu.Unlock()
	if s.matchUI != nil {
		s.matchUI.SetSearching(false)
	}
}
