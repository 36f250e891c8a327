package main

import (
	"log"

	"github.com/automoto/pedalrace/assets"
	"github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/fonts"
	"github.com/automoto/pedalrace/scenes"
	"github.com/automoto/pedalrace/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

// Game forwards the ebiten loop to the active scene.
type Game struct {
	scene Scene
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

// Layout keeps a fixed logical resolution; physics coordinates are pixels.
func (g *Game) Layout(_, _ int) (int, int) {
	return config.C.Width, config.C.Height
}

func main() {
	if err := fonts.LoadDefaults(); err != nil {
		log.Fatalf("Failed to load fonts: %v", err)
	}
	// Fail fast on a broken embedded track rather than mid-match.
	log.Printf("Tracks: %v", assets.TrackNames())

	if err := systems.InitPersistence(); err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}
	if saved, ok, err := systems.LoadSettings(); err == nil && ok {
		config.ApplySettings(saved)
	}

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowTitle(config.C.Title)
	ebiten.SetTPS(config.Physics.TickRate)

	g := &Game{}
	g.scene = scenes.NewMenuScene(g)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
