package config

import (
	"image/color"
	"time"
)

// Config holds general game configuration
type Config struct {
	Width  int
	Height int
	Title  string
}

// SyncConfig tunes the opponent state buffer.
type SyncConfig struct {
	BufferSizeLimit int     // samples kept per opponent
	RenderDelay     float64 // ms the opponent is drawn behind real time
	MonotonicGuard  bool    // drop samples older than the newest buffered one
}

// PhysicsConfig contains physics-related configuration values
type PhysicsConfig struct {
	TickRate    int // simulation steps per second
	GravityX    float64
	GravityY    float64
	FrictionAir float64 // per-step velocity damping for bicycle parts
	Iterations  int     // pin/contact relaxation passes
}

// BicycleConfig describes the three-body bicycle.
type BicycleConfig struct {
	WheelRadius   float64
	WheelGap      float64 // distance between the two axles
	WheelFriction float64
	FrameWidth    float64
	FrameHeight   float64
	FrameDensity  float64
}

// RaceConfig contains rules and handling values.
type RaceConfig struct {
	Laps      int
	CoinValue int
	Track     string

	// Handling
	PedalForce   float64
	BrakeDamping float64 // fraction of velocity removed per step while braking
	SteerTorque  float64
	MaxTurnRate  float64 // rad/s
	SteerReturn  float64 // angular velocity kept per step with no steering
	LateralGrip  float64 // fraction of sideways velocity removed per step

	// Hazards
	PotholeDamping float64 // fraction of velocity kept after a pothole
	OilSpin        float64 // rad/s added by an oil slick

	EventBuffer int
}

// NetworkConfig contains matchmaking and peer settings.
type NetworkConfig struct {
	MatchmakerURL string
	PollInterval  time.Duration
	GameVersion   string
	PlayerName    string
}

// HUDConfig contains HUD layout and animation values.
type HUDConfig struct {
	Margin          float64
	LineHeight      float64
	RollUpSeconds   float32 // opponent currency tween
	PopupFrames     int
	PopupRise       float32 // px a popup drifts upwards over its life
	ContactFlash    int     // frames the screen edge flashes on contact
	ShowSyncOverlay bool
}

// MenuConfig lays out the menu and summary screens.
type MenuConfig struct {
	TitleY            float64
	MenuStartY        float64
	MenuItemHeight    float64
	MenuItemGap       float64
	BackgroundColor   color.RGBA
	TitleColor        color.RGBA
	TextColorNormal   color.RGBA
	TextColorSelected color.RGBA
}

// Global configuration instances
var C *Config
var Sync SyncConfig
var Physics PhysicsConfig
var Bicycle BicycleConfig
var Race RaceConfig
var Network NetworkConfig
var HUD HUDConfig
var Menu MenuConfig

// Default is the only render layer (an ecs.LayerID).
const Default = 0

// Shared RGBA color constants
var (
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow       = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	BrightYellow = color.RGBA{R: 255, G: 255, B: 100, A: 255}
	Orange       = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	Red          = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green        = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	LightGreen   = color.RGBA{R: 100, G: 255, B: 100, A: 255}
	Blue         = color.RGBA{R: 0, G: 100, B: 255, A: 255}
	LightRed     = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	Grey         = color.RGBA{R: 90, G: 90, B: 100, A: 255}
	Asphalt      = color.RGBA{R: 36, G: 38, B: 46, A: 255}
	OilBlack     = color.RGBA{R: 15, G: 15, B: 25, A: 220}
	PotholeBrown = color.RGBA{R: 80, G: 55, B: 35, A: 255}
	BlackOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 180}
	LightBlue    = color.RGBA{R: 100, G: 180, B: 255, A: 255} // Selected menu items
	DarkBlue     = color.RGBA{R: 60, G: 100, B: 160, A: 255}  // Unselected menu items
)

func init() {
	C = &Config{
		Width:  800,
		Height: 600,
		Title:  "Pedal Race",
	}

	Sync = SyncConfig{
		BufferSizeLimit: 60,
		RenderDelay:     100,
	}

	Physics = PhysicsConfig{
		TickRate:    60,
		FrictionAir: 0.01,
		Iterations:  4,
	}

	Bicycle = BicycleConfig{
		WheelRadius:   20,
		WheelGap:      50,
		WheelFriction: 0.8,
		FrameWidth:    100,
		FrameHeight:   30,
		FrameDensity:  0.005,
	}

	Race = RaceConfig{
		Laps:      3,
		CoinValue: 10,
		Track:     "oval",

		PedalForce:   4000,
		BrakeDamping: 0.08,
		SteerTorque:  400000,
		MaxTurnRate:  3.5,
		SteerReturn:  0.8,
		LateralGrip:  0.2,

		PotholeDamping: 0.5,
		OilSpin:        6,

		EventBuffer: 32,
	}

	Network = NetworkConfig{
		MatchmakerURL: "http://localhost:3001",
		PollInterval:  time.Second,
		GameVersion:   "0.1.0",
		PlayerName:    "Rider",
	}

	HUD = HUDConfig{
		Margin:        12,
		LineHeight:    22,
		RollUpSeconds: 0.4,
		PopupFrames:   45,
		PopupRise:     30,
		ContactFlash:  12,
	}

	Menu = MenuConfig{
		TitleY:            170,
		MenuStartY:        260,
		MenuItemHeight:    24,
		MenuItemGap:       14,
		BackgroundColor:   Asphalt,
		TitleColor:        BrightYellow,
		TextColorNormal:   DarkBlue,
		TextColorSelected: LightBlue,
	}
}

// TickSeconds is the fixed simulation step.
func TickSeconds() float64 {
	return 1 / float64(Physics.TickRate)
}
