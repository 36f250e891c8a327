package config

import "strings"

// Settings are the user-editable values persisted between runs.
type Settings struct {
	PlayerName      string  `json:"playerName"`
	MatchmakerURL   string  `json:"matchmakerUrl"`
	RenderDelay     float64 `json:"renderDelay"`
	MonotonicGuard  bool    `json:"monotonicGuard"`
	ShowSyncOverlay bool    `json:"showSyncOverlay"`
}

const (
	maxRenderDelay = 500
	maxNameLength  = 16
)

// CurrentSettings snapshots the live configuration.
func CurrentSettings() Settings {
	return Settings{
		PlayerName:      Network.PlayerName,
		MatchmakerURL:   Network.MatchmakerURL,
		RenderDelay:     Sync.RenderDelay,
		MonotonicGuard:  Sync.MonotonicGuard,
		ShowSyncOverlay: HUD.ShowSyncOverlay,
	}
}

// ApplySettings overrides the live configuration. Empty or out-of-range
// values keep the current value.
func ApplySettings(s Settings) {
	if name := strings.TrimSpace(s.PlayerName); name != "" {
		if r := []rune(name); len(r) > maxNameLength {
			name = string(r[:maxNameLength])
		}
		Network.PlayerName = name
	}
	if s.MatchmakerURL != "" {
		Network.MatchmakerURL = strings.TrimRight(s.MatchmakerURL, "/")
	}
	if s.RenderDelay >= 0 && s.RenderDelay <= maxRenderDelay {
		Sync.RenderDelay = s.RenderDelay
	}
	Sync.MonotonicGuard = s.MonotonicGuard
	HUD.ShowSyncOverlay = s.ShowSyncOverlay
}
