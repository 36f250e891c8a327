package config

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestApplySettingsKeepsInvalidValues(t *testing.T) {
	saved := CurrentSettings()
	defer ApplySettings(saved)

	ApplySettings(Settings{PlayerName: "  ", RenderDelay: -5})
	if Network.PlayerName != saved.PlayerName {
		t.Errorf("blank name overwrote %q with %q", saved.PlayerName, Network.PlayerName)
	}
	if Sync.RenderDelay != saved.RenderDelay {
		t.Errorf("negative delay applied: %v", Sync.RenderDelay)
	}

	ApplySettings(Settings{PlayerName: "a-very-long-player-name", MatchmakerURL: "http://mm:9000/", RenderDelay: 150, MonotonicGuard: true})
	if len(Network.PlayerName) != maxNameLength {
		t.Errorf("name not truncated: %q", Network.PlayerName)
	}
	if Network.MatchmakerURL != "http://mm:9000" {
		t.Errorf("url = %q", Network.MatchmakerURL)
	}
	if Sync.RenderDelay != 150 || !Sync.MonotonicGuard {
		t.Errorf("sync = %+v", Sync)
	}
}

func TestApplySettingsTruncatesNameByRunes(t *testing.T) {
	saved := CurrentSettings()
	defer ApplySettings(saved)

	ApplySettings(Settings{PlayerName: strings.Repeat("ü", maxNameLength+3)})
	if !utf8.ValidString(Network.PlayerName) {
		t.Fatalf("name %q is not valid UTF-8", Network.PlayerName)
	}
	if n := utf8.RuneCountInString(Network.PlayerName); n != maxNameLength {
		t.Fatalf("name has %d runes, want %d", n, maxNameLength)
	}
}
