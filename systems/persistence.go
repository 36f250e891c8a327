package systems

import (
	"encoding/json"
	"log"
	"time"

	cfg "github.com/automoto/pedalrace/config"
	"github.com/automoto/pedalrace/race"
	"github.com/quasilyte/gdata"
)

const (
	settingsKey = "settings"
	historyKey  = "history"
)

var gdataManager *gdata.Manager
var gdataInitialized bool

// InitPersistence initializes the gdata manager for settings storage
func InitPersistence() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "pedalrace",
	})
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return err
	}
	gdataManager = m
	gdataInitialized = true
	return nil
}

// LoadSettings returns the saved settings laid over the current ones, so
// fields missing on disk keep their defaults. ok is false when nothing is
// saved yet.
func LoadSettings() (cfg.Settings, bool, error) {
	s := cfg.CurrentSettings()
	if !gdataInitialized || gdataManager == nil {
		return s, false, nil
	}

	data, err := gdataManager.LoadItem(settingsKey)
	if err != nil {
		log.Printf("Warning: Could not load settings: %v", err)
		return s, false, nil
	}
	if len(data) == 0 {
		return s, false, nil
	}

	if err := json.Unmarshal(data, &s); err != nil {
		log.Printf("Warning: Could not parse saved settings: %v", err)
		return cfg.CurrentSettings(), false, err
	}
	return s, true, nil
}

// SaveSettings saves settings to disk
func SaveSettings(s cfg.Settings) error {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("Warning: Could not serialize settings: %v", err)
		return err
	}

	if err := gdataManager.SaveItem(settingsKey, data); err != nil {
		log.Printf("Warning: Could not save settings: %v", err)
		return err
	}
	return nil
}

// LoadHistory returns past races, newest first.
func LoadHistory() race.History {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}

	data, err := gdataManager.LoadItem(historyKey)
	if err != nil || len(data) == 0 {
		return nil
	}

	var h race.History
	if err := json.Unmarshal(data, &h); err != nil {
		log.Printf("Warning: Could not parse race history: %v", err)
		return nil
	}
	return h
}

// RecordRace appends a result to the stored history and returns the
// history as it was before the append.
func RecordRace(r race.Result) race.History {
	prev := LoadHistory()
	if !gdataInitialized || gdataManager == nil {
		return prev
	}

	data, err := json.Marshal(prev.Add(race.NewRecord(r, time.Now())))
	if err != nil {
		log.Printf("Warning: Could not serialize race history: %v", err)
		return prev
	}
	if err := gdataManager.SaveItem(historyKey, data); err != nil {
		log.Printf("Warning: Could not save race history: %v", err)
	}
	return prev
}
