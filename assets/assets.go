package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/automoto/pedalrace/shared/trackdata"
)

const tracksDir = "tracks"

var (
	//go:embed all:tracks
	assetFS embed.FS
)

// FS exposes the embedded asset tree.
func FS() fs.FS { return assetFS }

type TrackLoader struct {
	cache map[string]*trackdata.Track
	names []string
}

func NewTrackLoader() *TrackLoader {
	return &TrackLoader{cache: make(map[string]*trackdata.Track)}
}

// MustLoadTracks parses every embedded track, panicking on a broken asset.
func (l *TrackLoader) MustLoadTracks() []string {
	if l.names != nil {
		return l.names
	}
	tracks, names, err := trackdata.LoadAllTracks(assetFS, tracksDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to load tracks: %v", err))
	}
	l.cache = tracks
	l.names = names
	return names
}

// MustLoadTrack returns the named track (file stem), loading it on first use.
func (l *TrackLoader) MustLoadTrack(name string) *trackdata.Track {
	if t, ok := l.cache[name]; ok {
		return t
	}
	t, err := trackdata.LoadTrack(assetFS, path.Join(tracksDir, name+".tmx"))
	if err != nil {
		panic(err)
	}
	l.cache[name] = t
	return t
}

var trackLoader = NewTrackLoader()

// Track returns an embedded track by name.
func Track(name string) *trackdata.Track {
	return trackLoader.MustLoadTrack(name)
}

// TrackNames lists the embedded tracks, sorted.
func TrackNames() []string {
	return trackLoader.MustLoadTracks()
}
