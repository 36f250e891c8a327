// Package protocol encodes peer messages as tagged text payloads: a fixed
// tag prefix followed by a JSON body. Both racers must use the same tags.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/automoto/pedalrace/shared/messages"
)

// Message tags. The tag includes the trailing separator.
const (
	TagGameState    = "GAME_STATE:"
	TagHello        = "HELLO:"
	TagRaceFinished = "RACE_FINISHED:"
)

var (
	ErrUnknownTag = errors.New("unknown message tag")
	ErrMalformed  = errors.New("malformed message")
)

// gameStateWire mirrors messages.GameState with pointer fields so that
// missing required keys can be told apart from zero values.
type gameStateWire struct {
	Position   *messages.Position `json:"position"`
	Angle      float64            `json:"angle"`
	WheelSpeed float64            `json:"wheelSpeed"`
	Currency   int                `json:"currency"`
	Timestamp  *float64           `json:"timestamp"`
}

// EncodeGameState renders a state sample as a GAME_STATE payload.
func EncodeGameState(s messages.GameState) (string, error) {
	return encode(TagGameState, s)
}

// Encode renders any supported message as a tagged payload.
func Encode(msg any) (string, error) {
	switch m := msg.(type) {
	case messages.GameState:
		return encode(TagGameState, m)
	case messages.Hello:
		return encode(TagHello, m)
	case messages.RaceFinished:
		return encode(TagRaceFinished, m)
	default:
		return "", fmt.Errorf("encode %T: %w", msg, ErrUnknownTag)
	}
}

func encode(tag string, v any) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", strings.TrimSuffix(tag, ":"), err)
	}
	return tag + string(body), nil
}

// Decode parses a tagged payload into messages.GameState, messages.Hello or
// messages.RaceFinished. Errors wrap ErrUnknownTag or ErrMalformed.
func Decode(payload string) (any, error) {
	switch {
	case strings.HasPrefix(payload, TagGameState):
		gs, err := decodeGameState(payload[len(TagGameState):])
		if err != nil {
			return nil, err
		}
		return gs, nil
	case strings.HasPrefix(payload, TagHello):
		var h messages.Hello
		if err := json.Unmarshal([]byte(payload[len(TagHello):]), &h); err != nil {
			return nil, fmt.Errorf("hello: %w: %v", ErrMalformed, err)
		}
		return h, nil
	case strings.HasPrefix(payload, TagRaceFinished):
		var rf messages.RaceFinished
		if err := json.Unmarshal([]byte(payload[len(TagRaceFinished):]), &rf); err != nil {
			return nil, fmt.Errorf("race finished: %w: %v", ErrMalformed, err)
		}
		return rf, nil
	default:
		return nil, fmt.Errorf("%w: %.24q", ErrUnknownTag, payload)
	}
}

func decodeGameState(body string) (messages.GameState, error) {
	var w gameStateWire
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return messages.GameState{}, fmt.Errorf("game state: %w: %v", ErrMalformed, err)
	}
	if w.Position == nil {
		return messages.GameState{}, fmt.Errorf("game state: %w: missing position", ErrMalformed)
	}
	if w.Timestamp == nil {
		return messages.GameState{}, fmt.Errorf("game state: %w: missing timestamp", ErrMalformed)
	}
	if w.Currency < 0 {
		return messages.GameState{}, fmt.Errorf("game state: %w: negative currency %d", ErrMalformed, w.Currency)
	}
	return messages.GameState{
		Position:   *w.Position,
		Angle:      w.Angle,
		WheelSpeed: w.WheelSpeed,
		Currency:   w.Currency,
		Timestamp:  *w.Timestamp,
	}, nil
}
