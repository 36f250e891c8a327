package protocol

import (
	"errors"
	"strings"
	"testing"

	"github.com/automoto/pedalrace/shared/messages"
)

func TestEncodeGameStateUsesTagAndFieldNames(t *testing.T) {
	payload, err := EncodeGameState(messages.GameState{
		Position:   messages.Position{X: 12.5, Y: -3},
		Angle:      0.25,
		WheelSpeed: 4,
		Currency:   30,
		Timestamp:  1234.5,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(payload, TagGameState) {
		t.Fatalf("payload %q missing tag %q", payload, TagGameState)
	}
	for _, key := range []string{`"position"`, `"x":12.5`, `"wheelSpeed":4`, `"currency":30`, `"timestamp":1234.5`} {
		if !strings.Contains(payload, key) {
			t.Errorf("payload %q missing %s", payload, key)
		}
	}
}

func TestDecodeGameState(t *testing.T) {
	msg, err := Decode(`GAME_STATE:{"position":{"x":1,"y":2},"angle":0.5,"wheelSpeed":9,"currency":7,"timestamp":33}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	gs, ok := msg.(messages.GameState)
	if !ok {
		t.Fatalf("decoded %T, want messages.GameState", msg)
	}
	want := messages.GameState{Position: messages.Position{X: 1, Y: 2}, Angle: 0.5, WheelSpeed: 9, Currency: 7, Timestamp: 33}
	if gs != want {
		t.Fatalf("decoded %+v, want %+v", gs, want)
	}
}

func TestDecodeRejectsMalformedPayloads(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    error
	}{
		{"not json", "GAME_STATE:{oops", ErrMalformed},
		{"missing position", `GAME_STATE:{"angle":1,"timestamp":5}`, ErrMalformed},
		{"missing timestamp", `GAME_STATE:{"position":{"x":0,"y":0}}`, ErrMalformed},
		{"negative currency", `GAME_STATE:{"position":{"x":0,"y":0},"currency":-1,"timestamp":5}`, ErrMalformed},
		{"fractional currency", `GAME_STATE:{"position":{"x":0,"y":0},"currency":1.5,"timestamp":5}`, ErrMalformed},
		{"bad hello", "HELLO:[]", ErrMalformed},
		{"unknown tag", "hello from initiator", ErrUnknownTag},
		{"empty", "", ErrUnknownTag},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := Decode(tc.payload)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Decode(%q) err = %v, want %v", tc.payload, err, tc.want)
			}
			if msg != nil {
				t.Fatalf("Decode(%q) returned %v alongside error", tc.payload, msg)
			}
		})
	}
}

func TestEncodeDecodeSessionMessages(t *testing.T) {
	payload, err := Encode(messages.Hello{Name: "ada", Initiator: true})
	if err != nil {
		t.Fatalf("encode hello: %v", err)
	}
	msg, err := Decode(payload)
	if err != nil {
		t.Fatalf("decode hello: %v", err)
	}
	if h := msg.(messages.Hello); h.Name != "ada" || !h.Initiator {
		t.Fatalf("hello = %+v", h)
	}

	payload, err = Encode(messages.RaceFinished{Laps: 3, Currency: 40, Timestamp: 9000})
	if err != nil {
		t.Fatalf("encode finish: %v", err)
	}
	if !strings.HasPrefix(payload, TagRaceFinished) {
		t.Fatalf("payload %q missing tag", payload)
	}
	msg, err = Decode(payload)
	if err != nil {
		t.Fatalf("decode finish: %v", err)
	}
	if rf := msg.(messages.RaceFinished); rf.Laps != 3 || rf.Currency != 40 {
		t.Fatalf("race finished = %+v", rf)
	}
}

func TestEncodeUnsupportedType(t *testing.T) {
	if _, err := Encode(struct{}{}); !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("err = %v, want ErrUnknownTag", err)
	}
}
