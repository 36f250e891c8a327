package fonts

import "testing"

func TestLoadDefaults(t *testing.T) {
	if err := LoadDefaults(); err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}
	for _, name := range []FontName{HUD, HUDBold, Title, Small} {
		if name.Get() == nil {
			t.Errorf("font %s missing", name)
		}
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	if err := LoadFont("junk", []byte("not a font")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestGetUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown font")
		}
	}()
	FontName("missing").Get()
}
