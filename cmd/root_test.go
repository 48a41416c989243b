package cmd

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"
	"testing/fstest"

	"card-memory/assets"
	"card-memory/card"
	"card-memory/config"
	"card-memory/game"
)

func backCatalog(t *testing.T, w, h int) *assets.Catalog {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return assets.Load(fstest.MapFS{assets.BackCode + ".png": {Data: buf.Bytes()}})
}

// lastBoard grows from the start size until the next board would not fit a deck.
func lastBoard(aspect float64) (int, int) {
	w, h := 3, 2
	for {
		nw, nh := game.Grow(w, h, aspect)
		if nw*nh > card.Capacity {
			return w, h
		}
		w, h = nw, nh
	}
}

func TestBoardAspect(t *testing.T) {
	catalog := backCatalog(t, 150, 225)

	cfg := config.Defaults()
	if got := boardAspect(cfg, catalog); math.Abs(got-16.0/9.0) > 1e-9 {
		t.Errorf("expected unscaled 16/9 without ScaleAspectByCard, got %f", got)
	}

	cfg.ScaleAspectByCard = true
	want := 16.0 / 9.0 * 1.5
	if got := boardAspect(cfg, catalog); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected back image scaling to give %f, got %f", want, got)
	}
	if w, h := lastBoard(boardAspect(cfg, catalog)); w != 16 || h != 6 {
		t.Errorf("expected growth to end at 16x6, got %dx%d", w, h)
	}
}

func TestBoardAspectNonPositivePreferred(t *testing.T) {
	catalog := backCatalog(t, 150, 225)
	cfg := config.Defaults()
	cfg.ScaleAspectByCard = true

	for _, preferred := range []float64{0, -1} {
		cfg.PreferredAspect = preferred
		got := boardAspect(cfg, catalog)
		if math.Abs(got-16.0/9.0*1.5) > 1e-9 {
			t.Errorf("PreferredAspect %v: expected fallback aspect, got %f", preferred, got)
		}
		if w, h := lastBoard(got); w <= h {
			t.Errorf("PreferredAspect %v: expected a wide last board, got %dx%d", preferred, w, h)
		}
	}
}

func TestBoardAspectWithoutBackImage(t *testing.T) {
	cfg := config.Defaults()
	cfg.ScaleAspectByCard = true
	if got, want := boardAspect(cfg, assets.NewCatalog()), cfg.Aspect(); got != want {
		t.Errorf("expected config aspect %f, got %f", want, got)
	}
	if got, want := boardAspect(cfg, nil), cfg.Aspect(); got != want {
		t.Errorf("expected config aspect %f for nil catalog, got %f", want, got)
	}
}
