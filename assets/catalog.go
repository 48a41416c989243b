// Package assets loads the card images and renders them for the web and the terminal.
package assets

import (
	"bytes"
	"image"
	_ "image/png"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"card-memory/card"
)

// BackCode names the card back image ("back.png").
const BackCode = "back"

type ansiKey struct {
	code string
	w, h int
}

// Catalog holds the decoded card images keyed by code. Missing images are simply absent.
type Catalog struct {
	images map[string]image.Image
	raw    map[string][]byte

	mu   sync.Mutex
	ansi map[ansiKey][]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		images: make(map[string]image.Image),
		raw:    make(map[string][]byte),
		ansi:   make(map[ansiKey][]string),
	}
}

// LoadDir loads the images from dir. An empty dir yields an empty catalog.
func LoadDir(dir string) *Catalog {
	if dir == "" {
		return NewCatalog()
	}
	return Load(os.DirFS(dir))
}

// Load reads <code>.png for every card plus back.png from fsys.
// Files that are missing or cannot be decoded are logged and skipped.
func Load(fsys fs.FS) *Catalog {
	c := NewCatalog()
	codes := make([]string, 0, card.DeckSize+1)
	for _, cd := range card.All() {
		codes = append(codes, cd.Code())
	}
	codes = append(codes, BackCode)

	missing := 0
	for _, code := range codes {
		name := code + ".png"
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			missing++
			slog.Debug("card image not found", "tag", "assets", "file", name)
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			missing++
			slog.Warn("card image could not be decoded", "tag", "assets", "file", name, "err", err)
			continue
		}
		c.images[code] = img
		c.raw[code] = data
	}
	if missing > 0 {
		slog.Info("some card images are unavailable", "tag", "assets", "loaded", len(c.images), "missing", missing)
	}
	return c
}

// Face returns the image for a card code, or nil.
func (c *Catalog) Face(code string) image.Image {
	return c.images[code]
}

// Back returns the card back image, or nil.
func (c *Catalog) Back() image.Image {
	return c.images[BackCode]
}

// Raw returns the encoded file for code (a card code or BackCode).
func (c *Catalog) Raw(code string) ([]byte, bool) {
	data, ok := c.raw[code]
	return data, ok
}

// Count returns the number of images loaded.
func (c *Catalog) Count() int {
	return len(c.images)
}

// Size returns the pixel size of the back image, or 0, 0 without one.
func (c *Catalog) Size() (int, int) {
	back := c.Back()
	if back == nil {
		return 0, 0
	}
	b := back.Bounds()
	return b.Dx(), b.Dy()
}

// AspectRatio returns the back image's height/width, or 0 without one.
func (c *Catalog) AspectRatio() float64 {
	w, h := c.Size()
	if w == 0 {
		return 0
	}
	return float64(h) / float64(w)
}
