package assets

import (
	"fmt"
	"image"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

const (
	upperHalf = '▀'
	ansiReset = "\x1b[0m"
)

// ANSI renders code as w x h terminal cells of half-block art, one string per row.
// Results are cached per size. Unknown codes and empty sizes yield nil.
func (c *Catalog) ANSI(code string, w, h int) []string {
	img := c.images[code]
	if img == nil || w <= 0 || h <= 0 {
		return nil
	}
	key := ansiKey{code: code, w: w, h: h}

	c.mu.Lock()
	defer c.mu.Unlock()
	if lines, ok := c.ansi[key]; ok {
		return lines
	}
	lines := imageToANSI(img, w, h)
	c.ansi[key] = lines
	return lines
}

// imageToANSI scales img to 2w x 2h pixels; each cell shows the top pixel pair as
// foreground and the bottom pair as background.
func imageToANSI(img image.Image, w, h int) []string {
	resized := resize.Resize(uint(w*2), uint(h*2), img, resize.Lanczos3)

	lines := make([]string, 0, h)
	var sb strings.Builder
	for y := 0; y < h*2; y += 2 {
		sb.Reset()
		for x := 0; x < w*2; x += 2 {
			fg := average(colorAt(resized, x, y), colorAt(resized, x+1, y))
			bg := average(colorAt(resized, x, y+1), colorAt(resized, x+1, y+1))
			fr, fgr, fb := fg.RGB255()
			br, bgr, bb := bg.RGB255()
			fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c", fr, fgr, fb, br, bgr, bb, upperHalf)
		}
		sb.WriteString(ansiReset)
		lines = append(lines, sb.String())
	}
	return lines
}

// colorAt returns the pixel at (x, y), black outside the bounds.
func colorAt(img image.Image, x, y int) colorful.Color {
	p := image.Pt(x, y).Add(img.Bounds().Min)
	if !p.In(img.Bounds()) {
		return colorful.Color{}
	}
	col, _ := colorful.MakeColor(img.At(p.X, p.Y))
	return col
}

func average(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	n := float64(len(colors))
	return colorful.Color{R: r / n, G: g / n, B: b / n}.Clamped()
}
