package terminal

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"card-memory/assets"
	"card-memory/game"
)

const (
	clearScreen = "\x1b[H\x1b[2J"
	headerRows  = 2

	minCellW = 4
	maxCellW = 16
	minCellH = 3
	maxCellH = 10
)

var (
	backColor   = color.New(color.FgWhite, color.BgBlue)
	redCard     = color.New(color.FgRed, color.BgWhite, color.Bold)
	blackCard   = color.New(color.FgBlack, color.BgWhite, color.Bold)
	cursorColor = color.New(color.FgYellow, color.Bold)
	titleColor  = color.New(color.FgCyan, color.Bold)
	statusColor = color.New(color.FgGreen)
)

// Renderer draws a game state as a full terminal frame. Each board cell takes
// CellW x CellH terminal cells, the last column and row being the gap to the next card.
type Renderer struct {
	Catalog *assets.Catalog
	CellW   int
	CellH   int
}

// FitCells picks a cell size that fits a width x height board into a cols x rows terminal.
func FitCells(cols, rows, width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		return minCellW, minCellH
	}
	cw := clamp(cols/width, minCellW, maxCellW)
	ch := clamp((rows-headerRows-1)/height, minCellH, maxCellH)
	return cw, ch
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BoardOrigin is the 0-based terminal cell of the board's top-left corner.
func (r *Renderer) BoardOrigin() (int, int) {
	return 0, headerRows
}

// Frame renders the whole screen for state with the keyboard cursor at cursor.
func (r *Renderer) Frame(state *game.GameStateMsg, cursor game.Pos, status string) string {
	var sb strings.Builder
	sb.WriteString(clearScreen)
	sb.WriteString(titleColor.Sprint("card-memory"))
	if state != nil {
		st := state.Stats
		fmt.Fprintf(&sb, "  round %d  %dx%d  pairs turned %d  wasted reveals %d  %s",
			st.Round, state.Width, state.Height, st.PairsTurned, st.WastedReveals, st.Elapsed)
	}
	sb.WriteString("\r\n")
	if status != "" {
		sb.WriteString(statusColor.Sprint(status))
	}
	sb.WriteString("\r\n")

	if state == nil {
		return sb.String()
	}
	for _, cv := range state.Cards {
		r.drawCard(&sb, cv)
	}
	if cursor.X >= 0 && cursor.Y >= 0 && cursor.X < state.Width && cursor.Y < state.Height {
		r.drawCursor(&sb, cursor)
	}
	ox, oy := r.BoardOrigin()
	moveTo(&sb, ox, oy+state.Height*r.CellH)
	sb.WriteString("arrows/wasd move  space select  click a card  n new game  q quit")
	return sb.String()
}

// moveTo positions the terminal cursor at 0-based (x, y).
func moveTo(sb *strings.Builder, x, y int) {
	fmt.Fprintf(sb, "\x1b[%d;%dH", y+1, x+1)
}

func (r *Renderer) drawCard(sb *strings.Builder, cv game.CardView) {
	w, h := r.CellW-1, r.CellH-1
	ox, oy := r.BoardOrigin()
	x0, y0 := ox+cv.X*r.CellW, oy+cv.Y*r.CellH

	lines := r.cardLines(cv, w, h)
	for i, line := range lines {
		moveTo(sb, x0, y0+i)
		sb.WriteString(line)
	}
}

// cardLines returns h lines, each w terminal cells wide.
func (r *Renderer) cardLines(cv game.CardView, w, h int) []string {
	lines := make([]string, h)
	switch cv.State {
	case game.Removed.String():
		for i := range lines {
			lines[i] = strings.Repeat(" ", w)
		}
	case game.Hidden.String():
		if art := r.art(assets.BackCode, w, h); art != nil {
			return art
		}
		for i := range lines {
			lines[i] = backColor.Sprint(strings.Repeat("#", w))
		}
	default:
		if art := r.art(cv.Code, w, h); art != nil {
			return art
		}
		c := blackCard
		if isRed(cv.Code) {
			c = redCard
		}
		for i := range lines {
			text := strings.Repeat(" ", w)
			if i == h/2 {
				text = center(cv.Code, w)
			}
			lines[i] = c.Sprint(text)
		}
	}
	return lines
}

func (r *Renderer) art(code string, w, h int) []string {
	if r.Catalog == nil || code == "" {
		return nil
	}
	return r.Catalog.ANSI(code, w, h)
}

func (r *Renderer) drawCursor(sb *strings.Builder, p game.Pos) {
	ox, oy := r.BoardOrigin()
	moveTo(sb, ox+p.X*r.CellW, oy+p.Y*r.CellH+r.CellH-1)
	sb.WriteString(cursorColor.Sprint(strings.Repeat("^", r.CellW-1)))
}

// isRed reports whether code is a diamond or heart.
func isRed(code string) bool {
	return strings.HasSuffix(code, "D") || strings.HasSuffix(code, "H")
}

func center(s string, w int) string {
	if len(s) >= w {
		return s[:w]
	}
	left := (w - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-len(s)-left)
}
