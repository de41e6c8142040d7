package tetris

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/termtris/internal/core"
	"github.com/vovakirdan/termtris/internal/playfield"
)

const (
	panelW     = 12 // Width of the hold and next panels
	statsH     = 18 // Rows used by the hold box and the stats column
	maxHidden  = 2  // Spawn rows kept off screen on tall boards
	blockRunes = "██"
	ghostRunes = "░░"
)

// layout holds the screen positions of the board and side panels.
type layout struct {
	leftX, boardX, rightX int
	boardW, boardH        int
	hidden                int // Board rows above the visible area
}

// hiddenRows returns how many top rows are not drawn. Boards taller than 20
// rows hide up to two spawn rows, as the guideline playfield does.
func hiddenRows(height int) int {
	return core.Clamp(height-20, 0, maxHidden)
}

func (g *Game) layout() layout {
	w, h := g.cfg.Board.Width, g.cfg.Board.Height
	hidden := hiddenRows(h)
	l := layout{
		boardW: w*2 + 2,
		boardH: h - hidden + 2,
		hidden: hidden,
	}
	total := panelW + 1 + l.boardW + 1 + panelW
	l.leftX = max(0, (g.screenW-total)/2)
	l.boardX = l.leftX + panelW + 1
	l.rightX = l.boardX + l.boardW + 1
	return l
}

// MinSize returns the smallest screen the game can be drawn on.
func (g *Game) MinSize() (int, int) {
	l := g.layout()
	nextH := g.cfg.Rules.Previews*3 + 1
	return panelW + 1 + l.boardW + 1 + panelW, max(l.boardH, nextH, statsH)
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	minW, minH := g.MinSize()
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Resize updates the screen dimensions without restarting the game.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	// Check screen size
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.board == nil {
		if g.err != nil {
			g.drawOverlay(dst, g.screenW/2, g.screenH/2, "CANNOT START", g.err.Error())
		}
		return
	}

	l := g.layout()
	g.renderBoard(dst, l)
	g.renderHold(dst, l)
	g.renderStats(dst, l)
	g.renderNext(dst, l)
	g.renderOverlays(dst, l)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	minW, minH := g.MinSize()
	y := g.screenH / 2
	dst.DrawTextCentered(y-1, "Window too small")
	dst.DrawTextCentered(y, fmt.Sprintf("Need %dx%d, have %dx%d", minW, minH, g.screenW, g.screenH))
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderBoard draws the well, the locked cells, the ghost and the active piece.
func (g *Game) renderBoard(dst *core.Screen, l layout) {
	dst.DrawBox(core.NewRect(l.boardX, 0, l.boardW, l.boardH), g.cfg.Colors.Border)

	b := g.board
	for y := l.hidden; y < b.Height(); y++ {
		sy := 1 + y - l.hidden
		for x := 0; x < b.Width(); x++ {
			sx := l.boardX + 1 + x*2
			if c := b.Cell(x, y); c.Filled {
				dst.DrawTextWithColor(sx, sy, blockRunes, g.pieceColors[c.Kind])
			} else {
				dst.SetWithColor(sx+1, sy, '.', core.ColorDarkGray)
			}
		}
	}

	if g.gameOver && !g.won {
		return
	}

	kind := b.Active().Kind
	if g.cfg.Rules.Ghost {
		for _, c := range b.GhostCells() {
			g.drawBoardCell(dst, l, c, ghostRunes, g.ghostColors[kind])
		}
	}
	for _, c := range b.ActiveCells() {
		g.drawBoardCell(dst, l, c, blockRunes, g.pieceColors[kind])
	}
}

func (g *Game) drawBoardCell(dst *core.Screen, l layout, c core.Point, runes string, color core.Color) {
	if c.Y < l.hidden {
		return
	}
	dst.DrawTextWithColor(l.boardX+1+c.X*2, 1+c.Y-l.hidden, runes, color)
}

// drawPiece draws kind in its spawn orientation, centered in a panel row.
func (g *Game) drawPiece(dst *core.Screen, kind playfield.Kind, x, y int, color core.Color) {
	offsets := playfield.BaseOffsets(kind)
	minX, maxX, maxY := offsets[0].X, offsets[0].X, offsets[0].Y
	for _, off := range offsets {
		minX = min(minX, off.X)
		maxX = max(maxX, off.X)
		maxY = max(maxY, off.Y)
	}

	pad := (panelW - 2 - (maxX-minX+1)*2) / 2
	for _, off := range offsets {
		px := x + 1 + pad + (off.X-minX)*2
		py := y + maxY - off.Y
		dst.DrawTextWithColor(px, py, blockRunes, color)
	}
}

// renderHold draws the hold box.
func (g *Game) renderHold(dst *core.Screen, l layout) {
	dst.DrawBox(core.NewRect(l.leftX, 0, panelW, 5), g.cfg.Colors.Border)
	dst.DrawText(l.leftX+2, 0, " HOLD ")

	if !g.cfg.Rules.Hold {
		dst.DrawTextWithColor(l.leftX+2, 2, "disabled", core.ColorDarkGray)
		return
	}
	kind, ok := g.board.Held()
	if !ok {
		return
	}
	color := g.pieceColors[kind]
	if !g.board.CanHold() {
		color = core.ColorDarkGray
	}
	g.drawPiece(dst, kind, l.leftX, 2, color)
}

// renderStats draws score, level, lines, time and the last clear.
func (g *Game) renderStats(dst *core.Screen, l layout) {
	b := g.board
	lines := fmt.Sprintf("%d", b.Lines())
	if g.mode == ModeSprint {
		lines = fmt.Sprintf("%d/%d", b.Lines(), g.cfg.Sprint.TargetLines)
	}

	rows := []struct{ label, value string }{
		{"SCORE", fmt.Sprintf("%d", b.Score())},
		{"LEVEL", fmt.Sprintf("%d", b.Level())},
		{"LINES", lines},
		{"TIME", formatElapsed(g.elapsed)},
	}

	y := 6
	for _, r := range rows {
		dst.DrawTextWithColor(l.leftX+1, y, r.label, core.ColorGray)
		dst.DrawText(l.leftX+1, y+1, r.value)
		y += 2
	}

	if b.Combo() > 1 {
		dst.DrawTextWithColor(l.leftX+1, y, fmt.Sprintf("COMBO %d", b.Combo()-1), core.ColorBrightYellow)
	}
	// A difficult clear now would score back-to-back.
	if b.BackToBack() != playfield.ClearNone {
		dst.DrawTextWithColor(l.leftX+1, y+1, "B2B READY", core.ColorGray)
	}
	y += 2
	for _, word := range strings.Fields(g.lastClear) {
		dst.DrawTextWithColor(l.leftX+1, y, word, core.ColorBrightWhite)
		y++
	}
}

// renderNext draws the preview queue.
func (g *Game) renderNext(dst *core.Screen, l layout) {
	n := g.cfg.Rules.Previews
	if n == 0 {
		return
	}
	dst.DrawBox(core.NewRect(l.rightX, 0, panelW, n*3+1), g.cfg.Colors.Border)
	dst.DrawText(l.rightX+2, 0, " NEXT ")

	for i, kind := range g.board.Preview(n) {
		g.drawPiece(dst, kind, l.rightX, 1+i*3, g.pieceColors[kind])
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, l layout) {
	centerX := l.boardX + l.boardW/2
	centerY := l.boardH / 2

	switch {
	case g.paused:
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "P to resume")
	case g.won:
		g.drawOverlay(dst, centerX, centerY, "SPRINT CLEAR",
			formatElapsed(g.elapsed), "R to restart")
	case g.gameOver && g.err != nil:
		g.drawOverlay(dst, centerX, centerY, "GAME OVER", g.err.Error(), "R to restart")
	case g.gameOver:
		g.drawOverlay(dst, centerX, centerY, "GAME OVER",
			fmt.Sprintf("Score %d", g.board.Score()), "R to restart")
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	box := core.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorBrightWhite)

	for i, line := range lines {
		x := centerX - len([]rune(line))/2
		dst.DrawText(x, box.Y+1+i, line)
	}
}

// formatElapsed renders a duration as m:ss.cc.
func formatElapsed(d time.Duration) string {
	cs := int(d / (10 * time.Millisecond))
	return fmt.Sprintf("%d:%02d.%02d", cs/6000, cs/100%60, cs%100)
}
