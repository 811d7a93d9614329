package tanks

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks/engine"
)

const (
	cellWidth  = 3  // characters per sector
	hudHeight  = 1  // title row above the board
	panelWidth = 30 // tank status panel right of the board
	panelGap   = 2
)

var facingGlyph = map[engine.Direction]rune{
	engine.North: '▲',
	engine.East:  '▶',
	engine.South: '▼',
	engine.West:  '◀',
}

// Render draws the board, the tank panel and the event feed.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.engine == nil {
		g.renderOverlay(dst, "Setup failed", errorLine(g.setupErr))
		return
	}

	snap := g.engine.Snapshot()
	boardW := snap.Width*cellWidth + 2
	boardH := snap.Height + 2
	if dst.Width() < boardW || dst.Height() < boardH+hudHeight {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	g.renderHUD(dst, snap)
	g.renderBoard(dst, snap, 0, hudHeight)

	panelX := boardW + panelGap
	bottom := hudHeight + boardH
	if dst.Width() >= panelX+panelWidth {
		g.renderPanel(dst, snap, panelX, hudHeight)
	}
	g.renderFeed(dst, 0, bottom)

	switch {
	case snap.Phase == engine.PhaseGameOver:
		winner := "Nobody"
		if w, ok := snap.TankByID(snap.Winner); ok {
			winner = w.Name
		}
		g.renderOverlay(dst, winner+" wins!", "Press R to play again")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func (g *Game) renderHUD(dst *core.Screen, snap engine.Snapshot) {
	active, _ := snap.TankByID(snap.Active)
	title := fmt.Sprintf("%s · Turn %d · %s · %s", g.Title(), snap.Turn, active.Name, snap.Phase)
	dst.DrawTextColor(0, 0, title, core.ColorBrightWhite)
	if g.message != "" {
		x := dst.Width() - utf8.RuneCountInString(g.message)
		if x > utf8.RuneCountInString(title)+1 {
			dst.DrawTextColor(x, 0, g.message, core.ColorBrightRed)
		}
	}
}

func (g *Game) renderBoard(dst *core.Screen, snap engine.Snapshot, ox, oy int) {
	dst.DrawBox(core.NewRect(ox, oy, snap.Width*cellWidth+2, snap.Height+2), core.ColorGray)

	legal := make(map[engine.Sector]bool, len(snap.LegalMoves))
	for _, s := range snap.LegalMoves {
		legal[s] = true
	}
	colorOf := make(map[string]core.Color, len(snap.Tanks))
	for i, t := range snap.Tanks {
		colorOf[t.ID] = core.PlayerColor(i)
	}

	for i, content := range snap.Sectors {
		s := engine.Sector(i)
		x, y := g.engine.Grid().XY(s)
		cx := ox + 1 + x*cellWidth
		cy := oy + 1 + y

		glyph, color := '·', core.ColorGray
		if legal[s] {
			glyph, color = '○', core.ColorGreen
		}
		for _, ev := range content {
			switch ev.Kind {
			case engine.KindObstacle:
				glyph, color = '█', core.ColorWhite
			case engine.KindWeapon:
				glyph, color = '†', core.ColorYellow
			case engine.KindShield:
				glyph, color = '◊', core.ColorBlue
			}
		}
		// Tanks are painted over anything sharing their sector.
		for _, ev := range content {
			if ev.Kind != engine.KindTank {
				continue
			}
			st, _ := snap.TankByID(ev.ID)
			glyph, color = facingGlyph[st.Facing], colorOf[ev.ID]
			if st.Destroyed {
				glyph, color = '✖', core.ColorRed
			}
		}

		if glyph == '█' {
			dst.DrawTextColor(cx, cy, "███", color)
		} else {
			dst.SetColor(cx+1, cy, glyph, color)
		}
	}

	if snap.Phase == engine.PhaseSelecting {
		cc := core.ColorBrightYellow
		dst.SetColor(ox+1+g.cursor.X*cellWidth, oy+1+g.cursor.Y, '[', cc)
		dst.SetColor(ox+1+g.cursor.X*cellWidth+2, oy+1+g.cursor.Y, ']', cc)
	}
}

func (g *Game) renderPanel(dst *core.Screen, snap engine.Snapshot, x, y int) {
	row := y
	for i, t := range snap.Tanks {
		marker := "  "
		if t.Active {
			marker = "» "
		}
		dst.DrawTextColor(x, row, marker+fmt.Sprintf("%c %s", facingGlyph[t.Facing], t.Name), core.PlayerColor(i))
		row++
		dst.DrawText(x+2, row, fmt.Sprintf("HP %-5g SH %g", t.Health, t.Shield))
		row++
		dst.DrawText(x+2, row, fmt.Sprintf("%s (%g)", t.Weapon, t.Damage))
		row++
		status := ""
		switch {
		case t.Destroyed:
			status = "destroyed"
		case t.InBattle && t.Defending:
			status = "in battle, guarding"
		case t.InBattle:
			status = "in battle"
		}
		if status != "" {
			dst.DrawTextColor(x+2, row, status, core.ColorOrange)
		}
		row += 2
	}

	if snap.Phase == engine.PhaseSelecting {
		dst.DrawTextColor(x, row, g.describeCursor(snap), core.ColorGray)
	}
}

// describeCursor names what lies under the cursor.
func (g *Game) describeCursor(snap engine.Snapshot) string {
	s, err := g.engine.Grid().SectorAt(g.cursor.X, g.cursor.Y)
	if err != nil {
		return ""
	}
	what := "empty"
	for _, ev := range snap.Sectors[s] {
		switch ev.Kind {
		case engine.KindObstacle:
			what = "obstacle"
		case engine.KindWeapon:
			what = fmt.Sprintf("%s (%g)", ev.Name, ev.Value)
		case engine.KindShield:
			what = fmt.Sprintf("shield +%g", ev.Value)
		case engine.KindTank:
			what = ev.Name
		}
	}
	return fmt.Sprintf("(%d,%d) %s", g.cursor.X+1, g.cursor.Y+1, what)
}

func (g *Game) renderFeed(dst *core.Screen, x, y int) {
	rows := dst.Height() - y
	if rows <= 0 {
		return
	}
	start := max(0, len(g.feed)-rows)
	for i, line := range g.feed[start:] {
		color := core.ColorGray
		if i == len(g.feed[start:])-1 {
			color = core.ColorDefault
		}
		dst.DrawTextColor(x, y+i, line, color)
	}
}

// renderOverlay draws a centered two-line message box.
func (g *Game) renderOverlay(dst *core.Screen, title, subtitle string) {
	w := max(utf8.RuneCountInString(title), utf8.RuneCountInString(subtitle)) + 4
	h := 4
	x := (dst.Width() - w) / 2
	y := (dst.Height() - h) / 2
	for row := y; row < y+h; row++ {
		dst.DrawHLine(x, row, w, ' ', core.ColorDefault)
	}
	dst.DrawBox(core.NewRect(x, y, w, h), core.ColorBrightWhite)
	dst.DrawTextCentered(y+1, title, core.ColorBrightYellow)
	dst.DrawTextCentered(y+2, subtitle, core.ColorDefault)
}

func errorLine(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
