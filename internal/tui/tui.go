// Package tui draws a session on a terminal and turns key presses into
// actions.
package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/vancomm/minesweeper-remote/internal/input"
	"github.com/vancomm/minesweeper-remote/internal/mines"
)

const (
	cellWidth = 3
	boardTop  = 2
	help      = "move: arrows/wasd  e: dig  f: flag  r: restart  q: quit"
)

var faces = map[mines.Face]string{
	mines.FacePlaying:      ":)",
	mines.FaceLost:         "X(",
	mines.FaceWonClean:     "B)",
	mines.FaceWonAfterLoss: ":o",
}

var countColors = [...]tcell.Color{
	tcell.ColorDefault,
	tcell.ColorBlue,
	tcell.ColorGreen,
	tcell.ColorRed,
	tcell.ColorNavy,
	tcell.ColorMaroon,
	tcell.ColorTeal,
	tcell.ColorBlack,
	tcell.ColorGray,
}

var (
	styleBase    = tcell.StyleDefault
	styleHUD     = styleBase.Foreground(tcell.ColorRed).Background(tcell.ColorBlack)
	styleCovered = styleBase.Foreground(tcell.ColorWhite).Background(tcell.ColorGray)
	styleOpen    = styleBase.Background(tcell.ColorSilver)
	styleFlag    = styleCovered.Foreground(tcell.ColorRed).Bold(true)
	styleHit     = styleBase.Foreground(tcell.ColorBlack).Background(tcell.ColorRed).Bold(true)
)

type Screen struct {
	screen tcell.Screen
}

func New(screen tcell.Screen) *Screen {
	return &Screen{screen: screen}
}

// Open initializes the terminal.
func Open() (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("unable to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("unable to init screen: %w", err)
	}
	screen.HideCursor()
	return New(screen), nil
}

func (s *Screen) Close() {
	s.screen.Fini()
}

func (s *Screen) Render(snap mines.Snapshot) {
	s.screen.Clear()

	width := snap.Width * cellWidth
	s.drawText(0, 0, styleHUD, fmt.Sprintf("%03d", snap.FlagsRemaining))
	s.drawText(width/2-1, 0, styleBase, faces[snap.Face])
	s.drawText(width-3, 0, styleHUD, fmt.Sprintf("%03d", snap.Elapsed))

	for y := range snap.Height {
		for x := range snap.Width {
			c := mines.Cell{X: x, Y: y}
			r, style := cellGlyph(snap.At(c))
			if c == snap.Cursor {
				style = style.Background(tcell.ColorYellow)
			}
			sx, sy := x*cellWidth, boardTop+y
			s.screen.SetContent(sx, sy, ' ', nil, style)
			s.screen.SetContent(sx+1, sy, r, nil, style)
			s.screen.SetContent(sx+2, sy, ' ', nil, style)
		}
	}

	s.drawText(0, boardTop+snap.Height+1, styleBase, help)
	s.screen.Show()
}

func cellGlyph(v mines.CellView) (rune, tcell.Style) {
	switch v.State {
	case mines.Flagged:
		return 'F', styleFlag
	case mines.HitMine:
		return '*', styleHit
	case mines.Uncovered:
		if v.Count == 0 {
			return ' ', styleOpen
		}
		return rune('0' + v.Count), styleOpen.Foreground(countColors[v.Count]).Bold(true)
	default:
		return ' ', styleCovered
	}
}

func (s *Screen) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Pump reads terminal events until ctx is done or the player asks to
// quit, sending the mapped actions to out.
func (s *Screen) Pump(ctx context.Context, out chan<- mines.Action, quit func()) error {
	stop := context.AfterFunc(ctx, func() {
		s.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		switch ev := s.screen.PollEvent().(type) {
		case nil, *tcell.EventInterrupt:
			return nil
		case *tcell.EventResize:
			s.screen.Sync()
		case *tcell.EventKey:
			a, q := input.KeyAction(ev)
			if q {
				quit()
				return nil
			}
			if a == mines.NoAction {
				continue
			}
			select {
			case out <- a:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
