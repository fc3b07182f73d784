package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/vancomm/minesweeper-remote/internal/mines"
)

var keyActions = map[tcell.Key]mines.Action{
	tcell.KeyUp:    mines.Up,
	tcell.KeyDown:  mines.Down,
	tcell.KeyLeft:  mines.Left,
	tcell.KeyRight: mines.Right,
}

var runeActions = map[rune]mines.Action{
	'w': mines.Up,
	'a': mines.Left,
	's': mines.Down,
	'd': mines.Right,
	'e': mines.Dig,
	'f': mines.Flag,
	'r': mines.Restart,
}

// KeyAction maps a key press to an action. quit is set for the keys that
// leave the program.
func KeyAction(ev *tcell.EventKey) (a mines.Action, quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return mines.NoAction, true
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			return mines.NoAction, true
		}
		return runeActions[ev.Rune()], false
	}
	return keyActions[ev.Key()], false
}
