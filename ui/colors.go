package ui

import (
	"github.com/gdamore/tcell/v2"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

var (
	selectionColor = tcell.ColorYellow
	labelStyle     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

// CellColor is the background of a cell in the given visible state.
func CellColor(state mb.CellState) tcell.Color {
	switch state {
	case mb.CellStateShipPresent:
		return tcell.ColorGray
	case mb.CellStateHit:
		return tcell.ColorRed
	case mb.CellStateMiss:
		return tcell.ColorWhite
	default:
		return tcell.ColorBlue
	}
}

func cellRune(state mb.CellState) rune {
	switch state {
	case mb.CellStateHit:
		return 'X'
	case mb.CellStateMiss:
		return '•'
	default:
		return ' '
	}
}
