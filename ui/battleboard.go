// Package ui draws a battleship game in the terminal with tview.
package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

const (
	// 2 characters per cell for square appearance
	cellWidth  = 2
	labelWidth = 3
	boardGap   = 6
	headerRows = 2
)

// NewGameFunc builds the game of a rematch.
type NewGameFunc func() (*mb.Game, error)

// BattleBoardUI shows the human's fleet on the left and the enemy waters on
// the right. Shots are aimed at the enemy waters with keys or the mouse.
type BattleBoardUI struct {
	Box     *tview.Box
	hint    *tview.TextView
	newGame NewGameFunc

	game  *mb.Game
	human *mb.Player

	selX int
	selY int

	lastPlayer mb.AttackResult
	// nil unless the computer answered the last shot
	lastComputer *mb.AttackResult
	lastErr      error
	fired        bool
}

func NewBattleBoard(game *mb.Game, hint *tview.TextView, newGame NewGameFunc) *BattleBoardUI {
	b := &BattleBoardUI{
		Box:     tview.NewBox(),
		hint:    hint,
		newGame: newGame,
	}
	b.SetGame(game)

	b.Box.SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
		innerX, innerY, innerW, innerH := b.Box.GetInnerRect()
		b.draw(screen, innerX, innerY)
		return innerX, innerY, innerW, innerH
	})
	b.Box.SetInputCapture(b.handleKey)
	b.Box.SetMouseCapture(b.handleMouse)
	return b
}

// SetGame swaps the running game and resets selection and feedback.
func (b *BattleBoardUI) SetGame(game *mb.Game) {
	b.game = game
	b.human = game.FetchPlayer(false)
	b.selX = b.human.Board().GridSize() / 2
	b.selY = b.human.Board().GridSize() / 2
	b.lastPlayer = mb.AttackResult{}
	b.lastComputer = nil
	b.lastErr = nil
	b.fired = false
	b.refreshHint()
}

func (b *BattleBoardUI) Game() *mb.Game {
	return b.game
}

func (b *BattleBoardUI) SelectedTile() mb.Coordinates {
	return mb.NewCoordinates(b.selX, b.selY)
}

func (b *BattleBoardUI) MoveSelection(h, v int) {
	size := b.human.Board().GridSize()
	if b.selX+h < 0 || b.selX+h >= size {
		return
	}
	if b.selY+v < 0 || b.selY+v >= size {
		return
	}
	b.selX += h
	b.selY += v
}

// Fire shoots at c in the enemy waters. A completed shot that does not end
// the game is answered by the computer right away.
func (b *BattleBoardUI) Fire(c mb.Coordinates) {
	result, err := b.game.AttemptAttack(b.human, c)
	b.lastErr = err
	if err != nil {
		log.Debug("attack rejected", "x", c.X, "y", c.Y, "err", err)
		b.refreshHint()
		return
	}

	b.fired = true
	b.lastPlayer = result
	b.lastComputer = nil

	if result.IsCompleted() && !b.game.IsGameOver() {
		reply, err := b.game.PlayAutomatedTurn()
		if err != nil {
			log.Error("automated turn failed", "game", b.game.Uuid(), "err", err)
			b.lastErr = err
		} else {
			b.lastComputer = &reply
		}
	}
	b.refreshHint()
}

// Rematch starts a new game if the current one is over.
func (b *BattleBoardUI) Rematch() {
	if !b.game.IsGameOver() || b.newGame == nil {
		return
	}

	game, err := b.newGame()
	if err != nil {
		b.lastErr = err
		b.refreshHint()
		return
	}
	b.SetGame(game)
}

func (b *BattleBoardUI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		b.MoveSelection(0, -1)
	case tcell.KeyDown:
		b.MoveSelection(0, 1)
	case tcell.KeyLeft:
		b.MoveSelection(-1, 0)
	case tcell.KeyRight:
		b.MoveSelection(1, 0)
	case tcell.KeyEnter:
		b.Fire(b.SelectedTile())
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			b.MoveSelection(-1, 0)
		case 'j':
			b.MoveSelection(0, 1)
		case 'k':
			b.MoveSelection(0, -1)
		case 'l':
			b.MoveSelection(1, 0)
		case ' ':
			b.Fire(b.SelectedTile())
		case 'r':
			b.Rematch()
		default:
			return event
		}
	default:
		return event
	}
	return nil
}

func (b *BattleBoardUI) handleMouse(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
	if action != tview.MouseLeftClick {
		return action, event
	}

	boxX, boxY, _, _ := b.Box.GetInnerRect()
	mouseX, mouseY := event.Position()
	c, ok := b.enemyCellAt(mouseX-boxX, mouseY-boxY)
	if !ok {
		return action, event
	}

	b.selX, b.selY = c.X, c.Y
	b.Fire(c)
	return action, nil
}

// enemyCellAt maps a position relative to the box onto the enemy waters.
func (b *BattleBoardUI) enemyCellAt(relX, relY int) (mb.Coordinates, bool) {
	size := b.human.Board().GridSize()
	left := enemyBoardLeft(size)

	if relX < left || relY < headerRows {
		return mb.Coordinates{}, false
	}

	c := mb.NewCoordinates((relX-left)/cellWidth, relY-headerRows)
	if c.X >= size || c.Y >= size {
		return mb.Coordinates{}, false
	}
	return c, true
}

func enemyBoardLeft(size int) int {
	return labelWidth + size*cellWidth + boardGap
}

func (b *BattleBoardUI) draw(screen tcell.Screen, x, y int) {
	size := b.human.Board().GridSize()
	enemy := b.game.Opponent(b.human)

	ownLeft := x + labelWidth
	enemyLeft := x + enemyBoardLeft(size)

	tview.Print(screen, "[::b]Your fleet", ownLeft, y, size*cellWidth+boardGap, tview.AlignLeft, tcell.ColorDefault)
	tview.Print(screen, "[::b]Enemy waters", enemyLeft, y, size*cellWidth+boardGap, tview.AlignLeft, tcell.ColorDefault)

	drawLabels(screen, ownLeft, y+1, size)
	drawLabels(screen, enemyLeft, y+1, size)

	b.drawGrid(screen, b.game.VisibleGrid(b.human, b.human.Board()), ownLeft, y+headerRows, false)
	b.drawGrid(screen, b.game.VisibleGrid(b.human, enemy.Board()), enemyLeft, y+headerRows, !b.game.IsGameOver())
}

func (b *BattleBoardUI) drawGrid(screen tcell.Screen, grid mb.Grid, left, top int, withSelection bool) {
	for gy, row := range grid {
		for gx, state := range row {
			bg := CellColor(state)
			if withSelection && gx == b.selX && gy == b.selY {
				bg = selectionColor
			}
			style := tcell.StyleDefault.Background(bg).Foreground(tcell.ColorBlack)
			screen.SetContent(left+gx*cellWidth, top+gy, cellRune(state), nil, style)
			screen.SetContent(left+gx*cellWidth+1, top+gy, ' ', nil, style)
		}
	}
}

// Columns are letters and rows are numbers starting at 1.
func drawLabels(screen tcell.Screen, left, top, size int) {
	for ix := 0; ix < size; ix++ {
		screen.SetContent(left+ix*cellWidth, top, rune('A'+ix), nil, labelStyle)
	}

	for iy := 0; iy < size; iy++ {
		num := fmt.Sprintf("%2d", iy+1)
		for i, r := range num {
			screen.SetContent(left-labelWidth+i, top+1+iy, r, nil, labelStyle)
		}
	}
}

func (b *BattleBoardUI) refreshHint() {
	if b.hint == nil {
		return
	}
	b.hint.SetText(b.HintText())
}

// HintText is the content of the status panel.
func (b *BattleBoardUI) HintText() string {
	var statusLine, feedbackLine, controlsLine string

	if winner := b.game.CheckWinner(); winner != nil {
		statusLine = fmt.Sprintf("[::b]Game over. %s wins![::-]\n\n", winner.Name())
		controlsLine = "\n  r · rematch   q · quit"
	} else {
		statusLine = fmt.Sprintf("  %s vs %s\n\n", b.human.Name(), b.game.Opponent(b.human).Name())
		controlsLine = "\n  hjkl/↑↓←→ move   ⏎/space fire   click fire   q quit"
	}

	switch {
	case b.lastErr != nil:
		feedbackLine = "  [yellow]" + errorFeedback(b.lastErr) + "[-]\n"
	case b.fired:
		feedbackLine = fmt.Sprintf("  You: [%s]%s[-]\n", feedbackColor(b.lastPlayer), Feedback(b.lastPlayer, true))
		if b.lastComputer != nil {
			reply := *b.lastComputer
			feedbackLine += fmt.Sprintf("  %s: [%s]%s[-]\n", b.game.Opponent(b.human).Name(), feedbackColor(reply), Feedback(reply, false))
		}
	}

	return fmt.Sprintf("%s%s%s", statusLine, feedbackLine, controlsLine)
}

func errorFeedback(err error) string {
	switch {
	case errors.Is(err, cerr.ErrOutOfBounds):
		return "That cell is off the grid."
	case errors.Is(err, cerr.ErrGameAlreadyOver):
		return "The game is over."
	case errors.Is(err, cerr.ErrNotYourTurn):
		return "Wait for your turn."
	default:
		return err.Error()
	}
}
