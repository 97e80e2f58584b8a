package ui

import (
	"math/rand"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/require"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

func newTestBoard(t *testing.T, seed int64) *BattleBoardUI {
	t.Helper()

	newGame := func() (*mb.Game, error) {
		return mb.NewGame(mb.DefaultShipRoster, mb.DefaultGridSize, mb.WithRand(rand.New(rand.NewSource(seed))))
	}
	game, err := newGame()
	require.NoError(t, err)

	hint := tview.NewTextView().SetDynamicColors(true)
	return NewBattleBoard(game, hint, newGame)
}

func targetedCells(grid mb.Grid) int {
	var n int
	for _, row := range grid {
		for _, state := range row {
			if state.IsTargeted() {
				n++
			}
		}
	}
	return n
}

func TestCellColor(t *testing.T) {
	tests := []struct {
		state    mb.CellState
		expected tcell.Color
	}{
		{state: mb.CellStateWater, expected: tcell.ColorBlue},
		{state: mb.CellStateShipPresent, expected: tcell.ColorGray},
		{state: mb.CellStateHit, expected: tcell.ColorRed},
		{state: mb.CellStateMiss, expected: tcell.ColorWhite},
	}

	for _, test := range tests {
		t.Run(test.state.String(), func(t *testing.T) {
			require.Equal(t, test.expected, CellColor(test.state))
		})
	}
}

func TestFeedback(t *testing.T) {
	board := mb.NewBoard(5, rand.New(rand.NewSource(1)))
	ship, err := board.PlaceShip(mb.ShipSpec{Name: "Submarine", Length: 2}, mb.OrientationHorizontal, mb.NewCoordinates(0, 0))
	require.NoError(t, err)

	hit, err := board.ReceiveAttack(mb.NewCoordinates(0, 0))
	require.NoError(t, err)
	require.Equal(t, "Hit!", Feedback(hit, true))
	require.Equal(t, "Hit!", Feedback(hit, false))

	again, err := board.ReceiveAttack(mb.NewCoordinates(0, 0))
	require.NoError(t, err)
	require.Contains(t, Feedback(again, true), "Already targeted")

	miss, err := board.ReceiveAttack(mb.NewCoordinates(4, 4))
	require.NoError(t, err)
	require.Equal(t, "Miss!", Feedback(miss, false))

	sunk, err := board.ReceiveAttack(mb.NewCoordinates(1, 0))
	require.NoError(t, err)
	require.Same(t, ship, sunk.SunkShip)
	require.Equal(t, "You sunk my Submarine!", Feedback(sunk, true))
	require.Equal(t, "Your Submarine was sunk!", Feedback(sunk, false))
}

func TestMoveSelection(t *testing.T) {
	b := newTestBoard(t, 1)
	b.selX, b.selY = 0, 0

	b.MoveSelection(-1, 0)
	b.MoveSelection(0, -1)
	require.Equal(t, mb.NewCoordinates(0, 0), b.SelectedTile())

	b.handleKey(tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone))
	b.handleKey(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	require.Equal(t, mb.NewCoordinates(1, 1), b.SelectedTile())

	b.selX, b.selY = mb.DefaultGridSize-1, mb.DefaultGridSize-1
	b.MoveSelection(1, 1)
	require.Equal(t, mb.NewCoordinates(mb.DefaultGridSize-1, mb.DefaultGridSize-1), b.SelectedTile())
}

func TestFireComputerReplies(t *testing.T) {
	b := newTestBoard(t, 2)
	game := b.Game()
	computer := game.Opponent(b.human)

	b.Fire(mb.NewCoordinates(3, 3))

	require.NoError(t, b.lastErr)
	require.Equal(t, 1, targetedCells(computer.Board().VisibleGrid(false)))
	require.Equal(t, 1, targetedCells(b.human.Board().VisibleGrid(true)))
	require.Same(t, b.human, game.ActivePlayer())
	require.Contains(t, b.HintText(), "You: ")
	require.Contains(t, b.HintText(), computer.Name()+": ")
}

func TestFireRejected(t *testing.T) {
	b := newTestBoard(t, 3)

	b.Fire(mb.NewCoordinates(mb.DefaultGridSize, 0))
	require.Error(t, b.lastErr)
	require.Contains(t, b.HintText(), "off the grid")
	require.Equal(t, 0, targetedCells(b.human.Board().VisibleGrid(true)))

	b.Fire(mb.NewCoordinates(0, 0))
	b.Fire(mb.NewCoordinates(0, 0))
	require.NoError(t, b.lastErr)
	require.Contains(t, b.HintText(), "Already targeted")

	// the repeated cell did not give the computer another shot
	require.Equal(t, 1, targetedCells(b.human.Board().VisibleGrid(true)))
	require.Nil(t, b.lastComputer)
	require.NotContains(t, b.HintText(), b.Game().Opponent(b.human).Name()+": ")
}

func TestWinningShotHasNoComputerReply(t *testing.T) {
	b := newTestBoard(t, 8)
	game := b.Game()
	computer := game.Opponent(b.human)

	var targets []mb.Coordinates
	for _, ship := range computer.Board().Ships() {
		targets = append(targets, ship.Coordinates()...)
	}

	// both fleets have the same cell count, so the computer, one shot behind,
	// cannot win first
	for i, c := range targets {
		b.Fire(c)
		require.NoError(t, b.lastErr)
		if i < len(targets)-1 {
			require.NotNil(t, b.lastComputer)
			require.Contains(t, b.HintText(), computer.Name()+": ")
		}
	}

	require.Same(t, b.human, game.CheckWinner())
	require.NotNil(t, b.lastPlayer.SunkShip)
	require.Nil(t, b.lastComputer)

	hint := b.HintText()
	require.Contains(t, hint, "You: [red]You sunk my "+b.lastPlayer.SunkShip.Name()+"!")
	require.NotContains(t, hint, computer.Name()+": ")
}

func TestEnemyCellAt(t *testing.T) {
	b := newTestBoard(t, 4)
	left := enemyBoardLeft(mb.DefaultGridSize)

	tests := []struct {
		name     string
		x, y     int
		expected mb.Coordinates
		ok       bool
	}{
		{name: "first cell", x: left, y: headerRows, expected: mb.NewCoordinates(0, 0), ok: true},
		{name: "second half of a cell", x: left + 1, y: headerRows, expected: mb.NewCoordinates(0, 0), ok: true},
		{name: "last cell", x: left + (mb.DefaultGridSize-1)*cellWidth, y: headerRows + mb.DefaultGridSize - 1, expected: mb.NewCoordinates(mb.DefaultGridSize-1, mb.DefaultGridSize-1), ok: true},
		{name: "own board", x: labelWidth, y: headerRows},
		{name: "header", x: left, y: 0},
		{name: "right of board", x: left + mb.DefaultGridSize*cellWidth, y: headerRows},
		{name: "below board", x: left, y: headerRows + mb.DefaultGridSize},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, ok := b.enemyCellAt(test.x, test.y)
			require.Equal(t, test.ok, ok)
			if test.ok {
				require.Equal(t, test.expected, c)
			}
		})
	}
}

func TestMouseClickFires(t *testing.T) {
	b := newTestBoard(t, 5)
	b.Box.SetRect(0, 0, 80, 20)
	computer := b.Game().Opponent(b.human)

	left := enemyBoardLeft(mb.DefaultGridSize)
	event := tcell.NewEventMouse(left+2*cellWidth, headerRows+7, tcell.Button1, tcell.ModNone)
	action, consumed := b.handleMouse(tview.MouseLeftClick, event)

	require.Equal(t, tview.MouseLeftClick, action)
	require.Nil(t, consumed)
	require.Equal(t, mb.NewCoordinates(2, 7), b.SelectedTile())

	state, err := computer.Board().CellState(mb.NewCoordinates(2, 7))
	require.NoError(t, err)
	require.True(t, state.IsTargeted())
}

func TestDrawHidesEnemyShips(t *testing.T) {
	b := newTestBoard(t, 6)

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(80, 20)

	b.draw(screen, 0, 0)

	size := mb.DefaultGridSize
	enemyLeft := enemyBoardLeft(size)
	var ownShipCells int
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			_, _, ownStyle, _ := screen.GetContent(labelWidth+x*cellWidth, headerRows+y)
			if _, bg, _ := ownStyle.Decompose(); bg == tcell.ColorGray {
				ownShipCells++
			}

			_, _, enemyStyle, _ := screen.GetContent(enemyLeft+x*cellWidth, headerRows+y)
			_, bg, _ := enemyStyle.Decompose()
			require.NotEqual(t, tcell.ColorGray, bg)
		}
	}
	require.Equal(t, 9, ownShipCells)
}

func TestRematchAfterGameOver(t *testing.T) {
	b := newTestBoard(t, 7)
	first := b.Game()

	// not over yet
	b.Rematch()
	require.Same(t, first, b.Game())

	for _, c := range first.Opponent(b.human).Board().UntargetedCoordinates() {
		if first.IsGameOver() {
			break
		}
		b.Fire(c)
	}
	require.True(t, first.IsGameOver())
	require.Contains(t, b.HintText(), "Game over")

	b.handleKey(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	require.NotSame(t, first, b.Game())
	require.False(t, b.Game().IsGameOver())
}
