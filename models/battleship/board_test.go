package battleship

import (
	"math/rand"
	"testing"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"

	"github.com/stretchr/testify/require"
)

func newSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestPlaceAllShipsDisjointAndInBound(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		board := NewBoard(DefaultGridSize, newSeededRand(seed))
		require.NoError(t, board.PlaceAll(DefaultShipRoster))
		require.Len(t, board.Ships(), len(DefaultShipRoster))

		occupied := make(map[Coordinates]string)
		for i, ship := range board.Ships() {
			require.Equal(t, DefaultShipRoster[i].Name, ship.Name())
			require.Equal(t, DefaultShipRoster[i].Length, ship.Length())
			require.Zero(t, ship.Hits())

			for _, c := range ship.Coordinates() {
				require.True(t, board.IsInBound(c), "seed %d: %+v out of bound", seed, c)
				other, taken := occupied[c]
				require.False(t, taken, "seed %d: %s overlaps %s at %+v", seed, ship.Name(), other, c)
				occupied[c] = ship.Name()

				state, err := board.CellState(c)
				require.NoError(t, err)
				require.Equal(t, CellStateShipPresent, state)
				require.Same(t, ship, board.ShipAt(c))
			}
		}

		shipCells := 0
		for _, row := range board.VisibleGrid(true) {
			for _, state := range row {
				if state == CellStateShipPresent {
					shipCells++
				}
			}
		}
		require.Equal(t, len(occupied), shipCells)
	}
}

func TestPlaceAllFillsNearlyFullBoard(t *testing.T) {
	// Four ships of length 4 cover a 4x4 grid completely, so most random
	// draws fail for the later ships.
	roster := []ShipSpec{
		{Name: "A", Length: 4},
		{Name: "B", Length: 4},
		{Name: "C", Length: 4},
		{Name: "D", Length: 4},
	}

	for seed := int64(0); seed < 50; seed++ {
		board := NewBoard(4, newSeededRand(seed))
		require.NoError(t, board.PlaceAll(roster))
		require.Len(t, board.Ships(), 4)

		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				require.NotNil(t, board.ShipAt(NewCoordinates(x, y)))
			}
		}
	}
}

func TestPlaceAllRejectsPopulatedBoard(t *testing.T) {
	board := NewBoard(DefaultGridSize, newSeededRand(1))
	require.NoError(t, board.PlaceAll(DefaultShipRoster))
	before := board.VisibleGrid(true)

	err := board.PlaceAll(DefaultShipRoster)
	require.ErrorIs(t, err, cerr.ErrBoardPopulated)
	require.Len(t, board.Ships(), len(DefaultShipRoster))
	require.Equal(t, before, board.VisibleGrid(true))

	manual := NewBoard(4, newSeededRand(1))
	_, err = manual.PlaceShip(ShipSpec{Name: "Row", Length: 4}, OrientationHorizontal, NewCoordinates(0, 0))
	require.NoError(t, err)
	require.ErrorIs(t, manual.PlaceAll([]ShipSpec{{Name: "Submarine", Length: 2}}), cerr.ErrBoardPopulated)
	require.Len(t, manual.Ships(), 1)
}

func TestPlaceAllFailureLeavesBoardEmpty(t *testing.T) {
	// After the length 4 ship, the three-row remainder only packs when every
	// length 3 ship goes vertical, so random placement often dead-ends.
	roster := []ShipSpec{
		{Name: "A", Length: 4},
		{Name: "B", Length: 3},
		{Name: "C", Length: 3},
		{Name: "D", Length: 3},
		{Name: "E", Length: 3},
	}

	failures, successes := 0, 0
	for seed := int64(0); seed < 100; seed++ {
		board := NewBoard(4, newSeededRand(seed))
		err := board.PlaceAll(roster)
		if err == nil {
			successes++
			require.Len(t, board.Ships(), len(roster))
			continue
		}

		failures++
		require.ErrorIs(t, err, cerr.ErrNoValidPlacement)
		require.Empty(t, board.Ships())
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				c := NewCoordinates(x, y)
				require.Nil(t, board.ShipAt(c), "seed %d: %+v", seed, c)
				state, err := board.CellState(c)
				require.NoError(t, err)
				require.Equal(t, CellStateWater, state)
			}
		}

		// a failed roster does not block a later one
		require.NoError(t, board.PlaceAll([]ShipSpec{{Name: "Submarine", Length: 2}}))
		require.Len(t, board.Ships(), 1)
	}

	require.NotZero(t, failures)
	require.NotZero(t, successes)
}

func TestValidateShipRoster(t *testing.T) {
	tests := []struct {
		name     string
		specs    []ShipSpec
		gridSize int
		valid    bool
	}{
		{name: "default roster", specs: DefaultShipRoster, gridSize: DefaultGridSize, valid: true},
		{name: "empty roster", specs: nil, gridSize: DefaultGridSize},
		{name: "ship too short", specs: []ShipSpec{{Name: "Dinghy", Length: 1}}, gridSize: DefaultGridSize},
		{name: "ship longer than grid", specs: []ShipSpec{{Name: "Carrier", Length: 5}}, gridSize: 4},
		{name: "fleet larger than grid", specs: []ShipSpec{{"A", 3}, {"B", 3}, {"C", 3}, {"D", 2}}, gridSize: 3},
		{name: "grid too small", specs: DefaultShipRoster, gridSize: 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateShipRoster(test.specs, test.gridSize)
			if test.valid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, cerr.ErrInvalidShipSpec)
		})
	}
}

func TestPlaceShipRejectsOverlapAndOverflow(t *testing.T) {
	board := NewBoard(DefaultGridSize, newSeededRand(1))

	_, err := board.PlaceShip(ShipSpec{Name: "Battleship", Length: 4}, OrientationHorizontal, NewCoordinates(2, 3))
	require.NoError(t, err)

	// crosses the battleship at (3,3)
	_, err = board.PlaceShip(ShipSpec{Name: "Destroyer", Length: 3}, OrientationVertical, NewCoordinates(3, 1))
	require.ErrorIs(t, err, cerr.ErrNoValidPlacement)

	_, err = board.PlaceShip(ShipSpec{Name: "Destroyer", Length: 3}, OrientationHorizontal, NewCoordinates(8, 0))
	require.ErrorIs(t, err, cerr.ErrNoValidPlacement)

	// adjacent is fine
	_, err = board.PlaceShip(ShipSpec{Name: "Destroyer", Length: 3}, OrientationHorizontal, NewCoordinates(2, 4))
	require.NoError(t, err)
	require.Len(t, board.Ships(), 2)
}

func TestReceiveAttackIsIdempotent(t *testing.T) {
	board := NewBoard(DefaultGridSize, newSeededRand(1))
	destroyer, err := board.PlaceShip(ShipSpec{Name: "Destroyer", Length: 3}, OrientationHorizontal, NewCoordinates(0, 0))
	require.NoError(t, err)

	result, err := board.ReceiveAttack(NewCoordinates(1, 0))
	require.NoError(t, err)
	require.Equal(t, AttackOutcomeHit, result.Outcome)
	require.Nil(t, result.SunkShip)

	for i := 0; i < 3; i++ {
		result, err = board.ReceiveAttack(NewCoordinates(1, 0))
		require.NoError(t, err)
		require.Equal(t, AttackOutcomeAlreadyTargeted, result.Outcome)
		require.False(t, result.IsCompleted())
		require.Equal(t, 1, destroyer.Hits())
	}

	result, err = board.ReceiveAttack(NewCoordinates(5, 5))
	require.NoError(t, err)
	require.Equal(t, AttackOutcomeMiss, result.Outcome)

	result, err = board.ReceiveAttack(NewCoordinates(5, 5))
	require.NoError(t, err)
	require.Equal(t, AttackOutcomeAlreadyTargeted, result.Outcome)

	state, err := board.CellState(NewCoordinates(5, 5))
	require.NoError(t, err)
	require.Equal(t, CellStateMiss, state)
	require.Equal(t, []Coordinates{{X: 1, Y: 0}}, destroyer.HitCoordinates())

	hits := destroyer.HitCoordinates()
	hits[0] = NewCoordinates(9, 9)
	_ = append(hits, NewCoordinates(8, 8))
	require.Equal(t, []Coordinates{{X: 1, Y: 0}}, destroyer.HitCoordinates())
	require.Equal(t, 1, destroyer.Hits())
}

func TestReceiveAttackOutOfBound(t *testing.T) {
	board := NewBoard(DefaultGridSize, newSeededRand(1))
	require.NoError(t, board.PlaceAll(DefaultShipRoster))

	for _, c := range []Coordinates{{X: 10, Y: 0}, {X: 0, Y: 10}, {X: -1, Y: 3}, {X: 3, Y: -1}} {
		_, err := board.ReceiveAttack(c)
		require.ErrorIs(t, err, cerr.ErrOutOfBounds)
	}
	require.Len(t, board.UntargetedCoordinates(), DefaultGridSize*DefaultGridSize)
}

func TestSinkBattleship(t *testing.T) {
	board := NewBoard(DefaultGridSize, newSeededRand(42))
	require.NoError(t, board.PlaceAll(DefaultShipRoster))

	battleship := board.Ships()[0]
	require.Equal(t, "Battleship", battleship.Name())

	coords := battleship.Coordinates()
	require.Len(t, coords, 4)
	for i, c := range coords {
		result, err := board.ReceiveAttack(c)
		require.NoError(t, err)
		require.Equal(t, AttackOutcomeHit, result.Outcome)

		if i < len(coords)-1 {
			require.Nil(t, result.SunkShip)
			require.False(t, battleship.IsSunk())
		} else {
			require.Same(t, battleship, result.SunkShip)
			require.True(t, battleship.IsSunk())
		}
	}

	require.False(t, board.AllShipsSunk())
	require.Equal(t, 1, board.SunkenShips())

	result, err := board.ReceiveAttack(coords[0])
	require.NoError(t, err)
	require.Equal(t, AttackOutcomeAlreadyTargeted, result.Outcome)
	require.Equal(t, 4, battleship.Hits())
}

func TestAllShipsSunk(t *testing.T) {
	board := NewBoard(DefaultGridSize, newSeededRand(7))
	require.NoError(t, board.PlaceAll(DefaultShipRoster))

	for _, ship := range board.Ships() {
		require.False(t, board.AllShipsSunk())
		for _, c := range ship.Coordinates() {
			_, err := board.ReceiveAttack(c)
			require.NoError(t, err)
		}
	}
	require.True(t, board.AllShipsSunk())
	require.Equal(t, len(DefaultShipRoster), board.SunkenShips())
}

func TestVisibleGridMasksShips(t *testing.T) {
	board := NewBoard(DefaultGridSize, newSeededRand(3))
	require.NoError(t, board.PlaceAll(DefaultShipRoster))

	hit := board.Ships()[1].Coordinates()[0]
	_, err := board.ReceiveAttack(hit)
	require.NoError(t, err)
	for _, c := range board.UntargetedCoordinates() {
		if board.ShipAt(c) == nil {
			_, err = board.ReceiveAttack(c)
			require.NoError(t, err)
			break
		}
	}

	owner := board.VisibleGrid(true)
	opponent := board.VisibleGrid(false)

	for y := 0; y < DefaultGridSize; y++ {
		for x := 0; x < DefaultGridSize; x++ {
			state, err := board.CellState(NewCoordinates(x, y))
			require.NoError(t, err)

			require.Equal(t, state, owner[y][x])
			if state == CellStateShipPresent {
				require.Equal(t, CellStateWater, opponent[y][x])
			} else {
				require.Equal(t, state, opponent[y][x])
			}
		}
	}

	// masking works on a copy
	opponent[hit.Y][hit.X] = CellStateWater
	state, err := board.CellState(hit)
	require.NoError(t, err)
	require.Equal(t, CellStateHit, state)
}

func TestMaskCellState(t *testing.T) {
	require.Equal(t, CellStateShipPresent, MaskCellState(CellStateShipPresent, true))
	require.Equal(t, CellStateWater, MaskCellState(CellStateShipPresent, false))
	for _, state := range []CellState{CellStateWater, CellStateHit, CellStateMiss} {
		require.Equal(t, state, MaskCellState(state, true))
		require.Equal(t, state, MaskCellState(state, false))
	}
}
