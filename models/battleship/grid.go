package battleship

const DefaultGridSize int = 10

type CellState uint8

const (
	CellStateWater CellState = iota
	CellStateShipPresent
	CellStateHit
	CellStateMiss
)

func (s CellState) String() string {
	switch s {
	case CellStateWater:
		return "Water"
	case CellStateShipPresent:
		return "ShipPresent"
	case CellStateHit:
		return "Hit"
	case CellStateMiss:
		return "Miss"
	default:
		return "Unknown"
	}
}

// A targeted cell is either Hit or Miss and never reverts.
func (s CellState) IsTargeted() bool {
	return s == CellStateHit || s == CellStateMiss
}

// MaskCellState hides ships from anyone but the owner of the board.
func MaskCellState(state CellState, isOwner bool) CellState {
	if state == CellStateShipPresent && !isOwner {
		return CellStateWater
	}
	return state
}

type Orientation uint8

const (
	OrientationHorizontal Orientation = iota
	OrientationVertical
)

func (o Orientation) String() string {
	switch o {
	case OrientationHorizontal:
		return "Horizontal"
	case OrientationVertical:
		return "Vertical"
	default:
		return "Unknown"
	}
}

// X is the column and Y is the row.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewCoordinates(x, y int) Coordinates {
	return Coordinates{X: x, Y: y}
}

// Returns the coordinate `offset` cells away along the orientation.
func (c Coordinates) step(orientation Orientation, offset int) Coordinates {
	if orientation == OrientationHorizontal {
		return Coordinates{X: c.X + offset, Y: c.Y}
	}
	return Coordinates{X: c.X, Y: c.Y + offset}
}

type Grid [][]CellState

// Creates a new default grid
// All indexes are CellStateWater
func NewGrid(gridSize int) Grid {
	grid := make(Grid, gridSize)

	for i := 0; i < gridSize; i++ {
		grid[i] = make([]CellState, gridSize)
	}
	return grid
}

func (g Grid) Size() int {
	return len(g)
}

func (g Grid) IsInBound(c Coordinates) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < len(g) && c.Y < len(g)
}

func (g Grid) at(c Coordinates) CellState {
	return g[c.Y][c.X]
}

func (g Grid) set(c Coordinates, state CellState) {
	g[c.Y][c.X] = state
}

func (g Grid) Clone() Grid {
	clone := make(Grid, len(g))
	for i := range g {
		clone[i] = make([]CellState, len(g[i]))
		copy(clone[i], g[i])
	}
	return clone
}
