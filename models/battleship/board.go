package battleship

import (
	"math/rand"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// Random draws tried before falling back to scanning every candidate.
const maxRandomPlacementAttempts = 100

const noShip = -1

type AttackOutcome uint8

const (
	AttackOutcomeHit AttackOutcome = iota
	AttackOutcomeMiss
	AttackOutcomeAlreadyTargeted
)

func (o AttackOutcome) String() string {
	switch o {
	case AttackOutcomeHit:
		return "Hit"
	case AttackOutcomeMiss:
		return "Miss"
	case AttackOutcomeAlreadyTargeted:
		return "AlreadyTargeted"
	default:
		return "Unknown"
	}
}

type AttackResult struct {
	Coordinates Coordinates
	Outcome     AttackOutcome

	// Set only when this attack sank the ship
	SunkShip *Ship
}

// A repeated attack is a no-op and must not consume the turn.
func (r AttackResult) IsCompleted() bool {
	return r.Outcome != AttackOutcomeAlreadyTargeted
}

type placement struct {
	orientation Orientation
	anchor      Coordinates
}

type Board struct {
	grid  Grid
	ships []*Ship

	// occupancy[y][x] is the index in ships, or noShip
	occupancy [][]int
	rng       *rand.Rand
}

func NewBoard(gridSize int, rng *rand.Rand) *Board {
	occupancy := make([][]int, gridSize)
	for y := range occupancy {
		occupancy[y] = make([]int, gridSize)
		for x := range occupancy[y] {
			occupancy[y][x] = noShip
		}
	}

	return &Board{
		grid:      NewGrid(gridSize),
		ships:     make([]*Ship, 0, len(DefaultShipRoster)),
		occupancy: occupancy,
		rng:       rng,
	}
}

func (b *Board) GridSize() int {
	return b.grid.Size()
}

func (b *Board) Ships() []*Ship {
	return b.ships
}

func (b *Board) IsInBound(c Coordinates) bool {
	return b.grid.IsInBound(c)
}

func (b *Board) CellState(c Coordinates) (CellState, error) {
	if !b.grid.IsInBound(c) {
		return CellStateWater, cerr.ErrXorYOutOfGridBound(c.X, c.Y)
	}
	return b.grid.at(c), nil
}

// ShipAt returns the ship occupying c, or nil.
func (b *Board) ShipAt(c Coordinates) *Ship {
	if !b.grid.IsInBound(c) {
		return nil
	}
	idx := b.occupancy[c.Y][c.X]
	if idx == noShip {
		return nil
	}
	return b.ships[idx]
}

// PlaceAll places every ship of the roster in order at a random valid
// position. It only runs on an empty board and leaves the board untouched
// when any ship fails to fit.
func (b *Board) PlaceAll(specs []ShipSpec) error {
	if len(b.ships) != 0 {
		return cerr.ErrBoardNotEmpty(len(b.ships))
	}
	if err := ValidateShipRoster(specs, b.GridSize()); err != nil {
		return err
	}

	scratch := NewBoard(b.GridSize(), b.rng)
	for _, spec := range specs {
		p, ok := scratch.randomPlacement(spec.Length)
		if !ok {
			p, ok = scratch.scanPlacement(spec.Length)
		}
		if !ok {
			return cerr.ErrShipDoesNotFit(spec.Name, spec.Length)
		}

		scratch.mark(newShip(spec, p.orientation, p.anchor))
	}

	b.grid, b.ships, b.occupancy = scratch.grid, scratch.ships, scratch.occupancy
	return nil
}

// PlaceShip puts a ship exactly where the caller asks.
func (b *Board) PlaceShip(spec ShipSpec, orientation Orientation, anchor Coordinates) (*Ship, error) {
	if spec.Length < minShipLength {
		return nil, cerr.ErrShipSpec("%s has length %d, minimum is %d", spec.Name, spec.Length, minShipLength)
	}
	if !b.CanPlaceShip(spec.Length, orientation, anchor) {
		return nil, cerr.ErrShipDoesNotFit(spec.Name, spec.Length)
	}

	ship := newShip(spec, orientation, anchor)
	b.mark(ship)
	return ship, nil
}

// CanPlaceShip reports whether the whole extent stays on the grid and
// touches no cell already taken by another ship. Adjacency is allowed.
func (b *Board) CanPlaceShip(length int, orientation Orientation, anchor Coordinates) bool {
	for i := 0; i < length; i++ {
		c := anchor.step(orientation, i)
		if !b.grid.IsInBound(c) {
			return false
		}
		if b.occupancy[c.Y][c.X] != noShip {
			return false
		}
	}
	return true
}

func (b *Board) randomPlacement(length int) (placement, bool) {
	size := b.GridSize()

	for attempt := 0; attempt < maxRandomPlacementAttempts; attempt++ {
		p := placement{
			orientation: Orientation(b.rng.Intn(2)),
			anchor:      NewCoordinates(b.rng.Intn(size), b.rng.Intn(size)),
		}
		if b.CanPlaceShip(length, p.orientation, p.anchor) {
			return p, true
		}
	}
	return placement{}, false
}

// scanPlacement enumerates every valid (orientation, anchor) pair and picks
// one uniformly. It always terminates.
func (b *Board) scanPlacement(length int) (placement, bool) {
	size := b.GridSize()
	candidates := make([]placement, 0, size*size)

	for _, orientation := range []Orientation{OrientationHorizontal, OrientationVertical} {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				anchor := NewCoordinates(x, y)
				if b.CanPlaceShip(length, orientation, anchor) {
					candidates = append(candidates, placement{orientation: orientation, anchor: anchor})
				}
			}
		}
	}

	if len(candidates) == 0 {
		return placement{}, false
	}
	return candidates[b.rng.Intn(len(candidates))], true
}

func (b *Board) mark(ship *Ship) {
	b.ships = append(b.ships, ship)
	idx := len(b.ships) - 1

	for _, c := range ship.Coordinates() {
		b.grid.set(c, CellStateShipPresent)
		b.occupancy[c.Y][c.X] = idx
	}
}

// ReceiveAttack records a shot against this board. Shooting a cell that was
// already targeted changes nothing and reports AlreadyTargeted.
func (b *Board) ReceiveAttack(c Coordinates) (AttackResult, error) {
	if !b.grid.IsInBound(c) {
		return AttackResult{}, cerr.ErrXorYOutOfGridBound(c.X, c.Y)
	}

	result := AttackResult{Coordinates: c}

	switch b.grid.at(c) {
	case CellStateHit, CellStateMiss:
		result.Outcome = AttackOutcomeAlreadyTargeted

	case CellStateShipPresent:
		b.grid.set(c, CellStateHit)
		ship := b.ships[b.occupancy[c.Y][c.X]]
		ship.gotHit(c)

		result.Outcome = AttackOutcomeHit
		if ship.IsSunk() {
			result.SunkShip = ship
		}

	default:
		b.grid.set(c, CellStateMiss)
		result.Outcome = AttackOutcomeMiss
	}

	return result, nil
}

func (b *Board) AllShipsSunk() bool {
	for _, ship := range b.ships {
		if !ship.IsSunk() {
			return false
		}
	}
	return true
}

func (b *Board) SunkenShips() int {
	sunken := 0
	for _, ship := range b.ships {
		if ship.IsSunk() {
			sunken++
		}
	}
	return sunken
}

// VisibleGrid returns a copy of the grid as a viewer sees it.
func (b *Board) VisibleGrid(isOwner bool) Grid {
	visible := b.grid.Clone()
	for y := range visible {
		for x := range visible[y] {
			visible[y][x] = MaskCellState(visible[y][x], isOwner)
		}
	}
	return visible
}

func (b *Board) UntargetedCoordinates() []Coordinates {
	size := b.GridSize()
	coords := make([]Coordinates, 0, size*size)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !b.grid[y][x].IsTargeted() {
				coords = append(coords, NewCoordinates(x, y))
			}
		}
	}
	return coords
}
