package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const minShipLength = 2

type ShipSpec struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

var DefaultShipRoster = []ShipSpec{
	{Name: "Battleship", Length: 4},
	{Name: "Destroyer", Length: 3},
	{Name: "Submarine", Length: 2},
}

// ValidateShipRoster checks that every ship can exist on a grid of this size
// and that the fleet does not need more cells than the grid has.
func ValidateShipRoster(specs []ShipSpec, gridSize int) error {
	if gridSize < minShipLength {
		return cerr.ErrShipSpec("grid size %d is smaller than the shortest ship", gridSize)
	}
	if len(specs) == 0 {
		return cerr.ErrShipSpec("roster is empty")
	}

	total := 0
	for _, spec := range specs {
		if spec.Length < minShipLength {
			return cerr.ErrShipSpec("%s has length %d, minimum is %d", spec.Name, spec.Length, minShipLength)
		}
		if spec.Length > gridSize {
			return cerr.ErrShipSpec("%s has length %d, grid size is %d", spec.Name, spec.Length, gridSize)
		}
		total += spec.Length
	}

	if total > gridSize*gridSize {
		return cerr.ErrShipSpec("roster needs %d cells, grid has %d", total, gridSize*gridSize)
	}
	return nil
}

type Ship struct {
	name           string
	length         int
	orientation    Orientation
	anchor         Coordinates
	hits           int
	hitCoordinates []Coordinates
}

func newShip(spec ShipSpec, orientation Orientation, anchor Coordinates) *Ship {
	return &Ship{
		name:           spec.Name,
		length:         spec.Length,
		orientation:    orientation,
		anchor:         anchor,
		hitCoordinates: make([]Coordinates, 0, spec.Length),
	}
}

func (sh *Ship) Name() string {
	return sh.name
}

func (sh *Ship) Length() int {
	return sh.length
}

func (sh *Ship) Orientation() Orientation {
	return sh.orientation
}

func (sh *Ship) Anchor() Coordinates {
	return sh.anchor
}

func (sh *Ship) Hits() int {
	return sh.hits
}

func (sh *Ship) IsSunk() bool {
	return sh.hits >= sh.length
}

// Coordinates returns every cell the ship occupies, starting at the anchor.
func (sh *Ship) Coordinates() []Coordinates {
	coords := make([]Coordinates, sh.length)
	for i := 0; i < sh.length; i++ {
		coords[i] = sh.anchor.step(sh.orientation, i)
	}
	return coords
}

// HitCoordinates returns a copy of the cells hit so far, in hit order.
func (sh *Ship) HitCoordinates() []Coordinates {
	coords := make([]Coordinates, len(sh.hitCoordinates))
	copy(coords, sh.hitCoordinates)
	return coords
}

func (sh *Ship) gotHit(c Coordinates) {
	sh.hits++
	sh.hitCoordinates = append(sh.hitCoordinates, c)
}
