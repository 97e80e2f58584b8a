package battleship

import (
	"math/rand"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"

	"github.com/google/uuid"
)

const (
	PlayerMatchStatusLost      = -1
	PlayerMatchStatusUndefined = 0
	PlayerMatchStatusWon       = 1
)

// TargetPolicy decides where a player fires. The controller calls it the
// same way for every player and never branches on the kind of player.
type TargetPolicy interface {
	SelectTarget(board *Board) (Coordinates, error)
	IsAutomated() bool
}

// Targets of a human come from the presentation layer.
type HumanPolicy struct{}

var _ TargetPolicy = HumanPolicy{}

func (HumanPolicy) SelectTarget(*Board) (Coordinates, error) {
	return Coordinates{}, cerr.ErrNotAutomatedPlayer
}

func (HumanPolicy) IsAutomated() bool {
	return false
}

// RandomTargetPolicy picks uniformly among the cells of the board that were
// never targeted, so no cell is ever fired at twice.
type RandomTargetPolicy struct {
	rng *rand.Rand
}

var _ TargetPolicy = (*RandomTargetPolicy)(nil)

func NewRandomTargetPolicy(rng *rand.Rand) *RandomTargetPolicy {
	return &RandomTargetPolicy{rng: rng}
}

func (p *RandomTargetPolicy) SelectTarget(board *Board) (Coordinates, error) {
	candidates := board.UntargetedCoordinates()
	if len(candidates) == 0 {
		return Coordinates{}, cerr.ErrNoTargetsLeft
	}
	return candidates[p.rng.Intn(len(candidates))], nil
}

func (p *RandomTargetPolicy) IsAutomated() bool {
	return true
}

type Player struct {
	uuid   string
	name   string
	board  *Board
	policy TargetPolicy
}

// The board is the one this player defends.
func NewPlayer(name string, board *Board, policy TargetPolicy) *Player {
	return &Player{
		uuid:   uuid.NewString()[:10],
		name:   name,
		board:  board,
		policy: policy,
	}
}

func (p *Player) Uuid() string {
	return p.uuid
}

func (p *Player) Name() string {
	return p.name
}

func (p *Player) Board() *Board {
	return p.board
}

func (p *Player) Policy() TargetPolicy {
	return p.policy
}

func (p *Player) IsAutomated() bool {
	return p.policy.IsAutomated()
}
