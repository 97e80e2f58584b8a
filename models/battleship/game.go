package battleship

import (
	"errors"
	"math/rand"
	"time"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"

	"github.com/google/uuid"
)

// Short enough to read out loud; the game manager regenerates on collision.
var newGameUuid = func() string {
	return uuid.NewString()[:6]
}

const (
	DefaultPlayerOneName = "Player"
	DefaultPlayerTwoName = "Computer"
)

type GameState uint8

const (
	GameStateAwaitingAttack GameState = iota
	GameStateGameOver
)

func (s GameState) String() string {
	switch s {
	case GameStateAwaitingAttack:
		return "AwaitingAttack"
	case GameStateGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Game is the turn engine of one session. It is not safe for concurrent use;
// the caller drives it one attack at a time.
type Game struct {
	uuid      string
	playerOne *Player
	playerTwo *Player
	active    *Player
	createdAt time.Time

	// used by AutomatedTurnTarget
	automatedPolicy *RandomTargetPolicy
}

type gameConfig struct {
	rng      *rand.Rand
	names    [2]string
	policies [2]TargetPolicy
}

type GameOption func(*gameConfig) error

func WithRand(rng *rand.Rand) GameOption {
	return func(gc *gameConfig) error {
		if rng == nil {
			return errors.New("random source must not be nil")
		}
		gc.rng = rng
		return nil
	}
}

func WithPlayerNames(playerOne, playerTwo string) GameOption {
	return func(gc *gameConfig) error {
		if playerOne != "" {
			gc.names[0] = playerOne
		}
		if playerTwo != "" {
			gc.names[1] = playerTwo
		}
		return nil
	}
}

// WithPolicies overrides the target policies. A nil policy keeps the default.
func WithPolicies(playerOne, playerTwo TargetPolicy) GameOption {
	return func(gc *gameConfig) error {
		if playerOne != nil {
			gc.policies[0] = playerOne
		}
		if playerTwo != nil {
			gc.policies[1] = playerTwo
		}
		return nil
	}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewGame builds two boards, places the roster on each of them and makes
// player one the active player. By default player one is a human and player
// two fires at random.
func NewGame(specs []ShipSpec, gridSize int, opts ...GameOption) (*Game, error) {
	gc := gameConfig{
		names: [2]string{DefaultPlayerOneName, DefaultPlayerTwoName},
	}
	for _, opt := range opts {
		if err := opt(&gc); err != nil {
			return nil, err
		}
	}
	if gc.rng == nil {
		gc.rng = newRand()
	}
	if gc.policies[0] == nil {
		gc.policies[0] = HumanPolicy{}
	}
	if gc.policies[1] == nil {
		gc.policies[1] = NewRandomTargetPolicy(gc.rng)
	}

	if err := ValidateShipRoster(specs, gridSize); err != nil {
		return nil, err
	}

	players := [2]*Player{}
	for i := range players {
		board := NewBoard(gridSize, gc.rng)
		if err := board.PlaceAll(specs); err != nil {
			return nil, err
		}
		players[i] = NewPlayer(gc.names[i], board, gc.policies[i])
	}

	g := NewGameFromPlayers(players[0], players[1])
	g.automatedPolicy = NewRandomTargetPolicy(gc.rng)
	return g, nil
}

// NewGameFromPlayers starts a game over boards that were already populated.
// Both boards must hold at least one ship.
func NewGameFromPlayers(playerOne, playerTwo *Player) *Game {
	return &Game{
		uuid:            newGameUuid(),
		playerOne:       playerOne,
		playerTwo:       playerTwo,
		active:          playerOne,
		createdAt:       time.Now(),
		automatedPolicy: NewRandomTargetPolicy(newRand()),
	}
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}

func (g *Game) PlayerOne() *Player {
	return g.playerOne
}

func (g *Game) PlayerTwo() *Player {
	return g.playerTwo
}

// returns a slice of players in the order of player one then player two.
func (g *Game) Players() []*Player {
	return []*Player{g.playerOne, g.playerTwo}
}

func (g *Game) ActivePlayer() *Player {
	return g.active
}

// Opponent returns nil if p does not play in this game.
func (g *Game) Opponent(p *Player) *Player {
	switch p {
	case g.playerOne:
		return g.playerTwo
	case g.playerTwo:
		return g.playerOne
	default:
		return nil
	}
}

func (g *Game) FindPlayer(playerUuid string) (*Player, error) {
	for _, p := range g.Players() {
		if p.uuid == playerUuid {
			return p, nil
		}
	}
	return nil, cerr.ErrPlayerNotExist(playerUuid)
}

// FetchPlayer returns the first player whose automation matches.
func (g *Game) FetchPlayer(automated bool) *Player {
	for _, p := range g.Players() {
		if p.IsAutomated() == automated {
			return p
		}
	}
	return nil
}

// AttemptAttack is the single attack path for every kind of player. A
// completed attack hands the turn to the other player unless it sank the
// last ship, which ends the game. AlreadyTargeted leaves everything as is.
func (g *Game) AttemptAttack(attacker *Player, c Coordinates) (AttackResult, error) {
	if g.IsGameOver() {
		return AttackResult{}, cerr.ErrAttackAfterGameOver(g.uuid)
	}
	if attacker == nil || attacker != g.active {
		playerUuid := ""
		if attacker != nil {
			playerUuid = attacker.uuid
		}
		return AttackResult{}, cerr.ErrNotTurnForAttacker(playerUuid)
	}

	defender := g.Opponent(attacker)
	result, err := defender.board.ReceiveAttack(c)
	if err != nil {
		return AttackResult{}, err
	}

	if !result.IsCompleted() || defender.board.AllShipsSunk() {
		return result, nil
	}

	g.active = defender
	return result, nil
}

// AutomatedTurnTarget picks a uniformly random cell of board that was never
// targeted.
func (g *Game) AutomatedTurnTarget(board *Board) (Coordinates, error) {
	return g.automatedPolicy.SelectTarget(board)
}

// PlayAutomatedTurn lets the active player's policy choose a target and
// resolves it like any other attack.
func (g *Game) PlayAutomatedTurn() (AttackResult, error) {
	if g.IsGameOver() {
		return AttackResult{}, cerr.ErrAttackAfterGameOver(g.uuid)
	}

	attacker := g.active
	if !attacker.IsAutomated() {
		return AttackResult{}, cerr.ErrPlayerNotAutomated(attacker.uuid)
	}

	target, err := attacker.policy.SelectTarget(g.Opponent(attacker).board)
	if err != nil {
		return AttackResult{}, err
	}
	return g.AttemptAttack(attacker, target)
}

// CheckWinner returns the player whose opponent has no ship left afloat, or
// nil while the game is in progress.
func (g *Game) CheckWinner() *Player {
	if g.playerTwo.board.AllShipsSunk() {
		return g.playerOne
	}
	if g.playerOne.board.AllShipsSunk() {
		return g.playerTwo
	}
	return nil
}

func (g *Game) IsGameOver() bool {
	return g.CheckWinner() != nil
}

func (g *Game) State() GameState {
	if g.IsGameOver() {
		return GameStateGameOver
	}
	return GameStateAwaitingAttack
}

func (g *Game) MatchStatus(p *Player) int {
	winner := g.CheckWinner()
	switch {
	case winner == nil:
		return PlayerMatchStatusUndefined
	case winner == p:
		return PlayerMatchStatusWon
	default:
		return PlayerMatchStatusLost
	}
}

// VisibleGrid shows ships only when the viewer owns the board.
func (g *Game) VisibleGrid(viewer *Player, board *Board) Grid {
	isOwner := viewer != nil && viewer.board == board
	return board.VisibleGrid(isOwner)
}
