package battleship

import (
	"sync"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type GameManager interface {
	CreateGame(playerName string, gridSize int) (*Game, error)
	FetchGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	CountGames() int
}

// BattleshipGameManager is the registry of running games. The registry is
// safe for concurrent use; each game is still driven by a single session.
type BattleshipGameManager struct {
	games  map[string]*Game
	roster []ShipSpec
	mu     sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

func NewBattleshipGameManager(roster []ShipSpec) *BattleshipGameManager {
	if len(roster) == 0 {
		roster = DefaultShipRoster
	}

	return &BattleshipGameManager{
		games:  make(map[string]*Game, 10),
		roster: roster,
	}
}

// CreateGame starts a game of a human against the computer. A grid size of
// zero means DefaultGridSize.
func (bgm *BattleshipGameManager) CreateGame(playerName string, gridSize int) (*Game, error) {
	if gridSize == 0 {
		gridSize = DefaultGridSize
	}

	game, err := NewGame(bgm.roster, gridSize, WithPlayerNames(playerName, ""))
	if err != nil {
		return nil, err
	}

	bgm.mu.Lock()
	for _, taken := bgm.games[game.uuid]; taken; _, taken = bgm.games[game.uuid] {
		game.uuid = newGameUuid()
	}
	bgm.games[game.uuid] = game
	bgm.mu.Unlock()

	return game, nil
}

func (bgm *BattleshipGameManager) FetchGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExistsUuid(gameUuid)
	}

	if game == nil {
		return nil, cerr.ErrGameIsNil(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) CountGames() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()

	return len(bgm.games)
}
