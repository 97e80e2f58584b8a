package error

import (
	"errors"
	"fmt"
)

const (
	ConstErrAttackFailed = "attack operation failed"
	ConstErrCreateGame   = "failed to create game"
)

var (
	ErrOutOfBounds        = errors.New("coordinates out of grid bound")
	ErrNotYourTurn        = errors.New("not the turn of the attacker")
	ErrGameAlreadyOver    = errors.New("game is already over")
	ErrNoValidPlacement   = errors.New("no valid placement left for ship")
	ErrBoardPopulated     = errors.New("board already has ships")
	ErrInvalidShipSpec    = errors.New("invalid ship specification")
	ErrNotAutomatedPlayer = errors.New("player does not select targets automatically")
	ErrNoTargetsLeft      = errors.New("no untargeted coordinates left")
	ErrUnknownPlayer      = errors.New("player is not part of this game")
	ErrGameNotExists      = errors.New("game does not exist")
	ErrSessionNotFound    = errors.New("session not found")
	ErrCodeAbsent         = errors.New("message has no code field")
)

func ErrXorYOutOfGridBound(x, y int) error {
	return fmt.Errorf("%w\tx: %d\ty: %d", ErrOutOfBounds, x, y)
}

func ErrNotTurnForAttacker(playerUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrNotYourTurn, playerUuid)
}

func ErrAttackAfterGameOver(gameUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrGameAlreadyOver, gameUuid)
}

func ErrShipDoesNotFit(name string, length int) error {
	return fmt.Errorf("%w: %s (length %d)", ErrNoValidPlacement, name, length)
}

func ErrBoardNotEmpty(ships int) error {
	return fmt.Errorf("%w: %d placed", ErrBoardPopulated, ships)
}

func ErrShipSpec(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidShipSpec, fmt.Sprintf(format, args...))
}

func ErrPlayerNotAutomated(playerUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrNotAutomatedPlayer, playerUuid)
}

func ErrPlayerNotExist(playerUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrUnknownPlayer, playerUuid)
}

func ErrGameNotExistsUuid(gameUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrGameNotExists, gameUuid)
}

func ErrSessionNotFoundId(sessionId string) error {
	return fmt.Errorf("%w, id: %s", ErrSessionNotFound, sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session is nil, id: %s", sessionId)
}

func ErrGameIsNil(gameUuid string) error {
	return fmt.Errorf("game is nil, uuid: %s", gameUuid)
}
