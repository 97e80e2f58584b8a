package api

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

// Larger grids are refused before anything is allocated.
const maxGridSize = 26

type RequestHandler interface {
	HandleCreateGame(gm mb.GameManager, defaultGridSize int) (*mb.Game, *mb.Player, mc.Message[mc.RespCreateGame])
	HandleAttack(game *mb.Game, human *mb.Player) (mc.Message[mc.RespAttack], bool)
	HandleAutomatedAttack(game *mb.Game, human *mb.Player) (mc.Message[mc.RespAttack], error)
	HandleFetchGrids(game *mb.Game, human *mb.Player) mc.Message[mc.RespGrids]
	HandleEndGame(game *mb.Game, human *mb.Player) mc.Message[mc.RespEndGame]
	HandleRematch(gm mb.GameManager, game *mb.Game, human *mb.Player) (*mb.Game, *mb.Player, mc.Message[mc.RespCreateGame])
}

// Every incoming valid request will have this structure.
// The raw payload is decoded lazily by the handler that needs it.
type Request struct {
	payload []byte
}

var _ RequestHandler = Request{}

func NewRequest(payload ...[]byte) Request {
	var req Request
	if len(payload) != 0 {
		req.payload = payload[0]
	}
	return req
}

// HandleCreateGame starts a game against the computer. The human gets the
// first turn.
func (r Request) HandleCreateGame(gm mb.GameManager, defaultGridSize int) (*mb.Game, *mb.Player, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	var reqCreateGame mc.Message[mc.ReqCreateGame]
	if len(r.payload) != 0 {
		if err := json.Unmarshal(r.payload, &reqCreateGame); err != nil {
			resp.AddError(err.Error(), cerr.ConstErrCreateGame)
			return nil, nil, resp
		}
	}

	gridSize := reqCreateGame.Payload.GridSize
	if gridSize == 0 {
		gridSize = defaultGridSize
	}
	if gridSize > maxGridSize {
		resp.AddError(fmt.Sprintf("grid size %d is larger than %d", gridSize, maxGridSize), cerr.ConstErrCreateGame)
		return nil, nil, resp
	}

	game, err := gm.CreateGame(reqCreateGame.Payload.PlayerName, gridSize)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrCreateGame)
		return nil, nil, resp
	}

	human := game.FetchPlayer(false)
	resp.AddPayload(mc.NewRespCreateGame(game, human))
	log.Debug("game created", "game", game.Uuid(), "player", human.Uuid(), "grid", gridSize)
	return game, human, resp
}

// HandleAttack resolves the human's shot. The returned flag is true only if
// the attack completed and the computer has to reply.
func (r Request) HandleAttack(game *mb.Game, human *mb.Player) (mc.Message[mc.RespAttack], bool) {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)

	var reqAttack mc.Message[mc.ReqAttack]
	if err := json.Unmarshal(r.payload, &reqAttack); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp, false
	}

	c := mb.NewCoordinates(reqAttack.Payload.X, reqAttack.Payload.Y)
	result, err := game.AttemptAttack(human, c)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp, false
	}

	resp.AddPayload(mc.NewRespAttack(game, human, result))
	return resp, result.IsCompleted() && !game.IsGameOver()
}

// HandleAutomatedAttack plays the computer's turn and reports it from the
// human's point of view.
func (r Request) HandleAutomatedAttack(game *mb.Game, human *mb.Player) (mc.Message[mc.RespAttack], error) {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAutomatedAttack)

	result, err := game.PlayAutomatedTurn()
	if err != nil {
		return resp, err
	}

	resp.AddPayload(mc.NewRespAttack(game, human, result))
	return resp, nil
}

func (r Request) HandleFetchGrids(game *mb.Game, human *mb.Player) mc.Message[mc.RespGrids] {
	resp := mc.NewMessage[mc.RespGrids](mc.CodeFetchGrids)
	resp.AddPayload(mc.NewRespGrids(game, human))
	return resp
}

func (r Request) HandleEndGame(game *mb.Game, human *mb.Player) mc.Message[mc.RespEndGame] {
	resp := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)

	var winner string
	if w := game.CheckWinner(); w != nil {
		winner = w.Name()
	}
	resp.AddPayload(mc.RespEndGame{
		Winner:            winner,
		PlayerMatchStatus: game.MatchStatus(human),
	})
	return resp
}

// HandleRematch drops the current game and starts a fresh one with the same
// player name and grid size.
func (r Request) HandleRematch(gm mb.GameManager, game *mb.Game, human *mb.Player) (*mb.Game, *mb.Player, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeRematch)

	newGame, err := gm.CreateGame(human.Name(), human.Board().GridSize())
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrCreateGame)
		return nil, nil, resp
	}
	gm.TerminateGame(game.Uuid())

	newHuman := newGame.FetchPlayer(false)
	resp.AddPayload(mc.NewRespCreateGame(newGame, newHuman))
	return newGame, newHuman, resp
}
