package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type RespShip struct {
	Name        string           `json:"name"`
	Length      int              `json:"length"`
	Orientation string           `json:"orientation"`
	Coordinates []mb.Coordinates `json:"coordinates"`
	IsSunk      bool             `json:"is_sunk"`
}

func NewRespShip(ship *mb.Ship) RespShip {
	return RespShip{
		Name:        ship.Name(),
		Length:      ship.Length(),
		Orientation: ship.Orientation().String(),
		Coordinates: ship.Coordinates(),
		IsSunk:      ship.IsSunk(),
	}
}

type RespCreateGame struct {
	GameUuid   string     `json:"game_uuid"`
	PlayerUuid string     `json:"player_uuid"`
	GridSize   int        `json:"grid_size"`
	Ships      []RespShip `json:"ships"`
	IsTurn     bool       `json:"is_turn"`
}

func NewRespCreateGame(game *mb.Game, player *mb.Player) RespCreateGame {
	ships := make([]RespShip, 0, len(player.Board().Ships()))
	for _, ship := range player.Board().Ships() {
		ships = append(ships, NewRespShip(ship))
	}

	return RespCreateGame{
		GameUuid:   game.Uuid(),
		PlayerUuid: player.Uuid(),
		GridSize:   player.Board().GridSize(),
		Ships:      ships,
		IsTurn:     game.ActivePlayer() == player,
	}
}

// Same shape for the human's attack and the computer's reply. IsTurn and
// the sunken ship counters are always from the human's point of view.
type RespAttack struct {
	X                   int       `json:"x"`
	Y                   int       `json:"y"`
	Outcome             string    `json:"outcome"`
	SunkShip            *RespShip `json:"sunk_ship,omitempty"`
	IsTurn              bool      `json:"is_turn"`
	SunkenShipsPlayer   int       `json:"sunken_ships_player"`
	SunkenShipsComputer int       `json:"sunken_ships_computer"`
}

func NewRespAttack(game *mb.Game, human *mb.Player, result mb.AttackResult) RespAttack {
	resp := RespAttack{
		X:                   result.Coordinates.X,
		Y:                   result.Coordinates.Y,
		Outcome:             result.Outcome.String(),
		IsTurn:              !game.IsGameOver() && game.ActivePlayer() == human,
		SunkenShipsPlayer:   human.Board().SunkenShips(),
		SunkenShipsComputer: game.Opponent(human).Board().SunkenShips(),
	}

	if result.SunkShip != nil {
		sunk := NewRespShip(result.SunkShip)
		resp.SunkShip = &sunk
	}
	return resp
}

// Grids are sent as plain ints; a []uint8 based type would be base64 encoded.
type RespGrids struct {
	OwnGrid      [][]int `json:"own_grid"`
	OpponentGrid [][]int `json:"opponent_grid"`
}

func NewRespGrids(game *mb.Game, viewer *mb.Player) RespGrids {
	return RespGrids{
		OwnGrid:      gridToInts(game.VisibleGrid(viewer, viewer.Board())),
		OpponentGrid: gridToInts(game.VisibleGrid(viewer, game.Opponent(viewer).Board())),
	}
}

func gridToInts(grid mb.Grid) [][]int {
	out := make([][]int, len(grid))
	for y, row := range grid {
		out[y] = make([]int, len(row))
		for x, state := range row {
			out[y][x] = int(state)
		}
	}
	return out
}

type RespEndGame struct {
	Winner            string `json:"winner"`
	PlayerMatchStatus int    `json:"player_match_status"`
}

type RespSessionId struct {
	SessionID string `json:"session_id"`
}
