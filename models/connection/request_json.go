package connection

type ReqCreateGame struct {
	PlayerName string `json:"player_name"`

	// zero picks the server default
	GridSize int `json:"grid_size"`
}

type ReqAttack struct {
	X int `json:"x"`
	Y int `json:"y"`
}
