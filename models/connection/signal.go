package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeCreateGame
	CodeAttack

	// The computer fired back; sent by the server only
	CodeAutomatedAttack

	CodeFetchGrids
	CodeEndGame

	// Throw the finished game away and start another one
	// with the same player name and grid size
	CodeRematch

	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent

	// Attack or grid request before any game was created
	CodeGameNotCreated
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
