package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-solo/db/sqlc"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

var upgrader = websocket.Upgrader{
	// good average time since this is not a high-latency operation such as video streaming
	HandshakeTimeout: time.Second * 5,

	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager

	// may be nil
	analytics *sqlc.AnalyticsManager
	ipnet     net.IPNet
	gridSize  int
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	analytics *sqlc.AnalyticsManager,
	gridSize int,
) RequestProcessor {
	if gridSize <= 0 {
		gridSize = mb.DefaultGridSize
	}

	rp := RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		analytics:      analytics,
		gridSize:       gridSize,
	}
	rp.ipnet = mustGetServerIpNet()
	return rp
}

// The first up, non loopback IPv4 address identifies this server in the
// analytics table. Machines without one are recorded as loopback.
func mustGetServerIpNet() net.IPNet {
	loopback := net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(32, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Warn("failed to list network interfaces", "err", err)
		return loopback
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			log.Warn("failed to read interface addresses", "iface", iface.Name, "err", err)
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipnet.IP.To4(); ip4 != nil && !ip4.IsLoopback() {
				return net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}
			}
		}
	}

	return loopback
}

// Expose this method to use it in testing
func (rp RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("failed to upgrade connection", "remote", r.RemoteAddr, "err", err)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	if sessionIdQuery == "" {
		log.Info("new connection established", "remote", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))
		return
	}

	// The first session loop picks up the new connection.
	if err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
		log.Warn("reconnection rejected", "session", sessionIdQuery, "err", err)
		_ = conn.WriteJSON(mc.NewErrMessage(mc.CodeReceivedInvalidSessionID, err.Error(), "invalid session id"))
		_ = conn.Close()
	}
}

func (rp RequestProcessor) recordAnalytics(name string, record func(ctx context.Context, inet pqtype.Inet) error) {
	if !rp.analytics.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	// a failing counter never ends a game
	if err := record(ctx, pqtype.Inet{IPNet: rp.ipnet, Valid: true}); err != nil {
		log.Error("failed to record analytics", "counter", name, "err", err)
	}
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()

	defer func() {
		if gameUuid := session.GameUuid(); gameUuid != "" {
			rp.gameManager.TerminateGame(gameUuid)
		}
		if conn := session.Conn(); conn != nil {
			_ = conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// retries were exhausted or the client is gone for good
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewErrMessage(mc.CodeSignalAbsent, err.Error(), "incoming req payload must contain 'code' field")
			if err := rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		game, human := rp.sessionGame(session)
		req := NewRequest(payload)

		switch code {
		case mc.CodeCreateGame:
			// a second create replaces the running game
			if game != nil {
				rp.gameManager.TerminateGame(game.Uuid())
			}

			newGame, newHuman, respMsg := req.HandleCreateGame(rp.gameManager, rp.gridSize)
			if !respMsg.Failed() {
				session.SetGame(newGame.Uuid(), newHuman.Uuid())
				rp.recordAnalytics("games_created", rp.analytics.IncrementGamesCreatedCount)
				log.Info("game created", "session", sessionId, "game", newGame.Uuid(), "games", rp.gameManager.CountGames())
			} else if game != nil {
				session.ClearGame()
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodeAttack:
			if game == nil {
				if err := rp.writeGameNotCreated(session); err != nil {
					break sessionLoop
				}
				continue sessionLoop
			}

			respMsg, completed := req.HandleAttack(game, human)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

			if completed {
				autoMsg, err := req.HandleAutomatedAttack(game, human)
				if err != nil {
					log.Error("automated turn failed", "session", sessionId, "game", game.Uuid(), "err", err)
					break sessionLoop
				}
				if err := rp.sessionManager.WriteToSessionConn(session, autoMsg, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
			}

			// attacks on a finished game are rejected, so this runs once per game
			if !respMsg.Failed() && game.IsGameOver() {
				playerWon := game.CheckWinner() == human
				rp.recordAnalytics("games_finished", func(ctx context.Context, inet pqtype.Inet) error {
					return rp.analytics.IncrementGamesFinishedCount(ctx, inet, playerWon)
				})

				if err := rp.sessionManager.WriteToSessionConn(session, req.HandleEndGame(game, human), mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
			}

		case mc.CodeFetchGrids:
			if game == nil {
				if err := rp.writeGameNotCreated(session); err != nil {
					break sessionLoop
				}
				continue sessionLoop
			}

			if err := rp.sessionManager.WriteToSessionConn(session, req.HandleFetchGrids(game, human), mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		case mc.CodeRematch:
			if game == nil {
				if err := rp.writeGameNotCreated(session); err != nil {
					break sessionLoop
				}
				continue sessionLoop
			}

			newGame, newHuman, respMsg := req.HandleRematch(rp.gameManager, game, human)
			if !respMsg.Failed() {
				session.SetGame(newGame.Uuid(), newHuman.Uuid())
				rp.recordAnalytics("rematch_called", rp.analytics.IncrementRematchCalledCount)
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		default:
			respInvalidSignal := mc.NewErrMessage(mc.CodeInvalidSignal, "", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
		}
	}
}

// sessionGame resolves the session's game through the game registry. A game
// that left the registry is dropped from the session.
func (rp RequestProcessor) sessionGame(session *mc.Session) (*mb.Game, *mb.Player) {
	gameUuid := session.GameUuid()
	if gameUuid == "" {
		return nil, nil
	}

	game, err := rp.gameManager.FetchGame(gameUuid)
	if err != nil {
		log.Warn("session game is gone", "session", session.Id(), "err", err)
		session.ClearGame()
		return nil, nil
	}

	human, err := game.FindPlayer(session.PlayerUuid())
	if err != nil {
		log.Error("session player is not in its game", "session", session.Id(), "err", err)
		session.ClearGame()
		return nil, nil
	}
	return game, human
}

func (rp RequestProcessor) writeGameNotCreated(session *mc.Session) error {
	msg := mc.NewErrMessage(mc.CodeGameNotCreated, "", "create a game first")
	return rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON)
}
