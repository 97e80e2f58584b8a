package connection

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	maxWriteWsRetries uint8 = 2
	backOffFactor     uint8 = 2
)

const (
	MessageTypeBytes uint8 = iota
	MessageTypeJSON
)

type ConnectionHandler interface {
	replaceConn(conn *websocket.Conn)
	handleReadFromConnErr(err error, retries uint8) uint8
	writeToConnWithRetry(msg interface{}, msgType uint8) error
	onConnErr(err error) uint8
}

// Session is one client connection and the game it plays. The connection
// can be swapped by a reconnect at any time; generation counts the swaps.
type Session struct {
	id                     string
	conn                   *websocket.Conn
	generation             uint64
	reconnectionSignalChan chan struct{}
	createdAt              time.Time
	lastActivity           time.Time

	// The game itself lives in the game manager
	gameUuid   string
	playerUuid string

	mu sync.Mutex
}

var _ ConnectionHandler = (*Session)(nil)

func NewSession(id string, conn *websocket.Conn) *Session {
	now := time.Now()
	return &Session{
		id:                     id,
		conn:                   conn,
		reconnectionSignalChan: make(chan struct{}),
		createdAt:              now,
		lastActivity:           now,
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// connection returns the current conn with its generation.
func (s *Session) connection() (*websocket.Conn, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn, s.generation
}

func (s *Session) GameUuid() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameUuid
}

// PlayerUuid is the human side of the session's game.
func (s *Session) PlayerUuid() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerUuid
}

func (s *Session) SetGame(gameUuid, playerUuid string) {
	s.mu.Lock()
	s.gameUuid = gameUuid
	s.playerUuid = playerUuid
	s.mu.Unlock()
}

func (s *Session) ClearGame() {
	s.SetGame("", "")
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActivity)
}

func (s *Session) remoteAddr() string {
	conn := s.Conn()
	if conn == nil {
		return ""
	}
	return conn.RemoteAddr().String()
}

func (s *Session) onConnErr(err error) uint8 {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Warn("timeout error", "session", s.id, "err", err)
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		log.Warn("high server load/traffic error", "session", s.id, "err", err)
		return ConnLoopRetry
	}

	// Happens if a mobile client goes to background
	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
		log.Warn("abnormal closure error", "session", s.id, "err", err)
		return ConnLoopAbnormalClosureRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		log.Info("close error", "session", s.id, "err", err)
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		log.Error("critical error", "session", s.id, "err", err)
		return ConnLoopBreak
	}

	/*
		Clients that send binary frames, invalid UTF-8 or oversized
		payloads are probably not ours. Breaking not to overwhelm the
		server with invalid payloads.
	*/
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		log.Warn("non-critical error", "session", s.id, "err", err)
		return ConnLoopBreak
	}

	log.Error("unexpected error", "session", s.id, "err", err)
	return ConnLoopBreak
}

// Writes to the connection of that session. It also
// handles the abnormal or other types of errors of
// writing to a websocket connection.
func (s *Session) writeToConnWithRetry(msg interface{}, msgType uint8) error {
	var retries uint8

	for {
		conn := s.Conn()
		var err error

		switch msgType {
		case MessageTypeJSON:
			err = conn.WriteJSON(msg)

		case MessageTypeBytes:
			respBytes, ok := msg.([]byte)
			if !ok {
				return NewConnErr(ConnInvalidMsgType).AddDesc("msg type expected: []byte got invalid")
			}
			err = conn.WriteMessage(websocket.TextMessage, respBytes)

		default:
			return NewConnErr(ConnInvalidMsgType).AddDesc("invalid message type to write with retry")
		}

		if err == nil {
			return nil
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries < maxWriteWsRetries {
				retries++
				log.Warn("writing to ws failed; retrying", "remote", s.remoteAddr(), "retry", retries)
				time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
				continue
			}
			log.Error("max retries reached for writing to ws", "remote", s.remoteAddr(), "err", err)
			return NewConnErr(ConnLoopBreak).WithCause(err)

		case ConnLoopAbnormalClosureRetry:
			return NewConnErr(ConnLoopAbnormalClosureRetry).WithCause(err)

		default:
			return NewConnErr(ConnLoopBreak).AddDesc("breaking write loop").WithCause(err)
		}
	}
}

// Handles the errors that occurs when reading from
// ws connection. `ConnLoopBreak` results in
// terminating the session.
func (s *Session) handleReadFromConnErr(err error, retries uint8) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopAbnormalClosureRetry:
		return ConnLoopAbnormalClosureRetry

	case ConnLoopRetry:
		if retries < maxWriteWsRetries {
			log.Warn("failed to read from ws conn; retrying", "remote", s.remoteAddr(), "retry", retries)
			time.Sleep(time.Duration((retries+1)*backOffFactor) * time.Second)
			return ConnLoopContinue
		}
		return ConnLoopBreak

	default:
		log.Info("break ws conn loop", "remote", s.remoteAddr(), "err", err)
		return ConnLoopBreak
	}
}

// reconnectionSignal returns a channel that the next reconnect closes. It
// returns false when the conn of generation gen was already replaced, so the
// caller must not wait.
func (s *Session) reconnectionSignal(gen uint64) (<-chan struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return nil, false
	}
	return s.reconnectionSignalChan, true
}

// replaceConn installs the conn of a reconnecting client. The old conn is
// closed so a loop blocked on it wakes up and moves to the new one.
func (s *Session) replaceConn(conn *websocket.Conn) {
	s.mu.Lock()
	old := s.conn

	// Signal for reconnection
	close(s.reconnectionSignalChan)

	s.conn = conn
	s.generation++
	s.lastActivity = time.Now()
	s.reconnectionSignalChan = make(chan struct{})
	s.mu.Unlock()

	if old != nil && old != conn {
		_ = old.Close()
	}
}
