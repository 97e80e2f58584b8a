package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	defaultGracePeriod     time.Duration = time.Minute * 2
	defaultCleanupInterval time.Duration = time.Minute * 20
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) error
	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	CleanupPeriodically(ctx context.Context)
	CountSessions() int
}

type BattleshipSessionManager struct {
	gracePeriod     time.Duration
	cleanupInterval time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

type SessionManagerOption func(*BattleshipSessionManager)

// WithGracePeriod sets how long a session with a running game waits for
// its client to come back after an abnormal closure.
func WithGracePeriod(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.gracePeriod = d
	}
}

// WithCleanupInterval sets both the sweep period and the idle time after
// which a session is dropped.
func WithCleanupInterval(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.cleanupInterval = d
	}
}

func NewBattleshipSessionManager(opts ...SessionManagerOption) *BattleshipSessionManager {
	initMapSize := 10

	bsm := &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		gracePeriod:     defaultGracePeriod,
		cleanupInterval: defaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(bsm)
	}
	return bsm
}

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	// URL compatible so clients can pass it back as a query param
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFoundId(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()
	log.Info("session terminated", "session", sessionId)
}

func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) error {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return err
	}

	session.replaceConn(conn)
	log.Info("session reconnected", "session", sessionId, "remote", conn.RemoteAddr().String())
	return nil
}

func (bsm *BattleshipSessionManager) CountSessions() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// To ensure that there is no dangling connections, sessions that have been
// idle for longer than the cleanup interval are closed and removed.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bsm.cleanupIdleSessions()
		}
	}
}

func (bsm *BattleshipSessionManager) cleanupIdleSessions() {
	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	for id, session := range bsm.sessions {
		if session.idleFor() <= bsm.cleanupInterval {
			continue
		}
		if conn := session.Conn(); conn != nil {
			_ = conn.Close()
		}
		delete(bsm.sessions, id)
		log.Info("removed idle session", "session", id)
	}
}

// This function takes care of abnormal closures of a client.
// This happens due to backgrounding in mobile clients or any
// other unexpected reasons for web apps. gen is the generation
// of the conn that failed; if a reconnect already replaced it
// there is nothing to wait for. A session without a game has
// nothing worth waiting for either.
func (bsm *BattleshipSessionManager) HandleAbnormalClosureSession(s *Session, gen uint64) error {
	reconnected, waiting := s.reconnectionSignal(gen)
	if !waiting {
		log.Info("connection already replaced", "session", s.id)
		return nil
	}

	gameUuid := s.GameUuid()
	if gameUuid == "" {
		return NewConnErr(ConnLoopBreak).AddDesc("no game in session")
	}

	timer := time.NewTimer(bsm.gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		log.Info("grace period is over", "session", s.id)
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

	case <-reconnected:
		log.Info("player reconnected", "session", s.id, "game", gameUuid)
		return nil
	}
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	_, gen := session.connection()
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		return nil
	}

	if code, ok := LoopCode(err); ok && code == ConnLoopAbnormalClosureRetry {
		if err := bsm.HandleAbnormalClosureSession(session, gen); err != nil {
			return err
		}
		// the message was lost with the old connection
		return session.writeToConnWithRetry(msg, msgType)
	}
	return err
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		conn, gen := session.connection()
		messageType, payload, err := conn.ReadMessage()
		if err == nil {
			session.touch()
			return messageType, payload, nil
		}

		// A reconnect closed the conn under us; read from the new one
		if _, current := session.connection(); current != gen {
			log.Debug("read moved to replaced connection", "session", session.id, "generation", current)
			retries = 0
			continue
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			if err := bsm.HandleAbnormalClosureSession(session, gen); err != nil {
				return -1, []byte{}, err
			}
			retries = 0

		default:
			return -1, []byte{}, err
		}
	}
}

// FetchCodeFromMsg reads the "code" field of an incoming message. A missing
// or null code is an error, never CodeSessionID.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}
	if signal.Code == nil {
		return randomInvalidCode, cerr.ErrCodeAbsent
	}

	return *signal.Code, nil
}
