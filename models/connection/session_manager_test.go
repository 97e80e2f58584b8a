package connection

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

func TestFetchCodeFromMsg(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		expectedCode uint8
		expectedErr  bool
		absent       bool
	}{
		{name: "attack", payload: `{"code":3,"payload":{"x":1,"y":2}}`, expectedCode: CodeAttack},
		{name: "session id code", payload: `{"code":0}`, expectedCode: CodeSessionID},
		{name: "no code field", payload: `{"payload":{}}`, expectedCode: 255, expectedErr: true, absent: true},
		{name: "null code", payload: `{"code":null}`, expectedCode: 255, expectedErr: true, absent: true},
		{name: "empty object", payload: `{}`, expectedCode: 255, expectedErr: true, absent: true},
		{name: "not json", payload: `attack`, expectedCode: 255, expectedErr: true},
		{name: "code out of range", payload: `{"code":300}`, expectedCode: 255, expectedErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, err := FetchCodeFromMsg([]byte(test.payload))
			if test.expectedErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			if test.absent {
				require.ErrorIs(t, err, cerr.ErrCodeAbsent)
			}
			require.Equal(t, test.expectedCode, code)
		})
	}
}

func TestConnErr(t *testing.T) {
	cause := errors.New("broken pipe")
	err := NewConnErr(ConnLoopBreak).AddDesc("write failed").WithCause(cause)

	require.Equal(t, ConnLoopBreak, err.Code())
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "write failed")
	require.Contains(t, err.Error(), "broken pipe")

	code, ok := LoopCode(error(err))
	require.True(t, ok)
	require.Equal(t, ConnLoopBreak, code)

	_, ok = LoopCode(cause)
	require.False(t, ok)

	require.NotContains(t, NewConnErr(ConnInvalidMsgType).Error(), "cause")
	require.Contains(t, NewConnErr(ConnInvalidMsgType).Error(), "invalid message type")
}

func TestSessionLifecycle(t *testing.T) {
	bsm := NewBattleshipSessionManager()

	session := bsm.GenerateNewSession(nil)
	require.NotEmpty(t, session.Id())
	require.Equal(t, 1, bsm.CountSessions())

	found, err := bsm.FindSession(session.Id())
	require.NoError(t, err)
	require.Same(t, session, found)

	bsm.TerminateSession(session.Id())
	require.Equal(t, 0, bsm.CountSessions())

	_, err = bsm.FindSession(session.Id())
	require.ErrorIs(t, err, cerr.ErrSessionNotFound)

	err = bsm.ReconnectSession(session.Id(), nil)
	require.ErrorIs(t, err, cerr.ErrSessionNotFound)
}

func TestCleanupIdleSessions(t *testing.T) {
	bsm := NewBattleshipSessionManager(WithCleanupInterval(time.Minute))

	idle := bsm.GenerateNewSession(nil)
	active := bsm.GenerateNewSession(nil)
	idle.lastActivity = time.Now().Add(-2 * time.Minute)

	bsm.cleanupIdleSessions()

	_, err := bsm.FindSession(idle.Id())
	require.Error(t, err)
	_, err = bsm.FindSession(active.Id())
	require.NoError(t, err)
}

func TestHandleAbnormalClosureSession(t *testing.T) {
	bsm := NewBattleshipSessionManager(WithGracePeriod(100 * time.Millisecond))

	t.Run("no game", func(t *testing.T) {
		session := bsm.GenerateNewSession(nil)
		_, gen := session.connection()

		err := bsm.HandleAbnormalClosureSession(session, gen)
		var connErr ConnErr
		require.ErrorAs(t, err, &connErr)
		require.Equal(t, ConnLoopBreak, connErr.Code())
	})

	t.Run("grace period over", func(t *testing.T) {
		session := bsm.GenerateNewSession(nil)
		session.SetGame("abc123", "player-uuid")
		_, gen := session.connection()

		start := time.Now()
		err := bsm.HandleAbnormalClosureSession(session, gen)
		require.Error(t, err)
		require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("reconnected in time", func(t *testing.T) {
		bsm := NewBattleshipSessionManager(WithGracePeriod(5 * time.Second))
		session := bsm.GenerateNewSession(nil)
		session.SetGame("abc123", "player-uuid")
		_, gen := session.connection()

		done := make(chan error, 1)
		go func() {
			done <- bsm.HandleAbnormalClosureSession(session, gen)
		}()

		time.Sleep(50 * time.Millisecond)
		session.replaceConn(nil)

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Fatal("reconnection was not signaled")
		}
	})

	t.Run("reconnected before waiting", func(t *testing.T) {
		bsm := NewBattleshipSessionManager(WithGracePeriod(5 * time.Second))
		session := bsm.GenerateNewSession(nil)
		_, gen := session.connection()

		// the client came back before the failure was handled
		session.replaceConn(nil)

		start := time.Now()
		require.NoError(t, bsm.HandleAbnormalClosureSession(session, gen))
		require.Less(t, time.Since(start), time.Second)

		_, current := session.connection()
		require.Equal(t, gen+1, current)
	})
}

func TestWriteInvalidMessageType(t *testing.T) {
	session := NewSession("test", nil)

	err := session.writeToConnWithRetry("not bytes", MessageTypeBytes)
	var connErr ConnErr
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, ConnInvalidMsgType, connErr.Code())

	err = session.writeToConnWithRetry(nil, 42)
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, ConnInvalidMsgType, connErr.Code())
}
