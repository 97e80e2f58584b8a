package connection

import (
	"errors"
	"fmt"
)

// What a session loop does after a websocket error.
const (
	ConnLoopBreak uint8 = iota
	ConnLoopRetry
	ConnLoopAbnormalClosureRetry
	ConnLoopContinue
	ConnInvalidMsgType
)

// ConnErr is a transport failure together with the loop decision it led to.
type ConnErr struct {
	code  uint8
	desc  string
	cause error
}

func NewConnErr(code uint8) ConnErr {
	return ConnErr{code: code}
}

func (c ConnErr) AddDesc(desc string) ConnErr {
	c.desc = desc
	return c
}

func (c ConnErr) WithCause(err error) ConnErr {
	c.cause = err
	return c
}

func (c ConnErr) Error() string {
	msg := fmt.Sprintf("connection error - %s", loopCodeName(c.code))
	if c.desc != "" {
		msg += ": " + c.desc
	}
	if c.cause != nil {
		msg += "\tcause: " + c.cause.Error()
	}
	return msg
}

func (c ConnErr) Unwrap() error {
	return c.cause
}

func (c ConnErr) Code() uint8 {
	return c.code
}

// LoopCode extracts the loop decision of err. Errors that are not a ConnErr
// are reported as not found.
func LoopCode(err error) (uint8, bool) {
	var connErr ConnErr
	if !errors.As(err, &connErr) {
		return ConnLoopBreak, false
	}
	return connErr.code, true
}

func loopCodeName(code uint8) string {
	switch code {
	case ConnLoopBreak:
		return "break"
	case ConnLoopRetry:
		return "retry"
	case ConnLoopAbnormalClosureRetry:
		return "abnormal closure"
	case ConnLoopContinue:
		return "continue"
	case ConnInvalidMsgType:
		return "invalid message type"
	default:
		return fmt.Sprintf("code %d", code)
	}
}
