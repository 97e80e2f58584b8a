package connection

// NoPayload is the payload type of messages that only carry a code.
type NoPayload bool

// Message is the envelope of every frame in both directions.
type Message[T any] struct {
	Code    uint8    `json:"code"`
	Payload T        `json:"payload,omitempty"`
	Error   *RespErr `json:"error,omitempty"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewMessage[T any](code uint8) Message[T] {
	return Message[T]{Code: code}
}

// NewErrMessage is a payload-less reply that only reports a failure.
func NewErrMessage(code uint8, errorDetails, message string) Message[NoPayload] {
	msg := NewMessage[NoPayload](code)
	msg.AddError(errorDetails, message)
	return msg
}

func (m *Message[T]) AddPayload(payload T) {
	m.Payload = payload
}

func (m *Message[T]) AddError(errorDetails, message string) {
	m.Error = &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}

func (m Message[T]) Failed() bool {
	return m.Error != nil
}
