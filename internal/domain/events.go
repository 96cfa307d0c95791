package domain

// WebSocket message types from client.
const (
	MsgTypeJoinSession = "join_session"
	MsgTypeChatMessage = "chat_message"
	MsgTypeAdminJoin   = "admin_join"
	MsgTypePing        = "ping"
)

// WebSocket message types to client.
const (
	MsgTypeSessionJoined  = "session_joined"
	MsgTypeNewMessage     = "new_message"
	MsgTypeAdminSessions  = "admin_sessions"
	MsgTypeSessionDeleted = "session_deleted"
	MsgTypeError          = "error"
	MsgTypePong           = "pong"
)

// Error codes
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeSessionNotFound = "SESSION_NOT_FOUND"
	ErrCodeEmptyMessage    = "EMPTY_MESSAGE"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

type JoinSessionMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

type ChatMessageEvent struct {
	Type    string               `json:"type"`
	Payload SubmitMessageRequest `json:"payload"`
}

type AdminJoinMessage struct {
	Type  string `json:"type"`
	Token string `json:"token,omitempty"`
}

// Server -> Client messages

type SessionJoinedMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

type NewMessageEvent struct {
	Type    string      `json:"type"`
	Payload ChatMessage `json:"payload"`
}

type AdminSessionsEvent struct {
	Type    string        `json:"type"`
	Payload []ChatSession `json:"payload"`
}

type SessionDeletedEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    MsgTypeError,
		Code:    code,
		Message: message,
	}
}
