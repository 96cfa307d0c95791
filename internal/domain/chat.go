package domain

import "time"

// ChatSession is a single visitor's support conversation. The id is opaque
// and generated by the visitor's client, so reconnects can rebind to it.
type ChatSession struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	IsActive      bool      `json:"is_active"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChatMessage is one immutable message inside a session. The id and
// created_at are assigned by the store.
type ChatMessage struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    *int64    `json:"user_id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSessionRequest represents a create session request.
type CreateSessionRequest struct {
	ID       string `json:"id" binding:"required,min=1,max=64"`
	Username string `json:"username" binding:"required,min=1,max=50"`
	IsActive bool   `json:"is_active"`
}

// SubmitMessageRequest is an inbound chat message before persistence.
type SubmitMessageRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	UserID    *int64 `json:"user_id"`
	Username  string `json:"username" binding:"required"`
	Message   string `json:"message" binding:"required"`
	IsAdmin   bool   `json:"is_admin"`
}
