package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/audit"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/service"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/middleware"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/response"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// ChatHandler is the synchronous HTTP surface of the relay: session
// bootstrap and a fallback message path that triggers the same
// broadcast as the WebSocket path.
type ChatHandler struct {
	chatService    service.ChatService
	authMiddleware *middleware.AuthMiddleware
}

func NewChatHandler(chatService service.ChatService, authMiddleware *middleware.AuthMiddleware) *ChatHandler {
	return &ChatHandler{
		chatService:    chatService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all chat routes.
func (h *ChatHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1/chat")
	{
		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions/:id/messages", h.GetMessages)
		api.POST("/messages", h.SubmitMessage)

		api.GET("/sessions", h.authMiddleware.RequireAdmin(), h.ListSessions)
		api.DELETE("/sessions/:id", h.authMiddleware.RequireAdmin(), h.DeleteSession)
	}
}

// CreateSession creates a new chat session.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req domain.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	session, err := h.chatService.CreateSession(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrSessionExists) {
			response.Conflict(c, "session already exists")
			return
		}
		response.InternalError(c, "failed to create session")
		return
	}

	response.Created(c, session)
}

// ListSessions returns all sessions, most recently active first.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	sessions, err := h.chatService.ListSessions(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to list sessions")
		return
	}
	response.Success(c, sessions)
}

// GetMessages returns a session's history in chronological order.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	sessionID := c.Param("id")

	limit := defaultHistoryLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			response.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}
	}

	messages, err := h.chatService.History(c.Request.Context(), sessionID, limit)
	if err != nil {
		response.InternalError(c, "failed to load history")
		return
	}
	response.Success(c, messages)
}

// SubmitMessage persists a message and broadcasts it, same as the
// WebSocket path.
func (h *ChatHandler) SubmitMessage(c *gin.Context) {
	var req domain.SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.chatService.SubmitMessage(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			response.BadRequest(c, "message must not be empty")
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, "session does not exist")
		default:
			response.InternalError(c, "failed to submit message")
		}
		return
	}

	response.Created(c, msg)
}

// DeleteSession cascades a session delete and notifies admins.
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	if err := h.chatService.DeleteSession(ctx, sessionID); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.NotFound(c, "session does not exist")
			return
		}
		response.InternalError(c, "failed to delete session")
		return
	}

	audit.LogWithDetail(ctx, audit.ActionDeleteChatSession, middleware.GetUserID(c), sessionID, "chat session deleted")
	response.Success(c, gin.H{"id": sessionID})
}
