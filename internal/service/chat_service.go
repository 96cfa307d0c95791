package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/cache"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/hub"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/repository"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/log"
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	ErrSessionExists   = errors.New("chat session already exists")
	ErrEmptyMessage    = errors.New("message must not be empty")
)

const sessionListKey = "chat:sessions"

type chatService struct {
	repo     repository.ChatRepository
	hub      *hub.Hub
	cache    cache.SessionListCache
	cacheTTL time.Duration
	auth     AuthService
	sf       singleflight.Group

	// submitMu serializes persist-then-broadcast so delivery order
	// within a session matches persistence order.
	submitMu sync.Mutex
}

// NewChatService creates the relay service. auth may be nil when admin
// join does not carry a token.
func NewChatService(
	repo repository.ChatRepository,
	h *hub.Hub,
	sessionCache cache.SessionListCache,
	cacheTTL time.Duration,
	auth AuthService,
) ChatService {
	return &chatService{
		repo:     repo,
		hub:      h,
		cache:    sessionCache,
		cacheTTL: cacheTTL,
		auth:     auth,
	}
}

// CreateSession creates a session with a visitor-supplied id. Admins
// connected at this point are not notified; they see the session on
// their next snapshot.
func (s *chatService) CreateSession(ctx context.Context, req *domain.CreateSessionRequest) (*domain.ChatSession, error) {
	session := &domain.ChatSession{
		ID:       req.ID,
		Username: req.Username,
		IsActive: true,
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		if errors.Is(err, repository.ErrSessionExists) {
			return nil, ErrSessionExists
		}
		return nil, err
	}

	s.invalidateSessionList(ctx)
	return session, nil
}

// SubmitMessage persists one inbound message and fans it out to every
// connection bound to the session plus every admin. The sender receives
// its own echo; duplicate suppression is the client's job.
func (s *chatService) SubmitMessage(ctx context.Context, req *domain.SubmitMessageRequest) (*domain.ChatMessage, error) {
	l := log.Ctx(ctx)

	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	s.submitMu.Lock()
	msg, err := s.repo.CreateMessage(ctx, req)
	if err != nil {
		s.submitMu.Unlock()
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if err := s.hub.BroadcastToSession(msg.SessionID, &domain.NewMessageEvent{
		Type:    domain.MsgTypeNewMessage,
		Payload: *msg,
	}); err != nil {
		// Persistence already succeeded; delivery is best effort.
		l.Warn().Err(err).Str(log.FieldSessionID, msg.SessionID).Msg("failed to broadcast chat message")
	}
	s.submitMu.Unlock()

	s.invalidateSessionList(ctx)
	return msg, nil
}

// History returns the newest limit messages of a session, oldest first.
func (s *chatService) History(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	return s.repo.ListMessages(ctx, sessionID, limit)
}

// ListSessions returns all sessions, most recently active first. Reads
// go through the Redis snapshot; concurrent misses collapse into one
// database query.
func (s *chatService) ListSessions(ctx context.Context) ([]domain.ChatSession, error) {
	result, err, _ := s.sf.Do(sessionListKey, func() (interface{}, error) {
		cached, err := s.cache.Get(ctx)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("session list cache get error")
		}

		sessions, err := s.repo.ListSessions(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := s.cache.Set(cacheCtx, sessions, s.cacheTTL); err != nil {
				l := log.L()
				l.Warn().Err(err).Msg("session list cache set error")
			}
		}()

		return sessions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.ChatSession), nil
}

// DeleteSession removes a session and its messages atomically, then
// notifies every connected admin exactly once.
func (s *chatService) DeleteSession(ctx context.Context, id string) error {
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	s.invalidateSessionList(ctx)

	if err := s.hub.BroadcastToAdmins(&domain.SessionDeletedEvent{
		Type:      domain.MsgTypeSessionDeleted,
		SessionID: id,
	}); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldSessionID, id).Msg("failed to broadcast session deletion")
	}
	return nil
}

// HandleJoinSession binds the connection to a session and confirms. The
// binding is client-held state; rebinding after a reconnect replaces
// any previous binding without renegotiation.
func (s *chatService) HandleJoinSession(ctx context.Context, c *hub.Client, sessionID string) error {
	if sessionID == "" {
		return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "session_id is required"))
	}

	s.hub.BindSession(c, sessionID)

	return c.SendMessage(&domain.SessionJoinedMessage{
		Type:      domain.MsgTypeSessionJoined,
		SessionID: sessionID,
	})
}

// HandleChatMessage runs the router for a WS-submitted message and
// reports failures back on the submitting connection. Nothing here is
// fatal to the connection or the process.
func (s *chatService) HandleChatMessage(ctx context.Context, c *hub.Client, req *domain.SubmitMessageRequest) error {
	_, err := s.SubmitMessage(ctx, req)
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeEmptyMessage, "message must not be empty"))
	case errors.Is(err, ErrSessionNotFound):
		return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeSessionNotFound, "session does not exist"))
	case err != nil:
		return c.SendMessage(domain.NewErrorMessage(domain.ErrCodeInternalError, "failed to submit message"))
	}
	return nil
}

// HandleAdminJoin marks the connection as admin and pushes one
// session-list snapshot. It is a snapshot, not a subscription: sessions
// created later are not pushed to already-connected admins.
func (s *chatService) HandleAdminJoin(ctx context.Context, c *hub.Client, token string) error {
	if token != "" && s.auth != nil {
		if err := s.auth.ValidateAccessToken(token); err != nil {
			c.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "invalid admin token"))
			return err
		}
	}

	s.hub.MarkAdmin(c)

	sessions, err := s.ListSessions(ctx)
	if err != nil {
		c.SendMessage(domain.NewErrorMessage(domain.ErrCodeInternalError, "failed to load sessions"))
		return err
	}

	return c.SendMessage(&domain.AdminSessionsEvent{
		Type:    domain.MsgTypeAdminSessions,
		Payload: sessions,
	})
}

func (s *chatService) invalidateSessionList(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("session list cache invalidate error")
	}
}
