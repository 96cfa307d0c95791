package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/log"
)

// GormChatRepository implements ChatRepository using GORM.
type GormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository creates a new GORM-based chat repository.
func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{db: db}
}

// CreateSession creates a new session. The id is supplied by the visitor's
// client; a duplicate id is a store-level conflict.
func (r *GormChatRepository) CreateSession(ctx context.Context, session *domain.ChatSession) error {
	l := log.Ctx(ctx)

	now := time.Now()
	model := &domain.ChatSessionModel{
		ID:            session.ID,
		Username:      session.Username,
		IsActive:      session.IsActive,
		LastMessageAt: now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.ChatSessionModel
		result := tx.First(&existing, "id = ?", session.ID)
		if result.Error == nil {
			return ErrSessionExists
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
		return tx.Create(model).Error
	})
	if err != nil {
		if !errors.Is(err, ErrSessionExists) {
			l.Error().Err(err).Str(log.FieldSessionID, session.ID).Msg("failed to create chat session in db")
		}
		return err
	}

	session.LastMessageAt = model.LastMessageAt
	session.CreatedAt = model.CreatedAt
	l.Debug().Str(log.FieldSessionID, session.ID).Msg("chat session created in db")
	return nil
}

// GetSession retrieves a session by id.
func (r *GormChatRepository) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	var model domain.ChatSessionModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListSessions retrieves all sessions, most recently active first.
func (r *GormChatRepository) ListSessions(ctx context.Context) ([]domain.ChatSession, error) {
	l := log.Ctx(ctx)

	var models []domain.ChatSessionModel
	result := r.db.WithContext(ctx).Order("last_message_at DESC").Find(&models)
	if result.Error != nil {
		l.Error().Err(result.Error).Msg("failed to list chat sessions from db")
		return nil, result.Error
	}

	sessions := make([]domain.ChatSession, len(models))
	for i, model := range models {
		sessions[i] = *model.ToDomain()
	}
	return sessions, nil
}

// CreateMessage appends a message to its session and bumps the session's
// last_message_at, in one transaction. A message referencing an unknown
// session fails with ErrSessionNotFound and persists nothing.
func (r *GormChatRepository) CreateMessage(ctx context.Context, req *domain.SubmitMessageRequest) (*domain.ChatMessage, error) {
	l := log.Ctx(ctx)

	if strings.TrimSpace(req.Message) == "" {
		return nil, errors.New("message must not be empty")
	}

	model := &domain.ChatMessageModel{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Username:  req.Username,
		Message:   req.Message,
		IsAdmin:   req.IsAdmin,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session domain.ChatSessionModel
		if err := tx.First(&session, "id = ?", req.SessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		if err := tx.Create(model).Error; err != nil {
			return err
		}

		// last_message_at must never fall behind the newest message.
		return tx.Model(&domain.ChatSessionModel{}).
			Where("id = ?", req.SessionID).
			Update("last_message_at", model.CreatedAt).Error
	})
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			l.Error().Err(err).Str(log.FieldSessionID, req.SessionID).Msg("failed to create chat message in db")
		}
		return nil, err
	}

	return model.ToDomain(), nil
}

// ListMessages returns the newest limit messages for a session in
// chronological order, oldest first.
func (r *GormChatRepository) ListMessages(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	l := log.Ctx(ctx)

	if limit < 1 {
		limit = 50
	}

	// Take the newest page, then flip it back to chronological order.
	var models []domain.ChatMessageModel
	result := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldSessionID, sessionID).Msg("failed to list chat messages from db")
		return nil, result.Error
	}

	messages := make([]domain.ChatMessage, len(models))
	for i, model := range models {
		messages[len(models)-1-i] = *model.ToDomain()
	}
	return messages, nil
}

// DeleteSession removes all of a session's messages and then the session
// itself, all-or-nothing.
func (r *GormChatRepository) DeleteSession(ctx context.Context, id string) error {
	l := log.Ctx(ctx)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&domain.ChatMessageModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&domain.ChatSessionModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			l.Error().Err(err).Str(log.FieldSessionID, id).Msg("failed to delete chat session in db")
		}
		return err
	}

	l.Debug().Str(log.FieldSessionID, id).Msg("chat session deleted in db")
	return nil
}
