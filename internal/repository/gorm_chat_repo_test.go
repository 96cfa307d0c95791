package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&domain.ChatSessionModel{}, &domain.ChatMessageModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreateSession(t *testing.T, repo *GormChatRepository, id, username string) *domain.ChatSession {
	t.Helper()

	session := &domain.ChatSession{ID: id, Username: username, IsActive: true}
	if err := repo.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("create session %q: %v", id, err)
	}
	return session
}

func TestCreateSessionDuplicateID(t *testing.T) {
	repo := NewGormChatRepository(newTestDB(t))

	mustCreateSession(t, repo, "abc", "alice")

	err := repo.CreateSession(context.Background(), &domain.ChatSession{ID: "abc", Username: "mallory"})
	if !errors.Is(err, ErrSessionExists) {
		t.Fatalf("expected ErrSessionExists, got %v", err)
	}

	// The original session is untouched.
	got, err := repo.GetSession(context.Background(), "abc")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("expected username alice, got %q", got.Username)
	}
}

func TestCreateMessageUnknownSession(t *testing.T) {
	repo := NewGormChatRepository(newTestDB(t))

	_, err := repo.CreateMessage(context.Background(), &domain.SubmitMessageRequest{
		SessionID: "missing",
		Username:  "alice",
		Message:   "hello",
	})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestListMessagesChronological(t *testing.T) {
	repo := NewGormChatRepository(newTestDB(t))
	ctx := context.Background()

	mustCreateSession(t, repo, "abc", "alice")

	for i := 0; i < 5; i++ {
		_, err := repo.CreateMessage(ctx, &domain.SubmitMessageRequest{
			SessionID: "abc",
			Username:  "alice",
			Message:   fmt.Sprintf("msg-%d", i),
		})
		if err != nil {
			t.Fatalf("create message %d: %v", i, err)
		}
	}

	messages, err := repo.ListMessages(ctx, "abc", 50)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(messages))
	}
	for i, msg := range messages {
		if want := fmt.Sprintf("msg-%d", i); msg.Message != want {
			t.Errorf("messages[%d] = %q, want %q", i, msg.Message, want)
		}
	}
	for i := 1; i < len(messages); i++ {
		if messages[i].ID <= messages[i-1].ID {
			t.Errorf("ids not ascending: %d after %d", messages[i].ID, messages[i-1].ID)
		}
	}
}

func TestListMessagesLimitKeepsNewest(t *testing.T) {
	repo := NewGormChatRepository(newTestDB(t))
	ctx := context.Background()

	mustCreateSession(t, repo, "abc", "alice")

	for i := 0; i < 10; i++ {
		if _, err := repo.CreateMessage(ctx, &domain.SubmitMessageRequest{
			SessionID: "abc",
			Username:  "alice",
			Message:   fmt.Sprintf("msg-%d", i),
		}); err != nil {
			t.Fatalf("create message %d: %v", i, err)
		}
	}

	messages, err := repo.ListMessages(ctx, "abc", 3)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	// Newest three, still oldest first.
	for i, want := range []string{"msg-7", "msg-8", "msg-9"} {
		if messages[i].Message != want {
			t.Errorf("messages[%d] = %q, want %q", i, messages[i].Message, want)
		}
	}
}

func TestCreateMessageBumpsLastMessageAt(t *testing.T) {
	repo := NewGormChatRepository(newTestDB(t))
	ctx := context.Background()

	mustCreateSession(t, repo, "abc", "alice")
	mustCreateSession(t, repo, "def", "bob")

	// Writing into "abc" must move it ahead of "def" in the list.
	msg, err := repo.CreateMessage(ctx, &domain.SubmitMessageRequest{
		SessionID: "abc",
		Username:  "alice",
		Message:   "hello",
	})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	got, err := repo.GetSession(ctx, "abc")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.LastMessageAt.Before(msg.CreatedAt) {
		t.Fatalf("last_message_at %v fell behind message created_at %v", got.LastMessageAt, msg.CreatedAt)
	}

	sessions, err := repo.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "abc" {
		t.Fatalf("expected abc first after new message, got %q", sessions[0].ID)
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	repo := NewGormChatRepository(newTestDB(t))
	ctx := context.Background()

	mustCreateSession(t, repo, "abc", "alice")
	for i := 0; i < 3; i++ {
		if _, err := repo.CreateMessage(ctx, &domain.SubmitMessageRequest{
			SessionID: "abc",
			Username:  "alice",
			Message:   "hi",
		}); err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	if err := repo.DeleteSession(ctx, "abc"); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	if _, err := repo.GetSession(ctx, "abc"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}

	messages, err := repo.ListMessages(ctx, "abc", 50)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected 0 messages after cascade, got %d", len(messages))
	}
}

func TestDeleteSessionUnknownID(t *testing.T) {
	repo := NewGormChatRepository(newTestDB(t))

	err := repo.DeleteSession(context.Background(), "missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
