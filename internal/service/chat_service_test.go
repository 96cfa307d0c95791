package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/cache"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/config"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/hub"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/repository"
)

// missCache always misses, so service tests read straight from sqlite.
type missCache struct{}

func (missCache) Get(ctx context.Context) ([]domain.ChatSession, error) {
	return nil, cache.ErrCacheMiss
}

func (missCache) Set(ctx context.Context, sessions []domain.ChatSession, ttl time.Duration) error {
	return nil
}

func (missCache) Invalidate(ctx context.Context) error { return nil }

func testWSConfig() config.WebSocketConfig {
	return config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	}
}

func newTestService(t *testing.T) (ChatService, *hub.Hub) {
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

	h := hub.NewHub(testWSConfig())
	go h.Run()

	svc := NewChatService(repository.NewGormChatRepository(db), h, missCache{}, time.Second, nil)
	return svc, h
}

func registerClient(t *testing.T, h *hub.Hub, id string) *hub.Client {
	t.Helper()

	c := hub.NewClient(id, h, nil, testWSConfig())
	before := h.ClientCount()
	h.Register(c)

	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != before+1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return c
}

func recvEvent(t *testing.T, c *hub.Client, out interface{}) {
	t.Helper()
	select {
	case data := <-c.Send:
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered")
	}
}

func TestSubmitMessageFansOut(t *testing.T) {
	svc, h := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateSession(ctx, &domain.CreateSessionRequest{ID: "abc", Username: "alice"}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	visitor := registerClient(t, h, "v1")
	admin := registerClient(t, h, "a1")
	if err := svc.HandleJoinSession(ctx, visitor, "abc"); err != nil {
		t.Fatalf("join session: %v", err)
	}
	h.MarkAdmin(admin)

	// Drain the session_joined confirmation.
	var joined domain.SessionJoinedMessage
	recvEvent(t, visitor, &joined)
	if joined.Type != domain.MsgTypeSessionJoined || joined.SessionID != "abc" {
		t.Fatalf("unexpected join confirmation: %+v", joined)
	}

	msg, err := svc.SubmitMessage(ctx, &domain.SubmitMessageRequest{
		SessionID: "abc",
		Username:  "alice",
		Message:   "hi",
	})
	if err != nil {
		t.Fatalf("submit message: %v", err)
	}

	var fromVisitor, fromAdmin domain.NewMessageEvent
	recvEvent(t, visitor, &fromVisitor)
	recvEvent(t, admin, &fromAdmin)

	for name, evt := range map[string]domain.NewMessageEvent{"visitor": fromVisitor, "admin": fromAdmin} {
		if evt.Type != domain.MsgTypeNewMessage {
			t.Errorf("%s got type %q", name, evt.Type)
		}
		if evt.Payload.ID != msg.ID || evt.Payload.Message != "hi" {
			t.Errorf("%s payload mismatch: %+v", name, evt.Payload)
		}
	}

	// Broadcast payload equals what history returns.
	history, err := svc.History(ctx, "abc", 50)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != msg.ID || history[0].Message != "hi" {
		t.Fatalf("history does not match broadcast: %+v", history)
	}
}

func TestSubmitMessageUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SubmitMessage(context.Background(), &domain.SubmitMessageRequest{
		SessionID: "missing",
		Username:  "alice",
		Message:   "hi",
	})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmitMessageEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateSession(ctx, &domain.CreateSessionRequest{ID: "abc", Username: "alice"}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	_, err := svc.SubmitMessage(ctx, &domain.SubmitMessageRequest{
		SessionID: "abc",
		Username:  "alice",
		Message:   "   ",
	})
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}

	history, err := svc.History(ctx, "abc", 50)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("blank message was persisted: %+v", history)
	}
}

func TestDeleteSessionNotifiesAdmins(t *testing.T) {
	svc, h := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateSession(ctx, &domain.CreateSessionRequest{ID: "abc", Username: "alice"}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	admin := registerClient(t, h, "a1")
	h.MarkAdmin(admin)

	if err := svc.DeleteSession(ctx, "abc"); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	var evt domain.SessionDeletedEvent
	recvEvent(t, admin, &evt)
	if evt.Type != domain.MsgTypeSessionDeleted || evt.SessionID != "abc" {
		t.Fatalf("unexpected deletion event: %+v", evt)
	}

	// Only one notification per admin.
	select {
	case data := <-admin.Send:
		t.Fatalf("admin received extra frame: %s", data)
	case <-time.After(50 * time.Millisecond):
	}

	if err := svc.DeleteSession(ctx, "abc"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestAdminJoinReceivesSnapshot(t *testing.T) {
	svc, h := newTestService(t)
	ctx := context.Background()

	for _, id := range []string{"s1", "s2"} {
		if _, err := svc.CreateSession(ctx, &domain.CreateSessionRequest{ID: id, Username: "alice"}); err != nil {
			t.Fatalf("create session %s: %v", id, err)
		}
	}

	admin := registerClient(t, h, "a1")
	if err := svc.HandleAdminJoin(ctx, admin, ""); err != nil {
		t.Fatalf("admin join: %v", err)
	}

	var evt domain.AdminSessionsEvent
	recvEvent(t, admin, &evt)
	if evt.Type != domain.MsgTypeAdminSessions {
		t.Fatalf("unexpected event type %q", evt.Type)
	}
	if len(evt.Payload) != 2 {
		t.Fatalf("snapshot has %d sessions, want 2", len(evt.Payload))
	}

	// Snapshot, not subscription: a session created afterwards is not
	// pushed to the already-joined admin.
	if _, err := svc.CreateSession(ctx, &domain.CreateSessionRequest{ID: "s3", Username: "bob"}); err != nil {
		t.Fatalf("create session s3: %v", err)
	}
	select {
	case data := <-admin.Send:
		t.Fatalf("admin received unsolicited frame: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandleChatMessageReportsErrors(t *testing.T) {
	svc, h := newTestService(t)
	ctx := context.Background()

	client := registerClient(t, h, "v1")

	if err := svc.HandleChatMessage(ctx, client, &domain.SubmitMessageRequest{
		SessionID: "missing",
		Username:  "alice",
		Message:   "hi",
	}); err != nil {
		t.Fatalf("handle chat message: %v", err)
	}

	var evt domain.ErrorMessage
	recvEvent(t, client, &evt)
	if evt.Type != domain.MsgTypeError || evt.Code != domain.ErrCodeSessionNotFound {
		t.Fatalf("unexpected error event: %+v", evt)
	}
}
