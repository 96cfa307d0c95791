package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/cache"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/config"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/hub"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/repository"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/service"
)

type noopSessionCache struct{}

func (noopSessionCache) Get(ctx context.Context) ([]domain.ChatSession, error) {
	return nil, cache.ErrCacheMiss
}

func (noopSessionCache) Set(ctx context.Context, sessions []domain.ChatSession, ttl time.Duration) error {
	return nil
}

func (noopSessionCache) Invalidate(ctx context.Context) error { return nil }

type relayFixture struct {
	srv *httptest.Server
	svc service.ChatService
}

func newRelayFixture(t *testing.T) *relayFixture {
	t.Helper()

	gin.SetMode(gin.TestMode)

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

	wsCfg := config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	}

	h := hub.NewHub(wsCfg)
	go h.Run()

	svc := service.NewChatService(repository.NewGormChatRepository(db), h, noopSessionCache{}, time.Second, nil)

	r := gin.New()
	NewWSHandler(h, svc, wsCfg).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &relayFixture{srv: srv, svc: svc}
}

func (f *relayFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn, out interface{}) {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal frame %s: %v", data, err)
	}
}

func TestRelayEndToEnd(t *testing.T) {
	f := newRelayFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateSession(ctx, &domain.CreateSessionRequest{ID: "abc", Username: "alice"}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	// Admin joins first and gets the current snapshot.
	admin := f.dial(t)
	if err := admin.WriteJSON(domain.AdminJoinMessage{Type: domain.MsgTypeAdminJoin}); err != nil {
		t.Fatalf("admin join: %v", err)
	}
	var snapshot domain.AdminSessionsEvent
	readFrame(t, admin, &snapshot)
	if snapshot.Type != domain.MsgTypeAdminSessions || len(snapshot.Payload) != 1 || snapshot.Payload[0].ID != "abc" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	// Visitor joins their session.
	visitor := f.dial(t)
	if err := visitor.WriteJSON(domain.JoinSessionMessage{Type: domain.MsgTypeJoinSession, SessionID: "abc"}); err != nil {
		t.Fatalf("join session: %v", err)
	}
	var joined domain.SessionJoinedMessage
	readFrame(t, visitor, &joined)
	if joined.Type != domain.MsgTypeSessionJoined || joined.SessionID != "abc" {
		t.Fatalf("unexpected join confirmation: %+v", joined)
	}

	// Visitor submits a message; both ends see the same stored payload.
	if err := visitor.WriteJSON(domain.ChatMessageEvent{
		Type: domain.MsgTypeChatMessage,
		Payload: domain.SubmitMessageRequest{
			SessionID: "abc",
			Username:  "alice",
			Message:   "hi",
		},
	}); err != nil {
		t.Fatalf("send chat message: %v", err)
	}

	var echo, toAdmin domain.NewMessageEvent
	readFrame(t, visitor, &echo)
	readFrame(t, admin, &toAdmin)

	if echo.Type != domain.MsgTypeNewMessage || echo.Payload.Message != "hi" {
		t.Fatalf("unexpected echo: %+v", echo)
	}
	if toAdmin.Payload.ID != echo.Payload.ID {
		t.Fatalf("admin saw id %d, visitor saw %d", toAdmin.Payload.ID, echo.Payload.ID)
	}

	history, err := f.svc.History(ctx, "abc", 50)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != echo.Payload.ID || history[0].Message != "hi" {
		t.Fatalf("history does not match delivery: %+v", history)
	}
}

func TestRelayUnknownSessionError(t *testing.T) {
	f := newRelayFixture(t)

	visitor := f.dial(t)
	if err := visitor.WriteJSON(domain.ChatMessageEvent{
		Type: domain.MsgTypeChatMessage,
		Payload: domain.SubmitMessageRequest{
			SessionID: "missing",
			Username:  "alice",
			Message:   "hi",
		},
	}); err != nil {
		t.Fatalf("send chat message: %v", err)
	}

	var evt domain.ErrorMessage
	readFrame(t, visitor, &evt)
	if evt.Type != domain.MsgTypeError || evt.Code != domain.ErrCodeSessionNotFound {
		t.Fatalf("unexpected error event: %+v", evt)
	}

	// The connection survives the error.
	if err := visitor.WriteJSON(map[string]string{"type": domain.MsgTypePing}); err != nil {
		t.Fatalf("ping after error: %v", err)
	}
	var pong domain.BaseMessage
	readFrame(t, visitor, &pong)
	if pong.Type != domain.MsgTypePong {
		t.Fatalf("expected pong, got %+v", pong)
	}
}

func TestRelayMalformedEnvelope(t *testing.T) {
	f := newRelayFixture(t)

	visitor := f.dial(t)
	if err := visitor.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("send malformed frame: %v", err)
	}

	var evt domain.ErrorMessage
	readFrame(t, visitor, &evt)
	if evt.Type != domain.MsgTypeError || evt.Code != domain.ErrCodeBadRequest {
		t.Fatalf("unexpected error event: %+v", evt)
	}
}

func TestRelayUnknownMessageType(t *testing.T) {
	f := newRelayFixture(t)

	visitor := f.dial(t)
	if err := visitor.WriteJSON(map[string]string{"type": "bogus"}); err != nil {
		t.Fatalf("send unknown type: %v", err)
	}

	var evt domain.ErrorMessage
	readFrame(t, visitor, &evt)
	if evt.Type != domain.MsgTypeError || evt.Code != domain.ErrCodeBadRequest {
		t.Fatalf("unexpected error event: %+v", evt)
	}
}
