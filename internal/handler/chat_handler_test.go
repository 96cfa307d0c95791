package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/config"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/hub"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/repository"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/service"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/jwt"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/middleware"
)

type httpFixture struct {
	router      *gin.Engine
	adminToken  string
	chatService service.ChatService
}

func newHTTPFixture(t *testing.T) *httpFixture {
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

	jwtManager, err := jwt.NewManager(15*time.Minute, time.Hour, "test")
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}
	accessToken, _, _, _, err := jwtManager.GenerateTokenPair("admin-1", "admin@example.com", "admin")
	if err != nil {
		t.Fatalf("token pair: %v", err)
	}

	svc := service.NewChatService(repository.NewGormChatRepository(db), h, noopSessionCache{}, time.Second, nil)

	r := gin.New()
	NewChatHandler(svc, middleware.NewAuthMiddleware(jwtManager)).RegisterRoutes(r)

	return &httpFixture{router: r, adminToken: accessToken, chatService: svc}
}

func (f *httpFixture) request(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreateSessionHTTP(t *testing.T) {
	f := newHTTPFixture(t)

	body := domain.CreateSessionRequest{ID: "abc", Username: "alice"}

	w := f.request(t, http.MethodPost, "/api/v1/chat/sessions", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Same id again is a conflict.
	w = f.request(t, http.MethodPost, "/api/v1/chat/sessions", body, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmitMessageHTTP(t *testing.T) {
	f := newHTTPFixture(t)

	w := f.request(t, http.MethodPost, "/api/v1/chat/sessions", domain.CreateSessionRequest{ID: "abc", Username: "alice"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: %d", w.Code)
	}

	w = f.request(t, http.MethodPost, "/api/v1/chat/messages", domain.SubmitMessageRequest{
		SessionID: "abc",
		Username:  "alice",
		Message:   "hi",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = f.request(t, http.MethodPost, "/api/v1/chat/messages", domain.SubmitMessageRequest{
		SessionID: "missing",
		Username:  "alice",
		Message:   "hi",
	}, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", w.Code)
	}

	w = f.request(t, http.MethodPost, "/api/v1/chat/messages", domain.SubmitMessageRequest{
		SessionID: "abc",
		Username:  "alice",
		Message:   "   ",
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank message, got %d", w.Code)
	}
}

func TestGetMessagesHTTP(t *testing.T) {
	f := newHTTPFixture(t)

	f.request(t, http.MethodPost, "/api/v1/chat/sessions", domain.CreateSessionRequest{ID: "abc", Username: "alice"}, "")
	for _, text := range []string{"one", "two", "three"} {
		f.request(t, http.MethodPost, "/api/v1/chat/messages", domain.SubmitMessageRequest{
			SessionID: "abc",
			Username:  "alice",
			Message:   text,
		}, "")
	}

	w := f.request(t, http.MethodGet, "/api/v1/chat/sessions/abc/messages", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var envelope struct {
		Success bool                 `json:"success"`
		Data    []domain.ChatMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Success || len(envelope.Data) != 3 {
		t.Fatalf("unexpected envelope: %s", w.Body.String())
	}
	for i, want := range []string{"one", "two", "three"} {
		if envelope.Data[i].Message != want {
			t.Errorf("data[%d] = %q, want %q", i, envelope.Data[i].Message, want)
		}
	}

	w = f.request(t, http.MethodGet, "/api/v1/chat/sessions/abc/messages?limit=0", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for limit=0, got %d", w.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	f := newHTTPFixture(t)

	f.request(t, http.MethodPost, "/api/v1/chat/sessions", domain.CreateSessionRequest{ID: "abc", Username: "alice"}, "")

	w := f.request(t, http.MethodGet, "/api/v1/chat/sessions", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w = f.request(t, http.MethodGet, "/api/v1/chat/sessions", nil, f.adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", w.Code, w.Body.String())
	}

	w = f.request(t, http.MethodDelete, "/api/v1/chat/sessions/abc", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w = f.request(t, http.MethodDelete, "/api/v1/chat/sessions/abc", nil, f.adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", w.Code, w.Body.String())
	}

	w = f.request(t, http.MethodDelete, "/api/v1/chat/sessions/abc", nil, f.adminToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}
