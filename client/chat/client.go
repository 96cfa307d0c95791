// Package chat provides a visitor-side client for the support chat
// relay. It keeps a WebSocket open to the relay, rejoins its session
// after every drop, and deduplicates redelivered messages so callers
// see each message exactly once.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/domain"
)

// State is the client's connection state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateJoined
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// ErrClosed is returned from operations on a closed client.
var ErrClosed = errors.New("chat client is closed")

// RetryPolicy controls the reconnect cadence. A fixed interval with a
// small random jitter is enough for a single relay endpoint.
type RetryPolicy struct {
	Interval  time.Duration
	JitterCap time.Duration
}

// DefaultRetryPolicy retries every 3 seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Interval: 3 * time.Second}
}

func (p RetryPolicy) wait() time.Duration {
	d := p.Interval
	if d <= 0 {
		d = 3 * time.Second
	}
	if p.JitterCap > 0 {
		d += time.Duration(rand.Int63n(int64(p.JitterCap)))
	}
	return d
}

// dedupWindow is how far apart two messages with the same text and
// sender can be and still count as one redelivery.
const dedupWindow = 1000 * time.Millisecond

// Options configures a Client.
type Options struct {
	// BaseURL is the relay's HTTP base, e.g. "http://localhost:8080".
	BaseURL string
	// WSURL is the WebSocket endpoint, e.g. "ws://localhost:8080/chat/ws".
	WSURL string
	// Username shown to the admin console.
	Username string
	// SessionID pins an existing session; empty generates a fresh one.
	SessionID string

	Retry      RetryPolicy
	HTTPClient *http.Client
	Dialer     *websocket.Dialer
	Logger     zerolog.Logger

	// OnMessage is invoked for each deduplicated inbound message.
	OnMessage func(msg domain.ChatMessage)
	// OnStateChange is invoked whenever the connection state moves.
	OnStateChange func(s State)
}

// Client is the visitor-side chat relay client.
type Client struct {
	opts   Options
	logger zerolog.Logger

	mu        sync.Mutex
	state     State
	sessionID string
	conn      *websocket.Conn
	history   []domain.ChatMessage

	done chan struct{}
}

// New creates a client. Call Run to connect.
func New(opts Options) *Client {
	if opts.Retry.Interval <= 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	return &Client{
		opts:      opts,
		logger:    opts.Logger,
		state:     StateDisconnected,
		sessionID: sessionID,
		done:      make(chan struct{}),
	}
}

// SessionID returns the session id the client joins with. It is stable
// across reconnects and discarded on Close.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// History returns a copy of the messages seen so far, in arrival order.
func (c *Client) History() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ChatMessage, len(c.history))
	copy(out, c.history)
	return out
}

// CreateSession registers the session with the relay over HTTP. Safe to
// call before Run; a conflict on an already-registered id is not an
// error for the caller, the session simply already exists.
func (c *Client) CreateSession(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return ErrClosed
	}
	req := domain.CreateSessionRequest{
		ID:       c.sessionID,
		Username: c.opts.Username,
		IsActive: true,
	}
	c.mu.Unlock()

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/api/v1/chat/sessions", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.opts.HTTPClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusConflict:
		return nil
	default:
		return fmt.Errorf("create session: unexpected status %d", resp.StatusCode)
	}
}

// Run connects and keeps the connection alive until ctx is cancelled or
// Close is called. Every drop is followed by a fresh dial and a rejoin
// with the same session id.
func (c *Client) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		default:
		}

		if err := c.connectAndServe(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("chat connection lost")
		}

		if c.State() == StateClosed {
			return
		}
		c.setState(StateDisconnected)

		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-time.After(c.opts.Retry.wait()):
		}
	}
}

// Send submits a chat message over the current connection.
func (c *Client) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return ErrClosed
	}
	if c.state != StateJoined || c.conn == nil {
		return errors.New("not joined")
	}

	evt := domain.ChatMessageEvent{
		Type: domain.MsgTypeChatMessage,
		Payload: domain.SubmitMessageRequest{
			SessionID: c.sessionID,
			Username:  c.opts.Username,
			Message:   text,
		},
	}
	return c.conn.WriteJSON(evt)
}

// Close ends the conversation for good: the connection is torn down and
// the session id and local history are discarded. The client cannot be
// reused afterwards.
func (c *Client) Close() {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	c.sessionID = ""
	c.history = nil
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	close(c.done)
	if conn != nil {
		conn.Close()
	}
	if c.opts.OnStateChange != nil {
		c.opts.OnStateChange(StateClosed)
	}
}

func (c *Client) connectAndServe(ctx context.Context) error {
	c.setState(StateConnecting)

	conn, _, err := c.opts.Dialer.DialContext(ctx, c.opts.WSURL, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		conn.Close()
		return ErrClosed
	}
	c.conn = conn
	sessionID := c.sessionID
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		conn.Close()
	}()

	join := domain.JoinSessionMessage{
		Type:      domain.MsgTypeJoinSession,
		SessionID: sessionID,
	}
	if err := conn.WriteJSON(join); err != nil {
		return err
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.handleFrame(data)
	}
}

func (c *Client) handleFrame(data []byte) {
	var base domain.BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		c.logger.Warn().Err(err).Msg("unreadable frame from relay")
		return
	}

	switch base.Type {
	case domain.MsgTypeSessionJoined:
		c.setState(StateJoined)

	case domain.MsgTypeNewMessage:
		var evt domain.NewMessageEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			c.logger.Warn().Err(err).Msg("unreadable new_message frame")
			return
		}
		c.accept(evt.Payload)

	case domain.MsgTypeError:
		var evt domain.ErrorMessage
		if err := json.Unmarshal(data, &evt); err != nil {
			return
		}
		c.logger.Warn().Str("code", evt.Code).Str("message", evt.Message).Msg("relay error")

	case domain.MsgTypePong:
		// keepalive reply, nothing to do

	default:
		// frames for other audiences (admin events) are ignored
	}
}

// accept appends a message to the local history unless it is a
// redelivery of one already seen.
func (c *Client) accept(msg domain.ChatMessage) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	if c.isDuplicateLocked(msg) {
		c.mu.Unlock()
		return
	}
	c.history = append(c.history, msg)
	handler := c.opts.OnMessage
	c.mu.Unlock()

	if handler != nil {
		handler(msg)
	}
}

// isDuplicateLocked reports whether msg was already delivered. A match
// on the store-assigned id is definitive; a match on text and sender
// within dedupWindow catches echoes that raced a reconnect before the
// store assigned the id the client saw.
func (c *Client) isDuplicateLocked(msg domain.ChatMessage) bool {
	for i := len(c.history) - 1; i >= 0; i-- {
		prev := c.history[i]
		if prev.ID == msg.ID {
			return true
		}
		if prev.Message == msg.Message && prev.Username == msg.Username {
			delta := msg.CreatedAt.Sub(prev.CreatedAt)
			if delta < 0 {
				delta = -delta
			}
			if delta < dedupWindow {
				return true
			}
		}
	}
	return false
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	if c.state == StateClosed || c.state == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	c.mu.Unlock()

	if c.opts.OnStateChange != nil {
		c.opts.OnStateChange(s)
	}
}
