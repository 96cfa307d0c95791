package hub

import (
	"encoding/json"
	"sync"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/internal/config"
	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/log"
)

type roleKind int

const (
	roleUnbound roleKind = iota
	roleVisitor
	roleAdmin
)

// role is a tagged variant: a connection is either unbound, a visitor
// bound to exactly one session, or an admin. There is no "admin with a
// session id" state.
type role struct {
	kind      roleKind
	sessionID string // visitor only
}

// Hub is the authoritative in-memory registry of live connections and
// their role. It has process lifetime and is never persisted.
type Hub struct {
	clients  map[string]*Client            // clientID -> client
	roles    map[string]role               // clientID -> role
	sessions map[string]map[string]*Client // sessionID -> clientID -> client
	admins   map[string]*Client            // clientID -> client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *outbound

	mu     sync.RWMutex
	config config.WebSocketConfig
}

// outbound is one fan-out pass: session members plus all admins, or
// admins only when sessionID is empty.
type outbound struct {
	sessionID string
	message   []byte
}

func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		roles:      make(map[string]role),
		sessions:   make(map[string]map[string]*Client),
		admins:     make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *outbound, 256),
		config:     cfg,
	}
}

// Run owns the register/unregister/broadcast loop. Broadcasts pass
// through a single channel, so delivery order per session matches the
// order broadcasts were enqueued.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; !ok {
				h.clients[client.ID] = client
				h.roles[client.ID] = role{kind: roleUnbound}
			}
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldClientID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				h.dropLocked(client)
				delete(h.clients, client.ID)
				delete(h.roles, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldClientID, client.ID).Msg("client unregistered")

		case msg := <-h.broadcast:
			h.mu.RLock()
			if msg.sessionID != "" {
				for _, client := range h.sessions[msg.sessionID] {
					h.deliver(client, msg.message)
				}
			}
			for _, client := range h.admins {
				h.deliver(client, msg.message)
			}
			h.mu.RUnlock()
		}
	}
}

// deliver is fire-and-forget: a recipient with a full buffer is dropped
// from the registry instead of stalling the fan-out pass.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		go h.Unregister(client)
	}
}

// dropLocked removes a client from whichever role table it occupies.
// Caller holds h.mu.
func (h *Hub) dropLocked(client *Client) {
	r := h.roles[client.ID]
	switch r.kind {
	case roleVisitor:
		if members, ok := h.sessions[r.sessionID]; ok {
			delete(members, client.ID)
			if len(members) == 0 {
				delete(h.sessions, r.sessionID)
			}
		}
	case roleAdmin:
		delete(h.admins, client.ID)
	}
}

// Register adds an unbound connection. A socket registers at most once.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes the connection record. Safe to call multiple
// times; absent clients are a no-op.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BindSession transitions a connection to visitor state bound to the
// given session. Rebinding to a new id replaces the old binding.
func (h *Hub) BindSession(client *Client, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	h.dropLocked(client)
	if _, ok := h.sessions[sessionID]; !ok {
		h.sessions[sessionID] = make(map[string]*Client)
	}
	h.sessions[sessionID][client.ID] = client
	h.roles[client.ID] = role{kind: roleVisitor, sessionID: sessionID}

	l := log.L()
	l.Info().Str(log.FieldClientID, client.ID).Str(log.FieldSessionID, sessionID).Msg("client bound to session")
}

// MarkAdmin transitions a connection to admin state.
func (h *Hub) MarkAdmin(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	h.dropLocked(client)
	h.admins[client.ID] = client
	h.roles[client.ID] = role{kind: roleAdmin}

	l := log.L()
	l.Info().Str(log.FieldClientID, client.ID).Msg("client marked admin")
}

// ClientsForSession returns all connections bound to the session.
func (h *Hub) ClientsForSession(sessionID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := h.sessions[sessionID]
	out := make([]*Client, 0, len(members))
	for _, client := range members {
		out = append(out, client)
	}
	return out
}

// AdminClients returns all admin connections.
func (h *Hub) AdminClients() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*Client, 0, len(h.admins))
	for _, client := range h.admins {
		out = append(out, client)
	}
	return out
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastToSession delivers a message to every connection bound to
// the session plus every admin connection.
func (h *Hub) BroadcastToSession(sessionID string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.broadcast <- &outbound{sessionID: sessionID, message: data}
	return nil
}

// BroadcastToAdmins delivers a message to every admin connection.
func (h *Hub) BroadcastToAdmins(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.broadcast <- &outbound{message: data}
	return nil
}
