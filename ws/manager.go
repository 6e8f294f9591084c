package ws

import (
	"sync"

	"messenger_backend/internal/logger"
)

// ParticipantSource resolves a chat to its member ids. Satisfied by the
// participant repository.
type ParticipantSource interface {
	MemberIDs(chatID string) ([]string, error)
}

// PresenceRecorder persists the moment a user goes offline. Satisfied by the
// user repository.
type PresenceRecorder interface {
	UpdateLastSeen(userID string) error
}

// Manager is the presence directory: at most one live connection per user id,
// a newer connection displacing the older one. It also fans events out to
// chat members.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	participants ParticipantSource
	presence     PresenceRecorder
}

func NewManager(participants ParticipantSource, presence PresenceRecorder) *Manager {
	return &Manager{
		clients:      make(map[string]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		participants: participants,
		presence:     presence,
	}
}

// Run owns the clients map. Call it once, in its own goroutine.
func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			old, replaced := m.clients[client.ID]
			m.clients[client.ID] = client
			m.mu.Unlock()

			if replaced {
				// Last connect wins: the stale connection is dropped
				// without an offline broadcast, the user never left.
				old.closeSend()
				logger.Info("displaced stale connection", "user_id", client.ID)
			} else {
				m.broadcastPresence(client.ID, OutgoingEvent{
					Event: EventUserOnline,
					Data:  presencePayload{UserID: client.ID},
				})
			}
			logger.Info("client connected", "user_id", client.ID, "total", m.count())

		case client := <-m.unregister:
			m.mu.Lock()
			current, ok := m.clients[client.ID]
			if ok && current == client {
				delete(m.clients, client.ID)
			}
			m.mu.Unlock()

			client.closeSend()

			if ok && current == client {
				if m.presence != nil {
					if err := m.presence.UpdateLastSeen(client.ID); err != nil {
						logger.Warn("failed to record last_seen", "user_id", client.ID, "error", err)
					}
				}
				m.broadcastPresence(client.ID, OutgoingEvent{
					Event: EventUserOffline,
					Data:  presencePayload{UserID: client.ID},
				})
				logger.Info("client disconnected", "user_id", client.ID, "total", m.count())
			}
		}
	}
}

func (m *Manager) Register(c *Client)   { m.register <- c }
func (m *Manager) Unregister(c *Client) { m.unregister <- c }

func (m *Manager) IsOnline(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

// Resolve returns the subset of userIDs currently connected.
func (m *Manager) Resolve(userIDs []string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	online := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := m.clients[id]; ok {
			online = append(online, id)
		}
	}
	return online
}

// SendToUser delivers the event to the user's connection if there is one.
// Offline users are silently skipped.
func (m *Manager) SendToUser(userID string, event OutgoingEvent) {
	m.mu.RLock()
	client, ok := m.clients[userID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	m.deliver(client, event)
}

// deliver hands the event to the client's writer. A failed send means the
// connection is closed or stuck; either way it gets dropped.
func (m *Manager) deliver(c *Client, event OutgoingEvent) {
	if !c.trySend(event) {
		go func() { m.unregister <- c }()
		logger.Warn("dropping client with unavailable send buffer", "user_id", c.ID)
	}
}

// BroadcastToChat sends the event to every online member of the chat.
// Dispatch failures never affect the persisted state that triggered them.
func (m *Manager) BroadcastToChat(chatID string, event OutgoingEvent) {
	memberIDs, err := m.participants.MemberIDs(chatID)
	if err != nil {
		logger.Error("failed to resolve chat members for dispatch", "chat_id", chatID, "error", err)
		return
	}
	for _, id := range memberIDs {
		m.SendToUser(id, event)
	}
}

// BroadcastToAll sends the event to every connected client.
func (m *Manager) BroadcastToAll(event OutgoingEvent) {
	m.broadcastPresence("", event)
}

// broadcastPresence sends the event to every client except excludeID; a user
// does not need to hear about their own presence change.
func (m *Manager) broadcastPresence(excludeID string, event OutgoingEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, client := range m.clients {
		if id == excludeID {
			continue
		}
		m.deliver(client, event)
	}
}

func (m *Manager) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
