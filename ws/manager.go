package ws

import (
	"sync"

	"petnest_backend/internal/logger"
	"petnest_backend/internal/services"
)

// Manager tracks one connection per user and relays chat events between
// them. Registration and teardown flow through channels so the Run loop is
// the only writer of the client map mutations that matter.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	messages *services.MessageService
}

func NewManager(messages *services.MessageService) *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		messages:   messages,
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			// A reconnect replaces the previous connection.
			if old, ok := m.clients[client.UserID]; ok {
				close(old.Send)
			}
			m.clients[client.UserID] = client
			m.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.UserID, "total", m.ClientCount())

		case client := <-m.unregister:
			m.mu.Lock()
			if current, ok := m.clients[client.UserID]; ok && current == client {
				close(client.Send)
				delete(m.clients, client.UserID)
			}
			m.mu.Unlock()
			logger.Debug("ws client unregistered", "user_id", client.UserID, "total", m.ClientCount())
		}
	}
}

// SendToUser delivers an event to a connected user. Best effort: a missing
// or saturated connection drops the event, REST polling remains the source
// of truth. The read lock is held across the send; Run closes Send channels
// under the write lock, so a send can never hit a channel mid-close.
func (m *Manager) SendToUser(userID string, event any) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	client, ok := m.clients[userID]
	if !ok {
		return
	}

	select {
	case client.Send <- event:
	default:
		logger.Warn("ws send channel full, dropping client", "user_id", userID)
		go func() { m.unregister <- client }()
	}
}

// deliver pushes an event to a specific client handle. A handle replaced by
// a reconnect or already unregistered is skipped, its channel may be closed.
func (m *Manager) deliver(client *Client, event any) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.clients[client.UserID] != client {
		return
	}

	select {
	case client.Send <- event:
	default:
	}
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[userID]
	return ok
}
