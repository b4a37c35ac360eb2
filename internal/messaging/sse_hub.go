package messaging

import (
	"log"
	"sync"

	"aduan-portal/internal/model"
)

type SSEClient struct {
	UserID  int64
	Channel chan *model.Notification
}

// SSEHub fans notifications out to every open event-stream a user has.
type SSEHub struct {
	clients    map[int64][]*SSEClient
	register   chan *SSEClient
	unregister chan *SSEClient
	broadcast  chan *model.Notification
	mu         sync.RWMutex
}

func NewSSEHub() *SSEHub {
	return &SSEHub{
		clients:    make(map[int64][]*SSEClient),
		register:   make(chan *SSEClient),
		unregister: make(chan *SSEClient),
		broadcast:  make(chan *model.Notification, 100),
	}
}

func (h *SSEHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			log.Printf("sse: client registered for user %d", client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			userClients := h.clients[client.UserID]
			for i, c := range userClients {
				if c == client {
					h.clients[client.UserID] = append(userClients[:i], userClients[i+1:]...)
					break
				}
			}
			h.mu.Unlock()
			close(client.Channel)
			log.Printf("sse: client unregistered for user %d", client.UserID)

		case notification := <-h.broadcast:
			h.mu.RLock()
			clients := h.clients[notification.UserID]
			for _, client := range clients {
				select {
				case client.Channel <- notification:
				default:
					// channel full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *SSEHub) RegisterClient(userID int64) *SSEClient {
	client := &SSEClient{
		UserID:  userID,
		Channel: make(chan *model.Notification, 10),
	}
	h.register <- client
	return client
}

func (h *SSEHub) UnregisterClient(client *SSEClient) {
	h.unregister <- client
}

func (h *SSEHub) SendToUser(notification *model.Notification) {
	h.broadcast <- notification
}
