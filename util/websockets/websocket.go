package websockets

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// WebSocketManager handles WebSocket connections and messaging
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketManager initializes a WebSocketManager
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan placeMessage),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
	}
}

// Run starts the WebSocket manager
func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.Conn] = client
			manager.mu.Unlock()

		case conn := <-manager.unregister:
			manager.mu.Lock()
			if client, exists := manager.clients[conn]; exists {
				delete(manager.clients, conn)
				conn.Close()
				log.Printf("Client %s disconnected", client.UserID)
			}
			manager.mu.Unlock()

		case message := <-manager.broadcast:
			manager.mu.Lock()
			for _, client := range manager.clients {
				if !client.subscribedTo(message.placeID) {
					continue
				}
				if err := client.Conn.WriteMessage(websocket.TextMessage, message.payload); err != nil {
					client.Conn.Close()
					delete(manager.clients, client.Conn)
				}
			}
			manager.mu.Unlock()
		}
	}
}

func (c *Client) subscribedTo(placeID string) bool {
	if len(c.Places) == 0 {
		return true
	}
	return c.Places[placeID]
}

// subscribe and unsubscribe mutate the client's place set, which the
// broadcast path reads under the manager lock, so they take the same lock.
func (manager *WebSocketManager) subscribe(client *Client, userID, placeID string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if userID != "" {
		client.UserID = userID
	}
	if placeID != "" {
		client.Places[placeID] = true
	}
}

func (manager *WebSocketManager) unsubscribe(client *Client, placeID string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	delete(client.Places, placeID)
}

// HandleConnections upgrades HTTP requests to WebSocket connections
func (manager *WebSocketManager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket Upgrade Error:", err)
		return
	}

	client := &Client{Conn: conn, Places: make(map[string]bool)}
	manager.register <- client

	defer func() {
		manager.unregister <- conn
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			manager.unregister <- conn
			break
		}

		var message Message
		if err := json.Unmarshal(msg, &message); err != nil {
			log.Println("Invalid JSON:", err)
			continue
		}

		switch message.Type {
		case MsgTypeSubscribe:
			manager.subscribe(client, message.UserID, message.PlaceID)

		case MsgTypeUnsubscribe:
			manager.unsubscribe(client, message.PlaceID)
		}
	}
}

// BroadcastCrowdUpdate pushes a crowd update to clients subscribed to the place.
func (manager *WebSocketManager) BroadcastCrowdUpdate(update CrowdUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		log.Println("marshalling crowd update:", err)
		return
	}
	manager.broadcast <- placeMessage{placeID: update.PlaceID, payload: payload}
}
