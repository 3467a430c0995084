package websockets

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Message types
const (
	MsgTypeSubscribe   = "subscribe"
	MsgTypeUnsubscribe = "unsubscribe"
	MsgTypeCrowdUpdate = "crowd_update"
)

// Client represents a connected WebSocket user
type Client struct {
	Conn   *websocket.Conn
	UserID string
	// Places the client wants crowd updates for. Empty means all places.
	Places map[string]bool
}

type WebSocketManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan placeMessage
	register   chan *Client
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

// Message is the envelope clients send over the socket.
type Message struct {
	Type    string `json:"type"`
	UserID  string `json:"user_id,omitempty"`
	PlaceID string `json:"place_id,omitempty"`
}

type placeMessage struct {
	placeID string
	payload []byte
}

// CrowdUpdate is pushed to subscribers when a new report lands for a place.
type CrowdUpdate struct {
	Type           string `json:"type"` // always crowd_update
	PlaceID        string `json:"place_id"`
	CrowdLevel     string `json:"crowd_level"`
	ReportCount    int    `json:"report_count"`
	LastReportTime string `json:"last_report_time,omitempty"`
}
