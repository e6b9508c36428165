package domain

import "encoding/json"

// Action websocket request action
type Action string

const (
	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// ReadMessage websocket action read_message
	ReadMessage Action = "read_message"
	// GetUnread websocket action get_unread
	GetUnread Action = "get_unread"
	// NotifyEvent websocket action notify_event, server push only
	NotifyEvent Action = "notify_event"
)

// WSRequest websocket Request
type WSRequest struct {
	Action    string          `json:"action"`
	ChatID    uint            `json:"chat_id"`
	MessageID uint            `json:"message_id"`
	Type      ContentType     `json:"type"`
	Data      json.RawMessage `json:"data"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
