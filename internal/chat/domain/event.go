package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventName push event name
type EventName string

const (
	// EventNewMessage a message was created in a chat
	EventNewMessage EventName = "newMessage"
	// EventNewReadPosition a member moved their watermark in a chat
	EventNewReadPosition EventName = "newReadPosition"
)

// Event push event addressed to Recipients
type Event struct {
	ID         string          `json:"id" bson:"_id"`
	Name       EventName       `json:"name" bson:"name"`
	ChatID     uint            `json:"chatId" bson:"chat_id"`
	ActorID    uint            `json:"actorId" bson:"actor_id"`
	Recipients []uint          `json:"recipients" bson:"recipients"`
	Payload    json.RawMessage `json:"payload" bson:"payload"`
	CreatedAt  time.Time       `json:"createdAt" bson:"created_at"`
}

// NewEvent marshal payload into an event with a fresh id
func NewEvent(name EventName, chatID, actorID uint, recipients []uint, payload interface{}) (Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.NewString(),
		Name:       name,
		ChatID:     chatID,
		ActorID:    actorID,
		Recipients: recipients,
		Payload:    b,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
