package domain

import "time"

// Message definition message, immutable once created
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    uint      `gorm:"not null;index:idx_messages_chat_created,priority:1" json:"chatId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	ContentID uint      `gorm:"not null" json:"-"`
	CreatedAt time.Time `gorm:"index:idx_messages_chat_created,priority:2" json:"createdAt"`

	Content       Content        `gorm:"foreignKey:ContentID" json:"content"`
	ReadPositions []ReadPosition `gorm:"foreignKey:MessageID" json:"readPositions,omitempty"`
}

// ReadPosition definition the watermark of a user in a chat.
// There is at most one row per (UserID, ChatID).
type ReadPosition struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_read_positions_user_chat" json:"userId"`
	ChatID     uint      `gorm:"not null;uniqueIndex:idx_read_positions_user_chat" json:"chatId"`
	MessageID  uint      `gorm:"not null;index" json:"messageId"`
	AtChatTime time.Time `gorm:"not null" json:"atChatTime"`
}

// Before report whether m sorts before o in chat order (created_at, id)
func (m Message) Before(o Message) bool {
	if m.CreatedAt.Equal(o.CreatedAt) {
		return m.ID < o.ID
	}
	return m.CreatedAt.Before(o.CreatedAt)
}
