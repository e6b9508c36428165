package domain

import "time"

// User definition user
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Group definition group, direct message groups hold exactly two members
type Group struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:128;not null" json:"name"`
	IsDirectMessage bool      `gorm:"not null;default:false" json:"isDirectMessage"`
	CreatedAt       time.Time `json:"createdAt"`

	Chats   []Chat        `gorm:"foreignKey:GroupID" json:"chats,omitempty"`
	Members []GroupMember `gorm:"foreignKey:GroupID" json:"-"`
}

// GroupMember definition group membership
type GroupMember struct {
	GroupID   uint      `gorm:"primaryKey" json:"groupId"`
	UserID    uint      `gorm:"primaryKey;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Chat definition chat, belongs to exactly one group
type Chat struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GroupID     uint      `gorm:"index;not null" json:"groupId"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"size:512" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DirectMessageMembers is the fixed member count of a direct message group
const DirectMessageMembers = 2

// DefaultDirectMessageChats chats created with every direct message group
var DefaultDirectMessageChats = []Chat{
	{Name: "general", Description: "Conversation and chatting"},
	{Name: "music", Description: "Share and discuss songs, albums, artists"},
}
